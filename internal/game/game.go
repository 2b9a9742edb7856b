// Package game holds the session state machine: the turn orchestrator, the
// system channel, and the two-phase story reset. Every operation either
// fully commits a new PlayerState or leaves the previous one untouched.
package game

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/game-legend123/Aetheria-Adventures/internal/models"
	"github.com/game-legend123/Aetheria-Adventures/internal/oracle"
)

const minPromptLen = 10

// Policy holds the tunable rules around state commits.
type Policy struct {
	// SystemMessageCost is the HP price of one system-channel message.
	// Zero disables the cost.
	SystemMessageCost int
	// RefundSystemCost refunds the HP cost when the system oracle call
	// fails. Off by default: meta-interference has a price.
	RefundSystemCost bool
	// ClampHP caps committed HP at the profile's starting value. Off by
	// default: trades and quest rewards may push HP above it.
	ClampHP bool
}

// Deps are the external collaborators the game consumes.
type Deps struct {
	Narrator    oracle.Narrator
	System      oracle.System
	Starter     oracle.Starter
	Illustrator oracle.Illustrator // optional
}

// Game orchestrates one player's session.
type Game struct {
	session *Session
	deps    Deps
	profile models.StatProfile
	policy  Policy
	log     *slog.Logger
}

// New creates a game with an empty session. Start must be called before
// turns are taken.
func New(deps Deps, profile models.StatProfile, policy Policy, log *slog.Logger) *Game {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Game{
		session: NewSession(models.NewPlayerState(profile)),
		deps:    deps,
		profile: profile,
		policy:  policy,
		log:     log,
	}
}

// Resume creates a game over a previously saved state.
func Resume(deps Deps, profile models.StatProfile, policy Policy, log *slog.Logger, state models.PlayerState) *Game {
	g := New(deps, profile, policy, log)
	g.session.Commit(state)
	return g
}

// State returns a copy of the committed player state.
func (g *Game) State() models.PlayerState {
	return g.session.State()
}

// Profile returns the stat profile this game runs under.
func (g *Game) Profile() models.StatProfile {
	return g.profile
}

// StartResult is the outcome of starting (or restarting) an adventure.
type StartResult struct {
	Narration []string
	State     models.PlayerState
}

// Start begins a brand-new adventure from the player's prompt, replacing
// whatever state the session held. On oracle failure nothing is replaced.
func (g *Game) Start(ctx context.Context, prompt string) (StartResult, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return StartResult{}, ErrEmptyInput
	}
	if len([]rune(prompt)) < minPromptLen {
		return StartResult{}, ErrPromptTooShort
	}

	opening, err := g.deps.Starter.StartAdventure(ctx, prompt)
	if err != nil {
		g.log.Error("start adventure failed", "error", err)
		return StartResult{}, &OracleError{Op: "start adventure", Err: err}
	}
	if len(opening.Narration) == 0 {
		return StartResult{}, &OracleError{Op: "start adventure", Err: errNoNarration}
	}

	next := g.newStoryState(opening)
	g.session.Reset(next)
	g.log.Info("adventure started", "quest", opening.QuestTitle)

	return StartResult{Narration: opening.Narration, State: next}, nil
}

// newStoryState builds the fresh PlayerState for an opening: profile
// defaults, the new quest and skills, and a scene log seeded with the
// opening narration.
func (g *Game) newStoryState(opening *oracle.Opening) models.PlayerState {
	next := models.NewPlayerState(g.profile)
	if g.profile.Mode == models.SkillModeText {
		next.Skills = opening.InitialSkills
	}
	if opening.QuestTitle != "" && opening.QuestObjective != "" {
		next.Quest = &models.Quest{Title: opening.QuestTitle, Objective: opening.QuestObjective}
	}
	for _, para := range opening.Narration {
		next.Append(models.SpeakerNarrator, para)
	}
	next.LastScene = strings.Join(opening.Narration, "\n\n")
	return next
}

// Illustrate renders the given scene description, best-effort. Failures are
// logged and swallowed; the empty string means no image. It never touches
// the session state.
func (g *Game) Illustrate(ctx context.Context, sceneDescription string) string {
	if g.deps.Illustrator == nil || sceneDescription == "" {
		return ""
	}
	ref, err := g.deps.Illustrator.Illustrate(ctx, sceneDescription)
	if err != nil {
		g.log.Warn("scene illustration failed", "error", err)
		return ""
	}
	return ref
}

// Save persists the current session under the given name.
func (g *Game) Save(name string) error {
	saved := &models.SavedGame{Profile: g.profile, State: g.session.State()}
	return saved.Save(name)
}
