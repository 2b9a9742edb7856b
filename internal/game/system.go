package game

import (
	"context"
	"strings"

	"github.com/game-legend123/Aetheria-Adventures/internal/models"
	"github.com/game-legend123/Aetheria-Adventures/internal/oracle"
)

const drainedNarration = "The intervention drains the last of your strength. Your adventure is over."

// SystemResult is the outcome of one system-channel message. Response goes
// to the system chat surface, not the main scene log.
type SystemResult struct {
	Response   string
	State      models.PlayerState
	StoryReset bool
	Ended      bool
}

// SendSystemMessage runs one message through the system oracle. The per-
// message HP cost is debited before the call and can itself end the game;
// on oracle failure the debit stands unless the refund policy is on. State
// patches are committed whole or not at all.
func (g *Game) SendSystemMessage(ctx context.Context, text string) (SystemResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return SystemResult{}, ErrEmptyInput
	}

	st := g.session.State()
	if st.Status.Ended() {
		return SystemResult{}, ErrSessionEnded
	}

	local := st.Clone()
	cost := g.policy.SystemMessageCost
	if cost > 0 {
		local.HP -= cost
		if local.HP <= 0 {
			local.HP = 0
			local.Status = models.StatusDefeated
			local.Append(models.SpeakerSystem, drainedNarration)
			g.session.Commit(local)
			g.log.Info("system message cost ended the game")
			return SystemResult{Response: drainedNarration, State: local, Ended: true}, nil
		}
	}

	resp, err := g.deps.System.SystemRequest(ctx, oracle.SystemInput{
		UserMessage:      text,
		HP:               local.HP,
		Skills:           local.Skills,
		SkillPoints:      local.SkillPoints,
		Inventory:        local.Inventory,
		Score:            local.Score,
		Quest:            local.Quest,
		SceneDescription: local.LastScene,
	})
	if err != nil {
		g.commitDebit(local, cost)
		g.log.Error("system request failed", "error", err)
		return SystemResult{}, &OracleError{Op: "system request", Err: err}
	}

	if resp.StateUpdates == nil {
		// Informational reply: the only committed change is the debit.
		if cost > 0 {
			g.session.Commit(local)
		}
		return SystemResult{Response: resp.Response, State: local}, nil
	}

	if resp.StateUpdates.NewStoryPrompt != "" {
		return g.resetStory(ctx, local, cost, resp)
	}

	return g.applyPatch(local, cost, resp)
}

// resetStory carries out the confirmed half of the two-phase reset: a new
// opening is fetched and the whole session is replaced. On failure the
// player stays in their old, unfinished story.
func (g *Game) resetStory(ctx context.Context, local models.PlayerState, cost int, resp *oracle.SystemResponse) (SystemResult, error) {
	opening, err := g.deps.Starter.StartAdventure(ctx, resp.StateUpdates.NewStoryPrompt)
	if err != nil {
		g.commitDebit(local, cost)
		g.log.Error("story reset failed", "error", err)
		return SystemResult{}, &OracleError{Op: "start adventure", Err: err}
	}
	if len(opening.Narration) == 0 {
		g.commitDebit(local, cost)
		return SystemResult{}, &OracleError{Op: "start adventure", Err: errNoNarration}
	}

	fresh := g.newStoryState(opening)
	g.session.Reset(fresh)
	g.log.Info("story reset", "quest", opening.QuestTitle)

	return SystemResult{Response: resp.Response, State: fresh, StoryReset: true}, nil
}

// applyPatch commits a negotiated trade as a full stat replacement.
func (g *Game) applyPatch(local models.PlayerState, cost int, resp *oracle.SystemResponse) (SystemResult, error) {
	patch := resp.StateUpdates
	if patch.Score < 0 {
		// Overspending is rejected, not clamped; only the debit stands.
		g.commitDebit(local, cost)
		return SystemResult{}, &OracleError{Op: "system request", Err: errNegativeScore}
	}

	local.HP = patch.HP
	local.Score = patch.Score
	local.Inventory = patch.Inventory
	switch g.profile.Mode {
	case models.SkillModePoints:
		local.SkillPoints = patch.SkillPoints
	default:
		local.Skills = patch.Skills
	}

	ended := false
	if local.HP <= 0 {
		local.HP = 0
		local.Status = models.StatusDefeated
		local.Append(models.SpeakerSystem, drainedNarration)
		ended = true
	}

	g.session.Commit(local)
	g.log.Info("system patch committed", "hp", local.HP, "score", local.Score)

	return SystemResult{Response: resp.Response, State: local, Ended: ended}, nil
}

// commitDebit makes the HP cost stick after a failed call, unless the
// refund policy is on.
func (g *Game) commitDebit(local models.PlayerState, cost int) {
	if cost > 0 && !g.policy.RefundSystemCost {
		g.session.Commit(local)
	}
}
