package game

import (
	"context"
	"fmt"
	"strings"

	"github.com/game-legend123/Aetheria-Adventures/internal/models"
	"github.com/game-legend123/Aetheria-Adventures/internal/oracle"
)

const fallenNarration = "You have fallen. Your adventure is over."

// TurnResult is the committed outcome of one turn.
type TurnResult struct {
	Narration         []string
	ScoreChange       int
	ScoreChangeReason string
	QuestCompleted    bool
	State             models.PlayerState
}

// TakeTurn runs one player action through the narrative oracle and commits
// the result. A turn either fully commits or has zero observable effect on
// the player state: any oracle failure discards the staging copy.
func (g *Game) TakeTurn(ctx context.Context, action string) (TurnResult, error) {
	action = strings.TrimSpace(action)
	if action == "" {
		return TurnResult{}, ErrEmptyInput
	}

	st := g.session.State()
	if st.Status.Ended() {
		return TurnResult{}, ErrSessionEnded
	}

	// A live session should never sit at zero HP, but a stale client can
	// retry after death. End the game without consulting the oracle.
	if st.HP <= 0 {
		st.HP = 0
		st.Status = models.StatusDefeated
		st.Append(models.SpeakerNarrator, fallenNarration)
		st.LastScene = fallenNarration
		g.session.Commit(st)
		g.log.Info("turn short-circuited at zero hp")
		return TurnResult{Narration: []string{fallenNarration}, State: st}, nil
	}

	staging := st.Clone()
	staging.Append(models.SpeakerPlayer, action)

	resp, err := g.deps.Narrator.NarrateTurn(ctx, oracle.TurnRequest{
		PreviousScene: st.LastScene,
		Action:        action,
		Inventory:     st.Inventory,
		HP:            st.HP,
		Skills:        st.Skills,
		SkillPoints:   st.SkillPoints,
		Score:         st.Score,
		Quest:         st.Quest,
	})
	if err != nil {
		g.log.Error("narrate turn failed", "error", err)
		return TurnResult{}, &OracleError{Op: "narrate turn", Err: err}
	}
	if len(resp.Narration) == 0 {
		return TurnResult{}, &OracleError{Op: "narrate turn", Err: errNoNarration}
	}

	g.merge(&staging, resp)
	g.session.Commit(staging)

	g.log.Info("turn committed",
		"hp", staging.HP,
		"score", staging.Score,
		"quest_completed", resp.QuestCompleted,
		"status", staging.Status,
	)

	return TurnResult{
		Narration:         resp.Narration,
		ScoreChange:       resp.ScoreChange,
		ScoreChangeReason: resp.ScoreChangeReason,
		QuestCompleted:    resp.QuestCompleted,
		State:             staging,
	}, nil
}

// merge folds an oracle turn result into the staging state.
func (g *Game) merge(staging *models.PlayerState, resp *oracle.TurnResponse) {
	hp := resp.UpdatedHP
	if hp < 0 {
		hp = 0
	}
	if g.policy.ClampHP && hp > g.profile.StartHP {
		hp = g.profile.StartHP
	}
	staging.HP = hp

	score := resp.UpdatedScore
	if score < 0 {
		score = 0
	}
	staging.Score = score

	staging.Inventory = resp.UpdatedInventory
	switch g.profile.Mode {
	case models.SkillModePoints:
		staging.SkillPoints = resp.UpdatedSkillPoints
	default:
		staging.Skills = resp.UpdatedSkills
	}

	if resp.QuestCompleted {
		title := ""
		if staging.Quest != nil {
			title = staging.Quest.Title
		}
		reason := resp.ScoreChangeReason
		if reason == "" {
			reason = "quest complete"
		}
		staging.Append(models.SpeakerSystem,
			fmt.Sprintf("Quest complete: %s (+%d points: %s)", title, resp.ScoreChange, reason))

		// The quest pair is replaced only when both halves arrived; a
		// committed state never holds a partial quest.
		if resp.NewQuestTitle != "" && resp.NewQuestObjective != "" {
			staging.Quest = &models.Quest{Title: resp.NewQuestTitle, Objective: resp.NewQuestObjective}
		}
		if resp.NewSkills != "" && g.profile.Mode == models.SkillModeText {
			staging.Skills = resp.NewSkills
		}
	}

	for _, para := range resp.Narration {
		staging.Append(models.SpeakerNarrator, para)
	}
	staging.LastScene = strings.Join(resp.Narration, "\n\n")

	// Defeat takes precedence over any victory flag the oracle reports.
	switch {
	case staging.HP <= 0:
		staging.Status = models.StatusDefeated
	case resp.GameHasEnded && resp.IsVictory:
		staging.Status = models.StatusVictorious
	case resp.GameHasEnded:
		staging.Status = models.StatusDefeated
	}
}
