package game

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/game-legend123/Aetheria-Adventures/internal/models"
	"github.com/game-legend123/Aetheria-Adventures/internal/oracle"
)

func successResponse() *oracle.TurnResponse {
	return &oracle.TurnResponse{
		Narration:         []string{"You slip past the guards.", "The vault door looms ahead."},
		UpdatedInventory:  "A tattered map, a crust of bread, a rusty key.",
		UpdatedHP:         95,
		UpdatedSkills:     "Sneaking, Lockpicking",
		UpdatedScore:      10,
		ScoreChange:       10,
		ScoreChangeReason: "Success",
	}
}

func TestTakeTurnRejectsEmptyAction(t *testing.T) {
	narrator := &fakeNarrator{resp: successResponse()}
	g := newTestGame(Deps{Narrator: narrator}, Policy{}, playingState())
	before := g.State()

	if _, err := g.TakeTurn(context.Background(), "   "); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
	if narrator.calls != 0 {
		t.Error("oracle must not be called for empty input")
	}
	if !statesEqual(before, g.State()) {
		t.Error("rejected turn must not modify state")
	}
}

func TestTakeTurnRejectsEndedSession(t *testing.T) {
	st := playingState()
	st.Status = models.StatusDefeated
	narrator := &fakeNarrator{resp: successResponse()}
	g := newTestGame(Deps{Narrator: narrator}, Policy{}, st)

	if _, err := g.TakeTurn(context.Background(), "stand up"); !errors.Is(err, ErrSessionEnded) {
		t.Fatalf("expected ErrSessionEnded, got %v", err)
	}
	if narrator.calls != 0 {
		t.Error("oracle must not be called on an ended session")
	}
}

func TestTakeTurnOracleFailureRollsBack(t *testing.T) {
	narrator := &fakeNarrator{err: errors.New("model overloaded")}
	g := newTestGame(Deps{Narrator: narrator}, Policy{}, playingState())
	before := g.State()

	_, err := g.TakeTurn(context.Background(), "pick the lock")
	var oerr *OracleError
	if !errors.As(err, &oerr) {
		t.Fatalf("expected OracleError, got %v", err)
	}

	after := g.State()
	if !statesEqual(before, after) {
		t.Error("failed turn must have zero observable effect on state")
	}
	if after.LastScene != before.LastScene {
		t.Errorf("last scene changed on failure: %q", after.LastScene)
	}
}

func TestTakeTurnMissingNarrationRollsBack(t *testing.T) {
	resp := successResponse()
	resp.Narration = nil
	g := newTestGame(Deps{Narrator: &fakeNarrator{resp: resp}}, Policy{}, playingState())
	before := g.State()

	if _, err := g.TakeTurn(context.Background(), "pick the lock"); err == nil {
		t.Fatal("expected error for missing narration")
	}
	if !statesEqual(before, g.State()) {
		t.Error("malformed result must not modify state")
	}
}

func TestTakeTurnCommitsResult(t *testing.T) {
	resp := successResponse()
	narrator := &fakeNarrator{resp: resp}
	g := newTestGame(Deps{Narrator: narrator}, Policy{}, playingState())

	result, err := g.TakeTurn(context.Background(), "pick the lock")
	if err != nil {
		t.Fatalf("TakeTurn failed: %v", err)
	}

	st := g.State()
	if st.HP != 95 || st.Score != 10 {
		t.Errorf("expected hp=95 score=10, got hp=%d score=%d", st.HP, st.Score)
	}
	if st.Inventory != resp.UpdatedInventory {
		t.Errorf("inventory not replaced: %q", st.Inventory)
	}
	if st.LastScene != "You slip past the guards.\n\nThe vault door looms ahead." {
		t.Errorf("unexpected last scene: %q", st.LastScene)
	}
	// Log gains the player action plus one entry per narration paragraph.
	if len(st.SceneLog) != 4 {
		t.Fatalf("expected 4 log entries, got %d", len(st.SceneLog))
	}
	if st.SceneLog[1].Speaker != models.SpeakerPlayer || st.SceneLog[1].Text != "pick the lock" {
		t.Errorf("player action not staged in log: %+v", st.SceneLog[1])
	}
	if result.ScoreChange != 10 || result.ScoreChangeReason != "Success" {
		t.Errorf("score attribution lost: %+v", result)
	}
}

func TestTakeTurnPreviousSceneIsLastNarration(t *testing.T) {
	narrator := &fakeNarrator{resp: successResponse()}
	g := newTestGame(Deps{Narrator: narrator}, Policy{}, playingState())

	if _, err := g.TakeTurn(context.Background(), "pick the lock"); err != nil {
		t.Fatalf("first turn failed: %v", err)
	}
	if _, err := g.TakeTurn(context.Background(), "open the vault"); err != nil {
		t.Fatalf("second turn failed: %v", err)
	}

	// The oracle sees the prior narration, never the player's action.
	want := "You slip past the guards.\n\nThe vault door looms ahead."
	if narrator.last.PreviousScene != want {
		t.Errorf("previous scene = %q, want %q", narrator.last.PreviousScene, want)
	}
}

func TestTakeTurnQuestCompletionCascades(t *testing.T) {
	resp := &oracle.TurnResponse{
		Narration:         []string{"The map is yours at last."},
		UpdatedInventory:  "The legendary map.",
		UpdatedHP:         100,
		UpdatedSkills:     "Seafaring, Navigation",
		UpdatedScore:      100,
		ScoreChange:       100,
		ScoreChangeReason: "Quest complete",
		QuestCompleted:    true,
		NewQuestTitle:     "B",
		NewQuestObjective: "Find X",
		NewSkills:         "Seafaring, Navigation",
	}
	st := playingState()
	st.HP = 100
	st.Score = 0
	g := newTestGame(Deps{Narrator: &fakeNarrator{resp: resp}}, Policy{}, st)

	result, err := g.TakeTurn(context.Background(), "grab the map")
	if err != nil {
		t.Fatalf("TakeTurn failed: %v", err)
	}
	if !result.QuestCompleted {
		t.Error("expected quest completion in result")
	}

	next := g.State()
	if next.Score != 100 {
		t.Errorf("expected score 100, got %d", next.Score)
	}
	if next.Quest == nil || next.Quest.Title != "B" || next.Quest.Objective != "Find X" {
		t.Errorf("quest not replaced: %+v", next.Quest)
	}
	if next.Skills != "Seafaring, Navigation" {
		t.Errorf("skills not replaced on quest completion: %q", next.Skills)
	}

	found := false
	for _, entry := range next.SceneLog {
		if entry.Speaker == models.SpeakerSystem && strings.Contains(entry.Text, "Quest complete") {
			found = true
		}
	}
	if !found {
		t.Error("expected a system log entry recording the completion")
	}
}

func TestTakeTurnQuestPairingInvariant(t *testing.T) {
	// A completion with only half a new quest keeps the old pair.
	resp := successResponse()
	resp.QuestCompleted = true
	resp.NewQuestTitle = "Orphan title"
	g := newTestGame(Deps{Narrator: &fakeNarrator{resp: resp}}, Policy{}, playingState())

	if _, err := g.TakeTurn(context.Background(), "finish the job"); err != nil {
		t.Fatalf("TakeTurn failed: %v", err)
	}

	st := g.State()
	if st.Quest == nil {
		t.Fatal("quest dropped entirely")
	}
	if (st.Quest.Title == "") != (st.Quest.Objective == "") {
		t.Errorf("partial quest committed: %+v", st.Quest)
	}
	if st.Quest.Title != "The Stolen Map" {
		t.Errorf("expected old quest retained, got %+v", st.Quest)
	}
}

func TestTakeTurnDefeatPrecedence(t *testing.T) {
	resp := successResponse()
	resp.UpdatedHP = -5
	resp.GameHasEnded = true
	resp.IsVictory = true // the oracle contradicts itself; defeat wins ties
	g := newTestGame(Deps{Narrator: &fakeNarrator{resp: resp}}, Policy{}, playingState())

	if _, err := g.TakeTurn(context.Background(), "charge the dragon"); err != nil {
		t.Fatalf("TakeTurn failed: %v", err)
	}

	st := g.State()
	if st.Status != models.StatusDefeated {
		t.Errorf("expected defeat, got %q", st.Status)
	}
	if st.HP != 0 {
		t.Errorf("expected hp clamped to 0, got %d", st.HP)
	}
}

func TestTakeTurnVictory(t *testing.T) {
	resp := successResponse()
	resp.QuestCompleted = true
	resp.GameHasEnded = true
	resp.IsVictory = true
	g := newTestGame(Deps{Narrator: &fakeNarrator{resp: resp}}, Policy{}, playingState())

	if _, err := g.TakeTurn(context.Background(), "restore the Heart of Dawn"); err != nil {
		t.Fatalf("TakeTurn failed: %v", err)
	}
	if st := g.State(); st.Status != models.StatusVictorious {
		t.Errorf("expected victory, got %q", st.Status)
	}
}

func TestTakeTurnScoreFloor(t *testing.T) {
	resp := successResponse()
	resp.UpdatedScore = -10
	g := newTestGame(Deps{Narrator: &fakeNarrator{resp: resp}}, Policy{}, playingState())

	if _, err := g.TakeTurn(context.Background(), "gamble everything"); err != nil {
		t.Fatalf("TakeTurn failed: %v", err)
	}
	if st := g.State(); st.Score != 0 {
		t.Errorf("expected score floored at 0, got %d", st.Score)
	}
}

func TestTakeTurnHPClampPolicy(t *testing.T) {
	resp := successResponse()
	resp.UpdatedHP = 150

	g := newTestGame(Deps{Narrator: &fakeNarrator{resp: resp}}, Policy{}, playingState())
	if _, err := g.TakeTurn(context.Background(), "drink the elixir"); err != nil {
		t.Fatalf("TakeTurn failed: %v", err)
	}
	if st := g.State(); st.HP != 150 {
		t.Errorf("without clamping hp should pass through, got %d", st.HP)
	}

	g = newTestGame(Deps{Narrator: &fakeNarrator{resp: resp}}, Policy{ClampHP: true}, playingState())
	if _, err := g.TakeTurn(context.Background(), "drink the elixir"); err != nil {
		t.Fatalf("TakeTurn failed: %v", err)
	}
	if st := g.State(); st.HP != 100 {
		t.Errorf("with clamping hp should cap at 100, got %d", st.HP)
	}
}

func TestTakeTurnZeroHPShortCircuits(t *testing.T) {
	st := playingState()
	st.HP = 0 // stale client retrying after death
	narrator := &fakeNarrator{resp: successResponse()}
	g := newTestGame(Deps{Narrator: narrator}, Policy{}, st)

	result, err := g.TakeTurn(context.Background(), "keep fighting")
	if err != nil {
		t.Fatalf("TakeTurn failed: %v", err)
	}
	if narrator.calls != 0 {
		t.Error("oracle must not be called when hp is already 0")
	}
	if g.State().Status != models.StatusDefeated {
		t.Errorf("expected defeat, got %q", g.State().Status)
	}
	if len(result.Narration) == 0 {
		t.Error("expected a terminal defeat narration")
	}
}

func TestTakeTurnPointsProfile(t *testing.T) {
	resp := successResponse()
	resp.UpdatedSkillPoints = 12
	resp.UpdatedSkills = "should be ignored"

	st := models.NewPlayerState(models.PointsProfile())
	st.LastScene = "An alley at dusk."
	st.Append(models.SpeakerNarrator, st.LastScene)
	g := Resume(Deps{Narrator: &fakeNarrator{resp: resp}}, models.PointsProfile(), Policy{}, nil, st)

	if _, err := g.TakeTurn(context.Background(), "train"); err != nil {
		t.Fatalf("TakeTurn failed: %v", err)
	}

	next := g.State()
	if next.SkillPoints != 12 {
		t.Errorf("expected 12 skill points, got %d", next.SkillPoints)
	}
	if next.Skills != "" {
		t.Errorf("free-text skills must stay empty under the points profile, got %q", next.Skills)
	}
}

func TestTerminalMonotonicity(t *testing.T) {
	resp := successResponse()
	resp.UpdatedHP = 0
	g := newTestGame(Deps{
		Narrator: &fakeNarrator{resp: resp},
		System:   &fakeSystem{resp: &oracle.SystemResponse{Response: "hello"}},
	}, Policy{}, playingState())

	if _, err := g.TakeTurn(context.Background(), "fall on my sword"); err != nil {
		t.Fatalf("TakeTurn failed: %v", err)
	}
	ended := g.State()
	if ended.Status != models.StatusDefeated {
		t.Fatalf("expected defeat, got %q", ended.Status)
	}

	if _, err := g.TakeTurn(context.Background(), "get up"); !errors.Is(err, ErrSessionEnded) {
		t.Errorf("expected ErrSessionEnded from TakeTurn, got %v", err)
	}
	if _, err := g.SendSystemMessage(context.Background(), "heal me"); !errors.Is(err, ErrSessionEnded) {
		t.Errorf("expected ErrSessionEnded from SendSystemMessage, got %v", err)
	}
	if !statesEqual(ended, g.State()) {
		t.Error("terminal state mutated after rejection")
	}
}
