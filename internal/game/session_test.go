package game

import (
	"testing"

	"github.com/game-legend123/Aetheria-Adventures/internal/models"
)

func TestSessionStateReturnsIsolatedCopy(t *testing.T) {
	s := NewSession(playingState())

	got := s.State()
	got.HP = 1
	got.SceneLog[0].Text = "tampered"
	got.Quest.Title = "tampered"
	got.Append(models.SpeakerPlayer, "extra")

	fresh := s.State()
	if fresh.HP != 100 {
		t.Errorf("hp leaked through the copy: %d", fresh.HP)
	}
	if fresh.SceneLog[0].Text == "tampered" {
		t.Error("scene log shares backing storage with the caller")
	}
	if fresh.Quest.Title == "tampered" {
		t.Error("quest pointer shared with the caller")
	}
	if len(fresh.SceneLog) != 1 {
		t.Errorf("appends leaked into the store: %d entries", len(fresh.SceneLog))
	}
}

func TestSessionCommitReplacesWhole(t *testing.T) {
	s := NewSession(playingState())

	next := playingState()
	next.HP = 42
	next.Append(models.SpeakerPlayer, "act")
	s.Commit(next)

	// Mutating the committed value afterwards must not affect the store.
	next.HP = 7

	got := s.State()
	if got.HP != 42 {
		t.Errorf("expected hp 42, got %d", got.HP)
	}
	if len(got.SceneLog) != 2 {
		t.Errorf("expected 2 log entries, got %d", len(got.SceneLog))
	}
}

func TestSessionResetDiscardsHistory(t *testing.T) {
	st := playingState()
	st.Append(models.SpeakerPlayer, "a long history")
	st.Append(models.SpeakerNarrator, "of deeds")
	s := NewSession(st)

	fresh := models.NewPlayerState(models.DefaultProfile())
	fresh.Append(models.SpeakerNarrator, "A new dawn.")
	fresh.LastScene = "A new dawn."
	s.Reset(fresh)

	got := s.State()
	if len(got.SceneLog) != 1 || got.SceneLog[0].Text != "A new dawn." {
		t.Errorf("old history survived the reset: %+v", got.SceneLog)
	}
	if got.Score != 0 || got.HP != 100 {
		t.Errorf("expected default stats, got hp=%d score=%d", got.HP, got.Score)
	}
}
