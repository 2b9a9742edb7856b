// Package oracle defines the contracts between the game core and the
// generative collaborators that narrate it. The core treats every oracle as
// fallible and side-effect-free: a call either returns a usable result or an
// error, and nothing is committed on its behalf until the orchestrator says
// so.
package oracle

import (
	"context"

	"github.com/game-legend123/Aetheria-Adventures/internal/models"
)

// TurnRequest is the context handed to the narrative oracle for one turn.
type TurnRequest struct {
	PreviousScene string
	Action        string
	Inventory     string
	HP            int
	Skills        string
	SkillPoints   int
	Score         int
	Quest         *models.Quest
}

// TurnResponse is the candidate next state proposed by the narrative oracle.
// Narration is split into paragraphs. The oracle is authoritative for the
// score total and its reason; the orchestrator only enforces floors and
// ending precedence.
type TurnResponse struct {
	Narration          []string `yaml:"narration"`
	UpdatedInventory   string   `yaml:"updated_inventory"`
	UpdatedHP          int      `yaml:"updated_hp"`
	UpdatedSkills      string   `yaml:"updated_skills"`
	UpdatedSkillPoints int      `yaml:"updated_skill_points"`
	UpdatedScore       int      `yaml:"updated_score"`
	ScoreChange        int      `yaml:"score_change"`
	ScoreChangeReason  string   `yaml:"score_change_reason"`
	QuestCompleted     bool     `yaml:"quest_completed"`
	NewQuestTitle      string   `yaml:"new_quest_title,omitempty"`
	NewQuestObjective  string   `yaml:"new_quest_objective,omitempty"`
	NewSkills          string   `yaml:"new_skills,omitempty"`
	GameHasEnded       bool     `yaml:"game_has_ended"`
	IsVictory          bool     `yaml:"is_victory"`
}

// SystemInput is the context for one message on the system channel.
type SystemInput struct {
	UserMessage      string
	HP               int
	Skills           string
	SkillPoints      int
	Inventory        string
	Score            int
	Quest            *models.Quest
	SceneDescription string
}

// StatePatch is a direct state change negotiated through the system channel.
// When present it is a complete replacement of the numeric and descriptor
// stats, never a partial delta. NewStoryPrompt set means the player has
// confirmed a full story reset and the patch fields are ignored.
type StatePatch struct {
	HP             int    `yaml:"hp"`
	Skills         string `yaml:"skills"`
	SkillPoints    int    `yaml:"skill_points"`
	Inventory      string `yaml:"inventory"`
	Score          int    `yaml:"score"`
	NewStoryPrompt string `yaml:"new_story_prompt,omitempty"`
}

// SystemResponse is the system oracle's reply. StateUpdates is nil for
// purely informational answers.
type SystemResponse struct {
	Response     string      `yaml:"response"`
	StateUpdates *StatePatch `yaml:"state_updates,omitempty"`
}

// Opening is a brand-new story: the opening scene, the first quest, and the
// skills that go with it.
type Opening struct {
	Narration      []string `yaml:"narration"`
	QuestTitle     string   `yaml:"quest_title,omitempty"`
	QuestObjective string   `yaml:"quest_objective,omitempty"`
	InitialSkills  string   `yaml:"initial_skills,omitempty"`
}

// Narrator turns a player action into the next scene.
type Narrator interface {
	NarrateTurn(ctx context.Context, req TurnRequest) (*TurnResponse, error)
}

// System answers out-of-band player requests and may negotiate state changes.
type System interface {
	SystemRequest(ctx context.Context, in SystemInput) (*SystemResponse, error)
}

// Starter creates a new adventure from a free-text prompt.
type Starter interface {
	StartAdventure(ctx context.Context, prompt string) (*Opening, error)
}

// Illustrator renders a scene description into an image reference. It is
// best-effort; callers must tolerate failure.
type Illustrator interface {
	Illustrate(ctx context.Context, sceneDescription string) (string, error)
}
