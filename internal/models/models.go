package models

// Speaker identifies who produced a scene log entry.
type Speaker string

const (
	SpeakerNarrator Speaker = "narrator"
	SpeakerPlayer   Speaker = "player"
	SpeakerSystem   Speaker = "system"
)

// SceneEntry is a single line of the adventure log.
type SceneEntry struct {
	Speaker Speaker `yaml:"speaker"`
	Text    string  `yaml:"text"`
}

// Quest is the player's current objective. Title and Objective are always
// both set or both absent; a committed state never carries a partial quest.
type Quest struct {
	Title     string `yaml:"title"`
	Objective string `yaml:"objective"`
}

// Status is the lifecycle state of a session. Once a session leaves
// StatusPlaying it is terminal: no turn or system message mutates it again.
type Status string

const (
	StatusPlaying    Status = "playing"
	StatusDefeated   Status = "defeated"
	StatusVictorious Status = "victorious"
)

// Ended reports whether the session is terminal.
func (s Status) Ended() bool {
	return s == StatusDefeated || s == StatusVictorious
}

// SkillMode selects which skill representation a story uses. Some stories
// track a numeric pool of skill points; others carry a free-text list of
// abilities tied to the active quest.
type SkillMode string

const (
	SkillModeText   SkillMode = "text"
	SkillModePoints SkillMode = "points"
)

// StatProfile is the stat-shape variant the orchestrators are parameterized
// over, plus the defaults a fresh story starts from.
type StatProfile struct {
	Mode             SkillMode `yaml:"mode"`
	StartHP          int       `yaml:"start_hp"`
	StartScore       int       `yaml:"start_score"`
	StartInventory   string    `yaml:"start_inventory"`
	StartSkillPoints int       `yaml:"start_skill_points,omitempty"`
}

// DefaultProfile returns the standard free-text-skills profile.
func DefaultProfile() StatProfile {
	return StatProfile{
		Mode:           SkillModeText,
		StartHP:        100,
		StartScore:     0,
		StartInventory: "A tattered map and a crust of bread.",
	}
}

// PointsProfile returns the numeric skill-point profile.
func PointsProfile() StatProfile {
	return StatProfile{
		Mode:             SkillModePoints,
		StartHP:          100,
		StartScore:       0,
		StartInventory:   "A tattered map and a crust of bread.",
		StartSkillPoints: 10,
	}
}

// PlayerState is the committed game state for one session. It is exclusively
// owned by the session store; orchestrators work on deep copies and commit
// whole replacements, never field-level writes.
type PlayerState struct {
	HP          int          `yaml:"hp"`
	Score       int          `yaml:"score"`
	Inventory   string       `yaml:"inventory"`
	Skills      string       `yaml:"skills,omitempty"`
	SkillPoints int          `yaml:"skill_points,omitempty"`
	Quest       *Quest       `yaml:"quest,omitempty"`
	SceneLog    []SceneEntry `yaml:"scene_log"`
	LastScene   string       `yaml:"last_scene"`
	Status      Status       `yaml:"status"`
}

// NewPlayerState builds the fresh state a story starts from.
func NewPlayerState(profile StatProfile) PlayerState {
	return PlayerState{
		HP:          profile.StartHP,
		Score:       profile.StartScore,
		Inventory:   profile.StartInventory,
		SkillPoints: profile.StartSkillPoints,
		Status:      StatusPlaying,
	}
}

// Clone returns a deep copy. The scene log backing array is never shared, so
// mutating a clone cannot leak into a committed state.
func (p PlayerState) Clone() PlayerState {
	next := p
	if p.Quest != nil {
		q := *p.Quest
		next.Quest = &q
	}
	next.SceneLog = make([]SceneEntry, len(p.SceneLog))
	copy(next.SceneLog, p.SceneLog)
	return next
}

// Append adds an entry to the scene log.
func (p *PlayerState) Append(speaker Speaker, text string) {
	p.SceneLog = append(p.SceneLog, SceneEntry{Speaker: speaker, Text: text})
}
