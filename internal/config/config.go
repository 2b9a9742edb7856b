package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration.
type Config struct {
	GeminiAPIKey string `env:"GEMINI_API_KEY,required"`
	Model        string `env:"AETHERIA_MODEL" envDefault:"gemini-2.5-flash"`
	ImageModel   string `env:"AETHERIA_IMAGE_MODEL" envDefault:"gemini-2.0-flash-preview-image-generation"`
	SaveDir      string `env:"AETHERIA_SAVE_DIR" envDefault:".saves"`
	LogFile      string `env:"AETHERIA_LOG_FILE" envDefault:"aetheria.log"`

	// SkillMode selects the stat profile: "text" or "points".
	SkillMode string `env:"AETHERIA_SKILL_MODE" envDefault:"text"`

	// Policy knobs.
	SystemMessageCost int  `env:"AETHERIA_SYSTEM_COST" envDefault:"5"`
	RefundSystemCost  bool `env:"AETHERIA_REFUND_SYSTEM_COST" envDefault:"false"`
	ClampHP           bool `env:"AETHERIA_CLAMP_HP" envDefault:"false"`
}

// LoadConfig loads the configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}

	if cfg.SkillMode != "text" && cfg.SkillMode != "points" {
		return nil, fmt.Errorf("AETHERIA_SKILL_MODE must be %q or %q, got %q", "text", "points", cfg.SkillMode)
	}
	if cfg.SystemMessageCost < 0 {
		return nil, fmt.Errorf("AETHERIA_SYSTEM_COST must not be negative, got %d", cfg.SystemMessageCost)
	}

	return &cfg, nil
}
