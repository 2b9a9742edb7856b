package main

import (
	"context"
	"fmt"
	"os"

	"github.com/game-legend123/Aetheria-Adventures/internal/config"
	"github.com/game-legend123/Aetheria-Adventures/internal/game"
	"github.com/game-legend123/Aetheria-Adventures/internal/logging"
	"github.com/game-legend123/Aetheria-Adventures/internal/models"
	"github.com/game-legend123/Aetheria-Adventures/internal/oracle"
	"github.com/game-legend123/Aetheria-Adventures/internal/tui"
)

func main() {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	models.SaveDir = cfg.SaveDir

	log, closeLog, err := logging.New(cfg.LogFile)
	if err != nil {
		fmt.Printf("Error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	eng, err := oracle.NewEngine(ctx, cfg.GeminiAPIKey, cfg.Model, cfg.ImageModel)
	if err != nil {
		fmt.Printf("Error creating oracle engine: %v\n", err)
		os.Exit(1)
	}
	defer eng.Close()

	profile := models.DefaultProfile()
	if cfg.SkillMode == "points" {
		profile = models.PointsProfile()
	}

	policy := game.Policy{
		SystemMessageCost: cfg.SystemMessageCost,
		RefundSystemCost:  cfg.RefundSystemCost,
		ClampHP:           cfg.ClampHP,
	}

	deps := game.Deps{
		Narrator:    eng,
		System:      eng,
		Starter:     eng,
		Illustrator: eng,
	}

	g := game.New(deps, profile, policy, log)

	if err := tui.Run(g); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
