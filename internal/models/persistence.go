package models

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SaveDir is where sessions are written. Overridden from config at startup.
var SaveDir = ".saves"

// SavedGame is the on-disk shape of a session.
type SavedGame struct {
	Profile StatProfile `yaml:"profile"`
	State   PlayerState `yaml:"state"`
}

// Save writes the session under SaveDir/<name>.
func (s *SavedGame) Save(name string) error {
	dir := filepath.Join(SaveDir, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "game.yaml"), data, 0644)
}

// LoadSave reads a previously saved session.
func LoadSave(name string) (*SavedGame, error) {
	data, err := os.ReadFile(filepath.Join(SaveDir, name, "game.yaml"))
	if err != nil {
		return nil, err
	}

	var saved SavedGame
	if err := yaml.Unmarshal(data, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// ListSaves returns the names of all valid saved sessions.
func ListSaves() ([]string, error) {
	if _, err := os.Stat(SaveDir); os.IsNotExist(err) {
		return []string{}, nil
	}

	entries, err := os.ReadDir(SaveDir)
	if err != nil {
		return nil, err
	}

	var saves []string
	for _, entry := range entries {
		if entry.IsDir() {
			// game.yaml is the marker for a valid save
			gamePath := filepath.Join(SaveDir, entry.Name(), "game.yaml")
			if _, err := os.Stat(gamePath); err == nil {
				saves = append(saves, entry.Name())
			}
		}
	}
	return saves, nil
}
