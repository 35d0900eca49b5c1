package engine

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Weights are the tuning knobs of the scoring stages.
type Weights struct {
	Die         int `yaml:"die"`
	Food        int `yaml:"food"`
	Capturing   int `yaml:"capturing"`
	LosingDuel  int `yaml:"losing_duel"`
	WinningDuel int `yaml:"winning_duel"`
	LargeCavity int `yaml:"large_cavity"`
	Edge        int `yaml:"edge"`

	// At or below LowHealth the food bonus is multiplied by LowHealthFoodMultiplier.
	LowHealth               int `yaml:"low_health"`
	LowHealthFoodMultiplier int `yaml:"low_health_food_multiplier"`

	// A cavity is large once it holds CavityFactor times the agent's length.
	CavityFactor int `yaml:"cavity_factor"`
}

func DefaultWeights() Weights {
	return Weights{
		Die:                     -1_000_000,
		Food:                    10,
		Capturing:               50,
		LosingDuel:              -70,
		WinningDuel:             45,
		LargeCavity:             200,
		Edge:                    -1,
		LowHealth:               25,
		LowHealthFoodMultiplier: 3,
		CavityFactor:            2,
	}
}

// LoadWeights reads a YAML tuning file on top of the defaults. Unknown keys
// are rejected.
func LoadWeights(path string) (Weights, error) {
	w := DefaultWeights()
	raw, err := os.ReadFile(path)
	if err != nil {
		return w, fmt.Errorf("read weights: %w", err)
	}
	if err := yaml.UnmarshalStrict(raw, &w); err != nil {
		return w, fmt.Errorf("parse weights %s: %w", path, err)
	}
	if err := w.Validate(); err != nil {
		return w, fmt.Errorf("weights %s: %w", path, err)
	}
	return w, nil
}

func (w Weights) Validate() error {
	if w.Die >= 0 {
		return errors.New("die score must be negative")
	}
	if w.LowHealthFoodMultiplier < 1 {
		return errors.New("low health food multiplier must be at least 1")
	}
	if w.CavityFactor < 1 {
		return errors.New("cavity factor must be at least 1")
	}
	return nil
}

// foodScore is the food bonus for a snake at the given health.
func (w Weights) foodScore(health int) int {
	if health <= w.LowHealth {
		return w.Food * w.LowHealthFoodMultiplier
	}
	return w.Food
}
