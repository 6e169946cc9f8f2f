package teams

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNegativeRating is returned when attack or defense is below zero.
	ErrNegativeRating = errors.New("rating must be non-negative")
	// ErrMissingName is returned for a team without a name.
	ErrMissingName = errors.New("team name required")
	// ErrMissingGroup is returned for a team without a group label.
	ErrMissingGroup = errors.New("group label required")
)

// Team is a tournament participant with its static ratings.
// Ratings are fixed at construction and never change during a simulation.
type Team struct {
	Name    string `json:"name" yaml:"name"`
	Group   string `json:"group" yaml:"group"`
	Attack  int    `json:"attack" yaml:"attack"`
	Defense int    `json:"defense" yaml:"defense"`
}

// New builds a validated Team.
func New(name, group string, attack, defense int) (Team, error) {
	t := Team{
		Name:    strings.TrimSpace(name),
		Group:   strings.TrimSpace(group),
		Attack:  attack,
		Defense: defense,
	}
	if err := t.Validate(); err != nil {
		return Team{}, err
	}
	return t, nil
}

// Validate reports whether the team can take part in a simulation.
func (t Team) Validate() error {
	if t.Name == "" {
		return ErrMissingName
	}
	if t.Group == "" {
		return fmt.Errorf("team %q: %w", t.Name, ErrMissingGroup)
	}
	if t.Attack < 0 {
		return fmt.Errorf("team %q attack %d: %w", t.Name, t.Attack, ErrNegativeRating)
	}
	if t.Defense < 0 {
		return fmt.Errorf("team %q defense %d: %w", t.Name, t.Defense, ErrNegativeRating)
	}
	return nil
}

// ValidateAll validates every team, returning the first failure.
func ValidateAll(list []Team) error {
	for _, t := range list {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	return nil
}
