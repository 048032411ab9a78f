// Package guard holds the limits applied to practice drills.
package guard

import (
	"fmt"
	"time"
)

// Policy defines the limits for a training session.
type Policy struct {
	MaxExposures int           `json:"max_exposures" yaml:"max_exposures"`
	Rounds       int           `json:"rounds" yaml:"rounds"`
	RevealDelay  time.Duration `json:"reveal_delay" yaml:"reveal_delay"`
}

// DefaultPolicy caps each word at seven exposures over seven shuffled passes,
// with a three second pause before the meaning is shown.
var DefaultPolicy = Policy{
	MaxExposures: 7,
	Rounds:       7,
	RevealDelay:  3 * time.Second,
}

// Violation represents a specific breach of policy.
type Violation struct {
	Rule    string
	Message string
	Fatal   bool
}

func (v *Violation) Error() string {
	return v.Message
}

// Guard enforces the policy.
type Guard struct {
	policy Policy
}

func New(p Policy) *Guard {
	return &Guard{policy: p}
}

// Policy returns the guard's current policy configuration.
func (g *Guard) Policy() Policy {
	return g.policy
}

// Validate rejects policies that would make a drill meaningless.
func (p Policy) Validate() error {
	if p.MaxExposures <= 0 {
		return fmt.Errorf("max_exposures must be positive, got %d", p.MaxExposures)
	}
	if p.Rounds <= 0 {
		return fmt.Errorf("rounds must be positive, got %d", p.Rounds)
	}
	if p.RevealDelay < 0 {
		return fmt.Errorf("reveal_delay must not be negative, got %s", p.RevealDelay)
	}
	return nil
}

// CheckExposure reports whether a word with the given repeat count has been
// shown often enough. The violation is not fatal: the drill skips the word.
func (g *Guard) CheckExposure(repeatCount int) *Violation {
	if repeatCount >= g.policy.MaxExposures {
		return &Violation{
			Rule:    "max_exposures",
			Message: fmt.Sprintf("Word already practiced %d times", repeatCount),
		}
	}
	return nil
}

// CheckRound verifies the round number is within the policy.
func (g *Guard) CheckRound(round int) *Violation {
	if round > g.policy.Rounds {
		return &Violation{Rule: "rounds", Message: "Round limit exceeded", Fatal: true}
	}
	return nil
}

// CheckRange validates a start/end selection inside a unit. Indexes are -1
// when the word was not found.
func (g *Guard) CheckRange(start, end int) *Violation {
	if start < 0 || end < 0 {
		return &Violation{Rule: "range", Message: "One or both words not found in unit.", Fatal: true}
	}
	if start > end {
		return &Violation{Rule: "range", Message: "Start word must come before end word.", Fatal: true}
	}
	return nil
}
