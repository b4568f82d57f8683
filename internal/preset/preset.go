// Package preset stores named snapshots of the whole synth and moves them in
// and out of the bank-wide JSON export format.
package preset

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/cbegin/visynth-go/internal/modmatrix"
	"github.com/cbegin/visynth-go/internal/registry"
	"github.com/cbegin/visynth-go/internal/sequencer"
)

const (
	SnapshotVersion = 1
	Schema          = "visynth.presetbank/v1"
)

var (
	ErrUnknownSchema  = errors.New("preset: unknown schema")
	ErrInvalidPayload = errors.New("preset: invalid payload")
)

// Snapshot is a full engine state: base values, routes, sequencer pattern
// and the engine's own module state, kept as raw JSON.
type Snapshot struct {
	Version    int                           `json:"version"`
	Name       string                        `json:"name"`
	SavedAt    time.Time                     `json:"savedAt"`
	BaseValues map[registry.TargetID]float64 `json:"baseValues"`
	Routes     []modmatrix.Route             `json:"routes"`
	Pattern    *sequencer.Pattern            `json:"pattern,omitempty"`
	State      json.RawMessage               `json:"state,omitempty"`
}

// Validate checks the shape of a snapshot without touching any state.
func Validate(s Snapshot) error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidPayload)
	}
	if s.Version < 1 || s.Version > SnapshotVersion {
		return fmt.Errorf("%w: %q has unsupported version %d", ErrInvalidPayload, s.Name, s.Version)
	}
	for id, v := range s.BaseValues {
		if id == "" || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %q has bad base value %q=%v", ErrInvalidPayload, s.Name, id, v)
		}
	}
	seen := make(map[string]bool, len(s.Routes))
	for _, r := range s.Routes {
		if r.ID == "" || seen[r.ID] {
			return fmt.Errorf("%w: %q has missing or duplicate route id %q", ErrInvalidPayload, s.Name, r.ID)
		}
		seen[r.ID] = true
	}
	if s.Pattern != nil && !sequencer.New().Apply(*s.Pattern) {
		return fmt.Errorf("%w: %q has an invalid sequencer pattern", ErrInvalidPayload, s.Name)
	}
	if len(s.State) > 0 {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(s.State, &obj); err != nil {
			return fmt.Errorf("%w: %q state is not an object", ErrInvalidPayload, s.Name)
		}
	}
	return nil
}
