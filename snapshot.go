package visynth

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cbegin/visynth-go/internal/legacy"
	"github.com/cbegin/visynth-go/internal/modmatrix"
	"github.com/cbegin/visynth-go/internal/preset"
)

// Capture snapshots base values, user routes, the sequencer pattern and the
// engine state. Lane routes are left out; they are rebuilt from the pattern.
func (e *Engine) Capture(name string) preset.Snapshot {
	var routes []modmatrix.Route
	for _, r := range e.mat.List() {
		if !strings.HasPrefix(r.ID, LaneRoutePrefix) {
			routes = append(routes, r)
		}
	}
	pattern := e.seq.Snapshot()
	st := e.State()
	st.Params = nil
	state, _ := json.Marshal(st)
	return preset.Snapshot{
		Version:    preset.SnapshotVersion,
		Name:       name,
		BaseValues: e.reg.BaseValues(),
		Routes:     routes,
		Pattern:    &pattern,
		State:      state,
	}
}

// Restore applies a snapshot. It is validated first; an invalid snapshot
// changes nothing.
func (e *Engine) Restore(s preset.Snapshot) error {
	if err := preset.Validate(s); err != nil {
		return err
	}
	st, err := SnapshotState(s)
	if err != nil {
		return err
	}
	hasState := len(s.State) > 0

	for id, v := range s.BaseValues {
		e.reg.SetBaseValue(id, v)
	}
	e.mat.Set(s.Routes)
	if s.Pattern != nil {
		e.seq.Apply(*s.Pattern)
	}
	e.syncLaneRoutes()
	if hasState {
		e.SetState(st)
	}
	return nil
}

// SnapshotState decodes the engine state carried by a snapshot. A snapshot
// without one yields DefaultState.
func SnapshotState(s preset.Snapshot) (State, error) {
	st := DefaultState()
	if len(s.State) == 0 {
		return st, nil
	}
	if err := json.Unmarshal(s.State, &st); err != nil {
		return State{}, fmt.Errorf("%w: state: %v", preset.ErrInvalidPayload, err)
	}
	return st, nil
}

// RestoreSession restores the bank's saved session. When there is none and
// seed is non-nil, the seed is mapped onto the registry instead. It reports
// whether a session was restored.
func (e *Engine) RestoreSession(bank *preset.Bank, seed *legacy.Seed) (bool, error) {
	if s, ok := bank.Session(); ok {
		if err := e.Restore(s); err != nil {
			return false, err
		}
		return true, nil
	}
	if seed != nil {
		seed.Apply(e.reg)
	}
	return false, nil
}

// SaveSession stores the current engine state as the bank's session.
func (e *Engine) SaveSession(bank *preset.Bank) error {
	return bank.SaveSession(e.Capture("session"))
}
