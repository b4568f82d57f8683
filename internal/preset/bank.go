package preset

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/cbegin/visynth-go/internal/store"
)

const (
	PresetsKey = "visynth.presets"
	SessionKey = "visynth.session"
)

// Bank keeps named snapshots in a single keyed collection.
type Bank struct {
	kv     store.KV
	logger *slog.Logger
	now    func() time.Time
}

func NewBank(kv store.KV, logger *slog.Logger) *Bank {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Bank{kv: kv, logger: logger, now: time.Now}
}

// Save stores s under s.Name, replacing any preset with that name.
func (b *Bank) Save(s Snapshot) error {
	s.Name = strings.TrimSpace(s.Name)
	if s.Version == 0 {
		s.Version = SnapshotVersion
	}
	if s.SavedAt.IsZero() {
		s.SavedAt = b.now().UTC()
	}
	if err := Validate(s); err != nil {
		return err
	}
	all, err := b.read()
	if err != nil {
		return err
	}
	all[s.Name] = s
	return b.write(all)
}

func (b *Bank) Load(name string) (Snapshot, bool) {
	all, _ := b.read()
	s, ok := all[strings.TrimSpace(name)]
	return s, ok
}

// List returns preset names, sorted. A failed read lists nothing.
func (b *Bank) List() []string {
	all, _ := b.read()
	names := make([]string, 0, len(all))
	for n := range all {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (b *Bank) Delete(name string) (bool, error) {
	all, err := b.read()
	if err != nil {
		return false, err
	}
	name = strings.TrimSpace(name)
	if _, ok := all[name]; !ok {
		return false, nil
	}
	delete(all, name)
	return true, b.write(all)
}

type envelope struct {
	Schema  string     `json:"schema"`
	Presets []Snapshot `json:"presets"`
}

// Export encodes every preset in the bank-wide exchange format.
func (b *Bank) Export() ([]byte, error) {
	all, err := b.read()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(all))
	for n := range all {
		names = append(names, n)
	}
	sort.Strings(names)
	env := envelope{Schema: Schema, Presets: make([]Snapshot, 0, len(all))}
	for _, name := range names {
		env.Presets = append(env.Presets, all[name])
	}
	return json.MarshalIndent(env, "", "  ")
}

// Import validates every preset in data and only then merges them into the
// bank, overwriting same-named presets. Nothing is written on error.
func (b *Bank) Import(data []byte) (int, error) {
	var head struct {
		Schema  string            `json:"schema"`
		Presets []json.RawMessage `json:"presets"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if head.Schema != Schema {
		return 0, fmt.Errorf("%w: %q", ErrUnknownSchema, head.Schema)
	}
	if head.Presets == nil {
		return 0, fmt.Errorf("%w: missing presets", ErrInvalidPayload)
	}
	incoming := make([]Snapshot, 0, len(head.Presets))
	for i, raw := range head.Presets {
		var s Snapshot
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, fmt.Errorf("%w: preset %d: %v", ErrInvalidPayload, i, err)
		}
		s.Name = strings.TrimSpace(s.Name)
		if err := Validate(s); err != nil {
			return 0, fmt.Errorf("preset %d: %w", i, err)
		}
		incoming = append(incoming, s)
	}
	all, err := b.read()
	if err != nil {
		return 0, err
	}
	for _, s := range incoming {
		all[s.Name] = s
	}
	if err := b.write(all); err != nil {
		return 0, err
	}
	return len(incoming), nil
}

// SaveSession records the state to restore on the next start.
func (b *Bank) SaveSession(s Snapshot) error {
	if s.Name == "" {
		s.Name = "session"
	}
	s.Version = SnapshotVersion
	s.SavedAt = b.now().UTC()
	if err := Validate(s); err != nil {
		return err
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return b.kv.Put(SessionKey, data)
}

// Session returns the last saved session. Missing or corrupt data reports
// false.
func (b *Bank) Session() (Snapshot, bool) {
	data, err := b.kv.Get(SessionKey)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			b.logger.Warn("preset: reading session", "err", err)
		}
		return Snapshot{}, false
	}
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		b.logger.Warn("preset: discarding corrupt session", "err", err)
		return Snapshot{}, false
	}
	if err := Validate(s); err != nil {
		b.logger.Warn("preset: discarding invalid session", "err", err)
		return Snapshot{}, false
	}
	return s, true
}

// read returns every stored preset. Corrupt data reads as an empty bank;
// storage errors are returned.
func (b *Bank) read() (map[string]Snapshot, error) {
	all := make(map[string]Snapshot)
	data, err := b.kv.Get(PresetsKey)
	if errors.Is(err, store.ErrNotFound) {
		return all, nil
	}
	if err != nil {
		b.logger.Warn("preset: reading bank", "err", err)
		return all, fmt.Errorf("read presets: %w", err)
	}
	if err := json.Unmarshal(data, &all); err != nil {
		b.logger.Warn("preset: discarding corrupt bank", "err", err)
		return make(map[string]Snapshot), nil
	}
	if all == nil {
		all = make(map[string]Snapshot)
	}
	return all, nil
}

func (b *Bank) write(all map[string]Snapshot) error {
	data, err := json.Marshal(all)
	if err != nil {
		return fmt.Errorf("encode presets: %w", err)
	}
	return b.kv.Put(PresetsKey, data)
}
