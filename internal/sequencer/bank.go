package sequencer

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/cbegin/visynth-go/internal/store"
)

// PatternsKey is the storage key holding every saved pattern.
const PatternsKey = "visynth.sequencer.patterns"

var ErrEmptyName = errors.New("sequencer: empty pattern name")

// Bank persists named patterns as a single JSON object in a KV store.
type Bank struct {
	kv     store.KV
	logger *slog.Logger
}

// NewBank returns a bank over kv. A nil logger discards output.
func NewBank(kv store.KV, logger *slog.Logger) *Bank {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Bank{kv: kv, logger: logger}
}

func (b *Bank) Save(name string, s *Sequencer) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	all, err := b.read()
	if err != nil {
		return err
	}
	all[name] = s.Snapshot()
	return b.write(all)
}

// Load applies the named pattern to s. Unknown names and patterns that fail
// validation report false.
func (b *Bank) Load(name string, s *Sequencer) bool {
	p, ok := b.Get(name)
	if !ok {
		return false
	}
	return s.Apply(p)
}

func (b *Bank) Get(name string) (Pattern, bool) {
	all, _ := b.read()
	p, ok := all[strings.TrimSpace(name)]
	return p, ok
}

// List returns the saved pattern names, sorted. A failed read lists
// nothing.
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

// read loads every pattern. Missing or corrupt data reads as no patterns;
// a storage failure is returned so callers never write over data they
// could not see.
func (b *Bank) read() (map[string]Pattern, error) {
	all := make(map[string]Pattern)
	data, err := b.kv.Get(PatternsKey)
	if errors.Is(err, store.ErrNotFound) {
		return all, nil
	}
	if err != nil {
		b.logger.Warn("sequencer: reading patterns", "err", err)
		return all, fmt.Errorf("read patterns: %w", err)
	}
	if err := json.Unmarshal(data, &all); err != nil {
		b.logger.Warn("sequencer: discarding corrupt pattern data", "err", err)
		return make(map[string]Pattern), nil
	}
	if all == nil {
		all = make(map[string]Pattern)
	}
	return all, nil
}

func (b *Bank) write(all map[string]Pattern) error {
	data, err := json.Marshal(all)
	if err != nil {
		return fmt.Errorf("encode patterns: %w", err)
	}
	return b.kv.Put(PatternsKey, data)
}
