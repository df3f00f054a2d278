package watchstate

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"LevelSentinel/internal/model"
)

// Tracker remembers which validated levels were last reported per symbol so the
// watcher can tell when they move.
type Tracker struct {
	mu       sync.Mutex
	state    *State
	filePath string
}

// NewTracker creates a Tracker, loading state from disk.
func NewTracker(filePath string) (*Tracker, error) {
	state, err := LoadState(filePath)
	if err != nil {
		return nil, fmt.Errorf("load watch state: %w", err)
	}
	return &Tracker{state: state, filePath: filePath}, nil
}

// Get returns the stored state of a symbol.
func (t *Tracker) Get(symbol string) (SymbolState, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.state.Symbols[symbol]
	return s, ok
}

// Update records the report and reports whether its validated levels differ
// from the previous ones. A symbol seen for the first time counts as changed.
func (t *Tracker) Update(report *model.LevelReport) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	fp := Fingerprint(report.Validated)
	prev, seen := t.state.Symbols[report.Symbol]
	changed := !seen || prev.Fingerprint != fp

	t.state.Symbols[report.Symbol] = SymbolState{
		ReportID:    report.ID,
		Fingerprint: fp,
		Levels:      len(report.Validated),
		UpdatedAt:   time.Now(),
	}
	if err := t.save(); err != nil {
		return changed, err
	}
	if changed {
		log.WithFields(log.Fields{"symbol": report.Symbol, "levels": len(report.Validated)}).Info("validated levels changed")
	}
	return changed, nil
}

func (t *Tracker) save() error {
	if t.filePath == "" {
		return nil
	}
	if err := SaveState(t.filePath, t.state); err != nil {
		return fmt.Errorf("save watch state: %w", err)
	}
	return nil
}

// Fingerprint hashes levels rounded to six decimals, so float noise does not
// count as a change.
func Fingerprint(levels []float64) string {
	var b strings.Builder
	for _, lvl := range levels {
		fmt.Fprintf(&b, "%.6f,", lvl)
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
