package watchstate

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// SymbolState identifies the last report sent for a symbol. Only a
// fingerprint of its validated levels is kept, never the prices.
type SymbolState struct {
	ReportID    string    `json:"report_id"`
	Fingerprint string    `json:"fingerprint"`
	Levels      int       `json:"levels"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// State is the persisted watcher state keyed by symbol.
type State struct {
	Symbols   map[string]SymbolState `json:"symbols"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// LoadState reads the state from a JSON file. Returns an empty state if the file doesn't exist.
func LoadState(filePath string) (*State, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &State{Symbols: map[string]SymbolState{}}, nil
		}
		return nil, err
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	if state.Symbols == nil {
		state.Symbols = map[string]SymbolState{}
	}
	return &state, nil
}

// SaveState writes the state to a JSON file.
func SaveState(filePath string, state *State) error {
	state.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(filePath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(filePath, data, 0644)
}
