package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Snapshot captures a point-in-time view of a tutoring session, written
// only on explicit user action.
type Snapshot struct {
	Learner    string    `json:"learner,omitempty"`
	Model      string    `json:"model,omitempty"`
	CapturedAt time.Time `json:"capturedAt"`
	Messages   []Message `json:"messages"`
}

// SaveSnapshot writes the given messages to a JSON file, creating parent
// directories as needed.
func SaveSnapshot(path, learner, model string, messages []Message) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	snapshot := Snapshot{
		Learner:    learner,
		Model:      model,
		CapturedAt: time.Now(),
		Messages:   messages,
	}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadSnapshot reads a previously saved session snapshot.
func LoadSnapshot(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, err
	}
	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return Snapshot{}, err
	}
	return snapshot, nil
}
