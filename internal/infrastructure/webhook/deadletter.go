package webhook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// DeadLetter records a plan change event that could not be delivered.
type DeadLetter struct {
	Timestamp   time.Time `json:"timestamp"`
	WebhookName string    `json:"webhook_name"`
	URL         string    `json:"url"`
	EventType   string    `json:"event_type"`
	Payload     string    `json:"payload"`
	Error       string    `json:"error"`
	Attempts    int       `json:"attempts"`
}

// DeadLetterStore appends failed webhook deliveries to a JSONL file.
type DeadLetterStore struct {
	path string
	mu   sync.Mutex
}

func NewDeadLetterStore(path string) *DeadLetterStore {
	return &DeadLetterStore{path: path}
}

// Append writes one entry as a single line.
func (s *DeadLetterStore) Append(dl DeadLetter) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(dl)
	if err != nil {
		return fmt.Errorf("marshal dead letter: %w", err)
	}
	data = append(data, '\n')

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("open dead letter file: %w", err)
	}
	defer f.Close()

	_, err = f.Write(data)
	return err
}

// ReadAll returns every readable entry. Corrupt lines are skipped and a
// missing file yields no entries.
func (s *DeadLetterStore) ReadAll() ([]DeadLetter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var entries []DeadLetter
	for _, line := range bytes.Split(data, []byte("\n")) {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var dl DeadLetter
		if err := json.Unmarshal(line, &dl); err != nil {
			continue
		}
		entries = append(entries, dl)
	}
	return entries, nil
}
