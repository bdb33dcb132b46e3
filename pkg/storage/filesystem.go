package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/felixgeelhaar/fortify/retry"

	"github.com/felixgeelhaar/cadence/pkg/domain/session"
)

const CadenceDir = ".cadence"
const SessionsDir = "sessions"
const ConfigFile = "config.yaml"
const WebhookDeadLetterFile = "webhook_deadletter.jsonl"

type FilesystemRepository struct {
	root        string
	retryConfig retry.Config
}

var _ session.Repository = (*FilesystemRepository)(nil)

func NewFilesystemRepository(root string) *FilesystemRepository {
	return &FilesystemRepository{
		root: root,
		retryConfig: retry.Config{
			MaxAttempts:   3,
			InitialDelay:  10 * time.Millisecond,
			BackoffPolicy: retry.BackoffExponential,
		},
	}
}

// Root returns the workspace root directory.
func (r *FilesystemRepository) Root() string {
	return r.root
}

// ResolvePath ensures the path is a direct child of the .cadence directory
// and prevents traversal.
func (r *FilesystemRepository) ResolvePath(filename string) (string, error) {
	return resolveChild(filepath.Join(r.root, CadenceDir), filename)
}

func (r *FilesystemRepository) sessionPath(id string) (string, error) {
	if err := session.ValidateID(id); err != nil {
		return "", err
	}
	return resolveChild(filepath.Join(r.root, CadenceDir, SessionsDir), id+".json")
}

func resolveChild(baseDir, filename string) (string, error) {
	if filename == "" {
		return "", fmt.Errorf("filename cannot be empty")
	}

	cleanPath := filepath.Clean(filepath.Join(baseDir, filename))
	if !strings.HasPrefix(cleanPath, baseDir) || filepath.Dir(cleanPath) != baseDir {
		return "", fmt.Errorf("invalid file path: %s", filename)
	}
	return cleanPath, nil
}

func (r *FilesystemRepository) Initialize() error {
	path := filepath.Join(r.root, CadenceDir, SessionsDir)
	// G301: Use 0700 for directories
	if err := os.MkdirAll(path, 0700); err != nil {
		return fmt.Errorf("failed to create %s directory: %w", CadenceDir, err)
	}
	return nil
}

func (r *FilesystemRepository) IsInitialized() bool {
	_, err := os.Stat(filepath.Join(r.root, CadenceDir))
	return err == nil
}

func (r *FilesystemRepository) SaveSession(s *session.Session) error {
	if s == nil {
		return fmt.Errorf("session is nil")
	}
	path, err := r.sessionPath(s.ID)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create sessions directory: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	// Write to a sibling temp file first so readers never see a partial session.
	tmp := path + ".tmp"
	// G306: Use 0600 for files
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

func (r *FilesystemRepository) LoadSession(id string) (*session.Session, error) {
	path, err := r.sessionPath(id)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", session.ErrSessionNotFound, id)
	}

	retryer := retry.New[*session.Session](r.retryConfig)
	return retryer.Do(context.Background(), func(ctx context.Context) (*session.Session, error) {
		return readSession(path)
	})
}

func readSession(path string) (*session.Session, error) {
	// #nosec G304 -- Path is resolved and validated via sessionPath
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var s session.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	if s.Messages == nil {
		s.Messages = make([]session.Message, 0)
	}
	return &s, nil
}

func (r *FilesystemRepository) DeleteSession(id string) error {
	path, err := r.sessionPath(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", session.ErrSessionNotFound, id)
		}
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (r *FilesystemRepository) ListSessions() ([]*session.Session, error) {
	dir := filepath.Join(r.root, CadenceDir, SessionsDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []*session.Session{}, nil
		}
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	sessions := make([]*session.Session, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}
		id := strings.TrimSuffix(name, ".json")
		if session.ValidateID(id) != nil {
			continue
		}
		s, err := readSession(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})
	return sessions, nil
}
