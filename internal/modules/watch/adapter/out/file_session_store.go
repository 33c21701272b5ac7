package out

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"octowatch/internal/modules/watch/domain"
	watchout "octowatch/internal/modules/watch/port/out"
	"octowatch/internal/platform/logging"
)

const (
	activeFile   = "active_sessions.json"
	archivedFile = "archived_sessions.json"
	lastSeenFile = "last_seen.json"
)

// FileSessionStore keeps the watcher's collections as JSON files under the
// output directory. Loads never fail the poll loop: a missing or corrupt
// file degrades to an empty collection with a logged warning, and
// individually malformed entries are dropped with a count.
type FileSessionStore struct {
	dir string
	log *logging.Logger
	mu  sync.Mutex
}

func NewFileSessionStore(dir string, log *logging.Logger) watchout.SessionStore {
	return &FileSessionStore{dir: dir, log: log}
}

func (s *FileSessionStore) LoadActive(_ context.Context) ([]domain.Session, error) {
	return s.loadSessions(activeFile), nil
}

func (s *FileSessionStore) SaveActive(_ context.Context, sessions []domain.Session) error {
	return s.writeJSON(activeFile, sessions)
}

func (s *FileSessionStore) LoadArchived(_ context.Context) ([]domain.Session, error) {
	return s.loadSessions(archivedFile), nil
}

func (s *FileSessionStore) SaveArchived(_ context.Context, sessions []domain.Session) error {
	return s.writeJSON(archivedFile, sessions)
}

func (s *FileSessionStore) LoadLastSeen(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(filepath.Join(s.dir, lastSeenFile))
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("unreadable store file, treating as empty", map[string]any{
				"file": lastSeenFile, "error": err.Error(),
			})
		}
		return []string{}, nil
	}
	var observed []string
	if err := json.Unmarshal(b, &observed); err != nil {
		s.log.Warn("corrupt store file, treating as empty", map[string]any{
			"file": lastSeenFile, "error": err.Error(),
		})
		return []string{}, nil
	}
	return observed, nil
}

func (s *FileSessionStore) SaveLastSeen(_ context.Context, observed []string) error {
	return s.writeJSON(lastSeenFile, observed)
}

func (s *FileSessionStore) loadSessions(name string) []domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("unreadable store file, treating as empty", map[string]any{
				"file": name, "error": err.Error(),
			})
		}
		return []domain.Session{}
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(b, &entries); err != nil {
		s.log.Warn("corrupt store file, treating as empty", map[string]any{
			"file": name, "error": err.Error(),
		})
		return []domain.Session{}
	}

	sessions := make([]domain.Session, 0, len(entries))
	seen := map[string]struct{}{}
	dropped := 0
	for _, entry := range entries {
		var session domain.Session
		if err := json.Unmarshal(entry, &session); err != nil || session.Raw == "" {
			dropped++
			continue
		}
		if _, ok := seen[session.Raw]; ok {
			s.log.Warn("duplicate session record dropped", map[string]any{
				"file": name, "session": session.Raw,
			})
			continue
		}
		seen[session.Raw] = struct{}{}
		sessions = append(sessions, session)
	}
	if dropped > 0 {
		s.log.Warn("malformed session records dropped", map[string]any{
			"file": name, "dropped": dropped,
		})
	}
	return sessions
}

// writeJSON writes the full replacement collection to a temp file then
// renames it into place, so a reader never sees a partial write.
func (s *FileSessionStore) writeJSON(name string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	payload = append(payload, '\n')

	path := filepath.Join(s.dir, name)
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", name, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}
