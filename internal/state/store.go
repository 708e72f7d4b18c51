package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Store is a handle on the registry directory. It carries no in-process
// cache: every operation goes to disk so unrelated processes observe each
// other's updates.
type Store struct {
	dir string
}

// Open acquires the registry at its well-known location, creating it if
// absent.
func Open() (*Store, error) {
	return OpenAt(DefaultDir())
}

// OpenAt acquires the registry at dir, creating it if absent.
func OpenAt(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("open state store: empty directory")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("open state store %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the registry directory.
func (s *Store) Dir() string {
	return s.dir
}

// Upsert creates or partially updates the record for key. A record is
// created lazily on first update, capturing the caller's working directory;
// later updates touch only the fields supplied. Whenever a status is
// supplied the status-changed timestamp is refreshed.
//
// The record file is replaced atomically, so two processes racing on the
// same key end with one writer's complete record (last write wins), never
// an interleaving. Distinct keys never contend.
func (s *Store) Upsert(key Key, up Update) (Agent, error) {
	if key.PaneID == "" {
		return Agent{}, errors.New("upsert: empty pane id")
	}
	if up.Status != nil && !up.Status.Valid() {
		return Agent{}, fmt.Errorf("upsert %s: invalid status %q", key, *up.Status)
	}

	rec, ok := s.read(key.filename())
	if !ok {
		workdir, err := os.Getwd()
		if err != nil {
			workdir = ""
		}
		rec = Agent{Key: key, Workdir: workdir}
	}
	rec.Key = key

	if up.Title != nil {
		rec.Title = *up.Title
	}
	if up.Status != nil {
		rec.Status = *up.Status
		now := time.Now().UTC()
		rec.StatusChangedAt = &now
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return Agent{}, fmt.Errorf("upsert %s: %w", key, err)
	}
	if err := s.writeAtomic(key.filename(), append(data, '\n')); err != nil {
		return Agent{}, fmt.Errorf("upsert %s: %w", key, err)
	}
	return rec, nil
}

// ListAll returns a snapshot of all records, sorted by key for stable
// output. Damaged or partially written entries are skipped rather than
// failing the listing.
func (s *Store) ListAll() ([]Agent, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list state store %s: %w", s.dir, err)
	}

	agents := make([]Agent, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		rec, ok := s.read(entry.Name())
		if !ok {
			continue
		}
		agents = append(agents, rec)
	}

	sort.Slice(agents, func(i, j int) bool {
		if agents[i].Key.Backend == agents[j].Key.Backend {
			return agents[i].Key.PaneID < agents[j].Key.PaneID
		}
		return agents[i].Key.Backend < agents[j].Key.Backend
	})
	return agents, nil
}

// read decodes one record file. False for a missing, damaged, or
// half-written file.
func (s *Store) read(name string) (Agent, bool) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return Agent{}, false
	}
	var rec Agent
	if err := json.Unmarshal(data, &rec); err != nil {
		return Agent{}, false
	}
	if rec.Key.PaneID == "" {
		return Agent{}, false
	}
	return rec, true
}

// writeAtomic replaces the record file via a temp file in the same
// directory and a rename, so readers never observe a partial record.
func (s *Store) writeAtomic(name string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()
	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, filepath.Join(s.dir, name))
}
