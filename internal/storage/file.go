package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/AdrianDanlos/rythm/internal"
)

const defaultSaveDelay = 500 * time.Millisecond

// FileStorage keeps everything in memory and writes it back to two JSON
// files. Writes are debounced by background workers; Close flushes.
type FileStorage struct {
	entries      map[string]map[string]*internal.Entry // userID -> date -> Entry
	users        map[string]*internal.User             // token -> User
	mu           sync.RWMutex
	writeMu      sync.Mutex // serialises file writes between workers and Close
	entriesFile  string
	usersFile    string
	saveEntries  chan struct{}
	saveUsers    chan struct{}
	shutdownChan chan struct{}
	closeOnce    sync.Once
	workers      sync.WaitGroup
	saveDelay    time.Duration
	logger       internal.Logger
}

func NewFileStorage(entriesFile, usersFile string, logger internal.Logger) (*FileStorage, error) {
	s := &FileStorage{
		entries:      make(map[string]map[string]*internal.Entry),
		users:        make(map[string]*internal.User),
		entriesFile:  entriesFile,
		usersFile:    usersFile,
		saveEntries:  make(chan struct{}, 1),
		saveUsers:    make(chan struct{}, 1),
		shutdownChan: make(chan struct{}),
		saveDelay:    defaultSaveDelay,
		logger:       logger,
	}

	for _, path := range []string{entriesFile, usersFile} {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}
	if err := s.loadEntries(); err != nil {
		logger.Errorf("storage: failed to load entries: %v", err)
		return nil, err
	}
	if err := s.loadUsers(); err != nil {
		logger.Errorf("storage: failed to load users: %v", err)
		return nil, err
	}

	s.workers.Add(2)
	go s.saveWorker(s.saveEntries, s.writeEntries, "entries")
	go s.saveWorker(s.saveUsers, s.writeUsers, "users")

	return s, nil
}

// readJSONFile decodes path into v. A missing or empty file leaves v alone.
func readJSONFile(path string, v interface{}) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}

func (s *FileStorage) loadEntries() error {
	var entries []*internal.Entry
	if err := readJSONFile(s.entriesFile, &entries); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		s.byUser(e.UserID)[e.EntryDate] = e
	}
	return nil
}

func (s *FileStorage) loadUsers() error {
	var users []*internal.User
	if err := readJSONFile(s.usersFile, &users); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range users {
		s.users[u.Token] = u
	}
	return nil
}

// byUser returns the user's date index, creating it. Callers hold mu.
func (s *FileStorage) byUser(userID string) map[string]*internal.Entry {
	m, ok := s.entries[userID]
	if !ok {
		m = make(map[string]*internal.Entry)
		s.entries[userID] = m
	}
	return m
}

func atomicWriteFileJSON(filePath string, data interface{}) error {
	tempFile := filePath + ".tmp"
	f, err := os.Create(tempFile)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}

	return os.Rename(tempFile, filePath)
}

func (s *FileStorage) writeEntries() error {
	s.mu.RLock()
	entries := make([]*internal.Entry, 0)
	for _, byDate := range s.entries {
		for _, e := range byDate {
			entries = append(entries, e)
		}
	}
	s.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].UserID != entries[j].UserID {
			return entries[i].UserID < entries[j].UserID
		}
		return entries[i].EntryDate < entries[j].EntryDate
	})
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return atomicWriteFileJSON(s.entriesFile, entries)
}

func (s *FileStorage) writeUsers() error {
	s.mu.RLock()
	users := make([]*internal.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	s.mu.RUnlock()

	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return atomicWriteFileJSON(s.usersFile, users)
}

// saveWorker batches save signals so bursts of writes hit the disk once.
func (s *FileStorage) saveWorker(signal <-chan struct{}, save func() error, what string) {
	defer s.workers.Done()
	timer := time.NewTimer(s.saveDelay)
	defer timer.Stop()

	for {
		select {
		case <-signal:
			timer.Reset(s.saveDelay)
		case <-timer.C:
			if err := save(); err != nil {
				s.logger.Errorf("storage: error saving %s: %v", what, err)
			}
		case <-s.shutdownChan:
			return
		}
	}
}

func notify(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

// Close stops the workers and saves pending data synchronously.
func (s *FileStorage) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.shutdownChan)
		s.workers.Wait()
		if err = s.writeEntries(); err != nil {
			return
		}
		err = s.writeUsers()
	})
	return err
}

// --- EntryRepository ---
func (s *FileStorage) UpsertEntry(ctx context.Context, e *internal.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byDate := s.byUser(e.UserID)
	if existing, ok := byDate[e.EntryDate]; ok {
		e.ID = existing.ID
		e.CreatedAt = existing.CreatedAt
	}
	stored := *e
	stored.Tags = append([]string(nil), e.Tags...)
	byDate[e.EntryDate] = &stored

	notify(s.saveEntries)
	return nil
}

func (s *FileStorage) GetEntry(ctx context.Context, userID, date string) (*internal.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[userID][date]
	if !ok {
		return nil, ErrNotFound
	}
	out := *e
	return &out, nil
}

func (s *FileStorage) ListEntries(ctx context.Context, userID string) ([]internal.Entry, error) {
	s.mu.RLock()
	byDate := s.entries[userID]
	entries := make([]internal.Entry, 0, len(byDate))
	for _, e := range byDate {
		entries = append(entries, *e)
	}
	s.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].EntryDate > entries[j].EntryDate
	})
	return entries, nil
}

func (s *FileStorage) DeleteEntry(ctx context.Context, userID, date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[userID][date]; !ok {
		return ErrNotFound
	}
	delete(s.entries[userID], date)
	notify(s.saveEntries)
	return nil
}

// --- UserRepository ---
func (s *FileStorage) GetUserByToken(ctx context.Context, token string) (*internal.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[token]
	if !ok {
		return nil, ErrNotFound
	}
	out := *u
	return &out, nil
}

func (s *FileStorage) SaveUser(ctx context.Context, u *internal.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, existing := range s.users {
		if existing.ID == u.ID {
			delete(s.users, token)
		}
	}
	stored := *u
	s.users[u.Token] = &stored
	notify(s.saveUsers)
	return nil
}

// --- Compile-time assertions ---
var _ Store = (*FileStorage)(nil)
