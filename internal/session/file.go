package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-faster/errors"
)

// fileSession is the on-disk JSON shape.
type fileSession struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// FileStore persists the session to a JSON file so an admin login survives
// process restarts, the way localStorage survived page reloads.
type FileStore struct {
	path string

	mu      sync.RWMutex
	session fileSession
	valid   bool
}

// NewFileStore opens (or initialises) a file-backed session store at path.
// A missing file is an empty session, not an error.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, errors.Wrap(err, "read session file")
	}

	var sess fileSession
	if err := json.Unmarshal(data, &sess); err != nil {
		// A corrupt session file means "logged out", not a fatal error.
		return s, nil
	}
	if sess.Token != "" {
		s.session = sess
		s.valid = true
	}
	return s, nil
}

func (s *FileStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Token
}

func (s *FileStore) User() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.User, s.valid
}

func (s *FileStore) Save(token string, u User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = fileSession{Token: token, User: u}
	s.valid = true
	return s.write()
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = fileSession{}
	s.valid = false

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "remove session file")
	}
	return nil
}

// write persists the current session atomically: write a temp file next to
// the target, then rename over it.
func (s *FileStore) write() error {
	data, err := json.Marshal(s.session)
	if err != nil {
		return errors.Wrap(err, "marshal session")
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return errors.Wrap(err, "create temp session file")
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return errors.Wrap(err, "write session file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(err, "close session file")
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return errors.Wrap(err, "replace session file")
	}
	return nil
}
