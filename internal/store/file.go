package store

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"wakuchat/core/internal/securestore"
)

// ErrNotConfigured is returned by NewFileStore when path or secret is
// blank.
var ErrNotConfigured = errors.New("store: encrypted file persistence is not configured")

// FileStore is a Store whose entire contents are persisted as a
// single encrypted JSON snapshot. It holds the live map in memory and
// rewrites the snapshot file after every mutation — adequate for the
// message/conversation volumes a single chat client handles locally,
// not intended as a general-purpose database.
type FileStore struct {
	mu       sync.Mutex
	path     string
	secret   string
	data     map[string]string
	revision string
}

// NewFileStore opens (or initializes) an encrypted snapshot at path,
// keyed by secret. It fails with ErrNotConfigured if either is blank.
func NewFileStore(path, secret string) (*FileStore, error) {
	path, secret = securestore.NormalizeStorageConfig(path, secret)
	if !securestore.IsStorageConfigured(path, secret) {
		return nil, ErrNotConfigured
	}

	fs := &FileStore{path: path, secret: secret, data: make(map[string]string)}
	raw, err := securestore.ReadDecryptedFile(path, secret)
	switch {
	case err == nil:
		if err := fs.loadSnapshot(raw); err != nil {
			return nil, err
		}
	case errors.Is(err, securestore.ErrLegacyData):
		return nil, err
	default:
		// Treat a missing file as an empty store; any other read
		// error (wrong secret, tampered file) must surface.
		if !isNotExist(err) {
			return nil, err
		}
	}
	return fs, nil
}

func (s *FileStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return s.flushLocked()
}

func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return s.flushLocked()
}

func (s *FileStore) List(prefix string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0)
	for k := range s.data {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string]string)
	return s.flushLocked()
}

func (s *FileStore) flushLocked() error {
	if err := securestore.WriteEncryptedJSON(s.path, s.secret, s.data); err != nil {
		return err
	}
	s.revision = uuid.NewString()
	return nil
}

// Revision returns an opaque token that changes on every successful
// flush — a cheap way for a caller to detect that the on-disk snapshot
// moved without re-reading and diffing its contents.
func (s *FileStore) Revision() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

func (s *FileStore) loadSnapshot(raw []byte) error {
	data, err := decodeSnapshot(raw)
	if err != nil {
		return err
	}
	s.data = data
	return nil
}
