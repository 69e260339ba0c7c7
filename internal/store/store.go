package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/hyprpal/minhypr/internal/util"
)

// FileStore persists records as a JSON array in a single file.
type FileStore struct {
	path     string
	lockPath string
	logger   *util.Logger
}

// NewFileStore returns a store backed by path, locking through lockPath.
func NewFileStore(path, lockPath string, logger *util.Logger) *FileStore {
	return &FileStore{path: path, lockPath: lockPath, logger: logger}
}

// Path returns the backing file.
func (s *FileStore) Path() string {
	return s.path
}

// Init creates the state directory and an empty store file when absent.
func (s *FileStore) Init() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.Wrap(err, "create state directory")
	}
	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return errors.Wrap(err, "stat store file")
	}
	return s.Save(nil)
}

// Load returns the stored records. A missing or unreadable file is empty, and
// so is a corrupt one, which is logged and overwritten by the next save.
func (s *FileStore) Load() Records {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warnf("read store %s: %v", s.path, err)
		}
		return Records{}
	}
	var records Records
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warnf("store %s is corrupt, treating as empty: %v", s.path, err)
		return Records{}
	}
	if records == nil {
		records = Records{}
	}
	return records
}

// Save replaces the store contents atomically.
func (s *FileStore) Save(records Records) error {
	if records == nil {
		records = Records{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode records")
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "create state directory")
	}

	tmp := s.path + "." + uuid.NewString() + ".tmp"
	file, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return errors.Wrap(err, "create temp store file")
	}
	success := false
	defer func() {
		if !success {
			file.Close()
			os.Remove(tmp)
		}
	}()

	if _, err := file.Write(data); err != nil {
		return errors.Wrap(err, "write temp store file")
	}
	if err := file.Sync(); err != nil {
		return errors.Wrap(err, "sync temp store file")
	}
	if err := file.Close(); err != nil {
		return errors.Wrap(err, "close temp store file")
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return errors.Wrap(err, "replace store file")
	}
	success = true
	return nil
}

const lockPollInterval = 20 * time.Millisecond

// Lock takes an exclusive advisory lock on the lock file, polling until ctx
// is done. The returned func releases it.
func (s *FileStore) Lock(ctx context.Context) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(s.lockPath), 0o755); err != nil {
		return nil, errors.Wrap(err, "create lock directory")
	}
	file, err := os.OpenFile(s.lockPath, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, errors.Wrap(err, "open lock file")
	}
	ticker := time.NewTicker(lockPollInterval)
	defer ticker.Stop()
	for {
		err := unix.Flock(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB)
		if err == nil {
			return func() {
				_ = unix.Flock(int(file.Fd()), unix.LOCK_UN)
				file.Close()
			}, nil
		}
		if err != unix.EWOULDBLOCK && err != unix.EINTR {
			file.Close()
			return nil, errors.Wrap(err, "flock")
		}
		select {
		case <-ctx.Done():
			file.Close()
			return nil, errors.Wrap(ctx.Err(), "wait for store lock")
		case <-ticker.C:
		}
	}
}
