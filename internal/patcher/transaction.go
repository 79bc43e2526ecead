package patcher

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"

	"github.com/answer-tools/answer-plugin/internal/apperr"
	"github.com/answer-tools/answer-plugin/internal/platform"
	"github.com/rs/zerolog"
)

var errTransactionClosed = errors.New("transaction already committed or rolled back")

// backup is a file's state before the transaction first touched it.
type backup struct {
	content []byte
	perm    os.FileMode
	existed bool
}

// Transaction records the original state of every file it touches so the
// whole set can be restored. The first backup of a path wins. A Transaction
// is used for one batch and then discarded; it is not safe for concurrent use.
type Transaction struct {
	sys      platform.System
	logger   zerolog.Logger
	order    []string
	backups  map[string]backup
	modified map[string]bool
	closed   bool
}

// NewTransaction starts an empty transaction over sys.
func NewTransaction(sys platform.System, logger zerolog.Logger) *Transaction {
	return &Transaction{
		sys:      sys,
		logger:   logger.With().Str("component", "transaction").Logger(),
		backups:  make(map[string]backup),
		modified: make(map[string]bool),
	}
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// Backup captures path's current content, or its absence. Backing up a path
// twice keeps the first capture.
func (tx *Transaction) Backup(path string) error {
	if tx.closed {
		return apperr.FileSystem(path, "backing up file", errTransactionClosed)
	}
	path = absPath(path)
	if _, ok := tx.backups[path]; ok {
		return nil
	}

	info, err := tx.sys.Stat(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return apperr.FileSystem(path, "inspecting file", err)
		}
		tx.record(path, backup{})
		return nil
	}
	data, err := tx.sys.ReadFile(path)
	if err != nil {
		return apperr.FileSystem(path, "backing up file", err)
	}
	tx.record(path, backup{content: data, perm: info.Mode().Perm(), existed: true})
	return nil
}

func (tx *Transaction) record(path string, b backup) {
	tx.backups[path] = b
	tx.order = append(tx.order, path)
}

// WriteFile backs up path if needed, creates its parent directories, and
// replaces its content. If anything fails the whole transaction is rolled
// back before the error is returned.
func (tx *Transaction) WriteFile(path string, content []byte) error {
	if tx.closed {
		return apperr.FileSystem(path, "writing file", errTransactionClosed)
	}
	path = absPath(path)
	if err := tx.Backup(path); err != nil {
		return tx.abort(err)
	}
	perm := os.FileMode(0644)
	if b := tx.backups[path]; b.existed {
		perm = b.perm
	}
	if err := tx.sys.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return tx.abort(apperr.FileSystem(filepath.Dir(path), "creating directory", err))
	}
	if err := tx.sys.WriteFileAtomic(path, content, perm); err != nil {
		return tx.abort(apperr.FileSystem(path, "writing file", err))
	}
	tx.modified[path] = true
	tx.logger.Debug().Str("op", "write").Str("path", path).Int("bytes", len(content)).Msg("File written")
	return nil
}

// abort rolls back and returns cause. Rollback failures are logged by Rollback.
func (tx *Transaction) abort(cause error) error {
	_ = tx.Rollback()
	return cause
}

// Commit makes every write permanent. Rollback is a no-op afterwards.
func (tx *Transaction) Commit() {
	if tx.closed {
		return
	}
	tx.logger.Debug().Str("op", "commit").Int("files", len(tx.modified)).Msg("Transaction committed")
	tx.discard()
}

// Rollback restores every backed-up path to its captured content, deleting
// paths that did not exist before. It keeps going after a failure and
// returns all failures joined.
func (tx *Transaction) Rollback() error {
	if tx.closed {
		return nil
	}
	var errs []error
	for _, path := range tx.order {
		if err := tx.restore(path, tx.backups[path]); err != nil {
			tx.logger.Error().Str("op", "rollback").Str("path", path).Err(err).Msg("Failed to restore file")
			errs = append(errs, apperr.FileSystem(path, "restoring file", err))
		}
	}
	tx.logger.Debug().Str("op", "rollback").Int("files", len(tx.order)).Int("failures", len(errs)).Msg("Transaction rolled back")
	tx.discard()
	return errors.Join(errs...)
}

func (tx *Transaction) restore(path string, b backup) error {
	current, err := tx.sys.ReadFile(path)
	exists := err == nil
	if err != nil && !os.IsNotExist(err) {
		exists = true
	}

	if !b.existed {
		if !exists {
			return nil
		}
		if err := tx.sys.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
		return nil
	}
	if err == nil && bytes.Equal(current, b.content) {
		return nil
	}
	return tx.sys.WriteFileAtomic(path, b.content, b.perm)
}

func (tx *Transaction) discard() {
	tx.closed = true
	tx.backups = nil
	tx.order = nil
	tx.modified = nil
}

// HasChanges reports whether any file was written and not yet committed or
// rolled back.
func (tx *Transaction) HasChanges() bool {
	return len(tx.modified) > 0
}

// Modified returns the written paths in backup order.
func (tx *Transaction) Modified() []string {
	var out []string
	for _, path := range tx.order {
		if tx.modified[path] {
			out = append(out, path)
		}
	}
	return out
}
