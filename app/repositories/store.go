package repositories

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/dgraph-io/badger/v4"
)

// Store owns the Badger database shared by the post, comment and user repositories.
// Writes are serialized so read-modify-write updates such as view counting never
// lose increments and sequence keys never conflict.
type Store struct {
	db       *badger.DB
	mutex    sync.Mutex
	path     string
	inMemory bool
}

// Open opens the Badger database at path. An empty path opens an in-memory database.
func Open(path string) (*Store, error) {
	var opts badger.Options
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(path)
	}
	opts = opts.
		WithLogger(nil).
		WithNumVersionsToKeep(1)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger at %q: %w", path, err)
	}
	return &Store{
		db:       db,
		path:     path,
		inMemory: path == "",
	}, nil
}

// OpenInMemory opens a throwaway store, used by tests.
func OpenInMemory() (*Store, error) {
	return Open("")
}

// Posts returns the post repository backed by this store.
func (s *Store) Posts() *BadgerPostRepository {
	return &BadgerPostRepository{store: s}
}

// Comments returns the comment repository backed by this store.
func (s *Store) Comments() *BadgerCommentRepository {
	return &BadgerCommentRepository{store: s}
}

// Users returns the user repository backed by this store.
func (s *Store) Users() *BadgerUserRepository {
	return &BadgerUserRepository{store: s}
}

func (s *Store) view(ctx context.Context, fn func(txn *badger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.View(fn)
}

func (s *Store) update(ctx context.Context, fn func(txn *badger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.db.Update(fn)
}

// Backup streams a full backup of the database to w.
func (s *Store) Backup(w io.Writer) error {
	_, err := s.db.Backup(w, 0)
	return err
}

// Load restores a backup produced by Backup.
func (s *Store) Load(r io.Reader) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.db.Load(r, 4)
}

// Clear drops every key in the database.
func (s *Store) Clear() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.db.DropAll()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.db.Close()
}

var (
	_ PostRepository    = (*BadgerPostRepository)(nil)
	_ CommentRepository = (*BadgerCommentRepository)(nil)
	_ UserRepository    = (*BadgerUserRepository)(nil)
)
