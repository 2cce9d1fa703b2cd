package repositories

import (
	"context"
	"errors"
	"strconv"

	"github.com/dgraph-io/badger/v4"

	"myblog/app/models"
)

// BadgerUserRepository implements UserRepository using BadgerDB
type BadgerUserRepository struct {
	store *Store
}

// Create stores a new user. Names are unique.
func (r *BadgerUserRepository) Create(ctx context.Context, user *models.User) error {
	return r.store.update(ctx, func(txn *badger.Txn) error {
		nameKey := []byte(UserNameIndexPrefix + user.Name)
		_, err := txn.Get(nameKey)
		if err == nil {
			return ErrDuplicate
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		id, err := getNextID(txn, UserSeqKey)
		if err != nil {
			return err
		}
		user.ID = uitoa(id)
		user.BeforeCreate()

		if err := setEntity(txn, entityKey(UserKeyPrefix, id), user); err != nil {
			return err
		}
		return txn.Set(nameKey, []byte(user.ID))
	})
}

// GetByID retrieves a user by ID
func (r *BadgerUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	n, ok := parseID(id)
	if !ok {
		return nil, ErrNotFound
	}
	var user models.User
	err := r.store.view(ctx, func(txn *badger.Txn) error {
		return getEntity(txn, entityKey(UserKeyPrefix, n), &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByName retrieves a user by unique name
func (r *BadgerUserRepository) GetByName(ctx context.Context, name string) (*models.User, error) {
	var user models.User
	err := r.store.view(ctx, func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(UserNameIndexPrefix + name))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		var n uint64
		err = item.Value(func(val []byte) error {
			var perr error
			n, perr = strconv.ParseUint(string(val), 10, 64)
			return perr
		})
		if err != nil {
			return err
		}
		return getEntity(txn, entityKey(UserKeyPrefix, n), &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}
