package repositories

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"myblog/app/models"
)

const (
	// Key prefixes for different entity types
	PostKeyPrefix    = "post:"
	CommentKeyPrefix = "comment:"
	UserKeyPrefix    = "user:"

	// Secondary index prefixes
	PostAuthorIndexPrefix  = "idx:post_author:"
	CommentPostIndexPrefix = "idx:comment_post:"
	UserNameIndexPrefix    = "idx:user_name:"

	// Sequence keys for auto-incrementing IDs
	PostSeqKey    = "seq:post"
	CommentSeqKey = "seq:comment"
	UserSeqKey    = "seq:user"
)

// padID renders an id so that lexical key order matches numeric order.
func padID(n uint64) string {
	return fmt.Sprintf("%020d", n)
}

// parseID converts a public id into its numeric form. Ids that were never
// issued by the store report ok=false and are treated as not found.
func parseID(id string) (uint64, bool) {
	if id == "" || strings.TrimLeft(id, "0123456789") != "" {
		return 0, false
	}
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return n, true
}

func uitoa(n uint64) string {
	return strconv.FormatUint(n, 10)
}

func entityKey(prefix string, n uint64) []byte {
	return []byte(prefix + padID(n))
}

func indexKey(prefix, owner string, n uint64) []byte {
	return []byte(prefix + owner + ":" + padID(n))
}

// indexTail extracts the trailing padded id from an index key.
func indexTail(key []byte) (uint64, error) {
	k := string(key)
	i := strings.LastIndexByte(k, ':')
	if i < 0 {
		return 0, fmt.Errorf("malformed index key %q", k)
	}
	return strconv.ParseUint(k[i+1:], 10, 64)
}

// getNextID gets the next available ID for a given sequence key
func getNextID(txn *badger.Txn, seqKey string) (uint64, error) {
	var id uint64
	item, err := txn.Get([]byte(seqKey))
	if errors.Is(err, badger.ErrKeyNotFound) {
		id = 1
	} else if err != nil {
		return 0, err
	} else {
		err = item.Value(func(val []byte) error {
			if len(val) != 8 {
				return fmt.Errorf("corrupt sequence %s", seqKey)
			}
			id = binary.BigEndian.Uint64(val)
			return nil
		})
		if err != nil {
			return 0, err
		}
		id++
	}

	// Store new ID
	idBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(idBytes, id)
	if err := txn.Set([]byte(seqKey), idBytes); err != nil {
		return 0, err
	}

	return id, nil
}

// marshalEntity marshals an entity to JSON
func marshalEntity(entity interface{}) ([]byte, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity: %w", err)
	}
	return data, nil
}

// unmarshalEntity unmarshals JSON data into an entity
func unmarshalEntity(data []byte, entity interface{}) error {
	if err := json.Unmarshal(data, entity); err != nil {
		return fmt.Errorf("failed to unmarshal entity: %w", err)
	}
	return nil
}

// getEntity loads key into entity, mapping a missing key to ErrNotFound.
func getEntity(txn *badger.Txn, key []byte, entity interface{}) error {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return unmarshalEntity(val, entity)
	})
}

func setEntity(txn *badger.Txn, key []byte, entity interface{}) error {
	data, err := marshalEntity(entity)
	if err != nil {
		return err
	}
	return txn.Set(key, data)
}

// authorProfile joins the public profile of a user. A user that no longer
// exists still yields its identity so ownership checks keep working.
func authorProfile(txn *badger.Txn, userID string) (*models.Author, error) {
	n, ok := parseID(userID)
	if !ok {
		return &models.Author{ID: userID}, nil
	}
	var user models.User
	err := getEntity(txn, entityKey(UserKeyPrefix, n), &user)
	if errors.Is(err, ErrNotFound) {
		return &models.Author{ID: userID}, nil
	}
	if err != nil {
		return nil, err
	}
	return user.Profile(), nil
}

// countPrefix counts keys under prefix without fetching values.
func countPrefix(txn *badger.Txn, prefix []byte) int {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	count := 0
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		count++
	}
	return count
}

// collectIDs returns the trailing ids of all index keys under prefix.
func collectIDs(txn *badger.Txn, prefix []byte, reverse bool) ([]uint64, error) {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Reverse = reverse
	it := txn.NewIterator(opts)
	defer it.Close()

	start := prefix
	if reverse {
		start = append(append([]byte{}, prefix...), 0xff)
	}
	var ids []uint64
	for it.Seek(start); it.ValidForPrefix(prefix); it.Next() {
		id, err := indexTail(it.Item().Key())
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
