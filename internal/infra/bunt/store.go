// Package bunt keeps users and alerts as JSON documents in an embedded
// buntdb database. Use ":memory:" for a throwaway store.
package bunt

import (
	"fmt"
	"strconv"

	"github.com/tidwall/buntdb"
)

const (
	alertPrefix   = "alert:"
	userPrefix    = "user:"
	alertSeqKey   = "seq:alert"
	userSeqKey    = "seq:user"
	alertSeqIndex = "alerts_by_seq"
)

type Store struct {
	db *buntdb.DB
}

func Open(path string) (*Store, error) {
	db, err := buntdb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open buntdb: %w", err)
	}

	if err := db.CreateIndex(alertSeqIndex, alertPrefix+"*", buntdb.IndexJSON("seq")); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// nextSeq increments and returns the counter stored under key.
func nextSeq(tx *buntdb.Tx, key string) (int64, error) {
	var current int64
	value, err := tx.Get(key)
	switch err {
	case nil:
		current, err = strconv.ParseInt(value, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("corrupt sequence %s: %w", key, err)
		}
	case buntdb.ErrNotFound:
	default:
		return 0, err
	}

	current++
	if _, _, err := tx.Set(key, strconv.FormatInt(current, 10), nil); err != nil {
		return 0, err
	}
	return current, nil
}
