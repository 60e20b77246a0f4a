package session

import (
	"errors"
	"fmt"
	"log"

	"github.com/syndtr/goleveldb/leveldb"
)

// LevelDBStore persists session keys on disk so a signed-in session
// survives a restart of the client.
type LevelDBStore struct {
	db *leveldb.DB
}

// OpenLevelDBStore opens (or creates) the database at path.
func OpenLevelDBStore(path string) (*LevelDBStore, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open session db %s: %w", path, err)
	}
	log.Println("[session] LevelDB opened at", path)
	return &LevelDBStore{db: db}, nil
}

func (s *LevelDBStore) Get(key string) (string, bool, error) {
	v, err := s.db.Get([]byte(key), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(v), true, nil
}

func (s *LevelDBStore) Set(key, value string) error {
	return s.db.Put([]byte(key), []byte(value), nil)
}

func (s *LevelDBStore) Delete(key string) error {
	return s.db.Delete([]byte(key), nil)
}

func (s *LevelDBStore) Close() error {
	return s.db.Close()
}
