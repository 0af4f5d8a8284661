package blockstore

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/ethdb/leveldb"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/gofrs/flock"

	"github.com/mivelabs/multiverse/block"
	"github.com/mivelabs/multiverse/blockid"
)

// LevelDB is a disk-backed Store. It RLP-encodes whole blocks under a
// single key prefix the way core/rawdb/accessors_chain.go encodes headers,
// which is enough for a block archive that never needs range scans by
// chain length (the multiverse's length index, not the store, owns that).
type LevelDB struct {
	db   ethdb.KeyValueStore
	lock *flock.Flock
}

// OpenLevelDB opens (creating if necessary) a LevelDB block store rooted at
// dir, taking an exclusive directory lock so a second process can't open
// the same store concurrently — the same directory-lock discipline
// go-ethereum's node package applies to its data directory.
func OpenLevelDB(dir string, cache, handles int) (*LevelDB, error) {
	fl := flock.New(dir + "/LOCK")
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("blockstore: locking %s: %w", dir, err)
	}
	if !locked {
		return nil, fmt.Errorf("blockstore: %s is already locked by another process", dir)
	}
	db, err := leveldb.New(dir, cache, handles, "multiverse/blockstore/", false)
	if err != nil {
		_ = fl.Unlock()
		return nil, err
	}
	return &LevelDB{db: db, lock: fl}, nil
}

// Close releases the database handle and the directory lock.
func (s *LevelDB) Close() error {
	err := s.db.Close()
	if unlockErr := s.lock.Unlock(); unlockErr != nil {
		log.Warn("Failed to release block store lock", "err", unlockErr)
	}
	return err
}

func (s *LevelDB) GetBlockInfo(ctx context.Context, id blockid.ID) (Info, error) {
	b, err := s.GetBlock(ctx, id)
	if err != nil {
		return Info{}, err
	}
	return Info{ParentID: b.Header.ParentID, ChainLength: b.Header.ChainLength}, nil
}

func (s *LevelDB) GetBlock(ctx context.Context, id blockid.ID) (block.Block, error) {
	data, err := s.db.Get(blockKey(id))
	if err != nil {
		return block.Block{}, ErrNotFound
	}
	var b block.Block
	if err := rlp.DecodeBytes(data, &b); err != nil {
		return block.Block{}, fmt.Errorf("blockstore: corrupt record for %s: %w", id, err)
	}
	return b, nil
}

func (s *LevelDB) PutBlock(ctx context.Context, b block.Block) error {
	data, err := rlp.EncodeToBytes(&b)
	if err != nil {
		return fmt.Errorf("blockstore: encoding block %s: %w", b.ID(), err)
	}
	return s.db.Put(blockKey(b.ID()), data)
}
