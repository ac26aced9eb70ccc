package storage

import (
	"fmt"
	"time"

	"github.com/colorfulnotion/chronospatial/common"
	"github.com/colorfulnotion/chronospatial/log"
	"github.com/ethereum/go-ethereum/rlp"
	"golang.org/x/exp/slices"
)

var quinePrefix = []byte("quine:")

// QuineEntry is one finished search. Exhausted searches are cached too, with
// Found unset, so they are not repeated. Limited marks a search that stopped
// at its iteration budget rather than running out of candidates.
type QuineEntry struct {
	Program    []byte
	Seed       uint64
	Found      bool
	Iterations uint64
	ElapsedUS  uint32
	Stored     uint64 // unix seconds
	Limited    bool   `rlp:"optional"`
}

// QuineCache remembers search results keyed by the Blake2b hash of the program
// bytes.
type QuineCache struct {
	store *PersistenceStore
}

// NewQuineCache opens a cache at dir; "" keeps it in memory.
func NewQuineCache(dir string) (*QuineCache, error) {
	store, err := NewPersistenceStore(dir)
	if err != nil {
		return nil, err
	}
	return &QuineCache{store: store}, nil
}

func quineKey(code []byte) []byte {
	h := common.Blake2Hash(code)
	return append(slices.Clone(quinePrefix), h.Bytes()...)
}

// Get returns the cached entry for code, if any.
func (qc *QuineCache) Get(code []byte) (*QuineEntry, bool, error) {
	data, ok, err := qc.store.Get(quineKey(code))
	if err != nil || !ok {
		return nil, false, err
	}
	var e QuineEntry
	if err := rlp.DecodeBytes(data, &e); err != nil {
		return nil, false, fmt.Errorf("decode cache entry for %s: %w", common.Blake2Hash(code).String_short(), err)
	}
	log.Debug(log.CacheMonitoring, "cache hit", "program", common.Blake2Hash(code).String_short(), "seed", e.Seed, "found", e.Found)
	return &e, true, nil
}

// Put stores e under the hash of e.Program.
func (qc *QuineCache) Put(e *QuineEntry) error {
	if e.Stored == 0 {
		e.Stored = uint64(time.Now().Unix())
	}
	data, err := rlp.EncodeToBytes(e)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	log.Debug(log.CacheMonitoring, "cache put", "program", common.Blake2Hash(e.Program).String_short(), "seed", e.Seed, "found", e.Found)
	return qc.store.Put(quineKey(e.Program), data)
}

func (qc *QuineCache) Delete(code []byte) error {
	return qc.store.Delete(quineKey(code))
}

// Entries lists every cached search.
func (qc *QuineCache) Entries() ([]*QuineEntry, error) {
	kvs, err := qc.store.GetWithPrefix(quinePrefix)
	if err != nil {
		return nil, err
	}
	entries := make([]*QuineEntry, 0, len(kvs))
	for _, kv := range kvs {
		var e QuineEntry
		if err := rlp.DecodeBytes(kv[1], &e); err != nil {
			return nil, fmt.Errorf("decode cache entry %x: %w", kv[0], err)
		}
		entries = append(entries, &e)
	}
	return entries, nil
}

func (qc *QuineCache) Close() error {
	return qc.store.Close()
}
