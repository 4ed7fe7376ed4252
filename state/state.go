// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	lru "github.com/hashicorp/golang-lru"

	"github.com/vechain/accrual/kv"
	"github.com/vechain/accrual/stackedmap"
	"github.com/vechain/accrual/thor"
)

const defaultCacheSize = 4096

var (
	balanceBucket = kv.Bucket("b")
	storageBucket = kv.Bucket("s")
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

// Unwrap returns the cause.
func (e *Error) Unwrap() error {
	return e.cause
}

type balanceKey thor.Address

type storageKey struct {
	addr thor.Address
	key  thor.Bytes32
}

func (k balanceKey) dbKey() []byte {
	return balanceBucket.Key(k[:])
}

func (k storageKey) dbKey() []byte {
	return storageBucket.Key(append(k.addr.Bytes(), k.key.Bytes()...))
}

type cachedValue struct {
	data []byte
}

// State manages balances and storage of all accounts.
type State struct {
	db    kv.Store
	cache *lru.Cache
	sm    *stackedmap.StackedMap
}

// New create state object over the kv store.
func New(db kv.Store) *State {
	cache, _ := lru.New(defaultCacheSize)
	state := &State{
		db:    db,
		cache: cache,
	}
	state.sm = stackedmap.New(state.cacheGetter)
	return state
}

// cacheGetter implements stackedmap.MapGetter.
func (s *State) cacheGetter(key any) (any, bool, error) {
	switch k := key.(type) {
	case balanceKey:
		data, err := s.load(k.dbKey(), "balance")
		if err != nil {
			return nil, false, err
		}
		return new(big.Int).SetBytes(data), true, nil
	case storageKey:
		data, err := s.load(k.dbKey(), "storage")
		if err != nil {
			return nil, false, err
		}
		return rlp.RawValue(data), true, nil
	}
	panic(fmt.Errorf("unexpected key type %+v", key))
}

func (s *State) load(dbKey []byte, target string) ([]byte, error) {
	if v, ok := s.cache.Get(string(dbKey)); ok {
		metricStateAccess().AddWithLabel(1, map[string]string{"type": "cache", "target": target})
		return v.(*cachedValue).data, nil
	}
	metricStateAccess().AddWithLabel(1, map[string]string{"type": "read", "target": target})

	data, err := s.db.Get(dbKey)
	if err != nil {
		if !s.db.IsNotFound(err) {
			return nil, err
		}
		s.cache.Add(string(dbKey), &cachedValue{})
		return nil, nil
	}
	s.cache.Add(string(dbKey), &cachedValue{data: data})
	return data, nil
}

// GetBalance returns native balance for the given address.
func (s *State) GetBalance(addr thor.Address) (*big.Int, error) {
	v, _, err := s.sm.Get(balanceKey(addr))
	if err != nil {
		return nil, &Error{err}
	}
	return new(big.Int).Set(v.(*big.Int)), nil
}

// SetBalance set native balance for the given address.
func (s *State) SetBalance(addr thor.Address, balance *big.Int) error {
	if balance.Sign() < 0 {
		return &Error{fmt.Errorf("negative balance %v for %v", balance, addr)}
	}
	s.sm.Put(balanceKey(addr), new(big.Int).Set(balance))
	return nil
}

// AddBalance adds amount to the native balance of the given address.
func (s *State) AddBalance(addr thor.Address, amount *big.Int) error {
	bal, err := s.GetBalance(addr)
	if err != nil {
		return err
	}
	return s.SetBalance(addr, bal.Add(bal, amount))
}

// SubBalance subtracts amount from the native balance of the given address.
// It reports false without any change if the balance is insufficient.
func (s *State) SubBalance(addr thor.Address, amount *big.Int) (bool, error) {
	bal, err := s.GetBalance(addr)
	if err != nil {
		return false, err
	}
	if bal.Cmp(amount) < 0 {
		return false, nil
	}
	return true, s.SetBalance(addr, bal.Sub(bal, amount))
}

// GetStorage returns storage value for the given address and key.
func (s *State) GetStorage(addr thor.Address, key thor.Bytes32) (thor.Bytes32, error) {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return thor.Bytes32{}, err
	}
	if len(raw) == 0 {
		return thor.Bytes32{}, nil
	}
	kind, content, _, err := rlp.Split(raw)
	if err != nil {
		return thor.Bytes32{}, &Error{err}
	}
	if kind == rlp.List {
		// special case for rlp list, it should be customized storage value
		// return hash of raw data
		return thor.Blake2b(raw), nil
	}
	return thor.BytesToBytes32(content), nil
}

// SetStorage set storage value for the given address and key.
func (s *State) SetStorage(addr thor.Address, key, value thor.Bytes32) {
	if value.IsZero() {
		s.SetRawStorage(addr, key, nil)
		return
	}
	v, _ := rlp.EncodeToBytes(bytes.TrimLeft(value[:], "\x00"))
	s.SetRawStorage(addr, key, v)
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr thor.Address, key thor.Bytes32) (rlp.RawValue, error) {
	data, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return data.(rlp.RawValue), nil
}

// SetRawStorage set storage value in rlp raw.
func (s *State) SetRawStorage(addr thor.Address, key thor.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by end will be absorbed by State instance.
func (s *State) EncodeStorage(addr thor.Address, key thor.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be absorbed by State instance.
func (s *State) DecodeStorage(addr thor.Address, key thor.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
	if s.sm.Depth() == 0 {
		s.sm.Push()
	}
}

// Commit writes all changes since the last commit into the kv store in one bulk.
// It returns the number of keys written.
func (s *State) Commit() (int, error) {
	type change struct {
		key   []byte
		value []byte
	}
	var (
		changes = make(map[string]*change)
		order   []string
	)
	s.sm.Journal(func(k, v any) bool {
		var c change
		switch key := k.(type) {
		case balanceKey:
			c.key = key.dbKey()
			c.value = v.(*big.Int).Bytes()
		case storageKey:
			c.key = key.dbKey()
			c.value = v.(rlp.RawValue)
		}
		id := string(c.key)
		if _, ok := changes[id]; !ok {
			order = append(order, id)
		}
		changes[id] = &c
		return true
	})

	bulk := s.db.Bulk()
	for _, id := range order {
		c := changes[id]
		if len(c.value) == 0 {
			if err := bulk.Delete(c.key); err != nil {
				return 0, &Error{err}
			}
		} else {
			if err := bulk.Put(c.key, c.value); err != nil {
				return 0, &Error{err}
			}
		}
	}
	if err := bulk.Write(); err != nil {
		return 0, &Error{err}
	}
	for _, id := range order {
		c := changes[id]
		s.cache.Add(id, &cachedValue{data: c.value})
	}
	metricStateAccess().AddWithLabel(int64(len(order)), map[string]string{"type": "write", "target": "commit"})

	s.sm = stackedmap.New(s.cacheGetter)
	return len(order), nil
}
