// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/accrual/kv"
)

func TestLevelDB(t *testing.T) {
	var (
		key        = []byte("123")
		value      = []byte("456")
		inValidKey = []byte("abc")
	)

	persistent, err := New(filepath.Join(t.TempDir(), "lvldb"), Options{16, 16})
	require.NoError(t, err)
	defer persistent.Close()

	mem, err := NewMem()
	require.NoError(t, err)
	defer mem.Close()

	for _, ldb := range []*LevelDB{persistent, mem} {
		assert.NoError(t, ldb.Put(key, value))

		got, err := ldb.Get(key)
		assert.NoError(t, err)
		assert.Equal(t, value, got)

		has, err := ldb.Has(key)
		assert.NoError(t, err)
		assert.True(t, has)

		has, err = ldb.Has(inValidKey)
		assert.NoError(t, err)
		assert.False(t, has)

		assert.NoError(t, ldb.Delete(key))
		_, err = ldb.Get(key)
		assert.True(t, ldb.IsNotFound(err))
	}
}

func TestBulkAndIterate(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	bucket := kv.Bucket("b/")
	bulk := db.Bulk()
	assert.NoError(t, bulk.Put(bucket.Key([]byte("1")), []byte("one")))
	assert.NoError(t, bulk.Put(bucket.Key([]byte("2")), []byte("two")))
	assert.NoError(t, bulk.Put([]byte("c/3"), []byte("three")))
	assert.Equal(t, 3, bulk.Len())

	// nothing visible before write
	has, err := db.Has(bucket.Key([]byte("1")))
	assert.NoError(t, err)
	assert.False(t, has)

	assert.NoError(t, bulk.Write())
	assert.Equal(t, 0, bulk.Len())

	it := db.Iterate(bucket.Range())
	defer it.Release()

	var values []string
	for it.Next() {
		values = append(values, string(it.Value()))
	}
	assert.NoError(t, it.Error())
	assert.Equal(t, []string{"one", "two"}, values)
}
