// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBucket(t *testing.T) {
	b := Bucket("st")
	assert.Equal(t, []byte("stkey"), b.Key([]byte("key")))

	r := b.Range()
	assert.Equal(t, []byte("st"), r.Start)
	assert.Equal(t, []byte("su"), r.Limit)

	r = Bucket("a\xff").Range()
	assert.Equal(t, []byte("b"), r.Limit)

	r = Bucket("\xff").Range()
	assert.Nil(t, r.Limit)
}
