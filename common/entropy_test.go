// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package common_test

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/bnb-chain/dlog-zkp/common"
)

func TestFileReader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entropy")
	require.NoError(t, os.WriteFile(path, []byte{0x01, 0x02, 0x03, 0x04}, 0600))

	r := NewFileReader(path)
	bz := make([]byte, 4)
	n, err := r.Read(bz)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, bz)

	// every read reopens the file, so the same block comes back
	v, err := GetRandomIntBelow(r, big.NewInt(256))
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.Int64())
}

func TestFileReaderShortRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entropy")
	require.NoError(t, os.WriteFile(path, []byte{0x01}, 0600))

	_, err := NewFileReader(path).Read(make([]byte, 8))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEntropy))
}

func TestFileReaderMissing(t *testing.T) {
	_, err := NewFileReader(filepath.Join(t.TempDir(), "nope")).Read(make([]byte, 8))
	assert.True(t, errors.Is(err, ErrEntropy))

	_, err = (&FileReader{}).Read(make([]byte, 8))
	assert.True(t, errors.Is(err, ErrEntropy))
}

func TestFileReaderDevURandom(t *testing.T) {
	if _, err := os.Stat("/dev/urandom"); err != nil {
		t.Skip("no /dev/urandom on this platform")
	}
	v, err := GetRandomIntBelow(NewFileReader("/dev/urandom"), big.NewInt(234234162))
	require.NoError(t, err)
	assert.True(t, v.Cmp(big.NewInt(234234162)) < 0)
}
