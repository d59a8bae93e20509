// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package common

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/pkg/errors"
)

// ErrEntropy marks a failure of the underlying entropy source. It is an environment fault:
// callers must abort the current operation and must not retry with degraded randomness.
var ErrEntropy = errors.New("entropy source failure")

// ReadRandomBytes fills a block of n bytes from source. A nil source means `crypto/rand.Reader`.
// Short reads are reported as ErrEntropy.
func ReadRandomBytes(source io.Reader, n int) ([]byte, error) {
	if source == nil {
		source = rand.Reader
	}
	bz := make([]byte, n)
	if read, err := io.ReadFull(source, bz); err != nil {
		return nil, errors.Wrapf(ErrEntropy, "read %d of %d bytes: %v", read, n, err)
	}
	return bz, nil
}

// GetRandomIntBelow draws a uniform integer in [0, bound) from source.
// Each attempt reads ceil(bitlen(bound)/8) bytes and masks the excess high bits; values that land
// at or above bound are rejected, so the result carries no modular bias for any bound.
func GetRandomIntBelow(source io.Reader, bound *big.Int) (*big.Int, error) {
	if bound == nil || bound.Sign() <= 0 {
		return nil, fmt.Errorf("GetRandomIntBelow: bound must be positive, got %v", bound)
	}
	if bound.Cmp(one) == 0 {
		return big.NewInt(0), nil
	}
	max := new(big.Int).Sub(bound, one)
	bitLen := max.BitLen()
	byteLen := (bitLen + 7) / 8
	topMask := byte(0xff >> uint(8*byteLen-bitLen))
	try := new(big.Int)
	for {
		bz, err := ReadRandomBytes(source, byteLen)
		if err != nil {
			return nil, err
		}
		bz[0] &= topMask
		try.SetBytes(bz)
		if try.Cmp(bound) < 0 {
			return try, nil
		}
	}
}

// GetRandomBit draws a single uniform bit from source.
func GetRandomBit(source io.Reader) (uint, error) {
	b, err := GetRandomIntBelow(source, two)
	if err != nil {
		return 0, err
	}
	return uint(b.Uint64()), nil
}

// GetRandomPositiveInt returns a uniform value in [0, lessThan) from `rand.Reader`, or nil when lessThan is not positive.
// It panics if the entropy source fails.
func GetRandomPositiveInt(lessThan *big.Int) *big.Int {
	if lessThan == nil || zero.Cmp(lessThan) != -1 {
		return nil
	}
	try, err := GetRandomIntBelow(rand.Reader, lessThan)
	if err != nil {
		panic(errors.Wrap(err, "GetRandomPositiveInt"))
	}
	return try
}

// IsNumberInMultiplicativeGroup reports whether v is a unit of Z/nZ, i.e. 1 <= v < n and gcd(v, n) = 1.
func IsNumberInMultiplicativeGroup(n, v *big.Int) bool {
	if n == nil || v == nil || zero.Cmp(n) != -1 {
		return false
	}
	gcd := big.NewInt(0)
	return v.Cmp(n) < 0 && v.Cmp(one) >= 0 &&
		gcd.GCD(nil, nil, v, n).Cmp(one) == 0
}
