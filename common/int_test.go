// Copyright © 2019-2020 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package common

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

// naiveModPow multiplies base into the accumulator exponent times.
func naiveModPow(base, exponent, modulus int64) int64 {
	result := int64(1) % modulus
	b := ((base % modulus) + modulus) % modulus
	for i := int64(0); i < exponent; i++ {
		result = (result * b) % modulus
	}
	return result
}

func TestModPowKnownValue(t *testing.T) {
	assert.Equal(t, int64(445), ModPow(big.NewInt(4), big.NewInt(13), big.NewInt(497)).Int64())
	assert.Equal(t, int64(1), ModPow(big.NewInt(12345), big.NewInt(0), big.NewInt(7)).Int64())
	assert.Equal(t, int64(0), ModPow(big.NewInt(0), big.NewInt(5), big.NewInt(7)).Int64())
	assert.Equal(t, int64(166103576), ModPow(big.NewInt(2), big.NewInt(12345), big.NewInt(234234163)).Int64())
}

func TestModPowMatchesNaive(t *testing.T) {
	moduli := []int64{2, 3, 7, 97, 1000, 65537, 234234163}
	for _, m := range moduli {
		for i := 0; i < 50; i++ {
			base := GetRandomPositiveInt(big.NewInt(m)).Int64()
			exp := GetRandomPositiveInt(big.NewInt(2000)).Int64()
			got := ModPow(big.NewInt(base), big.NewInt(exp), big.NewInt(m))
			assert.Equal(t, naiveModPow(base, exp, m), got.Int64(), "base=%d exp=%d mod=%d", base, exp, m)
		}
	}
}

func TestModPowMatchesBigExp(t *testing.T) {
	two32 := new(big.Int).Lsh(one, 32)
	modulus := new(big.Int).SetUint64(234234163)
	for i := 0; i < 200; i++ {
		base := GetRandomPositiveInt(modulus)
		exp := GetRandomPositiveInt(two32)
		expected := new(big.Int).Exp(base, exp, modulus)
		assert.Equal(t, 0, expected.Cmp(ModPow(base, exp, modulus)))
	}

	// 2048-bit operands, well beyond any fixed-width accumulator
	big2048 := new(big.Int).Sub(new(big.Int).Lsh(one, 2048), big.NewInt(159))
	for i := 0; i < 5; i++ {
		base := GetRandomPositiveInt(big2048)
		exp := GetRandomPositiveInt(big2048)
		expected := new(big.Int).Exp(base, exp, big2048)
		assert.Equal(t, 0, expected.Cmp(ModPow(base, exp, big2048)))
	}
}

func TestModPowNegativeBase(t *testing.T) {
	// (-2)^3 = -8 = 3 mod 11
	assert.Equal(t, int64(3), ModPow(big.NewInt(-2), big.NewInt(3), big.NewInt(11)).Int64())
}

func TestModPowPanicsOnBadContract(t *testing.T) {
	assert.Panics(t, func() { ModPow(big.NewInt(2), big.NewInt(3), big.NewInt(1)) })
	assert.Panics(t, func() { ModPow(big.NewInt(2), big.NewInt(3), nil) })
	assert.Panics(t, func() { ModPow(big.NewInt(2), big.NewInt(-1), big.NewInt(7)) })
}

// the units of Z/15Z are {1, 2, 4, 7, 8, 11, 13, 14}; each one has an inverse inside the set
func TestModInverse(t *testing.T) {
	mod15 := ModInt(big.NewInt(15))

	inverses := map[int64]int64{1: 1, 2: 8, 4: 4, 7: 13, 8: 2, 11: 11, 13: 7, 14: 14}
	for v, inv := range inverses {
		result := mod15.ModInverse(big.NewInt(v))
		assert.Equal(t, inv, result.Int64(), "inverse of %d", v)
		assert.True(t, IsNumberInMultiplicativeGroup(big.NewInt(15), big.NewInt(v)))
	}

	assert.Nil(t, mod15.ModInverse(big.NewInt(5)))
	assert.False(t, IsNumberInMultiplicativeGroup(big.NewInt(15), big.NewInt(5)))
}

func TestModIntArithmetic(t *testing.T) {
	mod7 := ModInt(big.NewInt(7))
	assert.Equal(t, int64(1), mod7.Add(big.NewInt(5), big.NewInt(3)).Int64())
	assert.Equal(t, int64(5), mod7.Sub(big.NewInt(1), big.NewInt(3)).Int64())
	assert.Equal(t, int64(1), mod7.Mul(big.NewInt(3), big.NewInt(5)).Int64())
	assert.Equal(t, int64(1), mod7.Exp(big.NewInt(3), big.NewInt(6)).Int64())
}
