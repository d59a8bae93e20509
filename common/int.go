// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package common

import (
	"fmt"
	"math/big"
)

// modInt is a *big.Int that performs all of its arithmetic with modular reduction.
type modInt big.Int

var (
	zero = big.NewInt(0)
	one  = big.NewInt(1)
	two  = big.NewInt(2)
)

// ModPow computes base^exponent mod modulus by square-and-multiply over the bits of exponent.
// The result is always in [0, modulus). It panics if modulus <= 1 or exponent < 0.
func ModPow(base, exponent, modulus *big.Int) *big.Int {
	if modulus == nil || modulus.Cmp(one) <= 0 {
		panic(fmt.Errorf("ModPow: modulus must be greater than 1, got %v", modulus))
	}
	if exponent == nil || exponent.Sign() < 0 {
		panic(fmt.Errorf("ModPow: exponent must be non-negative, got %v", exponent))
	}
	result := big.NewInt(1)
	b := new(big.Int).Mod(base, modulus) // Mod is Euclidean, negative bases land in [0, modulus)
	for i := 0; i < exponent.BitLen(); i++ {
		if exponent.Bit(i) == 1 {
			result.Mul(result, b)
			result.Mod(result, modulus)
		}
		b.Mul(b, b)
		b.Mod(b, modulus)
	}
	return result
}

func ModInt(mod *big.Int) *modInt {
	return (*modInt)(mod)
}

func (mi *modInt) Add(x, y *big.Int) *big.Int {
	i := new(big.Int)
	i.Add(x, y)
	return i.Mod(i, mi.i())
}

func (mi *modInt) Sub(x, y *big.Int) *big.Int {
	i := new(big.Int)
	i.Sub(x, y)
	return i.Mod(i, mi.i())
}

func (mi *modInt) Mul(x, y *big.Int) *big.Int {
	i := new(big.Int)
	i.Mul(x, y)
	return i.Mod(i, mi.i())
}

// Exp returns x^y mod N using ModPow.
func (mi *modInt) Exp(x, y *big.Int) *big.Int {
	return ModPow(x, y, mi.i())
}

// ModInverse returns nil when g has no inverse modulo N.
func (mi *modInt) ModInverse(g *big.Int) *big.Int {
	return new(big.Int).ModInverse(g, mi.i())
}

func (mi *modInt) i() *big.Int {
	return (*big.Int)(mi)
}
