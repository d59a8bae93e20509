// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

// Package group holds the public parameters (p, g) of the multiplicative group Z_p* that the
// discrete log proofs run in. Parameters are validated once, when they are constructed, and are
// never mutated afterwards.
package group

import (
	"fmt"
	"math/big"

	"github.com/otiai10/primes"
	"github.com/pkg/errors"

	"github.com/bnb-chain/dlog-zkp/common"
)

const (
	primalityRounds = 30

	// ToyModulus and ToyGenerator form a 28-bit demonstration group. It is far too small to be secure;
	// anything real needs a safe prime of at least 2048 bits.
	ToyModulus   = 234234163
	ToyGenerator = 2
)

var (
	ErrInvalidParams = errors.New("invalid group parameters")

	one = big.NewInt(1)
)

type (
	Params struct {
		P, // prime modulus
		G *big.Int // element of Z_p*, 1 < g < p
	}
)

// NewParams copies p and g and validates them.
func NewParams(p, g *big.Int) (*Params, error) {
	if p == nil || g == nil {
		return nil, errors.Wrap(ErrInvalidParams, "p and g must not be nil")
	}
	params := &Params{P: new(big.Int).Set(p), G: new(big.Int).Set(g)}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if ok, checked := params.IsGenerator(); checked && !ok {
		common.Logger.Warningf("g = %v does not generate all of Z_p* for p = %v; proofs stay sound within <g>", params.G, params.P)
	}
	return params, nil
}

// ParseParams reads p and g from decimal or 0x-prefixed hexadecimal strings.
func ParseParams(p, g string) (*Params, error) {
	pI, ok := new(big.Int).SetString(p, 0)
	if !ok {
		return nil, errors.Wrapf(ErrInvalidParams, "cannot parse p %q", p)
	}
	gI, ok := new(big.Int).SetString(g, 0)
	if !ok {
		return nil, errors.Wrapf(ErrInvalidParams, "cannot parse g %q", g)
	}
	return NewParams(pI, gI)
}

// ToyParams returns a fresh copy of the demonstration group.
func ToyParams() *Params {
	return &Params{P: big.NewInt(ToyModulus), G: big.NewInt(ToyGenerator)}
}

// Validate checks that p is prime and 1 < g < p.
func (params *Params) Validate() error {
	if params == nil || params.P == nil || params.G == nil {
		return errors.Wrap(ErrInvalidParams, "missing p or g")
	}
	if params.P.Cmp(one) <= 0 {
		return errors.Wrapf(ErrInvalidParams, "p must be greater than 1, got %v", params.P)
	}
	if !params.P.ProbablyPrime(primalityRounds) {
		return errors.Wrapf(ErrInvalidParams, "p = %v is not prime", params.P)
	}
	if params.G.Cmp(one) <= 0 || params.G.Cmp(params.P) >= 0 {
		return errors.Wrapf(ErrInvalidParams, "g = %v is not in (1, p)", params.G)
	}
	return nil
}

// ValidateBasic is the structural part of Validate without the primality test. Verifiers call it on
// every proof; the full check belongs at initialisation.
func (params *Params) ValidateBasic() bool {
	return params != nil && params.P != nil && params.G != nil &&
		params.P.Cmp(one) > 0 &&
		params.G.Cmp(one) > 0 && params.G.Cmp(params.P) < 0
}

// Order returns p - 1, the order of Z_p*. Exponents are reduced modulo this value.
func (params *Params) Order() *big.Int {
	return new(big.Int).Sub(params.P, one)
}

// Exp returns base^e mod p.
func (params *Params) Exp(base, e *big.Int) *big.Int {
	return common.ModPow(base, e, params.P)
}

// PublicKey returns g^x mod p.
func (params *Params) PublicKey(x *big.Int) *big.Int {
	return params.Exp(params.G, x)
}

// Contains reports whether v is an element of Z_p*, i.e. 1 <= v < p.
func (params *Params) Contains(v *big.Int) bool {
	return common.IsNumberInMultiplicativeGroup(params.P, v)
}

// IsGenerator reports whether g generates the whole of Z_p*. The check factors p - 1 by trial
// division with the primes up to sqrt(p - 1) and is only performed when p - 1 fits in an int64;
// checked is false otherwise.
func (params *Params) IsGenerator() (ok, checked bool) {
	order := params.Order()
	if !order.IsInt64() {
		return false, false
	}
	for _, q := range primeFactors(order.Int64()) {
		e := new(big.Int).Div(order, big.NewInt(q))
		if params.Exp(params.G, e).Cmp(one) == 0 {
			return false, true
		}
	}
	return true, true
}

// primeFactors returns the distinct prime factors of n > 1. Only the primes up to sqrt(n) are
// sieved; a cofactor left over after dividing them out is itself prime.
func primeFactors(n int64) []int64 {
	factors := make([]int64, 0)
	limit := new(big.Int).Sqrt(big.NewInt(n)).Int64()
	if limit < 2 {
		return append(factors, n)
	}
	for _, q := range primes.Until(limit).List() {
		if n%q != 0 {
			continue
		}
		factors = append(factors, q)
		for n%q == 0 {
			n /= q
		}
	}
	if n > 1 {
		factors = append(factors, n)
	}
	return factors
}

// Equals reports whether both parameter sets describe the same group and generator.
func (params *Params) Equals(other *Params) bool {
	if params == nil || other == nil {
		return params == other
	}
	return params.P.Cmp(other.P) == 0 && params.G.Cmp(other.G) == 0
}

func (params *Params) String() string {
	return fmt.Sprintf("p: %v, g: %v", params.P, params.G)
}
