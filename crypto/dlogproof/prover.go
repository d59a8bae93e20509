// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package dlogproof

import (
	"io"
	"math/big"
	"sync"

	"github.com/pkg/errors"

	"github.com/bnb-chain/dlog-zkp/common"
	"github.com/bnb-chain/dlog-zkp/crypto/group"
)

type (
	// Prover holds the secret key x. A Prover may open any number of independent rounds, also concurrently.
	Prover struct {
		params *group.Params
		x, y   *big.Int
		rand   io.Reader
	}

	// ProverRound is one commitment awaiting its challenge. It answers exactly once.
	ProverRound struct {
		prover *Prover
		mtx    sync.Mutex
		r, h   *big.Int
		done   bool
	}
)

// NewProver derives y = g^x mod p. rand is the entropy source for commitments; nil means `crypto/rand.Reader`.
func NewProver(params *group.Params, x *big.Int, rand io.Reader) (*Prover, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if x == nil || x.Sign() < 0 {
		return nil, ErrInvalidSecret
	}
	return &Prover{
		params: params,
		x:      new(big.Int).Set(x),
		y:      params.PublicKey(x),
		rand:   rand,
	}, nil
}

func (p *Prover) PublicKey() *big.Int {
	return new(big.Int).Set(p.y)
}

func (p *Prover) Params() *group.Params {
	return p.params
}

// Commit draws a fresh r in [0, p-1) and returns the round holding h = g^r mod p.
func (p *Prover) Commit() (*ProverRound, error) {
	r, err := common.GetRandomIntBelow(p.rand, p.params.Order())
	if err != nil {
		return nil, errors.Wrap(err, "commitment randomness")
	}
	return &ProverRound{prover: p, r: r, h: p.params.Exp(p.params.G, r)}, nil
}

func (round *ProverRound) Commitment() *big.Int {
	return new(big.Int).Set(round.h)
}

// Respond returns s = (r + b*x) mod (p-1) and forgets r.
func (round *ProverRound) Respond(b uint) (*big.Int, error) {
	if b > 1 {
		return nil, ErrInvalidChallenge
	}
	round.mtx.Lock()
	defer round.mtx.Unlock()
	if round.done {
		return nil, ErrRoundUsed
	}
	modQ := common.ModInt(round.prover.params.Order())
	bx := new(big.Int).Mul(new(big.Int).SetUint64(uint64(b)), round.prover.x)
	s := modQ.Add(round.r, bx)

	round.r = nil
	round.done = true
	return s, nil
}
