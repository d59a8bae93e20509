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
	// Verifier holds the public key under test and draws the challenges.
	Verifier struct {
		params *group.Params
		y      *big.Int
		rand   io.Reader
	}

	// VerifierRound is a received commitment and the challenge sent back for it.
	VerifierRound struct {
		verifier *Verifier
		mtx      sync.Mutex
		h        *big.Int
		b        uint
		done     bool
	}
)

// NewVerifier checks the parameters and that y is an element of Z_p*. rand is the challenge
// entropy source; nil means `crypto/rand.Reader`.
func NewVerifier(params *group.Params, y *big.Int, rand io.Reader) (*Verifier, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if !params.Contains(y) {
		return nil, errors.Wrapf(ErrInvalidPublicKey, "y = %v", y)
	}
	return &Verifier{params: params, y: new(big.Int).Set(y), rand: rand}, nil
}

func (v *Verifier) PublicKey() *big.Int {
	return new(big.Int).Set(v.y)
}

func (v *Verifier) Params() *group.Params {
	return v.params
}

// Challenge records the commitment h and draws the challenge bit. It must only be called after h was received.
func (v *Verifier) Challenge(h *big.Int) (*VerifierRound, error) {
	b, err := common.GetRandomBit(v.rand)
	if err != nil {
		return nil, errors.Wrap(err, "challenge randomness")
	}
	round := &VerifierRound{verifier: v, b: b}
	if h != nil {
		round.h = new(big.Int).Set(h)
	}
	return round, nil
}

func (round *VerifierRound) Challenge() uint {
	return round.b
}

// Verify completes the round with the prover's response. A rejected proof is reported through
// Transcript.Verified; the error is only set when the round is answered twice.
func (round *VerifierRound) Verify(s *big.Int) (*Transcript, error) {
	round.mtx.Lock()
	defer round.mtx.Unlock()
	if round.done {
		return nil, ErrRoundUsed
	}
	round.done = true
	pf := &Proof{H: round.h, B: round.b, S: s}
	return pf.Check(round.verifier.y, round.verifier.params), nil
}
