// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package protocol

import (
	"math"
	"math/big"

	"github.com/bnb-chain/dlog-zkp/crypto/dlogproof"
)

// Result is the verifier's view of a finished session.
type Result struct {
	SessionID string
	PublicKey *big.Int
	Rounds    []*dlogproof.Transcript
	Verified  int
}

// Accepted is true only if every round verified.
func (res *Result) Accepted() bool {
	return res != nil && 0 < len(res.Rounds) && res.Verified == len(res.Rounds)
}

// FailedRounds lists the indexes of the rounds that did not verify.
func (res *Result) FailedRounds() []int {
	failed := make([]int, 0)
	for i, tr := range res.Rounds {
		if tr == nil || !tr.Verified {
			failed = append(failed, i)
		}
	}
	return failed
}

// SoundnessError is the probability that a prover without x gets this result accepted, 2^-rounds.
func (res *Result) SoundnessError() float64 {
	return math.Ldexp(1, -len(res.Rounds))
}

func newResult(sessionID string, y *big.Int, rounds int) *Result {
	return &Result{
		SessionID: sessionID,
		PublicKey: y,
		Rounds:    make([]*dlogproof.Transcript, rounds),
	}
}

func (res *Result) add(i int, tr *dlogproof.Transcript) {
	res.Rounds[i] = tr
	if tr.Verified {
		res.Verified++
	}
}
