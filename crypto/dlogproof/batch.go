// Copyright © 2019-2020 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package dlogproof

import (
	"fmt"
	"io"
	"math/big"

	"github.com/pkg/errors"

	"github.com/bnb-chain/dlog-zkp/crypto/group"
)

// MaxBatchRounds bounds the size of a BatchProof accepted from the wire.
const MaxBatchRounds = 4096

type (
	// BatchProof is the non-interactive, amplified form of the proof: n commitments are made up
	// front and the n challenge bits are derived from a hash of them, so a forger has to guess all
	// n bits at once (soundness error 2^-n).
	BatchProof struct {
		H, S []*big.Int
	}
)

// NewBatchProof proves knowledge of x with the given number of rounds. session binds the proof
// to a context (e.g. a session id) and must be repeated at verification.
func NewBatchProof(x *big.Int, params *group.Params, rounds int, session []byte, rand io.Reader) (*BatchProof, error) {
	if rounds < 1 || MaxBatchRounds < rounds {
		return nil, fmt.Errorf("NewBatchProof: rounds must be in [1, %d], got %d", MaxBatchRounds, rounds)
	}
	prover, err := NewProver(params, x, rand)
	if err != nil {
		return nil, err
	}
	pending := make([]*ProverRound, rounds)
	h := make([]*big.Int, rounds)
	for i := range pending {
		if pending[i], err = prover.Commit(); err != nil {
			return nil, errors.Wrapf(err, "batch round %d", i)
		}
		h[i] = pending[i].Commitment()
	}
	c := challengeBits(session, params, prover.y, h)
	s := make([]*big.Int, rounds)
	for i := range s {
		if s[i], err = pending[i].Respond(c[i]); err != nil {
			return nil, errors.Wrapf(err, "batch round %d", i)
		}
	}
	return &BatchProof{H: h, S: s}, nil
}

// Verify recomputes the challenge bits and requires every round to verify.
func (bp *BatchProof) Verify(y *big.Int, params *group.Params, session []byte) bool {
	if !bp.ValidateBasic() || !params.ValidateBasic() || !params.Contains(y) {
		return false
	}
	c := challengeBits(session, params, y, bp.H)
	for i := range bp.H {
		pf := &Proof{H: bp.H[i], B: c[i], S: bp.S[i]}
		if !pf.Verify(y, params) {
			return false
		}
	}
	return true
}

func (bp *BatchProof) Rounds() int {
	if bp == nil {
		return 0
	}
	return len(bp.H)
}

func (bp *BatchProof) ValidateBasic() bool {
	if bp == nil || len(bp.H) == 0 || len(bp.H) != len(bp.S) || MaxBatchRounds < len(bp.H) {
		return false
	}
	for i := range bp.H {
		if bp.H[i] == nil || bp.S[i] == nil {
			return false
		}
	}
	return true
}

// Serialize lays the proof out as [h_1..h_n, s_1..s_n].
func (bp *BatchProof) Serialize() ([][]byte, error) {
	if !bp.ValidateBasic() {
		return nil, errors.New("Serialize: malformed batch proof")
	}
	bzs := make([][]byte, 0, 2*len(bp.H))
	for _, part := range append(append([]*big.Int{}, bp.H...), bp.S...) {
		bzs = append(bzs, part.Bytes())
	}
	return bzs, nil
}

func UnmarshalBatchProof(bzs [][]byte) (*BatchProof, error) {
	if len(bzs) == 0 || len(bzs)%2 != 0 {
		return nil, fmt.Errorf("UnmarshalBatchProof expected an even, non-zero number of parts but got %d", len(bzs))
	}
	n := len(bzs) / 2
	if MaxBatchRounds < n {
		return nil, fmt.Errorf("UnmarshalBatchProof expected at most %d rounds but got %d", MaxBatchRounds, n)
	}
	bp := &BatchProof{H: make([]*big.Int, n), S: make([]*big.Int, n)}
	for i := 0; i < n; i++ {
		bp.H[i] = new(big.Int).SetBytes(bzs[i])
		bp.S[i] = new(big.Int).SetBytes(bzs[n+i])
	}
	return bp, nil
}
