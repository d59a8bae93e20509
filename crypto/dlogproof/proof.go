// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package dlogproof

import (
	"io"
	"math/big"

	"github.com/pkg/errors"

	"github.com/bnb-chain/dlog-zkp/common"
	"github.com/bnb-chain/dlog-zkp/crypto/group"
)

var (
	ErrInvalidSecret    = errors.New("secret key must be a non-negative integer")
	ErrInvalidPublicKey = errors.New("public key is not an element of Z_p*")
	ErrInvalidChallenge = errors.New("challenge must be a single bit")
	ErrRoundUsed        = errors.New("round has already been answered")
)

type (
	// Proof is the transcript of a single round. It only verifies against the (y, g, p) it was made for.
	Proof struct {
		H *big.Int `json:"h"` // commitment g^r mod p
		B uint     `json:"b"` // challenge bit
		S *big.Int `json:"s"` // response (r + b*x) mod (p-1)
	}

	// Transcript is a proof together with both sides of the verification equation.
	Transcript struct {
		Proof       *Proof
		Left, Right *big.Int // g^s mod p, h * y^b mod p; nil when the proof was rejected before evaluation
		Verified    bool
	}
)

// NewProof runs one full round locally, drawing both r and the challenge bit from rand
// (nil means `crypto/rand.Reader`). It returns the public key y = g^x mod p with the proof.
// An error means either bad inputs or an entropy failure; in both cases no proof is produced.
func NewProof(x *big.Int, params *group.Params, rand io.Reader) (*big.Int, *Proof, error) {
	prover, err := NewProver(params, x, rand)
	if err != nil {
		return nil, nil, err
	}
	round, err := prover.Commit()
	if err != nil {
		return nil, nil, err
	}
	verifier := &Verifier{params: prover.params, y: prover.y, rand: rand}
	challenge, err := verifier.Challenge(round.Commitment())
	if err != nil {
		return nil, nil, err
	}
	s, err := round.Respond(challenge.Challenge())
	if err != nil {
		return nil, nil, err
	}
	return prover.PublicKey(), &Proof{H: round.Commitment(), B: challenge.Challenge(), S: s}, nil
}

// Verify checks g^s == h * y^b (mod p). A proof that does not satisfy the equation, or is malformed,
// yields false; it is never an error.
func (pf *Proof) Verify(y *big.Int, params *group.Params) bool {
	return pf.Check(y, params).Verified
}

// Check is Verify but also returns the evaluated sides of the equation.
func (pf *Proof) Check(y *big.Int, params *group.Params) *Transcript {
	t := &Transcript{Proof: pf}
	if !pf.ValidateBasic() || !params.ValidateBasic() {
		return t
	}
	if !params.Contains(y) || !params.Contains(pf.H) {
		return t
	}
	if pf.S.Sign() < 0 || pf.S.Cmp(params.Order()) >= 0 {
		return t
	}
	t.Left, t.Right = pf.Sides(y, params)
	t.Verified = t.Left.Cmp(t.Right) == 0
	return t
}

// Sides returns g^s mod p and h * y^b mod p. params must be valid and the proof well formed.
func (pf *Proof) Sides(y *big.Int, params *group.Params) (left, right *big.Int) {
	modP := common.ModInt(params.P)
	left = modP.Exp(params.G, pf.S)
	right = modP.Mul(pf.H, modP.Exp(y, new(big.Int).SetUint64(uint64(pf.B))))
	return
}

func (pf *Proof) ValidateBasic() bool {
	return pf != nil && pf.H != nil && pf.S != nil && pf.B <= 1
}

// RoundsForSecurity returns how many independent rounds reach a soundness error of 2^-bits.
// Each round contributes exactly one bit.
func RoundsForSecurity(bits int) int {
	if bits < 1 {
		return 1
	}
	return bits
}
