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

// Simulate produces an accepting transcript for y without knowing its discrete log: b and s are
// drawn first and h = g^s * y^-b mod p is solved from the verification equation.
// The output has the same distribution as an honest proof.
func Simulate(y *big.Int, params *group.Params, rand io.Reader) (*Proof, error) {
	if !params.ValidateBasic() {
		return nil, group.ErrInvalidParams
	}
	if !params.Contains(y) {
		return nil, errors.Wrapf(ErrInvalidPublicKey, "y = %v", y)
	}
	b, err := common.GetRandomBit(rand)
	if err != nil {
		return nil, errors.Wrap(err, "simulated challenge")
	}
	s, err := common.GetRandomIntBelow(rand, params.Order())
	if err != nil {
		return nil, errors.Wrap(err, "simulated response")
	}
	modP := common.ModInt(params.P)
	yB := modP.Exp(y, new(big.Int).SetUint64(uint64(b)))
	h := modP.Mul(modP.Exp(params.G, s), modP.ModInverse(yB))
	return &Proof{H: h, B: b, S: s}, nil
}

// ForgeForChallenge is what a cheating prover without x can do: commit to h so that the
// response s verifies if, and only if, the verifier happens to draw guess.
// It returns the commitment to send and the response to use for the guessed challenge.
func ForgeForChallenge(y *big.Int, params *group.Params, guess uint, rand io.Reader) (h, s *big.Int, err error) {
	if guess > 1 {
		return nil, nil, ErrInvalidChallenge
	}
	if !params.ValidateBasic() || !params.Contains(y) {
		return nil, nil, errors.Wrapf(ErrInvalidPublicKey, "y = %v", y)
	}
	s, err = common.GetRandomIntBelow(rand, params.Order())
	if err != nil {
		return nil, nil, errors.Wrap(err, "forged response")
	}
	modP := common.ModInt(params.P)
	yB := modP.Exp(y, new(big.Int).SetUint64(uint64(guess)))
	h = modP.Mul(modP.Exp(params.G, s), modP.ModInverse(yB))
	return h, s, nil
}
