// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package dlogproof

import (
	"encoding/binary"
	"math/big"

	"golang.org/x/crypto/sha3"

	"github.com/bnb-chain/dlog-zkp/crypto/group"
)

const transcriptDomain = "dlog-zkp/batch/v1"

// challengeBits derives one challenge bit per commitment from a SHAKE256 transcript of
// (domain, session, p, g, y, h_1..h_n). Every field is length prefixed.
func challengeBits(session []byte, params *group.Params, y *big.Int, commitments []*big.Int) []uint {
	xof := sha3.NewShake256()
	writeField(xof, []byte(transcriptDomain))
	writeField(xof, session)
	writeField(xof, params.P.Bytes())
	writeField(xof, params.G.Bytes())
	writeField(xof, y.Bytes())
	count := make([]byte, 8)
	binary.BigEndian.PutUint64(count, uint64(len(commitments)))
	writeField(xof, count)
	for _, h := range commitments {
		writeField(xof, h.Bytes())
	}

	out := make([]byte, (len(commitments)+7)/8)
	_, _ = xof.Read(out)
	bits := make([]uint, len(commitments))
	for i := range bits {
		bits[i] = uint(out[i/8]>>(uint(i)%8)) & 1
	}
	return bits
}

func writeField(xof sha3.ShakeHash, bz []byte) {
	l := make([]byte, 8)
	binary.BigEndian.PutUint64(l, uint64(len(bz)))
	_, _ = xof.Write(l)
	_, _ = xof.Write(bz)
}
