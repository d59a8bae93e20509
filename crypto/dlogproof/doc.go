// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

// Package dlogproof implements a zero-knowledge proof of knowledge of a discrete logarithm:
// the prover shows it knows x with y = g^x mod p without revealing x.
//
// One round runs:
//
//	prover:   r <- [0, p-1),  h = g^r mod p          (commitment)
//	verifier: b <- {0, 1}                            (challenge)
//	prover:   s = (r + b*x) mod (p-1)                (response)
//	verifier: accept iff g^s == h * y^b (mod p)
//
// Completeness: an honest prover always passes, g^s = g^r * g^(b*x) = h * y^b.
//
// Soundness: a prover that does not know x can answer at most one of the two challenges for a
// given commitment. Choosing s = r always answers b = 0 and proves nothing about x. A single round
// therefore has a soundness error of 1/2. Every round adds exactly one bit of soundness, so a
// target error of 2^-k needs k independent rounds that must all verify; see RoundsForSecurity and
// BatchProof.
//
// Zero knowledge: a transcript (h, b, s) can be produced without x by picking b and s first and
// setting h = g^s * y^-b (see Simulate). Such transcripts are distributed exactly like honest ones
// as long as r is fresh for every round, so a transcript reveals nothing about x beyond the
// relation y = g^x. Reusing r for two different challenges reveals x = s1 - s0 mod (p-1); a
// ProverRound therefore answers one challenge only.
//
// Only y and the proof values {h, b, s} are meant to cross a wire. x and r never leave the Prover.
package dlogproof
