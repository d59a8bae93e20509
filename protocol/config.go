// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package protocol

import (
	"io"
	"runtime"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/bnb-chain/dlog-zkp/crypto/dlogproof"
)

const (
	// DefaultRounds reproduces the single-round demonstration. It only gives a soundness error of 1/2.
	DefaultRounds = 1
	// MaxRounds bounds the rounds of one session, including the count a prover announces.
	MaxRounds = dlogproof.MaxBatchRounds
)

var ErrInvalidConfig = errors.New("invalid protocol config")

type (
	Config struct {
		// Rounds is the number of independent rounds that must all verify.
		Rounds int
		// Concurrency is the worker count used by RunLocal.
		Concurrency int
		SessionID   string

		// Rand is the entropy source for commitments and challenges; nil means `crypto/rand.Reader`.
		// It must be safe for concurrent use when Concurrency > 1.
		Rand     io.Reader
		Reporter Reporter
		Metrics  *Metrics
	}
)

// DefaultConfig uses one worker per CPU and a fresh session id.
func DefaultConfig() Config {
	return Config{
		Rounds:      DefaultRounds,
		Concurrency: runtime.NumCPU(),
		SessionID:   uuid.New().String(),
	}
}

// ConfigForSecurity returns DefaultConfig with enough rounds for a soundness error of 2^-bits.
func ConfigForSecurity(bits int) Config {
	cfg := DefaultConfig()
	cfg.Rounds = dlogproof.RoundsForSecurity(bits)
	return cfg
}

func (cfg Config) Validate() error {
	if cfg.Rounds < 1 || MaxRounds < cfg.Rounds {
		return errors.Wrapf(ErrInvalidConfig, "rounds must be in [1, %d], got %d", MaxRounds, cfg.Rounds)
	}
	if cfg.Concurrency < 1 {
		return errors.Wrapf(ErrInvalidConfig, "concurrency must be positive, got %d", cfg.Concurrency)
	}
	if cfg.SessionID == "" {
		return errors.Wrap(ErrInvalidConfig, "session id must not be empty")
	}
	return nil
}
