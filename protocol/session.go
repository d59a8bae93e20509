// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package protocol

import (
	"context"
	"math/big"
	"time"

	"github.com/pkg/errors"

	"github.com/bnb-chain/dlog-zkp/common"
	"github.com/bnb-chain/dlog-zkp/crypto/dlogproof"
	"github.com/bnb-chain/dlog-zkp/crypto/group"
)

// RunProver drives the prover side of an interactive session over conn. The rounds run one after
// another; each commitment is sent before its challenge can be seen. It returns the verifier's verdict.
func RunProver(ctx context.Context, conn Conn, prover *dlogproof.Prover, cfg Config) (bool, error) {
	if err := cfg.Validate(); err != nil {
		return false, err
	}
	session := cfg.SessionID
	hello := &Message{Kind: KindHello, Session: session, Rounds: cfg.Rounds, Y: prover.PublicKey()}
	if err := conn.Send(ctx, hello); err != nil {
		return false, errors.Wrap(err, "send hello")
	}
	common.Logger.Debugf("session %s: prover offered %d rounds", session, cfg.Rounds)

	for i := 0; i < cfg.Rounds; i++ {
		pr, err := prover.Commit()
		if err != nil {
			return false, errors.Wrapf(err, "round %d", i)
		}
		cfg.Metrics.observeCommit()
		if err = conn.Send(ctx, &Message{Kind: KindCommit, Session: session, Round: i, H: pr.Commitment()}); err != nil {
			return false, errors.Wrapf(err, "round %d: send commitment", i)
		}
		msg, err := conn.Receive(ctx)
		if err != nil {
			return false, errors.Wrapf(err, "round %d: receive challenge", i)
		}
		if err = expect(msg, KindChallenge, session, i); err != nil {
			return false, err
		}
		s, err := pr.Respond(msg.B)
		if err != nil {
			return false, errors.Wrapf(err, "round %d", i)
		}
		if err = conn.Send(ctx, &Message{Kind: KindResponse, Session: session, Round: i, S: s}); err != nil {
			return false, errors.Wrapf(err, "round %d: send response", i)
		}
	}

	msg, err := conn.Receive(ctx)
	if err != nil {
		return false, errors.Wrap(err, "receive result")
	}
	if err = expect(msg, KindResult, session, cfg.Rounds); err != nil {
		return false, err
	}
	common.Logger.Infof("session %s: verifier accepted = %v", session, msg.Accepted)
	return msg.Accepted, nil
}

// RunVerifier drives the verifier side of an interactive session over conn. The session id and
// round count are taken from the prover's hello; fewer rounds than cfg.Rounds are refused. y is the
// public key to test; when nil the key announced in the hello is used, otherwise the announced key
// is ignored. A rejected session is reported through the Result, not the error.
func RunVerifier(ctx context.Context, conn Conn, params *group.Params, y *big.Int, cfg Config) (*Result, error) {
	if cfg.Rounds < 1 || MaxRounds < cfg.Rounds {
		return nil, errors.Wrapf(ErrInvalidConfig, "rounds must be in [1, %d], got %d", MaxRounds, cfg.Rounds)
	}
	msg, err := conn.Receive(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "receive hello")
	}
	if msg.Kind != KindHello || msg.Session == "" {
		return nil, errors.Wrapf(ErrUnexpectedMessage, "expected %s, got %s", KindHello, msg)
	}
	session, rounds := msg.Session, msg.Rounds
	if rounds < cfg.Rounds {
		return nil, errors.Wrapf(ErrInvalidConfig, "session %s: prover offered %d rounds, at least %d required", session, rounds, cfg.Rounds)
	}
	if MaxRounds < rounds {
		return nil, errors.Wrapf(ErrInvalidConfig, "session %s: prover offered %d rounds, at most %d accepted", session, rounds, MaxRounds)
	}
	if y == nil {
		y = msg.Y
	} else if msg.Y != nil && msg.Y.Cmp(y) != 0 {
		common.Logger.Warningf("session %s: prover announced a different public key, testing %v", session, y)
	}
	verifier, err := dlogproof.NewVerifier(params, y, cfg.Rand)
	if err != nil {
		return nil, err
	}
	start := time.Now()

	res := newResult(session, verifier.PublicKey(), rounds)
	for i := 0; i < rounds; i++ {
		if msg, err = conn.Receive(ctx); err != nil {
			return nil, errors.Wrapf(err, "round %d: receive commitment", i)
		}
		if err = expect(msg, KindCommit, session, i); err != nil {
			return nil, err
		}
		vr, err := verifier.Challenge(msg.H)
		if err != nil {
			return nil, errors.Wrapf(err, "round %d", i)
		}
		if err = conn.Send(ctx, &Message{Kind: KindChallenge, Session: session, Round: i, B: vr.Challenge()}); err != nil {
			return nil, errors.Wrapf(err, "round %d: send challenge", i)
		}
		if msg, err = conn.Receive(ctx); err != nil {
			return nil, errors.Wrapf(err, "round %d: receive response", i)
		}
		if err = expect(msg, KindResponse, session, i); err != nil {
			return nil, err
		}
		tr, err := vr.Verify(msg.S)
		if err != nil {
			return nil, errors.Wrapf(err, "round %d", i)
		}
		cfg.Metrics.observeVerify(tr.Verified)
		res.add(i, tr)
		if cfg.Reporter != nil {
			cfg.Reporter.Report(newRecord(session, i, RoleVerifier, nil, res.PublicKey, tr))
		}
	}

	if err = conn.Send(ctx, &Message{Kind: KindResult, Session: session, Round: rounds, Accepted: res.Accepted()}); err != nil {
		return nil, errors.Wrap(err, "send result")
	}
	common.Logger.Infof("session %s: %d/%d rounds verified in %s", session, res.Verified, rounds, time.Since(start))
	return res, nil
}
