// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package protocol

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/bnb-chain/dlog-zkp/common"
	"github.com/bnb-chain/dlog-zkp/crypto/dlogproof"
	"github.com/bnb-chain/dlog-zkp/crypto/group"
)

// RunLocal runs cfg.Rounds independent rounds in-process: a prover holding x against a verifier
// holding y. Rounds are spread over cfg.Concurrency workers. A rejected round is part of the Result;
// the error is only set for faults (bad config or parameters, entropy failure, cancellation), in
// which case no Result is returned.
func RunLocal(ctx context.Context, cfg Config, params *group.Params, x, y *big.Int) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	prover, err := dlogproof.NewProver(params, x, cfg.Rand)
	if err != nil {
		return nil, err
	}
	verifier, err := dlogproof.NewVerifier(params, y, cfg.Rand)
	if err != nil {
		return nil, err
	}

	concurrency := cfg.Concurrency
	if cfg.Rounds < concurrency {
		concurrency = cfg.Rounds
	}
	common.Logger.Debugf("session %s: running %d rounds with concurrency level of %d", cfg.SessionID, cfg.Rounds, concurrency)
	start := time.Now()

	type roundOut struct {
		tr  *dlogproof.Transcript
		err error
	}
	outs := make([]roundOut, cfg.Rounds)
	jobs := make(chan int)
	wg := new(sync.WaitGroup)
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outs[i].tr, outs[i].err = localRound(prover, verifier, cfg.Metrics)
			}
		}()
	}
feed:
	for i := 0; i < cfg.Rounds; i++ {
		select {
		case jobs <- i:
		case <-ctx.Done():
			for j := i; j < cfg.Rounds; j++ {
				outs[j].err = ctx.Err()
			}
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	var multiErr error
	res := newResult(cfg.SessionID, verifier.PublicKey(), cfg.Rounds)
	for i, out := range outs {
		if out.err != nil {
			multiErr = multierror.Append(multiErr, errors.Wrapf(out.err, "round %d", i))
			continue
		}
		res.add(i, out.tr)
		if cfg.Reporter != nil {
			cfg.Reporter.Report(newRecord(cfg.SessionID, i, RoleLocal, x, res.PublicKey, out.tr))
		}
	}
	if multiErr != nil {
		return nil, multiErr
	}
	common.Logger.Infof("session %s: %d/%d rounds verified in %s", cfg.SessionID, res.Verified, cfg.Rounds, time.Since(start))
	return res, nil
}

func localRound(prover *dlogproof.Prover, verifier *dlogproof.Verifier, metrics *Metrics) (*dlogproof.Transcript, error) {
	pr, err := prover.Commit()
	if err != nil {
		return nil, err
	}
	metrics.observeCommit()
	vr, err := verifier.Challenge(pr.Commitment())
	if err != nil {
		return nil, err
	}
	s, err := pr.Respond(vr.Challenge())
	if err != nil {
		return nil, err
	}
	tr, err := vr.Verify(s)
	if err != nil {
		return nil, err
	}
	metrics.observeVerify(tr.Verified)
	return tr, nil
}
