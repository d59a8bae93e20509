// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package protocol_test

import (
	"bytes"
	"context"
	"math/big"
	"sync"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnb-chain/dlog-zkp/common"
	"github.com/bnb-chain/dlog-zkp/crypto/group"
	. "github.com/bnb-chain/dlog-zkp/protocol"
)

var (
	toyX = big.NewInt(12345)
	toyY = big.NewInt(166103576) // 2^12345 mod 234234163
)

func testConfig(rounds int) Config {
	cfg := DefaultConfig()
	cfg.Rounds = rounds
	return cfg
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultRounds, cfg.Rounds)
	assert.NotEmpty(t, cfg.SessionID)
	assert.NotEqual(t, cfg.SessionID, DefaultConfig().SessionID)

	bad := cfg
	bad.Rounds = 0
	assert.True(t, errors.Is(bad.Validate(), ErrInvalidConfig))
	bad = cfg
	bad.Concurrency = 0
	assert.True(t, errors.Is(bad.Validate(), ErrInvalidConfig))
	bad = cfg
	bad.Rounds = MaxRounds + 1
	assert.True(t, errors.Is(bad.Validate(), ErrInvalidConfig))
	bad = cfg
	bad.SessionID = ""
	assert.True(t, errors.Is(bad.Validate(), ErrInvalidConfig))

	assert.Equal(t, 40, ConfigForSecurity(40).Rounds)
}

func TestRunLocalSingleRound(t *testing.T) {
	res, err := RunLocal(context.Background(), testConfig(1), group.ToyParams(), toyX, toyY)
	require.NoError(t, err)
	require.Len(t, res.Rounds, 1)
	assert.True(t, res.Accepted())
	assert.Equal(t, 1, res.Verified)
	assert.Empty(t, res.FailedRounds())
	assert.Equal(t, 0.5, res.SoundnessError())
	assert.Equal(t, 0, toyY.Cmp(res.PublicKey))
}

func TestRunLocalManyRounds(t *testing.T) {
	cfg := testConfig(64)
	cfg.Concurrency = 8
	res, err := RunLocal(context.Background(), cfg, group.ToyParams(), toyX, toyY)
	require.NoError(t, err)
	assert.True(t, res.Accepted())
	assert.Equal(t, 64, res.Verified)
	for i, tr := range res.Rounds {
		require.NotNil(t, tr, "round %d", i)
		assert.Equal(t, 0, tr.Left.Cmp(tr.Right), "round %d", i)
	}
}

func TestRunLocalFakeSecret(t *testing.T) {
	fakeX := new(big.Int).Add(toyX, big.NewInt(1))
	cfg := testConfig(128)
	res, err := RunLocal(context.Background(), cfg, group.ToyParams(), fakeX, toyY)
	require.NoError(t, err)
	assert.False(t, res.Accepted())
	for i, tr := range res.Rounds {
		// only rounds challenged with b = 0 can pass without x
		assert.Equal(t, tr.Proof.B == 0, tr.Verified, "round %d", i)
	}
	assert.Equal(t, len(res.Rounds)-res.Verified, len(res.FailedRounds()))
	assert.InDelta(t, 64, res.Verified, 30)
}

func TestRunLocalEntropyFailure(t *testing.T) {
	cfg := testConfig(4)
	cfg.Concurrency = 1
	cfg.Rand = bytes.NewReader([]byte{0x00, 0x00, 0x00, 0x05, 0x01})
	res, err := RunLocal(context.Background(), cfg, group.ToyParams(), toyX, toyY)
	require.Error(t, err)
	assert.Nil(t, res)

	merr, ok := err.(*multierror.Error)
	require.True(t, ok)
	// the first round had enough bytes, the other three ran dry
	require.Len(t, merr.Errors, 3)
	for _, e := range merr.Errors {
		assert.True(t, errors.Is(e, common.ErrEntropy), e.Error())
	}
}

func TestRunLocalCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cfg := testConfig(32)
	cfg.Concurrency = 1
	res, err := RunLocal(ctx, cfg, group.ToyParams(), toyX, toyY)
	require.Error(t, err)
	assert.Nil(t, res)
}

func TestRunLocalRejectsBadInput(t *testing.T) {
	_, err := RunLocal(context.Background(), testConfig(0), group.ToyParams(), toyX, toyY)
	assert.True(t, errors.Is(err, ErrInvalidConfig))

	_, err = RunLocal(context.Background(), testConfig(1), group.ToyParams(), toyX, big.NewInt(0))
	assert.Error(t, err)

	bad := &group.Params{P: big.NewInt(100), G: big.NewInt(3)}
	_, err = RunLocal(context.Background(), testConfig(1), bad, toyX, toyY)
	assert.True(t, errors.Is(err, group.ErrInvalidParams))
}

func TestRunLocalReportsAndMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := NewMetrics(reg)
	require.NoError(t, err)

	var (
		mtx     sync.Mutex
		records []*Record
	)
	cfg := testConfig(16)
	cfg.Metrics = metrics
	cfg.Reporter = ReporterFunc(func(rec *Record) {
		mtx.Lock()
		defer mtx.Unlock()
		records = append(records, rec)
	})
	res, err := RunLocal(context.Background(), cfg, group.ToyParams(), toyX, toyY)
	require.NoError(t, err)
	require.True(t, res.Accepted())

	require.Len(t, records, 16)
	for _, rec := range records {
		assert.Equal(t, RoleLocal, rec.Role)
		assert.Equal(t, cfg.SessionID, rec.SessionID)
		assert.Equal(t, 0, toyX.Cmp(rec.X))
		assert.True(t, rec.Verified)
	}
	assert.Equal(t, float64(16), testutil.ToFloat64(metrics.ProofsGenerated))
	assert.Equal(t, float64(16), testutil.ToFloat64(metrics.RoundsVerified.WithLabelValues("accepted")))
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.RoundsVerified.WithLabelValues("rejected")))

	_, err = NewMetrics(reg)
	assert.Error(t, err, "registering twice must fail")
}

func TestResultNil(t *testing.T) {
	var res *Result
	assert.False(t, res.Accepted())
	assert.False(t, (&Result{}).Accepted())
}
