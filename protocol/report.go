// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package protocol

import (
	"fmt"
	"io"
	"math/big"
	"sync"

	"github.com/bnb-chain/dlog-zkp/common"
	"github.com/bnb-chain/dlog-zkp/crypto/dlogproof"
)

type Role string

const (
	RoleLocal     Role = "local"
	RoleVerifier  Role = "verifier"
	RoleSimulator Role = "simulator"
)

type (
	// Record is what a reporting sink receives for every finished round. X is only set when the
	// reporting side holds the secret.
	Record struct {
		SessionID   string
		Round       int
		Role        Role
		X, Y        *big.Int
		H           *big.Int
		B           uint
		S           *big.Int
		Left, Right *big.Int
		Verified    bool
	}

	// Reporter observes rounds. It has no way to influence the protocol.
	Reporter interface {
		Report(rec *Record)
	}

	ReporterFunc func(rec *Record)

	// LogReporter writes records to common.Logger. It never logs X.
	LogReporter struct{}

	// WriterReporter prints human-readable records.
	WriterReporter struct {
		mtx sync.Mutex
		w   io.Writer
	}
)

func (f ReporterFunc) Report(rec *Record) {
	f(rec)
}

func newRecord(sessionID string, round int, role Role, x, y *big.Int, tr *dlogproof.Transcript) *Record {
	rec := &Record{
		SessionID: sessionID,
		Round:     round,
		Role:      role,
		X:         x,
		Y:         y,
		Left:      tr.Left,
		Right:     tr.Right,
		Verified:  tr.Verified,
	}
	if tr.Proof != nil {
		rec.H, rec.B, rec.S = tr.Proof.H, tr.Proof.B, tr.Proof.S
	}
	return rec
}

func (LogReporter) Report(rec *Record) {
	common.Logger.Infof("session %s round %d (%s): y=%v h=%v b=%d s=%v g^s=%v h*y^b=%v verified=%v",
		rec.SessionID, rec.Round, rec.Role, rec.Y, rec.H, rec.B, rec.S, rec.Left, rec.Right, rec.Verified)
}

func NewWriterReporter(w io.Writer) *WriterReporter {
	return &WriterReporter{w: w}
}

func (wr *WriterReporter) Report(rec *Record) {
	wr.mtx.Lock()
	defer wr.mtx.Unlock()
	if rec.X != nil {
		fmt.Fprintf(wr.w, "[%s #%d] secret key x: %v\n", rec.Role, rec.Round, rec.X)
	}
	fmt.Fprintf(wr.w, "[%s #%d] public key y = g^x mod p: %v\n", rec.Role, rec.Round, rec.Y)
	fmt.Fprintf(wr.w, "[%s #%d] proof: { h: %v, b: %d, s: %v }\n", rec.Role, rec.Round, rec.H, rec.B, rec.S)
	fmt.Fprintf(wr.w, "[%s #%d] g^s mod p = %v, h*y^b mod p = %v\n", rec.Role, rec.Round, rec.Left, rec.Right)
	outcome := "failed"
	if rec.Verified {
		outcome = "successful"
	}
	fmt.Fprintf(wr.w, "[%s #%d] verification %s\n", rec.Role, rec.Round, outcome)
}
