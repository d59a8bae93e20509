// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package protocol

import (
	"fmt"
	"math/big"

	"github.com/pkg/errors"
)

type MessageKind string

const (
	KindHello     MessageKind = "hello"     // prover -> verifier: y and round count
	KindCommit    MessageKind = "commit"    // prover -> verifier: h
	KindChallenge MessageKind = "challenge" // verifier -> prover: b
	KindResponse  MessageKind = "response"  // prover -> verifier: s
	KindResult    MessageKind = "result"    // verifier -> prover: accepted
)

var ErrUnexpectedMessage = errors.New("unexpected protocol message")

// Message is the only thing that crosses a Conn. It carries public values only: y, h, b and s.
type Message struct {
	Kind     MessageKind `json:"kind"`
	Session  string      `json:"session"`
	Round    int         `json:"round"`
	Rounds   int         `json:"rounds,omitempty"`
	Y        *big.Int    `json:"y,omitempty"`
	H        *big.Int    `json:"h,omitempty"`
	B        uint        `json:"b"`
	S        *big.Int    `json:"s,omitempty"`
	Accepted bool        `json:"accepted,omitempty"`
}

// expect checks the kind, session and round of msg.
func expect(msg *Message, kind MessageKind, session string, round int) error {
	if msg == nil {
		return errors.Wrapf(ErrUnexpectedMessage, "expected %s, got nothing", kind)
	}
	if msg.Kind != kind {
		return errors.Wrapf(ErrUnexpectedMessage, "expected %s, got %s", kind, msg.Kind)
	}
	if msg.Session != session {
		return errors.Wrapf(ErrUnexpectedMessage, "session %q does not match %q", msg.Session, session)
	}
	if msg.Round != round {
		return errors.Wrapf(ErrUnexpectedMessage, "%s for round %d while in round %d", kind, msg.Round, round)
	}
	return nil
}

func (msg *Message) String() string {
	return fmt.Sprintf("%s(session: %s, round: %d)", msg.Kind, msg.Session, msg.Round)
}
