// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package protocol

import (
	"bufio"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/pkg/errors"
)

const (
	LengthHeader = 4       // bytes of little-endian length before every frame
	MaxPayload   = 1 << 20 // 1M, far above any message of a 2048-bit group

	pipeBuffer = 16
)

var ErrConnClosed = errors.New("connection closed")

// Conn carries protocol messages between the two parties. Implementations serialise every
// message, so only the public fields of Message ever leave a party.
type Conn interface {
	Send(ctx context.Context, msg *Message) error
	Receive(ctx context.Context) (*Message, error)
	Close() error
}

type (
	pipeConn struct {
		in     <-chan []byte
		out    chan<- []byte
		closed chan struct{}
		once   *sync.Once
	}

	streamConn struct {
		rw     io.ReadWriteCloser
		reader *bufio.Reader
		wMtx   sync.Mutex
	}

	readDeadliner interface {
		SetReadDeadline(t time.Time) error
	}

	writeDeadliner interface {
		SetWriteDeadline(t time.Time) error
	}
)

// NewPipe returns two connected in-memory ends. Closing either end closes both.
func NewPipe() (Conn, Conn) {
	aToB, bToA := make(chan []byte, pipeBuffer), make(chan []byte, pipeBuffer)
	closed, once := make(chan struct{}), new(sync.Once)
	return &pipeConn{in: bToA, out: aToB, closed: closed, once: once},
		&pipeConn{in: aToB, out: bToA, closed: closed, once: once}
}

func (c *pipeConn) Send(ctx context.Context, msg *Message) error {
	bz, err := json.Marshal(msg)
	if err != nil {
		return errors.Wrap(err, "marshal message")
	}
	select {
	case <-c.closed:
		return ErrConnClosed
	default:
	}
	select {
	case c.out <- bz:
		return nil
	case <-c.closed:
		return ErrConnClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *pipeConn) Receive(ctx context.Context) (*Message, error) {
	select {
	case bz := <-c.in:
		return unmarshalMessage(bz)
	case <-c.closed:
		return nil, ErrConnClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *pipeConn) Close() error {
	c.once.Do(func() { close(c.closed) })
	return nil
}

// NewStreamConn frames messages over a byte stream such as a net.Conn. Context deadlines are
// applied as read/write deadlines when the stream supports them; a stream without deadline
// support is unblocked by closing it.
func NewStreamConn(rw io.ReadWriteCloser) Conn {
	return &streamConn{rw: rw, reader: bufio.NewReader(rw)}
}

func (c *streamConn) Send(ctx context.Context, msg *Message) error {
	bz, err := json.Marshal(msg)
	if err != nil {
		return errors.Wrap(err, "marshal message")
	}
	c.wMtx.Lock()
	defer c.wMtx.Unlock()
	if d, ok := c.rw.(writeDeadliner); ok {
		if deadline, set := ctx.Deadline(); set {
			if err := d.SetWriteDeadline(deadline); err != nil {
				return err
			}
		}
	}
	return WriteStream(bz, c.rw)
}

func (c *streamConn) Receive(ctx context.Context) (*Message, error) {
	if d, ok := c.rw.(readDeadliner); ok {
		if deadline, set := ctx.Deadline(); set {
			if err := d.SetReadDeadline(deadline); err != nil {
				return nil, err
			}
		}
	}
	bz, err := ReadStream(c.reader)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) {
			return nil, errors.Wrap(ErrConnClosed, err.Error())
		}
		return nil, err
	}
	return unmarshalMessage(bz)
}

func (c *streamConn) Close() error {
	return c.rw.Close()
}

// WriteStream writes msg as one length-prefixed frame.
func WriteStream(msg []byte, stream io.Writer) error {
	if err := checkPayload(len(msg)); err != nil {
		return err
	}
	length := uint32(len(msg))
	lengthBytes := make([]byte, LengthHeader)
	binary.LittleEndian.PutUint32(lengthBytes, length)
	w := bufio.NewWriter(stream)
	n, err := w.Write(lengthBytes)
	if n != LengthHeader || err != nil {
		return fmt.Errorf("fail to write head: %w", err)
	}
	n, err = w.Write(msg)
	if err != nil {
		return err
	}
	if uint32(n) != length {
		return fmt.Errorf("short write, we would like to write: %d, however we only write: %d", length, n)
	}
	if err = w.Flush(); err != nil {
		return fmt.Errorf("fail to flush stream: %w", err)
	}
	return nil
}

// checkPayload runs before the length is narrowed to the 4-byte header.
func checkPayload(n int) error {
	if n < 0 || MaxPayload < n {
		return fmt.Errorf("payload length:%d exceed max payload length:%d", n, MaxPayload)
	}
	return nil
}

// ReadStream reads one length-prefixed frame.
func ReadStream(stream io.Reader) ([]byte, error) {
	lengthBytes := make([]byte, LengthHeader)
	n, err := io.ReadFull(stream, lengthBytes)
	if n != LengthHeader || err != nil {
		return nil, fmt.Errorf("error in read the message head %w", err)
	}
	length := binary.LittleEndian.Uint32(lengthBytes)
	if length > MaxPayload {
		return nil, fmt.Errorf("payload length:%d exceed max payload length:%d", length, MaxPayload)
	}
	dataBuf := make([]byte, length)
	n, err = io.ReadFull(stream, dataBuf)
	if uint32(n) != length || err != nil {
		return nil, fmt.Errorf("short read err(%w), we would like to read: %d, however we only read: %d", err, length, n)
	}
	return dataBuf, nil
}

func unmarshalMessage(bz []byte) (*Message, error) {
	msg := new(Message)
	if err := json.Unmarshal(bz, msg); err != nil {
		return nil, errors.Wrap(err, "unmarshal message")
	}
	return msg, nil
}
