// Copyright (c) 2026 dataenc
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dataenc library.

package encutils

import (
	"encoding/binary"
)

type limitFrame struct {
	at    int  // absolute position the current context may not read past
	check bool // frame was installed by a size check, overruns report ErrSizeLimitExceeded
}

// Reader parses values out of a byte slice. A stack of limit frames tracks the
// byte window available to the current sub-decoder: every length prefix and
// every fixed-size pair narrows the window on entry and restores it on exit.
// Reads past the innermost limit fail with ErrNotEnoughData, or with
// ErrSizeLimitExceeded when the limit was installed by a size check.
type Reader struct {
	buf    []byte
	pos    int
	limits []limitFrame
}

func NewReader(buf []byte) *Reader {
	return &Reader{
		buf:    buf,
		limits: make([]limitFrame, 0, 16),
	}
}

func (r *Reader) Pos() int {
	return r.pos
}

func (r *Reader) limitAt() int {
	if n := len(r.limits); n > 0 {
		return r.limits[n-1].at
	}
	return len(r.buf)
}

// Remaining returns the byte budget of the current context.
func (r *Reader) Remaining() int {
	return r.limitAt() - r.pos
}

// PushLimit narrows the context to the next n bytes. The caller must have
// verified that n does not exceed Remaining.
func (r *Reader) PushLimit(n int) {
	at := r.pos + n
	if at > r.limitAt() {
		at = r.limitAt()
	}
	r.limits = append(r.limits, limitFrame{at: at})
}

// PushCheckLimit narrows the context to at most n bytes for a size check.
// If the surrounding context is already tighter, the outer limit stays
// authoritative and overruns keep reporting ErrNotEnoughData.
func (r *Reader) PushCheckLimit(n int) {
	at := r.pos + n
	check := true
	if at >= r.limitAt() {
		at = r.limitAt()
		check = false
	}
	r.limits = append(r.limits, limitFrame{at: at, check: check})
}

// PopLimit restores the enclosing context and returns the number of bytes of
// the popped window that were left unconsumed.
func (r *Reader) PopLimit() int {
	n := len(r.limits)
	if n == 0 {
		return 0
	}
	left := r.limits[n-1].at - r.pos
	r.limits = r.limits[:n-1]
	return left
}

func (r *Reader) overrun() error {
	if n := len(r.limits); n > 0 && r.limits[n-1].check {
		return ErrSizeLimitExceeded
	}
	return ErrNotEnoughData
}

// ReadBytes returns the next n bytes as a subslice of the underlying buffer.
// The slice aliases caller memory; copy before retaining.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 || r.pos+n > r.limitAt() {
		return nil, r.overrun()
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// ReadAll consumes the remainder of the current context.
func (r *Reader) ReadAll() []byte {
	b := r.buf[r.pos:r.limitAt()]
	r.pos = r.limitAt()
	return b
}

func (r *Reader) Skip(n int) error {
	if r.pos+n > r.limitAt() {
		return r.overrun()
	}
	r.pos += n
	return nil
}

func (r *Reader) ReadByte() (byte, error) {
	b, err := r.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) ReadUint16() (uint16, error) {
	b, err := r.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (r *Reader) ReadUint32() (uint32, error) {
	b, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (r *Reader) ReadUint64() (uint64, error) {
	b, err := r.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}
