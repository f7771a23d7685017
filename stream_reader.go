// Copyright (c) 2026 dataenc
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dataenc library.

package dataenc

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/dataenc/dataenc/encutils"
)

// The streaming reader mirrors the one-shot reader as an explicit machine: a
// stack of pending operations and a stack of partial values. Every byte
// consumption is a suspension point; when the buffered chunks run out the
// machine returns Await and resumes exactly where it stopped once the caller
// feeds the next chunk. Context limits are absolute stream positions, so a
// limit violation is definite even before the data arrives.

// ReadStream incrementally parses one value of e from a sequence of byte
// chunks. Variable-kind descriptors have no self-delimited end and are
// rejected; wrap them in DynamicSize to stream them.
func (c *Codec) ReadStream(e *Encoding, chunks ...[]byte) Status {
	return c.startStream(e, chunks, false)
}

// CheckStream runs the same machine as ReadStream but skips all user
// injections; it validates structure only and yields a nil value.
func (c *Codec) CheckStream(e *Encoding, chunks ...[]byte) Status {
	return c.startStream(e, chunks, true)
}

func (c *Codec) startStream(e *Encoding, chunks [][]byte, checkOnly bool) Status {
	if e.Kind().IsVariable() {
		return Failure{Err: fmt.Errorf("%w: variable-kind descriptor cannot be streamed", encutils.ErrInvalidArgument)}
	}
	c.logf("dataenc: streaming %s descriptor\n", e.Kind())
	m := &streamMachine{codec: c, checkOnly: checkOnly}
	for _, chunk := range chunks {
		m.feedChunk(chunk)
	}
	m.pushOp(&opDecode{enc: e})
	return m.run()
}

type streamLimit struct {
	at    int // absolute position the current context may not read past
	check bool
}

type streamMachine struct {
	codec     *Codec
	chunks    [][]byte
	off       int // read offset within chunks[0]
	pos       int // absolute position consumed so far
	avail     int // buffered, unconsumed byte count
	limits    []streamLimit
	ops       []streamOp
	vals      []any
	checkOnly bool
}

// errAwaitMore suspends the machine; the op that raised it is re-run after
// the next chunk arrives.
var errAwaitMore = fmt.Errorf("await more data")

var errUnboundedVariable = fmt.Errorf("%w: variable-kind descriptor outside any bounded context", encutils.ErrInvalidArgument)

type streamOp interface {
	step(m *streamMachine) error
}

func (m *streamMachine) run() Status {
	for len(m.ops) > 0 {
		op := m.ops[len(m.ops)-1]
		m.ops = m.ops[:len(m.ops)-1]
		if err := op.step(m); err != nil {
			if err == errAwaitMore {
				m.ops = append(m.ops, op)
				return Await{Feed: func(chunk []byte) Status {
					m.feedChunk(chunk)
					return m.run()
				}}
			}
			return Failure{Err: err}
		}
	}

	var value any
	if !m.checkOnly && len(m.vals) > 0 {
		value = m.vals[0]
	}
	return Success{Value: value, Consumed: m.pos, Remaining: m.leftover()}
}

func (m *streamMachine) feedChunk(chunk []byte) {
	m.chunks = append(m.chunks, chunk)
	m.avail += len(chunk)
}

func (m *streamMachine) leftover() [][]byte {
	var out [][]byte
	for i, chunk := range m.chunks {
		if i == 0 {
			chunk = chunk[m.off:]
		}
		if len(chunk) > 0 {
			out = append(out, chunk)
		}
	}
	return out
}

func (m *streamMachine) pushOp(op streamOp) {
	m.ops = append(m.ops, op)
}

func (m *streamMachine) pushVal(v any) {
	m.vals = append(m.vals, v)
}

func (m *streamMachine) popVal() any {
	v := m.vals[len(m.vals)-1]
	m.vals = m.vals[:len(m.vals)-1]
	return v
}

func (m *streamMachine) limit() (streamLimit, bool) {
	if n := len(m.limits); n > 0 {
		return m.limits[n-1], true
	}
	return streamLimit{}, false
}

func (m *streamMachine) contextRemaining() (int, bool) {
	if l, ok := m.limit(); ok {
		return l.at - m.pos, true
	}
	return 0, false
}

func (m *streamMachine) pushLimit(at int, check bool) {
	m.limits = append(m.limits, streamLimit{at: at, check: check})
}

func (m *streamMachine) overrun() error {
	if l, ok := m.limit(); ok && l.check {
		return encutils.ErrSizeLimitExceeded
	}
	return encutils.ErrNotEnoughData
}

// checkFits verifies that n more bytes stay inside the current context.
// Unlike need it does not wait for the bytes to be buffered.
func (m *streamMachine) checkFits(n int) error {
	if l, ok := m.limit(); ok && m.pos+n > l.at {
		return m.overrun()
	}
	return nil
}

// need blocks the machine until n bytes are buffered, failing instead when
// the current context cannot hold them.
func (m *streamMachine) need(n int) error {
	if err := m.checkFits(n); err != nil {
		return err
	}
	if m.avail < n {
		return errAwaitMore
	}
	return nil
}

// take consumes n buffered bytes into a fresh slice. Call need first.
func (m *streamMachine) take(n int) []byte {
	out := make([]byte, n)
	got := 0
	for got < n {
		chunk := m.chunks[0]
		cp := copy(out[got:], chunk[m.off:])
		got += cp
		m.off += cp
		if m.off == len(chunk) {
			m.chunks = m.chunks[1:]
			m.off = 0
		}
	}
	m.pos += n
	m.avail -= n
	return out
}

// drop consumes n buffered bytes without keeping them. Call need first.
func (m *streamMachine) drop(n int) {
	for n > 0 {
		chunk := m.chunks[0]
		step := len(chunk) - m.off
		if step > n {
			step = n
		}
		m.off += step
		m.pos += step
		m.avail -= step
		n -= step
		if m.off == len(chunk) {
			m.chunks = m.chunks[1:]
			m.off = 0
		}
	}
}

// opDecode parses one value of its descriptor, pushing sub-operations for
// composite nodes.
type opDecode struct {
	enc *Encoding
}

func (op *opDecode) step(m *streamMachine) error {
	e := op.enc
	for {
		switch e.typ {
		case encDescribe, encDef:
			e = e.elem
			continue
		case encSplitted:
			e = e.binary
			continue
		case encMu:
			e = e.body
			continue
		case encDelayed:
			e = e.force()
			continue
		}
		break
	}

	if isFixedPrimitive(e) {
		n := primitiveSize(e)
		if err := m.need(n); err != nil {
			return err
		}
		v, err := decodePrimitive(e, m.take(n))
		if err != nil {
			return err
		}
		m.pushVal(v)
		return nil
	}

	switch e.typ {
	case encNull, encEmpty, encConstant:
		m.pushVal(nil)
		return nil

	case encIgnore:
		n, ok := m.contextRemaining()
		if !ok {
			return errUnboundedVariable
		}
		if err := m.need(n); err != nil {
			return err
		}
		m.drop(n)
		m.pushVal(nil)
		return nil

	case encZ:
		m.pushOp(&opVarint{signed: true})
		return nil

	case encN:
		m.pushOp(&opVarint{})
		return nil

	case encString, encBytes:
		n := e.fixedLen
		if n < 0 {
			var ok bool
			n, ok = m.contextRemaining()
			if !ok {
				return errUnboundedVariable
			}
		}
		if err := m.need(n); err != nil {
			return err
		}
		raw := m.take(n)
		if e.typ == encString {
			m.pushVal(string(raw))
		} else {
			m.pushVal(raw)
		}
		return nil

	case encArray, encList:
		if _, ok := m.contextRemaining(); !ok {
			return errUnboundedVariable
		}
		m.pushOp(&opSeq{enc: e})
		return nil

	case encObj:
		return m.decodeField(e.field)

	case encObjs, encTups:
		return m.decodePair(e)

	case encTup:
		m.pushOp(&opWrapTup{})
		m.pushOp(&opDecode{enc: e.elem})
		return nil

	case encUnion:
		ts := int(e.tagSize)
		if err := m.need(ts); err != nil {
			return err
		}
		tag := decodeUnsigned(m.take(ts))
		uc := e.findCaseByTag(tag)
		if uc == nil {
			return &encutils.UnexpectedTagError{Tag: tag}
		}
		m.pushOp(&opInjectUnion{uc: uc})
		m.pushOp(&opDecode{enc: uc.enc})
		return nil

	case encConv:
		m.pushOp(&opInjectConv{enc: e})
		m.pushOp(&opDecode{enc: e.elem})
		return nil

	case encDynamicSize:
		width := e.sizeWidth.bytes()
		if err := m.need(width); err != nil {
			return err
		}
		raw := m.take(width)
		var n int
		switch e.sizeWidth {
		case SizeUint8:
			n = int(raw[0])
		case SizeUint16:
			n = int(binary.BigEndian.Uint16(raw))
		default:
			n = int(int32(binary.BigEndian.Uint32(raw)))
			if n < 0 {
				return &encutils.InvalidSizeError{Size: n}
			}
		}
		if err := m.checkFits(n); err != nil {
			return err
		}
		m.pushLimit(m.pos+n, false)
		m.pushOp(&opPopLimit{exact: true})
		m.pushOp(&opDecode{enc: e.elem})
		return nil

	case encCheckSize:
		limit, err := m.codec.resolveLimit(e)
		if err != nil {
			return err
		}
		at := m.pos + limit
		check := true
		if l, ok := m.limit(); ok && at >= l.at {
			at = l.at
			check = false
		}
		m.pushLimit(at, check)
		m.pushOp(&opPopLimit{})
		m.pushOp(&opDecode{enc: e.elem})
		return nil

	case encPadded:
		m.pushOp(&opSkip{n: e.padding})
		m.pushOp(&opDecode{enc: e.elem})
		return nil
	}
	return encutils.ErrInvalidArgument
}

func (m *streamMachine) decodeField(f *Field) error {
	if f.kind == fieldOpt {
		if f.enc.Kind().IsVariable() {
			n, ok := m.contextRemaining()
			if !ok {
				return errUnboundedVariable
			}
			if n == 0 {
				m.pushVal(map[string]any{})
				return nil
			}
		} else {
			if err := m.need(1); err != nil {
				return err
			}
			if m.take(1)[0] == 0 {
				m.pushVal(map[string]any{})
				return nil
			}
		}
	}
	m.pushOp(&opMakeObj{name: f.name})
	m.pushOp(&opDecode{enc: f.enc})
	return nil
}

func (m *streamMachine) decodePair(e *Encoding) error {
	merge := &opMergePair{objs: e.typ == encObjs}

	if n, ok := e.kind.FixedSize(); ok {
		if err := m.checkFits(n); err != nil {
			return err
		}
		m.pushLimit(m.pos+n, false)
		m.pushOp(merge)
		m.pushOp(&opPopLimit{exact: true})
		m.pushOp(&opDecode{enc: e.right})
		m.pushOp(&opDecode{enc: e.left})
		return nil
	}

	if e.kind.IsVariable() && !e.right.Kind().IsVariable() {
		// variable left half, fixed right half: carve the tail off the context
		tail, _ := e.right.Kind().FixedSize()
		rem, ok := m.contextRemaining()
		if !ok {
			return errUnboundedVariable
		}
		if rem < tail {
			return m.overrun()
		}
		m.pushLimit(m.pos+rem-tail, false)
		m.pushOp(merge)
		m.pushOp(&opDecode{enc: e.right})
		m.pushOp(&opPopLimit{exact: true})
		m.pushOp(&opDecode{enc: e.left})
		return nil
	}

	m.pushOp(merge)
	m.pushOp(&opDecode{enc: e.right})
	m.pushOp(&opDecode{enc: e.left})
	return nil
}

// opVarint accumulates continuation-flagged bytes across chunk boundaries.
type opVarint struct {
	signed bool
	bytes  []byte
}

func (op *opVarint) step(m *streamMachine) error {
	for {
		if err := m.need(1); err != nil {
			return err
		}
		b := m.take(1)[0]
		op.bytes = append(op.bytes, b)
		if b&0x80 == 0 {
			break
		}
	}
	var v *big.Int
	var err error
	if op.signed {
		v, err = encutils.ZFromBytes(op.bytes)
	} else {
		v, err = encutils.NFromBytes(op.bytes)
	}
	if err != nil {
		return err
	}
	m.pushVal(v)
	return nil
}

// opSeq reads sequence elements until the context is exhausted.
type opSeq struct {
	enc     *Encoding
	acc     []any
	pending bool
}

func (op *opSeq) step(m *streamMachine) error {
	if op.pending {
		op.acc = append(op.acc, m.popVal())
		op.pending = false
	}
	rem, ok := m.contextRemaining()
	if !ok {
		return errUnboundedVariable
	}
	if rem == 0 {
		if op.acc == nil {
			op.acc = []any{}
		}
		m.pushVal(op.acc)
		return nil
	}
	if err := op.enc.checkSeqLen(len(op.acc) + 1); err != nil {
		return err
	}
	op.pending = true
	m.pushOp(op)
	m.pushOp(&opDecode{enc: op.enc.elem})
	return nil
}

type opMakeObj struct {
	name string
}

func (op *opMakeObj) step(m *streamMachine) error {
	m.pushVal(map[string]any{op.name: m.popVal()})
	return nil
}

type opWrapTup struct{}

func (op *opWrapTup) step(m *streamMachine) error {
	m.pushVal([]any{m.popVal()})
	return nil
}

type opMergePair struct {
	objs bool
}

func (op *opMergePair) step(m *streamMachine) error {
	rv := m.popVal()
	lv := m.popVal()
	if op.objs {
		m.pushVal(mergeObjValues(lv, rv))
	} else {
		m.pushVal(mergeTupValues(lv, rv))
	}
	return nil
}

type opInjectConv struct {
	enc *Encoding
}

func (op *opInjectConv) step(m *streamMachine) error {
	if m.checkOnly {
		return nil
	}
	v, err := op.enc.inject(m.popVal())
	if err != nil {
		return err
	}
	m.pushVal(v)
	return nil
}

type opInjectUnion struct {
	uc *UnionCase
}

func (op *opInjectUnion) step(m *streamMachine) error {
	if m.checkOnly {
		return nil
	}
	m.pushVal(op.uc.inject(m.popVal()))
	return nil
}

type opPopLimit struct {
	exact bool
}

func (op *opPopLimit) step(m *streamMachine) error {
	l := m.limits[len(m.limits)-1]
	m.limits = m.limits[:len(m.limits)-1]
	if op.exact && l.at != m.pos {
		return encutils.ErrExtraBytes
	}
	return nil
}

type opSkip struct {
	n int
}

func (op *opSkip) step(m *streamMachine) error {
	if err := m.need(op.n); err != nil {
		return err
	}
	m.drop(op.n)
	return nil
}
