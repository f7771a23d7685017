// Copyright (c) 2026 dataenc
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dataenc library.

package dataenc

import (
	"fmt"
	"sync"

	"github.com/dataenc/dataenc/encutils"
)

// Codec drives the binary interpreters over descriptors. It carries the
// spec-value map used to resolve named size limits (CheckSizeSpec,
// DynamicSizeSpec) together with a cache for parsed limit expressions, so
// reusing one instance across operations avoids re-parsing.
//
// Descriptors themselves are codec-independent; a descriptor built once can
// be interpreted by any number of codecs concurrently. All methods are safe
// for concurrent use.
//
// Example usage:
//
//	specs := map[string]any{
//	    "MAX_OPERATION_SIZE": 4096,
//	}
//	c := dataenc.New(specs)
//
//	data, err := c.ToBytes(operationEncoding, op)
//	v, err := c.OfBytes(operationEncoding, data)
//
// Descriptors without spec expressions work with the package-level functions,
// which share a default codec.
type Codec struct {
	specValues     map[string]any
	specValueCache map[string]*cachedSpecValue
	specMu         sync.Mutex
	options        *CodecOptions
}

// New creates a codec. The specs map supplies the named values referenced by
// CheckSizeSpec / DynamicSizeSpec limit expressions; it may be nil when no
// descriptor uses spec expressions.
func New(specs map[string]any, options ...CodecOption) *Codec {
	if specs == nil {
		specs = map[string]any{}
	}

	opts := &CodecOptions{
		LogCb: func(format string, args ...any) {
			fmt.Printf(format, args...)
		},
	}
	for _, option := range options {
		option(opts)
	}

	return &Codec{
		specValues:     specs,
		specValueCache: map[string]*cachedSpecValue{},
		options:        opts,
	}
}

var defaultCodec = New(nil)

// ToBytes serializes v under e into a freshly allocated buffer. The buffer is
// sized with Size first, so the write cannot overrun; a mismatch between the
// computed and produced length is reported as an error.
func (c *Codec) ToBytes(e *Encoding, v any) ([]byte, error) {
	size, err := c.Size(e, v)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, size)
	end, err := c.Write(e, v, buf, 0)
	if err != nil {
		return nil, err
	}
	if end != size {
		return nil, fmt.Errorf("dataenc: serialized length does not match computed length (expected: %v, got: %v)", size, end)
	}
	return buf, nil
}

// OfBytes parses exactly one value of e out of data. Data left over after the
// value ends is an error.
func (c *Codec) OfBytes(e *Encoding, data []byte) (any, error) {
	consumed, v, err := c.Read(e, data, 0, len(data))
	if err != nil {
		return nil, err
	}
	if consumed != len(data) {
		return nil, encutils.ErrExtraBytes
	}
	return v, nil
}

// OfBytesExn is OfBytes but panics on error.
func (c *Codec) OfBytesExn(e *Encoding, data []byte) any {
	v, err := c.OfBytes(e, data)
	if err != nil {
		panic(err)
	}
	return v
}

// ToBytesList serializes v under e and splits the result into blocks of at
// most blockSize bytes.
func (c *Codec) ToBytesList(blockSize int, e *Encoding, v any) ([][]byte, error) {
	if blockSize <= 0 {
		return nil, encutils.ErrInvalidArgument
	}
	data, err := c.ToBytes(e, v)
	if err != nil {
		return nil, err
	}
	blocks := make([][]byte, 0, (len(data)+blockSize-1)/blockSize)
	for len(data) > blockSize {
		blocks = append(blocks, data[:blockSize])
		data = data[blockSize:]
	}
	if len(data) > 0 {
		blocks = append(blocks, data)
	}
	return blocks, nil
}

// Package-level convenience functions sharing a default codec. Descriptors
// using spec expressions need a codec built with New and the spec values.

func Size(e *Encoding, v any) (int, error) {
	return defaultCodec.Size(e, v)
}

func Write(e *Encoding, v any, buf []byte, offset int) (int, error) {
	return defaultCodec.Write(e, v, buf, offset)
}

func Read(e *Encoding, buf []byte, offset, length int) (int, any, error) {
	return defaultCodec.Read(e, buf, offset, length)
}

func ToBytes(e *Encoding, v any) ([]byte, error) {
	return defaultCodec.ToBytes(e, v)
}

func OfBytes(e *Encoding, data []byte) (any, error) {
	return defaultCodec.OfBytes(e, data)
}

func OfBytesExn(e *Encoding, data []byte) any {
	return defaultCodec.OfBytesExn(e, data)
}

func ToBytesList(blockSize int, e *Encoding, v any) ([][]byte, error) {
	return defaultCodec.ToBytesList(blockSize, e, v)
}

func ReadStream(e *Encoding, chunks ...[]byte) Status {
	return defaultCodec.ReadStream(e, chunks...)
}

func CheckStream(e *Encoding, chunks ...[]byte) Status {
	return defaultCodec.CheckStream(e, chunks...)
}
