// Copyright (c) 2026 dataenc
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dataenc library.

package dataenc_test

import (
	"errors"
	"math/big"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/dataenc/dataenc"
	"github.com/dataenc/dataenc/encutils"
)

// feedAll pushes chunks into an in-flight stream one by one and requires an
// Await before every remaining chunk.
func feedAll(t *testing.T, status Status, chunks [][]byte) Status {
	t.Helper()
	for _, chunk := range chunks {
		await, ok := status.(Await)
		require.True(t, ok, "stream finished before all chunks were fed")
		status = await.Feed(chunk)
	}
	return status
}

func TestReadStreamScenario(t *testing.T) {
	e := messageEncoding()
	chunks := [][]byte{
		fromHex("01020000"),
		fromHex("000268"),
		fromHex("69"),
	}

	status := ReadStream(e, chunks[0])
	require.IsType(t, Await{}, status)

	status = status.(Await).Feed(chunks[1])
	require.IsType(t, Await{}, status)

	status = status.(Await).Feed(chunks[2])
	success, ok := status.(Success)
	require.True(t, ok, "status = %#v", status)

	assert.Equal(t, 8, success.Consumed)
	assert.Empty(t, success.Remaining)
	assert.Equal(t, map[string]any{"code": int64(0x0102), "message": "hi"}, success.Value)
}

// Every split of a serialized value must stream to the same result as the
// one-shot reader.
func TestReadStreamSplitEquivalence(t *testing.T) {
	tests := []struct {
		name    string
		enc     func() *Encoding
		payload any
	}{
		{"message", messageEncoding, map[string]any{"code": int64(513), "message": "chunked"}},
		{"z", Z, big.NewInt(-123456789)},
		{"recursive_list", intListEncoding, consList(1, 2, 3)},
		{"union_unit", unionTagOrInt32, nil},
		{"union_int32", unionTagOrInt32, int64(0x11223344)},
		{"sized_list", func() *Encoding { return DynamicSize(SizeUint30, List(Uint8())) },
			[]any{int64(1), int64(2), int64(3)}},
		{"sized_variable_pair", func() *Encoding {
			return DynamicSize(SizeUint8, MergeObjs(
				Obj1(Req("body", VariableString())),
				Obj1(Req("crc", Uint16())),
			))
		}, map[string]any{"body": "data", "crc": int64(9)}},
		{"padded", func() *Encoding { return Padded(Z(), 3) }, big.NewInt(77)},
		{"fixed_pair", func() *Encoding { return Obj2(Req("a", Uint16()), Req("b", Uint16())) },
			map[string]any{"a": int64(1), "b": int64(2)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := tt.enc()
			data, err := ToBytes(e, tt.payload)
			require.NoError(t, err)

			for cut := 0; cut <= len(data); cut++ {
				status := ReadStream(e, data[:cut])
				if cut < len(data) {
					if await, ok := status.(Await); ok {
						status = await.Feed(data[cut:])
					}
				}
				success, ok := status.(Success)
				require.True(t, ok, "cut %d: status = %#v", cut, status)
				assert.Equal(t, len(data), success.Consumed, "cut %d", cut)
				assert.Empty(t, cmp.Diff(tt.payload, success.Value, bigIntComparer), "cut %d", cut)
			}
		})
	}
}

func TestReadStreamBytewise(t *testing.T) {
	e := intListEncoding()
	data, err := ToBytes(e, consList(5, 6))
	require.NoError(t, err)

	status := ReadStream(e)
	var chunks [][]byte
	for _, b := range data {
		chunks = append(chunks, []byte{b})
	}
	status = feedAll(t, status, chunks)

	success, ok := status.(Success)
	require.True(t, ok)
	assert.Empty(t, cmp.Diff(consList(5, 6), success.Value))
	assert.Equal(t, len(data), success.Consumed)
}

func TestReadStreamLeftover(t *testing.T) {
	e := Obj1(Req("v", Uint16()))
	status := ReadStream(e, fromHex("0102aabb"), fromHex("cc"))
	success, ok := status.(Success)
	require.True(t, ok)
	assert.Equal(t, 2, success.Consumed)
	require.Len(t, success.Remaining, 2)
	assert.Equal(t, fromHex("aabb"), success.Remaining[0])
	assert.Equal(t, fromHex("cc"), success.Remaining[1])
}

func TestReadStreamRejectsVariable(t *testing.T) {
	status := ReadStream(VariableString(), fromHex("6869"))
	failure, ok := status.(Failure)
	require.True(t, ok)
	assert.True(t, errors.Is(failure.Err, encutils.ErrInvalidArgument))
}

func TestReadStreamFailures(t *testing.T) {
	// unknown union tag fails as soon as the tag byte arrives
	status := ReadStream(unionTagOrInt32(), fromHex("09"))
	failure, ok := status.(Failure)
	require.True(t, ok)
	var tagErr *encutils.UnexpectedTagError
	require.ErrorAs(t, failure.Err, &tagErr)
	assert.Equal(t, 9, tagErr.Tag)

	// a declared size overflowing the enclosing context is definite before
	// the payload bytes arrive
	e := DynamicSize(SizeUint8, DynamicSize(SizeUint8, VariableBytes()))
	status = ReadStream(e, fromHex("0205"))
	failure, ok = status.(Failure)
	require.True(t, ok)
	assert.True(t, errors.Is(failure.Err, encutils.ErrNotEnoughData))

	// non-canonical arbitrary-precision integer
	status = ReadStream(Z(), fromHex("80"), fromHex("00"))
	status = statusFeedIfAwait(status)
	failure, ok = status.(Failure)
	require.True(t, ok)
	assert.True(t, errors.Is(failure.Err, encutils.ErrTrailingZero))
}

func statusFeedIfAwait(status Status) Status {
	if await, ok := status.(Await); ok {
		return await.Feed(fromHex("00"))
	}
	return status
}

func TestCheckStream(t *testing.T) {
	e := messageEncoding()
	data, err := ToBytes(e, map[string]any{"code": int64(3), "message": "ok"})
	require.NoError(t, err)

	status := CheckStream(e, data)
	success, ok := status.(Success)
	require.True(t, ok)
	assert.Nil(t, success.Value)
	assert.Equal(t, len(data), success.Consumed)
}

// CheckStream must not run conv injections.
func TestCheckStreamSkipsInjections(t *testing.T) {
	injections := 0
	e := Conv(
		func(v any) (any, error) { return v, nil },
		func(v any) (any, error) {
			injections++
			return v, nil
		},
		Obj1(Req("v", Uint8())),
	)

	data, err := ToBytes(e, map[string]any{"v": int64(1)})
	require.NoError(t, err)

	status := CheckStream(e, data)
	require.IsType(t, Success{}, status)
	assert.Equal(t, 0, injections)

	status = ReadStream(e, data)
	require.IsType(t, Success{}, status)
	assert.Equal(t, 1, injections)
}
