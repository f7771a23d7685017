// Copyright (c) 2026 dataenc
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dataenc library.

package dataenc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/dataenc/dataenc"
	"github.com/dataenc/dataenc/encutils"
)

func TestResolveSpecValue(t *testing.T) {
	c := New(map[string]any{
		"MAX_NOTE_SIZE":      4,
		"MAX_OPERATION_SIZE": uint64(1024),
	})

	resolved, value, err := c.ResolveSpecValue("MAX_NOTE_SIZE")
	require.NoError(t, err)
	assert.True(t, resolved)
	assert.Equal(t, 4, value)

	resolved, value, err = c.ResolveSpecValue("MAX_OPERATION_SIZE * 2 + 4")
	require.NoError(t, err)
	assert.True(t, resolved)
	assert.Equal(t, 2052, value)

	resolved, _, err = c.ResolveSpecValue("UNKNOWN_LIMIT")
	require.NoError(t, err)
	assert.False(t, resolved)
}

func TestCheckSizeSpec(t *testing.T) {
	c := New(map[string]any{"MAX_NOTE_SIZE": 4})
	e := DynamicSize(SizeUint8, CheckSizeSpec("MAX_NOTE_SIZE", VariableString()))

	data, err := c.ToBytes(e, "note")
	require.NoError(t, err)
	assert.Equal(t, "046e6f7465", toHex(data))

	v, err := c.OfBytes(e, data)
	require.NoError(t, err)
	assert.Equal(t, "note", v)

	_, err = c.ToBytes(e, "too long")
	assert.ErrorIs(t, err, encutils.ErrSizeLimitExceeded)
}

func TestCheckSizeSpecUnresolvable(t *testing.T) {
	c := New(nil)
	e := CheckSizeSpec("NO_SUCH_LIMIT", VariableString())

	_, err := c.Size(e, "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NO_SUCH_LIMIT")
}

func TestDynamicSizeSpec(t *testing.T) {
	c := New(map[string]any{"MAX_BLOB_SIZE": 2})
	e := DynamicSizeSpec(SizeUint16, "MAX_BLOB_SIZE", VariableBytes())

	data, err := c.ToBytes(e, []byte{0xaa, 0xbb})
	require.NoError(t, err)
	assert.Equal(t, "0002aabb", toHex(data))

	_, err = c.ToBytes(e, []byte{1, 2, 3})
	assert.ErrorIs(t, err, encutils.ErrSizeLimitExceeded)
}

func TestLoadSpecValuesYAML(t *testing.T) {
	specs, err := LoadSpecValuesYAML([]byte("MAX_NOTE_SIZE: 4\nPRESET: testnet\n"))
	require.NoError(t, err)

	c := New(specs)
	resolved, value, err := c.ResolveSpecValue("MAX_NOTE_SIZE + 1")
	require.NoError(t, err)
	assert.True(t, resolved)
	assert.Equal(t, 5, value)

	_, err = LoadSpecValuesYAML([]byte("NESTED:\n  A: 1\n"))
	assert.Error(t, err)
}
