// Copyright (c) 2026 dataenc
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dataenc library.

package dataenc_test

import (
	"errors"
	"testing"

	. "github.com/dataenc/dataenc"
	"github.com/dataenc/dataenc/encutils"
)

func TestOfBytes(t *testing.T) {
	// every encode vector must read back; deep equality is covered by the
	// round-trip tests, here we check a few decoded shapes directly
	v, err := OfBytes(messageEncoding(), fromHex("0102000000026869"))
	if err != nil {
		t.Fatalf("OfBytes() error: %v", err)
	}
	m, ok := v.(map[string]any)
	if !ok {
		t.Fatalf("OfBytes() = %T, want map", v)
	}
	if m["code"] != int64(0x0102) || m["message"] != "hi" {
		t.Errorf("OfBytes() = %v", m)
	}

	v, err = OfBytes(Obj2(Req("id", Uint8()), Opt("note", Uint16())), fromHex("0700"))
	if err != nil {
		t.Fatalf("OfBytes() error: %v", err)
	}
	m = v.(map[string]any)
	if _, present := m["note"]; present {
		t.Errorf("absent optional field decoded as present: %v", m)
	}

	v, err = OfBytes(Obj2(Req("body", VariableString()), Req("crc", Uint16())), fromHex("68690007"))
	if err != nil {
		t.Fatalf("OfBytes() error: %v", err)
	}
	m = v.(map[string]any)
	if m["body"] != "hi" || m["crc"] != int64(7) {
		t.Errorf("OfBytes() = %v", m)
	}
}

func TestReadConsumed(t *testing.T) {
	buf := fromHex("ec04ffff")
	consumed, v, err := Read(Z(), buf, 0, len(buf))
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if consumed != 2 {
		t.Errorf("Read() consumed = %d, want 2", consumed)
	}
	if v.(interface{ Int64() int64 }).Int64() != -300 {
		t.Errorf("Read() = %v, want -300", v)
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name  string
		enc   func() *Encoding
		hex   string
		check func(error) bool
	}{
		{
			"not_enough_data",
			Uint16,
			"01",
			func(err error) bool { return errors.Is(err, encutils.ErrNotEnoughData) },
		},
		{
			"extra_bytes",
			Bool,
			"0100",
			func(err error) bool { return errors.Is(err, encutils.ErrExtraBytes) },
		},
		{
			"unexpected_tag",
			unionTagOrInt32,
			"05",
			func(err error) bool {
				var e *encutils.UnexpectedTagError
				return errors.As(err, &e) && e.Tag == 5
			},
		},
		{
			"trailing_zero",
			Z,
			"8000",
			func(err error) bool { return errors.Is(err, encutils.ErrTrailingZero) },
		},
		{
			"trailing_zero_natural",
			N,
			"8000",
			func(err error) bool { return errors.Is(err, encutils.ErrTrailingZero) },
		},
		{
			"negative_dynamic_size",
			func() *Encoding { return DynamicSize(SizeUint30, VariableBytes()) },
			"ffffffff",
			func(err error) bool {
				var e *encutils.InvalidSizeError
				return errors.As(err, &e)
			},
		},
		{
			"dynamic_size_truncated_payload",
			func() *Encoding { return DynamicSize(SizeUint8, VariableBytes()) },
			"05aabb",
			func(err error) bool { return errors.Is(err, encutils.ErrNotEnoughData) },
		},
		{
			"dynamic_size_short_payload",
			func() *Encoding { return DynamicSize(SizeUint8, FixedBytes(1)) },
			"02aabb",
			func(err error) bool { return errors.Is(err, encutils.ErrExtraBytes) },
		},
		{
			"int31_out_of_range",
			Int31,
			"7fffffff",
			func(err error) bool {
				var e *encutils.InvalidIntError
				return errors.As(err, &e)
			},
		},
		{
			"ranged_int_out_of_range",
			func() *Encoding { return RangedInt(-5, 10) },
			"7f",
			func(err error) bool {
				var e *encutils.InvalidIntError
				return errors.As(err, &e) && e.Value == 127
			},
		},
		{
			"ranged_float_out_of_range",
			func() *Encoding { return RangedFloat(0, 1) },
			"4000000000000000",
			func(err error) bool {
				var e *encutils.InvalidFloatError
				return errors.As(err, &e)
			},
		},
		{
			"enum_index_out_of_range",
			func() *Encoding {
				return StringEnum(EnumCase{"a", "A"}, EnumCase{"b", "B"})
			},
			"07",
			func(err error) bool {
				var e *encutils.UnexpectedTagError
				return errors.As(err, &e) && e.Tag == 7
			},
		},
		{
			"size_limit_on_read",
			func() *Encoding { return DynamicSize(SizeUint8, CheckSize(2, FixedString(4))) },
			"0461626364",
			func(err error) bool { return errors.Is(err, encutils.ErrSizeLimitExceeded) },
		},
		{
			"list_too_long_on_read",
			func() *Encoding { return ListMax(Uint8(), 2) },
			"010203",
			func(err error) bool { return errors.Is(err, encutils.ErrListTooLong) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := OfBytes(tt.enc(), fromHex(tt.hex))
			if err == nil {
				t.Fatalf("OfBytes() succeeded, want error")
			}
			if !tt.check(err) {
				t.Errorf("OfBytes() error = %v, wrong shape", err)
			}
		})
	}
}

func TestOfBytesExnPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("OfBytesExn() did not panic")
		}
	}()
	OfBytesExn(Uint16(), fromHex("01"))
}

// Ignore consumes whatever the context still holds.
func TestIgnoreConsumesRemainder(t *testing.T) {
	e := MergeObjs(Obj1(Req("id", Uint8())), Ignore())
	v, err := OfBytes(e, fromHex("05aabbcc"))
	if err != nil {
		t.Fatalf("OfBytes() error: %v", err)
	}
	m := v.(map[string]any)
	if m["id"] != int64(5) {
		t.Errorf("OfBytes() = %v", m)
	}
}
