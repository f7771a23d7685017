// Copyright (c) 2026 dataenc
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dataenc library.

package dataenc_test

import (
	"math/big"
	"testing"

	"github.com/google/go-cmp/cmp"

	. "github.com/dataenc/dataenc"
)

var bigIntComparer = cmp.Comparer(func(a, b *big.Int) bool {
	return a.Cmp(b) == 0
})

type point struct {
	X int64
	Y int64
}

func pointEncoding() *Encoding {
	return Conv(
		func(v any) (any, error) {
			p := v.(point)
			return map[string]any{"x": p.X, "y": p.Y}, nil
		},
		func(v any) (any, error) {
			m := v.(map[string]any)
			return point{X: m["x"].(int64), Y: m["y"].(int64)}, nil
		},
		Obj2(Req("x", Int64()), Req("y", Int64())),
	)
}

var roundTripMatrix = []struct {
	name    string
	enc     func() *Encoding
	payload any
}{
	{"bool", Bool, false},
	{"int8_negative", Int8, int64(-128)},
	{"uint16", Uint16, int64(65535)},
	{"int31", Int31, int64(1<<30 - 1)},
	{"int64", Int64, int64(-1)},
	{"ranged_offset", func() *Encoding { return RangedInt(100, 400) }, int64(400)},
	{"float_negative", Float, float64(-2.25)},
	{"ranged_float", func() *Encoding { return RangedFloat(-1, 1) }, float64(0.5)},
	{"z_large", Z, new(big.Int).Lsh(big.NewInt(-1234567), 40)},
	{"z_over_64_bits", Z, new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 100))},
	{"n_over_64_bits", N, new(big.Int).Lsh(big.NewInt(3), 90)},
	{"n_large", N, new(big.Int).Lsh(big.NewInt(987654321), 30)},
	{"fixed_bytes", func() *Encoding { return FixedBytes(4) }, []byte{0xde, 0xad, 0xbe, 0xef}},
	{"sized_string", String, "hello world"},
	{"sized_string_empty", String, ""},
	{"enum", func() *Encoding {
		return StringEnum(EnumCase{"a", "A"}, EnumCase{"b", "B"}, EnumCase{"c", "C"})
	}, "C"},
	{"list_of_sized_strings", func() *Encoding { return List(String()) }, []any{"one", "two", "three"}},
	{"array_of_z", func() *Encoding { return Array(Z()) }, []any{big.NewInt(0), big.NewInt(-64), big.NewInt(1 << 40)}},
	{"empty_list", func() *Encoding { return List(Uint8()) }, []any{}},
	{"tuple", func() *Encoding { return Tup3(Uint8(), Z(), Bool()) }, []any{int64(9), big.NewInt(-7), true}},
	{"merged_tuples", func() *Encoding {
		return MergeTups(Tup2(Uint8(), Uint8()), Tup1(String()))
	}, []any{int64(1), int64(2), "tail"}},
	{"obj_message", messageEncoding, map[string]any{"code": int64(7), "message": "payload"}},
	{"obj_opt_present", func() *Encoding {
		return Obj3(Req("id", Uint8()), Opt("note", String()), Dft("flag", Bool(), false))
	}, map[string]any{"id": int64(1), "note": "n", "flag": false}},
	{"obj_opt_absent", func() *Encoding {
		return Obj3(Req("id", Uint8()), Opt("note", String()), Dft("flag", Bool(), false))
	}, map[string]any{"id": int64(1), "flag": true}},
	{"opt_variable_absent", func() *Encoding {
		return Obj2(Req("id", Uint8()), Opt("rest", VariableBytes()))
	}, map[string]any{"id": int64(3)}},
	{"variable_body_fixed_tail", func() *Encoding {
		return Obj2(Req("body", VariableString()), Req("crc", Uint16()))
	}, map[string]any{"body": "content", "crc": int64(0xbeef)}},
	{"union", unionTagOrInt32, int64(-559038737 + 2)},
	{"conv_struct", pointEncoding, point{X: -4, Y: 9}},
	{"padded_dynamic", func() *Encoding { return Padded(Z(), 2) }, big.NewInt(1000)},
	{"check_size_within", func() *Encoding { return CheckSize(32, String()) }, "short"},
	{"recursive_list", intListEncoding, consList(9, 8, 7)},
	{"recursive_list_empty", intListEncoding, nil},
	{"delayed", func() *Encoding {
		return Delayed(func() *Encoding { return Obj1(Req("v", Uint16())) })
	}, map[string]any{"v": int64(513)}},
	{"describe_def", func() *Encoding {
		return Describe("sample", "a documented number", Def("sample_num", Int32()))
	}, int64(-2)},
	{"splitted_binary_side", func() *Encoding {
		return Splitted(Uint16(), String())
	}, int64(700)},
}

func TestRoundTrip(t *testing.T) {
	for _, tt := range roundTripMatrix {
		t.Run(tt.name, func(t *testing.T) {
			e := tt.enc()
			data, err := ToBytes(e, tt.payload)
			if err != nil {
				t.Fatalf("ToBytes() error: %v", err)
			}

			size, err := Size(e, tt.payload)
			if err != nil {
				t.Fatalf("Size() error: %v", err)
			}
			if size != len(data) {
				t.Errorf("Size() = %d, serialized length = %d", size, len(data))
			}

			v, err := OfBytes(e, data)
			if err != nil {
				t.Fatalf("OfBytes() error: %v", err)
			}
			if diff := cmp.Diff(tt.payload, v, bigIntComparer); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}

			// appending a byte must be rejected for self-delimiting descriptors
			if !Classify(e).IsVariable() {
				if _, err := OfBytes(e, append(append([]byte{}, data...), 0x00)); err == nil {
					t.Errorf("OfBytes() accepted trailing garbage")
				}
			}
		})
	}
}
