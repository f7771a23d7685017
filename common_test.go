// Copyright (c) 2026 dataenc
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dataenc library.

package dataenc_test

import (
	"encoding/hex"
	"strings"

	. "github.com/dataenc/dataenc"
)

func fromHex(s string) []byte {
	s = strings.TrimPrefix(s, "0x")
	s = strings.ReplaceAll(s, " ", "")
	data, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return data
}

func toHex(b []byte) string {
	return hex.EncodeToString(b)
}

// messageEncoding is the shared example descriptor: a fixed-width code
// followed by a length-prefixed message.
func messageEncoding() *Encoding {
	return Obj2(
		Req("code", Uint16()),
		Req("message", String()),
	)
}

// intListEncoding is a recursive cons-list of bytes, hosted as nil (empty)
// or map{"head": int64, "tail": ...}.
func intListEncoding() *Encoding {
	return Mu("int_list", func(self *Encoding) *Encoding {
		return Union(TagUint8,
			Case(0, "nil", Null(),
				func(v any) (any, bool) { return nil, v == nil },
				func(any) any { return nil }),
			Case(1, "cons",
				Obj2(
					Req("head", Uint8()),
					Req("tail", self),
				),
				func(v any) (any, bool) {
					m, ok := v.(map[string]any)
					return m, ok
				},
				func(v any) any { return v }),
		)
	})
}

func consList(items ...int64) any {
	var list any
	for i := len(items) - 1; i >= 0; i-- {
		list = map[string]any{"head": items[i], "tail": list}
	}
	return list
}

// catchPanic runs f and reports whether it panicked with a construction error.
func catchPanic(f func()) (msg string, panicked bool) {
	defer func() {
		if r := recover(); r != nil {
			panicked = true
			if err, ok := r.(error); ok {
				msg = err.Error()
			}
		}
	}()
	f()
	return "", false
}
