// Copyright (c) 2026 dataenc
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dataenc library.

package dataenc

import (
	"github.com/dataenc/dataenc/encutils"
)

// Mu builds a fixed-point descriptor: f receives the descriptor under
// construction and returns its body, which may embed the received node to
// recurse.
//
// Kinding is two-pass: the node is first assumed dynamic and the body
// classified under that assumption; when the body comes out variable (or its
// construction fails), the node is re-assumed variable and the body rebuilt.
// A variable Mu descriptor is only usable in variable positions, like any
// other variable descriptor.
func Mu(name string, f func(*Encoding) *Encoding) *Encoding {
	if name == "" {
		badf("mu name must not be empty")
	}
	if f == nil {
		badf("mu body must not be nil")
	}

	if e, ok := tryMu(name, f, DynamicKind); ok {
		return e
	}
	e, ok := tryMu(name, f, VariableKind)
	if !ok {
		badf("mu %q body is ill-formed under both dynamic and variable assumptions", name)
	}
	return e
}

// tryMu builds the fixed point under an assumed kind, treating construction
// failures of the body as a mismatch rather than an error.
func tryMu(name string, f func(*Encoding) *Encoding, assumed Kind) (e *Encoding, ok bool) {
	self := newEncoding(encMu, assumed)
	self.str = name

	defer func() {
		if r := recover(); r != nil {
			if _, isConstruction := r.(*encutils.ConstructionError); isConstruction {
				e, ok = nil, false
				return
			}
			panic(r)
		}
	}()

	body := f(self)
	if assumed.IsDynamic() && body.Kind().IsVariable() {
		return nil, false
	}
	self.kind = body.Kind()
	self.body = body
	self.objShaped = isObjShaped(body)
	self.tupShaped = isTupShaped(body)
	self.arity = body.arity
	return self, true
}
