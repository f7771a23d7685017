// Copyright (c) 2026 dataenc
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dataenc library.

package dataenc

// Req declares a mandatory object field.
func Req(name string, e *Encoding) *Field {
	if name == "" {
		badf("field name must not be empty")
	}
	return &Field{kind: fieldReq, name: name, enc: e}
}

// Opt declares an optional object field. When the payload is self-delimiting
// the field carries a one-byte presence prefix; a variable payload instead
// signals absence by an empty context.
func Opt(name string, e *Encoding) *Field {
	if name == "" {
		badf("field name must not be empty")
	}
	return &Field{kind: fieldOpt, name: name, enc: e}
}

// Dft declares a field with a default value. The binary form is identical to
// Req; the default only affects the structured-text rendering.
func Dft(name string, e *Encoding, dflt any) *Field {
	if name == "" {
		badf("field name must not be empty")
	}
	return &Field{kind: fieldDft, name: name, enc: e, dflt: dflt}
}

// Obj1 describes an object with a single field. Object values are
// map[string]any keyed by field name.
func Obj1(f *Field) *Encoding {
	e := newEncoding(encObj, fieldEffKind(f))
	e.field = f
	return e
}

// MergeObjs composes two object-shaped descriptors; the left part's bytes
// precede the right part's. The composition follows the kind rules: two
// trailing variable parts are rejected, as is a variable left part followed
// by a dynamic right part.
func MergeObjs(a, b *Encoding) *Encoding {
	if !isObjShaped(a) {
		badf("left operand of MergeObjs is not object-shaped")
	}
	if !isObjShaped(b) {
		badf("right operand of MergeObjs is not object-shaped")
	}
	e := newEncoding(encObjs, composeKind(a.Kind(), b.Kind()))
	e.left = a
	e.right = b
	return e
}

func objN(fields ...*Field) *Encoding {
	e := Obj1(fields[0])
	for _, f := range fields[1:] {
		e = MergeObjs(e, Obj1(f))
	}
	return e
}

func Obj2(f1, f2 *Field) *Encoding { return objN(f1, f2) }

func Obj3(f1, f2, f3 *Field) *Encoding { return objN(f1, f2, f3) }

func Obj4(f1, f2, f3, f4 *Field) *Encoding { return objN(f1, f2, f3, f4) }

func Obj5(f1, f2, f3, f4, f5 *Field) *Encoding { return objN(f1, f2, f3, f4, f5) }

func Obj6(f1, f2, f3, f4, f5, f6 *Field) *Encoding { return objN(f1, f2, f3, f4, f5, f6) }

func Obj7(f1, f2, f3, f4, f5, f6, f7 *Field) *Encoding { return objN(f1, f2, f3, f4, f5, f6, f7) }

func Obj8(f1, f2, f3, f4, f5, f6, f7, f8 *Field) *Encoding {
	return objN(f1, f2, f3, f4, f5, f6, f7, f8)
}

func Obj9(f1, f2, f3, f4, f5, f6, f7, f8, f9 *Field) *Encoding {
	return objN(f1, f2, f3, f4, f5, f6, f7, f8, f9)
}

func Obj10(f1, f2, f3, f4, f5, f6, f7, f8, f9, f10 *Field) *Encoding {
	return objN(f1, f2, f3, f4, f5, f6, f7, f8, f9, f10)
}

// Tup1 lifts a descriptor into a one-slot tuple. Tuple values are []any;
// merged tuples concatenate slots in byte order.
func Tup1(e *Encoding) *Encoding {
	t := newEncoding(encTup, e.Kind())
	t.elem = e
	t.arity = 1
	return t
}

// MergeTups composes two tuple-shaped descriptors under the same kind rules
// as MergeObjs.
func MergeTups(a, b *Encoding) *Encoding {
	if !isTupShaped(a) {
		badf("left operand of MergeTups is not tuple-shaped")
	}
	if !isTupShaped(b) {
		badf("right operand of MergeTups is not tuple-shaped")
	}
	e := newEncoding(encTups, composeKind(a.Kind(), b.Kind()))
	e.left = a
	e.right = b
	e.arity = tupArity(a) + tupArity(b)
	return e
}

func tupN(encs ...*Encoding) *Encoding {
	e := Tup1(encs[0])
	for _, x := range encs[1:] {
		e = MergeTups(e, Tup1(x))
	}
	return e
}

func Tup2(e1, e2 *Encoding) *Encoding { return tupN(e1, e2) }

func Tup3(e1, e2, e3 *Encoding) *Encoding { return tupN(e1, e2, e3) }

func Tup4(e1, e2, e3, e4 *Encoding) *Encoding { return tupN(e1, e2, e3, e4) }

func Tup5(e1, e2, e3, e4, e5 *Encoding) *Encoding { return tupN(e1, e2, e3, e4, e5) }

func Tup6(e1, e2, e3, e4, e5, e6 *Encoding) *Encoding { return tupN(e1, e2, e3, e4, e5, e6) }

func Tup7(e1, e2, e3, e4, e5, e6, e7 *Encoding) *Encoding { return tupN(e1, e2, e3, e4, e5, e6, e7) }

func Tup8(e1, e2, e3, e4, e5, e6, e7, e8 *Encoding) *Encoding {
	return tupN(e1, e2, e3, e4, e5, e6, e7, e8)
}

func Tup9(e1, e2, e3, e4, e5, e6, e7, e8, e9 *Encoding) *Encoding {
	return tupN(e1, e2, e3, e4, e5, e6, e7, e8, e9)
}

func Tup10(e1, e2, e3, e4, e5, e6, e7, e8, e9, e10 *Encoding) *Encoding {
	return tupN(e1, e2, e3, e4, e5, e6, e7, e8, e9, e10)
}

// mergeObjValues joins the maps produced by the two halves of an Objs pair.
// Unit-like halves (Empty, Ignore) contribute nil.
func mergeObjValues(a, b any) map[string]any {
	out := map[string]any{}
	for _, v := range []any{a, b} {
		if v == nil {
			continue
		}
		m, ok := v.(map[string]any)
		if !ok {
			continue
		}
		for k, fv := range m {
			out[k] = fv
		}
	}
	return out
}

// mergeTupValues concatenates the slices produced by the two halves of a
// Tups pair.
func mergeTupValues(a, b any) []any {
	out := make([]any, 0, 2)
	for _, v := range []any{a, b} {
		if v == nil {
			continue
		}
		if s, ok := v.([]any); ok {
			out = append(out, s...)
		}
	}
	return out
}
