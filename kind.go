// Copyright (c) 2026 dataenc
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dataenc library.

package dataenc

// composeKind combines the kinds of the two halves of an Objs/Tups pair.
// Two trailing variable parts cannot be told apart by a tagless parser, and a
// variable left half followed by a dynamic right half leaves the left half's
// end undetermined; both compositions are rejected.
func composeKind(l, r Kind) Kind {
	switch {
	case l.IsVariable() && r.IsVariable():
		badf("cannot compose two variable-kind descriptors; wrap one in DynamicSize")
	case l.IsVariable() && r.IsDynamic():
		badf("cannot compose a variable-kind descriptor before a dynamic one; wrap the left part in DynamicSize")
	case l.IsVariable() || r.IsVariable():
		return VariableKind
	case l.IsFixed() && r.IsFixed():
		ln, _ := l.FixedSize()
		rn, _ := r.FixedSize()
		return FixedKind(ln + rn)
	}
	return DynamicKind
}

// unionKind merges the kinds of all binary cases and accounts for the tag.
func unionKind(tagSize TagSize, cases []*UnionCase) Kind {
	merged := Kind{}
	first := true
	for _, c := range cases {
		if c.textOnly {
			continue
		}
		k := c.enc.Kind()
		if first {
			merged = k
			first = false
			continue
		}
		merged = mergeKind(merged, k)
	}
	if n, ok := merged.FixedSize(); ok {
		return FixedKind(n + int(tagSize))
	}
	return merged
}

func mergeKind(a, b Kind) Kind {
	if a.IsVariable() || b.IsVariable() {
		return VariableKind
	}
	an, aok := a.FixedSize()
	bn, bok := b.FixedSize()
	if aok && bok && an == bn {
		return FixedKind(an)
	}
	return DynamicKind
}

// fieldEffKind is the kind a field contributes to its object.
func fieldEffKind(f *Field) Kind {
	switch f.kind {
	case fieldOpt:
		if f.enc.Kind().IsVariable() {
			return VariableKind
		}
		// one presence byte, then the payload when present
		return DynamicKind
	default:
		return f.enc.Kind()
	}
}

// isObjShaped reports whether the descriptor can take part in MergeObjs.
func isObjShaped(e *Encoding) bool {
	switch e.typ {
	case encObj, encObjs, encEmpty, encIgnore:
		return true
	case encConv, encDescribe, encDef, encDynamicSize, encCheckSize:
		return e.objShaped
	case encMu, encSplitted:
		return e.objShaped
	case encUnion:
		return e.objShaped
	case encDelayed:
		return isObjShaped(e.force())
	}
	return false
}

// isTupShaped reports whether the descriptor can take part in MergeTups.
func isTupShaped(e *Encoding) bool {
	switch e.typ {
	case encTup, encTups, encEmpty, encIgnore:
		return true
	case encConv, encDescribe, encDef, encDynamicSize, encCheckSize, encMu, encSplitted, encUnion:
		return e.tupShaped
	case encDelayed:
		return isTupShaped(e.force())
	}
	return false
}

// tupArity is the number of host slice slots a tuple-shaped descriptor spans.
func tupArity(e *Encoding) int {
	if !isTupShaped(e) {
		return -1
	}
	return e.arity
}

// inheritShape copies the shape flags of inner onto a wrapper node.
func (e *Encoding) inheritShape(inner *Encoding) *Encoding {
	e.objShaped = isObjShaped(inner)
	e.tupShaped = isTupShaped(inner)
	e.arity = inner.arity
	return e
}
