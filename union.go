// Copyright (c) 2026 dataenc
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dataenc library.

package dataenc

// Case builds a union case. project extracts the case payload from the host
// value, reporting whether the case applies; inject rebuilds the host value
// from a decoded payload.
func Case(tag int, name string, e *Encoding, project func(any) (any, bool), inject func(any) any) *UnionCase {
	if project == nil || inject == nil {
		badf("union case %q needs both a projection and an injection", name)
	}
	return &UnionCase{name: name, tag: tag, enc: e, project: project, inject: inject}
}

// TextOnlyCase builds a case that exists only in the structured-text
// rendering; the binary writer skips it and the binary reader can never
// produce it.
func TextOnlyCase(name string, e *Encoding, project func(any) (any, bool), inject func(any) any) *UnionCase {
	if project == nil || inject == nil {
		badf("union case %q needs both a projection and an injection", name)
	}
	return &UnionCase{name: name, tag: -1, textOnly: true, enc: e, project: project, inject: inject}
}

// Union describes a tagged sum. Tags must be distinct and fit the tag width,
// and at least one case must exist in the binary form. The writer picks the
// first case whose projection applies.
func Union(tagSize TagSize, cases ...*UnionCase) *Encoding {
	if tagSize != TagUint8 && tagSize != TagUint16 {
		badf("union tag size must be TagUint8 or TagUint16")
	}
	if len(cases) == 0 {
		badf("union needs at least one case")
	}
	seen := make(map[int]string, len(cases))
	binCases := 0
	for _, c := range cases {
		if c.textOnly {
			continue
		}
		binCases++
		if c.tag < 0 || c.tag > tagSize.maxTag() {
			badf("union case %q tag %d does not fit %d-byte tags", c.name, c.tag, tagSize)
		}
		if prev, dup := seen[c.tag]; dup {
			badf("union tag %d is duplicated between cases %q and %q", c.tag, prev, c.name)
		}
		seen[c.tag] = c.name
	}
	if binCases == 0 {
		badf("union needs at least one case with a binary tag")
	}

	e := newEncoding(encUnion, unionKind(tagSize, cases))
	e.tagSize = tagSize
	e.cases = cases
	e.objShaped = true
	e.tupShaped = true
	arity := -1
	for _, c := range cases {
		if !isObjShaped(c.enc) {
			e.objShaped = false
		}
		if !isTupShaped(c.enc) {
			e.tupShaped = false
		} else if arity == -1 {
			arity = tupArity(c.enc)
		} else if arity != tupArity(c.enc) {
			e.tupShaped = false
		}
	}
	if e.tupShaped {
		e.arity = arity
	}
	return e
}

func (e *Encoding) findCaseByTag(tag int) *UnionCase {
	for _, c := range e.cases {
		if !c.textOnly && c.tag == tag {
			return c
		}
	}
	return nil
}
