// Copyright (c) 2026 dataenc
// SPDX-License-Identifier: Apache-2.0
// This file is part of the dataenc library.

package encutils

import (
	"math/big"
)

// Arbitrary-precision integers are serialized as little-endian groups of
// payload bits with a continuation flag in bit 7 of every byte. For signed
// values (Z) the first byte additionally reserves bit 6 for the sign, leaving
// 6 payload bits; every other byte carries 7 payload bits. Zero is the single
// byte 0x00. The encoding is canonical: a final group of all-zero payload
// bits is rejected on read.

// ZSize returns the serialized length of a signed big integer.
func ZSize(v *big.Int) int {
	bits := v.BitLen()
	if bits <= 6 {
		return 1
	}
	return 1 + (bits-6+6)/7
}

// NSize returns the serialized length of a non-negative big integer.
func NSize(v *big.Int) int {
	bits := v.BitLen()
	if bits <= 7 {
		return 1
	}
	return 1 + (bits-7+6)/7
}

// WriteZ serializes a signed big integer.
func WriteZ(w *Writer, v *big.Int) error {
	mag := new(big.Int).Abs(v)
	b := byte(mag.Uint64() & 0x3f)
	if mag.BitLen() > 64 {
		// Uint64 truncates; recover the low 6 bits directly.
		b = 0
		for i := 0; i < 6; i++ {
			b |= byte(mag.Bit(i)) << i
		}
	}
	if v.Sign() < 0 {
		b |= 0x40
	}
	mag.Rsh(mag, 6)
	return writeGroups(w, b, mag)
}

// WriteN serializes a non-negative big integer; a negative value fails with
// ErrInvalidNatural.
func WriteN(w *Writer, v *big.Int) error {
	if v.Sign() < 0 {
		return ErrInvalidNatural
	}
	mag := new(big.Int).Set(v)
	b := byte(0)
	for i := 0; i < 7; i++ {
		b |= byte(mag.Bit(i)) << i
	}
	mag.Rsh(mag, 7)
	return writeGroups(w, b, mag)
}

func writeGroups(w *Writer, first byte, rest *big.Int) error {
	if rest.Sign() != 0 {
		first |= 0x80
	}
	if err := w.WriteByte(first); err != nil {
		return err
	}
	for rest.Sign() != 0 {
		b := byte(0)
		for i := 0; i < 7; i++ {
			b |= byte(rest.Bit(i)) << i
		}
		rest.Rsh(rest, 7)
		if rest.Sign() != 0 {
			b |= 0x80
		}
		if err := w.WriteByte(b); err != nil {
			return err
		}
	}
	return nil
}

// readGroups consumes continuation-flagged bytes up to and including the
// first byte without the flag.
func readGroups(r *Reader) ([]byte, error) {
	var bs []byte
	for {
		b, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		bs = append(bs, b)
		if b&0x80 == 0 {
			return bs, nil
		}
	}
}

// ZFromBytes reconstructs a signed big integer from its serialized groups.
func ZFromBytes(bs []byte) (*big.Int, error) {
	if len(bs) > 1 && bs[len(bs)-1]&0x7f == 0 {
		return nil, ErrTrailingZero
	}
	mag := new(big.Int)
	tmp := new(big.Int)
	for i := len(bs) - 1; i >= 1; i-- {
		mag.Lsh(mag, 7)
		mag.Or(mag, tmp.SetInt64(int64(bs[i]&0x7f)))
	}
	mag.Lsh(mag, 6)
	mag.Or(mag, tmp.SetInt64(int64(bs[0]&0x3f)))
	if bs[0]&0x40 != 0 {
		mag.Neg(mag)
	}
	return mag, nil
}

// NFromBytes reconstructs a non-negative big integer from its serialized groups.
func NFromBytes(bs []byte) (*big.Int, error) {
	if len(bs) > 1 && bs[len(bs)-1]&0x7f == 0 {
		return nil, ErrTrailingZero
	}
	mag := new(big.Int)
	tmp := new(big.Int)
	for i := len(bs) - 1; i >= 0; i-- {
		mag.Lsh(mag, 7)
		mag.Or(mag, tmp.SetInt64(int64(bs[i]&0x7f)))
	}
	return mag, nil
}

// ReadZ deserializes a signed big integer.
func ReadZ(r *Reader) (*big.Int, error) {
	bs, err := readGroups(r)
	if err != nil {
		return nil, err
	}
	return ZFromBytes(bs)
}

// ReadN deserializes a non-negative big integer.
func ReadN(r *Reader) (*big.Int, error) {
	bs, err := readGroups(r)
	if err != nil {
		return nil, err
	}
	return NFromBytes(bs)
}
