// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package bencodex

import (
	"errors"
	"fmt"
)

// ErrorKind identifies the category of a decode failure.
// The set of kinds is closed: decoders never invent new ones.
type ErrorKind int

const (
	UnexpectedByte ErrorKind = iota
	UnexpectedEndOfInput
	InvalidInteger
	InvalidLengthPrefix
	InvalidUTF8
	InvalidDictionaryKey
	OutOfOrderKeys
	TrailingBytes
)

func (k ErrorKind) String() string {
	switch k {
	case UnexpectedByte:
		return "unexpected byte"
	case UnexpectedEndOfInput:
		return "unexpected end of input"
	case InvalidInteger:
		return "invalid integer"
	case InvalidLengthPrefix:
		return "invalid length prefix"
	case InvalidUTF8:
		return "invalid utf-8"
	case InvalidDictionaryKey:
		return "invalid dictionary key"
	case OutOfOrderKeys:
		return "out-of-order dictionary keys"
	case TrailingBytes:
		return "trailing bytes"
	default:
		return fmt.Sprintf("bencodex.ErrorKind(%d)", int(k))
	}
}

// Error is the concrete error type returned by every decode
// function in this package. Offset is the byte at which the
// problem was detected (for TrailingBytes, the first unconsumed
// byte), or -1 when there is no input to point into (errors from
// DictValue).
type Error struct {
	Kind   ErrorKind
	Offset int64
	Err    error // optional wrapped cause; nil for the errors the decoders return
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("bencodex: %s at offset %d: %s", e.Kind, e.Offset, e.Err)
	}
	return fmt.Sprintf("bencodex: %s at offset %d", e.Kind, e.Offset)
}

func (e *Error) Unwrap() error { return e.Err }

func newErr(kind ErrorKind, offset int64) error {
	return &Error{Kind: kind, Offset: offset}
}

func newErrWrap(kind ErrorKind, offset int64, cause error) error {
	return &Error{Kind: kind, Offset: offset, Err: cause}
}

// KindOf returns the ErrorKind carried by err, if err (or something it
// wraps) is a *Error. The second return is false for any other error,
// including io errors not produced by this package.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
