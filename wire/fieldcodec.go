// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"io"

	"github.com/pkg/errors"
)

// fieldCodec binds one field of a message to the functions that write it to
// and read it from the wire.
type fieldCodec struct {
	name   string
	encode func(w io.Writer) error
	decode func(r io.Reader) error
}

// element returns a fieldCodec for a field that WriteElement and ReadElement
// know how to handle. ptr must point at the field.
func element(name string, ptr interface{}, value func() interface{}) fieldCodec {
	return fieldCodec{
		name:   name,
		encode: func(w io.Writer) error { return WriteElement(w, value()) },
		decode: func(r io.Reader) error { return ReadElement(r, ptr) },
	}
}

// encodeFields writes every field in order, stopping at the first failure.
func encodeFields(w io.Writer, fields []fieldCodec) error {
	for _, field := range fields {
		err := field.encode(w)
		if err != nil {
			return errors.Wrapf(err, "failed to encode %s", field.name)
		}
	}
	return nil
}

// decodeFields reads every field in order, stopping at the first failure.
func decodeFields(r io.Reader, fields []fieldCodec) error {
	for _, field := range fields {
		err := field.decode(r)
		if err != nil {
			return errors.Wrapf(err, "failed to decode %s", field.name)
		}
	}
	return nil
}
