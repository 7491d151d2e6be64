// Copyright (c) 2013-2015 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// MessageError describes an issue with a message.
// An example of some potential issues are messages from the wrong bitcoin
// network, invalid commands, mismatched checksums, and exceeding max payloads.
//
// This provides a mechanism for the caller to type assert the error to
// differentiate between general io errors such as io.EOF and issues that
// resulted from malformed messages.
type MessageError struct {
	Func        string // Function name
	Description string // Human readable description of the issue
}

// Error satisfies the error interface and prints human-readable errors.
func (e *MessageError) Error() string {
	if e.Func != "" {
		return fmt.Sprintf("%s: %s", e.Func, e.Description)
	}
	return e.Description
}

// messageError creates an error for the given function and description.
func messageError(f string, desc string) *MessageError {
	return &MessageError{Func: f, Description: desc}
}

// Errors returned while decoding a framed message. They are always wrapped
// with context, so callers should match them with errors.Is.
var (
	// ErrUnknownNetwork is returned when the magic bytes of a message don't
	// belong to any known network.
	ErrUnknownNetwork = errors.New("unknown network")

	// ErrUnknownCommand is returned when a message carries a command that
	// has no payload decoder.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrChecksumMismatch is returned when the checksum in a message header
	// doesn't match the checksum of the payload that follows it.
	ErrChecksumMismatch = errors.New("checksum mismatch")

	// ErrMessageTruncated is returned when a buffer ends before the header
	// or the payload it announces.
	ErrMessageTruncated = errors.New("message truncated")

	// ErrTrailingBytes is returned when a buffer or a payload holds more
	// bytes than its framing accounts for.
	ErrTrailingBytes = errors.New("trailing bytes")

	// ErrPayloadTooLarge is returned when a payload length exceeds
	// MaxMessagePayload or the maximum for its command.
	ErrPayloadTooLarge = errors.New("payload too large")

	// ErrMalformedPayload is returned when a payload that passed the
	// envelope checks can't be decoded into its message. The whole payload
	// has been consumed by then.
	ErrMalformedPayload = errors.New("malformed payload")

	// ErrAddressUnavailable is returned when a NetAddress can't be turned
	// into a routable socket address, as is the case for Tor onion
	// addresses.
	ErrAddressUnavailable = errors.New("address unavailable")
)

// payloadError wraps the error a payload decoder returned. It matches
// ErrMalformedPayload, and ErrMessageTruncated too when the payload ran out
// before its fields did.
type payloadError struct {
	command string
	err     error
}

func (e *payloadError) Error() string {
	return fmt.Sprintf("failed to decode %s payload: %s", e.command, e.err)
}

func (e *payloadError) Unwrap() error {
	return e.err
}

func (e *payloadError) Is(target error) bool {
	switch target {
	case ErrMalformedPayload:
		return true
	case ErrMessageTruncated:
		return errors.Is(e.err, io.EOF) || errors.Is(e.err, io.ErrUnexpectedEOF)
	}
	return false
}
