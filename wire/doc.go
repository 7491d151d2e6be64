// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package wire implements the bitcoin peer-to-peer message framing used by an
SPV client.

Message Overview

Every message on the wire is a fixed 24 byte header followed by a payload:

	offset  size  field
	0       4     network magic, little endian uint32
	4       12    command, ASCII, zero padded
	16      4     payload length, little endian uint32
	20      4     first 4 bytes of sha256(sha256(payload))
	24      N     payload

The payload layout depends on the command. This package provides a concrete
type for every supported command (MsgVersion, MsgVerAck, MsgFilterLoad,
MsgGetData and a few more) which implements the Message interface.

Assembling and Parsing

Assemble turns a network, a command and a payload into the exact bytes to
send, and Parse does the inverse for a buffer holding a single message:

	buf, err := wire.Assemble(wire.Mainnet, wire.CmdVerAck, wire.NewMsgVerAck())
	...
	envelope, err := wire.Parse(buf)

WriteMessage and ReadMessage do the same over an io.Writer and an io.Reader
and are what a connection loop uses.

Nothing in this package keeps state, so every function is safe to call from
multiple goroutines.

Errors

Malformed input is reported through errors wrapping the sentinel errors
declared in this package (ErrUnknownNetwork, ErrChecksumMismatch,
ErrUnknownCommand, ...), which can be matched with errors.Is. Violations of
per-field limits are reported as *MessageError. A command longer than
CommandSize bytes is a programming error and causes a panic.
*/
package wire
