// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"github.com/pkg/errors"
)

// CommandSize is the fixed size of all commands in the common bitcoin message
// header. Shorter commands must be zero padded.
const CommandSize = 12

// Commands used in bitcoin message headers which describe the type of message.
const (
	CmdVersion     = "version"
	CmdVerAck      = "verack"
	CmdPing        = "ping"
	CmdPong        = "pong"
	CmdInv         = "inv"
	CmdGetData     = "getdata"
	CmdNotFound    = "notfound"
	CmdFilterAdd   = "filteradd"
	CmdFilterClear = "filterclear"
	CmdFilterLoad  = "filterload"
)

// EncodeCommand returns the zero padded wire form of command.
//
// A command longer than CommandSize bytes can't be framed at all, so it is
// treated as a programming error and EncodeCommand panics.
func EncodeCommand(command string) [CommandSize]byte {
	if len(command) > CommandSize {
		panic(errors.Errorf("command %q is longer than %d bytes",
			command, CommandSize))
	}

	var encoded [CommandSize]byte
	copy(encoded[:], command)
	return encoded
}

// DecodeCommand returns the command held by a wire command field. Every zero
// byte is dropped, not only the trailing padding, so a field carrying a zero
// in the middle of the name collapses around it.
func DecodeCommand(encoded [CommandSize]byte) string {
	command := make([]byte, 0, CommandSize)
	for _, b := range encoded {
		if b != 0 {
			command = append(command, b)
		}
	}
	return string(command)
}
