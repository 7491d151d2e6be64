// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
)

// TestCommandEncoding tests that commands are zero padded on the way out and
// stripped of their padding on the way in.
func TestCommandEncoding(t *testing.T) {
	tests := []struct {
		command string
		encoded [CommandSize]byte
	}{
		{"", [CommandSize]byte{}},
		{CmdVerAck, [CommandSize]byte{0x76, 0x65, 0x72, 0x61, 0x63, 0x6b}},
		{CmdVersion, [CommandSize]byte{'v', 'e', 'r', 's', 'i', 'o', 'n'}},
		{CmdFilterLoad, [CommandSize]byte{'f', 'i', 'l', 't', 'e', 'r', 'l', 'o', 'a', 'd'}},
		{CmdGetData, [CommandSize]byte{'g', 'e', 't', 'd', 'a', 't', 'a'}},
		{"sendheaders1", [CommandSize]byte{'s', 'e', 'n', 'd', 'h', 'e', 'a', 'd', 'e', 'r', 's', '1'}},
	}

	t.Logf("Running %d tests", len(tests))
	for i, test := range tests {
		encoded := EncodeCommand(test.command)
		if encoded != test.encoded {
			t.Errorf("EncodeCommand #%d\n got: %s want: %s", i,
				spew.Sdump(encoded), spew.Sdump(test.encoded))
			continue
		}

		decoded := DecodeCommand(encoded)
		if decoded != test.command {
			t.Errorf("DecodeCommand #%d got: %q want: %q", i,
				decoded, test.command)
		}
	}
}

// TestDecodeCommandDropsEveryZero ensures zero bytes are filtered out wherever
// they appear in the field, not only at the end.
func TestDecodeCommandDropsEveryZero(t *testing.T) {
	encoded := [CommandSize]byte{'v', 'e', 'r', 0, 'a', 'c', 'k'}
	if decoded := DecodeCommand(encoded); decoded != CmdVerAck {
		t.Errorf("DecodeCommand: got %q, want %q", decoded, CmdVerAck)
	}

	encoded = [CommandSize]byte{0, 0, 'p', 'i', 'n', 'g'}
	if decoded := DecodeCommand(encoded); decoded != CmdPing {
		t.Errorf("DecodeCommand: got %q, want %q", decoded, CmdPing)
	}
}

// TestEncodeCommandTooLong ensures a command longer than CommandSize bytes
// panics rather than being truncated.
func TestEncodeCommandTooLong(t *testing.T) {
	for _, command := range []string{
		strings.Repeat("a", CommandSize+1),
		"verylongcommandname",
	} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("EncodeCommand(%q) didn't panic", command)
				}
			}()
			EncodeCommand(command)
		}()
	}
}
