// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"encoding/hex"
	"io"
	"reflect"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
)

// TestGetData tests the MsgGetData API.
func TestGetData(t *testing.T) {
	pver := ProtocolVersion

	// Ensure the command is expected value.
	wantCmd := "getdata"
	msg := NewMsgGetData()
	if cmd := msg.Command(); cmd != wantCmd {
		t.Errorf("NewMsgGetData: wrong command - got %v want %v",
			cmd, wantCmd)
	}

	// Ensure max payload is expected value for latest protocol version.
	// Num inventory vectors (varInt) + max allowed inventory vectors.
	wantPayload := uint32(1800009)
	maxPayload := msg.MaxPayloadLength(pver)
	if maxPayload != wantPayload {
		t.Errorf("MaxPayloadLength: wrong max payload length for "+
			"protocol version %d - got %v, want %v", pver,
			maxPayload, wantPayload)
	}

	// Ensure inventory vectors are added properly.
	hash := chainhash.Hash{}
	iv := NewInvVect(InvTypeBlock, &hash)
	err := msg.AddInvVect(iv)
	if err != nil {
		t.Errorf("AddInvVect: %v", err)
	}
	if msg.InvList[0] != iv {
		t.Errorf("AddInvVect: wrong invvect added - got %v, want %v",
			spew.Sprint(msg.InvList[0]), spew.Sprint(iv))
	}

	// Ensure adding more than the max allowed inventory vectors per
	// message returns an error.
	for i := 0; i < MaxInvPerMsg; i++ {
		err = msg.AddInvVect(iv)
	}
	var msgErr *MessageError
	if !errors.As(err, &msgErr) {
		t.Errorf("AddInvVect: expected error on too many inventory " +
			"vectors not received")
	}
}

// TestGetDataWire tests the MsgGetData wire encode and decode, including the
// request for a single filtered block.
func TestGetDataWire(t *testing.T) {
	pver := ProtocolVersion

	filteredBlockEncoded, err := hex.DecodeString("0103000000" +
		"a4deb66c0d726b0aefb03ed51be407fbad7331c6e8f9eef231b7000000000000")
	if err != nil {
		t.Fatalf("DecodeString: %s", err)
	}
	filteredBlock := NewMsgGetData()
	filteredBlock.AddInvVect(NewInvVect(InvTypeFilteredBlock, &exampleHash))

	// Empty MsgGetData message.
	noInv := NewMsgGetData()
	noInvEncoded := []byte{
		0x00, // Varint for number of inventory vectors
	}

	hashTx := chainhash.Hash{0x01, 0x02}
	multiInv := NewMsgGetData()
	multiInv.AddInvVect(NewInvVect(InvTypeBlock, &exampleHash))
	multiInv.AddInvVect(NewInvVect(InvTypeTx, &hashTx))
	multiInvEncoded := append([]byte{
		0x02,                   // Varint for number of inv vectors
		0x02, 0x00, 0x00, 0x00, // InvTypeBlock
	}, exampleHash[:]...)
	multiInvEncoded = append(multiInvEncoded, 0x01, 0x00, 0x00, 0x00) // InvTypeTx
	multiInvEncoded = append(multiInvEncoded, hashTx[:]...)

	tests := []struct {
		in  *MsgGetData // Message to encode
		out *MsgGetData // Expected decoded message
		buf []byte      // Wire encoding
	}{
		{filteredBlock, filteredBlock, filteredBlockEncoded},
		{noInv, noInv, noInvEncoded},
		{multiInv, multiInv, multiInvEncoded},
	}

	t.Logf("Running %d tests", len(tests))
	for i, test := range tests {
		// Encode the message to wire format.
		var buf bytes.Buffer
		err := test.in.BtcEncode(&buf, pver)
		if err != nil {
			t.Errorf("BtcEncode #%d error %v", i, err)
			continue
		}
		if !bytes.Equal(buf.Bytes(), test.buf) {
			t.Errorf("BtcEncode #%d\n got: %s want: %s", i,
				spew.Sdump(buf.Bytes()), spew.Sdump(test.buf))
			continue
		}

		// Decode the message from wire format.
		var msg MsgGetData
		rbuf := bytes.NewReader(test.buf)
		err = msg.BtcDecode(rbuf, pver)
		if err != nil {
			t.Errorf("BtcDecode #%d error %v", i, err)
			continue
		}
		if !reflect.DeepEqual(&msg, test.out) {
			t.Errorf("BtcDecode #%d\n got: %s want: %s", i,
				spew.Sdump(&msg), spew.Sdump(test.out))
			continue
		}
	}
}

// TestGetDataWireErrors performs negative tests against wire encode and
// decode of MsgGetData to confirm error paths work correctly.
func TestGetDataWireErrors(t *testing.T) {
	pver := ProtocolVersion

	// Base message used to induce errors.
	baseGetData := NewMsgGetData()
	baseGetData.AddInvVect(NewInvVect(InvTypeBlock, &exampleHash))
	baseGetDataEncoded := append([]byte{
		0x01,                   // Varint for number of inv vectors
		0x02, 0x00, 0x00, 0x00, // InvTypeBlock
	}, exampleHash[:]...)

	// Message that forces an error by having more than the max allowed inv
	// vectors.
	maxGetData := NewMsgGetData()
	for i := 0; i < MaxInvPerMsg; i++ {
		maxGetData.AddInvVect(NewInvVect(InvTypeBlock, &exampleHash))
	}
	maxGetData.InvList = append(maxGetData.InvList,
		NewInvVect(InvTypeBlock, &exampleHash))
	maxGetDataEncoded := []byte{
		0xfd, 0x51, 0xc3, // Varint for number of inv vectors (50001)
	}

	wireErr := &MessageError{}

	tests := []struct {
		in       *MsgGetData // Value to encode
		buf      []byte      // Wire encoding
		max      int         // Max size of fixed buffer to induce errors
		writeErr error       // Expected write error
		readErr  error       // Expected read error
	}{
		// Force error in inventory vector count.
		{baseGetData, baseGetDataEncoded, 0, io.ErrShortWrite, io.EOF},
		// Force error in inventory type.
		{baseGetData, baseGetDataEncoded, 1, io.ErrShortWrite, io.EOF},
		// Force error in inventory hash.
		{baseGetData, baseGetDataEncoded, 5, io.ErrShortWrite, io.EOF},
		// Force error in the middle of the inventory hash.
		{baseGetData, baseGetDataEncoded, 20, io.ErrShortWrite, io.ErrUnexpectedEOF},
		// Force error with greater than max inventory vectors.
		{maxGetData, maxGetDataEncoded, 3, wireErr, wireErr},
	}

	t.Logf("Running %d tests", len(tests))
	for i, test := range tests {
		// Encode to wire format.
		w := newFixedWriter(test.max)
		err := test.in.BtcEncode(w, pver)
		if !matchesWireError(err, test.writeErr) {
			t.Errorf("BtcEncode #%d wrong error got: %v, want: %v",
				i, err, test.writeErr)
			continue
		}

		// Decode from wire format.
		var msg MsgGetData
		r := bytes.NewReader(test.buf[0:test.max])
		err = msg.BtcDecode(r, pver)
		if !matchesWireError(err, test.readErr) {
			t.Errorf("BtcDecode #%d wrong error got: %v, want: %v",
				i, err, test.readErr)
			continue
		}
	}
}

// TestInvListMessages ensures inv and notfound share the getdata encoding
// and differ only by command.
func TestInvListMessages(t *testing.T) {
	pver := ProtocolVersion
	iv := NewInvVect(InvTypeTx, &exampleHash)

	getData := NewMsgGetData()
	getData.AddInvVect(iv)
	inv := NewMsgInv()
	inv.AddInvVect(iv)
	notFound := NewMsgNotFound()
	notFound.AddInvVect(iv)

	var want bytes.Buffer
	err := getData.BtcEncode(&want, pver)
	if err != nil {
		t.Fatalf("BtcEncode: %s", err)
	}

	tests := []struct {
		msg     Message
		command string
	}{
		{inv, CmdInv},
		{notFound, CmdNotFound},
	}
	for _, test := range tests {
		if test.msg.Command() != test.command {
			t.Errorf("Command: got %s, want %s", test.msg.Command(),
				test.command)
		}
		if test.msg.MaxPayloadLength(pver) != getData.MaxPayloadLength(pver) {
			t.Errorf("MaxPayloadLength %s: got %d, want %d", test.command,
				test.msg.MaxPayloadLength(pver), getData.MaxPayloadLength(pver))
		}

		var buf bytes.Buffer
		err := test.msg.BtcEncode(&buf, pver)
		if err != nil {
			t.Errorf("BtcEncode %s: %s", test.command, err)
			continue
		}
		if !bytes.Equal(buf.Bytes(), want.Bytes()) {
			t.Errorf("BtcEncode %s\n got: %s want: %s", test.command,
				spew.Sdump(buf.Bytes()), spew.Sdump(want.Bytes()))
		}
	}
}

// TestInvTypeStringer tests the stringized output for inventory vector types.
func TestInvTypeStringer(t *testing.T) {
	tests := []struct {
		in   InvType
		want string
	}{
		{InvTypeError, "ERROR"},
		{InvTypeTx, "MSG_TX"},
		{InvTypeBlock, "MSG_BLOCK"},
		{InvTypeFilteredBlock, "MSG_FILTERED_BLOCK"},
		{0xffffffff, "Unknown InvType (4294967295)"},
	}

	t.Logf("Running %d tests", len(tests))
	for i, test := range tests {
		result := test.in.String()
		if result != test.want {
			t.Errorf("String #%d\n got: %s want: %s", i, result,
				test.want)
			continue
		}
	}
}
