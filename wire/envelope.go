// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"

	"github.com/pkg/errors"
)

// Envelope is a framed message: the network it belongs to, the command
// written in its header and its payload. Length and checksum aren't kept,
// they are computed from the payload every time the envelope is assembled.
type Envelope struct {
	Net     BitcoinNet
	Command string
	Payload Message
}

// NewEnvelope returns an Envelope for msg on net using the message's own
// command.
func NewEnvelope(net BitcoinNet, msg Message) *Envelope {
	return &Envelope{
		Net:     net,
		Command: msg.Command(),
		Payload: msg,
	}
}

// Bytes assembles the envelope. See Assemble.
func (e *Envelope) Bytes() ([]byte, error) {
	return Assemble(e.Net, e.Command, e.Payload)
}

// Assemble returns the wire form of a message:
//
//	magic (4) | command (12) | payload length (4) | checksum (4) | payload
//
// The payload section is left out entirely when the payload serializes to
// nothing. Assemble panics when command is longer than CommandSize bytes.
func Assemble(net BitcoinNet, command string, payload Message) ([]byte, error) {
	return assemble(net, command, payload, ProtocolVersion)
}

func assemble(net BitcoinNet, command string, payload Message, pver uint32) ([]byte, error) {
	// An overlength command panics before anything else is checked.
	encodedCommand := EncodeCommand(command)

	if !net.IsKnown() {
		return nil, errors.Wrapf(ErrUnknownNetwork, "can't assemble %s", net)
	}

	length, checksum, payloadBytes, err := payloadLengthChecksumAndBytes(payload, pver)
	if err != nil {
		return nil, err
	}

	buf := bytes.NewBuffer(make([]byte, 0, MessageHeaderSize+len(payloadBytes)))
	err = writeElements(buf, net, encodedCommand, length, checksum)
	if err != nil {
		return nil, err
	}
	if payloadBytes != nil {
		buf.Write(payloadBytes)
	}
	return buf.Bytes(), nil
}

// Parse splits a complete wire message into its envelope. The buffer must
// hold exactly one message: the header plus the number of payload bytes the
// header announces.
//
// Parse returns errors wrapping ErrMessageTruncated, ErrTrailingBytes,
// ErrUnknownNetwork, ErrPayloadTooLarge, ErrChecksumMismatch or
// ErrUnknownCommand when the buffer is malformed, and the payload's own
// decoding error when its fields are.
func Parse(buf []byte) (*Envelope, error) {
	return parse(buf, ProtocolVersion)
}

func parse(buf []byte, pver uint32) (*Envelope, error) {
	if len(buf) < MessageHeaderSize {
		return nil, errors.Wrapf(ErrMessageTruncated,
			"got %d of %d header bytes", len(buf), MessageHeaderSize)
	}

	r := bytes.NewReader(buf)
	_, hdr, err := readMessageHeader(r)
	if err != nil {
		return nil, err
	}

	if !hdr.magic.IsKnown() {
		return nil, errors.Wrapf(ErrUnknownNetwork, "magic %08x", uint32(hdr.magic))
	}

	if hdr.length > MaxMessagePayload {
		return nil, errors.Wrapf(ErrPayloadTooLarge,
			"message payload is %d bytes, max %d", hdr.length, MaxMessagePayload)
	}

	remaining := uint32(r.Len())
	if remaining < hdr.length {
		return nil, errors.Wrapf(ErrMessageTruncated,
			"got %d of %d %s payload bytes", remaining, hdr.length, hdr.command)
	}
	if remaining > hdr.length {
		return nil, errors.Wrapf(ErrTrailingBytes,
			"%d bytes follow the %d byte %s payload", remaining-hdr.length,
			hdr.length, hdr.command)
	}

	payload := buf[MessageHeaderSize:]
	msg, err := decodePayload(hdr, payload, pver)
	if err != nil {
		return nil, err
	}

	return &Envelope{
		Net:     hdr.magic,
		Command: hdr.command,
		Payload: msg,
	}, nil
}
