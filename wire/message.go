// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/pkg/errors"
)

// MessageHeaderSize is the number of bytes in a bitcoin message header.
// Bitcoin network (magic) 4 bytes + command 12 bytes + payload length 4 bytes +
// checksum 4 bytes.
const MessageHeaderSize = 24

// ChecksumSize is the number of bytes of the double hash kept as a payload
// checksum.
const ChecksumSize = 4

// MaxMessagePayload is the maximum bytes a message can be regardless of other
// individual limits imposed by messages themselves.
const MaxMessagePayload = 1024 * 1024 * 32 // 32MB

// Message is an interface that describes a bitcoin message. A type that
// implements Message has complete control over the representation of its data
// and may therefore contain additional or fewer fields than those which
// are used directly in the protocol encoded message.
type Message interface {
	BtcDecode(io.Reader, uint32) error
	BtcEncode(io.Writer, uint32) error
	Command() string
	MaxPayloadLength(uint32) uint32
}

// makeEmptyMessage creates a message of the appropriate concrete type based
// on the command.
func makeEmptyMessage(command string) (Message, error) {
	var msg Message
	switch command {
	case CmdVersion:
		msg = &MsgVersion{}

	case CmdVerAck:
		msg = &MsgVerAck{}

	case CmdPing:
		msg = &MsgPing{}

	case CmdPong:
		msg = &MsgPong{}

	case CmdInv:
		msg = &MsgInv{}

	case CmdGetData:
		msg = &MsgGetData{}

	case CmdNotFound:
		msg = &MsgNotFound{}

	case CmdFilterAdd:
		msg = &MsgFilterAdd{}

	case CmdFilterClear:
		msg = &MsgFilterClear{}

	case CmdFilterLoad:
		msg = &MsgFilterLoad{}

	default:
		return nil, errors.Wrapf(ErrUnknownCommand, "unhandled command [%s]", command)
	}
	return msg, nil
}

// Checksum returns the first ChecksumSize bytes of the double SHA-256 of
// payload. An empty payload yields 5d f6 e0 e2.
func Checksum(payload []byte) [ChecksumSize]byte {
	var checksum [ChecksumSize]byte
	copy(checksum[:], chainhash.DoubleHashB(payload))
	return checksum
}

// messageHeader defines the header structure for all bitcoin protocol messages.
type messageHeader struct {
	magic    BitcoinNet // 4 bytes
	command  string     // 12 bytes
	length   uint32     // 4 bytes
	checksum [ChecksumSize]byte
}

// readMessageHeader reads a bitcoin message header from r.
func readMessageHeader(r io.Reader) (int, *messageHeader, error) {
	// Since readElements doesn't return the amount of bytes read, attempt
	// to read the entire header into a buffer first in case there is a
	// short read so the proper amount of read bytes are known. This works
	// since the header is a fixed size.
	var headerBytes [MessageHeaderSize]byte
	n, err := io.ReadFull(r, headerBytes[:])
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return n, nil, errors.Wrapf(ErrMessageTruncated,
				"got %d of %d header bytes", n, MessageHeaderSize)
		}
		return n, nil, errors.WithStack(err)
	}
	hr := bytes.NewReader(headerBytes[:])

	hdr := messageHeader{}
	var command [CommandSize]byte
	err = readElements(hr, &hdr.magic, &command, &hdr.length, &hdr.checksum)
	if err != nil {
		return n, nil, err
	}
	hdr.command = DecodeCommand(command)

	return n, &hdr, nil
}

// discardInput reads n bytes from reader r in chunks and discards the read
// bytes. This is used to skip payloads when various errors occur and helps
// prevent rogue nodes from causing massive memory allocation through forging
// header length.
func discardInput(r io.Reader, n uint32) {
	maxSize := uint32(10 * 1024) // 10k at a time
	numReads := n / maxSize
	bytesRemaining := n % maxSize
	if n > 0 {
		buf := make([]byte, maxSize)
		for i := uint32(0); i < numReads; i++ {
			io.ReadFull(r, buf)
		}
	}
	if bytesRemaining > 0 {
		buf := make([]byte, bytesRemaining)
		io.ReadFull(r, buf)
	}
}

// PayloadLengthChecksumAndBytes serializes the payload of msg and returns its
// length, its checksum and the serialized bytes. The bytes are nil when the
// message has no payload, as is the case for verack; the checksum is then
// the checksum of an empty input.
func PayloadLengthChecksumAndBytes(msg Message) (uint32, [ChecksumSize]byte, []byte, error) {
	return payloadLengthChecksumAndBytes(msg, ProtocolVersion)
}

func payloadLengthChecksumAndBytes(msg Message, pver uint32) (uint32, [ChecksumSize]byte, []byte, error) {
	var bw bytes.Buffer
	err := msg.BtcEncode(&bw, pver)
	if err != nil {
		return 0, [ChecksumSize]byte{}, nil, err
	}

	var payload []byte
	if bw.Len() > 0 {
		payload = bw.Bytes()
	}
	lenp := len(payload)

	// Enforce maximum overall message payload.
	if lenp > MaxMessagePayload {
		return 0, [ChecksumSize]byte{}, nil, errors.Wrapf(ErrPayloadTooLarge,
			"message payload is %d bytes, max %d", lenp, MaxMessagePayload)
	}

	// Enforce maximum message payload based on the message type.
	mpl := msg.MaxPayloadLength(pver)
	if uint32(lenp) > mpl {
		return 0, [ChecksumSize]byte{}, nil, errors.Wrapf(ErrPayloadTooLarge,
			"%s payload is %d bytes, max %d", msg.Command(), lenp, mpl)
	}

	return uint32(lenp), Checksum(payload), payload, nil
}

// decodePayload checks payload against the header that announced it and
// decodes it into a message of the type named by the header command.
func decodePayload(hdr *messageHeader, payload []byte, pver uint32) (Message, error) {
	checksum := Checksum(payload)
	if checksum != hdr.checksum {
		return nil, errors.Wrapf(ErrChecksumMismatch,
			"header indicates %x, but actual checksum is %x",
			hdr.checksum, checksum)
	}

	msg, err := makeEmptyMessage(hdr.command)
	if err != nil {
		return nil, err
	}

	pr := bytes.NewReader(payload)
	err = msg.BtcDecode(pr, pver)
	if err != nil {
		return nil, &payloadError{command: hdr.command, err: err}
	}
	if pr.Len() != 0 {
		return nil, &payloadError{
			command: hdr.command,
			err:     errors.Wrapf(ErrTrailingBytes, "%d bytes left", pr.Len()),
		}
	}

	return msg, nil
}

// WriteMessage writes a bitcoin Message to w including the necessary header
// information.
func WriteMessage(w io.Writer, msg Message, pver uint32, net BitcoinNet) error {
	buf, err := assemble(net, msg.Command(), msg, pver)
	if err != nil {
		return err
	}
	_, err = w.Write(buf)
	return errors.WithStack(err)
}

// ReadMessage reads, validates, and parses the next bitcoin Message from r for
// the provided protocol version and bitcoin network. It returns the parsed
// Message and the raw payload bytes it was decoded from. This function only differs
// from Parse in that it reads from a stream, so the payload of a message that
// is rejected before it is read is discarded to keep the stream in sync.
func ReadMessage(r io.Reader, pver uint32, net BitcoinNet) (Message, []byte, error) {
	_, hdr, err := readMessageHeader(r)
	if err != nil {
		return nil, nil, err
	}

	// Enforce maximum message payload.
	if hdr.length > MaxMessagePayload {
		return nil, nil, errors.Wrapf(ErrPayloadTooLarge,
			"message payload is %d bytes, max %d", hdr.length, MaxMessagePayload)
	}

	// Check for messages from the wrong bitcoin network.
	if hdr.magic != net {
		discardInput(r, hdr.length)
		return nil, nil, errors.Wrapf(ErrUnknownNetwork,
			"message from network %s, expected %s", hdr.magic, net)
	}

	msg, err := makeEmptyMessage(hdr.command)
	if err != nil {
		discardInput(r, hdr.length)
		return nil, nil, err
	}

	mpl := msg.MaxPayloadLength(pver)
	if hdr.length > mpl {
		discardInput(r, hdr.length)
		return nil, nil, errors.Wrapf(ErrPayloadTooLarge,
			"%s payload is %d bytes, max %d", hdr.command, hdr.length, mpl)
	}

	payload := make([]byte, hdr.length)
	n, err := io.ReadFull(r, payload)
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, nil, errors.Wrapf(ErrMessageTruncated,
				"got %d of %d %s payload bytes", n, hdr.length, hdr.command)
		}
		return nil, nil, errors.WithStack(err)
	}

	msg, err = decodePayload(hdr, payload, pver)
	if err != nil {
		return nil, nil, err
	}
	return msg, payload, nil
}
