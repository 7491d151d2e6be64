// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// MaxUserAgentLen is the maximum allowed length for the user agent field in a
// version message (MsgVersion).
const MaxUserAgentLen = 256

// DefaultUserAgent for wire in the stack
const DefaultUserAgent = "/spvwire:0.1.0/"

// MsgVersion implements the Message interface and represents a bitcoin version
// message. It is used for a peer to advertise itself as soon as an outbound
// connection is made. The remote peer then uses this information along with
// its own to negotiate. The remote peer must then respond with a version
// message of its own containing the negotiated values followed by a verack
// message (MsgVerAck). This exchange must take place before any further
// communication is allowed to proceed.
type MsgVersion struct {
	// Version of the protocol the node is using.
	ProtocolVersion int32

	// Bitfield which identifies the enabled services.
	Services ServiceFlag

	// Time the message was generated. This is encoded as an int64 on the wire.
	Timestamp time.Time

	// Address of the remote peer.
	AddrRecv NetAddress

	// Address of the local peer.
	AddrFrom NetAddress

	// Unique value associated with message that is used to detect self
	// connections.
	Nonce uint64

	// Single byte written between the nonce and the user agent.
	Reserved uint8

	// The user agent that generated messsage. This is encoded as a varString
	// on the wire. This has a max length of MaxUserAgentLen.
	UserAgent string

	// Height of the best chain known to the generator of the version
	// message.
	StartHeight int32

	// Whether the remote peer should announce relayed transactions before
	// a filter is loaded.
	Relay bool
}

// HasService returns whether the specified service is supported by the peer
// that generated the message.
func (msg *MsgVersion) HasService(service ServiceFlag) bool {
	return msg.Services&service == service
}

// AddService adds service as a supported service by the peer generating the
// message.
func (msg *MsgVersion) AddService(service ServiceFlag) {
	msg.Services |= service
}

// fields lists the fields of the message in wire order. Encoding and decoding
// both walk this list.
func (msg *MsgVersion) fields(pver uint32) []fieldCodec {
	return []fieldCodec{
		element("protocol version", &msg.ProtocolVersion,
			func() interface{} { return msg.ProtocolVersion }),
		element("services", &msg.Services,
			func() interface{} { return msg.Services }),
		element("timestamp", (*int64Time)(&msg.Timestamp),
			func() interface{} { return int64Time(msg.Timestamp) }),
		{
			name:   "receiver address",
			encode: func(w io.Writer) error { return writeNetAddress(w, pver, &msg.AddrRecv) },
			decode: func(r io.Reader) error { return readNetAddress(r, pver, &msg.AddrRecv) },
		},
		{
			name:   "sender address",
			encode: func(w io.Writer) error { return writeNetAddress(w, pver, &msg.AddrFrom) },
			decode: func(r io.Reader) error { return readNetAddress(r, pver, &msg.AddrFrom) },
		},
		element("nonce", &msg.Nonce,
			func() interface{} { return msg.Nonce }),
		element("reserved", &msg.Reserved,
			func() interface{} { return msg.Reserved }),
		{
			name: "user agent",
			encode: func(w io.Writer) error {
				err := validateUserAgent(msg.UserAgent)
				if err != nil {
					return err
				}
				return WriteVarString(w, msg.UserAgent)
			},
			decode: func(r io.Reader) error {
				userAgent, err := ReadVarString(r, pver)
				if err != nil {
					return err
				}
				err = validateUserAgent(userAgent)
				if err != nil {
					return err
				}
				msg.UserAgent = userAgent
				return nil
			},
		},
		element("start height", &msg.StartHeight,
			func() interface{} { return msg.StartHeight }),
		element("relay", &msg.Relay,
			func() interface{} { return msg.Relay }),
	}
}

// BtcDecode decodes r using the bitcoin protocol encoding into the receiver.
// This is part of the Message interface implementation.
func (msg *MsgVersion) BtcDecode(r io.Reader, pver uint32) error {
	return decodeFields(r, msg.fields(pver))
}

// BtcEncode encodes the receiver to w using the bitcoin protocol encoding.
// This is part of the Message interface implementation.
func (msg *MsgVersion) BtcEncode(w io.Writer, pver uint32) error {
	return encodeFields(w, msg.fields(pver))
}

// Command returns the protocol command string for the message. This is part
// of the Message interface implementation.
func (msg *MsgVersion) Command() string {
	return CmdVersion
}

// MaxPayloadLength returns the maximum length the payload can be for the
// receiver. This is part of the Message interface implementation.
func (msg *MsgVersion) MaxPayloadLength(pver uint32) uint32 {
	// Protocol version 4 bytes + services 8 bytes + timestamp 8 bytes +
	// remote and local net addresses + nonce 8 bytes + reserved byte +
	// length of user agent (varInt) + max allowed useragent length +
	// start height 4 bytes + relay flag 1 byte.
	return 33 + (netAddressSize * 2) + 1 + MaxVarIntPayload +
		MaxUserAgentLen
}

// NewMsgVersion returns a new bitcoin version message that conforms to the
// Message interface using the passed parameters and defaults for the remaining
// fields.
func NewMsgVersion(me *NetAddress, you *NetAddress, nonce uint64,
	startHeight int32) *MsgVersion {

	// Limit the timestamp to one second precision since the protocol
	// doesn't support better.
	return &MsgVersion{
		ProtocolVersion: int32(ProtocolVersion),
		Services:        DefaultServices,
		Timestamp:       time.Unix(time.Now().Unix(), 0),
		AddrRecv:        *you,
		AddrFrom:        *me,
		Nonce:           nonce,
		UserAgent:       DefaultUserAgent,
		StartHeight:     startHeight,
		Relay:           false,
	}
}

// validateUserAgent checks userAgent length against MaxUserAgentLen
func validateUserAgent(userAgent string) error {
	if len(userAgent) > MaxUserAgentLen {
		str := fmt.Sprintf("user agent too long [len %d, max %d]",
			len(userAgent), MaxUserAgentLen)
		return messageError("MsgVersion", str)
	}
	return nil
}

// AddUserAgent adds a user agent to the user agent string for the version
// message. The version string is not defined to any strict format, although
// it is recommended to use the form "major.minor.revision" e.g. "2.6.41".
func (msg *MsgVersion) AddUserAgent(name string, version string,
	comments ...string) error {

	newUserAgent := fmt.Sprintf("%s:%s", name, version)
	if len(comments) != 0 {
		newUserAgent = fmt.Sprintf("%s(%s)", newUserAgent,
			strings.Join(comments, "; "))
	}
	newUserAgent = fmt.Sprintf("%s%s/", msg.UserAgent, newUserAgent)
	err := validateUserAgent(newUserAgent)
	if err != nil {
		return err
	}
	msg.UserAgent = newUserAgent
	return nil
}
