// Copyright (c) 2013-2015 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"io"
	"net"

	"github.com/pkg/errors"

	"github.com/kaspanet/spvwire/util/binaryserializer"
)

// netAddressSize is the size of an encoded NetAddress: services 8 bytes +
// address 16 bytes + port 2 bytes.
const netAddressSize = 26

// onionPrefix is the address prefix reserved for Tor hidden services
// (OnionCat, fd87:d87e:eb43::/48).
var onionPrefix = [3]uint16{0xfd87, 0xd87e, 0xeb43}

// NetAddress defines information about a peer on the network including the
// services it supports, its address, and port.
type NetAddress struct {
	// Bitfield which identifies the services supported by the address.
	Services ServiceFlag

	// The address as eight 16-bit groups. IPv4 addresses are kept in their
	// IPv4-mapped IPv6 form. Each group is encoded in big endian on the
	// wire.
	Address [8]uint16

	// Port the peer is using. This is encoded in big endian on the wire
	// which differs from most everything else.
	Port uint16
}

// HasService returns whether the specified service is supported by the address.
func (na *NetAddress) HasService(service ServiceFlag) bool {
	return na.Services&service == service
}

// AddService adds service as a supported service by the peer generating the
// message.
func (na *NetAddress) AddService(service ServiceFlag) {
	na.Services |= service
}

// IP returns the address as a 16-byte net.IP.
func (na *NetAddress) IP() net.IP {
	ip := make(net.IP, net.IPv6len)
	for i, group := range na.Address {
		bigEndian.PutUint16(ip[i*2:], group)
	}
	return ip
}

// IsOnion returns whether the address lies in the Tor hidden service range.
func (na *NetAddress) IsOnion() bool {
	return na.Address[0] == onionPrefix[0] &&
		na.Address[1] == onionPrefix[1] &&
		na.Address[2] == onionPrefix[2]
}

// TCPAddress converts the NetAddress to a *net.TCPAddr. The IP is reduced to
// its 4-byte form when the address is IPv4-mapped.
//
// Onion addresses aren't routable over plain TCP, so ErrAddressUnavailable is
// returned for them.
func (na *NetAddress) TCPAddress() (*net.TCPAddr, error) {
	if na.IsOnion() {
		return nil, errors.Wrapf(ErrAddressUnavailable, "%s is a Tor onion address", na)
	}

	ip := na.IP()
	if ip4 := ip.To4(); ip4 != nil {
		ip = ip4
	}
	return &net.TCPAddr{
		IP:   ip,
		Port: int(na.Port),
	}, nil
}

// Equal returns whether na and other carry the same services, address and
// port.
func (na *NetAddress) Equal(other *NetAddress) bool {
	return *na == *other
}

func (na *NetAddress) String() string {
	return fmt.Sprintf("%s (services %s)",
		net.JoinHostPort(na.IP().String(), fmt.Sprint(na.Port)), na.Services)
}

// NewNetAddressIPPort returns a new NetAddress using the provided IP, port, and
// supported services. IPv4 addresses are stored in their IPv4-mapped form and
// a nil ip yields the unspecified address.
func NewNetAddressIPPort(ip net.IP, port uint16, services ServiceFlag) *NetAddress {
	na := &NetAddress{
		Services: services,
		Port:     port,
	}
	if ip16 := ip.To16(); ip16 != nil {
		for i := range na.Address {
			na.Address[i] = bigEndian.Uint16(ip16[i*2:])
		}
	}
	return na
}

// NewNetAddress returns a new NetAddress using the provided TCP address and
// supported services.
func NewNetAddress(addr *net.TCPAddr, services ServiceFlag) *NetAddress {
	return NewNetAddressIPPort(addr.IP, uint16(addr.Port), services)
}

// readNetAddress reads an encoded NetAddress from r. The address groups and
// the port are big endian, the services are little endian like everything
// else.
func readNetAddress(r io.Reader, pver uint32, na *NetAddress) error {
	var services ServiceFlag
	err := ReadElement(r, &services)
	if err != nil {
		return err
	}

	var address [8]uint16
	for i := range address {
		address[i], err = binaryserializer.Uint16(r, bigEndian)
		if err != nil {
			return err
		}
	}

	port, err := binaryserializer.Uint16(r, bigEndian)
	if err != nil {
		return err
	}

	*na = NetAddress{
		Services: services,
		Address:  address,
		Port:     port,
	}
	return nil
}

// writeNetAddress serializes a NetAddress to w.
func writeNetAddress(w io.Writer, pver uint32, na *NetAddress) error {
	err := WriteElement(w, na.Services)
	if err != nil {
		return err
	}

	for _, group := range na.Address {
		err = binaryserializer.PutUint16(w, bigEndian, group)
		if err != nil {
			return err
		}
	}

	return binaryserializer.PutUint16(w, bigEndian, na.Port)
}
