// Package random provides the nonces used in version and ping messages.
package random

import (
	"crypto/rand"
	"encoding/binary"

	"github.com/kaspanet/spvwire/util/binaryserializer"
)

// Uint64 returns a cryptographically random uint64 value.
func Uint64() (uint64, error) {
	return binaryserializer.Uint64(rand.Reader, binary.LittleEndian)
}
