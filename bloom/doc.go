/*
Package bloom builds the BIP0037 bloom filters an SPV client asks its peers
to match transactions against, and turns them into wire messages.

	filter := bloom.NewFilter(10, random, 0.0001, wire.BloomUpdateNone)
	filter.Add(pubKeyHash)
	buf, err := wire.Assemble(wire.Mainnet, wire.CmdFilterLoad, filter.MsgFilterLoad())

The hashing itself is done by github.com/btcsuite/btcutil/bloom.
*/
package bloom
