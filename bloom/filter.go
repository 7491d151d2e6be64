package bloom

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	btcdwire "github.com/btcsuite/btcd/wire"
	"github.com/btcsuite/btcutil/bloom"
	"github.com/pkg/errors"

	"github.com/kaspanet/spvwire/wire"
)

// Filter is a bloom filter an SPV client loads on its peers. It keeps the
// local copy of the filter in sync with the filterload, filteradd and
// filterclear messages it hands out.
//
// Filter is safe for concurrent access.
type Filter struct {
	filter *bloom.Filter
}

// NewFilter creates a new bloom filter sized to hold elements entries with
// the given false positive rate. The tweak seeds the hash functions and flags
// tells remote peers how to update the filter on a match.
//
// The false positive rate is clamped to (0, 1] and the filter size and the
// number of hash functions to the protocol maximums.
func NewFilter(elements, tweak uint32, fprate float64, flags wire.BloomUpdateType) *Filter {
	return &Filter{
		filter: bloom.NewFilter(elements, tweak, fprate, btcdwire.BloomUpdateType(flags)),
	}
}

// LoadFilter creates a new Filter from the contents of a filterload message.
// A nil message yields an unloaded filter.
func LoadFilter(msg *wire.MsgFilterLoad) *Filter {
	return &Filter{
		filter: bloom.LoadFilter(toBtcdFilterLoad(msg)),
	}
}

// IsLoaded returns whether the filter is loaded.
func (f *Filter) IsLoaded() bool {
	return f.filter.IsLoaded()
}

// Unload unloads the filter.
func (f *Filter) Unload() {
	f.filter.Unload()
}

// Add adds data to the filter.
func (f *Filter) Add(data []byte) {
	f.filter.Add(data)
}

// AddHash adds hash to the filter.
func (f *Filter) AddHash(hash *chainhash.Hash) {
	f.filter.AddHash(hash)
}

// Matches returns whether data might be in the filter. False positives are
// possible, false negatives aren't.
func (f *Filter) Matches(data []byte) bool {
	return f.filter.Matches(data)
}

// MsgFilterLoad returns the filterload message that loads the filter on a
// remote peer, or nil if the filter isn't loaded.
func (f *Filter) MsgFilterLoad() *wire.MsgFilterLoad {
	return fromBtcdFilterLoad(f.filter.MsgFilterLoad())
}

// MsgFilterAdd adds data to the filter and returns the filteradd message that
// adds it on a remote peer.
func (f *Filter) MsgFilterAdd(data []byte) (*wire.MsgFilterAdd, error) {
	if !f.IsLoaded() {
		return nil, errors.New("can't add to a filter that isn't loaded")
	}
	if len(data) > wire.MaxFilterAddDataSize {
		return nil, errors.Errorf("filteradd data is %d bytes, max %d",
			len(data), wire.MaxFilterAddDataSize)
	}
	f.Add(data)
	return wire.NewMsgFilterAdd(data), nil
}

// MsgFilterClear unloads the filter and returns the filterclear message that
// unloads it on a remote peer.
func (f *Filter) MsgFilterClear() *wire.MsgFilterClear {
	f.Unload()
	return wire.NewMsgFilterClear()
}

func toBtcdFilterLoad(msg *wire.MsgFilterLoad) *btcdwire.MsgFilterLoad {
	if msg == nil {
		return nil
	}
	filter := make([]byte, len(msg.Filter))
	copy(filter, msg.Filter)
	return btcdwire.NewMsgFilterLoad(filter, msg.HashFuncs, msg.Tweak,
		btcdwire.BloomUpdateType(msg.Flags))
}

func fromBtcdFilterLoad(msg *btcdwire.MsgFilterLoad) *wire.MsgFilterLoad {
	if msg == nil {
		return nil
	}
	filter := make([]byte, len(msg.Filter))
	copy(filter, msg.Filter)
	return wire.NewMsgFilterLoad(filter, msg.HashFuncs, msg.Tweak,
		wire.BloomUpdateType(msg.Flags))
}
