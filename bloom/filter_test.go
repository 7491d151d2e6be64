package bloom

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/davecgh/go-spew/spew"

	"github.com/kaspanet/spvwire/wire"
)

func mustDecodeHex(t *testing.T, s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("DecodeString(%q): %s", s, err)
	}
	return b
}

// TestFilterInsert ensures inserting data into the filter causes that data
// to be matched and the resulting filterload payload is the expected value.
func TestFilterInsert(t *testing.T) {
	tests := []struct {
		name  string
		tweak uint32
		want  string
	}{
		{"no tweak", 0, "03614e9b050000000000000001"},
		{"tweak", 2147483649, "03ce4299050000000100008001"},
	}

	elements := []struct {
		hex    string
		insert bool
	}{
		{"99108ad8ed9bb6274d3980bab5a85c048f0950c8", true},
		{"19108ad8ed9bb6274d3980bab5a85c048f0950c8", false},
		{"b5a2c786d9ef4658287ced5914b37a1b4aa32eee", true},
		{"b9300670b4c5366e95b2699e8b18bc75e5f729c5", true},
	}

	for _, test := range tests {
		f := NewFilter(3, test.tweak, 0.01, wire.BloomUpdateAll)

		for _, element := range elements {
			data := mustDecodeHex(t, element.hex)
			if element.insert {
				f.Add(data)
			}
			if f.Matches(data) != element.insert {
				t.Errorf("%s: Matches %s got %t, want %t", test.name,
					element.hex, !element.insert, element.insert)
			}
		}

		var buf bytes.Buffer
		err := f.MsgFilterLoad().BtcEncode(&buf, wire.ProtocolVersion)
		if err != nil {
			t.Errorf("%s: BtcEncode: %s", test.name, err)
			continue
		}
		want := mustDecodeHex(t, test.want)
		if !bytes.Equal(buf.Bytes(), want) {
			t.Errorf("%s: filterload\n got: %s want: %s", test.name,
				spew.Sdump(buf.Bytes()), spew.Sdump(want))
		}
	}
}

// TestFilterLoad ensures a filter loaded from a filterload message gives the
// same message back and matches what the original filter matched.
func TestFilterLoad(t *testing.T) {
	original := NewFilter(10, 0, 0.0001, wire.BloomUpdateNone)
	data := []byte("watched output script")
	original.Add(data)

	msg := original.MsgFilterLoad()
	loaded := LoadFilter(msg)
	if !loaded.IsLoaded() {
		t.Fatalf("LoadFilter: filter isn't loaded")
	}
	if !loaded.Matches(data) {
		t.Errorf("LoadFilter: loaded filter doesn't match %q", data)
	}

	got := loaded.MsgFilterLoad()
	if !bytes.Equal(got.Filter, msg.Filter) || got.HashFuncs != msg.HashFuncs ||
		got.Tweak != msg.Tweak || got.Flags != msg.Flags {
		t.Errorf("MsgFilterLoad\n got: %s want: %s", spew.Sdump(got),
			spew.Sdump(msg))
	}

	// The message must not alias the filter's own state.
	msg.Filter[0] ^= 0xff
	if !loaded.Matches(data) {
		t.Errorf("LoadFilter: filter changed with the message it was loaded from")
	}

	unloaded := LoadFilter(nil)
	if unloaded.IsLoaded() {
		t.Errorf("LoadFilter(nil): filter is loaded")
	}
	if unloaded.MsgFilterLoad() != nil {
		t.Errorf("MsgFilterLoad: expected nil for an unloaded filter")
	}
}

// TestFilterLoadFixture loads the filter a wallet watching a single element
// sends and checks its shape survives the conversion.
func TestFilterLoadFixture(t *testing.T) {
	msg := wire.NewMsgFilterLoad([]byte{0xb5, 0x0f}, 11, 0, wire.BloomUpdateNone)
	f := LoadFilter(msg)

	buf, err := wire.Assemble(wire.Mainnet, wire.CmdFilterLoad, f.MsgFilterLoad())
	if err != nil {
		t.Fatalf("Assemble: %s", err)
	}
	want := mustDecodeHex(t, "02b50f0b0000000000000000")
	if !bytes.Equal(buf[wire.MessageHeaderSize:], want) {
		t.Errorf("Assemble: payload got %x, want %x",
			buf[wire.MessageHeaderSize:], want)
	}
}

// TestFilterAddAndClear tests the filteradd and filterclear messages handed
// out by the filter.
func TestFilterAddAndClear(t *testing.T) {
	f := NewFilter(10, 0, 0.0001, wire.BloomUpdateAll)
	hash := chainhash.DoubleHashH([]byte("outpoint"))
	f.AddHash(&hash)
	if !f.Matches(hash[:]) {
		t.Errorf("AddHash: filter doesn't match the added hash")
	}

	data := []byte{0x01, 0x02, 0x03}
	msg, err := f.MsgFilterAdd(data)
	if err != nil {
		t.Fatalf("MsgFilterAdd: %s", err)
	}
	if !bytes.Equal(msg.Data, data) {
		t.Errorf("MsgFilterAdd: got data %x, want %x", msg.Data, data)
	}
	if !f.Matches(data) {
		t.Errorf("MsgFilterAdd: data wasn't added to the filter")
	}

	_, err = f.MsgFilterAdd(make([]byte, wire.MaxFilterAddDataSize+1))
	if err == nil {
		t.Errorf("MsgFilterAdd: expected an error for oversized data")
	}

	clearMsg := f.MsgFilterClear()
	if clearMsg.Command() != wire.CmdFilterClear {
		t.Errorf("MsgFilterClear: got command %s", clearMsg.Command())
	}
	if f.IsLoaded() {
		t.Errorf("MsgFilterClear: filter is still loaded")
	}

	_, err = f.MsgFilterAdd(data)
	if err == nil {
		t.Errorf("MsgFilterAdd: expected an error for an unloaded filter")
	}
}
