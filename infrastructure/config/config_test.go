package config

import (
	"testing"

	"github.com/jessevdk/go-flags"

	"github.com/kaspanet/spvwire/wire"
)

type testConfig struct {
	NetworkFlags
}

func TestResolveNetwork(t *testing.T) {
	tests := []struct {
		args    []string
		want    *Params
		wantErr bool
	}{
		{nil, &MainnetParams, false},
		{[]string{"--testnet"}, &TestnetParams, false},
		{[]string{"--testnet3"}, &Testnet3Params, false},
		{[]string{"--testnet", "--testnet3"}, nil, true},
	}

	for _, test := range tests {
		cfg := &testConfig{}
		parser := flags.NewParser(cfg, flags.None)
		_, err := parser.ParseArgs(test.args)
		if err != nil {
			t.Fatalf("ParseArgs(%v): %s", test.args, err)
		}

		err = cfg.ResolveNetwork(parser)
		if test.wantErr {
			if err == nil {
				t.Errorf("ResolveNetwork(%v): expected an error", test.args)
			}
			continue
		}
		if err != nil {
			t.Errorf("ResolveNetwork(%v): unexpected error %s", test.args, err)
			continue
		}
		if cfg.NetParams() != test.want {
			t.Errorf("ResolveNetwork(%v): got %s, want %s", test.args,
				cfg.NetParams().Name, test.want.Name)
		}
	}
}

func TestParamsMagic(t *testing.T) {
	tests := []struct {
		params *Params
		net    wire.BitcoinNet
	}{
		{&MainnetParams, wire.Mainnet},
		{&TestnetParams, wire.Testnet},
		{&Testnet3Params, wire.Testnet3},
	}

	for _, test := range tests {
		if test.params.Net != test.net {
			t.Errorf("%s: got magic %s, want %s", test.params.Name,
				test.params.Net, test.net)
		}
		if !test.params.Net.IsKnown() {
			t.Errorf("%s: magic isn't known to the wire package", test.params.Name)
		}
	}
}

func TestParamsNormalizeAddresses(t *testing.T) {
	addrs, err := TestnetParams.NormalizeAddresses([]string{"127.0.0.1", "127.0.0.1:18333"})
	if err != nil {
		t.Fatalf("NormalizeAddresses: %s", err)
	}
	if len(addrs) != 1 || addrs[0] != "127.0.0.1:18333" {
		t.Errorf("NormalizeAddresses: got %v, want [127.0.0.1:18333]", addrs)
	}
}
