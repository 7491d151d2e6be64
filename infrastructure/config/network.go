package config

import (
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"

	"github.com/kaspanet/spvwire/util/network"
	"github.com/kaspanet/spvwire/wire"
)

// Params defines a network by its magic and the port its nodes listen on.
type Params struct {
	// Name is the human-readable name of the network.
	Name string

	// Net is the magic written at the start of every message on the
	// network.
	Net wire.BitcoinNet

	// DefaultPort is the port nodes listen on when a peer address doesn't
	// carry one.
	DefaultPort string
}

// MainnetParams defines the parameters for the main network.
var MainnetParams = Params{
	Name:        "mainnet",
	Net:         wire.Mainnet,
	DefaultPort: "8333",
}

// TestnetParams defines the parameters for the original test network.
var TestnetParams = Params{
	Name:        "testnet",
	Net:         wire.Testnet,
	DefaultPort: "18333",
}

// Testnet3Params defines the parameters for the third test network.
var Testnet3Params = Params{
	Name:        "testnet3",
	Net:         wire.Testnet3,
	DefaultPort: "18333",
}

// NormalizeAddresses appends the network's default port to every address
// that doesn't specify one and removes duplicates.
func (p *Params) NormalizeAddresses(addrs []string) ([]string, error) {
	return network.NormalizeAddresses(addrs, p.DefaultPort)
}

// NetworkFlags holds the network configuration, that is which network is selected.
type NetworkFlags struct {
	Testnet  bool `long:"testnet" description:"Use the original test network"`
	Testnet3 bool `long:"testnet3" description:"Use the third test network"`

	ActiveNetParams *Params
}

// ResolveNetwork parses the network command line argument and sets NetParams accordingly.
// It returns error if more than one network was selected, nil otherwise.
func (networkFlags *NetworkFlags) ResolveNetwork(parser *flags.Parser) error {
	// Default value is main-net.
	networkFlags.ActiveNetParams = &MainnetParams

	// Count number of network flags passed; assign active network params
	// while we're at it
	numNets := 0
	if networkFlags.Testnet {
		numNets++
		networkFlags.ActiveNetParams = &TestnetParams
	}
	if networkFlags.Testnet3 {
		numNets++
		networkFlags.ActiveNetParams = &Testnet3Params
	}
	if numNets > 1 {
		message := "Multiple networks parameters (testnet, testnet3) cannot be used " +
			"together. Please choose only one network"
		err := errors.New(message)
		fmt.Fprintln(os.Stderr, err)
		if parser != nil {
			parser.WriteHelp(os.Stderr)
		}
		return err
	}

	return nil
}

// NetParams returns the ActiveNetParams
func (networkFlags *NetworkFlags) NetParams() *Params {
	return networkFlags.ActiveNetParams
}
