package main

import (
	"net"
	"time"

	"github.com/btcsuite/go-socks/socks"
	"github.com/pkg/errors"
)

const dialTimeout = 30 * time.Second

// dialFunc connects to the address on the named network.
type dialFunc func(network, address string, timeout time.Duration) (net.Conn, error)

// dialer returns the function peers are connected with: a SOCKS5 proxy dial
// when a proxy is configured, a plain TCP dial otherwise.
func (cfg *configFlags) dialer() dialFunc {
	if cfg.Proxy == "" {
		return net.DialTimeout
	}

	proxy := &socks.Proxy{
		Addr:         cfg.Proxy,
		Username:     cfg.ProxyUser,
		Password:     cfg.ProxyPass,
		TorIsolation: cfg.TorIsolation,
	}
	return proxy.DialTimeout
}

func connect(dial dialFunc, address string) (net.Conn, error) {
	conn, err := dial("tcp", address, dialTimeout)
	if err != nil {
		return nil, errors.Wrapf(err, "error connecting to %s", address)
	}
	log.Infof("Connected to %s", address)
	return conn, nil
}
