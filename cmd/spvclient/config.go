package main

import (
	"encoding/hex"
	"path/filepath"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"

	"github.com/kaspanet/spvwire/infrastructure/config"
	"github.com/kaspanet/spvwire/wire"
)

const (
	defaultLogFilename    = "spvclient.log"
	defaultErrLogFilename = "spvclient_err.log"
	defaultPeer           = "127.0.0.1"
	defaultDelay          = time.Second
	defaultReadTimeout    = 5 * time.Second
	defaultReadBufferSize = 1024 * 1024
	defaultLogLevel       = "info"
	defaultFPRate         = 0.0001

	// defaultGetData is the filtered block requested when no --getdata is
	// given.
	defaultGetData = "000000000000b731f2eef9e8c63173adfb07e41bd53eb0ef0a6b720d6cb6dea4"
)

type configFlags struct {
	Connect        []string      `short:"c" long:"connect" description:"Peer to connect to, with or without a port (may be repeated)"`
	Proxy          string        `long:"proxy" description:"Connect through a SOCKS5 proxy (eg. 127.0.0.1:9050)"`
	ProxyUser      string        `long:"proxyuser" description:"Username for proxy server"`
	ProxyPass      string        `long:"proxypass" default-mask:"-" description:"Password for proxy server"`
	TorIsolation   bool          `long:"torisolation" description:"Enable Tor stream isolation by randomizing user credentials for each connection"`
	Delay          time.Duration `long:"delay" description:"Time to wait between two sent messages"`
	ReadTimeout    time.Duration `long:"readtimeout" description:"Stop reading from a peer after it has been silent for this long"`
	ReadBufferSize int           `long:"readbuffer" description:"Size in bytes of the buffer responses are read into"`
	StartHeight    int32         `long:"startheight" description:"Best height announced in the version message"`
	Watch          []string      `long:"watch" description:"Hex encoded element to match in the bloom filter (may be repeated)"`
	FPRate         float64       `long:"fprate" description:"False positive rate of the bloom filter built from --watch elements"`
	GetData        []string      `long:"getdata" description:"Hash of a block to request as a filtered block (may be repeated)"`
	LogDir         string        `long:"logdir" description:"Directory to log output to, stdout only when empty"`
	LogLevel       string        `short:"d" long:"loglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems"`
	config.NetworkFlags

	peers       []string
	watch       [][]byte
	getDataList []*chainhash.Hash
}

func parseConfig(args []string) (*configFlags, error) {
	cfg := &configFlags{
		Delay:          defaultDelay,
		ReadTimeout:    defaultReadTimeout,
		ReadBufferSize: defaultReadBufferSize,
		FPRate:         defaultFPRate,
		LogLevel:       defaultLogLevel,
	}
	parser := flags.NewParser(cfg, flags.HelpFlag)
	parser.Usage = "spvclient [OPTIONS]\n\nSends version, verack, filterload and getdata to every peer and logs what they answer."
	_, err := parser.ParseArgs(args)
	if err != nil {
		return nil, err
	}

	if len(cfg.Connect) == 0 {
		cfg.Connect = []string{defaultPeer}
	}
	if len(cfg.GetData) == 0 {
		cfg.GetData = []string{defaultGetData}
	}

	err = cfg.ResolveNetwork(parser)
	if err != nil {
		return nil, err
	}

	cfg.peers, err = cfg.NetParams().NormalizeAddresses(cfg.Connect)
	if err != nil {
		return nil, err
	}

	if cfg.Delay < 0 {
		return nil, errors.Errorf("--delay can't be negative, got %s", cfg.Delay)
	}
	if cfg.ReadTimeout <= 0 {
		return nil, errors.Errorf("--readtimeout must be positive, got %s", cfg.ReadTimeout)
	}
	if cfg.ReadBufferSize < wire.MessageHeaderSize {
		return nil, errors.Errorf("--readbuffer must be at least %d bytes", wire.MessageHeaderSize)
	}
	if cfg.FPRate <= 0 || cfg.FPRate > 1 {
		return nil, errors.Errorf("--fprate must be in (0, 1], got %g", cfg.FPRate)
	}
	if cfg.TorIsolation && cfg.Proxy == "" {
		return nil, errors.New("--torisolation requires --proxy")
	}

	for _, element := range cfg.Watch {
		data, err := hex.DecodeString(element)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid --watch element %s", element)
		}
		if len(data) > wire.MaxFilterAddDataSize {
			return nil, errors.Errorf("--watch element %s is %d bytes, max %d",
				element, len(data), wire.MaxFilterAddDataSize)
		}
		cfg.watch = append(cfg.watch, data)
	}

	for _, hashString := range cfg.GetData {
		hash, err := chainhash.NewHashFromStr(hashString)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid --getdata hash %s", hashString)
		}
		cfg.getDataList = append(cfg.getDataList, hash)
	}
	if len(cfg.getDataList) > wire.MaxInvPerMsg {
		return nil, errors.Errorf("too many --getdata hashes, max %d", wire.MaxInvPerMsg)
	}

	return cfg, nil
}

// logFiles returns the log file and the error log file, or empty strings when
// logging to stdout only.
func (cfg *configFlags) logFiles() (string, string) {
	if cfg.LogDir == "" {
		return "", ""
	}
	return filepath.Join(cfg.LogDir, defaultLogFilename),
		filepath.Join(cfg.LogDir, defaultErrLogFilename)
}
