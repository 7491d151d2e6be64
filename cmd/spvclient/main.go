package main

import (
	"fmt"
	"os"
	"sync"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"

	"github.com/kaspanet/spvwire/bloom"
	"github.com/kaspanet/spvwire/infrastructure/logger"
	"github.com/kaspanet/spvwire/util/panics"
	"github.com/kaspanet/spvwire/util/random"
	"github.com/kaspanet/spvwire/wire"
)

// defaultFilterLoad is the filter loaded on peers when no --watch element is
// given.
var defaultFilterLoad = wire.NewMsgFilterLoad([]byte{0xb5, 0x0f}, 11, 0, wire.BloomUpdateNone)

func main() {
	cfg, err := parseConfig(os.Args[1:])
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			fmt.Println(err)
			os.Exit(0)
		}
		printErrorAndExit(fmt.Sprintf("error parsing command-line arguments: %s", err))
	}

	logFile, errLogFile := cfg.logFiles()
	if logFile == "" {
		logger.InitLogStdout(logger.LevelTrace)
	} else {
		logger.InitLog(logFile, errLogFile)
	}
	defer logger.BackendLog.Close()
	defer panics.HandlePanic(log, nil)

	err = logger.ParseAndSetLogLevels(cfg.LogLevel)
	if err != nil {
		log.Errorf("%s", err)
		return
	}

	filter, err := newFilter(cfg)
	if err != nil {
		panics.Exit(log, fmt.Sprintf("error building the bloom filter: %s", err))
	}

	log.Infof("Connecting to %d peer(s) on %s", len(cfg.peers), cfg.NetParams().Name)
	dial := cfg.dialer()
	var wg sync.WaitGroup
	for _, address := range cfg.peers {
		address := address
		wg.Add(1)
		spawn(func() {
			defer wg.Done()
			err := handlePeer(cfg, dial, address, filter)
			if err != nil {
				log.Errorf("%s", err)
			}
		})
	}
	wg.Wait()
}

// newFilter builds the bloom filter loaded on every peer from the --watch
// elements, or returns the default filter when there are none.
func newFilter(cfg *configFlags) (*bloom.Filter, error) {
	if len(cfg.watch) == 0 {
		return bloom.LoadFilter(defaultFilterLoad), nil
	}

	tweak, err := random.Uint64()
	if err != nil {
		return nil, err
	}
	filter := bloom.NewFilter(uint32(len(cfg.watch)), uint32(tweak), cfg.FPRate,
		wire.BloomUpdateAll)
	for _, element := range cfg.watch {
		filter.Add(element)
	}
	return filter, nil
}

func handlePeer(cfg *configFlags, dial dialFunc, address string, filter *bloom.Filter) error {
	conn, err := connect(dial, address)
	if err != nil {
		return err
	}
	defer conn.Close()

	return newSession(cfg, conn, address, filter).run()
}

func printErrorAndExit(message string) {
	fmt.Fprintf(os.Stderr, "%s\n", message)
	os.Exit(1)
}
