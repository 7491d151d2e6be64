package panics

import (
	"bytes"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/kaspanet/spvwire/infrastructure/logger"
)

type bufferWriteCloser struct {
	bytes.Buffer
}

func (b *bufferWriteCloser) Close() error {
	return nil
}

func TestGoroutineWrapperFunc(t *testing.T) {
	backend := logger.NewBackendWithFlags(0)
	output := &bufferWriteCloser{}
	err := backend.AddLogWriter(output, logger.LevelTrace)
	if err != nil {
		t.Fatalf("AddLogWriter: %s", err)
	}
	err = backend.Run()
	if err != nil {
		t.Fatalf("Run: %s", err)
	}
	log := backend.Logger("TEST")
	log.SetLevel(logger.LevelInfo)

	var wg sync.WaitGroup
	wg.Add(1)
	var exitCode int
	osExit = func(code int) {
		exitCode = code
		wg.Done()
	}
	defer func() { osExit = os.Exit }()

	spawn := GoroutineWrapperFunc(log)
	spawn(func() {
		panic("payload decoder failed")
	})
	wg.Wait()

	if exitCode != 1 {
		t.Errorf("exit code %d, want 1", exitCode)
	}
	if !strings.Contains(output.String(), "[CRT] TEST: Exiting: Fatal error: payload decoder failed") {
		t.Errorf("panic wasn't logged, got %q", output.String())
	}
}
