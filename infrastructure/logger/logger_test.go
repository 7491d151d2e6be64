package logger

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type bufferWriteCloser struct {
	bytes.Buffer
	closed bool
}

func (b *bufferWriteCloser) Close() error {
	b.closed = true
	return nil
}

func TestBackendLevels(t *testing.T) {
	backend := NewBackendWithFlags(0)
	all := &bufferWriteCloser{}
	warnings := &bufferWriteCloser{}
	err := backend.AddLogWriter(all, LevelTrace)
	if err != nil {
		t.Fatalf("AddLogWriter: %s", err)
	}
	err = backend.AddLogWriter(warnings, LevelWarn)
	if err != nil {
		t.Fatalf("AddLogWriter: %s", err)
	}

	log := backend.Logger("TEST")
	if log.Level() != LevelOff {
		t.Errorf("Logger: new logger level is %s, want OFF", log.Level())
	}
	log.SetLevel(LevelDebug)

	// Nothing is written before the backend runs.
	log.Infof("dropped")

	err = backend.Run()
	if err != nil {
		t.Fatalf("Run: %s", err)
	}
	if err := backend.Run(); err == nil {
		t.Errorf("Run: expected an error when already running")
	}
	if err := backend.AddLogWriter(&bufferWriteCloser{}, LevelInfo); err == nil {
		t.Errorf("AddLogWriter: expected an error when already running")
	}

	log.Tracef("below level %d", 1)
	log.Debugf("sent %s", "verack")
	log.Warn("unexpected", "command")
	backend.Close()

	if !all.closed || !warnings.closed {
		t.Errorf("Close: writers weren't closed")
	}

	allLines := strings.Split(strings.TrimSpace(all.String()), "\n")
	if len(allLines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(allLines), all.String())
	}
	if !strings.HasSuffix(allLines[0], "[DBG] TEST: sent verack") {
		t.Errorf("unexpected line %q", allLines[0])
	}
	if !strings.HasSuffix(allLines[1], "[WRN] TEST: unexpected command") {
		t.Errorf("unexpected line %q", allLines[1])
	}

	warningLines := strings.Split(strings.TrimSpace(warnings.String()), "\n")
	if len(warningLines) != 1 || !strings.Contains(warningLines[0], "[WRN]") {
		t.Errorf("warning writer got %q", warnings.String())
	}
	if strings.Contains(all.String(), "dropped") {
		t.Errorf("a line written before Run reached the writer")
	}
}

func TestLevelFromString(t *testing.T) {
	tests := []struct {
		in     string
		want   Level
		wantOK bool
	}{
		{"trace", LevelTrace, true},
		{"DBG", LevelDebug, true},
		{"info", LevelInfo, true},
		{"Warn", LevelWarn, true},
		{"err", LevelError, true},
		{"critical", LevelCritical, true},
		{"off", LevelOff, true},
		{"verbose", LevelInfo, false},
	}

	for _, test := range tests {
		got, ok := LevelFromString(test.in)
		if got != test.want || ok != test.wantOK {
			t.Errorf("LevelFromString(%q): got (%s, %t), want (%s, %t)",
				test.in, got, ok, test.want, test.wantOK)
		}
	}
}

func TestParseAndSetLogLevels(t *testing.T) {
	wire := RegisterSubSystem("TWIR")
	peer := RegisterSubSystem("TPER")
	if RegisterSubSystem("TWIR") != wire {
		t.Fatalf("RegisterSubSystem: got a new logger for an existing subsystem")
	}
	if wire.Level() != LevelInfo {
		t.Errorf("RegisterSubSystem: got level %s, want INF", wire.Level())
	}

	err := ParseAndSetLogLevels("debug")
	if err != nil {
		t.Fatalf("ParseAndSetLogLevels: %s", err)
	}
	if wire.Level() != LevelDebug || peer.Level() != LevelDebug {
		t.Errorf("ParseAndSetLogLevels: levels are %s and %s, want DBG",
			wire.Level(), peer.Level())
	}

	err = ParseAndSetLogLevels("TWIR=trace,TPER=error")
	if err != nil {
		t.Fatalf("ParseAndSetLogLevels: %s", err)
	}
	if wire.Level() != LevelTrace || peer.Level() != LevelError {
		t.Errorf("ParseAndSetLogLevels: levels are %s and %s, want TRC and ERR",
			wire.Level(), peer.Level())
	}

	for _, invalid := range []string{"loud", "TWIR=loud", "NOPE=info", "TWIR=info,TPER"} {
		if err := ParseAndSetLogLevels(invalid); err == nil {
			t.Errorf("ParseAndSetLogLevels(%q): expected an error", invalid)
		}
	}
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		in   Level
		want string
	}{
		{LevelTrace, "TRC"},
		{LevelWarn, "WRN"},
		{LevelCritical, "CRT"},
		{LevelOff, "OFF"},
		{LevelOff + 3, "OFF"},
	}

	for _, test := range tests {
		if got := test.in.String(); got != test.want {
			t.Errorf("Level(%d).String: got %s, want %s", uint32(test.in), got,
				test.want)
		}
	}
}

func TestAddLogFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "logger")
	if err != nil {
		t.Fatalf("TempDir: %s", err)
	}
	defer os.RemoveAll(dir)

	backend := NewBackendWithFlags(0)
	logFile := filepath.Join(dir, "nested", "test.log")
	err = backend.AddLogFile(logFile, LevelInfo)
	if err != nil {
		t.Fatalf("AddLogFile: %s", err)
	}
	log := backend.Logger("FILE")
	log.SetLevel(LevelInfo)

	err = backend.Run()
	if err != nil {
		t.Fatalf("Run: %s", err)
	}
	if err := backend.AddLogFile(logFile, LevelInfo); err == nil {
		t.Errorf("AddLogFile: expected an error when already running")
	}
	log.Infof("sent %s", "version")
	backend.Close()

	content, err := ioutil.ReadFile(logFile)
	if err != nil {
		t.Fatalf("ReadFile: %s", err)
	}
	if !strings.Contains(string(content), "[INF] FILE: sent version") {
		t.Errorf("log file content %q", content)
	}
}
