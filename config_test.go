package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nalgeon/be"
)

func TestParseColorMode(t *testing.T) {
	tests := []struct {
		in   string
		want ColorMode
	}{
		{"", ColorAuto},
		{"auto", ColorAuto},
		{"always", ColorAlways},
		{"never", ColorNever},
	}
	for _, tt := range tests {
		got, err := ParseColorMode(tt.in)
		be.Err(t, err, nil)
		be.Equal(t, got, tt.want)
	}

	_, err := ParseColorMode("sometimes")
	be.Err(t, err, `invalid color mode "sometimes" (want auto, always or never)`)
}

func TestColorModeString(t *testing.T) {
	be.Equal(t, ColorAuto.String(), "auto")
	be.Equal(t, ColorAlways.String(), "always")
	be.Equal(t, ColorNever.String(), "never")
}

func TestNewConfig(t *testing.T) {
	cfg, err := newConfig("always", false, "", "/home/lark", true)
	be.Err(t, err, nil)
	be.Equal(t, cfg.Color, ColorAlways)
	be.Equal(t, cfg.HistoryFile, filepath.Join("/home/lark", ".lark_history"))
	be.True(t, cfg.Verbose)

	cfg, err = newConfig("always", true, "/tmp/h", "/home/lark", false)
	be.Err(t, err, nil)
	be.Equal(t, cfg.Color, ColorNever)
	be.Equal(t, cfg.HistoryFile, "/tmp/h")

	cfg, err = newConfig("auto", false, "", "", false)
	be.Err(t, err, nil)
	be.Equal(t, cfg.HistoryFile, "")

	_, err = newConfig("blue", false, "", "", false)
	be.Err(t, err, "LARK_COLOR: invalid color mode")
}

func TestUseColor(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	be.Err(t, err, nil)
	defer f.Close()

	be.True(t, Config{Color: ColorAlways}.UseColor(f))
	be.True(t, !Config{Color: ColorNever}.UseColor(f))
	// A regular file is never a terminal.
	be.True(t, !Config{Color: ColorAuto}.UseColor(f))
}
