package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xyproto/env/v2"
)

// ColorMode selects when diagnostics are colored.
type ColorMode int

const (
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

func (m ColorMode) String() string {
	switch m {
	case ColorAlways:
		return "always"
	case ColorNever:
		return "never"
	default:
		return "auto"
	}
}

func ParseColorMode(s string) (ColorMode, error) {
	switch s {
	case "", "auto":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	default:
		return ColorAuto, fmt.Errorf("invalid color mode %q (want auto, always or never)", s)
	}
}

// Config holds the settings read from the environment.
type Config struct {
	Color       ColorMode
	HistoryFile string
	Verbose     bool
}

const historyFileName = ".lark_history"

// LoadConfig reads LARK_COLOR, NO_COLOR, LARK_HISTORY and LARK_VERBOSE.
func LoadConfig() (Config, error) {
	return newConfig(
		env.Str("LARK_COLOR", "auto"),
		env.Has("NO_COLOR"),
		env.Str("LARK_HISTORY"),
		env.Str("HOME"),
		env.Bool("LARK_VERBOSE"),
	)
}

func newConfig(color string, noColor bool, history, home string, verbose bool) (Config, error) {
	mode, err := ParseColorMode(color)
	if err != nil {
		return Config{}, fmt.Errorf("LARK_COLOR: %w", err)
	}
	if noColor {
		mode = ColorNever
	}
	if history == "" && home != "" {
		history = filepath.Join(home, historyFileName)
	}
	return Config{Color: mode, HistoryFile: history, Verbose: verbose}, nil
}

// UseColor reports whether output written to f should be colored.
func (c Config) UseColor(f *os.File) bool {
	switch c.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return isTerminal(f.Fd())
	}
}
