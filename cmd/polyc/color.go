package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

type toggle string

const (
	toggleAuto toggle = "auto"
	toggleOn   toggle = "on"
	toggleOff  toggle = "off"
)

func readToggle(flag, value string) (toggle, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return toggleAuto, nil
	case "on", "true", "always":
		return toggleOn, nil
	case "off", "false", "never":
		return toggleOff, nil
	default:
		return "", fmt.Errorf("invalid --%s value %q (expected auto|on|off)", flag, value)
	}
}

// resolve превращает auto в решение по tty.
func (t toggle) resolve(f *os.File) bool {
	switch t {
	case toggleOn:
		return true
	case toggleOff:
		return false
	default:
		return isTerminal(f)
	}
}

func useColor(cmd *cobra.Command, f *os.File) (bool, error) {
	value, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	mode, err := readToggle("color", value)
	if err != nil {
		return false, err
	}
	if mode == toggleAuto && os.Getenv("NO_COLOR") != "" {
		return false, nil
	}
	return mode.resolve(f), nil
}
