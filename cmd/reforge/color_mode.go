package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

type colorMode string

const (
	colorModeAuto colorMode = "auto"
	colorModeOn   colorMode = "on"
	colorModeOff  colorMode = "off"
)

func readColorMode(cmd *cobra.Command) (colorMode, error) {
	value, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return "", fmt.Errorf("failed to get color flag: %w", err)
	}
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return colorModeAuto, nil
	case "on":
		return colorModeOn, nil
	case "off":
		return colorModeOff, nil
	default:
		return "", fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
}
