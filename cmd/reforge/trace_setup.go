package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"reforge/internal/trace"
)

// setupTracing builds a tracer from the persistent trace flags. The cleanup
// function flushes and closes it.
func setupTracing(cmd *cobra.Command) (trace.Tracer, func(), error) {
	root := cmd.Root()

	output, err := root.PersistentFlags().GetString("trace")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := root.PersistentFlags().GetString("trace-level")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get trace-level flag: %w", err)
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid trace level: %w", err)
	}
	if level == trace.LevelOff {
		return trace.Nop, func() {}, nil
	}

	switch output {
	case "", "stderr":
		tracer := trace.NewStreamTracer(os.Stderr, level)
		return tracer, func() { tracer.Flush() }, nil
	default:
		f, err := os.Create(output)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open trace output: %w", err)
		}
		tracer := trace.NewStreamTracer(f, level)
		return tracer, func() {
			tracer.Close()
			f.Close()
		}, nil
	}
}
