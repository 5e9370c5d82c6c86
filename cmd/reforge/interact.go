package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"reforge/internal/command"
	"reforge/internal/driver"
	"reforge/internal/interact"
	"reforge/internal/project"
	"reforge/internal/trace"
)

var interactCmd = &cobra.Command{
	Use:   "interact [backend] -- file.rf...",
	Short: "Serve an interactive refactoring session over stdio",
	Long: `Interact speaks a request/reply protocol on stdin/stdout: an editor
adds marks to syntax nodes, runs refactoring commands against them, and
receives regenerated file text back. Files the editor announces as open
are read from its live buffers instead of disk.`,
	Args: cobra.ArbitraryArgs,
	RunE: runInteract,
}

func init() {
	interactCmd.Flags().Bool("no-cache", false, "disable the on-disk parse cache")
	interactCmd.Flags().Int("jobs", 0, "parallel file loads (0 = GOMAXPROCS)")
}

func runInteract(cmd *cobra.Command, args []string) error {
	backendName, compilerArgs, err := splitInteractArgs(cmd, args)
	if err != nil {
		return err
	}

	manifest, haveManifest, err := project.Load(".")
	if err != nil {
		return err
	}
	if backendName == "" && haveManifest {
		backendName = manifest.Config.Interact.Backend
	}
	if len(compilerArgs) == 0 && haveManifest {
		compilerArgs = manifest.InteractArgs()
	}
	if len(compilerArgs) == 0 {
		return fmt.Errorf("no input files: pass them after --, or set [interact].args in reforge.toml")
	}

	tracer, cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	opts, err := buildDriverOptions(cmd, tracer)
	if err != nil {
		return err
	}

	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if !quiet {
		name := backendName
		if name == "" {
			name = "plain"
		}
		fmt.Fprintf(os.Stderr, "reforge: interactive session, backend=%s, files=%d\n",
			name, len(compilerArgs))
	}

	return interact.Interact(interact.Config{
		Backend:      backendName,
		CompilerArgs: compilerArgs,
		Registry:     command.DefaultRegistry(),
		In:           os.Stdin,
		Out:          os.Stdout,
		Tracer:       tracer,
		Driver:       opts,
	})
}

// splitInteractArgs separates the optional backend name from the compiler
// arguments after the -- separator.
func splitInteractArgs(cmd *cobra.Command, args []string) (backend string, compilerArgs []string, err error) {
	at := cmd.ArgsLenAtDash()
	pre := args
	if at >= 0 {
		pre = args[:at]
		compilerArgs = args[at:]
	}
	switch len(pre) {
	case 0:
	case 1:
		backend = pre[0]
	default:
		return "", nil, fmt.Errorf("at most one backend name before --, got %d arguments", len(pre))
	}
	return backend, compilerArgs, nil
}

func buildDriverOptions(cmd *cobra.Command, tracer trace.Tracer) (*driver.Options, error) {
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return nil, fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return nil, fmt.Errorf("failed to get jobs flag: %w", err)
	}

	opts := &driver.Options{
		Tracer:         tracer,
		MaxDiagnostics: maxDiagnostics,
		Jobs:           jobs,
	}
	if !noCache {
		cache, err := driver.OpenDiskCache("reforge")
		if err == nil {
			opts.Cache = cache
		}
		// A cache that fails to open just means cold parses.
	}
	return opts, nil
}
