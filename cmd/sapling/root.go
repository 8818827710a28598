package main

import (
	"log"

	"github.com/pkg/errors"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/phanxgames/sapling"
)

// rootOptions holds global flags for all commands.
type rootOptions struct {
	ConfigPath string
	Profile    string // "none" | "cpu" | "mem"
	Verbose    bool

	cfg      sapling.RunConfig
	profiler interface{ Stop() }
}

// validProfiles defines the allowed profile modes.
var validProfiles = []string{"none", "cpu", "mem"}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "sapling",
		Short:         "sapling - hierarchical transforms and joint hierarchies",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.profiler != nil {
				opts.profiler.Stop()
			}
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "YAML run config file")
	cmd.PersistentFlags().StringVar(&opts.Profile, "profile", "none", "profile mode (none|cpu|mem)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(newRunCommand(opts))
	cmd.AddCommand(newBenchCommand(opts))
	cmd.AddCommand(newDumpCommand(opts))

	return cmd
}

func (o *rootOptions) setup() error {
	cfg := sapling.DefaultRunConfig()
	if o.ConfigPath != "" {
		var err error
		if cfg, err = sapling.LoadRunConfig(o.ConfigPath); err != nil {
			return err
		}
	}
	o.cfg = cfg

	switch o.Profile {
	case "none":
	case "cpu":
		o.profiler = profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
	case "mem":
		o.profiler = profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	default:
		return errors.Errorf("invalid profile %q: must be one of %v", o.Profile, validProfiles)
	}

	if o.Verbose {
		log.Printf("config: %+v", o.cfg)
	}
	return nil
}

func (o *rootOptions) logf(format string, args ...any) {
	if o.Verbose {
		log.Printf(format, args...)
	}
}
