package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/symcheck/internal/config"
	"github.com/OpenTraceLab/symcheck/internal/logging"
	"github.com/OpenTraceLab/symcheck/pkg/kicad/symlib"
	"github.com/OpenTraceLab/symcheck/pkg/kicad/symlib/report"
)

// ErrIncomplete is returned in strict mode when any library needs work
var ErrIncomplete = errors.New("one or more libraries are incomplete")

type options struct {
	configPath string
	path       string
	format     string
	ascii      bool
	strict     bool
	verbose    bool
}

// NewRootCmd builds the symcheck command
func NewRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "symcheck -p <directory>",
		Short: "Check KiCad symbol libraries for required fields and visibility",
		Long: `symcheck scans a directory tree for KiCad symbol libraries (.kicad_sym)
and checks every component for the required metadata fields, disallowed
extra fields and the field visibility policy:

  required:  Reference, Value, Footprint, Description, Package,
             Manufacturer, Manufacturer Part Number, Datasheet
  optional:  ki_keywords, ki_fp_filters, ki_description
  visible:   Reference, Value (every other required field must be hidden)

Examples:
  symcheck -p ./libraries                  # Tables for every library
  symcheck -p ./libraries --format json    # Machine readable report
  symcheck -p ./libraries --strict         # Exit 1 if anything needs work`,
		Version:       "1.0.0",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.path, "path", "p", "",
		"directory containing the KiCad symbol libraries (.kicad_sym)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", report.FormatTable,
		"output format: table or json")
	cmd.Flags().BoolVar(&opts.ascii, "ascii", false,
		"use ok/FAIL instead of emoji marks in tables")
	cmd.Flags().BoolVar(&opts.strict, "strict", false,
		"exit with an error when any library is incomplete or fails to parse")
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "",
		"YAML configuration file")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")

	return cmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// resolveConfig layers command-line flags over the file and environment
func resolveConfig(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("path") {
		cfg.Path = opts.path
	}
	if flags.Changed("format") {
		cfg.Format = opts.format
	}
	if flags.Changed("ascii") {
		cfg.ASCII = opts.ascii
	}
	if flags.Changed("strict") {
		cfg.Strict = opts.strict
	}
	if opts.verbose {
		cfg.Log.Level = "debug"
	}

	if cfg.Path == "" {
		return nil, errors.New(`required flag(s) "path" not set`)
	}

	return cfg, config.Validate(cfg)
}

func runCheck(cmd *cobra.Command, opts *options) error {
	cfg, err := resolveConfig(cmd, opts)
	if err != nil {
		return err
	}

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}

	renderer, err := report.New(cfg.Format, cmd.OutOrStdout(), report.Options{ASCII: cfg.ASCII})
	if err != nil {
		return err
	}

	scanner := symlib.NewScanner(symlib.DefaultSchema(), logger)
	results, err := scanner.ScanDirectory(cfg.Path)
	if err != nil {
		return err
	}

	if err := renderer.Render(scanner.Schema(), results); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if cfg.Strict && !results.Complete() {
		return ErrIncomplete
	}

	return nil
}
