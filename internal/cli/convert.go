package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/toparity/pkg/pipeline"
)

// convertOpts holds the command-line flags for the convert command.
type convertOpts struct {
	output      string // output file, base path, or directory for several inputs
	formats     string // comma-separated output formats
	inputFormat string // hoa, json or auto
	pretty      bool
	cleanup     bool
	simplify    bool
	detailed    bool
	maxSets     int
	maxStates   int
	parallel    int
	noCache     bool
	refresh     bool
}

// convertCommand creates the convert command.
func (c *CLI) convertCommand() *cobra.Command {
	var opts convertOpts

	cmd := &cobra.Command{
		Use:   "convert [file...]",
		Short: "Convert automata to parity automata",
		Long: `Convert automata to equivalent automata with a parity max even acceptance
condition. Inputs are HOA or JSON files ("-" reads stdin).

With a single input and a single format the result is written to stdout
unless -o is given. Otherwise each format is written next to the input as
<name>.parity.<format>, or into the directory given with -o.`,
		Example: `  toparity convert gba.hoa
  toparity convert gba.hoa -f hoa,svg --pretty -o out/gba
  toparity convert *.hoa -o results/ -j 8`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConvert(cmd, args, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "output file, base path (several formats) or directory (several inputs)")
	f.StringVarP(&opts.formats, "format", "f", "", "output format(s): hoa, json, dot, svg, pdf, png (comma-separated)")
	f.StringVar(&opts.inputFormat, "input-format", pipeline.FormatAuto, "input format: auto, hoa, json")
	f.BoolVar(&opts.pretty, "pretty", false, "name output states after their source state and record")
	f.BoolVar(&opts.cleanup, "cleanup", false, "remove irrelevant acceptance sets first")
	f.BoolVar(&opts.simplify, "simplify", false, "simplify the acceptance condition first (implies --cleanup)")
	f.BoolVar(&opts.detailed, "detailed", false, "show state names and acceptance in drawings")
	f.IntVar(&opts.maxSets, "max-sets", 0, "refuse inputs with more acceptance sets")
	f.IntVar(&opts.maxStates, "max-states", 0, "stop after this many output states (0 = no limit)")
	f.IntVarP(&opts.parallel, "parallel", "j", 0, "number of concurrent conversions")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	f.BoolVar(&opts.refresh, "refresh", false, "recompute even when cached")

	return cmd
}

// pipelineOptions merges flags with the configuration: flags given on the
// command line win over config values.
func (c *CLI) pipelineOptions(flags *pflag.FlagSet, opts convertOpts) pipeline.Options {
	cfg := c.Config.Convert
	pick := func(name string, flag, conf bool) bool {
		if flags.Changed(name) {
			return flag
		}
		return conf
	}
	pickInt := func(name string, flag, conf int) int {
		if flags.Changed(name) {
			return flag
		}
		return conf
	}

	return pipeline.Options{
		InputFormat: opts.inputFormat,
		Formats:     parseFormats(opts.formats, cfg.Formats),
		PrettyPrint: pick("pretty", opts.pretty, cfg.Pretty),
		Cleanup:     pick("cleanup", opts.cleanup, cfg.Cleanup),
		Simplify:    pick("simplify", opts.simplify, cfg.Simplify),
		Detailed:    pick("detailed", opts.detailed, cfg.Detailed),
		MaxSets:     pickInt("max-sets", opts.maxSets, cfg.MaxSets),
		MaxStates:   pickInt("max-states", opts.maxStates, cfg.MaxStates),
		Refresh:     opts.refresh,
		Logger:      c.Logger,
	}
}

func (c *CLI) runConvert(cmd *cobra.Command, args []string, opts convertOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	popts := c.pipelineOptions(cmd.Flags(), opts)
	if err := popts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	parallel := opts.parallel
	if !cmd.Flags().Changed("parallel") {
		parallel = c.Config.Convert.Parallel
	}

	inputs := make([]pipeline.Input, len(args))
	for i, path := range args {
		data, err := readInput(path)
		if err != nil {
			return err
		}
		inputs[i] = pipeline.Input{Name: path, Data: data}
	}

	runner := c.newRunner(ctx, opts.noCache)
	defer runner.Close()

	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Converting %d automata...", len(inputs)))
	spinner.Start()
	results, convErr := runner.ConvertAll(ctx, inputs, popts, parallel)
	spinner.Stop()

	multi := len(inputs) > 1
	for i, res := range results {
		if res == nil {
			continue
		}
		paths := outputPaths(inputs[i].Name, opts.output, popts.Formats, multi)
		if err := writeArtifacts(cmd.OutOrStdout(), res.Artifacts, popts.Formats, paths); err != nil {
			return err
		}
		if paths[popts.Formats[0]] == "" {
			continue
		}
		printSuccess("Converted %s", inputs[i].Name)
		printStats(res.Stats, res.CacheHit)
		for _, format := range popts.Formats {
			printFile(paths[format])
		}
	}

	if convErr != nil {
		return convErr
	}
	if multi {
		prog.done(fmt.Sprintf("Converted %d automata", len(inputs)))
	}
	return nil
}

// outputPaths decides where each format of one input is written. An empty
// path means stdout, used only for a single input with a single format and
// no -o flag.
func outputPaths(input, output string, formats []string, multi bool) map[string]string {
	paths := make(map[string]string, len(formats))
	if !multi && len(formats) == 1 && output == "" {
		paths[formats[0]] = ""
		return paths
	}
	if !multi && len(formats) == 1 {
		paths[formats[0]] = output
		return paths
	}

	stem := "automaton"
	if input != "-" {
		stem = strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	}
	var base string
	switch {
	case multi && output != "":
		base = filepath.Join(output, stem+".parity")
	case multi || output == "":
		base = filepath.Join(filepath.Dir(input), stem+".parity")
		if input == "-" {
			base = stem + ".parity"
		}
	default:
		base = strings.TrimSuffix(output, filepath.Ext(output))
	}
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

// writeArtifacts writes each artifact to its path, or to stdout for "".
func writeArtifacts(stdout io.Writer, artifacts map[string][]byte, formats []string, paths map[string]string) error {
	for _, format := range formats {
		data := artifacts[format]
		path := paths[format]
		if path == "" {
			if _, err := stdout.Write(data); err != nil {
				return err
			}
			continue
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}
