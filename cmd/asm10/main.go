package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/oisee/asm10/internal/config"
	"github.com/oisee/asm10/pkg/translate"
	"github.com/oisee/asm10/pkg/word"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "asm10",
		Short: "Two-pass assembler for the 10-bit educational word machine",
	}

	var configPath string
	var keepAM bool
	var verbose bool

	buildCmd := &cobra.Command{
		Use:   "build BASENAME [BASENAME ...]",
		Short: "Assemble BASENAME.as into .ob/.ent/.ext",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if keepAM {
				cfg.KeepAMOnError = true
			}
			if verbose {
				cfg.Verbose = true
			}

			failures := 0
			for _, basename := range args {
				if err := buildOne(basename, cfg); err != nil {
					fmt.Fprintf(os.Stderr, "%s: %v\n", basename, err)
					failures++
				}
			}
			if failures > 0 {
				return fmt.Errorf("%d of %d file(s) failed to assemble", failures, len(args))
			}
			return nil
		},
	}
	buildCmd.Flags().StringVar(&configPath, "config", "asm10.toml", "Path to run configuration")
	buildCmd.Flags().BoolVar(&keepAM, "keep-am", false, "Keep the .am file even when assembly fails")
	buildCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print per-file diagnostics even on success")

	checkCmd := &cobra.Command{
		Use:   "check BASENAME [BASENAME ...]",
		Short: "Assemble BASENAME.as and report the result; on success .ob/.ent/.ext are written as by build",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failures := 0
			for _, basename := range args {
				summary, err := translate.ProcessFile(basename, translate.Options{KeepAMOnError: true})
				if err != nil {
					fmt.Fprintf(os.Stderr, "%s: %v\n", basename, err)
					failures++
					continue
				}
				printDiagnostics(basename, summary, false)
				if !summary.Success {
					failures++
				} else {
					fmt.Printf("%s: OK (%d instruction words, %d data words, %d symbols)\n",
						basename, summary.InstructionWords, summary.DataWords, summary.Symbols)
				}
			}
			if failures > 0 {
				return fmt.Errorf("%d of %d file(s) failed to parse", failures, len(args))
			}
			return nil
		},
	}

	var dumpLimit int
	dumpCmd := &cobra.Command{
		Use:   "dump FILE.ob",
		Short: "Dump an object file's header and words in base-4 and decoded bits",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return dumpObjectFile(args[0], dumpLimit)
		},
	}
	dumpCmd.Flags().IntVar(&dumpLimit, "limit", 0, "Maximum number of words to print (0 = all)")

	rootCmd.AddCommand(buildCmd, checkCmd, dumpCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func buildOne(basename string, cfg config.Config) error {
	if cfg.Verbose {
		fmt.Printf("%s: assembling...\n", basename)
	}
	summary, err := translate.ProcessFile(basename, translate.Options{
		KeepAMOnError: cfg.KeepAMOnError,
		OutputDir:     cfg.OutputDir,
	})
	if err != nil {
		return err
	}
	printDiagnostics(basename, summary, cfg.Verbose)
	if !summary.Success {
		return fmt.Errorf("assembly failed (%d diagnostic(s))", len(summary.Diagnostics))
	}
	fmt.Printf("%s: assembled %d instruction word(s), %d data word(s), %d symbol(s)\n",
		basename, summary.InstructionWords, summary.DataWords, summary.Symbols)
	return nil
}

// printDiagnostics always prints fatal diagnostics. Warnings are non-fatal,
// so by default they're only worth the noise when something already failed;
// verbose mode prints them on a clean build too.
func printDiagnostics(basename string, summary *translate.Summary, verbose bool) {
	for _, d := range summary.Diagnostics {
		fmt.Fprintf(os.Stderr, "%s: %s\n", basename, d)
	}
	if verbose || !summary.Success {
		for _, d := range summary.Warnings {
			fmt.Fprintf(os.Stderr, "%s: warning: %s\n", basename, d)
		}
	}
}

// dumpObjectFile reads back an .ob file produced by this assembler and
// prints each line's address/word pair alongside the decoded 10-bit value.
func dumpObjectFile(path string, limit int) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) == 0 {
		return fmt.Errorf("%s is empty", path)
	}

	header := strings.Fields(lines[0])
	if len(header) != 2 {
		return fmt.Errorf("%s: malformed header %q", path, lines[0])
	}
	icf, err := word.DecodeBase4(header[0])
	if err != nil {
		return fmt.Errorf("%s: header ICF: %w", path, err)
	}
	dcf, err := word.DecodeBase4(header[1])
	if err != nil {
		return fmt.Errorf("%s: header DCF: %w", path, err)
	}
	fmt.Printf("ICF=%d DCF=%d\n", icf, dcf)

	count := 0
	for _, line := range lines[1:] {
		fields := strings.Fields(line)
		if len(fields) != 2 {
			continue
		}
		addr, err := word.DecodeBase4(fields[0])
		if err != nil {
			return fmt.Errorf("%s: address %q: %w", path, fields[0], err)
		}
		bits, err := word.DecodeBase4(fields[1])
		if err != nil {
			return fmt.Errorf("%s: word %q: %w", path, fields[1], err)
		}
		fmt.Printf("%4d: %s -> %010b\n", addr, fields[1], bits)
		count++
		if limit > 0 && count >= limit {
			fmt.Println("...")
			break
		}
	}
	return nil
}
