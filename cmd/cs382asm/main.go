// Command cs382asm is the CS382 two-pass assembler's CLI front end:
// lex -> assemble -> encode -> write the v3.0 hex-words-addressed memory
// images, plus the dump-symbols and format supplemented subcommands.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/lookbusy1344/cs382asm/assembler"
	"github.com/lookbusy1344/cs382asm/config"
	"github.com/lookbusy1344/cs382asm/encoder"
	"github.com/lookbusy1344/cs382asm/image"
	"github.com/lookbusy1344/cs382asm/internal/fmtsrc"
	"github.com/lookbusy1344/cs382asm/internal/logging"
	"github.com/lookbusy1344/cs382asm/lexer"
)

var (
	configPath string
	logLevel   string
	logFormat  string
	verbose    bool
)

func main() {
	root := &cobra.Command{
		Use:   "cs382asm",
		Short: "Two-pass assembler for the CS382 instruction set",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a TOML config file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text, json (overrides config)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug-level tracing of pass 1/pass 2 state")

	root.AddCommand(assembleCmd(), dumpSymbolsCmd(), formatCmd())
	root.SilenceErrors = true

	if err := root.Execute(); err != nil {
		logging.New(os.Stderr, "error", logFormat).Error(err.Error())
		os.Exit(1)
	}
}

func assembleCmd() *cobra.Command {
	var outPrefix string
	cmd := &cobra.Command{
		Use:   "assemble <file>",
		Short: "Assemble a CS382 source file into a pair of memory image files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sourcePath := args[0]
			cfg, logger, err := setup()
			if err != nil {
				return err
			}

			src, err := os.ReadFile(sourcePath) // #nosec G304 -- user-specified source path
			if err != nil {
				return fmt.Errorf("reading %s: %w", sourcePath, err)
			}

			toks, err := lexer.TokenizeAll(src)
			if err != nil {
				return err
			}

			a, err := assembler.Assemble(toks, logger)
			if err != nil {
				return err
			}

			textBytes, err := encoder.EncodeAll(a.Instructions)
			if err != nil {
				return err
			}

			prefix := outPrefix
			if prefix == "" {
				prefix = cfg.OutputPrefix(sourcePath)
			}
			if err := image.WriteImages(prefix, a.ConstantPool, a.DataSection, textBytes); err != nil {
				return err
			}

			logger.Info("assembled", "instructions", len(a.Instructions), "symbols", a.Symbols.Len(), "output_prefix", prefix)
			fmt.Printf("wrote %s_data_section.txt and %s_text_section.txt\n", prefix, prefix)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPrefix, "output", "o", "", "output file prefix (default: derived from source filename)")
	return cmd
}

func dumpSymbolsCmd() *cobra.Command {
	var outFile string
	cmd := &cobra.Command{
		Use:   "dump-symbols <file>",
		Short: "Assemble a source file and print its resolved symbol table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sourcePath := args[0]
			_, logger, err := setup()
			if err != nil {
				return err
			}

			src, err := os.ReadFile(sourcePath) // #nosec G304 -- user-specified source path
			if err != nil {
				return fmt.Errorf("reading %s: %w", sourcePath, err)
			}

			toks, err := lexer.TokenizeAll(src)
			if err != nil {
				return err
			}
			a, err := assembler.Assemble(toks, logger)
			if err != nil {
				return err
			}

			var w *os.File = os.Stdout
			if outFile != "" {
				f, err := os.Create(outFile) // #nosec G304 -- user-specified output path
				if err != nil {
					return fmt.Errorf("creating %s: %w", outFile, err)
				}
				defer f.Close()
				w = f
			}
			return dumpSymbolTable(a.Symbols, w)
		},
	}
	cmd.Flags().StringVarP(&outFile, "output", "o", "", "symbol dump output file (default: stdout)")
	return cmd
}

func formatCmd() *cobra.Command {
	var inPlace bool
	cmd := &cobra.Command{
		Use:   "format <file>",
		Short: "Re-tokenize and re-emit a source file with canonical spacing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sourcePath := args[0]
			src, err := os.ReadFile(sourcePath) // #nosec G304 -- user-specified source path
			if err != nil {
				return fmt.Errorf("reading %s: %w", sourcePath, err)
			}

			formatted, err := fmtsrc.Format(src)
			if err != nil {
				return err
			}

			if inPlace {
				return os.WriteFile(sourcePath, formatted, 0o644) // #nosec G306 -- formatting the user's own source file in place
			}
			_, err = os.Stdout.Write(formatted)
			return err
		},
	}
	cmd.Flags().BoolVarP(&inPlace, "write", "w", false, "rewrite the file in place instead of printing to stdout")
	return cmd
}

// setup loads configuration (CLI flags override file/env values) and builds
// the leveled logger shared by the assembler pipeline.
func setup() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}
	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	return cfg, logging.New(os.Stderr, level, cfg.Logging.Format), nil
}

// dumpSymbolTable prints the resolved symbol table (name -> absolute
// address) in a fixed-width table.
func dumpSymbolTable(symbols *assembler.SymbolTable, w *os.File) error {
	names := symbols.Names()
	if len(names) == 0 {
		_, err := fmt.Fprintln(w, "No symbols defined")
		return err
	}

	if _, err := fmt.Fprintln(w, "Symbol Table"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "============"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%-30s %s\n", "Name", "Address"); err != nil {
		return err
	}
	for _, name := range names {
		addr, _ := symbols.Lookup(name)
		if _, err := fmt.Fprintf(w, "%-30s 0x%04X\n", name, addr); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "\nTotal symbols: %d\n", len(names))
	return err
}
