// Command irtool inspects, validates, and converts jsir Programs: it
// reads the textual assembly notation or the binary wire format, runs
// the static validator, and reports the result.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/covfuzz/jsir/asmparse"
	"github.com/covfuzz/jsir/block"
	"github.com/covfuzz/jsir/inspect"
	"github.com/covfuzz/jsir/program"
	"github.com/covfuzz/jsir/wire"
)

const version = "0.1.0"

var log zerolog.Logger

func main() {
	log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).With().Timestamp().Logger()

	root := &cobra.Command{
		Use:     "irtool",
		Short:   "Inspect and validate jsir programs",
		Version: version,
	}

	root.AddCommand(
		newValidateCmd(),
		newNormalizeCmd(),
		newBlocksCmd(),
		newEncodeCmd(),
		newDecodeCmd(),
		newInspectCmd(),
	)

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("irtool failed")
		os.Exit(1)
	}
}

func readAsmFile(path string) (*program.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	code, err := asmparse.Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	p, err := program.New(code)
	if err != nil {
		return nil, fmt.Errorf("validating %s: %w", path, err)
	}
	return p, nil
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file.jsasm>",
		Short: "Run the static validator over an assembly file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := readAsmFile(args[0])
			if err != nil {
				return err
			}
			if err := p.Validate(); err != nil {
				log.Error().Err(err).Str("file", args[0]).Msg("validation failed")
				return err
			}
			log.Info().Str("file", args[0]).Int("instructions", p.Code().Len()).Msg("valid")
			return nil
		},
	}
}

func newNormalizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize <file.jsasm>",
		Short: "Print the normalized (nop-free, renumbered) form of an assembly file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := readAsmFile(args[0])
			if err != nil {
				return err
			}
			fmt.Print(asmparse.Disassemble(p.Code().Normalize()))
			return nil
		},
	}
}

func newBlocksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "blocks <file.jsasm>",
		Short: "List the block groups found in an assembly file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := readAsmFile(args[0])
			if err != nil {
				return err
			}
			if err := p.Validate(); err != nil {
				return err
			}
			idx := block.FindAllBlockGroups(p.Code())
			for i, g := range idx.Groups() {
				fmt.Printf("group %d: head=%d tail=%d blocks=%d\n", i, g.Head(), g.Tail(), len(g.Blocks))
			}
			return nil
		},
	}
}

func newEncodeCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "encode <file.jsasm>",
		Short: "Validate, normalize, and encode an assembly file to the binary wire format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := readAsmFile(args[0])
			if err != nil {
				return err
			}
			if err := p.Validate(); err != nil {
				return err
			}
			normalized, err := program.New(p.Code().Normalize())
			if err != nil {
				return err
			}
			data, err := wire.EncodeProgram(normalized)
			if err != nil {
				return err
			}
			if out == "" {
				out = args[0] + ".jsirbin"
			}
			return os.WriteFile(out, data, 0o644)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default: <input>.jsirbin)")
	return cmd
}

func newDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <file.jsirbin>",
		Short: "Decode and re-validate a binary wire-format program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			p, err := wire.DecodeProgram(data)
			if err != nil {
				return err
			}
			fmt.Print(asmparse.Disassemble(p.Code()))
			return nil
		},
	}
}

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file.jsasm>",
		Short: "Open the interactive instruction viewer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := readAsmFile(args[0])
			if err != nil {
				return err
			}
			return inspect.Start(p)
		},
	}
}
