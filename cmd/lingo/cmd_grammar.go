package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/spf13/cobra"
	"golang.org/x/exp/ebnf"

	"github.com/dhamidi/lingo/expr"
)

func newGrammarCmd(a *app) *cobra.Command {
	var verify bool
	var disasm bool
	var start string

	cmd := &cobra.Command{
		Use:   "grammar",
		Short: "Print the expression grammar as EBNF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g := expr.Grammar()
			target := g.Start()
			if start != "" {
				if target = g.Lookup(start); target == nil {
					return fmt.Errorf("unknown start production: %s", start)
				}
			}

			out := cmd.OutOrStdout()
			if disasm {
				if err := g.Disassemble(out); err != nil {
					return fmt.Errorf("disassemble: %w", err)
				}
				return nil
			}
			if err := g.WriteEBNF(out, target); err != nil {
				return fmt.Errorf("write ebnf: %w", err)
			}
			if verify {
				if err := g.Verify(target); err != nil {
					printErrors(cmd.ErrOrStderr(), err)
					return errReported
				}
				a.logger.Info("grammar verified", "start", target.Name(), "productions", len(g.Productions()))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&verify, "verify", false, "check the printed grammar with x/exp/ebnf")
	cmd.Flags().BoolVar(&disasm, "disasm", false, "print the compiled bytecode instead")
	cmd.Flags().StringVar(&start, "start", "", "production to start from (default Document)")

	cmd.AddCommand(newGrammarCheckCmd())

	return cmd
}

func newGrammarCheckCmd() *cobra.Command {
	var startProduction string

	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Parse and verify an EBNF grammar file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]

			f, err := os.Open(filename)
			if err != nil {
				return fmt.Errorf("open file: %w", err)
			}
			defer f.Close()

			grammar, err := ebnf.Parse(filename, f)
			if err != nil {
				printErrors(cmd.ErrOrStderr(), err)
				return errReported
			}

			if startProduction == "" {
				return nil
			}
			if err := ebnf.Verify(grammar, startProduction); err != nil {
				printErrors(cmd.ErrOrStderr(), err)
				return errReported
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&startProduction, "start", "", "start production for verification (if empty, only checks syntax)")

	return cmd
}

// printErrors prints one line per error of the error lists x/exp/ebnf
// returns, looking through wrapping.
func printErrors(w io.Writer, err error) {
	for e := err; e != nil; e = errors.Unwrap(e) {
		v := reflect.ValueOf(e)
		if v.Kind() == reflect.Slice {
			for i := 0; i < v.Len(); i++ {
				fmt.Fprintln(w, v.Index(i).Interface())
			}
			return
		}
	}
	fmt.Fprintln(w, err)
}
