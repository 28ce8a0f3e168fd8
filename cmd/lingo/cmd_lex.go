package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/lingo/format"
	"github.com/dhamidi/lingo/internal/logging"
	"github.com/dhamidi/lingo/lex"
	"github.com/dhamidi/lingo/term"
)

func newLexCmd(a *app) *cobra.Command {
	var trivia bool

	cmd := &cobra.Command{
		Use:   "lex <file>",
		Short: "Print the terms of a source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(cmd, args[0])
			if err != nil {
				return err
			}
			doc := lex.Scan(src, nil)

			enc := format.NewTermEncoder(cmd.OutOrStdout())
			enc.Trivia = trivia
			if err := enc.Encode(doc); err != nil {
				return fmt.Errorf("encode terms: %w", err)
			}

			unrecognized := 0
			for i := 0; i < doc.Terms.Len(); i++ {
				if doc.Terms.Kind(i) == term.Unrecognized {
					unrecognized++
				}
			}
			a.logger.Debug("scanned", logging.FieldPath, args[0], logging.FieldTerms, doc.Terms.Len(), "unrecognized", unrecognized)
			return nil
		},
	}

	cmd.Flags().BoolVar(&trivia, "trivia", true, "include whitespace, newlines and comments")

	return cmd
}
