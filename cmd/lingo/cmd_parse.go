package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/lingo/expr"
	"github.com/dhamidi/lingo/format"
	"github.com/dhamidi/lingo/internal/logging"
	"github.com/dhamidi/lingo/internal/ui/pretty"
	"github.com/dhamidi/lingo/lex"
	"github.com/dhamidi/lingo/parse"
)

func newParseCmd(a *app) *cobra.Command {
	var outputFormat string
	var start string
	var trace bool

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a source file and print the result",
		Long: `Parse a source file with the expression grammar.

Formats:
  dump         parenthesized expressions, one statement per line
  json         syntax tree as JSON
  pretty       syntax tree with every field
  tree         production tree as JSON
  productions  production stream, one entry per line`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			src, err := readSource(cmd, path)
			if err != nil {
				return err
			}

			if start == "" {
				start = a.cfg.Start
			}
			g := expr.Grammar()
			target := g.Lookup(start)
			if target == nil {
				return fmt.Errorf("unknown start production: %s", start)
			}

			opts := []parse.Option{parse.WithLogger(a.logger)}
			if trace || a.cfg.Trace {
				opts = append(opts, parse.WithTrace())
			}

			doc := lex.Scan(src, nil)
			r := parse.Parse(g, doc.Terms, target, opts...)
			if !r.OK() {
				a.report(cmd, path, doc, r.Diagnose(doc.Lines, doc.Source))
				if outputFormat == "tree" {
					format.WriteFail(cmd.ErrOrStderr(), r)
				}
				return errReported
			}

			out := cmd.OutOrStdout()
			switch outputFormat {
			case "productions":
				return encode(format.NewProductionEncoder(out), doc, r)
			case "tree":
				return encode(format.NewTreeEncoder(out), doc, r)
			}

			node, ok := r.Construct(doc).(expr.Node)
			if !ok {
				return fmt.Errorf("production %s does not build a syntax tree", start)
			}
			if err := expr.CheckTags(doc, node); err != nil {
				var serr *expr.SyntaxError
				if errors.As(err, &serr) {
					a.report(cmd, path, doc, serr.Diagnostic)
					return errReported
				}
				return err
			}

			switch outputFormat {
			case "dump":
				_, err = fmt.Fprintln(out, expr.Dump(node))
			case "json":
				err = format.NewASTJSONEncoder(out, doc.Lines).Encode(node)
			case "pretty":
				err = format.NewPrettyEncoder(out).Encode(node)
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}
			if err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "dump", "output format (dump, json, pretty, tree, productions)")
	cmd.Flags().StringVar(&start, "start", "", "production to parse (default from config, Document)")
	cmd.Flags().BoolVar(&trace, "trace", false, "log every production attempt")

	return cmd
}

func encode(enc format.ResultEncoder, doc *lex.Document, r *parse.Result) error {
	if err := enc.Encode(doc, r); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// report prints a styled diagnostic to standard error.
func (a *app) report(cmd *cobra.Command, path string, doc *lex.Document, d parse.Diagnostic) {
	w := cmd.ErrOrStderr()
	width := a.cfg.ExcerptWidth
	if width == 0 {
		width = pretty.Width(w, 0)
	}
	line := pretty.SourceLine(doc.Lines, doc.Source, d)
	fmt.Fprint(w, a.styles(cmd).FormatDiagnostic(path, d, line, width))
	a.logger.Debug("parse failed", logging.FieldPath, path, logging.FieldOutcome, d.Outcome)
}
