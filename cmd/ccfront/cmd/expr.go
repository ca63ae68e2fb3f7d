package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ccfront/pkg/compiler"
)

func newExprCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "expr EXPR...",
		Short: "Parse a single expression",
		Long: `Parse the arguments, joined by spaces, as one expression and print it
fully parenthesized followed by its tree.`,
		Example: `  ccfront expr '1 - 2 * 3 + 4'
  ccfront expr --format yaml 'a.b[i] = f(x)'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = a.cfg.Output.Format
			}
			src := strings.Join(args, " ")
			expr, err := compiler.ParseExprString(src)
			if err != nil {
				return fmt.Errorf("parse: %w", err)
			}
			a.logger.Debug("parsed expression", "input", src)

			out := cmd.OutOrStdout()
			if format == "tree" {
				fmt.Fprintln(out, a.styles.ok.Render(expr.String()))
			}
			return a.writeTree(out, compiler.NodeTree(expr), format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: tree or yaml (default from config)")
	return cmd
}
