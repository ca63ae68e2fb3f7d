package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"ccfront/pkg/compiler"
)

func newParseCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "parse FILE",
		Short: "Print the syntax tree of a file",
		Long: `Parse FILE and print its syntax tree. FILE may be - for stdin.

--format tree prints an indented outline, --format yaml a YAML document.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = a.cfg.Output.Format
			}
			prog, err := a.compileFile(cmd, args[0], a.compileOptions())
			if err != nil {
				return err
			}
			return a.writeTree(cmd.OutOrStdout(), compiler.Tree(prog), format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: tree or yaml (default from config)")
	return cmd
}

func (a *app) writeTree(w io.Writer, tree compiler.TreeNode, format string) error {
	switch format {
	case "tree":
		fmt.Fprintln(w, a.styles.heading.Render(tree.Label))
		for _, c := range tree.Children {
			fmt.Fprint(w, indent(c.String()))
		}
		return nil
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tree); err != nil {
			return fmt.Errorf("failed to encode tree: %w", err)
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown output format %q", format)
}

// indent shifts every line of s right by one tree level.
func indent(s string) string {
	lines := strings.SplitAfter(s, "\n")
	var sb strings.Builder
	for _, l := range lines {
		if l != "" {
			sb.WriteString("  ")
			sb.WriteString(l)
		}
	}
	return sb.String()
}
