package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ccfront/pkg/compiler"
)

func newCheckCmd(a *app) *cobra.Command {
	var requireMain bool

	cmd := &cobra.Command{
		Use:   "check FILE",
		Short: "Parse a file and check its names",
		Long: `Parse FILE and check that every name is declared once and before use.
Functions that main never reaches are reported as warnings. FILE may be - for stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := a.compileOptions()
			opts.Check = &compiler.CheckOptions{
				RequireMain: requireMain || a.cfg.Frontend.RequireMain,
				Builtins:    a.cfg.Frontend.Builtins,
			}
			prog, err := a.compileFile(cmd, args[0], opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if _, ok := prog.Function("main"); ok {
				for _, name := range compiler.Unreachable(prog, "main") {
					fmt.Fprintln(out, a.styles.warn.Render(fmt.Sprintf("warning: function %s is never called", name)))
				}
			}
			fmt.Fprintln(out, a.styles.ok.Render(fmt.Sprintf("ok: %d globals, %d functions, %d prototypes",
				len(prog.Globals), len(prog.Functions), len(prog.Prototypes))))
			return nil
		},
	}
	cmd.Flags().BoolVar(&requireMain, "require-main", false, "fail when the program has no main function")
	return cmd
}
