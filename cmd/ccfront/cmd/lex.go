package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ccfront/pkg/compiler"
)

func newLexCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lex FILE",
		Short: "Print the token stream of a file",
		Long: `Print the tokens of FILE, one per line. FILE may be - for stdin.

The source is preprocessed first unless frontend.preprocess is off.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, dir, err := readSource(cmd, args[0])
			if err != nil {
				return err
			}
			if a.cfg.Frontend.Preprocess {
				src, err = compiler.PreprocessIncludes(src, a.includes(dir))
				if err != nil {
					return fmt.Errorf("preprocess: %w", err)
				}
			}

			tokens, err := compiler.Lex(src)
			if err != nil {
				return fmt.Errorf("lex: %w", err)
			}
			a.logger.Debug("lexed", "tokens", len(tokens))

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, a.styles.heading.Render(fmt.Sprintf("Tokens (%d)", len(tokens))))
			for i, tok := range tokens {
				fmt.Fprintf(out, "%s %s\n", a.styles.dim.Render(fmt.Sprintf("%4d", i)), tok)
			}
			return nil
		},
	}
}
