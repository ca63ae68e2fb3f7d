// Package cmd implements the ccfront command line.
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"ccfront/lib"
	"ccfront/pkg/compiler"
	"ccfront/pkg/config"
	"ccfront/pkg/logs"
	"ccfront/pkg/utils"
)

// app holds the state shared by every subcommand of one invocation.
type app struct {
	cfgFile  string
	logLevel string
	noColor  bool

	cfg      *config.Config
	logger   *slog.Logger
	closeLog func() error
	styles   styles
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{}

	root := &cobra.Command{
		Use:   "ccfront",
		Short: "Front end for a small subset of C",
		Long: `ccfront lexes, parses and checks programs written in a small subset of C.

Commands:
  lex     - print the token stream of a file
  parse   - print the syntax tree of a file
  expr    - parse a single expression
  check   - parse a file and check its names`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: $CCFRONT_CONFIG or ./ccfront.toml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")
	root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable styled output")

	root.AddCommand(
		newLexCmd(a),
		newParseCmd(a),
		newExprCmd(a),
		newCheckCmd(a),
		newVersionCmd(),
	)
	return root, a
}

// Execute runs the command line and prints any error to stderr.
func Execute() error {
	root, a := newRootCmd()
	if err := execute(root, a); err != nil {
		printError(root.ErrOrStderr(), err)
		return err
	}
	return nil
}

// execute runs root and releases the log file whether or not the command
// failed.
func execute(root *cobra.Command, a *app) (err error) {
	defer func() {
		if cerr := a.close(); err == nil {
			err = cerr
		}
	}()
	return root.Execute()
}

func (a *app) close() error {
	if a.closeLog == nil {
		return nil
	}
	err := a.closeLog()
	a.closeLog = nil
	return err
}

func printError(w io.Writer, err error) {
	fmt.Fprintln(w, newStyles(w, true).err.Render("error: "+err.Error()))
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	var err error
	if a.cfgFile != "" {
		a.cfg, err = config.Load(a.cfgFile)
	} else {
		a.cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}

	if a.logLevel != "" {
		a.cfg.Log.Level = a.logLevel
	}
	if a.noColor {
		a.cfg.Output.Color = false
	}

	a.logger, a.closeLog, err = logs.New(a.cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.styles = newStyles(cmd.OutOrStdout(), a.cfg.Output.Color)
	a.logger.Debug("configured", "command", cmd.Name(), "config", a.cfgFile)
	return nil
}

// readSource reads path, or stdin when path is "-", and returns the source
// with the directory quoted includes resolve against.
func readSource(cmd *cobra.Command, path string) (string, string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), ".", nil
	}
	src, err := utils.ReadSource(path)
	if err != nil {
		return "", "", err
	}
	return src.Text, src.Dir, nil
}

func (a *app) includes(dir string) compiler.Includes {
	inc := compiler.Includes{
		FS:     os.DirFS(dir),
		Dir:    ".",
		System: lib.Headers(),
	}
	if a.cfg.Frontend.SystemDir != "" {
		inc.System = os.DirFS(a.cfg.Frontend.SystemDir)
	}
	return inc
}

func (a *app) compileOptions() compiler.Options {
	opts := compiler.Options{
		Preprocess: a.cfg.Frontend.Preprocess,
		Logger:     a.logger,
	}
	if a.cfg.Frontend.Check {
		opts.Check = &compiler.CheckOptions{
			RequireMain: a.cfg.Frontend.RequireMain,
			Builtins:    a.cfg.Frontend.Builtins,
		}
	}
	return opts
}

// compileFile reads and compiles path with opts.
func (a *app) compileFile(cmd *cobra.Command, path string, opts compiler.Options) (*compiler.Program, error) {
	src, dir, err := readSource(cmd, path)
	if err != nil {
		return nil, err
	}
	opts.Includes = a.includes(dir)
	a.logger.Debug("compiling", "file", path, "bytes", len(src))
	return compiler.Compile(src, opts)
}
