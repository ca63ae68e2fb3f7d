package compiler

import (
	"fmt"
	"io"
	"log/slog"
)

// Options controls Compile.
type Options struct {
	Preprocess bool
	Includes   Includes

	// Check runs the name checker after parsing when non-nil.
	Check *CheckOptions

	// Roots are the functions reachability is measured from. Defined
	// functions no root calls are logged as unreachable.
	Roots []string

	Logger *slog.Logger
}

// Compile runs src through the front end and returns the checked program.
// Errors are prefixed with the stage that produced them.
func Compile(src string, opts Options) (*Program, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if opts.Preprocess {
		out, err := PreprocessIncludes(src, opts.Includes)
		if err != nil {
			return nil, fmt.Errorf("preprocess: %w", err)
		}
		logger.Debug("preprocessed", "bytes_in", len(src), "bytes_out", len(out))
		src = out
	}

	tokens, err := Lex(src)
	if err != nil {
		return nil, fmt.Errorf("lex: %w", err)
	}
	logger.Debug("lexed", "tokens", len(tokens))

	prog, err := Parse(tokens)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	logger.Debug("parsed",
		"globals", len(prog.Globals),
		"functions", len(prog.Functions),
		"prototypes", len(prog.Prototypes))

	if opts.Check != nil {
		if err := Check(prog, *opts.Check); err != nil {
			return nil, fmt.Errorf("check: %w", err)
		}
		logger.Debug("checked")
	}

	if len(opts.Roots) > 0 {
		for _, name := range Unreachable(prog, opts.Roots...) {
			logger.Warn("function is never called", "function", name)
		}
	}
	return prog, nil
}
