package compiler

import (
	"fmt"
	"io/fs"
	"maps"
	"path"
	"slices"
	"strings"
)

// Macro represents a defined macro, either simple or function-like.
type Macro struct {
	Params []string // nil for simple macros
	Body   string
}

func (m Macro) functionLike() bool { return m.Params != nil }

// StripBlockComments removes /* ... */ comments from src. Comments do not
// nest. Newlines inside a comment are kept so line numbers stay put, and an
// unterminated comment swallows the rest of the input. String and character
// literals and // comments are copied through untouched.
func StripBlockComments(src string) string {
	var sb strings.Builder
	n := len(src)
	for i := 0; i < n; {
		switch {
		case src[i] == '"' || src[i] == '\'':
			j := skipLiteral(src, i)
			sb.WriteString(src[i:j])
			i = j

		case strings.HasPrefix(src[i:], "//"):
			j := lineCommentEnd(src, i+2)
			sb.WriteString(src[i:j])
			i = j

		case strings.HasPrefix(src[i:], "/*"):
			end := strings.Index(src[i+2:], "*/")
			var body string
			if end < 0 {
				body = src[i+2:]
				i = n
			} else {
				body = src[i+2 : i+2+end]
				i += 2 + end + 2
			}
			sb.WriteByte(' ')
			sb.WriteString(strings.Repeat("\n", strings.Count(body, "\n")))

		default:
			sb.WriteByte(src[i])
			i++
		}
	}
	return sb.String()
}

// lineCommentEnd returns the index of the newline that ends the // comment
// whose text starts at src[i], or len(src). A backslash swallows the
// character after it, so "\\\n" continues the comment as the lexer does.
func lineCommentEnd(src string, i int) int {
	for i < len(src) {
		switch src[i] {
		case '\\':
			i += 2
			continue
		case '\n':
			return i
		}
		i++
	}
	return len(src)
}

// skipLiteral returns the index just past the string or character literal
// starting at src[i]. An unterminated literal ends at the newline.
func skipLiteral(src string, i int) int {
	quote := src[i]
	i++
	for i < len(src) {
		switch src[i] {
		case '\\':
			i += 2
			continue
		case quote:
			return i + 1
		case '\n':
			return i
		}
		i++
	}
	return len(src)
}

// Includes tells the preprocessor where included files come from.
type Includes struct {
	// FS and Dir resolve #include "file", relative to the including file.
	FS  fs.FS
	Dir string

	// System resolves #include <file>. Headers it does not have, and all
	// system includes when it is nil, produce nothing.
	System fs.FS
}

// Preprocess strips block comments and runs the directives in src:
//
//	#include "file"      replaced by the preprocessed file, read from fsys
//	                     relative to dir; a file is included at most once
//	#include <file>      dropped; see PreprocessIncludes for system headers
//	#define NAME body    simple macro
//	#define NAME(a) body function-like macro
//	#undef NAME
//	#ifdef / #ifndef / #else / #endif
//
// Other directives are dropped. Every dropped line is left blank so the
// line count of src is unchanged. A nil fsys makes any quoted include an
// error.
func Preprocess(src string, fsys fs.FS, dir string) (string, error) {
	return PreprocessIncludes(src, Includes{FS: fsys, Dir: dir})
}

// PreprocessIncludes is Preprocess with system headers.
func PreprocessIncludes(src string, inc Includes) (string, error) {
	dir := inc.Dir
	if dir == "" {
		dir = "."
	}
	pp := &preprocessor{
		inc:      inc,
		defines:  make(map[string]Macro),
		included: make(map[string]bool),
	}
	return pp.process(src, dir, nil)
}

type preprocessor struct {
	inc      Includes
	defines  map[string]Macro
	included map[string]bool
}

// conditional is one open #ifdef or #ifndef.
type conditional struct {
	parentActive bool
	taken        bool
	inElse       bool
}

func (pp *preprocessor) process(src, dir string, stack []string) (string, error) {
	lines := logicalLines(StripBlockComments(src))

	var result strings.Builder
	var conds []conditional
	active := func() bool {
		return len(conds) == 0 || (conds[len(conds)-1].parentActive && conds[len(conds)-1].taken)
	}

	for _, ll := range lines {
		trimmed := strings.TrimSpace(ll.text)
		blank := strings.Repeat("\n", ll.count)

		if !strings.HasPrefix(trimmed, "#") {
			if active() {
				result.WriteString(expandWith(ll.text, pp.defines, nil))
				result.WriteByte('\n')
				result.WriteString(strings.Repeat("\n", ll.count-1))
			} else {
				result.WriteString(blank)
			}
			continue
		}

		directive, rest := splitDirective(trimmed)
		switch directive {
		case "ifdef", "ifndef":
			_, defined := pp.defines[firstWord(rest)]
			conds = append(conds, conditional{
				parentActive: active(),
				taken:        defined == (directive == "ifdef"),
			})
			result.WriteString(blank)
			continue

		case "else":
			if len(conds) == 0 {
				return "", fmt.Errorf("#else without #ifdef")
			}
			top := &conds[len(conds)-1]
			if top.inElse {
				return "", fmt.Errorf("duplicate #else")
			}
			top.inElse = true
			top.taken = !top.taken
			result.WriteString(blank)
			continue

		case "endif":
			if len(conds) == 0 {
				return "", fmt.Errorf("#endif without #ifdef")
			}
			conds = conds[:len(conds)-1]
			result.WriteString(blank)
			continue
		}

		if !active() {
			result.WriteString(blank)
			continue
		}

		switch directive {
		case "define":
			if err := pp.define(rest); err != nil {
				return "", err
			}
		case "undef":
			delete(pp.defines, firstWord(rest))
		case "include":
			content, err := pp.include(rest, dir, stack)
			if err != nil {
				return "", err
			}
			result.WriteString(content)
		}
		result.WriteString(blank)
	}

	if len(conds) > 0 {
		return "", fmt.Errorf("unterminated #ifdef")
	}
	return result.String(), nil
}

// logicalLine is a source line after backslash-newline splicing. count is
// the number of physical lines it was built from.
type logicalLine struct {
	text  string
	count int
}

func logicalLines(src string) []logicalLine {
	physical := strings.Split(strings.TrimSuffix(src, "\n"), "\n")
	var out []logicalLine
	var cur strings.Builder
	count := 0
	for _, line := range physical {
		count++
		if strings.HasSuffix(line, "\\") {
			cur.WriteString(strings.TrimSuffix(line, "\\"))
			cur.WriteByte(' ')
			continue
		}
		cur.WriteString(line)
		out = append(out, logicalLine{text: cur.String(), count: count})
		cur.Reset()
		count = 0
	}
	if count > 0 {
		out = append(out, logicalLine{text: cur.String(), count: count})
	}
	return out
}

// splitDirective splits "#  define X 1" into "define" and "X 1".
func splitDirective(trimmed string) (string, string) {
	body := strings.TrimSpace(strings.TrimPrefix(trimmed, "#"))
	end := 0
	for end < len(body) && isIdentPart(rune(body[end])) {
		end++
	}
	return body[:end], strings.TrimSpace(body[end:])
}

func firstWord(s string) string {
	if f := strings.Fields(s); len(f) > 0 {
		return f[0]
	}
	return ""
}

// define handles the text after "#define".
func (pp *preprocessor) define(rest string) error {
	nameEnd := 0
	for nameEnd < len(rest) && isIdentPart(rune(rest[nameEnd])) {
		nameEnd++
	}
	if nameEnd == 0 {
		return fmt.Errorf("#define without a macro name")
	}
	name := rest[:nameEnd]
	rest = rest[nameEnd:]

	macro := Macro{}
	// A function-like macro has '(' immediately after its name.
	if strings.HasPrefix(rest, "(") {
		closeParen := strings.IndexByte(rest, ')')
		if closeParen < 0 {
			return fmt.Errorf("unterminated parameter list in macro %s", name)
		}
		macro.Params = []string{}
		if params := strings.TrimSpace(rest[1:closeParen]); params != "" {
			for _, p := range strings.Split(params, ",") {
				macro.Params = append(macro.Params, strings.TrimSpace(p))
			}
		}
		rest = rest[closeParen+1:]
	}
	macro.Body = strings.TrimSpace(rest)
	pp.defines[name] = macro
	return nil
}

// include resolves and preprocesses the file named by the text after
// "#include".
func (pp *preprocessor) include(rest, dir string, stack []string) (string, error) {
	if strings.HasPrefix(rest, "<") {
		end := strings.IndexByte(rest, '>')
		if end < 0 {
			return "", fmt.Errorf("invalid include directive: #include %s", rest)
		}
		name := rest[1:end]
		if pp.inc.System == nil {
			return "", nil
		}
		if _, err := fs.Stat(pp.inc.System, name); err != nil {
			return "", nil
		}
		return pp.load(pp.inc.System, "<"+name+">", name, stack)
	}

	parts := strings.SplitN(rest, "\"", 3)
	if len(parts) < 3 || parts[0] != "" {
		return "", fmt.Errorf("invalid include directive: #include %s", rest)
	}
	filename := parts[1]
	if pp.inc.FS == nil {
		return "", fmt.Errorf("cannot include %q: no file system available", filename)
	}
	full := path.Join(dir, filename)
	return pp.load(pp.inc.FS, full, full, stack)
}

// load preprocesses the file at name in fsys. key identifies the file for
// cycle detection and include-once tracking; stack is the chain of files
// currently being included, outermost first.
func (pp *preprocessor) load(fsys fs.FS, key, name string, stack []string) (string, error) {
	if slices.Contains(stack, key) {
		chain := append(slices.Clone(stack), key)
		return "", fmt.Errorf("circular include detected: %s", strings.Join(chain, " -> "))
	}
	if pp.included[key] {
		return "", nil
	}
	pp.included[key] = true

	content, err := fs.ReadFile(fsys, name)
	if err != nil {
		return "", fmt.Errorf("failed to read included file %s: %w", key, err)
	}

	return pp.process(string(content), path.Dir(name), append(slices.Clone(stack), key))
}

// expandWith replaces macro names in input with their bodies, outside string
// and character literals. Names in disabled are not expanded again, so a
// macro that mentions itself terminates.
func expandWith(input string, defines map[string]Macro, disabled map[string]bool) string {
	if len(defines) == 0 {
		return input
	}

	var sb strings.Builder
	n := len(input)
	for i := 0; i < n; {
		c := input[i]
		switch {
		case c == '"' || c == '\'':
			j := skipLiteral(input, i)
			sb.WriteString(input[i:j])
			i = j

		case strings.HasPrefix(input[i:], "//"):
			sb.WriteString(input[i:])
			i = n

		case isIdentStart(rune(c)):
			start := i
			for i < n && isIdentPart(rune(input[i])) {
				i++
			}
			word := input[start:i]
			macro, ok := defines[word]
			if !ok || disabled[word] {
				sb.WriteString(word)
				continue
			}
			inner := maps.Clone(disabled)
			if inner == nil {
				inner = make(map[string]bool)
			}
			inner[word] = true

			if !macro.functionLike() {
				sb.WriteString(expandWith(macro.Body, defines, inner))
				continue
			}
			args, end, ok := macroArgs(input, i)
			if !ok || len(args) != len(macro.Params) {
				// Not an invocation; leave the name alone.
				sb.WriteString(word)
				continue
			}
			body := substitute(macro.Body, macro.Params, args)
			sb.WriteString(expandWith(body, defines, inner))
			i = end

		default:
			sb.WriteByte(c)
			i++
		}
	}
	return sb.String()
}

// substitute replaces each parameter name in body with its argument in one
// scan. The arguments are copied verbatim and never scanned again here.
func substitute(body string, params, args []string) string {
	var sb strings.Builder
	n := len(body)
	for i := 0; i < n; {
		c := body[i]
		switch {
		case c == '"' || c == '\'':
			j := skipLiteral(body, i)
			sb.WriteString(body[i:j])
			i = j

		case isIdentStart(rune(c)):
			start := i
			for i < n && isIdentPart(rune(body[i])) {
				i++
			}
			word := body[start:i]
			if k := slices.Index(params, word); k >= 0 {
				sb.WriteString(args[k])
			} else {
				sb.WriteString(word)
			}

		default:
			sb.WriteByte(c)
			i++
		}
	}
	return sb.String()
}

// macroArgs reads a parenthesised argument list starting at or after
// input[i]. It returns the trimmed arguments and the index after ')'.
func macroArgs(input string, i int) ([]string, int, bool) {
	n := len(input)
	for i < n && (input[i] == ' ' || input[i] == '\t') {
		i++
	}
	if i >= n || input[i] != '(' {
		return nil, 0, false
	}
	i++

	var args []string
	var cur strings.Builder
	depth := 1
	for i < n {
		c := input[i]
		switch {
		case c == '"' || c == '\'':
			j := skipLiteral(input, i)
			cur.WriteString(input[i:j])
			i = j
			continue
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth == 0 {
				if s := strings.TrimSpace(cur.String()); s != "" || len(args) > 0 {
					args = append(args, s)
				}
				return args, i + 1, true
			}
		case c == ',' && depth == 1:
			args = append(args, strings.TrimSpace(cur.String()))
			cur.Reset()
			i++
			continue
		}
		cur.WriteByte(c)
		i++
	}
	return nil, 0, false
}
