// Package macro implements the textual macro preprocessor: definition
// blocks are captured verbatim, then invocations are expanded inline to
// produce the preprocessed (.am) source stream pass one actually consumes.
package macro

import (
	"strings"

	"github.com/oisee/asm10/pkg/diag"
	"github.com/oisee/asm10/pkg/lex"
)

// Macro is a named, ordered sequence of verbatim body lines.
type Macro struct {
	Name string
	Body []string
}

// Result is the outcome of preprocessing one file: the expanded line
// stream and whether any diagnostic was raised along the way. OK mirrors
// !HasErrors() of the diag.Bag passed to Preprocess.
type Result struct {
	Lines []string
	OK    bool
}

// Preprocess expands macro definitions and invocations in src (one input
// line per slice element, without trailing newlines) and returns the
// expanded stream. Errors accumulate in diags; the preprocessor keeps
// going after a fault so more diagnostics can surface, but Result.OK is
// false if any were raised — callers must not feed a failed result to
// pass one.
func Preprocess(src []string, diags *diag.Bag) Result {
	table := make(map[string]*Macro)
	var out []string

	var inMacro bool
	var current *Macro

	for lineNum, raw := range src {
		line := lineNum + 1
		trimmed := strings.TrimRight(raw, "\r")

		fields := strings.Fields(trimmed)
		first := ""
		if len(fields) > 0 {
			first = fields[0]
		}

		switch {
		case first == "mcro":
			if inMacro {
				diags.Add(diag.MacroError, line, "nested macro definition")
				continue
			}
			if len(fields) < 2 {
				diags.Add(diag.MacroError, line, "macro definition missing a name")
				continue
			}
			name := fields[1]
			if len(fields) > 2 {
				diags.Add(diag.MacroError, line, "unexpected text after macro name %q", name)
			}
			if !isLegalMacroName(name) {
				diags.Add(diag.MacroError, line, "illegal macro name %q", name)
				continue
			}
			if _, exists := table[name]; exists {
				diags.Add(diag.MacroError, line, "macro %q already defined", name)
				continue
			}
			m := &Macro{Name: name}
			table[name] = m
			current = m
			inMacro = true

		case first == "mcroend":
			if !inMacro {
				diags.Add(diag.MacroError, line, "mcroend without an open macro definition")
				continue
			}
			if len(fields) > 1 {
				diags.Add(diag.MacroError, line, "unexpected text after mcroend")
			}
			inMacro = false
			current = nil

		case inMacro:
			current.Body = append(current.Body, trimmed)

		case first != "" && table[first] != nil:
			out = append(out, table[first].Body...)

		default:
			if label, m, ok := labeledInvocation(trimmed, table); ok {
				out = append(out, appendLabel(label, m.Body)...)
				continue
			}
			out = append(out, trimmed)
		}
	}

	if inMacro {
		diags.Add(diag.MacroError, len(src), "macro %q never closed with mcroend", current.Name)
	}

	return Result{Lines: out, OK: !diags.HasErrors()}
}

// isLegalMacroName reports whether name is a legal symbol and does not
// collide with any mnemonic or directive name.
func isLegalMacroName(name string) bool {
	if _, end, ok := lex.IsSymbol(name, 0); !ok || end != len(name) {
		return false
	}
	return !lex.IsKnownName(name)
}

// labeledInvocation detects "NAME: MACRO" — a label sharing a line with a
// macro invocation. The invocation dispatch above keys off the first token,
// which for such a line is the label, not the macro name; this is the one
// case that needs the label peeled off first.
func labeledInvocation(line string, table map[string]*Macro) (label string, m *Macro, ok bool) {
	i := lex.SkipWS(line, 0)
	name, end, defOK := lex.IsSymbolDefinition(line, i)
	if !defOK {
		return "", nil, false
	}
	rest := strings.TrimSpace(line[end:])
	if rest == "" {
		return "", nil, false
	}
	mm, exists := table[rest]
	if !exists {
		return "", nil, false
	}
	return name, mm, true
}

// appendLabel prefixes label to the macro body's first line so a label that
// shared a line with the invocation stays attached to the expanded code,
// instead of being lost or left dangling on a statement-less line.
func appendLabel(label string, body []string) []string {
	if len(body) == 0 {
		return []string{label + ":"}
	}
	out := make([]string, len(body))
	out[0] = label + ": " + body[0]
	copy(out[1:], body[1:])
	return out
}
