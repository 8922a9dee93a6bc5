// Package lex implements the assembler's lexing and validation predicates:
// purely functional string scanners over (line, offset), each returning
// either an acceptance (with how far it advanced) or a rejection.
package lex

import (
	"strings"

	"github.com/oisee/asm10/pkg/order"
)

const (
	MaxLineLen   = 80 // not counting the trailing newline
	MaxSymbolLen = 30
	MaxDataDigits = 4 // excluding sign, for -512..511 / -128..127 ranges
)

// Delim reports what terminated a scanned token.
type Delim int

const (
	DelimNone Delim = iota
	DelimEnd
	DelimComma
	DelimBracket
	DelimColon
)

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlnum(c byte) bool {
	return isLetter(c) || isDigit(c)
}

// SkipWS advances i past spaces and tabs, returning the new offset.
func SkipWS(line string, i int) int {
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	return i
}

// AtEnd reports whether offset i is at end-of-line (including '\0'/'\n'
// termination or falling off the end of the string).
func AtEnd(line string, i int) bool {
	return i >= len(line) || line[i] == '\n' || line[i] == 0
}

// IsSymbol reports whether line[i:] begins with a legal symbol name: a
// letter followed by zero or more alphanumerics, terminated by one of
// `: , [ space newline null`. Returns the name and the offset just past it.
func IsSymbol(line string, i int) (name string, end int, ok bool) {
	start := i
	if i >= len(line) || !isLetter(line[i]) {
		return "", i, false
	}
	i++
	for i < len(line) && isAlnum(line[i]) {
		i++
	}
	if i-start > MaxSymbolLen {
		return line[start:i], i, false
	}
	if i < len(line) {
		switch line[i] {
		case ':', ',', '[', ' ', '\t', '\n', 0:
		default:
			return line[start:i], i, false
		}
	}
	return line[start:i], i, true
}

// IsSymbolDefinition reports whether line[i:] is a legal symbol definition
// (a legal symbol immediately followed by ':').
func IsSymbolDefinition(line string, i int) (name string, end int, ok bool) {
	name, end, ok = IsSymbol(line, i)
	if !ok || end >= len(line) || line[end] != ':' {
		return "", i, false
	}
	return name, end + 1, true
}

// IsNumber reports whether line[i:] is a legal signed decimal number,
// terminated by whitespace, comma, or end-of-line. MaxDataDigits excludes the
// sign (4 for .data's 10-bit range, also used for 8-bit immediates since
// the digit-count limit is shared; range checking is the caller's job via
// InRange8/InRange10).
func IsNumber(line string, i int) (value int, end int, ok bool) {
	start := i
	neg := false
	if i < len(line) && (line[i] == '+' || line[i] == '-') {
		neg = line[i] == '-'
		i++
	}
	digitsStart := i
	for i < len(line) && isDigit(line[i]) {
		i++
	}
	if i == digitsStart {
		return 0, start, false
	}
	if i-digitsStart > MaxDataDigits {
		return 0, i, false
	}
	if !AtEnd(line, i) && line[i] != ',' && line[i] != ' ' && line[i] != '\t' {
		return 0, i, false
	}
	v := 0
	for _, c := range line[digitsStart:i] {
		v = v*10 + int(c-'0')
	}
	if neg {
		v = -v
	}
	return v, i, true
}

// InRange10 reports whether v fits in a signed 10-bit field (-512..511).
func InRange10(v int) bool { return v >= -512 && v <= 511 }

// InRange8 reports whether v fits in a signed 8-bit field (-128..127).
func InRange8(v int) bool { return v >= -128 && v <= 127 }

// IsRegister reports whether line[i:] is `r` followed by a digit 0..7, not
// followed by further alphanumerics. Returns the register number, the
// offset past it, and the delimiter that follows.
func IsRegister(line string, i int) (reg int, end int, delim Delim, ok bool) {
	if i+1 >= len(line) || line[i] != 'r' || !isDigit(line[i+1]) {
		return 0, i, DelimNone, false
	}
	d := int(line[i+1] - '0')
	if d > 7 {
		return 0, i + 2, DelimNone, false
	}
	end = i + 2
	if end < len(line) && isAlnum(line[end]) {
		return 0, end, DelimNone, false
	}
	switch {
	case AtEnd(line, end):
		delim = DelimEnd
	case end < len(line) && line[end] == ',':
		delim = DelimComma
	case end < len(line) && line[end] == ']':
		delim = DelimBracket
	}
	return d, end, delim, true
}

// IsImmediate reports whether line[i:] is `#` followed by a legal number
// within the 8-bit signed range.
func IsImmediate(line string, i int) (value int, end int, ok bool) {
	if i >= len(line) || line[i] != '#' {
		return 0, i, false
	}
	v, end2, ok2 := IsNumber(line, i+1)
	if !ok2 || !InRange8(v) {
		return 0, end2, false
	}
	return v, end2, true
}

// IsMatrixOperand reports whether line[i:] is a symbol followed by
// `[rX][rY]` with both register subfields valid.
func IsMatrixOperand(line string, i int) (name string, rrow, rcol int, end int, ok bool) {
	name, end, ok = IsSymbol(line, i)
	if !ok || end >= len(line) || line[end] != '[' {
		return "", 0, 0, i, false
	}
	j := end + 1
	rrow, j, _, ok = IsRegister(line, j)
	if !ok || j >= len(line) || line[j] != ']' {
		return "", 0, 0, i, false
	}
	j++
	if j >= len(line) || line[j] != '[' {
		return "", 0, 0, i, false
	}
	j++
	rcol, j, _, ok = IsRegister(line, j)
	if !ok || j >= len(line) || line[j] != ']' {
		return "", 0, 0, i, false
	}
	j++
	return name, rrow, rcol, j, true
}

// Directive identifiers, 1..5.
const (
	DirData = iota + 1
	DirString
	DirMat
	DirExtern
	DirEntry
)

var directiveNames = map[string]int{
	".data":   DirData,
	".string": DirString,
	".mat":    DirMat,
	".extern": DirExtern,
	".entry":  DirEntry,
}

// IsDirective reports whether line[i:] begins with a recognized directive
// keyword, returning its id (1..5) and the offset just past the keyword.
func IsDirective(line string, i int) (id int, end int, ok bool) {
	rest := line[i:]
	for name, dirID := range directiveNames {
		if strings.HasPrefix(rest, name) {
			after := i + len(name)
			if after >= len(line) || !isAlnum(line[after]) {
				return dirID, after, true
			}
		}
	}
	return 0, i, false
}

// CommaErrorType classifies a malformed comma-separated numeric list.
type CommaErrorType int

const (
	CommaOK CommaErrorType = iota
	CommaLeading
	CommaTrailing
	CommaDouble
	CommaMissing
)

// GetDataCommaErrorType classifies the comma usage in a trimmed
// comma-separated number list body (the text between the directive keyword
// and end of line). It does not validate the numbers themselves.
func GetDataCommaErrorType(body string) CommaErrorType {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return CommaOK
	}
	if strings.HasPrefix(trimmed, ",") {
		return CommaLeading
	}
	if strings.HasSuffix(trimmed, ",") {
		return CommaTrailing
	}
	fields := strings.Split(trimmed, ",")
	for idx, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			return CommaDouble
		}
		_ = idx
	}
	// Missing comma between values shows up as two numbers separated only
	// by whitespace inside one field.
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if strings.ContainsAny(f, " \t") {
			return CommaMissing
		}
	}
	return CommaOK
}

// ContainsInvalidCommas reports whether body has any comma error.
func ContainsInvalidCommas(body string) bool {
	return GetDataCommaErrorType(body) != CommaOK
}

// IsLegalDataInitializer reports whether body is a comma-separated list of
// valid, in-range 10-bit numbers with no leading/trailing/double commas.
func IsLegalDataInitializer(body string) (values []int, ok bool) {
	if GetDataCommaErrorType(body) != CommaOK {
		return nil, false
	}
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return nil, false
	}
	for _, f := range strings.Split(trimmed, ",") {
		f = strings.TrimSpace(f)
		v, end, numOK := IsNumber(f, 0)
		if !numOK || end != len(f) || !InRange10(v) {
			return nil, false
		}
		values = append(values, v)
	}
	return values, true
}

// IsLegalString reports whether body is a double-quoted string literal
// followed only by whitespace to end of line, returning the literal's
// contents (without quotes).
func IsLegalString(body string) (contents string, ok bool) {
	trimmed := strings.TrimRight(body, " \t\n")
	trimmed = strings.TrimLeft(trimmed, " \t")
	if len(trimmed) < 2 || trimmed[0] != '"' || trimmed[len(trimmed)-1] != '"' {
		return "", false
	}
	return trimmed[1 : len(trimmed)-1], true
}

// readDimension reads a positive decimal integer terminated by ']' — the
// shape a `.mat` dimension field takes, distinct from IsNumber's use inside
// a comma-separated value list (which never sees a bracket as a delimiter).
func readDimension(line string, i int) (value int, end int, ok bool) {
	start := i
	for i < len(line) && isDigit(line[i]) {
		i++
	}
	if i == start || i-start > MaxDataDigits {
		return 0, i, false
	}
	if i >= len(line) || line[i] != ']' {
		return 0, i, false
	}
	v := 0
	for _, c := range line[start:i] {
		v = v*10 + int(c-'0')
	}
	return v, i, true
}

// IsLegalMat reports whether body is `[n][m]` with both dimensions positive,
// followed optionally by a data initializer whose length may be less than
// n*m (the remainder is implicitly zero).
func IsLegalMat(body string) (rows, cols int, values []int, ok bool) {
	i := SkipWS(body, 0)
	if i >= len(body) || body[i] != '[' {
		return 0, 0, nil, false
	}
	i++
	n, j, numOK := readDimension(body, i)
	if !numOK || n <= 0 || j >= len(body) || body[j] != ']' {
		return 0, 0, nil, false
	}
	j++
	if j >= len(body) || body[j] != '[' {
		return 0, 0, nil, false
	}
	j++
	m, k, numOK2 := readDimension(body, j)
	if !numOK2 || m <= 0 || k >= len(body) || body[k] != ']' {
		return 0, 0, nil, false
	}
	k++
	rest := strings.TrimSpace(body[k:])
	if rest == "" {
		return n, m, nil, true
	}
	vals, listOK := IsLegalDataInitializer(rest)
	if !listOK {
		return 0, 0, nil, false
	}
	if len(vals) > n*m {
		return 0, 0, nil, false
	}
	return n, m, vals, true
}

// IsKnownName reports whether name collides with a mnemonic or directive
// name — used by the macro preprocessor's legality check.
func IsKnownName(name string) bool {
	if order.IsMnemonic(name) {
		return true
	}
	for dname := range directiveNames {
		if dname[1:] == name {
			return true
		}
	}
	return false
}
