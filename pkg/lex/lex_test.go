package lex_test

import (
	"strings"
	"testing"

	"github.com/oisee/asm10/pkg/lex"
	"github.com/stretchr/testify/assert"
)

func TestIsSymbol(t *testing.T) {
	name, end, ok := lex.IsSymbol("MAIN: stop", 0)
	assert.True(t, ok)
	assert.Equal(t, "MAIN", name)
	assert.Equal(t, 4, end)

	_, _, ok = lex.IsSymbol("1BAD", 0)
	assert.False(t, ok, "symbols must start with a letter")
}

func TestIsSymbolLengthBoundary(t *testing.T) {
	name30 := strings.Repeat("a", 30)
	_, _, ok := lex.IsSymbol(name30+" ", 0)
	assert.True(t, ok, "length exactly 30 is accepted")

	name31 := strings.Repeat("a", 31)
	_, _, ok = lex.IsSymbol(name31+" ", 0)
	assert.False(t, ok, "length 31 is rejected")
}

func TestIsSymbolDefinition(t *testing.T) {
	name, end, ok := lex.IsSymbolDefinition("X: .data 1", 0)
	assert.True(t, ok)
	assert.Equal(t, "X", name)
	assert.Equal(t, 2, end)

	_, _, ok = lex.IsSymbolDefinition("X .data 1", 0)
	assert.False(t, ok, "no colon means it isn't a definition")
}

func TestIsNumber(t *testing.T) {
	v, end, ok := lex.IsNumber("-3,", 0)
	assert.True(t, ok)
	assert.Equal(t, -3, v)
	assert.Equal(t, 2, end)

	v, _, ok = lex.IsNumber("+511", 0)
	assert.True(t, ok)
	assert.Equal(t, 511, v)

	_, _, ok = lex.IsNumber("12345", 0)
	assert.False(t, ok, "more than 4 digits is rejected")
}

func TestInRange(t *testing.T) {
	assert.True(t, lex.InRange10(511))
	assert.True(t, lex.InRange10(-512))
	assert.False(t, lex.InRange10(512))
	assert.True(t, lex.InRange8(127))
	assert.True(t, lex.InRange8(-128))
	assert.False(t, lex.InRange8(128))
}

func TestIsRegister(t *testing.T) {
	reg, end, delim, ok := lex.IsRegister("r7,", 0)
	assert.True(t, ok)
	assert.Equal(t, 7, reg)
	assert.Equal(t, 2, end)
	assert.Equal(t, lex.DelimComma, delim)

	_, _, _, ok = lex.IsRegister("r8", 0)
	assert.False(t, ok, "r8 is out of range")

	_, _, _, ok = lex.IsRegister("r1x", 0)
	assert.False(t, ok, "trailing alnum disqualifies it")
}

func TestIsImmediate(t *testing.T) {
	v, _, ok := lex.IsImmediate("#-1", 0)
	assert.True(t, ok)
	assert.Equal(t, -1, v)

	_, _, ok = lex.IsImmediate("#200", 0)
	assert.False(t, ok, "200 exceeds the 8-bit signed range")
}

func TestIsMatrixOperand(t *testing.T) {
	name, rrow, rcol, end, ok := lex.IsMatrixOperand("M[r1][r2]", 0)
	assert.True(t, ok)
	assert.Equal(t, "M", name)
	assert.Equal(t, 1, rrow)
	assert.Equal(t, 2, rcol)
	assert.Equal(t, 9, end)

	_, _, _, _, ok = lex.IsMatrixOperand("M[r1]", 0)
	assert.False(t, ok, "missing second index")
}

func TestIsDirective(t *testing.T) {
	id, end, ok := lex.IsDirective(".data 1,2", 0)
	assert.True(t, ok)
	assert.Equal(t, lex.DirData, id)
	assert.Equal(t, 5, end)

	id, _, ok = lex.IsDirective(".entry X", 0)
	assert.True(t, ok)
	assert.Equal(t, lex.DirEntry, id)
}

func TestGetDataCommaErrorType(t *testing.T) {
	assert.Equal(t, lex.CommaLeading, lex.GetDataCommaErrorType(",1,2"))
	assert.Equal(t, lex.CommaTrailing, lex.GetDataCommaErrorType("1,2,"))
	assert.Equal(t, lex.CommaDouble, lex.GetDataCommaErrorType("1,,2"))
	assert.Equal(t, lex.CommaOK, lex.GetDataCommaErrorType("1,2,3"))
}

func TestIsLegalDataInitializer(t *testing.T) {
	values, ok := lex.IsLegalDataInitializer(" 5, -3")
	assert.True(t, ok)
	assert.Equal(t, []int{5, -3}, values)

	_, ok = lex.IsLegalDataInitializer("5,,6")
	assert.False(t, ok)
}

func TestIsLegalString(t *testing.T) {
	contents, ok := lex.IsLegalString(` "hello"  `)
	assert.True(t, ok)
	assert.Equal(t, "hello", contents)

	contents, ok = lex.IsLegalString(`""`)
	assert.True(t, ok, "empty string literal is legal")
	assert.Equal(t, "", contents)

	_, ok = lex.IsLegalString(`"unterminated`)
	assert.False(t, ok)
}

func TestIsLegalMat(t *testing.T) {
	rows, cols, values, ok := lex.IsLegalMat("[2][3] 1,2")
	assert.True(t, ok)
	assert.Equal(t, 2, rows)
	assert.Equal(t, 3, cols)
	assert.Equal(t, []int{1, 2}, values, "omitted trailing cells aren't in the initializer list")

	_, _, _, ok = lex.IsLegalMat("[0][3]")
	assert.False(t, ok, "dimensions must be positive")
}

func TestIsKnownName(t *testing.T) {
	assert.True(t, lex.IsKnownName("mov"))
	assert.True(t, lex.IsKnownName("data"))
	assert.False(t, lex.IsKnownName("TWO"))
}
