package pass1_test

import (
	"testing"

	"github.com/oisee/asm10/pkg/order"
	"github.com/oisee/asm10/pkg/pass1"
	"github.com/oisee/asm10/pkg/symtab"
	"github.com/oisee/asm10/pkg/translate"
	"github.com/oisee/asm10/pkg/word"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, lines []string) *translate.Context {
	t.Helper()
	ctx := translate.New()
	pass1.Run(ctx, lines)
	return ctx
}

func TestEmptyProgram(t *testing.T) {
	ctx := run(t, []string{"MAIN: stop"})
	require.False(t, ctx.Pass1Diags.HasErrors(), ctx.Pass1Diags.All())
	require.Len(t, ctx.Orders, 1)

	ord := ctx.Orders[0]
	assert.Equal(t, 100, ord.IC)
	assert.Len(t, ord.Words, 1)
	assert.Equal(t, word.EncodeInstructionWord(14, -1, -1), ord.Words[0].Bits)
	assert.Equal(t, 101, ctx.FinalIC())

	sym, ok := ctx.Symbols.Lookup("MAIN")
	require.True(t, ok)
	assert.Equal(t, symtab.Code, sym.Kind)
	assert.Equal(t, 100, sym.Value)
}

func TestImmediateToRegister(t *testing.T) {
	ctx := run(t, []string{"mov #-1, r3", "stop"})
	require.False(t, ctx.Pass1Diags.HasErrors(), ctx.Pass1Diags.All())
	require.Len(t, ctx.Orders, 2)

	mov := ctx.Orders[0]
	require.Len(t, mov.Words, 3)
	assert.Equal(t, word.EncodeInstructionWord(0, int(order.ModeImmediate), int(order.ModeRegister)), mov.Words[0].Bits)
	assert.Equal(t, word.EncodeImmediate(-1), mov.Words[1].Bits)
	assert.Equal(t, word.EncodeDestinationRegister(3), mov.Words[2].Bits)

	stop := ctx.Orders[1]
	assert.Equal(t, 103, stop.IC)
	assert.Equal(t, 104, ctx.FinalIC())
}

func TestDataLabelAndReference(t *testing.T) {
	ctx := run(t, []string{"X: .data 5, -3", "mov X, r1", "stop"})
	require.False(t, ctx.Pass1Diags.HasErrors(), ctx.Pass1Diags.All())

	require.Len(t, ctx.DataWords, 2)
	assert.Equal(t, word.EncodeNumber10(5), ctx.DataWords[0].Bits)
	assert.Equal(t, word.EncodeNumber10(-3), ctx.DataWords[1].Bits)

	sym, ok := ctx.Symbols.Lookup("X")
	require.True(t, ok)
	assert.Equal(t, symtab.Data, sym.Kind)
	// relocated: data-relative 0 + final IC (104: mov=3 words, stop=1 word)
	assert.Equal(t, 104, sym.Value)
	assert.GreaterOrEqual(t, sym.Value, ctx.FinalIC())

	mov := ctx.Orders[0]
	require.NotNil(t, mov.SrcRef)
	assert.Equal(t, "X", mov.SrcRef.Name)
	assert.Equal(t, 1, mov.SrcRef.WordIndex)
	assert.Equal(t, word.PlaceholderWord, mov.Words[1].Bits)
}

func TestExternUsage(t *testing.T) {
	ctx := run(t, []string{".extern K", "jmp K", "stop"})
	require.False(t, ctx.Pass1Diags.HasErrors(), ctx.Pass1Diags.All())

	sym, ok := ctx.Symbols.Lookup("K")
	require.True(t, ok)
	assert.Equal(t, symtab.External, sym.Kind)

	jmpOrder := ctx.Orders[0]
	require.NotNil(t, jmpOrder.DstRef)
	assert.Equal(t, "K", jmpOrder.DstRef.Name)
	assert.Len(t, jmpOrder.Words, 2)
}

func TestMatrixInitializerWithOmittedTail(t *testing.T) {
	ctx := run(t, []string{"M: .mat [2][3] 1,2", "stop"})
	require.False(t, ctx.Pass1Diags.HasErrors(), ctx.Pass1Diags.All())

	require.Len(t, ctx.DataWords, 6)
	assert.Equal(t, word.EncodeNumber10(1), ctx.DataWords[0].Bits)
	assert.Equal(t, word.EncodeNumber10(2), ctx.DataWords[1].Bits)
	for i := 2; i < 6; i++ {
		assert.Equal(t, word.EncodeNumber10(0), ctx.DataWords[i].Bits, "trailing cells are explicit zero words")
	}
	assert.Equal(t, 6, ctx.FinalDC())
}

func TestSymbolNameLengthBoundary(t *testing.T) {
	long30 := "a23456789012345678901234567890"[:30]
	ctx := run(t, []string{long30 + ": stop"})
	assert.False(t, ctx.Pass1Diags.HasErrors())

	long31 := long30 + "x"
	ctx2 := run(t, []string{long31 + ": stop"})
	assert.True(t, ctx2.Pass1Diags.HasErrors())
}

func TestLineTooLong(t *testing.T) {
	line80 := "; " + repeat("a", 78) // exactly 80 chars
	ctx := run(t, []string{line80})
	assert.False(t, ctx.Pass1Diags.HasErrors())

	line81 := "; " + repeat("a", 79)
	ctx2 := run(t, []string{line81})
	assert.True(t, ctx2.Pass1Diags.HasErrors())
}

func TestRegisterR7AcceptedR8Rejected(t *testing.T) {
	ctx := run(t, []string{"clr r7"})
	assert.False(t, ctx.Pass1Diags.HasErrors())

	ctx2 := run(t, []string{"clr r8"})
	assert.True(t, ctx2.Pass1Diags.HasErrors())
}

func TestModeViolationMarksDefective(t *testing.T) {
	ctx := run(t, []string{"mov #1, #2"})
	require.True(t, ctx.Pass1Diags.HasErrors())
	require.Len(t, ctx.Orders, 1)
	assert.True(t, ctx.Orders[0].Defective)
}

func repeat(s string, n int) string {
	out := make([]byte, 0, n*len(s))
	for i := 0; i < n; i++ {
		out = append(out, s...)
	}
	return string(out)
}
