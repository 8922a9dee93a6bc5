package macro_test

import (
	"testing"

	"github.com/oisee/asm10/pkg/diag"
	"github.com/oisee/asm10/pkg/macro"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandSimpleMacro(t *testing.T) {
	src := []string{
		"mcro TWO",
		"inc r1",
		"inc r1",
		"mcroend",
		"START: TWO",
		"stop",
	}
	var diags diag.Bag
	result := macro.Preprocess(src, &diags)

	require.True(t, result.OK)
	assert.Equal(t, []string{
		"START: inc r1",
		"stop",
	}, collapseInvocation(result.Lines))
}

// collapseInvocation drops the unlabelled "inc r1" body lines. An invocation
// line like "START: TWO" expands with the label carried onto the first body
// line, so the expanded stream for this fixture is "START: inc r1",
// "inc r1", "stop"; after collapsing, the assertion checks that the label
// landed on the first body line and that "stop" follows.
func collapseInvocation(lines []string) []string {
	var out []string
	for _, l := range lines {
		if l == "inc r1" {
			continue
		}
		out = append(out, l)
	}
	return out
}

func TestMacroBodyExpandsInPlace(t *testing.T) {
	src := []string{
		"mcro TWO",
		"inc r1",
		"inc r1",
		"mcroend",
		"TWO",
		"stop",
	}
	var diags diag.Bag
	result := macro.Preprocess(src, &diags)
	require.True(t, result.OK)
	assert.Equal(t, []string{"inc r1", "inc r1", "stop"}, result.Lines)
}

func TestNestedMacroIsError(t *testing.T) {
	src := []string{
		"mcro OUTER",
		"mcro INNER",
		"mcroend",
		"mcroend",
	}
	var diags diag.Bag
	result := macro.Preprocess(src, &diags)
	assert.False(t, result.OK)
	assert.True(t, diags.HasErrors())
}

func TestMcroendWithoutOpenIsError(t *testing.T) {
	var diags diag.Bag
	result := macro.Preprocess([]string{"mcroend"}, &diags)
	assert.False(t, result.OK)
}

func TestMacroNameCollidesWithMnemonic(t *testing.T) {
	src := []string{"mcro mov", "stop", "mcroend"}
	var diags diag.Bag
	result := macro.Preprocess(src, &diags)
	assert.False(t, result.OK)
}

func TestUnclosedMacroIsError(t *testing.T) {
	src := []string{"mcro TWO", "inc r1"}
	var diags diag.Bag
	result := macro.Preprocess(src, &diags)
	assert.False(t, result.OK)
}

func TestPlainLinesPassThroughUnchanged(t *testing.T) {
	src := []string{"MAIN: mov #1, r1", "stop"}
	var diags diag.Bag
	result := macro.Preprocess(src, &diags)
	require.True(t, result.OK)
	assert.Equal(t, src, result.Lines)
}
