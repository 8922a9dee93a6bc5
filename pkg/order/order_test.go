package order_test

import (
	"testing"

	"github.com/oisee/asm10/pkg/order"
	"github.com/stretchr/testify/assert"
)

func TestLookup(t *testing.T) {
	cases := map[string]int{
		"mov": 0, "cmp": 1, "add": 2, "sub": 3, "lea": 4,
		"clr": 5, "not": 6, "inc": 7, "jmp": 8, "bne": 9,
		"jsr": 10, "red": 11, "prn": 12, "rts": 13, "stop": 14,
	}
	for name, want := range cases {
		op, ok := order.Lookup(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, op, name)
	}

	_, ok := order.Lookup("dec")
	assert.False(t, ok, "dec has no assigned opcode (see order.Mnemonics)")
}

func TestOperandCount(t *testing.T) {
	assert.Equal(t, 2, order.OperandCount("mov"))
	assert.Equal(t, 2, order.OperandCount("cmp"))
	assert.Equal(t, 2, order.OperandCount("lea"), "lea is binary")
	assert.Equal(t, 1, order.OperandCount("clr"))
	assert.Equal(t, 2, order.OperandCount("prn"), "prn is binary, like cmp")
	assert.Equal(t, 0, order.OperandCount("rts"))
	assert.Equal(t, 0, order.OperandCount("stop"))
}

func TestModeAllowed_Lea(t *testing.T) {
	assert.True(t, order.ModeAllowed("lea", order.ModeDirect, true))
	assert.True(t, order.ModeAllowed("lea", order.ModeMatrix, true))
	assert.False(t, order.ModeAllowed("lea", order.ModeImmediate, true))
	assert.False(t, order.ModeAllowed("lea", order.ModeRegister, true))
	assert.True(t, order.ModeAllowed("lea", order.ModeRegister, false))
}

func TestModeAllowed_MovDestExcludesImmediate(t *testing.T) {
	assert.True(t, order.ModeAllowed("mov", order.ModeImmediate, true))
	assert.False(t, order.ModeAllowed("mov", order.ModeImmediate, false))
	assert.True(t, order.ModeAllowed("mov", order.ModeRegister, false))
}

func TestWordsNeeded(t *testing.T) {
	assert.Equal(t, 1, order.WordsNeeded(order.ModeNone, order.ModeNone))
	assert.Equal(t, 2, order.WordsNeeded(order.ModeNone, order.ModeDirect))
	assert.Equal(t, 3, order.WordsNeeded(order.ModeImmediate, order.ModeDirect))
	assert.Equal(t, 2, order.WordsNeeded(order.ModeRegister, order.ModeRegister), "register pair shares one word")
	assert.Equal(t, 3, order.WordsNeeded(order.ModeNone, order.ModeMatrix), "matrix costs two words")
	assert.Equal(t, 4, order.WordsNeeded(order.ModeDirect, order.ModeMatrix))
}
