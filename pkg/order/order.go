// Package order implements the Order model: one assembly instruction's
// opcode, addressing modes, encoded word chain, and pending symbol
// references, plus the opcode table and addressing-mode legality matrix
// that pass one and pass two consult.
package order

import "github.com/oisee/asm10/pkg/word"

// Mode is an addressing mode identifier. -1 means "operand absent".
type Mode int

const (
	ModeNone     Mode = -1
	ModeImmediate Mode = 0
	ModeDirect    Mode = 1
	ModeMatrix    Mode = 2
	ModeRegister  Mode = 3
)

// Mnemonics maps opcode 0..15 to its source-level name, in encoding order.
// Only 15 of the 16 slots are assigned: opcode 15 is left unused. "dec" is
// sometimes grouped alongside inc/clr/not in the unary addressing-mode
// description, but it was never given a mnemonic-to-opcode mapping — it is
// not a sixteenth real instruction.
var Mnemonics = [16]string{
	"mov", "cmp", "add", "sub", "lea", "clr", "not", "inc",
	"jmp", "bne", "jsr", "red", "prn", "rts", "stop", "",
}

// opcodeIndex maps a mnemonic back to its opcode.
var opcodeIndex map[string]int

func init() {
	opcodeIndex = make(map[string]int, len(Mnemonics))
	for i, m := range Mnemonics {
		if m != "" {
			opcodeIndex[m] = i
		}
	}
}

// Lookup returns the opcode for a mnemonic, or (-1, false) if it isn't one.
func Lookup(mnemonic string) (int, bool) {
	op, ok := opcodeIndex[mnemonic]
	if !ok {
		return -1, false
	}
	return op, true
}

// IsMnemonic reports whether name is a known instruction mnemonic (used by
// the macro preprocessor's name-legality check).
func IsMnemonic(name string) bool {
	_, ok := opcodeIndex[name]
	return ok
}

// legalModes records, per opcode, which source and destination addressing
// modes are allowed. A nil set at either end means "no operand allowed
// there"; both nil means the opcode takes no operands.
type legalModes struct {
	src map[Mode]bool
	dst map[Mode]bool
}

var allModes = map[Mode]bool{ModeImmediate: true, ModeDirect: true, ModeMatrix: true, ModeRegister: true}
var dstOnlyModes = map[Mode]bool{ModeDirect: true, ModeMatrix: true, ModeRegister: true}
var leaSrcModes = map[Mode]bool{ModeDirect: true, ModeMatrix: true}

var legalityTable = map[string]legalModes{
	"mov":  {src: allModes, dst: dstOnlyModes},
	"cmp":  {src: allModes, dst: allModes},
	"add":  {src: allModes, dst: dstOnlyModes},
	"sub":  {src: allModes, dst: dstOnlyModes},
	"lea":  {src: leaSrcModes, dst: dstOnlyModes},
	"clr":  {src: nil, dst: dstOnlyModes},
	"not":  {src: nil, dst: dstOnlyModes},
	"inc":  {src: nil, dst: dstOnlyModes},
	"jmp":  {src: nil, dst: dstOnlyModes},
	"bne":  {src: nil, dst: dstOnlyModes},
	"jsr":  {src: nil, dst: dstOnlyModes},
	"red":  {src: nil, dst: dstOnlyModes},
	"prn":  {src: allModes, dst: allModes},
	"rts":  {src: nil, dst: nil},
	"stop": {src: nil, dst: nil},
}

// OperandCount returns how many operands a mnemonic takes: 0, 1, or 2.
// lea is binary, taking a direct or matrix source and a writable
// destination, matching its entry in the addressing-mode legality matrix.
func OperandCount(mnemonic string) int {
	lm, ok := legalityTable[mnemonic]
	if !ok {
		return 0
	}
	n := 0
	if lm.src != nil {
		n++
	}
	if lm.dst != nil {
		n++
	}
	return n
}

// ModeAllowed reports whether mode is legal in the given operand position
// (src=true) for mnemonic.
func ModeAllowed(mnemonic string, mode Mode, src bool) bool {
	lm, ok := legalityTable[mnemonic]
	if !ok {
		return false
	}
	set := lm.dst
	if src {
		set = lm.src
	}
	if set == nil {
		return false
	}
	return set[mode]
}

// SymbolRef is a pending reference to a source-level symbol name, recorded
// at pass-one time and resolved by pass two. WordIndex is a direct pointer
// (by index into Order.Words) to the placeholder word it resolves into, so
// both operands resolve through the same, unambiguous addressing path
// regardless of which operand position they occupy.
type SymbolRef struct {
	Name      string
	WordIndex int
}

// Order is one assembly instruction: its address, opcode, addressing
// modes, encoded word chain, and any pending symbol references.
type Order struct {
	IC       int
	Opcode   int
	SrcMode  Mode
	DstMode  Mode
	Words    []word.Word
	SrcRef   *SymbolRef
	DstRef   *SymbolRef
	Defective bool
	Line     int
}

// NumberOfWords reports how many words this instruction has been encoded
// into so far.
func (o *Order) NumberOfWords() int {
	return len(o.Words)
}

// WordsNeeded computes the word count L for an instruction with the given
// modes, per the word-count rule: 1 for the instruction word itself, +1 for
// each operand in mode immediate/direct/register, +2 for mode matrix —
// except that two register operands share a single trailing word.
func WordsNeeded(srcMode, dstMode Mode) int {
	l := 1
	if srcMode == ModeRegister && dstMode == ModeRegister {
		return l + 1
	}
	if srcMode != ModeNone {
		l += operandWordCost(srcMode)
	}
	if dstMode != ModeNone {
		l += operandWordCost(dstMode)
	}
	return l
}

func operandWordCost(m Mode) int {
	if m == ModeMatrix {
		return 2
	}
	return 1
}
