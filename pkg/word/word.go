// Package word implements the 10-bit word encoder: turning integers,
// characters, registers, and opcode triplets into bit-exact machine words,
// and rendering those words and addresses in the assembler's base-4 output
// alphabet.
//
// A Word is stored as a plain integer field, not an ASCII bit string; Bits
// and Base4 render it on demand.
package word

import "strings"

// ARE is the two-bit addressing-relocation-external tag appended to every
// emitted word.
type ARE int

const (
	AREAbsolute   ARE = 0 // 00 — the word carries no relocatable reference
	AREExternal   ARE = 1 // 01 — value refers to an external symbol
	ARERelocated  ARE = 2 // 10 — value refers to a relocatable (internal) symbol
)

// Kind distinguishes an instruction word from a data word.
type Kind int

const (
	KindData Kind = iota
	KindInstruction
)

// Word is a single 10-bit machine word plus the metadata the emitter needs:
// the address it lives at and whether it's instruction or data.
type Word struct {
	Bits    uint16 // low 10 bits significant
	Address int
	Kind    Kind
}

const wordMask = 0x3FF // 10 bits

// mask10 truncates n to its low 10 bits, matching two's-complement wraparound
// for negative values.
func mask10(n int) uint16 {
	return uint16(n) & wordMask
}

// EncodeNumber10 produces the low 10 bits of n, two's complement for
// negative values.
func EncodeNumber10(n int) uint16 {
	return mask10(n)
}

// EncodeNumber8 produces the low 8 bits of n, two's complement for negative
// values.
func EncodeNumber8(n int) uint8 {
	return uint8(n) & 0xFF
}

// EncodeChar produces the low 10 bits of the unsigned byte value of c.
func EncodeChar(c byte) uint16 {
	return uint16(c) & wordMask
}

// EncodeRegister packs a register number (0..7) into a 4-bit field, even
// though the value only needs 3 bits — the field width is fixed by the
// register-pair word layout.
func EncodeRegister(r int) uint8 {
	return uint8(r) & 0xF
}

// EncodeInstructionWord packs opcode, source mode, and destination mode into
// the instruction word. Layout high->low: [opcode:4][src:2][dst:2][ARE:2].
// ARE is always 00 for the instruction word itself. srcMode/dstMode of -1
// (absent operand) encode as 0.
func EncodeInstructionWord(opcode int, srcMode, dstMode int) uint16 {
	if srcMode < 0 {
		srcMode = 0
	}
	if dstMode < 0 {
		dstMode = 0
	}
	w := uint16(opcode&0xF) << 6
	w |= uint16(srcMode&0x3) << 4
	w |= uint16(dstMode&0x3) << 2
	return mask10(int(w))
}

// EncodeImmediate packs an 8-bit immediate value with ARE=00.
// Layout: [value:8][ARE:2].
func EncodeImmediate(v int) uint16 {
	b := EncodeNumber8(v)
	return mask10(int(uint16(b) << 2))
}

// EncodeSourceRegister packs a register into the high nibble of the
// register-pair layout, with the low nibble zeroed: [r:4][0000][ARE=00:2].
func EncodeSourceRegister(r int) uint16 {
	return mask10(int(uint16(EncodeRegister(r)) << 6))
}

// EncodeDestinationRegister packs a register into the low nibble of the
// register-pair layout, with the high nibble zeroed: [0000][r:4][ARE=00:2].
func EncodeDestinationRegister(r int) uint16 {
	return mask10(int(uint16(EncodeRegister(r)) << 2))
}

// EncodeRegisterPair packs both a source and destination register into one
// shared word, used when both operands of a two-operand instruction are
// registers: [rs:4][rd:4][ARE=00:2].
func EncodeRegisterPair(rs, rd int) uint16 {
	w := uint16(EncodeRegister(rs))<<6 | uint16(EncodeRegister(rd))<<2
	return mask10(int(w))
}

// EncodeMatrixIndexWord packs the row/column index registers of a matrix
// operand using the same layout as EncodeRegisterPair.
func EncodeMatrixIndexWord(rrow, rcol int) uint16 {
	return EncodeRegisterPair(rrow, rcol)
}

// EncodeSymbolReference packs a resolved symbol value and its ARE tag:
// [value:8][ARE:2]. are must be AREExternal or ARERelocated.
func EncodeSymbolReference(value int, are ARE) uint16 {
	b := EncodeNumber8(value)
	w := uint16(b)<<2 | uint16(are&0x3)
	return mask10(int(w))
}

// PlaceholderWord is the all-zero word written during pass one for a symbol
// reference still pending resolution.
const PlaceholderWord uint16 = 0

// base4Alphabet maps each 2-bit group to its letter: 00->a 01->b 10->c 11->d.
var base4Alphabet = [4]byte{'a', 'b', 'c', 'd'}

// Base4 renders the low `pairs*2` bits of v as `pairs` base-4 letters,
// most-significant pair first.
func Base4(v int, pairs int) string {
	var sb strings.Builder
	sb.Grow(pairs)
	for i := pairs - 1; i >= 0; i-- {
		shift := uint(i * 2)
		digit := (v >> shift) & 0x3
		sb.WriteByte(base4Alphabet[digit])
	}
	return sb.String()
}

// Base4Word renders a full 10-bit word as 5 base-4 letters.
func Base4Word(bits uint16) string {
	return Base4(int(bits), 5)
}

// Base4Address renders an 8-bit-field address as 4 base-4 letters.
func Base4Address(addr int) string {
	return Base4(addr, 4)
}

// DecodeBase4 is the inverse of Base4: it reconstructs the integer value
// encoded by a base-4 string. Used by tests to assert round-trip fidelity.
func DecodeBase4(s string) (int, error) {
	v := 0
	for i := 0; i < len(s); i++ {
		v <<= 2
		switch s[i] {
		case 'a':
			v |= 0
		case 'b':
			v |= 1
		case 'c':
			v |= 2
		case 'd':
			v |= 3
		default:
			return 0, &InvalidDigitError{Digit: s[i]}
		}
	}
	return v, nil
}

// InvalidDigitError reports a byte outside the base-4 alphabet {a,b,c,d}.
type InvalidDigitError struct {
	Digit byte
}

func (e *InvalidDigitError) Error() string {
	return "invalid base-4 digit: " + string(e.Digit)
}
