// Package pass1 implements the assembler's first pass: it drives the
// preprocessed source through the tokenizer, populates the symbol table,
// computes the instruction and data counters, and emits partially-encoded
// words — symbol references are left as placeholders for pass two.
package pass1

import (
	"strings"

	"github.com/oisee/asm10/pkg/diag"
	"github.com/oisee/asm10/pkg/lex"
	"github.com/oisee/asm10/pkg/order"
	"github.com/oisee/asm10/pkg/symtab"
	"github.com/oisee/asm10/pkg/translate"
	"github.com/oisee/asm10/pkg/word"
)

// MaxBufferLen is the maximum line length accepted, including the trailing
// newline (81 = 80 characters + '\n'); a line longer than this is rejected
// as too long.
const MaxBufferLen = lex.MaxLineLen + 1

// Run drives lines (one input line per element, without trailing newlines)
// through pass one, populating ctx. Diagnostics accumulate in
// ctx.Pass1Diags; Run never stops early — every line is visited so the
// caller gets as many diagnostics as possible in one report.
func Run(ctx *translate.Context, lines []string) {
	for idx, raw := range lines {
		lineNum := idx + 1
		if len(raw)+1 > MaxBufferLen {
			ctx.Pass1Diags.Add(diag.LimitError, lineNum, "line exceeds %d characters", lex.MaxLineLen)
			continue
		}
		processLine(ctx, raw, lineNum)
	}
	ctx.FinalizeDataAddresses()
}

func processLine(ctx *translate.Context, raw string, lineNum int) {
	i := lex.SkipWS(raw, 0)
	if i >= len(raw) {
		return // empty line
	}
	if raw[i] == ';' {
		return // comment line
	}

	pendingSymbol := ""
	if name, end, ok := lex.IsSymbolDefinition(raw, i); ok {
		if len(name) > lex.MaxSymbolLen {
			ctx.Pass1Diags.Add(diag.LimitError, lineNum, "symbol name %q exceeds %d characters", name, lex.MaxSymbolLen)
			return
		}
		pendingSymbol = name
		i = lex.SkipWS(raw, end)
	}
	if i >= len(raw) {
		if pendingSymbol != "" {
			ctx.Pass1Diags.Add(diag.SyntaxError, lineNum, "label %q with no statement", pendingSymbol)
		}
		return
	}

	if dirID, dirEnd, ok := lex.IsDirective(raw, i); ok {
		handleDirective(ctx, raw, dirEnd, lineNum, dirID, pendingSymbol)
		return
	}

	handleInstruction(ctx, raw, i, lineNum, pendingSymbol)
}

func handleDirective(ctx *translate.Context, raw string, bodyStart, lineNum, dirID int, pendingSymbol string) {
	body := raw[bodyStart:]
	switch dirID {
	case lex.DirData:
		handleData(ctx, body, lineNum, pendingSymbol)
	case lex.DirString:
		handleString(ctx, body, lineNum, pendingSymbol)
	case lex.DirMat:
		handleMat(ctx, body, lineNum, pendingSymbol)
	case lex.DirExtern:
		handleExtern(ctx, body, lineNum, pendingSymbol)
	case lex.DirEntry:
		handleEntrySyntaxOnly(ctx, body, lineNum, pendingSymbol)
	}
}

func handleData(ctx *translate.Context, body string, lineNum int, pendingSymbol string) {
	values, ok := lex.IsLegalDataInitializer(body)
	if !ok {
		ctx.Pass1Diags.Add(diag.SyntaxError, lineNum, "illegal .data initializer %q", strings.TrimSpace(body))
		return
	}
	if pendingSymbol != "" {
		addSymbol(ctx, pendingSymbol, symtab.Data, ctx.DC, lineNum)
	}
	for _, v := range values {
		ctx.DataWords = append(ctx.DataWords, word.Word{
			Bits:    word.EncodeNumber10(v),
			Address: ctx.DC,
			Kind:    word.KindData,
		})
		ctx.DC++
	}
}

func handleString(ctx *translate.Context, body string, lineNum int, pendingSymbol string) {
	contents, ok := lex.IsLegalString(body)
	if !ok {
		ctx.Pass1Diags.Add(diag.SyntaxError, lineNum, "illegal .string literal %q", strings.TrimSpace(body))
		return
	}
	if pendingSymbol != "" {
		addSymbol(ctx, pendingSymbol, symtab.Data, ctx.DC, lineNum)
	}
	for i := 0; i < len(contents); i++ {
		ctx.DataWords = append(ctx.DataWords, word.Word{
			Bits:    word.EncodeChar(contents[i]),
			Address: ctx.DC,
			Kind:    word.KindData,
		})
		ctx.DC++
	}
	ctx.DataWords = append(ctx.DataWords, word.Word{Bits: 0, Address: ctx.DC, Kind: word.KindData})
	ctx.DC++
}

func handleMat(ctx *translate.Context, body string, lineNum int, pendingSymbol string) {
	rows, cols, values, ok := lex.IsLegalMat(body)
	if !ok {
		ctx.Pass1Diags.Add(diag.SyntaxError, lineNum, "illegal .mat declaration %q", strings.TrimSpace(body))
		return
	}
	if pendingSymbol != "" {
		addSymbol(ctx, pendingSymbol, symtab.Data, ctx.DC, lineNum)
	}
	cells := rows * cols
	for cellIdx := 0; cellIdx < cells; cellIdx++ {
		v := 0
		if cellIdx < len(values) {
			v = values[cellIdx]
		}
		// Trailing cells beyond the initializer are emitted as explicit
		// zero words, not merely reserved.
		ctx.DataWords = append(ctx.DataWords, word.Word{
			Bits:    word.EncodeNumber10(v),
			Address: ctx.DC,
			Kind:    word.KindData,
		})
		ctx.DC++
	}
}

func handleExtern(ctx *translate.Context, body string, lineNum int, pendingSymbol string) {
	if pendingSymbol != "" {
		ctx.Pass1Diags.AddWarning(lineNum, "label %q on .extern line is ignored", pendingSymbol)
	}
	i := lex.SkipWS(body, 0)
	name, end, ok := lex.IsSymbol(body, i)
	if !ok || !allWS(body[end:]) {
		ctx.Pass1Diags.Add(diag.SyntaxError, lineNum, "illegal .extern symbol name %q", strings.TrimSpace(body))
		return
	}
	if len(name) > lex.MaxSymbolLen {
		ctx.Pass1Diags.Add(diag.LimitError, lineNum, "symbol name %q exceeds %d characters", name, lex.MaxSymbolLen)
		return
	}
	if _, err := ctx.Symbols.Add(name, symtab.External); err != nil {
		ctx.Pass1Diags.Add(diag.SymbolError, lineNum, "%s", err)
	}
}

func allWS(s string) bool {
	return strings.TrimSpace(s) == ""
}

func handleEntrySyntaxOnly(ctx *translate.Context, body string, lineNum int, pendingSymbol string) {
	if pendingSymbol != "" {
		ctx.Pass1Diags.AddWarning(lineNum, "label %q on .entry line is ignored", pendingSymbol)
	}
	i := lex.SkipWS(body, 0)
	name, end, ok := lex.IsSymbol(body, i)
	if !ok || !allWS(body[end:]) {
		ctx.Pass1Diags.Add(diag.SyntaxError, lineNum, "illegal .entry symbol name %q", strings.TrimSpace(body))
		return
	}
	if len(name) > lex.MaxSymbolLen {
		ctx.Pass1Diags.Add(diag.LimitError, lineNum, "symbol name %q exceeds %d characters", name, lex.MaxSymbolLen)
	}
}

func addSymbol(ctx *translate.Context, name string, kind symtab.Kind, value int, lineNum int) {
	sym, err := ctx.Symbols.Add(name, kind)
	if err != nil {
		ctx.Pass1Diags.Add(diag.SymbolError, lineNum, "%s", err)
		return
	}
	ctx.Symbols.SetValue(sym, value)
}

// operand is the parsed shape of one instruction operand.
type operand struct {
	mode   order.Mode
	reg    int
	symbol string
	rrow   int
	rcol   int
	imm    int
}

func parseOperand(text string) (operand, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return operand{}, false
	}
	if v, end, ok := lex.IsImmediate(text, 0); ok && end == len(text) {
		return operand{mode: order.ModeImmediate, imm: v}, true
	}
	if r, end, _, ok := lex.IsRegister(text, 0); ok && end == len(text) {
		return operand{mode: order.ModeRegister, reg: r}, true
	}
	// "r" followed only by digits is a register outside r0..r7, not a symbol.
	if len(text) >= 2 && text[0] == 'r' && strings.Trim(text[1:], "0123456789") == "" {
		return operand{}, false
	}
	if name, rrow, rcol, end, ok := lex.IsMatrixOperand(text, 0); ok && end == len(text) {
		return operand{mode: order.ModeMatrix, symbol: name, rrow: rrow, rcol: rcol}, true
	}
	if name, end, ok := lex.IsSymbol(text, 0); ok && end == len(text) {
		return operand{mode: order.ModeDirect, symbol: name}, true
	}
	return operand{}, false
}

func handleInstruction(ctx *translate.Context, raw string, i, lineNum int, pendingSymbol string) {
	name, end, ok := lex.IsSymbol(raw, i)
	if !ok {
		ctx.Pass1Diags.Add(diag.SyntaxError, lineNum, "unrecognized statement %q", strings.TrimSpace(raw[i:]))
		return
	}
	opcode, known := order.Lookup(name)
	if !known {
		ctx.Pass1Diags.Add(diag.SyntaxError, lineNum, "unknown mnemonic %q", name)
		return
	}
	if pendingSymbol != "" {
		addSymbol(ctx, pendingSymbol, symtab.Code, ctx.IC, lineNum)
	}

	operandText := strings.TrimSpace(raw[end:])
	wantOperands := order.OperandCount(name)

	var operands []operand
	if operandText != "" {
		errType := lex.GetDataCommaErrorType(operandText)
		if errType != lex.CommaOK {
			ctx.Pass1Diags.Add(diag.LexError, lineNum, "illegal comma placement in operand list")
			return
		}
		for _, part := range strings.Split(operandText, ",") {
			op, opOK := parseOperand(part)
			if !opOK {
				ctx.Pass1Diags.Add(diag.SyntaxError, lineNum, "illegal operand %q", strings.TrimSpace(part))
				return
			}
			operands = append(operands, op)
		}
	}

	if len(operands) != wantOperands {
		ctx.Pass1Diags.Add(diag.SyntaxError, lineNum, "%s expects %d operand(s), got %d", name, wantOperands, len(operands))
		return
	}

	var src, dst *operand
	switch wantOperands {
	case 1:
		dst = &operands[0]
	case 2:
		src = &operands[0]
		dst = &operands[1]
	}

	srcMode, dstMode := order.ModeNone, order.ModeNone
	if src != nil {
		srcMode = src.mode
	}
	if dst != nil {
		dstMode = dst.mode
	}

	defective := false
	if src != nil && !order.ModeAllowed(name, src.mode, true) {
		ctx.Pass1Diags.Add(diag.ModeError, lineNum, "%s does not allow source addressing mode %d", name, src.mode)
		defective = true
	}
	if dst != nil && !order.ModeAllowed(name, dst.mode, false) {
		ctx.Pass1Diags.Add(diag.ModeError, lineNum, "%s does not allow destination addressing mode %d", name, dst.mode)
		defective = true
	}

	ord := &order.Order{IC: ctx.IC, Opcode: opcode, SrcMode: srcMode, DstMode: dstMode, Line: lineNum, Defective: defective}
	ord.Words = append(ord.Words, word.Word{Bits: word.EncodeInstructionWord(opcode, int(srcMode), int(dstMode)), Kind: word.KindInstruction})

	if srcMode == order.ModeRegister && dstMode == order.ModeRegister {
		ord.Words = append(ord.Words, word.Word{Bits: word.EncodeRegisterPair(src.reg, dst.reg), Kind: word.KindInstruction})
	} else {
		if src != nil {
			appendOperandWords(ord, *src, true)
		}
		if dst != nil {
			appendOperandWords(ord, *dst, false)
		}
	}

	for i := range ord.Words {
		ord.Words[i].Address = ctx.IC + i
	}

	ctx.Orders = append(ctx.Orders, ord)
	ctx.IC += len(ord.Words)
}

func appendOperandWords(ord *order.Order, op operand, isSrc bool) {
	switch op.mode {
	case order.ModeImmediate:
		ord.Words = append(ord.Words, word.Word{Bits: word.EncodeImmediate(op.imm), Kind: word.KindInstruction})
	case order.ModeRegister:
		var bits uint16
		if isSrc {
			bits = word.EncodeSourceRegister(op.reg)
		} else {
			bits = word.EncodeDestinationRegister(op.reg)
		}
		ord.Words = append(ord.Words, word.Word{Bits: bits, Kind: word.KindInstruction})
	case order.ModeDirect:
		ord.Words = append(ord.Words, word.Word{Bits: word.PlaceholderWord, Kind: word.KindInstruction})
		ref := &order.SymbolRef{Name: op.symbol, WordIndex: len(ord.Words) - 1}
		if isSrc {
			ord.SrcRef = ref
		} else {
			ord.DstRef = ref
		}
	case order.ModeMatrix:
		ord.Words = append(ord.Words, word.Word{Bits: word.PlaceholderWord, Kind: word.KindInstruction})
		ref := &order.SymbolRef{Name: op.symbol, WordIndex: len(ord.Words) - 1}
		if isSrc {
			ord.SrcRef = ref
		} else {
			ord.DstRef = ref
		}
		ord.Words = append(ord.Words, word.Word{Bits: word.EncodeMatrixIndexWord(op.rrow, op.rcol), Kind: word.KindInstruction})
	}
}
