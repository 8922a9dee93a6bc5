// Package pass2 implements the assembler's second pass: it recognizes
// entry declarations, resolves forward symbol references left as
// placeholders by pass one, and records external-reference entries.
package pass2

import (
	"github.com/oisee/asm10/pkg/diag"
	"github.com/oisee/asm10/pkg/lex"
	"github.com/oisee/asm10/pkg/order"
	"github.com/oisee/asm10/pkg/symtab"
	"github.com/oisee/asm10/pkg/translate"
	"github.com/oisee/asm10/pkg/word"
)

// Run drives the preprocessed source (the same line stream pass one saw)
// through pass two: promote .entry symbols, then resolve every pending
// symbol reference recorded on ctx.Orders. Diagnostics accumulate in
// ctx.Pass2Diags.
func Run(ctx *translate.Context, lines []string) {
	for idx, raw := range lines {
		lineNum := idx + 1
		processEntryLine(ctx, raw, lineNum)
	}
	resolveReferences(ctx)
}

func processEntryLine(ctx *translate.Context, raw string, lineNum int) {
	i := lex.SkipWS(raw, 0)
	if i >= len(raw) || raw[i] == ';' {
		return
	}
	if _, end, ok := lex.IsSymbolDefinition(raw, i); ok {
		i = lex.SkipWS(raw, end)
	}
	if i >= len(raw) {
		return
	}
	dirID, dirEnd, ok := lex.IsDirective(raw, i)
	if !ok || dirID != lex.DirEntry {
		return
	}
	body := raw[dirEnd:]
	j := lex.SkipWS(body, 0)
	name, _, ok := lex.IsSymbol(body, j)
	if !ok {
		return // pass one already reported the syntax fault
	}
	sym, found := ctx.Symbols.Lookup(name)
	if !found {
		ctx.Pass2Diags.Add(diag.SymbolError, lineNum, "entry declaration of unknown symbol %q", name)
		return
	}
	ctx.Symbols.PromoteEntry(sym)
}

func resolveReferences(ctx *translate.Context) {
	for _, ord := range ctx.Orders {
		resolveRef(ctx, ord, ord.SrcRef)
		resolveRef(ctx, ord, ord.DstRef)
	}
}

func resolveRef(ctx *translate.Context, ord *order.Order, ref *order.SymbolRef) {
	if ref == nil {
		return
	}
	sym, found := ctx.Symbols.Lookup(ref.Name)
	if !found {
		ctx.Pass2Diags.Add(diag.SymbolError, ord.Line, "undefined symbol %q", ref.Name)
		return
	}
	w := &ord.Words[ref.WordIndex]
	if sym.Kind == symtab.External {
		w.Bits = word.EncodeSymbolReference(0, word.AREExternal)
		ctx.Externals = append(ctx.Externals, translate.ExternalRef{Name: sym.Name, Address: w.Address})
		return
	}
	w.Bits = word.EncodeSymbolReference(sym.Value, word.ARERelocated)
}
