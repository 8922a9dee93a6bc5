// Package emit implements the output emitter: it writes the .ob, .ent, and
// .ext artifacts using the assembler's base-4 encoding, once both passes
// have succeeded.
package emit

import (
	"bufio"
	"fmt"
	"os"

	"github.com/oisee/asm10/pkg/translate"
	"github.com/oisee/asm10/pkg/word"
)

// Object writes basename+".ob": a header line (ICF, DCF) followed by one
// line per word — every instruction word in order list order, then every
// data word.
func Object(ctx *translate.Context, basename string) error {
	f, err := os.Create(basename + ".ob")
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	icf := ctx.FinalIC() - translate.StartIC
	dcf := ctx.FinalDC()
	fmt.Fprintf(w, "\t%s\t%s\n", word.Base4(icf, 3), word.Base4(dcf, 2))

	for _, ord := range ctx.Orders {
		for _, wd := range ord.Words {
			fmt.Fprintf(w, "%s\t%s\n", word.Base4Address(wd.Address), word.Base4Word(wd.Bits))
		}
	}
	for _, wd := range ctx.DataWords {
		fmt.Fprintf(w, "%s\t%s\n", word.Base4Address(wd.Address), word.Base4Word(wd.Bits))
	}
	return w.Flush()
}

// Entry writes basename+".ent" — one line per Entry-kind symbol. The file
// is omitted entirely if there are no entry symbols.
func Entry(ctx *translate.Context, basename string) error {
	entries := ctx.Symbols.Entries()
	if len(entries) == 0 {
		return nil
	}
	f, err := os.Create(basename + ".ent")
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, sym := range entries {
		fmt.Fprintf(w, "%s\t%s\n", sym.Name, word.Base4Address(sym.Value))
	}
	return w.Flush()
}

// External writes basename+".ext" — one line per external-reference
// record. The file is omitted entirely if there were no external
// references.
func External(ctx *translate.Context, basename string) error {
	if len(ctx.Externals) == 0 {
		return nil
	}
	f, err := os.Create(basename + ".ext")
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, ref := range ctx.Externals {
		fmt.Fprintf(w, "%s\t%s\n", ref.Name, word.Base4Address(ref.Address))
	}
	return w.Flush()
}

// All writes every output artifact for basename. Callers must only call
// this once both passes have succeeded (ctx.OK()).
func All(ctx *translate.Context, basename string) error {
	if err := Object(ctx, basename); err != nil {
		return fmt.Errorf("writing %s.ob: %w", basename, err)
	}
	if err := Entry(ctx, basename); err != nil {
		return fmt.Errorf("writing %s.ent: %w", basename, err)
	}
	if err := External(ctx, basename); err != nil {
		return fmt.Errorf("writing %s.ext: %w", basename, err)
	}
	return nil
}
