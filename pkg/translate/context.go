// Package translate holds the per-file translation context: the symbol
// table, order list, data-word list, external-reference list, and the IC/DC
// counters, all constructed fresh for one input file. It is an explicit
// struct threaded through both passes and the emitter —
// nothing here survives a file boundary, so concurrent files never share
// mutable state.
package translate

import (
	"github.com/oisee/asm10/pkg/diag"
	"github.com/oisee/asm10/pkg/order"
	"github.com/oisee/asm10/pkg/symtab"
	"github.com/oisee/asm10/pkg/word"
)

// StartIC and StartDC are the initial values of the instruction and data
// counters for every file.
const (
	StartIC = 100
	StartDC = 0
)

// ExternalRef is one use of an external symbol, recorded during pass two:
// the symbol's name and the address of the reference word that names it.
type ExternalRef struct {
	Name    string
	Address int
}

// Context is the mutable state of one file's translation: everything pass
// one builds and pass two resolves.
type Context struct {
	Symbols *symtab.Table
	Orders  []*order.Order

	// DataWords accumulates every word produced by .data/.string/.mat
	// directives, in source order, at data-relative addresses until
	// FinalizeDataAddresses relocates them.
	DataWords []word.Word

	Externals []ExternalRef

	IC int
	DC int

	Pass1Diags diag.Bag
	Pass2Diags diag.Bag
}

// New constructs an empty per-file Context with counters at their initial
// values.
func New() *Context {
	return &Context{
		Symbols: symtab.New(),
		IC:      StartIC,
		DC:      StartDC,
	}
}

// FinalIC returns the instruction counter's value at the end of pass one
// (i.e. its current value, once pass one has finished driving it).
func (c *Context) FinalIC() int {
	return c.IC
}

// FinalDC returns the data counter's value at the end of pass one.
func (c *Context) FinalDC() int {
	return c.DC
}

// FinalizeDataAddresses relocates every Data-kind symbol and every
// accumulated data word from a data-relative address to its absolute
// address (data-address + final IC). Must be called exactly once, after
// pass one has finished scanning the whole file.
func (c *Context) FinalizeDataAddresses() {
	c.Symbols.RelocateData(c.IC)
	for i := range c.DataWords {
		c.DataWords[i].Address += c.IC
	}
}

// OK reports whether the file can proceed to the next stage: both pass
// diagnostic bags must be free of fatal diagnostics.
func (c *Context) OK() bool {
	return !c.Pass1Diags.HasErrors() && !c.Pass2Diags.HasErrors()
}
