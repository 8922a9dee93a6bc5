package translate

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/oisee/asm10/pkg/diag"
	"github.com/oisee/asm10/pkg/emit"
	"github.com/oisee/asm10/pkg/macro"
	"github.com/oisee/asm10/pkg/pass1"
	"github.com/oisee/asm10/pkg/pass2"
)

// Options configures one file's translation run.
type Options struct {
	// KeepAMOnError leaves the .am file on disk even when the file fails to
	// assemble. Default behavior (false) removes it.
	KeepAMOnError bool

	// OutputDir, if set, redirects .am/.ob/.ent/.ext output to this
	// directory instead of alongside BASENAME.as.
	OutputDir string
}

// Summary reports the outcome of translating one BASENAME.
type Summary struct {
	Basename         string
	Success          bool
	InstructionWords int
	DataWords        int
	Symbols          int
	Diagnostics      []diag.Diagnostic
	Warnings         []diag.Diagnostic
}

// ProcessFile runs the complete pipeline for one BASENAME: read
// BASENAME.as, macro-expand it into BASENAME.am, run pass one and pass
// two, and (on success) write BASENAME.ob / .ent / .ext. Per-file errors
// are reported in the returned Summary rather than as a Go error; a
// non-nil error return means an I/O failure: BASENAME.as could not be
// read, or the .am file or an output file could not be written.
func ProcessFile(basename string, opts Options) (*Summary, error) {
	lines, err := readLines(basename + ".as")
	if err != nil {
		return nil, fmt.Errorf("reading %s.as: %w", basename, err)
	}

	outBasename := basename
	if opts.OutputDir != "" {
		outBasename = filepath.Join(opts.OutputDir, filepath.Base(basename))
	}

	var macroDiags diag.Bag
	result := macro.Preprocess(lines, &macroDiags)

	amPath := outBasename + ".am"
	if err := writeLines(amPath, result.Lines); err != nil {
		return nil, fmt.Errorf("writing %s: %w", amPath, err)
	}

	summary := &Summary{Basename: basename}
	summary.Diagnostics = append(summary.Diagnostics, macroDiags.All()...)

	if !result.OK {
		summary.Success = false
		cleanupAM(amPath, opts)
		return summary, nil
	}

	ctx := New()
	pass1.Run(ctx, result.Lines)
	summary.Diagnostics = append(summary.Diagnostics, ctx.Pass1Diags.All()...)
	summary.Warnings = append(summary.Warnings, ctx.Pass1Diags.Warnings()...)

	if ctx.Pass1Diags.HasErrors() {
		summary.Success = false
		cleanupAM(amPath, opts)
		return summary, nil
	}

	pass2.Run(ctx, result.Lines)
	summary.Diagnostics = append(summary.Diagnostics, ctx.Pass2Diags.All()...)
	summary.Warnings = append(summary.Warnings, ctx.Pass2Diags.Warnings()...)

	if !ctx.OK() {
		summary.Success = false
		cleanupAM(amPath, opts)
		return summary, nil
	}

	if err := emit.All(ctx, outBasename); err != nil {
		return nil, err
	}

	summary.Success = true
	summary.InstructionWords = countInstructionWords(ctx)
	summary.DataWords = len(ctx.DataWords)
	summary.Symbols = len(ctx.Symbols.All())
	return summary, nil
}

func countInstructionWords(ctx *Context) int {
	n := 0
	for _, ord := range ctx.Orders {
		n += ord.NumberOfWords()
	}
	return n
}

func cleanupAM(path string, opts Options) {
	if opts.KeepAMOnError {
		return
	}
	os.Remove(path)
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	// A generous cap well above the 80-char limit pass one enforces, so an
	// over-long line is read in full and reported as a LimitError instead
	// of aborting the whole scan with bufio.ErrTooLong.
	sc.Buffer(make([]byte, 0, 4096), 1<<20)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func writeLines(path string, lines []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
	return w.Flush()
}
