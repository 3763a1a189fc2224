// Package diagfmt renders diagnostics for humans and tools.
package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"sigil/internal/diag"
	"sigil/internal/source"
)

// Printer writes human-readable diagnostics with source excerpts and
// caret markers.
type Printer struct {
	out   io.Writer
	fset  *source.FileSet
	color bool
}

// NewPrinter builds a printer over the file set the diagnostics refer to.
func NewPrinter(out io.Writer, fset *source.FileSet, useColor bool) *Printer {
	return &Printer{out: out, fset: fset, color: useColor}
}

func (p *Printer) paint(c *color.Color, s string) string {
	if !p.color {
		return s
	}
	return c.Sprint(s)
}

var (
	errColor  = color.New(color.FgRed, color.Bold)
	warnColor = color.New(color.FgYellow, color.Bold)
	infoColor = color.New(color.FgCyan, color.Bold)
	boldColor = color.New(color.Bold)
	dimColor  = color.New(color.FgBlue)
)

func (p *Printer) severityTag(sev diag.Severity, code diag.Code) string {
	tag := fmt.Sprintf("%s[%s]", strings.ToLower(sev.String()), code)
	switch sev {
	case diag.SevError:
		return p.paint(errColor, tag)
	case diag.SevWarning:
		return p.paint(warnColor, tag)
	default:
		return p.paint(infoColor, tag)
	}
}

// Print renders one diagnostic: the header, the primary excerpt with a
// caret run, then each note with its own excerpt.
func (p *Printer) Print(d diag.Diagnostic) {
	fmt.Fprintf(p.out, "%s: %s\n", p.severityTag(d.Severity, d.Code), p.paint(boldColor, d.Message))
	p.printSpan(d.Primary, "")
	for _, n := range d.Notes {
		fmt.Fprintf(p.out, "  %s: %s\n", p.paint(dimColor, "note"), n.Msg)
		p.printSpan(n.Span, "  ")
	}
	fmt.Fprintln(p.out)
}

// PrintBag renders every diagnostic in the bag in its current order.
func (p *Printer) PrintBag(bag *diag.Bag) {
	for _, d := range bag.Items() {
		p.Print(d)
	}
}

func (p *Printer) printSpan(sp source.Span, indent string) {
	file := p.fset.Get(sp.File)
	if file == nil {
		return
	}
	start, end := p.fset.Resolve(sp)
	fmt.Fprintf(p.out, "%s %s %s:%d:%d\n", indent, p.paint(dimColor, "-->"), file.Path, start.Line, start.Col)

	line := file.GetLine(start.Line)
	if line == "" {
		return
	}
	gutter := fmt.Sprintf("%d | ", start.Line)
	fmt.Fprintf(p.out, "%s%s%s\n", indent, p.paint(dimColor, gutter), line)

	// подчёркивание: ширина префикса в терминальных колонках
	prefixCols := len(gutter)
	col := int(start.Col) - 1
	if col > len(line) {
		col = len(line)
	}
	prefixCols += runewidth.StringWidth(line[:col])

	markerLen := 1
	if end.Line == start.Line && end.Col > start.Col {
		markerLen = runewidth.StringWidth(sliceCols(line, col, int(end.Col)-1))
	}
	marker := strings.Repeat(" ", prefixCols) + strings.Repeat("^", markerLen)
	fmt.Fprintf(p.out, "%s%s\n", indent, p.paint(errColor, marker))
}

func sliceCols(line string, from, to int) string {
	if from < 0 {
		from = 0
	}
	if to > len(line) {
		to = len(line)
	}
	if from >= to {
		return " "
	}
	return line[from:to]
}
