package diagfmt

import (
	"encoding/json"
	"io"

	"sigil/internal/diag"
	"sigil/internal/source"
)

// jsonDiag is the machine-readable shape, one object per line. Codes are
// stable strings (SIGnnnn); positions are 1-based.
type jsonDiag struct {
	Severity string     `json:"severity"`
	Code     string     `json:"code"`
	Message  string     `json:"message"`
	File     string     `json:"file"`
	Line     uint32     `json:"line"`
	Col      uint32     `json:"col"`
	EndLine  uint32     `json:"end_line"`
	EndCol   uint32     `json:"end_col"`
	Notes    []jsonNote `json:"notes,omitempty"`
}

type jsonNote struct {
	Message string `json:"message"`
	File    string `json:"file"`
	Line    uint32 `json:"line"`
	Col     uint32 `json:"col"`
}

// WriteJSON emits the bag as newline-delimited JSON objects.
func WriteJSON(out io.Writer, fset *source.FileSet, bag *diag.Bag) error {
	enc := json.NewEncoder(out)
	for _, d := range bag.Items() {
		jd := jsonDiag{
			Severity: d.Severity.String(),
			Code:     d.Code.String(),
			Message:  d.Message,
		}
		if f := fset.Get(d.Primary.File); f != nil {
			start, end := fset.Resolve(d.Primary)
			jd.File = f.Path
			jd.Line, jd.Col = start.Line, start.Col
			jd.EndLine, jd.EndCol = end.Line, end.Col
		}
		for _, n := range d.Notes {
			jn := jsonNote{Message: n.Msg}
			if f := fset.Get(n.Span.File); f != nil {
				start, _ := fset.Resolve(n.Span)
				jn.File = f.Path
				jn.Line, jn.Col = start.Line, start.Col
			}
			jd.Notes = append(jd.Notes, jn)
		}
		if err := enc.Encode(jd); err != nil {
			return err
		}
	}
	return nil
}
