package ast

import (
	"sigil/internal/source"
)

// File is the root node of one parsed source file. Module holds the
// declared module path segments; files sharing a module path are checked
// as a single module.
type File struct {
	Span   source.Span
	Module []source.StringID
	Items  []ItemID
}

type Files struct {
	Arena *Arena[File]
}

func NewFiles(capHint uint) *Files {
	return &Files{
		Arena: NewArena[File](capHint),
	}
}

func (f *Files) New(sp source.Span, module []source.StringID) FileID {
	return FileID(f.Arena.Allocate(File{
		Span:   sp,
		Module: append([]source.StringID(nil), module...),
		Items:  make([]ItemID, 0),
	}))
}

func (f *Files) Get(id FileID) *File {
	return f.Arena.Get(uint32(id))
}
