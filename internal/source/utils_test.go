package source

import (
	"bytes"
	"testing"
)

func TestNormalizeCRLF(t *testing.T) {
	got, changed := normalizeCRLF([]byte("a\r\nb\rc\n"))
	if !changed {
		t.Error("ожидали changed=true при наличии \\r\\n")
	}
	if !bytes.Equal(got, []byte("a\nb\rc\n")) {
		t.Errorf("неверная нормализация: %q", got)
	}

	// Быстрый путь без \r
	src := []byte("plain\n")
	got, changed = normalizeCRLF(src)
	if changed {
		t.Error("ожидали changed=false без \\r")
	}
	if !bytes.Equal(got, src) {
		t.Errorf("контент не должен меняться: %q", got)
	}
}

func TestRemoveBOM(t *testing.T) {
	got, had := removeBOM([]byte{0xEF, 0xBB, 0xBF, 'h', 'i'})
	if !had || string(got) != "hi" {
		t.Errorf("BOM должен быть удалён: %q, had=%v", got, had)
	}

	got, had = removeBOM([]byte("hi"))
	if had || string(got) != "hi" {
		t.Errorf("контент без BOM не должен меняться: %q, had=%v", got, had)
	}
}

func TestToLineCol(t *testing.T) {
	content := []byte("ab\ncd\n\nef")
	idx := buildLineIndex(content)

	cases := []struct {
		off  uint32
		line uint32
		col  uint32
	}{
		{0, 1, 1}, // 'a'
		{1, 1, 2}, // 'b'
		{2, 1, 3}, // '\n' принадлежит первой строке
		{3, 2, 1}, // 'c'
		{6, 3, 1}, // пустая строка
		{7, 4, 1}, // 'e'
		{8, 4, 2}, // 'f'
	}
	for _, tc := range cases {
		got := toLineCol(idx, tc.off)
		if got.Line != tc.line || got.Col != tc.col {
			t.Errorf("toLineCol(%d) = %d:%d, ожидали %d:%d", tc.off, got.Line, got.Col, tc.line, tc.col)
		}
	}

	// Файл без переводов строк: всё на первой строке
	got := toLineCol(nil, 5)
	if got.Line != 1 || got.Col != 6 {
		t.Errorf("toLineCol без индекса = %d:%d, ожидали 1:6", got.Line, got.Col)
	}
}

func TestFileSetResolveAndGetLine(t *testing.T) {
	fset := NewFileSet()
	id := fset.AddVirtual("main.sg", []byte("fn main() {\n    let x = 1;\n}\n"))

	span := Span{File: id, Start: 16, End: 25} // "let x = 1"
	start, end := fset.Resolve(span)
	if start.Line != 2 || start.Col != 5 {
		t.Errorf("start = %d:%d, ожидали 2:5", start.Line, start.Col)
	}
	if end.Line != 2 || end.Col != 14 {
		t.Errorf("end = %d:%d, ожидали 2:14", end.Line, end.Col)
	}

	f := fset.Get(id)
	if f == nil {
		t.Fatal("Get вернул nil для валидного ID")
	}
	if got := f.GetLine(2); got != "    let x = 1;" {
		t.Errorf("GetLine(2) = %q", got)
	}
	if got := f.GetLine(99); got != "" {
		t.Errorf("GetLine за пределами файла должен быть пустым: %q", got)
	}
}

func TestRestoreFileSetKeepsIDs(t *testing.T) {
	fset := NewFileSet()
	a := fset.AddVirtual("a.sg", []byte("one\n"))
	b := fset.AddVirtual("b.sg", []byte("two\n"))

	restored := RestoreFileSet(fset.Files())
	if restored.Len() != 2 {
		t.Fatalf("Len после Restore: %d", restored.Len())
	}
	if got := restored.Get(a); got == nil || got.Path != "a.sg" {
		t.Errorf("ID %d должен указывать на a.sg", a)
	}
	if got := restored.Get(b); got == nil || got.Path != "b.sg" {
		t.Errorf("ID %d должен указывать на b.sg", b)
	}
}
