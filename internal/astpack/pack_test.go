package astpack

import (
	"errors"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"sigil/internal/ast"
	"sigil/internal/source"
)

// buildSample собирает маленький модуль: fn f(n: i32) -> i32 { return n + 1; }
func buildSample() (*ast.Builder, *source.FileSet, *source.Interner, ast.ExprID) {
	b := ast.NewBuilder(ast.Hints{})
	fset := source.NewFileSet()
	strs := source.NewInterner()

	src := fset.AddVirtual("main.sg", []byte("fn f(n: i32) -> i32 { return n + 1; }\n"))
	sp := func(start, end uint32) source.Span {
		return source.Span{File: src, Start: start, End: end}
	}

	file := b.NewFile(sp(0, 38), []source.StringID{strs.Intern("app")})

	i32 := b.Types.NewPath(sp(8, 11), []source.StringID{strs.Intern("i32")})
	ret := b.Types.NewPath(sp(16, 19), []source.StringID{strs.Intern("i32")})

	n := b.Exprs.NewIdent(sp(29, 30), strs.Intern("n"))
	one := b.Exprs.NewLiteral(sp(33, 34), ast.ExprLitInt, strs.Intern("1"))
	sum := b.Exprs.NewBinary(sp(29, 34), ast.ExprBinaryAdd, n, one)
	body := b.Stmts.NewBlock(sp(20, 38), []ast.StmtID{b.Stmts.NewReturn(sp(22, 35), sum)})

	p := b.Items.NewFnParam(strs.Intern("n"), sp(5, 6), i32, false, sp(5, 11))
	fn := b.Items.NewFn(strs.Intern("f"), sp(3, 4), source.NoStringID, ast.VisPublic,
		nil, []ast.FnParamID{p}, false, ret, body, sp(0, 38))
	b.PushItem(file, fn)

	return b, fset, strs, sum
}

func TestEncodeDecodeRoundtrip(t *testing.T) {
	b, fset, strs, sum := buildSample()

	blob, err := Encode(b, fset, strs)
	if err != nil {
		t.Fatal(err)
	}
	rb, rfset, rstrs, err := Decode(blob)
	if err != nil {
		t.Fatal(err)
	}

	// идентификаторы узлов сохраняются как есть
	expr := rb.Exprs.Get(sum)
	if expr == nil || expr.Kind != ast.ExprBinary {
		t.Fatalf("expr %d not restored as binary", sum)
	}
	bin, ok := rb.Exprs.Binary(sum)
	if !ok || bin.Op != ast.ExprBinaryAdd {
		t.Error("binary payload lost in roundtrip")
	}

	orig := b.Exprs.Get(sum)
	if expr.Span != orig.Span {
		t.Errorf("span changed: %+v vs %+v", expr.Span, orig.Span)
	}

	// строки держат те же ID
	name := strs.Intern("n")
	got, ok := rstrs.Lookup(name)
	if !ok || got != "n" {
		t.Errorf("string %d restored as %q", name, got)
	}

	// исходники восстановимы по спанам
	gotStart, _ := rfset.Resolve(expr.Span)
	wantStart, _ := fset.Resolve(orig.Span)
	if gotStart != wantStart {
		t.Errorf("line mapping lost: %+v vs %+v", gotStart, wantStart)
	}

	file := rb.Files.Get(ast.FileID(1))
	if file == nil || len(file.Items) != 1 {
		t.Fatal("file item list lost in roundtrip")
	}
}

func TestDecodeRejectsWrongSchema(t *testing.T) {
	blob, err := msgpack.Marshal(&Snapshot{Version: SchemaVersion + 1})
	if err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := Decode(blob); !errors.Is(err, ErrSchemaVersion) {
		t.Fatalf("err = %v, want ErrSchemaVersion", err)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, _, _, err := Decode([]byte{0xc1, 0x00, 0xff}); err == nil {
		t.Fatal("garbage input must fail to decode")
	}
}

func TestRoundtripFeedsChecker(t *testing.T) {
	b, fset, strs, _ := buildSample()
	blob, err := Encode(b, fset, strs)
	if err != nil {
		t.Fatal(err)
	}
	rb, rfset, rstrs, err := Decode(blob)
	if err != nil {
		t.Fatal(err)
	}

	// восстановленный билдер принимает новые узлы с продолжением нумерации
	before := rb.Exprs.Arena.Len()
	id := rb.Exprs.NewIdent(source.Span{File: 1, Start: 0, End: 1}, rstrs.Intern("m"))
	if uint32(id) != before+1 {
		t.Errorf("new node id = %d, want %d", id, before+1)
	}
	_ = rfset
}
