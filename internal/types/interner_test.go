package types

import (
	"testing"

	"sigil/internal/source"
)

func TestInternerBuiltinsStable(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()

	if b.Invalid != NoTypeID {
		t.Errorf("Invalid должен совпадать с NoTypeID, получили %d", b.Invalid)
	}
	if b.Unit == NoTypeID || b.Bool == NoTypeID || b.I32 == NoTypeID {
		t.Fatal("встроенные типы не должны быть NoTypeID")
	}

	// Повторный Intern того же дескриптора возвращает тот же ID
	if got := in.Intern(MakeInt(Width32)); got != b.I32 {
		t.Errorf("Intern(i32) = %d, ожидали %d", got, b.I32)
	}
	if got := in.Intern(MakeUint(Width32)); got == b.I32 {
		t.Error("u32 и i32 не должны делить один ID")
	}
}

func TestInternerArraysStructural(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()

	a1 := in.Intern(MakeArray(b.I32, 4))
	a2 := in.Intern(MakeArray(b.I32, 4))
	a3 := in.Intern(MakeArray(b.I32, 5))

	if a1 != a2 {
		t.Errorf("одинаковые массивы должны делить ID: %d != %d", a1, a2)
	}
	if a1 == a3 {
		t.Error("массивы разной длины должны иметь разные ID")
	}
}

func TestInternFnDedup(t *testing.T) {
	in := NewInterner()
	b := in.Builtins()

	f1 := in.InternFn([]TypeID{b.I32, b.Bool}, b.Unit)
	f2 := in.InternFn([]TypeID{b.I32, b.Bool}, b.Unit)
	f3 := in.InternFn([]TypeID{b.I32}, b.Unit)
	f4 := in.InternFn([]TypeID{b.I32, b.Bool}, b.Bool)

	if f1 != f2 {
		t.Errorf("одинаковые сигнатуры должны делить ID: %d != %d", f1, f2)
	}
	if f1 == f3 || f1 == f4 {
		t.Error("разные сигнатуры не должны делить ID")
	}

	info, ok := in.FnOf(f1)
	if !ok {
		t.Fatal("FnOf не нашёл интернированный тип")
	}
	if len(info.Params) != 2 || info.Params[0] != b.I32 || info.Result != b.Unit {
		t.Errorf("неверная информация о типе: %+v", info)
	}
}

func TestRegisterStructTwoPhase(t *testing.T) {
	strs := source.NewInterner()
	in := NewInterner()
	b := in.Builtins()

	name := strs.Intern("Point")
	id := in.RegisterStruct(name)

	info, ok := in.StructOf(id)
	if !ok {
		t.Fatal("StructOf не нашёл зарегистрированный struct")
	}
	if len(info.Fields) != 0 {
		t.Fatalf("поля до SetStructFields: %d", len(info.Fields))
	}

	in.SetStructFields(id, []FieldInfo{
		{Name: strs.Intern("x"), Type: b.I32},
		{Name: strs.Intern("y"), Type: b.I32},
	})
	info, _ = in.StructOf(id)
	if len(info.Fields) != 2 {
		t.Fatalf("ожидали 2 поля, получили %d", len(info.Fields))
	}

	// Одноимённые struct'ы из разных объявлений различимы по Payload
	other := in.RegisterStruct(name)
	if other == id {
		t.Error("повторная регистрация struct должна давать новый ID")
	}
}

func TestRegisterEnumVariants(t *testing.T) {
	strs := source.NewInterner()
	in := NewInterner()

	id := in.RegisterEnum(strs.Intern("Color"))
	in.SetEnumVariants(id, []source.StringID{strs.Intern("Red"), strs.Intern("Green")})

	info, ok := in.EnumOf(id)
	if !ok {
		t.Fatal("EnumOf не нашёл зарегистрированный enum")
	}
	if len(info.Variants) != 2 {
		t.Fatalf("ожидали 2 варианта, получили %d", len(info.Variants))
	}
}

func TestNewGenericAlwaysFresh(t *testing.T) {
	strs := source.NewInterner()
	in := NewInterner()

	name := strs.Intern("T")
	g1 := in.NewGeneric(name)
	g2 := in.NewGeneric(name)
	if g1 == g2 {
		t.Error("параметры разных объявлений не должны унифицироваться через общий ID")
	}
}

func TestLabel(t *testing.T) {
	strs := source.NewInterner()
	in := NewInterner()
	b := in.Builtins()

	cases := []struct {
		id   TypeID
		want string
	}{
		{b.Unit, "unit"},
		{b.Bool, "bool"},
		{b.I64, "i64"},
		{b.U8, "u8"},
		{b.Unresolved, "<unresolved>"},
		{in.Intern(MakeArray(b.I32, 3)), "[i32; 3]"},
		{in.InternFn([]TypeID{b.I32, b.Bool}, b.String), "fn(i32, bool) -> string"},
		{in.RegisterStruct(strs.Intern("Point")), "Point"},
		{NoTypeID, "<invalid>"},
	}
	for _, tc := range cases {
		if got := in.Label(tc.id, strs); got != tc.want {
			t.Errorf("Label(%d) = %q, ожидали %q", tc.id, got, tc.want)
		}
	}
}
