package source

import "testing"

func TestInternerBasic(t *testing.T) {
	interner := NewInterner()

	// NoStringID зарезервирован за пустой строкой
	if s, ok := interner.Lookup(NoStringID); !ok || s != "" {
		t.Errorf("NoStringID должен возвращать пустую строку, получили: %q, ok=%v", s, ok)
	}

	id1 := interner.Intern("hello")
	if id1 == NoStringID {
		t.Error("Intern не должен возвращать NoStringID для непустой строки")
	}

	id2 := interner.Intern("hello")
	if id1 != id2 {
		t.Errorf("одинаковые строки должны получать одинаковые ID: %d != %d", id1, id2)
	}

	if s, ok := interner.Lookup(id1); !ok || s != "hello" {
		t.Errorf("Lookup вернул неверную строку: %q, ok=%v", s, ok)
	}

	id3 := interner.Intern("world")
	if id3 == id1 {
		t.Error("разные строки должны иметь разные ID")
	}

	if interner.Len() != 3 { // "", "hello", "world"
		t.Errorf("Len должен быть 3, получили: %d", interner.Len())
	}
}

func TestInternerHas(t *testing.T) {
	interner := NewInterner()

	if !interner.Has(NoStringID) {
		t.Error("Has должен возвращать true для NoStringID")
	}

	id := interner.Intern("test")
	if !interner.Has(id) {
		t.Error("Has должен возвращать true для валидного ID")
	}

	if interner.Has(StringID(9999)) {
		t.Error("Has должен возвращать false для несуществующего ID")
	}
}

func TestInternerMustLookupPanics(t *testing.T) {
	interner := NewInterner()

	id := interner.Intern("test")
	if s := interner.MustLookup(id); s != "test" {
		t.Errorf("MustLookup вернул неверную строку: %q", s)
	}

	defer func() {
		if r := recover(); r == nil {
			t.Error("MustLookup должен паниковать для невалидного ID")
		}
	}()
	interner.MustLookup(StringID(9999))
}

func TestInternerSnapshotRestore(t *testing.T) {
	interner := NewInterner()
	hello := interner.Intern("hello")
	world := interner.Intern("world")

	snapshot := interner.Snapshot()
	if len(snapshot) != 3 {
		t.Fatalf("Snapshot должен содержать 3 элемента, получили: %d", len(snapshot))
	}

	// Restore сохраняет ID: порядок вставки тот же
	restored := Restore(snapshot)
	if got := restored.MustLookup(hello); got != "hello" {
		t.Errorf("после Restore ID %d должен указывать на %q, получили %q", hello, "hello", got)
	}
	if got := restored.MustLookup(world); got != "world" {
		t.Errorf("после Restore ID %d должен указывать на %q, получили %q", world, "world", got)
	}
	if restored.Len() != interner.Len() {
		t.Errorf("Len после Restore: %d, ожидали %d", restored.Len(), interner.Len())
	}

	// Изменение snapshot не влияет на исходный interner
	snapshot[1] = "modified"
	if s := interner.MustLookup(hello); s != "hello" {
		t.Error("изменение snapshot не должно влиять на interner")
	}
}
