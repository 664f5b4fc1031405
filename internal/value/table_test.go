package value

import "testing"

func TestTableSetGet(t *testing.T) {
	tbl := NewObjTable()
	key := NewObjString("x")
	tbl.Set(key, Number(42))

	got, ok := tbl.Get(key)
	if !ok {
		t.Fatal("expected key to be present")
	}
	if got.Num != 42 {
		t.Errorf("expected 42, got %v", got.Num)
	}
}

func TestTableGetMissing(t *testing.T) {
	tbl := NewObjTable()
	_, ok := tbl.Get(NewObjString("missing"))
	if ok {
		t.Error("expected missing key to report absent")
	}
}

func TestTableOverwrite(t *testing.T) {
	tbl := NewObjTable()
	key := NewObjString("x")
	tbl.Set(key, Number(1))
	tbl.Set(key, Number(2))

	if got, _ := tbl.Get(key); got.Num != 2 {
		t.Errorf("expected overwritten value 2, got %v", got.Num)
	}
	if tbl.Len() != 1 {
		t.Errorf("expected a single entry after overwrite, got %d", tbl.Len())
	}
}

func TestTableGrowPastLoadFactor(t *testing.T) {
	tbl := NewObjTable()
	for i := 0; i < 100; i++ {
		key := NewObjString(string(rune('a' + i%26)) + string(rune(i)))
		tbl.Set(key, Number(float64(i)))
	}
	if tbl.Len() != 100 {
		t.Fatalf("expected 100 entries, got %d", tbl.Len())
	}
	for i := 0; i < 100; i++ {
		key := NewObjString(string(rune('a' + i%26)) + string(rune(i)))
		got, ok := tbl.Get(key)
		if !ok || got.Num != float64(i) {
			t.Fatalf("entry %d lost or corrupted across growth: got %v, ok=%v", i, got, ok)
		}
	}
}

func TestTableDelete(t *testing.T) {
	tbl := NewObjTable()
	a := NewObjString("a")
	b := NewObjString("b")
	tbl.Set(a, Number(1))
	tbl.Set(b, Number(2))

	if !tbl.Delete(a) {
		t.Fatal("expected Delete to report the key was present")
	}
	if _, ok := tbl.Get(a); ok {
		t.Error("deleted key should no longer be present")
	}
	if got, ok := tbl.Get(b); !ok || got.Num != 2 {
		t.Error("deleting one key should not disturb another")
	}
	if tbl.Delete(a) {
		t.Error("deleting an absent key should report false")
	}
}

func TestHashStringDeterministic(t *testing.T) {
	if HashString("abc") != HashString("abc") {
		t.Error("HashString should be deterministic for equal inputs")
	}
	if HashString("abc") == HashString("abd") {
		t.Error("HashString should (almost certainly) differ for different inputs")
	}
}
