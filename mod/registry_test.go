package mod

import "testing"

func TestRegistryUniqueness(t *testing.T) {
	reg := NewRegistry()
	first := NewRecord(Manifest{ID: ID{ID: "a", Type: TypeUMM}})

	if err := reg.Add(first); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := reg.Add(NewRecord(Manifest{ID: ID{ID: "a", Type: TypeUMM}})); err == nil {
		t.Fatal("expected duplicate Add to fail")
	}

	got := reg.GetOrAdd(NewRecord(Manifest{ID: ID{ID: "a", Type: TypeUMM}}))
	if got != first {
		t.Fatal("GetOrAdd should return the existing record")
	}
	if reg.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", reg.Len())
	}

	// Same name with a different type is a different mod.
	if err := reg.Add(NewRecord(Manifest{ID: ID{ID: "a", Type: TypeOwlcat}})); err != nil {
		t.Fatalf("Add of other type failed: %v", err)
	}
	if reg.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", reg.Len())
	}
}

func TestRegistryAllSorted(t *testing.T) {
	reg := NewRegistry()
	for _, name := range []string{"zeta", "Alpha", "beta"} {
		reg.GetOrAdd(NewRecord(Manifest{ID: ID{ID: name, Type: TypeUMM}, Name: name}))
	}

	all := reg.All()
	want := []string{"Alpha", "beta", "zeta"}
	for i, rec := range all {
		if rec.Name() != want[i] {
			t.Errorf("All()[%d] = %s, want %s", i, rec.Name(), want[i])
		}
	}
}

func TestRegistryFindByName(t *testing.T) {
	reg := NewRegistry()
	reg.GetOrAdd(NewRecord(Manifest{ID: ID{ID: "ToyBox", Type: TypeOwlcat}}))
	reg.GetOrAdd(NewRecord(Manifest{ID: ID{ID: "BubbleBuffs", Type: TypeUMM}}))

	if rec, ok := reg.FindByName("bubblebuffs"); !ok || rec.ID().ID != "BubbleBuffs" {
		t.Fatal("expected case-insensitive lookup to find BubbleBuffs")
	}
	if rec, ok := reg.FindByName("ToyBox"); !ok || rec.ID().Type != TypeOwlcat {
		t.Fatal("expected ToyBox to be found")
	}
	if _, ok := reg.FindByName("missing"); ok {
		t.Fatal("expected missing mod not to be found")
	}

	reg.Remove(ID{ID: "ToyBox", Type: TypeOwlcat})
	if _, ok := reg.FindByName("ToyBox"); ok {
		t.Fatal("expected removed mod not to be found")
	}
}
