package emotion

import "testing"

func TestSeedCoversKnownLabels(t *testing.T) {
	profiles, err := Seed()
	if err != nil {
		t.Fatalf("Seed err: %v", err)
	}
	if len(profiles) != len(Known()) {
		t.Fatalf("expected %d profiles, got %d", len(Known()), len(profiles))
	}

	catalog := NewMemoryCatalog(profiles)
	for _, label := range Known() {
		p, ok := catalog.FindByLabel(label)
		if !ok {
			t.Fatalf("missing profile for %s", label)
		}
		if p.Emoji == "" || p.Color == "" {
			t.Fatalf("incomplete profile for %s: %+v", label, p)
		}
		if len(p.Suggestions) != 3 {
			t.Fatalf("expected 3 suggestions for %s, got %d", label, len(p.Suggestions))
		}
	}
}

func TestCatalogListIsACopy(t *testing.T) {
	catalog := NewMemoryCatalog(MustSeed())
	list := catalog.List()
	list[0].Suggestions[0] = "mutated"

	p, _ := catalog.FindByLabel(list[0].Label)
	if p.Suggestions[0] == "mutated" {
		t.Fatal("catalog suggestions should not be shared with callers")
	}
}

func TestUnknownLabel(t *testing.T) {
	if Label("Confused").IsKnown() {
		t.Fatal("Confused should not be a known label")
	}
	if !Calm.IsKnown() {
		t.Fatal("Calm should be a known label")
	}
}
