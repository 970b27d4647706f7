package models

import "testing"

func TestStringArrayContains(t *testing.T) {
	a := StringArray{"politics", "tech", "sports"}
	if !a.Contains("tech") {
		t.Error("expected Contains(tech) to be true")
	}
	if a.Contains("finance") {
		t.Error("expected Contains(finance) to be false")
	}
}

func TestStringArrayOverlaps(t *testing.T) {
	a := StringArray{"politics", "tech"}
	if !a.Overlaps([]string{"finance", "tech"}) {
		t.Error("expected overlap on tech")
	}
	if a.Overlaps([]string{"finance", "sports"}) {
		t.Error("expected no overlap")
	}
	if a.Overlaps(nil) {
		t.Error("expected no overlap against an empty set")
	}
}

func TestStringArrayValueScanRoundtrip(t *testing.T) {
	a := StringArray{"18+", "NSFW"}
	v, err := a.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}

	var out StringArray
	if err := out.Scan(v); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(out) != len(a) {
		t.Fatalf("got %v, want %v", out, a)
	}
	for i := range a {
		if out[i] != a[i] {
			t.Fatalf("got %v, want %v", out, a)
		}
	}
}

func TestStringArrayValueEmpty(t *testing.T) {
	var a StringArray
	v, err := a.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	if v != "{}" {
		t.Fatalf("got %v, want {}", v)
	}
}
