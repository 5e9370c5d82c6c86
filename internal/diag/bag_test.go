package diag

import (
	"testing"
)

func TestBagLimit(t *testing.T) {
	b := NewBag(2)
	if !b.Add(Diagnostic{Severity: SevWarning, Message: "one"}) {
		t.Fatal("first Add rejected")
	}
	if !b.Add(Diagnostic{Severity: SevWarning, Message: "two"}) {
		t.Fatal("second Add rejected")
	}
	if b.Add(Diagnostic{Severity: SevWarning, Message: "three"}) {
		t.Fatal("Add beyond limit accepted")
	}
	if b.Len() != 2 {
		t.Fatalf("Len = %d, want 2", b.Len())
	}
}

func TestBagErrors(t *testing.T) {
	b := NewBag(10)
	b.Add(Diagnostic{Severity: SevWarning, Message: "warn"})
	if b.HasErrors() {
		t.Fatal("HasErrors with only a warning")
	}
	b.Add(Diagnostic{Severity: SevError, Message: "boom"})
	if !b.HasErrors() {
		t.Fatal("HasErrors missed an error")
	}
	first, ok := b.FirstError()
	if !ok || first.Message != "boom" {
		t.Fatalf("FirstError = %+v, %v", first, ok)
	}
}
