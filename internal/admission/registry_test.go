package admission

import "testing"

func TestRegisterAndCheck(t *testing.T) {
	r := NewRegistry()

	if r.IsTrusted("node-1") {
		t.Error("empty registry should trust nobody")
	}

	r.Register("node-1")
	if !r.IsTrusted("node-1") {
		t.Error("node-1 should be trusted after registration")
	}
	if r.IsTrusted("node-2") {
		t.Error("node-2 was never registered")
	}
}

func TestRegisterIdempotent(t *testing.T) {
	r := NewRegistry()
	r.Register("node-1")
	r.Register("node-1")
	r.Register("node-1")

	if r.Len() != 1 {
		t.Errorf("len = %d, want 1 after repeated registration", r.Len())
	}
}

func TestSeededRegistry(t *testing.T) {
	r := NewRegistry("a", "b", "a")

	if r.Len() != 2 {
		t.Errorf("len = %d, want 2", r.Len())
	}
	if !r.IsTrusted("a") || !r.IsTrusted("b") {
		t.Error("seeded reporters should be trusted")
	}

	list := r.List()
	if len(list) != 2 {
		t.Errorf("list length = %d, want 2", len(list))
	}
}
