package compiler

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formmarkup/pkg/fieldset"
)

func noop(*fieldset.FieldSet) (string, error) { return "", nil }

func TestDefaultRegistry_Builtins(t *testing.T) {
	want := []string{TypeButton, TypeCheckbox, TypeFiller, TypeRadio, TypeSelect, TypeText, TypeTextarea}
	if diff := cmp.Diff(want, DefaultRegistry().List()); diff != "" {
		t.Fatalf("builtin tags mismatch (-want +got):\n%s", diff)
	}
	if DefaultRegistry() != DefaultRegistry() {
		t.Fatal("default registry should be shared")
	}
}

func TestDefaultRegistry_ReadOnly(t *testing.T) {
	if err := DefaultRegistry().Register("custom", noop); !errors.Is(err, ErrRegistrySealed) {
		t.Fatalf("want ErrRegistrySealed, got %v", err)
	}
	if DefaultRegistry().Has("custom") {
		t.Fatal("sealed registry accepted a rule")
	}
}

func TestRegistry_Register(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register("", noop); err == nil {
		t.Fatal("expected error for empty name")
	}
	if err := reg.Register("x", nil); err == nil {
		t.Fatal("expected error for nil rule")
	}
	if err := reg.Register("x", noop); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.Register("x", noop); err == nil {
		t.Fatal("expected duplicate error")
	}
	if !reg.Has("x") || reg.Has("y") {
		t.Fatal("unexpected Has result")
	}
}

func TestRegistry_MustRegisterPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	NewBuiltinRegistry().MustRegister(TypeText, noop)
}

func TestNewBuiltinRegistry_IsIndependent(t *testing.T) {
	a := NewBuiltinRegistry()
	a.MustRegister("extra", noop)
	if NewBuiltinRegistry().Has("extra") {
		t.Fatal("builtin registries must not share state")
	}
}
