package check

import (
	"context"
	"fmt"
	"sort"
	"testing"
)

// stubCheck is a minimal Check implementation for testing.
type stubCheck struct {
	typeName string
	result   Result
}

func (s *stubCheck) Type() string                 { return s.typeName }
func (s *stubCheck) Run(_ context.Context) Result { return s.result }

func stubFactory(typeName string, result Result) Factory {
	return func(config map[string]any) (Check, error) {
		return &stubCheck{typeName: typeName, result: result}, nil
	}
}

func failingFactory(config map[string]any) (Check, error) {
	return nil, fmt.Errorf("factory error")
}

func TestRegistry_RegisterAndCreate(t *testing.T) {
	reg := NewRegistry()

	expected := Result{State: StatePass}
	if err := reg.Register("stub", stubFactory("stub", expected)); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	chk, err := reg.Create("stub", nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if chk.Type() != "stub" {
		t.Errorf("expected type 'stub', got %q", chk.Type())
	}

	result := chk.Run(context.Background())
	if result.State != StatePass {
		t.Errorf("expected pass state, got %q", result.State)
	}
}

func TestRegistry_DuplicateRegister(t *testing.T) {
	reg := NewRegistry()

	if err := reg.Register("dup", stubFactory("dup", Result{})); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}

	if err := reg.Register("dup", stubFactory("dup", Result{})); err == nil {
		t.Error("expected error on duplicate registration")
	}
}

func TestRegistry_CreateUnknown(t *testing.T) {
	reg := NewRegistry()

	if _, err := reg.Create("nope", nil); err == nil {
		t.Error("expected error for unknown check type")
	}
}

func TestRegistry_CreateFactoryError(t *testing.T) {
	reg := NewRegistry()

	if err := reg.Register("bad", failingFactory); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := reg.Create("bad", nil); err == nil {
		t.Error("expected factory error to propagate")
	}
}

func TestRegistry_Types(t *testing.T) {
	reg := NewRegistry()

	for _, name := range []string{"a", "b", "c"} {
		if err := reg.Register(name, stubFactory(name, Result{})); err != nil {
			t.Fatalf("Register %q failed: %v", name, err)
		}
	}

	types := reg.Types()
	sort.Strings(types)
	if len(types) != 3 || types[0] != "a" || types[1] != "b" || types[2] != "c" {
		t.Errorf("unexpected types: %v", types)
	}
}
