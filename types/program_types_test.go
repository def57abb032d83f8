package types

import "testing"

func TestSetAndGetType(t *testing.T) {
	pt := NewProgramTypes()
	pt.SetType(0, Integer, 2, Inferred)
	pt.SetType(0, String, 5, Runtime)

	if got := pt.GetType(0, 0); got != Unknown {
		t.Fatalf("expected Unknown before any entry, got %v", got)
	}
	if got := pt.GetType(0, 2); got != Integer {
		t.Fatalf("expected Integer at index 2, got %v", got)
	}
	if got := pt.GetType(0, 4); got != Integer {
		t.Fatalf("expected Integer to still apply at index 4, got %v", got)
	}
	if got := pt.GetType(0, 5); got != String {
		t.Fatalf("expected String at index 5, got %v", got)
	}
	if got := pt.GetType(0, 100); got != String {
		t.Fatalf("expected String to persist past its index, got %v", got)
	}
}

func TestSetTypeOverwritesSameIndex(t *testing.T) {
	pt := NewProgramTypes()
	pt.SetType(1, Integer, 3, Inferred)
	pt.SetType(1, Boolean, 3, Runtime)

	if got := pt.GetType(1, 3); got != Boolean {
		t.Fatalf("expected overwrite to win, got %v", got)
	}
}

func TestOnlyRuntimeTypes(t *testing.T) {
	pt := NewProgramTypes()
	pt.SetType(0, Integer, 1, Inferred)
	pt.SetType(0, String, 2, Runtime)

	runtimeOnly := pt.OnlyRuntimeTypes()
	if got := runtimeOnly.GetType(0, 1); got != Unknown {
		t.Fatalf("expected inferred entry dropped, got %v", got)
	}
	if got := runtimeOnly.GetType(0, 2); got != String {
		t.Fatalf("expected runtime entry kept, got %v", got)
	}
}

func TestIndexedByInstruction(t *testing.T) {
	pt := NewProgramTypes()
	pt.SetType(0, Integer, 0, Inferred)
	pt.SetType(1, String, 0, Inferred)
	pt.SetType(2, Boolean, 3, Inferred)

	byIndex := pt.IndexedByInstruction(5)
	if len(byIndex[0]) != 2 {
		t.Fatalf("expected 2 entries at index 0, got %d", len(byIndex[0]))
	}
	if len(byIndex[3]) != 1 || byIndex[3][0].VariableNumber != 2 {
		t.Fatalf("expected variable 2 at index 3, got %+v", byIndex[3])
	}
	if len(byIndex[4]) != 0 {
		t.Fatalf("expected no entries at index 4, got %+v", byIndex[4])
	}
}

func TestJoinWidensIncompatibleTypes(t *testing.T) {
	joined := Join(Integer, String)
	union, ok := joined.(*UnionType)
	if !ok {
		t.Fatalf("expected a UnionType, got %T", joined)
	}
	if len(union.Members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(union.Members))
	}
}

func TestJoinUnknownReturnsOther(t *testing.T) {
	if Join(Unknown, Integer) != Integer {
		t.Fatal("expected Join(Unknown, Integer) == Integer")
	}
	if Join(Integer, Unknown) != Integer {
		t.Fatal("expected Join(Integer, Unknown) == Integer")
	}
}
