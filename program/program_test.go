package program_test

import (
	"testing"

	"github.com/google/uuid"

	"github.com/covfuzz/jsir/asmparse"
	"github.com/covfuzz/jsir/program"
	"github.com/covfuzz/jsir/types"
)

func mustParse(t *testing.T, src string) *program.Program {
	t.Helper()
	code, err := asmparse.Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	p, err := program.New(code)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

func TestNewAssignsFreshIdentityAndEmptyState(t *testing.T) {
	p1 := mustParse(t, `v0 = LoadInt 1`)
	p2 := mustParse(t, `v0 = LoadInt 1`)

	if p1.ID() == uuid.Nil {
		t.Fatal("expected a non-nil identity")
	}
	if p1.ID() == p2.ID() {
		t.Fatal("expected two New programs to have distinct identities")
	}
	if p1.Parent() != nil {
		t.Fatal("expected no parent on a freshly created program")
	}
	if p1.TypeCollectionStatus() != program.TypesNotCollected {
		t.Fatalf("expected TypesNotCollected, got %v", p1.TypeCollectionStatus())
	}
}

func TestValidateDelegatesToCode(t *testing.T) {
	valid := mustParse(t, `
v0 = LoadInt 1
v1 = LoadInt 2
v2 = BinaryAdd v0, v1
`)
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid program, got: %v", err)
	}
}

func TestNewRejectsInvalidCode(t *testing.T) {
	code, err := asmparse.Parse(`Use v9`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := program.New(code); err == nil {
		t.Fatal("expected New to reject code that uses an undefined variable")
	}
}

func TestSetParentAndTypeCollectionStatus(t *testing.T) {
	p := mustParse(t, `v0 = LoadInt 1`)
	parent := uuid.New()
	p.SetParent(parent)
	if p.Parent() == nil || *p.Parent() != parent {
		t.Fatalf("expected parent %v, got %v", parent, p.Parent())
	}

	p.SetTypeCollectionStatus(program.TypesRuntimeCollected)
	if p.TypeCollectionStatus() != program.TypesRuntimeCollected {
		t.Fatalf("expected TypesRuntimeCollected, got %v", p.TypeCollectionStatus())
	}
	if got, want := p.TypeCollectionStatus().String(), "runtime-collected"; got != want {
		t.Fatalf("expected String() == %q, got %q", want, got)
	}
}

func TestRestoreReconstructsExactState(t *testing.T) {
	code, err := asmparse.Parse(`v0 = LoadInt 1`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	id := uuid.New()
	parent := uuid.New()
	pt := types.NewProgramTypes()
	pt.SetType(0, types.Integer, 0, types.Inferred)
	comments := program.NewComments()
	comments.Header = "seed"

	p := program.Restore(id, code, pt, comments, &parent, program.TypesInferredOnly)

	if p.ID() != id {
		t.Fatalf("expected id %v, got %v", id, p.ID())
	}
	if p.Parent() == nil || *p.Parent() != parent {
		t.Fatalf("expected parent %v, got %v", parent, p.Parent())
	}
	if p.TypeCollectionStatus() != program.TypesInferredOnly {
		t.Fatalf("expected TypesInferredOnly, got %v", p.TypeCollectionStatus())
	}
	if p.Comments().Header != "seed" {
		t.Fatalf("expected header %q, got %q", "seed", p.Comments().Header)
	}
	if got := p.Types().GetType(0, 0); got != types.Integer {
		t.Fatalf("expected Integer, got %v", got)
	}
}
