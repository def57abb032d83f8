package ir_test

import (
	"testing"

	"github.com/covfuzz/jsir/catalog"
)

func TestRemoveNopsDropsNopAndClosesTheGap(t *testing.T) {
	code := mustParse(t, `
v0 = LoadInt 1
v1 = Nop
v2 = LoadInt 3
`)
	if err := code.Check(); err != nil {
		t.Fatalf("expected valid program, got: %v", err)
	}

	result := code.RemoveNops()

	if result.Len() != 2 {
		t.Fatalf("expected 2 instructions after RemoveNops, got %d", result.Len())
	}
	if err := result.Check(); err != nil {
		t.Fatalf("expected RemoveNops's output to be statically valid, got: %v", err)
	}

	first, second := result.At(0), result.At(1)
	if first.Op().Opcode != catalog.LoadInt || first.Outputs()[0].Number() != 0 {
		t.Fatalf("expected first instruction LoadInt(v0,1), got %s v%d", first.Op().Name, first.Outputs()[0].Number())
	}
	if second.Op().Opcode != catalog.LoadInt || second.Outputs()[0].Number() != 1 {
		t.Fatalf("expected second instruction LoadInt(v1,3), got %s v%d", second.Op().Name, second.Outputs()[0].Number())
	}
	if second.Payload() != int64(3) {
		t.Fatalf("expected second instruction's payload to still be 3, got %v", second.Payload())
	}
}

func TestRenumberVariablesClosesAnExistingHole(t *testing.T) {
	code := mustParse(t, `
v0 = LoadInt 1
v2 = LoadInt 3
`)

	result := code.RenumberVariables()
	if result.At(0).Outputs()[0].Number() != 0 {
		t.Fatalf("expected first output renumbered to v0, got v%d", result.At(0).Outputs()[0].Number())
	}
	if result.At(1).Outputs()[0].Number() != 1 {
		t.Fatalf("expected second output renumbered to v1, got v%d", result.At(1).Outputs()[0].Number())
	}
	if err := result.Check(); err != nil {
		t.Fatalf("expected renumbered code to validate, got: %v", err)
	}
}

func TestRenumberVariablesRemapsInputs(t *testing.T) {
	code := mustParse(t, `
v0 = LoadInt 1
v2 = LoadInt 3
v3 = BinaryAdd v0, v2
`)
	result := code.RenumberVariables()
	add := result.At(2)
	if add.Inputs()[0].Number() != 0 || add.Inputs()[1].Number() != 1 {
		t.Fatalf("expected remapped inputs v0, v1, got v%d, v%d", add.Inputs()[0].Number(), add.Inputs()[1].Number())
	}
	if add.Outputs()[0].Number() != 2 {
		t.Fatalf("expected output renumbered to v2, got v%d", add.Outputs()[0].Number())
	}
}

// TestNormalizeRemovesNopAndRenumbers is scenario S5: a nop between two
// LoadInts must validate, and normalizing it must drop the nop and
// renumber the surviving LoadInt's output so no hole remains.
func TestNormalizeRemovesNopAndRenumbers(t *testing.T) {
	code := mustParse(t, `
v0 = LoadInt 1
v1 = Nop
v2 = LoadInt 3
`)
	if err := code.Check(); err != nil {
		t.Fatalf("expected valid program, got: %v", err)
	}

	normalized := code.Normalize()
	if normalized.Len() != 2 {
		t.Fatalf("expected 2 instructions after Normalize, got %d", normalized.Len())
	}
	if got := normalized.At(0).Outputs()[0].Number(); got != 0 {
		t.Fatalf("expected first instruction's output v0, got v%d", got)
	}
	if got := normalized.At(1).Outputs()[0].Number(); got != 1 {
		t.Fatalf("expected second instruction's output v1, got v%d", got)
	}
	if got := normalized.At(1).Payload(); got != int64(3) {
		t.Fatalf("expected second instruction's payload to still be 3, got %v", got)
	}
	if err := normalized.Check(); err != nil {
		t.Fatalf("expected normalized code to validate, got: %v", err)
	}
}

func TestNextFreeVariable(t *testing.T) {
	empty := mustParse(t, ``)
	if got := empty.NextFreeVariable().Number(); got != 0 {
		t.Fatalf("expected 0 on empty code, got %d", got)
	}

	code := mustParse(t, `
v0 = LoadInt 1
v1 = LoadInt 2
`)
	if got := code.NextFreeVariable().Number(); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
}
