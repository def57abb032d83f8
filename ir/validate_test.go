package ir_test

import (
	"errors"
	"testing"

	"github.com/covfuzz/jsir/asmparse"
	"github.com/covfuzz/jsir/catalog"
	"github.com/covfuzz/jsir/class"
	"github.com/covfuzz/jsir/ir"
	"github.com/covfuzz/jsir/types"
	"github.com/covfuzz/jsir/variable"
)

func mustParse(t *testing.T, src string) *ir.Code {
	t.Helper()
	code, err := asmparse.Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return code
}

func TestCheckValidProgram(t *testing.T) {
	code := mustParse(t, `
v0 = LoadInt 1
v1 = LoadInt 2
v2 = BinaryAdd v0, v1
Use v2
`)
	if err := code.Check(); err != nil {
		t.Fatalf("expected valid program, got: %v", err)
	}
}

func TestCheckDetectsVariableNeverDefined(t *testing.T) {
	code := mustParse(t, `Use v5`)
	if err := code.Check(); !errors.Is(err, ir.ErrVariableNeverDefined) {
		t.Fatalf("expected ErrVariableNeverDefined, got: %v", err)
	}
}

func TestCheckDetectsVariableNotVisible(t *testing.T) {
	code := mustParse(t, `
v0 = LoadInt 1
BeginIf v0
v1 = LoadInt 2
EndIf
Use v1
`)
	if err := code.Check(); !errors.Is(err, ir.ErrVariableNotVisible) {
		t.Fatalf("expected ErrVariableNotVisible, got: %v", err)
	}
}

func TestCheckDetectsRedefinition(t *testing.T) {
	code := mustParse(t, `
v0 = LoadInt 1
v0 = LoadInt 2
`)
	if err := code.Check(); !errors.Is(err, ir.ErrVariableRedefined) {
		t.Fatalf("expected ErrVariableRedefined, got: %v", err)
	}
}

func TestCheckDetectsNonContiguousNumbering(t *testing.T) {
	op, err := catalog.Lookup(catalog.LoadInt)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	instr, err := ir.NewInstruction(op, nil, []variable.Variable{variable.New(1)}, nil, int64(1))
	if err != nil {
		t.Fatalf("NewInstruction: %v", err)
	}
	code := ir.NewCode()
	code.Append(instr)
	if err := code.Check(); !errors.Is(err, ir.ErrNonContiguousNumbering) {
		t.Fatalf("expected ErrNonContiguousNumbering, got: %v", err)
	}
}

func TestCheckDetectsBlockEndMismatch(t *testing.T) {
	code := mustParse(t, `
v0 = LoadInt 1
BeginIf v0
EndWhile
`)
	if err := code.Check(); !errors.Is(err, ir.ErrBlockEndMismatch) {
		t.Fatalf("expected ErrBlockEndMismatch, got: %v", err)
	}
}

func TestCheckDetectsUnfinishedBlocks(t *testing.T) {
	code := mustParse(t, `
v0 = LoadInt 1
BeginIf v0
`)
	if err := code.Check(); !errors.Is(err, ir.ErrUnfinishedBlocks) {
		t.Fatalf("expected ErrUnfinishedBlocks, got: %v", err)
	}
}

func TestCheckDetectsInvalidContext(t *testing.T) {
	op, err := catalog.Lookup(catalog.Return)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	loadOp, err := catalog.Lookup(catalog.LoadInt)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	loadInstr, err := ir.NewInstruction(loadOp, nil, []variable.Variable{variable.New(0)}, nil, int64(1))
	if err != nil {
		t.Fatalf("NewInstruction: %v", err)
	}
	returnInstr, err := ir.NewInstruction(op, []variable.Variable{variable.New(0)}, nil, nil, nil)
	if err != nil {
		t.Fatalf("NewInstruction: %v", err)
	}
	code := ir.NewCode()
	code.Append(loadInstr)
	code.Append(returnInstr)
	if err := code.Check(); !errors.Is(err, ir.ErrInvalidContext) {
		t.Fatalf("expected ErrInvalidContext, got: %v", err)
	}
}

func TestCheckForLoopHeaderSharesScope(t *testing.T) {
	code := mustParse(t, `
BeginForLoopInit
v0 = LoadInt 0
BeginForLoopCondition [v1] v0
BeginForLoopAfterthought [v2]
BeginForLoopBody [v3]
Use v1
EndForLoop
`)
	if err := code.Check(); err != nil {
		t.Fatalf("expected the for-loop header to share one scope, got: %v", err)
	}
}

func TestCheckForLoopConditionInputsMustMatchInnerOutputs(t *testing.T) {
	code := mustParse(t, `
BeginForLoopInit
v0 = LoadInt 0
BeginForLoopCondition v0
BeginForLoopAfterthought
BeginForLoopBody
EndForLoop
`)
	if err := code.Check(); !errors.Is(err, ir.ErrForLoopHeaderMismatch) {
		t.Fatalf("expected ErrForLoopHeaderMismatch, got: %v", err)
	}
}

func TestCheckForLoopAfterthoughtMustMatchConditionCount(t *testing.T) {
	code := mustParse(t, `
BeginForLoopInit
v0 = LoadInt 0
BeginForLoopCondition [v1] v0
BeginForLoopAfterthought [v2, v3]
BeginForLoopBody [v4, v5]
EndForLoop
`)
	if err := code.Check(); !errors.Is(err, ir.ErrForLoopHeaderMismatch) {
		t.Fatalf("expected ErrForLoopHeaderMismatch, got: %v", err)
	}
}

func TestCheckForLoopBodyMustMatchAfterthoughtCount(t *testing.T) {
	code := mustParse(t, `
BeginForLoopInit
v0 = LoadInt 0
BeginForLoopCondition [v1] v0
BeginForLoopAfterthought [v2]
BeginForLoopBody [v3, v4]
EndForLoop
`)
	if err := code.Check(); !errors.Is(err, ir.ErrForLoopHeaderMismatch) {
		t.Fatalf("expected ErrForLoopHeaderMismatch, got: %v", err)
	}
}

func TestCheckNopOutputIsInvisible(t *testing.T) {
	code := mustParse(t, `
v0 = LoadInt 1
v1 = Nop
v2 = LoadInt 3
Use v1
`)
	if err := code.Check(); !errors.Is(err, ir.ErrVariableNotVisible) {
		t.Fatalf("expected ErrVariableNotVisible for a nop's invisible output, got: %v", err)
	}
}

func TestCheckClassMissingMethodDefinitionFails(t *testing.T) {
	beginClassOp, _ := catalog.Lookup(catalog.BeginClass)
	beginMethodOp, _ := catalog.Lookup(catalog.BeginMethod)
	endMethodOp, _ := catalog.Lookup(catalog.EndMethod)
	endClassOp, _ := catalog.Lookup(catalog.EndClass)

	payload := &ir.ClassPayload{
		Methods: []class.MethodSignature{{Name: "foo"}, {Name: "bar"}},
	}

	code := ir.NewCode()
	beginClass, _ := ir.NewInstruction(beginClassOp, nil, []variable.Variable{variable.New(0)}, nil, payload)
	code.Append(beginClass)
	beginMethod, _ := ir.NewInstruction(beginMethodOp, nil, nil, []variable.Variable{variable.New(1)}, &ir.MethodPayload{Name: "foo"})
	code.Append(beginMethod)
	endMethod, _ := ir.NewInstruction(endMethodOp, nil, nil, nil, nil)
	code.Append(endMethod)
	endClass, _ := ir.NewInstruction(endClassOp, nil, nil, nil, nil)
	code.Append(endClass)

	if err := code.Check(); !errors.Is(err, ir.ErrClassMissingMethods) {
		t.Fatalf("expected ErrClassMissingMethods because 'bar' was never defined, got: %v", err)
	}
}

func TestCheckClassAllMethodsDeclared(t *testing.T) {
	beginClassOp, _ := catalog.Lookup(catalog.BeginClass)
	beginMethodOp, _ := catalog.Lookup(catalog.BeginMethod)
	endMethodOp, _ := catalog.Lookup(catalog.EndMethod)
	endClassOp, _ := catalog.Lookup(catalog.EndClass)

	payload := &ir.ClassPayload{
		Properties: map[string]types.Type{"x": types.Integer},
		Methods:    []class.MethodSignature{{Name: "foo"}},
	}

	code := ir.NewCode()
	beginClass, _ := ir.NewInstruction(beginClassOp, nil, []variable.Variable{variable.New(0)}, nil, payload)
	code.Append(beginClass)
	beginMethod, _ := ir.NewInstruction(beginMethodOp, nil, nil, []variable.Variable{variable.New(1)}, &ir.MethodPayload{Name: "foo"})
	code.Append(beginMethod)
	endMethod, _ := ir.NewInstruction(endMethodOp, nil, nil, nil, nil)
	code.Append(endMethod)
	endClass, _ := ir.NewInstruction(endClassOp, nil, nil, nil, nil)
	code.Append(endClass)

	if err := code.Check(); err != nil {
		t.Fatalf("expected a valid class body, got: %v", err)
	}
}
