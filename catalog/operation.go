// Package catalog defines the closed-world operation catalogue: opcodes,
// their arity/context/attribute descriptors, and the control-flow grammar
// (is_matching_end) that the validator checks against.
package catalog

import "fmt"

// Opcode identifies one member of the closed-world operation catalogue.
type Opcode int

//nolint:revive
const (
	LoadInt Opcode = iota
	LoadString
	LoadBool
	LoadUndefined
	LoadNull

	BinaryAdd
	BinarySub
	Compare

	Nop

	Use
	CallFunction
	Return

	BeginFunctionDefinition
	EndFunctionDefinition

	BeginIf
	BeginElse
	EndIf

	BeginWhile
	EndWhile

	BeginDoWhile
	EndDoWhile

	BeginForLoopInit
	BeginForLoopCondition
	BeginForLoopAfterthought
	BeginForLoopBody
	EndForLoop

	BeginForIn
	EndForIn

	BeginForOf
	EndForOf

	BeginTry
	BeginCatch
	BeginFinally
	EndTryCatch

	BeginClass
	BeginMethod
	EndMethod
	EndClass

	BeginSwitch
	BeginSwitchCase
	BeginSwitchDefaultCase
	EndSwitch

	BeginBlockStatement
	EndBlockStatement
)

// Operation is an immutable descriptor for one opcode: its arity, the
// context it requires and opens, and the attribute flags that drive the
// validator. Operations carry no instance data — they are shared,
// process-wide value objects referenced by many Instructions across many
// Programs.
type Operation struct {
	Opcode Opcode
	Name   string

	// NumInputs, NumOutputs, and NumInnerOutputs are the arities used
	// when the operation is not variadic. NumOutputs variables are
	// defined in the surrounding scope; NumInnerOutputs variables are
	// defined in the scope the operation opens (only meaningful when
	// IsBlockStart is true).
	NumInputs       int
	NumOutputs      int
	NumInnerOutputs int

	// FirstVariadicInput is the index of the first input slot that
	// belongs to the variadic tail. Only meaningful when IsVariadic.
	FirstVariadicInput int

	// IsVariadicOutputs and IsVariadicInnerOutputs relax NumOutputs /
	// NumInnerOutputs from an exact count to a minimum: an instruction
	// may carry any number of outputs (inner outputs) at or above that
	// minimum. Nop uses the former (an invisible nop output is optional);
	// the three for-loop header ops use the latter, since their
	// inner-output count is the loop's variable count, unknown to the
	// catalogue.
	IsVariadicOutputs      bool
	IsVariadicInnerOutputs bool

	RequiredContext Context
	ContextOpened   Context

	IsMutable                    bool
	IsCall                       bool
	IsJump                       bool
	IsBlockStart                 bool
	IsBlockEnd                   bool
	IsVariadic                   bool
	IsInternal                   bool
	IsNop                        bool
	IsSingular                   bool
	PropagatesSurroundingContext bool
	ResumesSurroundingContext    bool
}

// catalogueEntry names an Operation the way object.Builtins names a
// Builtin: an ordered (Name, *Operation) pair, so the catalogue can be
// walked in declaration order as well as looked up by name or opcode.
type catalogueEntry struct {
	Name      string
	Operation *Operation
}

// Catalogue lists every operation in declaration order.
var Catalogue = []catalogueEntry{
	{"LoadInt", &Operation{Opcode: LoadInt, Name: "LoadInt", NumOutputs: 1, IsMutable: true}},
	{"LoadString", &Operation{Opcode: LoadString, Name: "LoadString", NumOutputs: 1, IsMutable: true}},
	{"LoadBool", &Operation{Opcode: LoadBool, Name: "LoadBool", NumOutputs: 1, IsMutable: true}},
	{"LoadUndefined", &Operation{Opcode: LoadUndefined, Name: "LoadUndefined", NumOutputs: 1}},
	{"LoadNull", &Operation{Opcode: LoadNull, Name: "LoadNull", NumOutputs: 1}},

	{"BinaryAdd", &Operation{Opcode: BinaryAdd, Name: "BinaryAdd", NumInputs: 2, NumOutputs: 1}},
	{"BinarySub", &Operation{Opcode: BinarySub, Name: "BinarySub", NumInputs: 2, NumOutputs: 1}},
	{"Compare", &Operation{Opcode: Compare, Name: "Compare", NumInputs: 2, NumOutputs: 1, IsMutable: true}},

	{"Nop", &Operation{Opcode: Nop, Name: "Nop", IsNop: true, IsVariadicOutputs: true}},

	{"Use", &Operation{Opcode: Use, Name: "Use", NumInputs: 1}},
	{"CallFunction", &Operation{
		Opcode: CallFunction, Name: "CallFunction",
		NumInputs: 1, NumOutputs: 1,
		IsCall: true, IsVariadic: true, FirstVariadicInput: 1,
	}},
	{"Return", &Operation{Opcode: Return, Name: "Return", NumInputs: 1, RequiredContext: ContextFunction}},

	{"BeginFunctionDefinition", &Operation{
		Opcode: BeginFunctionDefinition, Name: "BeginFunctionDefinition",
		NumOutputs: 1, IsVariadic: true, FirstVariadicInput: 0,
		IsBlockStart: true, ContextOpened: ContextFunction,
	}},
	{"EndFunctionDefinition", &Operation{Opcode: EndFunctionDefinition, Name: "EndFunctionDefinition", IsBlockEnd: true}},

	{"BeginIf", &Operation{
		Opcode: BeginIf, Name: "BeginIf", NumInputs: 1,
		IsBlockStart: true, PropagatesSurroundingContext: true,
	}},
	{"BeginElse", &Operation{
		Opcode: BeginElse, Name: "BeginElse",
		IsBlockStart: true, IsBlockEnd: true, PropagatesSurroundingContext: true,
	}},
	{"EndIf", &Operation{Opcode: EndIf, Name: "EndIf", IsBlockEnd: true}},

	{"BeginWhile", &Operation{
		Opcode: BeginWhile, Name: "BeginWhile", NumInputs: 1,
		IsBlockStart: true, ContextOpened: ContextLoop, PropagatesSurroundingContext: true,
	}},
	{"EndWhile", &Operation{Opcode: EndWhile, Name: "EndWhile", IsBlockEnd: true}},

	{"BeginDoWhile", &Operation{
		Opcode: BeginDoWhile, Name: "BeginDoWhile",
		IsBlockStart: true, ContextOpened: ContextLoop, PropagatesSurroundingContext: true,
	}},
	{"EndDoWhile", &Operation{Opcode: EndDoWhile, Name: "EndDoWhile", NumInputs: 1, IsBlockEnd: true}},

	{"BeginForLoopInit", &Operation{
		Opcode: BeginForLoopInit, Name: "BeginForLoopInit",
		IsBlockStart: true, PropagatesSurroundingContext: true,
	}},
	{"BeginForLoopCondition", &Operation{
		Opcode: BeginForLoopCondition, Name: "BeginForLoopCondition",
		IsVariadic: true, FirstVariadicInput: 0, IsVariadicInnerOutputs: true,
		IsBlockStart: true, IsBlockEnd: true, PropagatesSurroundingContext: true,
	}},
	{"BeginForLoopAfterthought", &Operation{
		Opcode: BeginForLoopAfterthought, Name: "BeginForLoopAfterthought",
		IsVariadicInnerOutputs: true,
		IsBlockStart:           true, IsBlockEnd: true, PropagatesSurroundingContext: true,
	}},
	{"BeginForLoopBody", &Operation{
		Opcode: BeginForLoopBody, Name: "BeginForLoopBody",
		IsVariadicInnerOutputs: true,
		IsBlockStart:           true, IsBlockEnd: true, ContextOpened: ContextLoop, PropagatesSurroundingContext: true,
	}},
	{"EndForLoop", &Operation{Opcode: EndForLoop, Name: "EndForLoop", IsBlockEnd: true}},

	{"BeginForIn", &Operation{
		Opcode: BeginForIn, Name: "BeginForIn", NumInputs: 1, NumInnerOutputs: 1,
		IsBlockStart: true, ContextOpened: ContextLoop, PropagatesSurroundingContext: true,
	}},
	{"EndForIn", &Operation{Opcode: EndForIn, Name: "EndForIn", IsBlockEnd: true}},

	{"BeginForOf", &Operation{
		Opcode: BeginForOf, Name: "BeginForOf", NumInputs: 1, NumInnerOutputs: 1,
		IsBlockStart: true, ContextOpened: ContextLoop, PropagatesSurroundingContext: true,
	}},
	{"EndForOf", &Operation{Opcode: EndForOf, Name: "EndForOf", IsBlockEnd: true}},

	{"BeginTry", &Operation{
		Opcode: BeginTry, Name: "BeginTry",
		IsBlockStart: true, ContextOpened: ContextSubroutine, PropagatesSurroundingContext: true,
	}},
	{"BeginCatch", &Operation{
		Opcode: BeginCatch, Name: "BeginCatch", NumInnerOutputs: 1,
		IsBlockStart: true, IsBlockEnd: true, ContextOpened: ContextSubroutine, PropagatesSurroundingContext: true,
	}},
	{"BeginFinally", &Operation{
		Opcode: BeginFinally, Name: "BeginFinally",
		IsBlockStart: true, IsBlockEnd: true, ContextOpened: ContextSubroutine, PropagatesSurroundingContext: true,
	}},
	{"EndTryCatch", &Operation{Opcode: EndTryCatch, Name: "EndTryCatch", IsBlockEnd: true}},

	{"BeginClass", &Operation{
		Opcode: BeginClass, Name: "BeginClass", NumOutputs: 1,
		IsBlockStart: true, ContextOpened: ContextClassBody,
	}},
	{"BeginMethod", &Operation{
		Opcode: BeginMethod, Name: "BeginMethod", NumInnerOutputs: 1,
		IsBlockStart: true, ContextOpened: ContextFunction,
	}},
	{"EndMethod", &Operation{Opcode: EndMethod, Name: "EndMethod", IsBlockEnd: true}},
	{"EndClass", &Operation{Opcode: EndClass, Name: "EndClass", IsBlockEnd: true}},

	{"BeginSwitch", &Operation{
		Opcode: BeginSwitch, Name: "BeginSwitch", NumInputs: 1,
		IsBlockStart: true, ContextOpened: ContextSwitch, PropagatesSurroundingContext: true,
	}},
	{"BeginSwitchCase", &Operation{
		Opcode: BeginSwitchCase, Name: "BeginSwitchCase", NumInputs: 1,
		IsBlockStart: true, IsBlockEnd: true, ResumesSurroundingContext: true,
	}},
	{"BeginSwitchDefaultCase", &Operation{
		Opcode: BeginSwitchDefaultCase, Name: "BeginSwitchDefaultCase",
		IsBlockStart: true, IsBlockEnd: true, IsSingular: true, ResumesSurroundingContext: true,
	}},
	{"EndSwitch", &Operation{Opcode: EndSwitch, Name: "EndSwitch", IsBlockEnd: true}},

	{"BeginBlockStatement", &Operation{
		Opcode: BeginBlockStatement, Name: "BeginBlockStatement",
		IsBlockStart: true, PropagatesSurroundingContext: true,
	}},
	{"EndBlockStatement", &Operation{Opcode: EndBlockStatement, Name: "EndBlockStatement", IsBlockEnd: true}},
}

var (
	byOpcode = map[Opcode]*Operation{}
	byName   = map[string]*Operation{}
)

func init() {
	for _, entry := range Catalogue {
		byOpcode[entry.Operation.Opcode] = entry.Operation
		byName[entry.Name] = entry.Operation
	}
}

// Lookup returns the Operation for op, or an error if op is not a member
// of the catalogue.
func Lookup(op Opcode) (*Operation, error) {
	def, ok := byOpcode[op]
	if !ok {
		return nil, fmt.Errorf("ir: opcode %d undefined", op)
	}
	return def, nil
}

// OperationByName retrieves a catalogue entry by its declared name, or
// returns an error if no entry has that name.
func OperationByName(name string) (*Operation, error) {
	def, ok := byName[name]
	if !ok {
		return nil, fmt.Errorf("ir: no such operation %q", name)
	}
	return def, nil
}

// IsMatchingEnd encodes the control-flow grammar: given the
// opcode that opened the currently active block and the opcode of the
// instruction now closing (or closing-and-reopening) it, reports whether
// the pairing is legal.
func IsMatchingEnd(start, end Opcode) bool {
	switch start {
	case BeginIf:
		return end == BeginElse || end == EndIf
	case BeginElse:
		return end == EndIf
	case BeginWhile:
		return end == EndWhile
	case BeginDoWhile:
		return end == EndDoWhile
	case BeginForLoopInit:
		return end == BeginForLoopCondition
	case BeginForLoopCondition:
		return end == BeginForLoopAfterthought
	case BeginForLoopAfterthought:
		return end == BeginForLoopBody
	case BeginForLoopBody:
		return end == EndForLoop
	case BeginForIn:
		return end == EndForIn
	case BeginForOf:
		return end == EndForOf
	case BeginTry:
		return end == BeginCatch || end == BeginFinally || end == EndTryCatch
	case BeginCatch:
		return end == BeginFinally || end == EndTryCatch
	case BeginFinally:
		return end == EndTryCatch
	case BeginClass:
		return end == BeginMethod || end == EndClass
	case BeginMethod:
		return end == EndMethod
	case BeginSwitch:
		return end == BeginSwitchCase || end == BeginSwitchDefaultCase || end == EndSwitch
	case BeginSwitchCase, BeginSwitchDefaultCase:
		return end == BeginSwitchCase || end == BeginSwitchDefaultCase || end == EndSwitch
	case BeginBlockStatement:
		return end == EndBlockStatement
	case BeginFunctionDefinition:
		return end == EndFunctionDefinition
	default:
		return false
	}
}
