package ir

import (
	"fmt"

	"github.com/covfuzz/jsir/catalog"
	"github.com/covfuzz/jsir/variable"
)

// Instruction binds an Operation to a sequence of input/output variable
// slots and an index into its containing Code. The slot vector stores
// inputs, then outer-scope outputs, then inner-scope outputs, in that
// exact order. The three slot counts are recorded at construction time
// rather than re-derived from op, since a variadic dimension's actual
// count is per-instruction, not a catalogue constant.
type Instruction struct {
	op              *catalog.Operation
	inouts          []variable.Variable
	numInputs       int
	numOutputs      int
	numInnerOutputs int
	index           int
	payload         any
}

// NewInstruction constructs an Instruction bound to op, validating the
// slot-count invariant: |inouts| == numInputs+numOutputs+numInner unless
// a dimension is variadic, in which case its declared Num* field is a
// floor rather than an exact count — len(inputs) must be at least
// op.FirstVariadicInput when IsVariadic, and len(outputs)/len(innerOutputs)
// must be at least op.NumOutputs/op.NumInnerOutputs when IsVariadicOutputs/
// IsVariadicInnerOutputs. payload carries operation-specific data (a
// literal value for Load* ops, the declared method list for BeginClass,
// …) and is what op.IsMutable exposes to a mutation engine.
func NewInstruction(op *catalog.Operation, inputs, outputs, innerOutputs []variable.Variable, payload any) (*Instruction, error) {
	if op.IsVariadic {
		if len(inputs) < op.FirstVariadicInput {
			return nil, fmt.Errorf("ir: %s requires at least %d inputs, got %d", op.Name, op.FirstVariadicInput, len(inputs))
		}
	} else if len(inputs) != op.NumInputs {
		return nil, fmt.Errorf("ir: %s requires %d inputs, got %d", op.Name, op.NumInputs, len(inputs))
	}
	if op.IsVariadicOutputs {
		if len(outputs) < op.NumOutputs {
			return nil, fmt.Errorf("ir: %s requires at least %d outputs, got %d", op.Name, op.NumOutputs, len(outputs))
		}
	} else if len(outputs) != op.NumOutputs {
		return nil, fmt.Errorf("ir: %s requires %d outputs, got %d", op.Name, op.NumOutputs, len(outputs))
	}
	if op.IsVariadicInnerOutputs {
		if len(innerOutputs) < op.NumInnerOutputs {
			return nil, fmt.Errorf("ir: %s requires at least %d inner outputs, got %d", op.Name, op.NumInnerOutputs, len(innerOutputs))
		}
	} else if len(innerOutputs) != op.NumInnerOutputs {
		return nil, fmt.Errorf("ir: %s requires %d inner outputs, got %d", op.Name, op.NumInnerOutputs, len(innerOutputs))
	}

	inouts := make([]variable.Variable, 0, len(inputs)+len(outputs)+len(innerOutputs))
	inouts = append(inouts, inputs...)
	inouts = append(inouts, outputs...)
	inouts = append(inouts, innerOutputs...)

	return &Instruction{
		op: op, inouts: inouts,
		numInputs: len(inputs), numOutputs: len(outputs), numInnerOutputs: len(innerOutputs),
		index: -1, payload: payload,
	}, nil
}

// Op returns the operation this instruction is an instance of.
func (i *Instruction) Op() *catalog.Operation { return i.op }

// Index returns the instruction's position within its containing Code.
func (i *Instruction) Index() int { return i.index }

// SetIndex is used by Code when appending or replacing instructions to
// keep index == position in the containing sequence (V1).
func (i *Instruction) SetIndex(idx int) { i.index = idx }

// Payload returns the operation-specific data attached to this
// instruction (nil if none).
func (i *Instruction) Payload() any { return i.payload }

// SetPayload overwrites the operation-specific data. Only meaningful for
// instructions whose Op().IsMutable is true; callers outside a mutation
// engine should not call this.
func (i *Instruction) SetPayload(p any) { i.payload = p }

// Inputs returns the instruction's input variables.
func (i *Instruction) Inputs() []variable.Variable {
	return i.inouts[:i.numInputs]
}

// Outputs returns the instruction's outer-scope output variables.
func (i *Instruction) Outputs() []variable.Variable {
	return i.inouts[i.numInputs : i.numInputs+i.numOutputs]
}

// InnerOutputs returns the instruction's inner-scope (block-local)
// output variables.
func (i *Instruction) InnerOutputs() []variable.Variable {
	n := i.numInputs + i.numOutputs
	return i.inouts[n : n+i.numInnerOutputs]
}

// AllOutputs returns the union of Outputs and InnerOutputs.
func (i *Instruction) AllOutputs() []variable.Variable {
	return i.inouts[i.numInputs:]
}

// IsBlockStart forwards Op().IsBlockStart.
func (i *Instruction) IsBlockStart() bool { return i.op.IsBlockStart }

// IsBlockEnd forwards Op().IsBlockEnd.
func (i *Instruction) IsBlockEnd() bool { return i.op.IsBlockEnd }

// IsNop forwards Op().IsNop.
func (i *Instruction) IsNop() bool { return i.op.IsNop }

// String renders the instruction for diagnostics. asmparse.Disassemble
// uses its own text format and does not call it.
func (i *Instruction) String() string {
	s := fmt.Sprintf("%04d ", i.index)
	for _, o := range i.Outputs() {
		s += o.String() + " "
	}
	for _, o := range i.InnerOutputs() {
		s += o.String() + " "
	}
	s += "= " + i.op.Name
	for _, in := range i.Inputs() {
		s += " " + in.String()
	}
	return s
}
