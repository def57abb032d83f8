package ir

import "github.com/covfuzz/jsir/variable"

// Code is an append-only sequence of Instructions: the linear
// representation a Program is built from. Code on its own makes no claim
// about validity — Check applies the static validator.
type Code struct {
	instructions []*Instruction
}

// NewCode creates an empty instruction sequence.
func NewCode() *Code { return &Code{} }

// Append adds instr to the end of the sequence, stamping its index to
// match its position (preserving V1 for well-behaved callers; Check
// still verifies it for code built by other means, e.g. decoded wire
// records).
func (c *Code) Append(instr *Instruction) int {
	idx := len(c.instructions)
	instr.SetIndex(idx)
	c.instructions = append(c.instructions, instr)
	return idx
}

// Len returns the number of instructions.
func (c *Code) Len() int { return len(c.instructions) }

// At returns the instruction at position i.
func (c *Code) At(i int) *Instruction { return c.instructions[i] }

// Instructions returns the underlying instruction slice. Callers must not
// mutate it other than through Replace/Append.
func (c *Code) Instructions() []*Instruction { return c.instructions }

// Replace overwrites the instruction at idx, re-stamping its index so it
// still matches idx.
func (c *Code) Replace(idx int, instr *Instruction) {
	instr.SetIndex(idx)
	c.instructions[idx] = instr
}

// NextFreeVariable returns the variable numbered one above the highest
// output (outer or inner) of any instruction in the sequence, or v0 for
// empty code. Unused numbers below that highest output are not reused.
func (c *Code) NextFreeVariable() variable.Variable {
	max := -1
	for _, instr := range c.instructions {
		for _, v := range instr.AllOutputs() {
			if v.Number() > max {
				max = v.Number()
			}
		}
	}
	return variable.New(max + 1)
}

// RemoveNops returns a new Code with every Nop instruction dropped and
// the remaining instructions renumbered to stay contiguous. A nop's
// output is invisible to every later instruction (V9), but it still
// consumes a variable number — dropping the nop leaves a hole that
// RenumberVariables closes.
func (c *Code) RemoveNops() *Code {
	dropped := NewCode()
	for _, instr := range c.instructions {
		if instr.IsNop() {
			continue
		}
		cp := *instr
		dropped.Append(&cp)
	}
	return dropped.RenumberVariables()
}

// RenumberVariables returns a new Code with every variable renumbered to
// a contiguous sequence in order of first definition, closing any holes
// left by prior edits (e.g. a mutation engine deleting instructions).
func (c *Code) RenumberVariables() *Code {
	mapping := variable.NewMap[variable.Variable]()
	next := 0

	out := NewCode()
	for _, instr := range c.instructions {
		inputs := make([]variable.Variable, len(instr.Inputs()))
		for i, v := range instr.Inputs() {
			nv, _ := mapping.Get(v)
			inputs[i] = nv
		}
		outputs := make([]variable.Variable, len(instr.Outputs()))
		for i, v := range instr.Outputs() {
			nv := variable.New(next)
			next++
			mapping.Set(v, nv)
			outputs[i] = nv
		}
		innerOutputs := make([]variable.Variable, len(instr.InnerOutputs()))
		for i, v := range instr.InnerOutputs() {
			nv := variable.New(next)
			next++
			mapping.Set(v, nv)
			innerOutputs[i] = nv
		}
		renumbered, err := NewInstruction(instr.Op(), inputs, outputs, innerOutputs, instr.Payload())
		if err != nil {
			// The arities were already validated when instr was first
			// constructed; a failure here means this Code was never valid
			// to begin with.
			panic(err)
		}
		out.Append(renumbered)
	}
	return out
}

// Normalize returns a new Code with Nops removed and variables
// renumbered — the canonical form Code is reduced to before encoding or
// display.
func (c *Code) Normalize() *Code {
	return c.RemoveNops().RenumberVariables()
}
