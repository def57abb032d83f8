package ir

import (
	"fmt"

	"github.com/covfuzz/jsir/catalog"
	"github.com/covfuzz/jsir/class"
	"github.com/covfuzz/jsir/ctxanalysis"
	"github.com/covfuzz/jsir/variable"
)

// blockFrame records the opcode and index that opened the currently
// active block, so the matching closer can be checked against it (the
// control-flow grammar's is_matching_end) and so EndSwitch-style
// singular attributes (at most one default case) can be tracked across
// a switch's chain of case blocks.
type blockFrame struct {
	startOp     catalog.Opcode
	startIndex  int
	seenDefault bool
}

// forLoopContinuation reports whether op is one of the three interior
// for-loop header parts that share a single lexical scope with the
// BeginForLoopInit that opened it, rather than opening a fresh one —
// the resolution adopted for the for-loop header coherence invariant:
// loop variables declared in the init clause stay visible across the
// condition, afterthought, and body.
func forLoopContinuation(op catalog.Opcode) bool {
	switch op {
	case catalog.BeginForLoopCondition, catalog.BeginForLoopAfterthought, catalog.BeginForLoopBody:
		return true
	default:
		return false
	}
}

// Check runs the full static validator over c: index continuity,
// variable numbering and visibility, block nesting, required context,
// for-loop header coherence, and class method completeness. It returns
// the first violation found, wrapping one of the sentinel errors
// in this package.
func (c *Code) Check() error {
	var (
		scopes         = []*variable.VariableSet{variable.NewSet()}
		blocks         = variable.NewStack[blockFrame]()
		classes        = class.NewStack()
		ctx            = ctxanalysis.New(catalog.ContextScript)
		definedAt      = variable.NewMap[int]()
		nextVarNum     = 0
		forLoopHeaders = variable.NewStack[int]()
	)

	top := func() *variable.VariableSet { return scopes[len(scopes)-1] }

	isVisible := func(v variable.Variable) bool {
		for i := len(scopes) - 1; i >= 0; i-- {
			if scopes[i].Contains(v) {
				return true
			}
		}
		return false
	}

	// defineOne records v's definition for contiguity/redefinition
	// bookkeeping regardless of visibility, but only adds it to the
	// active scope (making later instructions able to reference it) when
	// visible is true. A nop's output is defined invisibly: it still
	// consumes a variable number (scope -1, in the source algorithm's
	// terms) but no later instruction can see it.
	defineOne := func(i int, v variable.Variable, into *variable.VariableSet, visible bool) error {
		if definedAt.Contains(v) {
			return fmt.Errorf("%w: %s at instruction %d", ErrVariableRedefined, v, i)
		}
		if v.Number() != nextVarNum {
			return fmt.Errorf("%w: expected %d, got %s at instruction %d", ErrNonContiguousNumbering, nextVarNum, v, i)
		}
		nextVarNum++
		definedAt.Set(v, i)
		if visible {
			into.Add(v)
		}
		return nil
	}

	for i, instr := range c.instructions {
		if instr.Index() != i {
			return fmt.Errorf("%w: instruction at position %d carries index %d", ErrIndexMismatch, i, instr.Index())
		}
		op := instr.Op()

		if op.RequiredContext != 0 && !ctx.Context().Contains(op.RequiredContext) {
			return fmt.Errorf("%w: %s requires context %v, active context is %v", ErrInvalidContext, op.Name, op.RequiredContext, ctx.Context())
		}

		var closed blockFrame
		if op.IsBlockEnd {
			if blocks.IsEmpty() {
				return fmt.Errorf("%w: %s at instruction %d", ErrBlockNeverStarted, op.Name, i)
			}
			frame := blocks.Pop()
			closed = frame
			if !catalog.IsMatchingEnd(frame.startOp, op.Opcode) {
				return fmt.Errorf("%w: %s closing block opened by opcode %d at instruction %d", ErrBlockEndMismatch, op.Name, frame.startOp, frame.startIndex)
			}
			if frame.startOp == catalog.BeginClass && op.Opcode == catalog.EndClass {
				if _, err := classes.Pop(); err != nil {
					return fmt.Errorf("%w: %v (EndClass at instruction %d)", ErrClassMissingMethods, err, i)
				}
			}
			if !forLoopContinuation(op.Opcode) {
				scopes = scopes[:len(scopes)-1]
			}
		}

		for _, v := range instr.Inputs() {
			if !definedAt.Contains(v) {
				return fmt.Errorf("%w: %s used by instruction %d", ErrVariableNeverDefined, v, i)
			}
			if !isVisible(v) {
				return fmt.Errorf("%w: %s used by instruction %d", ErrVariableNotVisible, v, i)
			}
		}

		for _, v := range instr.Outputs() {
			if err := defineOne(i, v, top(), !op.IsNop); err != nil {
				return err
			}
		}

		// A switch case closes the previous block of the same switch, so the
		// frame it just popped carries whether a default case was seen.
		if op.Opcode == catalog.BeginSwitchDefaultCase && closed.seenDefault {
			return fmt.Errorf("%w: %s at instruction %d", ErrDuplicateSingular, op.Name, i)
		}

		if op.Opcode == catalog.BeginClass {
			payload, _ := instr.Payload().(*ClassPayload)
			if payload == nil {
				payload = &ClassPayload{}
			}
			classes.Push(class.New(payload.Properties, payload.Methods, payload.Constructor, payload.SuperType))
		}
		if op.Opcode == catalog.BeginMethod {
			payload, _ := instr.Payload().(*MethodPayload)
			name := ""
			if payload != nil {
				name = payload.Name
			}
			current := classes.Current()
			if current == nil {
				return fmt.Errorf("%w: BeginMethod %q outside a class at instruction %d", ErrClassMissingMethods, name, i)
			}
			if _, err := current.NextMethod(name); err != nil {
				return fmt.Errorf("%w: %v (instruction %d)", ErrClassMissingMethods, err, i)
			}
		}

		if op.IsBlockStart {
			blocks.Push(blockFrame{
				startOp:     op.Opcode,
				startIndex:  i,
				seenDefault: closed.seenDefault || op.Opcode == catalog.BeginSwitchDefaultCase,
			})
			if !forLoopContinuation(op.Opcode) {
				scopes = append(scopes, variable.NewSet())
			}

			switch op.Opcode {
			case catalog.BeginForLoopCondition:
				if len(instr.Inputs()) != len(instr.InnerOutputs()) {
					return fmt.Errorf("%w: %s reads %d loop variables but declares %d, at instruction %d",
						ErrForLoopHeaderMismatch, op.Name, len(instr.Inputs()), len(instr.InnerOutputs()), i)
				}
				forLoopHeaders.Push(len(instr.InnerOutputs()))
			case catalog.BeginForLoopAfterthought:
				if forLoopHeaders.IsEmpty() || len(instr.InnerOutputs()) != *forLoopHeaders.Top() {
					return fmt.Errorf("%w: %s at instruction %d", ErrForLoopHeaderMismatch, op.Name, i)
				}
			case catalog.BeginForLoopBody:
				if forLoopHeaders.IsEmpty() || len(instr.InnerOutputs()) != forLoopHeaders.Pop() {
					return fmt.Errorf("%w: %s at instruction %d", ErrForLoopHeaderMismatch, op.Name, i)
				}
			}
		}

		for _, v := range instr.InnerOutputs() {
			if err := defineOne(i, v, top(), true); err != nil {
				return err
			}
		}

		ctx.Analyze(op)
	}

	if !blocks.IsEmpty() {
		return fmt.Errorf("%w: %d block(s) still open at end of code", ErrUnfinishedBlocks, blocks.Len())
	}
	return nil
}
