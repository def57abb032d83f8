package asmparse

import (
	"fmt"
	"strings"

	"github.com/covfuzz/jsir/ir"
	"github.com/covfuzz/jsir/variable"
)

// Disassemble renders code back into the textual assembly notation that
// Parse accepts, one instruction per line.
func Disassemble(code *ir.Code) string {
	var b strings.Builder
	for i := 0; i < code.Len(); i++ {
		instr := code.At(i)
		writeVars(&b, instr.Outputs())
		if len(instr.Outputs()) > 0 {
			b.WriteString("= ")
		}
		b.WriteString(instr.Op().Name)
		if len(instr.InnerOutputs()) > 0 {
			b.WriteString(" [")
			writeVars(&b, instr.InnerOutputs())
			b.WriteString("]")
		}
		if len(instr.Inputs()) > 0 {
			b.WriteString(" ")
			writeVars(&b, instr.Inputs())
		}
		if payload := instr.Payload(); payload != nil {
			b.WriteString(" ")
			writePayload(&b, payload)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func writeVars(b *strings.Builder, vars []variable.Variable) {
	for i, v := range vars {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(v.String())
	}
	if len(vars) > 0 {
		b.WriteString(" ")
	}
}

func writePayload(b *strings.Builder, payload any) {
	switch v := payload.(type) {
	case string:
		fmt.Fprintf(b, "%q", v)
	case *ir.MethodPayload:
		fmt.Fprintf(b, "%q", v.Name)
	case *ir.ClassPayload:
		// Class payloads carry structured data the notation cannot
		// express; omit rather than print a Go struct literal.
	default:
		fmt.Fprintf(b, "%v", v)
	}
}
