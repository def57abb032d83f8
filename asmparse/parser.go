// Package asmparse implements the parser for the textual assembly
// notation: one instruction per line, of the shape
//
//	[outputs "=" ] mnemonic ["[" innerOutputs "]"] [operands]
//
// where outputs and innerOutputs are comma-separated variable tokens
// (v0, v1, …) and operands are a comma-separated mix of variable tokens
// (instruction inputs) and at most one literal (int, string, or true/
// false identifier) carrying the instruction's payload, for the small
// set of operations the notation supports scalar payloads for. Richer
// payloads (a class's declared method list) are not expressible in text
// and must be built programmatically.
package asmparse

import (
	"fmt"
	"strconv"

	"github.com/covfuzz/jsir/asmlex"
	"github.com/covfuzz/jsir/asmtoken"
	"github.com/covfuzz/jsir/catalog"
	"github.com/covfuzz/jsir/ir"
	"github.com/covfuzz/jsir/variable"
)

// Parser turns assembly source text into Code.
type Parser struct {
	lex       *asmlex.Lexer
	curToken  asmtoken.Token
	peekToken asmtoken.Token
	errors    []string
}

// New creates a Parser over source.
func New(source string) *Parser {
	p := &Parser{lex: asmlex.New(source)}
	p.next()
	p.next()
	return p
}

func (p *Parser) next() {
	p.curToken = p.peekToken
	p.peekToken = p.lex.NextToken()
}

// Parse consumes the whole source and returns the resulting Code. It
// does not run the static validator — callers should call Code.Check
// themselves once parsing succeeds.
func Parse(source string) (*ir.Code, error) {
	p := New(source)
	code := ir.NewCode()
	for p.curToken.Type != asmtoken.EOF {
		if p.curToken.Type == asmtoken.NEWLINE {
			p.next()
			continue
		}
		instr, err := p.parseLine()
		if err != nil {
			return nil, err
		}
		if instr != nil {
			code.Append(instr)
		}
	}
	if len(p.errors) > 0 {
		return nil, fmt.Errorf("asmparse: %v", p.errors)
	}
	return code, nil
}

func (p *Parser) parseLine() (*ir.Instruction, error) {
	var outputs []variable.Variable

	if p.curToken.Type == asmtoken.VARIABLE {
		vars, err := p.parseVariableList()
		if err != nil {
			return nil, err
		}
		outputs = vars
		if p.curToken.Type != asmtoken.ASSIGN {
			return nil, fmt.Errorf("asmparse: expected '=' after output list, got %q", p.curToken.Literal)
		}
		p.next()
	}

	if p.curToken.Type != asmtoken.IDENT {
		return nil, fmt.Errorf("asmparse: expected a mnemonic, got %q", p.curToken.Literal)
	}
	mnemonic := p.curToken.Literal
	op, err := catalog.OperationByName(mnemonic)
	if err != nil {
		return nil, fmt.Errorf("asmparse: %w", err)
	}
	p.next()

	var innerOutputs []variable.Variable
	if p.curToken.Type == asmtoken.LBRACK {
		p.next()
		innerOutputs, err = p.parseVariableList()
		if err != nil {
			return nil, err
		}
		if p.curToken.Type != asmtoken.RBRACK {
			return nil, fmt.Errorf("asmparse: expected ']', got %q", p.curToken.Literal)
		}
		p.next()
	}

	var (
		inputs  []variable.Variable
		payload any
		havePayload bool
	)
	for p.curToken.Type != asmtoken.NEWLINE && p.curToken.Type != asmtoken.EOF {
		switch p.curToken.Type {
		case asmtoken.VARIABLE:
			n, err := strconv.Atoi(p.curToken.Literal)
			if err != nil {
				return nil, fmt.Errorf("asmparse: bad variable number %q: %w", p.curToken.Literal, err)
			}
			inputs = append(inputs, variable.New(n))
		case asmtoken.INT:
			n, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("asmparse: bad integer literal %q: %w", p.curToken.Literal, err)
			}
			payload, havePayload = n, true
		case asmtoken.STRING:
			payload, havePayload = p.curToken.Literal, true
		case asmtoken.IDENT:
			switch p.curToken.Literal {
			case "true":
				payload, havePayload = true, true
			case "false":
				payload, havePayload = false, true
			default:
				return nil, fmt.Errorf("asmparse: unexpected identifier operand %q", p.curToken.Literal)
			}
		case asmtoken.COMMA:
			// separator, nothing to do
		default:
			return nil, fmt.Errorf("asmparse: unexpected token %q in operand list", p.curToken.Literal)
		}
		p.next()
	}
	_ = havePayload

	if op.Opcode == catalog.BeginMethod {
		name, _ := payload.(string)
		payload = &ir.MethodPayload{Name: name}
	}

	return ir.NewInstruction(op, inputs, outputs, innerOutputs, payload)
}

// parseVariableList consumes a comma-separated list of variable tokens,
// stopping (without consuming) at the first non-variable, non-comma
// token.
func (p *Parser) parseVariableList() ([]variable.Variable, error) {
	var out []variable.Variable
	for {
		if p.curToken.Type != asmtoken.VARIABLE {
			return nil, fmt.Errorf("asmparse: expected a variable, got %q", p.curToken.Literal)
		}
		n, err := strconv.Atoi(p.curToken.Literal)
		if err != nil {
			return nil, fmt.Errorf("asmparse: bad variable number %q: %w", p.curToken.Literal, err)
		}
		out = append(out, variable.New(n))
		p.next()
		if p.curToken.Type != asmtoken.COMMA {
			break
		}
		p.next()
	}
	return out, nil
}
