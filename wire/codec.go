// Package wire implements the binary encoding of a Program: a compact
// record format for Operation references, Instructions, Code, the type
// ledger, comments, and the Program envelope itself.
//
// The format follows a plain binary framing style (encoding/binary,
// length-prefixed strings) rather than a generated schema — see
// DESIGN.md for why protobuf was considered and dropped. DecodeProgram
// re-validates the decoded Code before returning it, so a corrupt or
// adversarially crafted record can never produce a Program whose
// instructions violate the static invariants; DecodeCode on its own does
// not validate.
package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/covfuzz/jsir/catalog"
	"github.com/covfuzz/jsir/class"
	"github.com/covfuzz/jsir/ir"
	"github.com/covfuzz/jsir/program"
	"github.com/covfuzz/jsir/types"
	"github.com/covfuzz/jsir/variable"
)

const formatVersion uint8 = 1

func writeString(w *bytes.Buffer, s string) {
	binary.Write(w, binary.BigEndian, uint32(len(s)))
	w.WriteString(s)
}

func readString(r *bytes.Reader) (string, error) {
	var n uint32
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func writeVariables(w *bytes.Buffer, vars []variable.Variable) {
	binary.Write(w, binary.BigEndian, uint32(len(vars)))
	for _, v := range vars {
		binary.Write(w, binary.BigEndian, uint32(v.Number()))
	}
}

func readVariables(r *bytes.Reader) ([]variable.Variable, error) {
	var n uint32
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return nil, err
	}
	out := make([]variable.Variable, n)
	for i := range out {
		var num uint32
		if err := binary.Read(r, binary.BigEndian, &num); err != nil {
			return nil, err
		}
		if num > variable.MaxNumber {
			return nil, fmt.Errorf("wire: invalid variable number %d", num)
		}
		out[i] = variable.New(int(num))
	}
	return out, nil
}

// encodeType serializes a types.Type value recursively, tagged by Kind.
func encodeType(w *bytes.Buffer, t types.Type) error {
	if t == nil {
		t = types.Unknown
	}
	w.WriteString(string(t.Kind()))
	w.WriteByte(0) // NUL-terminate the fixed-set Kind tag
	switch v := t.(type) {
	case *types.ArrayType:
		return encodeType(w, v.Element)
	case *types.FunctionType:
		binary.Write(w, binary.BigEndian, uint32(len(v.Params)))
		for _, p := range v.Params {
			if err := encodeType(w, p); err != nil {
				return err
			}
		}
		return encodeType(w, v.Result)
	case *types.ObjectType:
		binary.Write(w, binary.BigEndian, uint32(len(v.Properties)))
		for name, pt := range v.Properties {
			writeString(w, name)
			if err := encodeType(w, pt); err != nil {
				return err
			}
		}
		binary.Write(w, binary.BigEndian, uint32(len(v.Methods)))
		for name, mt := range v.Methods {
			writeString(w, name)
			if err := encodeType(w, &types.FunctionType{Params: mt.Params, Result: mt.Result}); err != nil {
				return err
			}
		}
		return nil
	case *types.UnionType:
		binary.Write(w, binary.BigEndian, uint32(len(v.Members)))
		for _, m := range v.Members {
			if err := encodeType(w, m); err != nil {
				return err
			}
		}
		return nil
	default:
		return nil // primitive: the Kind tag alone is enough
	}
}

func readKindTag(r *bytes.Reader) (types.Kind, error) {
	var buf []byte
	for {
		b, err := r.ReadByte()
		if err != nil {
			return "", err
		}
		if b == 0 {
			break
		}
		buf = append(buf, b)
	}
	return types.Kind(buf), nil
}

func decodeType(r *bytes.Reader) (types.Type, error) {
	kind, err := readKindTag(r)
	if err != nil {
		return nil, err
	}
	switch kind {
	case types.KindUnknown:
		return types.Unknown, nil
	case types.KindUndefined:
		return types.Undefined, nil
	case types.KindNull:
		return types.Null, nil
	case types.KindBoolean:
		return types.Boolean, nil
	case types.KindInteger:
		return types.Integer, nil
	case types.KindFloat:
		return types.Float, nil
	case types.KindBigInt:
		return types.BigInt, nil
	case types.KindString:
		return types.String, nil
	case types.KindArray:
		elem, err := decodeType(r)
		if err != nil {
			return nil, err
		}
		return &types.ArrayType{Element: elem}, nil
	case types.KindFunction:
		var n uint32
		if err := binary.Read(r, binary.BigEndian, &n); err != nil {
			return nil, err
		}
		params := make([]types.Type, n)
		for i := range params {
			if params[i], err = decodeType(r); err != nil {
				return nil, err
			}
		}
		result, err := decodeType(r)
		if err != nil {
			return nil, err
		}
		return &types.FunctionType{Params: params, Result: result}, nil
	case types.KindObject:
		obj := types.NewObjectType()
		var n uint32
		if err := binary.Read(r, binary.BigEndian, &n); err != nil {
			return nil, err
		}
		for i := uint32(0); i < n; i++ {
			name, err := readString(r)
			if err != nil {
				return nil, err
			}
			pt, err := decodeType(r)
			if err != nil {
				return nil, err
			}
			obj.Properties[name] = pt
		}
		if err := binary.Read(r, binary.BigEndian, &n); err != nil {
			return nil, err
		}
		for i := uint32(0); i < n; i++ {
			name, err := readString(r)
			if err != nil {
				return nil, err
			}
			mt, err := decodeType(r)
			if err != nil {
				return nil, err
			}
			fn, ok := mt.(*types.FunctionType)
			if !ok {
				return nil, fmt.Errorf("wire: method %q did not decode to a function type", name)
			}
			obj.Methods[name] = fn
		}
		return obj, nil
	case types.KindUnion:
		var n uint32
		if err := binary.Read(r, binary.BigEndian, &n); err != nil {
			return nil, err
		}
		members := make([]types.Type, n)
		for i := range members {
			var err error
			if members[i], err = decodeType(r); err != nil {
				return nil, err
			}
		}
		return &types.UnionType{Members: members}, nil
	default:
		return nil, fmt.Errorf("wire: unknown type kind %q", kind)
	}
}

func encodeClassPayload(w *bytes.Buffer, p *ir.ClassPayload) error {
	if p == nil {
		p = &ir.ClassPayload{}
	}
	binary.Write(w, binary.BigEndian, uint32(len(p.Properties)))
	for name, t := range p.Properties {
		writeString(w, name)
		if err := encodeType(w, t); err != nil {
			return err
		}
	}
	binary.Write(w, binary.BigEndian, uint32(len(p.Methods)))
	for _, m := range p.Methods {
		writeString(w, m.Name)
		binary.Write(w, binary.BigEndian, uint32(len(m.Params)))
		for _, pt := range m.Params {
			if err := encodeType(w, pt); err != nil {
				return err
			}
		}
		if err := encodeType(w, m.Result); err != nil {
			return err
		}
	}
	if p.Constructor != nil {
		w.WriteByte(1)
		writeString(w, p.Constructor.Name)
		binary.Write(w, binary.BigEndian, uint32(len(p.Constructor.Params)))
		for _, pt := range p.Constructor.Params {
			if err := encodeType(w, pt); err != nil {
				return err
			}
		}
		if err := encodeType(w, p.Constructor.Result); err != nil {
			return err
		}
	} else {
		w.WriteByte(0)
	}
	if p.SuperType != nil {
		w.WriteByte(1)
		return encodeType(w, p.SuperType)
	}
	w.WriteByte(0)
	return nil
}

func decodeClassPayload(r *bytes.Reader) (*ir.ClassPayload, error) {
	p := &ir.ClassPayload{Properties: map[string]types.Type{}}
	var n uint32
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return nil, err
	}
	for i := uint32(0); i < n; i++ {
		name, err := readString(r)
		if err != nil {
			return nil, err
		}
		t, err := decodeType(r)
		if err != nil {
			return nil, err
		}
		p.Properties[name] = t
	}
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return nil, err
	}
	for i := uint32(0); i < n; i++ {
		sig, err := decodeMethodSignature(r)
		if err != nil {
			return nil, err
		}
		p.Methods = append(p.Methods, sig)
	}
	hasCtor, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	if hasCtor == 1 {
		sig, err := decodeMethodSignature(r)
		if err != nil {
			return nil, err
		}
		p.Constructor = &sig
	}
	hasSuper, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	if hasSuper == 1 {
		if p.SuperType, err = decodeType(r); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func decodeMethodSignature(r *bytes.Reader) (class.MethodSignature, error) {
	name, err := readString(r)
	if err != nil {
		return class.MethodSignature{}, err
	}
	var n uint32
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return class.MethodSignature{}, err
	}
	params := make([]types.Type, n)
	for i := range params {
		if params[i], err = decodeType(r); err != nil {
			return class.MethodSignature{}, err
		}
	}
	result, err := decodeType(r)
	if err != nil {
		return class.MethodSignature{}, err
	}
	return class.MethodSignature{Name: name, Params: params, Result: result}, nil
}

func encodePayload(w *bytes.Buffer, op *catalog.Operation, payload any) error {
	switch op.Opcode {
	case catalog.LoadInt:
		v, _ := payload.(int64)
		return binary.Write(w, binary.BigEndian, v)
	case catalog.LoadBool:
		v, _ := payload.(bool)
		var b byte
		if v {
			b = 1
		}
		return w.WriteByte(b)
	case catalog.LoadString, catalog.Compare:
		s, _ := payload.(string)
		writeString(w, s)
		return nil
	case catalog.BeginClass:
		p, _ := payload.(*ir.ClassPayload)
		return encodeClassPayload(w, p)
	case catalog.BeginMethod:
		p, _ := payload.(*ir.MethodPayload)
		name := ""
		if p != nil {
			name = p.Name
		}
		writeString(w, name)
		return nil
	default:
		return nil
	}
}

func decodePayload(r *bytes.Reader, op *catalog.Operation) (any, error) {
	switch op.Opcode {
	case catalog.LoadInt:
		var v int64
		if err := binary.Read(r, binary.BigEndian, &v); err != nil {
			return nil, err
		}
		return v, nil
	case catalog.LoadBool:
		b, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		return b == 1, nil
	case catalog.LoadString, catalog.Compare:
		return readString(r)
	case catalog.BeginClass:
		return decodeClassPayload(r)
	case catalog.BeginMethod:
		name, err := readString(r)
		if err != nil {
			return nil, err
		}
		return &ir.MethodPayload{Name: name}, nil
	default:
		return nil, nil
	}
}

// EncodeCode serializes code's instructions, in order.
func EncodeCode(w *bytes.Buffer, code *ir.Code) error {
	binary.Write(w, binary.BigEndian, uint32(code.Len()))
	for i := 0; i < code.Len(); i++ {
		instr := code.At(i)
		binary.Write(w, binary.BigEndian, uint32(instr.Op().Opcode))
		writeVariables(w, instr.Inputs())
		writeVariables(w, instr.Outputs())
		writeVariables(w, instr.InnerOutputs())
		if err := encodePayload(w, instr.Op(), instr.Payload()); err != nil {
			return fmt.Errorf("wire: encoding payload for instruction %d: %w", i, err)
		}
	}
	return nil
}

// DecodeCode reads instructions written by EncodeCode into a new Code.
// It does not itself validate the result — callers decoding a full
// Program get that via DecodeProgram.
func DecodeCode(r *bytes.Reader) (*ir.Code, error) {
	var n uint32
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return nil, err
	}
	code := ir.NewCode()
	for i := uint32(0); i < n; i++ {
		var opcode uint32
		if err := binary.Read(r, binary.BigEndian, &opcode); err != nil {
			return nil, err
		}
		op, err := catalog.Lookup(catalog.Opcode(opcode))
		if err != nil {
			return nil, fmt.Errorf("wire: instruction %d: %w", i, err)
		}
		inputs, err := readVariables(r)
		if err != nil {
			return nil, err
		}
		outputs, err := readVariables(r)
		if err != nil {
			return nil, err
		}
		innerOutputs, err := readVariables(r)
		if err != nil {
			return nil, err
		}
		payload, err := decodePayload(r, op)
		if err != nil {
			return nil, fmt.Errorf("wire: instruction %d payload: %w", i, err)
		}
		instr, err := ir.NewInstruction(op, inputs, outputs, innerOutputs, payload)
		if err != nil {
			return nil, fmt.Errorf("wire: instruction %d: %w", i, err)
		}
		code.Append(instr)
	}
	return code, nil
}

func encodeProgramTypes(w *bytes.Buffer, pt *types.ProgramTypes, size int) error {
	byIndex := pt.IndexedByInstruction(size)
	binary.Write(w, binary.BigEndian, uint32(size))
	for i := 0; i < size; i++ {
		entries := byIndex[i]
		binary.Write(w, binary.BigEndian, uint32(len(entries)))
		for _, e := range entries {
			binary.Write(w, binary.BigEndian, uint32(e.VariableNumber))
			if err := encodeType(w, e.Type); err != nil {
				return err
			}
		}
	}
	return nil
}

func decodeProgramTypes(r *bytes.Reader) (*types.ProgramTypes, error) {
	pt := types.NewProgramTypes()
	var size uint32
	if err := binary.Read(r, binary.BigEndian, &size); err != nil {
		return nil, err
	}
	for i := uint32(0); i < size; i++ {
		var n uint32
		if err := binary.Read(r, binary.BigEndian, &n); err != nil {
			return nil, err
		}
		for j := uint32(0); j < n; j++ {
			var varNum uint32
			if err := binary.Read(r, binary.BigEndian, &varNum); err != nil {
				return nil, err
			}
			t, err := decodeType(r)
			if err != nil {
				return nil, err
			}
			pt.SetType(int(varNum), t, int(i), types.Inferred)
		}
	}
	return pt, nil
}

func encodeComments(w *bytes.Buffer, c *program.Comments) {
	writeString(w, c.Header)
	writeString(w, c.Footer)
	binary.Write(w, binary.BigEndian, uint32(len(c.PerInstruction)))
	for idx, text := range c.PerInstruction {
		binary.Write(w, binary.BigEndian, uint32(idx))
		writeString(w, text)
	}
}

func decodeComments(r *bytes.Reader) (*program.Comments, error) {
	c := program.NewComments()
	var err error
	if c.Header, err = readString(r); err != nil {
		return nil, err
	}
	if c.Footer, err = readString(r); err != nil {
		return nil, err
	}
	var n uint32
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return nil, err
	}
	for i := uint32(0); i < n; i++ {
		var idx uint32
		if err := binary.Read(r, binary.BigEndian, &idx); err != nil {
			return nil, err
		}
		text, err := readString(r)
		if err != nil {
			return nil, err
		}
		c.PerInstruction[int(idx)] = text
	}
	return c, nil
}

// EncodeProgram serializes p in full: identity, lineage, code, types, and
// comments.
func EncodeProgram(p *program.Program) ([]byte, error) {
	var w bytes.Buffer
	w.WriteByte(formatVersion)

	idBytes, err := p.ID().MarshalBinary()
	if err != nil {
		return nil, err
	}
	w.Write(idBytes)

	if parent := p.Parent(); parent != nil {
		w.WriteByte(1)
		parentBytes, err := parent.MarshalBinary()
		if err != nil {
			return nil, err
		}
		w.Write(parentBytes)
	} else {
		w.WriteByte(0)
	}

	w.WriteByte(byte(p.TypeCollectionStatus()))

	if err := EncodeCode(&w, p.Code()); err != nil {
		return nil, err
	}
	if err := encodeProgramTypes(&w, p.Types(), p.Code().Len()); err != nil {
		return nil, err
	}
	encodeComments(&w, p.Comments())

	return w.Bytes(), nil
}

// DecodeProgram parses data written by EncodeProgram and re-validates
// the resulting Code, refusing to hand back a Program whose instructions
// violate the static invariants.
func DecodeProgram(data []byte) (*program.Program, error) {
	r := bytes.NewReader(data)
	version, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	if version != formatVersion {
		return nil, fmt.Errorf("wire: unsupported format version %d", version)
	}

	idBytes := make([]byte, 16)
	if _, err := io.ReadFull(r, idBytes); err != nil {
		return nil, err
	}
	id, err := uuid.FromBytes(idBytes)
	if err != nil {
		return nil, err
	}

	hasParent, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	var parent *uuid.UUID
	if hasParent == 1 {
		parentBytes := make([]byte, 16)
		if _, err := io.ReadFull(r, parentBytes); err != nil {
			return nil, err
		}
		pid, err := uuid.FromBytes(parentBytes)
		if err != nil {
			return nil, err
		}
		parent = &pid
	}

	statusByte, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	status := program.TypeCollectionStatus(statusByte)

	code, err := DecodeCode(r)
	if err != nil {
		return nil, err
	}
	if err := code.Check(); err != nil {
		return nil, fmt.Errorf("wire: decoded code failed validation: %w", err)
	}

	pt, err := decodeProgramTypes(r)
	if err != nil {
		return nil, err
	}
	comments, err := decodeComments(r)
	if err != nil {
		return nil, err
	}

	return program.Restore(id, code, pt, comments, parent, status), nil
}
