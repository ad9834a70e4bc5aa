package bundle

import (
	"bytes"
	"fmt"

	"github.com/sunholo/axiscore/internal/core"
)

// encodeTerm writes tag:u8 followed by the tag's fixed payload, matching
// the table in §4.6. Child terms are encoded depth-first so encoding and
// decoding share a single recursive order.
func encodeTerm(w *bytes.Buffer, t core.CoreTerm, st *stringTable) error {
	w.WriteByte(byte(t.Tag()))
	switch n := t.(type) {
	case *core.CIntLit:
		writeI64(w, n.Value)
		writeSpan(w, n.Sp, st)
	case *core.CBoolLit:
		b := byte(0)
		if n.Value {
			b = 1
		}
		w.WriteByte(b)
		writeSpan(w, n.Sp, st)
	case *core.CUnitLit:
		writeSpan(w, n.Sp, st)
	case *core.CStrLit:
		writeU32(w, st.intern(n.Value))
		writeSpan(w, n.Sp, st)
	case *core.CVar:
		writeU32(w, st.intern(n.Name))
		writeSpan(w, n.Sp, st)
	case *core.CLam:
		writeU32(w, st.intern(n.Param))
		if err := encodeTerm(w, n.Body, st); err != nil {
			return err
		}
		writeSpan(w, n.Sp, st)
	case *core.CApp:
		if err := encodeTerm(w, n.Fn, st); err != nil {
			return err
		}
		if err := encodeTerm(w, n.Arg, st); err != nil {
			return err
		}
		writeSpan(w, n.Sp, st)
	case *core.CTuple:
		writeU32(w, uint32(len(n.Elems)))
		for _, e := range n.Elems {
			if err := encodeTerm(w, e, st); err != nil {
				return err
			}
		}
		writeSpan(w, n.Sp, st)
	case *core.CProj:
		if err := encodeTerm(w, n.Term, st); err != nil {
			return err
		}
		writeU32(w, uint32(n.Index))
		writeSpan(w, n.Sp, st)
	case *core.CLet:
		writeU32(w, st.intern(n.Name))
		if err := encodeTerm(w, n.Value, st); err != nil {
			return err
		}
		if err := encodeTerm(w, n.Body, st); err != nil {
			return err
		}
		writeSpan(w, n.Sp, st)
	case *core.CIf:
		if err := encodeTerm(w, n.Cond, st); err != nil {
			return err
		}
		if err := encodeTerm(w, n.Then, st); err != nil {
			return err
		}
		if err := encodeTerm(w, n.Else, st); err != nil {
			return err
		}
		writeSpan(w, n.Sp, st)
	case *core.CCtor:
		writeU32(w, st.intern(n.Name))
		writeU32(w, uint32(len(n.Fields)))
		for _, f := range n.Fields {
			if err := encodeTerm(w, f, st); err != nil {
				return err
			}
		}
		writeSpan(w, n.Sp, st)
	case *core.CMatch:
		if err := encodeTerm(w, n.Scrutinee, st); err != nil {
			return err
		}
		writeU32(w, uint32(len(n.Arms)))
		for _, a := range n.Arms {
			if err := encodePattern(w, a.Pattern, st); err != nil {
				return err
			}
			if err := encodeTerm(w, a.Body, st); err != nil {
				return err
			}
		}
		writeSpan(w, n.Sp, st)
	default:
		return fmt.Errorf("bundle: unencodable core term %T", t)
	}
	return nil
}

func encodePattern(w *bytes.Buffer, p core.CorePattern, st *stringTable) error {
	w.WriteByte(byte(p.PatternTag()))
	switch n := p.(type) {
	case *core.CPInt:
		writeI64(w, n.Value)
	case *core.CPBool:
		b := byte(0)
		if n.Value {
			b = 1
		}
		w.WriteByte(b)
	case *core.CPUnit:
		// no payload
	case *core.CPVar:
		writeU32(w, st.intern(n.Name))
	case *core.CPTuple:
		writeU32(w, uint32(len(n.Elems)))
		for _, e := range n.Elems {
			if err := encodePattern(w, e, st); err != nil {
				return err
			}
		}
	case *core.CPCtor:
		writeU32(w, st.intern(n.Name))
		writeU32(w, uint32(len(n.Inner)))
		for _, e := range n.Inner {
			if err := encodePattern(w, e, st); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("bundle: unencodable core pattern %T", p)
	}
	return nil
}

func decodeTerm(r *bytes.Reader, table []string) (core.CoreTerm, error) {
	tagByte, err := r.ReadByte()
	if err != nil {
		return nil, &Error{Code: "BND002", Message: "truncated term tag"}
	}
	switch core.Tag(tagByte) {
	case core.TagIntLit:
		v, err := readI64(r)
		if err != nil {
			return nil, &Error{Code: "BND002", Message: "truncated CIntLit"}
		}
		sp, err := readSpan(r, table)
		if err != nil {
			return nil, &Error{Code: "BND002", Message: "truncated CIntLit span"}
		}
		return &core.CIntLit{Value: v, Sp: sp}, nil
	case core.TagBoolLit:
		b, err := r.ReadByte()
		if err != nil {
			return nil, &Error{Code: "BND002", Message: "truncated CBoolLit"}
		}
		sp, err := readSpan(r, table)
		if err != nil {
			return nil, &Error{Code: "BND002", Message: "truncated CBoolLit span"}
		}
		return &core.CBoolLit{Value: b != 0, Sp: sp}, nil
	case core.TagUnitLit:
		sp, err := readSpan(r, table)
		if err != nil {
			return nil, &Error{Code: "BND002", Message: "truncated CUnitLit span"}
		}
		return &core.CUnitLit{Sp: sp}, nil
	case core.TagStrLit:
		idx, err := readU32(r)
		if err != nil {
			return nil, &Error{Code: "BND002", Message: "truncated CStrLit"}
		}
		sp, err := readSpan(r, table)
		if err != nil {
			return nil, &Error{Code: "BND002", Message: "truncated CStrLit span"}
		}
		return &core.CStrLit{Value: stringAt(table, idx), Sp: sp}, nil
	case core.TagVar:
		idx, err := readU32(r)
		if err != nil {
			return nil, &Error{Code: "BND002", Message: "truncated CVar"}
		}
		sp, err := readSpan(r, table)
		if err != nil {
			return nil, &Error{Code: "BND002", Message: "truncated CVar span"}
		}
		return &core.CVar{Name: stringAt(table, idx), Sp: sp}, nil
	case core.TagLam:
		idx, err := readU32(r)
		if err != nil {
			return nil, &Error{Code: "BND002", Message: "truncated CLam"}
		}
		body, err := decodeTerm(r, table)
		if err != nil {
			return nil, err
		}
		sp, err := readSpan(r, table)
		if err != nil {
			return nil, &Error{Code: "BND002", Message: "truncated CLam span"}
		}
		return &core.CLam{Param: stringAt(table, idx), Body: body, Sp: sp}, nil
	case core.TagApp:
		fn, err := decodeTerm(r, table)
		if err != nil {
			return nil, err
		}
		arg, err := decodeTerm(r, table)
		if err != nil {
			return nil, err
		}
		sp, err := readSpan(r, table)
		if err != nil {
			return nil, &Error{Code: "BND002", Message: "truncated CApp span"}
		}
		return &core.CApp{Fn: fn, Arg: arg, Sp: sp}, nil
	case core.TagTuple:
		n, err := readU32(r)
		if err != nil {
			return nil, &Error{Code: "BND002", Message: "truncated CTuple count"}
		}
		elems := make([]core.CoreTerm, n)
		for i := range elems {
			elems[i], err = decodeTerm(r, table)
			if err != nil {
				return nil, err
			}
		}
		sp, err := readSpan(r, table)
		if err != nil {
			return nil, &Error{Code: "BND002", Message: "truncated CTuple span"}
		}
		return &core.CTuple{Elems: elems, Sp: sp}, nil
	case core.TagProj:
		term, err := decodeTerm(r, table)
		if err != nil {
			return nil, err
		}
		idx, err := readU32(r)
		if err != nil {
			return nil, &Error{Code: "BND002", Message: "truncated CProj index"}
		}
		sp, err := readSpan(r, table)
		if err != nil {
			return nil, &Error{Code: "BND002", Message: "truncated CProj span"}
		}
		return &core.CProj{Term: term, Index: int(idx), Sp: sp}, nil
	case core.TagLet:
		idx, err := readU32(r)
		if err != nil {
			return nil, &Error{Code: "BND002", Message: "truncated CLet name"}
		}
		val, err := decodeTerm(r, table)
		if err != nil {
			return nil, err
		}
		body, err := decodeTerm(r, table)
		if err != nil {
			return nil, err
		}
		sp, err := readSpan(r, table)
		if err != nil {
			return nil, &Error{Code: "BND002", Message: "truncated CLet span"}
		}
		return &core.CLet{Name: stringAt(table, idx), Value: val, Body: body, Sp: sp}, nil
	case core.TagIf:
		cond, err := decodeTerm(r, table)
		if err != nil {
			return nil, err
		}
		then, err := decodeTerm(r, table)
		if err != nil {
			return nil, err
		}
		els, err := decodeTerm(r, table)
		if err != nil {
			return nil, err
		}
		sp, err := readSpan(r, table)
		if err != nil {
			return nil, &Error{Code: "BND002", Message: "truncated CIf span"}
		}
		return &core.CIf{Cond: cond, Then: then, Else: els, Sp: sp}, nil
	case core.TagCtor:
		idx, err := readU32(r)
		if err != nil {
			return nil, &Error{Code: "BND002", Message: "truncated CCtor name"}
		}
		n, err := readU32(r)
		if err != nil {
			return nil, &Error{Code: "BND002", Message: "truncated CCtor count"}
		}
		fields := make([]core.CoreTerm, n)
		for i := range fields {
			fields[i], err = decodeTerm(r, table)
			if err != nil {
				return nil, err
			}
		}
		sp, err := readSpan(r, table)
		if err != nil {
			return nil, &Error{Code: "BND002", Message: "truncated CCtor span"}
		}
		return &core.CCtor{Name: stringAt(table, idx), Fields: fields, Sp: sp}, nil
	case core.TagMatch:
		scrutinee, err := decodeTerm(r, table)
		if err != nil {
			return nil, err
		}
		n, err := readU32(r)
		if err != nil {
			return nil, &Error{Code: "BND002", Message: "truncated CMatch arm count"}
		}
		arms := make([]core.CMatchArm, n)
		for i := range arms {
			pat, err := decodePattern(r, table)
			if err != nil {
				return nil, err
			}
			body, err := decodeTerm(r, table)
			if err != nil {
				return nil, err
			}
			arms[i] = core.CMatchArm{Pattern: pat, Body: body}
		}
		sp, err := readSpan(r, table)
		if err != nil {
			return nil, &Error{Code: "BND002", Message: "truncated CMatch span"}
		}
		return &core.CMatch{Scrutinee: scrutinee, Arms: arms, Sp: sp}, nil
	default:
		return nil, &Error{Code: "BND002", Message: fmt.Sprintf("unknown term tag %d", tagByte)}
	}
}

func decodePattern(r *bytes.Reader, table []string) (core.CorePattern, error) {
	tagByte, err := r.ReadByte()
	if err != nil {
		return nil, &Error{Code: "BND002", Message: "truncated pattern tag"}
	}
	switch core.PatternTag(tagByte) {
	case core.PTagInt:
		v, err := readI64(r)
		if err != nil {
			return nil, &Error{Code: "BND002", Message: "truncated CPInt"}
		}
		return &core.CPInt{Value: v}, nil
	case core.PTagBool:
		b, err := r.ReadByte()
		if err != nil {
			return nil, &Error{Code: "BND002", Message: "truncated CPBool"}
		}
		return &core.CPBool{Value: b != 0}, nil
	case core.PTagUnit:
		return &core.CPUnit{}, nil
	case core.PTagVar:
		idx, err := readU32(r)
		if err != nil {
			return nil, &Error{Code: "BND002", Message: "truncated CPVar"}
		}
		return &core.CPVar{Name: stringAt(table, idx)}, nil
	case core.PTagTuple:
		n, err := readU32(r)
		if err != nil {
			return nil, &Error{Code: "BND002", Message: "truncated CPTuple count"}
		}
		elems := make([]core.CorePattern, n)
		for i := range elems {
			elems[i], err = decodePattern(r, table)
			if err != nil {
				return nil, err
			}
		}
		return &core.CPTuple{Elems: elems}, nil
	case core.PTagCtor:
		idx, err := readU32(r)
		if err != nil {
			return nil, &Error{Code: "BND002", Message: "truncated CPCtor name"}
		}
		n, err := readU32(r)
		if err != nil {
			return nil, &Error{Code: "BND002", Message: "truncated CPCtor count"}
		}
		inner := make([]core.CorePattern, n)
		for i := range inner {
			inner[i], err = decodePattern(r, table)
			if err != nil {
				return nil, err
			}
		}
		return &core.CPCtor{Name: stringAt(table, idx), Inner: inner}, nil
	default:
		return nil, &Error{Code: "BND002", Message: fmt.Sprintf("unknown pattern tag %d", tagByte)}
	}
}

func stringAt(table []string, idx uint32) string {
	if int(idx) < len(table) {
		return table[idx]
	}
	return ""
}
