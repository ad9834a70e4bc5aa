package ast

import (
	"encoding/json"
	"fmt"
)

// DebugDump produces a deterministic JSON representation of a File, used by
// tests and by diagnostic tooling. It omits positions so that two
// syntactically-equal files dump identically regardless of source layout.
func DebugDump(f *File) string {
	if f == nil {
		return "null"
	}
	data, err := json.MarshalIndent(simplifyFile(f), "", "  ")
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(data)
}

func simplifyFile(f *File) any {
	decls := make([]any, len(f.Decls))
	for i, d := range f.Decls {
		decls[i] = simplifyDecl(d)
	}
	return map[string]any{"type": "File", "decls": decls}
}

func simplifyDecl(d Decl) any {
	switch n := d.(type) {
	case *FnDecl:
		params := make([]any, len(n.Params))
		for i, p := range n.Params {
			params[i] = map[string]any{"name": p.Name, "type": p.Type}
		}
		return map[string]any{
			"type":   "FnDecl",
			"name":   n.Name,
			"params": params,
			"return": n.ReturnType,
			"body":   simplifyExpr(n.Body),
		}
	case *EnumDecl:
		variants := make([]any, len(n.Variants))
		for i, v := range n.Variants {
			fields := make([]any, len(v.Fields))
			for j, fd := range v.Fields {
				fields[j] = map[string]any{"name": fd.Name, "type": fd.Type}
			}
			variants[i] = map[string]any{"name": v.Name, "fields": fields}
		}
		return map[string]any{"type": "EnumDecl", "name": n.Name, "variants": variants}
	default:
		return map[string]any{"type": fmt.Sprintf("%T", d)}
	}
}

func simplifyExpr(e Expr) any {
	if e == nil {
		return nil
	}
	switch n := e.(type) {
	case *IntLit:
		return map[string]any{"type": "IntLit", "value": n.Value}
	case *BoolLit:
		return map[string]any{"type": "BoolLit", "value": n.Value}
	case *UnitLit:
		return map[string]any{"type": "UnitLit"}
	case *Var:
		return map[string]any{"type": "Var", "name": n.Name}
	case *App:
		args := make([]any, len(n.Args))
		for i, a := range n.Args {
			args[i] = simplifyExpr(a)
		}
		return map[string]any{"type": "App", "callee": n.Callee, "args": args}
	case *Lambda:
		return map[string]any{"type": "Lambda", "param": n.Param, "body": simplifyExpr(n.Body)}
	case *Tuple:
		elems := make([]any, len(n.Elems))
		for i, el := range n.Elems {
			elems[i] = simplifyExpr(el)
		}
		return map[string]any{"type": "Tuple", "elems": elems}
	case *Proj:
		return map[string]any{"type": "Proj", "expr": simplifyExpr(n.Expr), "index": n.Index}
	case *Let:
		return map[string]any{
			"type": "Let", "name": n.Name,
			"value": simplifyExpr(n.Value), "body": simplifyExpr(n.Body),
		}
	case *If:
		return map[string]any{
			"type": "If", "cond": simplifyExpr(n.Cond),
			"then": simplifyExpr(n.Then), "else": simplifyExpr(n.Else),
		}
	case *Record:
		fields := make([]any, len(n.Fields))
		for i, fd := range n.Fields {
			fields[i] = map[string]any{"name": fd.Name, "value": simplifyExpr(fd.Value)}
		}
		return map[string]any{"type": "Record", "typeName": n.TypeName, "fields": fields}
	case *Match:
		arms := make([]any, len(n.Arms))
		for i, a := range n.Arms {
			arms[i] = map[string]any{"pattern": simplifyPattern(a.Pattern), "body": simplifyExpr(a.Body)}
		}
		return map[string]any{"type": "Match", "scrutinee": simplifyExpr(n.Scrutinee), "arms": arms}
	case *Block:
		lets := make([]any, len(n.LetBindings))
		for i, l := range n.LetBindings {
			lets[i] = map[string]any{"name": l.Name, "value": simplifyExpr(l.Value)}
		}
		return map[string]any{"type": "Block", "lets": lets, "final": simplifyExpr(n.Final)}
	default:
		return map[string]any{"type": fmt.Sprintf("%T", e)}
	}
}

func simplifyPattern(p Pattern) any {
	if p == nil {
		return nil
	}
	switch n := p.(type) {
	case *PInt:
		return map[string]any{"type": "PInt", "value": n.Value}
	case *PBool:
		return map[string]any{"type": "PBool", "value": n.Value}
	case *PUnit:
		return map[string]any{"type": "PUnit"}
	case *PVar:
		return map[string]any{"type": "PVar", "name": n.Name}
	case *PTuple:
		elems := make([]any, len(n.Elems))
		for i, el := range n.Elems {
			elems[i] = simplifyPattern(el)
		}
		return map[string]any{"type": "PTuple", "elems": elems}
	case *PEnum:
		inner := make([]any, len(n.Inner))
		for i, el := range n.Inner {
			inner[i] = simplifyPattern(el)
		}
		return map[string]any{"type": "PEnum", "name": n.Name, "inner": inner}
	default:
		return map[string]any{"type": fmt.Sprintf("%T", p)}
	}
}
