// Package lowering rewrites SurfaceAst into the closed Core IR node set,
// resolving every name against the active registry and the file's own
// enum declarations, and validating arity, profile admission, projection
// bounds, and match exhaustiveness in that fixed order.
package lowering

import (
	"fmt"

	"github.com/sunholo/axiscore/internal/ast"
	"github.com/sunholo/axiscore/internal/core"
	axerrors "github.com/sunholo/axiscore/internal/errors"
	"github.com/sunholo/axiscore/internal/registry"
)

// Error is a structural lowering failure.
type Error struct {
	Code    string // LOW001..LOW006
	Kind    string // UnboundName | ArityMismatch | ProfileDenied | MalformedSurface | NonExhaustive | ProjOutOfBounds | UnknownVariant; duplicate bindings are not detected
	Message string
	Pos     ast.Pos
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at %s: %s: %s", e.Code, e.Pos, e.Kind, e.Message)
}

// Lowerer holds the fixed, immutable inputs to one lowering pass.
type Lowerer struct {
	reg    *registry.ActiveRegistry
	enums  map[string]*ast.EnumDecl // enum name -> decl
	ctors  map[string]ctorInfo      // flat "Enum_Variant" -> info
	errors []*Error
	fresh  int
}

type ctorInfo struct {
	enumName string
	arity    int
}

func New(reg *registry.ActiveRegistry) *Lowerer {
	return &Lowerer{
		reg:   reg,
		enums: make(map[string]*ast.EnumDecl),
		ctors: make(map[string]ctorInfo),
	}
}

func (l *Lowerer) errorAt(code, kind string, pos ast.Pos, format string, args ...any) {
	l.errors = append(l.errors, &Error{Code: code, Kind: kind, Pos: pos, Message: fmt.Sprintf(format, args...)})
}

func (l *Lowerer) freshArgName() string {
	l.fresh++
	return fmt.Sprintf("arg%d", l.fresh)
}

// LowerFile lowers an entire file into one CoreBundle. Non-entrypoint
// top-level functions are bound around the entrypoint body via a CLet
// chain, since CoreBundle carries exactly one root CoreTerm (§4.6).
func LowerFile(file *ast.File, reg *registry.ActiveRegistry) (*core.CoreBundle, []*Error) {
	l := New(reg)

	for _, d := range file.Decls {
		if e, ok := d.(*ast.EnumDecl); ok {
			l.enums[e.Name] = e
			for _, v := range e.Variants {
				l.ctors[e.Name+"_"+v.Name] = ctorInfo{enumName: e.Name, arity: len(v.Fields)}
			}
		}
	}

	var fns []*ast.FnDecl
	for _, d := range file.Decls {
		if fn, ok := d.(*ast.FnDecl); ok {
			fns = append(fns, fn)
		}
	}

	if len(fns) == 0 {
		return &core.CoreBundle{Version: "0.1", EntrypointName: "main", Root: &core.CUnitLit{}}, nil
	}

	base := newEnv()
	for _, fn := range fns {
		base = base.extend(fn.Name, binding{kind: kindLocalFn, arity: len(fn.Params)})
	}

	entrypoint := fns[0]
	for _, fn := range fns {
		if fn.Name == "main" {
			entrypoint = fn
			break
		}
	}

	lowered := make(map[string]core.CoreTerm, len(fns))
	for _, fn := range fns {
		lowered[fn.Name] = l.lowerFnDecl(fn, base)
	}

	if len(l.errors) > 0 {
		return nil, l.errors
	}

	root := lowered[entrypoint.Name]
	for i := len(fns) - 1; i >= 0; i-- {
		fn := fns[i]
		if fn.Name == entrypoint.Name {
			continue
		}
		root = &core.CLet{Name: fn.Name, Value: lowered[fn.Name], Body: root, Sp: core.SpanFromAst(fn.Pos)}
	}

	return &core.CoreBundle{Version: "0.1", EntrypointName: entrypoint.Name, Root: root}, nil
}

// lowerFnDecl implements rewrite (1): a function with one or more
// parameters binds a single "arg" parameter and projects each declared
// parameter out of it (a single parameter also goes through the CProj
// wrapper); a zero-parameter function binds a discarded unit parameter.
func (l *Lowerer) lowerFnDecl(fn *ast.FnDecl, base *env) core.CoreTerm {
	sp := core.SpanFromAst(fn.Pos)

	if len(fn.Params) == 0 {
		bodyEnv := base
		body := l.lowerBlock(fn.Body, bodyEnv)
		return &core.CLam{Param: "_", Body: body, Sp: sp}
	}

	argName := "arg"
	bodyEnv := base
	for i := len(fn.Params) - 1; i >= 0; i-- {
		p := fn.Params[i]
		bodyEnv = bodyEnv.extend(p.Name, binding{kind: kindLocal, enumName: enumNameOf(l.enums, p.Type)})
	}
	body := l.lowerBlock(fn.Body, bodyEnv)

	for i := len(fn.Params) - 1; i >= 0; i-- {
		p := fn.Params[i]
		body = &core.CLet{
			Name:  p.Name,
			Value: &core.CProj{Term: &core.CVar{Name: argName, Sp: sp}, Index: i, Sp: sp},
			Body:  body,
			Sp:    sp,
		}
	}
	return &core.CLam{Param: argName, Body: body, Sp: sp}
}

func enumNameOf(enums map[string]*ast.EnumDecl, typeName string) string {
	if _, ok := enums[typeName]; ok {
		return typeName
	}
	return ""
}

// lowerBlock implements rewrite (7): `{ let x=e1; let y=e2; e3 }` lowers
// to nested CLet bindings around the final expression.
func (l *Lowerer) lowerBlock(b *ast.Block, env *env) core.CoreTerm {
	if b == nil {
		return &core.CUnitLit{}
	}
	cur := env
	type pending struct {
		name string
		val  core.CoreTerm
		pos  ast.Pos
	}
	var binds []pending
	for _, lt := range b.LetBindings {
		val := l.lowerExpr(lt.Value, cur)
		binds = append(binds, pending{name: lt.Name, val: val, pos: lt.Pos})
		cur = cur.extend(lt.Name, l.shapeOf(lt.Value, cur))
	}
	final := l.lowerExpr(b.Final, cur)

	result := final
	for i := len(binds) - 1; i >= 0; i-- {
		bnd := binds[i]
		result = &core.CLet{Name: bnd.name, Value: bnd.val, Body: result, Sp: core.SpanFromAst(bnd.pos)}
	}
	return result
}

// shapeOf records tuple-shape or enum-type hints for a newly let-bound
// name, used later to validate proj indices and match exhaustiveness.
func (l *Lowerer) shapeOf(e ast.Expr, env *env) binding {
	if t, ok := e.(*ast.Tuple); ok {
		return binding{kind: kindLocal, tupleSize: len(t.Elems), hasTuple: true}
	}
	if v, ok := e.(*ast.Var); ok {
		if b, ok := env.lookup(v.Name); ok {
			return binding{kind: kindLocal, tupleSize: b.tupleSize, hasTuple: b.hasTuple, enumName: b.enumName}
		}
	}
	return binding{kind: kindLocal}
}

func (l *Lowerer) lowerExpr(e ast.Expr, env *env) core.CoreTerm {
	sp := core.SpanFromAst(e.Position())
	switch n := e.(type) {
	case *ast.IntLit:
		return &core.CIntLit{Value: n.Value, Sp: sp}
	case *ast.BoolLit:
		return &core.CBoolLit{Value: n.Value, Sp: sp}
	case *ast.UnitLit:
		return &core.CUnitLit{Sp: sp}
	case *ast.Var:
		return l.lowerVar(n, env)
	case *ast.App:
		return l.lowerApp(n, env)
	case *ast.Lambda:
		bodyEnv := env.extend(n.Param, binding{kind: kindLocal})
		return &core.CLam{Param: n.Param, Body: l.lowerExpr(n.Body, bodyEnv), Sp: sp}
	case *ast.Tuple:
		elems := make([]core.CoreTerm, len(n.Elems))
		for i, el := range n.Elems {
			elems[i] = l.lowerExpr(el, env)
		}
		return &core.CTuple{Elems: elems, Sp: sp}
	case *ast.Proj:
		return l.lowerProj(n, env)
	case *ast.Let:
		val := l.lowerExpr(n.Value, env)
		bodyEnv := env.extend(n.Name, l.shapeOf(n.Value, env))
		body := l.lowerExpr(n.Body, bodyEnv)
		return &core.CLet{Name: n.Name, Value: val, Body: body, Sp: sp}
	case *ast.If:
		return &core.CIf{
			Cond: l.lowerExpr(n.Cond, env),
			Then: l.lowerBlock(n.Then, env),
			Else: l.lowerBlock(n.Else, env),
			Sp:   sp,
		}
	case *ast.Record:
		fields := make([]core.CoreTerm, len(n.Fields))
		for i, f := range n.Fields {
			fields[i] = l.lowerExpr(f.Value, env)
		}
		return &core.CCtor{Name: n.TypeName, Fields: fields, Sp: sp}
	case *ast.Match:
		return l.lowerMatch(n, env)
	case *ast.Block:
		return l.lowerBlock(n, env)
	default:
		l.errorAt(axerrors.LOW001, "MalformedSurface", e.Position(), "unsupported expression node %T", e)
		return &core.CUnitLit{Sp: sp}
	}
}

func (l *Lowerer) lowerVar(n *ast.Var, env *env) core.CoreTerm {
	sp := core.SpanFromAst(n.Pos)
	if _, ok := env.lookup(n.Name); ok {
		return &core.CVar{Name: n.Name, Sp: sp}
	}
	if entry, ok := l.reg.Lookup(n.Name); ok {
		if !entry.Admitted(l.reg.ActiveProfile) {
			l.errorAt(axerrors.LOW003, "ProfileDenied", n.Pos, "name %q is not admitted by profile %q", n.Name, l.reg.ActiveProfile)
		}
		return &core.CVar{Name: n.Name, Sp: sp}
	}
	if _, ok := l.ctors[n.Name]; ok {
		return &core.CVar{Name: n.Name, Sp: sp}
	}
	l.errorAt(axerrors.LOW001, "UnboundName", n.Pos, "unbound name %q", n.Name)
	return &core.CVar{Name: n.Name, Sp: sp}
}

// lowerApp implements rewrite (2) and (3): calls to registry callables,
// local sibling functions, and enum constructors all share one resolution
// path; arity is checked against whichever kind the callee resolves to.
func (l *Lowerer) lowerApp(n *ast.App, env *env) core.CoreTerm {
	sp := core.SpanFromAst(n.Pos)
	args := make([]core.CoreTerm, len(n.Args))
	for i, a := range n.Args {
		args[i] = l.lowerExpr(a, env)
	}

	if info, ok := l.ctors[n.Callee]; ok {
		if info.arity != len(n.Args) {
			l.errorAt(axerrors.LOW002, "ArityMismatch", n.Pos, "constructor %q expects %d argument(s), found %d", n.Callee, info.arity, len(n.Args))
		}
		return &core.CCtor{Name: n.Callee, Fields: args, Sp: sp}
	}

	expectedArity := -1
	admitted := true
	if b, ok := env.lookup(n.Callee); ok {
		switch b.kind {
		case kindLocalFn:
			expectedArity = b.arity
		case kindLocal:
			l.errorAt(axerrors.LOW001, "MalformedSurface", n.Pos, "%q is not callable", n.Callee)
		}
	} else if entry, ok := l.reg.Lookup(n.Callee); ok {
		expectedArity = entry.Arity
		admitted = entry.Admitted(l.reg.ActiveProfile)
	} else {
		l.errorAt(axerrors.LOW001, "UnboundName", n.Pos, "unbound name %q", n.Callee)
	}

	if expectedArity >= 0 && expectedArity != len(n.Args) {
		l.errorAt(axerrors.LOW002, "ArityMismatch", n.Pos, "%q expects %d argument(s), found %d", n.Callee, expectedArity, len(n.Args))
	}
	if !admitted {
		l.errorAt(axerrors.LOW003, "ProfileDenied", n.Pos, "name %q is not admitted by profile %q", n.Callee, l.reg.ActiveProfile)
	}

	callee := &core.CVar{Name: n.Callee, Sp: sp}
	if expectedArity == 1 {
		if len(args) == 0 {
			return &core.CApp{Fn: callee, Arg: &core.CUnitLit{Sp: sp}, Sp: sp}
		}
		return &core.CApp{Fn: callee, Arg: args[0], Sp: sp}
	}
	return &core.CApp{Fn: callee, Arg: &core.CTuple{Elems: args, Sp: sp}, Sp: sp}
}

// lowerProj implements rewrite (8), checking the index against a known
// tuple shape when one is statically derivable.
func (l *Lowerer) lowerProj(n *ast.Proj, env *env) core.CoreTerm {
	sp := core.SpanFromAst(n.Pos)
	term := l.lowerExpr(n.Expr, env)

	if v, ok := n.Expr.(*ast.Var); ok {
		if b, ok := env.lookup(v.Name); ok && b.hasTuple {
			if n.Index < 0 || n.Index >= b.tupleSize {
				l.errorAt(axerrors.LOW004, "ProjOutOfBounds", n.Pos, "index %d out of bounds for %d-tuple %q", n.Index, b.tupleSize, v.Name)
			}
		}
	}
	if t, ok := n.Expr.(*ast.Tuple); ok {
		if n.Index < 0 || n.Index >= len(t.Elems) {
			l.errorAt(axerrors.LOW004, "ProjOutOfBounds", n.Pos, "index %d out of bounds for %d-tuple", n.Index, len(t.Elems))
		}
	}
	return &core.CProj{Term: term, Index: n.Index, Sp: sp}
}

// lowerMatch implements rewrite (5): each arm's pattern is translated
// structurally and exhaustiveness is checked before returning. Any shape
// bindings lowerPattern returns are wrapped as CLets around the arm body;
// lowerPattern emits none, so PTuple patterns bind their variables only
// through the CPTuple pattern and no CLet-bound projections are produced.
func (l *Lowerer) lowerMatch(n *ast.Match, env *env) core.CoreTerm {
	sp := core.SpanFromAst(n.Pos)
	scrutinee := l.lowerExpr(n.Scrutinee, env)

	scrutineeEnum := ""
	switch sc := n.Scrutinee.(type) {
	case *ast.Var:
		if b, ok := env.lookup(sc.Name); ok {
			scrutineeEnum = b.enumName
		}
	case *ast.App:
		if info, ok := l.ctors[sc.Callee]; ok {
			scrutineeEnum = info.enumName
		}
	}

	arms := make([]core.CMatchArm, len(n.Arms))
	for i, a := range n.Arms {
		pat, bodyEnv, shapeBindings := l.lowerPattern(a.Pattern, env)
		body := l.lowerExpr(a.Body, bodyEnv)
		for j := len(shapeBindings) - 1; j >= 0; j-- {
			sb := shapeBindings[j]
			body = &core.CLet{Name: sb.name, Value: sb.value, Body: body, Sp: sp}
		}
		arms[i] = core.CMatchArm{Pattern: pat, Body: body}
	}

	if !l.isExhaustive(n.Arms, scrutineeEnum) {
		l.errorAt(axerrors.LOW005, "NonExhaustive", n.Pos, "match is not exhaustive")
	}

	return &core.CMatch{Scrutinee: scrutinee, Arms: arms, Sp: sp}
}

type shapeBinding struct {
	name  string
	value core.CoreTerm
}

// lowerPattern translates one surface pattern to a CorePattern, extending
// env for pattern variables. Tuple sub-patterns become CPTuple elements;
// no CProj bindings are collected for them, so the returned shape-binding
// list is always empty.
func (l *Lowerer) lowerPattern(p ast.Pattern, env *env) (core.CorePattern, *env, []shapeBinding) {
	switch n := p.(type) {
	case *ast.PInt:
		return &core.CPInt{Value: n.Value}, env, nil
	case *ast.PBool:
		return &core.CPBool{Value: n.Value}, env, nil
	case *ast.PUnit:
		return &core.CPUnit{}, env, nil
	case *ast.PVar:
		if info, known := l.ctors[n.Name]; known && info.arity == 0 {
			return &core.CPCtor{Name: n.Name}, env, nil
		}
		return &core.CPVar{Name: n.Name}, env.extend(n.Name, binding{kind: kindLocal}), nil
	case *ast.PTuple:
		bodyEnv := env
		var binds []shapeBinding
		elems := make([]core.CorePattern, len(n.Elems))
		for i, el := range n.Elems {
			sub, newEnv, subBinds := l.lowerPattern(el, bodyEnv)
			bodyEnv = newEnv
			elems[i] = sub
			binds = append(binds, subBinds...)
		}
		return &core.CPTuple{Elems: elems}, bodyEnv, binds
	case *ast.PEnum:
		info, known := l.ctors[n.Name]
		if !known {
			l.errorAt(axerrors.LOW006, "UnknownVariant", n.Pos, "unknown enum constructor %q", n.Name)
		} else if info.arity != len(n.Inner) {
			l.errorAt(axerrors.LOW002, "ArityMismatch", n.Pos, "constructor %q expects %d argument(s), found %d", n.Name, info.arity, len(n.Inner))
		}
		bodyEnv := env
		inner := make([]core.CorePattern, len(n.Inner))
		for i, sub := range n.Inner {
			cp, newEnv, _ := l.lowerPattern(sub, bodyEnv)
			bodyEnv = newEnv
			inner[i] = cp
		}
		return &core.CPCtor{Name: n.Name, Inner: inner}, bodyEnv, nil
	default:
		l.errorAt(axerrors.LOW001, "MalformedSurface", p.Position(), "unsupported pattern node %T", p)
		return &core.CPVar{Name: "_"}, env, nil
	}
}

// isExhaustive decides whether arms cover every possible scrutinee value.
// A PVar arm covers everything, unless its name is actually a known
// zero-arity constructor written without parens (e.g. bare `Option_None`),
// in which case it only covers that one variant. Otherwise coverage is
// checked by enumerating the scrutinee's known enum variants, and a match
// with exactly two arms, `true` and `false`, is exhaustive; anything
// else (an unknown type, or a bare int/tuple scrutinee without a
// catch-all) fails closed rather than silently passing.
func (l *Lowerer) isExhaustive(arms []ast.MatchArm, scrutineeEnum string) bool {
	for _, a := range arms {
		if pv, ok := a.Pattern.(*ast.PVar); ok {
			if info, isCtor := l.ctors[pv.Name]; !isCtor || info.arity != 0 {
				return true
			}
		}
	}

	if scrutineeEnum != "" {
		decl, ok := l.enums[scrutineeEnum]
		if !ok {
			return false
		}
		covered := make(map[string]bool, len(decl.Variants))
		for _, a := range arms {
			switch pat := a.Pattern.(type) {
			case *ast.PEnum:
				covered[pat.Name] = true
			case *ast.PVar:
				if info, isCtor := l.ctors[pat.Name]; isCtor && info.arity == 0 {
					covered[pat.Name] = true
				}
			}
		}
		for _, v := range decl.Variants {
			if !covered[decl.CtorName(v.Name)] {
				return false
			}
		}
		return true
	}

	hasTrue, hasFalse := false, false
	for _, a := range arms {
		if pb, ok := a.Pattern.(*ast.PBool); ok {
			if pb.Value {
				hasTrue = true
			} else {
				hasFalse = true
			}
		}
	}
	if hasTrue && hasFalse && len(arms) == 2 {
		return true
	}

	return false
}
