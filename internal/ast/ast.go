// Package ast defines the SurfaceAst node set produced by the parser.
package ast

import "fmt"

// Pos is a diagnostic-only source location; it never affects semantics.
type Pos struct {
	File   string
	Line   int
	Column int
}

func (p Pos) String() string {
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Node is the base interface implemented by every SurfaceAst node.
type Node interface {
	Position() Pos
	String() string
}

// Decl is a top-level declaration (function or enum).
type Decl interface {
	Node
	declNode()
}

// Expr is a surface expression.
type Expr interface {
	Node
	exprNode()
}

// Pattern is a surface match pattern.
type Pattern interface {
	Node
	patternNode()
}

// File is a complete parsed surface source file.
type File struct {
	Path  string
	Decls []Decl
	Pos   Pos
}

func (f *File) Position() Pos { return f.Pos }
func (f *File) String() string {
	return fmt.Sprintf("File(%s, %d decls)", f.Path, len(f.Decls))
}

// Param is one (name, type-annotation) entry in a function parameter list.
type Param struct {
	Name string
	Type string
	Pos  Pos
}

// Field is one (name, type-annotation) entry in an enum variant's field list.
type Field struct {
	Name string
	Type string
	Pos  Pos
}

// FnDecl is a top-level function declaration.
type FnDecl struct {
	Name       string
	Params     []Param
	ReturnType string
	Body       Expr
	Pos        Pos
}

func (d *FnDecl) declNode()       {}
func (d *FnDecl) Position() Pos   { return d.Pos }
func (d *FnDecl) String() string  { return fmt.Sprintf("fn %s/%d", d.Name, len(d.Params)) }

// Variant is one enum constructor: a name plus an ordered field list.
type Variant struct {
	Name   string
	Fields []Field
	Pos    Pos
}

// EnumDecl is a top-level enum declaration.
type EnumDecl struct {
	Name     string
	Variants []Variant
	Pos      Pos
}

func (d *EnumDecl) declNode()      {}
func (d *EnumDecl) Position() Pos  { return d.Pos }
func (d *EnumDecl) String() string { return fmt.Sprintf("enum %s", d.Name) }

// CtorName returns the flat "EnumName_VariantName" constructor identifier.
func (d *EnumDecl) CtorName(variant string) string {
	return d.Name + "_" + variant
}

// --- Expressions ---

type IntLit struct {
	Value int64
	Pos   Pos
}

func (e *IntLit) exprNode()      {}
func (e *IntLit) Position() Pos  { return e.Pos }
func (e *IntLit) String() string { return fmt.Sprintf("%d", e.Value) }

type BoolLit struct {
	Value bool
	Pos   Pos
}

func (e *BoolLit) exprNode()      {}
func (e *BoolLit) Position() Pos  { return e.Pos }
func (e *BoolLit) String() string { return fmt.Sprintf("%t", e.Value) }

type UnitLit struct {
	Pos Pos
}

func (e *UnitLit) exprNode()      {}
func (e *UnitLit) Position() Pos  { return e.Pos }
func (e *UnitLit) String() string { return "()" }

type Var struct {
	Name string
	Pos  Pos
}

func (e *Var) exprNode()      {}
func (e *Var) Position() Pos  { return e.Pos }
func (e *Var) String() string { return e.Name }

// App is a call `callee(arg0, ..., argN)`; Callee is always a Var in v0.1
// surface grammar (no higher-order call expressions).
type App struct {
	Callee string
	Args   []Expr
	Pos    Pos
}

func (e *App) exprNode()      {}
func (e *App) Position() Pos  { return e.Pos }
func (e *App) String() string { return fmt.Sprintf("%s(%d args)", e.Callee, len(e.Args)) }

// Lambda is `|x| body`.
type Lambda struct {
	Param string
	Body  Expr
	Pos   Pos
}

func (e *Lambda) exprNode()      {}
func (e *Lambda) Position() Pos  { return e.Pos }
func (e *Lambda) String() string { return fmt.Sprintf("|%s| ...", e.Param) }

type Tuple struct {
	Elems []Expr
	Pos   Pos
}

func (e *Tuple) exprNode()      {}
func (e *Tuple) Position() Pos  { return e.Pos }
func (e *Tuple) String() string { return fmt.Sprintf("(%d-tuple)", len(e.Elems)) }

// Proj is `proj(expr, index)`.
type Proj struct {
	Expr  Expr
	Index int
	Pos   Pos
}

func (e *Proj) exprNode()      {}
func (e *Proj) Position() Pos  { return e.Pos }
func (e *Proj) String() string { return fmt.Sprintf("proj(_, %d)", e.Index) }

// Let is one `let name = value` binding. Inside a block the parser records
// it in Block.LetBindings with Body left nil; when used as an expression,
// Body is the expression the binding scopes over.
type Let struct {
	Name  string
	Value Expr
	Body  Expr
	Pos   Pos
}

func (e *Let) exprNode()      {}
func (e *Let) Position() Pos  { return e.Pos }
func (e *Let) String() string { return fmt.Sprintf("let %s = ...", e.Name) }

type If struct {
	Cond Expr
	Then Expr
	Else Expr
	Pos  Pos
}

func (e *If) exprNode()      {}
func (e *If) Position() Pos  { return e.Pos }
func (e *If) String() string { return "if ... else ..." }

// RecordField is one (name, value) entry in a record literal, in source order.
type RecordField struct {
	Name  string
	Value Expr
	Pos   Pos
}

// Record is `TypeName { f1: e1, ..., fn: en }`.
type Record struct {
	TypeName string
	Fields   []RecordField
	Pos      Pos
}

func (e *Record) exprNode()      {}
func (e *Record) Position() Pos  { return e.Pos }
func (e *Record) String() string { return fmt.Sprintf("%s{...}", e.TypeName) }

// MatchArm is one `pattern => body` arm.
type MatchArm struct {
	Pattern Pattern
	Body    Expr
	Pos     Pos
}

type Match struct {
	Scrutinee Expr
	Arms      []MatchArm
	Pos       Pos
}

func (e *Match) exprNode()      {}
func (e *Match) Position() Pos  { return e.Pos }
func (e *Match) String() string { return fmt.Sprintf("match (%d arms)", len(e.Arms)) }

// Block is `{ let x = e1; let y = e2; final }`, already flattened into
// LetBindings (ordered) plus a Final expression by the parser.
type Block struct {
	LetBindings []Let
	Final       Expr
	Pos         Pos
}

func (e *Block) exprNode()      {}
func (e *Block) Position() Pos  { return e.Pos }
func (e *Block) String() string { return fmt.Sprintf("block(%d lets)", len(e.LetBindings)) }

// --- Patterns ---

type PInt struct {
	Value int64
	Pos   Pos
}

func (p *PInt) patternNode()   {}
func (p *PInt) Position() Pos  { return p.Pos }
func (p *PInt) String() string { return fmt.Sprintf("%d", p.Value) }

type PBool struct {
	Value bool
	Pos   Pos
}

func (p *PBool) patternNode()   {}
func (p *PBool) Position() Pos  { return p.Pos }
func (p *PBool) String() string { return fmt.Sprintf("%t", p.Value) }

type PUnit struct {
	Pos Pos
}

func (p *PUnit) patternNode()   {}
func (p *PUnit) Position() Pos  { return p.Pos }
func (p *PUnit) String() string { return "()" }

type PVar struct {
	Name string
	Pos  Pos
}

func (p *PVar) patternNode()   {}
func (p *PVar) Position() Pos  { return p.Pos }
func (p *PVar) String() string { return p.Name }

type PTuple struct {
	Elems []Pattern
	Pos   Pos
}

func (p *PTuple) patternNode()   {}
func (p *PTuple) Position() Pos  { return p.Pos }
func (p *PTuple) String() string { return fmt.Sprintf("(%d-tuple pattern)", len(p.Elems)) }

// PEnum is a flat-name constructor pattern: `Option_Some(x)`.
type PEnum struct {
	Name   string
	Inner  []Pattern
	Pos    Pos
}

func (p *PEnum) patternNode()   {}
func (p *PEnum) Position() Pos  { return p.Pos }
func (p *PEnum) String() string { return fmt.Sprintf("%s(%d)", p.Name, len(p.Inner)) }
