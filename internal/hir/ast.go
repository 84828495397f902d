// Package hir lowers the parser's AST into a sugar-free, binding-resolved
// tree consumed by the type/borrow checker and the MIR builder.
//
// The parser itself is out of scope for this module (see spec §1); this
// file documents the AST node shapes HIR lowering expects as input, and is
// exercised in tests via hand-built fixtures, mirroring how the teacher's
// HIR lowering is driven from hand-built ast.* fixtures rather than a live
// parser in its own unit tests.
package hir

import "drift/internal/source"

// Node is satisfied by every AST node; Loc reports its source location.
type Node interface {
	Loc() source.Span
}

// Program is the root of a parsed compilation unit.
type Program struct {
	Funcs []*FuncDecl
}

// FuncDecl is a top-level function declaration.
type FuncDecl struct {
	Name       string
	Params     []Param
	ReturnType string // empty when the function has no declared return type
	Fallible   bool   // declared as returning a result carrier
	Throws     []string
	Body       []Stmt
	Span       source.Span
}

// Param is one function parameter.
type Param struct {
	Name       string
	TypeName   string
	ByRef      bool
	ByRefMut   bool
}

func (f *FuncDecl) Loc() source.Span { return f.Span }

// Stmt is satisfied by every AST statement node.
type Stmt interface {
	Node
	isStmt()
}

type LetStmt struct {
	Name        string
	DeclaredType string // empty when omitted
	Init        Expr
	Span        source.Span
}

type AssignStmt struct {
	Target Expr
	Value  Expr
	Span   source.Span
}

type IfStmt struct {
	Cond Expr
	Then []Stmt
	Else []Stmt
	Span source.Span
}

type WhileStmt struct {
	Cond Expr
	Body []Stmt
	Span source.Span
}

// ForStmt is `for Name in Iter { Body }`, normalized away during HIR
// lowering into an iterator let plus a While loop.
type ForStmt struct {
	Name string
	Iter Expr
	Body []Stmt
	Span source.Span
}

type CatchArm struct {
	EventName string
	Binding   string
	Body      []Stmt
}

type TryStmt struct {
	Body    []Stmt
	Catches []CatchArm
	Span    source.Span
}

type ReturnStmt struct {
	Value Expr // nil for bare `return`
	Span  source.Span
}

type ThrowStmt struct {
	Value Expr
	Span  source.Span
}

type ExprStmt struct {
	Value Expr
	Span  source.Span
}

type ImportStmt struct {
	Path string
	Span source.Span
}

func (s *LetStmt) Loc() source.Span    { return s.Span }
func (s *AssignStmt) Loc() source.Span { return s.Span }
func (s *IfStmt) Loc() source.Span     { return s.Span }
func (s *WhileStmt) Loc() source.Span  { return s.Span }
func (s *ForStmt) Loc() source.Span    { return s.Span }
func (s *TryStmt) Loc() source.Span    { return s.Span }
func (s *ReturnStmt) Loc() source.Span { return s.Span }
func (s *ThrowStmt) Loc() source.Span  { return s.Span }
func (s *ExprStmt) Loc() source.Span   { return s.Span }
func (s *ImportStmt) Loc() source.Span { return s.Span }

func (*LetStmt) isStmt()    {}
func (*AssignStmt) isStmt() {}
func (*IfStmt) isStmt()     {}
func (*WhileStmt) isStmt()  {}
func (*ForStmt) isStmt()    {}
func (*TryStmt) isStmt()    {}
func (*ReturnStmt) isStmt() {}
func (*ThrowStmt) isStmt()  {}
func (*ExprStmt) isStmt()   {}
func (*ImportStmt) isStmt() {}

// Expr is satisfied by every AST expression node.
type Expr interface {
	Node
	isExpr()
}

type IntLit struct {
	Value int64
	Span  source.Span
}

type BoolLit struct {
	Value bool
	Span  source.Span
}

type StringLit struct {
	Value string
	Span  source.Span
}

type VarRef struct {
	Name string
	Span source.Span
}

type FieldAccess struct {
	Base  Expr
	Field string
	Span  source.Span
}

type IndexExpr struct {
	Base  Expr
	Index Expr
	Span  source.Span
}

type KwArg struct {
	Name  string
	Value Expr
}

type CallExpr struct {
	Callee Expr
	Args   []Expr
	Kwargs []KwArg
	Span   source.Span
}

type MethodCallExpr struct {
	Receiver Expr
	Method   string
	Args     []Expr
	Span     source.Span
}

type UnaryExpr struct {
	Op      string
	Operand Expr
	Span    source.Span
}

type BinaryExpr struct {
	Op    string
	Left  Expr
	Right Expr
	Span  source.Span
}

// BorrowExpr is the source-level `&x` / `&mut x`.
type BorrowExpr struct {
	Place   Expr
	Mutable bool
	Span    source.Span
}

type TernaryExpr struct {
	Cond Expr
	Then Expr
	Else Expr
	Span source.Span
}

type ArrayLit struct {
	Elems []Expr
	Span  source.Span
}

type DiagFieldInit struct {
	Name  string
	Value Expr
}

// DiagnosticInit constructs a DiagnosticValue (the attribute-carrying error
// payload family referenced by the type checker's throw-payload rule).
type DiagnosticInit struct {
	EventName string
	Fields    []DiagFieldInit
	Span      source.Span
}

// ResultCtor is `Ok(value)` / `Err(value)`.
type ResultCtor struct {
	IsErr bool
	Value Expr
	Span  source.Span
}

// TryExpr is the try-sugar `expr?`. It is retained as a distinct HIR
// expression node (spec §3's Data Model lists try-sugar among HIR's
// expression kinds) and is only expanded into explicit control flow during
// HIR→MIR lowering (spec §4.5), once the enclosing function's fallibility
// is known.
type TryExpr struct {
	Call Expr
	Span source.Span
}

func (e *IntLit) Loc() source.Span         { return e.Span }
func (e *BoolLit) Loc() source.Span        { return e.Span }
func (e *StringLit) Loc() source.Span      { return e.Span }
func (e *VarRef) Loc() source.Span         { return e.Span }
func (e *FieldAccess) Loc() source.Span    { return e.Span }
func (e *IndexExpr) Loc() source.Span      { return e.Span }
func (e *CallExpr) Loc() source.Span       { return e.Span }
func (e *MethodCallExpr) Loc() source.Span { return e.Span }
func (e *UnaryExpr) Loc() source.Span      { return e.Span }
func (e *BinaryExpr) Loc() source.Span     { return e.Span }
func (e *BorrowExpr) Loc() source.Span     { return e.Span }
func (e *TernaryExpr) Loc() source.Span    { return e.Span }
func (e *ArrayLit) Loc() source.Span       { return e.Span }
func (e *DiagnosticInit) Loc() source.Span { return e.Span }
func (e *ResultCtor) Loc() source.Span     { return e.Span }
func (e *TryExpr) Loc() source.Span        { return e.Span }

func (*IntLit) isExpr()         {}
func (*BoolLit) isExpr()        {}
func (*StringLit) isExpr()      {}
func (*VarRef) isExpr()         {}
func (*FieldAccess) isExpr()    {}
func (*IndexExpr) isExpr()      {}
func (*CallExpr) isExpr()       {}
func (*MethodCallExpr) isExpr() {}
func (*UnaryExpr) isExpr()      {}
func (*BinaryExpr) isExpr()     {}
func (*BorrowExpr) isExpr()     {}
func (*TernaryExpr) isExpr()    {}
func (*ArrayLit) isExpr()       {}
func (*DiagnosticInit) isExpr() {}
func (*ResultCtor) isExpr()     {}
func (*TryExpr) isExpr()        {}
