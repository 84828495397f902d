// Package astjson decodes the JSON program format cmd/driftc's compile
// subcommands accept as input. spec.md's own "Explicitly out of scope"
// clause names the surface grammar and parser as an external collaborator's
// concern — "the parser consumed by the compiler emits AST node shapes
// matching the HIR lowering input" — and internal/hir's own ast.go
// documents that HIR lowering is exercised against hand-built fixtures
// rather than a live parser. This package is the CLI-facing analogue of
// those fixtures: a minimal, explicit wire format for the same hir.Program
// node shapes, standing in for the parser the project does not ship.
//
// It intentionally only covers the scalar type vocabulary (int, bool,
// string, unit) spec.md's Type Table names as primitives; resolving a
// textual type name against a user-defined variant is a surface-grammar
// concern (symbol tables, imports, generics) this package does not
// reimplement. See DESIGN.md for the reasoning behind this boundary.
package astjson

import (
	"encoding/json"
	"fmt"

	"drift/internal/hir"
	"drift/internal/sema"
	"drift/internal/types"
)

// ProgramDoc is the top-level decoded shape of a compile-file input.
type ProgramDoc struct {
	Funcs []FuncDoc `json:"funcs"`
}

// ParamDoc mirrors hir.Param.
type ParamDoc struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	ByRef    bool   `json:"by_ref,omitempty"`
	ByRefMut bool   `json:"by_ref_mut,omitempty"`
}

// FuncDoc mirrors hir.FuncDecl plus the declared signature information the
// checker needs up front (sema.Checker.Funcs is populated by the caller,
// not resolved from imports).
type FuncDoc struct {
	Name       string     `json:"name"`
	Params     []ParamDoc `json:"params,omitempty"`
	ReturnType string     `json:"return_type,omitempty"`
	Fallible   bool       `json:"fallible,omitempty"`
	Throws     []string   `json:"throws,omitempty"`
	Body       []StmtDoc  `json:"body,omitempty"`
}

// StmtDoc is a tagged union over every hir.Stmt shape, discriminated by Kind.
type StmtDoc struct {
	Kind string `json:"kind"`

	// let
	Name        string   `json:"name,omitempty"`
	DeclaredType string  `json:"declared_type,omitempty"`
	Init        *ExprDoc `json:"init,omitempty"`

	// assign
	Target *ExprDoc `json:"target,omitempty"`
	Value  *ExprDoc `json:"value,omitempty"`

	// if / while
	Cond *ExprDoc  `json:"cond,omitempty"`
	Then []StmtDoc `json:"then,omitempty"`
	Else []StmtDoc `json:"else,omitempty"`
	Body []StmtDoc `json:"body,omitempty"`

	// for
	Iter *ExprDoc `json:"iter,omitempty"`

	// try
	Catches []CatchArmDoc `json:"catches,omitempty"`

	// throw / expr / return reuse Value above

	// import
	Path string `json:"path,omitempty"`
}

// CatchArmDoc mirrors hir.CatchArm.
type CatchArmDoc struct {
	EventName string    `json:"event_name"`
	Binding   string    `json:"binding,omitempty"`
	Body      []StmtDoc `json:"body,omitempty"`
}

// KwArgDoc mirrors hir.KwArg.
type KwArgDoc struct {
	Name  string  `json:"name"`
	Value ExprDoc `json:"value"`
}

// DiagFieldDoc mirrors hir.DiagFieldInit.
type DiagFieldDoc struct {
	Name  string  `json:"name"`
	Value ExprDoc `json:"value"`
}

// ExprDoc is a tagged union over every hir.Expr shape, discriminated by Kind.
type ExprDoc struct {
	Kind string `json:"kind"`

	IntValue    int64  `json:"int_value,omitempty"`
	BoolValue   bool   `json:"bool_value,omitempty"`
	StringValue string `json:"string_value,omitempty"`

	Name string `json:"name,omitempty"` // var

	Base  *ExprDoc `json:"base,omitempty"`  // field / index
	Field string   `json:"field,omitempty"` // field
	Index *ExprDoc `json:"index,omitempty"` // index

	Callee *ExprDoc   `json:"callee,omitempty"` // call
	Args   []ExprDoc  `json:"args,omitempty"`   // call / method_call
	Kwargs []KwArgDoc `json:"kwargs,omitempty"` // call

	Receiver *ExprDoc `json:"receiver,omitempty"` // method_call
	Method   string   `json:"method,omitempty"`   // method_call

	Op      string   `json:"op,omitempty"`      // unary / binary
	Operand *ExprDoc `json:"operand,omitempty"` // unary
	Left    *ExprDoc `json:"left,omitempty"`    // binary
	Right   *ExprDoc `json:"right,omitempty"`   // binary

	Place   *ExprDoc `json:"place,omitempty"` // borrow
	Mutable bool     `json:"mutable,omitempty"`

	Then *ExprDoc `json:"then,omitempty"` // ternary
	Else *ExprDoc `json:"else,omitempty"` // ternary
	Cond *ExprDoc `json:"cond,omitempty"` // ternary

	Elems []ExprDoc `json:"elems,omitempty"` // array

	EventName string         `json:"event_name,omitempty"` // diagnostic_init
	Fields    []DiagFieldDoc `json:"fields,omitempty"`      // diagnostic_init

	IsErr bool     `json:"is_err,omitempty"` // result_ctor
	Call  *ExprDoc `json:"call,omitempty"`   // try / result_ctor value
}

// Decode parses raw JSON into a ProgramDoc.
func Decode(raw []byte) (*ProgramDoc, error) {
	var doc ProgramDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("astjson: decode: %w", err)
	}
	return &doc, nil
}

// ToProgram converts a decoded document into a *hir.Program plus the table
// of declared signatures sema.Checker.CheckModule needs populated up front,
// resolving each declared type name against ti's scalar builtins.
func ToProgram(doc *ProgramDoc, ti *types.Interner) (*hir.Program, map[string]*sema.FuncSig, error) {
	prog := &hir.Program{}
	sigs := make(map[string]*sema.FuncSig, len(doc.Funcs))
	builtins := ti.Builtins()

	for _, fd := range doc.Funcs {
		params := make([]hir.Param, len(fd.Params))
		paramSigs := make([]sema.ParamSig, len(fd.Params))
		for i, pd := range fd.Params {
			ptype, err := resolveType(pd.Type, builtins)
			if err != nil {
				return nil, nil, fmt.Errorf("func %s, param %s: %w", fd.Name, pd.Name, err)
			}
			ref := sema.ByValue
			switch {
			case pd.ByRefMut:
				ref = sema.ByRefMut
			case pd.ByRef:
				ref = sema.ByRef
			}
			params[i] = hir.Param{Name: pd.Name, TypeName: pd.Type, ByRef: pd.ByRef, ByRefMut: pd.ByRefMut}
			paramSigs[i] = sema.ParamSig{Name: pd.Name, Type: ptype, Ref: ref}
		}

		body, err := toStmts(fd.Body)
		if err != nil {
			return nil, nil, fmt.Errorf("func %s: %w", fd.Name, err)
		}

		prog.Funcs = append(prog.Funcs, &hir.FuncDecl{
			Name:       fd.Name,
			Params:     params,
			ReturnType: fd.ReturnType,
			Fallible:   fd.Fallible,
			Throws:     fd.Throws,
			Body:       body,
		})

		resultType, err := resolveType(fd.ReturnType, builtins)
		if err != nil {
			return nil, nil, fmt.Errorf("func %s: return type: %w", fd.Name, err)
		}
		if fd.Fallible {
			resultType = ti.RegisterFnResult(resultType, builtins.Error)
		}
		throws := make(map[string]struct{}, len(fd.Throws))
		for _, name := range fd.Throws {
			throws[name] = struct{}{}
		}
		sigs[fd.Name] = &sema.FuncSig{
			Name:     fd.Name,
			Params:   paramSigs,
			Result:   resultType,
			Fallible: fd.Fallible,
			Throws:   throws,
		}
	}

	return prog, sigs, nil
}

// resolveType maps a declared type name onto a builtin TypeID. An empty
// name resolves to Unit, matching a function declared with no return type.
func resolveType(name string, b types.Builtins) (types.TypeID, error) {
	switch name {
	case "":
		return b.Unit, nil
	case "Int", "int":
		return b.Int, nil
	case "Bool", "bool":
		return b.Bool, nil
	case "String", "string":
		return b.String, nil
	case "Unit", "unit":
		return b.Unit, nil
	default:
		return types.NoTypeID, fmt.Errorf("astjson: unknown scalar type %q (user-defined types require the surface-grammar front end)", name)
	}
}

func toStmts(docs []StmtDoc) ([]hir.Stmt, error) {
	out := make([]hir.Stmt, 0, len(docs))
	for i := range docs {
		s, err := toStmt(&docs[i])
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func toStmt(d *StmtDoc) (hir.Stmt, error) {
	switch d.Kind {
	case "let":
		init, err := toExpr(d.Init)
		if err != nil {
			return nil, err
		}
		return &hir.LetStmt{Name: d.Name, DeclaredType: d.DeclaredType, Init: init}, nil
	case "assign":
		target, err := toExpr(d.Target)
		if err != nil {
			return nil, err
		}
		value, err := toExpr(d.Value)
		if err != nil {
			return nil, err
		}
		return &hir.AssignStmt{Target: target, Value: value}, nil
	case "if":
		cond, err := toExpr(d.Cond)
		if err != nil {
			return nil, err
		}
		then, err := toStmts(d.Then)
		if err != nil {
			return nil, err
		}
		els, err := toStmts(d.Else)
		if err != nil {
			return nil, err
		}
		return &hir.IfStmt{Cond: cond, Then: then, Else: els}, nil
	case "while":
		cond, err := toExpr(d.Cond)
		if err != nil {
			return nil, err
		}
		body, err := toStmts(d.Body)
		if err != nil {
			return nil, err
		}
		return &hir.WhileStmt{Cond: cond, Body: body}, nil
	case "for":
		iter, err := toExpr(d.Iter)
		if err != nil {
			return nil, err
		}
		body, err := toStmts(d.Body)
		if err != nil {
			return nil, err
		}
		return &hir.ForStmt{Name: d.Name, Iter: iter, Body: body}, nil
	case "try":
		body, err := toStmts(d.Body)
		if err != nil {
			return nil, err
		}
		arms := make([]hir.CatchArm, len(d.Catches))
		for i, c := range d.Catches {
			armBody, err := toStmts(c.Body)
			if err != nil {
				return nil, err
			}
			arms[i] = hir.CatchArm{EventName: c.EventName, Binding: c.Binding, Body: armBody}
		}
		return &hir.TryStmt{Body: body, Catches: arms}, nil
	case "return":
		val, err := toExprOrNil(d.Value)
		if err != nil {
			return nil, err
		}
		return &hir.ReturnStmt{Value: val}, nil
	case "throw":
		val, err := toExpr(d.Value)
		if err != nil {
			return nil, err
		}
		return &hir.ThrowStmt{Value: val}, nil
	case "expr":
		val, err := toExpr(d.Value)
		if err != nil {
			return nil, err
		}
		return &hir.ExprStmt{Value: val}, nil
	case "import":
		return &hir.ImportStmt{Path: d.Path}, nil
	default:
		return nil, fmt.Errorf("astjson: unknown statement kind %q", d.Kind)
	}
}

func toExprOrNil(d *ExprDoc) (hir.Expr, error) {
	if d == nil {
		return nil, nil
	}
	return toExpr(d)
}

func toExpr(d *ExprDoc) (hir.Expr, error) {
	if d == nil {
		return nil, fmt.Errorf("astjson: missing required expression")
	}
	switch d.Kind {
	case "int":
		return &hir.IntLit{Value: d.IntValue}, nil
	case "bool":
		return &hir.BoolLit{Value: d.BoolValue}, nil
	case "string":
		return &hir.StringLit{Value: d.StringValue}, nil
	case "var":
		return &hir.VarRef{Name: d.Name}, nil
	case "field":
		base, err := toExpr(d.Base)
		if err != nil {
			return nil, err
		}
		return &hir.FieldAccess{Base: base, Field: d.Field}, nil
	case "index":
		base, err := toExpr(d.Base)
		if err != nil {
			return nil, err
		}
		index, err := toExpr(d.Index)
		if err != nil {
			return nil, err
		}
		return &hir.IndexExpr{Base: base, Index: index}, nil
	case "call":
		callee, err := toExpr(d.Callee)
		if err != nil {
			return nil, err
		}
		args, err := toExprs(d.Args)
		if err != nil {
			return nil, err
		}
		kwargs := make([]hir.KwArg, len(d.Kwargs))
		for i, kw := range d.Kwargs {
			v, err := toExpr(&kw.Value)
			if err != nil {
				return nil, err
			}
			kwargs[i] = hir.KwArg{Name: kw.Name, Value: v}
		}
		return &hir.CallExpr{Callee: callee, Args: args, Kwargs: kwargs}, nil
	case "method_call":
		recv, err := toExpr(d.Receiver)
		if err != nil {
			return nil, err
		}
		args, err := toExprs(d.Args)
		if err != nil {
			return nil, err
		}
		return &hir.MethodCallExpr{Receiver: recv, Method: d.Method, Args: args}, nil
	case "unary":
		operand, err := toExpr(d.Operand)
		if err != nil {
			return nil, err
		}
		return &hir.UnaryExpr{Op: d.Op, Operand: operand}, nil
	case "binary":
		left, err := toExpr(d.Left)
		if err != nil {
			return nil, err
		}
		right, err := toExpr(d.Right)
		if err != nil {
			return nil, err
		}
		return &hir.BinaryExpr{Op: d.Op, Left: left, Right: right}, nil
	case "borrow":
		place, err := toExpr(d.Place)
		if err != nil {
			return nil, err
		}
		return &hir.BorrowExpr{Place: place, Mutable: d.Mutable}, nil
	case "ternary":
		cond, err := toExpr(d.Cond)
		if err != nil {
			return nil, err
		}
		then, err := toExpr(d.Then)
		if err != nil {
			return nil, err
		}
		els, err := toExpr(d.Else)
		if err != nil {
			return nil, err
		}
		return &hir.TernaryExpr{Cond: cond, Then: then, Else: els}, nil
	case "array":
		elems, err := toExprs(d.Elems)
		if err != nil {
			return nil, err
		}
		return &hir.ArrayLit{Elems: elems}, nil
	case "diagnostic_init":
		fields := make([]hir.DiagFieldInit, len(d.Fields))
		for i, f := range d.Fields {
			v, err := toExpr(&f.Value)
			if err != nil {
				return nil, err
			}
			fields[i] = hir.DiagFieldInit{Name: f.Name, Value: v}
		}
		return &hir.DiagnosticInit{EventName: d.EventName, Fields: fields}, nil
	case "result_ctor":
		value, err := toExpr(d.Call)
		if err != nil {
			return nil, err
		}
		return &hir.ResultCtor{IsErr: d.IsErr, Value: value}, nil
	case "try":
		call, err := toExpr(d.Call)
		if err != nil {
			return nil, err
		}
		return &hir.TryExpr{Call: call}, nil
	default:
		return nil, fmt.Errorf("astjson: unknown expression kind %q", d.Kind)
	}
}

func toExprs(docs []ExprDoc) ([]hir.Expr, error) {
	out := make([]hir.Expr, len(docs))
	for i := range docs {
		e, err := toExpr(&docs[i])
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}
