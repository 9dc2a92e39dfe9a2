/*
Copyright (C) 2026  kilkeac contributors

    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

// Package ast holds the AST node, module, and parse-type representation
// produced by the parser and consumed by the type checker.
package ast

import "github.com/launix-de/kilkeac/internal/diag"

// ParseType is either a named, user-written type annotation or "infer it
// from the initializer".
type ParseType struct {
	Name     string // empty when Inferred
	Inferred bool
}

func Determined(name string) ParseType { return ParseType{Name: name} }
func Inferred() ParseType              { return ParseType{Inferred: true} }

// Kind tags the variant a Node holds.
type Kind int

const (
	IntLit Kind = iota
	FloatLit
	StringLit
	BoolLit
	Identifier
	BinOp
	UnaOp
	If
	Declaration
	DeclarationWithValue
	Mutation
	Block
	Statement
)

// OpRef pairs an operator's symbol with the span it was found at.
type OpRef struct {
	Symbol string
	Span   diag.Span
}

// NamedSpan pairs a name with the span that introduced it.
type NamedSpan struct {
	Name string
	Span diag.Span
}

// TypeAnnotation pairs a ParseType with the span of its annotation text,
// when one was written; HasSpan is false for an inferred type with no
// annotation at all.
type TypeAnnotation struct {
	Type    ParseType
	Span    diag.Span
	HasSpan bool
}

// Node is a tagged AST node. Exactly one field group is meaningful per
// Kind; this mirrors the teacher's tagged-union style (scm.Scmer) but with
// a plain Kind discriminant instead of a packed pointer/aux encoding,
// since our node count per compile is small and the extra indirection buys
// nothing here (see DESIGN.md).
type Node struct {
	Kind Kind
	Span diag.Span

	IntValue    int64
	FloatValue  float64
	StringValue string
	BoolValue   bool
	Name        string

	LHS *Node
	RHS *Node
	Op  OpRef

	Operand *Node

	Condition *Node
	Then      *Node
	Else      *Node

	DeclType        TypeAnnotation
	DeclMutability  bool
	DeclName        NamedSpan
	Value           *Node

	Stmts []Node

	Inner *Node
}

// Module is an ordered sequence of top-level nodes.
type Module struct {
	Nodes []Node
}

func NewIntLit(v int64, span diag.Span) Node {
	return Node{Kind: IntLit, IntValue: v, Span: span}
}

func NewFloatLit(v float64, span diag.Span) Node {
	return Node{Kind: FloatLit, FloatValue: v, Span: span}
}

func NewStringLit(v string, span diag.Span) Node {
	return Node{Kind: StringLit, StringValue: v, Span: span}
}

func NewBoolLit(v bool, span diag.Span) Node {
	return Node{Kind: BoolLit, BoolValue: v, Span: span}
}

func NewIdentifier(name string, span diag.Span) Node {
	return Node{Kind: Identifier, Name: name, Span: span}
}

func NewBinOp(lhs, rhs Node, op OpRef, span diag.Span) Node {
	l, r := lhs, rhs
	return Node{Kind: BinOp, LHS: &l, RHS: &r, Op: op, Span: span}
}

func NewUnaOp(operand Node, op OpRef, span diag.Span) Node {
	o := operand
	return Node{Kind: UnaOp, Operand: &o, Op: op, Span: span}
}

func NewIf(condition, then, els Node, span diag.Span) Node {
	c, t, e := condition, then, els
	return Node{Kind: If, Condition: &c, Then: &t, Else: &e, Span: span}
}

func NewDeclaration(declType TypeAnnotation, mutability bool, name NamedSpan, span diag.Span) Node {
	return Node{Kind: Declaration, DeclType: declType, DeclMutability: mutability, DeclName: name, Span: span}
}

func NewDeclarationWithValue(declType TypeAnnotation, mutability bool, name NamedSpan, value Node, span diag.Span) Node {
	v := value
	return Node{Kind: DeclarationWithValue, DeclType: declType, DeclMutability: mutability, DeclName: name, Value: &v, Span: span}
}

func NewMutation(name NamedSpan, value Node, span diag.Span) Node {
	v := value
	return Node{Kind: Mutation, DeclName: name, Value: &v, Span: span}
}

func NewBlock(stmts []Node, span diag.Span) Node {
	return Node{Kind: Block, Stmts: stmts, Span: span}
}

func EmptyBlock(span diag.Span) Node {
	return Node{Kind: Block, Stmts: nil, Span: span}
}

func NewStatement(inner Node, span diag.Span) Node {
	i := inner
	return Node{Kind: Statement, Inner: &i, Span: span}
}
