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

// Package typecheck walks an ast.Module assigning a types.Type to every
// node, accumulating one diagnostic per failing top-level node and moving
// on to the next rather than stopping at the first error.
package typecheck

import (
	"fmt"

	"github.com/launix-de/kilkeac/internal/ast"
	"github.com/launix-de/kilkeac/internal/diag"
	"github.com/launix-de/kilkeac/internal/types"
	"github.com/xrash/smetrics"
)

// jaroWinklerThreshold is the minimum similarity score a visible name must
// clear to be offered as a "did you mean" suggestion.
const jaroWinklerThreshold = 0.7

// Checker walks one module, holding a stack of scopes and the type
// registry consulted for declared type annotations. Nested blocks do not
// push their own scope onto scopes: a `let` inside `{ }` stays visible
// after the block ends. This is preserved as-is, not corrected.
type Checker struct {
	scopes   []*types.Scope
	registry *types.Registry
	src      string
	path     string
}

// New returns a Checker with a single root scope.
func New(src, path string) *Checker {
	return &Checker{
		scopes:   []*types.Scope{types.NewScope()},
		registry: types.NewRegistry(),
		src:      src,
		path:     path,
	}
}

// Check runs check_node over every top-level node in mod, accumulating one
// diagnostic per failing node and continuing to the next.
func Check(mod ast.Module, src, path string) diag.Set {
	c := New(src, path)
	var errs diag.Set
	for _, node := range mod.Nodes {
		if _, err := c.checkNode(node); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func (c *Checker) err(code diag.Code, details string, span diag.Span) *diag.Diagnostic {
	return diag.New(code, details, span, c.src, c.path)
}

// lookup searches the scope stack from top (innermost) to bottom.
func (c *Checker) lookup(name string) (types.Symbol, bool) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if sym, ok := c.scopes[i].Lookup(name); ok {
			return sym, true
		}
	}
	return types.Symbol{}, false
}

// currentScope is where new declarations land: the innermost scope. Nested
// blocks never push a new one (see Checker doc comment), so in practice
// this is almost always the root scope.
func (c *Checker) currentScope() *types.Scope {
	return c.scopes[len(c.scopes)-1]
}

// visibleNames collects every name bound in any visible scope, for
// did-you-mean suggestion scoring.
func (c *Checker) visibleNames() []string {
	var names []string
	for _, s := range c.scopes {
		names = append(names, s.Names()...)
	}
	return names
}

func (c *Checker) checkNode(node ast.Node) (types.Type, *diag.Diagnostic) {
	switch node.Kind {
	case ast.IntLit:
		return types.Int32, nil
	case ast.FloatLit:
		return types.Float64, nil
	case ast.StringLit:
		return types.String, nil
	case ast.BoolLit:
		return types.Boolean, nil
	case ast.Identifier:
		return c.checkIdentifier(node)
	case ast.BinOp:
		return c.checkBinOp(node)
	case ast.UnaOp:
		return c.checkUnaOp(node)
	case ast.If:
		return c.checkIf(node)
	case ast.Declaration:
		return c.checkDeclaration(node, nil)
	case ast.DeclarationWithValue:
		return c.checkDeclaration(node, node.Value)
	case ast.Mutation:
		return c.checkMutation(node)
	case ast.Block:
		return c.checkBlock(node)
	case ast.Statement:
		if _, err := c.checkNode(*node.Inner); err != nil {
			return types.Undetermined, err
		}
		return types.Unit, nil
	}
	return types.Undetermined, c.err(diag.UnexpectedToken, "unreachable AST node kind", node.Span)
}

// checkIdentifier resolves name via the scope stack; on miss, it suggests
// the closest visible name by Jaro-Winkler similarity as a help line.
func (c *Checker) checkIdentifier(node ast.Node) (types.Type, *diag.Diagnostic) {
	if sym, ok := c.lookup(node.Name); ok {
		return sym.Type, nil
	}
	d := c.err(diag.UndefinedIdentifier, fmt.Sprintf("undefined identifier `%s`", node.Name), node.Span)
	if best, ok := bestMatch(node.Name, c.visibleNames()); ok {
		d = d.WithHelp(fmt.Sprintf("did you mean: `%s`?", best))
	}
	return types.Undetermined, d
}

// bestMatch returns the candidate with the highest Jaro-Winkler score
// against name, provided that score clears jaroWinklerThreshold.
func bestMatch(name string, candidates []string) (string, bool) {
	var best string
	var bestScore float64
	found := false
	for _, cand := range candidates {
		score := smetrics.JaroWinkler(name, cand, 0.7, 4)
		if score >= jaroWinklerThreshold && score > bestScore {
			best, bestScore, found = cand, score, true
		}
	}
	return best, found
}

func (c *Checker) checkBinOp(node ast.Node) (types.Type, *diag.Diagnostic) {
	left, err := c.checkNode(*node.LHS)
	if err != nil {
		return types.Undetermined, err
	}
	right, err := c.checkNode(*node.RHS)
	if err != nil {
		return types.Undetermined, err
	}

	switch node.Op.Symbol {
	case "+", "-", "*", "/", ">", "<", ">=", "<=":
		// Arithmetic returns the shared operand type. Relational operators
		// are specified to also return the operand type rather than
		// Boolean; this is preserved as-is (see open question).
		if left == right && left.IsNumeric() {
			return left, nil
		}
		return types.Undetermined, c.err(diag.MismatchedTypes,
			fmt.Sprintf("cannot do `%s` operation on types `%s`, `%s`", node.Op.Symbol, left, right), node.Span)
	case "==", "!=":
		if left == right {
			return left, nil
		}
		return types.Undetermined, c.err(diag.MismatchedTypes,
			fmt.Sprintf("cannot do `%s` operation on types `%s`, `%s`", node.Op.Symbol, left, right), node.Span)
	case "++":
		if left == types.String && right == types.String {
			return types.String, nil
		}
		return types.Undetermined, c.err(diag.MismatchedTypes,
			fmt.Sprintf("cannot do `%s` operation on types `%s`, `%s`", node.Op.Symbol, left, right), node.Span)
	case ":=":
		// A bare ":=" can reach here as a general subexpression (it has a
		// binding power and is not required to be a top-level statement);
		// this is the same mutation rule checkMutation applies, since the
		// LHS of a generic ":=" BinOp has the same contract as a dedicated
		// Mutation node.
		return c.checkMutationLike(*node.LHS, *node.RHS, node.Span)
	}
	return types.Undetermined, c.err(diag.MismatchedTypes, fmt.Sprintf("invalid operator - `%s`", node.Op.Symbol), node.Op.Span)
}

func (c *Checker) checkUnaOp(node ast.Node) (types.Type, *diag.Diagnostic) {
	operand, err := c.checkNode(*node.Operand)
	if err != nil {
		return types.Undetermined, err
	}
	switch node.Op.Symbol {
	case "+":
		if operand.IsNumeric() {
			return operand, nil
		}
		return types.Undetermined, c.err(diag.MismatchedTypes, fmt.Sprintf("cannot apply `+` to type `%s`", operand), node.Span)
	case "-":
		if operand.IsUnsignedInt() {
			return types.Undetermined, c.err(diag.MismatchedTypes, fmt.Sprintf("cannot negate type `%s`", operand), node.Span)
		}
		if operand.IsSignedInt() || operand.IsFloat() {
			return operand, nil
		}
		return types.Undetermined, c.err(diag.MismatchedTypes, fmt.Sprintf("cannot negate type `%s`", operand), node.Span)
	case "!":
		if operand == types.Boolean || operand.IsSignedInt() || operand.IsUnsignedInt() {
			return operand, nil
		}
		d := c.err(diag.MismatchedTypes, fmt.Sprintf("cannot apply `!` to type `%s`", operand), node.Span)
		return types.Undetermined, d.WithNote("the `!` operator can be applied to `bool` and integer types")
	}
	return types.Undetermined, c.err(diag.MismatchedTypes, fmt.Sprintf("invalid operator - `%s`", node.Op.Symbol), node.Op.Span)
}

func (c *Checker) checkIf(node ast.Node) (types.Type, *diag.Diagnostic) {
	thenType, err := c.checkNode(*node.Then)
	if err != nil {
		return types.Undetermined, err
	}
	elseType, err := c.checkNode(*node.Else)
	if err != nil {
		return types.Undetermined, err
	}
	condType, err := c.checkNode(*node.Condition)
	if err != nil {
		return types.Undetermined, err
	}
	if condType != types.Boolean {
		return types.Undetermined, c.err(diag.MismatchedTypes, fmt.Sprintf("expected `bool`, found `%s`", condType), node.Span)
	}
	if node.Then.Kind == ast.Block && len(node.Then.Stmts) == 0 {
		return elseType, nil
	}
	if node.Else.Kind == ast.Block && len(node.Else.Stmts) == 0 {
		return thenType, nil
	}
	if thenType != elseType {
		return types.Undetermined, c.err(diag.MismatchedTypes,
			fmt.Sprintf("`then` and `else` bodies have mismatched types: `%s`, `%s`", thenType, elseType), node.Span)
	}
	return thenType, nil
}

// checkDeclaration handles both Declaration (value == nil) and
// DeclarationWithValue. A name collision against a registered type name is
// always an error. A name collision against an existing binding is an error
// unless this is a `:=`-with-no-explicit-type redeclaration of an existing
// *mutable* binding with no annotation of its own: `mut x: i32 := 5; x := 3`
// is spec-mandated to succeed as if it were a mutation (re-checking the RHS
// against the existing symbol's type), while the same shape against an
// immutable binding, or any Declaration/typed-DeclarationWithValue repeat,
// still hits the plain "already declared" error.
func (c *Checker) checkDeclaration(node ast.Node, value *ast.Node) (types.Type, *diag.Diagnostic) {
	name := node.DeclName.Name

	if c.registry.IsRegistered(name) {
		return types.Undetermined, c.err(diag.MismatchedTypes,
			fmt.Sprintf("identifier `%s` is already registered as a type", name), node.DeclName.Span)
	}
	if sym, ok := c.lookup(name); ok {
		if value != nil && node.DeclType.Type.Inferred && sym.Mutability {
			return c.checkMutationLike(ast.NewIdentifier(name, node.DeclName.Span), *value, node.Span)
		}
		return types.Undetermined, c.err(diag.MismatchedTypes,
			fmt.Sprintf("`%s` is already declared", name), node.DeclName.Span)
	}

	var declared types.Type
	if node.DeclType.Type.Inferred {
		declared = types.Undetermined
	} else {
		t, ok := c.registry.Get(node.DeclType.Type.Name)
		if !ok {
			return types.Undetermined, c.err(diag.MismatchedTypes,
				fmt.Sprintf("unregistered type - `%s`", node.DeclType.Type.Name), node.DeclType.Span)
		}
		declared = t
	}

	if value != nil {
		valueType, err := c.checkNode(*value)
		if err != nil {
			return types.Undetermined, err
		}
		if node.DeclType.Type.Inferred {
			declared = valueType
		} else if declared != valueType {
			return types.Undetermined, c.err(diag.MismatchedTypes,
				fmt.Sprintf("cannot assign value of type `%s` to declared type `%s`", valueType, declared), node.Span)
		}
	}

	c.currentScope().Declare(types.Symbol{Name: name, Type: declared, Mutability: node.DeclMutability})
	return types.Unit, nil
}

// checkMutation handles the dedicated Mutation AST node built from the
// parser's "identifier '=' expression" speculative form.
func (c *Checker) checkMutation(node ast.Node) (types.Type, *diag.Diagnostic) {
	return c.checkMutationLike(ast.NewIdentifier(node.DeclName.Name, node.DeclName.Span), *node.Value, node.Span)
}

// checkMutationLike is the shared mutation contract: LHS must be an
// identifier, the bound variable must exist and be mutable, and the RHS
// type must equal the variable's declared type. Returns Unit.
func (c *Checker) checkMutationLike(lhs, rhs ast.Node, span diag.Span) (types.Type, *diag.Diagnostic) {
	if lhs.Kind != ast.Identifier {
		return types.Undetermined, c.err(diag.MutationError, "left-hand side of a mutation must be an identifier", span)
	}
	sym, ok := c.lookup(lhs.Name)
	if !ok {
		d := c.err(diag.UndefinedIdentifier, fmt.Sprintf("undefined identifier `%s`", lhs.Name), lhs.Span)
		if best, found := bestMatch(lhs.Name, c.visibleNames()); found {
			d = d.WithHelp(fmt.Sprintf("did you mean: `%s`?", best))
		}
		return types.Undetermined, d
	}
	if !sym.Mutability {
		return types.Undetermined, c.err(diag.MutationError, fmt.Sprintf("`%s` is not mutable", lhs.Name), span)
	}
	rhsType, err := c.checkNode(rhs)
	if err != nil {
		return types.Undetermined, err
	}
	if rhsType != sym.Type {
		return types.Undetermined, c.err(diag.MismatchedTypes,
			fmt.Sprintf("cannot assign value of type `%s` to `%s` of type `%s`", rhsType, lhs.Name, sym.Type), span)
	}
	return types.Unit, nil
}

// checkBlock does not push a new scope (see Checker doc comment): its
// statements' declarations land in whatever scope was current on entry.
func (c *Checker) checkBlock(node ast.Node) (types.Type, *diag.Diagnostic) {
	result := types.Unit
	for _, stmt := range node.Stmts {
		t, err := c.checkNode(stmt)
		if err != nil {
			return types.Undetermined, err
		}
		result = t
	}
	return result, nil
}
