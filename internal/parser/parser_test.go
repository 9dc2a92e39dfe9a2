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

package parser

import (
	"testing"

	"github.com/launix-de/kilkeac/internal/ast"
	"github.com/launix-de/kilkeac/internal/lexer"
)

func parse(t *testing.T, src string) ast.Module {
	t.Helper()
	mod, diags := Parse(lexer.Tokenize(src), src, "test.kk")
	if len(diags) > 0 {
		t.Fatalf("unexpected diagnostics for %q:\n%s", src, diags.Error())
	}
	return mod
}

func TestParse_BinOpPrecedence(t *testing.T) {
	mod := parse(t, "1 + 2 * 3")
	if len(mod.Nodes) != 1 {
		t.Fatalf("expected 1 node, got %d", len(mod.Nodes))
	}
	n := mod.Nodes[0]
	if n.Kind != ast.BinOp || n.Op.Symbol != "+" {
		t.Fatalf("expected top-level `+`, got %+v", n)
	}
	if n.RHS.Kind != ast.BinOp || n.RHS.Op.Symbol != "*" {
		t.Fatalf("expected `*` to bind tighter on the right, got %+v", n.RHS)
	}
	if n.LHS.IntValue != 1 {
		t.Fatalf("expected LHS literal 1, got %+v", n.LHS)
	}
}

func TestParse_ParenthesesOverridePrecedence(t *testing.T) {
	mod := parse(t, "(1 + 2) * 3")
	n := mod.Nodes[0]
	if n.Kind != ast.BinOp || n.Op.Symbol != "*" {
		t.Fatalf("expected top-level `*`, got %+v", n)
	}
	if n.LHS.Kind != ast.BinOp || n.LHS.Op.Symbol != "+" {
		t.Fatalf("expected parenthesized `+` on the left, got %+v", n.LHS)
	}
}

func TestParse_DeclarationWithInferredType(t *testing.T) {
	mod := parse(t, "x := 42;")
	n := mod.Nodes[0]
	if n.Kind != ast.Statement {
		t.Fatalf("expected a Statement wrapper for the `;`, got %v", n.Kind)
	}
	decl := *n.Inner
	if decl.Kind != ast.DeclarationWithValue {
		t.Fatalf("expected DeclarationWithValue, got %v", decl.Kind)
	}
	if !decl.DeclType.Type.Inferred {
		t.Fatalf("expected an inferred type annotation")
	}
	if decl.DeclName.Name != "x" || decl.Value.IntValue != 42 {
		t.Fatalf("decl not parsed correctly: %+v", decl)
	}
}

func TestParse_DeclarationWithExplicitType(t *testing.T) {
	mod := parse(t, "mut x : i32 := 1")
	decl := mod.Nodes[0]
	if decl.Kind != ast.DeclarationWithValue {
		t.Fatalf("expected DeclarationWithValue, got %v", decl.Kind)
	}
	if decl.DeclType.Type.Inferred || decl.DeclType.Type.Name != "i32" {
		t.Fatalf("expected explicit type i32, got %+v", decl.DeclType.Type)
	}
	if !decl.DeclMutability {
		t.Fatalf("expected mut to be carried through")
	}
}

func TestParse_IdentifierNotFollowedByColonIsAPlainExpression(t *testing.T) {
	mod := parse(t, "mut x : i32 := 5; x + 1")
	if len(mod.Nodes) != 2 {
		t.Fatalf("expected 2 top-level nodes, got %d: %+v", len(mod.Nodes), mod.Nodes)
	}
	second := mod.Nodes[1]
	if second.Kind != ast.BinOp || second.Op.Symbol != "+" {
		t.Fatalf("expected BinOp(+, x, 1), got %+v", second)
	}
	if second.LHS.Kind != ast.Identifier || second.LHS.Name != "x" {
		t.Fatalf("expected LHS to be identifier `x`, got %+v", second.LHS)
	}
	if second.RHS.IntValue != 1 {
		t.Fatalf("expected RHS literal 1, got %+v", second.RHS)
	}
}

func TestParse_DeclaredIdentifierAsBlockTailExpression(t *testing.T) {
	mod := parse(t, "{ mut x := 1; x }")
	block := mod.Nodes[0]
	if block.Kind != ast.Block || len(block.Stmts) != 2 {
		t.Fatalf("expected a two-statement block, got %+v", block)
	}
	tail := block.Stmts[1]
	if tail.Kind != ast.Identifier || tail.Name != "x" {
		t.Fatalf("expected the block tail to be a plain identifier `x`, got %+v", tail)
	}
}

func TestParse_Mutation(t *testing.T) {
	mod := parse(t, "x = 5")
	n := mod.Nodes[0]
	if n.Kind != ast.Mutation || n.DeclName.Name != "x" || n.Value.IntValue != 5 {
		t.Fatalf("expected Mutation(x, 5), got %+v", n)
	}
}

func TestParse_IfElse(t *testing.T) {
	mod := parse(t, "if true { 1 } else { 2 }")
	n := mod.Nodes[0]
	if n.Kind != ast.If {
		t.Fatalf("expected If, got %v", n.Kind)
	}
	if n.Condition.Kind != ast.BoolLit || !n.Condition.BoolValue {
		t.Fatalf("expected bool condition true, got %+v", n.Condition)
	}
	if n.Then.Kind != ast.Block || len(n.Then.Stmts) != 1 {
		t.Fatalf("expected a one-statement then-block, got %+v", n.Then)
	}
	if n.Else.Kind != ast.Block || len(n.Else.Stmts) != 1 {
		t.Fatalf("expected a one-statement else-block, got %+v", n.Else)
	}
}

func TestParse_IfWithoutElseYieldsEmptyBlock(t *testing.T) {
	mod := parse(t, "if true { 1 }")
	n := mod.Nodes[0]
	if n.Else.Kind != ast.Block || len(n.Else.Stmts) != 0 {
		t.Fatalf("expected an empty else-block, got %+v", n.Else)
	}
}

func TestParse_UnaryMinus(t *testing.T) {
	mod := parse(t, "-5")
	n := mod.Nodes[0]
	if n.Kind != ast.UnaOp || n.Op.Symbol != "-" || n.Operand.IntValue != 5 {
		t.Fatalf("expected UnaOp(-, 5), got %+v", n)
	}
}

func TestParse_UnexpectedEOFProducesDiagnostic(t *testing.T) {
	src := "1 +"
	_, diags := Parse(lexer.Tokenize(src), src, "test.kk")
	if len(diags) == 0 {
		t.Fatalf("expected a diagnostic for trailing operator with no RHS")
	}
}

func TestParse_ElseWithoutIfProducesHelpfulDiagnostic(t *testing.T) {
	src := "else { 1 }"
	_, diags := Parse(lexer.Tokenize(src), src, "test.kk")
	if len(diags) == 0 {
		t.Fatalf("expected a diagnostic for a stray `else`")
	}
	if diags[0].Help == "" {
		t.Fatalf("expected a help message suggesting an `if` clause")
	}
}
