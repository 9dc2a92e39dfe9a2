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

package lower

import (
	"strings"
	"testing"

	"github.com/launix-de/kilkeac/internal/ast"
	"github.com/launix-de/kilkeac/internal/diag"
	"github.com/launix-de/kilkeac/internal/ir"
	"github.com/launix-de/kilkeac/internal/types"
)

func span() diag.Span { return diag.Span{Line: 0, Column: 0, StartPos: 0, EndPos: 0} }

func TestModule_LowersArithmetic(t *testing.T) {
	mod := ast.Module{Nodes: []ast.Node{
		ast.NewBinOp(ast.NewIntLit(20, span()), ast.NewIntLit(22, span()), ast.OpRef{Symbol: "+"}, span()),
	}}

	module := Module(mod, types.NewRegistry())
	if len(module.Functions) != 1 {
		t.Fatalf("expected one function, got %d", len(module.Functions))
	}
	fn := module.Functions[0]
	var sawAdd, sawRet bool
	for _, block := range fn.Blocks {
		for _, inst := range block.Insts {
			if inst.Kind == ir.InstAssign && inst.Op.Kind == ir.OpIAdd {
				sawAdd = true
			}
			if inst.Kind == ir.InstRet {
				sawRet = true
			}
		}
	}
	if !sawAdd || !sawRet {
		t.Fatalf("expected an iadd feeding a ret, got:\n%s", fn.String())
	}
}

func TestModule_LowersIfIntoBranches(t *testing.T) {
	mod := ast.Module{Nodes: []ast.Node{
		ast.NewIf(ast.NewBoolLit(true, span()), ast.NewIntLit(1, span()), ast.NewIntLit(2, span()), span()),
	}}

	module := Module(mod, types.NewRegistry())
	fn := module.Functions[0]
	if len(fn.Blocks) != 4 {
		t.Fatalf("expected entry+then+else+join blocks, got %d:\n%s", len(fn.Blocks), fn.String())
	}
	rendered := fn.String()
	if !strings.Contains(rendered, "br %") {
		t.Fatalf("expected a br instruction, got:\n%s", rendered)
	}
}

func TestModule_DeclarationTracksMutation(t *testing.T) {
	mod := ast.Module{Nodes: []ast.Node{
		ast.NewDeclarationWithValue(ast.TypeAnnotation{Type: ast.Determined("i32")}, true, ast.NamedSpan{Name: "x"}, ast.NewIntLit(1, span()), span()),
		ast.NewMutation(ast.NamedSpan{Name: "x"}, ast.NewIntLit(2, span()), span()),
		ast.NewIdentifier("x", span()),
	}}

	module := Module(mod, types.NewRegistry())
	fn := module.Functions[0]
	var retCount int
	for _, block := range fn.Blocks {
		for _, inst := range block.Insts {
			if inst.Kind == ir.InstRet {
				retCount++
			}
		}
	}
	if retCount != 1 {
		t.Fatalf("expected exactly one ret, got %d", retCount)
	}
}
