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

// Package lower turns a type-checked ast.Module into an ir.IrModule: a
// single "main" function whose body is the module's top-level statements.
// Straight-line code lowers directly into the block it runs in; `if`
// lowers into real branches joined by a block parameter, which is why
// lowering an expression also hands back the block its result now lives
// in. This is not part of the checked-AST contract itself (the checker
// only validates types); it is the piece of wiring that lets --debug and
// the build cache have an IrModule to show for a real compile, the way
// the builder API is exercised directly in the original project's own IR
// tests.
package lower

import (
	"github.com/launix-de/kilkeac/internal/ast"
	"github.com/launix-de/kilkeac/internal/ir"
	"github.com/launix-de/kilkeac/internal/types"
)

var binOps = map[string]ir.OpKind{
	"+": ir.OpIAdd, "-": ir.OpISub, "*": ir.OpIMul,
	"|": ir.OpBOr, "&": ir.OpBAnd,
}

var floatBinOps = map[string]ir.OpKind{
	"+": ir.OpFAdd, "-": ir.OpFSub, "*": ir.OpFMul, "/": ir.OpFDiv, "%": ir.OpFRem,
}

var cmpOps = map[string]ir.CmpPred{
	"==": ir.CmpEq, "!=": ir.CmpNe,
	">": ir.CmpSGt, "<": ir.CmpSLt, ">=": ir.CmpSGe, "<=": ir.CmpSLe,
}

// lowerer threads a flat name -> ValueID environment through one
// function's lowering, matching the checker's own flat (non-nested) scope
// model: a block never pushes a fresh scope.
type lowerer struct {
	fb  *ir.FunctionBuilder
	env map[string]ir.ValueID
	reg *types.Registry
}

// point is the current block plus its instruction builder: the "cursor"
// lowering writes to. Branching control flow returns a new point whose
// block is downstream of where it started.
type point struct {
	bb *ir.BlockBuilder
	ib *ir.InstBuilder
}

// Module lowers every top-level node of mod into a single "main" function.
// reg resolves declared type-annotation names the same way the checker did.
func Module(mod ast.Module, reg *types.Registry) ir.IrModule {
	b := ir.NewBuilder()
	fb := b.CreateFunction("main", ir.NewFunctionSignature().WithReturnTy(ir.Void))
	entry := fb.CreateBlock()

	l := &lowerer{fb: fb, env: map[string]ir.ValueID{}, reg: reg}
	p := point{bb: entry, ib: entry.Ins()}

	last := p.ib.VoidConst()
	for _, node := range mod.Nodes {
		last, p = l.stmt(p, node)
	}
	p.ib.Ret(last)
	fb.EatBlock(p.bb)

	b.EatFunction(fb.Build())
	var module ir.IrModule
	b.Build(&module)
	return module
}

func (l *lowerer) stmt(p point, node ast.Node) (ir.ValueID, point) {
	if node.Kind == ast.Statement {
		return l.stmt(p, *node.Inner)
	}
	return l.expr(p, node)
}

func (l *lowerer) expr(p point, node ast.Node) (ir.ValueID, point) {
	switch node.Kind {
	case ast.IntLit:
		return p.ib.I32Const(node.IntValue), p
	case ast.FloatLit:
		return p.ib.F64Const(node.FloatValue), p
	case ast.BoolLit:
		return p.ib.BoolConst(node.BoolValue), p
	case ast.StringLit:
		return p.ib.VoidConst(), p
	case ast.Identifier:
		if v, ok := l.env[node.Name]; ok {
			return v, p
		}
		return p.ib.VoidConst(), p
	case ast.BinOp:
		return l.binOp(p, node)
	case ast.UnaOp:
		v, p := l.expr(p, *node.Operand)
		switch node.Op.Symbol {
		case "-":
			if isFloatValue(v) {
				return p.ib.FNeg(v), p
			}
			return p.ib.INeg(v), p
		case "!", "~":
			return p.ib.BNot(v), p
		default:
			return v, p
		}
	case ast.Declaration:
		t := l.resolve(node.DeclType)
		v := zeroConst(p.ib, t)
		l.env[node.DeclName.Name] = v
		return v, p
	case ast.DeclarationWithValue:
		v, p := l.expr(p, *node.Value)
		l.env[node.DeclName.Name] = v
		return v, p
	case ast.Mutation:
		v, p := l.expr(p, *node.Value)
		l.env[node.DeclName.Name] = v
		return v, p
	case ast.Block:
		last := p.ib.VoidConst()
		for _, s := range node.Stmts {
			last, p = l.stmt(p, s)
		}
		return last, p
	case ast.If:
		return l.ifExpr(p, node)
	default:
		return p.ib.VoidConst(), p
	}
}

func (l *lowerer) binOp(p point, node ast.Node) (ir.ValueID, point) {
	left, p := l.expr(p, *node.LHS)
	right, p := l.expr(p, *node.RHS)

	if pred, ok := cmpOps[node.Op.Symbol]; ok {
		if isFloatValue(left) {
			return p.ib.FCmp(left, right, pred), p
		}
		return p.ib.ICmp(left, right, pred), p
	}
	if isFloatValue(left) {
		if kind, ok := floatBinOps[node.Op.Symbol]; ok {
			return p.ib.BinaryByKind(kind, left, right), p
		}
	}
	if kind, ok := binOps[node.Op.Symbol]; ok {
		return p.ib.BinaryByKind(kind, left, right), p
	}
	return p.ib.VoidConst(), p
}

// ifExpr lowers `if` into a then-block and an else-block that each jump to
// a join block whose single parameter carries the branch's result -- real
// SSA control flow rather than sequential best-effort evaluation. The
// returned point's block is the join block; every statement lowered after
// an `if` lands there.
func (l *lowerer) ifExpr(p point, node ast.Node) (ir.ValueID, point) {
	cond, p := l.expr(p, *node.Condition)

	thenBB := l.fb.CreateBlock()
	thenVal, thenEnd := l.expr(point{bb: thenBB, ib: thenBB.Ins()}, *node.Then)

	elseBB := l.fb.CreateBlock()
	elseVal, elseEnd := l.expr(point{bb: elseBB, ib: elseBB.Ins()}, *node.Else)

	joinBB := l.fb.CreateBlock().WithParam(thenVal.Type)

	thenEnd.ib.Jmp(joinBB.Call(thenVal))
	elseEnd.ib.Jmp(joinBB.Call(elseVal))
	p.ib.Br(cond, thenBB.Call(), elseBB.Call())

	l.fb.EatBlock(p.bb)
	l.fb.EatBlock(thenBB)
	l.fb.EatBlock(elseBB)

	return joinBB.Param(0).AsValue(), point{bb: joinBB, ib: joinBB.Ins()}
}

func (l *lowerer) resolve(ann ast.TypeAnnotation) types.Type {
	if ann.Type.Inferred {
		return types.Int32
	}
	if t, ok := l.reg.Get(ann.Type.Name); ok {
		return t
	}
	return types.Int32
}

func zeroConst(ib *ir.InstBuilder, t types.Type) ir.ValueID {
	switch t {
	case types.Float32:
		return ib.F32Const(0)
	case types.Float64:
		return ib.F64Const(0)
	case types.Boolean:
		return ib.BoolConst(false)
	case types.UInt8:
		return ib.U8Const(0)
	case types.UInt16:
		return ib.U16Const(0)
	case types.UInt32:
		return ib.U32Const(0)
	case types.UInt64:
		return ib.U64Const(0)
	case types.Int8:
		return ib.I8Const(0)
	case types.Int16:
		return ib.I16Const(0)
	case types.Int64:
		return ib.I64Const(0)
	default:
		return ib.I32Const(0)
	}
}

func isFloatValue(v ir.ValueID) bool { return v.Type == ir.F32 || v.Type == ir.F64 }
