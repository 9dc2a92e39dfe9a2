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

package optimize

import (
	"testing"

	"github.com/launix-de/kilkeac/internal/ir"
)

func buildAddModule() *ir.IrModule {
	b := ir.NewBuilder()
	fb := b.CreateFunction("main", ir.NewFunctionSignature().WithReturnTy(ir.I32))
	bb := fb.CreateBlock()
	ins := bb.Ins()
	l := ins.I32Const(20)
	r := ins.I32Const(22)
	sum := ins.IAdd(l, r)
	ins.Ret(sum)
	fb.EatBlock(bb)
	b.EatFunction(fb.Build())
	var mod ir.IrModule
	b.Build(&mod)
	return &mod
}

func TestConstantFolder_FoldsAdd(t *testing.T) {
	mod := buildAddModule()
	New(mod).WithConstantFolder().Run()

	// The two seeded consts (20, 22) are removed, but the freshly-folded sum
	// (42) is a new Assign{Const} produced by folding, not one of the
	// originally-seeded instructions, so it survives alongside the ret:
	// %N = const i32 : 42; ret %N.
	block := mod.Functions[0].Blocks[0]
	if len(block.Insts) != 2 {
		t.Fatalf("expected the folded const plus ret left, got %d insts: %v", len(block.Insts), block.Insts)
	}
	if block.Insts[0].Kind != ir.InstAssign || block.Insts[0].Op.Kind != ir.OpConst || block.Insts[0].Op.Const.I != 42 {
		t.Fatalf("expected the first instruction to be the folded const 42, got %v", block.Insts[0])
	}
	if block.Insts[1].Kind != ir.InstRet || block.Insts[1].RetValue != block.Insts[0].Dest {
		t.Fatalf("expected ret to return the folded const, got %v", block.Insts[1])
	}
}

func TestConstantFolder_Idempotent(t *testing.T) {
	mod := buildAddModule()
	opt := New(mod).WithConstantFolder()
	opt.Run()
	first := mod.Functions[0].String()
	opt.Run()
	second := mod.Functions[0].String()
	if first != second {
		t.Fatalf("running the folder twice changed output:\nfirst:  %s\nsecond: %s", first, second)
	}
}

func TestConstantFolder_SkipsDivisionByZero(t *testing.T) {
	b := ir.NewBuilder()
	fb := b.CreateFunction("main", ir.NewFunctionSignature().WithReturnTy(ir.I32))
	bb := fb.CreateBlock()
	ins := bb.Ins()
	l := ins.I32Const(10)
	r := ins.I32Const(0)
	q := ins.SDiv(l, r)
	ins.Ret(q)
	fb.EatBlock(bb)
	b.EatFunction(fb.Build())
	var mod ir.IrModule
	b.Build(&mod)

	New(&mod).WithConstantFolder().Run()

	block := mod.Functions[0].Blocks[0]
	var divStillPresent bool
	for _, inst := range block.Insts {
		if inst.Kind == ir.InstAssign && inst.Op.Kind == ir.OpSDiv {
			divStillPresent = true
		}
	}
	if !divStillPresent {
		t.Fatalf("division by a constant zero must be left unfolded, got %v", block.Insts)
	}
}

func TestConstantFolder_NoOpWithoutConstants(t *testing.T) {
	b := ir.NewBuilder()
	fb := b.CreateFunction("main", ir.NewFunctionSignature().AddParam(ir.I32).WithReturnTy(ir.I32))
	bb := fb.CreateBlock().WithParam(ir.I32).WithParam(ir.I32)
	ins := bb.Ins()
	sum := ins.IAdd(bb.Param(0).AsValue(), bb.Param(1).AsValue())
	ins.Ret(sum)
	fb.EatBlock(bb)
	b.EatFunction(fb.Build())
	var mod ir.IrModule
	b.Build(&mod)

	before := mod.Functions[0].String()
	New(&mod).WithConstantFolder().Run()
	after := mod.Functions[0].String()
	if before != after {
		t.Fatalf("folding a module with no constants should be a no-op:\nbefore: %s\nafter:  %s", before, after)
	}
}

func TestAddPass_IdempotentByName(t *testing.T) {
	mod := &ir.IrModule{}
	opt := New(mod)
	if !opt.AddPass(NewConstantFolder()) {
		t.Fatalf("expected first AddPass to succeed")
	}
	if opt.AddPass(NewConstantFolder()) {
		t.Fatalf("expected second AddPass with the same name to be rejected")
	}
	if len(opt.passes) != 1 {
		t.Fatalf("expected exactly one registered pass, got %d", len(opt.passes))
	}
}
