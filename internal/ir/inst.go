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

package ir

import (
	"fmt"
	"strings"
)

// OpKind tags the variant an Op holds; binary/unary operands must already
// share the result's IrType (the type checker guarantees this upstream —
// the IR layer trusts its caller).
type OpKind int

const (
	OpConst OpKind = iota
	OpIAdd
	OpISub
	OpIMul
	OpSDiv
	OpUDiv
	OpSRem
	OpURem
	OpFAdd
	OpFSub
	OpFMul
	OpFDiv
	OpFRem
	OpLsh
	OpLRsh
	OpARsh
	OpBNot
	OpBOr
	OpBAnd
	OpINeg
	OpFNeg
	OpICmp
	OpFCmp
)

var mnemonics = map[OpKind]string{
	OpConst: "const", OpIAdd: "iadd", OpISub: "isub", OpIMul: "imul",
	OpSDiv: "sdiv", OpUDiv: "udiv", OpSRem: "srem", OpURem: "urem",
	OpFAdd: "fadd", OpFSub: "fsub", OpFMul: "fmul", OpFDiv: "fdiv", OpFRem: "frem",
	OpLsh: "lsh", OpLRsh: "lrsh", OpARsh: "arsh", OpBNot: "bnot",
	OpBOr: "bor", OpBAnd: "band", OpINeg: "ineg", OpFNeg: "fneg",
	OpICmp: "icmp", OpFCmp: "fcmp",
}

// CmpPred is the predicate carried by an ICmp/FCmp instruction.
type CmpPred int

const (
	CmpEq CmpPred = iota
	CmpNe
	CmpSGt
	CmpSLt
	CmpSGe
	CmpSLe
	CmpUGt
	CmpULt
	CmpUGe
	CmpULe
)

var predNames = map[CmpPred]string{
	CmpEq: "eq", CmpNe: "ne", CmpSGt: "sgt", CmpSLt: "slt", CmpSGe: "sge", CmpSLe: "sle",
	CmpUGt: "ugt", CmpULt: "ult", CmpUGe: "uge", CmpULe: "ule",
}

func (p CmpPred) String() string { return predNames[p] }

// Op is one instruction's operation: a tagged struct over every case in
// OpKind. Binary ops use Left/Right, unary ops use Left, Const carries a
// Const payload, and ICmp/FCmp additionally carry Pred.
type Op struct {
	Kind  OpKind
	Const Const
	Left  ValueID
	Right ValueID
	Pred  CmpPred
}

func (o Op) String() string {
	switch o.Kind {
	case OpConst:
		return fmt.Sprintf("const %s", o.Const)
	case OpLsh, OpLRsh, OpARsh, OpBNot, OpINeg, OpFNeg:
		return fmt.Sprintf("%s %s", mnemonics[o.Kind], o.Left)
	case OpICmp, OpFCmp:
		return fmt.Sprintf("%s %s %s %s", mnemonics[o.Kind], o.Pred, o.Left, o.Right)
	default:
		return fmt.Sprintf("%s %s %s", mnemonics[o.Kind], o.Left, o.Right)
	}
}

// BlockCall pairs a jump/branch target with the arguments delivered to
// that block's parameters.
type BlockCall struct {
	Block BlockID
	Args  []ValueID
}

func (b BlockCall) String() string {
	args := make([]string, len(b.Args))
	for i, a := range b.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", b.Block, strings.Join(args, ", "))
}

// InstKind tags the variant an Inst holds.
type InstKind int

const (
	InstAssign InstKind = iota
	InstRet
	InstJmp
	InstBranch
)

// Inst is one instruction in a block: an Assign (which allocates a
// ValueID) or one of the three terminators (which do not).
type Inst struct {
	Kind InstKind

	Dest ValueID
	Op   Op

	RetValue ValueID

	JmpTarget BlockCall

	Condition  ValueID
	TruePath   BlockCall
	FalsePath  BlockCall
}

func (i Inst) String() string {
	switch i.Kind {
	case InstAssign:
		return fmt.Sprintf("%s = %s", i.Dest, i.Op)
	case InstRet:
		return fmt.Sprintf("ret %s", i.RetValue)
	case InstJmp:
		return fmt.Sprintf("jmp %s", i.JmpTarget)
	case InstBranch:
		return fmt.Sprintf("br %s %s %s", i.Condition, i.TruePath, i.FalsePath)
	}
	return "?"
}
