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
	"math"

	"github.com/launix-de/kilkeac/internal/ir"
)

// ConstantFolder replaces arithmetic/bitwise instructions whose operands
// are all known constants with a plain Const assign. In a block where at
// least one instruction was folded, it then removes every Assign{Const}
// instruction that seeded the pass (not just the ones left unreferenced).
// A block in which nothing folds is left unchanged, so re-running the pass
// over already-folded IR that has nothing left to fold is a no-op.
type ConstantFolder struct {
	constants map[int]ir.Const
}

func NewConstantFolder() *ConstantFolder {
	return &ConstantFolder{constants: map[int]ir.Const{}}
}

func (f *ConstantFolder) Name() string { return "ConstantFolder" }

func (f *ConstantFolder) Apply(module *ir.IrModule) {
	for fi := range module.Functions {
		function := &module.Functions[fi]
		for k := range f.constants {
			delete(f.constants, k)
		}
		for bi := range function.Blocks {
			f.foldBlock(&function.Blocks[bi])
		}
	}
}

func (f *ConstantFolder) foldBlock(block *ir.Block) {
	seeded := make([]bool, len(block.Insts))
	for i, inst := range block.Insts {
		if inst.Kind == ir.InstAssign && inst.Op.Kind == ir.OpConst {
			f.constants[inst.Dest.ID] = inst.Op.Const
			seeded[i] = true
		}
	}

	changed := false
	for i := range block.Insts {
		inst := &block.Insts[i]
		if inst.Kind != ir.InstAssign {
			continue
		}
		if inst.Op.Kind == ir.OpConst {
			f.constants[inst.Dest.ID] = inst.Op.Const
			continue
		}
		if folded, ok := f.foldOp(inst.Op); ok {
			inst.Op = ir.Op{Kind: ir.OpConst, Const: folded}
			f.constants[inst.Dest.ID] = folded
			changed = true
		}
	}
	if !changed {
		return
	}

	kept := block.Insts[:0]
	for i, inst := range block.Insts {
		if seeded[i] {
			continue
		}
		kept = append(kept, inst)
	}
	block.Insts = kept
}

func (f *ConstantFolder) foldOp(op ir.Op) (ir.Const, bool) {
	switch op.Kind {
	case ir.OpIAdd, ir.OpISub, ir.OpIMul, ir.OpSDiv, ir.OpUDiv, ir.OpSRem, ir.OpURem,
		ir.OpFAdd, ir.OpFSub, ir.OpFMul, ir.OpFDiv, ir.OpFRem, ir.OpBOr, ir.OpBAnd:
		l, ok := f.constants[op.Left.ID]
		if !ok {
			return ir.Const{}, false
		}
		r, ok := f.constants[op.Right.ID]
		if !ok {
			return ir.Const{}, false
		}
		return foldBinary(op.Kind, l, r)
	case ir.OpLsh, ir.OpLRsh, ir.OpARsh, ir.OpBNot, ir.OpINeg, ir.OpFNeg:
		v, ok := f.constants[op.Left.ID]
		if !ok {
			return ir.Const{}, false
		}
		return foldUnary(op.Kind, v)
	default:
		return ir.Const{}, false
	}
}

func foldBinary(kind ir.OpKind, l, r ir.Const) (ir.Const, bool) {
	if l.Type != r.Type {
		return ir.Const{}, false
	}
	t := l.Type
	switch kind {
	case ir.OpIAdd:
		return foldIntIf(isAnyInt(t), t, wrapInt(t, l.I+r.I))
	case ir.OpISub:
		return foldIntIf(isAnyInt(t), t, wrapInt(t, l.I-r.I))
	case ir.OpIMul:
		return foldIntIf(isAnyInt(t), t, wrapInt(t, l.I*r.I))
	case ir.OpSDiv:
		if !isSignedInt(t) || r.I == 0 {
			return ir.Const{}, false
		}
		return ir.ConstI(t, wrapInt(t, l.I/r.I)), true
	case ir.OpSRem:
		if !isSignedInt(t) || r.I == 0 {
			return ir.Const{}, false
		}
		return ir.ConstI(t, wrapInt(t, l.I%r.I)), true
	case ir.OpUDiv:
		if !isUnsignedInt(t) || uint64(r.I) == 0 {
			return ir.Const{}, false
		}
		return ir.ConstI(t, wrapInt(t, int64(asUint(t, l.I)/asUint(t, r.I)))), true
	case ir.OpURem:
		if !isUnsignedInt(t) || uint64(r.I) == 0 {
			return ir.Const{}, false
		}
		return ir.ConstI(t, wrapInt(t, int64(asUint(t, l.I)%asUint(t, r.I)))), true
	case ir.OpFAdd:
		return foldFloatIf(isFloat(t), t, l.F+r.F)
	case ir.OpFSub:
		return foldFloatIf(isFloat(t), t, l.F-r.F)
	case ir.OpFMul:
		return foldFloatIf(isFloat(t), t, l.F*r.F)
	case ir.OpFDiv:
		return foldFloatIf(isFloat(t), t, l.F/r.F)
	case ir.OpFRem:
		return foldFloatIf(isFloat(t), t, math.Mod(l.F, r.F))
	case ir.OpBOr:
		return foldIntIf(isAnyInt(t), t, wrapInt(t, l.I|r.I))
	case ir.OpBAnd:
		return foldIntIf(isAnyInt(t), t, wrapInt(t, l.I&r.I))
	}
	return ir.Const{}, false
}

func foldUnary(kind ir.OpKind, v ir.Const) (ir.Const, bool) {
	t := v.Type
	switch kind {
	case ir.OpLsh:
		switch {
		case isAnyInt(t):
			return ir.ConstI(t, wrapInt(t, v.I<<1)), true
		case t == ir.F32:
			return ir.ConstF(t, float64(math.Float32frombits(math.Float32bits(float32(v.F))<<1))), true
		case t == ir.F64:
			return ir.ConstF(t, math.Float64frombits(math.Float64bits(v.F)<<1)), true
		}
		return ir.Const{}, false
	case ir.OpLRsh:
		switch {
		case isSignedInt(t):
			return ir.ConstI(t, wrapInt(t, int64(asUint(t, v.I)>>1))), true
		case isUnsignedInt(t):
			return ir.ConstI(t, wrapInt(t, int64(asUint(t, v.I)>>1))), true
		}
		return ir.Const{}, false
	case ir.OpARsh:
		switch {
		case isSignedInt(t):
			return ir.ConstI(t, wrapInt(t, v.I>>1)), true
		case isUnsignedInt(t):
			return ir.ConstI(t, wrapInt(t, int64(asUint(t, v.I)>>1))), true
		case t == ir.F32, t == ir.F64:
			return ir.ConstF(t, v.F/2.0), true
		}
		return ir.Const{}, false
	case ir.OpBNot:
		if !isAnyInt(t) {
			return ir.Const{}, false
		}
		return ir.ConstI(t, wrapInt(t, ^v.I)), true
	case ir.OpINeg:
		if !isSignedInt(t) {
			return ir.Const{}, false
		}
		return ir.ConstI(t, wrapInt(t, -v.I)), true
	case ir.OpFNeg:
		if !isFloat(t) {
			return ir.Const{}, false
		}
		return ir.ConstF(t, -v.F), true
	}
	return ir.Const{}, false
}

func foldIntIf(ok bool, t ir.IrType, v int64) (ir.Const, bool) {
	if !ok {
		return ir.Const{}, false
	}
	return ir.ConstI(t, v), true
}

func foldFloatIf(ok bool, t ir.IrType, v float64) (ir.Const, bool) {
	if !ok {
		return ir.Const{}, false
	}
	return ir.ConstF(t, v), true
}

func isSignedInt(t ir.IrType) bool {
	switch t {
	case ir.I8, ir.I16, ir.I32, ir.I64:
		return true
	}
	return false
}

func isUnsignedInt(t ir.IrType) bool {
	switch t {
	case ir.U8, ir.U16, ir.U32, ir.U64:
		return true
	}
	return false
}

func isAnyInt(t ir.IrType) bool { return isSignedInt(t) || isUnsignedInt(t) }

func isFloat(t ir.IrType) bool { return t == ir.F32 || t == ir.F64 }

// wrapInt truncates v to the bit width of t, preserving signed/unsigned
// wraparound semantics the way the fixed-width Rust integer types did.
func wrapInt(t ir.IrType, v int64) int64 {
	switch t {
	case ir.I8:
		return int64(int8(v))
	case ir.I16:
		return int64(int16(v))
	case ir.I32:
		return int64(int32(v))
	case ir.I64:
		return v
	case ir.U8:
		return int64(uint8(v))
	case ir.U16:
		return int64(uint16(v))
	case ir.U32:
		return int64(uint32(v))
	case ir.U64:
		return int64(uint64(v))
	}
	return v
}

// asUint reinterprets the bit pattern stored in c.I as the unsigned width
// of t, for unsigned division/remainder/shift.
func asUint(t ir.IrType, v int64) uint64 {
	switch t {
	case ir.U8:
		return uint64(uint8(v))
	case ir.U16:
		return uint64(uint16(v))
	case ir.U32:
		return uint64(uint32(v))
	default:
		return uint64(v)
	}
}
