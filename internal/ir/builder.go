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

// Builder assembles an IrModule one function at a time: create_function,
// eat_function repeatedly, then build to commit.
type Builder struct {
	functions []Function
}

func NewBuilder() *Builder { return &Builder{} }

// CreateFunction starts a FunctionBuilder. Its value-ID counter starts at
// len(sig.Params) so block parameters can take the low IDs.
func (b *Builder) CreateFunction(name string, sig FunctionSignature) *FunctionBuilder {
	next := len(sig.Params)
	return &FunctionBuilder{
		function: Function{Name: name, Sig: sig},
		nextID:   &next,
	}
}

// EatFunction adds a finished function to the module under assembly.
func (b *Builder) EatFunction(f Function) {
	b.functions = append(b.functions, f)
}

// Build commits every eaten function into mod.
func (b *Builder) Build(mod *IrModule) {
	mod.Functions = append(mod.Functions, b.functions...)
}

// FunctionBuilder assembles one function's blocks. nextID is shared with
// every BlockBuilder/InstBuilder spawned from it, translating the
// original Rust builder's Rc<RefCell<usize>> counter into a single shared
// *int.
type FunctionBuilder struct {
	function    Function
	nextID      *int
	nextBlockID int
}

// CreateBlock allocates the next BlockID and returns a builder for it.
func (fb *FunctionBuilder) CreateBlock() *BlockBuilder {
	id := BlockID{ID: fb.nextBlockID}
	fb.nextBlockID++
	return &BlockBuilder{
		block:  Block{ID: id},
		nextID: fb.nextID,
	}
}

// EatBlock finalizes a block into this function.
func (fb *FunctionBuilder) EatBlock(bb *BlockBuilder) {
	fb.function.Blocks = append(fb.function.Blocks, bb.block)
}

// Build yields the assembled function.
func (fb *FunctionBuilder) Build() Function { return fb.function }

// BlockBuilder assembles one block's parameters and instructions.
type BlockBuilder struct {
	block  Block
	nextID *int
}

// Ins returns an InstBuilder that appends to this block.
func (bb *BlockBuilder) Ins() *InstBuilder {
	return &InstBuilder{block: &bb.block, nextID: bb.nextID}
}

func (bb *BlockBuilder) ID() BlockID { return bb.block.ID }

// WithParam appends a parameter of type t, allocating the next value ID
// for it, and returns the receiver for chaining.
func (bb *BlockBuilder) WithParam(t IrType) *BlockBuilder {
	param := ParamID{ID: *bb.nextID, Type: t}
	*bb.nextID++
	bb.block.Params = append(bb.block.Params, param)
	return bb
}

// Call builds a BlockCall targeting this block with the given arguments.
func (bb *BlockBuilder) Call(args ...ValueID) BlockCall {
	return BlockCall{Block: bb.block.ID, Args: append([]ValueID(nil), args...)}
}

func (bb *BlockBuilder) Param(index int) ParamID { return bb.block.Params[index] }

// InstBuilder emits instructions into one block. Every *Const/arithmetic
// method allocates a fresh ValueID and appends an Assign; the three
// terminator methods (Ret/Jmp/Br) emit without allocating an ID.
type InstBuilder struct {
	block  *Block
	nextID *int
}

func (ib *InstBuilder) alloc(t IrType) ValueID {
	id := *ib.nextID
	*ib.nextID++
	return ValueID{ID: id, Type: t}
}

func (ib *InstBuilder) assign(dest ValueID, op Op) ValueID {
	ib.block.Insts = append(ib.block.Insts, Inst{Kind: InstAssign, Dest: dest, Op: op})
	return dest
}

func (ib *InstBuilder) I8Const(n int64) ValueID  { return ib.constOf(I8, ConstI(I8, n)) }
func (ib *InstBuilder) I16Const(n int64) ValueID { return ib.constOf(I16, ConstI(I16, n)) }
func (ib *InstBuilder) I32Const(n int64) ValueID { return ib.constOf(I32, ConstI(I32, n)) }
func (ib *InstBuilder) I64Const(n int64) ValueID { return ib.constOf(I64, ConstI(I64, n)) }
func (ib *InstBuilder) U8Const(n int64) ValueID  { return ib.constOf(U8, ConstI(U8, n)) }
func (ib *InstBuilder) U16Const(n int64) ValueID { return ib.constOf(U16, ConstI(U16, n)) }
func (ib *InstBuilder) U32Const(n int64) ValueID { return ib.constOf(U32, ConstI(U32, n)) }
func (ib *InstBuilder) U64Const(n int64) ValueID { return ib.constOf(U64, ConstI(U64, n)) }
func (ib *InstBuilder) F32Const(n float64) ValueID { return ib.constOf(F32, ConstF(F32, n)) }
func (ib *InstBuilder) F64Const(n float64) ValueID { return ib.constOf(F64, ConstF(F64, n)) }
func (ib *InstBuilder) BoolConst(n bool) ValueID    { return ib.constOf(Bool, ConstBool(n)) }
func (ib *InstBuilder) VoidConst() ValueID          { return ib.constOf(Void, ConstVoid()) }

func (ib *InstBuilder) constOf(t IrType, c Const) ValueID {
	return ib.assign(ib.alloc(t), Op{Kind: OpConst, Const: c})
}

func (ib *InstBuilder) binary(kind OpKind, l, r ValueID) ValueID {
	return ib.assign(ib.alloc(l.Type), Op{Kind: kind, Left: l, Right: r})
}

// BinaryByKind emits a binary instruction for an OpKind chosen at runtime,
// for callers (such as an AST lowering pass) that pick the operation from
// a source-level operator symbol rather than knowing it at compile time.
func (ib *InstBuilder) BinaryByKind(kind OpKind, l, r ValueID) ValueID {
	return ib.binary(kind, l, r)
}

func (ib *InstBuilder) IAdd(l, r ValueID) ValueID { return ib.binary(OpIAdd, l, r) }
func (ib *InstBuilder) ISub(l, r ValueID) ValueID { return ib.binary(OpISub, l, r) }
func (ib *InstBuilder) IMul(l, r ValueID) ValueID { return ib.binary(OpIMul, l, r) }
func (ib *InstBuilder) SDiv(l, r ValueID) ValueID { return ib.binary(OpSDiv, l, r) }
func (ib *InstBuilder) UDiv(l, r ValueID) ValueID { return ib.binary(OpUDiv, l, r) }
func (ib *InstBuilder) SRem(l, r ValueID) ValueID { return ib.binary(OpSRem, l, r) }
func (ib *InstBuilder) URem(l, r ValueID) ValueID { return ib.binary(OpURem, l, r) }
func (ib *InstBuilder) FAdd(l, r ValueID) ValueID { return ib.binary(OpFAdd, l, r) }
func (ib *InstBuilder) FSub(l, r ValueID) ValueID { return ib.binary(OpFSub, l, r) }
func (ib *InstBuilder) FMul(l, r ValueID) ValueID { return ib.binary(OpFMul, l, r) }
func (ib *InstBuilder) FDiv(l, r ValueID) ValueID { return ib.binary(OpFDiv, l, r) }
func (ib *InstBuilder) FRem(l, r ValueID) ValueID { return ib.binary(OpFRem, l, r) }
func (ib *InstBuilder) BOr(l, r ValueID) ValueID  { return ib.binary(OpBOr, l, r) }
func (ib *InstBuilder) BAnd(l, r ValueID) ValueID { return ib.binary(OpBAnd, l, r) }

func (ib *InstBuilder) unary(kind OpKind, n ValueID) ValueID {
	return ib.assign(ib.alloc(n.Type), Op{Kind: kind, Left: n})
}

// Lsh/LRsh/ARsh take a single value; the shift distance is fixed at 1 in
// the current design (see the open question preserved from the original
// spec — revisit before exposing a variable shift amount).
func (ib *InstBuilder) Lsh(n ValueID) ValueID  { return ib.unary(OpLsh, n) }
func (ib *InstBuilder) LRsh(n ValueID) ValueID { return ib.unary(OpLRsh, n) }
func (ib *InstBuilder) ARsh(n ValueID) ValueID { return ib.unary(OpARsh, n) }
func (ib *InstBuilder) BNot(n ValueID) ValueID { return ib.unary(OpBNot, n) }
func (ib *InstBuilder) INeg(n ValueID) ValueID { return ib.unary(OpINeg, n) }
func (ib *InstBuilder) FNeg(n ValueID) ValueID { return ib.unary(OpFNeg, n) }

func (ib *InstBuilder) ICmp(l, r ValueID, pred CmpPred) ValueID {
	return ib.assign(ib.alloc(Bool), Op{Kind: OpICmp, Left: l, Right: r, Pred: pred})
}

func (ib *InstBuilder) FCmp(l, r ValueID, pred CmpPred) ValueID {
	return ib.assign(ib.alloc(Bool), Op{Kind: OpFCmp, Left: l, Right: r, Pred: pred})
}

func (ib *InstBuilder) Ret(v ValueID) {
	ib.block.Insts = append(ib.block.Insts, Inst{Kind: InstRet, RetValue: v})
}

func (ib *InstBuilder) Jmp(target BlockCall) {
	ib.block.Insts = append(ib.block.Insts, Inst{Kind: InstJmp, JmpTarget: target})
}

func (ib *InstBuilder) Br(cond ValueID, truePath, falsePath BlockCall) {
	ib.block.Insts = append(ib.block.Insts, Inst{Kind: InstBranch, Condition: cond, TruePath: truePath, FalsePath: falsePath})
}
