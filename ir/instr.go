/*
 * Copyright 2024 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package ir

import (
    `fmt`
    `strings`
)

type Op uint8

const (
    OpInvalid Op = iota
    OpAdd
    OpSub
    OpMul
    OpUDiv
    OpSDiv
    OpURem
    OpSRem
    OpAnd
    OpOr
    OpXor
    OpShl
    OpLShr
    OpAShr
    OpRet
    _OpMax
)

var _OpNames = [...]string {
    OpInvalid : "invalid",
    OpAdd     : "add",
    OpSub     : "sub",
    OpMul     : "mul",
    OpUDiv    : "udiv",
    OpSDiv    : "sdiv",
    OpURem    : "urem",
    OpSRem    : "srem",
    OpAnd     : "and",
    OpOr      : "or",
    OpXor     : "xor",
    OpShl     : "shl",
    OpLShr    : "lshr",
    OpAShr    : "ashr",
    OpRet     : "ret",
}

// LookupOp finds the opcode by its textual name.
func LookupOp(name string) (Op, bool) {
    for i := OpAdd; i < _OpMax; i++ {
        if _OpNames[i] == name {
            return i, true
        }
    }
    return OpInvalid, false
}

func (self Op) String() string {
    if self < _OpMax {
        return _OpNames[self]
    } else {
        return fmt.Sprintf("op(%d)", uint8(self))
    }
}

// IsBinary reports whether the opcode is a two-operand arithmetic operation.
func (self Op) IsBinary() bool {
    return self >= OpAdd && self <= OpAShr
}

func (self Op) IsDivision() bool {
    return self == OpUDiv || self == OpSDiv
}

func (self Op) IsTerminator() bool {
    return self == OpRet
}

// Instr is a single instruction. It is a Value when it produces a result.
type Instr struct {
    useList
    Op     Op
    Name   string
    Ty     Type
    args   []Value
    edges  []*Use
    prev   *Instr
    next   *Instr
    parent *BasicBlock
}

// NewInstr creates a detached instruction with the given operands. The host
// is free to create any shape here, Verify tells whether it is well-formed.
func NewInstr(op Op, name string, ty Type, args ...Value) *Instr {
    ins := newInstr(op, name, ty, len(args))
    for i, v := range args { ins.SetOperand(i, v) }
    return ins
}

func newInstr(op Op, name string, ty Type, nargs int) *Instr {
    ret := &Instr {
        Op    : op,
        Ty    : ty,
        Name  : name,
        args  : make([]Value, nargs),
        edges : make([]*Use, nargs),
    }

    /* one edge object per operand slot, reused across SetOperand calls */
    for i := range ret.edges {
        ret.edges[i] = &Use { User: ret, Index: i }
    }
    return ret
}

func (self *Instr) Type() Type {
    return self.Ty
}

func (self *Instr) Parent() *BasicBlock {
    return self.parent
}

func (self *Instr) Next() *Instr {
    return self.next
}

func (self *Instr) Prev() *Instr {
    return self.prev
}

func (self *Instr) NumOperands() int {
    return len(self.args)
}

func (self *Instr) Operand(i int) Value {
    return self.args[i]
}

func (self *Instr) Operands() []Value {
    return append([]Value(nil), self.args...)
}

// SetOperand moves the use edge of operand i to v.
func (self *Instr) SetOperand(i int, v Value) {
    u := self.edges[i]
    if old := self.args[i]; old != nil {
        old.list().delUse(u)
    }
    if self.args[i] = v; v != nil {
        v.list().addUse(u)
    }
}

func (self *Instr) ReplaceAllUsesWith(v Value) {
    ReplaceAllUsesWith(self, v)
}

// DropAllReferences releases every operand, leaving nil slots behind.
func (self *Instr) DropAllReferences() {
    for i := range self.args {
        self.SetOperand(i, nil)
    }
}

// RemoveFromParent unlinks the instruction from its block without releasing
// its operands.
func (self *Instr) RemoveFromParent() {
    if self.parent == nil {
        panic("ir: instruction is not attached to a block: " + self.Format())
    }
    self.parent.unlink(self)
}

// EraseFromParent unlinks the instruction and releases its operands. The
// instruction must not have any uses left.
func (self *Instr) EraseFromParent() {
    if !self.UseEmpty() {
        panic(fmt.Sprintf("ir: erasing %s which still has %d uses", self, self.NumUses()))
    }
    self.RemoveFromParent()
    self.DropAllReferences()
}

func (self *Instr) String() string {
    return "%" + self.Name
}

// Format renders the full instruction in the textual IR syntax.
func (self *Instr) Format() string {
    switch {
        case self.Op == OpRet && len(self.args) == 0 : return "ret void"
        case self.Op == OpRet                        : return fmt.Sprintf("ret %s %s", typeOf(self.args[0]), operandString(self.args[0]))
        case self.Ty == Void                         : return fmt.Sprintf("%s %s", self.Op, self.operandList())
        default                                      : return fmt.Sprintf("%s = %s %s %s", self, self.Op, self.Ty, self.operandList())
    }
}

func (self *Instr) operandList() string {
    ret := make([]string, 0, len(self.args))
    for _, v := range self.args { ret = append(ret, operandString(v)) }
    return strings.Join(ret, ", ")
}

func typeOf(v Value) Type {
    if v == nil {
        return Void
    } else {
        return v.Type()
    }
}

func operandString(v Value) string {
    if v == nil {
        return "<nil>"
    } else {
        return v.String()
    }
}
