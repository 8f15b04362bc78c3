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
)

// Builder appends well-formed instructions to a basic block.
type Builder struct {
    bb *BasicBlock
}

func NewBuilder(bb *BasicBlock) *Builder {
    return &Builder { bb: bb }
}

func (self *Builder) Block() *BasicBlock {
    return self.bb
}

func (self *Builder) SetBlock(bb *BasicBlock) {
    self.bb = bb
}

// Const is a shorthand for the uniqued constant of the enclosing function.
func (self *Builder) Const(t Type, v int64) *ConstInt {
    return self.bb.parent.ConstInt(t, v)
}

// Binary appends "name = op ty x, y". An empty name gets a temporary one.
func (self *Builder) Binary(op Op, name string, x Value, y Value) *Instr {
    if !op.IsBinary() {
        panic(fmt.Sprintf("ir: %s is not a binary operator", op))
    }

    /* both sides must agree on the width */
    if x.Type() != y.Type() {
        panic(fmt.Sprintf("ir: operand type mismatch: %s %s, %s %s", x.Type(), x, y.Type(), y))
    }

    /* allocate a name if needed */
    if name == "" {
        name = self.bb.parent.tempName()
    }

    /* build the instruction */
    ins := NewInstr(op, name, x.Type(), x, y)
    self.bb.Append(ins)
    return ins
}

func (self *Builder) Add(name string, x Value, y Value) *Instr  { return self.Binary(OpAdd, name, x, y) }
func (self *Builder) Sub(name string, x Value, y Value) *Instr  { return self.Binary(OpSub, name, x, y) }
func (self *Builder) Mul(name string, x Value, y Value) *Instr  { return self.Binary(OpMul, name, x, y) }
func (self *Builder) UDiv(name string, x Value, y Value) *Instr { return self.Binary(OpUDiv, name, x, y) }
func (self *Builder) SDiv(name string, x Value, y Value) *Instr { return self.Binary(OpSDiv, name, x, y) }

// Ret appends a return terminator, v may be nil for "ret void".
func (self *Builder) Ret(v Value) *Instr {
    var ins *Instr
    if v == nil {
        ins = NewInstr(OpRet, "", Void)
    } else {
        ins = NewInstr(OpRet, "", Void, v)
    }
    self.bb.Append(ins)
    return ins
}
