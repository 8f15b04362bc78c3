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

// BasicBlock owns an intrusive doubly-linked list of instructions.
type BasicBlock struct {
    Label  string
    head   *Instr
    tail   *Instr
    size   int
    parent *Func
}

func (self *BasicBlock) Parent() *Func {
    return self.parent
}

func (self *BasicBlock) First() *Instr {
    return self.head
}

func (self *BasicBlock) Last() *Instr {
    return self.tail
}

func (self *BasicBlock) Len() int {
    return self.size
}

// Instrs returns a snapshot of the instructions in order.
func (self *BasicBlock) Instrs() []*Instr {
    ret := make([]*Instr, 0, self.size)
    for p := self.head; p != nil; p = p.next { ret = append(ret, p) }
    return ret
}

// Append attaches a detached instruction at the end of the block.
func (self *BasicBlock) Append(ins *Instr) {
    self.InsertBefore(ins, nil)
}

// InsertBefore attaches a detached instruction right before pos, or at the
// end of the block when pos is nil.
func (self *BasicBlock) InsertBefore(ins *Instr, pos *Instr) {
    if ins.parent != nil {
        panic("ir: instruction is already attached: " + ins.Format())
    }

    /* check for the insert position */
    if pos != nil && pos.parent != self {
        panic("ir: insert position is not in block " + self.Label)
    }

    /* link to the end */
    if pos == nil {
        ins.prev = self.tail
        ins.next = nil
        if self.tail == nil { self.head = ins } else { self.tail.next = ins }
        self.tail = ins
    } else {
        ins.prev = pos.prev
        ins.next = pos
        if pos.prev == nil { self.head = ins } else { pos.prev.next = ins }
        pos.prev = ins
    }

    /* update the ownership */
    self.size++
    ins.parent = self
}

func (self *BasicBlock) unlink(ins *Instr) {
    if ins.prev == nil { self.head = ins.next } else { ins.prev.next = ins.next }
    if ins.next == nil { self.tail = ins.prev } else { ins.next.prev = ins.prev }

    /* fully detach the instruction */
    self.size--
    ins.prev = nil
    ins.next = nil
    ins.parent = nil
}
