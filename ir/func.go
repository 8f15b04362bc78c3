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

// Param describes a formal parameter when creating a function.
type Param struct {
    Name string
    Type Type
}

type Func struct {
    Name   string
    Ret    Type
    Args   []*Argument
    Blocks []*BasicBlock
    consts map[constKey]*ConstInt
    temps  int
}

func NewFunc(name string, ret Type, params ...Param) *Func {
    fn := &Func {
        Name   : name,
        Ret    : ret,
        consts : make(map[constKey]*ConstInt),
    }

    /* create all the arguments */
    for _, p := range params {
        fn.Args = append(fn.Args, &Argument {
            Name   : p.Name,
            Ty     : p.Type,
            parent : fn,
        })
    }
    return fn
}

// Arg finds the argument by name, returns nil if not found.
func (self *Func) Arg(name string) *Argument {
    for _, v := range self.Args {
        if v.Name == name {
            return v
        }
    }
    return nil
}

func (self *Func) NewBlock(label string) *BasicBlock {
    bb := &BasicBlock {
        Label  : label,
        parent : self,
    }
    self.Blocks = append(self.Blocks, bb)
    return bb
}

// ConstInt returns the uniqued integer constant of type t.
func (self *Func) ConstInt(t Type, v int64) *ConstInt {
    k := constKey { t: t, v: uint64(v) & t.Mask() }
    if c, ok := self.consts[k]; ok {
        return c
    }

    /* not seen before, create a new one */
    c := newConstInt(t, v)
    self.consts[k] = c
    return c
}

func (self *Func) tempName() string {
    self.temps++
    return fmt.Sprintf("t%d", self.temps)
}

// NumInstrs counts the instructions across all blocks.
func (self *Func) NumInstrs() (n int) {
    for _, bb := range self.Blocks { n += bb.Len() }
    return
}

// Instructions returns an iterator over every instruction of the function.
func (self *Func) Instructions() *InstIter {
    return &InstIter { f: self, bi: -1 }
}

func (self *Func) String() string {
    var sb strings.Builder
    args := make([]string, 0, len(self.Args))

    /* function signature */
    for _, v := range self.Args { args = append(args, fmt.Sprintf("%s %s", v.Ty, v)) }
    fmt.Fprintf(&sb, "define %s @%s(%s) {\n", self.Ret, self.Name, strings.Join(args, ", "))

    /* dump every block */
    for i, bb := range self.Blocks {
        if i != 0 {
            sb.WriteByte('\n')
        }
        fmt.Fprintf(&sb, "%s:\n", bb.Label)
        for p := bb.head; p != nil; p = p.next {
            fmt.Fprintf(&sb, "  %s\n", p.Format())
        }
    }

    /* close the function body */
    sb.WriteString("}\n")
    return sb.String()
}

// InstIter walks all instructions of a function in block order. The next
// instruction is captured before the current one is handed out, so the
// current one may be erased without breaking the walk.
type InstIter struct {
    f   *Func
    bi  int
    cur *Instr
    nxt *Instr
}

func (self *InstIter) Next() bool {
    for self.cur = self.nxt; self.cur == nil; {
        if self.bi++; self.bi >= len(self.f.Blocks) {
            self.bi = len(self.f.Blocks)
            return false
        }
        self.cur = self.f.Blocks[self.bi].head
    }

    /* snapshot the successor before the caller gets a chance to mutate */
    self.nxt = self.cur.next
    return true
}

func (self *InstIter) Instr() *Instr {
    return self.cur
}

func (self *InstIter) ForEach(action func(ins *Instr)) {
    for self.Next() {
        action(self.cur)
    }
}

type Module struct {
    Funcs []*Func
}

func (self *Module) Func(name string) *Func {
    for _, f := range self.Funcs {
        if f.Name == name {
            return f
        }
    }
    return nil
}

func (self *Module) String() string {
    ret := make([]string, 0, len(self.Funcs))
    for _, f := range self.Funcs { ret = append(ret, f.String()) }
    return strings.Join(ret, "\n")
}
