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
    `strconv`
)

// Type is an integer type identified by its bit width. The zero Type is void.
type Type uint8

const (
    Void Type = 0
    I1   Type = 1
    I8   Type = 8
    I16  Type = 16
    I32  Type = 32
    I64  Type = 64
)

const (
    MaxBits = 64
)

func (self Type) Bits() int {
    return int(self)
}

func (self Type) IsVoid() bool {
    return self == Void
}

func (self Type) Valid() bool {
    return self <= MaxBits
}

// Mask returns the bit mask covering all the bits of the type.
func (self Type) Mask() uint64 {
    if self >= MaxBits {
        return ^uint64(0)
    } else {
        return (uint64(1) << self) - 1
    }
}

func (self Type) String() string {
    if self == Void {
        return "void"
    } else {
        return "i" + strconv.Itoa(int(self))
    }
}

// Use is a use edge: operand Index of User refers to some Value.
type Use struct {
    User  *Instr
    Index int
}

func (self *Use) Value() Value {
    return self.User.args[self.Index]
}

func (self *Use) String() string {
    return fmt.Sprintf("%s#%d", self.User, self.Index)
}

type useList struct {
    uses []*Use
}

func (self *useList) Uses() []*Use {
    return append([]*Use(nil), self.uses...)
}

func (self *useList) NumUses() int {
    return len(self.uses)
}

func (self *useList) UseEmpty() bool {
    return len(self.uses) == 0
}

func (self *useList) list() *useList {
    return self
}

func (self *useList) addUse(u *Use) {
    self.uses = append(self.uses, u)
}

func (self *useList) delUse(u *Use) {
    for i, v := range self.uses {
        if v == u {
            copy(self.uses[i:], self.uses[i + 1:])
            self.uses[len(self.uses) - 1] = nil
            self.uses = self.uses[:len(self.uses) - 1]
            return
        }
    }
    panic("ir: use edge not found: " + u.String())
}

func (self *useList) hasUse(u *Use) bool {
    for _, v := range self.uses {
        if v == u {
            return true
        }
    }
    return false
}

// Value is anything an instruction operand can refer to.
type Value interface {
    fmt.Stringer
    Type() Type
    Uses() []*Use
    NumUses() int
    UseEmpty() bool
    ReplaceAllUsesWith(v Value)
    list() *useList
}

// ReplaceAllUsesWith repoints every use edge of old to v. Duplicate uses
// within one user and self-uses are handled. Replacing a value with itself
// is a no-op.
func ReplaceAllUsesWith(old Value, v Value) {
    if old == v {
        return
    }

    /* the list shrinks while the edges are moved, so work on a snapshot */
    for _, u := range old.Uses() {
        u.User.SetOperand(u.Index, v)
    }
}

// Argument is a formal parameter of a function.
type Argument struct {
    useList
    Name   string
    Ty     Type
    parent *Func
}

func (self *Argument) Type() Type {
    return self.Ty
}

func (self *Argument) Parent() *Func {
    return self.parent
}

func (self *Argument) String() string {
    return "%" + self.Name
}

func (self *Argument) ReplaceAllUsesWith(v Value) {
    ReplaceAllUsesWith(self, v)
}

type constKey struct {
    t Type
    v uint64
}

// ConstInt is an integer literal of a fixed width. The value is stored
// truncated to the width, so -1 and the all-ones pattern are the same constant.
type ConstInt struct {
    useList
    Ty Type
    V  uint64
}

func newConstInt(t Type, v int64) *ConstInt {
    return &ConstInt {
        Ty: t,
        V : uint64(v) & t.Mask(),
    }
}

func (self *ConstInt) Type() Type {
    return self.Ty
}

// Uint64 returns the zero-extended value.
func (self *ConstInt) Uint64() uint64 {
    return self.V
}

// Int64 returns the sign-extended value.
func (self *ConstInt) Int64() int64 {
    if n := MaxBits - self.Ty.Bits(); n <= 0 {
        return int64(self.V)
    } else {
        return int64(self.V << uint(n)) >> uint(n)
    }
}

func (self *ConstInt) IsZero() bool {
    return self.V == 0
}

func (self *ConstInt) IsOne() bool {
    return self.V == 1
}

func (self *ConstInt) IsMinusOne() bool {
    return self.Ty != Void && self.V == self.Ty.Mask()
}

func (self *ConstInt) ReplaceAllUsesWith(v Value) {
    ReplaceAllUsesWith(self, v)
}

func (self *ConstInt) String() string {
    if self.Ty == I1 {
        return strconv.FormatUint(self.V, 10)
    } else {
        return strconv.FormatInt(self.Int64(), 10)
    }
}
