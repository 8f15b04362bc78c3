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
    `strconv`
    `strings`
)

type _Operand struct {
    tk _Token
}

type _PendingInstr struct {
    ins  *Instr
    ty   Type
    args []_Operand
}

type _Parser struct {
    lex  *_Lexer
    tk   _Token
    fn   *Func
    vals map[string]Value
    todo []_PendingInstr
}

// Parse parses a module in the textual IR syntax:
//
//     define i32 @f(i32 %x, i32 %y) {
//     entry:
//       %r = udiv i32 %x, 1
//       %s = add i32 %r, %y
//       ret i32 %s
//     }
//
// Operands may refer to results defined later in the function.
func Parse(src string) (*Module, error) {
    p := &_Parser { lex: newLexer(src) }
    if err := p.next(); err != nil {
        return nil, err
    } else {
        return p.module()
    }
}

// ParseFunc parses a source containing exactly one function.
func ParseFunc(src string) (*Func, error) {
    if m, err := Parse(src); err != nil {
        return nil, err
    } else if len(m.Funcs) != 1 {
        return nil, SyntaxError { Line: 1, Col: 1, Reason: "expected exactly one function, got " + strconv.Itoa(len(m.Funcs)) }
    } else {
        return m.Funcs[0], nil
    }
}

func (self *_Parser) next() (err error) {
    self.tk, err = self.lex.Next()
    return
}

func (self *_Parser) errorf(tk _Token, format string, args ...interface{}) error {
    return self.lex.errorf(tk.line, tk.col, format, args...)
}

func (self *_Parser) is(kind _TokenKind, text string) bool {
    return self.tk.kind == kind && (text == "" || self.tk.text == text)
}

func (self *_Parser) expect(kind _TokenKind, text string) (_Token, error) {
    tk := self.tk
    if !self.is(kind, text) {
        if text == "" {
            return tk, self.errorf(tk, "expected %s, got %s", kind, tk)
        } else {
            return tk, self.errorf(tk, "expected %q, got %s", text, tk)
        }
    }
    return tk, self.next()
}

func (self *_Parser) module() (*Module, error) {
    m := new(Module)
    for !self.is(_T_eof, "") {
        if fn, err := self.function(); err != nil {
            return nil, err
        } else if m.Func(fn.Name) != nil {
            return nil, SyntaxError { Line: self.tk.line, Col: self.tk.col, Reason: "duplicated function @" + fn.Name }
        } else {
            m.Funcs = append(m.Funcs, fn)
        }
    }
    return m, nil
}

func (self *_Parser) typ() (Type, error) {
    tk, err := self.expect(_T_ident, "")
    if err != nil {
        return Void, err
    }

    /* void type */
    if tk.text == "void" {
        return Void, nil
    }

    /* integer types */
    if strings.HasPrefix(tk.text, "i") {
        if n, err := strconv.Atoi(tk.text[1:]); err == nil && n >= 1 && n <= MaxBits {
            return Type(n), nil
        }
    }
    return Void, self.errorf(tk, "invalid type %s", tk)
}

func (self *_Parser) function() (*Func, error) {
    var err error
    var ret Type
    var name _Token
    var params []Param

    /* function header */
    if _, err = self.expect(_T_ident, "define"); err != nil { return nil, err }
    if ret, err = self.typ(); err != nil { return nil, err }
    if name, err = self.expect(_T_global, ""); err != nil { return nil, err }
    if _, err = self.expect(_T_punct, "("); err != nil { return nil, err }

    /* parameter list */
    for !self.is(_T_punct, ")") {
        if len(params) != 0 {
            if _, err = self.expect(_T_punct, ","); err != nil {
                return nil, err
            }
        }
        if params, err = self.param(params); err != nil {
            return nil, err
        }
    }

    /* function body */
    if _, err = self.expect(_T_punct, ")"); err != nil { return nil, err }
    if _, err = self.expect(_T_punct, "{"); err != nil { return nil, err }

    /* initialize the function scope */
    self.todo = self.todo[:0]
    self.fn = NewFunc(name.text, ret, params...)
    self.vals = make(map[string]Value, len(params))

    /* arguments are in scope */
    for _, a := range self.fn.Args {
        self.vals[a.Name] = a
    }

    /* parse all the blocks */
    for !self.is(_T_punct, "}") {
        if err = self.block(); err != nil {
            return nil, err
        }
    }

    /* resolve the operands after all the definitions are seen */
    if err = self.resolve(); err != nil {
        return nil, err
    } else {
        return self.fn, self.next()
    }
}

func (self *_Parser) param(params []Param) ([]Param, error) {
    t, err := self.typ()
    if err != nil {
        return nil, err
    }

    /* parameter name */
    tk, err := self.expect(_T_local, "")
    if err != nil {
        return nil, err
    }

    /* check for duplications */
    for _, p := range params {
        if p.Name == tk.text {
            return nil, self.errorf(tk, "duplicated parameter %%%s", tk.text)
        }
    }
    return append(params, Param { Name: tk.text, Type: t }), nil
}

func (self *_Parser) block() error {
    label := "entry"
    if len(self.fn.Blocks) != 0 {
        label = ""
    }

    /* optional label, mandatory for all but the first block */
    if self.is(_T_ident, "") {
        tk := self.tk
        save := *self.lex

        /* look ahead for the colon */
        if err := self.next(); err != nil {
            return err
        }

        /* not a label, rewind */
        if !self.is(_T_punct, ":") {
            *self.lex, self.tk = save, tk
        } else if err := self.next(); err != nil {
            return err
        } else {
            label = tk.text
        }
    }

    /* check the label */
    if label == "" {
        return self.errorf(self.tk, "expected block label, got %s", self.tk)
    }
    for _, bb := range self.fn.Blocks {
        if bb.Label == label {
            return self.errorf(self.tk, "duplicated block label %s", label)
        }
    }

    /* parse instructions until the terminator, the next label or the end of function */
    bb := self.fn.NewBlock(label)
    for !self.is(_T_punct, "}") && !self.atLabel() {
        ins, err := self.instr()
        if err != nil {
            return err
        }
        if bb.Append(ins); ins.Op.IsTerminator() {
            break
        }
    }
    return nil
}

func (self *_Parser) atLabel() bool {
    return self.is(_T_ident, "") && !self.is(_T_ident, "ret")
}

func (self *_Parser) instr() (*Instr, error) {
    var err error
    var name _Token

    /* "ret" has no results */
    if self.is(_T_ident, "ret") {
        return self.ret()
    }

    /* result name */
    if name, err = self.expect(_T_local, ""); err != nil { return nil, err }
    if _, err = self.expect(_T_punct, "="); err != nil { return nil, err }

    /* check for redefinitions */
    if _, ok := self.vals[name.text]; ok {
        return nil, self.errorf(name, "redefinition of %%%s", name.text)
    }

    /* opcode */
    optk, err := self.expect(_T_ident, "")
    if err != nil {
        return nil, err
    }

    /* must be a binary operator */
    op, ok := LookupOp(optk.text)
    if !ok || !op.IsBinary() {
        return nil, self.errorf(optk, "unknown binary operator %s", optk)
    }

    /* operand type */
    ty, err := self.typ()
    if err != nil {
        return nil, err
    } else if ty == Void {
        return nil, self.errorf(optk, "binary operator on void")
    }

    /* operands */
    x, err := self.operand()
    if err != nil { return nil, err }
    if _, err = self.expect(_T_punct, ","); err != nil { return nil, err }
    y, err := self.operand()
    if err != nil { return nil, err }

    /* create the instruction, operands are bound later */
    ins := newInstr(op, name.text, ty, 2)
    self.vals[name.text] = ins
    self.todo = append(self.todo, _PendingInstr { ins: ins, ty: ty, args: []_Operand { x, y } })
    return ins, nil
}

func (self *_Parser) ret() (*Instr, error) {
    if err := self.next(); err != nil {
        return nil, err
    }

    /* "ret void" */
    ty, err := self.typ()
    if err != nil {
        return nil, err
    } else if ty == Void {
        return newInstr(OpRet, "", Void, 0), nil
    }

    /* "ret <ty> <value>" */
    v, err := self.operand()
    if err != nil {
        return nil, err
    }

    /* build the instruction */
    ins := newInstr(OpRet, "", Void, 1)
    self.todo = append(self.todo, _PendingInstr { ins: ins, ty: ty, args: []_Operand { v } })
    return ins, nil
}

func (self *_Parser) operand() (_Operand, error) {
    if tk := self.tk; tk.kind != _T_local && tk.kind != _T_int {
        return _Operand{}, self.errorf(tk, "expected operand, got %s", tk)
    } else {
        return _Operand { tk: tk }, self.next()
    }
}

func (self *_Parser) resolve() error {
    for _, p := range self.todo {
        for i, v := range p.args {
            if val, err := self.value(p.ty, v); err != nil {
                return err
            } else {
                p.ins.SetOperand(i, val)
            }
        }
    }
    return nil
}

func (self *_Parser) value(ty Type, v _Operand) (Value, error) {
    if v.tk.kind == _T_local {
        if val, ok := self.vals[v.tk.text]; ok {
            return val, nil
        } else {
            return nil, self.errorf(v.tk, "undefined value %%%s", v.tk.text)
        }
    }

    /* literals take the type spelled in the instruction, large unsigned ones are allowed */
    if n, err := strconv.ParseInt(v.tk.text, 10, 64); err == nil {
        return self.fn.ConstInt(ty, n), nil
    } else if u, err := strconv.ParseUint(v.tk.text, 10, 64); err == nil {
        return self.fn.ConstInt(ty, int64(u)), nil
    } else {
        return nil, self.errorf(v.tk, "integer literal out of range: %s", v.tk.text)
    }
}
