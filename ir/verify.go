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
    `github.com/pkg/errors`
)

type _Verifier struct {
    f    *Func
    live map[*Instr]*BasicBlock
}

// Verify checks the structure and the use graph of the function, and returns
// the first violation found.
func Verify(f *Func) error {
    v := &_Verifier {
        f    : f,
        live : make(map[*Instr]*BasicBlock),
    }

    /* collect all the live instructions */
    for _, bb := range f.Blocks {
        if err := v.block(bb); err != nil {
            return errors.Wrapf(err, "function @%s", f.Name)
        }
    }

    /* check every instruction against the live set */
    for _, bb := range f.Blocks {
        for p := bb.head; p != nil; p = p.next {
            if err := v.instr(p); err != nil {
                return errors.Wrapf(err, "function @%s, block %s", f.Name, bb.Label)
            }
        }
    }

    /* check the uses on arguments */
    for _, a := range f.Args {
        if err := v.uses(a); err != nil {
            return errors.Wrapf(err, "function @%s", f.Name)
        }
    }
    return nil
}

func (self *_Verifier) block(bb *BasicBlock) error {
    var n int
    var prev *Instr

    /* walk the list, checking the links */
    for p := bb.head; p != nil; p = p.next {
        if p.parent != bb {
            return errors.Errorf("%s: parent is not block %s", p.Format(), bb.Label)
        } else if p.prev != prev {
            return errors.Errorf("%s: broken backward link", p.Format())
        } else if _, ok := self.live[p]; ok {
            return errors.Errorf("%s: appears more than once", p.Format())
        }
        n++
        prev = p
        self.live[p] = bb
    }

    /* check the tail and the size */
    if bb.tail != prev {
        return errors.Errorf("block %s: broken tail link", bb.Label)
    } else if bb.size != n {
        return errors.Errorf("block %s: size is %d, but has %d instructions", bb.Label, bb.size, n)
    } else {
        return nil
    }
}

func (self *_Verifier) instr(p *Instr) error {
    for i, v := range p.args {
        if err := self.operand(p, i, v); err != nil {
            return err
        }
    }

    /* operand shapes */
    switch {
        case p.Op.IsBinary(): {
            if len(p.args) != 2 {
                return errors.Errorf("%s: expects 2 operands, got %d", p.Format(), len(p.args))
            } else if p.args[0].Type() != p.Ty || p.args[1].Type() != p.Ty {
                return errors.Errorf("%s: operand type mismatch", p.Format())
            }
        }

        case p.Op == OpRet: {
            if len(p.args) > 1 {
                return errors.Errorf("%s: too many operands", p.Format())
            } else if typeOf(p.retval()) != self.f.Ret {
                return errors.Errorf("%s: function returns %s", p.Format(), self.f.Ret)
            }
        }

        default: {
            return errors.Errorf("%s: invalid opcode", p.Format())
        }
    }

    /* uses of the result */
    return self.uses(p)
}

func (self *_Verifier) operand(p *Instr, i int, v Value) error {
    u := p.edges[i]

    /* the edge must be intact */
    if v == nil {
        return errors.Errorf("%s: operand %d is missing", p.Format(), i)
    } else if u.User != p || u.Index != i {
        return errors.Errorf("%s: corrupted use edge on operand %d", p.Format(), i)
    } else if !v.list().hasUse(u) {
        return errors.Errorf("%s: operand %d is not in the use list of %s", p.Format(), i, v)
    }

    /* the value must be alive in this function */
    switch x := v.(type) {
        case *Instr: {
            if _, ok := self.live[x]; !ok {
                return errors.Errorf("%s: refers to removed instruction %s", p.Format(), x)
            }
        }

        case *Argument: {
            if x.parent != self.f {
                return errors.Errorf("%s: refers to foreign argument %s", p.Format(), x)
            }
        }
    }
    return nil
}

func (self *_Verifier) uses(v Value) error {
    for _, u := range v.list().uses {
        if _, ok := self.live[u.User]; !ok {
            return errors.Errorf("%s: used by a removed instruction %s", v, u.User)
        } else if u.Index >= len(u.User.args) || u.User.args[u.Index] != v {
            return errors.Errorf("%s: stale use edge %s", v, u)
        }
    }
    return nil
}

func (self *Instr) retval() Value {
    if len(self.args) == 0 {
        return nil
    } else {
        return self.args[0]
    }
}
