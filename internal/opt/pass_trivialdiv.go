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

package opt

import (
    `sync/atomic`

    `github.com/cloudwego/peephole/ir`
)

func init() {
    RegisterPass("trivial-div", "Trivial Division Elimination", func() Pass { return new(TrivialDiv) })
    RegisterStandardPass(EPEarlyAsPossible, "trivial-div")
}

// TrivialDiv removes integer divisions by the constant one, forwarding the
// dividend to every user of the quotient. "x / 1 == x" holds for both signed
// and unsigned divisions with no possibility of trapping, so the rewrite needs
// nothing beyond the instruction itself.
type TrivialDiv struct{}

func (self TrivialDiv) Apply(fn *ir.Func) (changed bool) {
    Logger.WithField("func", fn.Name).Debug("trivial-div: processing function")
    atomic.AddUint64(&FuncCount, 1)

    /* the iterator steps past the current instruction before handing it out */
    for it := fn.Instructions(); it.Next(); {
        ins := it.Instr()

        /* skip instructions that are not eligible */
        if !self.isTrivialDiv(ins) {
            continue
        }

        /* forward the dividend to all users of the quotient */
        if !ins.UseEmpty() {
            atomic.AddUint64(&UseCount, uint64(ins.NumUses()))
            ins.ReplaceAllUsesWith(ins.Operand(0))
        }

        /* the quotient is now dead */
        Logger.WithField("func", fn.Name).Debugf("trivial-div: removed %s", ins.Format())
        ins.EraseFromParent()
        atomic.AddUint64(&DivCount, 1)
        changed = true
    }
    return
}

func (self TrivialDiv) isTrivialDiv(ins *ir.Instr) bool {
    return self.isBinaryDiv(ins) && self.isTrivial(ins)
}

func (TrivialDiv) isBinaryDiv(ins *ir.Instr) bool {
    if !ins.Op.IsDivision() || ins.NumOperands() != 2 {
        return false
    }

    /* the dividend must be something other than the quotient itself, of the same width */
    x := ins.Operand(0)
    return x != nil && x != ir.Value(ins) && x.Type() == ins.Type()
}

func (self TrivialDiv) isTrivial(ins *ir.Instr) bool {
    return self.isOne(ins.Operand(1), ins.Type())
}

func (TrivialDiv) isOne(v ir.Value, ty ir.Type) bool {
    c, ok := v.(*ir.ConstInt)
    return ok && c.Type() == ty && c.IsOne()
}
