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
    `testing`

    `github.com/cloudwego/peephole/ir`
    `github.com/stretchr/testify/assert`
    `github.com/stretchr/testify/require`
)

func mustParseFunc(t *testing.T, src string) *ir.Func {
    fn, err := ir.ParseFunc(src)
    require.NoError(t, err)
    require.NoError(t, ir.Verify(fn))
    return fn
}

func runTrivialDiv(t *testing.T, src string) (*ir.Func, bool) {
    fn := mustParseFunc(t, src)
    changed := TrivialDiv{}.Apply(fn)
    require.NoError(t, ir.Verify(fn))
    return fn, changed
}

func TestTrivialDiv_ForwardsDividend(t *testing.T) {
    fn, changed := runTrivialDiv(t, `
define i32 @f(i32 %x, i32 %y) {
  %r = udiv i32 %x, 1
  %s = add i32 %r, %y
  ret i32 %s
}`)
    require.True(t, changed)
    assert.Equal(t, `define i32 @f(i32 %x, i32 %y) {
entry:
  %s = add i32 %x, %y
  ret i32 %s
}
`, fn.String())
    s := fn.Blocks[0].First()
    assert.Equal(t, ir.Value(fn.Arg("x")), s.Operand(0))
    assert.Equal(t, 1, fn.Arg("x").NumUses())
}

func TestTrivialDiv_NonUnitDivisors(t *testing.T) {
    tests := []struct {
        name string
        src  string
    }{
        {
            name: "signed by two",
            src: "define i32 @f(i32 %x) {\nentry:\n  %r = sdiv i32 %x, 2\n  ret i32 %r\n}\n",
        },
        {
            name: "unsigned by zero",
            src: "define i32 @f(i32 %x) {\nentry:\n  %r = udiv i32 %x, 0\n  ret i32 %r\n}\n",
        },
        {
            name: "signed by minus one",
            src: "define i32 @f(i32 %x) {\nentry:\n  %r = sdiv i32 %x, -1\n  ret i32 %r\n}\n",
        },
        {
            name: "unsigned by all ones",
            src: "define i8 @f(i8 %x) {\nentry:\n  %r = udiv i8 %x, -1\n  ret i8 %r\n}\n",
        },
        {
            name: "run-time divisor",
            src: "define i64 @f(i64 %x, i64 %y) {\nentry:\n  %r = udiv i64 %x, %y\n  ret i64 %r\n}\n",
        },
        {
            name: "one as dividend",
            src: "define i16 @f(i16 %x) {\nentry:\n  %r = sdiv i16 1, %x\n  ret i16 %r\n}\n",
        },
        {
            name: "remainder by one",
            src: "define i32 @f(i32 %x) {\nentry:\n  %r = urem i32 %x, 1\n  ret i32 %r\n}\n",
        },
        {
            name: "multiplication by one",
            src: "define i32 @f(i32 %x) {\nentry:\n  %r = mul i32 %x, 1\n  ret i32 %r\n}\n",
        },
    }
    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            fn, changed := runTrivialDiv(t, tt.src)
            assert.False(t, changed)
            assert.Equal(t, tt.src, fn.String())
        })
    }
}

func TestTrivialDiv_NoUsers(t *testing.T) {
    fn, changed := runTrivialDiv(t, `
define void @f(i32 %x) {
  %r = udiv i32 %x, 1
  ret void
}`)
    require.True(t, changed)
    assert.Equal(t, 1, fn.NumInstrs())
    assert.Equal(t, 0, fn.Arg("x").NumUses())
}

func TestTrivialDiv_Chained(t *testing.T) {
    fn, changed := runTrivialDiv(t, `
define i64 @f(i64 %x, i64 %y) {
entry:
  %a = sdiv i64 %x, 1
  %b = udiv i64 %a, 1
  %c = mul i64 %b, %a

exit:
  %d = sdiv i64 %c, 1
  %e = udiv i64 %d, %d
  ret i64 %e
}`)
    require.True(t, changed)
    assert.Equal(t, `define i64 @f(i64 %x, i64 %y) {
entry:
  %c = mul i64 %x, %x

exit:
  %e = udiv i64 %c, %c
  ret i64 %e
}
`, fn.String())
    assert.Equal(t, 2, fn.Arg("x").NumUses())
}

func TestTrivialDiv_WidthAware(t *testing.T) {
    for _, ty := range []ir.Type { ir.I1, ir.I8, ir.I16, ir.I32, ir.I64 } {
        fn := ir.NewFunc("f", ty, ir.Param { Name: "x", Type: ty })
        b := ir.NewBuilder(fn.NewBlock("entry"))
        b.Ret(b.UDiv("r", fn.Args[0], b.Const(ty, 1)))
        require.True(t, TrivialDiv{}.Apply(fn), ty.String())
        assert.Equal(t, ir.Value(fn.Args[0]), fn.Blocks[0].First().Operand(0))
    }
}

func TestTrivialDiv_Malformed(t *testing.T) {
    fn := ir.NewFunc("f", ir.I32, ir.Param { Name: "x", Type: ir.I32 }, ir.Param { Name: "w", Type: ir.I64 })
    bb := fn.NewBlock("entry")
    one := fn.ConstInt(ir.I32, 1)

    /* a division with three operands */
    bad := ir.NewInstr(ir.OpSDiv, "bad", ir.I32, fn.Args[0], one, one)
    bb.Append(bad)

    /* a divisor of a different width */
    wide := ir.NewInstr(ir.OpUDiv, "wide", ir.I32, fn.Args[0], fn.ConstInt(ir.I64, 1))
    bb.Append(wide)

    /* a dividend of a different width */
    narrow := ir.NewInstr(ir.OpUDiv, "narrow", ir.I32, fn.Arg("w"), one)
    bb.Append(narrow)

    /* a quotient dividing itself */
    loop := ir.NewInstr(ir.OpUDiv, "loop", ir.I32, nil, one)
    loop.SetOperand(0, loop)
    bb.Append(loop)
    bb.Append(ir.NewInstr(ir.OpRet, "", ir.Void, bad))

    /* nothing is eligible, nothing panics */
    n := fn.NumInstrs()
    require.NotPanics(t, func() { assert.False(t, TrivialDiv{}.Apply(fn)) })
    assert.Equal(t, n, fn.NumInstrs())
    assert.Equal(t, ir.Value(fn.Arg("w")), narrow.Operand(0))
    assert.Same(t, bb, narrow.Parent())
}

func TestTrivialDiv_DividendWidthMismatch(t *testing.T) {
    fn, err := ir.ParseFunc(`
define i32 @f(i64 %x) {
  %r = udiv i32 %x, 1
  ret i32 %r
}`)
    require.NoError(t, err)
    require.Error(t, ir.Verify(fn))
    text := fn.String()
    assert.False(t, TrivialDiv{}.Apply(fn))
    assert.Equal(t, text, fn.String())
}

func TestTrivialDiv_Idempotent(t *testing.T) {
    fn, changed := runTrivialDiv(t, `
define i32 @f(i32 %x) {
  %a = udiv i32 %x, 1
  %b = sdiv i32 %a, 3
  ret i32 %b
}`)
    require.True(t, changed)
    text := fn.String()
    assert.False(t, TrivialDiv{}.Apply(fn))
    assert.Equal(t, text, fn.String())
}

func TestTrivialDiv_EmptyFunc(t *testing.T) {
    assert.False(t, TrivialDiv{}.Apply(ir.NewFunc("f", ir.Void)))
}

func TestTrivialDiv_Counters(t *testing.T) {
    nf := atomic.LoadUint64(&FuncCount)
    nd := atomic.LoadUint64(&DivCount)
    nu := atomic.LoadUint64(&UseCount)
    runTrivialDiv(t, `
define i32 @f(i32 %x) {
  %a = udiv i32 %x, 1
  %b = add i32 %a, %a
  %c = sdiv i32 %b, 1
  ret i32 %b
}`)
    assert.GreaterOrEqual(t, atomic.LoadUint64(&FuncCount) - nf, uint64(1))
    assert.GreaterOrEqual(t, atomic.LoadUint64(&DivCount) - nd, uint64(2))
    assert.GreaterOrEqual(t, atomic.LoadUint64(&UseCount) - nu, uint64(2))
}
