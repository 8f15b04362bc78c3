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
    `errors`
    `testing`

    `github.com/davecgh/go-spew/spew`
    `github.com/stretchr/testify/assert`
    `github.com/stretchr/testify/require`
)

const _TestModule = `define i32 @f(i32 %x, i32 %y) {
entry:
  %r = udiv i32 %x, 1
  %s = add i32 %r, %y
  ret i32 %s
}

define void @g(i64 %a) {
entry:
  %q = sdiv i64 %a, -1
  %z = udiv i64 %q, 0

next:
  ret void
}
`

func TestParse_RoundTrip(t *testing.T) {
    m, err := Parse(_TestModule)
    require.NoError(t, err)
    require.Len(t, m.Funcs, 2)
    for _, fn := range m.Funcs {
        require.NoError(t, Verify(fn))
    }
    assert.Equal(t, _TestModule, m.String())
}

func TestParse_Operands(t *testing.T) {
    m, err := Parse(_TestModule)
    require.NoError(t, err)
    f := m.Func("f")
    require.NotNil(t, f)
    ins := f.Blocks[0].Instrs()
    require.Len(t, ins, 3)
    assert.Equal(t, OpUDiv, ins[0].Op)
    assert.Equal(t, Value(f.Arg("x")), ins[0].Operand(0))
    c, ok := ins[0].Operand(1).(*ConstInt)
    require.True(t, ok)
    assert.True(t, c.IsOne())
    assert.Equal(t, I32, c.Type())
    assert.Equal(t, Value(ins[0]), ins[1].Operand(0))
    g := m.Func("g")
    require.NotNil(t, g)
    require.Len(t, g.Blocks, 2)
    q := g.Blocks[0].First()
    c, ok = q.Operand(1).(*ConstInt)
    require.True(t, ok)
    assert.True(t, c.IsMinusOne())
    assert.Equal(t, uint64(0xffffffffffffffff), c.Uint64())
}

func TestParse_ForwardReference(t *testing.T) {
    src := `
; uses before definitions are fine at the syntax level
define i8 @h(i8 %x) {
  %a = add i8 %b, 255
  %b = mul i8 %x, 2
  ret i8 %a
}`
    fn, err := ParseFunc(src)
    require.NoError(t, err)
    require.NoError(t, Verify(fn))
    a := fn.Blocks[0].First()
    assert.Equal(t, "entry", fn.Blocks[0].Label)
    assert.Equal(t, Value(a.Next()), a.Operand(0))
    assert.Equal(t, "-1", a.Operand(1).String())
}

func TestParse_Errors(t *testing.T) {
    tests := []struct {
        name string
        src  string
        line int
    }{
        { name: "bad type"        , src: "define f32 @f() {\n  ret void\n}", line: 1 },
        { name: "unknown opcode"  , src: "define i32 @f(i32 %x) {\n  %r = fdiv i32 %x, 1\n  ret i32 %r\n}", line: 2 },
        { name: "undefined value" , src: "define i32 @f(i32 %x) {\n  %r = udiv i32 %y, 1\n  ret i32 %r\n}", line: 2 },
        { name: "redefinition"    , src: "define i32 @f(i32 %x) {\n  %x = udiv i32 %x, 1\n  ret i32 %x\n}", line: 2 },
        { name: "unterminated"    , src: "define i32 @f(i32 %x) {\n  %r = udiv i32 %x, 1\n", line: 3 },
        { name: "missing label"   , src: "define void @f() {\n  ret void\n  ret void\n}", line: 3 },
        { name: "bad character"   , src: "define void @f() {\n  ret void #\n}", line: 2 },
        { name: "dangling minus"  , src: "define i32 @f(i32 %x) {\n  %r = udiv i32 %x, -\n  ret i32 %r\n}", line: 2 },
        { name: "duplicated param", src: "define i32 @f(i32 %x, i32 %x) {\n  ret i32 %x\n}", line: 1 },
        { name: "literal overflow", src: "define i64 @f(i64 %x) {\n  %r = add i64 %x, 99999999999999999999\n  ret i64 %r\n}", line: 2 },
    }
    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            m, err := Parse(tt.src)
            if !assert.Error(t, err) {
                spew.Dump(m)
                return
            }
            var se SyntaxError
            require.True(t, errors.As(err, &se))
            assert.Equal(t, tt.line, se.Line)
        })
    }
}

func TestParseFunc_Count(t *testing.T) {
    _, err := ParseFunc(_TestModule)
    assert.Error(t, err)
    _, err = ParseFunc("")
    assert.Error(t, err)
}
