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
    `bytes`
    `errors`
    `sync/atomic`
    `testing`

    `github.com/cloudwego/peephole/internal/opts`
    `github.com/cloudwego/peephole/ir`
    `github.com/sirupsen/logrus`
    `github.com/stretchr/testify/assert`
    `github.com/stretchr/testify/require`
)

// _BreakUses corrupts the function by detaching the first instruction.
type _BreakUses struct{}

func (_BreakUses) Apply(fn *ir.Func) bool {
    fn.Blocks[0].First().RemoveFromParent()
    return true
}

var breakUsesCount int64

func init() {
    RegisterPass("test-break-uses", "Corrupt the use graph", func() Pass {
        atomic.AddInt64(&breakUsesCount, 1)
        return _BreakUses{}
    })
}

const _PipelineModule = `
define i32 @f(i32 %x, i32 %y) {
  %r = udiv i32 %x, 1
  %s = add i32 %r, %y
  ret i32 %s
}

define i32 @g(i32 %x) {
  %r = sdiv i32 %x, 2
  ret i32 %r
}
`

func TestRegistry_Standard(t *testing.T) {
    assert.Contains(t, StandardPasses(), "trivial-div")
    assert.Equal(t, "trivial-div", StandardPasses()[0])
    p, ok := LookupPass("trivial-div")
    require.True(t, ok)
    assert.IsType(t, new(TrivialDiv), p.Pass)
    assert.Equal(t, "Trivial Division Elimination", p.Desc)
    _, ok = LookupPass("no-such-pass")
    assert.False(t, ok)
    names := make([]string, 0)
    for _, v := range Passes() { names = append(names, v.Name) }
    assert.Equal(t, []string { "test-break-uses", "trivial-div" }, names)
}

func TestRegistry_ListingDoesNotInstantiate(t *testing.T) {
    n := atomic.LoadInt64(&breakUsesCount)
    for _, v := range Passes() {
        assert.Nil(t, v.Pass, v.Name)
        assert.NotEmpty(t, v.Desc, v.Name)
    }
    assert.Equal(t, n, atomic.LoadInt64(&breakUsesCount))
    _, ok := LookupPass("test-break-uses")
    require.True(t, ok)
    assert.Equal(t, n + 1, atomic.LoadInt64(&breakUsesCount))
}

func TestLogger_TraceAndLevel(t *testing.T) {
    assert.Equal(t, opts.LogLevel, newLogger(opts.LogLevel).GetLevel())
    buf := new(bytes.Buffer)
    lv := Logger.GetLevel()
    Logger.SetOutput(buf)
    Logger.SetLevel(logrus.InfoLevel)
    defer func() {
        Logger.SetOutput(logrus.StandardLogger().Out)
        Logger.SetLevel(lv)
    }()

    /* tracing goes through the package logger */
    m, err := ir.Parse(_PipelineModule)
    require.NoError(t, err)
    p := NewStandardPipeline()
    p.Trace = true
    _, err = p.Run(m)
    require.NoError(t, err)
    assert.Contains(t, buf.String(), "pass finished")
    assert.Contains(t, buf.String(), "pass=trivial-div")

    /* silenced above the info level */
    buf.Reset()
    Logger.SetLevel(logrus.WarnLevel)
    _, err = p.Run(m)
    require.NoError(t, err)
    assert.Empty(t, buf.String())
}

func TestRegistry_Panics(t *testing.T) {
    assert.Panics(t, func() { RegisterPass("trivial-div", "again", func() Pass { return new(TrivialDiv) }) })
    assert.Panics(t, func() { RegisterStandardPass(EPOptimizerLast, "no-such-pass") })
    assert.Panics(t, func() { RegisterStandardPass(_EPMax, "trivial-div") })
}

func TestPipeline_Run(t *testing.T) {
    m, err := ir.Parse(_PipelineModule)
    require.NoError(t, err)
    p := NewStandardPipeline()
    p.Verify = true
    p.Trace = true
    changed, err := p.Run(m)
    require.NoError(t, err)
    assert.True(t, changed)
    assert.Equal(t, 2, m.Func("f").NumInstrs())
    assert.Equal(t, 2, m.Func("g").NumInstrs())
    changed, err = p.Run(m)
    require.NoError(t, err)
    assert.False(t, changed)
}

func TestPipeline_UnknownPass(t *testing.T) {
    _, err := NewPipeline("trivial-div", "mul-by-one")
    require.Error(t, err)
    var e UnknownPassError
    require.True(t, errors.As(err, &e))
    assert.Equal(t, "mul-by-one", e.Name)
}

func TestPipeline_VerifyFailure(t *testing.T) {
    m, err := ir.Parse(_PipelineModule)
    require.NoError(t, err)
    p, err := NewPipelineWithOptions(opts.Options { Verify: true, Passes: []string { "test-break-uses" } })
    require.NoError(t, err)
    _, err = p.Run(m)
    require.Error(t, err)
    var e VerifyError
    require.True(t, errors.As(err, &e))
    assert.Equal(t, "f", e.Func)
    assert.Equal(t, "test-break-uses", e.Pass)
}

func TestPipeline_WithOptions(t *testing.T) {
    p, err := NewPipelineWithOptions(opts.Options { Trace: true })
    require.NoError(t, err)
    require.Len(t, p.Passes, len(StandardPasses()))
    assert.True(t, p.Trace)
    assert.False(t, p.Verify)
    p, err = NewPipelineWithOptions(opts.Options { Passes: []string {} })
    require.NoError(t, err)
    assert.Empty(t, p.Passes)
    _, err = NewPipelineWithOptions(opts.Options { Passes: []string { "nope" } })
    assert.Error(t, err)
}
