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
    `github.com/cloudwego/peephole/internal/opts`
    `github.com/cloudwego/peephole/ir`
    `github.com/oleiade/lane`
    `github.com/pkg/errors`
    `github.com/sirupsen/logrus`
)

// UnknownPassError occurs when a pipeline names a pass that is not registered.
type UnknownPassError struct {
    Name string
}

func (self UnknownPassError) Error() string {
    return "unknown pass: " + self.Name
}

// VerifyError occurs when a function fails verification after a pass.
type VerifyError struct {
    Func string
    Pass string
    Err  error
}

func (self VerifyError) Error() string {
    return "verification failed after pass " + self.Pass + " on @" + self.Func + ": " + self.Err.Error()
}

func (self VerifyError) Unwrap() error {
    return self.Err
}

// Pipeline runs a fixed sequence of passes over every function of a module.
type Pipeline struct {
    Passes []PassDescriptor
    Verify bool
    Trace  bool
}

// NewPipeline creates a pipeline with the named passes in the given order.
func NewPipeline(names ...string) (*Pipeline, error) {
    ret := new(Pipeline)
    for _, name := range names {
        if p, ok := LookupPass(name); !ok {
            return nil, UnknownPassError { Name: name }
        } else {
            ret.Passes = append(ret.Passes, p)
        }
    }
    return ret, nil
}

// NewStandardPipeline creates a pipeline with all the passes attached to the
// extension points.
func NewStandardPipeline() *Pipeline {
    if p, err := NewPipeline(StandardPasses()...); err != nil {
        panic(err)
    } else {
        return p
    }
}

// NewPipelineWithOptions creates the pipeline described by o.
func NewPipelineWithOptions(o opts.Options) (p *Pipeline, err error) {
    if o.UseStandardPipeline() {
        p = NewStandardPipeline()
    } else if p, err = NewPipeline(o.Passes...); err != nil {
        return nil, err
    }

    /* copy the flags */
    p.Trace = o.Trace
    p.Verify = o.Verify
    return
}

// RunFunc runs every pass on a single function.
func (self *Pipeline) RunFunc(fn *ir.Func) (changed bool, err error) {
    for _, p := range self.Passes {
        ok := p.Pass.Apply(fn)
        changed = changed || ok

        /* trace the pass if needed */
        if self.Trace {
            Logger.WithFields(logrus.Fields {
                "func"    : fn.Name,
                "pass"    : p.Name,
                "changed" : ok,
            }).Info("pass finished")
        }

        /* verify the function after each pass */
        if self.Verify {
            if err = ir.Verify(fn); err != nil {
                return changed, errors.WithStack(VerifyError { Func: fn.Name, Pass: p.Name, Err: err })
            }
        }
    }
    return
}

// Run runs the pipeline on every function of the module, in module order.
func (self *Pipeline) Run(m *ir.Module) (changed bool, err error) {
    q := lane.NewQueue()
    for _, fn := range m.Funcs { q.Enqueue(fn) }

    /* functions are independent of each other */
    for !q.Empty() {
        var ok bool
        fn := q.Dequeue().(*ir.Func)

        /* run all the passes */
        if ok, err = self.RunFunc(fn); err != nil {
            return changed, err
        }
        changed = changed || ok
    }
    return
}
