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

package peephole

import (
	"github.com/cloudwego/peephole/internal/opt"
	"github.com/cloudwego/peephole/internal/opts"
	"github.com/cloudwego/peephole/ir"
)

func pipelineOf(options []Option) (*opt.Pipeline, error) {
	o := opts.GetDefaultOptions()
	for _, fn := range options {
		fn(&o)
	}
	return opt.NewPipelineWithOptions(o)
}

// OptimizeFunction runs the optimization pipeline on f, and reports whether
// f was changed.
//
// It panics if the options name an unknown pass, or if verification is
// enabled and a pass leaves f malformed. Use OptimizeModule to get these as
// errors instead.
func OptimizeFunction(f *ir.Func, options ...Option) bool {
	p, err := pipelineOf(options)
	if err != nil {
		panic(err)
	}
	changed, err := p.RunFunc(f)
	if err != nil {
		panic(err)
	}
	return changed
}

// OptimizeModule runs the optimization pipeline on every function of m, in
// module order, and reports whether any function was changed.
func OptimizeModule(m *ir.Module, options ...Option) (bool, error) {
	p, err := pipelineOf(options)
	if err != nil {
		return false, err
	}
	return p.Run(m)
}

// OptimizeText parses src as textual IR, optimizes it, and returns the
// optimized module in textual form.
func OptimizeText(src string, options ...Option) (string, bool, error) {
	m, err := ir.Parse(src)
	if err != nil {
		return "", false, err
	}
	changed, err := OptimizeModule(m, options...)
	if err != nil {
		return "", changed, err
	}
	return m.String(), changed, nil
}
