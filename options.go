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
	"github.com/sirupsen/logrus"
)

// Option is the property setter function for opts.Options.
type Option func(*opts.Options)

// WithVerify makes the optimizer verify every function after each pass.
//
// Verification walks every use edge of the function, so it roughly doubles
// the cost of a pipeline run. It is meant for testing new passes.
//
// The default value of this option is "false".
func WithVerify(v bool) Option {
	return func(o *opts.Options) { o.Verify = v }
}

// WithTrace makes the optimizer log one line per pass and function at the
// info level.
//
// The default value of this option is "false".
func WithTrace(v bool) Option {
	return func(o *opts.Options) { o.Trace = v }
}

// WithPasses replaces the standard pipeline with the named passes, which run
// in the given order.
//
// Calling this option with no names results in an empty pipeline, which
// leaves every function unchanged.
func WithPasses(names ...string) Option {
	for _, name := range names {
		if name == "" {
			panic("peephole: empty pass name")
		}
	}
	return func(o *opts.Options) { o.Passes = append([]string{}, names...) }
}

// SetVerify sets the default verification flag for all optimizations from
// now on.
//
// This value can also be configured with the `PEEPHOLE_VERIFY` environment
// variable.
//
// Returns the old opts.Verify value.
func SetVerify(v bool) bool {
	v, opts.Verify = opts.Verify, v
	return v
}

// SetTrace sets the default tracing flag for all optimizations from now on.
//
// This value can also be configured with the `PEEPHOLE_TRACE` environment
// variable.
//
// Returns the old opts.Trace value.
func SetTrace(v bool) bool {
	v, opts.Trace = opts.Trace, v
	return v
}

// SetLogLevel sets the level of the optimizer's logger from now on.
//
// This value can also be configured with the `PEEPHOLE_LOG_LEVEL`
// environment variable.
//
// The default value of this option is "warning".
//
// Returns the old level.
func SetLogLevel(lv logrus.Level) logrus.Level {
	old := opt.Logger.GetLevel()
	opt.Logger.SetLevel(lv)
	return old
}
