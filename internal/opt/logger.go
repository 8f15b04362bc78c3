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
    `github.com/sirupsen/logrus`
)

// Logger receives the trace of every pass. It starts at opts.LogLevel and
// writes to stderr.
var Logger = newLogger(opts.LogLevel)

func newLogger(lv logrus.Level) *logrus.Logger {
    ret := logrus.New()
    ret.SetLevel(lv)
    return ret
}
