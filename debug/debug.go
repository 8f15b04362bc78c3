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

package debug

import (
	"sync/atomic"

	"github.com/cloudwego/peephole/internal/opt"
)

// A Stats records statistics about the trivial division rewriter.
type Stats struct {
	Rewriter RewriterStats
}

// A RewriterStats records how much work the rewriter has done since the
// process started.
type RewriterStats struct {
	Funcs     int
	Divisions int
	Uses      int
}

// GetStats returns statistics of the optimizer.
func GetStats() Stats {
	return Stats{
		Rewriter: RewriterStats{
			Funcs:     int(atomic.LoadUint64(&opt.FuncCount)),
			Divisions: int(atomic.LoadUint64(&opt.DivCount)),
			Uses:      int(atomic.LoadUint64(&opt.UseCount)),
		},
	}
}
