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
	"testing"

	"github.com/cloudwego/peephole/internal/opt"
	"github.com/cloudwego/peephole/ir"
	"github.com/stretchr/testify/require"
)

func TestGetStats(t *testing.T) {
	fn, err := ir.ParseFunc(`
define i32 @f(i32 %x) {
  %a = sdiv i32 %x, 1
  %b = mul i32 %a, %a
  ret i32 %b
}`)
	require.NoError(t, err)
	st := GetStats()
	require.True(t, opt.TrivialDiv{}.Apply(fn))
	nst := GetStats()
	require.Equal(t, st.Rewriter.Funcs+1, nst.Rewriter.Funcs)
	require.Equal(t, st.Rewriter.Divisions+1, nst.Rewriter.Divisions)
	require.Equal(t, st.Rewriter.Uses+2, nst.Rewriter.Uses)
}
