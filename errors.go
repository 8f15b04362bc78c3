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
    `github.com/cloudwego/peephole/internal/opt`
    `github.com/cloudwego/peephole/ir`
)

// SyntaxError occurs when failed to parse the textual IR.
type SyntaxError = ir.SyntaxError

// VerifyError occurs when a function is found malformed after running a pass.
type VerifyError = opt.VerifyError

// UnknownPassError occurs when the pass list names a pass that does not exist.
type UnknownPassError = opt.UnknownPassError
