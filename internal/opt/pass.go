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
    `fmt`
    `sort`
    `sync`

    `github.com/cloudwego/peephole/ir`
)

// Pass transforms a single function, and reports whether it changed anything.
type Pass interface {
    Apply(*ir.Func) bool
}

type PassDescriptor struct {
    Pass Pass
    Name string
    Desc string
}

// ExtensionPoint is a position in the standard pipeline passes can be
// attached to.
type ExtensionPoint uint8

const (
    EPEarlyAsPossible ExtensionPoint = iota
    EPScalarOptimizerLate
    EPOptimizerLast
    _EPMax
)

func (self ExtensionPoint) String() string {
    switch self {
        case EPEarlyAsPossible     : return "EarlyAsPossible"
        case EPScalarOptimizerLate : return "ScalarOptimizerLate"
        case EPOptimizerLast       : return "OptimizerLast"
        default                    : return fmt.Sprintf("ExtensionPoint(%d)", uint8(self))
    }
}

type _PassEntry struct {
    desc string
    ctor func() Pass
}

var (
    passLock  sync.RWMutex
    passTab   = make(map[string]_PassEntry)
    passStd   [_EPMax][]string
)

// RegisterPass makes a pass available by name. It panics on duplicated names.
func RegisterPass(name string, desc string, ctor func() Pass) {
    passLock.Lock()
    defer passLock.Unlock()

    /* check for duplications */
    if _, ok := passTab[name]; ok {
        panic("opt: pass registered twice: " + name)
    }

    /* add to the pass table */
    passTab[name] = _PassEntry {
        desc: desc,
        ctor: ctor,
    }
}

// RegisterStandardPass attaches a registered pass to an extension point of
// the standard pipeline.
func RegisterStandardPass(ep ExtensionPoint, name string) {
    passLock.Lock()
    defer passLock.Unlock()

    /* check the extension point */
    if ep >= _EPMax {
        panic("opt: invalid extension point: " + ep.String())
    }

    /* the pass must be registered beforehand */
    if _, ok := passTab[name]; !ok {
        panic("opt: unknown pass: " + name)
    }

    /* add to the extension point */
    passStd[ep] = append(passStd[ep], name)
}

// LookupPass creates a new instance of the named pass.
func LookupPass(name string) (PassDescriptor, bool) {
    passLock.RLock()
    defer passLock.RUnlock()

    /* find the pass */
    if p, ok := passTab[name]; !ok {
        return PassDescriptor{}, false
    } else {
        return PassDescriptor { Pass: p.ctor(), Name: name, Desc: p.desc }, true
    }
}

// Passes lists all registered passes sorted by name. The passes are not
// instantiated, so Pass is always nil; use LookupPass to get an instance.
func Passes() []PassDescriptor {
    passLock.RLock()
    ret := make([]PassDescriptor, 0, len(passTab))

    /* dump all the passes */
    for name, p := range passTab {
        ret = append(ret, PassDescriptor { Name: name, Desc: p.desc })
    }

    /* sort by name */
    passLock.RUnlock()
    sort.Slice(ret, func(i int, j int) bool { return ret[i].Name < ret[j].Name })
    return ret
}

// StandardPasses lists the pass names of the standard pipeline in the order
// of the extension points.
func StandardPasses() []string {
    passLock.RLock()
    defer passLock.RUnlock()

    /* concat all the extension points */
    var ret []string
    for _, v := range passStd { ret = append(ret, v...) }
    return ret
}
