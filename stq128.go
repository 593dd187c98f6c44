// Copyright 2026 Microbenchmarks Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"strings"

	"github.com/samber/lo"
)

type stq128Templates struct {
	init   []string
	stores []string
}

var stq128Stores = map[ISA]stq128Templates{
	ISAAmd64: {
		init: []string{"  movups (%rdx), %xmm1"},
		stores: []string{
			"  movaps %xmm1, (%r8)",
			"  movaps %xmm1, (%r8)",
			"  movaps %xmm1, (%r8)",
			"  movaps %xmm1, (%r8)",
		},
	},
	ISAAarch64: {
		init: []string{"  ldr q0, [x1]"},
		stores: []string{
			"  str q0, [x2]",
			"  str q0, [x2]",
			"  str q0, [x2]",
			"  str q0, [x2]",
		},
	},
}

// Stq128Test probes store queue capacity with 128-bit vector stores.
type Stq128Test struct {
	uarchTest
	initialDependentBranch bool
}

func NewStq128Test(low, high, step int, initialDependentBranch bool) (*Stq128Test, error) {
	base, err := newUarchTest(
		"stq128"+lo.Ternary(initialDependentBranch, "db", ""),
		"Store Queue with 128-bit stores"+lo.Ternary(initialDependentBranch, dependentBranchDescription, ""),
		low, high, step)
	if err != nil {
		return nil, err
	}
	return &Stq128Test{uarchTest: base, initialDependentBranch: initialDependentBranch}, nil
}

func (t *Stq128Test) SupportsISA(isa ISA) bool {
	if t.initialDependentBranch {
		return isa == ISAAarch64
	}
	_, ok := stq128Stores[isa]
	return ok
}

func (t *Stq128Test) GenerateAsm(sb *strings.Builder, isa ISA) error {
	if !t.SupportsISA(isa) {
		return unsupported(t, isa)
	}
	templates := stq128Stores[isa]
	return t.emit(sb, isa, &StructureTest{
		FirstInstrs:     templates.stores,
		SteadyInstrs:    templates.stores,
		InitInstrs:      templates.init,
		DependentBranch: t.initialDependentBranch,
	})
}
