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

// ldqLoads are four independent loads per ISA, each into its own register.
var ldqLoads = map[ISA][]string{
	ISAAmd64: {
		"  mov (%r8), %r15",
		"  mov (%r8), %r14",
		"  mov (%r8), %r13",
		"  mov (%r8), %r12",
	},
	ISAAarch64: {
		"  ldr x15, [x2]",
		"  ldr x14, [x2]",
		"  ldr x13, [x2]",
		"  ldr x12, [x2]",
	},
	ISAMips64: {
		"  ld.d $r15, $r6, 0",
		"  ld.d $r16, $r6, 8",
		"  ld.d $r17, $r6, 16",
		"  ld.d $r18, $r6, 24",
	},
	ISARiscv: {
		"  ld x28, (x11)",
		"  ld x29, 8(x11)",
		"  ld x30, 16(x11)",
		"  ld x31, 24(x11)",
	},
}

// LdqTest probes load queue capacity: a pointer-chasing load that misses is
// followed by count independent loads, which overlap with the miss only while
// they all fit in the load queue.
type LdqTest struct {
	uarchTest
	initialDependentBranch bool
}

func NewLdqTest(low, high, step int, initialDependentBranch bool) (*LdqTest, error) {
	base, err := newUarchTest(
		"ldq"+lo.Ternary(initialDependentBranch, "db", ""),
		"Load Queue"+lo.Ternary(initialDependentBranch, dependentBranchDescription, ""),
		low, high, step)
	if err != nil {
		return nil, err
	}
	return &LdqTest{uarchTest: base, initialDependentBranch: initialDependentBranch}, nil
}

func (t *LdqTest) SupportsISA(isa ISA) bool {
	if t.initialDependentBranch {
		return isa == ISAAarch64 || isa == ISARiscv
	}
	_, ok := ldqLoads[isa]
	return ok
}

func (t *LdqTest) GenerateAsm(sb *strings.Builder, isa ISA) error {
	if !t.SupportsISA(isa) {
		return unsupported(t, isa)
	}
	return t.emit(sb, isa, &StructureTest{
		FirstInstrs:     ldqLoads[isa],
		SteadyInstrs:    ldqLoads[isa],
		PtrChasing:      true,
		DependentBranch: t.initialDependentBranch,
	})
}
