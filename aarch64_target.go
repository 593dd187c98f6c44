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

// AAPCS64. The templates only touch x12-x15 and v0, none of which the callee
// has to preserve.
var aarch64Target = &Target{
	ISA:     ISAAarch64,
	GOARCH:  "arm64",
	Comment: "//",

	IntArgRegisters: []string{"x0", "x1", "x2", "x3", "x4", "x5", "x6", "x7"},
	FPArgRegisters:  []string{"d0", "d1", "d2", "d3", "d4", "d5", "d6", "d7"},
	ParamHomes:      []string{"x0", "x1", "x2"},

	LoopCounter: "x9",
	ChaseIndex:  "x10",

	Directives: []string{".global {name}"},
	FrameAlloc: "  sub sp, sp, #{frame}",
	FrameFree:  "  add sp, sp, #{frame}",
	SaveReg:    "  str {reg}, [sp, #{offset}]",
	RestoreReg: "  ldr {reg}, [sp, #{offset}]",
	Move:       "  mov {dst}, {src}",
	LoadImm:    "  mov {dst}, #{imm}",
	Zero:       "  mov {reg}, xzr",
	LoopBack: []string{
		"  sub {reg}, {reg}, 1",
		"  cbnz {reg}, {label}",
	},
	Jump:   "  b {label}",
	Return: "  ret",

	PtrChase: []string{
		"  ldr w10, [x1, w10, uxtw #2]",
	},
	DependentBranch: []string{
		"  ldr w11, [x1, w10, uxtw #2]",
		"  tbnz w11, #31, {label}",
	},
}

func init() {
	RegisterTarget(aarch64Target)
}
