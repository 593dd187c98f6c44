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

// RV64 LP64 convention: arguments in x10-x17 (a0-a7), x5-x7 and x28-x31 are
// temporaries.
var riscvTarget = &Target{
	ISA:     ISARiscv,
	GOARCH:  "riscv64",
	Comment: "#",

	IntArgRegisters: []string{"x10", "x11", "x12", "x13", "x14", "x15", "x16", "x17"},
	FPArgRegisters:  []string{"f10", "f11", "f12", "f13", "f14", "f15", "f16", "f17"},
	ParamHomes:      []string{"x10", "x11", "x12"},

	LoopCounter: "x6",
	ChaseIndex:  "x5",

	Directives: []string{".global {name}"},
	FrameAlloc: "  addi sp, sp, -{frame}",
	FrameFree:  "  addi sp, sp, {frame}",
	SaveReg:    "  sd {reg}, {offset}(sp)",
	RestoreReg: "  ld {reg}, {offset}(sp)",
	Move:       "  mv {dst}, {src}",
	LoadImm:    "  li {dst}, {imm}",
	Zero:       "  mv {reg}, x0",
	LoopBack: []string{
		"  addi {reg}, {reg}, -1",
		"  bnez {reg}, {label}",
	},
	Jump:   "  j {label}",
	Return: "  ret",

	PtrChase: []string{
		"  slli x7, x5, 2",
		"  add x7, x7, x11",
		"  lwu x5, (x7)",
	},
	DependentBranch: []string{
		"  slli x7, x5, 2",
		"  add x7, x7, x11",
		"  lw x7, (x7)",
		"  bltz x7, {label}",
	},
}

func init() {
	RegisterTarget(riscvTarget)
}
