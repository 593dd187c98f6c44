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

// System V AMD64, AT&T syntax. Of r12-r15, which the convention makes
// callee-saved, a function pushes the ones its templates clobber.
var amd64Target = &Target{
	ISA:     ISAAmd64,
	GOARCH:  "amd64",
	Comment: "#",

	IntArgRegisters: []string{"%rdi", "%rsi", "%rdx", "%rcx", "%r8", "%r9"},
	FPArgRegisters:  []string{"%xmm0", "%xmm1", "%xmm2", "%xmm3", "%xmm4", "%xmm5", "%xmm6", "%xmm7"},
	ParamHomes:      []string{"%rdi", "%rsi", "%r8"},
	CalleeSaved:     []string{"%r12", "%r13", "%r14", "%r15"},

	LoopCounter: "%r11",
	ChaseIndex:  "%rax",

	Directives: []string{".global {name}"},
	SaveReg:    "  push {reg}",
	RestoreReg: "  pop {reg}",
	Move:       "  mov {src}, {dst}",
	LoadImm:    "  mov ${imm}, {dst}",
	Zero:       "  xor {reg}, {reg}",
	LoopBack: []string{
		"  dec {reg}",
		"  jnz {label}",
	},
	Jump:   "  jmp {label}",
	Return: "  ret",

	PtrChase: []string{
		"  mov (%rsi,%rax,4), %eax",
	},
	DependentBranch: []string{
		"  mov (%rsi,%rax,4), %r10d",
		"  test %r10d, %r10d",
		"  js {label}",
	},
}

func init() {
	RegisterTarget(amd64Target)
}
