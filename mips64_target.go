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

// The mips64 target emits LoongArch64 assembly. LP64D convention: arguments
// in $r4-$r11, temporaries $r12-$r20.
var mips64Target = &Target{
	ISA:     ISAMips64,
	GOARCH:  "loong64",
	Comment: "#",

	IntArgRegisters: []string{"$r4", "$r5", "$r6", "$r7", "$r8", "$r9", "$r10", "$r11"},
	FPArgRegisters:  []string{"$f0", "$f1", "$f2", "$f3", "$f4", "$f5", "$f6", "$f7"},
	ParamHomes:      []string{"$r4", "$r5", "$r6"},

	LoopCounter: "$r12",
	ChaseIndex:  "$r13",

	Directives: []string{".global {name}"},
	FrameAlloc: "  addi.d $r3, $r3, -{frame}",
	FrameFree:  "  addi.d $r3, $r3, {frame}",
	SaveReg:    "  st.d {reg}, $r3, {offset}",
	RestoreReg: "  ld.d {reg}, $r3, {offset}",
	Move:       "  or {dst}, {src}, $r0",
	LoadImm:    "  li.d {dst}, {imm}",
	Zero:       "  or {reg}, $r0, $r0",
	LoopBack: []string{
		"  addi.d {reg}, {reg}, -1",
		"  bnez {reg}, {label}",
	},
	Jump:   "  b {label}",
	Return: "  jr $r1",

	PtrChase: []string{
		"  alsl.d $r14, $r13, $r5, 2",
		"  ld.wu $r13, $r14, 0",
	},
	DependentBranch: []string{
		"  alsl.d $r14, $r13, $r5, 2",
		"  ld.w $r14, $r14, 0",
		"  blt $r14, $r0, {label}",
	},
}

func init() {
	RegisterTarget(mips64Target)
}
