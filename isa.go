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
	"fmt"
	"runtime"
	"sort"
	"strings"
	"unicode"

	"github.com/samber/lo"
)

// ISA identifies an instruction set the generator can emit for.
type ISA int

const (
	ISAAmd64 ISA = iota
	ISAAarch64
	ISAMips64
	ISARiscv
)

var isaNames = map[ISA]string{
	ISAAmd64:   "amd64",
	ISAAarch64: "aarch64",
	ISAMips64:  "mips64",
	ISARiscv:   "riscv",
}

// isaAliases accepts Go GOARCH spellings on the command line.
var isaAliases = map[string]ISA{
	"x86_64":  ISAAmd64,
	"arm64":   ISAAarch64,
	"loong64": ISAMips64,
	"riscv64": ISARiscv,
}

func (isa ISA) String() string {
	if name, ok := isaNames[isa]; ok {
		return name
	}
	return fmt.Sprintf("ISA(%d)", int(isa))
}

// ParseISA returns the ISA for a canonical name or a GOARCH alias.
func ParseISA(name string) (ISA, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, isa := range AllISAs() {
		if isa.String() == name {
			return isa, nil
		}
	}
	if isa, ok := isaAliases[name]; ok {
		return isa, nil
	}
	return 0, fmt.Errorf("unsupported architecture: %s (available: amd64, aarch64, mips64, riscv)", name)
}

// AllISAs returns every ISA in declaration order.
func AllISAs() []ISA {
	return []ISA{ISAAmd64, ISAAarch64, ISAMips64, ISARiscv}
}

// HostISA returns the ISA of the machine running the generator.
func HostISA() (ISA, bool) {
	return hostISA(runtime.GOARCH)
}

// hostISA maps a GOARCH to the ISA whose assembly runs there. The mips64
// target emits LoongArch, so real MIPS hosts have no ISA.
func hostISA(goarch string) (ISA, bool) {
	switch goarch {
	case "amd64":
		return ISAAmd64, true
	case "arm64":
		return ISAAarch64, true
	case "loong64":
		return ISAMips64, true
	case "riscv64":
		return ISARiscv, true
	}
	return 0, false
}

// Target describes an architecture to the structural emitter: which registers
// play which role and how the assembler spells the handful of instructions the
// emitter writes itself. Templates use {name}, {reg}, {dst}, {src}, {imm},
// {label}, {offset} and {frame} placeholders.
type Target struct {
	ISA ISA
	// GOARCH is the Go name of the architecture.
	GOARCH string
	// Comment starts a line comment in the target assembler.
	Comment string

	// IntArgRegisters and FPArgRegisters are the argument registers of the
	// native calling convention, in order.
	IntArgRegisters []string
	FPArgRegisters  []string
	// ParamHomes are the registers the instruction templates expect the
	// harness parameters in, by parameter position. The first parameter is the
	// iteration count and is decremented in place.
	ParamHomes []string
	// CalleeSaved are the registers the calling convention requires to
	// survive the call. A function saves only those its templates touch.
	CalleeSaved []string

	// LoopCounter counts unrolled groups; ChaseIndex carries the pointer
	// chasing index between loads.
	LoopCounter string
	ChaseIndex  string

	Directives []string
	FrameAlloc string
	FrameFree  string
	SaveReg    string
	RestoreReg string
	Move       string
	LoadImm    string
	Zero       string
	LoopBack   []string
	Jump       string
	Return     string

	// PtrChase loads the next index into ChaseIndex from the array in the
	// second parameter's home.
	PtrChase []string
	// DependentBranch tests a value loaded through ChaseIndex and branches to
	// {label} when it is negative, which a well-formed chase array never is.
	DependentBranch []string
}

// targets holds the registered architecture descriptors
var targets = map[ISA]*Target{}

// RegisterTarget registers an architecture descriptor
func RegisterTarget(t *Target) {
	targets[t.ISA] = t
}

// GetTarget returns the descriptor for the given ISA
func GetTarget(isa ISA) (*Target, error) {
	if t, ok := targets[isa]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("%w: no emitter registered for %v", ErrUnsupportedISA, isa)
}

// ListTargets returns the registered ISAs in declaration order.
func ListTargets() []ISA {
	isas := make([]ISA, 0, len(targets))
	for isa := range targets {
		isas = append(isas, isa)
	}
	sort.Slice(isas, func(i, j int) bool { return isas[i] < isas[j] })
	return isas
}

func expand(template string, pairs ...string) string {
	return strings.NewReplacer(pairs...).Replace(template)
}

func (t *Target) comment(text string) string {
	return t.Comment + " " + text
}

// usedCalleeSaved returns the callee-saved registers, in declaration order,
// that appear as operands in lines. Sized variants such as %r12d count as a
// use of %r12.
func (t *Target) usedCalleeSaved(lines []string) []string {
	used := make(map[string]struct{})
	for _, line := range lines {
		for _, operand := range strings.FieldsFunc(line, isOperandSeparator) {
			for _, reg := range t.CalleeSaved {
				if operand == reg || strings.HasPrefix(operand, reg) && strings.Trim(operand[len(reg):], "dwb") == "" {
					used[reg] = struct{}{}
				}
			}
		}
	}
	return lo.Filter(t.CalleeSaved, func(reg string, _ int) bool {
		_, ok := used[reg]
		return ok
	})
}

func isOperandSeparator(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '%' && r != '$' && r != '_' && r != '.'
}

// frameSize rounds the save area for n registers up to the 16-byte stack
// alignment all four calling conventions share.
func frameSize(n int) int {
	size := 8 * n
	if size%16 != 0 {
		size += 16 - size%16
	}
	return size
}

func (t *Target) saveRegisters(regs []string) []string {
	if len(regs) == 0 {
		return nil
	}
	var lines []string
	if t.FrameAlloc != "" {
		lines = append(lines, expand(t.FrameAlloc, "{frame}", fmt.Sprint(frameSize(len(regs)))))
	}
	for i, reg := range regs {
		lines = append(lines, expand(t.SaveReg, "{reg}", reg, "{offset}", fmt.Sprint(8*i)))
	}
	return lines
}

func (t *Target) restoreRegisters(regs []string) []string {
	if len(regs) == 0 {
		return nil
	}
	var lines []string
	for i := len(regs) - 1; i >= 0; i-- {
		lines = append(lines, expand(t.RestoreReg, "{reg}", regs[i], "{offset}", fmt.Sprint(8*i)))
	}
	if t.FrameFree != "" {
		lines = append(lines, expand(t.FrameFree, "{frame}", fmt.Sprint(frameSize(len(regs)))))
	}
	return lines
}

func (t *Target) loopBack(reg, label string) []string {
	lines := make([]string, len(t.LoopBack))
	for i, line := range t.LoopBack {
		lines[i] = expand(line, "{reg}", reg, "{label}", label)
	}
	return lines
}
