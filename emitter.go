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
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

var (
	ErrUnsupportedISA    = errors.New("unsupported ISA")
	ErrInvalidCountRange = errors.New("invalid count range")
	ErrDuplicateLabel    = errors.New("duplicate label")
	ErrUnmatchedBranch   = errors.New("unmatched dependent branch")
)

// unrollFactor is the number of template copies in one unrolled group.
const unrollFactor = 4

// StructureTest is one benchmark family lowered to raw instruction templates
// for a single architecture.
type StructureTest struct {
	Prefix     string
	Counts     []int
	Parameters []Parameter

	// FirstInstrs fill the first unrolled group, SteadyInstrs every group after
	// it. Blocks shorter than unrollFactor are cycled.
	FirstInstrs  []string
	SteadyInstrs []string
	// InitInstrs run once per call, before the timed loop.
	InitInstrs []string
	// PostLoadInstrs follow the first group.
	PostLoadInstrs []string
	// PtrChasing puts a load ahead of the first group whose address is the
	// value the previous iteration's chase load returned.
	PtrChasing bool
	// DependentBranch places a branch on loaded data right after the first group.
	DependentBranch bool
}

// templateLines returns the lines test places in a function body on target.
func (test *StructureTest) templateLines(target *Target) []string {
	lines := lo.Flatten([][]string{test.FirstInstrs, test.SteadyInstrs, test.InitInstrs, test.PostLoadInstrs})
	if test.PtrChasing {
		lines = append(lines, target.PtrChase...)
	}
	if test.DependentBranch {
		lines = append(lines, target.DependentBranch...)
	}
	return lines
}

type structureEmitter struct {
	target    *Target
	test      *StructureTest
	builder   strings.Builder
	labels    map[string]struct{}
	moves     []string
	iteration string
	saved     []string

	branches      int
	branchTargets int
}

// EmitStructureTestFuncs appends one function per count to sb. Each function
// runs exactly count template slots per iteration of the harness loop: the
// first group inline, then whole groups of four in an unrolled loop, then the
// remainder inline. Nothing is appended when an error is returned.
func EmitStructureTestFuncs(sb *strings.Builder, target *Target, test *StructureTest) error {
	if err := checkCounts(test.Counts); err != nil {
		return fmt.Errorf("%s: %w", test.Prefix, err)
	}
	if len(test.FirstInstrs) == 0 || len(test.SteadyInstrs) == 0 {
		return fmt.Errorf("%s: empty instruction template", test.Prefix)
	}
	moves, iteration, err := target.bindParameters(test.Parameters)
	if err != nil {
		return fmt.Errorf("%s: %w", test.Prefix, err)
	}
	e := &structureEmitter{
		target:    target,
		test:      test,
		labels:    make(map[string]struct{}),
		moves:     moves,
		iteration: iteration,
		saved:     target.usedCalleeSaved(append(test.templateLines(target), moves...)),
	}
	for _, count := range test.Counts {
		if err := e.emitFunction(count); err != nil {
			return fmt.Errorf("%s: %w", test.Prefix, err)
		}
	}
	if e.branches != e.branchTargets {
		return fmt.Errorf("%s: %w: %d branches, %d targets", test.Prefix, ErrUnmatchedBranch, e.branches, e.branchTargets)
	}
	sb.WriteString(e.builder.String())
	return nil
}

func (e *structureEmitter) line(s string) {
	e.builder.WriteString(s)
	e.builder.WriteRune('\n')
}

func (e *structureEmitter) lines(lines []string) {
	for _, s := range lines {
		e.line(s)
	}
}

func (e *structureEmitter) define(label string) error {
	if _, ok := e.labels[label]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateLabel, label)
	}
	e.labels[label] = struct{}{}
	return nil
}

func (e *structureEmitter) label(label string) error {
	if err := e.define(label); err != nil {
		return err
	}
	e.line(label + ":")
	return nil
}

func (e *structureEmitter) slot(block []string, i int) {
	e.line(block[i%len(block)])
}

func (e *structureEmitter) emitFunction(count int) error {
	t := e.target
	name := e.test.Prefix + strconv.Itoa(count)
	start, loop, end := name+"_start", name+"_loop", name+"_end"

	e.builder.WriteRune('\n')
	for _, directive := range t.Directives {
		e.line(expand(directive, "{name}", name))
	}
	if err := e.label(name); err != nil {
		return err
	}
	e.lines(t.saveRegisters(e.saved))
	e.lines(e.moves)
	e.line(expand(t.Zero, "{reg}", t.ChaseIndex))
	e.lines(e.test.InitInstrs)

	if err := e.label(start); err != nil {
		return err
	}
	if e.test.PtrChasing {
		e.lines(t.PtrChase)
	}
	first := min(unrollFactor, count)
	for i := 0; i < first; i++ {
		e.slot(e.test.FirstInstrs, i)
	}
	e.lines(e.test.PostLoadInstrs)
	if e.test.DependentBranch {
		e.line(t.dependentBranch(name))
		e.branches++
	}

	rest := count - first
	if groups := rest / unrollFactor; groups > 0 {
		e.line(expand(t.LoadImm, "{dst}", t.LoopCounter, "{imm}", strconv.Itoa(groups)))
		if err := e.label(loop); err != nil {
			return err
		}
		for i := 0; i < unrollFactor; i++ {
			e.slot(e.test.SteadyInstrs, i)
		}
		e.lines(t.loopBack(t.LoopCounter, loop))
	}
	for i := 0; i < rest%unrollFactor; i++ {
		e.slot(e.test.SteadyInstrs, i)
	}
	e.lines(t.loopBack(e.iteration, start))

	if err := e.label(end); err != nil {
		return err
	}
	e.lines(t.restoreRegisters(e.saved))
	e.line(t.Return)

	if e.test.DependentBranch {
		if err := e.define(dependentBranchLabel(name)); err != nil {
			return err
		}
		e.line(t.dependentBranchTarget(name))
		e.branchTargets++
	}
	return nil
}
