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
	"strings"

	"github.com/samber/lo"
)

// UarchTest is one benchmark family. The driver asks SupportsISA before
// calling GenerateAsm; the harness calls every generated function with
// FunctionCallParameters and divides the elapsed time by the count when
// DivideTimeByCount is set.
type UarchTest interface {
	Prefix() string
	Description() string
	Counts() []int
	FunctionDefinitionParameters() string
	FunctionCallParameters() string
	DivideTimeByCount() bool
	SupportsISA(isa ISA) bool
	// GenerateAsm appends one function per count to sb, named Prefix()+count.
	GenerateAsm(sb *strings.Builder, isa ISA) error
}

const (
	harnessDefinitionParameters = "uint64_t iterations, int *arr, float *floatArr"
	harnessCallParameters       = "structIterations, A, fpArr"
	dependentBranchDescription  = ", preceded by dependent branch"
)

// uarchTest carries the configuration every family shares.
type uarchTest struct {
	prefix            string
	description       string
	counts            []int
	definitionParams  string
	callParams        string
	divideTimeByCount bool
	parameters        []Parameter
}

func newUarchTest(prefix, description string, low, high, step int) (uarchTest, error) {
	counts, err := GenerateCounts(low, high, step)
	if err != nil {
		return uarchTest{}, fmt.Errorf("%s: %w", prefix, err)
	}
	parameters, err := ParseSignature(harnessDefinitionParameters)
	if err != nil {
		return uarchTest{}, fmt.Errorf("%s: %w", prefix, err)
	}
	return uarchTest{
		prefix:           prefix,
		description:      description,
		counts:           counts,
		definitionParams: harnessDefinitionParameters,
		callParams:       harnessCallParameters,
		parameters:       parameters,
	}, nil
}

func (t *uarchTest) Prefix() string                       { return t.prefix }
func (t *uarchTest) Description() string                  { return t.description }
func (t *uarchTest) Counts() []int                        { return append([]int(nil), t.counts...) }
func (t *uarchTest) FunctionDefinitionParameters() string { return t.definitionParams }
func (t *uarchTest) FunctionCallParameters() string       { return t.callParams }
func (t *uarchTest) DivideTimeByCount() bool              { return t.divideTimeByCount }

// emit fills in the shared fields of test and runs the structural emitter.
func (t *uarchTest) emit(sb *strings.Builder, isa ISA, test *StructureTest) error {
	target, err := GetTarget(isa)
	if err != nil {
		return err
	}
	test.Prefix = t.prefix
	test.Counts = t.counts
	test.Parameters = t.parameters
	logf("Generating %s (%d functions) for %v\n", t.prefix, len(t.counts), isa)
	return EmitStructureTestFuncs(sb, target, test)
}

func unsupported(t UarchTest, isa ISA) error {
	return fmt.Errorf("%w: %s does not run on %v", ErrUnsupportedISA, t.Prefix(), isa)
}

// DefaultTests returns every benchmark family over the same count sweep.
func DefaultTests(low, high, step int) ([]UarchTest, error) {
	var tests []UarchTest
	for _, dependentBranch := range []bool{false, true} {
		ldq, err := NewLdqTest(low, high, step, dependentBranch)
		if err != nil {
			return nil, err
		}
		stq, err := NewStq128Test(low, high, step, dependentBranch)
		if err != nil {
			return nil, err
		}
		tests = append(tests, ldq, stq)
	}
	if dups := lo.FindDuplicates(lo.Map(tests, func(t UarchTest, _ int) string { return t.Prefix() })); len(dups) > 0 {
		return nil, fmt.Errorf("%w: prefixes %v", ErrDuplicateLabel, dups)
	}
	return tests, nil
}
