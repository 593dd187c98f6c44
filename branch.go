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

import "strings"

func dependentBranchLabel(prefix string) string {
	return prefix + "_dbtarget"
}

func (t *Target) dependentBranch(prefix string) string {
	lines := make([]string, len(t.DependentBranch))
	for i, line := range t.DependentBranch {
		lines[i] = expand(line, "{label}", dependentBranchLabel(prefix))
	}
	return strings.Join(lines, "\n")
}

// dependentBranchTarget defines the branch label and leaves through the
// function's exit path if the branch is ever taken.
func (t *Target) dependentBranchTarget(prefix string) string {
	return dependentBranchLabel(prefix) + ":\n" + expand(t.Jump, "{label}", prefix+"_end")
}

// DependentBranch returns a branch on freshly loaded data that targets a label
// derived from prefix. Pair it with exactly one DependentBranchTarget.
func DependentBranch(isa ISA, prefix string) (string, error) {
	t, err := GetTarget(isa)
	if err != nil {
		return "", err
	}
	return t.dependentBranch(prefix), nil
}

// DependentBranchTarget returns the label definition matching DependentBranch.
func DependentBranchTarget(isa ISA, prefix string) (string, error) {
	t, err := GetTarget(isa)
	if err != nil {
		return "", err
	}
	return t.dependentBranchTarget(prefix), nil
}
