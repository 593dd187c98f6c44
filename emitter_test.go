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
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var entryLabel = regexp.MustCompile(`(?m)^([A-Za-z][A-Za-z0-9]*):$`)

func structureTest(counts []int, ptrChasing, dependentBranch bool) *StructureTest {
	return &StructureTest{
		Prefix:          "probe",
		Counts:          counts,
		Parameters:      harnessParameters,
		FirstInstrs:     []string{"  first0", "  first1", "  first2", "  first3"},
		SteadyInstrs:    []string{"  steady0", "  steady1", "  steady2", "  steady3"},
		PtrChasing:      ptrChasing,
		DependentBranch: dependentBranch,
	}
}

func emit(t *testing.T, target *Target, test *StructureTest) string {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, EmitStructureTestFuncs(&sb, target, test))
	return sb.String()
}

// functionBody returns the text of one generated function, from its entry
// label up to the next function.
func functionBody(t *testing.T, asm, name string) string {
	t.Helper()
	start := strings.Index(asm, "\n"+name+":\n")
	require.GreaterOrEqual(t, start, 0, "function %s not found", name)
	body := asm[start+1:]
	if next := strings.Index(body, "\n\n"); next >= 0 {
		body = body[:next]
	}
	return body
}

// executedSlots counts how many times lines with the given prefix execute in
// one harness iteration, multiplying the unrolled loop body by its trip count.
func executedSlots(t *testing.T, target *Target, body, slotPrefix string) int {
	t.Helper()
	pattern := regexp.QuoteMeta(expand(target.LoadImm, "{dst}", target.LoopCounter, "{imm}", "IMM"))
	setGroups := regexp.MustCompile("^" + strings.Replace(pattern, "IMM", `(\d+)`, 1) + "$")
	var (
		slots  int
		groups = 1
		inLoop bool
	)
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if m := setGroups.FindStringSubmatch(line); m != nil {
			n, err := strconv.Atoi(m[1])
			require.NoError(t, err)
			groups = n
			continue
		}
		switch {
		case strings.HasSuffix(trimmed, "_loop:"):
			inLoop = true
		case inLoop && strings.HasSuffix(trimmed, "_loop"):
			inLoop = false
		case strings.HasPrefix(trimmed, slotPrefix):
			if inLoop {
				slots += groups
			} else {
				slots++
			}
		}
	}
	return slots
}

func TestEmitStructureTestFuncs_Amd64Text(t *testing.T) {
	test := structureTest([]int{6}, true, false)
	test.InitInstrs = []string{"  init"}
	want := `
.global probe6
probe6:
  mov %rdx, %r8
  xor %rax, %rax
  init
probe6_start:
  mov (%rsi,%rax,4), %eax
  first0
  first1
  first2
  first3
  steady0
  steady1
  dec %rdi
  jnz probe6_start
probe6_end:
  ret
`
	assert.Equal(t, want, emit(t, amd64Target, test))
}

func TestEmitStructureTestFuncs_SavesClobberedOnly(t *testing.T) {
	test := structureTest([]int{2}, false, false)
	test.FirstInstrs = []string{"  mov (%r8), %r14d", "  mov (%r8), %r12"}
	want := `
.global probe2
probe2:
  push %r12
  push %r14
  mov %rdx, %r8
  xor %rax, %rax
probe2_start:
  mov (%r8), %r14d
  mov (%r8), %r12
  dec %rdi
  jnz probe2_start
probe2_end:
  pop %r14
  pop %r12
  ret
`
	assert.Equal(t, want, emit(t, amd64Target, test))
}

func TestEmitStructureTestFuncs_Aarch64Loop(t *testing.T) {
	test := structureTest([]int{13}, false, true)
	want := `
.global probe13
probe13:
  mov x10, xzr
probe13_start:
  first0
  first1
  first2
  first3
  ldr w11, [x1, w10, uxtw #2]
  tbnz w11, #31, probe13_dbtarget
  mov x9, #2
probe13_loop:
  steady0
  steady1
  steady2
  steady3
  sub x9, x9, 1
  cbnz x9, probe13_loop
  steady0
  sub x0, x0, 1
  cbnz x0, probe13_start
probe13_end:
  ret
probe13_dbtarget:
  b probe13_end
`
	assert.Equal(t, want, emit(t, aarch64Target, test))
}

func TestEmitStructureTestFuncs_ExactCounts(t *testing.T) {
	counts, err := GenerateCounts(1, 21, 1)
	require.NoError(t, err)
	for _, isa := range ListTargets() {
		target, err := GetTarget(isa)
		require.NoError(t, err)
		t.Run(isa.String(), func(t *testing.T) {
			asm := emit(t, target, structureTest(counts, true, false))
			for _, count := range counts {
				body := functionBody(t, asm, fmt.Sprintf("probe%d", count))
				first := executedSlots(t, target, body, "first")
				steady := executedSlots(t, target, body, "steady")
				assert.Equal(t, min(count, unrollFactor), first, "count %d", count)
				assert.Equal(t, count, first+steady, "count %d", count)
				for _, line := range target.PtrChase {
					assert.Equal(t, 1, strings.Count(body, line+"\n"), "count %d", count)
				}
			}
		})
	}
}

func TestEmitStructureTestFuncs_Labels(t *testing.T) {
	counts := []int{1, 2, 3, 4, 7, 16}
	for _, isa := range ListTargets() {
		target, err := GetTarget(isa)
		require.NoError(t, err)
		t.Run(isa.String(), func(t *testing.T) {
			asm := emit(t, target, structureTest(counts, true, true))
			var names []string
			for _, m := range entryLabel.FindAllStringSubmatch(asm, -1) {
				names = append(names, m[1])
			}
			assert.Equal(t, []string{"probe1", "probe2", "probe3", "probe4", "probe7", "probe16"}, names)
			labels := labelsOf(asm)
			assert.Len(t, labels, len(uniqueStrings(labels)))
		})
	}
}

func TestEmitStructureTestFuncs_Deterministic(t *testing.T) {
	for _, isa := range ListTargets() {
		target, err := GetTarget(isa)
		require.NoError(t, err)
		first := emit(t, target, structureTest([]int{1, 5, 9, 30}, true, true))
		second := emit(t, target, structureTest([]int{1, 5, 9, 30}, true, true))
		assert.Equal(t, first, second, isa.String())
	}
}

func TestEmitStructureTestFuncs_BranchCompleteness(t *testing.T) {
	counts := []int{1, 4, 5, 12}
	for _, isa := range ListTargets() {
		target, err := GetTarget(isa)
		require.NoError(t, err)
		t.Run(isa.String(), func(t *testing.T) {
			asm := emit(t, target, structureTest(counts, false, true))
			for _, count := range counts {
				label := fmt.Sprintf("probe%d_dbtarget", count)
				assert.Equal(t, 1, strings.Count(asm, ", "+label+"\n")+strings.Count(asm, " js "+label+"\n"))
				assert.Equal(t, 1, strings.Count(asm, "\n"+label+":\n"))
			}

			plain := emit(t, target, structureTest(counts, false, false))
			assert.NotContains(t, plain, "_dbtarget")
		})
	}
}

func TestEmitStructureTestFuncs_PostLoadInstrs(t *testing.T) {
	test := structureTest([]int{2}, false, false)
	test.PostLoadInstrs = []string{"  fence"}
	asm := emit(t, riscvTarget, test)
	assert.Contains(t, asm, "  first0\n  first1\n  fence\n  addi x10, x10, -1\n")
}

func TestEmitStructureTestFuncs_Errors(t *testing.T) {
	tests := []struct {
		name string
		test *StructureTest
		err  error
	}{
		{"duplicate counts", structureTest([]int{1, 2, 2}, false, false), ErrDuplicateLabel},
		{"unordered counts", structureTest([]int{4, 2}, false, false), ErrInvalidCountRange},
		{"no counts", structureTest(nil, false, false), ErrInvalidCountRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sb strings.Builder
			sb.WriteString("keep\n")
			err := EmitStructureTestFuncs(&sb, amd64Target, tt.test)
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, "keep\n", sb.String())
		})
	}

	empty := structureTest([]int{1}, false, false)
	empty.SteadyInstrs = nil
	var sb strings.Builder
	assert.Error(t, EmitStructureTestFuncs(&sb, amd64Target, empty))
	assert.Empty(t, sb.String())
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{})
	var unique []string
	for _, v := range values {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			unique = append(unique, v)
		}
	}
	return unique
}
