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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStq128Test(t *testing.T) {
	test, err := NewStq128Test(2, 8, 2, false)
	require.NoError(t, err)
	assert.Equal(t, "stq128", test.Prefix())
	assert.Equal(t, "Store Queue with 128-bit stores", test.Description())
	assert.Equal(t, []int{2, 4, 6, 8}, test.Counts())
	assert.False(t, test.DivideTimeByCount())

	db, err := NewStq128Test(2, 8, 2, true)
	require.NoError(t, err)
	assert.Equal(t, "stq128db", db.Prefix())
	assert.Equal(t, "Store Queue with 128-bit stores, preceded by dependent branch", db.Description())
}

func TestStq128Test_SupportsISA(t *testing.T) {
	plain, err := NewStq128Test(1, 4, 1, false)
	require.NoError(t, err)
	db, err := NewStq128Test(1, 4, 1, true)
	require.NoError(t, err)

	assert.True(t, plain.SupportsISA(ISAAmd64))
	assert.True(t, plain.SupportsISA(ISAAarch64))
	assert.False(t, plain.SupportsISA(ISAMips64))
	assert.False(t, plain.SupportsISA(ISARiscv))

	assert.False(t, db.SupportsISA(ISAAmd64))
	assert.True(t, db.SupportsISA(ISAAarch64))
	assert.False(t, db.SupportsISA(ISAMips64))
	assert.False(t, db.SupportsISA(ISARiscv))

	var sb strings.Builder
	assert.ErrorIs(t, db.GenerateAsm(&sb, ISAAmd64), ErrUnsupportedISA)
	assert.ErrorIs(t, plain.GenerateAsm(&sb, ISARiscv), ErrUnsupportedISA)
	assert.Empty(t, sb.String())
}

func TestStq128Test_Amd64(t *testing.T) {
	test, err := NewStq128Test(5, 5, 1, false)
	require.NoError(t, err)
	var sb strings.Builder
	require.NoError(t, test.GenerateAsm(&sb, ISAAmd64))
	want := `
.global stq1285
stq1285:
  mov %rdx, %r8
  xor %rax, %rax
  movups (%rdx), %xmm1
stq1285_start:
  movaps %xmm1, (%r8)
  movaps %xmm1, (%r8)
  movaps %xmm1, (%r8)
  movaps %xmm1, (%r8)
  movaps %xmm1, (%r8)
  dec %rdi
  jnz stq1285_start
stq1285_end:
  ret
`
	assert.Equal(t, want, sb.String())
}

func TestStq128Test_Aarch64DependentBranch(t *testing.T) {
	test, err := NewStq128Test(1, 40, 3, true)
	require.NoError(t, err)
	var sb strings.Builder
	require.NoError(t, test.GenerateAsm(&sb, ISAAarch64))
	asm := sb.String()

	assert.Equal(t, len(test.Counts()), strings.Count(asm, "tbnz w11, #31, "))
	assert.Equal(t, len(test.Counts()), strings.Count(asm, "_dbtarget:\n"))
	assert.Equal(t, len(test.Counts()), strings.Count(asm, "  ldr q0, [x1]\n"))
	assert.NotContains(t, asm, "ldr w10, [x1, w10, uxtw #2]", "stores do not chase pointers")

	for _, count := range test.Counts() {
		body := functionBody(t, asm, fmt.Sprintf("stq128db%d", count))
		assert.Equal(t, count, executedSlots(t, aarch64Target, body, "str q0, [x2]"), "stq128db%d", count)
	}
}
