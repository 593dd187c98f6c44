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

// SupportedTests keeps the tests that run on isa, preserving order.
func SupportedTests(tests []UarchTest, isa ISA) []UarchTest {
	return lo.Filter(tests, func(t UarchTest, _ int) bool {
		return t.SupportsISA(isa)
	})
}

// GenerateSuite appends a generated-file header and the functions of every
// test that supports isa, in the order given. Output of separate tests is
// checked for colliding labels; prefixes are the caller's to keep unique.
func GenerateSuite(sb *strings.Builder, tests []UarchTest, isa ISA) error {
	target, err := GetTarget(isa)
	if err != nil {
		return err
	}
	supported := SupportedTests(tests, isa)
	var builder strings.Builder
	writeHeader(&builder, target, supported)
	builder.WriteString("  .text\n")
	for _, test := range supported {
		builder.WriteString("\n")
		builder.WriteString(target.comment(fmt.Sprintf("%s: %s", test.Prefix(), test.Description())))
		builder.WriteRune('\n')
		if err := test.GenerateAsm(&builder, isa); err != nil {
			return err
		}
	}
	if dups := lo.FindDuplicates(labelsOf(builder.String())); len(dups) > 0 {
		return fmt.Errorf("%w: %v", ErrDuplicateLabel, dups)
	}
	sb.WriteString(builder.String())
	return nil
}

func writeHeader(builder *strings.Builder, target *Target, tests []UarchTest) {
	builder.WriteString(target.comment("Code generated by asmgen. DO NOT EDIT.\n"))
	builder.WriteString(target.comment(fmt.Sprintf("target: %v\n", target.ISA)))
	builder.WriteString(target.comment("tests:"))
	for _, test := range tests {
		builder.WriteString(" ")
		builder.WriteString(test.Prefix())
	}
	builder.WriteRune('\n')
}

// labelsOf returns the labels defined in generated assembly, in order.
func labelsOf(asm string) []string {
	var labels []string
	for _, line := range strings.Split(asm, "\n") {
		if line == "" || line[0] == ' ' || line[0] == '\t' || line[0] == '.' {
			continue
		}
		if strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}
		if strings.HasSuffix(line, ":") {
			labels = append(labels, strings.TrimSuffix(line, ":"))
		}
	}
	return labels
}

// WriteHarnessDeclarations appends a C header the timing harness includes:
// a prototype for every function generated for isa and, per test, its count
// table, description, call arguments and normalisation flag.
func WriteHarnessDeclarations(sb *strings.Builder, tests []UarchTest, isa ISA) {
	sb.WriteString("// Code generated by asmgen. DO NOT EDIT.\n")
	sb.WriteString(fmt.Sprintf("// target: %v\n\n", isa))
	sb.WriteString("#include <stdint.h>\n")
	for _, test := range SupportedTests(tests, isa) {
		prefix := test.Prefix()
		counts := test.Counts()
		sb.WriteString(fmt.Sprintf("\n// %s\n", test.Description()))
		for _, count := range counts {
			sb.WriteString(declaration(fmt.Sprintf("%s%d", prefix, count), test.FunctionDefinitionParameters()))
			sb.WriteRune('\n')
		}
		sb.WriteString(fmt.Sprintf("static const int %sCounts[] = {%s};\n", prefix,
			strings.Join(lo.Map(counts, func(c int, _ int) string { return fmt.Sprint(c) }), ", ")))
		sb.WriteString(fmt.Sprintf("#define %sCountsLength %d\n", prefix, len(counts)))
		sb.WriteString(fmt.Sprintf("#define %sDescription %q\n", prefix, test.Description()))
		sb.WriteString(fmt.Sprintf("#define %sCallArgs %s\n", prefix, test.FunctionCallParameters()))
		sb.WriteString(fmt.Sprintf("#define %sDivideTimeByCount %d\n", prefix, lo.Ternary(test.DivideTimeByCount(), 1, 0)))
	}
}
