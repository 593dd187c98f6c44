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
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/xyproto/env/v2"
)

var verbose bool

// logf prints progress to stderr when -v is set.
func logf(format string, args ...any) {
	if verbose {
		_, _ = fmt.Fprintf(os.Stderr, format, args...)
	}
}

type options struct {
	output string
	target string
	host   bool
	low    int
	high   int
	step   int
}

// run generates the assembly suite and its harness header for one ISA and
// returns the paths it wrote.
func run(opts options) ([]string, error) {
	isa, err := ParseISA(opts.target)
	if err != nil {
		return nil, err
	}
	if opts.host {
		host, ok := HostISA()
		if !ok {
			return nil, fmt.Errorf("host architecture is not supported")
		}
		isa = host
	}
	tests, err := DefaultTests(opts.low, opts.high, opts.step)
	if err != nil {
		return nil, err
	}
	if opts.host {
		tests = lo.Filter(tests, func(t UarchTest, _ int) bool {
			ok, feature := hostCanRun(t, isa)
			if !ok {
				logf("Skipping %s: host CPU lacks %s\n", t.Prefix(), feature)
			}
			return ok
		})
	}

	var asm strings.Builder
	if err := GenerateSuite(&asm, tests, isa); err != nil {
		return nil, err
	}
	var header strings.Builder
	WriteHarnessDeclarations(&header, tests, isa)

	paths := []string{
		filepath.Join(opts.output, isa.String()+"_uarchtests.s"),
		filepath.Join(opts.output, "uarchtests.h"),
	}
	for i, content := range []string{asm.String(), header.String()} {
		logf("Writing %v\n", paths[i])
		if err := writeFile(paths[i], content); err != nil {
			return nil, err
		}
	}
	return paths, nil
}

func writeFile(path, content string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err = f.WriteString(content); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// listTests prints every test with the ISAs it supports.
func listTests(low, high, step int) error {
	tests, err := DefaultTests(low, high, step)
	if err != nil {
		return err
	}
	for _, test := range tests {
		isas := lo.Filter(ListTargets(), func(isa ISA, _ int) bool { return test.SupportsISA(isa) })
		fmt.Printf("%-10s %-50s %v\n", test.Prefix(), test.Description(),
			strings.Join(lo.Map(isas, func(isa ISA, _ int) string { return isa.String() }), ","))
	}
	return nil
}

func defaultTarget() string {
	if isa, ok := HostISA(); ok {
		return isa.String()
	}
	return ISAAmd64.String()
}

var command = &cobra.Command{
	Use:  "asmgen [-t target] [-o output_directory]",
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		flags := cmd.PersistentFlags()
		var opts options
		opts.output, _ = flags.GetString("output")
		if opts.output == "" {
			var err error
			if opts.output, err = os.Getwd(); err != nil {
				_, _ = fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		}
		opts.target, _ = flags.GetString("target")
		opts.host, _ = flags.GetBool("host")
		opts.low, _ = flags.GetInt("low")
		opts.high, _ = flags.GetInt("high")
		opts.step, _ = flags.GetInt("step")

		if list, _ := flags.GetBool("list"); list {
			if err := listTests(opts.low, opts.high, opts.step); err != nil {
				_, _ = fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			return
		}
		if _, err := run(opts); err != nil {
			_, _ = fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func init() {
	command.PersistentFlags().StringP("output", "o", env.Str("ASMGEN_OUTPUT"), "output directory of generated files")
	command.PersistentFlags().StringP("target", "t", env.Str("ASMGEN_TARGET", defaultTarget()), "target architecture (amd64, aarch64, mips64, riscv)")
	command.PersistentFlags().Bool("host", false, "generate for the host architecture and skip tests the host CPU cannot run")
	command.PersistentFlags().Int("low", env.Int("ASMGEN_LOW", 1), "smallest count in the sweep")
	command.PersistentFlags().Int("high", env.Int("ASMGEN_HIGH", 64), "largest count in the sweep")
	command.PersistentFlags().Int("step", env.Int("ASMGEN_STEP", 1), "count sweep step")
	command.PersistentFlags().BoolP("list", "l", false, "list tests and the architectures they support")
	command.PersistentFlags().BoolVarP(&verbose, "verbose", "v", env.Bool("ASMGEN_VERBOSE"), "if set, increase verbosity level")
}

func main() {
	if err := command.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
