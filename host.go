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

import "golang.org/x/sys/cpu"

// hostCanRun reports whether this machine can execute the functions test
// generates for isa, and names the missing feature when it cannot. Only
// meaningful when isa is the host ISA.
func hostCanRun(test UarchTest, isa ISA) (bool, string) {
	if _, ok := test.(*Stq128Test); !ok {
		return true, ""
	}
	switch isa {
	case ISAAmd64:
		// movaps/movups
		if !cpu.X86.HasSSE2 {
			return false, "SSE2"
		}
	case ISAAarch64:
		// q registers
		if !cpu.ARM64.HasASIMD {
			return false, "ASIMD"
		}
	}
	return true, ""
}
