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

	"github.com/samber/lo"
)

// GenerateCounts returns low, low+step, ... up to and including high when the
// step lands on it. Sweeping the count lets the harness find the point where
// timing jumps because the structure under test is full.
func GenerateCounts(low, high, step int) ([]int, error) {
	if step <= 0 {
		return nil, fmt.Errorf("%w: step %d must be positive", ErrInvalidCountRange, step)
	}
	if low < 1 {
		return nil, fmt.Errorf("%w: low %d must be at least 1", ErrInvalidCountRange, low)
	}
	if low > high {
		return nil, fmt.Errorf("%w: low %d is greater than high %d", ErrInvalidCountRange, low, high)
	}
	// low >= 1 and low <= high keep high-low and every element from overflowing
	n := (high-low)/step + 1
	return lo.Times(n, func(i int) int { return low + i*step }), nil
}

// checkCounts rejects count lists that would produce malformed or colliding
// functions.
func checkCounts(counts []int) error {
	if len(counts) == 0 {
		return fmt.Errorf("%w: empty count list", ErrInvalidCountRange)
	}
	if dups := lo.FindDuplicates(counts); len(dups) > 0 {
		return fmt.Errorf("%w: duplicate counts %v", ErrDuplicateLabel, dups)
	}
	for i, count := range counts {
		if count < 1 {
			return fmt.Errorf("%w: count %d must be positive", ErrInvalidCountRange, count)
		}
		if i > 0 && count <= counts[i-1] {
			return fmt.Errorf("%w: counts must be increasing, %d follows %d", ErrInvalidCountRange, count, counts[i-1])
		}
	}
	return nil
}
