// Copyright 2025 samber.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// https://github.com/samber/ro/blob/main/licenses/LICENSE.apache.md
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package xdemand implements the additive-saturating demand arithmetic
// shared by every backpressure-aware operator, plus the post-complete
// "high bit" encoding used by buffered operators (takeLast) to fold a
// completion flag into the same atomic word as the demand counter.
package xdemand

import (
	"math"
	"sync/atomic"
)

// Unbounded is the sentinel demand value meaning "effectively unbounded".
// It is the maximum representable non-negative int64, matching the
// Reactive Streams convention of treating math.MaxInt64 as "infinite".
const Unbounded = int64(math.MaxInt64)

// completedFlag is the bit just above the 63 usable demand bits. Since
// Unbounded already occupies all 63 low bits (MaxInt64 = 0x7FFF...FFFF),
// the sign bit of the underlying int64 is unused by any legitimate demand
// value and is repurposed here to mean "upstream has completed".
const completedFlag = int64(math.MinInt64) // 1 << 63

// AddCap returns min(current+n, Unbounded), saturating instead of
// overflowing. n is assumed positive (callers validate with
// ValidateRequest before calling this).
func AddCap(current, n int64) int64 {
	if current == Unbounded || n >= Unbounded-current {
		return Unbounded
	}

	return current + n
}

// Add atomically adds n to *counter with saturation at Unbounded and
// returns the previous value.
func Add(counter *int64, n int64) int64 {
	for {
		cur := atomic.LoadInt64(counter)
		next := AddCap(cur, n)

		if atomic.CompareAndSwapInt64(counter, cur, next) {
			return cur
		}
	}
}

// PostCompleteAdd atomically adds n to the demand bits of *counter,
// preserving the completed flag, and returns the resulting full word
// (flag included). Used by TakeLast's Request, whose drain loop checks
// IsCompleted on the counter before emitting anything.
func PostCompleteAdd(counter *int64, n int64) int64 {
	for {
		cur := atomic.LoadInt64(counter)
		flag := cur & completedFlag
		demand := cur &^ completedFlag

		next := AddCap(demand, n) | flag

		if atomic.CompareAndSwapInt64(counter, cur, next) {
			return next
		}
	}
}

// SetCompleted atomically ORs the completed flag into *counter and
// returns the resulting full word (flag included).
func SetCompleted(counter *int64) int64 {
	for {
		cur := atomic.LoadInt64(counter)
		next := cur | completedFlag

		if cur == next {
			return cur
		}

		if atomic.CompareAndSwapInt64(counter, cur, next) {
			return next
		}
	}
}

// IsCompleted reports whether the completed flag is set in a word
// previously returned by PostCompleteAdd/SetCompleted, or loaded directly
// from the counter.
func IsCompleted(word int64) bool {
	return word&completedFlag != 0
}

// DemandOf strips the completed flag from word, returning the plain
// demand value.
func DemandOf(word int64) int64 {
	return word &^ completedFlag
}

// Load atomically reads *counter.
func Load(counter *int64) int64 {
	return atomic.LoadInt64(counter)
}

// Sub atomically subtracts n from the demand bits of *counter (n must be
// <= the current demand bits; used by drain loops to account for what
// they just emitted) and returns the resulting full word.
func Sub(counter *int64, n int64) int64 {
	for {
		cur := atomic.LoadInt64(counter)
		flag := cur & completedFlag
		demand := cur &^ completedFlag

		if demand != Unbounded {
			demand -= n
		}

		next := demand | flag

		if atomic.CompareAndSwapInt64(counter, cur, next) {
			return next
		}
	}
}
