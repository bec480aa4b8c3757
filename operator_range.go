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

package rs

import (
	"fmt"
	"sync/atomic"

	"golang.org/x/exp/constraints"

	"github.com/samber/rs/internal/xdemand"
)

// Range returns a Publisher that emits the count consecutive integers
// starting at start: start, start+1, ..., start+count-1, then completes.
// count must be non-negative, and start+count-1 must not overflow N;
// both are validated eagerly, here at construction time (mirroring the
// Java original's constructor-time IllegalArgumentException), rather
// than deferred to Subscribe.
//
// count == 0 produces a Publisher that immediately completes once
// subscribed, without ever calling OnNext.
func Range[N constraints.Integer](start, count N) Publisher[N] {
	var zero N

	if count < zero {
		panic(fmt.Sprintf("rs: Range: count must be >= 0, got %v", count))
	}

	if count > zero {
		last := start + count - 1
		if last < start {
			panic(fmt.Sprintf("rs: Range: start=%v + count=%v overflows", start, count))
		}
	}

	return PublisherFunc[N](func(s Subscriber[N]) {
		if count == zero {
			EmitComplete[N](s)
			return
		}

		sub := &rangeSubscription[N]{
			destination: s,
			cur:         start,
			end:         start + count,
		}

		s.OnSubscribe(sub)
	})
}

type rangeSubscription[N constraints.Integer] struct {
	destination Subscriber[N]
	cur, end    N
	requested   int64
	cancelled   atomic.Bool
}

var _ Subscription = (*rangeSubscription[int64])(nil)

// Request implements the standard drain-loop idiom: the first Request
// call that finds the demand counter at zero owns the drain (fast or
// slow path); any Request that finds the counter already non-zero
// merely contributes its demand and returns, trusting the current
// owner to observe it.
func (r *rangeSubscription[N]) Request(n int64) {
	if !ValidateRequest(n, r.destination) {
		return
	}

	prev := xdemand.Add(&r.requested, n)
	if prev != 0 {
		return
	}

	if n == xdemand.Unbounded {
		r.fastPath()
		return
	}

	r.slowPath(n)
}

// Cancel implements Subscription.
func (r *rangeSubscription[N]) Cancel() {
	r.cancelled.Store(true)
}

func (r *rangeSubscription[N]) fastPath() {
	dst := r.destination

	for r.cur != r.end {
		if r.cancelled.Load() {
			return
		}

		v := r.cur
		r.cur++
		dst.OnNext(v)
	}

	if !r.cancelled.Load() {
		dst.OnComplete()
	}
}

func (r *rangeSubscription[N]) slowPath(n int64) {
	dst := r.destination
	idx := r.cur
	end := r.end
	e := int64(0)

	for {
		for idx != end && e != n {
			if r.cancelled.Load() {
				r.cur = idx
				return
			}

			dst.OnNext(idx)
			idx++
			e++
		}

		if r.cancelled.Load() {
			r.cur = idx
			return
		}

		if idx == end {
			r.cur = idx
			dst.OnComplete()
			return
		}

		r.cur = idx

		cur := xdemand.Load(&r.requested)
		if cur == e {
			remaining := xdemand.Sub(&r.requested, e)
			if xdemand.DemandOf(remaining) == 0 {
				return
			}

			n = xdemand.DemandOf(remaining)
			e = 0
		} else {
			n = cur
		}
	}
}
