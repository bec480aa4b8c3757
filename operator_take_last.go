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

	"github.com/samber/rs/internal/xdemand"
)

// TakeLast returns an operator that replays only the last n values the
// source Publisher emitted before completing, followed by onComplete.
// The source is always subscribed with unbounded demand (TakeLast must
// see every value to know which ones are "last"); downstream demand only
// governs how fast the captured tail is replayed.
func TakeLast[T any](n int) func(Publisher[T]) Publisher[T] {
	if n < 0 {
		panic(fmt.Sprintf("rs: TakeLast: n must be >= 0, got %d", n))
	}

	return func(source Publisher[T]) Publisher[T] {
		return PublisherFunc[T](func(s Subscriber[T]) {
			switch n {
			case 0:
				sub := &takeLastZeroSubscription[T]{destination: s}
				s.OnSubscribe(sub)
				source.Subscribe(sub)
			case 1:
				sub := &takeLastOneSubscription[T]{
					destination: s,
					scalar:      NewDeferredScalarSubscription[T](s),
				}
				s.OnSubscribe(sub)
				source.Subscribe(sub)
			default:
				sub := &takeLastManySubscription[T]{
					destination: s,
					n:           n,
					buf:         make([]T, n),
				}
				s.OnSubscribe(sub)
				source.Subscribe(sub)
			}
		})
	}
}

/*****************
 * n == 0: drain *
 *****************/

// takeLastZeroSubscription discards every value and forwards only the
// terminal signal.
type takeLastZeroSubscription[T any] struct {
	destination Subscriber[T]
	upstream    DeferredSubscription
}

var (
	_ Subscriber[int]   = (*takeLastZeroSubscription[int])(nil)
	_ Subscription      = (*takeLastZeroSubscription[int])(nil)
)

func (z *takeLastZeroSubscription[T]) OnSubscribe(s Subscription) {
	if z.upstream.Set(s) {
		s.Request(xdemand.Unbounded)
	}
}

func (z *takeLastZeroSubscription[T]) OnNext(T)          {}
func (z *takeLastZeroSubscription[T]) OnError(err error) { z.destination.OnError(err) }
func (z *takeLastZeroSubscription[T]) OnComplete()       { z.destination.OnComplete() }

func (z *takeLastZeroSubscription[T]) Request(n int64) {
	if !ValidateRequest(n, z.destination) {
		return
	}

	z.upstream.Request(n)
}

func (z *takeLastZeroSubscription[T]) Cancel() { z.upstream.Cancel() }

/*********************************
 * n == 1: deferred-scalar reuse *
 *********************************/

// takeLastOneSubscription tracks only the most recently seen value via
// DeferredScalarSubscription.Update, and finalizes it for delivery on
// upstream completion. An upstream error bypasses the scalar state
// entirely and is forwarded verbatim, without any state gating.
type takeLastOneSubscription[T any] struct {
	destination Subscriber[T]
	upstream    DeferredSubscription
	scalar      *DeferredScalarSubscription[T]

	// hasValue is set by OnNext and read by OnComplete, both of which
	// the Reactive Streams contract guarantees are never called
	// concurrently, so no synchronization is needed.
	hasValue bool
}

var (
	_ Subscriber[int] = (*takeLastOneSubscription[int])(nil)
	_ Subscription    = (*takeLastOneSubscription[int])(nil)
)

func (o *takeLastOneSubscription[T]) OnSubscribe(s Subscription) {
	if o.upstream.Set(s) {
		s.Request(xdemand.Unbounded)
	}
}

func (o *takeLastOneSubscription[T]) OnNext(v T) {
	o.hasValue = true
	o.scalar.Update(v)
}

func (o *takeLastOneSubscription[T]) OnError(err error) { o.destination.OnError(err) }

// OnComplete finalizes the scalar for delivery, unless upstream never
// produced a value at all, in which case there is nothing to emit and
// completion is forwarded directly: an empty source has no "last value".
func (o *takeLastOneSubscription[T]) OnComplete() {
	if !o.hasValue {
		o.scalar.Cancel()
		o.destination.OnComplete()
		return
	}

	o.scalar.SetComplete()
}

func (o *takeLastOneSubscription[T]) Request(n int64) {
	if !ValidateRequest(n, o.destination) {
		return
	}

	o.scalar.Request(n)
}

func (o *takeLastOneSubscription[T]) Cancel() {
	o.scalar.Cancel()
	o.upstream.Cancel()
}

/*******************************
 * n >= 2: ring buffer + drain *
 *******************************/

// takeLastManySubscription captures the last n values in a fixed-size
// ring buffer while upstream is active, then switches to post-complete
// mode: downstream demand drains the buffer from the oldest captured
// value onward, following the post-complete drain protocol shared with
// other bounded-replay subscriptions.
type takeLastManySubscription[T any] struct {
	destination Subscriber[T]
	upstream    DeferredSubscription

	n          int
	buf        []T
	head, size int

	requested int64 // xdemand post-complete-encoded counter
	wip       int32
	cancelled atomic.Bool
}

var (
	_ Subscriber[int] = (*takeLastManySubscription[int])(nil)
	_ Subscription    = (*takeLastManySubscription[int])(nil)
)

func (t *takeLastManySubscription[T]) OnSubscribe(s Subscription) {
	if t.upstream.Set(s) {
		s.Request(xdemand.Unbounded)
	}
}

func (t *takeLastManySubscription[T]) OnNext(v T) {
	if t.size < t.n {
		t.buf[(t.head+t.size)%t.n] = v
		t.size++
		return
	}

	t.buf[t.head] = v
	t.head = (t.head + 1) % t.n
}

func (t *takeLastManySubscription[T]) OnError(err error) {
	t.buf = nil
	t.destination.OnError(err)
}

func (t *takeLastManySubscription[T]) OnComplete() {
	xdemand.SetCompleted(&t.requested)
	t.drain()
}

// Request always records the additional demand, then triggers a drain;
// the drain itself only emits once upstream has completed.
func (t *takeLastManySubscription[T]) Request(n int64) {
	if !ValidateRequest(n, t.destination) {
		return
	}

	xdemand.PostCompleteAdd(&t.requested, n)
	t.drain()
}

func (t *takeLastManySubscription[T]) Cancel() {
	t.cancelled.Store(true)
	t.upstream.Cancel()
}

func (t *takeLastManySubscription[T]) popFront() T {
	v := t.buf[t.head]

	var zero T
	t.buf[t.head] = zero
	t.head = (t.head + 1) % t.n
	t.size--

	return v
}

// drain serializes concurrent Request/OnComplete-triggered drains via the
// standard work-in-progress counter discipline: only the goroutine whose
// AddInt32 observes 1 becomes the drainer; everyone else's contribution
// is picked up by that drainer's next loop iteration.
func (t *takeLastManySubscription[T]) drain() {
	if atomic.AddInt32(&t.wip, 1) != 1 {
		return
	}

	missed := int32(1)

	for {
		word := xdemand.Load(&t.requested)

		if xdemand.IsCompleted(word) {
			demand := xdemand.DemandOf(word)
			emitted := int64(0)

			for emitted != demand && t.size > 0 {
				if t.cancelled.Load() {
					return
				}

				t.destination.OnNext(t.popFront())
				emitted++
			}

			if t.cancelled.Load() {
				return
			}

			if t.size == 0 {
				t.destination.OnComplete()
				return
			}

			if emitted > 0 {
				xdemand.Sub(&t.requested, emitted)
			}
		}

		missed = atomic.AddInt32(&t.wip, -missed)
		if missed == 0 {
			return
		}
	}
}
