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

// Package rstest holds small, reusable test doubles shared by every
// package-under-test _test.go file in this module: a recording
// Subscriber that captures the signals it receives in order, and a
// manual-demand driver for exercising a Subscription from a test
// goroutine.
package rstest

import (
	"sync"

	"github.com/samber/rs"
)

// Recorder is a rs.Subscriber[T] that records every signal it receives,
// in the order received, along with the Subscription handed to it by
// OnSubscribe. It is safe for a producer to call its Subscriber methods
// concurrently with a test goroutine inspecting its accessors or
// driving demand through Request/Cancel.
type Recorder[T any] struct {
	mu sync.Mutex

	sub            rs.Subscription
	subscribeCount int
	values         []T
	errs           []error
	completed      bool
}

var _ rs.Subscriber[int] = (*Recorder[int])(nil)

// NewRecorder creates an empty Recorder.
func NewRecorder[T any]() *Recorder[T] {
	return &Recorder[T]{}
}

// OnSubscribe records the Subscription and remembers how many times
// OnSubscribe has fired (a protocol violation this double does not
// itself guard against, so tests can observe it).
func (r *Recorder[T]) OnSubscribe(s rs.Subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sub = s
	r.subscribeCount++
}

// OnNext appends v to the recorded values.
func (r *Recorder[T]) OnNext(v T) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.values = append(r.values, v)
}

// OnError appends err to the recorded errors.
func (r *Recorder[T]) OnError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.errs = append(r.errs, err)
}

// OnComplete marks the recorder as completed.
func (r *Recorder[T]) OnComplete() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.completed = true
}

// Values returns a snapshot of the values recorded so far.
func (r *Recorder[T]) Values() []T {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]T, len(r.values))
	copy(out, r.values)
	return out
}

// Errors returns a snapshot of the errors recorded so far.
func (r *Recorder[T]) Errors() []error {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]error, len(r.errs))
	copy(out, r.errs)
	return out
}

// Completed reports whether OnComplete has fired.
func (r *Recorder[T]) Completed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.completed
}

// SubscribeCount reports how many times OnSubscribe has fired.
func (r *Recorder[T]) SubscribeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.subscribeCount
}

// Subscription returns the Subscription captured by OnSubscribe, or nil if
// OnSubscribe has not fired yet. Unlike Request/Cancel, it hands back the
// raw value so a test can type-assert for an optional capability beyond
// plain Subscription, such as QueueSubscription's fusion bridge.
func (r *Recorder[T]) Subscription() rs.Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.sub
}

// Request calls Request(n) on the Subscription captured by OnSubscribe.
// It panics if OnSubscribe has not fired yet, since that would mean the
// test is driving demand before the producer handed over a
// Subscription, a bug in the test itself rather than in the code under
// test.
func (r *Recorder[T]) Request(n int64) {
	r.mu.Lock()
	sub := r.sub
	r.mu.Unlock()

	if sub == nil {
		panic("rstest: Request called before OnSubscribe")
	}

	sub.Request(n)
}

// Cancel calls Cancel on the Subscription captured by OnSubscribe. Like
// Request, it panics if OnSubscribe has not fired yet.
func (r *Recorder[T]) Cancel() {
	r.mu.Lock()
	sub := r.sub
	r.mu.Unlock()

	if sub == nil {
		panic("rstest: Cancel called before OnSubscribe")
	}

	sub.Cancel()
}
