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

import "sync/atomic"

// scalarState is the four-state machine driving DeferredScalarSubscription.
type scalarState int32

const (
	scalarNoReqNoVal  scalarState = iota // no demand yet, no value yet
	scalarNoReqHasVal                    // value stored, waiting for demand
	scalarHasReqNoVal                    // demand granted, waiting for a value
	scalarHasReqHasVal                   // terminal: emitted, or cancelled
)

// DeferredScalarSubscription is the reusable "produce at most one value
// once demand arrives" building block. A caller supplies the eventual
// value via Set (at most one successful
// call takes effect) and the downstream supplies demand via Request; the
// single onNext/onComplete pair fires the moment both have happened,
// regardless of order. Cancel at any point before that moment inhibits
// the emission permanently.
type DeferredScalarSubscription[T any] struct {
	state       atomic.Int32
	value       T
	destination Subscriber[T]
}

var _ Subscription = (*DeferredScalarSubscription[int])(nil)

// NewDeferredScalarSubscription creates a DeferredScalarSubscription that
// will emit onto destination.
func NewDeferredScalarSubscription[T any](destination Subscriber[T]) *DeferredScalarSubscription[T] {
	return &DeferredScalarSubscription[T]{destination: destination}
}

// Request implements Subscription. n <= 0 is silently ignored; callers
// that must surface ErrInvalidRequest (most operators) validate with
// ValidateRequest before calling Request.
func (d *DeferredScalarSubscription[T]) Request(n int64) {
	if n <= 0 {
		return
	}

	for {
		switch scalarState(d.state.Load()) {
		case scalarNoReqNoVal:
			if d.state.CompareAndSwap(int32(scalarNoReqNoVal), int32(scalarHasReqNoVal)) {
				return
			}
		case scalarNoReqHasVal:
			if d.state.CompareAndSwap(int32(scalarNoReqHasVal), int32(scalarHasReqHasVal)) {
				d.emit()
				return
			}
		default:
			return
		}
	}
}

// Set stores v as the scalar's value and finalizes it for delivery in a
// single step: only the first call made while the state machine has not
// yet reached a value slot has any effect; once a value has been stored
// (or the subscription cancelled), Set is a no-op. If demand has already
// been granted, Set triggers the onNext/onComplete emission immediately.
func (d *DeferredScalarSubscription[T]) Set(v T) {
	switch scalarState(d.state.Load()) {
	case scalarNoReqHasVal, scalarHasReqHasVal:
		return
	}

	d.Update(v)
	d.SetComplete()
}

// Update overwrites the pending value without touching the state
// machine. Unlike Set, it has no terminal effect and may be called any
// number of times — it exists for callers such as takeLast(1) that must
// track "the last value seen so far" before a separate event (upstream
// completion) finalizes it via SetComplete. Safe to call repeatedly only
// from a single producer, matching the Reactive Streams guarantee that
// onNext calls are serialized.
func (d *DeferredScalarSubscription[T]) Update(v T) {
	d.value = v
}

// SetComplete finalizes whatever value was last stored via Update (or
// the zero value, if Update was never called) as ready for delivery. It
// runs the same state transition as Set, without writing a value of its
// own.
func (d *DeferredScalarSubscription[T]) SetComplete() {
	for {
		switch scalarState(d.state.Load()) {
		case scalarNoReqNoVal:
			if d.state.CompareAndSwap(int32(scalarNoReqNoVal), int32(scalarNoReqHasVal)) {
				return
			}
		case scalarHasReqNoVal:
			if d.state.CompareAndSwap(int32(scalarHasReqNoVal), int32(scalarHasReqHasVal)) {
				d.emit()
				return
			}
		default:
			return
		}
	}
}

// Cancel implements Subscription. It moves the state machine to its
// terminal value unconditionally, inhibiting any emission that has not
// already happened. Idempotent.
func (d *DeferredScalarSubscription[T]) Cancel() {
	d.state.Store(int32(scalarHasReqHasVal))
}

// IsCancelledOrEmitted reports whether the terminal state has been
// reached, by cancellation or by a completed emission.
func (d *DeferredScalarSubscription[T]) IsCancelledOrEmitted() bool {
	return scalarState(d.state.Load()) == scalarHasReqHasVal
}

func (d *DeferredScalarSubscription[T]) emit() {
	if d.destination == nil {
		return
	}

	d.destination.OnNext(d.value)
	d.destination.OnComplete()
}
