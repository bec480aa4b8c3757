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
	"errors"
	"sync/atomic"
)

// ErrInvalidRequest is delivered to a subscriber when Request is called
// with a non-positive argument, per the Reactive Streams rule that
// request(n) requires n > 0.
var ErrInvalidRequest = errors.New("rs: n > 0 required")

// ErrSubscriptionAlreadySet is reported to the unhandled-error sink when
// an upstream calls OnSubscribe a second time on the same adapter, a
// protocol violation. The second Subscription is cancelled and dropped.
var ErrSubscriptionAlreadySet = errors.New("rs: subscription already set")

// ValidateRequest checks n against the Request(n) precondition. If
// n <= 0, it emits ErrInvalidRequest to s (which, per the protocol,
// terminates the subscription) and returns false. Otherwise it returns
// true and the caller should proceed with its own demand accounting.
func ValidateRequest[T any](n int64, s Subscriber[T]) bool {
	if n <= 0 {
		s.OnError(ErrInvalidRequest)
		return false
	}

	return true
}

// ValidateSubscription performs the standard first-writer-wins dance for
// storing an upstream Subscription: if slot is empty, next is stored and
// true is returned; if slot already holds a Subscription, next is
// cancelled, ErrSubscriptionAlreadySet is reported to the unhandled-error
// sink, and false is returned.
func ValidateSubscription(slot *atomic.Pointer[Subscription], next Subscription) bool {
	if next == nil {
		return false
	}

	if !slot.CompareAndSwap(nil, &next) {
		next.Cancel()
		OnUnhandledError(ErrSubscriptionAlreadySet)
		return false
	}

	return true
}

// EmitError delivers OnSubscribe(NoopSubscription) followed by
// OnError(err) to s. Used when a Publisher fails before obtaining any
// real upstream Subscription.
func EmitError[T any](s Subscriber[T], err error) {
	s.OnSubscribe(NoopSubscription)
	s.OnError(err)
}

// EmitComplete delivers OnSubscribe(NoopSubscription) followed by
// OnComplete() to s. Used for degenerate empty Publishers (e.g.
// Range(start, 0) or Amb() with zero sources).
func EmitComplete[T any](s Subscriber[T]) {
	s.OnSubscribe(NoopSubscription)
	s.OnComplete()
}
