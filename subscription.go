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

// Subscription is the capability object a Subscriber uses to pull demand
// from, and cancel, its upstream Publisher. Request and Cancel must
// tolerate being called from any goroutine, including concurrently with
// each other and with signal delivery.
type Subscription interface {
	// Request grants n additional items of demand. n must be a positive
	// integer; a non-compliant call (n <= 0) results in an
	// ErrInvalidRequest delivered to the subscriber instead of a panic.
	// Implementations accumulate demand with saturating addition at
	// math.MaxInt64 (unbounded demand).
	Request(n int64)
	// Cancel revokes interest in further signals. Idempotent: calling it
	// more than once has the effect of one call. Best-effort against
	// signals already in flight.
	Cancel()
}

// SubscriptionFunc adapts two plain functions into a Subscription.
type SubscriptionFunc struct {
	RequestFunc func(n int64)
	CancelFunc  func()
}

var _ Subscription = SubscriptionFunc{}

// Request implements Subscription.
func (f SubscriptionFunc) Request(n int64) {
	if f.RequestFunc != nil {
		f.RequestFunc(n)
	}
}

// Cancel implements Subscription.
func (f SubscriptionFunc) Cancel() {
	if f.CancelFunc != nil {
		f.CancelFunc()
	}
}

// noopSubscription is handed to a subscriber ahead of an immediate
// OnError/OnComplete, per the protocol requirement that OnSubscribe
// always precedes any other signal. Request and Cancel on it are no-ops.
type noopSubscription struct{}

// NoopSubscription is a Subscription whose Request and Cancel are no-ops.
// Used to satisfy the "OnSubscribe always precedes OnError/OnComplete"
// rule when a Publisher fails before it has a real upstream Subscription
// to offer.
var NoopSubscription Subscription = noopSubscription{}

func (noopSubscription) Request(n int64) {}
func (noopSubscription) Cancel()         {}
