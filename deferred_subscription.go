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
	"sync/atomic"

	"github.com/samber/rs/internal/xdemand"
)

// cancelledMarker is a distinct Subscription value used only as a
// sentinel inside DeferredSubscription; it is never handed to a real
// caller.
type cancelledMarker struct{}

func (cancelledMarker) Request(int64) {}
func (cancelledMarker) Cancel()       {}

// cancelledSentinel's address (not its value) is the sentinel compared
// against by DeferredSubscription. Using pointer identity rather than
// interface equality avoids panicking when a real Subscription
// implementation happens to be non-comparable (e.g. holds a func field).
var cancelledSentinel Subscription = cancelledMarker{}

// DeferredSubscription is a Subscription whose real upstream Subscription
// is not known yet at construction time. A downstream may call Request
// before the upstream is known; the accumulated demand is replayed onto
// the upstream the moment Set succeeds. A Cancel that arrives before Set
// is remembered, so the upstream Subscription eventually passed to Set is
// immediately cancelled and dropped instead of stored.
//
// The cycle of "this object is both the Subscription handed downstream
// and the holder of the Subscription received from upstream" is
// intentional and confined to a single instance; it has no further
// lifetime implications.
type DeferredSubscription struct {
	sub       atomic.Pointer[Subscription]
	requested int64
}

var _ Subscription = (*DeferredSubscription)(nil)

// Set stores s as the upstream Subscription if none has been stored yet
// and no Cancel has raced ahead of it. On success, any demand
// accumulated via Request before Set is replayed onto s immediately, and
// Set returns true. On failure (already set, or cancelled-before-set), s
// is cancelled and Set returns false.
func (d *DeferredSubscription) Set(s Subscription) bool {
	if s == nil {
		return false
	}

	if d.sub.CompareAndSwap(nil, &s) {
		if r := atomic.SwapInt64(&d.requested, 0); r > 0 {
			s.Request(r)
		}

		return true
	}

	s.Cancel()
	return false
}

// IsCancelled reports whether Cancel has been observed.
func (d *DeferredSubscription) IsCancelled() bool {
	return d.sub.Load() == &cancelledSentinel
}

// Request implements Subscription. Before Set succeeds, demand
// accumulates (saturating) in a local counter; after Set, it forwards
// directly to the upstream Subscription. A request racing a concurrent
// Set is re-checked so no demand is lost (mirrors the Reactive Streams
// Commons deferredRequest double-check idiom).
func (d *DeferredSubscription) Request(n int64) {
	if n <= 0 {
		return
	}

	if cur := d.sub.Load(); cur != nil {
		if cur != &cancelledSentinel {
			(*cur).Request(n)
		}

		return
	}

	xdemand.Add(&d.requested, n)

	if cur := d.sub.Load(); cur != nil && cur != &cancelledSentinel {
		if r := atomic.SwapInt64(&d.requested, 0); r > 0 {
			(*cur).Request(r)
		}
	}
}

// Cancel implements Subscription. Idempotent: cancels the stored upstream
// Subscription if one was set, or marks this DeferredSubscription so that
// whatever Subscription a future Set call provides is cancelled instead
// of stored.
func (d *DeferredSubscription) Cancel() {
	old := d.sub.Swap(&cancelledSentinel)
	if old != nil && old != &cancelledSentinel {
		(*old).Cancel()
	}
}
