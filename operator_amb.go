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
	"math"
	"sync/atomic"
)

const (
	// ambUndecided means no candidate has signalled yet.
	ambUndecided = int64(math.MinInt64)
	// ambLost means the coordinator reached a terminal state (cancelled,
	// or failed on a nil source) without any candidate winning the race.
	ambLost = int64(-1)
)

// Amb races a fixed set of source Publishers against each other and
// relays only the signals of whichever source signals first (onNext,
// onError, or onComplete all count as "signalling"); every other source
// is cancelled the instant a winner is known.
//
// Zero sources complete immediately. One source is subscribed directly,
// with no coordinator overhead. A nil source at index i fails the whole
// race with an error identifying i, cancelling every other source that
// had already been subscribed.
func Amb[T any](sources ...Publisher[T]) Publisher[T] {
	return PublisherFunc[T](func(s Subscriber[T]) {
		subscribeAmb[T](s, sources)
	})
}

// AmbIterable is Amb for a lazily produced sequence of sources. next is
// drained eagerly and exactly once, at subscribe time: it is called
// repeatedly until it returns ok == false or a non-nil error, and the
// resulting slice of sources then races exactly as Amb's would. A
// non-nil error from next is reported to s immediately, without
// subscribing to any source collected so far.
func AmbIterable[T any](next func() (Publisher[T], bool, error)) Publisher[T] {
	return PublisherFunc[T](func(s Subscriber[T]) {
		sources, err := drainAmbIterable(next)
		if err != nil {
			EmitError[T](s, err)
			return
		}

		subscribeAmb[T](s, sources)
	})
}

func drainAmbIterable[T any](next func() (Publisher[T], bool, error)) ([]Publisher[T], error) {
	var sources []Publisher[T]

	for {
		source, ok, err := next()
		if err != nil {
			return nil, err
		}

		if !ok {
			return sources, nil
		}

		sources = append(sources, source)
	}
}

func subscribeAmb[T any](s Subscriber[T], sources []Publisher[T]) {
	switch len(sources) {
	case 0:
		EmitComplete[T](s)
		return
	case 1:
		if sources[0] == nil {
			EmitError[T](s, ambNilSourceError(0))
			return
		}

		sources[0].Subscribe(s)
		return
	}

	coordinator := &ambCoordinator[T]{
		destination: s,
		candidates:  make([]*ambCandidate[T], len(sources)),
	}
	coordinator.winner.Store(ambUndecided)

	for i := range sources {
		coordinator.candidates[i] = &ambCandidate[T]{coordinator: coordinator, index: int64(i)}
	}

	s.OnSubscribe(coordinator)

	for i, source := range sources {
		if coordinator.winner.Load() != ambUndecided {
			return
		}

		if source == nil {
			coordinator.failWithNilSource(i)
			return
		}

		source.Subscribe(coordinator.candidates[i])
	}
}

func ambNilSourceError(i int) error {
	return fmt.Errorf("rs: Amb: source %d is nil", i)
}

// ambCoordinator is the Subscription handed to the downstream subscriber
// of a multi-source Amb. Before a winner is known, Request and Cancel
// are broadcast to every candidate; once winner holds a candidate index,
// both route exclusively to that candidate.
type ambCoordinator[T any] struct {
	destination Subscriber[T]
	candidates  []*ambCandidate[T]
	winner      atomic.Int64
}

var _ Subscription = (*ambCoordinator[int])(nil)

func (c *ambCoordinator[T]) Request(n int64) {
	if !ValidateRequest(n, c.destination) {
		return
	}

	if w := c.winner.Load(); w >= 0 {
		c.candidates[w].upstream.Request(n)
		return
	}

	for _, cand := range c.candidates {
		cand.upstream.Request(n)
	}
}

func (c *ambCoordinator[T]) Cancel() {
	if w := c.winner.Load(); w >= 0 {
		c.candidates[w].upstream.Cancel()
		return
	}

	c.winner.CompareAndSwap(ambUndecided, ambLost)

	for _, cand := range c.candidates {
		cand.upstream.Cancel()
	}
}

// cancelOthers cancels every candidate except winner. Passing -1
// cancels all of them, used when a nil source fails the race outright.
func (c *ambCoordinator[T]) cancelOthers(winner int64) {
	for i, cand := range c.candidates {
		if int64(i) != winner {
			cand.upstream.Cancel()
		}
	}
}

// failWithNilSource is the nil-source counterpart of a candidate's
// tryWin: it races to move the coordinator straight to ambLost (a nil
// source can never be a winner), and on success cancels every source
// already subscribed and reports the error downstream.
func (c *ambCoordinator[T]) failWithNilSource(i int) {
	if !c.winner.CompareAndSwap(ambUndecided, ambLost) {
		return
	}

	c.cancelOthers(-1)
	c.destination.OnError(ambNilSourceError(i))
}

// ambCandidate is the Subscriber adapter subscribed to one of Amb's
// sources. The first candidate to signal anything wins the CAS race on
// the coordinator's winner field; every later signal from a losing
// candidate is dropped rather than delivered.
type ambCandidate[T any] struct {
	coordinator *ambCoordinator[T]
	index       int64
	upstream    DeferredSubscription

	// won is set exactly once, by whichever goroutine's CAS succeeds,
	// and from then on is only ever read by that same goroutine on
	// this candidate's subsequent signals — no further synchronization
	// is needed to consult it.
	won bool
}

var _ Subscriber[int] = (*ambCandidate[int])(nil)

func (a *ambCandidate[T]) OnSubscribe(s Subscription) {
	a.upstream.Set(s)
}

func (a *ambCandidate[T]) OnNext(v T) {
	if a.won || a.tryWin() {
		a.coordinator.destination.OnNext(v)
		return
	}

	OnDroppedNotification(NewNotificationNext(v))
}

func (a *ambCandidate[T]) OnError(err error) {
	if a.won || a.tryWin() {
		a.coordinator.destination.OnError(err)
		return
	}

	OnDroppedNotification(NewNotificationError[T](err))
}

func (a *ambCandidate[T]) OnComplete() {
	if a.won || a.tryWin() {
		a.coordinator.destination.OnComplete()
		return
	}

	OnDroppedNotification(NewNotificationComplete[T]())
}

// tryWin performs the CAS that decides the race, the moment this
// candidate is the first to signal anything. On success it cancels
// every other candidate and remembers the win locally so later signals
// on this same candidate skip the CAS entirely.
func (a *ambCandidate[T]) tryWin() bool {
	if !a.coordinator.winner.CompareAndSwap(ambUndecided, a.index) {
		return false
	}

	a.won = true
	a.coordinator.cancelOthers(a.index)
	return true
}
