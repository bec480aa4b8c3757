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

	"github.com/samber/rs/internal/xerrors"
)

// errNilPublisher is the substitute failure Using reports when factory
// returns a nil Publisher instead of an error.
var errNilPublisher = errors.New("rs: Using: factory returned a nil Publisher")

// Using scopes a resource's lifetime to a single subscription. supplier
// produces the resource, factory derives the Publisher that drives it,
// and cleanup disposes of it exactly once, regardless of whether the
// derived publisher completes, errors, or is cancelled mid-flight.
//
// If eager is true, cleanup runs before the terminal signal reaches the
// downstream subscriber (so a cleanup failure can replace or accompany
// the original signal); if false, cleanup runs after the downstream has
// already observed the terminal signal, and a cleanup failure in that
// case is only reported to the unhandled-error sink rather than
// delivered to a subscriber that has already terminated.
//
// A panic raised by supplier or factory is recovered and reported the
// same way an error return would be, unless it is host-fatal, in which
// case it is re-panicked.
func Using[S, T any](supplier func() (S, error), factory func(S) (Publisher[T], error), cleanup func(S) error, eager bool) Publisher[T] {
	return PublisherFunc[T](func(s Subscriber[T]) {
		resource, err := xerrors.TryValue(supplier)
		if err != nil {
			EmitError[T](s, err)
			return
		}

		derived, err := xerrors.TryValue(func() (Publisher[T], error) { return factory(resource) })
		if err != nil {
			emitAfterSupplierOrFactoryFailure(s, cleanup, resource, err)
			return
		}

		if derived == nil {
			emitAfterSupplierOrFactoryFailure(s, cleanup, resource, errNilPublisher)
			return
		}

		adapter := &usingSubscription[S, T]{
			destination: s,
			resource:    resource,
			cleanup:     cleanup,
			eager:       eager,
		}

		derived.Subscribe(adapter)
	})
}

// emitAfterSupplierOrFactoryFailure runs cleanup for a resource whose
// factory step never produced a usable Publisher, then reports whichever
// error or combination of errors resulted to s.
func emitAfterSupplierOrFactoryFailure[S, T any](s Subscriber[T], cleanup func(S) error, resource S, factoryErr error) {
	var cleanupErr error
	if cleanup != nil {
		cleanupErr = xerrors.Try(func() error { return cleanup(resource) })
	}

	if cleanupErr != nil {
		EmitError[T](s, xerrors.WithSuppressed(cleanupErr, factoryErr))
		return
	}

	EmitError[T](s, factoryErr)
}

// usingSubscription relays signals from the publisher derived by Using
// straight through to the original downstream subscriber, running
// cleanup exactly once at whichever of (cancel, error, complete) occurs
// first. It also stands in as the Subscription handed to that
// downstream, forwarding Request/Cancel to the upstream subscription
// once known, and bridges the optional queue-fusion handshake when the
// upstream subscription supports it.
type usingSubscription[S, T any] struct {
	destination Subscriber[T]
	resource    S
	cleanup     func(S) error
	eager       bool

	upstream      DeferredSubscription
	fusedUpstream QueueSubscription[T]
	fusionMode    FusionMode

	cancelled   atomic.Bool
	cleanupDone int32
}

var (
	_ Subscriber[int]        = (*usingSubscription[struct{}, int])(nil)
	_ QueueSubscription[int] = (*usingSubscription[struct{}, int])(nil)
)

func (u *usingSubscription[S, T]) OnSubscribe(s Subscription) {
	if !u.upstream.Set(s) {
		return
	}

	if qs, ok := s.(QueueSubscription[T]); ok {
		u.fusedUpstream = qs
	}

	u.destination.OnSubscribe(u)
}

func (u *usingSubscription[S, T]) OnNext(v T) {
	u.destination.OnNext(v)
}

func (u *usingSubscription[S, T]) OnError(err error) {
	if u.cancelled.Load() {
		return
	}

	if u.eager {
		if cleanupErr := u.runCleanup(); cleanupErr != nil {
			u.destination.OnError(xerrors.WithSuppressed(cleanupErr, err))
		} else {
			u.destination.OnError(err)
		}
		return
	}

	u.destination.OnError(err)

	if cleanupErr := u.runCleanup(); cleanupErr != nil {
		OnUnhandledError(cleanupErr)
	}
}

func (u *usingSubscription[S, T]) OnComplete() {
	if u.cancelled.Load() {
		return
	}

	if u.eager {
		if cleanupErr := u.runCleanup(); cleanupErr != nil {
			u.destination.OnError(cleanupErr)
		} else {
			u.destination.OnComplete()
		}
		return
	}

	u.destination.OnComplete()

	if cleanupErr := u.runCleanup(); cleanupErr != nil {
		OnUnhandledError(cleanupErr)
	}
}

func (u *usingSubscription[S, T]) Request(n int64) {
	if !ValidateRequest(n, u.destination) {
		return
	}

	u.upstream.Request(n)
}

func (u *usingSubscription[S, T]) Cancel() {
	u.cancelled.Store(true)
	u.upstream.Cancel()

	if cleanupErr := u.runCleanup(); cleanupErr != nil {
		OnUnhandledError(cleanupErr)
	}
}

// runCleanup invokes cleanup at most once across however many of
// (Cancel, OnError, OnComplete) race to call it; every loser observes a
// nil result instead of re-running the user's callback.
func (u *usingSubscription[S, T]) runCleanup() error {
	if !atomic.CompareAndSwapInt32(&u.cleanupDone, 0, 1) {
		return nil
	}

	if u.cleanup == nil {
		return nil
	}

	return xerrors.Try(func() error { return u.cleanup(u.resource) })
}

// RequestFusion negotiates fusion with the upstream subscription, if it
// offers one, and remembers whichever mode upstream accepted so Poll
// knows how to interpret an empty result.
func (u *usingSubscription[S, T]) RequestFusion(mode FusionMode) FusionMode {
	if u.fusedUpstream == nil {
		return FusionNone
	}

	u.fusionMode = u.fusedUpstream.RequestFusion(mode)
	return u.fusionMode
}

// Poll forwards to the fused upstream queue. In FusionSync mode, a
// "nothing left" result means the stream is finished rather than merely
// idle, so Poll runs cleanup inline at that point instead of waiting for
// a separate OnComplete that a synchronously fused producer will not
// send.
func (u *usingSubscription[S, T]) Poll() (value T, ok bool, err error) {
	if u.fusedUpstream == nil {
		var zero T
		return zero, false, nil
	}

	value, ok, err = u.fusedUpstream.Poll()
	if err != nil {
		if cleanupErr := u.runCleanup(); cleanupErr != nil {
			err = xerrors.WithSuppressed(cleanupErr, err)
		}
		return value, false, err
	}

	if !ok && u.fusionMode == FusionSync {
		if cleanupErr := u.runCleanup(); cleanupErr != nil {
			return value, false, cleanupErr
		}
	}

	return value, ok, nil
}

func (u *usingSubscription[S, T]) IsEmpty() bool {
	if u.fusedUpstream == nil {
		return true
	}
	return u.fusedUpstream.IsEmpty()
}

func (u *usingSubscription[S, T]) Clear() {
	if u.fusedUpstream != nil {
		u.fusedUpstream.Clear()
	}
}

func (u *usingSubscription[S, T]) Size() int {
	if u.fusedUpstream == nil {
		return 0
	}
	return u.fusedUpstream.Size()
}
