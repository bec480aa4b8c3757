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

// Package rs implements the core of a reactive-streams operator library:
// a small family of non-blocking, backpressure-aware operators built on a
// demand-driven Publisher/Subscriber/Subscription contract (Request(n) /
// Cancel()), as opposed to the push-only delivery used by this module's
// sibling, samber/ro.
package rs

import (
	"fmt"
	"log"
	"sync/atomic"
)

var (
	// onUnhandledError stores the current handler for errors that have no
	// downstream left to report to (e.g. a cleanup failure racing a
	// cancellation). Accessed via atomic.Value so it can be read and
	// swapped without data races.
	onUnhandledError atomic.Value // func(error)

	// onDroppedNotification stores the current handler for signals that
	// arrive after a subscription has already reached a terminal state or
	// has been cancelled.
	onDroppedNotification atomic.Value // func(fmt.Stringer)
)

func init() {
	onUnhandledError.Store(IgnoreOnUnhandledError)
	onDroppedNotification.Store(IgnoreOnDroppedNotification)
}

// SetOnUnhandledError sets the handler invoked when an error has no
// subscriber left to report to. Passing nil restores the default no-op.
func SetOnUnhandledError(fn func(err error)) {
	if fn == nil {
		fn = IgnoreOnUnhandledError
	}
	onUnhandledError.Store(fn)
}

// GetOnUnhandledError returns the currently configured unhandled-error handler.
func GetOnUnhandledError() func(err error) {
	return onUnhandledError.Load().(func(error))
}

// OnUnhandledError calls the currently configured unhandled-error handler.
func OnUnhandledError(err error) {
	GetOnUnhandledError()(err)
}

// SetOnDroppedNotification sets the handler invoked when a signal is
// dropped. Passing nil restores the default no-op.
func SetOnDroppedNotification(fn func(notification fmt.Stringer)) {
	if fn == nil {
		fn = IgnoreOnDroppedNotification
	}
	onDroppedNotification.Store(fn)
}

// GetOnDroppedNotification returns the currently configured dropped-notification handler.
func GetOnDroppedNotification() func(notification fmt.Stringer) {
	return onDroppedNotification.Load().(func(fmt.Stringer))
}

// OnDroppedNotification calls the currently configured dropped-notification handler.
func OnDroppedNotification(notification fmt.Stringer) {
	GetOnDroppedNotification()(notification)
}

// IgnoreOnUnhandledError is the default implementation of OnUnhandledError.
func IgnoreOnUnhandledError(err error) {}

// IgnoreOnDroppedNotification is the default implementation of OnDroppedNotification.
func IgnoreOnDroppedNotification(notification fmt.Stringer) {}

// LogOnUnhandledError is a convenience implementation of OnUnhandledError
// that writes to the standard logger.
func LogOnUnhandledError(err error) {
	if err != nil {
		log.Printf("rs: unhandled error: %s\n", err.Error())
	}
}

// LogOnDroppedNotification is a convenience implementation of
// OnDroppedNotification that writes to the standard logger.
func LogOnDroppedNotification(notification fmt.Stringer) {
	log.Printf("rs: dropped notification: %s\n", notification.String())
}

var _ fmt.Stringer = (*Notification[int])(nil)

// Kind represents the kind of a Notification: Next, Error, or Complete.
type Kind uint8

// Kind constants.
const (
	KindNext Kind = iota
	KindError
	KindComplete
)

// String returns the string representation of a Kind.
func (k Kind) String() string {
	switch k {
	case KindNext:
		return "Next"
	case KindError:
		return "Error"
	case KindComplete:
		return "Complete"
	}

	panic("rs: invalid Kind")
}

// Notification is a tagged union capturing one signal for diagnostics
// (the dropped-notification sink). It is never used
// on the hot delivery path, which dispatches through direct interface
// calls (OnNext/OnError/OnComplete) per the Reactive Streams contract.
type Notification[T any] struct {
	Kind  Kind
	Value T
	Err   error
}

// NewNotificationNext creates a Notification carrying a Next value.
func NewNotificationNext[T any](value T) Notification[T] {
	return Notification[T]{Kind: KindNext, Value: value}
}

// NewNotificationError creates a Notification carrying an Error.
func NewNotificationError[T any](err error) Notification[T] {
	return Notification[T]{Kind: KindError, Err: err}
}

// NewNotificationComplete creates a Notification carrying a Complete signal.
func NewNotificationComplete[T any]() Notification[T] {
	return Notification[T]{Kind: KindComplete}
}

func (n Notification[T]) String() string {
	switch n.Kind {
	case KindNext:
		return fmt.Sprintf("Next(%+v)", n.Value)
	case KindError:
		if n.Err == nil {
			return "Error(nil)"
		}

		return fmt.Sprintf("Error(%s)", n.Err.Error())
	case KindComplete:
		return "Complete()"
	}

	panic("rs: invalid Notification")
}
