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

// Subscriber is the consumer side of the four-signal Reactive Streams
// protocol. A Publisher calls OnSubscribe exactly once, then any number of
// OnNext calls, then at most one of OnError or OnComplete.
//
// Implementations must tolerate OnNext/OnError/OnComplete arriving from
// whichever goroutine the upstream Publisher delivers on; the protocol
// guarantees these calls are serialized (never concurrent with each
// other) but does not guarantee a fixed goroutine.
type Subscriber[T any] interface {
	// OnSubscribe hands this Subscriber the Subscription it can use to
	// request demand and cancel. Called exactly once, before any other
	// signal.
	OnSubscribe(sub Subscription)
	// OnNext delivers the next value. Never called more times than the
	// accumulated granted demand, and never after a terminal signal.
	OnNext(value T)
	// OnError delivers a terminal error. Called at most once, and never
	// after OnComplete.
	OnError(err error)
	// OnComplete delivers terminal completion. Called at most once, and
	// never after OnError.
	OnComplete()
}

// SubscriberFuncs adapts four plain functions into a Subscriber. A nil
// function is treated as a no-op for that signal.
type SubscriberFuncs[T any] struct {
	Subscribe func(sub Subscription)
	Next      func(value T)
	Error     func(err error)
	Complete  func()
}

var _ Subscriber[int] = SubscriberFuncs[int]{}

// OnSubscribe implements Subscriber.
func (f SubscriberFuncs[T]) OnSubscribe(sub Subscription) {
	if f.Subscribe != nil {
		f.Subscribe(sub)
	}
}

// OnNext implements Subscriber.
func (f SubscriberFuncs[T]) OnNext(value T) {
	if f.Next != nil {
		f.Next(value)
	}
}

// OnError implements Subscriber.
func (f SubscriberFuncs[T]) OnError(err error) {
	if f.Error != nil {
		f.Error(err)
	}
}

// OnComplete implements Subscriber.
func (f SubscriberFuncs[T]) OnComplete() {
	if f.Complete != nil {
		f.Complete()
	}
}
