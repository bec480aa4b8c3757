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

// Publisher is a value-like factory of asynchronous sequences. Subscribe
// must produce a fresh, independent Subscription each time it is called;
// no state may be shared across subscriptions of the same Publisher.
//
// Implementations must honor the Reactive Streams contract: exactly one
// OnSubscribe precedes any other signal, at most one terminal signal
// (OnError xor OnComplete) is ever delivered, and no signal is delivered
// after Cancel() has been observed (save for a terminal already in
// flight).
type Publisher[T any] interface {
	// Subscribe registers s to receive signals from this Publisher. It
	// must call s.OnSubscribe exactly once, synchronously or
	// asynchronously, before any OnNext/OnError/OnComplete call.
	Subscribe(s Subscriber[T])
}

// PublisherFunc adapts a plain function to a Publisher.
type PublisherFunc[T any] func(s Subscriber[T])

// Subscribe implements Publisher.
func (f PublisherFunc[T]) Subscribe(s Subscriber[T]) {
	f(s)
}
