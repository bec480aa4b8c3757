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

// FusionMode identifies which queue-fusion capability a negotiation
// offered or accepted.
type FusionMode int

// Fusion mode constants.
const (
	// FusionNone means no fusion is available; the publisher behaves as
	// a plain signal-based Publisher.
	FusionNone FusionMode = iota
	// FusionSync means values are always available synchronously via
	// Poll without waiting on another signal.
	FusionSync
	// FusionAsync means values become available asynchronously; Poll may
	// return "empty" even though more values are coming.
	FusionAsync
	// FusionThreadBarrier restricts fusion to cases where the consumer
	// polls on the same thread that produces values.
	FusionThreadBarrier
)

// QueueSubscription is the optional fusion extension a Publisher's
// Subscription may additionally implement. Using is the only operator in
// this core that consumes it: when the derived publisher's subscription
// implements QueueSubscription and accepts FusionSync, Using forwards
// Poll-driven consumption and treats a "queue empty, no more coming"
// Poll result as the synchronous-fusion analog of OnComplete, running
// cleanup inline at that point.
type QueueSubscription[T any] interface {
	Subscription

	// RequestFusion negotiates a fusion mode. The callee may return
	// FusionNone to reject fusion entirely, in which case the caller
	// must fall back to ordinary OnNext/OnComplete signaling.
	RequestFusion(mode FusionMode) FusionMode
	// Poll returns the next queued value. ok is false when the queue is
	// currently empty (FusionAsync: more values may still arrive later;
	// FusionSync: the stream is finished). err is non-nil if producing
	// the next value failed, which the caller must treat like OnError.
	Poll() (value T, ok bool, err error)
	// IsEmpty reports whether Poll would currently return ok == false.
	IsEmpty() bool
	// Clear discards any queued values, e.g. on cancellation.
	Clear()
	// Size reports the number of currently queued values.
	Size() int
}
