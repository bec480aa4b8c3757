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

package rs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/samber/rs"
)

func TestDeferredSubscriptionReplaysAccumulatedDemand(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	var d rs.DeferredSubscription
	d.Request(2)
	d.Request(3)

	var requested int64
	upstream := rs.SubscriptionFunc{
		RequestFunc: func(n int64) { requested += n },
	}

	is.True(d.Set(upstream))
	is.Equal(int64(5), requested)

	d.Request(1)
	is.Equal(int64(6), requested)
}

func TestDeferredSubscriptionSecondSetFails(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	var d rs.DeferredSubscription

	var firstCancelled, secondCancelled bool
	first := rs.SubscriptionFunc{CancelFunc: func() { firstCancelled = true }}
	second := rs.SubscriptionFunc{CancelFunc: func() { secondCancelled = true }}

	is.True(d.Set(first))
	is.False(d.Set(second))

	is.False(firstCancelled)
	is.True(secondCancelled)
}

func TestDeferredSubscriptionCancelBeforeSet(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	var d rs.DeferredSubscription
	d.Cancel()
	is.True(d.IsCancelled())

	var cancelled bool
	upstream := rs.SubscriptionFunc{CancelFunc: func() { cancelled = true }}

	is.False(d.Set(upstream))
	is.True(cancelled)
}

func TestDeferredSubscriptionCancelAfterSet(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	var d rs.DeferredSubscription

	var cancelled bool
	upstream := rs.SubscriptionFunc{CancelFunc: func() { cancelled = true }}

	is.True(d.Set(upstream))
	d.Cancel()
	is.True(cancelled)
	is.True(d.IsCancelled())
}
