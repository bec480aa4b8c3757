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
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/samber/rs"
	"github.com/samber/rs/internal/rstest"
)

func TestAmbZeroSourcesCompletesImmediately(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	rec := rstest.NewRecorder[int]()
	rs.Amb[int]().Subscribe(rec)

	is.Empty(rec.Values())
	is.True(rec.Completed())
}

func TestAmbOneSourceIsPassthrough(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	rec := rstest.NewRecorder[int]()
	rs.Amb[int](rs.Range(1, 3)).Subscribe(rec)
	rec.Request(math.MaxInt64)

	is.Equal([]int{1, 2, 3}, rec.Values())
	is.True(rec.Completed())
}

func TestAmbFirstSourceToSignalWins(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	slow := rs.PublisherFunc[int](func(s rs.Subscriber[int]) {
		s.OnSubscribe(rs.NoopSubscription)
		// never signals
	})

	rec := rstest.NewRecorder[int]()
	rs.Amb(slow, rs.Range(1, 3), slow).Subscribe(rec)
	rec.Request(math.MaxInt64)

	is.Equal([]int{1, 2, 3}, rec.Values())
	is.True(rec.Completed())
}

func TestAmbLosingSourcesAreCancelled(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	var loserCancelled bool
	loser := rs.PublisherFunc[int](func(s rs.Subscriber[int]) {
		s.OnSubscribe(rs.SubscriptionFunc{
			CancelFunc: func() { loserCancelled = true },
		})
	})

	rec := rstest.NewRecorder[int]()
	rs.Amb(loser, rs.Range(1, 1)).Subscribe(rec)
	rec.Request(math.MaxInt64)

	is.True(loserCancelled)
	is.True(rec.Completed())
}

func TestAmbWinnerForwardsError(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	boom := errors.New("boom")
	failing := rs.PublisherFunc[int](func(s rs.Subscriber[int]) {
		s.OnSubscribe(rs.NoopSubscription)
		s.OnError(boom)
	})

	never := rs.PublisherFunc[int](func(s rs.Subscriber[int]) {
		s.OnSubscribe(rs.NoopSubscription)
	})

	rec := rstest.NewRecorder[int]()
	rs.Amb(never, failing).Subscribe(rec)
	rec.Request(math.MaxInt64)

	is.Len(rec.Errors(), 1)
	is.ErrorIs(rec.Errors()[0], boom)
}

func TestAmbNilSourceFails(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	never := rs.PublisherFunc[int](func(s rs.Subscriber[int]) {
		s.OnSubscribe(rs.NoopSubscription)
	})

	rec := rstest.NewRecorder[int]()
	rs.Amb(never, nil, never).Subscribe(rec)

	is.Len(rec.Errors(), 1)
	is.Contains(rec.Errors()[0].Error(), "source 1 is nil")
}

func TestAmbIterableDrainsOnce(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	calls := 0
	sources := []rs.Publisher[int]{rs.Range(1, 2), rs.Range(10, 2)}

	iterable := rs.AmbIterable[int](func() (rs.Publisher[int], bool, error) {
		if calls >= len(sources) {
			return nil, false, nil
		}
		p := sources[calls]
		calls++
		return p, true, nil
	})

	rec := rstest.NewRecorder[int]()
	iterable.Subscribe(rec)
	rec.Request(math.MaxInt64)

	is.Equal(2, calls)
	is.True(rec.Completed())
}

func TestAmbIterableErrorIsReported(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	boom := errors.New("iterator exploded")
	iterable := rs.AmbIterable[int](func() (rs.Publisher[int], bool, error) {
		return nil, false, boom
	})

	rec := rstest.NewRecorder[int]()
	iterable.Subscribe(rec)

	is.Len(rec.Errors(), 1)
	is.ErrorIs(rec.Errors()[0], boom)
}

func TestAmbCancelBeforeAnyWinnerCancelsAll(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	cancelledCount := 0
	pending := func() rs.Publisher[int] {
		return rs.PublisherFunc[int](func(s rs.Subscriber[int]) {
			s.OnSubscribe(rs.SubscriptionFunc{
				CancelFunc: func() { cancelledCount++ },
			})
		})
	}

	rec := rstest.NewRecorder[int]()
	rs.Amb(pending(), pending(), pending()).Subscribe(rec)
	rec.Cancel()

	is.Equal(3, cancelledCount)
}
