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
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/samber/rs"
	"github.com/samber/rs/internal/rstest"
)

func TestRangeUnboundedRequest(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	rec := rstest.NewRecorder[int]()
	rs.Range(10, 3).Subscribe(rec)
	rec.Request(math.MaxInt64)

	is.Equal([]int{10, 11, 12}, rec.Values())
	is.True(rec.Completed())
}

func TestRangeBoundedRequests(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	rec := rstest.NewRecorder[int]()
	rs.Range(10, 3).Subscribe(rec)

	rec.Request(2)
	is.Equal([]int{10, 11}, rec.Values())
	is.False(rec.Completed())

	rec.Request(10)
	is.Equal([]int{10, 11, 12}, rec.Values())
	is.True(rec.Completed())
}

func TestRangeZeroCount(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	rec := rstest.NewRecorder[int]()
	rs.Range(5, 0).Subscribe(rec)

	is.Equal(1, rec.SubscribeCount())
	is.Empty(rec.Values())
	is.True(rec.Completed())
}

func TestRangeCancelStopsEmission(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	rec := rstest.NewRecorder[int]()
	rs.Range(0, 5).Subscribe(rec)

	rec.Request(2)
	is.Equal([]int{0, 1}, rec.Values())

	rec.Cancel()
	rec.Request(100)
	is.Equal([]int{0, 1}, rec.Values())
	is.False(rec.Completed())
}

func TestRangeNegativeCountPanics(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	is.Panics(func() {
		rs.Range(0, -1)
	})
}

func TestRangeOverflowPanics(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	is.Panics(func() {
		rs.Range(math.MaxInt64-1, 5)
	})
}

func TestRangeInvalidRequestEmitsError(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	rec := rstest.NewRecorder[int]()
	rs.Range(0, 3).Subscribe(rec)

	rec.Request(0)
	is.Len(rec.Errors(), 1)
	is.ErrorIs(rec.Errors()[0], rs.ErrInvalidRequest)
}
