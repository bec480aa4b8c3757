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
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/samber/rs"
	"github.com/samber/rs/internal/rstest"
)

func TestValidateSubscriptionFirstCallWins(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	var slot atomic.Pointer[rs.Subscription]
	first := rs.SubscriptionFunc{}

	is.True(rs.ValidateSubscription(&slot, first))
}

func TestValidateSubscriptionSecondCallIsCancelledAndReported(t *testing.T) {
	is := assert.New(t)

	prev := rs.GetOnUnhandledError()
	defer rs.SetOnUnhandledError(prev)

	var reported error
	rs.SetOnUnhandledError(func(err error) { reported = err })

	var slot atomic.Pointer[rs.Subscription]
	is.True(rs.ValidateSubscription(&slot, rs.SubscriptionFunc{}))

	var secondCancelled bool
	second := rs.SubscriptionFunc{CancelFunc: func() { secondCancelled = true }}

	is.False(rs.ValidateSubscription(&slot, second))
	is.True(secondCancelled)
	is.ErrorIs(reported, rs.ErrSubscriptionAlreadySet)
}

func TestValidateSubscriptionRejectsNil(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	var slot atomic.Pointer[rs.Subscription]
	is.False(rs.ValidateSubscription(&slot, nil))
}

func TestValidateRequestRejectsNonPositive(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	rec := rstest.NewRecorder[int]()
	rec.OnSubscribe(rs.NoopSubscription)

	is.False(rs.ValidateRequest[int](0, rec))
	is.Len(rec.Errors(), 1)
	is.ErrorIs(rec.Errors()[0], rs.ErrInvalidRequest)
}

func TestValidateRequestAcceptsPositive(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	rec := rstest.NewRecorder[int]()
	rec.OnSubscribe(rs.NoopSubscription)

	is.True(rs.ValidateRequest[int](1, rec))
	is.Empty(rec.Errors())
}
