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
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/samber/rs"
)

func TestNotificationString(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	is.Equal("Next(1)", rs.NewNotificationNext(1).String())
	is.Equal("Complete()", rs.NewNotificationComplete[int]().String())
	is.Equal("Error(boom)", rs.NewNotificationError[int](errors.New("boom")).String())
}

func TestKindString(t *testing.T) {
	t.Parallel()
	is := assert.New(t)

	is.Equal("Next", rs.KindNext.String())
	is.Equal("Error", rs.KindError.String())
	is.Equal("Complete", rs.KindComplete.String())
}

func TestUnhandledErrorSinkDefaultsToNoop(t *testing.T) {
	is := assert.New(t)

	prev := rs.GetOnUnhandledError()
	defer rs.SetOnUnhandledError(prev)

	rs.SetOnUnhandledError(nil)
	is.NotPanics(func() { rs.OnUnhandledError(errors.New("ignored")) })
}

func TestUnhandledErrorSinkCanBeOverridden(t *testing.T) {
	is := assert.New(t)

	prev := rs.GetOnUnhandledError()
	defer rs.SetOnUnhandledError(prev)

	var captured error
	rs.SetOnUnhandledError(func(err error) { captured = err })

	boom := errors.New("boom")
	rs.OnUnhandledError(boom)

	is.ErrorIs(captured, boom)
}

func TestDroppedNotificationSinkCanBeOverridden(t *testing.T) {
	is := assert.New(t)

	prev := rs.GetOnDroppedNotification()
	defer rs.SetOnDroppedNotification(prev)

	var captured string
	rs.SetOnDroppedNotification(func(n fmt.Stringer) {
		captured = n.String()
	})

	rs.OnDroppedNotification(rs.NewNotificationNext(42))
	is.Equal("Next(42)", captured)
}
