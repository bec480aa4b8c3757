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

// Package xerrors classifies panics raised by user-supplied callbacks
// (resource suppliers, publisher factories, cleanup functions) as
// host-fatal or ordinary, and composes a cleanup error with the error it
// displaced using Go's multi-unwrap (errors.Join-style) convention. This
// is the Go-idiomatic stand-in for the Java original's unchecked
// RuntimeException/Error split and addSuppressed mechanism.
package xerrors

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/samber/lo"
)

// IsFatal reports whether err represents a host-fatal condition that must
// never be intercepted or converted: a runtime.Error (nil dereference,
// index out of range, integer divide by zero, ...). Go has no direct
// analogue of OutOfMemoryError/VirtualMachineError; runtime.Error is the
// closest "the process itself is in trouble" signal available to
// recovered panics.
func IsFatal(err error) bool {
	var rerr runtime.Error
	return errors.As(err, &rerr)
}

// Try runs fn and converts any panic into an error via recover, exactly
// like samber/ro's observer callback wrapping (see observer.go's
// tryNext/tryError/tryComplete, which wrap user callbacks with
// lo.TryCatchWithErrorValue). If the recovered value is host-fatal per
// IsFatal, Try re-panics instead of returning an error, so fatal
// conditions are never swallowed by an operator.
func Try(fn func() error) (err error) {
	lo.TryCatchWithErrorValue(
		func() error {
			err = fn()
			return nil
		},
		func(recovered any) {
			err = recoverValueToError(recovered)

			if IsFatal(err) {
				panic(recovered)
			}
		},
	)

	return err
}

// TryValue runs fn and converts any panic into an error via recover,
// returning the zero value of V alongside it. Used for user-supplied
// callbacks that produce a value (using's resource supplier and
// publisher factory), mirroring Try's panic-to-error conversion.
func TryValue[V any](fn func() (V, error)) (value V, err error) {
	lo.TryCatchWithErrorValue(
		func() error {
			value, err = fn()
			return nil
		},
		func(recovered any) {
			err = recoverValueToError(recovered)

			if IsFatal(err) {
				panic(recovered)
			}
		},
	)

	return value, err
}

// recoverValueToError converts a recover() return value into an error.
func recoverValueToError(recovered any) error {
	if recovered == nil {
		return nil
	}

	if err, ok := recovered.(error); ok {
		return err
	}

	return fmt.Errorf("panic: %v", recovered)
}

// suppressedError pairs a primary cause with a cause it displaced. It
// implements Unwrap() []error so errors.Is/errors.As can still reach
// either one, mirroring Java's Throwable.addSuppressed without requiring
// a dedicated exception type.
type suppressedError struct {
	primary    error
	suppressed error
}

// WithSuppressed returns an error whose displayed message and primary
// identity is primary, while recording suppressed as an additional,
// reachable cause. Used by the using operator: when eager cleanup fails
// while handling an upstream error, the cleanup error becomes primary and
// the original upstream error is attached as suppressed; when cleanup
// fails after a factory error (eager or not), the cleanup error is
// likewise primary and the factory error is attached as suppressed.
func WithSuppressed(primary, suppressed error) error {
	if suppressed == nil {
		return primary
	}

	if primary == nil {
		return suppressed
	}

	return &suppressedError{primary: primary, suppressed: suppressed}
}

func (e *suppressedError) Error() string {
	return fmt.Sprintf("%s (suppressed: %s)", e.primary.Error(), e.suppressed.Error())
}

func (e *suppressedError) Unwrap() []error {
	return []error{e.primary, e.suppressed}
}

// Primary returns the primary cause of a suppressed-composition error, or
// err unchanged if it isn't one.
func Primary(err error) error {
	var se *suppressedError
	if errors.As(err, &se) {
		return se.primary
	}

	return err
}

// Suppressed returns the suppressed cause of a suppressed-composition
// error, or nil if err isn't one.
func Suppressed(err error) error {
	var se *suppressedError
	if errors.As(err, &se) {
		return se.suppressed
	}

	return nil
}
