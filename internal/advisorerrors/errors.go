// Copyright 2026 Arkham Advisor Contributors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package advisorerrors defines the error kinds shared across the
// Deck Advisor core. Components never raise across their boundary;
// errors are captured and classified into one of these kinds so the
// caller always receives a well-formed response.
package advisorerrors

import "errors"

// Kind classifies the nature of a failure. It is deliberately coarse:
// components use it to decide whether a response degrades gracefully
// (confidence 0, synthetic content) or surfaces a caller-visible signal.
type Kind string

const (
	KindInputInvalid          Kind = "input-invalid"
	KindNotFound              Kind = "not-found"
	KindDependencyUnavailable Kind = "dependency-unavailable"
	KindBudgetExceeded        Kind = "budget-exceeded"
	KindCancelled             Kind = "cancelled"
	KindInternal              Kind = "internal-bug"
)

// Error wraps an underlying cause with a Kind so callers can branch on
// classification without string-matching error messages.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a classified error with no wrapped cause.
func New(kind Kind, message string) error {
	return &Error{Kind: kind, Message: message}
}

// Wrap classifies an existing error under kind.
func Wrap(kind Kind, message string, cause error) error {
	if cause == nil {
		return New(kind, message)
	}
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// KindOf extracts the Kind from err, defaulting to KindInternal when err
// was not produced by this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if err == nil {
		return ""
	}
	return KindInternal
}

// IsRetryable reports whether a dependency failure is worth retrying.
// Input/not-found/cancelled errors never are.
func IsRetryable(err error) bool {
	switch KindOf(err) {
	case KindDependencyUnavailable, KindBudgetExceeded:
		return true
	default:
		return false
	}
}
