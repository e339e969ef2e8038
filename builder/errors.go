// SPDX-License-Identifier: MIT

// errors.go - sentinel errors for the builder package.

package builder

import "errors"

// ErrUnknownKind indicates a spec whose kind has no registered factory.
// Usage: if errors.Is(err, ErrUnknownKind) { /* register or fix the tag */ }.
var ErrUnknownKind = errors.New("builder: unknown distribution kind")

// ErrNilFactory indicates Register was called with a nil factory.
var ErrNilFactory = errors.New("builder: nil factory")

// ErrDuplicateKind indicates Register was called for a kind that already
// has a factory; built-in kinds cannot be overwritten.
var ErrDuplicateKind = errors.New("builder: kind already registered")

// ErrBadSpec indicates a spec with an empty kind or a non-positive
// dimension.
var ErrBadSpec = errors.New("builder: bad spec")
