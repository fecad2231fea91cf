package boundary

import (
	"fmt"

	"github.com/wippyai/wasm-wire/errors"
)

// Status is the i32 result of a wire host function.
type Status uint32

const (
	StatusOK Status = iota
	StatusUnexpectedEOF
	StatusInvalidDiscriminant
	StatusInvalidUTF8
	StatusIO
	StatusInvalidData
	StatusHandler
	StatusAllocation
	StatusOutOfBounds
)

var statusNames = [...]string{
	StatusOK:                  "ok",
	StatusUnexpectedEOF:       "unexpected_eof",
	StatusInvalidDiscriminant: "invalid_discriminant",
	StatusInvalidUTF8:         "invalid_utf8",
	StatusIO:                  "io",
	StatusInvalidData:         "invalid_data",
	StatusHandler:             "handler",
	StatusAllocation:          "allocation",
	StatusOutOfBounds:         "out_of_bounds",
}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("status(%d)", uint32(s))
}

var kindStatus = map[errors.Kind]Status{
	errors.KindUnexpectedEOF:       StatusUnexpectedEOF,
	errors.KindInvalidDiscriminant: StatusInvalidDiscriminant,
	errors.KindInvalidUTF8:         StatusInvalidUTF8,
	errors.KindIO:                  StatusIO,
	errors.KindReleased:            StatusIO,
	errors.KindInvalidData:         StatusInvalidData,
	errors.KindOverflow:            StatusInvalidData,
	errors.KindInvalidInput:        StatusInvalidData,
	errors.KindAllocation:          StatusAllocation,
	errors.KindNotFound:            StatusAllocation,
	errors.KindOutOfBounds:         StatusOutOfBounds,
}

// StatusOf maps err to the status a host function reports for it.
// Errors without a wire kind map to StatusHandler.
func StatusOf(err error) Status {
	if err == nil {
		return StatusOK
	}
	if k, ok := errors.KindOf(err); ok {
		if s, ok := kindStatus[k]; ok {
			return s
		}
	}
	return StatusHandler
}

var statusKind = map[Status]errors.Kind{
	StatusUnexpectedEOF:       errors.KindUnexpectedEOF,
	StatusInvalidDiscriminant: errors.KindInvalidDiscriminant,
	StatusInvalidUTF8:         errors.KindInvalidUTF8,
	StatusIO:                  errors.KindIO,
	StatusInvalidData:         errors.KindInvalidData,
	StatusHandler:             errors.KindHandler,
	StatusAllocation:          errors.KindAllocation,
	StatusOutOfBounds:         errors.KindOutOfBounds,
}

// StatusError converts a status returned by a host function back into an
// error. StatusOK yields nil.
func StatusError(s Status) error {
	if s == StatusOK {
		return nil
	}
	kind, ok := statusKind[s]
	if !ok {
		kind = errors.KindHandler
	}
	return errors.New(errors.PhaseBoundary, kind).
		Value(uint32(s)).
		Detail("host function returned status %s", s).
		Build()
}
