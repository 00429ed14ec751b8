package native

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Result is a native API status code
type Result int32

const (
	ResultOK Result = iota
	ResultInvalidArg
	ResultOutOfMemory
	ResultDeviceRemoved
	ResultDeviceReset
	ResultDeviceHung
	ResultUnsupported
)

var resultMapping = map[Result]string{
	ResultOK:            "ResultOK",
	ResultInvalidArg:    "ResultInvalidArg",
	ResultOutOfMemory:   "ResultOutOfMemory",
	ResultDeviceRemoved: "ResultDeviceRemoved",
	ResultDeviceReset:   "ResultDeviceReset",
	ResultDeviceHung:    "ResultDeviceHung",
	ResultUnsupported:   "ResultUnsupported",
}

func (r Result) String() string {
	str, ok := resultMapping[r]
	if !ok {
		return fmt.Sprintf("Result(%d)", int32(r))
	}
	return str
}

// ResultError is returned by native methods that fail with a status code
type ResultError struct {
	Code Result
	Op   string
}

func NewResultError(op string, code Result) *ResultError {
	return &ResultError{Code: code, Op: op}
}

func (e *ResultError) Error() string {
	return fmt.Sprintf("%s failed: %s", e.Op, e.Code)
}

// IsDeviceLost reports whether err (or anything it wraps) indicates the device was removed, reset,
// or hung. Every resource created from the device must be recreated after this happens.
func IsDeviceLost(err error) bool {
	var resultErr *ResultError
	if !errors.As(err, &resultErr) {
		return false
	}

	switch resultErr.Code {
	case ResultDeviceRemoved, ResultDeviceReset, ResultDeviceHung:
		return true
	default:
		return false
	}
}
