package conversation

import (
	"errors"
	"fmt"
)

var errNegativeDuration = errors.New("negative duration")

// PayloadError reports a malformed button payload.
type PayloadError struct {
	Payload string
	Err     error
}

func (e *PayloadError) Error() string {
	return fmt.Sprintf("malformed payload %q: %v", e.Payload, e.Err)
}

func (e *PayloadError) Unwrap() error { return e.Err }

// Code identifies the error class for log lines.
func (e *PayloadError) Code() string { return "PAYLOAD_PARSE_FAILURE" }

// StoreError reports a failed activity store write. The user's state is
// left untouched so resending the same input retries the operation.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Code identifies the error class for log lines.
func (e *StoreError) Code() string { return "STORE_WRITE_FAILURE" }
