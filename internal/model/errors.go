package model

import "fmt"

var (
	_ error = ConfigurationError{}
	_ error = StoreError{}
	_ error = DecodeError{}
	_ error = EncodeError{}
	_ error = InvalidArgumentError{}
)

type ConfigurationError struct {
	Param string
}

func (err ConfigurationError) Error() string {
	return fmt.Sprintf("missing required param: %s", err.Param)
}

// StoreError wraps any failure reported by backing store.
// Original error is available via errors.Is / errors.As.
type StoreError struct {
	Op  string
	Key string
	Err error
}

func (err StoreError) Error() string {
	return fmt.Sprintf("store %s for %s: %v", err.Op, err.Key, err.Err)
}

func (err StoreError) Unwrap() error {
	return err.Err
}

type DecodeError struct {
	Field string
	Raw   string
	Err   error
}

func (err DecodeError) Error() string {
	return fmt.Sprintf("cannot deserialize value for %s: %q: %v", err.Field, err.Raw, err.Err)
}

func (err DecodeError) Unwrap() error {
	return err.Err
}

type EncodeError struct {
	Field string
	Value any
	Err   error
}

func (err EncodeError) Error() string {
	return fmt.Sprintf("cannot serialize value for %s: %v: %v", err.Field, err.Value, err.Err)
}

func (err EncodeError) Unwrap() error {
	return err.Err
}

type InvalidArgumentError struct {
	Arg    string
	Reason string
}

func (err InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %s: %s", err.Arg, err.Reason)
}
