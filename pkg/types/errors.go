package types

import (
	"errors"
	"fmt"
)

// Wallet core errors. Every error returned by the derivation, address,
// message-building and signing code wraps exactly one of these.
var (
	ErrInvalidMnemonic    = errors.New("invalid mnemonic")
	ErrInvalidPath        = errors.New("invalid derivation path")
	ErrUnsupportedNetwork = errors.New("unsupported network")
	ErrInvalidMessage     = errors.New("invalid message")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrSigning            = errors.New("signing error")
	ErrSerialization      = errors.New("serialization error")
)

// Stage identifies which part of the wallet core produced an error.
type Stage string

const (
	StageDerivation Stage = "derivation"
	StageAddress    Stage = "address"
	StageMessage    Stage = "message"
	StageSigning    Stage = "signing"
)

// StageError tags an error with the stage that produced it.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Errorf builds a StageError wrapping kind with a formatted detail message.
// kind should be one of the package sentinels so errors.Is keeps working.
func Errorf(stage Stage, kind error, format string, args ...interface{}) error {
	return &StageError{
		Stage: stage,
		Err:   fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...)),
	}
}

// StageOf reports the stage recorded on err, if any.
func StageOf(err error) (Stage, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage, true
	}
	return "", false
}

// IsUserInputError returns true when the error can only be fixed by the
// user supplying a different mnemonic or derivation path. Signing and
// serialization failures are not in this class: callers should refresh
// account metadata and sign again instead.
func IsUserInputError(err error) bool {
	return errors.Is(err, ErrInvalidMnemonic) || errors.Is(err, ErrInvalidPath)
}
