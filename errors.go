package drips

import "fmt"

// ErrorCode identifies the category of a client-side failure.
// Every error produced by this library before a network call carries one.
type ErrorCode string

const (
	// ErrCodeArgumentMissing indicates a required argument was nil or empty.
	ErrCodeArgumentMissing ErrorCode = "argument_missing"
	// ErrCodeArgumentRange indicates a numeric argument violated its sign
	// or bit-width constraint.
	ErrCodeArgumentRange ErrorCode = "argument_range"
	// ErrCodeConfigRange indicates a receiver configuration field does not
	// fit its allotted bit segment in the packed representation.
	ErrCodeConfigRange ErrorCode = "config_range"
	// ErrCodeAddress indicates a string failed address-format validation.
	ErrCodeAddress ErrorCode = "address"
	// ErrCodeDuplicateReceiver indicates two receiver entries share the
	// same identifying key.
	ErrCodeDuplicateReceiver ErrorCode = "duplicate_receiver"
	// ErrCodeTooManyReceivers indicates a drips receiver list exceeds the
	// protocol maximum.
	ErrCodeTooManyReceivers ErrorCode = "too_many_receivers"
	// ErrCodeTooManySplitsReceivers indicates a splits receiver list
	// exceeds the protocol maximum.
	ErrCodeTooManySplitsReceivers ErrorCode = "too_many_splits_receivers"
	// ErrCodeReceiverConfig indicates an invalid drips receiver
	// configuration (including a zero rate).
	ErrCodeReceiverConfig ErrorCode = "receiver_config"
	// ErrCodeSplitsReceiver indicates an invalid splits receiver entry.
	ErrCodeSplitsReceiver ErrorCode = "splits_receiver"
	// ErrCodeSignerMissing indicates a write operation was attempted on a
	// read-only client.
	ErrCodeSignerMissing ErrorCode = "signer_missing"
	// ErrCodeUnsupportedNetwork indicates the chain ID is not in the
	// supported network table.
	ErrCodeUnsupportedNetwork ErrorCode = "unsupported_network"
	// ErrCodeInvalidCycleLength indicates a non-positive cycle duration.
	ErrCodeInvalidCycleLength ErrorCode = "invalid_cycle_length"
	// ErrCodeSubgraph indicates a failure talking to the indexing service.
	ErrCodeSubgraph ErrorCode = "subgraph"
	// ErrCodeContract indicates a failure invoking the contract interface.
	ErrCodeContract ErrorCode = "contract"
)

// Error is the structured error type returned by all validation and client
// operations. Argument and Value name the offending input when known, so
// callers can build actionable messages without parsing the error string.
type Error struct {
	Code     ErrorCode
	Message  string
	Argument string
	Value    any
	Err      error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Argument != "" {
		msg = fmt.Sprintf("%s: %s=%v", msg, e.Argument, e.Value)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same code, so callers can compare against
// the exported sentinels with errors.Is without caring about the argument
// detail carried by a particular instance.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Sentinels for errors.Is comparisons. The errors actually returned carry
// the offending argument name and value on top of the code.
var (
	ErrArgumentMissing        = &Error{Code: ErrCodeArgumentMissing, Message: "required argument is missing"}
	ErrArgumentRange          = &Error{Code: ErrCodeArgumentRange, Message: "argument out of range"}
	ErrConfigRange            = &Error{Code: ErrCodeConfigRange, Message: "receiver config field out of range"}
	ErrInvalidAddress         = &Error{Code: ErrCodeAddress, Message: "invalid address"}
	ErrDuplicateReceiver      = &Error{Code: ErrCodeDuplicateReceiver, Message: "duplicate receiver"}
	ErrTooManyReceivers       = &Error{Code: ErrCodeTooManyReceivers, Message: "too many drips receivers"}
	ErrTooManySplitsReceivers = &Error{Code: ErrCodeTooManySplitsReceivers, Message: "too many splits receivers"}
	ErrReceiverConfig         = &Error{Code: ErrCodeReceiverConfig, Message: "invalid drips receiver config"}
	ErrSplitsReceiver         = &Error{Code: ErrCodeSplitsReceiver, Message: "invalid splits receiver"}
	ErrSignerMissing          = &Error{Code: ErrCodeSignerMissing, Message: "operation requires a signer but the client is read-only"}
	ErrUnsupportedNetwork     = &Error{Code: ErrCodeUnsupportedNetwork, Message: "unsupported network"}
	ErrInvalidCycleLength     = &Error{Code: ErrCodeInvalidCycleLength, Message: "cycle duration must be positive"}
)

func newError(code ErrorCode, message, argument string, value any) *Error {
	return &Error{Code: code, Message: message, Argument: argument, Value: value}
}

// wrap attaches the underlying cause and returns the error.
func (e *Error) wrap(err error) *Error {
	e.Err = err
	return e
}

func errArgumentMissing(argument string) *Error {
	return newError(ErrCodeArgumentMissing, "required argument is missing", argument, nil)
}

func errArgumentRange(message, argument string, value any) *Error {
	return newError(ErrCodeArgumentRange, message, argument, value)
}

func errConfigRange(message, argument string, value any) *Error {
	return newError(ErrCodeConfigRange, message, argument, value)
}

func errContract(operation string, err error) *Error {
	return &Error{Code: ErrCodeContract, Message: fmt.Sprintf("contract call %s failed", operation), Err: err}
}
