package errors

// Code identifies an error kind.
type Code string

// Error codes.
const (
	CodeOK                   Code = "OK"
	CodeInsufficientResource Code = "INSUFFICIENT_RESOURCE"
	CodeNotPrepared          Code = "NOT_PREPARED"
	CodeInvalidOperation     Code = "INVALID_OPERATION"
	CodeNotFound             Code = "NOT_FOUND"
	CodeDuplicateID          Code = "DUPLICATE_ID"
	CodeParseError           Code = "PARSE_ERROR"
	CodeCancelled            Code = "CANCELLED"
	CodeInternal             Code = "INTERNAL"
)

// String returns the string representation of the code.
func (c Code) String() string {
	return string(c)
}
