package errors

import "errors"

// As is errors.As specialised to *Error.
func As(err error, target **Error) bool {
	return errors.As(err, target)
}

// Is forwards to the standard library so callers need only this package.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// GetCode extracts the Code from err. Non-engine errors map to CodeInternal.
func GetCode(err error) Code {
	if err == nil {
		return CodeOK
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// GetMessage extracts the user-facing message from err.
func GetMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsInsufficientResource reports whether err carries CodeInsufficientResource.
func IsInsufficientResource(err error) bool { return GetCode(err) == CodeInsufficientResource }

// IsNotPrepared reports whether err carries CodeNotPrepared.
func IsNotPrepared(err error) bool { return GetCode(err) == CodeNotPrepared }

// IsInvalidOperation reports whether err carries CodeInvalidOperation.
func IsInvalidOperation(err error) bool { return GetCode(err) == CodeInvalidOperation }

// IsNotFound reports whether err carries CodeNotFound.
func IsNotFound(err error) bool { return GetCode(err) == CodeNotFound }

// IsDuplicateID reports whether err carries CodeDuplicateID.
func IsDuplicateID(err error) bool { return GetCode(err) == CodeDuplicateID }

// IsParseError reports whether err carries CodeParseError.
func IsParseError(err error) bool { return GetCode(err) == CodeParseError }

// IsCancelled reports whether err carries CodeCancelled.
func IsCancelled(err error) bool { return GetCode(err) == CodeCancelled }
