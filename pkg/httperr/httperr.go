package httperr

import "errors"

const defaultBadRequestCode = "invalid_request"

// BadRequestError marks input the caller can fix. Code is the stable error
// code written to the response envelope.
type BadRequestError struct {
	code string
	msg  string
}

func (e *BadRequestError) Error() string { return e.msg }

func (e *BadRequestError) Code() string {
	if e.code == "" {
		return defaultBadRequestCode
	}
	return e.code
}

func NewBadRequest(msg string) error { return &BadRequestError{msg: msg} }

func NewBadRequestCode(code string, msg string) error {
	return &BadRequestError{code: code, msg: msg}
}

func IsBadRequest(err error) bool {
	_, ok := errors.AsType[*BadRequestError](err)
	return ok
}

// Code returns the stable code of a BadRequestError in err's chain.
func Code(err error) (string, bool) {
	e, ok := errors.AsType[*BadRequestError](err)
	if !ok {
		return "", false
	}
	return e.Code(), true
}
