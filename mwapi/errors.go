package mwapi

import (
	"errors"
	"fmt"
)

type MediaWikiApiError struct {
	Code       string
	Message    string
	HTTPStatus int
	Errors     []MWError
	Response   *Response
}

func (e *MediaWikiApiError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	if e.Message == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func IsMediaWikiApiError(err error) (*MediaWikiApiError, bool) {
	var e *MediaWikiApiError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// ResponseReason names the transport expectation a response failed.
type ResponseReason string

const (
	ReasonStatus      ResponseReason = "status"
	ReasonContentType ResponseReason = "content-type"
)

// ResponseError reports a response whose status or Content-Type is not the
// one the caller required. The body is never inspected in that case.
type ResponseError struct {
	Reason      ResponseReason
	HTTPStatus  int
	ContentType string
	Response    *Response
}

func (e *ResponseError) Error() string {
	switch e.Reason {
	case ReasonContentType:
		return fmt.Sprintf("unexpected Content-Type %q (status %d)", e.ContentType, e.HTTPStatus)
	default:
		return fmt.Sprintf("unexpected status %d", e.HTTPStatus)
	}
}

func IsResponseError(err error) (*ResponseError, bool) {
	var e *ResponseError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// DecodeError wraps a failure to turn a response body into the expected shape.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func IsDecodeError(err error) (*DecodeError, bool) {
	var e *DecodeError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
