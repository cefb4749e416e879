// Package code defines the error values shared across the client.
//
// Errors carry a stable kind, the HTTP status code they map to, a human
// message and the verbatim detail strings returned by the PUG REST backend.
// Use errors.Is against the exported values to branch on kind.
package code

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind is the machine-checkable error category.
type Kind string

const (
	KindInvalidArgument  Kind = "invalid_argument"
	KindResponseParse    Kind = "response_parse"
	KindTransport        Kind = "transport"
	KindCanceled         Kind = "canceled"
	KindBadRequest       Kind = "bad_request"
	KindNotFound         Kind = "not_found"
	KindMethodNotAllowed Kind = "method_not_allowed"
	KindServerError      Kind = "server_error"
	KindUnimplemented    Kind = "unimplemented"
	KindServerBusy       Kind = "server_busy"
	KindTimeout          Kind = "timeout"
	KindGeneric          Kind = "generic"
)

// Error is the concrete error type returned by this module.
type Error struct {
	Kind    Kind
	Code    int // HTTP status code, 0 when unknown
	Msg     string
	Details []string
	cause   error
}

var (
	InvalidArgumentErr = &Error{Kind: KindInvalidArgument, Msg: "invalid argument"}
	ResponseParseErr   = &Error{Kind: KindResponseParse, Msg: "response is uninterpretable"}
	TransportErr       = &Error{Kind: KindTransport, Msg: "transport failure"}
	CanceledErr        = &Error{Kind: KindCanceled, Msg: "request canceled"}

	BadRequestErr       = &Error{Kind: KindBadRequest, Code: 400, Msg: "request is improperly formed"}
	NotFoundErr         = &Error{Kind: KindNotFound, Code: 404, Msg: "input record was not found"}
	MethodNotAllowedErr = &Error{Kind: KindMethodNotAllowed, Code: 405, Msg: "request not allowed"}
	ServerErr           = &Error{Kind: KindServerError, Code: 500, Msg: "problem on the server side"}
	UnimplementedErr    = &Error{Kind: KindUnimplemented, Code: 501, Msg: "operation has not been implemented"}
	ServerBusyErr       = &Error{Kind: KindServerBusy, Code: 503, Msg: "too many requests or server busy"}
	TimeoutErr          = &Error{Kind: KindTimeout, Code: 504, Msg: "request timed out"}
	GenericHTTPErr      = &Error{Kind: KindGeneric, Msg: "unexpected backend error"}
)

func (e *Error) Error() string {
	out := "pugrest: " + e.Msg
	if e.Code != 0 {
		out = fmt.Sprintf("pugrest: HTTP %d %s", e.Code, e.Msg)
	}
	if len(e.Details) > 0 {
		out = fmt.Sprintf("%s (%s)", out, strings.Join(e.Details, ", "))
	}
	return out
}

func (e *Error) Unwrap() error { return e.cause }

// Is matches on kind so sentinels work with errors.Is after WithMsg etc.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// WithMsg returns a copy of e with the message replaced.
func (e *Error) WithMsg(msg string) *Error {
	ne := *e
	ne.Msg = msg
	return &ne
}

// WithMsgf returns a copy of e with a formatted message.
func (e *Error) WithMsgf(format string, args ...any) *Error {
	return e.WithMsg(fmt.Sprintf(format, args...))
}

// WithErr returns a copy of e wrapping err as its cause.
func (e *Error) WithErr(err error) *Error {
	ne := *e
	ne.cause = err
	if err != nil {
		ne.Msg = fmt.Sprintf("%s: %v", e.Msg, err)
	}
	return &ne
}

// WithDetails returns a copy of e carrying the given detail strings verbatim.
func (e *Error) WithDetails(details []string) *Error {
	ne := *e
	ne.Details = details
	return &ne
}

// withCode returns a copy of e with the numeric code replaced.
func (e *Error) withCode(c int) *Error {
	ne := *e
	ne.Code = c
	return &ne
}

// fault is the PUG REST error envelope: {"Fault":{"Code","Message","Details"}}.
type fault struct {
	Fault struct {
		Code    string   `json:"Code"`
		Message string   `json:"Message"`
		Details []string `json:"Details"`
	} `json:"Fault"`
}

var statusMap = map[int]*Error{
	400: BadRequestErr,
	404: NotFoundErr,
	405: MethodNotAllowedErr,
	500: ServerErr,
	501: UnimplementedErr,
	503: ServerBusyErr,
	504: TimeoutErr,
}

// FromStatus classifies a non-success HTTP status with its response body.
// The body is probed for the Fault envelope: the fault code becomes the
// message, concatenated as "Code: Message" when both fields are present,
// and detail strings are preserved in order. Unmapped status codes map to
// GenericHTTPErr retaining the original code.
func FromStatus(status int, body []byte) *Error {
	base, ok := statusMap[status]
	if !ok {
		base = GenericHTTPErr.withCode(status)
	}

	msg := base.Msg
	var details []string
	var f fault
	if err := json.Unmarshal(body, &f); err == nil && f.Fault.Code != "" {
		msg = f.Fault.Code
		if f.Fault.Message != "" {
			msg = f.Fault.Code + ": " + f.Fault.Message
		}
		details = f.Fault.Details
	}
	return base.WithMsg(msg).WithDetails(details)
}

// keyword table in priority order, first match wins.
var keywordMap = []struct {
	keyword string
	err     *Error
}{
	{"BadRequest", BadRequestErr},
	{"NotFound", NotFoundErr},
	{"ServerBusy", ServerBusyErr},
	{"Timeout", TimeoutErr},
	{"ServerError", ServerErr},
}

// FromError classifies a native error by scanning its text for the fixed
// category keywords. No match yields GenericHTTPErr with code 0.
func FromError(err error) *Error {
	msg := err.Error()
	for _, entry := range keywordMap {
		if strings.Contains(msg, entry.keyword) {
			return entry.err.WithMsg(msg)
		}
	}
	return GenericHTTPErr.WithMsg(msg)
}
