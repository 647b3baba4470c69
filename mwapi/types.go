package mwapi

import (
	"encoding/json"
	"net/http"
)

type MWError struct {
	Code string `json:"code"`
	Info string `json:"info,omitempty"`
	Text string `json:"text,omitempty"`
	// Format version 1 puts the message under "*".
	Star string `json:"*,omitempty"`
}

// Envelope holds the top-level keys every action=query response may carry
// next to its payload. Warnings are keyed by the module that raised them.
type Envelope struct {
	Error    *MWError       `json:"error,omitempty"`
	Errors   []MWError      `json:"errors,omitempty"`
	Warnings map[string]any `json:"warnings,omitempty"`
}

type Response struct {
	StatusCode int
	Header     http.Header
	Envelope

	Raw json.RawMessage
}

func (r *Response) Into(out any) error {
	return json.Unmarshal(r.Raw, out)
}

// ContentType returns the raw Content-Type header value, or "" when absent.
func (r *Response) ContentType() string {
	if r == nil || r.Header == nil {
		return ""
	}
	return r.Header.Get("Content-Type")
}
