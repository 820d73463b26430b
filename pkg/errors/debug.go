package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
)

const maxChainDepth = 8

// ErrorDump is the log-only view of an error. Nothing in it is sent to clients.
type ErrorDump struct {
	TopMessage string `json:"top_message"`
	Code       Code   `json:"code,omitempty"`
	Retryable  bool   `json:"retryable,omitempty"`

	Chain []string `json:"chain,omitempty"`

	UpstreamStatus int         `json:"upstream_status,omitempty"`
	Fields         FieldErrors `json:"fields,omitempty"`

	TransportOp  string `json:"transport_op,omitempty"`
	TransportURL string `json:"transport_url,omitempty"`
	Timeout      bool   `json:"timeout,omitempty"`
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}
	d := ErrorDump{TopMessage: err.Error()}

	if te := As(err); te != nil {
		d.Code = te.Code()
		d.Retryable = MetadataFor(te.Code()).Retryable
		d.UpstreamStatus = te.UpstreamStatus()
		d.Fields = te.Fields()
	}

	for e, depth := err, 0; e != nil && depth < maxChainDepth; e, depth = errors.Unwrap(e), depth+1 {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		d.TransportOp = urlErr.Op
		d.TransportURL = redactURL(urlErr.URL)
	}
	var netErr net.Error
	d.Timeout = errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout())
	return d
}

// redactURL keeps scheme, host and path; query strings can carry shopper input.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	u.RawQuery = ""
	u.User = nil
	u.Fragment = ""
	return u.String()
}
