package testutil

import (
	"net/http"

	"waterquality/pkg/requestcontext"
)

// WithRequestID sets the request ID the way the request middleware would.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}

// WithClient attaches client metadata as the metadata middleware would.
func WithClient(req *http.Request, ip, userAgent string) *http.Request {
	ctx := requestcontext.WithClientMetadata(req.Context(), ip, userAgent, false)
	return req.WithContext(ctx)
}
