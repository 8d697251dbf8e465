package http

import "net/http"

// headerTransport stamps fixed headers on every outbound request.
type headerTransport struct {
	headers   map[string]string
	transport http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	reqCopy := req.Clone(req.Context())

	for key, value := range t.headers {
		if value != "" {
			reqCopy.Header.Set(key, value)
		}
	}

	return t.transport.RoundTrip(reqCopy)
}

// WithAuthToken sends the token as a bearer credential. An empty token is not sent.
func WithAuthToken(token string) HttpOpts {
	if token == "" {
		return WithHeaders(nil)
	}
	return WithHeaders(map[string]string{"Authorization": "Bearer " + token})
}

// WithHeaders adds static headers to every request.
func WithHeaders(headers map[string]string) HttpOpts {
	return WithTransport(func(rt http.RoundTripper) http.RoundTripper {
		if len(headers) == 0 {
			return rt
		}
		return &headerTransport{
			headers:   headers,
			transport: rt,
		}
	})
}
