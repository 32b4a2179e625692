package transport

import "net/http"

// Decorator is a RoundTripper that decorates requests before they are executed
type Decorator struct {
	Decorator func(*http.Request) error
	Base      http.RoundTripper
}

func (t *Decorator) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.Decorator(req); err != nil {
		return nil, err
	}

	return t.Base.RoundTrip(req)
}

// DecorateHeaders wraps the given headers into a request decorator
func DecorateHeaders(headers map[string]string) func(*http.Request) error {
	return func(req *http.Request) error {
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		return nil
	}
}

// Default returns a clone of the default transport
func Default() *http.Transport {
	return http.DefaultTransport.(*http.Transport).Clone()
}
