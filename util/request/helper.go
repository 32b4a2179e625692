package request

import (
	"net/http"
	"time"

	"github.com/wad350/gwm-home-assistant/util"
	"github.com/wad350/gwm-home-assistant/util/transport"
)

// Timeout is the default request timeout
var Timeout = 30 * time.Second

// Helper provides utility primitives on top of the http client
type Helper struct {
	*http.Client
}

// NewHelper creates an http helper for simplified GET and JSON logic
func NewHelper(log *util.Logger) *Helper {
	return &Helper{
		Client: NewClient(log),
	}
}

// NewClient creates an http client with the logging tripper attached
func NewClient(log *util.Logger) *http.Client {
	return &http.Client{
		Timeout:   Timeout,
		Transport: NewTripper(log, transport.Default()),
	}
}

// DoBody executes an HTTP request and returns the response body
func (r *Helper) DoBody(req *http.Request) ([]byte, error) {
	resp, err := r.Do(req)

	var body []byte
	if err == nil {
		body, err = ReadBody(resp)
	}

	return body, err
}

// GetBody executes an HTTP GET request and returns the response body
func (r *Helper) GetBody(uri string) ([]byte, error) {
	req, err := New(http.MethodGet, uri, nil)
	if err != nil {
		return nil, err
	}

	return r.DoBody(req)
}

// DoJSON executes an HTTP request and decodes the JSON response.
// It returns a StatusError on response codes other than HTTP 2xx.
func (r *Helper) DoJSON(req *http.Request, res interface{}) error {
	resp, err := r.Do(req)
	if err == nil {
		defer resp.Body.Close()
		err = DecodeJSON(resp, res)
	}

	return err
}

// GetJSON executes an HTTP GET request and decodes the JSON response
func (r *Helper) GetJSON(uri string, res interface{}) error {
	req, err := New(http.MethodGet, uri, nil, AcceptJSON)
	if err == nil {
		err = r.DoJSON(req, res)
	}

	return err
}
