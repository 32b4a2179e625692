package request

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// JSONContent is the JSON mime type
const JSONContent = "application/json"

// AcceptJSON accepts JSON response
var AcceptJSON = map[string]string{
	"Accept": JSONContent,
}

// JSONEncoding sets JSON request and response types
var JSONEncoding = map[string]string{
	"Content-Type": JSONContent,
	"Accept":       JSONContent,
}

// New builds an HTTP request with the given headers applied
func New(method, uri string, body io.Reader, headers ...map[string]string) (*http.Request, error) {
	req, err := http.NewRequest(strings.ToUpper(method), uri, body)
	if err == nil {
		for _, headers := range headers {
			for k, v := range headers {
				req.Header.Set(k, v)
			}
		}
	}

	return req, err
}

// MarshalJSON marshals a JSON request body
func MarshalJSON(data interface{}) io.Reader {
	body, err := json.Marshal(data)
	if err != nil {
		return nil
	}

	return bytes.NewReader(body)
}

// StatusError indicates an unsuccessful HTTP response
type StatusError struct {
	resp *http.Response
}

// NewStatusError creates a status error from the given response
func NewStatusError(resp *http.Response) StatusError {
	return StatusError{resp: resp}
}

func (e StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %d (%s)", e.resp.StatusCode, http.StatusText(e.resp.StatusCode))
}

// Response returns the response with the unexpected error
func (e StatusError) Response() *http.Response {
	return e.resp
}

// StatusCode returns the response's status code
func (e StatusError) StatusCode() int {
	return e.resp.StatusCode
}

// HasStatus returns whether the response's status code matches any of the given codes
func (e StatusError) HasStatus(codes ...int) bool {
	for _, code := range codes {
		if e.resp.StatusCode == code {
			return true
		}
	}
	return false
}

// ReadBody reads the HTTP response and returns its body
func ReadBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err == nil && (resp.StatusCode < 200 || resp.StatusCode >= 300) {
		err = NewStatusError(resp)
	}

	return b, err
}

// DecodeJSON decodes the HTTP response's JSON body
func DecodeJSON(resp *http.Response, res interface{}) error {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return NewStatusError(resp)
	}

	return json.NewDecoder(resp.Body).Decode(&res)
}
