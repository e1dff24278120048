package testbed

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/explorationlab/explorations/internal/auth"
	"github.com/explorationlab/explorations/internal/handlers"
)

// Response is what the application answered to a test request.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// UploadFile is a multipart file sent with a request.
type UploadFile struct {
	Field    string
	Filename string
	Content  []byte
}

type requestOptions struct {
	csrfToken      string
	expectErrors   bool
	expectedStatus int
	uploads        []UploadFile
}

type RequestOption func(*requestOptions)

func WithCSRFToken(token string) RequestOption {
	return func(o *requestOptions) {
		o.csrfToken = token
	}
}

// ExpectErrors accepts any status code. The body must still be a JSON envelope.
func ExpectErrors() RequestOption {
	return func(o *requestOptions) {
		o.expectErrors = true
	}
}

// ExpectStatus sets the status code the response must have (default 200).
func ExpectStatus(status int) RequestOption {
	return func(o *requestOptions) {
		o.expectedStatus = status
	}
}

// WithUploadFiles sends the request as multipart/form-data with files.
func WithUploadFiles(files ...UploadFile) RequestOption {
	return func(o *requestOptions) {
		o.uploads = append(o.uploads, files...)
	}
}

// Get fetches url as the current session and requires a 200 response.
func (tb *TestBed) Get(url string) (*Response, error) {
	req := httptest.NewRequest(http.MethodGet, url, nil)
	resp, err := tb.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.Status != http.StatusOK {
		return resp, fmt.Errorf("%w: GET %s returned %d, want %d", ErrUnexpectedStatus, url, resp.Status, http.StatusOK)
	}
	return resp, nil
}

// GetJSON fetches url and decodes the JSON envelope, which must hold an
// object. The status must be 200.
func (tb *TestBed) GetJSON(url string) (map[string]any, error) {
	var v map[string]any
	if err := tb.GetJSONInto(url, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// GetJSONInto fetches url and decodes the JSON envelope into v, which may
// be any value json.Unmarshal accepts.
func (tb *TestBed) GetJSONInto(url string, v any) error {
	resp, err := tb.Get(url)
	if err != nil {
		return err
	}
	return DecodeEnvelope(resp.Header.Get("Content-Type"), resp.Body, v)
}

// PostJSON sends payload as the "payload" form field and decodes the
// JSON envelope of the response, which must hold an object.
func (tb *TestBed) PostJSON(url string, payload any, opts ...RequestOption) (map[string]any, error) {
	var v map[string]any
	if err := tb.PostJSONInto(url, payload, &v, opts...); err != nil {
		return nil, err
	}
	return v, nil
}

// PutJSON is PostJSON with the PUT method.
func (tb *TestBed) PutJSON(url string, payload any, opts ...RequestOption) (map[string]any, error) {
	var v map[string]any
	if err := tb.PutJSONInto(url, payload, &v, opts...); err != nil {
		return nil, err
	}
	return v, nil
}

// PostJSONInto is PostJSON decoding the response into v.
func (tb *TestBed) PostJSONInto(url string, payload, v any, opts ...RequestOption) error {
	return tb.sendJSON(http.MethodPost, url, payload, v, opts...)
}

// PutJSONInto is PutJSON decoding the response into v.
func (tb *TestBed) PutJSONInto(url string, payload, v any, opts ...RequestOption) error {
	return tb.sendJSON(http.MethodPut, url, payload, v, opts...)
}

func (tb *TestBed) sendJSON(method, target string, payload, v any, opts ...RequestOption) error {
	o := requestOptions{expectedStatus: http.StatusOK}
	for _, opt := range opts {
		opt(&o)
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	fields := url.Values{handlers.PayloadField: {string(encoded)}}
	if o.csrfToken != "" {
		fields.Set(auth.CSRFField, o.csrfToken)
	}

	var (
		body        io.Reader
		contentType string
	)
	if len(o.uploads) > 0 {
		body, contentType, err = multipartBody(fields, o.uploads)
		if err != nil {
			return err
		}
	} else {
		body = strings.NewReader(fields.Encode())
		contentType = "application/x-www-form-urlencoded"
	}

	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", contentType)

	resp, err := tb.Do(req)
	if err != nil {
		return err
	}
	if !o.expectErrors && resp.Status != o.expectedStatus {
		return fmt.Errorf("%w: %s %s returned %d, want %d: %s", ErrUnexpectedStatus, method, target, resp.Status, o.expectedStatus, resp.Body)
	}
	return DecodeEnvelope(resp.Header.Get("Content-Type"), resp.Body, v)
}

// Do serves req with the application as the current session.
func (tb *TestBed) Do(req *http.Request) (*Response, error) {
	if !tb.setUp {
		return nil, ErrNotSetUp
	}

	if s := tb.env.Current(); !s.IsAnonymous() {
		token, err := tb.app.Sessions.Encode(s.Identity())
		if err != nil {
			return nil, err
		}
		req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: token})
	}

	rec := httptest.NewRecorder()
	tb.app.Engine.ServeHTTP(rec, req)

	return &Response{
		Status: rec.Code,
		Header: rec.Header(),
		Body:   rec.Body.Bytes(),
	}, nil
}

func multipartBody(fields url.Values, files []UploadFile) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, values := range fields {
		for _, v := range values {
			if err := w.WriteField(name, v); err != nil {
				return nil, "", err
			}
		}
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.Field, f.Filename)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(f.Content); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
