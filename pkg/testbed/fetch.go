package testbed

import (
	"net/http"
	"sync"

	"github.com/jarcoal/httpmock"
)

// FetchStub answers the application's outbound GET requests with canned
// responses. Unknown URLs get a 404. Each stub owns its transport, so
// stubs of different test beds never see each other's responders.
type FetchStub struct {
	transport *httpmock.MockTransport

	mu       sync.Mutex
	requests []string
}

func NewFetchStub() *FetchStub {
	f := &FetchStub{transport: httpmock.NewMockTransport()}
	f.registerNotFound()
	return f
}

// Register makes a GET of url answer with status and body.
func (f *FetchStub) Register(url string, status int, contentType string, body []byte) {
	f.transport.RegisterResponder(http.MethodGet, url, f.record(func(*http.Request) (*http.Response, error) {
		resp := httpmock.NewBytesResponse(status, body)
		if contentType != "" {
			resp.Header.Set("Content-Type", contentType)
		}
		return resp, nil
	}))
}

// Requests returns the URLs fetched so far, in order.
func (f *FetchStub) Requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

// Reset forgets every registered response and recorded request.
func (f *FetchStub) Reset() {
	f.transport.Reset()
	f.registerNotFound()

	f.mu.Lock()
	f.requests = nil
	f.mu.Unlock()
}

// Client returns an HTTP client served by the stub.
func (f *FetchStub) Client() *http.Client {
	return &http.Client{Transport: f.transport}
}

func (f *FetchStub) registerNotFound() {
	f.transport.RegisterNoResponder(f.record(httpmock.NewStringResponder(http.StatusNotFound, "not found")))
}

func (f *FetchStub) record(next httpmock.Responder) httpmock.Responder {
	return func(req *http.Request) (*http.Response, error) {
		f.mu.Lock()
		f.requests = append(f.requests, req.URL.String())
		f.mu.Unlock()
		return next(req)
	}
}
