package testbed_test

import (
	"io"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/explorationlab/explorations/internal/handlers"
	"github.com/explorationlab/explorations/pkg/testbed"
)

var _ = Describe("DecodeEnvelope", func() {
	It("should strip the prefix and decode the document", func() {
		var v map[string]any

		err := testbed.DecodeEnvelope("application/javascript; charset=utf-8", []byte(handlers.JSONPrefix+`{"a": [1, 2]}`), &v)

		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal(map[string]any{"a": []any{1.0, 2.0}}))
	})

	DescribeTable("should reject responses that are not JSON envelopes",
		func(contentType, body string) {
			var v map[string]any

			err := testbed.DecodeEnvelope(contentType, []byte(body), &v)

			Expect(err).To(MatchError(testbed.ErrUnexpectedContentType))
		},
		Entry("html", "text/html; charset=utf-8", handlers.JSONPrefix+`{}`),
		Entry("plain json", "application/json", `{}`),
		Entry("no content type", "", handlers.JSONPrefix+`{}`),
		Entry("missing prefix", "application/javascript", `{}`),
	)

	It("should report invalid JSON after the prefix", func() {
		var v map[string]any

		err := testbed.DecodeEnvelope("application/javascript", []byte(handlers.JSONPrefix+`{`), &v)

		Expect(err).To(HaveOccurred())
		Expect(err).NotTo(MatchError(testbed.ErrUnexpectedContentType))
	})
})

var _ = Describe("ExtractCSRFToken", func() {
	It("should find the token embedded in a page", func() {
		page := []byte(`<script>
    var GLOBALS = {
      csrf_token: JSON.parse('\"abcDEF012_-\"'),
    };
</script>`)

		token, err := testbed.ExtractCSRFToken(page)

		Expect(err).NotTo(HaveOccurred())
		Expect(token).To(Equal("abcDEF012_-"))
	})

	It("should accept the issued token alphabet", func() {
		token, err := testbed.ExtractCSRFToken([]byte(`csrf_token: JSON.parse('\"1700000000/aGVsbG8=\"')`))

		Expect(err).NotTo(HaveOccurred())
		Expect(token).To(Equal("1700000000/aGVsbG8="))
	})

	It("should return ErrTokenNotFound without a token", func() {
		_, err := testbed.ExtractCSRFToken([]byte(`<html>csrf_token: "plain"</html>`))

		Expect(err).To(MatchError(testbed.ErrTokenNotFound))
	})
})

var _ = Describe("FetchStub", func() {
	var stub *testbed.FetchStub

	BeforeEach(func() {
		stub = testbed.NewFetchStub()
	})

	It("should answer registered URLs and record requests", func() {
		stub.Register("http://example.com/a", http.StatusOK, "text/plain", []byte("hello"))

		resp, err := stub.Client().Get("http://example.com/a")
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
		Expect(resp.Header.Get("Content-Type")).To(Equal("text/plain"))
		Expect(string(body)).To(Equal("hello"))
		Expect(stub.Requests()).To(Equal([]string{"http://example.com/a"}))
	})

	It("should answer unknown URLs with 404", func() {
		resp, err := stub.Client().Get("http://example.com/missing")
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()

		Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
	})

	It("should keep responders to the stub they were registered on", func() {
		// Given two stubs, only one of them knowing the URL
		other := testbed.NewFetchStub()
		stub.Register("http://example.com/a", http.StatusOK, "", []byte("hello"))

		// When the other stub is asked for it
		resp, err := other.Client().Get("http://example.com/a")

		// Then it answers 404 and records the request on its own
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
		Expect(other.Requests()).To(Equal([]string{"http://example.com/a"}))
		Expect(stub.Requests()).To(BeEmpty())
	})

	It("should answer only GET requests", func() {
		stub.Register("http://example.com/a", http.StatusOK, "", []byte("hello"))

		resp, err := stub.Client().Post("http://example.com/a", "text/plain", nil)

		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
	})

	It("should forget everything on Reset", func() {
		stub.Register("http://example.com/a", http.StatusOK, "", nil)
		_, err := stub.Client().Get("http://example.com/a")
		Expect(err).NotTo(HaveOccurred())

		stub.Reset()

		Expect(stub.Requests()).To(BeEmpty())
		resp, err := stub.Client().Get("http://example.com/a")
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
	})
})
