package server_test

import (
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/explorationlab/explorations/internal/server"
)

var _ = Describe("StripPlatformHeaders", func() {
	It("should drop the X-AppEngine headers and keep the rest", func() {
		// Given a request carrying task headers next to ordinary ones
		var seen http.Header
		handler := server.StripPlatformHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = r.Header.Clone()
			w.WriteHeader(http.StatusNoContent)
		}))
		req := httptest.NewRequest(http.MethodPost, "/_ah/queue/deferred", nil)
		req.Header.Set("X-AppEngine-QueueName", "default")
		req.Header.Set("X-AppEngine-TaskName", "task-1")
		req.Header.Set("X-AppEngine-TaskRetryCount", "0")
		req.Header["x-appengine-cron"] = []string{"true"}
		req.Header.Set("X-Requested-With", "XMLHttpRequest")

		// When the request goes through the handler
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		// Then only the ordinary headers are left
		Expect(rec.Code).To(Equal(http.StatusNoContent))
		Expect(seen).NotTo(HaveKey("X-Appengine-Queuename"))
		Expect(seen).NotTo(HaveKey("X-Appengine-Taskname"))
		Expect(seen).NotTo(HaveKey("X-Appengine-Taskretrycount"))
		Expect(seen).NotTo(HaveKey("x-appengine-cron"))
		Expect(seen.Get("X-Requested-With")).To(Equal("XMLHttpRequest"))
	})
})
