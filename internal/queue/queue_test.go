package queue_test

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.chromium.org/luci/common/clock/testclock"
	"go.chromium.org/luci/gae/impl/memory"

	"github.com/explorationlab/explorations/internal/models"
	"github.com/explorationlab/explorations/internal/queue"
	"github.com/explorationlab/explorations/internal/queue/gaequeue"
	"github.com/explorationlab/explorations/internal/queue/sqlqueue"
	"github.com/explorationlab/explorations/internal/store/sqlstore"
	"github.com/explorationlab/explorations/internal/store/sqlstore/migrations"
)

const definitions = `
queue:
- name: search
  rate: 1/s
- name: notifications
  rate: 1/s
`

var _ = Describe("Definitions", func() {
	It("should parse queue.yaml and always include the default queue", func() {
		defs, err := queue.ParseDefinitions([]byte(definitions))

		Expect(err).NotTo(HaveOccurred())
		Expect(defs.Queues).To(HaveLen(2))
		Expect(defs.Queues[0].Rate).To(Equal("1/s"))
		Expect(defs.Names()).To(Equal([]string{"default", "notifications", "search"}))
	})

	It("should reject a queue without a name", func() {
		_, err := queue.ParseDefinitions([]byte("queue:\n- rate: 1/s\n"))

		Expect(err).To(MatchError(ContainSubstring("no name")))
	})

	It("should load queue.yaml from a root path", func() {
		dir := GinkgoT().TempDir()
		Expect(os.WriteFile(filepath.Join(dir, queue.DefinitionsFile), []byte(definitions), 0o600)).To(Succeed())

		defs, err := queue.LoadDefinitions(dir)

		Expect(err).NotTo(HaveOccurred())
		Expect(defs.Names()).To(ContainElement("search"))
	})

	It("should fail when queue.yaml is missing", func() {
		_, err := queue.LoadDefinitions(GinkgoT().TempDir())

		Expect(err).To(HaveOccurred())
	})
})

type queueFactory struct {
	name string
	open func(now time.Time) (context.Context, queue.TaskQueue, func())
}

var queueFactories = []queueFactory{
	{
		name: "gae",
		open: func(now time.Time) (context.Context, queue.TaskQueue, func()) {
			defs, err := queue.ParseDefinitions([]byte(definitions))
			Expect(err).NotTo(HaveOccurred())

			ctx := memory.Use(context.Background())
			ctx, _ = testclock.UseTime(ctx, now)
			Expect(gaequeue.CreateQueues(ctx, defs)).To(Succeed())
			return ctx, gaequeue.New(), func() {}
		},
	},
	{
		name: "sql",
		open: func(now time.Time) (context.Context, queue.TaskQueue, func()) {
			defs, err := queue.ParseDefinitions([]byte(definitions))
			Expect(err).NotTo(HaveOccurred())

			ctx := context.Background()
			var db *sql.DB
			db, err = sqlstore.NewDB(":memory:")
			Expect(err).NotTo(HaveOccurred())
			Expect(migrations.Run(ctx, db)).To(Succeed())

			q := sqlqueue.New(db, func() time.Time { return now })
			Expect(q.CreateQueues(ctx, defs)).To(Succeed())
			return ctx, q, func() { db.Close() }
		},
	},
}

var _ = Describe("TaskQueue", func() {
	for _, f := range queueFactories {
		Describe(f.name, func() {
			var (
				ctx   context.Context
				q     queue.TaskQueue
				cleanup func()
				now   time.Time
			)

			BeforeEach(func() {
				now = time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)
				ctx, q, cleanup = f.open(now)
			})

			AfterEach(func() {
				cleanup()
			})

			It("should list every defined queue", func() {
				names, err := q.Queues(ctx)

				Expect(err).NotTo(HaveOccurred())
				Expect(names).To(Equal([]string{"default", "notifications", "search"}))
			})

			// Given tasks added to two queues
			// When we list pending tasks
			// Then queues come in name order and tasks in insertion order
			It("should return pending tasks in a stable order", func() {
				// Arrange
				for _, p := range []string{"/a", "/b", "/c"} {
					Expect(q.Add(ctx, "search", &models.Task{Path: p})).To(Succeed())
				}
				Expect(q.Add(ctx, "notifications", &models.Task{Path: "/n"})).To(Succeed())

				// Act
				pending, err := q.Pending(ctx)

				// Assert
				Expect(err).NotTo(HaveOccurred())
				paths := make([]string, 0, len(pending))
				for _, t := range pending {
					paths = append(paths, t.Path)
				}
				Expect(paths).To(Equal([]string{"/n", "/a", "/b", "/c"}))
			})

			It("should fill in task defaults", func() {
				t := &models.Task{Path: "/tasks/x", Payload: []byte("hello")}
				Expect(q.Add(ctx, "search", t)).To(Succeed())

				pending, err := q.Pending(ctx, "search")
				Expect(err).NotTo(HaveOccurred())
				Expect(pending).To(HaveLen(1))
				Expect(pending[0].Name).NotTo(BeEmpty())
				Expect(pending[0].Queue).To(Equal("search"))
				Expect(pending[0].Method).To(Equal(http.MethodPost))
				Expect(pending[0].Payload).To(Equal([]byte("hello")))
				Expect(pending[0].Header).NotTo(BeNil())
			})

			It("should keep headers", func() {
				h := http.Header{}
				h.Set("Content-Type", "application/json")
				Expect(q.Add(ctx, "search", &models.Task{Path: "/tasks/x", Header: h})).To(Succeed())

				pending, err := q.Pending(ctx, "search")
				Expect(err).NotTo(HaveOccurred())
				Expect(pending[0].Header.Get("Content-Type")).To(Equal("application/json"))
			})

			It("should filter by queue name", func() {
				Expect(q.Add(ctx, "search", &models.Task{Path: "/s"})).To(Succeed())
				Expect(q.Add(ctx, "notifications", &models.Task{Path: "/n"})).To(Succeed())

				pending, err := q.Pending(ctx, "search")

				Expect(err).NotTo(HaveOccurred())
				Expect(pending).To(HaveLen(1))
				Expect(pending[0].Path).To(Equal("/s"))
			})

			It("should reject unknown queues", func() {
				Expect(q.Add(ctx, "nope", &models.Task{Path: "/x"})).NotTo(Succeed())
			})

			It("should delete tasks", func() {
				Expect(q.Add(ctx, "search", &models.Task{Path: "/a"}, &models.Task{Path: "/b"})).To(Succeed())
				pending, err := q.Pending(ctx)
				Expect(err).NotTo(HaveOccurred())

				Expect(q.Delete(ctx, pending[0])).To(Succeed())

				pending, err = q.Pending(ctx)
				Expect(err).NotTo(HaveOccurred())
				Expect(pending).To(HaveLen(1))
				Expect(pending[0].Path).To(Equal("/b"))
			})
		})
	}
})
