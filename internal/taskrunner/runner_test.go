package taskrunner_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.chromium.org/luci/common/clock/testclock"

	"github.com/explorationlab/explorations/internal/deferred"
	"github.com/explorationlab/explorations/internal/handlers"
	"github.com/explorationlab/explorations/internal/models"
	"github.com/explorationlab/explorations/internal/queue"
	"github.com/explorationlab/explorations/internal/queue/sqlqueue"
	"github.com/explorationlab/explorations/internal/store/sqlstore"
	"github.com/explorationlab/explorations/internal/store/sqlstore/migrations"
	"github.com/explorationlab/explorations/internal/taskrunner"
)

var _ = Describe("Runner", func() {
	var (
		ctx      context.Context
		db       *sql.DB
		q        *sqlqueue.TaskQueue
		clk      testclock.TestClock
		pool     *taskrunner.Pool
		registry *deferred.Registry
		runner   *taskrunner.Runner

		mu       sync.Mutex
		received []*http.Request
	)

	BeforeEach(func() {
		ctx = context.Background()
		clk = testclock.New(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
		received = nil

		var err error
		db, err = sqlstore.NewDB(":memory:")
		Expect(err).NotTo(HaveOccurred())
		Expect(migrations.Run(ctx, db)).To(Succeed())

		q = sqlqueue.New(db, clk.Now)
		Expect(q.CreateQueues(ctx, queue.Definitions{Queues: []queue.Definition{{Name: "search"}}})).To(Succeed())

		gin.SetMode(gin.TestMode)
		engine := gin.New()
		engine.POST("/tasks/ok", func(c *gin.Context) {
			mu.Lock()
			received = append(received, c.Request)
			mu.Unlock()
			c.Status(http.StatusOK)
		})
		engine.POST("/tasks/fail", func(c *gin.Context) {
			c.String(http.StatusInternalServerError, "nope")
		})

		registry = deferred.NewRegistry()
		pool = taskrunner.NewPool(2)
		runner = taskrunner.NewRunner(q, &taskrunner.Executor{Handler: engine, Deferred: registry}, pool, clk, time.Second, 2)
	})

	AfterEach(func() {
		pool.Close()
		if db != nil {
			db.Close()
		}
	})

	Describe("RunOnce", func() {
		// Given a task due now on the search queue
		// When the runner runs once
		// Then the task is POSTed with the queue headers and leaves the queue
		It("should run due tasks and remove them", func() {
			// Arrange
			Expect(q.Add(ctx, "search", &models.Task{Path: "/tasks/ok", Payload: []byte(`{"a":1}`)})).To(Succeed())

			// Act
			n, err := runner.RunOnce(ctx)

			// Assert
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(1))
			Expect(received).To(HaveLen(1))
			Expect(received[0].Header.Get(handlers.HeaderQueueName)).To(Equal("search"))
			Expect(received[0].Header.Get(handlers.HeaderTaskName)).NotTo(BeEmpty())
			Expect(received[0].ContentLength).To(Equal(int64(7)))

			pending, err := q.Pending(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(pending).To(BeEmpty())
		})

		It("should leave tasks with a future ETA alone", func() {
			Expect(q.Add(ctx, "search", &models.Task{Path: "/tasks/ok", ETA: clk.Now().Add(time.Minute)})).To(Succeed())

			n, err := runner.RunOnce(ctx)

			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(BeZero())
			pending, err := q.Pending(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(pending).To(HaveLen(1))

			clk.Add(time.Minute)
			n, err = runner.RunOnce(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(1))
		})

		It("should run deferred tasks through the registry", func() {
			called := make(chan string, 1)
			registry.Register("greet", func(ctx context.Context, args json.RawMessage) error {
				var name string
				if err := json.Unmarshal(args, &name); err != nil {
					return err
				}
				called <- name
				return nil
			})
			Expect(registry.Defer(ctx, q, models.DefaultQueue, "greet", "ada")).To(Succeed())

			n, err := runner.RunOnce(ctx)

			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(1))
			Expect(called).To(Receive(Equal("ada")))
		})

		// Given a task whose handler answers 500
		// When the runner runs once
		// Then the task is scheduled again later with its retry count raised
		It("should reschedule failed tasks with a backoff", func() {
			// Arrange
			Expect(q.Add(ctx, "search", &models.Task{Path: "/tasks/fail"})).To(Succeed())

			// Act
			n, err := runner.RunOnce(ctx)

			// Assert
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(BeZero())

			pending, err := q.Pending(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(pending).To(HaveLen(1))
			Expect(pending[0].Path).To(Equal("/tasks/fail"))
			Expect(pending[0].Header.Get(taskrunner.HeaderRetryCount)).To(Equal("1"))
			Expect(pending[0].ETA).To(BeTemporally("~", clk.Now().Add(time.Second), time.Millisecond))
		})

		It("should drop a task once it ran out of retries", func() {
			Expect(q.Add(ctx, "search", &models.Task{Path: "/tasks/fail"})).To(Succeed())

			for range 3 {
				_, err := runner.RunOnce(ctx)
				Expect(err).NotTo(HaveOccurred())
				clk.Add(time.Hour)
			}

			pending, err := q.Pending(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(pending).To(BeEmpty())
		})
	})

	Describe("Start", func() {
		It("should stop when the context is cancelled", func() {
			runCtx, cancel := context.WithCancel(ctx)
			done := make(chan struct{})
			go func() {
				runner.Start(runCtx)
				close(done)
			}()

			cancel()
			Eventually(done, 2*time.Second).Should(BeClosed())
		})
	})
})
