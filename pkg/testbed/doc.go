// Package testbed runs the explorations application in process for tests.
//
// A TestBed starts an emulated cloud platform, builds the application on top
// of it and drives the application's HTTP handlers directly, without a
// network listener. Tests log in as fake users, send requests, read JSON
// responses and drain the task queue synchronously.
//
// # Architecture Overview
//
//	┌──────────────────────────────────────────────────────────────┐
//	│                        Test (ginkgo)                          │
//	└──────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌──────────────────────────────────────────────────────────────┐
//	│                          TestBed                              │
//	│  Environment ── Session, stash slot                           │
//	│  Client ─────── Get / GetJSON / PostJSON / PutJSON            │
//	│  Drain ──────── ProcessAndFlushPendingTasks                   │
//	│  Fixtures ───── SaveNew*Exploration, RegisterEditor, SetAdmins│
//	└──────────────────────────────────────────────────────────────┘
//	          │                                   │
//	          ▼                                   ▼
//	┌──────────────────────┐        ┌──────────────────────────────┐
//	│ app.App (gin engine) │◄───────│ Backend                      │
//	│ handlers, services   │        │  GAEBackend: luci gae memory │
//	└──────────────────────┘        │  SQLBackend: DuckDB          │
//	                                └──────────────────────────────┘
//
// # Lifecycle
//
//	tb := testbed.New(testbed.WithBackend(testbed.NewSQLBackend()))
//	Expect(tb.SetUp()).To(Succeed())
//	DeferCleanup(tb.TearDown)
//
// SetUp resets the configuration to a fixed baseline (auth domain
// example.com, host localhost:8080, anonymous caller, consistent datastore)
// and starts every emulated service: datastore, memcache, task queue with
// the queues of queue.yaml, mail capture, blob storage on an in-memory S3
// server, and the outbound fetch stub. TearDown logs out, deletes every
// record and stops the services, so nothing leaks from one test to the next.
//
// # Sessions
//
// The current caller is a Session held by the TestBed. Every request carries
// it as a signed session cookie. Login replaces the caller, Logout makes it
// anonymous.
//
// Stash saves the caller in a single slot and returns a guard:
//
//	guard, err := tb.Stash()
//	if err != nil { ... }
//	defer guard.Restore()
//	tb.Login("admin@example.com", true)
//
// A second Stash before a restore fails with ErrNoActiveSession. Restore
// without a pending stash fails with ErrNothingStashed. The guard's Restore
// is safe to call more than once.
//
// # Requests
//
// PostJSON and PutJSON send the payload JSON encoded in the "payload" form
// field, plus a "csrf_token" field when WithCSRFToken is given. The response
// must have the expected status (200 unless ExpectStatus or ExpectErrors is
// given) and must be a JSON envelope:
//
//	Content-Type: application/javascript; charset=utf-8
//
//	)]}'
//	{"exploration_id": "exp0"}
//
// Pages embed their csrf token as
//
//	csrf_token: JSON.parse('\"<token>\"')
//
// and ExtractCSRFToken reads it back.
//
// # Draining the task queue
//
// ProcessAndFlushPendingTasks loops until no task is pending:
//
//	┌──────────┐   ┌───────┐   ┌─────────┐   ┌──────────────┐
//	│ snapshot │──►│ flush │──►│ execute │──►│ pending now? │──► none: done
//	└──────────┘   └───────┘   └─────────┘   └──────────────┘
//	      ▲                                          │ some
//	      └──────────────────────────────────────────┘
//
// Deferred tasks run through the deferred registry; other tasks are POSTed
// to their path with their payload and headers. Any task that fails stops
// the drain with a TaskExecutionError. After MaxDrainIterations rounds the
// drain gives up with ErrDrainLimitExceeded.
//
// Queues are drained in name order. Within a queue tasks run in the order
// they were added.
package testbed
