// Package store defines the storage layer of the explorations site.
//
// The Store facade groups one repository per kind of record. Two backends
// implement the repositories:
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                         Store (facade)                          │
//	├─────────────────────────────────────────────────────────────────┤
//	│  ExplorationStore │ ConfigPropertyStore │ UserStore │ Cleaner   │
//	└─────────────────────────────────────────────────────────────────┘
//	             │                                     │
//	             ▼                                     ▼
//	┌────────────────────────────┐      ┌────────────────────────────┐
//	│  gaestore                  │      │  sqlstore                  │
//	│  App Engine datastore      │      │  DuckDB + squirrel         │
//	│  (+ memcache for config)   │      │  (+ schema migrations)     │
//	└────────────────────────────┘      └────────────────────────────┘
//
// # Records
//
//	┌──────────────────┬───────────────────────┬─────────────────────────┐
//	│ Record           │ gaestore kind         │ sqlstore table          │
//	├──────────────────┼───────────────────────┼─────────────────────────┤
//	│ Exploration      │ Exploration           │ explorations            │
//	│ config property  │ ConfigProperty        │ config_properties       │
//	│ UserSettings     │ UserSettings          │ user_settings           │
//	│ queued Task      │ (task queue service)  │ tasks, queues           │
//	└──────────────────┴───────────────────────┴─────────────────────────┘
//
// Exploration states are stored as one JSON document in both backends.
//
// # Usage
//
//	// SQL backend
//	db, _ := sqlstore.NewDB(":memory:")
//	s, _ := sqlstore.New(ctx, db) // runs migrations
//	defer s.Close()
//
//	// App Engine backend; ctx must carry the emulator
//	s := gaestore.New()
//
//	exp, err := s.Exploration().Get(ctx, "exp0")
//	if srvErrors.IsResourceNotFoundError(err) { ... }
//
// # Listing
//
// List takes functional options that both backends understand:
//
//	s.Exploration().List(ctx,
//	    store.ByOwner(userID),
//	    store.ByPublished(true),
//	    store.WithOffset(20),
//	    store.WithLimit(10),
//	)
//
// Results are ordered by creation time, then id.
//
// # Errors
//
// Missing records are reported as *errors.ResourceNotFoundError. Every
// other error comes from the backend unchanged.
//
// # Cleaning
//
// DeleteAll removes every record of every kind. The test harness calls it
// between tests.
package store
