// Package handlers implements the HTTP layer of the explorations site.
//
// Handlers parse and validate requests, call the services layer and write
// responses. They never touch storage or queues directly.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                     HTTP Request (Gin)                          │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│  auth.Authenticate (session cookie → identity)                  │
//	│  requireLogin / requireSuperAdmin / requireCSRF                 │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│                      Handler (this package)                     │
//	│  - payload schema validation                                    │
//	│  - error mapping to HTTP status codes                           │
//	│  - JSON envelope and HTML page rendering                        │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│                      Services Layer                             │
//	│  Exploration │ Config │ User │ Asset                            │
//	└─────────────────────────────────────────────────────────────────┘
//
// # Handler Structure
//
// All handlers are methods on a single Handler struct built from Deps.
// Register adds every route to a gin router:
//
//	h := handlers.New(handlers.Deps{...})
//	h.Register(router)
//
// Services are called with h.ctx(c), which is the request context on the
// SQL platform and the emulator context on the App Engine platform.
//
// # Endpoints
//
// Pages (HTML, embed a csrf token in GLOBALS):
//
//	┌────────┬───────────────────────┬──────────────────────────────────┐
//	│ Method │ Endpoint              │ Access                           │
//	├────────┼───────────────────────┼──────────────────────────────────┤
//	│ GET    │ /                     │ anyone                           │
//	│ GET    │ /admin                │ super admin                      │
//	│ GET    │ /editor_prerequisites │ logged in                        │
//	└────────┴───────────────────────┴──────────────────────────────────┘
//
// JSON endpoints (state-changing ones require csrf_token):
//
//	┌────────┬────────────────────────────────────┬──────────────────────────┐
//	│ Method │ Endpoint                           │ Description              │
//	├────────┼────────────────────────────────────┼──────────────────────────┤
//	│ GET    │ /adminhandler                      │ list config properties   │
//	│ POST   │ /adminhandler                      │ save config / import     │
//	│ POST   │ /editor_prerequisites_handler/data │ register as editor       │
//	│ POST   │ /contributehandler/create_new      │ create exploration       │
//	│ GET    │ /explorehandler/init/:id           │ read exploration         │
//	│ PUT    │ /createhandler/data/:id            │ update exploration       │
//	│ POST   │ /createhandler/publish/:id         │ publish exploration      │
//	│ POST   │ /createhandler/imageupload/:id     │ upload image (multipart) │
//	│ GET    │ /imagehandler/:id/:filename        │ serve image (raw bytes)  │
//	└────────┴────────────────────────────────────┴──────────────────────────┘
//
// Task endpoints (reject requests without X-AppEngine-QueueName):
//
//	┌────────┬──────────────────────────┬─────────────────────────────────┐
//	│ Method │ Endpoint                 │ Description                     │
//	├────────┼──────────────────────────┼─────────────────────────────────┤
//	│ POST   │ /tasks/index_exploration │ mark a published exploration    │
//	│        │                          │ as indexed                      │
//	│ POST   │ /_ah/queue/deferred      │ run a deferred call descriptor  │
//	└────────┴──────────────────────────┴─────────────────────────────────┘
//
// # Request Format
//
// JSON endpoints read a single form field, "payload", holding a JSON
// document. The document is validated against a JSON schema before it is
// decoded into the request struct:
//
//	payload={"title": "Maths", "category": "Algebra"}&csrf_token=1700000000/...
//
// # Response Format
//
// Every JSON response is prefixed with )]}' and a newline and sent as
// application/javascript:
//
//	)]}'
//	{"exploration_id": "a1b2c3d4e5f6"}
//
// Errors use the same envelope:
//
//	)]}'
//	{"error": "invalid csrf token: missing token", "code": 403}
//
// # Error Mapping
//
//	┌───────────────────────────┬─────────────┐
//	│ Error                     │ HTTP Status │
//	├───────────────────────────┼─────────────┤
//	│ ValidationError           │ 400         │
//	│ UnauthorizedError         │ 401         │
//	│ ForbiddenError            │ 403         │
//	│ InvalidCSRFError          │ 403         │
//	│ ResourceNotFoundError     │ 404         │
//	│ VersionMismatchError      │ 409         │
//	│ anything else             │ 500         │
//	└───────────────────────────┴─────────────┘
//
// Messages of 500 responses are replaced with "internal server error" and
// the real error is logged.
//
// # CSRF Tokens
//
// Pages embed the token for the caller in the GLOBALS script block:
//
//	var GLOBALS = {
//	  csrf_token: JSON.parse('\"1700000000/aGVsbG8...\"'),
//	  ...
//	};
//
// Tokens are bound to the caller's user id and expire after
// auth.csrf-token-ttl.
//
// # Logging
//
// Handlers log through zap.S().Named("<area>_handler"). Access logs come
// from the ginzap middleware installed by the server package.
package handlers
