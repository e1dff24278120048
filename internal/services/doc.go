// Package services holds the business logic of the explorations site.
//
//	┌──────────────────────┬──────────────────────────────────────────────┐
//	│ Service              │ Responsibility                               │
//	├──────────────────────┼──────────────────────────────────────────────┤
//	│ ExplorationService   │ create, update, publish, import explorations │
//	│ ConfigService        │ admin-editable config properties and roles   │
//	│ UserService          │ editor registration                          │
//	│ AssetService         │ exploration images in blob storage           │
//	└──────────────────────┴──────────────────────────────────────────────┘
//
// # Publishing
//
// Publishing validates the exploration strictly, saves it and schedules two
// background jobs:
//
//	Publish(ctx, caller, id)
//	    ├── exp.Validate(true)
//	    ├── store.Save (version + 1, published)
//	    ├── queue "search":        POST /tasks/index_exploration
//	    └── queue "notifications": deferred notify_moderators
//
// Neither job runs inside the request. On the development server the task
// runner picks them up; in tests the harness drains the queues.
//
// # Roles
//
// A caller may edit an exploration when they own it, are a super admin,
// are listed in admin_emails or are listed in moderator_emails. Only the
// owner may publish.
//
// # Errors
//
// Services return the typed errors of pkg/errors so handlers can map them
// to status codes.
package services
