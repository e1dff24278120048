package sqlstore

// Config property queries
const (
	queryGetConfigProperty = `
		SELECT value FROM config_properties WHERE name = ?`

	queryUpsertConfigProperty = `
		INSERT INTO config_properties (name, value, updated_at)
		VALUES (?, ?, now())
		ON CONFLICT (name) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = now()`
)

// User settings queries
const (
	queryUpsertUserSettings = `
		INSERT INTO user_settings (user_id, email, username, agreed_to_terms, registered_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			email = EXCLUDED.email,
			username = EXCLUDED.username,
			agreed_to_terms = EXCLUDED.agreed_to_terms`
)

// Exploration queries
const (
	queryUpsertExploration = `
		INSERT INTO explorations (id, owner_id, title, category, objective, init_state_name,
			states, version, published, indexed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			owner_id = EXCLUDED.owner_id,
			title = EXCLUDED.title,
			category = EXCLUDED.category,
			objective = EXCLUDED.objective,
			init_state_name = EXCLUDED.init_state_name,
			states = EXCLUDED.states,
			version = EXCLUDED.version,
			published = EXCLUDED.published,
			indexed = EXCLUDED.indexed,
			updated_at = EXCLUDED.updated_at`

	queryDeleteExploration = `DELETE FROM explorations WHERE id = ?`
)

// tables lists every model table; DeleteAll empties them in this order.
var tables = []string{"explorations", "config_properties", "user_settings"}
