package main

// schemaDDL creates the full schema. Statements are idempotent so the seeder
// can run repeatedly against the same database.
var schemaDDL = []string{
	`CREATE TABLE IF NOT EXISTS items (
		id            UUID PRIMARY KEY,
		code          TEXT NOT NULL UNIQUE,
		description   TEXT NOT NULL,
		unit_price    NUMERIC(14,2) NOT NULL DEFAULT 0,
		active        BOOLEAN NOT NULL DEFAULT TRUE,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS movements (
		id                 UUID PRIMARY KEY,
		item_id            UUID NOT NULL REFERENCES items(id),
		tenant_id          TEXT NOT NULL,
		kind               TEXT NOT NULL,
		quantity           BIGINT NOT NULL CHECK (quantity > 0),
		movement_date      TIMESTAMPTZ NOT NULL,
		registered_at      TIMESTAMPTZ NOT NULL,
		previous_quantity  BIGINT NOT NULL,
		current_quantity   BIGINT NOT NULL,
		note               TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_movements_replay
		ON movements (tenant_id, item_id, movement_date, registered_at)`,
	`CREATE INDEX IF NOT EXISTS idx_movements_registered
		ON movements (tenant_id, registered_at DESC)`,

	`CREATE TABLE IF NOT EXISTS sales (
		id                UUID PRIMARY KEY,
		tenant_id         TEXT NOT NULL,
		sale_type         TEXT NOT NULL,
		informed_value    NUMERIC(14,2) NOT NULL DEFAULT 0,
		freight_value     NUMERIC(14,2) NOT NULL DEFAULT 0,
		extra_value       NUMERIC(14,2) NOT NULL DEFAULT 0,
		commission_value  NUMERIC(14,2) NOT NULL DEFAULT 0,
		postage_value     NUMERIC(14,2) NOT NULL DEFAULT 0,
		sale_date         TIMESTAMPTZ NOT NULL,
		note              TEXT NOT NULL DEFAULT '',
		created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sales_tenant_date
		ON sales (tenant_id, sale_date)`,

	`CREATE TABLE IF NOT EXISTS sale_lines (
		sale_id     UUID NOT NULL REFERENCES sales(id),
		line_no     INT NOT NULL,
		item_id     UUID NOT NULL REFERENCES items(id),
		quantity    BIGINT NOT NULL CHECK (quantity > 0),
		unit_price  NUMERIC(14,2) NOT NULL,
		PRIMARY KEY (sale_id, line_no)
	)`,

	`CREATE TABLE IF NOT EXISTS expenses (
		id            UUID PRIMARY KEY,
		tenant_id     TEXT NOT NULL,
		category      TEXT NOT NULL,
		description   TEXT NOT NULL,
		value         NUMERIC(14,2) NOT NULL,
		expense_date  TIMESTAMPTZ NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_expenses_tenant_date
		ON expenses (tenant_id, expense_date)`,

	`CREATE TABLE IF NOT EXISTS users (
		id             UUID PRIMARY KEY,
		tenant_id      TEXT NOT NULL,
		email          TEXT NOT NULL UNIQUE,
		password_hash  TEXT NOT NULL,
		display_name   TEXT NOT NULL DEFAULT '',
		is_admin       BOOLEAN NOT NULL DEFAULT FALSE,
		active         BOOLEAN NOT NULL DEFAULT TRUE,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		last_login_at  TIMESTAMPTZ NOT NULL DEFAULT 'epoch'
	)`,

	`CREATE TABLE IF NOT EXISTS sys_audit (
		id                  UUID PRIMARY KEY,
		entity_type         TEXT NOT NULL,
		entity_id           UUID NOT NULL,
		action              TEXT NOT NULL,
		user_id             TEXT NOT NULL DEFAULT '',
		user_email          TEXT NOT NULL DEFAULT '',
		changes             JSONB,
		changes_compressed  BYTEA,
		compression_algo    TEXT NOT NULL DEFAULT 'none',
		created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sys_audit_entity
		ON sys_audit (entity_type, entity_id, created_at DESC)`,
}
