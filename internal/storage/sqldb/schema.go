package sqldb

import "strings"

type dialect struct {
	name     string
	replacer *strings.Replacer
}

func (d dialect) rewrite(stmt string) string {
	return d.replacer.Replace(stmt)
}

var sqliteDialect = dialect{
	name: "sqlite",
	replacer: strings.NewReplacer(
		"{{pk}}", "INTEGER PRIMARY KEY AUTOINCREMENT",
		"{{money}}", "VARCHAR(32)",
		"{{engine}}", "",
	),
}

var mysqlDialect = dialect{
	name: "mysql",
	replacer: strings.NewReplacer(
		"{{pk}}", "BIGINT AUTO_INCREMENT PRIMARY KEY",
		"{{money}}", "DECIMAL(14,2)",
		"{{engine}}", "ENGINE=InnoDB DEFAULT CHARSET=utf8mb4",
	),
}

var masterSchema = []string{
	`CREATE TABLE IF NOT EXISTS companies (
		id            VARCHAR(36) PRIMARY KEY,
		name          VARCHAR(160) NOT NULL,
		cnpj          VARCHAR(14) NOT NULL DEFAULT '',
		database_name VARCHAR(64) NOT NULL UNIQUE,
		is_active     BOOLEAN NOT NULL DEFAULT TRUE,
		created_at    VARCHAR(32) NOT NULL
	) {{engine}}`,
	`CREATE TABLE IF NOT EXISTS users (
		id            {{pk}},
		username      VARCHAR(64) NOT NULL UNIQUE,
		name          VARCHAR(160) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		role          VARCHAR(16) NOT NULL,
		permissions   VARCHAR(255) NOT NULL DEFAULT '',
		is_active     BOOLEAN NOT NULL DEFAULT TRUE
	) {{engine}}`,
}

var tenantSchema = []string{
	`CREATE TABLE IF NOT EXISTS settings (
		name       VARCHAR(64) PRIMARY KEY,
		value      VARCHAR(255) NOT NULL,
		updated_at VARCHAR(32) NOT NULL
	) {{engine}}`,
	`CREATE TABLE IF NOT EXISTS cost_centers (
		id          {{pk}},
		name        VARCHAR(120) NOT NULL UNIQUE,
		description VARCHAR(255) NOT NULL DEFAULT '',
		is_active   BOOLEAN NOT NULL DEFAULT TRUE
	) {{engine}}`,
	`CREATE TABLE IF NOT EXISTS workers (
		id             {{pk}},
		name           VARCHAR(160) NOT NULL,
		cpf            VARCHAR(11) NOT NULL UNIQUE,
		phone          VARCHAR(32) NOT NULL DEFAULT '',
		is_active      BOOLEAN NOT NULL DEFAULT TRUE,
		admission_date VARCHAR(10) NOT NULL,
		deactivated_at VARCHAR(10) NULL
	) {{engine}}`,
	`CREATE TABLE IF NOT EXISTS diarias (
		id             {{pk}},
		worker_id      BIGINT NOT NULL,
		cost_center_id BIGINT NULL,
		work_date      VARCHAR(10) NOT NULL,
		value          {{money}} NOT NULL,
		description    VARCHAR(255) NOT NULL DEFAULT '',
		paid           BOOLEAN NOT NULL DEFAULT FALSE,
		FOREIGN KEY (worker_id) REFERENCES workers (id),
		FOREIGN KEY (cost_center_id) REFERENCES cost_centers (id)
	) {{engine}}`,
	`CREATE TABLE IF NOT EXISTS servicos (
		id             {{pk}},
		worker_id      BIGINT NOT NULL,
		cost_center_id BIGINT NULL,
		work_date      VARCHAR(10) NOT NULL,
		description    VARCHAR(255) NOT NULL DEFAULT '',
		quantity       {{money}} NOT NULL,
		unit_value     {{money}} NOT NULL,
		value          {{money}} NOT NULL,
		FOREIGN KEY (worker_id) REFERENCES workers (id),
		FOREIGN KEY (cost_center_id) REFERENCES cost_centers (id)
	) {{engine}}`,
	`CREATE TABLE IF NOT EXISTS productions (
		id             {{pk}},
		name           VARCHAR(160) NOT NULL,
		start_date     VARCHAR(10) NOT NULL,
		end_date       VARCHAR(10) NULL,
		status         VARCHAR(16) NOT NULL,
		total_quantity BIGINT NOT NULL DEFAULT 0,
		total_value    {{money}} NOT NULL
	) {{engine}}`,
	`CREATE TABLE IF NOT EXISTS production_days (
		id             {{pk}},
		production_id  BIGINT NOT NULL,
		work_date      VARCHAR(10) NOT NULL,
		total_quantity BIGINT NOT NULL,
		unit_price     {{money}} NOT NULL,
		total_value    {{money}} NOT NULL,
		FOREIGN KEY (production_id) REFERENCES productions (id)
	) {{engine}}`,
	`CREATE TABLE IF NOT EXISTS production_divisions (
		id          {{pk}},
		day_id      BIGINT NOT NULL,
		position    INT NOT NULL,
		quantity    BIGINT NOT NULL,
		description VARCHAR(255) NOT NULL DEFAULT '',
		value       {{money}} NOT NULL,
		FOREIGN KEY (day_id) REFERENCES production_days (id)
	) {{engine}}`,
	`CREATE TABLE IF NOT EXISTS production_participants (
		id          {{pk}},
		division_id BIGINT NOT NULL,
		worker_id   BIGINT NOT NULL,
		quantity    BIGINT NOT NULL,
		value       {{money}} NOT NULL,
		FOREIGN KEY (division_id) REFERENCES production_divisions (id),
		FOREIGN KEY (worker_id) REFERENCES workers (id)
	) {{engine}}`,
	`CREATE TABLE IF NOT EXISTS worker_production_totals (
		production_id BIGINT NOT NULL,
		worker_id     BIGINT NOT NULL,
		total_units   BIGINT NOT NULL,
		total_value   {{money}} NOT NULL,
		PRIMARY KEY (production_id, worker_id),
		FOREIGN KEY (production_id) REFERENCES productions (id),
		FOREIGN KEY (worker_id) REFERENCES workers (id)
	) {{engine}}`,
}
