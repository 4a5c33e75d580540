package db

import (
	"context"
	"database/sql"
	"fmt"

	"travelagency/internal/utils"
)

type tableDDL struct {
	name string
	ddl  string
}

var schema = []tableDDL{
	{"bookings", `
CREATE TABLE IF NOT EXISTS bookings (
	id                  CHAR(36)     NOT NULL PRIMARY KEY,
	agent_id            CHAR(36)     NOT NULL,
	contact_name        VARCHAR(255) NOT NULL DEFAULT '',
	contact_email       VARCHAR(255) NOT NULL DEFAULT '',
	contact_mobile      VARCHAR(64)  NOT NULL DEFAULT '',
	contact_state       VARCHAR(128) NOT NULL DEFAULT '',
	package_id          CHAR(36)     NULL,
	package_name        VARCHAR(255) NOT NULL,
	agent_commission    DOUBLE       NOT NULL DEFAULT 0,
	base_total          DOUBLE       NOT NULL,
	total_amount        DOUBLE       NOT NULL,
	status              VARCHAR(16)  NOT NULL DEFAULT 'pending',
	created_at          DATETIME(6)  NOT NULL,
	updated_at          DATETIME(6)  NOT NULL,
	vehicle_id          CHAR(36)     NULL,
	vehicle_name        VARCHAR(255) NOT NULL DEFAULT '',
	pickup_date         DATETIME     NULL,
	pickup_time         VARCHAR(32)  NOT NULL DEFAULT '',
	pickup_location     VARCHAR(255) NOT NULL DEFAULT '',
	drop_date           DATETIME     NULL,
	drop_time           VARCHAR(32)  NOT NULL DEFAULT '',
	drop_location       VARCHAR(255) NOT NULL DEFAULT '',
	adults_total        INT          NOT NULL,
	children            INT          NOT NULL DEFAULT 0,
	infants             INT          NOT NULL DEFAULT 0,
	entry_ticket_needed TINYINT(1)   NOT NULL DEFAULT 0,
	snow_world_needed   TINYINT(1)   NOT NULL DEFAULT 0,
	breakfast           TINYINT(1)   NOT NULL DEFAULT 0,
	lunch_veg           TINYINT(1)   NOT NULL DEFAULT 0,
	lunch_non_veg       TINYINT(1)   NOT NULL DEFAULT 0,
	guide_needed        TINYINT(1)   NOT NULL DEFAULT 0,
	hotel_id            CHAR(36)     NULL,
	hotel_name          VARCHAR(255) NOT NULL DEFAULT '',
	food_plan           VARCHAR(64)  NOT NULL DEFAULT '',
	rooms               INT          NOT NULL DEFAULT 0,
	extra_beds          INT          NOT NULL DEFAULT 0,
	KEY idx_bookings_agent (agent_id, created_at),
	KEY idx_bookings_created (created_at),
	KEY idx_bookings_status (status)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{"default_package_bookings", `
CREATE TABLE IF NOT EXISTS default_package_bookings (
	id                      CHAR(36)     NOT NULL PRIMARY KEY,
	agent_id                CHAR(36)     NOT NULL,
	contact_name            VARCHAR(255) NOT NULL DEFAULT '',
	contact_email           VARCHAR(255) NOT NULL DEFAULT '',
	contact_mobile          VARCHAR(64)  NOT NULL DEFAULT '',
	contact_state           VARCHAR(128) NOT NULL DEFAULT '',
	package_id              CHAR(36)     NULL,
	package_name            VARCHAR(255) NOT NULL,
	agent_commission        DOUBLE       NOT NULL DEFAULT 0,
	base_total              DOUBLE       NOT NULL,
	total_amount            DOUBLE       NOT NULL,
	status                  VARCHAR(16)  NOT NULL DEFAULT 'pending',
	created_at              DATETIME(6)  NOT NULL,
	updated_at              DATETIME(6)  NOT NULL,
	pickup_date             DATETIME     NULL,
	outbound_departure_time DATETIME     NULL,
	outbound_arrival_time   DATETIME     NULL,
	outbound_flight         VARCHAR(64)  NOT NULL DEFAULT '',
	drop_date               DATETIME     NULL,
	return_departure_time   DATETIME     NULL,
	return_arrival_time     DATETIME     NULL,
	return_flight           VARCHAR(64)  NOT NULL DEFAULT '',
	adults_total            INT          NOT NULL,
	children_with_bed       INT          NOT NULL DEFAULT 0,
	children_without_bed    INT          NOT NULL DEFAULT 0,
	infants                 INT          NOT NULL DEFAULT 0,
	KEY idx_default_bookings_agent (agent_id, created_at),
	KEY idx_default_bookings_created (created_at),
	KEY idx_default_bookings_status (status)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{"notifications", `
CREATE TABLE IF NOT EXISTS notifications (
	id           CHAR(36)     NOT NULL PRIMARY KEY,
	title        VARCHAR(255) NOT NULL,
	message      TEXT         NOT NULL,
	type         VARCHAR(16)  NOT NULL DEFAULT 'system',
	status       VARCHAR(16)  NULL,
	recipient_id CHAR(36)     NULL,
	booking_id   CHAR(36)     NULL,
	created_at   DATETIME(6)  NOT NULL,
	updated_at   DATETIME(6)  NOT NULL,
	KEY idx_notifications_recipient (recipient_id, created_at),
	KEY idx_notifications_type (type, status)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{"agents", `
CREATE TABLE IF NOT EXISTS agents (
	id            CHAR(36)     NOT NULL PRIMARY KEY,
	full_name     VARCHAR(255) NOT NULL,
	email         VARCHAR(255) NOT NULL,
	mobile_number VARCHAR(64)  NOT NULL,
	company_name  VARCHAR(255) NOT NULL DEFAULT '',
	state         VARCHAR(128) NOT NULL DEFAULT '',
	password_hash VARCHAR(255) NOT NULL,
	approval      VARCHAR(16)  NOT NULL DEFAULT 'pending',
	created_at    DATETIME(6)  NOT NULL,
	updated_at    DATETIME(6)  NOT NULL,
	UNIQUE KEY uq_agents_email (email),
	KEY idx_agents_approval (approval)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{"admins", `
CREATE TABLE IF NOT EXISTS admins (
	id            CHAR(36)     NOT NULL PRIMARY KEY,
	name          VARCHAR(255) NOT NULL,
	email         VARCHAR(255) NOT NULL,
	password_hash VARCHAR(255) NOT NULL,
	role          VARCHAR(32)  NOT NULL DEFAULT 'Admin',
	created_at    DATETIME(6)  NOT NULL,
	UNIQUE KEY uq_admins_email (email)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
}

// EnsureSchema creates any missing table. Existing tables are left untouched.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("database is not connected")
	}
	for _, t := range schema {
		if HasTable(ctx, db, t.name) {
			continue
		}
		if _, err := db.ExecContext(ctx, t.ddl); err != nil {
			return fmt.Errorf("create table %s: %w", t.name, err)
		}
		utils.LogEvent("", "schema", "create_table", t.name)
	}
	return nil
}
