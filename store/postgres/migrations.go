package postgres

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the gridbill store.
var Migrations = migrate.NewGroup("gridbill")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_gridbill_agents",
			Version: "20240101000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS gridbill_agents (
    doc_id        TEXT PRIMARY KEY,
    partition_key TEXT NOT NULL DEFAULT '',
    agent_id      BIGINT NOT NULL DEFAULT 0,
    name          TEXT NOT NULL DEFAULT '',
    location      TEXT NOT NULL DEFAULT '',
    password_hash TEXT NOT NULL DEFAULT '',
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_gridbill_agents_part ON gridbill_agents (partition_key, agent_id);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS gridbill_agents`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_gridbill_prepaid",
			Version: "20240101000002",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS gridbill_prepaid (
    doc_id           TEXT PRIMARY KEY,
    partition_key    TEXT NOT NULL DEFAULT '',
    customer_id      BIGINT NOT NULL DEFAULT 0,
    name             TEXT NOT NULL DEFAULT '',
    location         TEXT NOT NULL DEFAULT '',
    meter_no         TEXT NOT NULL DEFAULT '',
    balance_amount   BIGINT NOT NULL DEFAULT 0,
    balance_currency TEXT NOT NULL DEFAULT 'bdt',
    recharge_at      TIMESTAMPTZ,
    password_hash    TEXT NOT NULL DEFAULT '',
    created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_gridbill_prepaid_part ON gridbill_prepaid (partition_key, customer_id);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS gridbill_prepaid`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_gridbill_postpaid",
			Version: "20240101000003",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS gridbill_postpaid (
    doc_id        TEXT PRIMARY KEY,
    partition_key TEXT NOT NULL DEFAULT '',
    customer_id   BIGINT NOT NULL DEFAULT 0,
    name          TEXT NOT NULL DEFAULT '',
    location      TEXT NOT NULL DEFAULT '',
    meter_no      TEXT NOT NULL DEFAULT '',
    due_date      TIMESTAMPTZ,
    password_hash TEXT NOT NULL DEFAULT '',
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_gridbill_postpaid_part ON gridbill_postpaid (partition_key, customer_id);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS gridbill_postpaid`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_gridbill_meters",
			Version: "20240101000004",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS gridbill_meters (
    doc_id        TEXT PRIMARY KEY,
    partition_key TEXT NOT NULL DEFAULT '',
    meter_no      TEXT NOT NULL DEFAULT '',
    location      TEXT NOT NULL DEFAULT '',
    sequence      BIGINT NOT NULL DEFAULT 0,
    unit_usage    DOUBLE PRECISION NOT NULL DEFAULT 0,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_gridbill_meters_no ON gridbill_meters (partition_key, meter_no);
CREATE INDEX IF NOT EXISTS idx_gridbill_meters_seq ON gridbill_meters (partition_key, sequence DESC);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS gridbill_meters`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_gridbill_bills",
			Version: "20240101000005",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS gridbill_bills (
    id            TEXT PRIMARY KEY,
    partition_key TEXT NOT NULL DEFAULT '',
    customer_id   BIGINT NOT NULL DEFAULT 0,
    location      TEXT NOT NULL DEFAULT '',
    amount        BIGINT NOT NULL DEFAULT 0,
    base_amount   BIGINT NOT NULL DEFAULT 0,
    previous_due  BIGINT NOT NULL DEFAULT 0,
    fine          BIGINT NOT NULL DEFAULT 0,
    currency      TEXT NOT NULL DEFAULT 'bdt',
    due_date      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    status        TEXT NOT NULL DEFAULT 'unpaid',
    paid_at       TIMESTAMPTZ,
    paid_amount   BIGINT NOT NULL DEFAULT 0,
    payment_ref   TEXT NOT NULL DEFAULT '',
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_gridbill_bills_customer ON gridbill_bills (partition_key, customer_id, id DESC);
CREATE INDEX IF NOT EXISTS idx_gridbill_bills_status ON gridbill_bills (partition_key, customer_id, status);
CREATE INDEX IF NOT EXISTS idx_gridbill_bills_part_status ON gridbill_bills (partition_key, status);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS gridbill_bills`)
				return err
			},
		},
		&migrate.Migration{
			Name:    "create_gridbill_central",
			Version: "20240101000006",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS gridbill_admins (
    id            BIGINT PRIMARY KEY,
    name          TEXT NOT NULL DEFAULT '',
    password_hash TEXT NOT NULL DEFAULT '',
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS gridbill_companies (
    id            BIGINT PRIMARY KEY,
    name          TEXT NOT NULL DEFAULT '',
    location      TEXT NOT NULL DEFAULT '',
    password_hash TEXT NOT NULL DEFAULT '',
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
DROP TABLE IF EXISTS gridbill_admins;
DROP TABLE IF EXISTS gridbill_companies;
`)
				return err
			},
		},
	)
}
