package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/kirillkom/filenet-dms-connector/internal/core/ports"
)

// AuditRepository journals document calls. It never stores document content.
type AuditRepository struct {
	db *sql.DB
}

var _ ports.AuditJournal = (*AuditRepository)(nil)

func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *AuditRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026101701)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS document_audit (
	id BIGSERIAL PRIMARY KEY,
	operation TEXT NOT NULL,
	kpjm TEXT,
	identity_source TEXT NOT NULL,
	correlation_id TEXT NOT NULL,
	document_id TEXT NOT NULL DEFAULT '',
	outcome TEXT NOT NULL,
	elapsed_ms BIGINT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_document_audit_created_at ON document_audit(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_document_audit_document_id ON document_audit(document_id);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *AuditRepository) Record(ctx context.Context, rec ports.AuditRecord) error {
	var kpjm sql.NullString
	if rec.KPJM != nil {
		kpjm = sql.NullString{String: *rec.KPJM, Valid: true}
	}
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
INSERT INTO document_audit (
	operation, kpjm, identity_source, correlation_id, document_id, outcome, elapsed_ms, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
`,
		rec.Operation, kpjm, rec.IdentitySource, rec.CorrelationID, rec.DocumentID, rec.Outcome,
		rec.Elapsed.Milliseconds(), createdAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit record: %w", err)
	}
	return nil
}
