package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kiranshivaraju/shopfloor/pkg/models"
)

// PostgresStore implements the Store interface using pgx/v5.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// --- Tenants ---

func (s *PostgresStore) GetDefaultTenant(ctx context.Context) (*models.Tenant, error) {
	var t models.Tenant
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, slug, created_at, updated_at FROM tenants WHERE slug = 'default' LIMIT 1`,
	).Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get default tenant: %w", err)
	}
	return &t, nil
}

// --- API Keys ---

func (s *PostgresStore) GetAPIKeyByPrefix(ctx context.Context, prefix string) ([]*models.APIKey, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, tenant_id, name, key_hash, key_prefix, scopes, last_used_at, deleted_at, created_at, updated_at
		 FROM api_keys WHERE key_prefix = $1 AND deleted_at IS NULL`, prefix)
	if err != nil {
		return nil, fmt.Errorf("get api key by prefix: %w", err)
	}
	defer rows.Close()

	var keys []*models.APIKey
	for rows.Next() {
		var k models.APIKey
		if err := rows.Scan(&k.ID, &k.TenantID, &k.Name, &k.KeyHash, &k.KeyPrefix, &k.Scopes,
			&k.LastUsedAt, &k.DeletedAt, &k.CreatedAt, &k.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan api key: %w", err)
		}
		keys = append(keys, &k)
	}
	return keys, rows.Err()
}

func (s *PostgresStore) UpdateAPIKeyLastUsed(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE api_keys SET last_used_at = NOW(), updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("update api key last used: %w", err)
	}
	return nil
}

func (s *PostgresStore) CreateAPIKey(ctx context.Context, key *models.APIKey) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO api_keys (id, tenant_id, name, key_hash, key_prefix, scopes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		key.ID, key.TenantID, key.Name, key.KeyHash, key.KeyPrefix, key.Scopes, key.CreatedAt, key.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create api key: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListAPIKeys(ctx context.Context, tenantID uuid.UUID) ([]*models.APIKey, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, tenant_id, name, key_hash, key_prefix, scopes, last_used_at, deleted_at, created_at, updated_at
		 FROM api_keys WHERE tenant_id = $1 AND deleted_at IS NULL ORDER BY created_at DESC`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list api keys: %w", err)
	}
	defer rows.Close()

	var keys []*models.APIKey
	for rows.Next() {
		var k models.APIKey
		if err := rows.Scan(&k.ID, &k.TenantID, &k.Name, &k.KeyHash, &k.KeyPrefix, &k.Scopes,
			&k.LastUsedAt, &k.DeletedAt, &k.CreatedAt, &k.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan api key: %w", err)
		}
		keys = append(keys, &k)
	}
	return keys, rows.Err()
}

func (s *PostgresStore) RevokeAPIKey(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE api_keys SET deleted_at = NOW(), updated_at = NOW()
		 WHERE id = $1 AND tenant_id = $2 AND deleted_at IS NULL`, id, tenantID)
	if err != nil {
		return fmt.Errorf("revoke api key: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Work-Order Lines ---

const lineColumns = `id, tenant_id, work_order_id, vehicle_id, batch_id, position, complaint, cause,
	job_type, labor_hours, status, punched_in_at, punched_out_at, hold_reason, assigned_tech_id,
	created_at, updated_at`

func scanLine(row pgx.Row) (*models.WorkOrderLine, error) {
	var l models.WorkOrderLine
	var jobType, status string
	if err := row.Scan(&l.ID, &l.TenantID, &l.WorkOrderID, &l.VehicleID, &l.BatchID, &l.Position,
		&l.Complaint, &l.Cause, &jobType, &l.LaborHours, &status, &l.PunchedInAt, &l.PunchedOutAt,
		&l.HoldReason, &l.AssignedTechID, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	l.JobType = models.JobType(jobType)
	l.Status = models.LineStatus(status)
	return &l, nil
}

func collectLines(rows pgx.Rows) ([]*models.WorkOrderLine, error) {
	defer rows.Close()
	lines := []*models.WorkOrderLine{}
	for rows.Next() {
		l, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("scan work order line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// InsertWorkOrderLines writes the batch record and every line in one
// transaction. When the batch carries an idempotency key already recorded
// for the tenant, nothing is written and the original lines are returned.
func (s *PostgresStore) InsertWorkOrderLines(ctx context.Context, batch LineBatch) (*BatchResult, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin line batch: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var key *string
	if batch.IdempotencyKey != "" {
		key = &batch.IdempotencyKey
	}

	tag, err := tx.Exec(ctx,
		`INSERT INTO line_batches (id, tenant_id, work_order_id, idempotency_key, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (tenant_id, idempotency_key) DO NOTHING`,
		batch.ID, batch.TenantID, batch.WorkOrderID, key, batch.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert line batch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return replayBatch(ctx, tx, batch)
	}

	b := &pgx.Batch{}
	for _, l := range batch.Lines {
		b.Queue(
			`INSERT INTO work_order_lines (id, tenant_id, work_order_id, vehicle_id, batch_id, position, complaint, cause,
			   job_type, labor_hours, status, punched_in_at, punched_out_at, hold_reason, assigned_tech_id, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
			l.ID, l.TenantID, l.WorkOrderID, l.VehicleID, batch.ID, l.Position, l.Complaint, l.Cause,
			string(l.JobType), l.LaborHours, string(l.Status), l.PunchedInAt, l.PunchedOutAt, l.HoldReason,
			l.AssignedTechID, l.CreatedAt, l.UpdatedAt)
	}
	br := tx.SendBatch(ctx, b)
	for range batch.Lines {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			if isDuplicateKeyError(err) {
				return nil, ErrDuplicateKey
			}
			return nil, fmt.Errorf("insert work order line: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return nil, fmt.Errorf("insert work order lines: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit line batch: %w", err)
	}

	for _, l := range batch.Lines {
		id := batch.ID
		l.BatchID = &id
	}
	return &BatchResult{BatchID: batch.ID, Lines: batch.Lines}, nil
}

func replayBatch(ctx context.Context, tx pgx.Tx, batch LineBatch) (*BatchResult, error) {
	var batchID, workOrderID uuid.UUID
	err := tx.QueryRow(ctx,
		`SELECT id, work_order_id FROM line_batches WHERE tenant_id = $1 AND idempotency_key = $2`,
		batch.TenantID, batch.IdempotencyKey,
	).Scan(&batchID, &workOrderID)
	if err != nil {
		return nil, fmt.Errorf("load replayed batch: %w", err)
	}
	if workOrderID != batch.WorkOrderID {
		return nil, ErrIdempotencyMismatch
	}

	rows, err := tx.Query(ctx,
		`SELECT `+lineColumns+` FROM work_order_lines WHERE batch_id = $1 ORDER BY position`, batchID)
	if err != nil {
		return nil, fmt.Errorf("load replayed lines: %w", err)
	}
	lines, err := collectLines(rows)
	if err != nil {
		return nil, err
	}
	return &BatchResult{BatchID: batchID, Lines: lines, Replayed: true}, nil
}

func (s *PostgresStore) GetWorkOrderLine(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (*models.WorkOrderLine, error) {
	l, err := scanLine(s.pool.QueryRow(ctx,
		`SELECT `+lineColumns+` FROM work_order_lines WHERE id = $1 AND tenant_id = $2`, id, tenantID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get work order line: %w", err)
	}
	return l, nil
}

func (s *PostgresStore) ListWorkOrderLines(ctx context.Context, tenantID uuid.UUID, workOrderID uuid.UUID) ([]*models.WorkOrderLine, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+lineColumns+` FROM work_order_lines
		 WHERE tenant_id = $1 AND work_order_id = $2
		 ORDER BY created_at, position`, tenantID, workOrderID)
	if err != nil {
		return nil, fmt.Errorf("list work order lines: %w", err)
	}
	return collectLines(rows)
}

// UpdateWorkOrderLineStatus moves one line to status, enforcing the
// transition table under a row lock.
func (s *PostgresStore) UpdateWorkOrderLineStatus(ctx context.Context, id uuid.UUID, tenantID uuid.UUID, status models.LineStatus, opts ...LineUpdateOption) (*models.WorkOrderLine, error) {
	params := &lineUpdateParams{}
	for _, opt := range opts {
		opt(params)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin line status update: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Fetch current status
	var current string
	err = tx.QueryRow(ctx,
		`SELECT status FROM work_order_lines WHERE id = $1 AND tenant_id = $2 FOR UPDATE`, id, tenantID,
	).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get line status: %w", err)
	}

	if !CanTransition(models.LineStatus(current), status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, status)
	}

	now := time.Now().UTC()
	query := `UPDATE work_order_lines SET status = $3, updated_at = $4`
	args := []any{id, tenantID, string(status), now}
	argIdx := 5

	switch status {
	case models.LineStatusInProgress:
		query += fmt.Sprintf(", punched_in_at = COALESCE(punched_in_at, $%d)", argIdx)
		args = append(args, now)
		argIdx++
	case models.LineStatusCompleted:
		query += fmt.Sprintf(", punched_out_at = $%d", argIdx)
		args = append(args, now)
		argIdx++
	}
	if status == models.LineStatusOnHold {
		query += fmt.Sprintf(", hold_reason = $%d", argIdx)
		args = append(args, params.HoldReason)
		argIdx++
	} else {
		query += ", hold_reason = NULL"
	}
	if params.AssignedTechID != nil {
		query += fmt.Sprintf(", assigned_tech_id = $%d", argIdx)
		args = append(args, *params.AssignedTechID)
		argIdx++
	}

	query += " WHERE id = $1 AND tenant_id = $2 RETURNING " + lineColumns

	l, err := scanLine(tx.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("update line status: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit line status update: %w", err)
	}
	return l, nil
}

// --- Inspections ---

func (s *PostgresStore) UpsertInspection(ctx context.Context, session *models.InspectionSession) error {
	sections, err := json.Marshal(session.Sections)
	if err != nil {
		return fmt.Errorf("encode inspection sections: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO inspections (id, tenant_id, vehicle_id, work_order_id, vehicle_type, template_name, status, sections, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (id) DO UPDATE SET
		   sections = EXCLUDED.sections,
		   status = EXCLUDED.status,
		   template_name = EXCLUDED.template_name,
		   updated_at = EXCLUDED.updated_at
		 WHERE inspections.tenant_id = EXCLUDED.tenant_id`,
		session.ID, session.TenantID, session.VehicleID, session.WorkOrderID, string(session.VehicleType),
		session.TemplateName, session.Status, sections, session.CreatedAt, session.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert inspection: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetInspection(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (*models.InspectionSession, error) {
	var sess models.InspectionSession
	var vehicleType string
	var sections []byte
	err := s.pool.QueryRow(ctx,
		`SELECT id, tenant_id, vehicle_id, work_order_id, vehicle_type, template_name, status, sections, created_at, updated_at
		 FROM inspections WHERE id = $1 AND tenant_id = $2`, id, tenantID,
	).Scan(&sess.ID, &sess.TenantID, &sess.VehicleID, &sess.WorkOrderID, &vehicleType,
		&sess.TemplateName, &sess.Status, &sections, &sess.CreatedAt, &sess.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get inspection: %w", err)
	}

	sess.VehicleType = models.VehicleType(vehicleType)
	if err := json.Unmarshal(sections, &sess.Sections); err != nil {
		return nil, fmt.Errorf("decode inspection sections: %w", err)
	}
	return &sess, nil
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}
