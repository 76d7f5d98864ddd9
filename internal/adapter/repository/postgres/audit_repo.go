package postgres

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/cashbox/internal/domain"
	"github.com/iho/cashbox/internal/infrastructure/postgres/generated"
	"github.com/iho/cashbox/internal/usecase"
)

const insertAuditLog = `
	INSERT INTO audit_logs (
		id, user_id, action, resource_type, resource_id, request_id,
		before_state, after_state, status, error_message, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
`

const selectAuditLogs = `
	SELECT id, user_id, action, resource_type, resource_id, request_id,
	       before_state, after_state, status, error_message, created_at
	FROM audit_logs
	WHERE 1=1`

// AuditRepository implements usecase.AuditRepository.
type AuditRepository struct {
	db generated.DBTX
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return newAuditRepository(pool)
}

func newAuditRepository(db generated.DBTX) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create inserts an audit log entry outside any transaction.
func (r *AuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	return r.insert(ctx, r.db, log)
}

// CreateTx inserts an audit log entry in the caller's transaction.
func (r *AuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	return r.insert(ctx, tx.(*Tx).PgxTx(), log)
}

func (r *AuditRepository) insert(ctx context.Context, db generated.DBTX, log *domain.AuditLog) error {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}

	beforeState, err := marshalState(log.BeforeState)
	if err != nil {
		return err
	}
	afterState, err := marshalState(log.AfterState)
	if err != nil {
		return err
	}

	_, err = db.Exec(ctx, insertAuditLog,
		log.ID,
		log.UserID,
		log.Action,
		log.ResourceType,
		log.ResourceID,
		log.RequestID,
		beforeState,
		afterState,
		log.Status,
		log.ErrorMessage,
		log.CreatedAt,
	)

	return err
}

// List retrieves audit logs with filtering, newest first.
func (r *AuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	query, args := buildAuditQuery(filter)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]*domain.AuditLog, 0)
	for rows.Next() {
		var log domain.AuditLog
		var beforeState, afterState []byte

		err := rows.Scan(
			&log.ID,
			&log.UserID,
			&log.Action,
			&log.ResourceType,
			&log.ResourceID,
			&log.RequestID,
			&beforeState,
			&afterState,
			&log.Status,
			&log.ErrorMessage,
			&log.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		if beforeState != nil {
			_ = json.Unmarshal(beforeState, &log.BeforeState)
		}
		if afterState != nil {
			_ = json.Unmarshal(afterState, &log.AfterState)
		}

		logs = append(logs, &log)
	}

	return logs, rows.Err()
}

// GetByResourceID retrieves all audit logs for one request or box.
func (r *AuditRepository) GetByResourceID(ctx context.Context, resourceType, resourceID string) ([]*domain.AuditLog, error) {
	return r.List(ctx, domain.AuditFilter{
		ResourceType: resourceType,
		ResourceID:   resourceID,
	})
}

func buildAuditQuery(filter domain.AuditFilter) (string, []any) {
	var sb strings.Builder
	sb.WriteString(selectAuditLogs)
	args := []any{}

	add := func(clause string, arg any) {
		args = append(args, arg)
		sb.WriteString(clause)
		sb.WriteString(strconv.Itoa(len(args)))
	}

	if filter.UserID != "" {
		add(" AND user_id = $", filter.UserID)
	}
	if filter.Action != "" {
		add(" AND action = $", filter.Action)
	}
	if filter.ResourceType != "" {
		add(" AND resource_type = $", filter.ResourceType)
	}
	if filter.ResourceID != "" {
		add(" AND resource_id = $", filter.ResourceID)
	}
	if filter.StartDate != nil {
		add(" AND created_at >= $", *filter.StartDate)
	}
	if filter.EndDate != nil {
		add(" AND created_at < $", *filter.EndDate)
	}

	sb.WriteString(" ORDER BY created_at DESC")

	if filter.Limit > 0 {
		add(" LIMIT $", filter.Limit)
	}
	if filter.Offset > 0 {
		add(" OFFSET $", filter.Offset)
	}

	return sb.String(), args
}

func marshalState(state domain.JSON) ([]byte, error) {
	if state == nil {
		return nil, nil
	}
	return json.Marshal(state)
}
