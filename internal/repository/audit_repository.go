package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gupta1123/fieldsales-teams/internal/domain"
)

// AuditRepository stores the team mutation trail.
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditEntry) error
	ListByTeam(ctx context.Context, teamID int64, limit int) ([]domain.AuditEntry, error)
}

type auditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository builds the Postgres-backed repository.
func NewAuditRepository(pool *pgxpool.Pool) AuditRepository {
	return &auditRepository{pool: pool}
}

func (r *auditRepository) Create(ctx context.Context, entry *domain.AuditEntry) error {
	const query = `
        INSERT INTO team_audit (id, event_type, team_id, employee_id, actor_id, actor_role, payload, occurred_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
	payload := entry.Payload
	if len(payload) == 0 {
		payload = []byte("{}")
	}
	_, err := r.pool.Exec(ctx, query,
		entry.ID,
		entry.EventType,
		entry.TeamID,
		entry.EmployeeID,
		entry.ActorID,
		string(entry.ActorRole),
		payload,
		entry.OccurredAt,
	)
	return err
}

func (r *auditRepository) ListByTeam(ctx context.Context, teamID int64, limit int) ([]domain.AuditEntry, error) {
	const query = `
        SELECT id::text, event_type, team_id, employee_id, actor_id, actor_role, payload, occurred_at
        FROM team_audit WHERE team_id=$1 ORDER BY occurred_at DESC LIMIT $2`
	rows, err := r.pool.Query(ctx, query, teamID, normalizeLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AuditEntry
	for rows.Next() {
		var (
			entry domain.AuditEntry
			role  string
		)
		if err := rows.Scan(
			&entry.ID,
			&entry.EventType,
			&entry.TeamID,
			&entry.EmployeeID,
			&entry.ActorID,
			&role,
			&entry.Payload,
			&entry.OccurredAt,
		); err != nil {
			return nil, err
		}
		entry.ActorRole = domain.RoleTag(role)
		result = append(result, entry)
	}
	return result, rows.Err()
}

// memoryAuditRepository keeps the trail in process when Postgres is not configured.
type memoryAuditRepository struct {
	mu      sync.Mutex
	entries []domain.AuditEntry
}

// NewMemoryAuditRepository builds an in-process repository.
func NewMemoryAuditRepository() AuditRepository {
	return &memoryAuditRepository{}
}

func (r *memoryAuditRepository) Create(ctx context.Context, entry *domain.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *memoryAuditRepository) ListByTeam(ctx context.Context, teamID int64, limit int) ([]domain.AuditEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.AuditEntry
	for _, e := range r.entries {
		if e.TeamID != nil && *e.TeamID == teamID {
			result = append(result, e)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].OccurredAt.After(result[j].OccurredAt) })
	if n := normalizeLimit(limit); len(result) > n {
		result = result[:n]
	}
	return result, nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 200 {
		return 50
	}
	return limit
}
