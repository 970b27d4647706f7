package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/korolhresti/newsdigest/internal/apperr"
	"github.com/korolhresti/newsdigest/internal/models"
)

// SourceStore persists user-registered upstreams.
type SourceStore struct {
	db *sql.DB
}

func NewSourceStore(db *sql.DB) *SourceStore {
	return &SourceStore{db: db}
}

func (s *SourceStore) Add(ctx context.Context, src *models.Source) (int, error) {
	var id int
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO sources (name, link, type, added_by_user_id, reliability_score)
		VALUES ($1, $2, $3, $4, 0.5) RETURNING id
	`, src.Name, src.Link, src.Type, src.AddedByUserID).Scan(&id)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return 0, apperr.Conflict("a source named %q already exists", src.Name)
		}
		return 0, apperr.Internal(fmt.Errorf("add source: %w", err))
	}
	return id, nil
}

func (s *SourceStore) ListActive(ctx context.Context) ([]*models.Source, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, link, type, added_by_user_id, verified, reliability_score, status, created_at
		FROM sources WHERE status = 'active' ORDER BY name ASC
	`)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("list active sources: %w", err))
	}
	defer rows.Close()

	var out []*models.Source
	for rows.Next() {
		var src models.Source
		if err := rows.Scan(&src.ID, &src.Name, &src.Link, &src.Type, &src.AddedByUserID,
			&src.Verified, &src.ReliabilityScore, &src.Status, &src.CreatedAt); err != nil {
			return nil, apperr.Internal(fmt.Errorf("scan source: %w", err))
		}
		out = append(out, &src)
	}
	return out, rows.Err()
}

func (s *SourceStore) SetStatus(ctx context.Context, id int, status models.SourceStatus) error {
	res, err := s.db.ExecContext(ctx, `UPDATE sources SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return apperr.Internal(fmt.Errorf("set source status: %w", err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("source %d not found", id)
	}
	return nil
}

// InviteStore persists referral invites.
type InviteStore struct {
	db *sql.DB
}

func NewInviteStore(db *sql.DB) *InviteStore {
	return &InviteStore{db: db}
}

func (s *InviteStore) Create(ctx context.Context, inviterUserID int, code string) (*models.Invite, error) {
	var inv models.Invite
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO invites (inviter_user_id, invite_code) VALUES ($1, $2)
		RETURNING id, inviter_user_id, invite_code, invited_user_id, accepted_at, created_at
	`, inviterUserID, code).Scan(&inv.ID, &inv.InviterUserID, &inv.Code, &inv.InvitedUserID, &inv.AcceptedAt, &inv.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return nil, apperr.Conflict("invite code %q already exists", code)
		}
		return nil, apperr.Internal(fmt.Errorf("create invite: %w", err))
	}
	return &inv, nil
}

// GetByCode looks up an invite without mutating it, so callers can
// reject a self-referral before Accept consumes the code.
func (s *InviteStore) GetByCode(ctx context.Context, code string) (*models.Invite, error) {
	var inv models.Invite
	err := s.db.QueryRowContext(ctx, `
		SELECT id, inviter_user_id, invite_code, invited_user_id, accepted_at, created_at
		FROM invites WHERE invite_code = $1
	`, code).Scan(&inv.ID, &inv.InviterUserID, &inv.Code, &inv.InvitedUserID, &inv.AcceptedAt, &inv.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("invite code %q not found", code)
	}
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("get invite: %w", err))
	}
	return &inv, nil
}

// Accept binds invitedUserID to the invite identified by code, once.
// Returns apperr.CodeConflict if the invite was already accepted.
func (s *InviteStore) Accept(ctx context.Context, code string, invitedUserID int) (*models.Invite, error) {
	var inv models.Invite
	err := s.db.QueryRowContext(ctx, `
		UPDATE invites SET invited_user_id = $1, accepted_at = CURRENT_TIMESTAMP
		WHERE invite_code = $2 AND accepted_at IS NULL
		RETURNING id, inviter_user_id, invite_code, invited_user_id, accepted_at, created_at
	`, invitedUserID, code).Scan(&inv.ID, &inv.InviterUserID, &inv.Code, &inv.InvitedUserID, &inv.AcceptedAt, &inv.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, apperr.Conflict("invite code %q not found or already accepted", code)
	}
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("accept invite: %w", err))
	}
	return &inv, nil
}

// ArchiveStore persists the shadow copies cleanup writes before deletion.
type ArchiveStore struct {
	db *sql.DB
}

func NewArchiveStore(db *sql.DB) *ArchiveStore {
	return &ArchiveStore{db: db}
}

// Archive copies a NewsItem into archived_news, idempotently (a retry
// of a partially-failed cleanup pass must not fail on conflict).
func (s *ArchiveStore) Archive(ctx context.Context, n *models.NewsItem) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO archived_news (original_news_id, title, content, source, published_at)
		VALUES ($1, $2, $3, $4, $5) ON CONFLICT (original_news_id) DO NOTHING
	`, n.ID, n.Title, n.Content, n.Source, n.PublishedAt)
	if err != nil {
		return apperr.Internal(fmt.Errorf("archive news item: %w", err))
	}
	return nil
}

// AdminActionStore writes the moderation audit trail.
type AdminActionStore struct {
	db *sql.DB
}

func NewAdminActionStore(db *sql.DB) *AdminActionStore {
	return &AdminActionStore{db: db}
}

func (s *AdminActionStore) Record(ctx context.Context, actorID int, actionType models.AdminActionType, targetID *int64, details *string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO admin_actions (actor_id, action_type, target_id, details) VALUES ($1, $2, $3, $4)
	`, actorID, actionType, targetID, details)
	if err != nil {
		return apperr.Internal(fmt.Errorf("record admin action: %w", err))
	}
	return nil
}
