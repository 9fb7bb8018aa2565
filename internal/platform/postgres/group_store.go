package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/langtogether/langtogether-api/internal/domain"
	"github.com/langtogether/langtogether-api/internal/platform/logger"
	"github.com/langtogether/langtogether-api/internal/store"
)

// PostgresGroupStore implements store.GroupStore on PostgreSQL.
type PostgresGroupStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresGroupStore creates a group store on db. If logger is nil, a
// default logger will be used.
func NewPostgresGroupStore(db store.DBTX, logger *slog.Logger) *PostgresGroupStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresGroupStore{
		db:     db,
		logger: logger.With(slog.String("component", "group_store")),
	}
}

var _ store.GroupStore = (*PostgresGroupStore)(nil)

// WithTx implements store.GroupStore.WithTx
func (s *PostgresGroupStore) WithTx(tx *sql.Tx) store.GroupStore {
	return &PostgresGroupStore{db: tx, logger: s.logger}
}

// Create implements store.GroupStore.Create
func (s *PostgresGroupStore) Create(ctx context.Context, group *domain.Group) error {
	if err := group.Validate(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO groups (id, name, description, owner_name, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		group.ID, group.Name, group.Description, group.OwnerName, group.CreatedAt,
	)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to create group",
			slog.String("error", err.Error()),
			slog.String("group_id", group.ID.String()))
		return MapError(err)
	}
	return nil
}

// GetByID implements store.GroupStore.GetByID
func (s *PostgresGroupStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Group, error) {
	var g domain.Group
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, owner_name, created_at FROM groups WHERE id = $1`, id,
	).Scan(&g.ID, &g.Name, &g.Description, &g.OwnerName, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrGroupNotFound
		}
		return nil, MapError(err)
	}
	return &g, nil
}

// ListByUser implements store.GroupStore.ListByUser. A user belongs to every
// group one of their progress decks is attached to.
func (s *PostgresGroupStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Group, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT g.id, g.name, g.description, g.owner_name, g.created_at
		FROM groups g
		WHERE EXISTS (
			SELECT 1 FROM progress_decks pd WHERE pd.group_id = g.id AND pd.user_id = $1
		)
		ORDER BY g.created_at, g.id`, userID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list groups",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	groups := []domain.Group{}
	for rows.Next() {
		var g domain.Group
		if err := rows.Scan(&g.ID, &g.Name, &g.Description, &g.OwnerName, &g.CreatedAt); err != nil {
			return nil, MapError(err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return groups, nil
}

// ListMembers implements store.GroupStore.ListMembers
func (s *PostgresGroupStore) ListMembers(ctx context.Context, groupID uuid.UUID) ([]domain.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.id, u.email, u.user_name, u.created_at, u.updated_at
		FROM users u
		WHERE EXISTS (
			SELECT 1 FROM progress_decks pd WHERE pd.user_id = u.id AND pd.group_id = $1
		)
		ORDER BY u.user_name`, groupID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	users := []domain.User{}
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Email, &u.UserName, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, MapError(err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return users, nil
}

// PostgresInvitationStore implements store.InvitationStore on PostgreSQL.
type PostgresInvitationStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresInvitationStore creates an invitation store on db. If logger
// is nil, a default logger will be used.
func NewPostgresInvitationStore(db store.DBTX, logger *slog.Logger) *PostgresInvitationStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresInvitationStore{
		db:     db,
		logger: logger.With(slog.String("component", "invitation_store")),
	}
}

var _ store.InvitationStore = (*PostgresInvitationStore)(nil)

// WithTx implements store.InvitationStore.WithTx
func (s *PostgresInvitationStore) WithTx(tx *sql.Tx) store.InvitationStore {
	return &PostgresInvitationStore{db: tx, logger: s.logger}
}

const invitationColumns = `id, user_id, deck_id, group_id, invitation_date, sender_name, deck_name,
	deck_description, number_of_cards, group_name, group_description`

// Create implements store.InvitationStore.Create
func (s *PostgresInvitationStore) Create(ctx context.Context, inv *domain.Invitation) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO invitations (`+invitationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		inv.ID, inv.UserID, inv.DeckID, inv.GroupID, inv.InvitationDate, inv.SenderName, inv.DeckName,
		inv.DeckDescription, inv.NumberOfCards, inv.GroupName, inv.GroupDescription,
	)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to create invitation",
			slog.String("error", err.Error()),
			slog.String("invitation_id", inv.ID.String()))
		return MapError(err)
	}
	return nil
}

// GetByID implements store.InvitationStore.GetByID
func (s *PostgresInvitationStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Invitation, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+invitationColumns+` FROM invitations WHERE id = $1`, id)
	inv, err := scanInvitation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrInvitationNotFound
		}
		return nil, MapError(err)
	}
	return inv, nil
}

// ListByUser implements store.InvitationStore.ListByUser
func (s *PostgresInvitationStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Invitation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+invitationColumns+` FROM invitations
		WHERE user_id = $1
		ORDER BY invitation_date DESC, id`, userID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	invitations := []domain.Invitation{}
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, MapError(err)
		}
		invitations = append(invitations, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return invitations, nil
}

// Delete implements store.InvitationStore.Delete
func (s *PostgresInvitationStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM invitations WHERE id = $1`, id)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrInvitationNotFound)
}

// DeleteOlderThan implements store.InvitationStore.DeleteOlderThan
func (s *PostgresInvitationStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM invitations WHERE invitation_date < $1`, cutoff)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to expire invitations",
			slog.String("error", err.Error()))
		return 0, MapError(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, nil
}

func scanInvitation(row rowScanner) (*domain.Invitation, error) {
	var i domain.Invitation
	err := row.Scan(&i.ID, &i.UserID, &i.DeckID, &i.GroupID, &i.InvitationDate, &i.SenderName, &i.DeckName,
		&i.DeckDescription, &i.NumberOfCards, &i.GroupName, &i.GroupDescription)
	if err != nil {
		return nil, err
	}
	return &i, nil
}
