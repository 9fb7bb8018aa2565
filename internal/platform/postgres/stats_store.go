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

// PostgresStatisticsStore implements store.StatisticsStore on PostgreSQL.
type PostgresStatisticsStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresStatisticsStore creates a statistics store on db. If logger
// is nil, a default logger will be used.
func NewPostgresStatisticsStore(db store.DBTX, logger *slog.Logger) *PostgresStatisticsStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresStatisticsStore{
		db:     db,
		logger: logger.With(slog.String("component", "statistics_store")),
	}
}

var _ store.StatisticsStore = (*PostgresStatisticsStore)(nil)

// WithTx implements store.StatisticsStore.WithTx
func (s *PostgresStatisticsStore) WithTx(tx *sql.Tx) store.StatisticsStore {
	return &PostgresStatisticsStore{db: tx, logger: s.logger}
}

// GetForDay implements store.StatisticsStore.GetForDay
func (s *PostgresStatisticsStore) GetForDay(ctx context.Context, progressDeckID uuid.UUID, day time.Time) (*domain.DailyStatistic, error) {
	var st domain.DailyStatistic
	err := s.db.QueryRowContext(ctx, `
		SELECT id, progress_deck_id, stat_date, new_words_learned, words_reviewed
		FROM progress_statistics
		WHERE progress_deck_id = $1 AND stat_date = $2`,
		progressDeckID, domain.Day(day),
	).Scan(&st.ID, &st.ProgressDeckID, &st.Date, &st.NewWordsLearned, &st.WordsReviewed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrStatisticNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get daily statistic",
			slog.String("error", err.Error()),
			slog.String("progress_deck_id", progressDeckID.String()))
		return nil, MapError(err)
	}
	st.Date = domain.Day(st.Date)
	return &st, nil
}

// ApplyIncrement implements store.StatisticsStore.ApplyIncrement. The row
// for the day is created on first use, also by an increment of zero.
func (s *PostgresStatisticsStore) ApplyIncrement(ctx context.Context, inc domain.StatIncrement) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO progress_statistics (id, progress_deck_id, stat_date, new_words_learned, words_reviewed)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT ON CONSTRAINT progress_statistics_deck_date_key DO UPDATE
		SET new_words_learned = progress_statistics.new_words_learned + EXCLUDED.new_words_learned,
			words_reviewed = progress_statistics.words_reviewed + EXCLUDED.words_reviewed`,
		uuid.New(), inc.ProgressDeckID, domain.Day(inc.Date), boolToInt(inc.IncrementNewWords), boolToInt(inc.IncrementReviewed),
	)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to apply statistic increment",
			slog.String("error", err.Error()),
			slog.String("progress_deck_id", inc.ProgressDeckID.String()))
		return MapError(err)
	}
	return nil
}

// ListByProgressDeck implements store.StatisticsStore.ListByProgressDeck
func (s *PostgresStatisticsStore) ListByProgressDeck(ctx context.Context, progressDeckID uuid.UUID) ([]domain.DailyStatistic, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, progress_deck_id, stat_date, new_words_learned, words_reviewed
		FROM progress_statistics
		WHERE progress_deck_id = $1
		ORDER BY stat_date`, progressDeckID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	stats := []domain.DailyStatistic{}
	for rows.Next() {
		var st domain.DailyStatistic
		if err := rows.Scan(&st.ID, &st.ProgressDeckID, &st.Date, &st.NewWordsLearned, &st.WordsReviewed); err != nil {
			return nil, MapError(err)
		}
		st.Date = domain.Day(st.Date)
		stats = append(stats, st)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return stats, nil
}

// CombinedByUser implements store.StatisticsStore.CombinedByUser
func (s *PostgresStatisticsStore) CombinedByUser(ctx context.Context, userID uuid.UUID) ([]domain.CombinedStatistic, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.stat_date, SUM(s.new_words_learned), SUM(s.words_reviewed)
		FROM progress_statistics s
		JOIN progress_decks pd ON pd.id = s.progress_deck_id
		WHERE pd.user_id = $1
		GROUP BY s.stat_date
		ORDER BY s.stat_date`, userID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to combine statistics",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	stats := []domain.CombinedStatistic{}
	for rows.Next() {
		var st domain.CombinedStatistic
		if err := rows.Scan(&st.Date, &st.NewWordsLearned, &st.WordsReviewed); err != nil {
			return nil, MapError(err)
		}
		st.Date = domain.Day(st.Date)
		stats = append(stats, st)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return stats, nil
}

// ListByGroup implements store.StatisticsStore.ListByGroup. Rows are per
// member and day.
func (s *PostgresStatisticsStore) ListByGroup(ctx context.Context, groupID uuid.UUID) ([]domain.CombinedStatistic, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.user_name, s.stat_date, SUM(s.new_words_learned), SUM(s.words_reviewed)
		FROM progress_statistics s
		JOIN progress_decks pd ON pd.id = s.progress_deck_id
		JOIN users u ON u.id = pd.user_id
		WHERE pd.group_id = $1
		GROUP BY u.user_name, s.stat_date
		ORDER BY s.stat_date, u.user_name`, groupID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list group statistics",
			slog.String("error", err.Error()),
			slog.String("group_id", groupID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	stats := []domain.CombinedStatistic{}
	for rows.Next() {
		var st domain.CombinedStatistic
		if err := rows.Scan(&st.UserName, &st.Date, &st.NewWordsLearned, &st.WordsReviewed); err != nil {
			return nil, MapError(err)
		}
		st.Date = domain.Day(st.Date)
		stats = append(stats, st)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return stats, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
