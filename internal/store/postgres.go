package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is applied by Migrate. Statements are idempotent so the server can
// run it on every boot.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id                 SERIAL PRIMARY KEY,
    email              TEXT NOT NULL UNIQUE,
    name               TEXT NOT NULL,
    password_hash      TEXT,
    created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
    xp                 INTEGER NOT NULL DEFAULT 0,
    level              INTEGER NOT NULL DEFAULT 1,
    chest_credits      INTEGER NOT NULL DEFAULT 0,
    productive_minutes INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS activity_logs (
    id                 SERIAL PRIMARY KEY,
    user_id            INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    raw_input          TEXT NOT NULL,
    activity_name      TEXT NOT NULL,
    category           TEXT NOT NULL,
    duration_minutes   INTEGER NOT NULL,
    sentiment_score    DOUBLE PRECISION NOT NULL DEFAULT 0,
    productivity_score DOUBLE PRECISION NOT NULL,
    is_focus_session   BOOLEAN NOT NULL DEFAULT FALSE,
    source             TEXT NOT NULL DEFAULT 'manual',
    timestamp          TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_activity_logs_user_time ON activity_logs (user_id, timestamp);

CREATE TABLE IF NOT EXISTS user_items (
    id          SERIAL PRIMARY KEY,
    user_id     INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    item_id     INTEGER NOT NULL,
    count       INTEGER NOT NULL DEFAULT 1,
    is_broken   BOOLEAN NOT NULL DEFAULT FALSE,
    acquired_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    UNIQUE (user_id, item_id)
);

CREATE TABLE IF NOT EXISTS user_badges (
    user_id   INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    name      TEXT NOT NULL,
    earned_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (user_id, name)
);
`

// PostgresStore is a PostgreSQL implementation of the Store interface.
// Queries are written against pgx directly; the item catalog itself is
// static Go data and never touches the database.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate applies the schema. Safe to call on every startup.
func (p *PostgresStore) Migrate(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, schema)
	return err
}

// CreateUser registers a new account.
func (p *PostgresStore) CreateUser(ctx context.Context, params CreateUserParams) (*User, error) {
	hash := pgtype.Text{String: params.PasswordHash, Valid: params.PasswordHash != ""}

	var user User
	err := p.pool.QueryRow(ctx, `
		INSERT INTO users (email, name, password_hash, level)
		VALUES (lower($1), $2, $3, 1)
		ON CONFLICT (email) DO NOTHING
		RETURNING id, email, name, created_at, xp, level, chest_credits, productive_minutes`,
		params.Email, params.Name, hash,
	).Scan(&user.ID, &user.Email, &user.Name, &user.CreatedAt,
		&user.XP, &user.Level, &user.ChestCredits, &user.ProductiveMinutes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// ON CONFLICT DO NOTHING returns no row when the email exists.
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	user.PasswordHash = params.PasswordHash
	return &user, nil
}

// GetUserByEmail retrieves a user by email (case-insensitive).
func (p *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return p.scanUser(p.pool.QueryRow(ctx, `
		SELECT id, email, name, password_hash, created_at, xp, level, chest_credits, productive_minutes
		FROM users WHERE email = lower($1)`, email))
}

// GetUserByID retrieves a user by ID.
func (p *PostgresStore) GetUserByID(ctx context.Context, id int) (*User, error) {
	return p.scanUser(p.pool.QueryRow(ctx, `
		SELECT id, email, name, password_hash, created_at, xp, level, chest_credits, productive_minutes
		FROM users WHERE id = $1`, id))
}

func (p *PostgresStore) scanUser(row pgx.Row) (*User, error) {
	var user User
	var hash pgtype.Text
	err := row.Scan(&user.ID, &user.Email, &user.Name, &hash, &user.CreatedAt,
		&user.XP, &user.Level, &user.ChestCredits, &user.ProductiveMinutes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if hash.Valid {
		user.PasswordHash = hash.String
	}
	return &user, nil
}

// UpdateUserProgress overwrites the user's gamification counters.
func (p *PostgresStore) UpdateUserProgress(ctx context.Context, params ProgressParams) error {
	tag, err := p.pool.Exec(ctx, `
		UPDATE users SET xp = $2, level = $3, chest_credits = $4, productive_minutes = $5
		WHERE id = $1`,
		params.UserID, params.XP, params.Level, params.ChestCredits, params.ProductiveMinutes)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SpendCredits atomically deducts n chest credits. The guard in the WHERE
// clause makes the check-and-debit a single statement, so concurrent opens
// can never double-spend.
func (p *PostgresStore) SpendCredits(ctx context.Context, userID, n int) (int, error) {
	var remaining int
	err := p.pool.QueryRow(ctx, `
		UPDATE users SET chest_credits = chest_credits - $2
		WHERE id = $1 AND chest_credits >= $2
		RETURNING chest_credits`, userID, n).Scan(&remaining)
	if err == nil {
		return remaining, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}

	// No row updated: distinguish a missing user from an empty balance.
	var balance int
	if err := p.pool.QueryRow(ctx, `SELECT chest_credits FROM users WHERE id = $1`, userID).Scan(&balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return balance, ErrInsufficientCredits
}

// AddCredits atomically adds n chest credits.
func (p *PostgresStore) AddCredits(ctx context.Context, userID, n int) (int, error) {
	var balance int
	err := p.pool.QueryRow(ctx, `
		UPDATE users SET chest_credits = chest_credits + $2
		WHERE id = $1
		RETURNING chest_credits`, userID, n).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return balance, nil
}

// CreateActivity logs a new activity.
func (p *PostgresStore) CreateActivity(ctx context.Context, params CreateActivityParams) (*Activity, error) {
	timestamp := params.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	}
	source := params.Source
	if source == "" {
		source = SourceManual
	}

	activity := Activity{
		UserID:            params.UserID,
		RawInput:          params.RawInput,
		Name:              params.Name,
		Category:          params.Category,
		DurationMinutes:   params.DurationMinutes,
		SentimentScore:    params.SentimentScore,
		ProductivityScore: params.ProductivityScore,
		IsFocusSession:    params.IsFocusSession,
		Source:            source,
		Timestamp:         timestamp,
	}
	err := p.pool.QueryRow(ctx, `
		INSERT INTO activity_logs
			(user_id, raw_input, activity_name, category, duration_minutes,
			 sentiment_score, productivity_score, is_focus_session, source, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`,
		activity.UserID, activity.RawInput, activity.Name, activity.Category,
		activity.DurationMinutes, activity.SentimentScore, activity.ProductivityScore,
		activity.IsFocusSession, activity.Source, activity.Timestamp,
	).Scan(&activity.ID)
	if err != nil {
		return nil, err
	}
	return &activity, nil
}

// GetActivity retrieves an activity owned by the user.
func (p *PostgresStore) GetActivity(ctx context.Context, userID, activityID int) (*Activity, error) {
	var a Activity
	err := p.pool.QueryRow(ctx, `
		SELECT id, user_id, raw_input, activity_name, category, duration_minutes,
		       sentiment_score, productivity_score, is_focus_session, source, timestamp
		FROM activity_logs
		WHERE id = $1 AND user_id = $2`, activityID, userID,
	).Scan(&a.ID, &a.UserID, &a.RawInput, &a.Name, &a.Category,
		&a.DurationMinutes, &a.SentimentScore, &a.ProductivityScore,
		&a.IsFocusSession, &a.Source, &a.Timestamp)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// ListActivities returns activities in [from, to), newest first.
func (p *PostgresStore) ListActivities(ctx context.Context, userID int, from, to time.Time, limit int) ([]Activity, error) {
	query := `
		SELECT id, user_id, raw_input, activity_name, category, duration_minutes,
		       sentiment_score, productivity_score, is_focus_session, source, timestamp
		FROM activity_logs
		WHERE user_id = $1 AND timestamp >= $2 AND timestamp < $3
		ORDER BY timestamp DESC`
	args := []any{userID, from, to}
	if limit > 0 {
		query += ` LIMIT $4`
		args = append(args, limit)
	}

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanActivities(rows)
}

// ListAllActivities returns every activity for the user, oldest first.
func (p *PostgresStore) ListAllActivities(ctx context.Context, userID int) ([]Activity, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, user_id, raw_input, activity_name, category, duration_minutes,
		       sentiment_score, productivity_score, is_focus_session, source, timestamp
		FROM activity_logs
		WHERE user_id = $1
		ORDER BY timestamp ASC, id ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanActivities(rows)
}

func scanActivities(rows pgx.Rows) ([]Activity, error) {
	activities := make([]Activity, 0, 16)
	for rows.Next() {
		var a Activity
		if err := rows.Scan(&a.ID, &a.UserID, &a.RawInput, &a.Name, &a.Category,
			&a.DurationMinutes, &a.SentimentScore, &a.ProductivityScore,
			&a.IsFocusSession, &a.Source, &a.Timestamp); err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

// UpdateActivity edits an activity owned by the user.
func (p *PostgresStore) UpdateActivity(ctx context.Context, params UpdateActivityParams) (*Activity, error) {
	name := pgtype.Text{}
	if params.Name != nil {
		name = pgtype.Text{String: *params.Name, Valid: true}
	}
	category := pgtype.Text{}
	if params.Category != nil {
		category = pgtype.Text{String: string(*params.Category), Valid: true}
	}
	duration := pgtype.Int4{}
	if params.DurationMinutes != nil {
		duration = pgtype.Int4{Int32: int32(*params.DurationMinutes), Valid: true}
	}
	score := pgtype.Float8{}
	if params.ProductivityScore != nil {
		score = pgtype.Float8{Float64: *params.ProductivityScore, Valid: true}
	}

	var a Activity
	err := p.pool.QueryRow(ctx, `
		UPDATE activity_logs SET
			activity_name      = COALESCE($3, activity_name),
			raw_input          = COALESCE($3, raw_input),
			category           = COALESCE($4, category),
			duration_minutes   = COALESCE($5, duration_minutes),
			productivity_score = COALESCE($6, productivity_score)
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, raw_input, activity_name, category, duration_minutes,
		          sentiment_score, productivity_score, is_focus_session, source, timestamp`,
		params.ActivityID, params.UserID, name, category, duration, score,
	).Scan(&a.ID, &a.UserID, &a.RawInput, &a.Name, &a.Category,
		&a.DurationMinutes, &a.SentimentScore, &a.ProductivityScore,
		&a.IsFocusSession, &a.Source, &a.Timestamp)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// DeleteActivity removes an activity owned by the user.
func (p *PostgresStore) DeleteActivity(ctx context.Context, userID, activityID int) error {
	tag, err := p.pool.Exec(ctx, `
		DELETE FROM activity_logs WHERE id = $1 AND user_id = $2`, activityID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GrantItem adds one copy of a catalog item to the user's collection.
func (p *PostgresStore) GrantItem(ctx context.Context, userID, itemID int) (*UserItem, bool, error) {
	var entry UserItem
	err := p.pool.QueryRow(ctx, `
		INSERT INTO user_items (user_id, item_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, item_id)
		DO UPDATE SET count = user_items.count + 1
		RETURNING id, user_id, item_id, count, is_broken, acquired_at`,
		userID, itemID,
	).Scan(&entry.ID, &entry.UserID, &entry.ItemID, &entry.Count, &entry.Broken, &entry.AcquiredAt)
	if err != nil {
		return nil, false, err
	}
	// Count 1 means the insert path ran, anything higher the conflict path.
	return &entry, entry.Count == 1, nil
}

// ListUserItems returns the user's collection entries in acquisition order.
func (p *PostgresStore) ListUserItems(ctx context.Context, userID int) ([]UserItem, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, user_id, item_id, count, is_broken, acquired_at
		FROM user_items WHERE user_id = $1
		ORDER BY id ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]UserItem, 0, 8)
	for rows.Next() {
		var entry UserItem
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.ItemID, &entry.Count,
			&entry.Broken, &entry.AcquiredAt); err != nil {
			return nil, err
		}
		items = append(items, entry)
	}
	return items, rows.Err()
}

// GetUserItem retrieves one collection entry by its ID.
func (p *PostgresStore) GetUserItem(ctx context.Context, userID, userItemID int) (*UserItem, error) {
	var entry UserItem
	err := p.pool.QueryRow(ctx, `
		SELECT id, user_id, item_id, count, is_broken, acquired_at
		FROM user_items WHERE id = $1 AND user_id = $2`, userItemID, userID,
	).Scan(&entry.ID, &entry.UserID, &entry.ItemID, &entry.Count, &entry.Broken, &entry.AcquiredAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// SetItemBroken marks a collection entry broken or repaired.
func (p *PostgresStore) SetItemBroken(ctx context.Context, userID, userItemID int, broken bool) error {
	tag, err := p.pool.Exec(ctx, `
		UPDATE user_items SET is_broken = $3 WHERE id = $1 AND user_id = $2`,
		userItemID, userID, broken)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GrantBadge records a badge for the user if not already earned.
func (p *PostgresStore) GrantBadge(ctx context.Context, userID int, name string, earnedAt time.Time) (bool, error) {
	tag, err := p.pool.Exec(ctx, `
		INSERT INTO user_badges (user_id, name, earned_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, name) DO NOTHING`, userID, name, earnedAt)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ListUserBadges returns the user's earned badges, oldest first.
func (p *PostgresStore) ListUserBadges(ctx context.Context, userID int) ([]UserBadge, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT name, earned_at FROM user_badges
		WHERE user_id = $1 ORDER BY earned_at ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	badges := make([]UserBadge, 0, 4)
	for rows.Next() {
		var badge UserBadge
		if err := rows.Scan(&badge.Name, &badge.EarnedAt); err != nil {
			return nil, err
		}
		badges = append(badges, badge)
	}
	return badges, rows.Err()
}

// Close closes the database connection pool.
func (p *PostgresStore) Close() error {
	p.pool.Close()
	return nil
}
