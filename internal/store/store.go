package store

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors returned by Store implementations. Handlers map these to
// API error codes, so implementations must return them unwrapped or wrapped
// with %w.
var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrEmailTaken is returned when creating a user with an email that is
	// already registered.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInsufficientCredits is returned when a credit spend would take the
	// balance below zero. The balance is left untouched.
	ErrInsufficientCredits = errors.New("insufficient chest credits")
)

// Category classifies an activity for scoring and aggregation.
type Category string

const (
	CategoryCareer  Category = "Career"
	CategoryHealth  Category = "Health"
	CategoryLeisure Category = "Leisure"
	CategoryChores  Category = "Chores"
	CategorySocial  Category = "Social"
)

// Categories lists all activity categories in display order.
var Categories = []Category{CategoryCareer, CategoryHealth, CategoryLeisure, CategoryChores, CategorySocial}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Source records where an activity entry came from.
type Source string

const (
	SourceManual         Source = "manual"
	SourceGoogleCalendar Source = "google_calendar"
	SourceAppleHealth    Source = "apple_health"
	SourceAPI            Source = "api"
)

// Sources lists all known activity sources.
var Sources = []Source{SourceManual, SourceGoogleCalendar, SourceAppleHealth, SourceAPI}

// Valid reports whether s is a known source.
func (s Source) Valid() bool {
	for _, known := range Sources {
		if s == known {
			return true
		}
	}
	return false
}

// User is an account with its gamification progress. PasswordHash is empty
// for the seeded demo user.
type User struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`

	XP    int `json:"xp"`
	Level int `json:"level"`

	// ChestCredits is the spendable reward-chest balance. ProductiveMinutes
	// carries the remainder toward the next credit (1 credit per 120
	// productive minutes, cumulative across activities).
	ChestCredits      int `json:"chest_credits"`
	ProductiveMinutes int `json:"productive_minutes"`
}

// Activity is one logged activity with its parsed and scored fields.
type Activity struct {
	ID                int       `json:"id"`
	UserID            int       `json:"user_id"`
	RawInput          string    `json:"raw_input"`
	Name              string    `json:"activity_name"`
	Category          Category  `json:"category"`
	DurationMinutes   int       `json:"duration_minutes"`
	SentimentScore    float64   `json:"sentiment_score"`
	ProductivityScore float64   `json:"productivity_score"`
	IsFocusSession    bool      `json:"is_focus_session"`
	Source            Source    `json:"source"`
	Timestamp         time.Time `json:"timestamp"`
}

// UserItem is one entry in a user's collection. ItemID refers to the static
// loot catalog; Count increments on duplicate drops.
type UserItem struct {
	ID         int       `json:"id"`
	UserID     int       `json:"user_id"`
	ItemID     int       `json:"item_id"`
	Count      int       `json:"count"`
	Broken     bool      `json:"is_broken"`
	AcquiredAt time.Time `json:"acquired_at"`
}

// UserBadge records an earned badge by name. Definitions live in the
// gamification package; the store only tracks ownership.
type UserBadge struct {
	Name     string    `json:"name"`
	EarnedAt time.Time `json:"earned_at"`
}

// CreateUserParams contains the parameters for registering a user.
type CreateUserParams struct {
	Email        string
	Name         string
	PasswordHash string
}

// CreateActivityParams contains the parameters for logging an activity.
type CreateActivityParams struct {
	UserID            int
	RawInput          string
	Name              string
	Category          Category
	DurationMinutes   int
	SentimentScore    float64
	ProductivityScore float64
	IsFocusSession    bool
	Source            Source
	Timestamp         time.Time
}

// UpdateActivityParams contains the editable fields of an activity. Nil
// pointers leave the current value unchanged.
type UpdateActivityParams struct {
	UserID     int
	ActivityID int

	Name              *string
	Category          *Category
	DurationMinutes   *int
	ProductivityScore *float64
}

// ProgressParams carries a user's gamification counters after an update.
type ProgressParams struct {
	UserID            int
	XP                int
	Level             int
	ChestCredits      int
	ProductiveMinutes int
}

// Store defines the interface for FocusFlow persistence operations.
// Implementations must be thread-safe and support concurrent access.
type Store interface {
	// CreateUser registers a new account.
	// Returns ErrEmailTaken if the email is already in use.
	CreateUser(ctx context.Context, params CreateUserParams) (*User, error)

	// GetUserByEmail retrieves a user by email.
	// Returns ErrNotFound if no such user exists.
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	// GetUserByID retrieves a user by ID.
	// Returns ErrNotFound if no such user exists.
	GetUserByID(ctx context.Context, id int) (*User, error)

	// UpdateUserProgress overwrites the user's gamification counters.
	UpdateUserProgress(ctx context.Context, params ProgressParams) error

	// SpendCredits atomically deducts n chest credits and returns the new
	// balance. Returns ErrInsufficientCredits (and leaves the balance
	// unchanged) when fewer than n credits are available.
	SpendCredits(ctx context.Context, userID, n int) (int, error)

	// AddCredits atomically adds n chest credits and returns the new balance.
	AddCredits(ctx context.Context, userID, n int) (int, error)

	// CreateActivity logs a new activity and returns it with its assigned ID.
	CreateActivity(ctx context.Context, params CreateActivityParams) (*Activity, error)

	// GetActivity retrieves an activity owned by the user.
	// Returns ErrNotFound if the activity does not exist or belongs to
	// someone else.
	GetActivity(ctx context.Context, userID, activityID int) (*Activity, error)

	// ListActivities returns the user's activities with from <= timestamp < to,
	// newest first, capped at limit (0 means no cap).
	ListActivities(ctx context.Context, userID int, from, to time.Time, limit int) ([]Activity, error)

	// ListAllActivities returns every activity for the user, oldest first.
	// Badge checks and streaks need the full history.
	ListAllActivities(ctx context.Context, userID int) ([]Activity, error)

	// UpdateActivity edits an activity owned by the user.
	// Returns ErrNotFound if the activity does not exist or belongs to
	// someone else.
	UpdateActivity(ctx context.Context, params UpdateActivityParams) (*Activity, error)

	// DeleteActivity removes an activity owned by the user.
	// Returns ErrNotFound if the activity does not exist or belongs to
	// someone else.
	DeleteActivity(ctx context.Context, userID, activityID int) error

	// GrantItem adds one copy of a catalog item to the user's collection.
	// Returns the updated entry and whether this is the first copy.
	GrantItem(ctx context.Context, userID, itemID int) (*UserItem, bool, error)

	// ListUserItems returns the user's collection entries.
	ListUserItems(ctx context.Context, userID int) ([]UserItem, error)

	// GetUserItem retrieves one collection entry by its ID.
	// Returns ErrNotFound if it does not exist or belongs to someone else.
	GetUserItem(ctx context.Context, userID, userItemID int) (*UserItem, error)

	// SetItemBroken marks a collection entry broken or repaired.
	SetItemBroken(ctx context.Context, userID, userItemID int, broken bool) error

	// GrantBadge records a badge for the user. Returns false when the badge
	// was already earned (idempotent).
	GrantBadge(ctx context.Context, userID int, name string, earnedAt time.Time) (bool, error)

	// ListUserBadges returns the user's earned badges, oldest first.
	ListUserBadges(ctx context.Context, userID int) ([]UserBadge, error)

	// Close releases any resources held by the store.
	// After Close is called, the store should not be used.
	Close() error
}
