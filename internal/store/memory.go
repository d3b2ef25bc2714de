package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore is an in-memory implementation of the Store interface.
// It uses maps guarded by an RWMutex for thread-safe concurrent access.
// This implementation is suitable for development, testing, or single-instance deployments.
type MemoryStore struct {
	mu sync.RWMutex

	users        map[int]User     // id -> User
	emails       map[string]int   // lowercased email -> user id
	activities   map[int]Activity // id -> Activity
	userItems    map[int]UserItem // id -> UserItem
	badges       map[int][]UserBadge
	nextUser     int
	nextActivity int
	nextUserItem int
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:        make(map[int]User),
		emails:       make(map[string]int),
		activities:   make(map[int]Activity),
		userItems:    make(map[int]UserItem),
		badges:       make(map[int][]UserBadge),
		nextUser:     1,
		nextActivity: 1,
		nextUserItem: 1,
	}
}

// CreateUser registers a new account in memory.
func (m *MemoryStore) CreateUser(ctx context.Context, params CreateUserParams) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(params.Email)
	if _, exists := m.emails[key]; exists {
		return nil, ErrEmailTaken
	}

	user := User{
		ID:           m.nextUser,
		Email:        params.Email,
		Name:         params.Name,
		PasswordHash: params.PasswordHash,
		CreatedAt:    time.Now().UTC(),
		Level:        1,
	}
	m.nextUser++
	m.users[user.ID] = user
	m.emails[key] = user.ID

	return &user, nil
}

// GetUserByEmail retrieves a user by email (case-insensitive).
func (m *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, exists := m.emails[strings.ToLower(email)]
	if !exists {
		return nil, ErrNotFound
	}
	user := m.users[id]
	return &user, nil
}

// GetUserByID retrieves a user by ID.
func (m *MemoryStore) GetUserByID(ctx context.Context, id int) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, exists := m.users[id]
	if !exists {
		return nil, ErrNotFound
	}
	return &user, nil
}

// UpdateUserProgress overwrites the user's gamification counters.
func (m *MemoryStore) UpdateUserProgress(ctx context.Context, params ProgressParams) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, exists := m.users[params.UserID]
	if !exists {
		return ErrNotFound
	}
	user.XP = params.XP
	user.Level = params.Level
	user.ChestCredits = params.ChestCredits
	user.ProductiveMinutes = params.ProductiveMinutes
	m.users[params.UserID] = user
	return nil
}

// SpendCredits atomically deducts n chest credits.
func (m *MemoryStore) SpendCredits(ctx context.Context, userID, n int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, exists := m.users[userID]
	if !exists {
		return 0, ErrNotFound
	}
	if user.ChestCredits < n {
		return user.ChestCredits, ErrInsufficientCredits
	}
	user.ChestCredits -= n
	m.users[userID] = user
	return user.ChestCredits, nil
}

// AddCredits atomically adds n chest credits.
func (m *MemoryStore) AddCredits(ctx context.Context, userID, n int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, exists := m.users[userID]
	if !exists {
		return 0, ErrNotFound
	}
	user.ChestCredits += n
	m.users[userID] = user
	return user.ChestCredits, nil
}

// CreateActivity logs a new activity in memory.
func (m *MemoryStore) CreateActivity(ctx context.Context, params CreateActivityParams) (*Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.users[params.UserID]; !exists {
		return nil, ErrNotFound
	}

	timestamp := params.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	}
	source := params.Source
	if source == "" {
		source = SourceManual
	}

	activity := Activity{
		ID:                m.nextActivity,
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
	m.nextActivity++
	m.activities[activity.ID] = activity

	return &activity, nil
}

// GetActivity retrieves an activity owned by the user.
func (m *MemoryStore) GetActivity(ctx context.Context, userID, activityID int) (*Activity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	activity, exists := m.activities[activityID]
	if !exists || activity.UserID != userID {
		return nil, ErrNotFound
	}
	return &activity, nil
}

// ListActivities returns activities in [from, to), newest first.
func (m *MemoryStore) ListActivities(ctx context.Context, userID int, from, to time.Time, limit int) ([]Activity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Preallocate with reasonable capacity estimate
	result := make([]Activity, 0, 16)
	for _, activity := range m.activities {
		if activity.UserID != userID {
			continue
		}
		if activity.Timestamp.Before(from) || !activity.Timestamp.Before(to) {
			continue
		}
		result = append(result, activity)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Timestamp.After(result[j].Timestamp)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// ListAllActivities returns every activity for the user, oldest first.
func (m *MemoryStore) ListAllActivities(ctx context.Context, userID int) ([]Activity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]Activity, 0, 16)
	for _, activity := range m.activities {
		if activity.UserID == userID {
			result = append(result, activity)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Timestamp.Equal(result[j].Timestamp) {
			return result[i].ID < result[j].ID
		}
		return result[i].Timestamp.Before(result[j].Timestamp)
	})
	return result, nil
}

// UpdateActivity edits an activity owned by the user.
func (m *MemoryStore) UpdateActivity(ctx context.Context, params UpdateActivityParams) (*Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	activity, exists := m.activities[params.ActivityID]
	if !exists || activity.UserID != params.UserID {
		return nil, ErrNotFound
	}

	if params.Name != nil {
		activity.Name = *params.Name
		activity.RawInput = *params.Name
	}
	if params.Category != nil {
		activity.Category = *params.Category
	}
	if params.DurationMinutes != nil {
		activity.DurationMinutes = *params.DurationMinutes
	}
	if params.ProductivityScore != nil {
		activity.ProductivityScore = *params.ProductivityScore
	}

	m.activities[params.ActivityID] = activity
	return &activity, nil
}

// DeleteActivity removes an activity owned by the user.
func (m *MemoryStore) DeleteActivity(ctx context.Context, userID, activityID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	activity, exists := m.activities[activityID]
	if !exists || activity.UserID != userID {
		return ErrNotFound
	}
	delete(m.activities, activityID)
	return nil
}

// GrantItem adds one copy of a catalog item to the user's collection.
func (m *MemoryStore) GrantItem(ctx context.Context, userID, itemID int) (*UserItem, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.users[userID]; !exists {
		return nil, false, ErrNotFound
	}

	for id, entry := range m.userItems {
		if entry.UserID == userID && entry.ItemID == itemID {
			entry.Count++
			m.userItems[id] = entry
			return &entry, false, nil
		}
	}

	entry := UserItem{
		ID:         m.nextUserItem,
		UserID:     userID,
		ItemID:     itemID,
		Count:      1,
		AcquiredAt: time.Now().UTC(),
	}
	m.nextUserItem++
	m.userItems[entry.ID] = entry
	return &entry, true, nil
}

// ListUserItems returns the user's collection entries in acquisition order.
func (m *MemoryStore) ListUserItems(ctx context.Context, userID int) ([]UserItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]UserItem, 0, 8)
	for _, entry := range m.userItems {
		if entry.UserID == userID {
			result = append(result, entry)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// GetUserItem retrieves one collection entry by its ID.
func (m *MemoryStore) GetUserItem(ctx context.Context, userID, userItemID int) (*UserItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, exists := m.userItems[userItemID]
	if !exists || entry.UserID != userID {
		return nil, ErrNotFound
	}
	return &entry, nil
}

// SetItemBroken marks a collection entry broken or repaired.
func (m *MemoryStore) SetItemBroken(ctx context.Context, userID, userItemID int, broken bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.userItems[userItemID]
	if !exists || entry.UserID != userID {
		return ErrNotFound
	}
	entry.Broken = broken
	m.userItems[userItemID] = entry
	return nil
}

// GrantBadge records a badge for the user if not already earned.
func (m *MemoryStore) GrantBadge(ctx context.Context, userID int, name string, earnedAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.users[userID]; !exists {
		return false, ErrNotFound
	}

	for _, badge := range m.badges[userID] {
		if badge.Name == name {
			// Idempotent: already earned
			return false, nil
		}
	}
	m.badges[userID] = append(m.badges[userID], UserBadge{Name: name, EarnedAt: earnedAt})
	return true, nil
}

// ListUserBadges returns the user's earned badges, oldest first.
func (m *MemoryStore) ListUserBadges(ctx context.Context, userID int) ([]UserBadge, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	badges := m.badges[userID]
	result := make([]UserBadge, len(badges))
	copy(result, badges)
	return result, nil
}

// Close is a no-op for MemoryStore as there are no resources to release.
func (m *MemoryStore) Close() error {
	return nil
}
