package api

import (
	"context"
	"errors"

	"github.com/focusflow/focusflow/internal/store"
)

// DemoEmail is the seeded account used by the terminal client's first run.
const DemoEmail = "demo@focusflow.app"

// EnsureDemoUser creates the demo account if it does not exist. The account
// has no password hash, which the login handler treats as accept-any-password.
func EnsureDemoUser(ctx context.Context, st store.Store) (*store.User, error) {
	user, err := st.GetUserByEmail(ctx, DemoEmail)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	user, err = st.CreateUser(ctx, store.CreateUserParams{
		Email: DemoEmail,
		Name:  "Demo User",
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			return st.GetUserByEmail(ctx, DemoEmail)
		}
		return nil, err
	}
	return user, nil
}
