package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/focusflow/focusflow/internal/reveal"
)

// codeInsufficientCredits is the server's error code for an open with no
// credits. Matched by code rather than message so wording can change.
const codeInsufficientCredits = "INSUFFICIENT_CREDITS"

// OpenReward implements reveal.Provider on top of OpenChest, translating
// API failures into the sentinel errors the reveal engine distinguishes.
func (c *Client) OpenReward(ctx context.Context) (reveal.Outcome, error) {
	result, err := c.OpenChest(ctx)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Code == codeInsufficientCredits {
			return reveal.Outcome{}, fmt.Errorf("%w: %s", reveal.ErrInsufficientCredits, apiErr.Message)
		}
		return reveal.Outcome{}, fmt.Errorf("%w: %v", reveal.ErrTransport, err)
	}

	return reveal.Outcome{
		Prize:            result.Item,
		CreditsRemaining: result.CreditsRemaining,
		IsNew:            result.IsNew,
		Count:            result.Count,
	}, nil
}
