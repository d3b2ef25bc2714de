package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/focusflow/focusflow/internal/reveal"
	"github.com/focusflow/focusflow/internal/testutil"
)

func TestRegisterAndMe(t *testing.T) {
	_, _, ts := testutil.NewAPIServer(t)
	c := NewClient(ts.URL, "")

	session, err := c.Register(context.Background(), "alice@example.com", "Alice", "secret123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.Token == "" {
		t.Fatal("Expected a session token")
	}
	if c.Token != session.Token {
		t.Error("Expected the client to adopt the session token")
	}

	user, err := c.Me(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("Expected alice@example.com, got %s", user.Email)
	}
}

func TestLogin_WrongPasswordReturnsAPIError(t *testing.T) {
	_, _, ts := testutil.NewAPIServer(t)
	c := NewClient(ts.URL, "")
	if _, err := c.Register(context.Background(), "bob@example.com", "Bob", "secret123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c2 := NewClient(ts.URL, "")
	_, err := c2.Login(context.Background(), "bob@example.com", "wrong-password")
	if err == nil {
		t.Fatal("Expected login to fail")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %T", err)
	}
	if apiErr.Status != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", apiErr.Status)
	}
	if apiErr.Message != "Invalid email or password" {
		t.Errorf("Expected credential message, got %q", apiErr.Message)
	}
	if want := "API error (status 401): Invalid email or password"; err.Error() != want {
		t.Errorf("Expected %q, got %q", want, err.Error())
	}
}

func TestLogActivityAndList(t *testing.T) {
	_, _, ts := testutil.NewAPIServer(t)
	c := NewClient(ts.URL, "")
	if _, err := c.Register(context.Background(), "carol@example.com", "Carol", "secret123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := c.LogActivity(context.Background(), LogParams{
		Text:      "Worked on project proposal for 2 hours",
		LocalHour: 12,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Activity == nil || result.Activity.Category != "Career" {
		t.Fatalf("Expected a Career activity, got %+v", result.Activity)
	}
	if result.Activity.DurationMinutes != 120 {
		t.Errorf("Expected 120 minutes, got %d", result.Activity.DurationMinutes)
	}
	if result.Gamification.XPAwarded != 2 {
		t.Errorf("Expected 2 XP awarded, got %d", result.Gamification.XPAwarded)
	}
	if result.CreditsEarned != 1 || result.TotalCredits != 1 {
		t.Errorf("Expected 1 credit earned and banked, got %d/%d", result.CreditsEarned, result.TotalCredits)
	}

	page, err := c.Activities(context.Background(), "", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Count != 1 || len(page.Activities) != 1 {
		t.Fatalf("Expected 1 activity, got count=%d len=%d", page.Count, len(page.Activities))
	}
}

func TestUpdateAndDeleteActivity(t *testing.T) {
	_, _, ts := testutil.NewAPIServer(t)
	c := NewClient(ts.URL, "")
	if _, err := c.Register(context.Background(), "dave@example.com", "Dave", "secret123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := c.LogActivity(context.Background(), LogParams{Text: "Worked on code for 2 hours", LocalHour: 12})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	id := result.Activity.ID

	minutes := 60
	updated, err := c.UpdateActivity(context.Background(), id, UpdateParams{DurationMinutes: &minutes})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.DurationMinutes != 60 {
		t.Errorf("Expected 60 minutes, got %d", updated.DurationMinutes)
	}
	if updated.ProductivityScore != 10.0 {
		t.Errorf("Expected rescored 10.0, got %f", updated.ProductivityScore)
	}

	if err := c.DeleteActivity(context.Background(), id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = c.DeleteActivity(context.Background(), id)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound {
		t.Errorf("Expected 404 on second delete, got %v", err)
	}
}

func TestDashboardAndHeatmap(t *testing.T) {
	_, _, ts := testutil.NewAPIServer(t)
	c := NewClient(ts.URL, "")
	if _, err := c.Register(context.Background(), "erin@example.com", "Erin", "secret123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := c.LogActivity(context.Background(), LogParams{Text: "Worked on design for 2 hours", LocalHour: 12}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dashboard, err := c.GetDashboard(context.Background(), "", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dashboard.DailyScore != 20.0 {
		t.Errorf("Expected daily score 20.0, got %f", dashboard.DailyScore)
	}
	if dashboard.ActivityCount != 1 {
		t.Errorf("Expected 1 activity, got %d", dashboard.ActivityCount)
	}
	if dashboard.Streak.Current != 1 {
		t.Errorf("Expected streak 1, got %d", dashboard.Streak.Current)
	}
	if _, ok := dashboard.CategoryBreakdown["Career"]; !ok {
		t.Error("Expected a Career breakdown entry")
	}

	heatmap, err := c.GetHeatmap(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(heatmap.Data) != 1 {
		t.Fatalf("Expected 1 heatmap day, got %d", len(heatmap.Data))
	}
	if heatmap.Data[0].Count != 1 || heatmap.Data[0].Score != 20.0 {
		t.Errorf("Expected today's entry 1/20.0, got %d/%f", heatmap.Data[0].Count, heatmap.Data[0].Score)
	}
}

func TestChestStatus_ReflectsProductiveTime(t *testing.T) {
	_, _, ts := testutil.NewAPIServer(t)
	c := NewClient(ts.URL, "")
	if _, err := c.Register(context.Background(), "frank@example.com", "Frank", "secret123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	status, err := c.ChestStatus(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.Eligible {
		t.Error("Expected ineligible with no activity")
	}

	if _, err := c.LogActivity(context.Background(), LogParams{Text: "Worked on the backend for 2 hours", LocalHour: 12}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	status, err = c.ChestStatus(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !status.Eligible {
		t.Errorf("Expected eligible after 2 productive hours, got %+v", status)
	}
	if status.ProductiveHours != 2.0 {
		t.Errorf("Expected 2.0 productive hours, got %f", status.ProductiveHours)
	}
}

func TestOpenChest_CollectionAndRepair(t *testing.T) {
	_, st, ts := testutil.NewAPIServer(t)
	c := NewClient(ts.URL, "")
	session, err := c.Register(context.Background(), "grace@example.com", "Grace", "secret123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.GrantCredits(t, st, session.User.ID, 7)

	result, err := c.OpenChest(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success || result.CreditsRemaining != 6 {
		t.Errorf("Expected success with 6 credits left, got %+v", result)
	}
	if result.Item.ID < 1 || result.Item.ID > 20 {
		t.Errorf("Expected a catalog item, got ID %d", result.Item.ID)
	}
	if result.Rarity != result.Item.Rarity {
		t.Errorf("Expected rarity %s, got %s", result.Item.Rarity, result.Rarity)
	}

	collection, err := c.GetCollection(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if collection.OwnedCount != 1 || collection.TotalItems != 20 {
		t.Errorf("Expected 1 of 20 owned, got %d of %d", collection.OwnedCount, collection.TotalItems)
	}
	if collection.ChestCredits != 6 {
		t.Errorf("Expected 6 chest credits, got %d", collection.ChestCredits)
	}
	owned := collection.OwnedItems[0]
	if owned.Item.ID != result.Item.ID {
		t.Errorf("Expected owned item %d, got %d", result.Item.ID, owned.Item.ID)
	}

	// Break the drop and repair it through the API.
	if err := st.SetItemBroken(context.Background(), session.User.ID, owned.ID, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	repair, err := c.RepairItem(context.Background(), owned.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repair.CreditsSpent != 5 || repair.RemainingCredits != 1 {
		t.Errorf("Expected 5 spent with 1 left, got %+v", repair)
	}
	if repair.ItemName != result.Item.Name {
		t.Errorf("Expected repaired %s, got %s", result.Item.Name, repair.ItemName)
	}
}

func TestRepairItem_NotFound(t *testing.T) {
	_, _, ts := testutil.NewAPIServer(t)
	c := NewClient(ts.URL, "")
	if _, err := c.Register(context.Background(), "henry@example.com", "Henry", "secret123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := c.RepairItem(context.Background(), 9999)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound {
		t.Errorf("Expected 404, got %v", err)
	}
}

func TestOpenReward_MapsInsufficientCredits(t *testing.T) {
	_, _, ts := testutil.NewAPIServer(t)
	c := NewClient(ts.URL, "")
	if _, err := c.Register(context.Background(), "ivy@example.com", "Ivy", "secret123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := c.OpenReward(context.Background())
	if !errors.Is(err, reveal.ErrInsufficientCredits) {
		t.Errorf("Expected ErrInsufficientCredits, got %v", err)
	}
}

func TestOpenReward_Success(t *testing.T) {
	_, st, ts := testutil.NewAPIServer(t)
	c := NewClient(ts.URL, "")
	session, err := c.Register(context.Background(), "jack@example.com", "Jack", "secret123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.GrantCredits(t, st, session.User.ID, 2)

	outcome, err := c.OpenReward(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.CreditsRemaining != 1 {
		t.Errorf("Expected 1 credit remaining, got %d", outcome.CreditsRemaining)
	}
	if outcome.Prize.ID < 1 || outcome.Prize.ID > 20 {
		t.Errorf("Expected a catalog prize, got ID %d", outcome.Prize.ID)
	}
	if !outcome.IsNew || outcome.Count != 1 {
		t.Errorf("Expected a first-copy drop, got is_new=%v count=%d", outcome.IsNew, outcome.Count)
	}
}

func TestOpenReward_MapsTransportErrors(t *testing.T) {
	// A server that always fails.
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer failing.Close()

	c := NewClient(failing.URL, "token")
	if _, err := c.OpenReward(context.Background()); !errors.Is(err, reveal.ErrTransport) {
		t.Errorf("Expected ErrTransport for a 500, got %v", err)
	}

	// A server that is not there at all.
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	down.Close()

	c = NewClient(down.URL, "token")
	if _, err := c.OpenReward(context.Background()); !errors.Is(err, reveal.ErrTransport) {
		t.Errorf("Expected ErrTransport for a dead server, got %v", err)
	}
}

func TestCatalog_RevalidatesWithETag(t *testing.T) {
	requests := 0
	var lastIfNoneMatch string
	fake := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		lastIfNoneMatch = r.Header.Get("If-None-Match")
		if lastIfNoneMatch == `W/"abc"` {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", `W/"abc"`)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[{"id":1,"name":"Code Snippet","rarity":"Common","icon_name":"Code","description":"x"}],"count":1}`))
	}))
	defer fake.Close()

	c := NewClient(fake.URL, "")

	first, err := c.Catalog(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first) != 1 || first[0].Name != "Code Snippet" {
		t.Fatalf("Expected the served catalog, got %+v", first)
	}

	second, err := c.Catalog(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lastIfNoneMatch != `W/"abc"` {
		t.Errorf("Expected If-None-Match on revalidation, got %q", lastIfNoneMatch)
	}
	if requests != 2 {
		t.Errorf("Expected 2 requests, got %d", requests)
	}
	if len(second) != 1 || second[0].ID != first[0].ID {
		t.Errorf("Expected the cached catalog on 304, got %+v", second)
	}
}

func TestCatalog_AgainstServer(t *testing.T) {
	_, _, ts := testutil.NewAPIServer(t)
	c := NewClient(ts.URL, "")

	items, err := c.Catalog(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 20 {
		t.Fatalf("Expected 20 catalog items, got %d", len(items))
	}

	again, err := c.Catalog(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(again) != 20 {
		t.Errorf("Expected 20 items on revalidation, got %d", len(again))
	}
}
