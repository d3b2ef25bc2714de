package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/focusflow/focusflow/internal/auth"
	"github.com/focusflow/focusflow/internal/gamification"
	"github.com/focusflow/focusflow/internal/loot"
	"github.com/focusflow/focusflow/internal/store"
	"github.com/focusflow/focusflow/internal/telemetry"
)

// handleChestStatus reports progress toward today's chest unlock. The day is
// the current UTC date; eligibility counts Career and Health minutes only.
func (s *Server) handleChestStatus(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	activities, err := s.store.ListActivities(r.Context(), userID, start, start.Add(24*time.Hour), 0)
	if err != nil {
		InternalError(w, r, "Failed to list activities")
		return
	}

	writeJSON(w, http.StatusOK, gamification.ChestEligibility(activities))
}

type openChestResponse struct {
	Success          bool        `json:"success"`
	CreditsRemaining int         `json:"credits_remaining"`
	Item             loot.Item   `json:"item"`
	IsNew            bool        `json:"is_new"`
	Count            int         `json:"count"`
	Rarity           loot.Rarity `json:"rarity"`
}

// handleOpenChest spends one credit and awards a random item. The credit is
// deducted before the draw and refunded if the grant fails, so a crash can
// only ever cost the server an item, never the user a credit.
func (s *Server) handleOpenChest(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	remaining, err := s.store.SpendCredits(r.Context(), userID, 1)
	if err != nil {
		if errors.Is(err, store.ErrInsufficientCredits) {
			BadRequestError(w, r, ErrCodeInsufficientCredits, "No keys available")
			return
		}
		InternalError(w, r, "Failed to spend credit")
		return
	}

	item := loot.Draw(s.rng)

	userItem, isNew, err := s.store.GrantItem(r.Context(), userID, item.ID)
	if err != nil {
		if _, refundErr := s.store.AddCredits(r.Context(), userID, 1); refundErr != nil {
			s.logger.Error().Err(refundErr).Int("user_id", userID).Msg("credit refund failed")
		}
		InternalError(w, r, "Failed to grant item")
		return
	}

	telemetry.ChestOpens.WithLabelValues(string(item.Rarity)).Inc()
	s.logger.Info().
		Int("user_id", userID).
		Str("item", item.Name).
		Str("rarity", string(item.Rarity)).
		Bool("is_new", isNew).
		Msg("chest opened")

	writeJSON(w, http.StatusOK, openChestResponse{
		Success:          true,
		CreditsRemaining: remaining,
		Item:             item,
		IsNew:            isNew,
		Count:            userItem.Count,
		Rarity:           item.Rarity,
	})
}

type ownedItem struct {
	store.UserItem
	Item loot.Item `json:"item"`
}

type collectionItem struct {
	loot.Item
	Owned    bool `json:"owned"`
	Count    int  `json:"count"`
	IsBroken bool `json:"is_broken"`
}

// handleCollection returns the user's items overlaid on the full catalog.
func (s *Server) handleCollection(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	userItems, err := s.store.ListUserItems(r.Context(), userID)
	if err != nil {
		InternalError(w, r, "Failed to list items")
		return
	}
	user, err := s.store.GetUserByID(r.Context(), userID)
	if err != nil {
		InternalError(w, r, "Failed to load user")
		return
	}

	byItemID := make(map[int]store.UserItem, len(userItems))
	brokenCount := 0
	owned := make([]ownedItem, 0, len(userItems))
	for _, ui := range userItems {
		byItemID[ui.ItemID] = ui
		if ui.Broken {
			brokenCount++
		}
		def, _ := loot.ItemByID(ui.ItemID)
		owned = append(owned, ownedItem{UserItem: ui, Item: def})
	}

	catalog := loot.Catalog()
	allItems := make([]collectionItem, 0, len(catalog))
	for _, item := range catalog {
		ui, ok := byItemID[item.ID]
		allItems = append(allItems, collectionItem{
			Item:     item,
			Owned:    ok,
			Count:    ui.Count,
			IsBroken: ui.Broken,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"owned_items":   owned,
		"owned_count":   len(owned),
		"broken_count":  brokenCount,
		"total_items":   len(catalog),
		"chest_credits": user.ChestCredits,
		"all_items":     allItems,
	})
}

// handleRepairItem restores a broken item for a flat credit cost. The URL id
// is the user's collection row, not the catalog item id.
func (s *Server) handleRepairItem(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	userItemID, ok := urlParamInt(r, "id")
	if !ok {
		BadRequestError(w, r, ErrCodeValidation, "Item ID must be an integer")
		return
	}

	userItem, err := s.store.GetUserItem(r.Context(), userID, userItemID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFoundError(w, r, "Item not found")
			return
		}
		InternalError(w, r, "Failed to load item")
		return
	}
	if !userItem.Broken {
		BadRequestError(w, r, ErrCodeItemNotBroken, "Item is not broken")
		return
	}

	remaining, err := s.store.SpendCredits(r.Context(), userID, gamification.RepairCost)
	if err != nil {
		if errors.Is(err, store.ErrInsufficientCredits) {
			user, userErr := s.store.GetUserByID(r.Context(), userID)
			have := 0
			if userErr == nil {
				have = user.ChestCredits
			}
			BadRequestErrorWithFields(w, r, ErrCodeInsufficientCredits,
				fmt.Sprintf("Not enough credits. Need %d, have %d", gamification.RepairCost, have),
				map[string]string{
					"cost":            strconv.Itoa(gamification.RepairCost),
					"current_credits": strconv.Itoa(have),
				})
			return
		}
		InternalError(w, r, "Failed to spend credits")
		return
	}

	if err := s.store.SetItemBroken(r.Context(), userID, userItemID, false); err != nil {
		if _, refundErr := s.store.AddCredits(r.Context(), userID, gamification.RepairCost); refundErr != nil {
			s.logger.Error().Err(refundErr).Int("user_id", userID).Msg("credit refund failed")
		}
		InternalError(w, r, "Failed to repair item")
		return
	}

	def, _ := loot.ItemByID(userItem.ItemID)
	s.logger.Info().
		Int("user_id", userID).
		Str("item", def.Name).
		Int("credits_spent", gamification.RepairCost).
		Msg("item repaired")

	writeJSON(w, http.StatusOK, map[string]any{
		"success":           true,
		"item_name":         def.Name,
		"credits_spent":     gamification.RepairCost,
		"remaining_credits": remaining,
		"message":           fmt.Sprintf("✨ %s has been repaired!", def.Name),
	})
}
