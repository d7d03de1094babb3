// Package service implements the engagement engine: ban gating, reaction
// aggregation, the points ledger, milestone evaluation, and notification
// dispatch. Cross-entity flows are sequences of independently committing
// per-key transactions; every step after the primary mutation is either
// idempotent or explicitly at-least-once.
package service

import (
	"context"
	"fmt"
	"time"

	"kindred/internal/models"
	"kindred/internal/observability"
	"kindred/internal/repository"
	"kindred/internal/store"
)

const clearTimeout = 3 * time.Second

// BanService gates mutating operations on the actor's ban state and
// lazily clears expired temporary bans.
type BanService struct {
	profiles repository.ProfileRepository
	now      func() time.Time
}

// NewBanService returns a new BanService.
func NewBanService(profiles repository.ProfileRepository) *BanService {
	return &BanService{profiles: profiles, now: time.Now}
}

// CheckCanAct rejects the actor with PERMISSION_DENIED if they are
// permanently banned or under an active temporary ban. The check runs
// before any transaction, so a rejected action mutates nothing. An
// observed expired temporary ban schedules an asynchronous clear.
func (s *BanService) CheckCanAct(ctx context.Context, userID string) error {
	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		return wrapStoreErr("ban check", err)
	}

	if profile.IsBanned {
		return models.NewPermissionDeniedError("account is permanently banned")
	}

	now := s.now()
	if profile.TempBanActive(now) {
		until := time.UnixMilli(profile.TempBanUntil).UTC().Format(time.RFC3339)
		msg := fmt.Sprintf("account is banned until %s", until)
		if profile.TempBanReason != "" {
			msg = fmt.Sprintf("%s: %s", msg, profile.TempBanReason)
		}
		return models.NewPermissionDeniedError(msg)
	}

	if profile.TempBanExpired(now) {
		s.scheduleClear(userID)
	}

	return nil
}

// ClearExpiredTempBan resets an expired temporary ban. Safe to call any
// number of times and from any number of concurrent observers: the clear
// commits only while the ban is still set and expired, so racing calls
// collapse to a single net effect.
func (s *BanService) ClearExpiredTempBan(ctx context.Context, userID string) error {
	cleared := false
	err := s.profiles.Update(ctx, userID, func(profile *models.UserProfile) error {
		if !profile.TempBanExpired(s.now()) {
			cleared = false
			return store.ErrNoChange
		}
		profile.TempBanUntil = 0
		profile.TempBanReason = ""
		cleared = true
		return nil
	})
	if err != nil {
		return wrapStoreErr("temp ban clear", err)
	}
	if cleared {
		observability.TempBansCleared.Inc()
	}
	return nil
}

// scheduleClear fires the lazy-expiry clear without blocking the caller's
// action. The clear is idempotent, so a lost goroutine just leaves the
// job for the next observer.
func (s *BanService) scheduleClear(userID string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), clearTimeout)
		defer cancel()
		if err := s.ClearExpiredTempBan(ctx, userID); err != nil {
			observability.GlobalLogger.WarnContext(ctx, "lazy temp ban clear failed",
				"user_id", userID, "err", err)
		}
	}()
}
