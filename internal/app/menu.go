package app

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"nutricheck/internal/domain"
)

type MenuService struct {
	src    domain.MenuSource
	norm   *Normalizer
	misses domain.MissLogger // optional
}

func NewMenuService(src domain.MenuSource, n *Normalizer, misses domain.MissLogger) *MenuService {
	return &MenuService{src: src, norm: n, misses: misses}
}

// GetMenu fetches one location's menu for date and normalizes it.
// Fetch and decode failures are returned; shape problems never are.
func (s *MenuService) GetMenu(ctx context.Context, locationID, date string) ([]domain.MenuItem, error) {
	locationID, date = strings.TrimSpace(locationID), strings.TrimSpace(date)
	if locationID == "" || date == "" {
		return nil, domain.ErrInvalidRequest
	}

	doc, err := s.src.FetchMenu(ctx, locationID, date)
	if err != nil {
		s.logMiss(ctx, locationID, date, err)
		return nil, err
	}

	items := s.norm.Normalize(doc)
	log.Info().
		Str("location", locationID).
		Str("date", date).
		Int("items", len(items)).
		Bool("empty", len(items) == 1 && s.norm.IsNoItems(items[0])).
		Msg("menu served")
	return items, nil
}

// logMiss records a failed fetch; the miss log is best effort.
func (s *MenuService) logMiss(ctx context.Context, locationID, date string, err error) {
	status, reason := 0, err.Error()
	var ue *domain.UpstreamError
	if errors.As(err, &ue) {
		status = ue.Status
	}
	log.Warn().Err(err).Str("location", locationID).Str("date", date).Int("status", status).Msg("menu fetch failed")

	if s.misses == nil || errors.Is(err, domain.ErrCredentialsMissing) {
		return
	}
	// column sizes of fetch_misses
	if lerr := s.misses.LogMiss(ctx, clip(locationID, 64), clip(date, 32), status, clip(reason, 1024)); lerr != nil {
		log.Error().Err(lerr).Str("context", "logMiss").Msg("record upstream miss failed")
	}
}

// clip cuts s to at most n bytes without splitting a rune.
func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
