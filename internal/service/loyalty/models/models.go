package models

import (
	"github.com/m04kA/SMC-BarberBooking/internal/domain"
)

// TierResponse уровень лояльности
type TierResponse struct {
	Label     string `json:"label"`
	VisualKey string `json:"visualKey"`
}

// LoyaltyResponse уровень лояльности клиента
type LoyaltyResponse struct {
	CustomerEmail      string        `json:"customerEmail"`
	CompletedCount     int           `json:"completedCount"`
	TotalBookings      int           `json:"totalBookings"`
	Tier               TierResponse  `json:"tier"`
	NextTier           *TierResponse `json:"nextTier,omitempty"`
	RemainingToNext    int           `json:"remainingToNext"`
	IsFirstTime        *bool         `json:"isFirstTime,omitempty"`
	FirstVisitDiscount int           `json:"firstVisitDiscountPercent"`
}

// RankingEntryResponse строка рейтинга
type RankingEntryResponse struct {
	Position       int          `json:"position"`
	CustomerName   string       `json:"customerName"`
	CustomerEmail  string       `json:"customerEmail"`
	CompletedCount int          `json:"completedCount"`
	Tier           TierResponse `json:"tier"`
}

// RankingResponse рейтинг клиентов по завершенным визитам
type RankingResponse struct {
	Entries []RankingEntryResponse `json:"entries"`
}

// FromDomainTier конвертирует domain модель в DTO
func FromDomainTier(t domain.Tier) TierResponse {
	return TierResponse{Label: t.Label, VisualKey: t.VisualKey}
}

// FromDomainRanking конвертирует рейтинг в DTO
func FromDomainRanking(entries []domain.RankingEntry) *RankingResponse {
	resp := &RankingResponse{
		Entries: make([]RankingEntryResponse, 0, len(entries)),
	}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, RankingEntryResponse{
			Position:       e.Position,
			CustomerName:   e.CustomerName,
			CustomerEmail:  e.CustomerEmail,
			CompletedCount: e.CompletedCount,
			Tier:           FromDomainTier(e.Tier),
		})
	}
	return resp
}
