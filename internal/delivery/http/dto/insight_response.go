package dto

import (
	domain "career-crafter/internal/domain/insight"
	"career-crafter/internal/usecase/insight"
)

// InsightResponse is the dashboard payload. Source and Stale let the client badge
// data that is past its freshness window.
type InsightResponse struct {
	domain.Record
	Source string `json:"source"`
	Stale  bool   `json:"stale"`
}

func NewInsightResponse(res insight.Result) InsightResponse {
	return InsightResponse{Record: res.Record, Source: string(res.Source), Stale: res.Stale()}
}
