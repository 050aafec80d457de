// Package dto provides data transfer objects for HTTP response handling.
package dto

import (
	usageDomain "github.com/allisson/gateway/internal/usage/domain"
)

// DayCountResponse represents one day's call count in HTTP responses.
type DayCountResponse struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

// StatsResponse represents a usage summary in HTTP responses.
type StatsResponse struct {
	TotalCalls int64              `json:"total_calls"`
	Limit      int64              `json:"limit"`
	PerDay     []DayCountResponse `json:"per_day"`
}

// MapStatsToResponse converts domain Stats to an HTTP response.
func MapStatsToResponse(stats *usageDomain.Stats) StatsResponse {
	perDay := make([]DayCountResponse, 0, len(stats.PerDay))
	for _, day := range stats.PerDay {
		perDay = append(perDay, DayCountResponse{
			Day:   day.Day.Format("2006-01-02"),
			Count: day.Count,
		})
	}
	return StatsResponse{
		TotalCalls: stats.TotalCalls,
		Limit:      stats.Limit,
		PerDay:     perDay,
	}
}
