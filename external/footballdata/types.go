package footballdata

import (
	"strconv"
	"time"

	"github.com/dmoloney/lastmanstanding/internal/usecase"
)

type matchesEnvelope struct {
	Matches []matchPayload `json:"matches"`
}

type matchPayload struct {
	ID       int64         `json:"id"`
	UTCDate  string        `json:"utcDate"`
	Status   string        `json:"status"`
	Matchday int           `json:"matchday"`
	HomeTeam sidePayload   `json:"homeTeam"`
	AwayTeam sidePayload   `json:"awayTeam"`
	Score    scorePayload  `json:"score"`
}

type sidePayload struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
}

type scorePayload struct {
	Winner   string          `json:"winner"`
	FullTime fullTimePayload `json:"fullTime"`
}

type fullTimePayload struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

func mapMatches(matches []matchPayload) []usecase.ExternalFixture {
	out := make([]usecase.ExternalFixture, 0, len(matches))
	for _, m := range matches {
		if m.HomeTeam.Name == "" || m.AwayTeam.Name == "" {
			continue
		}
		out = append(out, usecase.ExternalFixture{
			EventID:   strconv.FormatInt(m.ID, 10),
			Matchday:  m.Matchday,
			HomeTeam:  m.HomeTeam.Name,
			AwayTeam:  m.AwayTeam.Name,
			KickoffAt: parseUTCDate(m.UTCDate),
			HomeScore: m.Score.FullTime.Home,
			AwayScore: m.Score.FullTime.Away,
			Status:    m.Status,
		})
	}
	return out
}

func parseUTCDate(value string) time.Time {
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return parsed.UTC()
}
