package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/riskibarqy/matchday/internal/usecase"
)

type leaguesQuery struct {
	Season int `validate:"omitempty,gte=1900,lte=2100"`
}

type fixturesQuery struct {
	Date     string `validate:"required,datetime=2006-01-02"`
	LeagueID int64  `validate:"gte=0"`
	Season   int    `validate:"omitempty,gte=1900,lte=2100"`
}

type fixtureQuery struct {
	FixtureID     int64    `validate:"required,gt=0"`
	MinConfidence *float64 `validate:"omitempty,gte=0,lte=100"`
}

type standingsQuery struct {
	LeagueID int64 `validate:"required,gt=0"`
	Season   int   `validate:"required,gte=1900,lte=2100"`
}

// League and season narrow the team queries; zero leaves them out of the
// provider request.
type teamStatsQuery struct {
	TeamID   int64 `validate:"required,gt=0"`
	LeagueID int64 `validate:"omitempty,gt=0"`
	Season   int   `validate:"omitempty,gte=1900,lte=2100"`
}

type teamFixturesQuery struct {
	TeamID int64  `validate:"required,gt=0"`
	Season int    `validate:"omitempty,gte=1900,lte=2100"`
	Status string `validate:"omitempty,max=32,excludesall=/?&"`
}

type dashboardQuery struct {
	fixturesQuery
	MinConfidence *float64 `validate:"omitempty,gte=0,lte=100"`
}

// queryReader collects the first parse error so handlers can validate once.
type queryReader struct {
	r   *http.Request
	err error
}

func newQueryReader(r *http.Request) *queryReader {
	return &queryReader{r: r}
}

func (q *queryReader) raw(name string) string {
	return strings.TrimSpace(q.r.URL.Query().Get(name))
}

func (q *queryReader) fail(name, value string) {
	if q.err == nil {
		q.err = fmt.Errorf("%w: %s has invalid value %q", usecase.ErrInvalidInput, name, value)
	}
}

func (q *queryReader) String(name string) string {
	return q.raw(name)
}

func (q *queryReader) Int64(name string) int64 {
	value := q.raw(name)
	if value == "" {
		return 0
	}
	out, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		q.fail(name, value)
		return 0
	}
	return out
}

func (q *queryReader) Int(name string) int {
	return int(q.Int64(name))
}

func (q *queryReader) PathInt64(name string) int64 {
	value := strings.TrimSpace(q.r.PathValue(name))
	out, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		q.fail(name, value)
		return 0
	}
	return out
}

func (q *queryReader) OptionalFloat(name string) *float64 {
	value := q.raw(name)
	if value == "" {
		return nil
	}
	out, err := strconv.ParseFloat(value, 64)
	if err != nil {
		q.fail(name, value)
		return nil
	}
	return &out
}

func (q *queryReader) Bool(name string, fallback bool) bool {
	value := q.raw(name)
	if value == "" {
		return fallback
	}
	out, err := strconv.ParseBool(value)
	if err != nil {
		q.fail(name, value)
		return fallback
	}
	return out
}

func (q *queryReader) Err() error {
	return q.err
}
