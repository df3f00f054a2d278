package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/schema"
	log "github.com/sirupsen/logrus"

	"LevelSentinel/internal/analyzer"
	"LevelSentinel/internal/calculator"
	"LevelSentinel/internal/collector"
	"LevelSentinel/internal/model"
)

const dateLayout = "2006-01-02"

var decoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}()

type levelsQuery struct {
	Ticker    string   `schema:"ticker"`
	StartDate string   `schema:"start_date"`
	EndDate   string   `schema:"end_date"`
	Interval  string   `schema:"interval"`
	Confirm   []string `schema:"confirm"`
}

type SignificantLevelsResponse struct {
	SignificantLevels []float64 `json:"significant_levels"`
}

type TrendResponse struct {
	Trend model.TrendLabel `json:"trend"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte("ok"))
}

func (s *Server) handleSignificantLevels(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRequest(r, false)
	if err != nil {
		setErrorResponse(http.StatusBadRequest, err.Error(), w)
		return
	}

	levels, err := s.Service.SignificantLevels(r.Context(), req.Symbol, req.Base, req.Start, req.End)
	if err != nil {
		s.fail(w, req, err)
		return
	}
	if levels == nil {
		levels = []float64{}
	}
	setResponse(&SignificantLevelsResponse{SignificantLevels: levels}, w)
}

func (s *Server) handleValidatedLevels(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRequest(r, true)
	if err != nil {
		setErrorResponse(http.StatusBadRequest, err.Error(), w)
		return
	}

	report, err := s.Service.Analyze(r.Context(), req)
	if err != nil {
		s.fail(w, req, err)
		return
	}
	setResponse(report, w)
}

func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRequest(r, false)
	if err != nil {
		setErrorResponse(http.StatusBadRequest, err.Error(), w)
		return
	}

	trend, err := s.Service.Trend(r.Context(), req.Symbol, req.Base, req.Start, req.End)
	if err != nil {
		s.fail(w, req, err)
		return
	}
	setResponse(&TrendResponse{Trend: trend}, w)
}

// parseRequest decodes the query string and fills defaults. The end date is
// exclusive; without dates the window covers the last LookbackDays days.
// Confirm intervals are only kept for multi-timeframe requests.
func (s *Server) parseRequest(r *http.Request, withConfirm bool) (analyzer.Request, error) {
	var q levelsQuery
	if err := decoder.Decode(&q, r.URL.Query()); err != nil {
		return analyzer.Request{}, fmt.Errorf("decode query: %w", err)
	}

	req := analyzer.Request{
		Symbol:  strings.ToUpper(strings.TrimSpace(q.Ticker)),
		Base:    s.BaseInterval,
		Confirm: s.Confirm,
	}
	if q.Interval != "" {
		req.Base = model.Interval(q.Interval)
	}
	if len(q.Confirm) > 0 {
		req.Confirm = nil
		for _, c := range q.Confirm {
			for _, part := range strings.Split(c, ",") {
				if part = strings.TrimSpace(part); part != "" {
					req.Confirm = append(req.Confirm, model.Interval(part))
				}
			}
		}
	}

	_, req.End = analyzer.LookbackWindow(s.Now(), s.LookbackDays)
	if q.EndDate != "" {
		end, err := time.Parse(dateLayout, q.EndDate)
		if err != nil {
			return req, fmt.Errorf("invalid end_date %q, expected YYYY-MM-DD", q.EndDate)
		}
		req.End = end
	}
	req.Start = req.End.AddDate(0, 0, -s.LookbackDays)
	if q.StartDate != "" {
		start, err := time.Parse(dateLayout, q.StartDate)
		if err != nil {
			return req, fmt.Errorf("invalid start_date %q, expected YYYY-MM-DD", q.StartDate)
		}
		req.Start = start
	}

	if !withConfirm {
		req.Confirm = nil
	}
	if err := req.Validate(); err != nil {
		return req, err
	}
	return req, nil
}

func (s *Server) fail(w http.ResponseWriter, req analyzer.Request, err error) {
	entry := log.WithFields(log.Fields{"ticker": req.Symbol, "interval": req.Base}).WithError(err)
	switch {
	case errors.Is(err, collector.ErrNoData):
		entry.Info("no data")
		setErrorResponse(http.StatusNotFound, noDataMessage, w)
	case errors.Is(err, calculator.ErrMalformedSeries):
		entry.Warn("malformed series")
		setErrorResponse(http.StatusUnprocessableEntity, err.Error(), w)
	default:
		entry.Error("request failed")
		setErrorResponse(http.StatusInternalServerError, err.Error(), w)
	}
}
