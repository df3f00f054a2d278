package collector

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"LevelSentinel/internal/model"
)

// csvBar is the row layout of a Yahoo style export. Daily exports carry a
// Date column, intraday exports a Datetime column.
type csvBar struct {
	Date     string  `csv:"Date,omitempty"`
	Datetime string  `csv:"Datetime,omitempty"`
	Open     float64 `csv:"Open"`
	High     float64 `csv:"High"`
	Low      float64 `csv:"Low"`
	Close    float64 `csv:"Close"`
	Volume   float64 `csv:"Volume"`
}

var csvTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

func parseCSVTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range csvTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// CSVFetcher reads bars from <Dir>/<SYMBOL>_<interval>.csv files. When the
// requested interval has no file, the finest available file is resampled.
type CSVFetcher struct {
	Dir string
}

// NewCSVFetcher creates a fetcher reading from dir.
func NewCSVFetcher(dir string) *CSVFetcher {
	return &CSVFetcher{Dir: dir}
}

func (f *CSVFetcher) Name() string { return "csv" }

// Path returns the file holding symbol bars at interval.
func (f *CSVFetcher) Path(symbol string, interval model.Interval) string {
	return filepath.Join(f.Dir, fmt.Sprintf("%s_%s.csv", strings.ToUpper(symbol), interval))
}

func (f *CSVFetcher) FetchBars(_ context.Context, symbol string, interval model.Interval, start, end time.Time) ([]model.OHLCV, error) {
	if !interval.Valid() {
		return nil, fmt.Errorf("csv: unsupported interval %q", interval)
	}

	bars, err := LoadCSV(f.Path(symbol, interval))
	if err == nil {
		return clip(bars, start, end), nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	for _, finer := range finerIntervals(interval) {
		bars, err := LoadCSV(f.Path(symbol, finer))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return Resample(clip(bars, start, end), interval), nil
	}
	return nil, nil
}

// finerIntervals lists known intervals shorter than interval, finest first.
func finerIntervals(interval model.Interval) []model.Interval {
	all := []model.Interval{
		model.Interval1m, model.Interval5m, model.Interval15m, model.Interval30m,
		model.Interval1h, model.Interval1d, model.Interval1wk,
	}
	var out []model.Interval
	for _, i := range all {
		if i.Duration() < interval.Duration() {
			out = append(out, i)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Duration() < out[b].Duration() })
	return out
}

// LoadCSV parses a bar file into chronological bars.
func LoadCSV(path string) ([]model.OHLCV, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var rows []*csvBar
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	bars := make([]model.OHLCV, 0, len(rows))
	for i, r := range rows {
		stamp := r.Datetime
		if stamp == "" {
			stamp = r.Date
		}
		t, err := parseCSVTime(stamp)
		if err != nil {
			return nil, fmt.Errorf("parse %s row %d: %w", path, i+1, err)
		}
		bars = append(bars, model.OHLCV{
			Time:   t,
			Open:   r.Open,
			High:   r.High,
			Low:    r.Low,
			Close:  r.Close,
			Volume: r.Volume,
		})
	}
	out, err := NormalizeBars(bars)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return out, nil
}

// SaveCSV writes bars in the layout LoadCSV reads.
func SaveCSV(path string, bars []model.OHLCV) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	rows := make([]*csvBar, len(bars))
	for i, b := range bars {
		rows[i] = &csvBar{
			Datetime: b.Time.UTC().Format(time.RFC3339),
			Open:     b.Open,
			High:     b.High,
			Low:      b.Low,
			Close:    b.Close,
			Volume:   b.Volume,
		}
	}
	if err := gocsv.MarshalFile(&rows, file); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
