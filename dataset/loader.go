package dataset

import (
	"bufio"
	"encoding/csv"
	"io"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/YuminosukeSato/stockforecast/pkg/errors"
	"github.com/YuminosukeSato/stockforecast/pkg/log"
)

// dateLayouts are tried in order when parsing the date column.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"02/01/2006 15:04:05",
	time.RFC3339,
}

// missingTokens load as NaN. Comparison is case-insensitive.
var missingTokens = map[string]struct{}{
	"":     {},
	"null": {},
	"nan":  {},
	"na":   {},
	"n/a":  {},
}

type loadConfig struct {
	delimiter rune
	hasHeader bool
	logger    log.Logger
}

// LoadOption configures Read and LoadCSV.
type LoadOption func(*loadConfig)

// WithDelimiter sets the field delimiter (default ',').
func WithDelimiter(d rune) LoadOption {
	return func(c *loadConfig) {
		c.delimiter = d
	}
}

// WithHeader sets whether the first line is a header to skip (default true).
func WithHeader(hasHeader bool) LoadOption {
	return func(c *loadConfig) {
		c.hasHeader = hasHeader
	}
}

// WithLogger sets the logger used to report load progress.
func WithLogger(l log.Logger) LoadOption {
	return func(c *loadConfig) {
		c.logger = l
	}
}

func newLoadConfig(opts []LoadOption) *loadConfig {
	cfg := &loadConfig{
		delimiter: ',',
		hasHeader: true,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = log.GetLogger()
	}
	return cfg
}

// LoadCSV opens path and reads it with Read. A missing file yields a
// FileNotFoundError; the file is closed on every return path.
func LoadCSV(path string, opts ...LoadOption) ([]Observation, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.NewFileNotFoundError(path, err)
		}
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	obs, err := Read(bufio.NewReader(f), opts...)
	if err != nil {
		return nil, err
	}

	cfg := newLoadConfig(opts)
	cfg.logger.Info("Loaded observations",
		log.ComponentKey, "dataset",
		log.OperationKey, "load",
		log.PathKey, path,
		log.SamplesKey, len(obs),
	)
	return obs, nil
}

// Read parses delimited text into observations, one per data line. Columns
// are positional: date, open, high, low, close, adj_close, volume.
func Read(r io.Reader, opts ...LoadOption) ([]Observation, error) {
	cfg := newLoadConfig(opts)

	cr := csv.NewReader(r)
	cr.Comma = cfg.delimiter
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	var out []Observation
	first := true
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			line := 0
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) {
				line = csvErr.Line
			}
			return nil, errors.NewParseError(line, "record", "", err)
		}
		line, _ := cr.FieldPos(0)
		if first {
			first = false
			if cfg.hasHeader {
				continue
			}
		}
		if len(rec) != NumColumns {
			return nil, errors.NewParseError(line, "record", strings.Join(rec, string(cfg.delimiter)),
				errors.Newf("expected %d fields, got %d", NumColumns, len(rec)))
		}

		obs, err := parseRecord(rec, line)
		if err != nil {
			return nil, err
		}
		out = append(out, obs)
	}

	return out, nil
}

func parseRecord(rec []string, line int) (Observation, error) {
	var obs Observation

	date, err := parseDate(rec[ColDate])
	if err != nil {
		return obs, errors.NewParseError(line, ColDate.String(), rec[ColDate], err)
	}
	obs.Date = date

	targets := [...]*float64{
		ColOpen:     &obs.Open,
		ColHigh:     &obs.High,
		ColLow:      &obs.Low,
		ColClose:    &obs.Close,
		ColAdjClose: &obs.AdjClose,
		ColVolume:   &obs.Volume,
	}
	for c := ColOpen; c <= ColVolume; c++ {
		v, err := parseNumber(rec[c])
		if err != nil {
			return obs, errors.NewParseError(line, c.String(), rec[c], err)
		}
		*targets[c] = v
	}

	return obs, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("unrecognised date format")
}

func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if _, missing := missingTokens[strings.ToLower(s)]; missing {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}
