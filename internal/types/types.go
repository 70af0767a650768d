package types

import (
	"strconv"
	"time"
)

// Log column names, in file order.
const (
	ColDate       = "date"
	ColSymbol     = "symbol"
	ColTotalGamma = "total_gamma"
	ColRawLabel   = "raw_label"
	ColSourceURL  = "source_url"
)

// RecordHeader is the fixed header of the gamma log.
var RecordHeader = []string{ColDate, ColSymbol, ColTotalGamma, ColRawLabel, ColSourceURL}

// ExtractionRecord is one captured Total Gamma observation.
type ExtractionRecord struct {
	CaptureDate time.Time `json:"date"`
	Symbol      string    `json:"symbol"`
	TotalGamma  int64     `json:"total_gamma"`
	RawLabel    string    `json:"raw_label"`
	SourceURL   string    `json:"source_url"`
}

// NewExtractionRecord pins the capture date to the UTC calendar day of at.
func NewExtractionRecord(at time.Time, symbol string, totalGamma int64, rawLabel, sourceURL string) ExtractionRecord {
	u := at.UTC()
	return ExtractionRecord{
		CaptureDate: time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC),
		Symbol:      symbol,
		TotalGamma:  totalGamma,
		RawLabel:    rawLabel,
		SourceURL:   sourceURL,
	}
}

// Date renders the capture date as YYYY-MM-DD.
func (r ExtractionRecord) Date() string {
	return r.CaptureDate.Format("2006-01-02")
}

// Row renders the record keyed by RecordHeader column names.
func (r ExtractionRecord) Row() map[string]string {
	return map[string]string{
		ColDate:       r.Date(),
		ColSymbol:     r.Symbol,
		ColTotalGamma: strconv.FormatInt(r.TotalGamma, 10),
		ColRawLabel:   r.RawLabel,
		ColSourceURL:  r.SourceURL,
	}
}

// Locator strategies understood by the page engines.
const (
	StrategyCSS   = "css"
	StrategyID    = "id"
	StrategyXPath = "xpath"
	StrategyText  = "text"
	StrategyRole  = "role"
)

// Locator is one way of finding a clickable element.
type Locator struct {
	Strategy string `yaml:"strategy"`
	Tag      string `yaml:"tag,omitempty"`
	Role     string `yaml:"role,omitempty"`
	Value    string `yaml:"value"`
}

func (l Locator) String() string {
	switch l.Strategy {
	case StrategyText:
		tag := l.Tag
		if tag == "" {
			tag = "*"
		}
		return tag + ":has-text(" + strconv.Quote(l.Value) + ")"
	case StrategyRole:
		return "[role=" + l.Role + "]:has-text(" + strconv.Quote(l.Value) + ")"
	default:
		return l.Strategy + "=" + l.Value
	}
}

// NavigationStep is one logical UI action with alternative locators
// tried in order. Timeout applies to each attempt.
type NavigationStep struct {
	Name       string        `yaml:"name"`
	Timeout    time.Duration `yaml:"timeout"`
	Candidates []Locator     `yaml:"candidates"`
}
