package format

import (
	"math"
	"math/big"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/five82/claimdeck/internal/claims"
)

// InvalidDate is rendered for timestamps that cannot be parsed.
const InvalidDate = "Invalid Date"

// FormattedClaim is a Claim plus its display strings. It satisfies
// claims.Record through the embedded Claim.
type FormattedClaim struct {
	claims.Claim

	FormattedClaimAmount   string `json:"formattedClaimAmount"`
	FormattedProcessingFee string `json:"formattedProcessingFee"`
	FormattedTotalAmount   string `json:"formattedTotalAmount"`
	FormattedIncidentDate  string `json:"formattedIncidentDate"`
	FormattedCreatedDate   string `json:"formattedCreatedDate"`
}

// Formatter derives FormattedClaims. It remembers the last input slice and
// returns the same output slice while that input is passed again.
type Formatter struct {
	now     func() time.Time
	printer *message.Printer

	mu      sync.Mutex
	lastIn  []claims.Claim
	lastOut []FormattedClaim
	primed  bool
}

// Option customizes a Formatter.
type Option func(*Formatter)

// WithClock sets the reference time used for relative dates.
func WithClock(now func() time.Time) Option {
	return func(f *Formatter) {
		if now != nil {
			f.now = now
		}
	}
}

// New returns a Formatter using en-US number conventions.
func New(opts ...Option) *Formatter {
	f := &Formatter{
		now:     time.Now,
		printer: message.NewPrinter(language.AmericanEnglish),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format returns one FormattedClaim per input claim, in order.
func (f *Formatter) Format(items []claims.Claim) []FormattedClaim {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.primed && sameSlice(items, f.lastIn) {
		return f.lastOut
	}
	now := f.now()
	out := make([]FormattedClaim, len(items))
	for i, c := range items {
		out[i] = f.formatOne(c, now)
	}
	f.lastIn = items
	f.lastOut = out
	f.primed = true
	return out
}

// Reset forgets the memoized result so the next Format recomputes relative
// dates even for an unchanged input.
func (f *Formatter) Reset() {
	f.mu.Lock()
	f.lastIn, f.lastOut, f.primed = nil, nil, false
	f.mu.Unlock()
}

// FormatClaim formats a single claim without touching the memoized
// collection.
func (f *Formatter) FormatClaim(c claims.Claim) FormattedClaim {
	return f.formatOne(c, f.now())
}

func (f *Formatter) formatOne(c claims.Claim, now time.Time) FormattedClaim {
	amount := c.AmountValue()
	fee := c.FeeValue()
	created, createdOK := c.CreatedTime()
	incident, incidentOK := c.IncidentTime()
	return FormattedClaim{
		Claim:                  c,
		FormattedClaimAmount:   f.Currency(amount),
		FormattedProcessingFee: f.Currency(fee),
		FormattedTotalAmount:   f.Currency(amount + fee),
		FormattedIncidentDate:  Relative(incident, incidentOK, now),
		FormattedCreatedDate:   Relative(created, createdOK, now),
	}
}

// Currency renders v as US dollars with grouping and two decimals.
func (f *Formatter) Currency(v float64) string {
	switch {
	case math.IsNaN(v):
		return "$NaN"
	case math.IsInf(v, 1):
		return "$∞"
	case math.IsInf(v, -1):
		return "-$∞"
	}
	// Negative amounts that round to zero keep their sign, as Intl does.
	rounded := v
	if r := math.Round(v*100) / 100; !math.IsInf(r, 0) {
		rounded = r
	}
	sign := ""
	if math.Signbit(rounded) {
		sign = "-"
		rounded = -rounded
	}
	// Group the exact decimal digits through big.Int so amounts beyond the
	// int64 range keep their value.
	digits := strconv.FormatFloat(rounded, 'f', 2, 64)
	whole, cents, _ := strings.Cut(digits, ".")
	n, ok := new(big.Int).SetString(whole, 10)
	if !ok {
		return sign + "$" + digits
	}
	return sign + "$" + humanize.BigComma(n) + "." + cents
}

// Count renders n with locale digit grouping followed by noun, pluralized
// with a trailing s.
func (f *Formatter) Count(n int, noun string) string {
	if n != 1 {
		noun += "s"
	}
	return f.printer.Sprintf("%d %s", n, noun)
}

// Relative renders t relative to now, e.g. "3 days ago" or
// "2 hours from now".
func Relative(t time.Time, ok bool, now time.Time) string {
	if !ok {
		return InvalidDate
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// Absolute renders t as a long calendar date for detail views.
func Absolute(t time.Time, ok bool) string {
	if !ok {
		return InvalidDate
	}
	return t.Format("Jan 2, 2006 15:04")
}

// StatusLabel normalizes a status for display; blank statuses read Unknown.
func StatusLabel(status string) string {
	trimmed := strings.TrimSpace(status)
	if trimmed == "" {
		return "Unknown"
	}
	return trimmed
}

func sameSlice[T any](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return (a == nil) == (b == nil)
	}
	return &a[0] == &b[0]
}
