package claims

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Claim mirrors a record returned by /api/v1/claims.
type Claim struct {
	ID            string `json:"id"`
	Number        string `json:"number"`
	Holder        string `json:"holder"`
	PolicyNumber  string `json:"policyNumber"`
	InsuredName   string `json:"insuredName,omitempty"`
	Description   string `json:"description,omitempty"`
	Status        string `json:"status"`
	Amount        string `json:"amount"`
	ProcessingFee string `json:"processingFee"`
	IncidentDate  string `json:"incidentDate"`
	CreatedAt     string `json:"createdAt"`
}

// UnmarshalJSON accepts id, amount and processingFee as either JSON strings
// or numbers. Some claim servers emit numeric ids and amounts.
func (c *Claim) UnmarshalJSON(data []byte) error {
	type plain Claim
	var aux struct {
		plain
		ID            json.RawMessage `json:"id"`
		Amount        json.RawMessage `json:"amount"`
		ProcessingFee json.RawMessage `json:"processingFee"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*c = Claim(aux.plain)
	var err error
	if c.ID, err = looseString(aux.ID); err != nil {
		return fmt.Errorf("claim id: %w", err)
	}
	if c.Amount, err = looseString(aux.Amount); err != nil {
		return fmt.Errorf("claim amount: %w", err)
	}
	if c.ProcessingFee, err = looseString(aux.ProcessingFee); err != nil {
		return fmt.Errorf("claim processingFee: %w", err)
	}
	return nil
}

func looseString(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}

// Record is implemented by Claim and by every type that embeds it, which lets
// the query stages run on raw or formatted claims alike.
type Record interface {
	Fields() Claim
}

// Fields returns the claim itself.
func (c Claim) Fields() Claim {
	return c
}

// AmountValue parses Amount, returning NaN when it is not numeric.
func (c Claim) AmountValue() float64 {
	return ParseDecimal(c.Amount)
}

// FeeValue parses ProcessingFee, returning NaN when it is not numeric.
func (c Claim) FeeValue() float64 {
	return ParseDecimal(c.ProcessingFee)
}

// TotalValue is the claim amount plus the processing fee.
func (c Claim) TotalValue() float64 {
	return c.AmountValue() + c.FeeValue()
}

// CreatedTime returns the parsed CreatedAt timestamp.
func (c Claim) CreatedTime() (time.Time, bool) {
	return ParseTimestamp(c.CreatedAt)
}

// IncidentTime returns the parsed IncidentDate timestamp.
func (c Claim) IncidentTime() (time.Time, bool) {
	return ParseTimestamp(c.IncidentDate)
}

// ParseDecimal reads the longest leading decimal literal of value the way
// JavaScript's parseFloat does: optional sign, digits with an optional
// fraction, an optional exponent, or Infinity. Amounts travel as strings,
// so junk input yields NaN rather than an error.
func ParseDecimal(value string) float64 {
	trimmed := strings.TrimLeft(value, " \t\n\r\f\v")
	if rest, neg := cutSign(trimmed); strings.HasPrefix(rest, "Infinity") {
		if neg {
			return math.Inf(-1)
		}
		return math.Inf(1)
	}
	end := numericPrefix(trimmed)
	if end == 0 {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(trimmed[:end], 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return math.NaN()
	}
	return f
}

func cutSign(s string) (string, bool) {
	if s == "" {
		return s, false
	}
	switch s[0] {
	case '-':
		return s[1:], true
	case '+':
		return s[1:], false
	}
	return s, false
}

// numericPrefix returns the length of the leading
// [+-]?(digits[.digits]|.digits)([eE][+-]?digits)? literal, or 0.
func numericPrefix(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	mantissa := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		mantissa++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if frac := j - i - 1; frac > 0 || mantissa > 0 {
			mantissa += frac
			i = j
		}
	}
	if mantissa == 0 {
		return 0
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		start := j
		for j < len(s) && isDigit(s[j]) {
			j++
		}
		if j > start {
			i = j
		}
	}
	return i
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp parses the ISO-8601 shapes the claims API emits. Zone-less
// values are read in local time.
func ParseTimestamp(value string) (time.Time, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, false
	}
	for i, layout := range timestampLayouts {
		var (
			t   time.Time
			err error
		)
		if i < 2 {
			t, err = time.Parse(layout, trimmed)
		} else {
			t, err = time.ParseInLocation(layout, trimmed, time.Local)
		}
		if err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
