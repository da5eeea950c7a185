// Package locale parses and formats ledger amounts written with
// locale-specific decimal and grouping separators.
package locale

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
)

// ErrInvalidAmount is returned by ParseStrict for input that is not a number.
var ErrInvalidAmount = errors.New("invalid amount")

// Locale describes how amounts are written.
type Locale struct {
	Name             string
	DecimalSeparator string
	GroupSeparator   string
	FractionDigits   int32
}

var (
	// PtBR writes 1234.5 as "1.234,50".
	PtBR = Locale{Name: "pt-BR", DecimalSeparator: ",", GroupSeparator: ".", FractionDigits: 2}
	// EnUS writes 1234.5 as "1,234.50".
	EnUS = Locale{Name: "en-US", DecimalSeparator: ".", GroupSeparator: ",", FractionDigits: 2}
)

var (
	supported = []Locale{PtBR, EnUS}
	matcher   = language.NewMatcher([]language.Tag{
		language.BrazilianPortuguese,
		language.AmericanEnglish,
	})
)

// Lookup resolves a locale from a language tag ("pt-BR", "en_US") or an
// Accept-Language value. Unsupported languages fall back to PtBR.
func Lookup(name string) (Locale, bool) {
	name = strings.ReplaceAll(strings.TrimSpace(name), "_", "-")
	if name == "" {
		return PtBR, false
	}

	tags, _, err := language.ParseAcceptLanguage(name)
	if err != nil || len(tags) == 0 {
		return PtBR, false
	}

	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return PtBR, false
	}
	return supported[idx], true
}

// Parse converts a locale-formatted amount to a decimal. Only the leading
// number is read, so "12,50 R$" is 12.5. Empty or unparseable input yields
// zero.
func (l Locale) Parse(raw string) decimal.Decimal {
	s := l.normalize(raw)
	d, err := decimal.NewFromString(s[:numberPrefix(s)])
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseStrict converts a locale-formatted amount to a decimal and reports
// input that is not a plain number. Exponent notation is rejected.
func (l Locale) ParseStrict(raw string) (decimal.Decimal, error) {
	s := l.normalize(raw)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}

	n := numberPrefix(s)
	if n != len(s) {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}

	return d, nil
}

// normalize drops group separators and turns the first decimal separator
// into a dot.
func (l Locale) normalize(raw string) string {
	s := strings.TrimSpace(raw)
	if l.GroupSeparator != "" {
		s = strings.ReplaceAll(s, l.GroupSeparator, "")
	}
	if l.DecimalSeparator != "" && l.DecimalSeparator != "." {
		s = strings.Replace(s, l.DecimalSeparator, ".", 1)
	}
	return s
}

// numberPrefix returns the length of the leading [+-]?digits[.digits] in s,
// or 0 when s does not start with a digit after the sign.
func numberPrefix(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}

	start := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i == start {
		return 0
	}

	if i+1 < len(s) && s[i] == '.' && isDigit(s[i+1]) {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
		}
	}
	return i
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// Format renders d with exactly FractionDigits digits after the decimal
// separator and the integer part grouped by thousands.
func (l Locale) Format(d decimal.Decimal) string {
	rounded := d.Round(l.FractionDigits)

	negative := rounded.IsNegative()
	fixed := rounded.Abs().StringFixed(l.FractionDigits)

	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}

	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteString(l.GroupSeparator)
		}
		b.WriteRune(c)
	}

	if l.FractionDigits > 0 {
		b.WriteString(l.DecimalSeparator)
		b.WriteString(fracPart)
	}

	return b.String()
}
