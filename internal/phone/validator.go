package phone

import (
	"regexp"
	"strings"

	"github.com/acme/sales-callback/internal/config"
)

var separators = regexp.MustCompile(`[\s\-().]`)

// Validator checks raw phone input and normalizes it to the canonical
// international form. The zero policy accepts 8-15 digit Swedish numbers.
type Validator struct {
	minDigits   int
	maxDigits   int
	countryCode string
	trunkPrefix string
	local       *regexp.Regexp
	intl        *regexp.Regexp
}

// NewValidator builds a validator from the configured policy.
func NewValidator(cfg config.PhoneConfig) *Validator {
	v := &Validator{
		minDigits:   cfg.MinDigits,
		maxDigits:   cfg.MaxDigits,
		countryCode: cfg.CountryCode,
		trunkPrefix: cfg.TrunkPrefix,
	}
	if v.minDigits <= 0 {
		v.minDigits = 8
	}
	if v.maxDigits <= 0 {
		v.maxDigits = 15
	}
	if v.countryCode == "" {
		v.countryCode = "+46"
	}
	if v.trunkPrefix == "" {
		v.trunkPrefix = "0"
	}
	v.local = regexp.MustCompile(`^` + regexp.QuoteMeta(v.trunkPrefix) + `\d+$`)
	v.intl = regexp.MustCompile(`^\+\d+$`)
	return v
}

// Validate reports whether raw is an acceptable phone number. Digits, an
// optional leading "+" and space/hyphen/parenthesis separators are allowed.
func (v *Validator) Validate(raw string) bool {
	stripped := separators.ReplaceAllString(raw, "")
	if stripped == "" {
		return false
	}

	digits := strings.TrimPrefix(stripped, "+")
	if n := len(digits); n < v.minDigits || n > v.maxDigits {
		return false
	}

	return v.local.MatchString(stripped) || v.intl.MatchString(stripped)
}

// Normalize converts raw to canonical international form: separators removed,
// the local trunk prefix replaced by the country code and a leading "+"
// guaranteed. Idempotent; never fails. Callers are expected to have run
// Validate first.
func (v *Validator) Normalize(raw string) string {
	s := separators.ReplaceAllString(raw, "")
	switch {
	case strings.HasPrefix(s, "+"):
		return s
	case strings.HasPrefix(s, v.trunkPrefix):
		return v.countryCode + s[len(v.trunkPrefix):]
	default:
		return "+" + s
	}
}
