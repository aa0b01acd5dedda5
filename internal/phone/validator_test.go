package phone

import (
	"strings"
	"testing"

	"github.com/acme/sales-callback/internal/config"
)

func newTestValidator() *Validator {
	return NewValidator(config.PhoneConfig{
		MinDigits:   8,
		MaxDigits:   15,
		CountryCode: "+46",
		TrunkPrefix: "0",
	})
}

func TestValidateAccepts(t *testing.T) {
	v := newTestValidator()

	cases := []string{
		"0701234567",
		"070-123 45 67",
		"(070) 123 45 67",
		"+46701234567",
		"+46 70 123 45 67",
	}
	for _, raw := range cases {
		if !v.Validate(raw) {
			t.Errorf("expected %q to validate", raw)
		}
	}
}

func TestValidateRejects(t *testing.T) {
	v := newTestValidator()

	cases := []string{
		"",
		"123",                  // too short
		"07012345678901234567", // too long
		"070123456a",           // non-digit
		"4670123456",           // neither trunk-prefixed nor international
		"++46701234567",
		"   ",
	}
	for _, raw := range cases {
		if v.Validate(raw) {
			t.Errorf("expected %q to be rejected", raw)
		}
	}
}

func TestNormalize(t *testing.T) {
	v := newTestValidator()

	cases := map[string]string{
		"0701234567":       "+46701234567",
		"070-123 45 67":    "+46701234567",
		"+46701234567":     "+46701234567",
		"+46 70 123 45 67": "+46701234567",
	}
	for raw, want := range cases {
		if got := v.Normalize(raw); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestNormalizeShape(t *testing.T) {
	v := newTestValidator()

	for _, raw := range []string{"0701234567", "+46701234567", "08-123 456 78"} {
		got := v.Normalize(raw)
		if !strings.HasPrefix(got, "+") {
			t.Fatalf("Normalize(%q) = %q, missing leading +", raw, got)
		}
		for _, r := range got[1:] {
			if r < '0' || r > '9' {
				t.Fatalf("Normalize(%q) = %q, non-digit after +", raw, got)
			}
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	v := newTestValidator()

	once := v.Normalize("070-123 45 67")
	twice := v.Normalize(once)
	if once != twice {
		t.Fatalf("normalize not idempotent: %q then %q", once, twice)
	}
}
