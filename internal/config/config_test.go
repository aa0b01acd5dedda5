package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

const minimalConfig = `
provider:
  name: sinch
  project_id: proj-1
  api_key: "key:secret"
  phone_number: "+46700000000"
agents:
  phone_numbers:
    - "+46701111111"
`

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.HTTP.Port != 3001 {
		t.Errorf("http.port = %d", cfg.HTTP.Port)
	}
	if cfg.Phone.CountryCode != "+46" || cfg.Phone.TrunkPrefix != "0" {
		t.Errorf("phone defaults = %+v", cfg.Phone)
	}
	if cfg.Phone.MinDigits != 8 || cfg.Phone.MaxDigits != 15 {
		t.Errorf("digit bounds = %d..%d", cfg.Phone.MinDigits, cfg.Phone.MaxDigits)
	}
	if cfg.Provider.Locale != "sv-SE" {
		t.Errorf("locale = %q", cfg.Provider.Locale)
	}
	if cfg.Dial.AttemptTimeout <= 0 || cfg.Dial.OverallTimeout <= 0 {
		t.Errorf("dial timeouts = %+v", cfg.Dial)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("minimal config should validate: %v", err)
	}
}

func TestValidateReportsMissingSettings(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
provider:
  name: sinch
`))
	if err != nil {
		t.Fatal(err)
	}

	verr := cfg.Validate()
	if verr == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"provider.project_id", "provider.api_key", "provider.phone_number", "agents.phone_numbers"} {
		if !strings.Contains(verr.Error(), want) {
			t.Errorf("error %q does not name %s", verr.Error(), want)
		}
	}
}

func TestValidateRejectsMalformedAPIKey(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
provider:
  name: sinch
  project_id: proj-1
  api_key: "no-separator"
  phone_number: "+46700000000"
agents:
  phone_numbers:
    - "+46701111111"
`))
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for api key without colon")
	}
}

func TestAgentsFromJSONEnv(t *testing.T) {
	t.Setenv("CALLBACK_AGENTS_PHONE_NUMBERS", `["+46705555555","+46706666666"]`)

	cfg, err := Load(writeConfig(t, `
provider:
  name: mock
`))
	if err != nil {
		t.Fatal(err)
	}

	if len(cfg.Agents.PhoneNumbers) != 2 {
		t.Fatalf("agents = %v", cfg.Agents.PhoneNumbers)
	}
	if cfg.Agents.PhoneNumbers[0] != "+46705555555" {
		t.Errorf("first agent = %q", cfg.Agents.PhoneNumbers[0])
	}
}

func TestMockProviderSkipsCredentialChecks(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
provider:
  name: mock
agents:
  phone_numbers:
    - "+46701111111"
`))
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("mock provider needs no credentials: %v", err)
	}
}
