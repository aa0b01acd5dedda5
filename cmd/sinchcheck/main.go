// Command sinchcheck verifies provider configuration and connectivity
// without going through the API server: it reports missing settings, checks
// the credential shape, lists the provisioned numbers and can optionally
// place a single test callout.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/acme/sales-callback/internal/config"
	"github.com/acme/sales-callback/internal/telephony"
	"github.com/acme/sales-callback/internal/telephony/sinch"
)

func main() {
	configPath := flag.String("config", getEnv("CONFIG_FILE", "configs/config.yaml"), "path to configuration file")
	testCall := flag.String("call", "", "place a test callout to this E.164 number")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	fmt.Println("1. Required settings:")
	report("provider.project_id", cfg.Provider.ProjectID != "")
	report("provider.api_key", cfg.Provider.APIKey != "")
	report("provider.phone_number", cfg.Provider.PhoneNumber != "")
	report("agents.phone_numbers", len(cfg.Agents.PhoneNumbers) > 0)

	fmt.Println("\n2. Credential shape:")
	key, secret, _ := strings.Cut(cfg.Provider.APIKey, ":")
	report("access key id", key != "")
	report("key secret", secret != "")

	client, err := sinch.New(cfg.Provider)
	if err != nil {
		log.Fatalf("provider client: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fmt.Println("\n3. API connectivity:")
	numbers, err := client.ListNumbers(ctx)
	if err != nil {
		fmt.Printf("   ✗ %v\n", err)
	} else {
		fmt.Println("   ✓ connected")
		var pretty map[string]any
		if json.Unmarshal(numbers, &pretty) == nil {
			out, _ := json.MarshalIndent(pretty, "   ", "  ")
			fmt.Printf("   %s\n", out)
		}
	}

	fmt.Println("\n4. Configured numbers:")
	fmt.Printf("   sender: %s\n", cfg.Provider.PhoneNumber)
	fmt.Printf("   agents: %s\n", strings.Join(cfg.Agents.PhoneNumbers, ", "))

	if *testCall != "" {
		fmt.Printf("\n5. Test callout to %s:\n", *testCall)
		callID, err := client.PlaceCall(ctx, telephony.CalloutParams{
			CLI:         cfg.Provider.PhoneNumber,
			Destination: *testCall,
			Locale:      cfg.Provider.Locale,
			Text:        "Detta är ett testsamtal.",
		})
		if err != nil {
			fmt.Printf("   ✗ %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("   ✓ accepted, callId=%s\n", callID)
	}
}

func report(name string, ok bool) {
	mark := "✗ missing"
	if ok {
		mark = "✓ present"
	}
	fmt.Printf("   %s: %s\n", name, mark)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
