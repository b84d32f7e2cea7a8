package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"
)

const (
	TotalAccounts  = 1000
	InitialBalance = 1_000_000 // enough for ~99 max-size payments
)

func main() {
	baseURL := os.Getenv("API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	client := &http.Client{Timeout: 5 * time.Second}
	log.Println("--- Seeding Accounts ---")

	seeded := 0
	for i := 1; i <= TotalAccounts; i++ {
		account := fmt.Sprintf("user-%d", i)
		body, _ := json.Marshal(map[string]uint64{"amount": InitialBalance})

		resp, err := client.Post(
			fmt.Sprintf("%s/api/v1/accounts/%s/deposit", baseURL, account),
			"application/json",
			bytes.NewBuffer(body),
		)
		if err != nil {
			log.Fatalf("Deposit request failed: %v", err)
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			log.Fatalf("Deposit for %s returned status %d", account, resp.StatusCode)
		}
		seeded++
	}

	log.Printf("Successfully seeded %d accounts.", seeded)
}
