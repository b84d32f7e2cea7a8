package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Config holds the benchmark settings
var (
	targetURL   string
	concurrency int
	duration    time.Duration
	workload    string
)

// Metrics
var (
	totalRequests uint64
	success201    uint64 // Created
	fail422       uint64 // Rejected (insufficient balance / bad amount)
	failOther     uint64
)

func init() {
	flag.StringVar(&targetURL, "url", "http://localhost:8080", "API Base URL")
	flag.IntVar(&concurrency, "workers", 10, "Number of concurrent workers")
	flag.DurationVar(&duration, "duration", 30*time.Second, "Test duration")
	flag.StringVar(&workload, "workload", "uniform", "Workload type: uniform | hotspot")
}

func main() {
	flag.Parse()
	log.Printf("Starting Benchmark: %s | Workers: %d | Duration: %s", workload, concurrency, duration)

	start := time.Now()
	var wg sync.WaitGroup
	wg.Add(concurrency)

	for i := 0; i < concurrency; i++ {
		go worker(&wg, start)
	}

	wg.Wait()
	printResults(time.Since(start))
}

func worker(wg *sync.WaitGroup, start time.Time) {
	defer wg.Done()
	client := &http.Client{Timeout: 5 * time.Second}

	for time.Since(start) < duration {
		sender, recipient := generateAccounts()
		amount := uint64(1000) // minimum payment size keeps accounts liquid longest

		payload := map[string]interface{}{
			"sender":    sender,
			"recipient": recipient,
			"amount":    amount,
		}
		body, _ := json.Marshal(payload)

		req, _ := http.NewRequest("POST", targetURL+"/api/v1/payments", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			atomic.AddUint64(&failOther, 1)
			continue
		}

		atomic.AddUint64(&totalRequests, 1)
		switch resp.StatusCode {
		case 201:
			atomic.AddUint64(&success201, 1)
		case 422:
			atomic.AddUint64(&fail422, 1)
		default:
			atomic.AddUint64(&failOther, 1)
		}
		resp.Body.Close()
	}
}

func generateAccounts() (string, string) {
	// Assumes 1000 accounts seeded (user-1 .. user-1000)
	totalAccounts := 1000

	if workload == "hotspot" {
		// Hotspot: 90% of traffic goes between user-1 and user-2
		if rand.Float32() < 0.90 {
			if rand.Float32() < 0.5 {
				return "user-1", "user-2"
			}
			return "user-2", "user-1"
		}
	}

	// Uniform Random
	a := rand.Intn(totalAccounts) + 1
	b := rand.Intn(totalAccounts) + 1
	for a == b {
		b = rand.Intn(totalAccounts) + 1
	}
	return fmt.Sprintf("user-%d", a), fmt.Sprintf("user-%d", b)
}

func printResults(d time.Duration) {
	total := atomic.LoadUint64(&totalRequests)
	s201 := atomic.LoadUint64(&success201)
	f422 := atomic.LoadUint64(&fail422)
	fErr := atomic.LoadUint64(&failOther)

	tps := float64(total) / d.Seconds()
	rejectRate := float64(f422) / float64(total) * 100

	results := map[string]interface{}{
		"workload":        workload,
		"duration_sec":    d.Seconds(),
		"total_requests":  total,
		"throughput_tps":  tps,
		"success_created": s201,
		"rejected":        f422,
		"reject_rate_pct": rejectRate,
		"errors":          fErr,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(results)

	filename := fmt.Sprintf("results_%s.json", workload)
	file, _ := os.Create(filename)
	defer file.Close()
	json.NewEncoder(file).Encode(results)
}
