//go:build ignore
// +build ignore

// Package main provides a manual concurrency stress test for the order API.
//
// Usage:
//
//	go run ./scripts/concurrency_test.go <book_id> <token1> [token2 ...]
//
// Or use the convenience environment variables:
//
//	BOOK_ID=<uuid>  TOKENS=<jwt1>,<jwt2>,...  go run ./scripts/concurrency_test.go
//
// What it does:
//  1. Fires N goroutines (one per access token) all placing an order for 1 unit
//     of the same book simultaneously.
//  2. Prints how many orders were created vs. rejected for insufficient stock.
//  3. With the book seeded at stock=1, exactly one request must win; the row lock
//     taken during order creation guarantees the rest see stock 0.
//
// Prerequisites:
//   - Server must be running and DATABASE_URL set for it.
//   - A book with known stock and N logged-in users' access tokens.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"
)

const defaultServerAddr = "http://localhost:8080"

type orderResult struct {
	Token      string
	StatusCode int
	Body       string
	Err        error
}

func main() {
	serverAddr := os.Getenv("SERVER_ADDR")
	if serverAddr == "" {
		serverAddr = defaultServerAddr
	}

	bookID := os.Getenv("BOOK_ID")
	var tokens []string
	if env := os.Getenv("TOKENS"); env != "" {
		tokens = strings.Split(env, ",")
	}

	args := os.Args[1:]
	if len(args) >= 1 {
		bookID = args[0]
	}
	if len(args) >= 2 {
		tokens = args[1:]
	}

	if bookID == "" {
		log.Fatal("Usage: BOOK_ID=<uuid> TOKENS=<jwt1,jwt2,...> go run ./scripts/concurrency_test.go\n" +
			"  or: go run ./scripts/concurrency_test.go <book_id> <token1> [token2 ...]")
	}
	if len(tokens) == 0 {
		log.Fatal("At least one access token must be provided via TOKENS env or positional args")
	}

	fmt.Printf("=== Order Concurrency Test ===\n")
	fmt.Printf("Server : %s\n", serverAddr)
	fmt.Printf("Book   : %s\n", bookID)
	fmt.Printf("Users  : %d\n\n", len(tokens))

	results := make([]orderResult, len(tokens))
	var wg sync.WaitGroup

	// Fire all goroutines simultaneously using a barrier.
	start := make(chan struct{})

	for i, token := range tokens {
		wg.Add(1)
		go func(idx int, tok string) {
			defer wg.Done()
			<-start // wait for the barrier
			results[idx] = attemptOrder(serverAddr, bookID, strings.TrimSpace(tok))
		}(i, token)
	}

	fmt.Println("Firing all requests simultaneously...")
	close(start)

	wg.Wait()
	fmt.Println("All requests completed.")

	var created, outOfStock, failures int
	for i, r := range results {
		switch {
		case r.Err != nil:
			failures++
			fmt.Printf("  [ERR ] user#%-2d err=%v\n", i+1, r.Err)
		case r.StatusCode == http.StatusCreated:
			created++
			fmt.Printf("  [ORDR] user#%-2d status=%d order created\n", i+1, r.StatusCode)
		case r.StatusCode == http.StatusConflict:
			outOfStock++
			fmt.Printf("  [CONF] user#%-2d status=%d insufficient stock\n", i+1, r.StatusCode)
		default:
			failures++
			fmt.Printf("  [FAIL] user#%-2d status=%d body=%s\n", i+1, r.StatusCode, r.Body)
		}
	}

	fmt.Printf("\n--- Summary ---\n")
	fmt.Printf("Created      : %d\n", created)
	fmt.Printf("Out of stock : %d\n", outOfStock)
	fmt.Printf("Failures     : %d\n", failures)
	fmt.Printf("Total        : %d\n\n", len(tokens))

	fmt.Println("--- Invariant Check ---")
	fmt.Println("Orders created must not exceed the book's starting stock: the FOR UPDATE")
	fmt.Println("row lock serializes the decrements and the losers get 409 responses.")

	if failures > 0 {
		fmt.Printf("\n[WARNING] %d request(s) failed, check server logs for details.\n", failures)
		os.Exit(1)
	}
}

// attemptOrder sends POST /api/orders for one unit of bookID using the given
// bearer token.
func attemptOrder(serverAddr, bookID, token string) orderResult {
	url := fmt.Sprintf("%s/api/orders", serverAddr)
	body := fmt.Sprintf(`{"items":[{"book_id":"%s","quantity":1}]}`, bookID)

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBufferString(body))
	if err != nil {
		return orderResult{Token: token, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return orderResult{Token: token, Err: err}
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	var parsed map[string]interface{}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return orderResult{Token: token, StatusCode: resp.StatusCode, Err: fmt.Errorf("bad JSON: %s", raw)}
	}

	return orderResult{
		Token:      token,
		StatusCode: resp.StatusCode,
		Body:       string(raw),
	}
}
