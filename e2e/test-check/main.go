package main

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
)

func main() {
	if len(os.Args) < 3 {
		log.Fatalf("Usage: %s <access-token> <company-id> [user-id] [server-addr]", os.Args[0])
	}

	accessToken := os.Args[1]
	companyID := os.Args[2]

	userID := ""
	if len(os.Args) > 3 {
		userID = os.Args[3]
	}

	serverAddr := "http://localhost:8123"
	if len(os.Args) > 4 {
		serverAddr = os.Args[4]
	}

	req, err := http.NewRequest(http.MethodGet, serverAddr+"/authorize/test", nil)
	if err != nil {
		log.Fatalf("Failed to create request: %v", err)
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("X-Resource-Company-Id", companyID)
	if userID != "" {
		req.Header.Set("X-Resource-User-Id", userID)
	}

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		log.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatalf("Failed to read response: %v", err)
	}

	if resp.StatusCode == http.StatusOK {
		fmt.Println("Authorization ALLOWED")
		fmt.Println("\nContext headers received:")

		for k, v := range resp.Header {
			if strings.HasPrefix(strings.ToLower(k), "x-user-") {
				fmt.Printf("  %s: %s\n", k, strings.Join(v, ", "))
			}
		}
		return
	}

	fmt.Printf("Authorization DENIED (status %d)\n", resp.StatusCode)
	fmt.Printf("Body: %s\n", string(body))
}
