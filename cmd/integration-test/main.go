// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch

// integration-test exercises a running study-server end to end: analyze,
// chunk, submit a summarize job and poll it to completion, while listening
// on the log websocket. Requires the server (and its generator backend) up.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

var (
	baseURL = flag.String("base-url", "http://localhost:8080", "study-server base URL")
	wait    = flag.Duration("wait", 90*time.Second, "How long to wait for the summary")
)

const sampleText = `Photosynthesis is the process by which plants convert light energy into chemical energy. The process takes place in the chloroplast. The light-dependent reactions occur in the thylakoid membrane, where chlorophyll absorbs light and water is split, releasing oxygen. The Calvin Cycle then fixes carbon dioxide into glucose using the ATP and NADPH produced earlier. Together these stages let plants build sugars from little more than light, water and air.`

func main() {
	flag.Parse()

	fmt.Println("Starting integration test...")

	// Step 1: log websocket
	fmt.Println("Step 1: Connecting to log websocket...")
	wsURL := strings.Replace(*baseURL, "http", "ws", 1) + "/api/v1/logs/ws"
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.Dial(wsURL, nil)
	if err != nil {
		fmt.Printf("FAIL: websocket connect: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close()
	go func() {
		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				return
			}
			fmt.Printf("  [log] %s\n", strings.TrimSpace(string(message)))
		}
	}()
	fmt.Println("OK: websocket connected")

	// Step 2: analyze
	fmt.Println("Step 2: Analyzing sample text...")
	analysis := postJSON("/api/v1/analyze", map[string]interface{}{"text": sampleText})
	concepts, _ := analysis["keyConcepts"].([]interface{})
	if len(concepts) == 0 {
		fmt.Println("FAIL: analyze returned no key concepts")
		os.Exit(1)
	}
	fmt.Printf("OK: analyze found %d key concepts\n", len(concepts))

	// Step 3: chunk
	fmt.Println("Step 3: Chunking sample text...")
	chunked := postJSON("/api/v1/chunk", map[string]interface{}{"text": sampleText, "mode": "semantic"})
	if count, _ := chunked["count"].(float64); count < 1 {
		fmt.Println("FAIL: chunk returned no chunks")
		os.Exit(1)
	}
	fmt.Printf("OK: chunked into %v chunk(s)\n", chunked["count"])

	// Step 4: summarize job
	fmt.Println("Step 4: Submitting summarize job...")
	submitted := postJSON("/api/v1/summarize", map[string]interface{}{
		"text": sampleText,
		"options": map[string]interface{}{
			"studyPurpose":   "exam_prep",
			"detailLevel":    "brief",
			"knowledgeLevel": "beginner",
		},
	})
	jobID, _ := submitted["jobId"].(string)
	if jobID == "" {
		fmt.Println("FAIL: summarize returned no job id")
		os.Exit(1)
	}
	fmt.Printf("OK: job %s accepted\n", jobID)

	// Step 5: poll until done or failed
	fmt.Println("Step 5: Polling for completion...")
	deadline := time.Now().Add(*wait)
	for time.Now().Before(deadline) {
		summary := getJSON("/api/v1/summaries/" + jobID)
		switch summary["status"] {
		case "done":
			fmt.Printf("OK: summary done, %v words\n", summary["wordCount"])
			fmt.Println("Integration test passed")
			os.Exit(0)
		case "failed":
			fmt.Printf("FAIL: summary failed: %v\n", summary["error"])
			os.Exit(1)
		}
		time.Sleep(2 * time.Second)
	}

	fmt.Printf("FAIL: summary not done within %s\n", *wait)
	os.Exit(1)
}

func postJSON(path string, payload map[string]interface{}) map[string]interface{} {
	body, _ := json.Marshal(payload)
	resp, err := http.Post(*baseURL+path, "application/json", bytes.NewBuffer(body))
	if err != nil {
		fmt.Printf("FAIL: POST %s: %v\n", path, err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	return decodeBody(path, resp)
}

func getJSON(path string) map[string]interface{} {
	resp, err := http.Get(*baseURL + path)
	if err != nil {
		fmt.Printf("FAIL: GET %s: %v\n", path, err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	return decodeBody(path, resp)
}

func decodeBody(path string, resp *http.Response) map[string]interface{} {
	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		fmt.Printf("FAIL: %s returned %d: %s\n", path, resp.StatusCode, string(data))
		os.Exit(1)
	}
	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		fmt.Printf("FAIL: %s returned invalid JSON: %v\n", path, err)
		os.Exit(1)
	}
	return out
}
