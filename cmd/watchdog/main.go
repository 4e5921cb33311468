// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch

// watchdog tails the server log and reports whether a summarize run
// completed within the timeout. Useful for smoke-testing a deployment.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"
)

var (
	logFile = flag.String("log", "studyhive.log", "Server log file to tail")
	timeout = flag.Duration("timeout", 120*time.Second, "How long to wait for a result")
)

const (
	successMsg = "summary stored"
	failureMsg = "summarize failed"
	rateMsg    = "rate limit exceeded"
)

func main() {
	flag.Parse()

	timeoutChan := time.After(*timeout)
	lineChan := make(chan string, 100)

	go func() {
		var file *os.File
		var err error

		for {
			file, err = os.Open(*logFile)
			if err != nil {
				// Log file may not exist until the server writes its first line.
				time.Sleep(1 * time.Second)
				continue
			}
			break
		}
		defer file.Close()

		// Start at the end; only new lines matter.
		file.Seek(0, 2)
		reader := bufio.NewReader(file)
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				time.Sleep(200 * time.Millisecond)
				continue
			}
			lineChan <- strings.TrimRight(line, "\n")
		}
	}()

	fmt.Printf("Watching %s for summarize results (timeout %s)...\n", *logFile, *timeout)

	for {
		select {
		case line := <-lineChan:
			switch {
			case strings.Contains(line, successMsg):
				fmt.Printf("OK: %s\n", line)
				os.Exit(0)
			case strings.Contains(line, failureMsg):
				fmt.Printf("FAIL: %s\n", line)
				os.Exit(1)
			case strings.Contains(line, rateMsg):
				fmt.Printf("WARN: %s\n", line)
			}
		case <-timeoutChan:
			fmt.Printf("TIMEOUT: no summarize result within %s\n", *timeout)
			os.Exit(2)
		}
	}
}
