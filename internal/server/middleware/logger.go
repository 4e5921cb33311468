// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package middleware

import (
	"log"
	"net/http"
	"time"
)

// TrafficLogger logs every request on entry and exit with status and latency.
func TrafficLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[HTTP] -> %s %s from %s", r.Method, r.URL.Path, r.RemoteAddr)

		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)

		log.Printf("[HTTP] <- %d (%s) %s %s", rw.status, time.Since(start), r.Method, r.URL.Path)
	})
}

// statusRecorder captures the status code written by the handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}
