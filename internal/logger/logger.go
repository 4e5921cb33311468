// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

// Logger writes to stdout and a log file, and broadcasts each line to
// subscribers so the live log WebSocket can stream server activity.
type Logger struct {
	file        *os.File
	writer      io.Writer
	logger      *log.Logger
	broadcast   chan string
	subscribers map[chan string]bool
	subMu       sync.Mutex
	mu          sync.RWMutex
	closed      bool
}

// NewLogger creates a logger writing to logFile and stdout. An empty path
// writes to stdout only.
func NewLogger(logFile string) (*Logger, error) {
	var file *os.File
	writer := io.Writer(os.Stdout)

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		file = f
		writer = io.MultiWriter(os.Stdout, f)
	}

	l := &Logger{
		file:        file,
		writer:      writer,
		logger:      log.New(writer, "", log.LstdFlags),
		broadcast:   make(chan string, 100), // buffered so logging never blocks
		subscribers: make(map[chan string]bool),
	}
	go l.broadcastLoop()
	return l, nil
}

// Subscribe returns a channel receiving every log line until Unsubscribe.
func (l *Logger) Subscribe() chan string {
	ch := make(chan string, 10)
	l.subMu.Lock()
	l.subscribers[ch] = true
	l.subMu.Unlock()
	return ch
}

// Unsubscribe removes and closes a subscriber channel.
func (l *Logger) Unsubscribe(ch chan string) {
	l.subMu.Lock()
	defer l.subMu.Unlock()
	if l.subscribers[ch] {
		delete(l.subscribers, ch)
		close(ch)
	}
}

// broadcastLoop forwards log lines to all subscribers without blocking.
func (l *Logger) broadcastLoop() {
	defer func() {
		l.subMu.Lock()
		for ch := range l.subscribers {
			close(ch)
		}
		l.subscribers = make(map[chan string]bool)
		l.subMu.Unlock()
	}()

	for line := range l.broadcast {
		l.subMu.Lock()
		for ch := range l.subscribers {
			select {
			case ch <- line:
			default:
				// Subscriber is slow; drop the line for it.
			}
		}
		l.subMu.Unlock()
	}
}

func (l *Logger) logMessage(level, format string, v ...interface{}) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return
	}

	message := fmt.Sprintf(format, v...)
	line := fmt.Sprintf("[%s] [%s] %s", time.Now().Format("2006-01-02 15:04:05"), level, message)

	l.logger.Output(3, line)

	select {
	case l.broadcast <- line:
	default:
	}
}

// Write implements io.Writer so the stdlib logger can be redirected here
// with log.SetOutput and still feed the file and the broadcast stream.
func (l *Logger) Write(p []byte) (int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return len(p), nil
	}

	n, err := l.writer.Write(p)

	line := strings.TrimRight(string(p), "\n")
	select {
	case l.broadcast <- line:
	default:
	}
	return n, err
}

// Printf logs at INFO level.
func (l *Logger) Printf(format string, v ...interface{}) {
	l.logMessage("INFO", format, v...)
}

// Warnf logs at WARN level.
func (l *Logger) Warnf(format string, v ...interface{}) {
	l.logMessage("WARN", format, v...)
}

// Errorf logs at ERROR level.
func (l *Logger) Errorf(format string, v ...interface{}) {
	l.logMessage("ERROR", format, v...)
}

// Close stops broadcasting and closes the log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	close(l.broadcast)
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
