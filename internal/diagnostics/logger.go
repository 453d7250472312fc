// Package diagnostics provides a size- and time-rotated JSON-lines
// sink for decode-stream diagnostics: the single event emitted when
// truncation or a malformed header ends a stream before its buffer is
// exhausted.
package diagnostics

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	MaxLogSize       = 50 * 1024 * 1024 // 50MB
	RotationInterval = 24 * time.Hour
)

// Event is one decode-diagnostics log line.
type Event struct {
	Timestamp string `json:"timestamp"`
	Corpus    string `json:"corpus"`
	Category  uint8  `json:"category"`
	BitOffset int    `json:"bit_offset"`
	ErrorKind string `json:"error_kind"`
	Message   string `json:"message,omitempty"`
}

// RotatingLogger writes Event values as newline-delimited JSON,
// rotating the file by size or by elapsed time.
type RotatingLogger struct {
	filename       string
	file           *os.File
	currentSize    int64
	lastRotation   time.Time
	mu             sync.Mutex
	rotationTicker *time.Ticker
	stopChan       chan struct{}
}

// NewRotatingLogger opens (or creates) filename and starts its
// background rotation check.
func NewRotatingLogger(filename string) (*RotatingLogger, error) {
	rl := &RotatingLogger{
		filename:     filename,
		lastRotation: time.Now(),
		stopChan:     make(chan struct{}),
	}

	if err := rl.openExisting(); err != nil {
		return nil, err
	}

	rl.rotationTicker = time.NewTicker(1 * time.Minute)
	go rl.checkRotation()

	return rl, nil
}

func (rl *RotatingLogger) openExisting() error {
	dir := filepath.Dir(rl.filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create diagnostics log directory: %w", err)
	}

	fileInfo, err := os.Stat(rl.filename)
	switch {
	case err == nil:
		file, err := os.OpenFile(rl.filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open diagnostics log file: %w", err)
		}
		rl.file = file
		rl.currentSize = fileInfo.Size()
		rl.lastRotation = fileInfo.ModTime()
		if rl.currentSize >= MaxLogSize {
			return rl.rotate()
		}
	case os.IsNotExist(err):
		file, err := os.OpenFile(rl.filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to create diagnostics log file: %w", err)
		}
		rl.file = file
		rl.currentSize = 0
		rl.lastRotation = time.Now()
	default:
		return fmt.Errorf("failed to stat diagnostics log file: %w", err)
	}

	return nil
}

func (rl *RotatingLogger) checkRotation() {
	for {
		select {
		case <-rl.rotationTicker.C:
			rl.mu.Lock()
			if time.Since(rl.lastRotation) >= RotationInterval {
				rl.rotate()
			}
			rl.mu.Unlock()
		case <-rl.stopChan:
			return
		}
	}
}

func (rl *RotatingLogger) rotate() error {
	if rl.file != nil {
		rl.file.Close()
	}

	dir := filepath.Dir(rl.filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create diagnostics log directory: %w", err)
	}

	if _, err := os.Stat(rl.filename); err == nil {
		timestamp := time.Now().Format("20060102-150405")
		rotatedName := fmt.Sprintf("%s.%s", rl.filename, timestamp)
		os.Rename(rl.filename, rotatedName)
	}

	file, err := os.OpenFile(rl.filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open diagnostics log file: %w", err)
	}

	rl.file = file
	rl.currentSize = 0
	rl.lastRotation = time.Now()
	return nil
}

// Log appends ev as one JSON line.
func (rl *RotatingLogger) Log(ev Event) error {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	line, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal diagnostics event: %w", err)
	}
	line = append(line, '\n')

	if rl.currentSize+int64(len(line)) >= MaxLogSize {
		if err := rl.rotate(); err != nil {
			return err
		}
	}

	n, err := rl.file.Write(line)
	if err != nil {
		return fmt.Errorf("failed to write diagnostics event: %w", err)
	}
	rl.currentSize += int64(n)
	return nil
}

// Close stops the rotation ticker and closes the underlying file.
func (rl *RotatingLogger) Close() error {
	close(rl.stopChan)
	rl.rotationTicker.Stop()
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if rl.file != nil {
		return rl.file.Close()
	}
	return nil
}
