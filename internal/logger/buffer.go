// internal/logger/buffer.go
package logger

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

// LogEntry represents a single log entry in the buffer
type LogEntry struct {
	Timestamp time.Time              `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// LogBuffer - потокобезопасный кольцевой буфер логов для TUI.
// Вытесненные записи дописываются в spill-файл, если он задан.
type LogBuffer struct {
	mu           sync.Mutex
	ringBuffer   []LogEntry
	maxSize      int
	currentIndex int
	wrapped      bool
	spillFile    *os.File
	spillWriter  *bufio.Writer
	logger       *zap.Logger

	// Stats
	totalEntries   uint64
	spilledEntries uint64
}

// NewLogBuffer creates a new log buffer; spillFilePath may be empty
func NewLogBuffer(maxSize int, spillFilePath string, logger *zap.Logger) (*LogBuffer, error) {
	if maxSize <= 0 {
		return nil, fmt.Errorf("buffer size must be positive, got %d", maxSize)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	lb := &LogBuffer{
		ringBuffer: make([]LogEntry, maxSize),
		maxSize:    maxSize,
		logger:     logger,
	}
	if spillFilePath == "" {
		return lb, nil
	}

	if err := os.MkdirAll(filepath.Dir(spillFilePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	spillFile, err := os.OpenFile(spillFilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open spill file: %w", err)
	}
	lb.spillFile = spillFile
	lb.spillWriter = bufio.NewWriter(spillFile)
	return lb, nil
}

// Write принимает JSON-строку от zap encoder
func (lb *LogBuffer) Write(p []byte) (int, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(p, &raw); err != nil {
		return 0, fmt.Errorf("failed to decode log line: %w", err)
	}

	level, _ := raw["level"].(string)
	msg, _ := raw["msg"].(string)
	delete(raw, "level")
	delete(raw, "msg")
	delete(raw, "time")
	if len(raw) == 0 {
		raw = nil
	}

	if err := lb.Add(level, msg, raw); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Sync реализует zapcore.WriteSyncer
func (lb *LogBuffer) Sync() error {
	return lb.Flush()
}

// Add adds a new log entry to the buffer
func (lb *LogBuffer) Add(level, message string, fields map[string]interface{}) error {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	// Перед перезаписью самая старая запись уходит в файл
	if lb.wrapped && lb.spillWriter != nil {
		if err := lb.spillToFile(lb.ringBuffer[lb.currentIndex]); err != nil {
			return err
		}
		lb.spilledEntries++
	}

	lb.ringBuffer[lb.currentIndex] = LogEntry{
		Timestamp: time.Now(),
		Level:     level,
		Message:   message,
		Fields:    fields,
	}
	lb.currentIndex = (lb.currentIndex + 1) % lb.maxSize
	if lb.currentIndex == 0 {
		lb.wrapped = true
	}
	lb.totalEntries++

	return nil
}

// spillToFile writes an entry to the spill file
func (lb *LogBuffer) spillToFile(entry LogEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal log entry: %w", err)
	}
	if _, err := lb.spillWriter.Write(data); err != nil {
		return fmt.Errorf("failed to write to spill file: %w", err)
	}
	if _, err := lb.spillWriter.WriteString("\n"); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}
	return nil
}

// GetRecentLogs returns the most recent log entries (up to limit), oldest first
func (lb *LogBuffer) GetRecentLogs(limit int) []LogEntry {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	count := lb.currentIndex
	start := 0
	if lb.wrapped {
		count = lb.maxSize
		start = lb.currentIndex
	}
	if limit > 0 && limit < count {
		start += count - limit
		count = limit
	}

	logs := make([]LogEntry, 0, count)
	for i := 0; i < count; i++ {
		logs = append(logs, lb.ringBuffer[(start+i)%lb.maxSize])
	}
	return logs
}

// Flush forces a write of any buffered data to the spill file
func (lb *LogBuffer) Flush() error {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	if lb.spillWriter == nil {
		return nil
	}
	if err := lb.spillWriter.Flush(); err != nil {
		return fmt.Errorf("failed to flush spill writer: %w", err)
	}
	if err := lb.spillFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync spill file: %w", err)
	}
	return nil
}

// Close сбрасывает оставшиеся записи в spill-файл и закрывает его
func (lb *LogBuffer) Close() error {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	if lb.spillWriter == nil {
		return nil
	}

	count, start := lb.currentIndex, 0
	if lb.wrapped {
		count, start = lb.maxSize, lb.currentIndex
	}
	for i := 0; i < count; i++ {
		if err := lb.spillToFile(lb.ringBuffer[(start+i)%lb.maxSize]); err != nil {
			lb.logger.Error("Failed to spill entry during close", zap.Error(err))
		}
	}

	if err := lb.spillWriter.Flush(); err != nil {
		return fmt.Errorf("failed to flush during close: %w", err)
	}
	if err := lb.spillFile.Close(); err != nil {
		return fmt.Errorf("failed to close spill file: %w", err)
	}
	lb.spillWriter = nil

	lb.logger.Debug("Log buffer closed",
		zap.Uint64("totalEntries", lb.totalEntries),
		zap.Uint64("spilledEntries", lb.spilledEntries))

	return nil
}

// GetStats returns buffer statistics
func (lb *LogBuffer) GetStats() (total, spilled uint64) {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	return lb.totalEntries, lb.spilledEntries
}
