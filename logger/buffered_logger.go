// Package logger provides a buffered, sample-rate-gated logger for morph
// and overlay calls, so per-call diagnostics (triangle counts, rejected
// triangles, degenerate-affine skips) don't add latency to the pixel
// pipeline.
package logger

import (
	"bytes"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Level gates which CallLogger lines actually get written. A line below
// the logger's configured minimum level is dropped before it ever touches
// the buffer.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps a config string ("debug", "info", "warn", "error",
// case-insensitive) to a Level, defaulting to LevelInfo for anything else.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// BufferedLogger accumulates call diagnostics in memory and flushes them
// asynchronously.
type BufferedLogger struct {
	buffer      bytes.Buffer
	mu          sync.Mutex
	autoFlush   bool
	flushChan   chan struct{}
	stopChan    chan struct{}
	enabled     atomic.Bool
	callNum     atomic.Uint64
	sampleRate  int // 0 = log every call, N = log 1 in N
	flushPeriod time.Duration
	minLevel    Level

	// Aggregate mesh diagnostics, tallied across every sampled call.
	trianglesTotal        atomic.Uint64
	trianglesRejected      atomic.Uint64
	degenerateAffineSkips atomic.Uint64
}

// New creates a buffered logger. minLevel filters out CallLogger lines
// below that severity before they reach the buffer. flushPeriod is the
// auto-flush ticker interval; it is ignored if autoFlush is false.
func New(minLevel Level, autoFlush bool, sampleRate int, flushPeriod time.Duration) *BufferedLogger {
	if flushPeriod <= 0 {
		flushPeriod = 100 * time.Millisecond
	}
	bl := &BufferedLogger{
		autoFlush:   autoFlush,
		flushChan:   make(chan struct{}, 100),
		stopChan:    make(chan struct{}),
		sampleRate:  sampleRate,
		flushPeriod: flushPeriod,
		minLevel:    minLevel,
	}
	bl.enabled.Store(true)

	if autoFlush {
		go bl.flusher()
	}
	return bl
}

// CallLogger scopes log lines to a single morph/overlay call.
type CallLogger struct {
	parent    *BufferedLogger
	buffer    bytes.Buffer
	shouldLog bool
	callNum   uint64
}

// StartCall returns a CallLogger for a new call, or nil if this call
// should not be logged (based on sampling).
func (bl *BufferedLogger) StartCall() *CallLogger {
	if !bl.enabled.Load() {
		return nil
	}

	n := bl.callNum.Add(1)
	shouldLog := bl.sampleRate == 0 || (n%uint64(bl.sampleRate) == 0)
	if !shouldLog {
		return nil
	}

	return &CallLogger{parent: bl, shouldLog: shouldLog, callNum: n}
}

func (cl *CallLogger) writeLevel(lvl Level, format string, args ...interface{}) {
	if cl == nil || !cl.shouldLog || lvl < cl.parent.minLevel {
		return
	}
	timestamp := time.Now().Format("2006/01/02 15:04:05")
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(&cl.buffer, "[%s] [Call#%d] [%s] %s\n", timestamp, cl.callNum, lvl, msg)
}

// Debugf appends a debug-level line to the call's buffer.
func (cl *CallLogger) Debugf(format string, args ...interface{}) {
	cl.writeLevel(LevelDebug, format, args...)
}

// Infof appends an info-level line to the call's buffer.
func (cl *CallLogger) Infof(format string, args ...interface{}) {
	cl.writeLevel(LevelInfo, format, args...)
}

// Warnf appends a warn-level line to the call's buffer.
func (cl *CallLogger) Warnf(format string, args ...interface{}) {
	cl.writeLevel(LevelWarn, format, args...)
}

// Errorf appends an error-level line to the call's buffer.
func (cl *CallLogger) Errorf(format string, args ...interface{}) {
	cl.writeLevel(LevelError, format, args...)
}

// Mesh records the per-call triangulation outcome: how many candidate
// triangles came out of the triangulator and how many were warped (the
// rest had an absent vertex, failed the area test or had a degenerate
// affine). Rejected counts accumulate into the parent
// logger's aggregate stats regardless of the configured level.
func (cl *CallLogger) Mesh(candidates, usable int) {
	if cl == nil {
		return
	}
	rejected := candidates - usable
	cl.parent.trianglesTotal.Add(uint64(candidates))
	cl.parent.trianglesRejected.Add(uint64(rejected))
	cl.Infof("mesh candidates=%d usable=%d rejected=%d", candidates, usable, rejected)
}

// DegenerateAffine records one triangle skipped during warping because its
// source-to-destination affine solve was singular (near-zero determinant).
func (cl *CallLogger) DegenerateAffine(triangleIdx int) {
	if cl == nil {
		return
	}
	cl.parent.degenerateAffineSkips.Add(1)
	cl.Warnf("degenerate affine skip triangle=%d", triangleIdx)
}

// Commit flushes this call's buffered lines into the parent buffer. Call
// this after the morph result is returned to the caller.
func (cl *CallLogger) Commit() {
	if cl == nil || !cl.shouldLog || cl.buffer.Len() == 0 {
		return
	}

	cl.parent.mu.Lock()
	cl.parent.buffer.Write(cl.buffer.Bytes())
	cl.parent.mu.Unlock()

	if cl.parent.autoFlush {
		select {
		case cl.parent.flushChan <- struct{}{}:
		default:
		}
	}
}

// Flush writes all buffered lines to the standard logger immediately.
func (bl *BufferedLogger) Flush() {
	bl.mu.Lock()
	defer bl.mu.Unlock()

	if bl.buffer.Len() > 0 {
		log.Print(bl.buffer.String())
		bl.buffer.Reset()
	}
}

func (bl *BufferedLogger) flusher() {
	ticker := time.NewTicker(bl.flushPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-bl.flushChan:
			bl.Flush()
		case <-ticker.C:
			bl.Flush()
		case <-bl.stopChan:
			bl.Flush()
			return
		}
	}
}

// Stop halts the background flusher, which flushes once more before it
// exits. Without auto-flush there is no flusher and Stop flushes nothing.
func (bl *BufferedLogger) Stop() {
	close(bl.stopChan)
}

// SetEnabled toggles logging on or off.
func (bl *BufferedLogger) SetEnabled(enabled bool) {
	bl.enabled.Store(enabled)
}

// IsEnabled reports whether logging is currently on.
func (bl *BufferedLogger) IsEnabled() bool {
	return bl.enabled.Load()
}

// Stats returns a small snapshot of logger state, useful for a health
// endpoint.
func (bl *BufferedLogger) Stats() map[string]interface{} {
	bl.mu.Lock()
	bufferSize := bl.buffer.Len()
	bl.mu.Unlock()

	return map[string]interface{}{
		"total_calls":             bl.callNum.Load(),
		"buffer_size":             bufferSize,
		"sample_rate":             bl.sampleRate,
		"enabled":                 bl.enabled.Load(),
		"min_level":               bl.minLevel.String(),
		"triangles_total":         bl.trianglesTotal.Load(),
		"triangles_rejected":      bl.trianglesRejected.Load(),
		"degenerate_affine_skips": bl.degenerateAffineSkips.Load(),
	}
}
