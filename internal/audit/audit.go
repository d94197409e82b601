package audit

import (
	"fmt"
	"sync"
)

var (
	globalWriter Writer = NopWriter{}
	globalMu     sync.RWMutex

	enabled bool
)

// Init initializes the global audit logger with the given writer.
// A nil writer disables audit logging.
func Init(w Writer) error {
	globalMu.Lock()
	defer globalMu.Unlock()

	if w == nil {
		globalWriter = NopWriter{}
		enabled = false
		return nil
	}

	globalWriter = w
	enabled = true
	return nil
}

// InitFile initializes the global audit logger with a file writer.
func InitFile(path string) error {
	if path == "" {
		return Init(nil)
	}

	w, err := NewFileWriter(path)
	if err != nil {
		return err
	}

	return Init(w)
}

// Close closes the global audit writer.
func Close() error {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalWriter != nil {
		err := globalWriter.Close()
		globalWriter = NopWriter{}
		enabled = false
		return err
	}
	return nil
}

// Enabled returns whether audit logging is active.
func Enabled() bool {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return enabled
}

// Log writes an audit event to the global writer.
func Log(event *Event) error {
	globalMu.RLock()
	w := globalWriter
	globalMu.RUnlock()

	return w.Write(event)
}

// MustLog writes an audit event and returns an error suitable for failing
// the parent operation if audit logging fails.
func MustLog(event *Event) error {
	if err := Log(event); err != nil {
		return fmt.Errorf("audit log failed: %w", err)
	}
	return nil
}

// LogInspect logs a response inspection event.
func LogInspect(path, status string, success bool) error {
	result := ResultSuccess
	if !success {
		result = ResultFailure
	}

	event := NewEvent(EventInspect, result).
		WithObject(Object{
			Type: "response",
			Path: path,
		}).
		WithContext(Context{
			ResponseStatus: status,
		})

	return MustLog(event)
}

// LogVerify logs a verification event.
func LogVerify(path, trustStore, status string, chainCerts int, success bool, reason string) error {
	result := ResultSuccess
	if !success {
		result = ResultFailure
	}

	event := NewEvent(EventVerify, result).
		WithObject(Object{
			Type: "response",
			Path: path,
		}).
		WithContext(Context{
			ResponseStatus: status,
			TrustStore:     trustStore,
			ChainCerts:     chainCerts,
			Reason:         reason,
		})

	return MustLog(event)
}

// LogExport logs a DER export event.
func LogExport(inPath, outPath string, success bool) error {
	result := ResultSuccess
	if !success {
		result = ResultFailure
	}

	event := NewEvent(EventExport, result).
		WithObject(Object{
			Type: "response",
			Path: inPath,
		}).
		WithContext(Context{
			Output: outPath,
		})

	return MustLog(event)
}
