package utils

import (
	"io"
	"sync"
)

type flusher interface {
	Flush() error
}

// ReportWriter serializes report lines onto a destination and flushes buffered destinations after each line.
// The first failure is kept: later writes return it without touching the destination, and Err exposes it
// to callers whose producers ignore write errors.
type ReportWriter struct {
	destination io.Writer
	flusher     flusher
	mutex       sync.Mutex
	failure     error
}

// NewReportWriter wraps destination unless it is already a ReportWriter. A nil destination discards output.
func NewReportWriter(destination io.Writer) *ReportWriter {
	if existing, alreadyWrapped := destination.(*ReportWriter); alreadyWrapped && existing != nil {
		return existing
	}
	if destination == nil {
		destination = io.Discard
	}
	reportWriter := &ReportWriter{destination: destination}
	if destinationFlusher, flushable := destination.(flusher); flushable {
		reportWriter.flusher = destinationFlusher
	}
	return reportWriter
}

func (reportWriter *ReportWriter) Write(data []byte) (int, error) {
	reportWriter.mutex.Lock()
	defer reportWriter.mutex.Unlock()

	if reportWriter.failure != nil {
		return 0, reportWriter.failure
	}

	bytesWritten, writeError := reportWriter.destination.Write(data)
	if writeError == nil && reportWriter.flusher != nil {
		writeError = reportWriter.flusher.Flush()
	}
	reportWriter.failure = writeError
	return bytesWritten, writeError
}

// Err returns the first write or flush failure.
func (reportWriter *ReportWriter) Err() error {
	reportWriter.mutex.Lock()
	defer reportWriter.mutex.Unlock()
	return reportWriter.failure
}
