package shared

import (
	"fmt"
	"io"
	"sync"
)

// Reporter emits formatted progress lines to an underlying sink.
type Reporter interface {
	Printf(format string, args ...any)
}

type writerReporter struct {
	writer io.Writer
	mutex  *sync.Mutex
}

// NewWriterReporter constructs a Reporter that writes to the provided io.Writer.
// A nil writer discards every line.
func NewWriterReporter(writer io.Writer) Reporter {
	if writer == nil {
		writer = io.Discard
	}
	return writerReporter{writer: writer, mutex: &sync.Mutex{}}
}

// Printf serializes writes so concurrent callers never interleave partial lines.
func (reporter writerReporter) Printf(format string, args ...any) {
	reporter.mutex.Lock()
	defer reporter.mutex.Unlock()
	fmt.Fprintf(reporter.writer, format, args...)
}
