package utils_test

import (
	"bufio"
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gitupstream/internal/utils"
)

const reportWriterTestLine = "SUMMARY: processed=1 skipped=0 errors=0\n"

var errReportDestinationClosed = errors.New("destination closed")

type failingDestination struct {
	writes int
}

func (destination *failingDestination) Write(data []byte) (int, error) {
	destination.writes++
	return 0, errReportDestinationClosed
}

func TestReportWriterFlushesBufferedDestinations(testInstance *testing.T) {
	var destination bytes.Buffer
	reportWriter := utils.NewReportWriter(bufio.NewWriter(&destination))

	bytesWritten, writeError := reportWriter.Write([]byte(reportWriterTestLine))
	require.NoError(testInstance, writeError)
	require.Equal(testInstance, len(reportWriterTestLine), bytesWritten)
	require.Equal(testInstance, reportWriterTestLine, destination.String())
	require.NoError(testInstance, reportWriter.Err())
}

func TestReportWriterKeepsFirstFailure(testInstance *testing.T) {
	destination := &failingDestination{}
	reportWriter := utils.NewReportWriter(destination)

	_, firstError := reportWriter.Write([]byte(reportWriterTestLine))
	require.ErrorIs(testInstance, firstError, errReportDestinationClosed)

	_, secondError := reportWriter.Write([]byte(reportWriterTestLine))
	require.ErrorIs(testInstance, secondError, errReportDestinationClosed)
	require.Equal(testInstance, 1, destination.writes)
	require.ErrorIs(testInstance, reportWriter.Err(), errReportDestinationClosed)
}

func TestNewReportWriter(testInstance *testing.T) {
	var destination bytes.Buffer
	reportWriter := utils.NewReportWriter(&destination)
	require.Same(testInstance, reportWriter, utils.NewReportWriter(reportWriter))

	discardingWriter := utils.NewReportWriter(nil)
	bytesWritten, writeError := discardingWriter.Write([]byte(reportWriterTestLine))
	require.NoError(testInstance, writeError)
	require.Equal(testInstance, len(reportWriterTestLine), bytesWritten)
}
