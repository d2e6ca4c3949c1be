package supervisor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Nakamo312/BugBountyMCP-sub001/internal/reconerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, lines <-chan string, status <-chan Status, timeout time.Duration) ([]string, Status) {
	t.Helper()
	var got []string
	deadline := time.After(timeout)
	for {
		select {
		case line, ok := <-lines:
			if !ok {
				lines = nil
				continue
			}
			got = append(got, line)
		case st, ok := <-status:
			if !ok {
				return got, Status{}
			}
			return got, st
		case <-deadline:
			t.Fatal("timed out waiting for supervisor run to finish")
			return nil, Status{}
		}
	}
}

func TestRun_StreamsStdoutLines(t *testing.T) {
	lines, status := Run(context.Background(), []string{"printf", "a\\nb\\nc\\n"}, "", 5*time.Second)
	got, st := collect(t, lines, status, 5*time.Second)

	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.True(t, st.Ok)
	assert.Equal(t, 0, st.ExitCode)
}

func TestRun_NonZeroExitReportsScanExecutionFailed(t *testing.T) {
	lines, status := Run(context.Background(), []string{"sh", "-c", "echo boom 1>&2; exit 3"}, "", 5*time.Second)
	_, st := collect(t, lines, status, 5*time.Second)

	require.Error(t, st.Err)
	var recErr *reconerr.Error
	require.True(t, errors.As(st.Err, &recErr))
	assert.Equal(t, reconerr.KindScanExecutionFailed, recErr.Kind)
	assert.Equal(t, 3, st.ExitCode)
	assert.Contains(t, st.StderrTail, "boom")
}

func TestRun_UnknownBinaryReportsToolNotFound(t *testing.T) {
	lines, status := Run(context.Background(), []string{"definitely-not-a-real-binary-xyz"}, "", time.Second)
	_, st := collect(t, lines, status, 5*time.Second)

	require.Error(t, st.Err)
	kind, ok := reconerr.KindOf(st.Err)
	require.True(t, ok)
	assert.Equal(t, reconerr.KindToolNotFound, kind)
}

func TestRun_TimeoutReportsScanTimedOut(t *testing.T) {
	lines, status := Run(context.Background(), []string{"sleep", "5"}, "", 50*time.Millisecond)
	_, st := collect(t, lines, status, 5*time.Second)

	require.Error(t, st.Err)
	kind, ok := reconerr.KindOf(st.Err)
	require.True(t, ok)
	assert.Equal(t, reconerr.KindScanTimedOut, kind)
}

func TestRun_ExternalCancellationReportsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	lines, status := Run(ctx, []string{"sleep", "5"}, "", 0)

	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, st := collect(t, lines, status, 5*time.Second)
	require.Error(t, st.Err)
	kind, ok := reconerr.KindOf(st.Err)
	require.True(t, ok)
	assert.Equal(t, reconerr.KindCancelled, kind)
}

func TestRun_WritesStdinToChild(t *testing.T) {
	lines, status := Run(context.Background(), []string{"cat"}, "hello-stdin\n", 5*time.Second)
	got, st := collect(t, lines, status, 5*time.Second)

	assert.True(t, st.Ok)
	assert.Equal(t, []string{"hello-stdin"}, got)
}

func TestRingBuffer_KeepsOnlyTrailingBytes(t *testing.T) {
	rb := newRingBuffer(8)
	_, _ = rb.Write([]byte("0123456789"))
	assert.Equal(t, "23456789", rb.String())
}

func TestRingBuffer_AccumulatesAcrossWrites(t *testing.T) {
	rb := newRingBuffer(5)
	_, _ = rb.Write([]byte("ab"))
	_, _ = rb.Write([]byte("cd"))
	_, _ = rb.Write([]byte("ef"))
	assert.Equal(t, "bcdef", rb.String())
}
