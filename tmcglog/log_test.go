package tmcglog

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

type bufSyncer struct{ bytes.Buffer }

func (b *bufSyncer) Sync() error { return nil }

func TestNewLoggerWritesJSON(t *testing.T) {
	var buf bufSyncer
	l := New(&buf, InfoLevel, true)
	l.Infow("hello", "key", "value")
	require.Contains(t, buf.String(), "hello")
	require.Contains(t, buf.String(), "\"key\":\"value\"")
}

func TestNewLoggerRespectsLevel(t *testing.T) {
	var buf bufSyncer
	l := New(&buf, ErrorLevel, true)
	l.Info("should not appear")
	require.Empty(t, buf.String())
	l.Error("should appear")
	require.Contains(t, buf.String(), "should appear")
}

func TestWithAndNamed(t *testing.T) {
	var buf bufSyncer
	l := New(&buf, InfoLevel, true)
	named := l.Named("sub").With("component", "x")
	named.Info("message")
	out := buf.String()
	require.Contains(t, out, "\"logger\":\"sub\"")
	require.Contains(t, out, "\"component\":\"x\"")
}

func TestContextRoundTrip(t *testing.T) {
	var buf bufSyncer
	l := New(&buf, InfoLevel, true)
	ctx := ToContext(context.Background(), l)
	got := FromContextOrDefault(ctx)
	require.Equal(t, l, got)

	fallback := FromContextOrDefault(context.Background())
	require.NotNil(t, fallback)
}

var _ zapcore.WriteSyncer = (*bufSyncer)(nil)
