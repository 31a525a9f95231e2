package logx_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"dealflow/pkg/logx"
)

func TestNewLogger(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		level     string
		wantDebug bool
		wantInfo  bool
	}{
		{name: "debug", level: "debug", wantDebug: true, wantInfo: true},
		{name: "warn hides info", level: "WARN", wantDebug: false, wantInfo: false},
		{name: "garbage falls back to info", level: "loud", wantDebug: false, wantInfo: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rq := require.New(t)

			var buf bytes.Buffer
			l := logx.NewLogger(&buf, tc.level)

			rq.Equal(tc.wantDebug, l.Enabled(context.Background(), slog.LevelDebug))
			rq.Equal(tc.wantInfo, l.Enabled(context.Background(), slog.LevelInfo))

			l.Error("boom", logx.Error(context.Canceled))
			rq.Contains(buf.String(), "boom")
			rq.Contains(buf.String(), "context canceled")
		})
	}
}
