package logging_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/shouni/go-dungeon-buddy/internal/logging"
	"github.com/shouni/go-dungeon-buddy/mock"
	"github.com/shouni/go-dungeon-buddy/pkg/httpclient"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		debug   bool
	}{
		{"quiet", false, false},
		{"verbose", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := logging.New(tt.verbose)
			require.NoError(t, err)
			assert.Equal(t, tt.debug, logger.Core().Enabled(zapcore.DebugLevel))
			assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
		})
	}
}

func TestLookupLogger_GetResult(t *testing.T) {
	t.Run("logs term bytes and duration", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		inner := &mock.Lookup{
			GetResultFn: func(ctx context.Context, term string) (string, error) {
				return `{"title":"Paladin"}`, nil
			},
		}

		text, err := logging.NewLookupLogger(inner, zap.New(core)).GetResult(context.Background(), "paladin")

		require.NoError(t, err)
		assert.Equal(t, `{"title":"Paladin"}`, text)
		require.Equal(t, 1, logs.Len())
		entry := logs.All()[0]
		assert.Equal(t, "lookup", entry.Message)
		assert.Equal(t, zapcore.InfoLevel, entry.Level)
		fields := entry.ContextMap()
		assert.Equal(t, "paladin", fields["term"])
		assert.EqualValues(t, 19, fields["bytes"])
		assert.Contains(t, fields, "duration")
	})

	t.Run("logs error at warn level", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		inner := &mock.Lookup{
			GetResultFn: func(ctx context.Context, term string) (string, error) {
				return "", errors.New("network error")
			},
		}

		_, err := logging.NewLookupLogger(inner, zap.New(core)).GetResult(context.Background(), "paladin")

		require.Error(t, err)
		require.Equal(t, 1, logs.Len())
		entry := logs.All()[0]
		assert.Equal(t, zapcore.WarnLevel, entry.Level)
		assert.Equal(t, "network error", entry.ContextMap()["error"])
	})
}

func TestGetterLogger_Get(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	inner := mock.Pages(map[string]string{"https://roll20.net/a": "<html></html>"})

	resp, err := logging.NewGetterLogger(inner, zap.New(core)).Get(context.Background(), "https://roll20.net/a")

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, []string{"https://roll20.net/a"}, inner.Calls)
	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "https://roll20.net/a", fields["url"])
	assert.EqualValues(t, 200, fields["status"])
	assert.EqualValues(t, 13, fields["bytes"])

	var _ logging.Getter = (*httpclient.Client)(nil)
}
