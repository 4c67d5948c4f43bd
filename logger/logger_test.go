package logger

import (
	"bytes"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zkchannel-org/zkchannel/types"
)

func Test_New(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		log, err := New(nil)
		require.NoError(t, err)
		require.True(t, log.Enabled(nil, slog.LevelInfo))
		require.False(t, log.Enabled(nil, slog.LevelDebug))
	})

	t.Run("level from configuration", func(t *testing.T) {
		log, err := New(&LogConfiguration{Level: "debug", OutputPath: "discard"})
		require.NoError(t, err)
		require.True(t, log.Enabled(nil, slog.LevelDebug))

		log, err = New(&LogConfiguration{Level: "warn", OutputPath: "discard"})
		require.NoError(t, err)
		require.False(t, log.Enabled(nil, slog.LevelInfo))
	})

	t.Run("invalid level", func(t *testing.T) {
		_, err := New(&LogConfiguration{Level: "chatty"})
		require.ErrorContains(t, err, `parsing log level "chatty"`)
	})

	t.Run("invalid format", func(t *testing.T) {
		_, err := New(&LogConfiguration{Format: "ecs"})
		require.ErrorContains(t, err, `unknown log format "ecs"`)
	})
}

func Test_attributes(t *testing.T) {
	var addr types.Address
	addr[0] = 0xEE

	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))
	log.Info("tracking",
		Error(fmt.Errorf("some failure")),
		ExecutionID("calc_exec_1"),
		Addr(addr),
		Slot(5000),
		Status("pending"),
		Signature("sig-1"),
		Module("client"),
	)

	out := buf.String()
	require.Contains(t, out, `"err":"some failure"`)
	require.Contains(t, out, `"execution_id":"calc_exec_1"`)
	require.Contains(t, out, `"addr":"`+addr.String()+`"`)
	require.Contains(t, out, `"slot":5000`)
	require.Contains(t, out, `"status":"pending"`)
	require.Contains(t, out, `"signature":"sig-1"`)
	require.Contains(t, out, `"module":"client"`)
}
