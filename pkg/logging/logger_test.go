package logging_test

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/m365ops/contactsync/pkg/logging"
)

func TestSetDefaultRoutesPackageFunctions(t *testing.T) {
	restoreDefault(t)

	var buf bytes.Buffer
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	logging.SetDefault(zerolog.New(&buf).Level(zerolog.DebugLevel))

	logging.Debug().Msg("d")
	logging.Info().Msg("i")
	logging.Warn().Msg("w")
	logging.Error().Msg("e")

	for _, level := range []string{"debug", "info", "warn", "error"} {
		assert.Contains(t, buf.String(), `"level":"`+level+`"`)
	}
}

func TestNewWritesJSON(t *testing.T) {
	restoreDefault(t)
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	var buf bytes.Buffer
	logger := logging.New(&buf)
	logger.Info().Msg("json line")

	assert.Contains(t, buf.String(), `"level":"info"`)
	assert.Contains(t, buf.String(), `"time":`)
}

func TestTestLogger(t *testing.T) {
	tl := logging.NewTestLogger(t)
	tl.Info().Msg("created ada@contoso.com")
	tl.Error().Msg("update failed")

	assert.Len(t, tl.Lines(), 2)
	assert.True(t, tl.Contains("created", "update failed"))
	assert.False(t, tl.Contains("deleted"))

	tl.Reset()
	assert.Empty(t, tl.Lines())
}

func TestCaptureLoggingForTest(t *testing.T) {
	tl := logging.CaptureLoggingForTest(t)
	logging.Info().Str("mailbox", "shared@contoso.com").Msg("captured")

	assert.Contains(t, tl.Output(), `"mailbox":"shared@contoso.com"`)
}

func TestDisableLoggingForTest(t *testing.T) {
	logging.DisableLoggingForTest(t)
	assert.Equal(t, zerolog.Disabled, logging.Default().GetLevel())
}
