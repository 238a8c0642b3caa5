package replay

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewLogger_NoSentryDSNReturnsPlainLogger(t *testing.T) {
	log, err := newLogger(DefaultConfig())
	require.NoError(t, err)
	require.Empty(t, log.Hooks)
}

func TestNewLogger_MalformedSentryDSNFails(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SentryDSN = "not-a-valid-dsn"
	_, err := newLogger(cfg)
	require.Error(t, err)
}

func TestNewLogger_LevelIsApplied(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = LogLevelDebug
	log, err := newLogger(cfg)
	require.NoError(t, err)
	require.Equal(t, "debug", log.GetLevel().String())
}
