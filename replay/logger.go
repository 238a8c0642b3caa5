package replay

import (
	"crypto/tls"
	"net/http"

	"github.com/evalphobia/logrus_sentry"
	"github.com/getsentry/raven-go"
	"github.com/sirupsen/logrus"

	// gocertifi bundles a CA root set for the Sentry HTTPS client,
	// exactly as the teacher's go.mod carries it for raven-go's benefit.
	"github.com/certifi/gocertifi"
)

func toLogrusLevel(l LogLevel) logrus.Level {
	switch l {
	case LogLevelDebug:
		return logrus.DebugLevel
	case LogLevelWarn:
		return logrus.WarnLevel
	default:
		return logrus.InfoLevel
	}
}

// newLogger builds the harness's logger: a fresh *logrus.Logger for each
// call (Run makes one per run), used with structured fields rather than
// formatted strings,
// matching the teacher's log.WithField/log.WithError call pattern in its
// launcher code. When cfg.SentryDSN is non-empty, a logrus_sentry hook is
// attached so error-level entries also reach Sentry; a blank DSN leaves
// the logger exactly as plain logrus, silently.
func newLogger(cfg Config) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetLevel(toLogrusLevel(cfg.LogLevel))

	if cfg.SentryDSN == "" {
		return log, nil
	}

	pool, err := gocertifi.CACerts()
	if err != nil {
		return nil, err
	}

	ravenClient, err := raven.NewWithTags(cfg.SentryDSN, map[string]string{})
	if err != nil {
		return nil, err
	}
	ravenClient.Transport = &raven.HTTPTransport{Client: &http.Client{Transport: &http.Transport{
		TLSClientConfig: &tls.Config{RootCAs: pool},
	}}}

	hook, err := logrus_sentry.NewWithClientSentryHook(ravenClient, []logrus.Level{
		logrus.ErrorLevel,
		logrus.FatalLevel,
		logrus.PanicLevel,
	})
	if err != nil {
		return nil, err
	}
	log.AddHook(hook)
	return log, nil
}
