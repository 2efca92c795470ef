// Package logging configures the logrus logger shared by the command-line
// tools.
package logging

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/cognicore/reviewlens/pkg/reviewlens/internalerr"
)

// TimestampFormat is used for every log line.
const TimestampFormat = "2006/01/02 15:04:05"

// Setup builds a logger writing plain text to w at the given level
// ("debug", "info", "warn", "error").
func Setup(level string, w io.Writer) (*logrus.Logger, error) {
	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("%w: log level: %v", internalerr.ErrInvalidConfig, err)
	}
	log := logrus.New()
	log.SetOutput(w)
	log.SetLevel(lvl)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: TimestampFormat,
		DisableColors:   true,
	})
	return log, nil
}

// FieldsHook stamps fixed fields on every entry that does not already carry
// them.
type FieldsHook logrus.Fields

// Levels implements logrus.Hook.
func (FieldsHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire implements logrus.Hook.
func (h FieldsHook) Fire(entry *logrus.Entry) error {
	for k, v := range h {
		if _, ok := entry.Data[k]; !ok {
			entry.Data[k] = v
		}
	}
	return nil
}
