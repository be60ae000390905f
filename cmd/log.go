package cmd

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

var log = logrus.WithField("component", "cmd")

// logLevels maps the accepted GDRL_LOG_LEVEL values to logrus levels.
// "off" leaves only assertion failures.
var logLevels = map[string]logrus.Level{
	"trace": logrus.TraceLevel,
	"debug": logrus.DebugLevel,
	"info":  logrus.InfoLevel,
	"warn":  logrus.WarnLevel,
	"error": logrus.ErrorLevel,
	"off":   logrus.PanicLevel,
}

// logFormatters maps the accepted GDRL_LOG_FORMAT values to formatters
var logFormatters = map[string]func() logrus.Formatter{
	"text": func() logrus.Formatter { return &logrus.TextFormatter{} },
	"json": func() logrus.Formatter { return &logrus.JSONFormatter{} },
}

// configureLog sets up the standard logger from the log keys of v.
// Nothing is changed if either value is invalid.
func configureLog(v *viper.Viper) error {
	format := v.GetString(logFormatKey)
	newFormatter, ok := logFormatters[format]
	if !ok {
		return fmt.Errorf("invalid %v %q, expected one of %v",
			envName(logFormatKey), format, names(logFormatters))
	}

	levelName := v.GetString(logLevelKey)
	level, ok := logLevels[levelName]
	if !ok {
		return fmt.Errorf("invalid %v %q, expected one of %v",
			envName(logLevelKey), levelName, names(logLevels))
	}

	logrus.SetFormatter(newFormatter())
	logrus.SetLevel(level)
	return nil
}

func names[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
