package log

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/valenstagram/valenstagram-backend/utils/flag"
)

// global accessible logger
var (
	LogV2 *AppLogger
)

// This init function is only for testing cases, where the entry point is not
// main function. Unit test will fail with nil pointer dereference if we don't
// init here.
func init() {
	initLogger()
}

type AppLogger struct {
	*logrus.Logger
}

func (l *AppLogger) Infof(params ...interface{}) {
	l.Info(joinParams(params))
}

func (l *AppLogger) Debugf(params ...interface{}) {
	l.Debug(joinParams(params))
}

func (l *AppLogger) Errorf(params ...interface{}) {
	l.Error(joinParams(params))
}

func joinParams(params []interface{}) string {
	strs := make([]string, len(params))

	for i, param := range params {
		strs[i] = fmt.Sprint(param)
	}

	return strings.Join(strs, ", ")
}

// SetUnderlying swaps the backing logrus instance, used by tests to capture
// entries with a null logger hook.
func SetUnderlying(logger *logrus.Logger) {
	LogV2 = &AppLogger{logger}
}

func initLogger() {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetLevel(logrus.DebugLevel)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	env := os.Getenv("VALENSTAGRAM_ENV")
	if len(env) == 0 {
		env = "unknown"
	}

	logger.AddHook(&fieldHook{fields: logrus.Fields{
		"env": env,
		"app": strings.ReplaceAll(*flag.ServiceName, "_", "-"),
	}})

	LogV2 = &AppLogger{logger}
}

// fieldHook stamps every entry with process-level fields.
type fieldHook struct {
	fields logrus.Fields
}

func (h *fieldHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h *fieldHook) Fire(entry *logrus.Entry) error {
	for k, v := range h.fields {
		if _, ok := entry.Data[k]; !ok {
			entry.Data[k] = v
		}
	}
	return nil
}
