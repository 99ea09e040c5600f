package scheduler

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// gocronLogger routes gocron's key/value logging onto logrus.
type gocronLogger struct {
	log logrus.FieldLogger
}

func (l gocronLogger) Debug(msg string, args ...any) { l.entry(args).Debug(msg) }
func (l gocronLogger) Info(msg string, args ...any)  { l.entry(args).Info(msg) }
func (l gocronLogger) Warn(msg string, args ...any)  { l.entry(args).Warn(msg) }
func (l gocronLogger) Error(msg string, args ...any) { l.entry(args).Error(msg) }

func (l gocronLogger) entry(args []any) logrus.FieldLogger {
	if len(args) == 0 {
		return l.log
	}
	fields := make(logrus.Fields, len(args)/2+1)
	for i := 0; i < len(args); i += 2 {
		if i+1 >= len(args) {
			fields["arg"] = args[i]
			break
		}
		fields[fmt.Sprint(args[i])] = args[i+1]
	}
	return l.log.WithFields(fields)
}
