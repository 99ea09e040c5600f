package scheduler

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

var ErrInvalidCron = errors.New("scheduler: invalid cron expression")

// DefaultRecapCron runs the recap a few minutes after local midnight so a
// session left open overnight still gets its briefing.
const DefaultRecapCron = "5 0 * * *"

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateCron checks a five-field cron expression.
func ValidateCron(expr string) error {
	if _, err := cronParser.Parse(strings.TrimSpace(expr)); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidCron, expr, err)
	}
	return nil
}

// NextCronRun reports when expr fires next after from.
func NextCronRun(expr string, from time.Time) (time.Time, error) {
	sched, err := cronParser.Parse(strings.TrimSpace(expr))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %v", ErrInvalidCron, expr, err)
	}
	return sched.Next(from), nil
}
