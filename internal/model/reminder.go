package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidReminderTime = errors.New("model: invalid reminder time")

const reminderLayout = "15:04"

// ReminderClock renders t as the HH:MM form reminders are matched against.
func ReminderClock(t time.Time) string {
	return t.Format(reminderLayout)
}

// ParseReminderTime normalises a 24-hour HH:MM value.
func ParseReminderTime(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	tm, err := time.Parse(reminderLayout, trimmed)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidReminderTime, raw)
	}
	return tm.Format(reminderLayout), nil
}

// FireKey identifies one reminder delivery: a task, the day it fired on and
// the reminder time it matched.
type FireKey struct {
	TaskID string
	Day    Day
	Time   string
}

func (k FireKey) String() string {
	return fmt.Sprintf("%s-%s-%s", k.TaskID, k.Day, k.Time)
}

// ReminderDue reports whether t should ring at now and returns its key.
func ReminderDue(t Task, now time.Time) (FireKey, bool) {
	if !t.IsActive() || t.ReminderTime == nil {
		return FireKey{}, false
	}
	today := DayOf(now)
	if t.DueDate != today.String() {
		return FireKey{}, false
	}
	clock := ReminderClock(now)
	if *t.ReminderTime != clock {
		return FireKey{}, false
	}
	return FireKey{TaskID: t.ID, Day: today, Time: clock}, true
}
