package commands

import (
	"fmt"
	"strings"

	"github.com/sandeepkv93/focusflow/internal/model"
)

// ShortIDLen is how many trailing id characters the UI shows. Task ids are
// time ordered, so their heads collide and their tails do not.
const ShortIDLen = 6

func ShortID(id string) string {
	if len(id) <= ShortIDLen {
		return id
	}
	return id[len(id)-ShortIDLen:]
}

// Resolve maps a command target to a task id. "." and "selected" mean the
// selected task; anything else is an exact id or a unique id prefix or
// suffix.
func Resolve(target string, tasks []model.Task, selected string) (string, error) {
	target = strings.TrimSpace(target)
	if target == "." || strings.EqualFold(target, "selected") {
		if selected == "" {
			return "", &CommandError{Code: ErrCodeNotFound, Message: "no task selected"}
		}
		return selected, nil
	}
	if target == "" {
		return "", &CommandError{Code: ErrCodeNotFound, Message: "empty task reference"}
	}

	match := ""
	for _, t := range tasks {
		if t.ID == target {
			return t.ID, nil
		}
		if strings.HasPrefix(t.ID, target) || strings.HasSuffix(t.ID, target) {
			if match != "" && match != t.ID {
				return "", &CommandError{Code: ErrCodeAmbiguous, Message: fmt.Sprintf("%q matches more than one task", target)}
			}
			match = t.ID
		}
	}
	if match == "" {
		return "", &CommandError{Code: ErrCodeNotFound, Message: fmt.Sprintf("no task matches %q", target)}
	}
	return match, nil
}
