package capture

import (
	"context"
	"errors"
	"fmt"
	"math"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/sandeepkv93/focusflow/internal/ai"
	"github.com/sandeepkv93/focusflow/internal/model"
	"github.com/sirupsen/logrus"
)

// Simulated OS activities offered by the capture menu.
const (
	ActivityFile = "Created a new file 'Marketing_Strategy_2025.pdf' in the /Projects/Drafts folder."
	ActivityWeb  = "Visited 'github.com/react-finance-app' and spent 45 minutes reading the README."
)

const (
	FallbackTitle = "New Activity Task"
	FallbackStep  = "Review activity"
)

var ErrEmptyActivity = errors.New("capture: empty activity")

// Preset resolves the short names used by the palette and the CLI.
func Preset(name string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "file":
		return ActivityFile, true
	case "web":
		return ActivityWeb, true
	default:
		return "", false
	}
}

// DescribeFile renders a dropped file the way it is fed to the interpreter.
func DescribeFile(name, mimeType string, size int64) string {
	if mimeType == "" {
		mimeType = "unknown"
	}
	return fmt.Sprintf("User dropped a file: %s (Type: %s, Size: %dKB)", name, mimeType, int64(math.Round(float64(size)/1024)))
}

// DescribePath stats a file on disk and describes it like a dropped file.
// The type comes from the file extension.
func DescribePath(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("capture: stat %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("capture: %s is a directory", path)
	}
	mimeType, _, _ := strings.Cut(mime.TypeByExtension(filepath.Ext(path)), ";")
	return DescribeFile(info.Name(), strings.TrimSpace(mimeType), info.Size()), nil
}

// Capturer builds auto-sourced tasks from activity descriptions.
type Capturer struct {
	interp ai.Interpreter
	clock  clockwork.Clock
	log    logrus.FieldLogger
	newID  func() string
}

func NewCapturer(interp ai.Interpreter, clock clockwork.Clock, log logrus.FieldLogger) *Capturer {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Capturer{
		interp: interp,
		clock:  clock,
		log:    log.WithField("component", "capture"),
		newID:  model.NewTaskID,
	}
}

// FromActivity returns a new TODO task due today. Any interpreter failure
// yields the fallback task instead of an error.
func (c *Capturer) FromActivity(ctx context.Context, activity string, category *model.Category) (model.Task, error) {
	activity = strings.TrimSpace(activity)
	if activity == "" {
		return model.Task{}, ErrEmptyActivity
	}

	s := c.suggest(ctx, activity)

	now := c.clock.Now()
	source := model.SourceAuto
	task := model.Task{
		ID:          c.newID(),
		Title:       s.Title,
		Description: s.Description,
		Status:      model.StatusTodo,
		CreatedAt:   model.MillisOf(now),
		DueDate:     model.DayOf(now).String(),
		NextSteps:   append([]string{}, s.NextSteps...),
		Source:      &source,
	}
	if task.Description == "" {
		task.Description = activity
	}
	if category != nil {
		task.Category = model.Ptr(*category)
	}
	return task, nil
}

func (c *Capturer) suggest(ctx context.Context, activity string) model.Suggestion {
	fallback := model.Suggestion{
		Title:       FallbackTitle,
		Description: activity,
		NextSteps:   []string{FallbackStep},
	}
	if c.interp == nil {
		return fallback
	}
	s, err := c.interp.Interpret(ctx, activity)
	if err != nil {
		c.log.WithError(err).Warn("interpret activity, using fallback")
		return fallback
	}
	return s
}
