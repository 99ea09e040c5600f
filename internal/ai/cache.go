package ai

import (
	"context"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sandeepkv93/focusflow/internal/model"
)

const DefaultInterpretTTL = 10 * time.Minute

// CachedInterpreter remembers successful interpretations per activity text.
// Failures are not cached so the next capture retries.
type CachedInterpreter struct {
	next  Interpreter
	cache *cache.Cache
}

func NewCachedInterpreter(next Interpreter, ttl time.Duration) *CachedInterpreter {
	if ttl <= 0 {
		ttl = DefaultInterpretTTL
	}
	return &CachedInterpreter{
		next:  next,
		cache: cache.New(ttl, 2*ttl),
	}
}

func (c *CachedInterpreter) Interpret(ctx context.Context, activity string) (model.Suggestion, error) {
	key := strings.TrimSpace(activity)
	if cached, found := c.cache.Get(key); found {
		return cloneSuggestion(cached.(model.Suggestion)), nil
	}
	s, err := c.next.Interpret(ctx, activity)
	if err != nil {
		return model.Suggestion{}, err
	}
	c.cache.Set(key, cloneSuggestion(s), cache.DefaultExpiration)
	return s, nil
}

func cloneSuggestion(s model.Suggestion) model.Suggestion {
	s.NextSteps = append([]string{}, s.NextSteps...)
	return s
}
