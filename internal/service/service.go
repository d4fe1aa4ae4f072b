package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"gokandara/backend/internal/cache"
	"gokandara/backend/internal/domain"
	"gokandara/backend/internal/store"
)

type actorContextKey struct{}

// WithActor stamps the authenticated staff identity onto the request
// context. Handlers set it after token verification.
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(domain.Actor)
	return actor, ok
}

// ValidationError collects per-field messages for a 422 response. A nil or
// empty Fields map never escapes: callers construct it through newValidation
// and only return it when at least one field failed.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("validation failed: %s", strings.Join(keys, ", "))
}

func newValidation() *ValidationError {
	return &ValidationError{Fields: map[string][]string{}}
}

func (e *ValidationError) add(field string, message string) {
	e.Fields[field] = append(e.Fields[field], message)
}

func (e *ValidationError) failed() bool {
	return len(e.Fields) > 0
}

func requiredMessage(field string) string {
	return fmt.Sprintf("The %s field is required.", field)
}

func takenMessage(field string) string {
	return fmt.Sprintf("The %s has already been taken.", field)
}

func invalidChoiceMessage(field string, choices []string) string {
	return fmt.Sprintf("The %s must be one of: %s.", field, strings.Join(choices, ", "))
}

// ListParams carries the decoded query string of a list endpoint. Page and
// PerPage are already coerced by the handler; Filters holds the remaining
// raw query values for entity-specific predicates. Path feeds the
// pagination URLs.
type ListParams struct {
	Page    int
	PerPage int
	Search  string
	Filters map[string]string
	Path    string
}

func (p ListParams) filter(key string) (string, bool) {
	v, ok := p.Filters[key]
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}

type Service struct {
	repo    store.Repository
	summary cache.SummaryCache
}

func New(repo store.Repository, summary cache.SummaryCache) *Service {
	if summary == nil {
		summary = cache.NewNoop()
	}
	return &Service{repo: repo, summary: summary}
}
