package service

import (
	"context"
	"fmt"
	"strings"

	clierrors "github.com/penfolio/penfolio-cli/pkg/errors"
	"github.com/penfolio/penfolio-cli/pkg/logger"
	"github.com/penfolio/penfolio-cli/pkg/output"
)

// SearchService provides user search
type SearchService struct {
	env *Env
}

// NewSearchService creates a new search service
func NewSearchService(env *Env) *SearchService {
	return &SearchService{env: env}
}

// Users prints users whose username matches query.
func (s *SearchService) Users(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return clierrors.ValidationError("Search query cannot be empty")
	}
	logger.Debug("Searching users", "query", query)

	users, err := s.env.API.SearchUsers(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to search users: %w", err)
	}
	if !output.Structured() && len(users) == 0 {
		output.Println(fmt.Sprintf("No users found for %q", query))
		return nil
	}
	return printUsers(fmt.Sprintf("Users matching %q", query), users)
}
