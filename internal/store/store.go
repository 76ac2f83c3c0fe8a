// Package store holds the two storage adapters behind the recipe service:
// Local, over a string-keyed storage area, and Remote, over Firestore.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/cookiverse/cookiverse/internal/models"
)

var (
	// ErrNotFound is returned when a referenced recipe does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNoData is returned by a store that has never held a recipe collection.
	ErrNoData = errors.New("no stored data")
)

// RecipeFilter narrows ListRecipes. Zero value lists everything.
type RecipeFilter struct {
	PublicOnly bool
	AuthorID   string
}

func (f RecipeFilter) match(r *models.Recipe) bool {
	if f.PublicOnly && !r.IsPublic {
		return false
	}
	if f.AuthorID != "" && r.AuthorID != f.AuthorID {
		return false
	}
	return true
}

// Store is the backend-specific half of the recipe service. Results are
// always ordered by creation time, newest first.
type Store interface {
	// CreateRecipe persists r, assigning r.ID when empty, and returns the id.
	CreateRecipe(ctx context.Context, r *models.Recipe) (string, error)
	GetRecipe(ctx context.Context, id string) (*models.Recipe, error)
	// GetRecipes returns the recipes that still exist, in ids order.
	GetRecipes(ctx context.Context, ids []string) ([]models.Recipe, error)
	ListRecipes(ctx context.Context, f RecipeFilter) ([]models.Recipe, error)
	UpdateRecipe(ctx context.Context, id string, patch models.RecipePatch, at time.Time) (*models.Recipe, error)
	// DeleteRecipe removes the recipe and every bookmark that references it.
	DeleteRecipe(ctx context.Context, id string) error

	// PutBookmark stores b unless a bookmark with the same id exists.
	PutBookmark(ctx context.Context, b models.Bookmark) error
	// DeleteBookmark is a no-op when the bookmark does not exist.
	DeleteBookmark(ctx context.Context, id string) error
	HasBookmark(ctx context.Context, id string) (bool, error)
	ListBookmarks(ctx context.Context, userID string) ([]models.Bookmark, error)
}
