package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cookiverse/cookiverse/internal/models"
	"github.com/cookiverse/cookiverse/internal/store"
)

// RecipeCache holds the last public feed read from a remote store.
type RecipeCache interface {
	ListRecipes(ctx context.Context, f store.RecipeFilter) ([]models.Recipe, error)
	ReplaceRecipes(ctx context.Context, recipes []models.Recipe) error
}

// RecipeService is the single entry point for recipe and bookmark
// operations. It works the same over any store.Store and takes the acting
// user explicitly; a nil user is an anonymous caller.
type RecipeService struct {
	store store.Store
	cache RecipeCache
	now   func() time.Time
}

type RecipeServiceOption func(*RecipeService)

// WithCache enables stale reads when the store fails.
func WithCache(cache RecipeCache) RecipeServiceOption {
	return func(s *RecipeService) { s.cache = cache }
}

func WithClock(now func() time.Time) RecipeServiceOption {
	return func(s *RecipeService) { s.now = now }
}

func NewRecipeService(st store.Store, opts ...RecipeServiceOption) *RecipeService {
	s := &RecipeService{store: st, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateRecipe shares a recipe authored by user. Input is expected to be
// validated by the caller.
func (s *RecipeService) CreateRecipe(ctx context.Context, user *models.User, in models.RecipeInput) (*models.Recipe, error) {
	if user == nil {
		return nil, newError(ErrAuthentication, msgSignIn, nil)
	}
	return s.create(ctx, user.UID, user.DisplayName, user.PhotoURL, in)
}

// CreateGeneratedRecipe saves a generated recipe. Without a user the recipe
// is attributed to the AI Chef placeholder.
func (s *RecipeService) CreateGeneratedRecipe(ctx context.Context, user *models.User, in models.RecipeInput) (*models.Recipe, error) {
	if user == nil {
		return s.create(ctx, models.AnonymousAuthorID, models.AnonymousAuthorName, models.AnonymousAuthorPhoto, in)
	}
	return s.create(ctx, user.UID, user.DisplayName, user.PhotoURL, in)
}

func (s *RecipeService) create(ctx context.Context, authorID, authorName, authorPhoto string, in models.RecipeInput) (*models.Recipe, error) {
	in = in.Normalize()
	r := &models.Recipe{
		Title:        in.Title,
		Ingredients:  in.Ingredients,
		Instructions: in.Instructions,
		CookTime:     in.CookTime,
		Tags:         in.Tags,
		AuthorID:     authorID,
		AuthorName:   authorName,
		AuthorPhoto:  authorPhoto,
		CreatedAt:    s.now().UTC(),
		IsPublic:     true,
	}

	id, err := s.store.CreateRecipe(ctx, r)
	if err != nil {
		slog.ErrorContext(ctx, "create recipe failed", "user_id", authorID, "action", "create_recipe", "error", err)
		return nil, newError(ErrBackendUnavailable, "Failed to share recipe. Please try again.", err)
	}
	r.ID = id
	slog.InfoContext(ctx, "recipe created", "user_id", authorID, "recipe_id", id)
	return r, nil
}

// GetRecipe returns a single recipe.
func (s *RecipeService) GetRecipe(ctx context.Context, id string) (*models.Recipe, error) {
	r, err := s.store.GetRecipe(ctx, id)
	if err != nil {
		return nil, s.lookupError(ctx, id, "get_recipe", err)
	}
	return r, nil
}

// ListPublicRecipes returns every public recipe, newest first.
func (s *RecipeService) ListPublicRecipes(ctx context.Context) ([]models.Recipe, error) {
	f := store.RecipeFilter{PublicOnly: true}
	recipes, err := s.store.ListRecipes(ctx, f)
	if err == nil && s.cache != nil {
		if cerr := s.cache.ReplaceRecipes(ctx, recipes); cerr != nil {
			slog.WarnContext(ctx, "failed to refresh recipe cache", "error", cerr)
		}
	}
	return s.listResult(ctx, f, "list_public_recipes", recipes, err)
}

// SearchRecipes filters the public feed by title, tag or ingredient.
func (s *RecipeService) SearchRecipes(ctx context.Context, q string) ([]models.Recipe, error) {
	recipes, err := s.ListPublicRecipes(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Recipe, 0, len(recipes))
	for i := range recipes {
		if recipes[i].Matches(q) {
			out = append(out, recipes[i])
		}
	}
	return out, nil
}

// ListRecipesByAuthor returns the recipes created by userID, newest first.
func (s *RecipeService) ListRecipesByAuthor(ctx context.Context, userID string) ([]models.Recipe, error) {
	f := store.RecipeFilter{AuthorID: userID}
	recipes, err := s.store.ListRecipes(ctx, f)
	return s.listResult(ctx, f, "list_author_recipes", recipes, err)
}

// listResult turns a store listing into the service result, falling back
// to the cache when the store failed.
func (s *RecipeService) listResult(ctx context.Context, f store.RecipeFilter, action string, recipes []models.Recipe, err error) ([]models.Recipe, error) {
	switch {
	case err == nil:
		return recipes, nil
	case errors.Is(err, store.ErrNoData):
		return []models.Recipe{}, nil
	}

	slog.ErrorContext(ctx, "recipe listing failed", "action", action, "error", err)
	if s.cache == nil {
		return nil, newError(ErrBackendUnavailable, msgTryAgain, err)
	}
	cached, cerr := s.cache.ListRecipes(ctx, f)
	if cerr != nil {
		if !errors.Is(cerr, store.ErrNoData) {
			slog.ErrorContext(ctx, "cached recipe listing failed", "action", action, "error", cerr)
		}
		return nil, newError(ErrBackendUnavailable, msgTryAgain, err)
	}
	slog.WarnContext(ctx, "serving cached recipes", "action", action, "count", len(cached))
	return cached, nil
}

// UpdateRecipe applies patch to a recipe owned by user.
func (s *RecipeService) UpdateRecipe(ctx context.Context, user *models.User, id string, patch models.RecipePatch) (*models.Recipe, error) {
	if err := s.checkOwner(ctx, user, id, "update_recipe"); err != nil {
		return nil, err
	}

	updated, err := s.store.UpdateRecipe(ctx, id, patch, s.now().UTC())
	if err != nil {
		return nil, s.lookupError(ctx, id, "update_recipe", err)
	}
	slog.InfoContext(ctx, "recipe updated", "user_id", user.UID, "recipe_id", id)
	return updated, nil
}

// DeleteRecipe removes a recipe owned by user together with its bookmarks.
func (s *RecipeService) DeleteRecipe(ctx context.Context, user *models.User, id string) error {
	if err := s.checkOwner(ctx, user, id, "delete_recipe"); err != nil {
		return err
	}

	if err := s.store.DeleteRecipe(ctx, id); err != nil {
		return s.lookupError(ctx, id, "delete_recipe", err)
	}
	slog.InfoContext(ctx, "recipe deleted", "user_id", user.UID, "recipe_id", id)
	return nil
}

func (s *RecipeService) checkOwner(ctx context.Context, user *models.User, id, action string) error {
	if user == nil {
		return newError(ErrAuthentication, msgSignIn, nil)
	}
	r, err := s.store.GetRecipe(ctx, id)
	if err != nil {
		return s.lookupError(ctx, id, action, err)
	}
	if r.AuthorID != user.UID {
		slog.WarnContext(ctx, "recipe ownership check failed", "user_id", user.UID, "recipe_id", id, "action", action)
		return newError(ErrAuthorization, msgNotOwner, nil)
	}
	return nil
}

// SetBookmark adds or removes user's bookmark on a recipe. Both directions
// are idempotent.
func (s *RecipeService) SetBookmark(ctx context.Context, user *models.User, recipeID string, bookmarked bool) error {
	if user == nil {
		return newError(ErrAuthentication, "Please sign in to bookmark recipes.", nil)
	}

	var err error
	if bookmarked {
		err = s.store.PutBookmark(ctx, models.NewBookmark(user.UID, recipeID, s.now().UTC()))
	} else {
		err = s.store.DeleteBookmark(ctx, models.BookmarkID(user.UID, recipeID))
	}
	if err != nil {
		slog.ErrorContext(ctx, "bookmark update failed", "user_id", user.UID, "recipe_id", recipeID, "action", "set_bookmark", "error", err)
		return newError(ErrBackendUnavailable, "Failed to update bookmark. Please try again.", err)
	}
	return nil
}

// IsBookmarked reports whether user bookmarked the recipe. Anonymous callers
// get false.
func (s *RecipeService) IsBookmarked(ctx context.Context, user *models.User, recipeID string) (bool, error) {
	if user == nil {
		return false, nil
	}
	ok, err := s.store.HasBookmark(ctx, models.BookmarkID(user.UID, recipeID))
	if err != nil {
		slog.ErrorContext(ctx, "bookmark lookup failed", "user_id", user.UID, "recipe_id", recipeID, "error", err)
		return false, newError(ErrBackendUnavailable, msgTryAgain, err)
	}
	return ok, nil
}

// ListBookmarkedRecipes returns the recipes user bookmarked. Bookmarks whose
// recipe no longer exists are skipped.
func (s *RecipeService) ListBookmarkedRecipes(ctx context.Context, user *models.User) ([]models.Recipe, error) {
	if user == nil {
		return nil, newError(ErrAuthentication, "Please sign in to view bookmarks.", nil)
	}

	bookmarks, err := s.store.ListBookmarks(ctx, user.UID)
	if err != nil {
		slog.ErrorContext(ctx, "bookmark listing failed", "user_id", user.UID, "error", err)
		return nil, newError(ErrBackendUnavailable, "Unable to load bookmarked recipes.", err)
	}
	if len(bookmarks) == 0 {
		return []models.Recipe{}, nil
	}

	ids := make([]string, len(bookmarks))
	for i, b := range bookmarks {
		ids[i] = b.RecipeID
	}
	recipes, err := s.store.GetRecipes(ctx, ids)
	if errors.Is(err, store.ErrNoData) {
		return []models.Recipe{}, nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "bookmarked recipes lookup failed", "user_id", user.UID, "error", err)
		return nil, newError(ErrBackendUnavailable, "Unable to load bookmarked recipes.", err)
	}
	return recipes, nil
}

func (s *RecipeService) lookupError(ctx context.Context, id, action string, err error) error {
	if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrNoData) {
		slog.WarnContext(ctx, "recipe not found", "recipe_id", id, "action", action)
		return newError(ErrNotFound, msgNotFound, err)
	}
	slog.ErrorContext(ctx, "recipe store call failed", "recipe_id", id, "action", action, "error", err)
	return newError(ErrBackendUnavailable, msgTryAgain, err)
}
