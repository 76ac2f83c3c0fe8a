package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cookiverse/cookiverse/internal/models"
)

// Keys of the two collections inside the storage area.
const (
	RecipesKey   = "cookiverse-recipes"
	BookmarksKey = "cookiverse-bookmarks"
)

// CacheNamespace keys the remote feed cache apart from the durable local
// collections.
const CacheNamespace = "cookiverse-cache"

// Local implements Store over an Area. Every operation decodes the whole
// collection, changes it in memory and writes it back.
//
// Operations of one Local value are serialized. Two processes sharing an
// area still race and the later write wins.
type Local struct {
	area  Area
	seed  bool

	recipesKey   string
	bookmarksKey string

	now   func() time.Time
	newID func() string

	mu sync.Mutex
}

type LocalOption func(*Local)

// WithoutSeed disables the first-run sample recipes. A recipes collection
// that was never written then lists as ErrNoData.
func WithoutSeed() LocalOption {
	return func(l *Local) { l.seed = false }
}

// WithNamespace stores the collections under ns-recipes and ns-bookmarks.
func WithNamespace(ns string) LocalOption {
	return func(l *Local) {
		l.recipesKey = ns + "-recipes"
		l.bookmarksKey = ns + "-bookmarks"
	}
}

// WithClock overrides the time source used for seed dates.
func WithClock(now func() time.Time) LocalOption {
	return func(l *Local) { l.now = now }
}

func NewLocal(area Area, opts ...LocalOption) *Local {
	l := &Local{
		area:         area,
		seed:         true,
		now:          time.Now,
		newID:        newLocalID,
		recipesKey:   RecipesKey,
		bookmarksKey: BookmarksKey,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// newLocalID returns a time-ordered identifier.
func newLocalID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf("local-%d", time.Now().UnixNano())
	}
	return "local-" + id.String()
}

func (l *Local) CreateRecipe(ctx context.Context, r *models.Recipe) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	recipes, _, err := l.loadRecipes(ctx)
	if err != nil {
		return "", err
	}
	if r.ID == "" {
		r.ID = l.newID()
	}
	recipes = slices.Insert(recipes, 0, r.Clone())
	if err := l.save(ctx, map[string]any{l.recipesKey: recipes}); err != nil {
		return "", err
	}
	return r.ID, nil
}

func (l *Local) GetRecipe(ctx context.Context, id string) (*models.Recipe, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	recipes, err := l.readRecipes(ctx)
	if err != nil {
		return nil, err
	}
	i := indexRecipe(recipes, id)
	if i < 0 {
		return nil, ErrNotFound
	}
	r := recipes[i]
	return &r, nil
}

func (l *Local) GetRecipes(ctx context.Context, ids []string) ([]models.Recipe, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	recipes, err := l.readRecipes(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.Recipe, len(recipes))
	for _, r := range recipes {
		byID[r.ID] = r
	}
	out := make([]models.Recipe, 0, len(ids))
	for _, id := range ids {
		if r, ok := byID[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (l *Local) ListRecipes(ctx context.Context, f RecipeFilter) ([]models.Recipe, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	recipes, err := l.readRecipes(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Recipe, 0, len(recipes))
	for i := range recipes {
		if f.match(&recipes[i]) {
			out = append(out, recipes[i])
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (l *Local) UpdateRecipe(ctx context.Context, id string, patch models.RecipePatch, at time.Time) (*models.Recipe, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	recipes, _, err := l.loadRecipes(ctx)
	if err != nil {
		return nil, err
	}
	i := indexRecipe(recipes, id)
	if i < 0 {
		return nil, ErrNotFound
	}
	patch.Apply(&recipes[i], at)
	if err := l.save(ctx, map[string]any{l.recipesKey: recipes}); err != nil {
		return nil, err
	}
	r := recipes[i].Clone()
	return &r, nil
}

// DeleteRecipe writes the filtered recipes and bookmarks collections in a
// single area batch, so either both change or neither does.
func (l *Local) DeleteRecipe(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	recipes, _, err := l.loadRecipes(ctx)
	if err != nil {
		return err
	}
	i := indexRecipe(recipes, id)
	if i < 0 {
		return ErrNotFound
	}
	recipes = slices.Delete(recipes, i, i+1)

	bookmarks, present, err := l.loadBookmarks(ctx)
	if err != nil {
		return err
	}
	kept := slices.DeleteFunc(bookmarks, func(b models.Bookmark) bool { return b.RecipeID == id })

	batch := map[string]any{l.recipesKey: recipes}
	if present {
		batch[l.bookmarksKey] = kept
	}
	return l.save(ctx, batch)
}

func (l *Local) PutBookmark(ctx context.Context, b models.Bookmark) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	bookmarks, _, err := l.loadBookmarks(ctx)
	if err != nil {
		return err
	}
	if slices.ContainsFunc(bookmarks, func(x models.Bookmark) bool { return x.ID == b.ID }) {
		return nil
	}
	bookmarks = append(bookmarks, b)
	return l.save(ctx, map[string]any{l.bookmarksKey: bookmarks})
}

func (l *Local) DeleteBookmark(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	bookmarks, _, err := l.loadBookmarks(ctx)
	if err != nil {
		return err
	}
	n := len(bookmarks)
	bookmarks = slices.DeleteFunc(bookmarks, func(b models.Bookmark) bool { return b.ID == id })
	if len(bookmarks) == n {
		return nil
	}
	return l.save(ctx, map[string]any{l.bookmarksKey: bookmarks})
}

func (l *Local) HasBookmark(ctx context.Context, id string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	bookmarks, _, err := l.loadBookmarks(ctx)
	if err != nil {
		return false, err
	}
	return slices.ContainsFunc(bookmarks, func(b models.Bookmark) bool { return b.ID == id }), nil
}

func (l *Local) ListBookmarks(ctx context.Context, userID string) ([]models.Bookmark, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	bookmarks, _, err := l.loadBookmarks(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Bookmark, 0, len(bookmarks))
	for _, b := range bookmarks {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	slices.SortStableFunc(out, func(a, b models.Bookmark) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

// ReplaceRecipes overwrites the recipes collection. Used to keep a cached
// copy of the remote feed.
func (l *Local) ReplaceRecipes(ctx context.Context, recipes []models.Recipe) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if recipes == nil {
		recipes = []models.Recipe{}
	}
	return l.save(ctx, map[string]any{l.recipesKey: recipes})
}

// readRecipes loads the recipes collection, materializing the sample
// recipes when the key has never been written.
func (l *Local) readRecipes(ctx context.Context) ([]models.Recipe, error) {
	recipes, present, err := l.loadRecipes(ctx)
	if err != nil || present {
		return recipes, err
	}
	if !l.seed {
		return nil, ErrNoData
	}

	samples, err := SampleRecipes(l.now())
	if err != nil {
		return nil, err
	}
	if err := l.save(ctx, map[string]any{l.recipesKey: samples}); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "seeded local recipe collection", "count", len(samples))
	return samples, nil
}

func (l *Local) loadRecipes(ctx context.Context) ([]models.Recipe, bool, error) {
	var recipes []models.Recipe
	present, err := l.load(ctx, l.recipesKey, &recipes)
	if recipes == nil {
		recipes = []models.Recipe{}
	}
	return recipes, present, err
}

func (l *Local) loadBookmarks(ctx context.Context) ([]models.Bookmark, bool, error) {
	var bookmarks []models.Bookmark
	present, err := l.load(ctx, l.bookmarksKey, &bookmarks)
	if bookmarks == nil {
		bookmarks = []models.Bookmark{}
	}
	return bookmarks, present, err
}

func (l *Local) load(ctx context.Context, key string, into any) (bool, error) {
	raw, ok, err := l.area.GetItem(ctx, key)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), into); err != nil {
		return true, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

func (l *Local) save(ctx context.Context, collections map[string]any) error {
	items := make(map[string]string, len(collections))
	for key, v := range collections {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", key, err)
		}
		items[key] = string(data)
	}
	return l.area.SetItems(ctx, items)
}

func indexRecipe(recipes []models.Recipe, id string) int {
	return slices.IndexFunc(recipes, func(r models.Recipe) bool { return r.ID == id })
}

func sortNewestFirst(recipes []models.Recipe) {
	slices.SortStableFunc(recipes, func(a, b models.Recipe) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}
