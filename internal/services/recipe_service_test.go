package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cookiverse/cookiverse/internal/models"
	"github.com/cookiverse/cookiverse/internal/store"
)

var (
	testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	alice   = &models.User{UID: "u1", DisplayName: "Alice", PhotoURL: "https://example.com/a.png"}
	bob     = &models.User{UID: "u2", DisplayName: "Bob"}
)

var soup = models.RecipeInput{
	Title:        "Tomato Soup",
	Ingredients:  []string{"2 tomatoes", "1 onion"},
	Instructions: []string{"Boil", "Blend"},
}

// flakyStore fails listings while down is set.
type flakyStore struct {
	store.Store
	down bool
}

var errOffline = errors.New("rpc error: code = Unavailable desc = connection refused")

func (f *flakyStore) ListRecipes(ctx context.Context, filter store.RecipeFilter) ([]models.Recipe, error) {
	if f.down {
		return nil, errOffline
	}
	return f.Store.ListRecipes(ctx, filter)
}

func newTestService(t *testing.T, opts ...RecipeServiceOption) (*RecipeService, *store.Local) {
	t.Helper()
	local := store.NewLocal(store.NewMemoryArea(), store.WithoutSeed())
	opts = append([]RecipeServiceOption{WithClock(func() time.Time { return testNow })}, opts...)
	return NewRecipeService(local, opts...), local
}

func TestCreateRecipeScenario(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)

	created, err := s.CreateRecipe(ctx, alice, soup)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	recipes, err := s.ListPublicRecipes(ctx)
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "u1", recipes[0].AuthorID)
	assert.Equal(t, "Alice", recipes[0].AuthorName)
	assert.True(t, recipes[0].IsPublic)
	assert.Equal(t, models.DefaultCookTime, recipes[0].CookTime)
	assert.True(t, recipes[0].CreatedAt.Equal(testNow))
}

func TestCreateRecipeListedOnceByAuthor(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)

	_, err := s.CreateRecipe(ctx, bob, soup)
	require.NoError(t, err)
	created, err := s.CreateRecipe(ctx, alice, soup)
	require.NoError(t, err)

	mine, err := s.ListRecipesByAuthor(ctx, "u1")
	require.NoError(t, err)
	count := 0
	for _, r := range mine {
		if r.ID == created.ID {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.Len(t, mine, 1)
}

func TestCreateRecipeRequiresUser(t *testing.T) {
	s, _ := newTestService(t)
	_, err := s.CreateRecipe(context.Background(), nil, soup)
	assert.ErrorIs(t, err, ErrAuthentication)
}

func TestCreateGeneratedRecipeAnonymous(t *testing.T) {
	s, _ := newTestService(t)
	r, err := s.CreateGeneratedRecipe(context.Background(), nil, soup)
	require.NoError(t, err)
	assert.Equal(t, models.AnonymousAuthorID, r.AuthorID)
	assert.Equal(t, models.AnonymousAuthorName, r.AuthorName)
}

func TestListEmptyIsNotAnError(t *testing.T) {
	s, _ := newTestService(t)
	recipes, err := s.ListPublicRecipes(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, recipes)
	assert.Empty(t, recipes)
}

func TestUpdateRecipeOwnership(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)
	created, err := s.CreateRecipe(ctx, alice, soup)
	require.NoError(t, err)

	title := "Stolen Soup"
	_, err = s.UpdateRecipe(ctx, bob, created.ID, models.RecipePatch{Title: &title})
	assert.ErrorIs(t, err, ErrAuthorization)
	assert.Equal(t, msgNotOwner, Message(err))

	stored, err := s.GetRecipe(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tomato Soup", stored.Title)
	assert.Nil(t, stored.UpdatedAt)

	title = "Roasted Tomato Soup"
	updated, err := s.UpdateRecipe(ctx, alice, created.ID, models.RecipePatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Roasted Tomato Soup", updated.Title)
	assert.Equal(t, "u1", updated.AuthorID)
	require.NotNil(t, updated.UpdatedAt)
}

func TestUpdateRecipeErrors(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)
	title := "x"

	_, err := s.UpdateRecipe(ctx, alice, "missing", models.RecipePatch{Title: &title})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.UpdateRecipe(ctx, nil, "missing", models.RecipePatch{Title: &title})
	assert.ErrorIs(t, err, ErrAuthentication)
}

func TestDeleteRecipeCascadesBookmarks(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)
	created, err := s.CreateRecipe(ctx, alice, soup)
	require.NoError(t, err)
	require.NoError(t, s.SetBookmark(ctx, bob, created.ID, true))

	assert.ErrorIs(t, s.DeleteRecipe(ctx, bob, created.ID), ErrAuthorization)
	require.NoError(t, s.DeleteRecipe(ctx, alice, created.ID))

	recipes, err := s.ListPublicRecipes(ctx)
	require.NoError(t, err)
	assert.Empty(t, recipes)

	saved, err := s.ListBookmarkedRecipes(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, saved)

	ok, err := s.IsBookmarked(ctx, bob, created.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSetBookmarkIdempotent(t *testing.T) {
	ctx := context.Background()
	s, local := newTestService(t)
	created, err := s.CreateRecipe(ctx, alice, soup)
	require.NoError(t, err)

	require.NoError(t, s.SetBookmark(ctx, bob, created.ID, true))
	require.NoError(t, s.SetBookmark(ctx, bob, created.ID, true))

	bookmarks, err := local.ListBookmarks(ctx, bob.UID)
	require.NoError(t, err)
	assert.Len(t, bookmarks, 1)

	require.NoError(t, s.SetBookmark(ctx, bob, created.ID, false))
	require.NoError(t, s.SetBookmark(ctx, bob, created.ID, false))
	ok, err := s.IsBookmarked(ctx, bob, created.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBookmarksRequireUser(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)

	assert.ErrorIs(t, s.SetBookmark(ctx, nil, "r1", true), ErrAuthentication)

	ok, err := s.IsBookmarked(ctx, nil, "r1")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.ListBookmarkedRecipes(ctx, nil)
	assert.ErrorIs(t, err, ErrAuthentication)
}

func TestListBookmarkedRecipesSkipsOrphans(t *testing.T) {
	ctx := context.Background()
	s, local := newTestService(t)
	created, err := s.CreateRecipe(ctx, alice, soup)
	require.NoError(t, err)

	require.NoError(t, s.SetBookmark(ctx, bob, created.ID, true))
	require.NoError(t, local.PutBookmark(ctx, models.NewBookmark(bob.UID, "gone", testNow)))

	saved, err := s.ListBookmarkedRecipes(ctx, bob)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, created.ID, saved[0].ID)
}

func TestListFallsBackToCache(t *testing.T) {
	ctx := context.Background()
	primary := &flakyStore{Store: store.NewLocal(store.NewMemoryArea(), store.WithoutSeed())}
	cache := store.NewLocal(store.NewMemoryArea(), store.WithoutSeed())
	s := NewRecipeService(primary, WithCache(cache), WithClock(func() time.Time { return testNow }))

	_, err := s.CreateRecipe(ctx, alice, soup)
	require.NoError(t, err)

	fresh, err := s.ListPublicRecipes(ctx)
	require.NoError(t, err)
	require.Len(t, fresh, 1)

	primary.down = true
	stale, err := s.ListPublicRecipes(ctx)
	require.NoError(t, err)
	assert.Equal(t, fresh[0].ID, stale[0].ID)

	mine, err := s.ListRecipesByAuthor(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestRemoteRunKeepsLocalRecipes(t *testing.T) {
	ctx := context.Background()
	area := store.NewMemoryArea()
	clock := WithClock(func() time.Time { return testNow })

	local := NewRecipeService(store.NewLocal(area, store.WithoutSeed()), clock)
	shared, err := local.CreateRecipe(ctx, alice, soup)
	require.NoError(t, err)
	require.NoError(t, local.SetBookmark(ctx, alice, shared.ID, true))

	// A remote-mode run on the same area, caching a different feed.
	remoteStore := store.NewLocal(store.NewMemoryArea(), store.WithoutSeed())
	cache := store.NewLocal(area, store.WithNamespace(store.CacheNamespace), store.WithoutSeed())
	remote := NewRecipeService(remoteStore, WithCache(cache), clock)
	_, err = remote.CreateRecipe(ctx, bob, models.RecipeInput{
		Title: "Remote", Ingredients: []string{"x"}, Instructions: []string{"y"},
	})
	require.NoError(t, err)
	feed, err := remote.ListPublicRecipes(ctx)
	require.NoError(t, err)
	require.Len(t, feed, 1)

	mine, err := local.ListRecipesByAuthor(ctx, alice.UID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, shared.ID, mine[0].ID)

	all, err := local.ListPublicRecipes(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Tomato Soup", all[0].Title)

	saved, err := local.ListBookmarkedRecipes(ctx, alice)
	require.NoError(t, err)
	require.Len(t, saved, 1)

	cached, err := cache.ListRecipes(ctx, store.RecipeFilter{PublicOnly: true})
	require.NoError(t, err)
	require.Len(t, cached, 1)
	assert.Equal(t, "Remote", cached[0].Title)
}

func TestListWithoutCacheDataIsUnavailable(t *testing.T) {
	primary := &flakyStore{Store: store.NewLocal(store.NewMemoryArea(), store.WithoutSeed()), down: true}
	cache := store.NewLocal(store.NewMemoryArea(), store.WithoutSeed())
	s := NewRecipeService(primary, WithCache(cache))

	_, err := s.ListPublicRecipes(context.Background())
	assert.ErrorIs(t, err, ErrBackendUnavailable)
	assert.Equal(t, msgTryAgain, Message(err))
	assert.NotContains(t, err.Error(), "rpc error")
	assert.ErrorIs(t, err, errOffline)
}

func TestSearchRecipes(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t)
	_, err := s.CreateRecipe(ctx, alice, soup)
	require.NoError(t, err)
	_, err = s.CreateRecipe(ctx, alice, models.RecipeInput{
		Title: "Pancakes", Ingredients: []string{"flour"}, Instructions: []string{"fry"}, Tags: []string{"Breakfast"},
	})
	require.NoError(t, err)

	found, err := s.SearchRecipes(ctx, "breakfast")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Pancakes", found[0].Title)
}

func TestMessageForUnknownError(t *testing.T) {
	assert.Equal(t, msgTryAgain, Message(errors.New("boom")))
}
