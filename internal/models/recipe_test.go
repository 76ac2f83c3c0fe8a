package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecipeKeepsUnknownFields(t *testing.T) {
	raw := `{"id":"r1","title":"Soup","ingredients":["water"],"instructions":["boil"],"cookTime":"5 minutes","tags":[],"authorId":"u1","authorName":"","authorPhoto":"","createdAt":"2024-01-02T03:04:05Z","isPublic":true,"servings":4,"nutrition":{"kcal":120}}`

	var r Recipe
	require.NoError(t, json.Unmarshal([]byte(raw), &r))
	assert.Equal(t, "Soup", r.Title)
	require.Len(t, r.Extra, 2)

	r.Title = "Better Soup"
	out, err := json.Marshal(r)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(out, &m))
	assert.Equal(t, "Better Soup", m["title"])
	assert.Equal(t, float64(4), m["servings"])
	assert.Equal(t, map[string]any{"kcal": float64(120)}, m["nutrition"])
}

func TestKnownFieldsWinOverExtra(t *testing.T) {
	r := Recipe{Title: "Real", Extra: map[string]json.RawMessage{"title": json.RawMessage(`"stale"`)}}
	out, err := json.Marshal(r)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(out, &m))
	assert.Equal(t, "Real", m["title"])
}

func TestBookmarkRoundTripPreservesExtra(t *testing.T) {
	raw := `{"id":"u1_r1","userId":"u1","recipeId":"r1","createdAt":"2024-01-02T03:04:05Z","note":"for sunday"}`
	var b Bookmark
	require.NoError(t, json.Unmarshal([]byte(raw), &b))
	assert.Equal(t, "u1_r1", b.ID)

	out, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"note":"for sunday"`)
}

func TestBookmarkID(t *testing.T) {
	assert.Equal(t, "u1_r1", BookmarkID("u1", "r1"))
	b := NewBookmark("u1", "r1", time.Unix(0, 0))
	assert.Equal(t, BookmarkID("u1", "r1"), b.ID)
}

func TestRecipeInputValidate(t *testing.T) {
	valid := RecipeInput{Title: "Tomato Soup", Ingredients: []string{"2 tomatoes"}, Instructions: []string{"Boil"}}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name string
		in   RecipeInput
		want error
	}{
		{"blank title", RecipeInput{Title: "  ", Ingredients: []string{"a"}, Instructions: []string{"b"}}, ErrTitleRequired},
		{"blank ingredients", RecipeInput{Title: "t", Ingredients: []string{" "}, Instructions: []string{"b"}}, ErrIngredientsRequired},
		{"no instructions", RecipeInput{Title: "t", Ingredients: []string{"a"}}, ErrInstructionsRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.in.Validate(), tt.want)
		})
	}
}

func TestRecipeInputNormalizeDefaultsCookTime(t *testing.T) {
	in := RecipeInput{Title: " Soup ", Ingredients: []string{"a", ""}, Instructions: []string{"b"}}.Normalize()
	assert.Equal(t, "Soup", in.Title)
	assert.Equal(t, []string{"a"}, in.Ingredients)
	assert.Equal(t, DefaultCookTime, in.CookTime)
}

func TestRecipePatchApply(t *testing.T) {
	r := Recipe{Title: "Old", CookTime: "10 minutes", AuthorID: "u1"}
	title := "New"
	tags := []string{"quick", " "}
	at := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	RecipePatch{Title: &title, Tags: &tags}.Apply(&r, at)

	assert.Equal(t, "New", r.Title)
	assert.Equal(t, []string{"quick"}, r.Tags)
	assert.Equal(t, "10 minutes", r.CookTime)
	assert.Equal(t, "u1", r.AuthorID)
	require.NotNil(t, r.UpdatedAt)
	assert.True(t, r.UpdatedAt.Equal(at))
}

func TestRecipeMatches(t *testing.T) {
	r := Recipe{Title: "Thai Basil Chicken", Tags: []string{"Spicy"}, Ingredients: []string{"Jasmine Rice"}}
	assert.True(t, r.Matches("basil"))
	assert.True(t, r.Matches("spicy"))
	assert.True(t, r.Matches("rice"))
	assert.True(t, r.Matches(""))
	assert.False(t, r.Matches("tofu"))
}
