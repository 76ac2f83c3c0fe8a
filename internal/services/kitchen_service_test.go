package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cookiverse/cookiverse/internal/models"
)

const generatedSoup = `TITLE: Chicken Rice Soup
COOK_TIME: 40 minutes
TAGS: comfort, soup
INGREDIENTS:
- 1 chicken breast
- 1 cup rice
INSTRUCTIONS:
1. Simmer the chicken.
2. Add rice and cook 20 minutes.`

func TestGenerateRecipeSavesAsAIChef(t *testing.T) {
	ctx := context.Background()
	recipes, _ := newTestService(t)
	k := NewKitchenService(&fakeGenerator{name: "fake", answer: generatedSoup}, recipes)

	r, err := k.GenerateRecipe(ctx, nil, []string{"chicken", " rice "})
	require.NoError(t, err)
	assert.Equal(t, "Chicken Rice Soup", r.Title)
	assert.Equal(t, models.AnonymousAuthorID, r.AuthorID)

	feed, err := recipes.ListPublicRecipes(ctx)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, r.ID, feed[0].ID)
}

func TestGenerateRecipeAsUser(t *testing.T) {
	recipes, _ := newTestService(t)
	k := NewKitchenService(&fakeGenerator{name: "fake", answer: generatedSoup}, recipes)

	r, err := k.GenerateRecipe(context.Background(), alice, []string{"chicken"})
	require.NoError(t, err)
	assert.Equal(t, "u1", r.AuthorID)
}

func TestGenerateRecipeErrors(t *testing.T) {
	recipes, _ := newTestService(t)
	ctx := context.Background()

	k := NewKitchenService(&fakeGenerator{name: "fake", answer: generatedSoup}, recipes)
	_, err := k.GenerateRecipe(ctx, nil, []string{" "})
	assert.ErrorIs(t, err, ErrValidation)

	k = NewKitchenService(&fakeGenerator{name: "fake", answer: "INGREDIENTS:\n- x\nINSTRUCTIONS:\n1. y"}, recipes)
	_, err = k.GenerateRecipe(ctx, nil, []string{"x"})
	assert.ErrorIs(t, err, ErrBackendUnavailable)

	k = NewKitchenService(&fakeGenerator{name: "fake", answer: "TITLE: Nope"}, recipes)
	_, err = k.GenerateRecipe(ctx, nil, []string{"x"})
	assert.ErrorIs(t, err, ErrBackendUnavailable)

	k = NewKitchenService(&fakeGenerator{name: "fake", err: errors.New("offline")}, recipes)
	_, err = k.GenerateRecipe(ctx, nil, []string{"x"})
	assert.ErrorIs(t, err, ErrBackendUnavailable)
	assert.Equal(t, msgGenerateAgain, Message(err))

	feed, err := recipes.ListPublicRecipes(ctx)
	require.NoError(t, err)
	assert.Empty(t, feed)
}

func TestHealthify(t *testing.T) {
	ctx := context.Background()
	recipes, _ := newTestService(t)
	created, err := recipes.CreateRecipe(ctx, alice, soup)
	require.NoError(t, err)

	k := NewKitchenService(&fakeGenerator{name: "fake", answer: generatedSoup}, recipes)
	in, err := k.Healthify(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Chicken Rice Soup (Healthier Version)", in.Title)

	_, err = k.Healthify(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMealPlan(t *testing.T) {
	answer := "DAY_1:\nBREAKFAST: Eggs - scrambled\nDAY_2:\nLUNCH: Wrap - chicken\nDAY_3:\nDINNER: Pasta"
	recipes, _ := newTestService(t)
	k := NewKitchenService(&fakeGenerator{name: "fake", answer: answer}, recipes)

	plan, err := k.MealPlan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Eggs", plan.Days[0].Breakfast.Title)
	assert.Equal(t, "chicken", plan.Days[1].Lunch.Description)
	assert.Equal(t, "Pasta", plan.Days[2].Dinner.Title)
}
