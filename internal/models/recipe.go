package models

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// DefaultCookTime is used when a recipe is shared without a cook time.
const DefaultCookTime = "Not specified"

var (
	ErrTitleRequired        = errors.New("recipe title is required")
	ErrIngredientsRequired  = errors.New("at least one ingredient is required")
	ErrInstructionsRequired = errors.New("at least one instruction is required")
)

// Recipe is the entity shared by both storage backends.
//
// Extra holds fields found on a stored record that this version does not
// know about; they survive a read-modify-write cycle of the local store.
type Recipe struct {
	ID           string     `json:"id" firestore:"-"`
	Title        string     `json:"title" firestore:"title"`
	Ingredients  []string   `json:"ingredients" firestore:"ingredients"`
	Instructions []string   `json:"instructions" firestore:"instructions"`
	CookTime     string     `json:"cookTime" firestore:"cookTime"`
	Tags         []string   `json:"tags" firestore:"tags"`
	AuthorID     string     `json:"authorId" firestore:"authorId"`
	AuthorName   string     `json:"authorName" firestore:"authorName"`
	AuthorPhoto  string     `json:"authorPhoto" firestore:"authorPhoto"`
	CreatedAt    time.Time  `json:"createdAt" firestore:"createdAt"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty" firestore:"updatedAt,omitempty"`
	IsPublic     bool       `json:"isPublic" firestore:"isPublic"`

	Extra map[string]json.RawMessage `json:"-" firestore:"-"`
}

var recipeFields = jsonFieldNames(Recipe{})

func (r *Recipe) UnmarshalJSON(data []byte) error {
	type plain Recipe
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	extra, err := unknownFields(data, recipeFields)
	if err != nil {
		return err
	}
	*r = Recipe(p)
	r.Extra = extra
	return nil
}

func (r Recipe) MarshalJSON() ([]byte, error) {
	type plain Recipe
	return withExtraFields(plain(r), r.Extra)
}

// Clone returns a deep copy so callers can mutate results freely.
func (r Recipe) Clone() Recipe {
	c := r
	c.Ingredients = append([]string(nil), r.Ingredients...)
	c.Instructions = append([]string(nil), r.Instructions...)
	c.Tags = append([]string(nil), r.Tags...)
	if r.UpdatedAt != nil {
		t := *r.UpdatedAt
		c.UpdatedAt = &t
	}
	if r.Extra != nil {
		c.Extra = make(map[string]json.RawMessage, len(r.Extra))
		for k, v := range r.Extra {
			c.Extra[k] = v
		}
	}
	return c
}

// Matches reports whether the recipe title, a tag or an ingredient contains q.
func (r *Recipe) Matches(q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(r.Title), q) {
		return true
	}
	for _, tag := range r.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	for _, ing := range r.Ingredients {
		if strings.Contains(strings.ToLower(ing), q) {
			return true
		}
	}
	return false
}

// RecipeInput is the user-supplied part of a new recipe.
type RecipeInput struct {
	Title        string   `json:"title"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	CookTime     string   `json:"cookTime"`
	Tags         []string `json:"tags"`
}

// Normalize trims every field and drops blank list entries.
func (in RecipeInput) Normalize() RecipeInput {
	out := RecipeInput{
		Title:        strings.TrimSpace(in.Title),
		Ingredients:  compact(in.Ingredients),
		Instructions: compact(in.Instructions),
		CookTime:     strings.TrimSpace(in.CookTime),
		Tags:         compact(in.Tags),
	}
	if out.CookTime == "" {
		out.CookTime = DefaultCookTime
	}
	return out
}

// Validate checks the required fields. Callers validate before reaching the
// recipe service, which trusts its input.
func (in RecipeInput) Validate() error {
	switch {
	case strings.TrimSpace(in.Title) == "":
		return ErrTitleRequired
	case len(compact(in.Ingredients)) == 0:
		return ErrIngredientsRequired
	case len(compact(in.Instructions)) == 0:
		return ErrInstructionsRequired
	}
	return nil
}

// RecipePatch lists the fields an owner may change. Nil fields are left alone.
// The author fields are deliberately absent.
type RecipePatch struct {
	Title        *string   `json:"title"`
	Ingredients  *[]string `json:"ingredients"`
	Instructions *[]string `json:"instructions"`
	CookTime     *string   `json:"cookTime"`
	Tags         *[]string `json:"tags"`
}

// Empty reports whether the patch changes nothing.
func (p RecipePatch) Empty() bool {
	return p.Title == nil && p.Ingredients == nil && p.Instructions == nil && p.CookTime == nil && p.Tags == nil
}

// Validate rejects patches that would blank a required field.
func (p RecipePatch) Validate() error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return ErrTitleRequired
	}
	if p.Ingredients != nil && len(compact(*p.Ingredients)) == 0 {
		return ErrIngredientsRequired
	}
	if p.Instructions != nil && len(compact(*p.Instructions)) == 0 {
		return ErrInstructionsRequired
	}
	return nil
}

// Apply merges the patch into r and stamps the update time.
func (p RecipePatch) Apply(r *Recipe, at time.Time) {
	if p.Title != nil {
		r.Title = strings.TrimSpace(*p.Title)
	}
	if p.Ingredients != nil {
		r.Ingredients = compact(*p.Ingredients)
	}
	if p.Instructions != nil {
		r.Instructions = compact(*p.Instructions)
	}
	if p.CookTime != nil {
		r.CookTime = strings.TrimSpace(*p.CookTime)
		if r.CookTime == "" {
			r.CookTime = DefaultCookTime
		}
	}
	if p.Tags != nil {
		r.Tags = compact(*p.Tags)
	}
	r.UpdatedAt = &at
}

func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
