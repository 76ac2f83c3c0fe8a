package store

import (
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cookiverse/cookiverse/internal/models"
)

//go:embed seed.yaml
var seedFile []byte

type seedRecipe struct {
	ID           string   `yaml:"id"`
	Title        string   `yaml:"title"`
	CookTime     string   `yaml:"cook_time"`
	DaysAgo      int      `yaml:"days_ago"`
	AuthorID     string   `yaml:"author_id"`
	AuthorName   string   `yaml:"author_name"`
	AuthorPhoto  string   `yaml:"author_photo"`
	Tags         []string `yaml:"tags"`
	Ingredients  []string `yaml:"ingredients"`
	Instructions []string `yaml:"instructions"`
}

// SampleRecipes returns the first-run sample recipes dated relative to now.
func SampleRecipes(now time.Time) ([]models.Recipe, error) {
	var seeds []seedRecipe
	if err := yaml.Unmarshal(seedFile, &seeds); err != nil {
		return nil, fmt.Errorf("failed to parse seed recipes: %w", err)
	}

	recipes := make([]models.Recipe, 0, len(seeds))
	for _, s := range seeds {
		recipes = append(recipes, models.Recipe{
			ID:           s.ID,
			Title:        s.Title,
			Ingredients:  s.Ingredients,
			Instructions: s.Instructions,
			CookTime:     s.CookTime,
			Tags:         s.Tags,
			AuthorID:     s.AuthorID,
			AuthorName:   s.AuthorName,
			AuthorPhoto:  s.AuthorPhoto,
			CreatedAt:    now.Add(-time.Duration(s.DaysAgo) * 24 * time.Hour),
			IsPublic:     true,
		})
	}
	return recipes, nil
}
