package models

import (
	"encoding/json"
	"time"
)

// Bookmark links a user to a recipe. At most one exists per pair.
type Bookmark struct {
	ID        string    `json:"id" firestore:"-"`
	UserID    string    `json:"userId" firestore:"userId"`
	RecipeID  string    `json:"recipeId" firestore:"recipeId"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`

	Extra map[string]json.RawMessage `json:"-" firestore:"-"`
}

// BookmarkID derives the bookmark identifier for a (user, recipe) pair.
func BookmarkID(userID, recipeID string) string {
	return userID + "_" + recipeID
}

// NewBookmark builds a bookmark with its derived identifier.
func NewBookmark(userID, recipeID string, at time.Time) Bookmark {
	return Bookmark{
		ID:        BookmarkID(userID, recipeID),
		UserID:    userID,
		RecipeID:  recipeID,
		CreatedAt: at,
	}
}

var bookmarkFields = jsonFieldNames(Bookmark{})

func (b *Bookmark) UnmarshalJSON(data []byte) error {
	type plain Bookmark
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	extra, err := unknownFields(data, bookmarkFields)
	if err != nil {
		return err
	}
	*b = Bookmark(p)
	b.Extra = extra
	return nil
}

func (b Bookmark) MarshalJSON() ([]byte, error) {
	type plain Bookmark
	return withExtraFields(plain(b), b.Extra)
}
