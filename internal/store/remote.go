package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/cookiverse/cookiverse/internal/models"
)

const (
	recipesCollection   = "recipes"
	bookmarksCollection = "bookmarks"
	usersCollection     = "users"

	// maxTransactionWrites is Firestore's cap on writes in one transaction.
	maxTransactionWrites = 500
)

// Remote implements Store over Firestore.
type Remote struct {
	client   *firestore.Client
	txnLimit int
}

func NewRemote(client *firestore.Client) *Remote {
	return &Remote{client: client, txnLimit: maxTransactionWrites}
}

// Ping issues a minimal read to confirm the database is reachable.
func (s *Remote) Ping(ctx context.Context) error {
	_, err := s.client.Collection(recipesCollection).Limit(1).Documents(ctx).Next()
	if err != nil && !errors.Is(err, iterator.Done) {
		return fmt.Errorf("remote: ping: %w", err)
	}
	return nil
}

// SaveProfile merges the user's profile into users/{uid} and stamps the
// login time on the server.
func (s *Remote) SaveProfile(ctx context.Context, u *models.User) error {
	doc := s.client.Collection(usersCollection).Doc(u.UID)
	_, err := doc.Set(ctx, map[string]any{
		"uid":         u.UID,
		"displayName": u.DisplayName,
		"email":       u.Email,
		"photoURL":    u.PhotoURL,
		"lastLogin":   firestore.ServerTimestamp,
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("remote: saving profile: %w", err)
	}
	return nil
}

func (s *Remote) CreateRecipe(ctx context.Context, r *models.Recipe) (string, error) {
	col := s.client.Collection(recipesCollection)
	doc := col.NewDoc()
	if r.ID != "" {
		doc = col.Doc(r.ID)
	}
	if _, err := doc.Create(ctx, r); err != nil {
		return "", fmt.Errorf("remote: creating recipe: %w", err)
	}
	r.ID = doc.ID
	return doc.ID, nil
}

func (s *Remote) GetRecipe(ctx context.Context, id string) (*models.Recipe, error) {
	snap, err := s.client.Collection(recipesCollection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("remote: getting recipe: %w", err)
	}
	return recipeFromSnapshot(snap)
}

func (s *Remote) GetRecipes(ctx context.Context, ids []string) ([]models.Recipe, error) {
	if len(ids) == 0 {
		return []models.Recipe{}, nil
	}
	col := s.client.Collection(recipesCollection)
	refs := make([]*firestore.DocumentRef, len(ids))
	for i, id := range ids {
		refs[i] = col.Doc(id)
	}
	snaps, err := s.client.GetAll(ctx, refs)
	if err != nil {
		return nil, fmt.Errorf("remote: getting recipes: %w", err)
	}
	out := make([]models.Recipe, 0, len(snaps))
	for _, snap := range snaps {
		if !snap.Exists() {
			continue
		}
		r, err := recipeFromSnapshot(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, nil
}

func (s *Remote) ListRecipes(ctx context.Context, f RecipeFilter) ([]models.Recipe, error) {
	q := s.client.Collection(recipesCollection).Query
	if f.PublicOnly {
		q = q.WhereEntity(firestore.PropertyFilter{Path: "isPublic", Operator: "==", Value: true})
	}
	if f.AuthorID != "" {
		q = q.WhereEntity(firestore.PropertyFilter{Path: "authorId", Operator: "==", Value: f.AuthorID})
	}
	q = q.OrderBy("createdAt", firestore.Desc)

	iter := q.Documents(ctx)
	defer iter.Stop()

	out := []models.Recipe{}
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("remote: listing recipes: %w", err)
		}
		r, err := recipeFromSnapshot(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, nil
}

// UpdateRecipe writes only the patched fields, leaving any other field on
// the document untouched.
func (s *Remote) UpdateRecipe(ctx context.Context, id string, patch models.RecipePatch, at time.Time) (*models.Recipe, error) {
	doc := s.client.Collection(recipesCollection).Doc(id)
	if _, err := doc.Update(ctx, patchUpdates(patch, at)); err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("remote: updating recipe: %w", err)
	}
	return s.GetRecipe(ctx, id)
}

// DeleteRecipe removes the recipe and its bookmarks. Bookmarks are deleted
// in transactions of at most txnLimit writes; the recipe goes in the last
// one, so a failure part way leaves the recipe in place and the delete can
// be retried.
func (s *Remote) DeleteRecipe(ctx context.Context, id string) error {
	recipe := s.client.Collection(recipesCollection).Doc(id)
	bookmarks := s.client.Collection(bookmarksCollection).
		WhereEntity(firestore.PropertyFilter{Path: "recipeId", Operator: "==", Value: id}).
		Limit(s.txnLimit)

	for done := false; !done; {
		err := s.client.RunTransaction(ctx, func(_ context.Context, t *firestore.Transaction) error {
			done = false
			if _, err := t.Get(recipe); err != nil {
				if status.Code(err) == codes.NotFound {
					return ErrNotFound
				}
				return err
			}
			snaps, err := t.Documents(bookmarks).GetAll()
			if err != nil {
				return err
			}
			for _, snap := range snaps {
				if err := t.Delete(snap.Ref); err != nil {
					return err
				}
			}
			if len(snaps) >= s.txnLimit {
				return nil
			}
			done = true
			return t.Delete(recipe)
		})
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("remote: deleting recipe: %w", err)
		}
	}
	return nil
}

func (s *Remote) PutBookmark(ctx context.Context, b models.Bookmark) error {
	_, err := s.client.Collection(bookmarksCollection).Doc(b.ID).Create(ctx, b)
	if status.Code(err) == codes.AlreadyExists {
		return nil
	}
	if err != nil {
		return fmt.Errorf("remote: saving bookmark: %w", err)
	}
	return nil
}

func (s *Remote) DeleteBookmark(ctx context.Context, id string) error {
	if _, err := s.client.Collection(bookmarksCollection).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("remote: deleting bookmark: %w", err)
	}
	return nil
}

func (s *Remote) HasBookmark(ctx context.Context, id string) (bool, error) {
	_, err := s.client.Collection(bookmarksCollection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("remote: getting bookmark: %w", err)
	}
	return true, nil
}

func (s *Remote) ListBookmarks(ctx context.Context, userID string) ([]models.Bookmark, error) {
	iter := s.client.Collection(bookmarksCollection).
		WhereEntity(firestore.PropertyFilter{Path: "userId", Operator: "==", Value: userID}).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	out := []models.Bookmark{}
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("remote: listing bookmarks: %w", err)
		}
		var b models.Bookmark
		if err := snap.DataTo(&b); err != nil {
			return nil, fmt.Errorf("remote: decoding bookmark %s: %w", snap.Ref.ID, err)
		}
		b.ID = snap.Ref.ID
		out = append(out, b)
	}
	return out, nil
}

func recipeFromSnapshot(snap *firestore.DocumentSnapshot) (*models.Recipe, error) {
	var r models.Recipe
	if err := snap.DataTo(&r); err != nil {
		return nil, fmt.Errorf("remote: decoding recipe %s: %w", snap.Ref.ID, err)
	}
	r.ID = snap.Ref.ID
	return &r, nil
}

// patchUpdates converts a patch into field updates, normalized the same way
// RecipePatch.Apply normalizes a local record.
func patchUpdates(p models.RecipePatch, at time.Time) []firestore.Update {
	var r models.Recipe
	p.Apply(&r, at)

	var ups []firestore.Update
	if p.Title != nil {
		ups = append(ups, firestore.Update{Path: "title", Value: r.Title})
	}
	if p.Ingredients != nil {
		ups = append(ups, firestore.Update{Path: "ingredients", Value: r.Ingredients})
	}
	if p.Instructions != nil {
		ups = append(ups, firestore.Update{Path: "instructions", Value: r.Instructions})
	}
	if p.CookTime != nil {
		ups = append(ups, firestore.Update{Path: "cookTime", Value: r.CookTime})
	}
	if p.Tags != nil {
		ups = append(ups, firestore.Update{Path: "tags", Value: r.Tags})
	}
	return append(ups, firestore.Update{Path: "updatedAt", Value: at})
}
