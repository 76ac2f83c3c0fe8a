package models

// User is the signed-in identity. Recipes and bookmarks reference it by UID only.
type User struct {
	UID         string `json:"uid" firestore:"uid"`
	DisplayName string `json:"displayName" firestore:"displayName"`
	Email       string `json:"email" firestore:"email"`
	PhotoURL    string `json:"photoURL" firestore:"photoURL"`
}

// Placeholder author stamped on generated recipes saved without a signed-in user.
const (
	AnonymousAuthorID    = "anonymous"
	AnonymousAuthorName  = "AI Chef"
	AnonymousAuthorPhoto = "https://images.unsplash.com/photo-1511367461989-f85a21fda167?w=150&h=150&fit=crop&crop=face"
)
