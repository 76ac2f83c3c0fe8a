package auth

import (
	"context"

	"github.com/cookiverse/cookiverse/internal/models"
)

// DemoUser is the fixed identity handed out when no identity service is
// configured.
var DemoUser = models.User{
	UID:         "demo-user-123",
	DisplayName: "Demo Chef",
	Email:       "demo@cookiverse.com",
	PhotoURL:    "https://images.unsplash.com/photo-1472099645785-5658abf4ff4e?w=150&h=150&fit=crop&crop=face",
}

// DemoProvider signs everyone in as DemoUser. It ignores the credential.
type DemoProvider struct{}

func NewDemoProvider() *DemoProvider {
	return &DemoProvider{}
}

func (p *DemoProvider) Name() string { return "demo" }

func (p *DemoProvider) SignIn(ctx context.Context, _ Credential) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewSignInError(CodeCancelledPopupRequest, err)
	}
	u := DemoUser
	return &u, nil
}

func (p *DemoProvider) SignOut(context.Context, *models.User) error {
	return nil
}
