package auth

import (
	"context"
	"errors"
	"log/slog"

	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/errorutils"

	"github.com/cookiverse/cookiverse/internal/models"
)

// TokenVerifier is the part of the Firebase Auth client the provider uses.
type TokenVerifier interface {
	VerifyIDTokenAndCheckRevoked(ctx context.Context, idToken string) (*auth.Token, error)
	GetUser(ctx context.Context, uid string) (*auth.UserRecord, error)
	RevokeRefreshTokens(ctx context.Context, uid string) error
}

// ProfileWriter records a user's profile after sign-in.
type ProfileWriter interface {
	SaveProfile(ctx context.Context, u *models.User) error
}

// FirebaseProvider signs users in with a Firebase ID token obtained by the
// client from Google sign-in.
type FirebaseProvider struct {
	verifier TokenVerifier
	profiles ProfileWriter
}

func NewFirebaseProvider(verifier TokenVerifier, profiles ProfileWriter) *FirebaseProvider {
	return &FirebaseProvider{verifier: verifier, profiles: profiles}
}

func (p *FirebaseProvider) Name() string { return "firebase" }

func (p *FirebaseProvider) SignIn(ctx context.Context, cred Credential) (*models.User, error) {
	if cred.IDToken == "" {
		return nil, NewSignInError(CodeInvalidCredential, errors.New("missing id token"))
	}

	token, err := p.verifier.VerifyIDTokenAndCheckRevoked(ctx, cred.IDToken)
	if err != nil {
		return nil, NewSignInError(firebaseCode(ctx, err), err)
	}

	user := &models.User{UID: token.UID}
	if record, err := p.verifier.GetUser(ctx, token.UID); err == nil {
		user.DisplayName = record.DisplayName
		user.Email = record.Email
		user.PhotoURL = record.PhotoURL
	} else {
		// The token alone is enough to sign in.
		slog.WarnContext(ctx, "failed to load user record", "user_id", token.UID, "error", err)
		user.Email, _ = token.Claims["email"].(string)
		user.DisplayName, _ = token.Claims["name"].(string)
		user.PhotoURL, _ = token.Claims["picture"].(string)
	}

	if p.profiles != nil {
		if err := p.profiles.SaveProfile(ctx, user); err != nil {
			slog.WarnContext(ctx, "failed to save user profile", "user_id", user.UID, "error", err)
		}
	}
	return user, nil
}

// SignOut revokes the user's refresh tokens so other sessions end too.
func (p *FirebaseProvider) SignOut(ctx context.Context, user *models.User) error {
	return p.verifier.RevokeRefreshTokens(ctx, user.UID)
}

func firebaseCode(ctx context.Context, err error) string {
	switch {
	case ctx.Err() != nil:
		return CodeCancelledPopupRequest
	case auth.IsIDTokenExpired(err):
		return CodeIDTokenExpired
	case auth.IsIDTokenRevoked(err):
		return CodeIDTokenRevoked
	case auth.IsUserDisabled(err):
		return CodeUserDisabled
	case auth.IsUserNotFound(err):
		return CodeUserNotFound
	case auth.IsIDTokenInvalid(err):
		return CodeInvalidCredential
	case errorutils.IsResourceExhausted(err):
		return CodeTooManyRequests
	case errorutils.IsUnavailable(err), errorutils.IsDeadlineExceeded(err):
		return CodeNetworkRequestFailed
	}
	return CodeInternalError
}
