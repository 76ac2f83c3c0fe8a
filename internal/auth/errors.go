package auth

import "errors"

// Sign-in failure codes. The first group comes from interactive provider
// flows; the second from verifying an identity token on the server.
const (
	CodePopupBlocked           = "auth/popup-blocked"
	CodePopupClosedByUser      = "auth/popup-closed-by-user"
	CodeCancelledPopupRequest  = "auth/cancelled-popup-request"
	CodeNetworkRequestFailed   = "auth/network-request-failed"
	CodeTooManyRequests        = "auth/too-many-requests"
	CodeUserDisabled           = "auth/user-disabled"
	CodeAccountExistsWithOther = "auth/account-exists-with-different-credential"
	CodeOperationNotAllowed    = "auth/operation-not-allowed"
	CodeOperationNotSupported  = "auth/operation-not-supported-in-this-environment"
	CodeUnauthorizedDomain     = "auth/unauthorized-domain"
	CodeIDTokenExpired         = "auth/id-token-expired"
	CodeIDTokenRevoked         = "auth/id-token-revoked"
	CodeInvalidCredential      = "auth/invalid-credential"
	CodeUserNotFound           = "auth/user-not-found"
	CodeInternalError          = "auth/internal-error"
)

const defaultSignInMessage = "An error occurred during sign-in. Please try again."

var signInMessages = map[string]string{
	CodePopupBlocked:           "The sign-in popup was blocked by your browser. Please allow popups for this site.",
	CodePopupClosedByUser:      "The sign-in popup was closed before completing the sign-in process.",
	CodeCancelledPopupRequest:  "The sign-in popup was cancelled.",
	CodeNetworkRequestFailed:   "Network error. Please check your internet connection.",
	CodeTooManyRequests:        "Too many sign-in attempts. Please try again later.",
	CodeUserDisabled:           "This account has been disabled.",
	CodeAccountExistsWithOther: "An account already exists with the same email address but different sign-in credentials.",
	CodeOperationNotAllowed:    "Google sign-in is not enabled. Please contact support.",
	CodeOperationNotSupported:  "Google sign-in is not supported in this environment.",
	CodeUnauthorizedDomain:     "This domain is not authorized for Google sign-in.",
	CodeIDTokenExpired:         "Your sign-in has expired. Please sign in again.",
	CodeIDTokenRevoked:         "Your sign-in was revoked. Please sign in again.",
	CodeInvalidCredential:      "The sign-in credential is invalid. Please sign in again.",
	CodeUserNotFound:           "No account was found for this sign-in.",
}

// SignInMessage returns the human-readable text for a failure code.
func SignInMessage(code string) string {
	if msg, ok := signInMessages[code]; ok {
		return msg
	}
	return defaultSignInMessage
}

// SignInError is a failed sign-in. Error returns the human-readable message.
type SignInError struct {
	Code string
	Err  error
}

func NewSignInError(code string, err error) *SignInError {
	return &SignInError{Code: code, Err: err}
}

func (e *SignInError) Error() string {
	return SignInMessage(e.Code)
}

func (e *SignInError) Unwrap() error {
	return e.Err
}

// CodeOf extracts the failure code from err, or CodeInternalError.
func CodeOf(err error) string {
	var e *SignInError
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternalError
}
