package auth

// Request and response bodies of the Identity Toolkit REST dialect. The
// development backend in internal/authserver serves the same shapes.

// Endpoint operations, appended to "<endpoint>/v1/accounts:"
const (
	OpSignUp             = "signUp"
	OpSignInWithPassword = "signInWithPassword"
	OpSendOobCode        = "sendOobCode"
	OpUpdate             = "update"
	OpResetPassword      = "resetPassword"
)

// RequestTypePasswordReset is the sendOobCode request type for resets
const RequestTypePasswordReset = "PASSWORD_RESET"

// PasswordRequest is the body of signUp and signInWithPassword
type PasswordRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

// OobCodeRequest is the body of sendOobCode
type OobCodeRequest struct {
	RequestType string `json:"requestType"`
	Email       string `json:"email"`
}

// OobCodeResponse is returned by sendOobCode
type OobCodeResponse struct {
	Email string `json:"email"`
}

// ResetPasswordRequest is the body of resetPassword
type ResetPasswordRequest struct {
	OobCode     string `json:"oobCode"`
	NewPassword string `json:"newPassword"`
}

// ResetPasswordResponse is returned by resetPassword
type ResetPasswordResponse struct {
	Email       string `json:"email"`
	RequestType string `json:"requestType"`
}

// UpdateRequest is the body of update
type UpdateRequest struct {
	IDToken           string `json:"idToken"`
	DisplayName       string `json:"displayName,omitempty"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

// TokenResponse is returned by signUp, signInWithPassword and update
type TokenResponse struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName,omitempty"`
	IDToken      string `json:"idToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
	ExpiresIn    string `json:"expiresIn,omitempty"` // seconds, as a string
	Registered   bool   `json:"registered,omitempty"`
}

// ErrorResponse is the body of every failed call
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody carries the HTTP status and the error code
type ErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
