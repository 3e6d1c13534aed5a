package authserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/studiowebux/authdialog/internal/auth"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"
)

const (
	// ShutdownTimeout bounds graceful shutdown of the HTTP server
	ShutdownTimeout = 5 * time.Second
	// PruneInterval is how often expired tokens and codes are removed
	PruneInterval = 10 * time.Minute
)

// Options configures the development backend
type Options struct {
	APIKey            string        // required as ?key= when set
	MinPasswordLength int           // shorter passwords are WEAK_PASSWORD
	MaxFailedLogins   int           // failures before lockout, 0 disables
	LockoutWindow     time.Duration // sliding window for failures
	TokenTTL          time.Duration // id token lifetime
	ResetCodeTTL      time.Duration // password reset code lifetime
	BcryptCost        int
	Logger            *logrus.Entry
}

// DefaultOptions returns the options used when fields are left zero
func DefaultOptions() Options {
	return Options{
		MinPasswordLength: 6,
		MaxFailedLogins:   5,
		LockoutWindow:     5 * time.Minute,
		TokenTTL:          time.Hour,
		ResetCodeTTL:      time.Hour,
		BcryptCost:        bcrypt.DefaultCost,
	}
}

// Server serves the Identity Toolkit subset used by the dialog
type Server struct {
	store   *Store
	opts    Options
	log     *logrus.Entry
	lockout *lockout
	now     func() time.Time
}

// New creates a server backed by store
func New(store *Store, opts Options) *Server {
	def := DefaultOptions()
	if opts.MinPasswordLength <= 0 {
		opts.MinPasswordLength = def.MinPasswordLength
	}
	if opts.LockoutWindow <= 0 {
		opts.LockoutWindow = def.LockoutWindow
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = def.TokenTTL
	}
	if opts.ResetCodeTTL <= 0 {
		opts.ResetCodeTTL = def.ResetCodeTTL
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = def.BcryptCost
	}
	log := opts.Logger
	if log == nil {
		log = logrus.WithField("component", "authserver")
	}

	return &Server{
		store:   store,
		opts:    opts,
		log:     log,
		lockout: newLockout(opts.MaxFailedLogins, opts.LockoutWindow),
		now:     time.Now,
	}
}

// Handler returns the HTTP handler for all endpoints
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/", s.handleAccounts)
	return mux
}

// ListenAndServe serves on addr until ctx is cancelled. Expired tokens
// are pruned in the background while serving.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.WithField("addr", ln.Addr().String()).Info("auth backend listening")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		ticker := time.NewTicker(PruneInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				n, err := s.store.PruneExpired(ctx, s.now())
				if err != nil {
					s.log.WithError(err).Warn("prune failed")
					continue
				}
				if n > 0 {
					s.log.WithField("rows", n).Debug("pruned expired credentials")
				}
			}
		}
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		s.log.Info("auth backend shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func (s *Server) handleAccounts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED")
		return
	}

	op, ok := strings.CutPrefix(r.URL.Path, "/v1/accounts:")
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND")
		return
	}

	if s.opts.APIKey != "" {
		switch key := r.URL.Query().Get("key"); {
		case key == "":
			writeError(w, http.StatusForbidden, auth.CodeMissingAPIKey)
			return
		case key != s.opts.APIKey:
			writeError(w, http.StatusBadRequest, auth.CodeInvalidAPIKey)
			return
		}
	}

	entry := s.log.WithFields(logrus.Fields{"op": op, "remote": r.RemoteAddr})

	switch op {
	case auth.OpSignUp:
		s.signUp(w, r, entry)
	case auth.OpSignInWithPassword:
		s.signIn(w, r, entry)
	case auth.OpSendOobCode:
		s.sendOobCode(w, r, entry)
	case auth.OpResetPassword:
		s.resetPassword(w, r, entry)
	case auth.OpUpdate:
		s.update(w, r, entry)
	default:
		writeError(w, http.StatusNotFound, "NOT_FOUND")
	}
}

func (s *Server) signUp(w http.ResponseWriter, r *http.Request, log *logrus.Entry) {
	var in auth.PasswordRequest
	if !decode(w, r, &in) {
		return
	}
	email, ok := s.checkEmail(w, in.Email)
	if !ok || !s.checkPassword(w, in.Password) {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.opts.BcryptCost)
	if err != nil {
		log.WithError(err).Error("failed to hash password")
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR")
		return
	}

	acct, err := s.store.CreateUser(r.Context(), email, hash)
	if errors.Is(err, ErrDuplicateEmail) {
		writeError(w, http.StatusBadRequest, auth.CodeEmailExists)
		return
	}
	if err != nil {
		log.WithError(err).Error("failed to create user")
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR")
		return
	}

	log.WithField("user", acct.ID).Info("user registered")
	s.writeToken(w, r, log, acct, in.ReturnSecureToken, false)
}

func (s *Server) signIn(w http.ResponseWriter, r *http.Request, log *logrus.Entry) {
	var in auth.PasswordRequest
	if !decode(w, r, &in) {
		return
	}
	email, ok := s.checkEmail(w, in.Email)
	if !ok {
		return
	}
	if in.Password == "" {
		writeError(w, http.StatusBadRequest, auth.CodeMissingPassword)
		return
	}

	now := s.now()
	if s.lockout.Locked(email, now) {
		log.WithField("email", email).Warn("sign in locked out")
		writeError(w, http.StatusBadRequest,
			auth.CodeTooManyAttempts+" : Access to this account has been temporarily disabled due to many failed login attempts.")
		return
	}

	acct, err := s.store.UserByEmail(r.Context(), email)
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusBadRequest, auth.CodeEmailNotFound)
		return
	}
	if err != nil {
		log.WithError(err).Error("failed to load user")
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR")
		return
	}
	if acct.Disabled {
		writeError(w, http.StatusBadRequest, auth.CodeUserDisabled)
		return
	}

	if err := bcrypt.CompareHashAndPassword(acct.PasswordHash, []byte(in.Password)); err != nil {
		s.lockout.Fail(email, now)
		log.WithField("user", acct.ID).Info("invalid password")
		writeError(w, http.StatusBadRequest, auth.CodeInvalidPassword)
		return
	}

	s.lockout.Reset(email)
	log.WithField("user", acct.ID).Info("user signed in")
	s.writeToken(w, r, log, acct, in.ReturnSecureToken, true)
}

func (s *Server) sendOobCode(w http.ResponseWriter, r *http.Request, log *logrus.Entry) {
	var in auth.OobCodeRequest
	if !decode(w, r, &in) {
		return
	}
	if in.RequestType != auth.RequestTypePasswordReset {
		writeError(w, http.StatusBadRequest, auth.CodeInvalidRequestType)
		return
	}
	email, ok := s.checkEmail(w, in.Email)
	if !ok {
		return
	}

	acct, err := s.store.UserByEmail(r.Context(), email)
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusBadRequest, auth.CodeEmailNotFound)
		return
	}
	if err != nil {
		log.WithError(err).Error("failed to load user")
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR")
		return
	}

	code, err := s.store.CreateOobCode(r.Context(), acct.ID, in.RequestType, s.now(), s.opts.ResetCodeTTL)
	if err != nil {
		log.WithError(err).Error("failed to create reset code")
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR")
		return
	}

	// No mail transport here: the code goes to the log.
	log.WithFields(logrus.Fields{"user": acct.ID, "email": acct.Email, "oobCode": code}).
		Info("password reset code issued")
	writeJSON(w, http.StatusOK, auth.OobCodeResponse{Email: acct.Email})
}

func (s *Server) resetPassword(w http.ResponseWriter, r *http.Request, log *logrus.Entry) {
	var in auth.ResetPasswordRequest
	if !decode(w, r, &in) {
		return
	}
	if !s.checkPassword(w, in.NewPassword) {
		return
	}

	userID, err := s.store.ConsumeOobCode(r.Context(), in.OobCode, auth.RequestTypePasswordReset, s.now())
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusBadRequest, auth.CodeInvalidOobCode)
		return
	}
	if err != nil {
		log.WithError(err).Error("failed to consume reset code")
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), s.opts.BcryptCost)
	if err != nil {
		log.WithError(err).Error("failed to hash password")
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR")
		return
	}
	if err := s.store.SetPasswordHash(r.Context(), userID, hash); err != nil {
		log.WithError(err).Error("failed to store password")
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR")
		return
	}

	acct, err := s.store.UserByID(r.Context(), userID)
	if err != nil {
		log.WithError(err).Error("failed to load user")
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR")
		return
	}
	s.lockout.Reset(acct.Email)

	log.WithField("user", userID).Info("password reset")
	writeJSON(w, http.StatusOK, auth.ResetPasswordResponse{
		Email:       acct.Email,
		RequestType: auth.RequestTypePasswordReset,
	})
}

func (s *Server) update(w http.ResponseWriter, r *http.Request, log *logrus.Entry) {
	var in auth.UpdateRequest
	if !decode(w, r, &in) {
		return
	}

	acct, err := s.store.UserByToken(r.Context(), in.IDToken, s.now())
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusBadRequest, auth.CodeInvalidIDToken)
		return
	}
	if err != nil {
		log.WithError(err).Error("failed to resolve token")
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR")
		return
	}

	if err := s.store.SetDisplayName(r.Context(), acct.ID, in.DisplayName); err != nil {
		log.WithError(err).Error("failed to update user")
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR")
		return
	}
	acct.DisplayName = in.DisplayName

	log.WithField("user", acct.ID).Info("user updated")
	s.writeToken(w, r, log, acct, in.ReturnSecureToken, false)
}

// writeToken replies with the account and, when asked, a fresh id token
func (s *Server) writeToken(w http.ResponseWriter, r *http.Request, log *logrus.Entry, acct Account, issue, registered bool) {
	resp := auth.TokenResponse{
		LocalID:     acct.ID,
		Email:       acct.Email,
		DisplayName: acct.DisplayName,
		Registered:  registered,
	}

	if issue {
		tok, err := s.store.IssueToken(r.Context(), acct.ID, s.now(), s.opts.TokenTTL)
		if err != nil {
			log.WithError(err).Error("failed to issue token")
			writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR")
			return
		}
		resp.IDToken = tok.IDToken
		resp.RefreshToken = tok.RefreshToken
		resp.ExpiresIn = strconv.Itoa(int(s.opts.TokenTTL / time.Second))
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) checkEmail(w http.ResponseWriter, raw string) (string, bool) {
	email := strings.TrimSpace(raw)
	if email == "" {
		writeError(w, http.StatusBadRequest, auth.CodeMissingEmail)
		return "", false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		writeError(w, http.StatusBadRequest, auth.CodeInvalidEmail)
		return "", false
	}
	return email, true
}

func (s *Server) checkPassword(w http.ResponseWriter, password string) bool {
	if password == "" {
		writeError(w, http.StatusBadRequest, auth.CodeMissingPassword)
		return false
	}
	if len(password) < s.opts.MinPasswordLength {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("%s : Password should be at least %d characters",
			auth.CodeWeakPassword, s.opts.MinPasswordLength))
		return false
	}
	return true
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON_PAYLOAD")
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, auth.ErrorResponse{Error: auth.ErrorBody{Code: status, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
