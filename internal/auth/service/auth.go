package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/pantrylabs/pantry/internal/auth/domain"
	"github.com/pantrylabs/pantry/internal/auth/store"
	"github.com/pantrylabs/pantry/pkg/cryptox"
	"github.com/pantrylabs/pantry/pkg/httpx"
	"github.com/pantrylabs/pantry/pkg/idx"
	"github.com/pantrylabs/pantry/pkg/jwtx"
	"github.com/pantrylabs/pantry/pkg/slogx"
)

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrMissingCredential  = errors.New("missing_credential")
	ErrInvalidRefresh     = errors.New("invalid_refresh_token")
	ErrExpiredRefresh     = errors.New("expired_refresh_token")
	ErrWrongCategory      = errors.New("wrong_token_category")
	ErrNotRegistered      = errors.New("refresh_token_not_registered")
)

// AuthService issues and rotates the access/refresh token pairs and resolves
// authenticated principals for the middleware.
type AuthService struct {
	Codec      *jwtx.Codec
	Store      store.Store
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Login verifies the username/password pair and, on success, mints a fresh
// token pair and registers the refresh credential.
func (s *AuthService) Login(
	ctx context.Context,
	username, password string,
) (*domain.TokenPair, domain.Principal, error) {
	l := slogx.FromContext(ctx)

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, domain.Principal{}, ErrInvalidCredentials
	}

	u, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Burn comparable time so missing users are not distinguishable
			// from wrong passwords.
			_ = cryptox.VerifyPassword(password, cryptox.DummyHash)
			return nil, domain.Principal{}, ErrInvalidCredentials
		}
		return nil, domain.Principal{}, err
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		l.Info("password verification failed", slog.String("username", username))
		return nil, domain.Principal{}, ErrInvalidCredentials
	}

	pair, err := s.issuePair(ctx, s.Store, u)
	if err != nil {
		return nil, domain.Principal{}, err
	}

	return pair, u, nil
}

// Reissue validates a refresh token and rotates it: the presented credential
// is retired and a brand-new token pair takes its place.
//
// The existence check runs outside the rotation transaction. Two racing
// requests with the same refresh token may therefore both succeed, each
// minting its own pair; the old credential is deleted at most once because
// the delete is idempotent. That window is accepted in exchange for never
// locking the credential row across the JWT verification.
func (s *AuthService) Reissue(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	fp, claims, err := s.checkRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	u, err := s.Store.Users().GetUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidRefresh
		}
		return nil, err
	}

	var pair *domain.TokenPair
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.RefreshCredentials().DeleteRefreshCredentialByHash(ctx, fp); err != nil {
			return err
		}
		p, err := s.issuePair(ctx, tx, u)
		if err != nil {
			return err
		}
		pair = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	return pair, nil
}

// Logout validates a refresh token the same way Reissue does and retires the
// matching credential. A token that is no longer registered, including one
// already retired by a previous logout or reissue, fails with
// ErrNotRegistered rather than being silently accepted.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	fp, _, err := s.checkRefreshToken(ctx, refreshToken)
	if err != nil {
		return err
	}
	return s.Store.RefreshCredentials().DeleteRefreshCredentialByHash(ctx, fp)
}

// checkRefreshToken runs the shared validation for reissue and logout:
// signature, expiry, category, then registration in the store. It returns the
// token's fingerprint so callers do not hash twice.
func (s *AuthService) checkRefreshToken(
	ctx context.Context,
	refreshToken string,
) (string, jwtx.Claims, error) {
	l := slogx.FromContext(ctx)

	if refreshToken == "" {
		return "", jwtx.Claims{}, ErrMissingCredential
	}

	claims, err := s.Codec.Verify(refreshToken)
	if err != nil {
		if errors.Is(err, jwtx.ErrExpired) {
			return "", jwtx.Claims{}, ErrExpiredRefresh
		}
		return "", jwtx.Claims{}, ErrInvalidRefresh
	}
	if !claims.IsRefresh() {
		l.Warn("non-refresh token presented for rotation",
			slog.String("category", claims.Category))
		return "", jwtx.Claims{}, ErrWrongCategory
	}

	fp := cryptox.FingerprintToken(refreshToken)
	exists, err := s.Store.RefreshCredentials().RefreshCredentialExists(ctx, fp)
	if err != nil {
		return "", jwtx.Claims{}, err
	}
	if !exists {
		// Valid signature but unknown to us: either already rotated away or
		// revoked by logout.
		return "", jwtx.Claims{}, ErrNotRegistered
	}

	return fp, claims, nil
}

// LogoutAll retires every refresh credential held by the subject.
func (s *AuthService) LogoutAll(ctx context.Context, subjectID string) error {
	return s.Store.RefreshCredentials().DeleteRefreshCredentialsBySubject(ctx, subjectID)
}

// ResolvePrincipal satisfies httpx.PrincipalResolver: given a verified token
// subject it loads the live user record so role changes and deletions take
// effect on the next request, not the next token.
func (s *AuthService) ResolvePrincipal(ctx context.Context, subject string) (httpx.Identity, error) {
	u, err := s.Store.Users().GetUserByID(ctx, subject)
	if err != nil {
		return httpx.Identity{}, err
	}
	return httpx.Identity{
		Subject:  u.ID,
		Username: u.Username,
		Role:     u.Role,
	}, nil
}

// issuePair mints an access/refresh pair for the user and registers the
// refresh credential's fingerprint in st (which may be a transaction).
func (s *AuthService) issuePair(
	ctx context.Context,
	st store.Store,
	u domain.Principal,
) (*domain.TokenPair, error) {
	now := time.Now()

	accessToken, err := s.Codec.Issue(jwtx.CategoryAccess, u.ID, u.Username, u.Role, s.AccessTTL)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.Codec.Issue(jwtx.CategoryRefresh, u.ID, u.Username, u.Role, s.RefreshTTL)
	if err != nil {
		return nil, err
	}

	cred := domain.RefreshCredential{
		ID:        idx.New().String(),
		SubjectID: u.ID,
		TokenHash: cryptox.FingerprintToken(refreshToken),
		ExpiresAt: now.Add(s.RefreshTTL),
	}
	if err := st.RefreshCredentials().CreateRefreshCredential(ctx, cred); err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    s.AccessTTL,
	}, nil
}
