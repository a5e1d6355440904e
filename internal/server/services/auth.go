// Package services holds the server side of the Chaum-Pedersen protocol:
// registration, challenge issue and answer verification, plus the session
// lookup behind Whoami.
package services

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/dmitrijs2005/zkpauth/internal/common"
	"github.com/dmitrijs2005/zkpauth/internal/logging"
	"github.com/dmitrijs2005/zkpauth/internal/server/auth"
	"github.com/dmitrijs2005/zkpauth/internal/server/challenges"
	"github.com/dmitrijs2005/zkpauth/internal/server/users"
	"github.com/dmitrijs2005/zkpauth/internal/zkp"
)

// Challenge is what the server hands back for a commitment.
type Challenge struct {
	AuthID string
	C      *big.Int
}

// Session is the outcome of an accepted proof.
type Session struct {
	Username    string
	SessionID   string
	AccessToken string
}

type Identity struct {
	Username  string
	SessionID string
}

type TokenIssuer interface {
	Issue(username, sessionID string) (string, error)
	Parse(token string) (*auth.Claims, error)
}

// AuthService carries every piece of server state the protocol needs; there
// are no package-level globals.
type AuthService struct {
	users      users.Repository
	challenges *challenges.Registry
	engine     *zkp.Engine
	tokens     TokenIssuer
	logger     logging.Logger
}

func NewAuthService(repo users.Repository, reg *challenges.Registry, engine *zkp.Engine, tokens TokenIssuer, logger logging.Logger) *AuthService {
	return &AuthService{
		users:      repo,
		challenges: reg,
		engine:     engine,
		tokens:     tokens,
		logger:     logger.With("module", "auth"),
	}
}

func internalError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", common.ErrorInternal, op, err)
}

// Register stores (y1, y2) for username, replacing any earlier registration
// and whatever attempt state it had.
func (s *AuthService) Register(ctx context.Context, username string, y1, y2 []byte) error {
	if username == "" {
		return fmt.Errorf("%w: empty username", common.ErrorInvalidArgument)
	}

	params := s.engine.Params()
	Y1, err := params.DecodeElement(y1)
	if err != nil {
		return fmt.Errorf("y1: %w", err)
	}
	Y2, err := params.DecodeElement(y2)
	if err != nil {
		return fmt.Errorf("y2: %w", err)
	}

	rec, err := s.users.GetByUsername(ctx, username)
	switch {
	case errors.Is(err, common.ErrorNotFound):
		rec = &users.UserRecord{Username: username}
	case err != nil:
		return internalError("load user", err)
	default:
		rec.ResetAttempt()
	}
	rec.Y1, rec.Y2 = Y1, Y2

	if err := s.users.Save(ctx, rec); err != nil {
		return internalError("save user", err)
	}

	s.logger.Info(ctx, "user registered", "user", username)
	return nil
}

// CreateChallenge records the commitment (r1, r2) for username and returns a
// fresh challenge. The auth_id becomes answerable only after the record
// holding r1, r2 and c has been saved.
func (s *AuthService) CreateChallenge(ctx context.Context, username string, r1, r2 []byte) (*Challenge, error) {
	if username == "" {
		return nil, fmt.Errorf("%w: empty username", common.ErrorInvalidArgument)
	}

	params := s.engine.Params()
	R1, err := params.DecodeElement(r1)
	if err != nil {
		return nil, fmt.Errorf("r1: %w", err)
	}
	R2, err := params.DecodeElement(r2)
	if err != nil {
		return nil, fmt.Errorf("r2: %w", err)
	}

	rec, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("user %q: %w", username, common.ErrorNotFound)
		}
		return nil, internalError("load user", err)
	}

	c, err := s.engine.RandomExponent()
	if err != nil {
		return nil, internalError("draw challenge", err)
	}
	authID, err := s.engine.RandomIdentifier(common.IdentifierLength)
	if err != nil {
		return nil, internalError("draw auth_id", err)
	}

	rec.R1, rec.R2, rec.C = R1, R2, c
	rec.AuthID = authID
	if err := s.users.Save(ctx, rec); err != nil {
		return nil, internalError("save user", err)
	}

	s.challenges.Issue(authID, username)

	s.logger.Debug(ctx, "challenge issued", "user", username)
	return &Challenge{AuthID: authID, C: c}, nil
}

// VerifyAuthentication checks the answer s to the challenge named by authID.
// The auth_id is consumed before anything else, so every answer (accepted,
// rejected or malformed) uses it up.
func (s *AuthService) VerifyAuthentication(ctx context.Context, authID string, answer []byte) (*Session, error) {
	username, err := s.challenges.Consume(authID)
	if err != nil {
		return nil, err
	}

	S, err := s.engine.Params().DecodeExponent(answer)
	if err != nil {
		return nil, fmt.Errorf("s: %w", err)
	}

	rec, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("user %q: %w", username, common.ErrorNotFound)
		}
		return nil, internalError("load user", err)
	}

	// A later challenge for the same user overwrote r1, r2 and c.
	if rec.AuthID != authID || rec.R1 == nil || rec.R2 == nil || rec.C == nil {
		s.logger.Warn(ctx, "answer to superseded challenge", "user", username)
		return nil, fmt.Errorf("%w: challenge superseded", common.ErrorPermissionDenied)
	}

	if !s.engine.Verify(rec.R1, rec.R2, rec.Y1, rec.Y2, rec.C, S) {
		s.logger.Warn(ctx, "proof rejected", "user", username)
		return nil, fmt.Errorf("%w: proof rejected", common.ErrorPermissionDenied)
	}

	sessionID, err := s.engine.RandomIdentifier(common.IdentifierLength)
	if err != nil {
		return nil, internalError("draw session_id", err)
	}

	// Register or CreateChallenge may have replaced the record since it was
	// loaded above.
	latest, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("user %q: %w", username, common.ErrorNotFound)
		}
		return nil, internalError("load user", err)
	}
	if latest.AuthID != authID {
		s.logger.Warn(ctx, "challenge superseded during verification", "user", username)
		return nil, fmt.Errorf("%w: challenge superseded", common.ErrorPermissionDenied)
	}

	latest.S = S
	latest.SessionID = sessionID
	if err := s.users.Save(ctx, latest); err != nil {
		return nil, internalError("save user", err)
	}

	token, err := s.tokens.Issue(username, sessionID)
	if err != nil {
		return nil, internalError("issue token", err)
	}

	s.logger.Info(ctx, "user authenticated", "user", username)
	return &Session{Username: username, SessionID: sessionID, AccessToken: token}, nil
}

// Whoami resolves an access token to its user. Only the most recent session
// of a user is live; tokens of earlier sessions are rejected.
func (s *AuthService) Whoami(ctx context.Context, accessToken string) (*Identity, error) {
	claims, err := s.tokens.Parse(accessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorUnauthorized, err)
	}

	rec, err := s.users.GetByUsername(ctx, claims.Username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: unknown user", common.ErrorUnauthorized)
		}
		return nil, internalError("load user", err)
	}

	if rec.SessionID == "" || rec.SessionID != claims.SessionID {
		return nil, fmt.Errorf("%w: session is no longer active", common.ErrorUnauthorized)
	}

	return &Identity{Username: rec.Username, SessionID: rec.SessionID}, nil
}
