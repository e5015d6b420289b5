// Package auth implements signup, signin, token verification, and the
// password reset flow.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"edumeet/internal/domain"
)

type service struct {
	repo   domain.UserRepository
	mailer domain.Mailer

	jwtSecret   []byte
	tokenExpiry time.Duration
	resetExpiry time.Duration
	resetURL    string
}

func NewService(repo domain.UserRepository, mailer domain.Mailer, secret string, tokenExpiry, resetExpiry time.Duration, resetURL string) domain.AuthService {
	return &service{
		repo:   repo,
		mailer: mailer,

		jwtSecret:   []byte(secret),
		tokenExpiry: tokenExpiry,
		resetExpiry: resetExpiry,
		resetURL:    resetURL,
	}
}

func (s *service) Signup(ctx context.Context, req domain.SignupRequest) error {
	_, err := s.repo.GetByEmail(ctx, req.Email)
	if err == nil {
		return domain.ErrEmailTaken
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &domain.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashed),
		Role:     domain.RoleUser,
	}

	return s.repo.Create(ctx, user)
}

func (s *service) Signin(ctx context.Context, req domain.SigninRequest) (*domain.AuthResponse, error) {
	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	tokenString, err := s.signSessionToken(user)
	if err != nil {
		return nil, err
	}

	return &domain.AuthResponse{
		User:        user,
		AccessToken: tokenString,
	}, nil
}

// Verify accepts session tokens only. There is no revocation list: a token
// issued before logout stays valid until its natural expiry.
func (s *service) Verify(ctx context.Context, rawToken string) (*domain.Claims, error) {
	claims, err := s.parseToken(rawToken)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != "" {
		return nil, domain.ErrInvalidToken
	}

	userID, err := claims.subjectID()
	if err != nil {
		return nil, err
	}

	return &domain.Claims{
		UserID:   userID,
		Username: claims.Username,
		Role:     domain.Role(claims.Role),
	}, nil
}

// RequestPasswordReset reports success for unknown addresses so the endpoint
// cannot be used to enumerate accounts. Delivery failure is surfaced as a
// distinct status; the issued token itself is not rolled back.
func (s *service) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil
		}
		return err
	}

	tokenString, err := s.signResetToken(user)
	if err != nil {
		return err
	}

	body := fmt.Sprintf("%s/%s", s.resetURL, tokenString)
	if err := s.mailer.Send(ctx, user.Email, "Reset Password", body); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrMailDelivery, err)
	}

	return nil
}

func (s *service) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	claims, err := s.parseToken(resetToken)
	if err != nil {
		return err
	}
	if claims.Purpose != purposeReset {
		return domain.ErrInvalidToken
	}

	userID, err := claims.subjectID()
	if err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.repo.UpdatePassword(ctx, userID, string(hashed))
}
