package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"edumeet/internal/config"
	"edumeet/internal/domain"
	"edumeet/internal/transport/rest/middleware"
)

type AuthHandler struct {
	svc domain.AuthService
	cfg *config.Config
}

func NewAuthHandler(svc domain.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		svc: svc,
		cfg: cfg,
	}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req domain.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, &Response{Message: "invalid request body"})
		return
	}

	if errs := ValidateStruct(&req); len(errs) > 0 {
		writeValidationError(w, errs)
		return
	}

	if err := h.svc.Signup(r.Context(), req); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			writeJSON(w, http.StatusBadRequest, &Response{Message: "the email is already registered"})
			return
		}
		if errors.Is(err, domain.ErrUsernameTaken) {
			writeJSON(w, http.StatusBadRequest, &Response{Message: "the username is already taken"})
			return
		}

		writeJSON(w, http.StatusInternalServerError, &Response{Message: "failed to sign up"})
		return
	}

	writeJSON(w, http.StatusCreated, &Response{Message: "user created successfully"})
}

func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req domain.SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, &Response{Message: "invalid request body"})
		return
	}

	if errs := ValidateStruct(&req); len(errs) > 0 {
		writeValidationError(w, errs)
		return
	}

	res, err := h.svc.Signin(r.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			writeJSON(w, http.StatusNotFound, &Response{Message: "user not registered"})
			return
		}
		if errors.Is(err, domain.ErrInvalidCredentials) {
			writeJSON(w, http.StatusUnauthorized, &Response{Message: "invalid password"})
			return
		}

		writeJSON(w, http.StatusInternalServerError, &Response{Message: "failed to sign in"})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    res.AccessToken,
		Path:     "/",
		Expires:  time.Now().Add(h.cfg.JWTExpiry),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, &Response{Message: "login successful", Data: res.User})
}

func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, &Response{Message: "not authenticated"})
		return
	}

	writeJSON(w, http.StatusOK, &Response{Message: "verified", Data: claims})
}

// Logout clears the client cookies only. Issued tokens stay valid until
// expiry; there is no server-side session state to revoke.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})

	http.SetCookie(w, &http.Cookie{
		Name:     "csrf_token",
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: false,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, &Response{Message: "logged out"})
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req domain.ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, &Response{Message: "invalid request body"})
		return
	}

	if errs := ValidateStruct(&req); len(errs) > 0 {
		writeValidationError(w, errs)
		return
	}

	if err := h.svc.RequestPasswordReset(r.Context(), req.Email); err != nil {
		if errors.Is(err, domain.ErrMailDelivery) {
			writeJSON(w, http.StatusBadGateway, &Response{Message: "email failed to send"})
			return
		}

		writeJSON(w, http.StatusInternalServerError, &Response{Message: "failed to request password reset"})
		return
	}

	// Same shape whether or not the address is registered.
	writeJSON(w, http.StatusOK, &Response{Message: "email sent"})
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	token := r.PathValue("token")

	var req domain.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, &Response{Message: "invalid request body"})
		return
	}

	if errs := ValidateStruct(&req); len(errs) > 0 {
		writeValidationError(w, errs)
		return
	}

	if err := h.svc.ResetPassword(r.Context(), token, req.Password); err != nil {
		if errors.Is(err, domain.ErrInvalidToken) {
			writeJSON(w, http.StatusUnauthorized, &Response{Message: "invalid token"})
			return
		}
		if errors.Is(err, domain.ErrUserNotFound) {
			writeJSON(w, http.StatusNotFound, &Response{Message: "user not found"})
			return
		}

		writeJSON(w, http.StatusInternalServerError, &Response{Message: "failed to reset password"})
		return
	}

	writeJSON(w, http.StatusOK, &Response{Message: "password updated"})
}
