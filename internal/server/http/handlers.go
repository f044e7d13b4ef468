package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/UdayKhare09/Elrond/internal/common"
	"github.com/UdayKhare09/Elrond/internal/server/services"
)

type registerRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type resendRequest struct {
	Email string `json:"email"`
}

type loginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail"`
	Password        string `json:"password"`
	// TotpCode lets a client finish an MFA login in one round trip.
	TotpCode string `json:"totpCode,omitempty"`
}

type mfaVerifyRequest struct {
	MfaToken string `json:"mfaToken"`
	TotpCode string `json:"totpCode"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type loginResponse struct {
	Token       string `json:"token"`
	MfaRequired bool   `json:"mfaRequired"`
}

type mfaSetupResponse struct {
	Secret     string `json:"secret"`
	QRCodeURL  string `json:"qrCodeUrl"`
	OtpauthURL string `json:"otpauthUrl"`
}

type profileResponse struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName,omitempty"`
	MfaEnabled bool   `json:"mfaEnabled"`
}

const (
	msgRegistered         = "Registration successful. Please check your email to verify your account."
	msgRegisteredNoMail   = "Registration successful, but the verification email could not be sent. Please request a new verification link."
	msgVerified           = "Email verified successfully. You can now login."
	msgVerificationResent = "A new verification link has been sent unless the email is already verified."
	msgMfaEnabled         = "MFA enabled successfully"
	msgMfaDisabled        = "MFA disabled successfully"
)

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed request body", common.ErrorValidation)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	_, err := s.auth.Register(r.Context(), services.RegisterRequest{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, messageResponse{Message: msgRegistered})
	case errors.Is(err, common.ErrNotificationFailed):
		writeJSON(w, http.StatusCreated, messageResponse{Message: msgRegisteredNoMail})
	default:
		s.writeError(w, r, err)
	}
}

func (s *Server) handleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	if err := s.auth.VerifyEmail(r.Context(), r.URL.Query().Get("token")); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: msgVerified})
}

func (s *Server) handleResendVerification(w http.ResponseWriter, r *http.Request) {
	var req resendRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.auth.ResendVerification(r.Context(), req.Email); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: msgVerificationResent})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.auth.Login(r.Context(), req.UsernameOrEmail, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if res.MfaRequired && req.TotpCode != "" {
		token, err := s.auth.VerifyMfa(r.Context(), req.TotpCode, res.Token)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, loginResponse{Token: token})
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: res.Token, MfaRequired: res.MfaRequired})
}

func (s *Server) handleVerifyMfa(w http.ResponseWriter, r *http.Request) {
	var req mfaVerifyRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	token, err := s.auth.VerifyMfa(r.Context(), req.TotpCode, req.MfaToken)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: token})
}

func (s *Server) handleSetupMfa(w http.ResponseWriter, r *http.Request) {
	setup, err := s.auth.SetupMfa(r.Context(), usernameFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mfaSetupResponse{
		Secret:     setup.Secret,
		QRCodeURL:  setup.QRCode,
		OtpauthURL: setup.URL,
	})
}

func (s *Server) handleEnableMfa(w http.ResponseWriter, r *http.Request) {
	err := s.auth.EnableMfa(r.Context(), usernameFrom(r.Context()), r.URL.Query().Get("totpCode"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: msgMfaEnabled})
}

func (s *Server) handleDisableMfa(w http.ResponseWriter, r *http.Request) {
	err := s.auth.DisableMfa(r.Context(), usernameFrom(r.Context()), r.URL.Query().Get("totpCode"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: msgMfaDisabled})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	u, err := s.auth.Profile(r.Context(), usernameFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{
		Username:   u.Username,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		MfaEnabled: u.MfaEnabled,
	})
}
