package handlers

import (
	"encoding/json"
	goerrors "errors"
	"net/http"

	"ai-gateway-api/internal/pkg/errors"
	"ai-gateway-api/internal/services"
)

// AuthHandler handles registration and token issuance
type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// registrationRequest represents the structure of a registration request
type registrationRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registrationResponse struct {
	Msg string `json:"msg"`
}

// tokenResponse represents a successful token grant
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Register creates a new user account.
// POST /register {username,email,password} → 200 {msg} | 400 duplicate
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		respondWithError(w, http.StatusBadRequest, "username, email and password are required")
		return
	}

	if _, err := h.authService.Register(r.Context(), req.Username, req.Email, req.Password); err != nil {
		if goerrors.Is(err, errors.ErrDuplicateIdentity) {
			respondWithError(w, http.StatusBadRequest, "Username or Email already exists")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	respondWithJSON(w, http.StatusOK, registrationResponse{Msg: "User registered successfully"})
}

// Token exchanges form credentials for a bearer token.
// POST /token (form: username, password) → 200 {access_token,token_type} | 400
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid form body")
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	token, err := h.authService.Login(r.Context(), username, password)
	if err != nil {
		if goerrors.Is(err, errors.ErrInvalidCredentials) {
			respondWithError(w, http.StatusBadRequest, "Incorrect username or password")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	respondWithJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}
