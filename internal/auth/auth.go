package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/lebadvisor/lebadvisor-api/internal/config"
	"github.com/lebadvisor/lebadvisor-api/internal/models"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"
)

const GoogleUserAPI = "https://www.googleapis.com/oauth2/v2/userinfo"

const TokenDuration = 24 * time.Hour

type AuthHandler struct {
	oauthConfig *oauth2.Config
	db          *gorm.DB
	cfg         *config.Config
}

func NewAuthHandler(cfg *config.Config, db *gorm.DB) *AuthHandler {
	return &AuthHandler{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		db:  db,
		cfg: cfg,
	}
}

// AuthInput is embedded in protected request structs so handlers can read the
// session cookie even when the operation bypasses the chi middleware.
type AuthInput struct {
	Cookie string `header:"Cookie" doc:"Session cookie"`
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	url := h.oauthConfig.AuthCodeURL("state", oauth2.AccessTypeOnline)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

func (h *AuthHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "Code not found", http.StatusBadRequest)
		return
	}

	token, err := h.oauthConfig.Exchange(context.Background(), code)
	if err != nil {
		http.Error(w, "Failed to exchange token", http.StatusInternalServerError)
		return
	}

	client := h.oauthConfig.Client(context.Background(), token)

	resp, err := client.Get(GoogleUserAPI)
	if err != nil {
		http.Error(w, "Failed to get user info", http.StatusInternalServerError)
		return
	}
	defer resp.Body.Close()

	var googleUser struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&googleUser); err != nil {
		http.Error(w, "Failed to decode user info", http.StatusInternalServerError)
		return
	}

	var user models.User
	if err := h.db.FirstOrInit(&user, models.User{GoogleID: googleUser.ID}).Error; err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	if user.Username == "" {
		user.Username = googleUser.Email
	}
	user.Email = googleUser.Email
	user.IsCustomer = true

	if err := h.db.Save(&user).Error; err != nil {
		http.Error(w, "Failed to save user", http.StatusInternalServerError)
		return
	}
	if err := h.db.FirstOrCreate(&models.Customer{}, models.Customer{UserID: user.ID}).Error; err != nil {
		http.Error(w, "Failed to create customer profile", http.StatusInternalServerError)
		return
	}

	jwtToken, err := h.GenerateToken(user.ID)
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    jwtToken,
		Expires:  time.Now().Add(TokenDuration),
		HttpOnly: true,
		Path:     "/",
	})

	w.Write([]byte(fmt.Sprintf("Welcome %s! You are logged in.", user.Username)))
}

type RegisterRequest struct {
	Body struct {
		Username   string `json:"username" required:"true"`
		Email      string `json:"email" required:"true"`
		Password   string `json:"password" required:"true" minLength:"8"`
		Phone      string `json:"phone"`
		IsSupplier bool   `json:"is_supplier" doc:"Register as a supplier instead of a customer"`
	}
}

type SessionResponse struct {
	SetCookie string `header:"Set-Cookie"`
	Body      struct {
		ID       uint   `json:"id"`
		Username string `json:"username"`
	}
}

func (h *AuthHandler) HandleRegister(ctx context.Context, input *RegisterRequest) (*SessionResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Body.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to hash password")
	}

	user := models.User{
		Username:     input.Body.Username,
		Email:        input.Body.Email,
		PasswordHash: string(hash),
		Phone:        input.Body.Phone,
		IsSupplier:   input.Body.IsSupplier,
		IsCustomer:   !input.Body.IsSupplier,
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("username = ?", user.Username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return huma.Error409Conflict("Username already taken")
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		if user.IsSupplier {
			return tx.Create(&models.Supplier{UserID: user.ID}).Error
		}
		return tx.Create(&models.Customer{UserID: user.ID}).Error
	})
	if err != nil {
		if _, ok := err.(huma.StatusError); ok {
			return nil, err
		}
		return nil, huma.Error500InternalServerError("Failed to register: " + err.Error())
	}

	return h.session(user)
}

type LoginRequest struct {
	Body struct {
		Username string `json:"username" required:"true"`
		Password string `json:"password" required:"true"`
	}
}

func (h *AuthHandler) HandleLoginPassword(ctx context.Context, input *LoginRequest) (*SessionResponse, error) {
	var user models.User
	if err := h.db.Where("username = ?", input.Body.Username).First(&user).Error; err != nil {
		return nil, huma.Error401Unauthorized("Invalid credentials")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Body.Password)) != nil {
		return nil, huma.Error401Unauthorized("Invalid credentials")
	}
	return h.session(user)
}

func (h *AuthHandler) session(user models.User) (*SessionResponse, error) {
	token, err := h.GenerateToken(user.ID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to generate token")
	}
	cookie := http.Cookie{
		Name:     "auth_token",
		Value:    token,
		Expires:  time.Now().Add(TokenDuration),
		HttpOnly: true,
		Path:     "/",
	}
	res := &SessionResponse{SetCookie: cookie.String()}
	res.Body.ID = user.ID
	res.Body.Username = user.Username
	return res, nil
}

type MeRequest struct {
	AuthInput
}

type MeResponse struct {
	Body struct {
		ID         uint   `json:"id"`
		Username   string `json:"username"`
		Email      string `json:"email"`
		Phone      string `json:"phone"`
		IsSupplier bool   `json:"is_supplier"`
		IsCustomer bool   `json:"is_customer"`
	}
}

func (h *AuthHandler) HandleMe(ctx context.Context, input *MeRequest) (*MeResponse, error) {
	userID, err := h.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		return nil, huma.Error404NotFound("User not found")
	}

	res := &MeResponse{}
	res.Body.ID = user.ID
	res.Body.Username = user.Username
	res.Body.Email = user.Email
	res.Body.Phone = user.Phone
	res.Body.IsSupplier = user.IsSupplier
	res.Body.IsCustomer = user.IsCustomer
	return res, nil
}

func (h *AuthHandler) GenerateToken(userID uint) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(TokenDuration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.cfg.JWTSecret))
}

// Authorize resolves the acting user from the request context (set by the
// middleware) or, failing that, from the raw Cookie header huma captured.
func (h *AuthHandler) Authorize(ctx context.Context, cookieHeader string) (uint, error) {
	if userID, ok := ctx.Value(UserIDKey).(uint); ok && userID != 0 {
		return userID, nil
	}

	header := http.Header{}
	header.Add("Cookie", cookieHeader)
	req := http.Request{Header: header}
	cookie, err := req.Cookie("auth_token")
	if err != nil {
		return 0, huma.Error401Unauthorized("Unauthorized")
	}

	userID, err := h.parseToken(cookie.Value)
	if err != nil {
		return 0, huma.Error401Unauthorized("Unauthorized: invalid token")
	}
	return userID, nil
}

func (h *AuthHandler) parseToken(tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(h.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, fmt.Errorf("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fmt.Errorf("invalid claims")
	}
	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		return 0, fmt.Errorf("invalid claims")
	}
	return uint(userIDFloat), nil
}

// SupplierFor returns the supplier profile of a user, or a 403 if none exists.
func (h *AuthHandler) SupplierFor(userID uint) (*models.Supplier, error) {
	var supplier models.Supplier
	if err := h.db.Where("user_id = ?", userID).First(&supplier).Error; err != nil {
		return nil, huma.Error403Forbidden("Supplier profile required")
	}
	return &supplier, nil
}

// CustomerFor returns the customer profile of a user, or a 403 if none exists.
func (h *AuthHandler) CustomerFor(userID uint) (*models.Customer, error) {
	var customer models.Customer
	if err := h.db.Where("user_id = ?", userID).First(&customer).Error; err != nil {
		return nil, huma.Error403Forbidden("Customer profile required")
	}
	return &customer, nil
}
