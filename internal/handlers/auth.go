package handlers

import (
	"net/http"

	"taskplanner/internal/auth"
	dom "taskplanner/internal/domain"
	"taskplanner/internal/dto"
	"taskplanner/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles register, login, token refresh and logout.
type AuthHandler struct {
	tokens  *auth.Manager
	refresh auth.RefreshStore
	userSvc *service.UserService
}

// NewAuthHandler returns a new AuthHandler.
func NewAuthHandler(tokens *auth.Manager, refresh auth.RefreshStore, userSvc *service.UserService) *AuthHandler {
	return &AuthHandler{tokens: tokens, refresh: refresh, userSvc: userSvc}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, bindingFieldErrors(err))
		return
	}
	user, err := h.userSvc.Register(c.Request.Context(), service.RegisterInput{
		Username:        req.Username,
		Email:           req.Email,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
	})
	if err != nil {
		if ve := service.AsValidationError(err); ve != nil {
			c.JSON(http.StatusBadRequest, ve.Fields)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}
	c.JSON(http.StatusCreated, userToResponse(user))
}

// Login handles POST /auth/login. On success it returns an access/refresh
// token pair together with the public profile.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, bindingFieldErrors(err))
		return
	}
	user, err := h.userSvc.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if ve := service.AsValidationError(err); ve != nil {
			c.JSON(http.StatusBadRequest, ve.Fields)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	access, refresh, err := h.issuePair(c, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue tokens"})
		return
	}
	c.JSON(http.StatusOK, dto.TokenPairResponse{
		Access:  access,
		Refresh: refresh,
		User:    userToResponse(user),
	})
}

// Refresh handles POST /auth/refresh. Refresh tokens are single use: the
// presented token is revoked and a fresh pair is issued.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, bindingFieldErrors(err))
		return
	}
	claims, err := h.tokens.Parse(req.Refresh, auth.TokenTypeRefresh)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}
	userID, ok, err := h.refresh.UserID(c.Request.Context(), claims.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to verify token"})
		return
	}
	if !ok || userID != claims.UserID {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}
	if err := h.refresh.Revoke(c.Request.Context(), claims.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to rotate token"})
		return
	}
	access, refresh, err := h.issuePair(c, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue tokens"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access": access, "refresh": refresh})
}

// Logout handles POST /auth/logout: best-effort revocation of the presented
// refresh token.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err == nil {
		if claims, err := h.tokens.Parse(req.Refresh, auth.TokenTypeRefresh); err == nil {
			_ = h.refresh.Revoke(c.Request.Context(), claims.ID)
		}
	}
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) issuePair(c *gin.Context, userID int64) (access, refresh string, err error) {
	access, err = h.tokens.NewAccessToken(userID)
	if err != nil {
		return "", "", err
	}
	refresh, jti, err := h.tokens.NewRefreshToken(userID)
	if err != nil {
		return "", "", err
	}
	if err := h.refresh.Save(c.Request.Context(), jti, userID); err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func userToResponse(u dom.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}
