package user

import (
	"net/http"
	"time"

	"AstralLink/logger"
	mid "AstralLink/middleware"
	midsec "AstralLink/middleware/security"
	usermodel "AstralLink/module/user/model"
	"AstralLink/module/user/service"
	"AstralLink/tools/errs"
	"AstralLink/tools/ids"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Gate         *service.AuthGate
	Users        service.UserStore
	Identity     *service.IdentityClient
	CookieDomain string
}

func NewHandler(gate *service.AuthGate, users service.UserStore, identity *service.IdentityClient, cookieDomain string) *Handler {
	return &Handler{Gate: gate, Users: users, Identity: identity, CookieDomain: cookieDomain}
}

// HandlerSession exchanges the one-shot session_id from the auth provider for
// a local session and sets the session cookie.
func (h *Handler) HandlerSession(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		mid.Fail(c, errs.ErrArgs.WithDetail("session_id is required"))
		return
	}
	ctx := c.Request.Context()

	ident, err := h.Identity.Exchange(ctx, sessionID)
	if err != nil {
		logger.Errorf("[auth] session exchange failed: %v", err)
		mid.Fail(c, err)
		return
	}

	existing, err := h.Users.FindByEmail(ctx, ident.Email)
	if err != nil {
		mid.Fail(c, err)
		return
	}

	var userID string
	if existing == nil {
		userID = ids.UUID()
		u := usermodel.User{
			ID:        userID,
			Email:     ident.Email,
			Name:      ident.Name,
			Picture:   ident.Picture,
			Status:    usermodel.StatusOnline,
			CreatedAt: time.Now().UTC(),
		}
		if err := h.Users.Insert(ctx, u); err != nil {
			mid.Fail(c, err)
			return
		}
	} else {
		userID = existing.ID
	}

	if _, err := h.Gate.CreateSession(ctx, userID, ident.SessionToken); err != nil {
		mid.Fail(c, err)
		return
	}

	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(midsec.CookieName, ident.SessionToken, int(service.SessionTTL/time.Second), "/", h.CookieDomain, true, true)

	c.JSON(http.StatusOK, gin.H{"success": true, "user_id": userID})
}

// HandlerMe answers the identity the auth middleware already resolved.
func (h *Handler) HandlerMe(c *gin.Context) {
	u := midsec.CurrentUser(c)
	if u == nil {
		mid.Fail(c, errs.ErrUnauthenticated)
		return
	}
	c.JSON(http.StatusOK, u)
}

// HandlerLogout destroys the session named by the cookie and clears it.
// Logout is always a success, even for an unknown token.
func (h *Handler) HandlerLogout(c *gin.Context) {
	if token, err := c.Cookie(midsec.CookieName); err == nil && token != "" {
		if err := h.Gate.DestroySession(c.Request.Context(), token); err != nil {
			logger.Warnf("[auth] destroy session err=%v", err)
		}
	}
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(midsec.CookieName, "", -1, "/", h.CookieDomain, true, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
