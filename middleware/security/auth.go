package security

import (
	"net/http"
	"strings"

	usermodel "AstralLink/module/user/model"
	usersvc "AstralLink/module/user/service"
	"AstralLink/tools/errs"

	"github.com/gin-gonic/gin"
)

// context keys; downstream handlers read the resolved identity from these.
const (
	CtxUserKey  = "currentUser"  // *usermodel.User
	CtxTokenKey = "sessionToken" // string
)

// CookieName is the session cookie set on login and cleared on logout.
const CookieName = "session_token"

// ExtractToken picks the credential: the session cookie wins, otherwise the
// Authorization header with its Bearer prefix stripped. Empty means
// unauthenticated.
func ExtractToken(r *http.Request) string {
	if ck, err := r.Cookie(CookieName); err == nil && ck.Value != "" {
		return ck.Value
	}
	authz := strings.TrimSpace(r.Header.Get("Authorization"))
	if authz == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
		return strings.TrimSpace(authz[len("bearer "):])
	}
	return ""
}

// Middleware gates a route on a resolvable session token. The request is
// rejected before any handler logic runs; there is no anonymous mode.
func Middleware(gate *usersvc.AuthGate) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ExtractToken(c.Request)
		u, err := gate.Resolve(c.Request.Context(), token)
		if err != nil {
			ce := errs.AsCodeError(err)
			c.AbortWithStatusJSON(errs.HTTPStatus(ce.Code), ce)
			return
		}
		c.Set(CtxUserKey, u)
		c.Set(CtxTokenKey, token)
		c.Next()
	}
}

// CurrentUser reads the identity the middleware stored; nil when the route
// was registered without auth.
func CurrentUser(c *gin.Context) *usermodel.User {
	v, ok := c.Get(CtxUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*usermodel.User)
	return u
}
