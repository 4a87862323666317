package middleware

import (
	"AstralLink/tools/errs"

	"github.com/gin-gonic/gin"
)

type RouteOpt struct {
	IsAuth bool
}

var authMW gin.HandlerFunc

// Use installs the auth middleware the route wrappers attach for
// RouteOpt{IsAuth: true}. Call once from main before registering routes.
func Use(mw gin.HandlerFunc) {
	authMW = mw
}

func GET(r gin.IRoutes, path string, handler gin.HandlerFunc, opt RouteOpt) {
	if opt.IsAuth {
		r.GET(path, authMW, handler)
	} else {
		r.GET(path, handler)
	}
}

func POST(r gin.IRoutes, path string, handler gin.HandlerFunc, opt RouteOpt) {
	if opt.IsAuth {
		r.POST(path, authMW, handler)
	} else {
		r.POST(path, handler)
	}
}

func PUT(r gin.IRoutes, path string, handler gin.HandlerFunc, opt RouteOpt) {
	if opt.IsAuth {
		r.PUT(path, authMW, handler)
	} else {
		r.PUT(path, handler)
	}
}

func DELETE(r gin.IRoutes, path string, handler gin.HandlerFunc, opt RouteOpt) {
	if opt.IsAuth {
		r.DELETE(path, authMW, handler)
	} else {
		r.DELETE(path, handler)
	}
}

// Fail writes the error envelope with its transport status.
func Fail(c *gin.Context, err error) {
	ce := errs.AsCodeError(err)
	c.JSON(errs.HTTPStatus(ce.Code), ce)
}
