package middleware

import (
	"net/http"

	"finbase/internal/auth"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// Terminal is a fully-formed refusal produced by the auth gate. Handlers
// never see one; the middlewares render it and abort the chain.
type Terminal struct {
	Status  int
	Code    string
	Message string
}

// Gate composes the token verifier and principal resolver into the three
// access policies. RequireAuth and RequireAdmin fail closed; OptionalAuth
// fails open to anonymous.
type Gate struct {
	Verifier auth.TokenVerifier
	Resolver auth.Resolver
}

// Authenticate runs the full verification pipeline for one request and
// returns either a principal or a terminal refusal, never both. The header
// shape is checked before the persisted-user lookup runs.
func (g Gate) Authenticate(c *gin.Context) (auth.Principal, *Terminal) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return auth.Principal{}, &Terminal{
			Status:  http.StatusUnauthorized,
			Code:    "unauthorized",
			Message: "missing credentials",
		}
	}

	tokenString, err := auth.BearerToken(header)
	if err != nil {
		return auth.Principal{}, &Terminal{
			Status:  http.StatusUnauthorized,
			Code:    "unauthorized",
			Message: "invalid credentials",
		}
	}

	claims, err := g.Verifier.Verify(tokenString)
	if err != nil {
		return auth.Principal{}, &Terminal{
			Status:  http.StatusUnauthorized,
			Code:    "unauthorized",
			Message: "invalid credentials",
		}
	}

	principal, err := g.Resolver.Resolve(c.Request.Context(), claims)
	if err != nil {
		// Unknown and inactive users collapse to the same refusal.
		return auth.Principal{}, &Terminal{
			Status:  http.StatusUnauthorized,
			Code:    "unauthorized",
			Message: "invalid credentials",
		}
	}

	return principal, nil
}

// RequireAuth admits only authenticated, active users.
func (g Gate) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, term := g.Authenticate(c)
		if term != nil {
			abort(c, term)
			return
		}
		c.Set(principalKey, principal)
		c.Next()
	}
}

// RequireAdmin admits only authenticated users with the admin role.
func (g Gate) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, term := g.Authenticate(c)
		if term != nil {
			abort(c, term)
			return
		}
		if !principal.IsAdmin() {
			abort(c, &Terminal{
				Status:  http.StatusForbidden,
				Code:    "forbidden",
				Message: "admin role required",
			})
			return
		}
		c.Set(principalKey, principal)
		c.Next()
	}
}

// OptionalAuth resolves a principal when credentials are present and valid,
// and treats every failure as anonymous. It never aborts.
func (g Gate) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if principal, term := g.Authenticate(c); term == nil {
			c.Set(principalKey, principal)
		}
		c.Next()
	}
}

// CurrentPrincipal returns the principal stored by the auth middlewares.
func CurrentPrincipal(c *gin.Context) (auth.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return auth.Principal{}, false
	}
	p, ok := v.(auth.Principal)
	return p, ok
}

func abort(c *gin.Context, term *Terminal) {
	c.AbortWithStatusJSON(term.Status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    term.Code,
			"message": term.Message,
		},
		"request_id": GetRequestID(c),
	})
}
