package http

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/role"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const actorKey = "actor"

// ActorClaims is the JWT payload issued by the identity provider: the subject
// is the user id, role names the pipeline role.
type ActorClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// ActorMiddleware verifies the HMAC signed bearer token and stores the caller
// as a role.Actor in the echo context.
func ActorMiddleware(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, err := parseActor(c.Request().Header.Get(echo.HeaderAuthorization), secret)
			if err != nil {
				return writeJSONError(c, http.StatusUnauthorized, err.Error())
			}
			c.Set(actorKey, actor)
			return next(c)
		}
	}
}

func parseActor(header string, secret []byte) (role.Actor, error) {
	tokenString, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || tokenString == "" {
		return role.Actor{}, errors.New("missing bearer token")
	}

	claims := &ActorClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return role.Actor{}, errors.New("invalid or expired token")
	}

	userID, err := kernel.UUIDFromString(claims.Subject)
	if err != nil {
		return role.Actor{}, errors.New("invalid subject")
	}
	r, err := role.Parse(claims.Role)
	if err != nil || r == role.System {
		return role.Actor{}, errors.New("invalid role")
	}
	return role.NewActor(userID, r)
}

func actorFrom(c echo.Context) role.Actor {
	actor, _ := c.Get(actorKey).(role.Actor)
	return actor
}

// GatewayTokenMiddleware guards the payment callback with the shared token
// configured at the gateway.
func GatewayTokenMiddleware(token string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			got := c.Request().Header.Get("X-Gateway-Token")
			if token == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				return writeJSONError(c, http.StatusUnauthorized, "invalid gateway token")
			}
			return next(c)
		}
	}
}
