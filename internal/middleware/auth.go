package middleware

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// OperatorClaims are the JWT claims carried by back-office tokens. The
// subject identifies the operator performing the request.
type OperatorClaims struct {
	jwt.RegisteredClaims
}

type contextKey string

const operatorKey contextKey = "operator"

// StoreOperator copies the validated token subject into the request context.
// Intended as an echo-jwt success handler.
func StoreOperator(c echo.Context) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return
	}
	claims, ok := token.Claims.(*OperatorClaims)
	if !ok || claims.Subject == "" {
		return
	}
	ctx := context.WithValue(c.Request().Context(), operatorKey, claims.Subject)
	c.SetRequest(c.Request().WithContext(ctx))
}

// OperatorFromContext returns the operator subject stored by StoreOperator.
func OperatorFromContext(ctx context.Context) (string, bool) {
	operator, ok := ctx.Value(operatorKey).(string)
	return operator, ok
}
