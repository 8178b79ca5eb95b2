/**
 * @description
 * This file contains custom middleware for the HTTP router. The session auth
 * middleware validates bearer tokens before requests reach the handlers and
 * places the authenticated customer id on the request context.
 *
 * @dependencies
 * - context, net/http, strings: Standard Go libraries.
 * - github.com/golang-jwt/jwt/v5: Token parsing and validation.
 */

package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// customerIDContextKey is a custom type for the context key to avoid collisions.
type customerIDContextKey string

const customerIDKey customerIDContextKey = "customerID"

// SessionAuthMiddleware creates a middleware that validates HS256-signed
// session tokens issued at login.
func SessionAuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Authorization header required", http.StatusUnauthorized)
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				http.Error(w, "Invalid Authorization header format", http.StatusUnauthorized)
				return
			}

			token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				http.Error(w, "Invalid token claims", http.StatusUnauthorized)
				return
			}

			customerID, ok := claims["sub"].(string)
			if !ok || customerID == "" {
				http.Error(w, "Customer ID not found in token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), customerIDKey, customerID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetCustomerID retrieves the authenticated customer id from the request
// context.
func GetCustomerID(ctx context.Context) (string, bool) {
	customerID, ok := ctx.Value(customerIDKey).(string)
	return customerID, ok
}
