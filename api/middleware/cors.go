package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS returns middleware with the open policy the internal tooling frontends
// rely on: any origin, any method, any header.
func CORS() func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
		MaxAge:           300,
	}).Handler
}
