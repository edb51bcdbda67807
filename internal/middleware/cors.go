package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS разрешает запросы фронтенда с указанных источников.
// Cookie сессии передаются, поэтому AllowCredentials включён.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			"Content-Encoding",
		},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
