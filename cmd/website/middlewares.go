package main

import (
	"context"
	"net/http"
	"strings"

	"github.com/adampresley/adamgokit/sessions"
	"github.com/adampresley/driveportfolio/pkg/models"
)

/*
newStaffMiddleware puts the signed in staff user, if any, on the request
context. It never blocks a request.
*/
func newStaffMiddleware(sessionService sessions.Session[*models.StaffUser]) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			staff, err := sessionService.Get(r)

			if err != nil || staff == nil || staff.Username == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), "staff", staff)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func newAdminAccessMiddleware(sessionService sessions.Session[*models.StaffUser], excludedPaths []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var (
				err   error
				staff *models.StaffUser
			)

			path := r.URL.Path

			/*
			 * If this path is excluded, keep going.
			 */
			for _, excludedPath := range excludedPaths {
				if strings.HasPrefix(path, excludedPath) {
					next.ServeHTTP(w, r)
					return
				}
			}

			if staff, err = sessionService.Get(r); err != nil || staff == nil || staff.Username == "" {
				http.Redirect(w, r, "/admin/login", http.StatusTemporaryRedirect)
				return
			}

			ctx := context.WithValue(r.Context(), "staff", staff)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
