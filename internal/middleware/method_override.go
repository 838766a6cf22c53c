package middleware

import (
	"net/http"
)

// MethodOverride lets HTML forms reach PUT and DELETE routes through a hidden
// _method field on a POST. It has to wrap the router rather than run inside
// it, since routes are matched on the method before any gin middleware fires.
func MethodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			switch r.PostFormValue("_method") {
			case http.MethodPut:
				r.Method = http.MethodPut
			case http.MethodDelete:
				r.Method = http.MethodDelete
			}
		}

		next.ServeHTTP(w, r)
	})
}
