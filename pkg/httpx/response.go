package httpx

import (
	"encoding/json"
	"net/http"
	"path"
)

// JSON writes v with status. Stock levels change on every commit, so
// responses are marked no-store to keep proxies from serving stale levels.
func JSON(w http.ResponseWriter, status int, v any) {
	h := w.Header()
	h.Set("Content-Type", "application/json; charset=utf-8")
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Created writes a 201 whose Location is the new resource under the
// request's collection path.
func Created(w http.ResponseWriter, r *http.Request, id string, v any) {
	w.Header().Set("Location", path.Join(r.URL.Path, id))
	JSON(w, http.StatusCreated, v)
}

// JSONError writes {"error": message}.
func JSONError(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// SafeError is the client-facing message for err. In production a 5xx only
// exposes its status text.
func SafeError(err error, status int, isProduction bool) string {
	if isProduction && status >= http.StatusInternalServerError {
		return http.StatusText(status)
	}
	return err.Error()
}
