package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/mod/semver"
)

// clientVersionHeader is sent by shopctl and other first-party clients.
// Browsers don't send it, so requests without the header always pass.
const clientVersionHeader = "X-Client-Version"

// MinClientVersion returns middleware that rejects first-party clients older
// than min with 426 Upgrade Required. min must be a valid semver string with
// a leading "v" ("" disables the gate).
func MinClientVersion(logger *slog.Logger, min string) func(http.Handler) http.Handler {
	enabled := min != "" && semver.IsValid(min)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !enabled {
				next.ServeHTTP(w, r)
				return
			}

			got := normalizeVersion(r.Header.Get(clientVersionHeader))
			if got == "" || !semver.IsValid(got) {
				next.ServeHTTP(w, r)
				return
			}

			if semver.Compare(got, min) < 0 {
				logger.Warn("outdated client rejected",
					slog.String("client_version", got),
					slog.String("min_version", min),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUpgradeRequired)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"code":    "CLIENT_OUTDATED",
					"message": "client version " + got + " is older than the required " + min,
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// normalizeVersion adds the "v" prefix semver parsing requires.
func normalizeVersion(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}
