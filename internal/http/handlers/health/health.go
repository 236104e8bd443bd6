// Package health exposes the liveness endpoint.
//
// GET /health and GET /health/{path_echo} report the process status along
// with the host's resolved IP address and optional echo strings, which
// makes the endpoint handy for checking that load balancers and path
// routing pass parameters through intact.
package health

import (
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/academic-finance/api/internal/utils/response"
)

// Health is the response body for the health endpoints. Echo and
// PathEcho serialise as null when not supplied.
type Health struct {
	Status        int     `json:"status"`
	StatusMessage string  `json:"status_message"`
	Timestamp     string  `json:"timestamp"`
	IPAddress     string  `json:"ip_address"`
	Echo          *string `json:"echo"`
	PathEcho      *string `json:"path_echo"`
}

// New handles GET /health. An optional ?echo=... query parameter is
// reflected back in the response.
func New(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("health check")
		_ = response.WriteJSON(w, http.StatusOK, snapshot(queryEcho(r), nil))
	}
}

// NewWithPath handles GET /health/{path_echo}: the path segment is
// required and echoed alongside the optional query echo.
func NewWithPath(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pathEcho := r.PathValue("path_echo")
		log.Debug("health check", slog.String("path_echo", pathEcho))
		_ = response.WriteJSON(w, http.StatusOK, snapshot(queryEcho(r), &pathEcho))
	}
}

// queryEcho extracts the optional echo query parameter, nil when absent.
func queryEcho(r *http.Request) *string {
	if !r.URL.Query().Has("echo") {
		return nil
	}
	echo := r.URL.Query().Get("echo")
	return &echo
}

// snapshot assembles a Health report for the current instant.
func snapshot(echo, pathEcho *string) Health {
	return Health{
		Status:        http.StatusOK,
		StatusMessage: "OK",
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		IPAddress:     hostIP(),
		Echo:          echo,
		PathEcho:      pathEcho,
	}
}

// hostIP resolves the host's own name to an address, preferring IPv4.
// Falls back to the loopback address when resolution fails (common in
// minimal containers without a resolvable hostname).
func hostIP() string {
	hostname, err := os.Hostname()
	if err != nil {
		return "127.0.0.1"
	}
	addrs, err := net.LookupIP(hostname)
	if err != nil || len(addrs) == 0 {
		return "127.0.0.1"
	}
	for _, addr := range addrs {
		if v4 := addr.To4(); v4 != nil {
			return v4.String()
		}
	}
	return addrs[0].String()
}
