package websocket

import (
	"log/slog"
	"net/http"

	ws "github.com/coder/websocket"

	"github.com/halvarsson/hemma/internal/auth"
)

// HandleWebSocket upgrades connections and runs them as Hub clients scoped
// to the authenticated household. Mount behind the auth middleware.
func HandleWebSocket(hub *Hub, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		householdID := auth.HouseholdID(r.Context())
		if householdID == 0 {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		conn, err := ws.Accept(w, r, &ws.AcceptOptions{
			InsecureSkipVerify: true, // Allow connections from any origin (household LAN)
		})
		if err != nil {
			logger.Warn("websocket accept failed", "error", err)
			return
		}

		client := NewClient(hub, conn, householdID)
		client.Run(r.Context())
	}
}
