package http

import (
	"github.com/gorilla/mux"
)

// NewRouter mounts the page, API and websocket routes.
func NewRouter(h *Handler, ws *WSHandler) *mux.Router {
	router := mux.NewRouter()
	h.RegisterRoutes(router)
	router.HandleFunc("/ws", ws.ServeWS)
	return router
}
