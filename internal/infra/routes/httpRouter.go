package routes

import (
	"encoding/json"
	"net/http"

	"intake-connector/internal/infra/handlers"

	"github.com/gorilla/mux"
)

type Routes struct {
	Mux             *mux.Router
	WebhookHandlers *handlers.WebhookHandlers
	DemoHandlers    *handlers.DemoHandlers
}

func NewRoutes(mux *mux.Router, webhookHandlers *handlers.WebhookHandlers, demoHandlers *handlers.DemoHandlers) *Routes {
	return &Routes{mux, webhookHandlers, demoHandlers}
}

func (r *Routes) Init() {
	r.Mux.HandleFunc("/api/webhooks/conversation", r.WebhookHandlers.ConversationWebhook)
	r.Mux.HandleFunc("/api/demo/complete", r.DemoHandlers.CompleteDemo).Methods(http.MethodPost)
	r.Mux.HandleFunc("/api/demo/intake", r.DemoHandlers.SaveIntake).Methods(http.MethodPost)

	r.Mux.HandleFunc("/healthCheck", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods(http.MethodGet)
}
