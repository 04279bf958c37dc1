package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	enginex "github.com/voxdesk/voxdesk/engine"
	contractx "github.com/voxdesk/voxdesk/engine/contract"
)

type Config struct {
	Addr           string        `envconfig:"ADDR" split_words:"true" default:":8080"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" split_words:"true" default:"60s"`
}

// Server exposes the voice-processing endpoint plus the thin administrative
// CRUD surface over the same stores the engine uses.
type Server struct {
	engine       *enginex.Service
	inventory    contractx.InventoryLedger
	products     contractx.ProductStore
	orders       contractx.OrderStore
	appointments contractx.AppointmentStore
}

func New(engine *enginex.Service, inventory contractx.InventoryLedger, products contractx.ProductStore, orders contractx.OrderStore, appointments contractx.AppointmentStore) *Server {
	return &Server{
		engine:       engine,
		inventory:    inventory,
		products:     products,
		orders:       orders,
		appointments: appointments,
	}
}

func (s *Server) Router(cfg Config) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Post("/process-voice", s.processVoice)

	r.Route("/products", func(r chi.Router) {
		r.Get("/", s.listProducts)
		r.Post("/", s.createProduct)
		r.Get("/{id}", s.getProduct)
		r.Patch("/{id}", s.updateProduct)
		r.Delete("/{id}", s.deleteProduct)
	})
	r.Route("/orders", func(r chi.Router) {
		r.Get("/", s.listOrders)
		r.Post("/", s.createOrder)
		r.Patch("/{id}", s.updateOrder)
	})
	r.Route("/appointments", func(r chi.Router) {
		r.Get("/", s.listAppointments)
		r.Post("/", s.createAppointment)
		r.Patch("/{id}", s.updateAppointment)
	})

	return r
}

type errorBody struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, errorBody{Message: message})
}
