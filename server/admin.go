package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	contractx "github.com/voxdesk/voxdesk/engine/contract"
)

// The administrative surface performs no business logic beyond persistence;
// stock mutations from sales go through the engine, never through here.

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func (s *Server) storeFailure(w http.ResponseWriter, err error, what string) {
	if errors.Is(err, contractx.ErrNotFound) {
		writeError(w, http.StatusNotFound, what+" not found")
		return
	}
	log.Error().Err(err).Msgf("%s request failed", what)
	writeError(w, http.StatusInternalServerError, "Internal server error")
}

/* ------------------------------ Products ------------------------------ */

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.products.Products(r.Context())
	if err != nil {
		s.storeFailure(w, err, "product")
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	product, err := s.inventory.ProductByID(r.Context(), id)
	if err != nil {
		s.storeFailure(w, err, "product")
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	var product contractx.Product
	if !decodeBody(w, r, &product) {
		return
	}
	if product.Name == "" || product.Category == "" {
		writeError(w, http.StatusBadRequest, "name and category are required")
		return
	}
	product.ID = 0
	if err := s.products.CreateProduct(r.Context(), &product); err != nil {
		s.storeFailure(w, err, "product")
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

func (s *Server) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	var patch contractx.ProductPatch
	if !decodeBody(w, r, &patch) {
		return
	}
	product, err := s.products.UpdateProduct(r.Context(), id, patch)
	if err != nil {
		s.storeFailure(w, err, "product")
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}
	if err := s.products.DeleteProduct(r.Context(), id); err != nil {
		s.storeFailure(w, err, "product")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

/* ------------------------------- Orders ------------------------------- */

func (s *Server) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := s.orders.Orders(r.Context())
	if err != nil {
		s.storeFailure(w, err, "order")
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (s *Server) createOrder(w http.ResponseWriter, r *http.Request) {
	var order contractx.Order
	if !decodeBody(w, r, &order) {
		return
	}
	if order.CustomerName == "" || len(order.Items) == 0 {
		writeError(w, http.StatusBadRequest, "customerName and items are required")
		return
	}
	order.ID = 0
	if err := s.orders.CreateOrder(r.Context(), &order); err != nil {
		s.storeFailure(w, err, "order")
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (s *Server) updateOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}
	var patch contractx.OrderPatch
	if !decodeBody(w, r, &patch) {
		return
	}
	order, err := s.orders.UpdateOrder(r.Context(), id, patch)
	if err != nil {
		s.storeFailure(w, err, "order")
		return
	}
	writeJSON(w, http.StatusOK, order)
}

/* ---------------------------- Appointments ---------------------------- */

func (s *Server) listAppointments(w http.ResponseWriter, r *http.Request) {
	appts, err := s.appointments.Appointments(r.Context())
	if err != nil {
		s.storeFailure(w, err, "appointment")
		return
	}
	writeJSON(w, http.StatusOK, appts)
}

func (s *Server) createAppointment(w http.ResponseWriter, r *http.Request) {
	var appt contractx.Appointment
	if !decodeBody(w, r, &appt) {
		return
	}
	if appt.CustomerName == "" || appt.Date.IsZero() {
		writeError(w, http.StatusBadRequest, "customerName and date are required")
		return
	}
	appt.ID = 0
	if err := s.appointments.CreateAppointment(r.Context(), &appt); err != nil {
		s.storeFailure(w, err, "appointment")
		return
	}
	writeJSON(w, http.StatusCreated, appt)
}

func (s *Server) updateAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid appointment id")
		return
	}
	var patch contractx.AppointmentPatch
	if !decodeBody(w, r, &patch) {
		return
	}
	appt, err := s.appointments.UpdateAppointment(r.Context(), id, patch)
	if err != nil {
		s.storeFailure(w, err, "appointment")
		return
	}
	writeJSON(w, http.StatusOK, appt)
}
