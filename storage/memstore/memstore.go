// Package memstore backs the ledgers with process memory. It mirrors the
// transactional semantics of the postgres store under a single mutex, which
// makes it the backend for tests and for running without a database.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	contractx "github.com/voxdesk/voxdesk/engine/contract"
)

type Store struct {
	mu sync.Mutex

	products     map[int64]*contractx.Product
	appointments map[int64]*contractx.Appointment
	orders       map[int64]*contractx.Order

	nextProductID     int64
	nextAppointmentID int64
	nextOrderID       int64

	now func() time.Time
}

var (
	_ contractx.InventoryLedger  = (*Store)(nil)
	_ contractx.SchedulingLedger = (*Store)(nil)
	_ contractx.OrderStore       = (*Store)(nil)
	_ contractx.ProductStore     = (*Store)(nil)
	_ contractx.AppointmentStore = (*Store)(nil)
)

func New() *Store {
	return &Store{
		products:     make(map[int64]*contractx.Product),
		appointments: make(map[int64]*contractx.Appointment),
		orders:       make(map[int64]*contractx.Order),
		now:          time.Now,
	}
}

/* ----------------------------- Inventory ----------------------------- */

func (s *Store) ActiveProducts(_ context.Context) ([]contractx.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]contractx.Product, 0, len(s.products))
	for _, p := range s.products {
		if p.Active {
			out = append(out, *p)
		}
	}
	sortProducts(out)
	return out, nil
}

func (s *Store) Products(_ context.Context) ([]contractx.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]contractx.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, *p)
	}
	sortProducts(out)
	return out, nil
}

func (s *Store) ProductByID(_ context.Context, id int64) (*contractx.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return nil, contractx.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (s *Store) ProductByName(_ context.Context, name string) (*contractx.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.productByNameLocked(name)
	if p == nil {
		return nil, contractx.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (s *Store) productByNameLocked(name string) *contractx.Product {
	for _, p := range s.products {
		if strings.EqualFold(p.Name, name) {
			return p
		}
	}
	return nil
}

// ReserveStock is all-or-nothing: every line is validated against current
// stock before any decrement is applied.
func (s *Store) ReserveStock(_ context.Context, lines []contractx.StockLine) ([]contractx.OrderItem, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: no stock lines", contractx.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// First pass: validate. Duplicate lines for the same product must fit
	// within the available stock together.
	needed := make(map[int64]int, len(lines))
	for _, line := range lines {
		p, ok := s.products[line.ProductID]
		if !ok {
			return nil, &contractx.ProductNotFoundError{Name: line.ProductName}
		}
		needed[line.ProductID] += line.Quantity
		if p.Stock < needed[line.ProductID] {
			return nil, &contractx.InsufficientStockError{
				Name:      p.Name,
				Requested: line.Quantity,
				Available: p.Stock,
			}
		}
	}

	items := make([]contractx.OrderItem, 0, len(lines))
	for _, line := range lines {
		p := s.products[line.ProductID]
		p.Stock -= line.Quantity
		items = append(items, contractx.OrderItem{
			ProductID: p.ID,
			Quantity:  line.Quantity,
			Price:     p.Price,
		})
	}
	return items, nil
}

func (s *Store) CreateProduct(_ context.Context, product *contractx.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextProductID++
	product.ID = s.nextProductID
	if product.CreatedAt.IsZero() {
		product.CreatedAt = s.now().UTC()
	}
	clone := *product
	s.products[product.ID] = &clone
	return nil
}

func (s *Store) UpdateProduct(_ context.Context, id int64, patch contractx.ProductPatch) (*contractx.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return nil, contractx.ErrNotFound
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.ImageURL != nil {
		p.ImageURL = *patch.ImageURL
	}
	if patch.Active != nil {
		p.Active = *patch.Active
	}
	clone := *p
	return &clone, nil
}

func (s *Store) DeleteProduct(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return contractx.ErrNotFound
	}
	delete(s.products, id)
	return nil
}

/* ----------------------------- Scheduling ----------------------------- */

func (s *Store) ConfirmedBetween(_ context.Context, from, to time.Time) ([]contractx.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.confirmedBetweenLocked(from, to), nil
}

func (s *Store) confirmedBetweenLocked(from, to time.Time) []contractx.Appointment {
	var out []contractx.Appointment
	for _, a := range s.appointments {
		if a.Status != contractx.AppointmentConfirmed {
			continue
		}
		if a.Date.Before(from) || !a.Date.Before(to) {
			continue
		}
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// BookSlot performs the conflict check and the insert under one lock, the
// in-memory equivalent of the serializable booking transaction.
func (s *Store) BookSlot(_ context.Context, appt *contractx.Appointment) error {
	if appt == nil {
		return fmt.Errorf("%w: nil appointment", contractx.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	conflicting := s.confirmedBetweenLocked(
		appt.Date.Add(-contractx.ConflictWindow),
		appt.Date.Add(contractx.ConflictWindow),
	)
	if len(conflicting) > 0 {
		return contractx.ErrSlotConflict
	}

	appt.Status = contractx.AppointmentConfirmed
	s.insertAppointmentLocked(appt)
	return nil
}

func (s *Store) insertAppointmentLocked(appt *contractx.Appointment) {
	s.nextAppointmentID++
	appt.ID = s.nextAppointmentID
	if appt.CreatedAt.IsZero() {
		appt.CreatedAt = s.now().UTC()
	}
	clone := *appt
	s.appointments[appt.ID] = &clone
}

func (s *Store) Appointments(_ context.Context) ([]contractx.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]contractx.Appointment, 0, len(s.appointments))
	for _, a := range s.appointments {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (s *Store) CreateAppointment(_ context.Context, appt *contractx.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if appt.Status == "" {
		appt.Status = contractx.AppointmentConfirmed
	}
	s.insertAppointmentLocked(appt)
	return nil
}

func (s *Store) UpdateAppointment(_ context.Context, id int64, patch contractx.AppointmentPatch) (*contractx.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.appointments[id]
	if !ok {
		return nil, contractx.ErrNotFound
	}
	if patch.CustomerName != nil {
		a.CustomerName = *patch.CustomerName
	}
	if patch.Date != nil {
		a.Date = *patch.Date
	}
	if patch.Status != nil {
		a.Status = *patch.Status
	}
	if patch.ContactInfo != nil {
		a.ContactInfo = *patch.ContactInfo
	}
	if patch.Notes != nil {
		a.Notes = *patch.Notes
	}
	clone := *a
	return &clone, nil
}

/* ------------------------------- Orders ------------------------------- */

func (s *Store) CreateOrder(_ context.Context, order *contractx.Order) error {
	if order == nil {
		return fmt.Errorf("%w: nil order", contractx.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextOrderID++
	order.ID = s.nextOrderID
	if order.Status == "" {
		order.Status = contractx.OrderPending
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = s.now().UTC()
	}
	clone := *order
	clone.Items = append([]contractx.OrderItem(nil), order.Items...)
	s.orders[order.ID] = &clone
	return nil
}

func (s *Store) Orders(_ context.Context) ([]contractx.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]contractx.Order, 0, len(s.orders))
	for _, o := range s.orders {
		clone := *o
		clone.Items = append([]contractx.OrderItem(nil), o.Items...)
		out = append(out, clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *Store) UpdateOrder(_ context.Context, id int64, patch contractx.OrderPatch) (*contractx.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, contractx.ErrNotFound
	}
	if patch.CustomerName != nil {
		o.CustomerName = *patch.CustomerName
	}
	if patch.Status != nil {
		o.Status = *patch.Status
	}
	clone := *o
	clone.Items = append([]contractx.OrderItem(nil), o.Items...)
	return &clone, nil
}

func sortProducts(products []contractx.Product) {
	sort.Slice(products, func(i, j int) bool { return products[i].Name < products[j].Name })
}
