package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	contractx "github.com/voxdesk/voxdesk/engine/contract"
)

func (s *Store) ConfirmedBetween(ctx context.Context, from, to time.Time) ([]contractx.Appointment, error) {
	var appts []contractx.Appointment
	err := s.db.NewSelect().
		Model(&appts).
		Where("status = ?", contractx.AppointmentConfirmed).
		Where("date >= ?", from).
		Where("date < ?", to).
		Order("date ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list confirmed appointments: %w", err)
	}
	return appts, nil
}

// BookSlot re-checks the conflict window and inserts inside one serializable
// transaction, so a racing booking for an overlapping slot cannot slip
// between check and insert.
func (s *Store) BookSlot(ctx context.Context, appt *contractx.Appointment) error {
	if appt == nil {
		return fmt.Errorf("%w: nil appointment", contractx.ErrValidation)
	}
	appt.Status = contractx.AppointmentConfirmed

	return s.db.RunInTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, func(ctx context.Context, tx bun.Tx) error {
		count, err := tx.NewSelect().
			Model((*contractx.Appointment)(nil)).
			Where("status = ?", contractx.AppointmentConfirmed).
			Where("date >= ?", appt.Date.Add(-contractx.ConflictWindow)).
			Where("date < ?", appt.Date.Add(contractx.ConflictWindow)).
			Count(ctx)
		if err != nil {
			return fmt.Errorf("conflict check: %w", err)
		}
		if count > 0 {
			return contractx.ErrSlotConflict
		}

		if _, err := tx.NewInsert().Model(appt).Exec(ctx); err != nil {
			return fmt.Errorf("insert appointment: %w", err)
		}
		return nil
	})
}

/* --------------------------- Admin surface --------------------------- */

func (s *Store) Appointments(ctx context.Context) ([]contractx.Appointment, error) {
	var appts []contractx.Appointment
	err := s.db.NewSelect().Model(&appts).Order("date DESC").Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return appts, nil
}

// CreateAppointment is the direct administrative insert; the voice path
// books through BookSlot instead.
func (s *Store) CreateAppointment(ctx context.Context, appt *contractx.Appointment) error {
	if appt.Status == "" {
		appt.Status = contractx.AppointmentConfirmed
	}
	if _, err := s.db.NewInsert().Model(appt).Exec(ctx); err != nil {
		return fmt.Errorf("insert appointment: %w", err)
	}
	return nil
}

func (s *Store) UpdateAppointment(ctx context.Context, id int64, patch contractx.AppointmentPatch) (*contractx.Appointment, error) {
	var appt contractx.Appointment
	err := s.db.NewSelect().Model(&appt).Where("a.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, contractx.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get appointment id=%d: %w", id, err)
	}

	if patch.CustomerName != nil {
		appt.CustomerName = *patch.CustomerName
	}
	if patch.Date != nil {
		appt.Date = *patch.Date
	}
	if patch.Status != nil {
		appt.Status = *patch.Status
	}
	if patch.ContactInfo != nil {
		appt.ContactInfo = *patch.ContactInfo
	}
	if patch.Notes != nil {
		appt.Notes = *patch.Notes
	}

	if _, err := s.db.NewUpdate().Model(&appt).WherePK().Exec(ctx); err != nil {
		return nil, fmt.Errorf("update appointment id=%d: %w", id, err)
	}
	return &appt, nil
}
