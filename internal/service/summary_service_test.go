package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"parkdesk/internal/entities"
	"parkdesk/internal/notify"
	"parkdesk/internal/view"
)

func TestSummaryLoadRendersRowsAndActive(t *testing.T) {
	backend := newBackend(t)
	backend.handle("/api/user/summary/", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(t, w, entities.SummaryResponse{Reservations: []entities.Reservation{
			{LotName: "Central Plaza", Spot: 4, VehicleNumber: "GJ05AB1234",
				TimeIn: "2026-08-28 12:00:00"},
			{LotName: "Riverside Mall", Spot: 2, VehicleNumber: "GJ05AB1234",
				TimeIn: "2026-08-28 08:00:00", TimeOut: "2026-08-28 09:30:00"},
		}})
	})

	s := NewSummaryService(backend.client(), nil, notify.NewRecorder(), 1)
	require.NoError(t, s.Load(context.Background()))

	rows := s.Rows()
	require.Len(t, rows, 2)
	require.Equal(t, "-", rows[0].TimeOut)
	require.Equal(t, "1h 30m", rows[1].Duration)

	active := s.Active()
	require.NotNil(t, active)
	require.Equal(t, 4, active.Spot)
	require.Equal(t, "Central Plaza", active.LotName)
}

func TestSummaryNoActiveReservation(t *testing.T) {
	backend := newBackend(t)
	backend.handle("/api/user/summary/", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(t, w, entities.SummaryResponse{Reservations: []entities.Reservation{
			{LotName: "Central Plaza", Spot: 4,
				TimeIn: "2026-08-28 08:00:00", TimeOut: "2026-08-28 09:00:00"},
		}})
	})

	s := NewSummaryService(backend.client(), nil, notify.NewRecorder(), 1)
	require.NoError(t, s.CheckActive(context.Background()))
	require.Nil(t, s.Active())
}

func TestSummaryEmptyHistoryRow(t *testing.T) {
	backend := newBackend(t)
	backend.handle("/api/user/summary/", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(t, w, entities.SummaryResponse{})
	})

	s := NewSummaryService(backend.client(), nil, notify.NewRecorder(), 1)
	require.NoError(t, s.Load(context.Background()))

	rows := s.Rows()
	require.Len(t, rows, 1)
	require.Equal(t, view.NoHistoryText, rows[0].LotName)
}

func TestSummaryLoadFailureNotifies(t *testing.T) {
	backend := newBackend(t)
	backend.handle("/api/user/summary/", func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusInternalServerError, "down")
	})

	rec := notify.NewRecorder()
	s := NewSummaryService(backend.client(), nil, rec, 1)
	require.Error(t, s.Load(context.Background()))
	require.Contains(t, rec.Messages(), "Error loading parking history")

	require.Error(t, s.CheckActive(context.Background()))
	require.Contains(t, rec.Messages(), "Error checking reservation status")
}
