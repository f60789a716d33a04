package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"parkdesk/internal/entities"
	"parkdesk/internal/notify"
)

func TestAddLotBounds(t *testing.T) {
	backend := newBackend(t)
	rec := notify.NewRecorder()
	s := NewAdminService(backend.client(), rec)

	err := s.AddLot(context.Background(), entities.LotRequest{LocationName: "X", MaxSpots: 0})
	require.ErrorIs(t, err, ErrMaxSpotsOutOfRange)

	err = s.AddLot(context.Background(), entities.LotRequest{LocationName: "X", MaxSpots: 11})
	require.ErrorIs(t, err, ErrMaxSpotsOutOfRange)

	require.Contains(t, rec.Messages(), "Maximum spots must be between 1 and 10")
	require.Zero(t, backend.total())
}

func TestAddLotSuccess(t *testing.T) {
	backend := newBackend(t)
	backend.handle("/api/admin/lots", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		respondJSON(t, w, entities.MessageResponse{Message: "Lot created successfully", LotID: 3})
	})

	rec := notify.NewRecorder()
	s := NewAdminService(backend.client(), rec)
	err := s.AddLot(context.Background(), entities.LotRequest{LocationName: "Station West", MaxSpots: 5})
	require.NoError(t, err)
	require.Contains(t, rec.Messages(), "Parking lot added successfully")
}

func TestUpdateLotGrowsSpotCount(t *testing.T) {
	backend := newBackend(t)
	backend.handle("/api/admin/lots", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(t, w, entities.LotsResponse{Lots: []entities.ParkingLot{
			{ID: 2, LocationName: "Riverside Mall", MaxSpots: 3},
		}})
	})
	backend.handle("/api/admin/lots/2", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		respondJSON(t, w, entities.MessageResponse{Message: "Lot updated successfully"})
	})
	backend.handle("/api/admin/lots/2/spots", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		respondJSON(t, w, entities.MessageResponse{Message: "Spot added successfully"})
	})

	rec := notify.NewRecorder()
	s := NewAdminService(backend.client(), rec)
	err := s.UpdateLot(context.Background(), 2, entities.LotRequest{LocationName: "Riverside Mall", MaxSpots: 5})
	require.NoError(t, err)

	// Growing from 3 to 5 adds two spots.
	require.Equal(t, 2, backend.count("/api/admin/lots/2/spots"))
	require.Contains(t, rec.Messages(), "Parking lot updated")
}

func TestUpdateLotShrinkNeedsEnoughVacantSpots(t *testing.T) {
	backend := newBackend(t)
	backend.handle("/api/admin/lots", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(t, w, entities.LotsResponse{Lots: []entities.ParkingLot{
			{ID: 2, LocationName: "Riverside Mall", MaxSpots: 3},
		}})
	})
	backend.handle("/api/admin/lots/2", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(t, w, entities.MessageResponse{Message: "Lot updated successfully"})
	})
	backend.handle("/api/admin/lots/2/spots", func(w http.ResponseWriter, r *http.Request) {
		// Two of the three spots are occupied: only one can be removed.
		respondJSON(t, w, entities.SpotsResponse{Spots: []entities.Spot{
			{ID: 10, Status: entities.SpotOccupied},
			{ID: 11, Status: entities.SpotOccupied},
			{ID: 12, Status: entities.SpotVacant},
		}})
	})

	rec := notify.NewRecorder()
	s := NewAdminService(backend.client(), rec)
	err := s.UpdateLot(context.Background(), 2, entities.LotRequest{LocationName: "Riverside Mall", MaxSpots: 1})
	require.ErrorIs(t, err, ErrNotEnoughVacant)
	require.Contains(t, rec.Messages(), "Not enough vacant spots to remove")
	require.Zero(t, backend.count("/api/admin/spots/12"))
}

func TestDeleteLotRefusesOccupied(t *testing.T) {
	backend := newBackend(t)
	backend.handle("/api/admin/lots", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(t, w, entities.LotsResponse{Lots: []entities.ParkingLot{
			{ID: 2, LocationName: "Riverside Mall", MaxSpots: 3, Occupied: 1},
		}})
	})

	rec := notify.NewRecorder()
	s := NewAdminService(backend.client(), rec)
	s.Confirm = func(string) bool { return true }

	err := s.DeleteLot(context.Background(), 2)
	require.ErrorIs(t, err, ErrLotOccupied)
	require.Contains(t, rec.Messages(), "In this lot slot is occupied you can not delete this lot")
}

func TestDeleteLotConfirmed(t *testing.T) {
	backend := newBackend(t)
	backend.handle("/api/admin/lots", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(t, w, entities.LotsResponse{Lots: []entities.ParkingLot{
			{ID: 2, LocationName: "Riverside Mall", MaxSpots: 3},
		}})
	})
	backend.handle("/api/admin/lots/2", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		respondJSON(t, w, entities.MessageResponse{Message: "Lot deleted successfully"})
	})

	rec := notify.NewRecorder()
	s := NewAdminService(backend.client(), rec)

	// Without a confirm hook, deletion is refused.
	require.ErrorIs(t, s.DeleteLot(context.Background(), 2), ErrDeleteCancelled)

	s.Confirm = func(string) bool { return true }
	require.NoError(t, s.DeleteLot(context.Background(), 2))
	require.Contains(t, rec.Messages(), "Parking lot deleted")
}
