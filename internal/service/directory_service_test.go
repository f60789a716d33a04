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

func TestDirectoryLoadUnfiltered(t *testing.T) {
	backend := newBackend(t)
	backend.handle("/api/user/lots", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(t, w, entities.LotsResponse{Lots: []entities.ParkingLot{
			{ID: 1, LocationName: "Central Plaza", AvailableSpots: 3},
		}})
	})

	s := NewDirectoryService(backend.client(), nil, notify.NewRecorder())
	require.NoError(t, s.Load(context.Background(), nil))

	entries := s.Entries()
	require.Len(t, entries, 2)
	require.Equal(t, view.SearchSentinel, entries[0].Value)
	require.Equal(t, "Central Plaza (3 available)", entries[1].Label())
	require.Nil(t, s.LastFilter())
}

func TestDirectoryFilterRetainedAcrossRefresh(t *testing.T) {
	backend := newBackend(t)
	backend.handle("/api/user/lots/search", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "central", r.URL.Query().Get("name"))
		respondJSON(t, w, entities.LotsResponse{Lots: []entities.ParkingLot{
			{ID: 1, LocationName: "Central Plaza", AvailableSpots: 2},
		}})
	})

	s := NewDirectoryService(backend.client(), nil, notify.NewRecorder())
	require.NoError(t, s.Load(context.Background(), &entities.LotFilter{Name: "central"}))
	afterLoad := s.Entries()
	require.NoError(t, s.Refresh(context.Background()))

	// Both the load and the refresh hit the filtered endpoint, and the
	// repeated refresh renders the identical directory.
	require.Equal(t, 2, backend.count("/api/user/lots/search"))
	require.Zero(t, backend.count("/api/user/lots"))
	require.Equal(t, "central", s.LastFilter().Name)
	require.Equal(t, afterLoad, s.Entries())
}

func TestDirectoryZeroFilterMeansFullList(t *testing.T) {
	backend := newBackend(t)
	backend.handle("/api/user/lots", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(t, w, entities.LotsResponse{})
	})

	s := NewDirectoryService(backend.client(), nil, notify.NewRecorder())
	require.NoError(t, s.Load(context.Background(), &entities.LotFilter{}))

	require.Equal(t, 1, backend.count("/api/user/lots"))
	require.Zero(t, backend.count("/api/user/lots/search"))
	require.Nil(t, s.LastFilter())
}

func TestDirectoryFilteredFailureFallsBackToFullList(t *testing.T) {
	backend := newBackend(t)
	backend.handle("/api/user/lots/search", func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusInternalServerError, "search exploded")
	})
	backend.handle("/api/user/lots", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(t, w, entities.LotsResponse{Lots: []entities.ParkingLot{
			{ID: 1, LocationName: "Central Plaza", AvailableSpots: 3},
		}})
	})

	rec := notify.NewRecorder()
	s := NewDirectoryService(backend.client(), nil, rec)
	require.NoError(t, s.Load(context.Background(), &entities.LotFilter{Name: "central"}))

	require.Contains(t, rec.Messages(), "Error searching lots")
	// The fallback load succeeded and cleared the filter.
	require.Nil(t, s.LastFilter())
	require.Len(t, s.Entries(), 2)
}

func TestDirectoryUnfilteredFailureNotifies(t *testing.T) {
	backend := newBackend(t)
	backend.handle("/api/user/lots", func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusInternalServerError, "down")
	})

	rec := notify.NewRecorder()
	s := NewDirectoryService(backend.client(), nil, rec)
	require.Error(t, s.Load(context.Background(), nil))
	require.Contains(t, rec.Messages(), "Error loading parking lots")
}

func TestDirectoryPatchAvailability(t *testing.T) {
	backend := newBackend(t)
	backend.handle("/api/user/lots", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(t, w, entities.LotsResponse{Lots: []entities.ParkingLot{
			{ID: 1, LocationName: "Central Plaza", AvailableSpots: 3},
			{ID: 2, LocationName: "Riverside Mall", AvailableSpots: 5},
		}})
	})

	s := NewDirectoryService(backend.client(), nil, notify.NewRecorder())
	require.NoError(t, s.Load(context.Background(), nil))

	s.PatchAvailability(map[int]int{1: 0})

	entries := s.Entries()
	require.Equal(t, 0, entries[1].Available)
	require.Equal(t, 5, entries[2].Available)
	// No extra fetch happened.
	require.Equal(t, 1, backend.count("/api/user/lots"))
}
