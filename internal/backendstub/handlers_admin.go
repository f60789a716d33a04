package backendstub

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"parkdesk/internal/entities"
)

func (s *Server) handleAdminLots(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, entities.LotsResponse{Lots: s.Store.AdminLots()})
}

func (s *Server) handleCreateLot(w http.ResponseWriter, r *http.Request) {
	var req entities.LotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	lotID := s.Store.AddLot(req)
	s.Hub.Broadcast(entities.EventNewLotAdded, entities.LotAddedEvent{
		LotID:        lotID,
		LocationName: req.LocationName,
		MaxSpots:     req.MaxSpots,
	})
	writeJSON(w, http.StatusCreated, entities.MessageResponse{
		Message: "Lot created successfully",
		LotID:   lotID,
	})
}

func (s *Server) handleUpdateLot(w http.ResponseWriter, r *http.Request) {
	lotID, err := strconv.Atoi(mux.Vars(r)["lot_id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid lot id")
		return
	}
	var req entities.LotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.Store.UpdateLot(lotID, req); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, entities.MessageResponse{Message: "Lot updated successfully", LotID: lotID})
}

func (s *Server) handleDeleteLot(w http.ResponseWriter, r *http.Request) {
	lotID, err := strconv.Atoi(mux.Vars(r)["lot_id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid lot id")
		return
	}
	if err := s.Store.DeleteLot(lotID); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.Hub.Broadcast(entities.EventLotDeleted, entities.LotDeletedEvent{LotID: lotID})
	writeJSON(w, http.StatusOK, entities.MessageResponse{Message: "Lot deleted successfully"})
}

func (s *Server) handleLotSpots(w http.ResponseWriter, r *http.Request) {
	lotID, err := strconv.Atoi(mux.Vars(r)["lot_id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid lot id")
		return
	}
	writeJSON(w, http.StatusOK, entities.SpotsResponse{Spots: s.Store.LotSpots(lotID)})
}

func (s *Server) handleAddSpot(w http.ResponseWriter, r *http.Request) {
	lotID, err := strconv.Atoi(mux.Vars(r)["lot_id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid lot id")
		return
	}
	spotID, err := s.Store.AddSpot(lotID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.Hub.Broadcast(entities.EventAvailabilityUpdate, availabilityPayload(s.Store.AvailabilitySnapshot()))
	writeJSON(w, http.StatusCreated, entities.MessageResponse{Message: "Spot added successfully", SpotID: spotID})
}

func (s *Server) handleSpotDetail(w http.ResponseWriter, r *http.Request) {
	spotID, err := strconv.Atoi(mux.Vars(r)["spot_id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid spot id")
		return
	}
	detail, err := s.Store.SpotDetail(spotID)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleDeleteSpot(w http.ResponseWriter, r *http.Request) {
	spotID, err := strconv.Atoi(mux.Vars(r)["spot_id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid spot id")
		return
	}
	if err := s.Store.DeleteSpot(spotID); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.Hub.Broadcast(entities.EventAvailabilityUpdate, availabilityPayload(s.Store.AvailabilitySnapshot()))
	writeJSON(w, http.StatusOK, entities.MessageResponse{Message: "Spot deleted successfully"})
}

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, entities.UsersResponse{Users: s.Store.Users()})
}

func (s *Server) handleAdminSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Store.AdminSummary())
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req entities.ProfileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	// The stub keeps a single admin identity; accept the update without
	// persisting it so the client flow can be exercised.
	writeJSON(w, http.StatusOK, entities.MessageResponse{Message: "Profile updated successfully"})
}
