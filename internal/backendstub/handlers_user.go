package backendstub

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"parkdesk/internal/entities"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req entities.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	userID, fullName, ok := s.Store.Authenticate(req.Email, req.Password)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	token, err := s.issueToken(userID, "user")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Could not issue token")
		return
	}
	writeJSON(w, http.StatusOK, entities.LoginResponse{
		Message:  "Login successful",
		UserID:   userID,
		FullName: fullName,
		UserType: "user",
		Token:    token,
	})
}

func (s *Server) handleUserLots(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, entities.LotsResponse{Lots: s.Store.Lots()})
}

func (s *Server) handleSearchLots(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := entities.LotFilter{
		Name:          q.Get("name"),
		Location:      q.Get("location"),
		PinCode:       q.Get("pincode"),
		AvailableOnly: q.Get("available_only") == "true",
	}
	writeJSON(w, http.StatusOK, entities.LotsResponse{Lots: s.Store.SearchLots(filter)})
}

func (s *Server) handleReserve(w http.ResponseWriter, r *http.Request) {
	var req entities.ReserveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	spotID, err := s.Store.Reserve(req.UserID, req.LotID, req.VehicleNumber)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.Hub.Broadcast(entities.EventSpotReserved, entities.SpotEvent{
		LotID:         req.LotID,
		SpotID:        spotID,
		VehicleNumber: req.VehicleNumber,
	})
	s.Hub.Broadcast(entities.EventAvailabilityUpdate, availabilityPayload(s.Store.AvailabilitySnapshot()))
	writeJSON(w, http.StatusOK, entities.MessageResponse{
		Message: "Spot reserved successfully",
		SpotID:  spotID,
	})
}

func (s *Server) handleVacate(w http.ResponseWriter, r *http.Request) {
	var req entities.VacateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var (
		lotID, spotID int
		err           error
	)
	if req.SpotID > 0 {
		spotID = req.SpotID
		lotID, err = s.Store.VacateSpot(req.UserID, req.SpotID, req.VehicleNumber)
	} else {
		lotID, spotID, err = s.Store.Vacate(req.UserID)
	}
	if err != nil {
		var detailed *DetailsError
		if errors.As(err, &detailed) {
			writeJSON(w, http.StatusBadRequest, entities.ErrorResponse{
				Error:   detailed.Message,
				Details: detailed.Details,
			})
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.Hub.Broadcast(entities.EventSpotVacated, entities.SpotEvent{LotID: lotID, SpotID: spotID})
	s.Hub.Broadcast(entities.EventAvailabilityUpdate, availabilityPayload(s.Store.AvailabilitySnapshot()))
	writeJSON(w, http.StatusOK, entities.MessageResponse{
		Message: "Spot vacated successfully",
		SpotID:  spotID,
		LotID:   lotID,
	})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(mux.Vars(r)["user_id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	writeJSON(w, http.StatusOK, entities.SummaryResponse{Reservations: s.Store.Summary(userID)})
}

func availabilityPayload(snapshot map[int]int) entities.AvailabilityUpdate {
	out := make(entities.AvailabilityUpdate, len(snapshot))
	for lotID, vacant := range snapshot {
		out[strconv.Itoa(lotID)] = vacant
	}
	return out
}
