package backendstub

import (
	"encoding/json"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"parkdesk/internal/entities"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server is an in-memory rendition of the reservation backend, close enough
// for the app binary to run against and for tests to drive end to end.
type Server struct {
	Store  *Store
	Hub    *Hub
	secret []byte

	handler http.Handler
	watcher *watcher
}

func New(secret string) *Server {
	s := &Server{
		Store:  NewStore(),
		Hub:    newHub(),
		secret: []byte(secret),
	}

	r := mux.NewRouter()
	r.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/ws", s.handleSocket)

	user := r.PathPrefix("/api/user").Subrouter()
	user.Use(s.authMiddleware)
	user.HandleFunc("/lots", s.handleUserLots).Methods(http.MethodGet)
	user.HandleFunc("/lots/search", s.handleSearchLots).Methods(http.MethodGet)
	user.HandleFunc("/reserve", s.handleReserve).Methods(http.MethodPost)
	user.HandleFunc("/vacate", s.handleVacate).Methods(http.MethodPost)
	user.HandleFunc("/summary/{user_id}", s.handleSummary).Methods(http.MethodGet)

	admin := r.PathPrefix("/api/admin").Subrouter()
	admin.Use(s.authMiddleware)
	admin.HandleFunc("/lots", s.handleAdminLots).Methods(http.MethodGet)
	admin.HandleFunc("/lots", s.handleCreateLot).Methods(http.MethodPost)
	admin.HandleFunc("/lots/{lot_id}", s.handleUpdateLot).Methods(http.MethodPut)
	admin.HandleFunc("/lots/{lot_id}", s.handleDeleteLot).Methods(http.MethodDelete)
	admin.HandleFunc("/lots/{lot_id}/spots", s.handleLotSpots).Methods(http.MethodGet)
	admin.HandleFunc("/lots/{lot_id}/spots", s.handleAddSpot).Methods(http.MethodPost)
	admin.HandleFunc("/spots/{spot_id}", s.handleSpotDetail).Methods(http.MethodGet)
	admin.HandleFunc("/spots/{spot_id}", s.handleDeleteSpot).Methods(http.MethodDelete)
	admin.HandleFunc("/users", s.handleUsers).Methods(http.MethodGet)
	admin.HandleFunc("/summary", s.handleAdminSummary).Methods(http.MethodGet)
	admin.HandleFunc("/profile", s.handleUpdateProfile).Methods(http.MethodPut)

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)
	s.handler = handlers.LoggingHandler(os.Stdout, cors(r))
	return s
}

func (s *Server) Handler() http.Handler { return s.handler }

func (s *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("upgrade socket: %v", err)
		return
	}
	c := &wsClient{conn: conn}
	s.Hub.add(c)
	defer func() {
		s.Hub.remove(c)
		conn.Close()
	}()

	// Read loop. Clients only send join_user/leave_user; both are logged and
	// otherwise ignored since every client receives every broadcast.
	for {
		var frame entities.Event
		if err := conn.ReadJSON(&frame); err != nil {
			return
		}
		switch frame.Kind {
		case entities.EventJoinUser, entities.EventLeaveUser:
			var data entities.JoinUserData
			if err := json.Unmarshal(frame.Data, &data); err == nil {
				log.Printf("socket %s user %d", frame.Kind, data.UserID)
			}
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, entities.ErrorResponse{Error: message})
}
