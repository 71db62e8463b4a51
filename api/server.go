package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/totemplay/gamerelay/relay"
)

// Directory resolves game names to their relays. Satisfied by the
// websocket transport's dispatcher.
type Directory interface {
	Relay(name string) (*relay.Relay, bool)
	Games() []string
}

// Server is the read-only REST surface for inspecting live rooms.
type Server struct {
	directory Directory
	router    *mux.Router
}

// NewServer creates the API server on top of a game directory.
func NewServer(directory Directory) *Server {
	s := &Server{
		directory: directory,
		router:    mux.NewRouter(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/rooms", s.handleListRooms).Methods("GET")
	api.HandleFunc("/rooms/{id}", s.handleGetRoom).Methods("GET")
	api.HandleFunc("/games", s.handleListGames).Methods("GET")

	s.router.HandleFunc("/healthz", s.handleHealth).Methods("GET")
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	game := r.URL.Query().Get("game")

	names := s.directory.Games()
	if game != "" {
		if _, ok := s.directory.Relay(game); !ok {
			respondError(w, http.StatusNotFound, "unknown game")
			return
		}
		names = []string{game}
	}

	rooms := make([]relay.RoomInfo, 0)
	for _, name := range names {
		rl, ok := s.directory.Relay(name)
		if !ok {
			continue
		}
		rooms = append(rooms, rl.Rooms()...)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(rooms),
		"rooms": rooms,
	})
}

func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	roomID := vars["id"]

	for _, name := range s.directory.Games() {
		rl, ok := s.directory.Relay(name)
		if !ok {
			continue
		}
		if info, ok := rl.RoomInfo(roomID); ok {
			respondJSON(w, http.StatusOK, info)
			return
		}
	}

	respondError(w, http.StatusNotFound, relay.ErrRoomNotFound.Error())
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	type gameInfo struct {
		Name       string         `json:"name"`
		Kind       relay.GameKind `json:"kind"`
		Rooms      int            `json:"rooms"`
		HostPath   string         `json:"host_path"`
		ClientPath string         `json:"client_path"`
	}

	games := make([]gameInfo, 0)
	for _, name := range s.directory.Games() {
		rl, ok := s.directory.Relay(name)
		if !ok {
			continue
		}
		games = append(games, gameInfo{
			Name:       name,
			Kind:       rl.Profile().Kind,
			Rooms:      rl.RoomCount(),
			HostPath:   "/" + name + "/host",
			ClientPath: "/" + name + "/client",
		})
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(games),
		"games": games,
	})
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
