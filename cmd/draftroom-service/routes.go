// Copyright 2026 The Draftroom Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/draftroom-io/draftroom/lib/collab"
	"github.com/draftroom-io/draftroom/lib/ref"
)

// newRouter builds the service's HTTP surface: the websocket endpoint
// where clients join document rooms, plus a read-only API for
// inspecting live rooms.
func newRouter(manager *collab.Manager, logger *slog.Logger) *mux.Router {
	registry := newSessionRegistry()
	router := mux.NewRouter()
	router.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/api/rooms", handleListRooms(manager)).Methods(http.MethodGet)
	router.HandleFunc("/api/rooms/{room_id}", handleRoomState(manager)).Methods(http.MethodGet)
	router.HandleFunc("/ws/{document_id}", handleWebsocket(manager, registry, logger)).Methods(http.MethodGet)
	return router
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleListRooms serves the live room listing, sorted by room ID.
func handleListRooms(manager *collab.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, manager.ListRooms())
	}
}

// handleRoomState serves one room's state snapshot, the same shape a
// connecting websocket client receives in its room_state envelope.
func handleRoomState(manager *collab.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID, err := ref.ParseRoomID(mux.Vars(r)["room_id"])
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		room, ok := manager.GetRoom(roomID)
		if !ok {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, room.State())
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
