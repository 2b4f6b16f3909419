package http

import (
	"net/http"

	"library-fines-backend/internal/domain"
	"library-fines-backend/internal/logger"
)

func (s *Server) getSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.svc.Settings.GetSettings(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) updateSettings(w http.ResponseWriter, r *http.Request) {
	var update domain.SettingsUpdate
	if err := decodeJSON(w, r, &update); err != nil {
		writeError(w, r, err)
		return
	}
	settings, err := s.svc.Settings.UpdateSettings(r.Context(), update)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if claims, ok := ClaimsFromContext(r.Context()); ok {
		logger.InfoContext(r.Context(), "Settings updated", "userID", claims.UserID)
	}
	writeJSON(w, http.StatusOK, settings)
}
