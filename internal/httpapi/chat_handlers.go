package httpapi

import (
	"errors"
	"net/http"

	"todoapi.org/internal/chat"
)

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response string `json:"response"`
}

func (a *API) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	if a.chat == nil {
		writeError(w, r, http.StatusServiceUnavailable, "AI service not configured")
		return
	}

	var req chatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	reply, err := a.chat.Ask(r.Context(), req.Message)
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrEmptyMessage):
			writeError(w, r, http.StatusBadRequest, "Message is required")
		default:
			writeError(w, r, http.StatusInternalServerError, "AI service temporarily unavailable")
		}
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Response: reply})
}
