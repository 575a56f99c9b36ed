package chat

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/Vovarama1992/assistant-bridge/internal/assistant"
)

const (
	msgMissing     = "please supply a message"
	msgInvalidBody = "invalid request body"
	msgTooLarge    = "request body too large"

	maxBodyBytes = 1 << 20
)

type Handler struct {
	assistant assistant.Chatter
}

func NewHandler(a assistant.Chatter) *Handler {
	return &Handler{assistant: a}
}

// HandleChat — GET ?message=… или POST {"message": "…"}
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[http] panic in /chat: %v", rec)
			writeJSON(w, http.StatusInternalServerError, errorResponse{
				Error: fmt.Sprintf("system error: %v", rec),
			})
		}
	}()

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	message, err := readMessage(r)
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: msgTooLarge})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgInvalidBody})
		return
	}

	if message == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgMissing})
		return
	}

	reply := h.assistant.Chat(r.Context(), message)

	writeJSON(w, http.StatusOK, messageResponse{Message: reply})
}

func readMessage(r *http.Request) (string, error) {
	if r.Method == http.MethodGet {
		return strings.TrimSpace(r.URL.Query().Get("message")), nil
	}

	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		if errors.Is(err, io.EOF) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(payload.Message), nil
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON: UTF-8 как есть, без \u-экранирования HTML-символов.
func writeJSON(w http.ResponseWriter, status int, data any) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		log.Printf("[http] encode error: %v", err)
		http.Error(w, `{"error":"system error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}
