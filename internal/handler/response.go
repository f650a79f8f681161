package handler

import (
	"net/http"

	"github.com/genix/genix-site/internal/httputil"
	"github.com/genix/genix-site/internal/model"
)

type sessionResponse struct {
	Success bool                 `json:"success"`
	User    *model.AdminIdentity `json:"user"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	httputil.WriteJSON(w, status, data)
}
