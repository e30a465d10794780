package controllers

import (
	"net/http"
	"strings"

	"github.com/adityawarsita/gudangpos-backend/api/responses"
	"github.com/adityawarsita/gudangpos-backend/internal/stocklosses"
	"github.com/adityawarsita/gudangpos-backend/pkg/logger"
)

func ListStockLosses(svc stocklosses.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		losses, err := svc.List(r.Context(), strings.TrimSpace(r.URL.Query().Get("sku")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, losses)
	}
}
