package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/adityawarsita/gudangpos-backend/api/responses"
	"github.com/adityawarsita/gudangpos-backend/api/validators"
	ordersvc "github.com/adityawarsita/gudangpos-backend/internal/orders"
	stocksvc "github.com/adityawarsita/gudangpos-backend/internal/stock"
	"github.com/adityawarsita/gudangpos-backend/internal/stocklosses"
	pkgerrors "github.com/adityawarsita/gudangpos-backend/pkg/errors"
	"github.com/adityawarsita/gudangpos-backend/pkg/logger"
)

func GetStock(svc stocksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		record, err := svc.Get(r.Context(), chi.URLParam(r, "sku"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

type setStockLoss struct {
	Qty    float64 `json:"qty" validate:"required,gt=0"`
	Reason string  `json:"reason" validate:"required"`
}

type setStockRequest struct {
	Value float64 `json:"value" validate:"gte=0"`

	// Loss books the difference as a stock loss (expiry, damage, ...).
	Loss *setStockLoss `json:"loss,omitempty"`

	// RecordSale books the difference as an after-the-fact sale. The order
	// is recorded WITHOUT deducting stock — this handler has already set
	// the absolute value, so the usual order/stock invariant is
	// intentionally split here and nowhere else.
	RecordSale *ordersvc.CreateOrderInput `json:"record_sale,omitempty"`
}

// SetStock performs a manual absolute stock correction, optionally booking
// the delta as a loss or an after-the-fact sale.
func SetStock(svc stocksvc.Service, lossSvc stocklosses.Service, orderSvc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stock service unavailable"))
			return
		}

		sku := chi.URLParam(r, "sku")
		var payload setStockRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if payload.Loss != nil && payload.RecordSale != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "loss and record_sale are mutually exclusive"))
			return
		}

		if err := svc.SetAbsolute(r.Context(), sku, payload.Value); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result := map[string]any{"sku": sku, "current_stock_base": payload.Value}

		if payload.Loss != nil {
			loss, err := lossSvc.CreateLoss(r.Context(), stocklosses.CreateLossInput{
				SKU:    sku,
				Qty:    payload.Loss.Qty,
				Reason: payload.Loss.Reason,
			})
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			result["loss"] = loss
		}

		if payload.RecordSale != nil {
			order, err := orderSvc.CreateOrderRecord(r.Context(), *payload.RecordSale)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			result["order"] = order
		}

		responses.WriteSuccess(w, result)
	}
}

// RepackStock breaks bulk packages of one SKU into base units of another.
func RepackStock(svc stocksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload stocksvc.RepackInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Repack(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
