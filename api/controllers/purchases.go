package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/adityawarsita/gudangpos-backend/api/responses"
	"github.com/adityawarsita/gudangpos-backend/api/validators"
	"github.com/adityawarsita/gudangpos-backend/internal/catalog"
	purchasesvc "github.com/adityawarsita/gudangpos-backend/internal/purchases"
	stocksvc "github.com/adityawarsita/gudangpos-backend/internal/stock"
	"github.com/adityawarsita/gudangpos-backend/internal/units"
	pkgerrors "github.com/adityawarsita/gudangpos-backend/pkg/errors"
	"github.com/adityawarsita/gudangpos-backend/pkg/logger"
)

type createPurchaseRequest struct {
	purchasesvc.CreatePurchaseInput
	// Receive triggers stock intake and cost write-back for every line.
	Receive bool `json:"receive"`
}

// CreatePurchase records a goods-received document. With receive=true it
// also runs the intake steps: increment stock and write back the product's
// cost price. Those are separate operations from the purchase record on
// purpose — manual stock increases share the same intake path without a
// purchase document, so the record itself never moves stock.
func CreatePurchase(svc purchasesvc.Service, stockSvc stocksvc.Service, catalogSvc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchase service unavailable"))
			return
		}

		var payload createPurchaseRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if payload.Receive {
			// Resolve every product up front so a bad line rejects the
			// whole request before any document or stock write.
			if err := receiveLines(r, payload, stockSvc, catalogSvc, true); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		purchase, err := svc.CreatePurchase(r.Context(), payload.CreatePurchaseInput)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if payload.Receive {
			if err := receiveLines(r, payload, stockSvc, catalogSvc, false); err != nil {
				// The purchase document is already committed; surface the
				// intake failure so the operator can re-run intake by hand.
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, purchase)
	}
}

// receiveLines converts each received line to base units and, when dryRun is
// false, increments stock and writes the per-base-unit cost back to the
// catalog.
func receiveLines(r *http.Request, payload createPurchaseRequest, stockSvc stocksvc.Service, catalogSvc catalog.Service, dryRun bool) error {
	ctx := r.Context()
	for _, line := range payload.Items {
		product, err := catalogSvc.Get(ctx, line.SKU)
		if err != nil {
			return err
		}

		qtyBase := units.QtyInBase(line.Qty, line.Unit, *product)
		costBase := line.UnitCost
		if units.IsBulkUnit(*product, line.Unit) {
			costBase = units.CostToBase(line.UnitCost, *product)
		}
		if dryRun {
			continue
		}

		if err := stockSvc.Increment(ctx, line.SKU, qtyBase); err != nil {
			return err
		}
		if err := catalogSvc.UpdateCostPrice(ctx, line.SKU, costBase); err != nil {
			return err
		}
	}
	return nil
}

func ListPurchases(svc purchasesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date, err := validators.ParseQueryDate(r, "date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		purchases, err := svc.List(r.Context(), date)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, purchases)
	}
}

func GetPurchase(svc purchasesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		purchase, err := svc.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, purchase)
	}
}
