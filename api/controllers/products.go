package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/adityawarsita/gudangpos-backend/api/responses"
	"github.com/adityawarsita/gudangpos-backend/api/validators"
	"github.com/adityawarsita/gudangpos-backend/internal/catalog"
	"github.com/adityawarsita/gudangpos-backend/pkg/db/models"
	"github.com/adityawarsita/gudangpos-backend/pkg/enums"
	pkgerrors "github.com/adityawarsita/gudangpos-backend/pkg/errors"
	"github.com/adityawarsita/gudangpos-backend/pkg/logger"
)

type productRequest struct {
	SKU                string  `json:"sku" validate:"required"`
	Name               string  `json:"name" validate:"required"`
	Category           string  `json:"category"`
	BaseUnit           string  `json:"base_unit" validate:"required"`
	BulkUnitName       *string `json:"bulk_unit_name,omitempty"`
	BulkUnitConversion float64 `json:"bulk_unit_conversion"`
	CostPrice          int64   `json:"cost_price" validate:"gte=0"`
	PriceRegular       int64   `json:"price_regular" validate:"gte=0"`
	PricePremium       int64   `json:"price_premium" validate:"gte=0"`
	PriceStar          int64   `json:"price_star" validate:"gte=0"`
}

func (p productRequest) toModel() (*models.Product, error) {
	baseUnit, err := enums.ParseBaseUnit(strings.ToLower(strings.TrimSpace(p.BaseUnit)))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	conversion := p.BulkUnitConversion
	if conversion == 0 {
		conversion = 1
	}
	return &models.Product{
		SKU:                p.SKU,
		Name:               p.Name,
		Category:           p.Category,
		BaseUnit:           baseUnit,
		BulkUnitName:       p.BulkUnitName,
		BulkUnitConversion: conversion,
		CostPrice:          p.CostPrice,
		PriceRegular:       p.PriceRegular,
		PricePremium:       p.PricePremium,
		PriceStar:          p.PriceStar,
	}, nil
}

func CreateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload productRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := payload.toModel()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Create(r.Context(), product)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

func ListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := svc.List(r.Context(), strings.TrimSpace(r.URL.Query().Get("category")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, products)
	}
}

func GetProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		product, err := svc.Get(r.Context(), chi.URLParam(r, "sku"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func UpdateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload productRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sku := chi.URLParam(r, "sku")
		if payload.SKU != sku {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "sku in body must match the path"))
			return
		}
		product, err := payload.toModel()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.Update(r.Context(), product)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

func DeleteProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sku := chi.URLParam(r, "sku")
		if err := svc.Delete(r.Context(), sku); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"sku": sku, "status": "deleted"})
	}
}

type renameProductRequest struct {
	NewSKU string `json:"new_sku" validate:"required"`
}

// RenameProduct moves a product and its stock to a new SKU atomically.
func RenameProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload renameProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		oldSKU := chi.URLParam(r, "sku")
		if err := svc.Rename(r.Context(), oldSKU, payload.NewSKU); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"old_sku": oldSKU, "new_sku": payload.NewSKU})
	}
}
