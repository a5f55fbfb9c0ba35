package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/vegthaliclub/catering-backend/api/middleware"
	"github.com/vegthaliclub/catering-backend/api/responses"
	"github.com/vegthaliclub/catering-backend/api/validators"
	"github.com/vegthaliclub/catering-backend/internal/configurator"
	"github.com/vegthaliclub/catering-backend/internal/wizard"
	pkgerrors "github.com/vegthaliclub/catering-backend/pkg/errors"
	"github.com/vegthaliclub/catering-backend/pkg/logger"
)

type openOrderRequest struct {
	Package string `json:"package" validate:"required"`
}

type itemRequest struct {
	Item string `json:"item" validate:"required"`
}

type weightRequest struct {
	WeightKg *decimal.Decimal `json:"weight_kg" validate:"required"`
}

type partySizeRequest struct {
	PartySize *int `json:"party_size" validate:"required"`
}

type addOnRequest struct {
	Include *bool `json:"include" validate:"required"`
}

// orderCall runs one configurator operation for the client on the request.
type orderCall func(w http.ResponseWriter, r *http.Request, client string) (configurator.View, error)

func orderHandler(logg *logger.Logger, call orderCall) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		client := middleware.ClientIDFromContext(r.Context())
		if client == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "client id missing"))
			return
		}
		view, err := call(w, r, client)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// noBody adapts configurator operations that only need the client.
func noBody(op func(ctx context.Context, client string) (configurator.View, error)) orderCall {
	return func(_ http.ResponseWriter, r *http.Request, client string) (configurator.View, error) {
		return op(r.Context(), client)
	}
}

func OrderCurrent(svc configurator.Service, logg *logger.Logger) http.HandlerFunc {
	return orderHandler(logg, noBody(svc.Current))
}

func OrderOpen(svc configurator.Service, logg *logger.Logger) http.HandlerFunc {
	return orderHandler(logg, func(w http.ResponseWriter, r *http.Request, client string) (configurator.View, error) {
		var req openOrderRequest
		if err := validators.DecodeJSONBody(w, r, &req); err != nil {
			return configurator.View{}, err
		}
		return svc.Open(r.Context(), client, req.Package)
	})
}

func OrderClose(svc configurator.Service, logg *logger.Logger) http.HandlerFunc {
	return orderHandler(logg, noBody(svc.Close))
}

// OrderToggle flips an item in a multi-choice step.
func OrderToggle(svc configurator.Service, logg *logger.Logger) http.HandlerFunc {
	return orderHandler(logg, stepItem(svc.Toggle))
}

// OrderSelectBread sets the bread choice of a single-choice step.
func OrderSelectBread(svc configurator.Service, logg *logger.Logger) http.HandlerFunc {
	return orderHandler(logg, stepItem(svc.SelectBread))
}

func stepItem(op func(ctx context.Context, client string, step int, item string) (configurator.View, error)) orderCall {
	return func(w http.ResponseWriter, r *http.Request, client string) (configurator.View, error) {
		step, err := strconv.Atoi(chi.URLParam(r, "step"))
		if err != nil {
			return configurator.View{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid step")
		}
		var req itemRequest
		if err := validators.DecodeJSONBody(w, r, &req); err != nil {
			return configurator.View{}, err
		}
		return op(r.Context(), client, step, req.Item)
	}
}

func OrderSetWeight(svc configurator.Service, logg *logger.Logger) http.HandlerFunc {
	return orderHandler(logg, func(w http.ResponseWriter, r *http.Request, client string) (configurator.View, error) {
		var req weightRequest
		if err := validators.DecodeJSONBody(w, r, &req); err != nil {
			return configurator.View{}, err
		}
		return svc.SetWeight(r.Context(), client, *req.WeightKg)
	})
}

func OrderSetPartySize(svc configurator.Service, logg *logger.Logger) http.HandlerFunc {
	return orderHandler(logg, func(w http.ResponseWriter, r *http.Request, client string) (configurator.View, error) {
		var req partySizeRequest
		if err := validators.DecodeJSONBody(w, r, &req); err != nil {
			return configurator.View{}, err
		}
		return svc.SetPartySize(r.Context(), client, *req.PartySize)
	})
}

func OrderSetAddOn(svc configurator.Service, logg *logger.Logger) http.HandlerFunc {
	return orderHandler(logg, func(w http.ResponseWriter, r *http.Request, client string) (configurator.View, error) {
		var req addOnRequest
		if err := validators.DecodeJSONBody(w, r, &req); err != nil {
			return configurator.View{}, err
		}
		return svc.SetAddOn(r.Context(), client, *req.Include)
	})
}

// OrderUpdateContact replaces the contact form. Fields are checked on submit.
func OrderUpdateContact(svc configurator.Service, logg *logger.Logger) http.HandlerFunc {
	return orderHandler(logg, func(w http.ResponseWriter, r *http.Request, client string) (configurator.View, error) {
		var form wizard.ContactForm
		if err := validators.DecodeJSONBody(w, r, &form); err != nil {
			return configurator.View{}, err
		}
		return svc.UpdateContact(r.Context(), client, form)
	})
}

func OrderNext(svc configurator.Service, logg *logger.Logger) http.HandlerFunc {
	return orderHandler(logg, noBody(svc.Next))
}

func OrderBack(svc configurator.Service, logg *logger.Logger) http.HandlerFunc {
	return orderHandler(logg, noBody(svc.Back))
}

func OrderCheckout(svc configurator.Service, logg *logger.Logger) http.HandlerFunc {
	return orderHandler(logg, noBody(svc.Checkout))
}

func OrderSubmit(svc configurator.Service, logg *logger.Logger) http.HandlerFunc {
	return orderHandler(logg, noBody(svc.Submit))
}
