package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/bwise1/whereintheworld/internal/model"
	"github.com/bwise1/whereintheworld/internal/preferences"
	"github.com/bwise1/whereintheworld/util"
	"github.com/bwise1/whereintheworld/util/tracing"
	"github.com/bwise1/whereintheworld/util/values"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

func (api *API) KnownLocationRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Method(http.MethodGet, "/", Handler(api.GetKnownLocations))
	mux.Method(http.MethodPost, "/", Handler(api.CreateKnownLocation))
	mux.Method(http.MethodPut, "/{id}", Handler(api.UpdateKnownLocation))
	mux.Method(http.MethodDelete, "/{id}", Handler(api.DeleteKnownLocation))
	return mux
}

func (api *API) GetKnownLocations(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	locations, err := api.Deps.Preferences.GetKnownLocations(r.Context())
	if err != nil {
		return respondWithError(err, "failed to load known locations", values.Error, &tc)
	}

	return &ServerResponse{
		Message:    "Known locations retrieved successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       locations,
	}
}

func (api *API) CreateKnownLocation(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	return api.saveKnownLocation(r, 0)
}

func (api *API) UpdateKnownLocation(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		return respondWithError(err, "invalid known location id", values.BadRequestBody, &tc)
	}
	return api.saveKnownLocation(r, id)
}

func (api *API) saveKnownLocation(r *http.Request, id int) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	var req model.KnownLocationRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}

	if err := util.ValidateStruct(req); err != nil {
		return respondWithError(err, "validation failed", values.BadRequestBody, &tc)
	}

	saved, err := api.Deps.Preferences.SaveKnownLocation(r.Context(), req.ToKnownLocation(id))
	if err != nil {
		return storeError(err, "failed to save known location", &tc)
	}

	status := values.Success
	if id == 0 {
		status = values.Created
	}
	return &ServerResponse{
		Message:    "Known location saved successfully",
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       saved,
	}
}

func (api *API) DeleteKnownLocation(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return respondWithError(err, "invalid known location id", values.BadRequestBody, &tc)
	}

	if err := api.Deps.Preferences.DeleteKnownLocation(r.Context(), id); err != nil {
		return storeError(err, "failed to delete known location", &tc)
	}

	return &ServerResponse{
		Message:    "Known location deleted successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
	}
}

// storeError maps preference store failures onto response statuses.
func storeError(err error, message string, tc *tracing.Context) *ServerResponse {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.Is(err, preferences.ErrNotFound):
		return respondWithError(err, "not found", values.NotFound, tc)
	case errors.As(err, &validationErrs):
		return respondWithError(err, "validation failed", values.BadRequestBody, tc)
	default:
		return respondWithError(err, message, values.Error, tc)
	}
}
