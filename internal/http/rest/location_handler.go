package rest

import (
	"errors"
	"net/http"

	"github.com/bwise1/whereintheworld/internal/model"
	"github.com/bwise1/whereintheworld/internal/sources"
	"github.com/bwise1/whereintheworld/util"
	"github.com/bwise1/whereintheworld/util/tracing"
	"github.com/bwise1/whereintheworld/util/values"
	"github.com/go-chi/chi/v5"
)

type LocationResponse struct {
	Label    string `json:"label"`
	Active   bool   `json:"active"`
	State    string `json:"state"`
	InFlight bool   `json:"inFlight"`
}

func (api *API) LocationRoutes(r chi.Router) {
	r.Method(http.MethodGet, "/location", Handler(api.GetLocation))
	r.Method(http.MethodPost, "/tracking", Handler(api.ToggleTracking))
	r.Method(http.MethodPost, "/coordinates", Handler(api.PushCoordinates))
}

func (api *API) GetLocation(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	snap := api.Deps.Tracker.Snapshot()
	return &ServerResponse{
		Message:    "Current location",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data: LocationResponse{
			Label:    api.Deps.Display.Label(),
			Active:   snap.Active,
			State:    snap.State.String(),
			InFlight: snap.InFlight,
		},
	}
}

func (api *API) ToggleTracking(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	var req model.TrackingRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}

	if err := api.Deps.Tracker.SetTracking(r.Context(), req.Active); err != nil {
		return respondWithError(err, "tracker unavailable", values.Unavailable, &tc)
	}

	return &ServerResponse{
		Message:    "Tracking updated",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       req,
	}
}

func (api *API) PushCoordinates(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	var req model.Coordinate
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}

	if err := util.ValidateStruct(req); err != nil {
		return respondWithError(err, "validation failed", values.BadRequestBody, &tc)
	}

	if err := api.Deps.Coordinates.Push(req); err != nil {
		if errors.Is(err, sources.ErrNotStarted) {
			return respondWithError(err, "coordinate tracking is not active", values.Conflict, &tc)
		}
		return respondWithError(err, "unable to accept coordinates", values.Error, &tc)
	}

	return &ServerResponse{
		Message:    "Coordinates accepted",
		Status:     values.Success,
		StatusCode: http.StatusAccepted,
	}
}
