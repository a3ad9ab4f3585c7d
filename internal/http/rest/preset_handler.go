package rest

import (
	"net/http"
	"strconv"

	"github.com/bwise1/whereintheworld/internal/model"
	"github.com/bwise1/whereintheworld/util"
	"github.com/bwise1/whereintheworld/util/tracing"
	"github.com/bwise1/whereintheworld/util/values"
	"github.com/go-chi/chi/v5"
)

type ExpirationOption struct {
	Seconds int    `json:"seconds"`
	Label   string `json:"label"`
}

func (api *API) PresetRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Method(http.MethodGet, "/", Handler(api.GetPresets))
	mux.Method(http.MethodPost, "/", Handler(api.CreatePreset))
	mux.Method(http.MethodGet, "/expirations", Handler(api.GetExpirations))
	mux.Method(http.MethodPut, "/{id}", Handler(api.UpdatePreset))
	mux.Method(http.MethodDelete, "/{id}", Handler(api.DeletePreset))
	mux.Method(http.MethodPost, "/{id}/apply", Handler(api.ApplyPreset))
	return mux
}

func (api *API) GetPresets(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	presets, err := api.Deps.Preferences.GetManualPresets(r.Context())
	if err != nil {
		return respondWithError(err, "failed to load presets", values.Error, &tc)
	}

	return &ServerResponse{
		Message:    "Presets retrieved successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       presets,
	}
}

func (api *API) GetExpirations(_ http.ResponseWriter, _ *http.Request) *ServerResponse {
	options := make([]ExpirationOption, 0, len(model.PresetExpirations))
	for _, seconds := range model.PresetExpirations {
		options = append(options, ExpirationOption{Seconds: seconds, Label: model.ExpirationLabel(seconds)})
	}

	return &ServerResponse{
		Message:    "Expiration options",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       options,
	}
}

func (api *API) CreatePreset(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	return api.savePreset(r, 0)
}

func (api *API) UpdatePreset(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		return respondWithError(err, "invalid preset id", values.BadRequestBody, &tc)
	}
	return api.savePreset(r, id)
}

func (api *API) savePreset(r *http.Request, id int) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	var req model.PresetRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}

	if err := util.ValidateStruct(req); err != nil {
		return respondWithError(err, "validation failed", values.BadRequestBody, &tc)
	}

	saved, err := api.Deps.Preferences.SaveManualPreset(r.Context(), req.ToPreset(id))
	if err != nil {
		return storeError(err, "failed to save preset", &tc)
	}

	status := values.Success
	if id == 0 {
		status = values.Created
	}
	return &ServerResponse{
		Message:    "Preset saved successfully",
		Status:     status,
		StatusCode: util.StatusCode(status),
		Data:       saved,
	}
}

func (api *API) DeletePreset(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return respondWithError(err, "invalid preset id", values.BadRequestBody, &tc)
	}

	if err := api.Deps.Preferences.DeleteManualPreset(r.Context(), id); err != nil {
		return storeError(err, "failed to delete preset", &tc)
	}

	return &ServerResponse{
		Message:    "Preset deleted successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
	}
}

// ApplyPreset writes the preset to the remote status, bypassing the
// automatic-update guard.
func (api *API) ApplyPreset(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return respondWithError(err, "invalid preset id", values.BadRequestBody, &tc)
	}

	preset, err := api.Deps.Status.RequestManualStatus(r.Context(), id)
	if err != nil {
		return storeError(err, "failed to apply preset", &tc)
	}

	return &ServerResponse{
		Message:    "Preset applied",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       preset,
	}
}
