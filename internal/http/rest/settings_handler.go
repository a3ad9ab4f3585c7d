package rest

import (
	"net/http"

	"github.com/bwise1/whereintheworld/internal/model"
	"github.com/bwise1/whereintheworld/util"
	"github.com/bwise1/whereintheworld/util/tracing"
	"github.com/bwise1/whereintheworld/util/values"
	"github.com/go-chi/chi/v5"
)

// SecretsResponse never echoes key material.
type SecretsResponse struct {
	GoogleAPIKeySet  bool `json:"googleApiKeySet"`
	SlackAPIKeySet   bool `json:"slackApiKeySet"`
	UseOpenStreetMap bool `json:"useOpenStreetMap"`
}

func (api *API) SettingsRoutes() chi.Router {
	mux := chi.NewRouter()
	mux.Method(http.MethodPut, "/secrets", Handler(api.UpdateSecrets))
	return mux
}

func (api *API) UpdateSecrets(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	var req model.SecretsRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}

	keys, err := api.Deps.Preferences.UpdateSecrets(r.Context(), req)
	if err != nil {
		return respondWithError(err, "failed to save secrets", values.Error, &tc)
	}
	api.Deps.ApplySecrets(keys)

	return &ServerResponse{
		Message:    "Secrets updated",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data: SecretsResponse{
			GoogleAPIKeySet:  keys.Google != "",
			SlackAPIKeySet:   keys.Slack != "",
			UseOpenStreetMap: keys.UseOpenStreetMap,
		},
	}
}
