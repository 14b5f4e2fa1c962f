package handler

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/url"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog/log"

	"github.com/bbernstein/stopfinder/internal/api"
	"github.com/bbernstein/stopfinder/internal/lookup"
)

type StopHandler struct {
	locator lookup.StopLocator
}

func NewStopHandler(locator lookup.StopLocator) *StopHandler {
	return &StopHandler{
		locator: locator,
	}
}

// HandleRequest answers GET ?place=... and form-encoded POST place_name=...
func (h *StopHandler) HandleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	place := api.ParsePlace(request.QueryStringParameters)

	if place == "" && request.HTTPMethod == http.MethodPost {
		form, err := parseForm(request)
		if err != nil {
			log.Warn().Err(err).Msg("Unreadable form body")
			return api.Error("Invalid request body", http.StatusBadRequest)
		}
		place = api.ParsePlace(map[string]string{"place_name": form.Get("place_name")})
	}

	logger := log.With().Str("request_id", request.RequestContext.RequestID).Logger()
	result := h.locator.FindStopNear(logger.WithContext(ctx), place)

	return api.FromResult(result)
}

func parseForm(request events.APIGatewayProxyRequest) (url.Values, error) {
	body := request.Body
	if request.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return nil, err
		}
		body = string(decoded)
	}
	return url.ParseQuery(body)
}
