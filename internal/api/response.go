package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"github.com/bbernstein/stopfinder/internal/lookup"
	"github.com/bbernstein/stopfinder/internal/models"
)

type APIResponse struct {
	ResponseType string `json:"responseType"`
}

type StopInfo struct {
	ID            string               `json:"id"`
	Name          string               `json:"name"`
	Accessibility models.Accessibility `json:"accessibility"`
	Description   string               `json:"accessibilityDescription"`
	Distance      float64              `json:"distance"`
}

type ArrivalInfo struct {
	DisplayTime  string `json:"displayTime"`
	MinutesUntil int    `json:"minutesUntil"`
	RouteID      string `json:"routeId,omitempty"`
}

type StopResponse struct {
	APIResponse
	Place     string       `json:"place"`
	Latitude  float64      `json:"latitude"`
	Longitude float64      `json:"longitude"`
	Stop      StopInfo     `json:"stop"`
	Arrival   *ArrivalInfo `json:"arrival"`
}

type ErrorResponse struct {
	APIResponse
	Error string `json:"error"`
}

// NewStopResponse builds the success body from a found lookup result.
func NewStopResponse(result lookup.Result) *StopResponse {
	resp := &StopResponse{
		APIResponse: APIResponse{ResponseType: "stop"},
		Place:       result.Place,
		Latitude:    result.Coordinates.Latitude,
		Longitude:   result.Coordinates.Longitude,
	}
	if result.Stop != nil {
		resp.Stop = StopInfo{
			ID:            result.Stop.ID,
			Name:          result.Stop.Name,
			Accessibility: result.Stop.Accessibility,
			Description:   result.Stop.Accessibility.Description(),
			Distance:      result.Stop.Distance,
		}
	}
	if result.Arrival.Available {
		resp.Arrival = &ArrivalInfo{
			DisplayTime:  result.Arrival.DisplayTime,
			MinutesUntil: result.Arrival.MinutesUntil,
			RouteID:      result.Arrival.RouteID,
		}
	}
	return resp
}

func NewErrorResponse(message string) *ErrorResponse {
	return &ErrorResponse{
		APIResponse: APIResponse{ResponseType: "error"},
		Error:       message,
	}
}

// StatusForOutcome maps a pipeline outcome to the HTTP status returned to clients.
func StatusForOutcome(outcome lookup.Outcome) int {
	switch outcome {
	case lookup.OutcomeFound:
		return http.StatusOK
	case lookup.OutcomeEmptyInput:
		return http.StatusBadRequest
	case lookup.OutcomeNoResult:
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

// FromResult renders any lookup result as an API Gateway response.
func FromResult(result lookup.Result) (events.APIGatewayProxyResponse, error) {
	if result.Found() {
		return Success(NewStopResponse(result))
	}
	return Error(result.Message(), StatusForOutcome(result.Outcome))
}

// Response helpers
func Success(body interface{}) (events.APIGatewayProxyResponse, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return Error("Internal Server Error", http.StatusInternalServerError)
	}

	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers: map[string]string{
			"Content-Type":                "application/json",
			"Access-Control-Allow-Origin": "*",
		},
		Body: string(jsonBody),
	}, nil
}

func Error(message string, statusCode int) (events.APIGatewayProxyResponse, error) {
	body, _ := json.Marshal(NewErrorResponse(message))

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers: map[string]string{
			"Content-Type":                "application/json",
			"Access-Control-Allow-Origin": "*",
		},
		Body: string(body),
	}, nil
}

// ParsePlace reads the place name from the query string, falling back to
// the form field used by the web page.
func ParsePlace(params map[string]string) string {
	if place, ok := params["place"]; ok {
		return strings.TrimSpace(place)
	}
	return strings.TrimSpace(params["place_name"])
}
