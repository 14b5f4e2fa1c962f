package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbernstein/stopfinder/internal/lookup"
	"github.com/bbernstein/stopfinder/internal/models"
)

func TestSuccess(t *testing.T) {
	tests := []struct {
		name         string
		response     interface{}
		responseType string
		want         int
	}{
		{
			name:         "stop response",
			response:     StopResponse{APIResponse: APIResponse{ResponseType: "stop"}},
			responseType: "stop",
			want:         http.StatusOK,
		},
		{
			name:         "error body still succeeds",
			response:     ErrorResponse{APIResponse: APIResponse{ResponseType: "error"}, Error: "test error"},
			responseType: "error",
			want:         http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Success(tt.response)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.StatusCode)

			var resp APIResponse
			require.NoError(t, json.Unmarshal([]byte(got.Body), &resp))
			assert.Equal(t, tt.responseType, resp.ResponseType)

			assert.Equal(t, "application/json", got.Headers["Content-Type"])
			assert.Equal(t, "*", got.Headers["Access-Control-Allow-Origin"])
		})
	}
}

func TestError(t *testing.T) {
	got, err := Error("test error", http.StatusBadRequest)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, got.StatusCode)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(got.Body), &resp))
	assert.Equal(t, "error", resp.ResponseType)
	assert.Equal(t, "test error", resp.Error)
}

func TestFromResult(t *testing.T) {
	found := lookup.Result{
		Outcome:     lookup.OutcomeFound,
		Place:       "Boston Common",
		Coordinates: models.Coordinates{Latitude: 42.355, Longitude: -71.0656},
		Stop: &models.Stop{
			ID:            "place-pktrm",
			Name:          "Park Street",
			Distance:      0.3,
			Accessibility: models.AccessibilityAccessible,
		},
		Arrival: models.Arrival{Available: true, DisplayTime: "2:03 PM", MinutesUntil: 3, RouteID: "Red"},
	}

	tests := []struct {
		name        string
		result      lookup.Result
		wantStatus  int
		wantMessage string
	}{
		{name: "found", result: found, wantStatus: http.StatusOK},
		{
			name:        "empty input",
			result:      lookup.Result{Outcome: lookup.OutcomeEmptyInput},
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Please enter a location.",
		},
		{
			name:        "no result",
			result:      lookup.Result{Outcome: lookup.OutcomeNoResult, Place: "Qwxyz123"},
			wantStatus:  http.StatusNotFound,
			wantMessage: "No nearby MBTA stations were found.",
		},
		{
			name:        "failed hides the cause",
			result:      lookup.Result{Outcome: lookup.OutcomeFailed, Err: errors.New("MBTA API error: secret detail")},
			wantStatus:  http.StatusBadGateway,
			wantMessage: "There was a problem finding a station.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromResult(tt.result)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, got.StatusCode)

			if tt.wantMessage != "" {
				var resp ErrorResponse
				require.NoError(t, json.Unmarshal([]byte(got.Body), &resp))
				assert.Equal(t, tt.wantMessage, resp.Error)
				assert.NotContains(t, got.Body, "secret")
				return
			}

			var resp StopResponse
			require.NoError(t, json.Unmarshal([]byte(got.Body), &resp))
			assert.Equal(t, "stop", resp.ResponseType)
			assert.Equal(t, "Park Street", resp.Stop.Name)
			assert.Equal(t, models.AccessibilityAccessible, resp.Stop.Accessibility)
			assert.Equal(t, "Wheelchair accessible", resp.Stop.Description)
			assert.Equal(t, 42.355, resp.Latitude)
			require.NotNil(t, resp.Arrival)
			assert.Equal(t, 3, resp.Arrival.MinutesUntil)
		})
	}
}

func TestNewStopResponseWithoutArrival(t *testing.T) {
	resp := NewStopResponse(lookup.Result{
		Outcome: lookup.OutcomeFound,
		Stop:    &models.Stop{ID: "1", Name: "Charles St", Accessibility: models.AccessibilityUnknown},
		Arrival: models.NoArrival,
	})

	assert.Nil(t, resp.Arrival)
	assert.Equal(t, "Accessibility unknown", resp.Stop.Description)
}

func TestParsePlace(t *testing.T) {
	assert.Equal(t, "Boston Common", ParsePlace(map[string]string{"place": " Boston Common "}))
	assert.Equal(t, "Fenway", ParsePlace(map[string]string{"place_name": "Fenway"}))
	assert.Equal(t, "", ParsePlace(nil))
}
