package tts

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr bool
	}{
		{"neutral", Request{Text: "hi", Style: DefaultStyle()}, false},
		{"empty text", Request{Text: "  ", Style: DefaultStyle()}, true},
		{"zero pitch", Request{Text: "hi", Style: Style{Pitch: 0, Speed: 1}}, true},
		{"negative speed", Request{Text: "hi", Style: Style{Pitch: 1, Speed: -1}}, true},
		{"nan pitch", Request{Text: "hi", Style: Style{Pitch: math.NaN(), Speed: 1}}, true},
		{"infinite speed", Request{Text: "hi", Style: Style{Pitch: 1, Speed: math.Inf(1)}}, true},
		{"small multipliers", Request{Text: "hi", Style: Style{Pitch: 0.1, Speed: 0.1}}, false},
		{"ssml ignores style", Request{Text: "<speak>hi</speak>", IsSSML: true, Style: Style{Pitch: 0, Speed: -1}}, false},
		{"empty ssml", Request{Text: "", IsSSML: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRequest)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAPIError_Error(t *testing.T) {
	err := &APIError{Code: 400, Message: "Invalid SSML", Status: "INVALID_ARGUMENT"}
	assert.Equal(t, "api error (code 400, status INVALID_ARGUMENT): Invalid SSML", err.Error())
}
