package ocr

import (
	"encoding/json"
	"strings"
)

// parseResponse mirrors the OCR.space parse endpoint envelope. Only the
// fields the client acts on are decoded.
type parseResponse struct {
	ParsedResults         []parsedResult `json:"ParsedResults"`
	OCRExitCode           int            `json:"OCRExitCode"`
	IsErroredOnProcessing bool           `json:"IsErroredOnProcessing"`
	ErrorMessage          errorMessage   `json:"ErrorMessage"`
}

type parsedResult struct {
	ParsedText        string `json:"ParsedText"`
	FileParseExitCode int    `json:"FileParseExitCode"`
	ErrorMessage      string `json:"ErrorMessage"`
}

// errorMessage tolerates the provider returning either a bare string or an
// array of strings for the top-level error field.
type errorMessage string

func (e *errorMessage) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*e = errorMessage(single)
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*e = errorMessage(strings.Join(many, "; "))
	return nil
}

// firstError returns the most specific processing error in the response.
func (r *parseResponse) firstError() string {
	for _, pr := range r.ParsedResults {
		if pr.ErrorMessage != "" {
			return pr.ErrorMessage
		}
	}
	return string(r.ErrorMessage)
}
