package dto

// OCRSpaceResponse is the response body of the OCR.space parse endpoint.
type OCRSpaceResponse struct {
	ParsedResults                []OCRSpaceParsedResult `json:"ParsedResults"`
	OCRExitCode                  int                    `json:"OCRExitCode"`
	IsErroredOnProcessing        bool                   `json:"IsErroredOnProcessing"`
	ErrorMessage                 StringOrList           `json:"ErrorMessage"`
	ErrorDetails                 string                 `json:"ErrorDetails"`
	ProcessingTimeInMilliseconds string                 `json:"ProcessingTimeInMilliseconds"`
}

// OCRSpaceParsedResult is one parsed page.
type OCRSpaceParsedResult struct {
	FileParseExitCode int    `json:"FileParseExitCode"`
	ParsedText        string `json:"ParsedText"`
	ErrorMessage      string `json:"ErrorMessage"`
	ErrorDetails      string `json:"ErrorDetails"`
}
