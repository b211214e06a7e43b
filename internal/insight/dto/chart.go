package dto

// ChartImageResponse is the JSON variant of the chart service response, pointing at the rendered image.
type ChartImageResponse struct {
	ChartURL string `json:"chart_url"`
	Error    string `json:"error,omitempty"`
}
