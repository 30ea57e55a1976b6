package types

// AnalysisRequest is the body of POST /analyze. ComparisonURLs is accepted
// for wire compatibility but no stage consumes it yet.
type AnalysisRequest struct {
	MainURL        string   `json:"main_url" binding:"required"`
	ComparisonURLs []string `json:"comparison_urls,omitempty"`
}

// AnalysisResults holds one text result per pipeline stage.
type AnalysisResults struct {
	KeywordResults      string `json:"keyword_results"`
	ContentResults      string `json:"content_results"`
	VisualizerResults   string `json:"visualizer_results"`
	ManagerResults      string `json:"manager_results"`
	OnpageResults       string `json:"onpage_results"`
	LinkbuildingResults string `json:"linkbuilding_results"`
}
