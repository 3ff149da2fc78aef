package api

const (
	useCasesRoute = "/api/use-cases"
	jsonIndent    = "  "
)

// error response body for every failed API request
type errorResponse struct {
	Error string `json:"error"`
}
