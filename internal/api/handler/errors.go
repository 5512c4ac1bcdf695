package handler

// ErrorResponse is the standard error envelope returned on all 4xx/5xx
// responses. Handlers only return errors; the API error handler renders them.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
