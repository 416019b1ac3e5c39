package models

// ErrorResponse is the body of 401, 404 and 5xx responses.
type ErrorResponse struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// DuplicateKeyResponse is the 409 body naming the colliding field.
type DuplicateKeyResponse struct {
	Valid   bool   `json:"valid"`
	Param   string `json:"param"`
	Message string `json:"message"`
}
