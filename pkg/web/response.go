package web

// JSONError provides type for explicit json encoded error response.
type JSONError struct {
	Error string `json:"error"`
}

// Error wraps a given err into a json friendly struct.
func Error(err error) JSONError {
	return JSONError{Error: err.Error()}
}
