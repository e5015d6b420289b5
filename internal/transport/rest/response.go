package rest

import (
	"encoding/json"
	"net/http"
)

type Response struct {
	Status  bool              `json:"status"`
	Message string            `json:"message,omitempty"`
	Data    any               `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, res *Response) {
	res.Status = code < http.StatusBadRequest

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(res)
}

func writeValidationError(w http.ResponseWriter, errs map[string]string) {
	writeJSON(w, http.StatusUnprocessableEntity, &Response{
		Message: "validation failed",
		Errors:  errs,
	})
}
