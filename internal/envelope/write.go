package envelope

import (
	"encoding/json"
	"net/http"
)

// Write sends reply as JSON with its status code.
func Write(w http.ResponseWriter, reply Reply) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(reply.Status)
	return json.NewEncoder(w).Encode(reply.Body)
}
