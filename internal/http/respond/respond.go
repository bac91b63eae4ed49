package respond

import (
	"encoding/json"
	"log"
	"net/http"
)

// JSON writes payload as a JSON response with the given status. The API
// contract fixes exact body shapes per endpoint, so there is no shared
// envelope here.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("respond: encode payload failed: %v", err)
	}
}
