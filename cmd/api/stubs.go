package main

import "net/http"

// stubHandler answers every verb with the placeholder message the frontend
// expects from the not-yet-built parts of the backend. Keep the wording
// stable; clients match on it.
func (app *application) stubHandler(feature string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"message": feature + " to be implemented",
		})
	}
}
