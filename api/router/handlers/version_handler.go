package handlers

import (
	"net/http"

	"openkeep/version"
)

// GetVersionHandler returns the application version.
// @Summary Get application version
// @Description Retrieves the version the server binary was built with.
// @Tags Version
// @Produce json
// @Success 200 {object} map[string]string "{"version": "1.0.0"}"
// @Router /version [get]
func GetVersionHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": version.AppVersion})
}
