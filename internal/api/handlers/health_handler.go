package handlers

import (
	"net/http"

	"gorm.io/gorm"
)

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// HealthCheckHandler checks API health and the database connection
func HealthCheckHandler(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := healthResponse{Status: "API is running"}

		sqlDB, err := db.DB()
		if err != nil {
			response.Database = "Database connection failed"
			respondWithJSON(w, http.StatusInternalServerError, response)
			return
		}

		if err := sqlDB.Ping(); err != nil {
			response.Database = "Database connection failed"
			respondWithJSON(w, http.StatusInternalServerError, response)
			return
		}

		response.Database = "Database connection is healthy"
		respondWithJSON(w, http.StatusOK, response)
	}
}
