package rest

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"
)

// WriteJSONError отправляет JSON-ответ с полем "error" и заданным статусом
func WriteJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}

// RespondWithJSON отправляет JSON-ответ
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Failed to marshal JSON response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// GetHoursOrDefault читает параметр hours как длительность окна
func GetHoursOrDefault(r *http.Request, defaultHours int) (time.Duration, error) {
	hoursStr := r.URL.Query().Get("hours")
	hours := defaultHours
	if hoursStr != "" {
		var err error
		hours, err = strconv.Atoi(hoursStr)
		if err != nil {
			return 0, err
		}
	}
	return time.Duration(hours) * time.Hour, nil
}
