package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"swachhgonda-backend/internal/middleware"
	"swachhgonda-backend/internal/models"
	"swachhgonda-backend/internal/reports"
	"swachhgonda-backend/internal/services"
	"swachhgonda-backend/internal/websocket"
	"swachhgonda-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const maxUploadBytes = 10 << 20 // 10 MB

// SubmitReport accepts a multipart waste report, runs the submission workflow
// and notifies the report's zone (officers over WebSocket, workers over FCM).
func SubmitReport(db *sqlx.DB, svc *reports.Service, hub *websocket.Hub, fcm *services.FCMService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		log.Printf("📥 REQUEST: POST /api/reports (user %s)", userClaims.UserID)

		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid multipart form")
			return
		}

		sub := reports.Submission{
			UserID:         userClaims.UserID,
			Description:    r.FormValue("description"),
			Category:       r.FormValue("category"),
			DisposalMethod: r.FormValue("disposal_method"),
			Address:        r.FormValue("address"),
		}

		// Malformed coordinates are treated as absent, never an error.
		if lat, err := strconv.ParseFloat(r.FormValue("latitude"), 64); err == nil {
			if lng, err := strconv.ParseFloat(r.FormValue("longitude"), 64); err == nil {
				sub.Latitude = &lat
				sub.Longitude = &lng
			}
		}

		if photoURL := savePhoto(r); photoURL != "" {
			sub.PhotoURL = &photoURL
		} else if url := strings.TrimSpace(r.FormValue("photo_url")); url != "" {
			sub.PhotoURL = &url
		}

		result, err := svc.Submit(sub)
		if errors.Is(err, reports.ErrDescriptionTooShort) {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		if errors.Is(err, reports.ErrUserNotFound) {
			utils.RespondError(w, http.StatusNotFound, "User not found")
			return
		}
		if err != nil {
			log.Printf("❌ Submission failed for user %s: %v", userClaims.UserID, err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to submit report")
			return
		}

		log.Printf("✅ Report #%d submitted in %s (+%d credits)", result.ReportNumber, result.Zone, result.CreditsEarned)

		hub.BroadcastReportEvent(result.Zone, map[string]interface{}{
			"type": "report_created",
			"data": map[string]interface{}{
				"report_id":     result.ReportID,
				"report_number": result.ReportNumber,
				"zone":          result.Zone,
				"quality_score": result.QualityScore,
			},
		})

		go notifyZoneWorkers(db, fcm, result.Zone, result.ReportNumber)

		utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
			"success": true,
			"result":  result,
		})
	}
}

// savePhoto stores an uploaded photo under UPLOAD_DIR and returns its public
// path, or "" when no usable file was attached.
func savePhoto(r *http.Request) string {
	file, header, err := r.FormFile("photo")
	if err != nil {
		return ""
	}
	defer file.Close()

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "./uploads"
	}
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		log.Printf("⚠️  Failed to create upload dir: %v", err)
		return ""
	}

	name := uuid.New().String() + filepath.Ext(header.Filename)
	dst, err := os.Create(filepath.Join(uploadDir, name))
	if err != nil {
		log.Printf("⚠️  Failed to store photo: %v", err)
		return ""
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		log.Printf("⚠️  Failed to write photo: %v", err)
		return ""
	}

	return "/uploads/" + name
}

func notifyZoneWorkers(db *sqlx.DB, fcm *services.FCMService, zone string, reportNumber int) {
	if fcm == nil {
		return
	}

	var tokens []string
	err := db.Select(&tokens, `
		SELECT t.token FROM fcm_tokens t
		JOIN users u ON u.id = t.user_id
		WHERE u.role IN ('worker', 'officer') AND u.zone = $1
	`, zone)
	if err != nil {
		log.Printf("⚠️  Failed to load worker tokens for %s: %v", zone, err)
		return
	}

	for _, token := range tokens {
		if err := fcm.SendNewReportNotification(token, zone, reportNumber); err != nil {
			log.Printf("⚠️  FCM send failed: %v", err)
		}
	}
}

// GetMyReports returns the authenticated user's reports, newest first.
func GetMyReports(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var list []models.Report
		err := db.Select(&list, `SELECT * FROM reports WHERE user_id = $1 ORDER BY created_at DESC`, userClaims.UserID)
		if err != nil {
			log.Printf("❌ Error fetching reports: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch reports")
			return
		}

		response := make([]models.ReportResponse, len(list))
		for i := range list {
			response[i] = list[i].ToReportResponse()
		}
		utils.RespondJSON(w, http.StatusOK, response)
	}
}

// GetReport returns one report. Citizens can only see their own; workers and
// officers only reports in their zone.
func GetReport(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		id := chi.URLParam(r, "id")

		var report models.Report
		if err := db.Get(&report, `SELECT * FROM reports WHERE id = $1`, id); err != nil {
			utils.RespondError(w, http.StatusNotFound, "Report not found")
			return
		}

		switch userClaims.Role {
		case "citizen":
			if report.UserID != userClaims.UserID {
				utils.RespondError(w, http.StatusForbidden, "Forbidden")
				return
			}
		case "worker", "officer":
			if report.Zone != userClaims.Zone {
				utils.RespondError(w, http.StatusForbidden, "Forbidden")
				return
			}
		}

		utils.RespondJSON(w, http.StatusOK, report.ToReportResponse())
	}
}
