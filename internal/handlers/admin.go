package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"swachhgonda-backend/internal/middleware"
	"swachhgonda-backend/internal/models"
	"swachhgonda-backend/internal/reports"
	"swachhgonda-backend/internal/services"
	"swachhgonda-backend/internal/websocket"
	"swachhgonda-backend/internal/zones"
	"swachhgonda-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

// GetZoneReports lists reports for the caller's assigned zone. Super admins
// see every zone; an optional status query filters further.
func GetZoneReports(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		status := r.URL.Query().Get("status")

		query := `SELECT * FROM reports`
		var args []interface{}
		var where []string

		if userClaims.Role != "super_admin" {
			if userClaims.Zone == "" {
				utils.RespondError(w, http.StatusForbidden, "No zone assigned")
				return
			}
			args = append(args, userClaims.Zone)
			where = append(where, "zone = $1")
		}
		if status != "" {
			args = append(args, status)
			if len(where) == 0 {
				where = append(where, "status = $1")
			} else {
				where = append(where, "status = $2")
			}
		}
		for i, clause := range where {
			if i == 0 {
				query += " WHERE " + clause
			} else {
				query += " AND " + clause
			}
		}
		query += " ORDER BY created_at DESC"

		var list []models.Report
		if err := db.Select(&list, query, args...); err != nil {
			log.Printf("❌ Error fetching zone reports: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch reports")
			return
		}

		response := make([]models.ReportResponse, len(list))
		for i := range list {
			response[i] = list[i].ToReportResponse()
		}

		log.Printf("✅ Found %d reports (zone: '%s', status: '%s')", len(response), userClaims.Zone, status)
		utils.RespondJSON(w, http.StatusOK, response)
	}
}

// UpdateReportStatus transitions a report's lifecycle. Verification triggers
// the citizen's credit award inside the service; the citizen is then told
// over WebSocket and FCM.
func UpdateReportStatus(db *sqlx.DB, svc *reports.Service, hub *websocket.Hub, fcm *services.FCMService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		id := chi.URLParam(r, "id")

		var req models.UpdateReportStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		// Workers and officers may only touch reports in their own zone.
		if userClaims.Role != "super_admin" {
			var zone string
			if err := db.Get(&zone, `SELECT zone FROM reports WHERE id = $1`, id); err != nil {
				utils.RespondError(w, http.StatusNotFound, "Report not found")
				return
			}
			if zone != userClaims.Zone {
				utils.RespondError(w, http.StatusForbidden, "Report is outside your zone")
				return
			}
		}

		report, err := svc.UpdateStatus(id, req.Status, userClaims.UserID)
		if errors.Is(err, reports.ErrReportNotFound) {
			utils.RespondError(w, http.StatusNotFound, "Report not found")
			return
		}
		if errors.Is(err, reports.ErrInvalidTransition) {
			utils.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err != nil {
			log.Printf("❌ Status update failed for report %s: %v", id, err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to update report")
			return
		}

		log.Printf("✅ Report #%d -> %s (by %s)", report.ReportNumber, report.Status, userClaims.Email)

		hub.BroadcastToUser(report.UserID, map[string]interface{}{
			"type": "report_status_changed",
			"data": map[string]interface{}{
				"report_id":     report.ID,
				"report_number": report.ReportNumber,
				"status":        report.Status,
			},
		})
		hub.BroadcastReportEvent(report.Zone, map[string]interface{}{
			"type": "report_status_changed",
			"data": map[string]interface{}{
				"report_id":     report.ID,
				"report_number": report.ReportNumber,
				"status":        report.Status,
			},
		})

		if report.Status == models.ReportStatusVerified {
			go notifyCitizenVerified(db, fcm, report.UserID, report.ReportNumber)
		}

		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"report":  report.ToReportResponse(),
		})
	}
}

func notifyCitizenVerified(db *sqlx.DB, fcm *services.FCMService, userID string, reportNumber int) {
	if fcm == nil {
		return
	}

	var tokens []string
	if err := db.Select(&tokens, `SELECT token FROM fcm_tokens WHERE user_id = $1`, userID); err != nil {
		log.Printf("⚠️  Failed to load citizen tokens: %v", err)
		return
	}
	for _, token := range tokens {
		if err := fcm.SendReportVerifiedNotification(token, reportNumber); err != nil {
			log.Printf("⚠️  FCM send failed: %v", err)
		}
	}
}

type CreateStaffRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"` // "worker" or "officer"
	Zone     string `json:"zone"`
}

// CreateStaffUser creates a worker or officer with a zone assignment.
// Super admin only.
func CreateStaffUser(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateStaffRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if req.Email == "" || req.Password == "" || req.Name == "" {
			utils.RespondError(w, http.StatusBadRequest, "Email, password and name are required")
			return
		}
		if req.Role != "worker" && req.Role != "officer" {
			utils.RespondError(w, http.StatusBadRequest, "Role must be 'worker' or 'officer'")
			return
		}
		if !zones.IsZone(req.Zone) {
			utils.RespondError(w, http.StatusBadRequest, "Unknown zone")
			return
		}

		var exists int
		if err := db.Get(&exists, "SELECT COUNT(*) FROM users WHERE email = $1", req.Email); err == nil && exists > 0 {
			utils.RespondError(w, http.StatusConflict, "User with this email already exists")
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to hash password")
			return
		}

		now := time.Now().Unix()
		user := models.User{
			ID:        uuid.New().String(),
			Email:     req.Email,
			Password:  string(hashedPassword),
			Name:      req.Name,
			Role:      req.Role,
			Zone:      &req.Zone,
			CreatedAt: now,
			UpdatedAt: now,
		}

		_, err = db.Exec(`
			INSERT INTO users (id, email, password, name, role, zone, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, user.ID, user.Email, user.Password, user.Name, user.Role, user.Zone, user.CreatedAt, user.UpdatedAt)
		if err != nil {
			log.Printf("❌ Failed to create staff user: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to create user")
			return
		}

		log.Printf("✅ Staff user created: %s (%s, %s)", user.Email, user.Role, req.Zone)

		userResponse := user.ToUserResponse()
		utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
			"success": true,
			"user":    userResponse,
		})
	}
}

// GetZones returns the configured zone names for dropdowns.
func GetZones() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, zones.Names())
	}
}
