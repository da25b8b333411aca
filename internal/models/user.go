package models

type User struct {
	ID            string  `json:"id" db:"id"`
	Email         string  `json:"email" db:"email"`
	Password      string  `json:"-" db:"password"` // Never return password in JSON
	Name          string  `json:"name" db:"name"`
	Role          string  `json:"role" db:"role"` // "citizen", "worker", "officer" or "super_admin"
	Zone          *string `json:"zone,omitempty" db:"zone"` // Assigned zone for workers/officers
	CurrentStreak int     `json:"current_streak" db:"current_streak"`
	LongestStreak int     `json:"longest_streak" db:"longest_streak"`
	LastReportAt  *int64  `json:"last_report_at,omitempty" db:"last_report_at"` // Unix timestamp
	CreatedAt     int64   `json:"created_at" db:"created_at"`
	UpdatedAt     int64   `json:"updated_at" db:"updated_at"`
}

type UserResponse struct {
	ID            string  `json:"id"`
	Email         string  `json:"email"`
	Name          string  `json:"name"`
	Role          string  `json:"role"`
	Zone          *string `json:"zone,omitempty"`
	CurrentStreak int     `json:"current_streak"`
	LongestStreak int     `json:"longest_streak"`
	CreatedAt     int64   `json:"created_at"`
}

func (u *User) ToUserResponse() UserResponse {
	return UserResponse{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		Role:          u.Role,
		Zone:          u.Zone,
		CurrentStreak: u.CurrentStreak,
		LongestStreak: u.LongestStreak,
		CreatedAt:     u.CreatedAt,
	}
}
