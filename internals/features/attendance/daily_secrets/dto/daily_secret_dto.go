// file: internals/features/attendance/daily_secrets/dto/daily_secret_dto.go
package dto

import (
	"strings"
	"time"
)

type UpsertDailySecretRequest struct {
	Secret string `json:"secret" validate:"required,min=16,max=256"`
}

func (r *UpsertDailySecretRequest) Normalize() {
	r.Secret = strings.TrimSpace(r.Secret)
}

// Nilai secret TIDAK pernah dikirim balik; hanya status & sumbernya.
type DailySecretStatusResponse struct {
	Day        int        `json:"day"`
	DayCode    string     `json:"day_code"`
	Configured bool       `json:"configured"`
	Source     string     `json:"source,omitempty"` // env | settings
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}
