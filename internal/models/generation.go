package models

import "time"

// Generation is one stored repurposing request/response pair.
// Rows are append-only: created after a successful upstream call and never
// updated or deleted by the application.
type Generation struct {
	ID         int64     `db:"id" json:"id"`
	UserID     int64     `db:"user_id" json:"-"`
	Platform   string    `db:"platform" json:"platform"`
	InputText  string    `db:"input_text" json:"input_text"`
	OutputText string    `db:"output_text" json:"output_text"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
