package api

import "time"

// File is the metadata of an uploaded blob. ID doubles as the object key.
type File struct {
	ID          string    `db:"id" json:"id"`
	Filename    string    `db:"filename" json:"filename"`
	ContentType string    `db:"content_type" json:"content_type"`
	Size        int64     `db:"size" json:"size"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
