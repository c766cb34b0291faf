package api

import "time"

// DefaultProjectStatus is applied when a project is created without one.
const DefaultProjectStatus = "Active"

// Project is an assignment published by a teacher. Status is free text.
type Project struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	School      string    `db:"school" json:"school"`
	Filiere     string    `db:"filiere" json:"filiere"`
	Matiere     string    `db:"matiere" json:"matiere"`
	Deadline    Date      `db:"deadline" json:"deadline"`
	Status      string    `db:"status" json:"status"`
	Year        string    `db:"year" json:"year"`
	TeacherUID  string    `db:"teacher_uid" json:"teacher_uid"`
	FileID      *string   `db:"file_id" json:"file_id,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// CreateProjectRequest is accepted both as JSON and as multipart form
// fields; the optional file part travels next to them.
type CreateProjectRequest struct {
	Title       string  `json:"title" form:"title" validate:"required"`
	Description string  `json:"description" form:"description"`
	School      string  `json:"school" form:"school"`
	Filiere     string  `json:"filiere" form:"filiere"`
	Matiere     string  `json:"matiere" form:"matiere"`
	Deadline    string  `json:"deadline" form:"deadline" validate:"omitempty,datetime=2006-01-02"`
	Status      string  `json:"status" form:"status"`
	Year        string  `json:"year" form:"year"`
	TeacherUID  string  `json:"teacher_uid" form:"teacher_uid" validate:"required"`
	FileID      *string `json:"file_id" form:"file_id" validate:"omitempty,uuid"`
}

// ProjectQuery captures list/export query parameters. TeacherUIDAlias
// accepts the camelCase spelling used by the calendar view.
type ProjectQuery struct {
	TeacherUID      string `form:"teacher_uid"`
	TeacherUIDAlias string `form:"teacherUid"`
	School          string `form:"school"`
	Filiere         string `form:"filiere"`
	Matiere         string `form:"matiere"`
	Year            string `form:"year"`
	StartDate       string `form:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate         string `form:"endDate" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateProjectStatusRequest sets a new free-text status.
type UpdateProjectStatusRequest struct {
	Status string `json:"status" validate:"required"`
}
