package models

import "github.com/noah-isme/campus-projects-api/pkg/api"

// DefaultProjectStatus is applied when a project is created without one.
const DefaultProjectStatus = api.DefaultProjectStatus

// Project is an assignment published by a teacher. Status is free text.
type Project = api.Project

// ProjectFilter lists the optional predicates of a project query. Empty
// fields are ignored; the date bounds are inclusive and apply to deadline.
type ProjectFilter struct {
	TeacherUID string
	School     string
	Filiere    string
	Matiere    string
	Year       string
	StartDate  *Date
	EndDate    *Date
}

// IsEmpty reports whether no predicate is set.
func (f ProjectFilter) IsEmpty() bool {
	return f.TeacherUID == "" && f.School == "" && f.Filiere == "" && f.Matiere == "" &&
		f.Year == "" && f.StartDate == nil && f.EndDate == nil
}
