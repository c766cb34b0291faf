package models

import "github.com/noah-isme/campus-projects-api/pkg/api"

// DateLayout is the wire and storage format of calendar dates.
const DateLayout = api.DateLayout

// Date is a calendar day mapped to a Postgres DATE.
type Date = api.Date

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(raw string) (Date, error) {
	return api.ParseDate(raw)
}
