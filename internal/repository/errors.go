package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "dayzone/internal/errors"
)

// translate converts gorm failures into domain error kinds. Everything that
// is neither a missing row nor a unique violation is a store failure.
func translate(op string, err error, notFound, conflict string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.NotFound(notFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperrors.Conflict(conflict)
	default:
		return apperrors.Store(op, err)
	}
}

// searchColumns maps accepted searchBy values to columns.
var searchColumns = map[string]string{
	"callsign":  "callsign",
	"faceId":    "face_id",
	"face_id":   "face_id",
	"fullName":  "full_name",
	"full_name": "full_name",
}

// applySearch adds a case-insensitive substring match on one column.
// Unknown searchBy values and empty terms leave the query unchanged.
func applySearch(q *gorm.DB, searchBy, term string) *gorm.DB {
	column, ok := searchColumns[searchBy]
	if !ok || term == "" {
		return q
	}
	return q.Where("LOWER("+column+") LIKE ?", "%"+strings.ToLower(term)+"%")
}
