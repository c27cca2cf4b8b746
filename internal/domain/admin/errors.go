package admin

import "errors"

var (
	ErrDistrictMismatch = errors.New("report belongs to another district")
	ErrAlreadyModerated = errors.New("report was already moderated")
)
