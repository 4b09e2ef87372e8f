package usecase

import "clinic-booking/pkg/apperror"

// appErr passes typed errors through and classifies everything else as storage
func appErr(err error) error {
	return apperror.Classify(err)
}
