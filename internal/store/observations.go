package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/macro-obs/obsportal/pkg/schedule"
)

// CreateRequest stores one observation request. Duplicate submissions (same
// observer, same parameters) are skipped rather than inserted twice; the
// boolean reports whether a row was created.
func (s *Store) CreateRequest(ctx context.Context, request schedule.Request) (bool, error) {
	return s.createRequest(ctx, s.db.WithContext(ctx), request)
}

// CreateBatch stores a parsed schedule file transactionally. Duplicates are
// skipped; the counts report how many rows were added and skipped. Any
// database error rolls the whole batch back.
func (s *Store) CreateBatch(ctx context.Context, requests []schedule.Request) (added, skipped int, err error) {
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, request := range requests {
			created, err := s.createRequest(ctx, tx, request)
			if err != nil {
				return err
			}
			if created {
				added++
			} else {
				skipped++
			}
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return added, skipped, nil
}

func (s *Store) createRequest(ctx context.Context, tx *gorm.DB, request schedule.Request) (bool, error) {
	request.Normalize()
	if err := request.Validate(); err != nil {
		return false, err
	}
	if request.ObserverCode == "" {
		return false, fmt.Errorf("store: observer code is required")
	}

	duplicate, err := s.isDuplicate(tx, request)
	if err != nil {
		return false, err
	}
	if duplicate {
		return false, nil
	}

	record := recordFromRequest(request)
	if err := tx.Create(&record).Error; err != nil {
		return false, fmt.Errorf("store: create request: %w", err)
	}
	return true, nil
}

// isDuplicate matches on every submitted parameter, so a resubmission of an
// identical request is rejected while any changed field produces a new row.
func (s *Store) isDuplicate(tx *gorm.DB, request schedule.Request) (bool, error) {
	var count int64
	err := tx.Model(&ObservationRequest{}).
		Where("observer_code = ?", request.ObserverCode).
		Where("ra = ? AND dec = ?", request.RA, request.Dec).
		Where("target_name = ?", request.TargetName).
		Where("observation_type = ?", request.ObservationType).
		Where("filters = ?", request.Filters).
		Where("nexp = ? AND exposure_time = ?", request.NExp, request.ExposureTime).
		Where("priority = ? AND status = ?", request.Priority, request.Status).
		Where("reposition = ? AND reposition_x = ? AND reposition_y = ?",
			request.Reposition, request.RepositionX, request.RepositionY).
		Where("cadence = ?", request.Cadence).
		Where("utc_start_time = ? AND utc_start_date = ?", request.UTCStartTime, request.UTCStartDate).
		Where("utc_end_time = ? AND utc_end_date = ?", request.UTCEndTime, request.UTCEndDate).
		Where("lst_start_time = ? AND lst_start_date = ?", request.LSTStartTime, request.LSTStartDate).
		Where("lst_end_time = ? AND lst_end_date = ?", request.LSTEndTime, request.LSTEndDate).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("store: duplicate check: %w", err)
	}
	return count > 0, nil
}

// RequestsByObserver returns an observer's requests, newest first.
func (s *Store) RequestsByObserver(ctx context.Context, observerCode string) ([]ObservationRequest, error) {
	var records []ObservationRequest
	err := s.db.WithContext(ctx).
		Where("observer_code = ?", observerCode).
		Order("submitted_on DESC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("store: requests by observer: %w", err)
	}
	return records, nil
}

// UpdateStatus moves a request through pending → scheduled → completed.
func (s *Store) UpdateStatus(ctx context.Context, requestID uint, status string) error {
	result := s.db.WithContext(ctx).Model(&ObservationRequest{}).
		Where("id = ?", requestID).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("store: update status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateRequest applies field updates to an existing request. Only the
// provided columns change.
func (s *Store) UpdateRequest(ctx context.Context, requestID uint, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	result := s.db.WithContext(ctx).Model(&ObservationRequest{}).
		Where("id = ?", requestID).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("store: update request: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func recordFromRequest(request schedule.Request) ObservationRequest {
	return ObservationRequest{
		ObserverCode:    request.ObserverCode,
		TargetName:      request.TargetName,
		RA:              request.RA,
		Dec:             request.Dec,
		ObservationType: request.ObservationType,
		Filters:         request.Filters,
		Priority:        request.Priority,
		Status:          request.Status,
		NExp:            request.NExp,
		ExposureTime:    request.ExposureTime,
		Reposition:      request.Reposition,
		RepositionX:     request.RepositionX,
		RepositionY:     request.RepositionY,
		Cadence:         request.Cadence,
		UTCStartTime:    request.UTCStartTime,
		UTCStartDate:    request.UTCStartDate,
		UTCEndTime:      request.UTCEndTime,
		UTCEndDate:      request.UTCEndDate,
		LSTStartTime:    request.LSTStartTime,
		LSTStartDate:    request.LSTStartDate,
		LSTEndTime:      request.LSTEndTime,
		LSTEndDate:      request.LSTEndDate,
	}
}
