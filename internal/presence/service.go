package presence

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"presence-analyzer/internal/platform/logging"
)

// ===== Error model =====
type Code string

const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeUnavailable     Code = "UNAVAILABLE"
	CodeInternal        Code = "INTERNAL"
)

type APIError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string         { return fmt.Sprintf("%s: %s", e.Code, e.Message) }
func ErrInvalid(msg string) *APIError     { return &APIError{Code: CodeInvalidArgument, Message: msg} }
func ErrUnavailable(msg string) *APIError { return &APIError{Code: CodeUnavailable, Message: msg} }
func ErrInternal(msg string) *APIError    { return &APIError{Code: CodeInternal, Message: msg} }

func toHTTPStatus(err error) int {
	var api *APIError
	if errors.As(err, &api) {
		switch api.Code {
		case CodeInvalidArgument:
			return http.StatusBadRequest
		case CodeNotFound:
			return http.StatusNotFound
		case CodeUnavailable:
			return http.StatusServiceUnavailable
		default:
			return http.StatusInternalServerError
		}
	}
	return http.StatusInternalServerError
}

// ===== Service =====

type Service struct {
	store *RecordStore
}

func NewService(store *RecordStore) *Service {
	return &Service{store: store}
}

// GET /mean_time_weekday/:user_id
func (s *Service) MeanTimeWeekday(ctx context.Context, userID int) ([]WeekdayValue, error) {
	days, ok, err := s.userDays(ctx, userID)
	if err != nil || !ok {
		return []WeekdayValue{}, err
	}
	buckets := GroupByDuration(days)
	out := make([]WeekdayValue, 0, len(buckets))
	for wd, intervals := range buckets {
		out = append(out, WeekdayValue{Weekday: WeekdayAbbr[wd], Value: Mean(intervals)})
	}
	return out, nil
}

// GET /presence_weekday/:user_id
func (s *Service) PresenceWeekday(ctx context.Context, userID int) ([]WeekdayTotal, error) {
	days, ok, err := s.userDays(ctx, userID)
	if err != nil || !ok {
		return []WeekdayTotal{}, err
	}
	buckets := GroupByDuration(days)
	out := make([]WeekdayTotal, 0, len(buckets))
	for wd, intervals := range buckets {
		out = append(out, WeekdayTotal{Weekday: WeekdayAbbr[wd], Seconds: Sum(intervals)})
	}
	return out, nil
}

// GET /mean_start_end_time/:user_id
func (s *Service) MeanStartEnd(ctx context.Context, userID int) ([]WeekdayStartEnd, error) {
	days, ok, err := s.userDays(ctx, userID)
	if err != nil || !ok {
		return []WeekdayStartEnd{}, err
	}
	buckets := GroupByStartEnd(days)
	out := make([]WeekdayStartEnd, 0, len(buckets))
	for wd, b := range buckets {
		out = append(out, WeekdayStartEnd{
			Weekday: WeekdayAbbr[wd],
			Start:   Mean(b.Starts),
			End:     Mean(b.Ends),
		})
	}
	return out, nil
}

func (s *Service) userDays(ctx context.Context, userID int) (map[Date]Entry, bool, error) {
	days, ok, err := s.store.User(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrSourceUnavailable) || errors.Is(err, context.DeadlineExceeded) {
			logging.Warnf("presence data unavailable: %v", err)
			return nil, false, ErrUnavailable("presence data is unavailable")
		}
		return nil, false, ErrInternal(err.Error())
	}
	if !ok {
		logging.Debugf("user %d not found", userID)
	}
	return days, ok, nil
}
