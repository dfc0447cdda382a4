package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"buffet/internal/capacity"
	apperrors "buffet/pkg/errors"
	"buffet/pkg/logger"
	"buffet/pkg/model"
)

// LatestLimit caps the admin bookings table.
const LatestLimit = 100

var exportHeader = []string{"ID", "Name", "Email", "Phone", "Guests", "Status", "Date"}

type BookingStore interface {
	CountByStatus(ctx context.Context) (map[model.BookingStatus]int64, error)
	FindActiveInRange(ctx context.Context, from, to time.Time) ([]*model.Booking, error)
	FindLatest(ctx context.Context, limit int) ([]*model.Booking, error)
}

type ProfileLookup interface {
	FindByUserIDs(ctx context.Context, userIDs []string) (map[string]*model.Profile, error)
}

type StatusUpdater interface {
	UpdateStatus(ctx context.Context, id string, update *model.StatusUpdate) (*model.Booking, error)
}

type Dashboard struct {
	WeekendLabel    string `json:"weekend_label"`
	WeekendStart    string `json:"weekend_start"`
	WeekendEnd      string `json:"weekend_end"`
	WeekendBookings int    `json:"weekend_bookings"`
	WeekendGuests   int    `json:"weekend_guests"`
	Pending         int64  `json:"pending"`
	Confirmed       int64  `json:"confirmed"`
	Cancelled       int64  `json:"cancelled"`
}

type AdminService interface {
	Dashboard(ctx context.Context) (*Dashboard, error)
	Bookings(ctx context.Context) ([]*model.AdminBookingRow, error)
	UpdateStatus(ctx context.Context, id string, update *model.StatusUpdate) (*model.Booking, error)
	Capacity(ctx context.Context) ([]capacity.DayCapacity, error)
	// ExportCSV writes the bookings table as CSV.
	ExportCSV(ctx context.Context, w io.Writer) error
}

type adminService struct {
	bookings BookingStore
	profiles ProfileLookup
	statuses StatusUpdater
	capacity capacity.Service
	loc      *time.Location
	now      func() time.Time
	log      *logger.Logger
}

func NewAdminService(bookings BookingStore, profiles ProfileLookup, statuses StatusUpdater, capacityService capacity.Service, loc *time.Location, log *logger.Logger) AdminService {
	if loc == nil {
		loc = time.UTC
	}
	return &adminService{
		bookings: bookings,
		profiles: profiles,
		statuses: statuses,
		capacity: capacityService,
		loc:      loc,
		now:      time.Now,
		log:      log,
	}
}

func (s *adminService) Dashboard(ctx context.Context) (*Dashboard, error) {
	counts, err := s.bookings.CountByStatus(ctx)
	if err != nil {
		s.log.Error("Failed to count bookings", "error", err)
		return nil, apperrors.Internal("Failed to load dashboard", err)
	}

	saturday, sunday := capacity.UpcomingWeekend(s.now().In(s.loc))
	weekend, err := s.bookings.FindActiveInRange(ctx, saturday, sunday.AddDate(0, 0, 1))
	if err != nil {
		s.log.Error("Failed to load weekend bookings", "from", saturday, "error", err)
		return nil, apperrors.Internal("Failed to load dashboard", err)
	}

	dash := &Dashboard{
		WeekendLabel:    saturday.Format("Jan 2"),
		WeekendStart:    saturday.Format(time.DateOnly),
		WeekendEnd:      sunday.Format(time.DateOnly),
		WeekendBookings: len(weekend),
		Pending:         counts[model.StatusPending],
		Confirmed:       counts[model.StatusConfirmed],
		Cancelled:       counts[model.StatusCancelled],
	}
	for _, b := range weekend {
		dash.WeekendGuests += b.GuestCount
	}
	return dash, nil
}

func (s *adminService) Bookings(ctx context.Context) ([]*model.AdminBookingRow, error) {
	bookings, err := s.bookings.FindLatest(ctx, LatestLimit)
	if err != nil {
		s.log.Error("Failed to list bookings", "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}

	seen := make(map[string]struct{}, len(bookings))
	userIDs := make([]string, 0, len(bookings))
	for _, b := range bookings {
		if _, ok := seen[b.UserID]; !ok {
			seen[b.UserID] = struct{}{}
			userIDs = append(userIDs, b.UserID)
		}
	}

	profiles, err := s.profiles.FindByUserIDs(ctx, userIDs)
	if err != nil {
		// The table is still useful without names.
		s.log.Warn("Failed to load profiles for bookings", "count", len(userIDs), "error", err)
		profiles = nil
	}

	rows := make([]*model.AdminBookingRow, 0, len(bookings))
	for _, b := range bookings {
		row := &model.AdminBookingRow{Booking: *b, Name: b.GuestName, Email: b.GuestEmail}
		if p, ok := profiles[b.UserID]; ok {
			if p.Name != "" {
				row.Name = p.Name
			}
			if p.Email != "" {
				row.Email = p.Email
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *adminService) UpdateStatus(ctx context.Context, id string, update *model.StatusUpdate) (*model.Booking, error) {
	return s.statuses.UpdateStatus(ctx, id, update)
}

func (s *adminService) Capacity(ctx context.Context) ([]capacity.DayCapacity, error) {
	return s.capacity.Overview(ctx)
}

func (s *adminService) ExportCSV(ctx context.Context, w io.Writer) error {
	rows, err := s.Bookings(ctx)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows {
		date := "TBD"
		if row.ScheduledStart != nil {
			date = row.ScheduledStart.In(s.loc).Format(time.RFC3339)
		}
		record := []string{
			row.ID,
			orNA(row.Name),
			orNA(row.Email),
			row.Phone,
			strconv.Itoa(row.GuestCount),
			string(row.Status),
			date,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row %s: %w", row.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportFilename names an export taken at now.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("bookings-%s.csv", now.Format(time.DateOnly))
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
