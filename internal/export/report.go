package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Bookings"

// Reporter writes booking reports as xlsx workbooks for offline review.
type Reporter struct {
	store  domain.Storage
	path   string
	now    func() time.Time
	logger *zerolog.Logger
}

func NewReporter(store domain.Storage, path string, now func() time.Time, logger *zerolog.Logger) *Reporter {
	if now == nil {
		now = time.Now
	}
	return &Reporter{store: store, path: path, now: now, logger: logger}
}

// WriteBookingsReport collects every booking with its item and booker and
// saves one workbook. Returns the saved file path.
func (r *Reporter) WriteBookingsReport(ctx context.Context) (string, error) {
	if err := os.MkdirAll(r.path, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %w", err)
	}

	rows, err := r.collectRows(ctx)
	if err != nil {
		return "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)

	writeHeader(f)
	for i, row := range rows {
		writeRow(f, i+2, row)
	}

	_ = f.SetColWidth(sheetName, "A", "A", 10)
	_ = f.SetColWidth(sheetName, "B", "F", 22)
	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("bookings_%s.xlsx", r.now().Format("2006-01-02"))
	filePath := filepath.Join(r.path, fileName)
	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %w", err)
	}

	r.logger.Info().Str("file_path", filePath).Int("bookings", len(rows)).Msg("bookings report written")
	return filePath, nil
}

type reportRow struct {
	booking models.Booking
	item    string
	booker  string
}

func (r *Reporter) collectRows(ctx context.Context) ([]reportRow, error) {
	users, err := r.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	var bookings []models.Booking
	nameByUser := make(map[int64]string, len(users))
	for _, user := range users {
		nameByUser[user.ID] = user.Name
		userBookings, err := r.store.ListBookingsByBooker(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, userBookings...)
	}

	itemIDs := make([]int64, 0, len(bookings))
	seen := make(map[int64]bool)
	for _, b := range bookings {
		if !seen[b.ItemID] {
			seen[b.ItemID] = true
			itemIDs = append(itemIDs, b.ItemID)
		}
	}
	items, err := r.store.ListItemsByIDs(ctx, itemIDs)
	if err != nil {
		return nil, err
	}
	nameByItem := make(map[int64]string, len(items))
	for _, item := range items {
		nameByItem[item.ID] = item.Name
	}

	rows := make([]reportRow, 0, len(bookings))
	for _, b := range bookings {
		rows = append(rows, reportRow{
			booking: b,
			item:    nameByItem[b.ItemID],
			booker:  nameByUser[b.BookerID],
		})
	}
	return rows, nil
}

func writeHeader(f *excelize.File) {
	headers := []string{"ID", "Item", "Booker", "Start", "End", "Status"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, header)
	}

	style, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(sheetName, "A1", "F1", style)
}

func writeRow(f *excelize.File, row int, r reportRow) {
	values := []any{
		r.booking.ID,
		r.item,
		r.booker,
		r.booking.Start.Format(time.RFC3339),
		r.booking.End.Format(time.RFC3339),
		string(r.booking.Status),
	}
	for i, value := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		_ = f.SetCellValue(sheetName, cell, value)
	}
}
