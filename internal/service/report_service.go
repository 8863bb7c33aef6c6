package service

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"truckrental/internal/domain"
	"truckrental/internal/models"

	"github.com/phpdave11/gofpdf"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

const bookingsSheet = "Bookings"

// ReportService renders bookings, drivers and users as PDF or XLSX documents.
type ReportService struct {
	bookings domain.BookingRepository
	drivers  domain.DriverRepository
	users    domain.UserRepository
	logger   *zerolog.Logger
	now      func() time.Time
}

func NewReportService(
	bookings domain.BookingRepository,
	drivers domain.DriverRepository,
	users domain.UserRepository,
	logger *zerolog.Logger,
) *ReportService {
	return &ReportService{
		bookings: bookings,
		drivers:  drivers,
		users:    users,
		logger:   logger,
		now:      time.Now,
	}
}

type pdfTable struct {
	title   string
	headers []string
	widths  []float64
	rows    [][]string
}

func (s *ReportService) BookingsPDF(ctx context.Context, filter models.BookingFilter) ([]byte, string, error) {
	bookings, err := s.bookings.ListBookings(ctx, filter)
	if err != nil {
		return nil, "", err
	}

	table := pdfTable{
		title:   "Booking Details Report",
		headers: []string{"Pickup", "Drop-off", "Date", "Status", "Driver"},
		widths:  []float64{45, 45, 28, 24, 48},
	}
	for _, b := range bookings {
		table.rows = append(table.rows, []string{
			b.PickupLocation, b.DropLocation, b.DateString(), b.Status, safe(b.DriverName(), "-"),
		})
	}

	return s.renderPDF(table, "bookings")
}

func (s *ReportService) DriversPDF(ctx context.Context) ([]byte, string, error) {
	drivers, err := s.drivers.ListDrivers(ctx)
	if err != nil {
		return nil, "", err
	}

	table := pdfTable{
		title:   "Driver Details Report",
		headers: []string{"Name", "Age", "Email", "Phone", "Vehicle", "Available Days"},
		widths:  []float64{30, 12, 45, 28, 25, 50},
	}
	for _, d := range drivers {
		table.rows = append(table.rows, []string{
			d.Name, strconv.Itoa(d.Age), d.Email, d.Phone, d.VehicleNumber, strings.Join(d.AvailableDays, ", "),
		})
	}

	return s.renderPDF(table, "drivers")
}

func (s *ReportService) UsersPDF(ctx context.Context) ([]byte, string, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, "", err
	}

	table := pdfTable{
		title:   "User Details Report",
		headers: []string{"Username", "Email", "Phone", "Role"},
		widths:  []float64{45, 70, 45, 30},
	}
	for _, u := range users {
		table.rows = append(table.rows, []string{u.Username, u.Email, u.Phone, u.Role})
	}

	return s.renderPDF(table, "users")
}

func (s *ReportService) renderPDF(t pdfTable, name string) ([]byte, string, error) {
	now := s.now()

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(t.title, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, t.title)
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, "Generated: "+now.Format("2006-01-02 15:04"))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(221, 235, 247)
	for i, h := range t.headers {
		pdf.CellFormat(t.widths[i], 8, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	if len(t.rows) == 0 {
		pdf.CellFormat(sum(t.widths), 8, "No records", "1", 1, "C", false, 0, "")
	}
	for _, row := range t.rows {
		for i, v := range row {
			pdf.CellFormat(t.widths[i], 7, tr(v), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("render %s pdf: %w", name, err)
	}

	filename := fmt.Sprintf("%s_%s.pdf", name, now.Format("20060102_150405"))
	s.logger.Info().Str("report", filename).Int("rows", len(t.rows)).Msg("PDF report generated")
	return buf.Bytes(), filename, nil
}

func (s *ReportService) BookingsXLSX(ctx context.Context, filter models.BookingFilter) ([]byte, string, error) {
	bookings, err := s.bookings.ListBookings(ctx, filter)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(bookingsSheet)
	if err != nil {
		return nil, "", fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})

	headers := []string{"Pickup", "Drop-off", "Date", "Status", "Driver"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(bookingsSheet, cell, h)
		_ = f.SetCellStyle(bookingsSheet, cell, cell, headerStyle)
	}

	for r, b := range bookings {
		values := []string{b.PickupLocation, b.DropLocation, b.DateString(), b.Status, b.DriverName()}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			_ = f.SetCellValue(bookingsSheet, cell, v)
		}
	}

	_ = f.SetColWidth(bookingsSheet, "A", "B", 30)
	_ = f.SetColWidth(bookingsSheet, "C", "D", 14)
	_ = f.SetColWidth(bookingsSheet, "E", "E", 25)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("error writing workbook: %w", err)
	}

	filename := fmt.Sprintf("bookings_%s.xlsx", s.now().Format("20060102_150405"))
	s.logger.Info().Str("report", filename).Int("rows", len(bookings)).Msg("Excel report generated")
	return buf.Bytes(), filename, nil
}

func safe(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}
