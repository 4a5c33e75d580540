package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"

	"travelagency/internal/domain"
	"travelagency/internal/domain/models"
	"travelagency/internal/utils"
)

// BookingResolver finds a booking in either variant store.
type BookingResolver interface {
	Resolve(ctx context.Context, id string) (models.ResolvedBooking, error)
}

// DocsService renders the booking voucher PDF.
type DocsService struct {
	Resolver  BookingResolver
	RequestID string
}

type voucherLine struct {
	label string
	value string
}

// Voucher returns the PDF and a download name. Agents may only fetch their own bookings.
func (s DocsService) Voucher(ctx context.Context, caller models.Principal, id string) ([]byte, string, error) {
	rec, err := s.Resolver.Resolve(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if !caller.IsAdmin() && rec.AgentID() != caller.ID {
		return nil, "", domain.ForbiddenError{Msg: "booking belongs to another agent"}
	}

	pdf, err := buildVoucherPDF(rec)
	if err != nil {
		utils.LogError(s.RequestID, "docs", "voucher", err)
		return nil, "", domain.InternalError{Err: err}
	}
	utils.LogEvent(s.RequestID, "docs", "voucher", fmt.Sprintf("booking_id=%s type=%s", rec.ID(), rec.Variant))

	filename := fmt.Sprintf("VOUCHER_%s_%s.pdf", utils.SafeFilenamePart(rec.ID()), utils.SafeFilenamePart(strings.ReplaceAll(rec.PackageName(), " ", "-")))
	return pdf, filename, nil
}

func orDash(v string) string {
	if strings.TrimSpace(v) == "" {
		return "-"
	}
	return v
}

func voucherLines(rec models.ResolvedBooking) []voucherLine {
	c := rec.Contact()
	lines := []voucherLine{
		{"Booking ID", rec.ID()},
		{"Booking Type", rec.Variant.Source()},
		{"Status", strings.ToUpper(string(rec.Status()))},
		{"Package", orDash(rec.PackageName())},
		{"Agent", orDash(c.Name)},
		{"Email", orDash(c.Email)},
		{"Mobile", orDash(c.MobileNumber)},
		{"State", orDash(c.State)},
	}

	switch rec.Variant {
	case models.VariantDefault:
		d := rec.Default
		lines = append(lines,
			voucherLine{"Outbound", fmt.Sprintf("%s  %s", utils.FormatDatePtr(d.Dates.Outbound.PickupDate), orDash(d.Dates.Outbound.Flight))},
			voucherLine{"Return", fmt.Sprintf("%s  %s", utils.FormatDatePtr(d.Dates.Return.DropDate), orDash(d.Dates.Return.Flight))},
			voucherLine{"Guests", fmt.Sprintf("%d adults, %d child (bed), %d child (no bed), %d infants",
				d.Guests.AdultsTotal, d.Guests.ChildrenWithBed, d.Guests.ChildrenWithoutBed, d.Guests.Infants)},
		)
	default:
		b := rec.Normal
		lines = append(lines,
			voucherLine{"Pickup", fmt.Sprintf("%s %s %s", utils.FormatDatePtr(b.Dates.PickupDate), b.Dates.PickupTime, b.Dates.PickupLocation)},
			voucherLine{"Drop", fmt.Sprintf("%s %s %s", utils.FormatDatePtr(b.Dates.DropDate), b.Dates.DropTime, b.Dates.DropLocation)},
			voucherLine{"Vehicle", orDash(b.VehicleName)},
			voucherLine{"Guests", fmt.Sprintf("%d adults, %d children, %d infants", b.Guests.AdultsTotal, b.Guests.Children, b.Guests.Infants)},
			voucherLine{"Hotel", fmt.Sprintf("%s (%s), %d rooms, %d extra beds", orDash(b.Hotel.HotelName), orDash(b.Hotel.FoodPlan), b.Hotel.Rooms, b.Hotel.ExtraBeds)},
		)
	}

	p := rec.Pricing()
	return append(lines,
		voucherLine{"Base Total", utils.FormatINR(p.BaseTotal)},
		voucherLine{"Total Amount", utils.FormatINR(p.TotalAmount)},
		voucherLine{"Booked On", utils.FormatDateTime(rec.CreatedAt())},
	)
}

func buildVoucherPDF(rec models.ResolvedBooking) ([]byte, error) {
	qrPNG, err := qrcode.Encode(rec.ID(), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Booking Voucher", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "BOOKING VOUCHER")
	pdf.Ln(14)

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 160, 12, 36, 36, false, imageOpts, 0, "")

	for _, l := range voucherLines(rec) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.Cell(40, 7, l.label)
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 7, l.value, "", "", false)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.MultiCell(0, 5, "Present this voucher at check-in. The QR code carries the booking id.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
