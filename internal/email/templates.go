package email

import (
	"fmt"
	"strings"
	"time"
)

// BookingSummary carries the booking fields rendered into the confirmation
// email
type BookingSummary struct {
	BookingNumber string
	ShippingLine  string
	VesselName    string
	OriginPort    string
	DestPort      string
	CutoffDate    time.Time
	ETD           time.Time
	ETA           time.Time
	TotalCost     int
	Currency      string
}

// StatusUpdate carries the fields rendered into a status change email
type StatusUpdate struct {
	BookingNumber string
	StatusLabel   string
	Location      string
	Description   string
	Progress      int
}

// BuildBookingConfirmationBody builds the HTML body for the booking
// confirmation email
func BuildBookingConfirmationBody(b BookingSummary) string {
	vesselRow := ""
	if b.VesselName != "" {
		vesselRow = detailRow("Vessel", b.VesselName)
	}

	details := strings.Join([]string{
		detailRow("Shipping line", b.ShippingLine),
		vesselRow,
		detailRow("Route", fmt.Sprintf("%s → %s", b.OriginPort, b.DestPort)),
		detailRow("Cargo cutoff", b.CutoffDate.Format("2 Jan 2006")),
		detailRow("ETD", b.ETD.Format("2 Jan 2006")),
		detailRow("ETA", b.ETA.Format("2 Jan 2006")),
	}, "\n")

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<div style="background: linear-gradient(135deg, #1a5276 0%%, #2e86c1 100%%); padding: 30px; border-radius: 10px 10px 0 0;">
		<h1 style="color: white; margin: 0; font-size: 24px;">Your booking is confirmed</h1>
	</div>

	<div style="background: #fff; padding: 30px; border: 1px solid #eee; border-top: none; border-radius: 0 0 10px 10px;">
		<p style="margin-top: 0;">Your container booking has been confirmed with the carrier. Customs documents are ready for download from your dashboard.</p>

		<div style="background: #f8f9fa; padding: 15px; border-radius: 5px; margin: 20px 0;">
			<p style="margin: 0; font-size: 14px; color: #666;">Booking number</p>
			<p style="margin: 5px 0 0 0; font-size: 18px; font-weight: bold; font-family: monospace;">%s</p>
		</div>

		<table style="width: 100%%; border-collapse: collapse; margin: 20px 0;">
			<tbody>
				%s
			</tbody>
		</table>

		<div style="text-align: right; padding: 20px; background: #f8f9fa; border-radius: 5px;">
			<span style="font-size: 14px; color: #666;">Total transport cost</span>
			<span style="font-size: 24px; font-weight: bold; color: #1a5276; margin-left: 10px;">%s %s</span>
		</div>

		<hr style="border: none; border-top: 1px solid #eee; margin: 30px 0;">

		<p style="font-size: 12px; color: #999; margin-bottom: 0;">
			This is an automated message. For questions about your booking, contact your platform operator.
		</p>
	</div>
</body>
</html>`, b.BookingNumber, details, b.Currency, formatNumber(b.TotalCost))
}

// BuildStatusUpdateBody builds the HTML body for a status change email
func BuildStatusUpdateBody(u StatusUpdate) string {
	locationRow := ""
	if u.Location != "" {
		locationRow = detailRow("Location", u.Location)
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<div style="background: linear-gradient(135deg, #1a5276 0%%, #2e86c1 100%%); padding: 30px; border-radius: 10px 10px 0 0;">
		<h1 style="color: white; margin: 0; font-size: 24px;">%s</h1>
	</div>

	<div style="background: #fff; padding: 30px; border: 1px solid #eee; border-top: none; border-radius: 0 0 10px 10px;">
		<div style="background: #f8f9fa; padding: 15px; border-radius: 5px; margin: 0 0 20px 0;">
			<p style="margin: 0; font-size: 14px; color: #666;">Booking number</p>
			<p style="margin: 5px 0 0 0; font-size: 18px; font-weight: bold; font-family: monospace;">%s</p>
		</div>

		<table style="width: 100%%; border-collapse: collapse; margin: 20px 0;">
			<tbody>
				%s
				%s
			</tbody>
		</table>

		<div style="background: #eee; border-radius: 5px; height: 12px; margin: 20px 0;">
			<div style="background: #2e86c1; border-radius: 5px; height: 12px; width: %d%%;"></div>
		</div>
		<p style="text-align: right; font-size: 14px; color: #666; margin: 0;">%d%% complete</p>

		<hr style="border: none; border-top: 1px solid #eee; margin: 30px 0;">

		<p style="font-size: 12px; color: #999; margin-bottom: 0;">
			This is an automated message. For questions about your shipment, contact your platform operator.
		</p>
	</div>
</body>
</html>`, u.StatusLabel, u.BookingNumber, detailRow("Update", u.Description), locationRow, u.Progress, u.Progress)
}

func detailRow(label, value string) string {
	return fmt.Sprintf(
		`<tr>
			<td style="padding: 12px; border-bottom: 1px solid #eee; color: #666;">%s</td>
			<td style="padding: 12px; border-bottom: 1px solid #eee; text-align: right; font-weight: 600;">%s</td>
		</tr>`,
		label, value,
	)
}

// formatNumber formats a number with comma separators
func formatNumber(n int) string {
	str := fmt.Sprintf("%d", n)
	if len(str) <= 3 {
		return str
	}

	var result strings.Builder
	remainder := len(str) % 3
	if remainder > 0 {
		result.WriteString(str[:remainder])
		if len(str) > remainder {
			result.WriteString(",")
		}
	}

	for i := remainder; i < len(str); i += 3 {
		result.WriteString(str[i : i+3])
		if i+3 < len(str) {
			result.WriteString(",")
		}
	}

	return result.String()
}
