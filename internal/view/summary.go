package view

import (
	"fmt"
	"time"

	"parkdesk/internal/entities"
)

// TimeLayout is the timestamp format the backend uses in summary rows.
const TimeLayout = "2006-01-02 15:04:05"

// NoHistoryText is rendered instead of an empty table.
const NoHistoryText = "No parking history found"

type SummaryRow struct {
	LotName       string
	Spot          string
	VehicleNumber string
	TimeIn        string
	TimeOut       string
	Duration      string
}

// SummaryTable renders reservation history rows in server order. Open
// reservations get placeholder time-out and duration; an empty history
// becomes a single explicit no-history row.
func SummaryTable(reservations []entities.Reservation) []SummaryRow {
	if len(reservations) == 0 {
		return []SummaryRow{{LotName: NoHistoryText, Spot: "-", VehicleNumber: "-", TimeIn: "-", TimeOut: "-", Duration: "-"}}
	}
	rows := make([]SummaryRow, 0, len(reservations))
	for _, r := range reservations {
		row := SummaryRow{
			LotName:       r.LotName,
			Spot:          fmt.Sprintf("%d", r.Spot),
			VehicleNumber: r.VehicleNumber,
			TimeIn:        r.TimeIn,
			TimeOut:       "-",
			Duration:      "-",
		}
		if row.VehicleNumber == "" {
			row.VehicleNumber = "N/A"
		}
		if !r.Active() {
			row.TimeOut = r.TimeOut
			row.Duration = Duration(r.TimeIn, r.TimeOut)
		}
		rows = append(rows, row)
	}
	return rows
}

// Duration renders time_out - time_in as "Xh Ym", collapsing to "Ym" when the
// elapsed time is under an hour. Unparseable timestamps render as "-".
func Duration(timeIn, timeOut string) string {
	start, err := time.Parse(TimeLayout, timeIn)
	if err != nil {
		return "-"
	}
	end, err := time.Parse(TimeLayout, timeOut)
	if err != nil {
		return "-"
	}
	d := end.Sub(start)
	if d < 0 {
		return "-"
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}
