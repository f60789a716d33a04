package view

import (
	"fmt"
	"math"

	"parkdesk/internal/entities"
)

// SummaryStats are the admin dashboard headline numbers.
type SummaryStats struct {
	TotalLots     int
	TotalRevenue  float64
	TotalOccupied int
	TotalVacant   int
}

func Stats(summary entities.AdminSummary) SummaryStats {
	stats := SummaryStats{TotalLots: len(summary.Revenue)}
	for _, lot := range summary.Revenue {
		stats.TotalRevenue += lot.Revenue
	}
	for _, lot := range summary.Occupancy {
		stats.TotalOccupied += lot.Occupied
		stats.TotalVacant += lot.Available
	}
	return stats
}

// UtilizationBar is one lot's occupancy rate, percent rounded to one decimal.
type UtilizationBar struct {
	LocationName string
	Rate         float64
}

func Utilization(occupancy []entities.LotOccupancy) []UtilizationBar {
	bars := make([]UtilizationBar, 0, len(occupancy))
	for _, lot := range occupancy {
		total := lot.Occupied + lot.Available
		rate := 0.0
		if total > 0 {
			rate = math.Round(float64(lot.Occupied)/float64(total)*1000) / 10
		}
		bars = append(bars, UtilizationBar{LocationName: lot.LocationName, Rate: rate})
	}
	return bars
}

// SpotCell is one box in a lot's occupancy grid.
type SpotCell struct {
	ID       int
	Name     string
	Occupied bool
}

// LotCard is the admin rendering of one lot with its spot grid.
type LotCard struct {
	ID            int
	Title         string
	OccupiedLabel string
	Spots         []SpotCell
}

// SpotName derives the display name of a spot from its position in the lot:
// five per row, rows lettered from A. Index 0 is A1, index 7 is B3.
func SpotName(index int) string {
	row := rune('A' + index/5)
	col := index%5 + 1
	return fmt.Sprintf("%c%d", row, col)
}

func LotCards(lots []entities.ParkingLot) []LotCard {
	cards := make([]LotCard, 0, len(lots))
	for _, lot := range lots {
		card := LotCard{
			ID:    lot.ID,
			Title: lot.LocationName,
		}
		occupied := 0
		for i, spot := range lot.Spots {
			cell := SpotCell{ID: spot.ID, Name: SpotName(i), Occupied: spot.Status == entities.SpotOccupied}
			if cell.Occupied {
				occupied++
			}
			card.Spots = append(card.Spots, cell)
		}
		card.OccupiedLabel = fmt.Sprintf("(Occupied : %d/%d)", occupied, lot.MaxSpots)
		cards = append(cards, card)
	}
	return cards
}
