// Package view maps backend data to render-ready view models. Functions here
// are pure so the reconciliation logic in internal/service can be tested
// without any terminal or UI attached.
package view

import (
	"fmt"
	"strconv"

	"parkdesk/internal/entities"
)

// SearchSentinel is the directory entry that triggers the filter prompt
// instead of selecting a lot.
const SearchSentinel = "__search__"

type DirectoryEntry struct {
	Value     string
	Name      string
	Available int
}

// Label renders the selectable text for an entry: "name (N available)".
func (e DirectoryEntry) Label() string {
	if e.Value == SearchSentinel {
		return e.Name
	}
	return fmt.Sprintf("%s (%d available)", e.Name, e.Available)
}

// Directory builds the selectable lot list. The search sentinel is always the
// first entry, whatever the lot set.
func Directory(lots []entities.ParkingLot) []DirectoryEntry {
	entries := make([]DirectoryEntry, 0, len(lots)+1)
	entries = append(entries, DirectoryEntry{Value: SearchSentinel, Name: "Search Lots..."})
	for _, lot := range lots {
		entries = append(entries, DirectoryEntry{
			Value:     strconv.Itoa(lot.ID),
			Name:      lot.LocationName,
			Available: lot.AvailableSpots,
		})
	}
	return entries
}

// PatchAvailability updates entry counts in place from a push update without
// refetching the directory. Lots missing from counts keep their old value;
// the sentinel is never touched.
func PatchAvailability(entries []DirectoryEntry, counts map[int]int) {
	for i := range entries {
		if entries[i].Value == SearchSentinel {
			continue
		}
		id, err := strconv.Atoi(entries[i].Value)
		if err != nil {
			continue
		}
		if n, ok := counts[id]; ok {
			entries[i].Available = n
		}
	}
}
