// Package days implements the day-diary service (SPEC_FULL.md §4.E):
// day-color catalog reads, per-date diary records, month summaries, and the
// color/day upserts that publish to subscribers.
package days

import (
	"fmt"
	"time"

	"github.com/nextapp/nextappd/api"
)

// ToWireDate converts a stored ISO-8601 date string (1-based month) into the
// wire's Date (0-based month).
func ToWireDate(stored string) (api.Date, error) {
	t, err := time.Parse("2006-01-02", stored)
	if err != nil {
		return api.Date{}, fmt.Errorf("parse stored date %q: %w", stored, err)
	}
	return api.Date{Year: int32(t.Year()), Month: int32(t.Month()) - 1, Mday: int32(t.Day())}, nil
}

// FromWireDate converts a wire Date (0-based month) into the ISO-8601 string
// the day/day_colors tables key on.
func FromWireDate(d api.Date) string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month+1, d.Mday)
}
