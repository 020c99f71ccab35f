// Package calendar turns server-computed slots into per-day chunks for
// rendering a week calendar in the viewer's local zone.
package calendar

import (
	"time"

	"github.com/schedge-app/schedge/internal/domain"
)

// SlotChunk is the portion of a slot lying within one calendar day.
// Start/End keep the original slot's bounds for identity; ChunkStart and
// ChunkEnd are clipped to the day.
type SlotChunk struct {
	domain.Slot
	ChunkStart time.Time
	ChunkEnd   time.Time
}

// StartOfDay returns midnight of t's day in t's location.
func StartOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59.999 of t's day. The boundary instant belongs
// to the day it terminates, matching the server's millisecond resolution.
func EndOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 23, 59, 59, 999_000_000, t.Location())
}

// SplitIntoDays cuts a slot into one chunk per local calendar day it
// touches, ordered chronologically. A zero-length or inverted slot
// produces no chunks.
func SplitIntoDays(slot domain.Slot) []SlotChunk {
	if !slot.Start.Before(slot.End) {
		return nil
	}

	var chunks []SlotChunk
	cursor := slot.Start
	for cursor.Before(slot.End) {
		chunkEnd := EndOfDay(cursor)
		if chunkEnd.After(slot.End) {
			chunkEnd = slot.End
		}
		chunks = append(chunks, SlotChunk{
			Slot:       slot,
			ChunkStart: cursor,
			ChunkEnd:   chunkEnd,
		})
		cursor = chunkEnd.Add(time.Millisecond)
	}
	return chunks
}

// SlotsForDay flattens the per-day chunks of all slots and keeps those
// lying entirely within the given day. Used to render one calendar column.
func SlotsForDay(slots []domain.Slot, day time.Time) []SlotChunk {
	dayStart := StartOfDay(day)
	dayEnd := EndOfDay(day)

	var out []SlotChunk
	for _, slot := range slots {
		for _, chunk := range SplitIntoDays(slot) {
			if !chunk.ChunkStart.Before(dayStart) && !chunk.ChunkEnd.After(dayEnd) {
				out = append(out, chunk)
			}
		}
	}
	return out
}

// WeekOf returns the seven days of t's week, Monday first.
func WeekOf(t time.Time) [7]time.Time {
	offset := (int(t.Weekday()) + 6) % 7 // Monday = 0
	monday := StartOfDay(t).AddDate(0, 0, -offset)

	var days [7]time.Time
	for i := range days {
		days[i] = monday.AddDate(0, 0, i)
	}
	return days
}
