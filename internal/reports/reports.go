// Package reports formats the administrative views: per-day participant
// lists, the aggregate stats block, and chunking of oversized output for
// transports with a message size cap.
package reports

import (
	"fmt"
	"strings"
	"time"

	"github.com/prizedraw/backend/internal/models"
	"github.com/prizedraw/backend/internal/participants"
)

// MessageLimit is the chunk threshold, kept under Telegram's 4096 cap.
const MessageLimit = 4000

const dateLayout = "02.01.2006"

// ParticipantList renders the entries for one day, ordered as given.
func ParticipantList(day time.Time, entries []models.ParticipantEntry) string {
	if len(entries) == 0 {
		return fmt.Sprintf("📭 На %s участников нет.", day.Format(dateLayout))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📋 Участники на %s:\n\n", day.Format(dateLayout))
	for _, e := range entries {
		handle := "нет username"
		if e.Handle != "" {
			handle = "@" + e.Handle
		}
		fmt.Fprintf(&b, "%s | %s | %s (%s) | %s\n",
			e.RegistrationTime.Format("15:04:05"), e.CodeWord, e.DisplayName, handle, e.Phone)
	}
	fmt.Fprintf(&b, "\n📊 Всего участников: %d", len(entries))
	return b.String()
}

// DatesList renders the days that have entries, for the /list menu.
func DatesList(dates []time.Time) string {
	if len(dates) == 0 {
		return "📭 В базе нет данных об участниках."
	}
	var b strings.Builder
	b.WriteString("📋 Даты с участниками:\n\n")
	weekdays := []string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}
	for _, d := range dates {
		fmt.Fprintf(&b, "📅 %s (%s)\n", d.Format(dateLayout), weekdays[d.Weekday()])
	}
	b.WriteString("\nЗапросите список: /list DD.MM.YYYY")
	return b.String()
}

// StatsReport renders the aggregate stats block. Empty-store date fields
// show a "no data" placeholder instead of failing.
func StatsReport(s participants.Stats) string {
	noData := "Нет данных"
	first, last := noData, noData
	if s.FirstDate != nil {
		first = s.FirstDate.Format(dateLayout)
	}
	if s.LastDate != nil {
		last = s.LastDate.Format(dateLayout)
	}

	var b strings.Builder
	b.WriteString("📈 Общая статистика:\n\n")
	fmt.Fprintf(&b, "👥 Всего участников: %d\n", s.Total)
	fmt.Fprintf(&b, "📅 Дней с данными: %d\n", s.DistinctDays)
	fmt.Fprintf(&b, "👤 Уникальных пользователей: %d\n", s.DistinctUsers)
	fmt.Fprintf(&b, "📆 Первая запись: %s\n", first)
	fmt.Fprintf(&b, "📆 Последняя запись: %s\n", last)
	if len(s.LastDays) > 0 {
		b.WriteString("\n📊 Последние дни:\n")
		for _, dc := range s.LastDays {
			fmt.Fprintf(&b, "• %s: %d участников\n", dc.Date.Format(dateLayout), dc.Count)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// Chunk splits text into parts no longer than limit runes, preferring
// line boundaries. A single line longer than the limit is hard-split on
// rune boundaries so multi-byte text never tears.
func Chunk(text string, limit int) []string {
	if limit <= 0 {
		limit = MessageLimit
	}
	if len(text) <= limit {
		return []string{text}
	}

	var parts []string
	var cur strings.Builder
	curLen := 0
	flush := func() {
		if curLen > 0 {
			parts = append(parts, strings.TrimRight(cur.String(), "\n"))
			cur.Reset()
			curLen = 0
		}
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		n := len([]rune(line))
		if n > limit {
			flush()
			runes := []rune(line)
			for len(runes) > 0 {
				end := limit
				if end > len(runes) {
					end = len(runes)
				}
				parts = append(parts, strings.TrimRight(string(runes[:end]), "\n"))
				runes = runes[end:]
			}
			continue
		}
		if curLen+n > limit {
			flush()
		}
		cur.WriteString(line)
		curLen += n
	}
	flush()
	return parts
}
