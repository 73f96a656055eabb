// Package calendar gera feeds iCalendar (RFC 5545) com eventos de dia inteiro.
package calendar

import (
	"strings"
	"time"
)

const (
	dateLayout  = "20060102"
	stampLayout = "20060102T150405Z"
	lineLimit   = 75
)

type Event struct {
	UID         string
	Summary     string
	Description string
	Date        time.Time
}

// Render monta o VCALENDAR. now é usado em DTSTAMP.
func Render(name string, events []Event, now time.Time) string {
	var b strings.Builder
	writeLine(&b, "BEGIN:VCALENDAR")
	writeLine(&b, "VERSION:2.0")
	writeLine(&b, "PRODID:-//StockVerse//Tasks//EN")
	writeLine(&b, "CALSCALE:GREGORIAN")
	writeLine(&b, "METHOD:PUBLISH")
	if name != "" {
		writeLine(&b, "X-WR-CALNAME:"+escape(name))
	}

	stamp := now.UTC().Format(stampLayout)
	for _, ev := range events {
		day := time.Date(ev.Date.Year(), ev.Date.Month(), ev.Date.Day(), 0, 0, 0, 0, time.UTC)
		writeLine(&b, "BEGIN:VEVENT")
		writeLine(&b, "UID:"+escape(ev.UID))
		writeLine(&b, "DTSTAMP:"+stamp)
		writeLine(&b, "DTSTART;VALUE=DATE:"+day.Format(dateLayout))
		writeLine(&b, "DTEND;VALUE=DATE:"+day.AddDate(0, 0, 1).Format(dateLayout))
		writeLine(&b, "SUMMARY:"+escape(ev.Summary))
		if ev.Description != "" {
			writeLine(&b, "DESCRIPTION:"+escape(ev.Description))
		}
		writeLine(&b, "END:VEVENT")
	}
	writeLine(&b, "END:VCALENDAR")
	return b.String()
}

func escape(s string) string {
	return strings.NewReplacer(
		`\`, `\\`,
		";", `\;`,
		",", `\,`,
		"\r\n", `\n`,
		"\n", `\n`,
		"\r", "",
	).Replace(s)
}

// writeLine dobra linhas acima de 75 octetos sem partir runas UTF-8.
func writeLine(b *strings.Builder, line string) {
	first := true
	for len(line) > 0 {
		limit := lineLimit
		if !first {
			limit-- // espaço de continuação
		}
		if len(line) <= limit {
			if !first {
				b.WriteString(" ")
			}
			b.WriteString(line)
			break
		}
		cut := limit
		for cut > 0 && (line[cut]&0xC0) == 0x80 {
			cut--
		}
		if !first {
			b.WriteString(" ")
		}
		b.WriteString(line[:cut])
		b.WriteString("\r\n")
		line = line[cut:]
		first = false
	}
	b.WriteString("\r\n")
}
