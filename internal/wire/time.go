// Package wire converts between the schedge wire format and the domain
// model. Temporal fields travel as ISO-8601 strings; the codec here and
// the task converter in task.go are the only places that touch them.
package wire

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/schedge-app/schedge/internal/domain"
)

// instantLayouts are tried in order. The backend emits offsets both with
// and without a colon ("+03:00" and "+0300").
var instantLayouts = []string{
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999Z0700",
}

// ParseInstant parses an ISO-8601 instant carrying an offset and converts
// it to the viewer's local zone. Server and client share millisecond
// resolution.
func ParseInstant(s string) (time.Time, error) {
	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Local(), nil
		}
	}
	// Offset-less instants (seed files) are taken as local wall time.
	if t, err := time.ParseInLocation("2006-01-02T15:04:05.999999999", s, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: instant %q", domain.ErrBadFormat, s)
}

// FormatInstant renders t as an ISO-8601 instant with millisecond fraction
// and offset. A year outside 0..9999 is not representable and indicates a
// programming error upstream, so the caller must treat it as fatal.
func FormatInstant(t time.Time) (string, error) {
	if y := t.Year(); y < 0 || y > 9999 {
		return "", fmt.Errorf("%w: year %d outside 0..9999", domain.ErrBadFormat, y)
	}
	return t.Format("2006-01-02T15:04:05.000-07:00"), nil
}

// ParseSpan parses an ISO-8601 duration. Both the designator form
// ("PT1H30M") and the alternative form the backend emits
// ("P0000-00-00T01:30:00") are accepted. Spans are magnitudes only:
// nonzero year or month components have calendar semantics and are
// rejected.
func ParseSpan(s string) (time.Duration, error) {
	if !strings.HasPrefix(s, "P") {
		return 0, fmt.Errorf("%w: span %q", domain.ErrBadFormat, s)
	}
	body := s[1:]
	var d time.Duration
	var err error
	if strings.Contains(body, "-") {
		d, err = parseAlternativeSpan(body)
	} else {
		d, err = parseDesignatorSpan(body)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: span %q: %v", domain.ErrBadFormat, s, err)
	}
	return d, nil
}

// parseAlternativeSpan handles "YYYY-MM-DDThh:mm:ss[.fff]".
func parseAlternativeSpan(body string) (time.Duration, error) {
	datePart, timePart, hasTime := strings.Cut(body, "T")
	fields := strings.Split(datePart, "-")
	if len(fields) != 3 {
		return 0, fmt.Errorf("want YYYY-MM-DD date part")
	}
	years, err1 := strconv.Atoi(fields[0])
	months, err2 := strconv.Atoi(fields[1])
	days, err3 := strconv.Atoi(fields[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, fmt.Errorf("non-numeric date part")
	}
	if years != 0 || months != 0 {
		return 0, fmt.Errorf("calendar components unsupported")
	}
	d := time.Duration(days) * 24 * time.Hour
	if !hasTime {
		return d, nil
	}
	hms := strings.Split(timePart, ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("want hh:mm:ss time part")
	}
	hours, err1 := strconv.Atoi(hms[0])
	minutes, err2 := strconv.Atoi(hms[1])
	seconds, err3 := strconv.ParseFloat(hms[2], 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, fmt.Errorf("non-numeric time part")
	}
	d += time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute
	d += time.Duration(math.Round(seconds*1000)) * time.Millisecond
	return d, nil
}

// parseDesignatorSpan handles "[nW][nD][T[nH][nM][n[.fff]S]]" after the
// leading P. Zero-valued Y and M components are tolerated.
func parseDesignatorSpan(body string) (time.Duration, error) {
	if body == "" {
		return 0, fmt.Errorf("empty span")
	}
	var d time.Duration
	inTime := false
	i := 0
	for i < len(body) {
		if body[i] == 'T' {
			inTime = true
			i++
			continue
		}
		j := i
		for j < len(body) && (body[j] == '.' || (body[j] >= '0' && body[j] <= '9')) {
			j++
		}
		if j == i || j == len(body) {
			return 0, fmt.Errorf("dangling component")
		}
		val, err := strconv.ParseFloat(body[i:j], 64)
		if err != nil {
			return 0, fmt.Errorf("bad number %q", body[i:j])
		}
		unit := body[j]
		ms := math.Round(val * 1000)
		switch {
		case !inTime && (unit == 'Y' || unit == 'M'):
			if val != 0 {
				return 0, fmt.Errorf("calendar components unsupported")
			}
		case !inTime && unit == 'W':
			d += time.Duration(math.Round(val*7*24*3600*1000)) * time.Millisecond
		case !inTime && unit == 'D':
			d += time.Duration(math.Round(val*24*3600*1000)) * time.Millisecond
		case inTime && unit == 'H':
			d += time.Duration(math.Round(val*3600*1000)) * time.Millisecond
		case inTime && unit == 'M':
			d += time.Duration(math.Round(val*60*1000)) * time.Millisecond
		case inTime && unit == 'S':
			d += time.Duration(ms) * time.Millisecond
		default:
			return 0, fmt.Errorf("bad unit %q", string(unit))
		}
		i = j + 1
	}
	return d, nil
}

// FormatSpan renders d in the canonical designator form ("PT1H30M",
// "PT0.500S"). Negative spans are not representable.
func FormatSpan(d time.Duration) (string, error) {
	if d < 0 {
		return "", fmt.Errorf("%w: negative span %v", domain.ErrBadFormat, d)
	}
	d = d.Round(time.Millisecond)
	if d == 0 {
		return "PT0S", nil
	}
	var b strings.Builder
	b.WriteString("PT")
	if h := d / time.Hour; h > 0 {
		fmt.Fprintf(&b, "%dH", h)
		d -= h * time.Hour
	}
	if m := d / time.Minute; m > 0 {
		fmt.Fprintf(&b, "%dM", m)
		d -= m * time.Minute
	}
	if d > 0 {
		sec := d / time.Second
		ms := (d % time.Second) / time.Millisecond
		if ms > 0 {
			fmt.Fprintf(&b, "%d.%03dS", sec, ms)
		} else {
			fmt.Fprintf(&b, "%dS", sec)
		}
	}
	return b.String(), nil
}
