package cli

import (
	"fmt"
	"time"

	"github.com/schedge-app/schedge/internal/app"
	"github.com/schedge-app/schedge/internal/domain"
)

// newApp builds the client runtime from the on-disk config.
func newApp() (*app.App, error) {
	return app.New()
}

// describeTask renders the variant-specific timing column.
func describeTask(t domain.Task) string {
	switch v := t.(type) {
	case *domain.FixedTask:
		return fmt.Sprintf("%s – %s",
			v.Start.Format("Mon Jan 2 15:04"),
			v.End.Format("15:04"))
	case *domain.ContinuousTask:
		return fmt.Sprintf("%s by %s",
			formatDuration(v.Duration),
			v.Deadline.Format("Mon Jan 2 15:04"))
	case *domain.ProjectTask:
		return fmt.Sprintf("%s by %s (%s sessions)",
			formatDuration(v.Duration),
			v.Deadline.Format("Mon Jan 2 15:04"),
			formatDuration(v.Timings.Work))
	}
	return ""
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	if h > 0 && m > 0 {
		return fmt.Sprintf("%dh%02dm", h, m)
	}
	if h > 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dm", m)
}

func leisureMark(t domain.Task) string {
	if t.Base().Leisure {
		return "~"
	}
	return ""
}
