package mockserver

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/schedge-app/schedge/internal/wire"
)

// seedFile is the YAML layout of a seed fixture: tasks per user, in the
// same shape as the wire format.
type seedFile struct {
	Users []seedUser `yaml:"users"`
}

type seedUser struct {
	ID    int64      `yaml:"id"`
	Tasks []seedTask `yaml:"tasks"`
	Queue []int64    `yaml:"queue"`
}

type seedTask struct {
	ID           string       `yaml:"id"`
	Type         string       `yaml:"type"`
	Name         string       `yaml:"name"`
	Description  *string      `yaml:"description"`
	Color        string       `yaml:"color"`
	Leisure      bool         `yaml:"leisure"`
	Dependencies []string     `yaml:"dependencies"`
	Nonce        int64        `yaml:"nonce"`
	Start        string       `yaml:"start"`
	End          string       `yaml:"end"`
	Duration     string       `yaml:"duration"`
	Kickoff      string       `yaml:"kickoff"`
	Deadline     string       `yaml:"deadline"`
	Timings      *seedTimings `yaml:"timings"`
}

type seedTimings struct {
	Work                string `yaml:"work"`
	SmallBreak          string `yaml:"smallBreak"`
	BigBreak            string `yaml:"bigBreak"`
	NumberOfSmallBreaks int    `yaml:"numberOfSmallBreaks"`
}

func (st seedTask) wire() wire.Task {
	t := wire.Task{
		ID:           st.ID,
		Type:         st.Type,
		Name:         st.Name,
		Description:  st.Description,
		Color:        st.Color,
		Leisure:      st.Leisure,
		Dependencies: st.Dependencies,
		Nonce:        st.Nonce,
		Start:        st.Start,
		End:          st.End,
		Duration:     st.Duration,
		Kickoff:      st.Kickoff,
		Deadline:     st.Deadline,
	}
	if t.Dependencies == nil {
		t.Dependencies = []string{}
	}
	if st.Timings != nil {
		t.Timings = &wire.Timings{
			Work:                st.Timings.Work,
			SmallBreak:          st.Timings.SmallBreak,
			BigBreak:            st.Timings.BigBreak,
			NumberOfSmallBreaks: st.Timings.NumberOfSmallBreaks,
		}
	}
	return t
}

// LoadSeed reads a YAML seed file and installs its tasks and queues,
// replacing whatever the database holds for the seeded users. Each task
// is validated by decoding it; a malformed seed fails as a unit.
func (s *Server) LoadSeed(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed: %w", err)
	}
	var sf seedFile
	if err := yaml.Unmarshal(raw, &sf); err != nil {
		return fmt.Errorf("parse seed: %w", err)
	}

	for _, u := range sf.Users {
		for _, st := range u.Tasks {
			wt := st.wire()
			if _, err := wire.DecodeTask(wt); err != nil {
				return fmt.Errorf("seed user %d: %w", u.ID, err)
			}
			if err := s.db.PutTask(u.ID, wt); err != nil {
				return fmt.Errorf("seed user %d: %w", u.ID, err)
			}
		}
		if len(u.Queue) > 0 {
			if err := s.db.ReplaceQueue(u.ID, u.Queue); err != nil {
				return fmt.Errorf("seed user %d queue: %w", u.ID, err)
			}
		}
		if err := s.reschedule(u.ID); err != nil {
			return fmt.Errorf("seed user %d schedule: %w", u.ID, err)
		}
	}
	return nil
}
