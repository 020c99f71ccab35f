package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/schedge-app/schedge/internal/domain"
	"github.com/schedge-app/schedge/internal/wire"
)

func init() {
	addCmd.Flags().StringVar(&addType, "type", "fixed", "Task type: fixed, continuous or project")
	addCmd.Flags().StringVar(&addColor, "color", "#3498DB", "Display color")
	addCmd.Flags().BoolVar(&addLeisure, "leisure", false, "Mark the task as leisure")
	addCmd.Flags().StringVar(&addStart, "start", "", "Start instant (fixed)")
	addCmd.Flags().StringVar(&addEnd, "end", "", "End instant (fixed)")
	addCmd.Flags().StringVar(&addDuration, "duration", "PT1H", "Total duration (continuous, project)")
	addCmd.Flags().StringVar(&addKickoff, "kickoff", "", "Earliest start (continuous, project)")
	addCmd.Flags().StringVar(&addDeadline, "deadline", "", "Latest end (continuous, project)")
	rootCmd.AddCommand(addCmd)
}

var (
	addType     string
	addColor    string
	addLeisure  bool
	addStart    string
	addEnd      string
	addDuration string
	addKickoff  string
	addDeadline string
)

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a task on the server",
	Long: `Create a task. Instants use ISO 8601 (2025-04-28T16:00:00+03:00),
durations use ISO 8601 spans (PT1H30M). Continuous and project tasks
default to a kickoff of now and a deadline a week out.`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func runAdd(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	t, err := buildTask(args[0], time.Now())
	if err != nil {
		return err
	}

	created, err := a.Client.CreateTask(context.Background(), a.UserID(), t)
	if err != nil {
		return err
	}
	fmt.Printf("Created task %s (%s)\n", created.Base().ID, created.Base().Name)
	return nil
}

// buildTask assembles the domain task from the add flags.
func buildTask(name string, now time.Time) (domain.Task, error) {
	base := domain.TaskBase{
		Name:         name,
		Color:        addColor,
		Leisure:      addLeisure,
		Dependencies: []string{},
		Nonce:        1,
	}

	switch domain.TaskType(addType) {
	case domain.TaskFixed:
		if addStart == "" || addEnd == "" {
			return nil, fmt.Errorf("fixed tasks need --start and --end")
		}
		start, err := wire.ParseInstant(addStart)
		if err != nil {
			return nil, fmt.Errorf("--start: %w", err)
		}
		end, err := wire.ParseInstant(addEnd)
		if err != nil {
			return nil, fmt.Errorf("--end: %w", err)
		}
		return &domain.FixedTask{TaskBase: base, Start: start, End: end}, nil

	case domain.TaskContinuous, domain.TaskProject:
		dur, err := wire.ParseSpan(addDuration)
		if err != nil {
			return nil, fmt.Errorf("--duration: %w", err)
		}
		kickoff := now
		if addKickoff != "" {
			if kickoff, err = wire.ParseInstant(addKickoff); err != nil {
				return nil, fmt.Errorf("--kickoff: %w", err)
			}
		}
		deadline := now.AddDate(0, 0, 7)
		if addDeadline != "" {
			if deadline, err = wire.ParseInstant(addDeadline); err != nil {
				return nil, fmt.Errorf("--deadline: %w", err)
			}
		}
		if domain.TaskType(addType) == domain.TaskContinuous {
			return &domain.ContinuousTask{
				TaskBase: base, Duration: dur, Kickoff: kickoff, Deadline: deadline,
			}, nil
		}
		return &domain.ProjectTask{
			TaskBase: base, Duration: dur, Kickoff: kickoff, Deadline: deadline,
			Timings: domain.ProjectTimings{
				Work:                25 * time.Minute,
				SmallBreak:          5 * time.Minute,
				BigBreak:            20 * time.Minute,
				NumberOfSmallBreaks: 4,
			},
		}, nil
	}
	return nil, fmt.Errorf("unknown task type %q", addType)
}
