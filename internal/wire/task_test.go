package wire

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/schedge-app/schedge/internal/domain"
)

func strptr(s string) *string { return &s }

func sampleBase(id string) domain.TaskBase {
	return domain.TaskBase{
		ID:           id,
		Name:         "Reading",
		Description:  strptr("Rationality: from AI to Zombies"),
		Color:        "#FFD700",
		Leisure:      false,
		Dependencies: []string{"2"},
		Nonce:        3,
	}
}

func TestDecodeTask_Fixed(t *testing.T) {
	raw := []byte(`{
		"id": "1",
		"type": "fixed",
		"start": "2025-04-28T16:00:00+0300",
		"end": "2025-04-28T18:00:00+0300",
		"name": "Walk with a friend",
		"description": null,
		"leisure": true,
		"color": "#3498DB",
		"dependencies": [],
		"nonce": 0
	}`)
	var wt Task
	if err := json.Unmarshal(raw, &wt); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	got, err := DecodeTask(wt)
	if err != nil {
		t.Fatalf("DecodeTask error: %v", err)
	}
	fixed, ok := got.(*domain.FixedTask)
	if !ok {
		t.Fatalf("DecodeTask returned %T, want *domain.FixedTask", got)
	}
	if fixed.Name != "Walk with a friend" || !fixed.Leisure {
		t.Errorf("base fields not copied: %+v", fixed.TaskBase)
	}
	if fixed.Description != nil {
		t.Errorf("Description = %v, want nil", *fixed.Description)
	}
	wantStart := time.Date(2025, 4, 28, 13, 0, 0, 0, time.UTC)
	if !fixed.Start.Equal(wantStart) {
		t.Errorf("Start = %v, want %v", fixed.Start, wantStart)
	}
	if !fixed.End.Equal(wantStart.Add(2 * time.Hour)) {
		t.Errorf("End = %v, want %v", fixed.End, wantStart.Add(2*time.Hour))
	}
}

func TestDecodeTask_Continuous(t *testing.T) {
	wt := Task{
		ID:           "3",
		Type:         "continuous",
		Name:         "Reading",
		Description:  strptr("Rationality: from AI to Zombies"),
		Color:        "#FFD700",
		Dependencies: []string{"2"},
		Nonce:        3,
		Duration:     "P0000-00-00T01:30:00",
		Kickoff:      "2025-04-29T00:00:00+0300",
		Deadline:     "2025-04-30T00:00:00+0300",
	}
	got, err := DecodeTask(wt)
	if err != nil {
		t.Fatalf("DecodeTask error: %v", err)
	}
	cont, ok := got.(*domain.ContinuousTask)
	if !ok {
		t.Fatalf("DecodeTask returned %T, want *domain.ContinuousTask", got)
	}
	if cont.Duration != 90*time.Minute {
		t.Errorf("Duration = %v, want 1h30m", cont.Duration)
	}
	if cont.Deadline.Sub(cont.Kickoff) != 24*time.Hour {
		t.Errorf("Kickoff/Deadline window = %v, want 24h", cont.Deadline.Sub(cont.Kickoff))
	}
}

func TestDecodeTask_Project(t *testing.T) {
	wt := Task{
		ID:       "5",
		Type:     "project",
		Name:     "Work on the project",
		Color:    "#2ECC71",
		Nonce:    1,
		Duration: "P0000-00-00T10:00:00",
		Kickoff:  "2025-04-28T00:00:00+0300",
		Deadline: "2025-05-02T00:00:00+0300",
		Timings: &Timings{
			Work:                "P0000-00-00T00:20:00",
			SmallBreak:          "P0000-00-00T00:05:00",
			BigBreak:            "P0000-00-00T00:20:00",
			NumberOfSmallBreaks: 3,
		},
	}
	got, err := DecodeTask(wt)
	if err != nil {
		t.Fatalf("DecodeTask error: %v", err)
	}
	proj, ok := got.(*domain.ProjectTask)
	if !ok {
		t.Fatalf("DecodeTask returned %T, want *domain.ProjectTask", got)
	}
	wantTimings := domain.ProjectTimings{
		Work:                20 * time.Minute,
		SmallBreak:          5 * time.Minute,
		BigBreak:            20 * time.Minute,
		NumberOfSmallBreaks: 3,
	}
	if proj.Timings != wantTimings {
		t.Errorf("Timings = %+v, want %+v", proj.Timings, wantTimings)
	}
}

func TestDecodeTask_UnknownType(t *testing.T) {
	_, err := DecodeTask(Task{ID: "9", Type: "recurring"})
	if !errors.Is(err, domain.ErrUnknownTaskType) {
		t.Errorf("DecodeTask error = %v, want ErrUnknownTaskType", err)
	}
}

func TestDecodeTask_MalformedInstant(t *testing.T) {
	wt := Task{ID: "9", Type: "fixed", Start: "yesterday", End: "2025-04-28T18:00:00+0300"}
	if _, err := DecodeTask(wt); !errors.Is(err, domain.ErrBadFormat) {
		t.Errorf("DecodeTask error = %v, want ErrBadFormat", err)
	}
}

func TestDecodeTask_ProjectWithoutTimings(t *testing.T) {
	wt := Task{
		ID: "9", Type: "project",
		Duration: "PT1H", Kickoff: "2025-04-28T00:00:00Z", Deadline: "2025-04-29T00:00:00Z",
	}
	if _, err := DecodeTask(wt); !errors.Is(err, domain.ErrBadFormat) {
		t.Errorf("DecodeTask error = %v, want ErrBadFormat", err)
	}
}

func TestTaskRoundTrip_AllVariants(t *testing.T) {
	start := time.Date(2025, 4, 28, 16, 0, 0, 0, time.Local)
	variants := []domain.Task{
		&domain.FixedTask{TaskBase: sampleBase("1"), Start: start, End: start.Add(2 * time.Hour)},
		&domain.ContinuousTask{TaskBase: sampleBase("2"), Duration: 90 * time.Minute, Kickoff: start, Deadline: start.AddDate(0, 0, 1)},
		&domain.ProjectTask{
			TaskBase: sampleBase("3"), Duration: 10 * time.Hour,
			Kickoff: start, Deadline: start.AddDate(0, 0, 4),
			Timings: domain.ProjectTimings{
				Work: 20 * time.Minute, SmallBreak: 5 * time.Minute,
				BigBreak: 20 * time.Minute, NumberOfSmallBreaks: 3,
			},
		},
	}
	for _, want := range variants {
		wt, err := EncodeTask(want)
		if err != nil {
			t.Fatalf("EncodeTask(%s) error: %v", want.Type(), err)
		}
		got, err := DecodeTask(wt)
		if err != nil {
			t.Fatalf("DecodeTask(%s) error: %v", want.Type(), err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("%s round trip:\n got %#v\nwant %#v", want.Type(), got, want)
		}
	}
}

func TestEncodeTask_EmitsOnlyVariantFields(t *testing.T) {
	start := time.Date(2025, 4, 28, 16, 0, 0, 0, time.Local)
	wt, err := EncodeTask(&domain.FixedTask{TaskBase: sampleBase("1"), Start: start, End: start.Add(time.Hour)})
	if err != nil {
		t.Fatalf("EncodeTask error: %v", err)
	}
	if wt.Duration != "" || wt.Kickoff != "" || wt.Deadline != "" || wt.Timings != nil {
		t.Errorf("fixed task leaked foreign variant fields: %+v", wt)
	}

	wt, err = EncodeTask(&domain.ContinuousTask{TaskBase: sampleBase("2"), Duration: time.Hour, Kickoff: start, Deadline: start.Add(time.Hour)})
	if err != nil {
		t.Fatalf("EncodeTask error: %v", err)
	}
	if wt.Start != "" || wt.End != "" || wt.Timings != nil {
		t.Errorf("continuous task leaked foreign variant fields: %+v", wt)
	}
}

func TestDecodeState(t *testing.T) {
	task := Task{
		ID: "1", Type: "fixed", Name: "Walk",
		Start: "2025-04-28T16:00:00+0300", End: "2025-04-28T18:00:00+0300",
	}
	ws := State{
		UserID: 7,
		Tasks:  []Task{task},
		Slots:  []Slot{{Start: task.Start, End: task.End, Task: task}},
	}
	st, err := DecodeState(ws)
	if err != nil {
		t.Fatalf("DecodeState error: %v", err)
	}
	if st.UserID != 7 || len(st.Tasks) != 1 || len(st.Slots) != 1 {
		t.Fatalf("DecodeState = %+v", st)
	}
	if st.Slots[0].Task.Base().ID != "1" {
		t.Errorf("slot task id = %q, want %q", st.Slots[0].Task.Base().ID, "1")
	}
}

func TestStateRoundTrip(t *testing.T) {
	start := time.Date(2025, 4, 28, 16, 0, 0, 0, time.Local)
	task := &domain.FixedTask{TaskBase: sampleBase("1"), Start: start, End: start.Add(time.Hour)}
	want := domain.State{
		UserID: 7,
		Tasks:  []domain.Task{task},
		Slots:  []domain.Slot{{Task: task, Start: start, End: start.Add(time.Hour)}},
	}

	ws, err := EncodeState(want)
	if err != nil {
		t.Fatalf("EncodeState error: %v", err)
	}
	got, err := DecodeState(ws)
	if err != nil {
		t.Fatalf("DecodeState error: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("state round trip:\n got %#v\nwant %#v", got, want)
	}
}

func TestDecodeState_FailsAsAUnit(t *testing.T) {
	ws := State{
		UserID: 7,
		Tasks: []Task{
			{ID: "1", Type: "fixed", Start: "2025-04-28T16:00:00Z", End: "2025-04-28T18:00:00Z"},
			{ID: "2", Type: "haunted"},
		},
	}
	if _, err := DecodeState(ws); !errors.Is(err, domain.ErrUnknownTaskType) {
		t.Errorf("DecodeState error = %v, want ErrUnknownTaskType", err)
	}
}
