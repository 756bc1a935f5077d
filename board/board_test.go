// ABOUTME: Tests for pure board operations
// ABOUTME: Covers filter identity, move isolation, and schedule independence
package board

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Vonnie2507/probuild-command/models"
)

func fixtureJobs() []models.Job {
	return []models.Job{
		{
			ID:              uuid.New(),
			JobNumber:       "1042",
			CustomerName:    "Harper Lane",
			Address:         "22 Coastal Dr",
			AssignedStaffID: "staff-1",
			Status:          models.StatusQuoteSent,
			QuoteValue:      450000,
		},
		{
			ID:              uuid.New(),
			JobNumber:       "1055",
			CustomerName:    "Riverside Cafe",
			Address:         "8 Main St",
			AssignedStaffID: "staff-2",
			Status:          models.StatusProduction,
			QuoteValue:      1250000,
		},
		{
			ID:              uuid.New(),
			JobNumber:       "1060",
			CustomerName:    "Old Mill Estate",
			Address:         "Mill Rd",
			AssignedStaffID: "staff-1",
			Status:          models.StatusNewLead,
		},
	}
}

func TestFilterJobsAllIsIdentity(t *testing.T) {
	jobs := fixtureJobs()

	filtered := FilterJobs(jobs, models.StaffAll, "")
	if len(filtered) != len(jobs) {
		t.Errorf("'all' with empty search must return every job, got %d of %d", len(filtered), len(jobs))
	}
}

func TestFilterJobsByJobNumber(t *testing.T) {
	jobs := fixtureJobs()

	filtered := FilterJobs(jobs, models.StaffAll, "1042")
	if len(filtered) != 1 {
		t.Fatalf("expected exactly one match for '1042', got %d", len(filtered))
	}
	if filtered[0].CustomerName != "Harper Lane" {
		t.Errorf("wrong job matched: %s", filtered[0].CustomerName)
	}
}

func TestFilterJobsCaseInsensitive(t *testing.T) {
	jobs := fixtureJobs()

	for _, query := range []string{"riverside", "RIVERSIDE", "RiVeRsIdE", "main st"} {
		filtered := FilterJobs(jobs, models.StaffAll, query)
		if len(filtered) != 1 || filtered[0].JobNumber != "1055" {
			t.Errorf("query %q: expected job 1055, got %d matches", query, len(filtered))
		}
	}
}

func TestFilterJobsIntersectsStaffAndSearch(t *testing.T) {
	jobs := fixtureJobs()

	// staff-1 owns 1042 and 1060; "mill" only matches 1060
	filtered := FilterJobs(jobs, "staff-1", "mill")
	if len(filtered) != 1 || filtered[0].JobNumber != "1060" {
		t.Errorf("expected job 1060 only, got %d matches", len(filtered))
	}

	// staff-2 has no "mill" job
	filtered = FilterJobs(jobs, "staff-2", "mill")
	if len(filtered) != 0 {
		t.Errorf("expected no matches, got %d", len(filtered))
	}
}

func TestFilterJobsNoMatch(t *testing.T) {
	filtered := FilterJobs(fixtureJobs(), models.StaffAll, "zzz-nothing")
	if len(filtered) != 0 {
		t.Errorf("expected empty result, got %d", len(filtered))
	}
}

func TestMoveJobChangesOnlyStatus(t *testing.T) {
	jobs := fixtureJobs()
	target := jobs[0]

	moved := MoveJob(jobs, target.ID, models.StatusWon)

	if moved[0].Status != models.StatusWon {
		t.Errorf("expected won, got %s", moved[0].Status)
	}
	if moved[0].CustomerName != target.CustomerName || moved[0].QuoteValue != target.QuoteValue {
		t.Error("move changed fields other than status")
	}
	for i := 1; i < len(moved); i++ {
		if moved[i].Status != jobs[i].Status {
			t.Errorf("move leaked to job %s", moved[i].JobNumber)
		}
	}

	// Input slice untouched
	if jobs[0].Status != models.StatusQuoteSent {
		t.Error("MoveJob mutated its input")
	}
}

func TestMoveJobUnknownIDIsNoOp(t *testing.T) {
	jobs := fixtureJobs()
	moved := MoveJob(jobs, uuid.New(), models.StatusWon)

	for i := range jobs {
		if moved[i].Status != jobs[i].Status {
			t.Error("unknown id must leave every job unchanged")
		}
	}
}

func TestScheduleJobPostsAndPanelsIndependent(t *testing.T) {
	jobs := fixtureJobs()
	target := jobs[1]
	postsDate := time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

	scheduled := ScheduleJob(jobs, target.ID, models.WorkTypePosts, postsDate, true)

	if scheduled[1].PostsDate == nil || !scheduled[1].PostsDate.Equal(postsDate) {
		t.Fatal("posts date not set")
	}
	if scheduled[1].InstallStage != models.InstallPostsScheduled {
		t.Errorf("expected posts_scheduled, got %s", scheduled[1].InstallStage)
	}
	if scheduled[1].PanelsDate != nil || scheduled[1].PanelsTentative {
		t.Error("posts schedule must not touch panel fields")
	}

	panelsDate := postsDate.AddDate(0, 0, 10)
	scheduled = ScheduleJob(scheduled, target.ID, models.WorkTypePanels, panelsDate, false)

	if scheduled[1].PanelsDate == nil || !scheduled[1].PanelsDate.Equal(panelsDate) {
		t.Fatal("panels date not set")
	}
	if scheduled[1].InstallStage != models.InstallPanelsScheduled {
		t.Errorf("expected panels_scheduled, got %s", scheduled[1].InstallStage)
	}
	if !scheduled[1].PostsDate.Equal(postsDate) || !scheduled[1].PostsTentative {
		t.Error("panels schedule must not touch posts fields")
	}
}

func TestColumnsGrouping(t *testing.T) {
	jobs := fixtureJobs()
	jobs = append(jobs, models.Job{
		ID:           uuid.New(),
		JobNumber:    "9001",
		CustomerName: "Legacy Import",
		Status:       "invoiced", // not a board column
		QuoteValue:   100,
	})

	columns := Columns(jobs)

	if columns[0].Status != models.StatusNewLead {
		t.Errorf("expected new_lead first, got %s", columns[0].Status)
	}

	var quoteCol, otherCol *Column
	for i := range columns {
		switch columns[i].Status {
		case models.StatusQuoteSent:
			quoteCol = &columns[i]
		case "other":
			otherCol = &columns[i]
		}
	}

	if quoteCol == nil || len(quoteCol.Jobs) != 1 || quoteCol.Value != 450000 {
		t.Error("quote_sent column wrong")
	}
	if otherCol == nil || len(otherCol.Jobs) != 1 || otherCol.Jobs[0].JobNumber != "9001" {
		t.Error("unknown statuses should land in the other column")
	}
}
