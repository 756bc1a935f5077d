// ABOUTME: Tests for command center data models
// ABOUTME: Validates phase mapping, role validation, and constants
package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestPhaseForStatus(t *testing.T) {
	quoteStatuses := []string{StatusNewLead, StatusQuoteSent, StatusFollowUp}
	for _, status := range quoteStatuses {
		if PhaseForStatus(status) != PhaseQuote {
			t.Errorf("expected %s to be quote phase", status)
		}
	}

	workStatuses := []string{StatusWon, StatusProduction, StatusScheduling, StatusCompleted}
	for _, status := range workStatuses {
		if PhaseForStatus(status) != PhaseWorkOrder {
			t.Errorf("expected %s to be work order phase", status)
		}
	}

	// Free-text statuses from older syncs land in work order
	if PhaseForStatus("invoiced") != PhaseWorkOrder {
		t.Error("unknown status should default to work order phase")
	}
}

func TestValidRole(t *testing.T) {
	for _, role := range []string{RoleSales, RoleProduction, RoleInstall} {
		if !ValidRole(role) {
			t.Errorf("expected %s to be valid", role)
		}
	}
	if ValidRole("manager") {
		t.Error("manager should not be a valid role")
	}
	if ValidRole("") {
		t.Error("empty role should not be valid")
	}
}

func TestValidWorkType(t *testing.T) {
	if !ValidWorkType(WorkTypePosts) || !ValidWorkType(WorkTypePanels) {
		t.Error("posts and panels should be valid work types")
	}
	if ValidWorkType("footings") {
		t.Error("footings should not be a valid work type")
	}
}

func TestPipelineColumnOrder(t *testing.T) {
	if PipelineColumns[0] != StatusNewLead {
		t.Errorf("expected new_lead first, got %s", PipelineColumns[0])
	}
	if PipelineColumns[len(PipelineColumns)-1] != StatusCompleted {
		t.Errorf("expected completed last, got %s", PipelineColumns[len(PipelineColumns)-1])
	}
}

func TestJobDefaults(t *testing.T) {
	job := &Job{
		ID:            uuid.New(),
		ServiceM8UUID: "sm8-123",
		JobNumber:     "1042",
		CustomerName:  "Smith Residence",
		Status:        StatusQuoteSent,
		InstallStage:  InstallPending,
		CreatedAt:     time.Now(),
	}

	if job.InstallStage != InstallPending {
		t.Errorf("expected pending install stage, got %s", job.InstallStage)
	}
	if job.PostsDate != nil || job.PanelsDate != nil {
		t.Error("new job should have no install dates")
	}
}
