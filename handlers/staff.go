// ABOUTME: Staff MCP tool handlers
// ABOUTME: Implements add_staff, update_staff, remove_staff, and list_staff tools
package handlers

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Vonnie2507/probuild-command/db"
	"github.com/Vonnie2507/probuild-command/models"
)

type StaffHandlers struct {
	db *sql.DB
}

func NewStaffHandlers(database *sql.DB) *StaffHandlers {
	return &StaffHandlers{db: database}
}

type AddStaffInput struct {
	Name     string   `json:"name" jsonschema:"Staff member name (required)"`
	Role     string   `json:"role,omitempty" jsonschema:"Role: sales, production, or install (default production)"`
	Capacity float64  `json:"capacity,omitempty" jsonschema:"Daily capacity in hours (default 8)"`
	Skills   []string `json:"skills,omitempty" jsonschema:"Skills: posts, panels, production"`
	Color    string   `json:"color,omitempty" jsonschema:"Display color as a hex string"`
}

type StaffOutput struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Role     string   `json:"role"`
	Capacity float64  `json:"capacity"`
	Skills   []string `json:"skills,omitempty"`
	Color    string   `json:"color,omitempty"`
	Active   bool     `json:"active"`
}

func (h *StaffHandlers) AddStaff(_ context.Context, request *mcp.CallToolRequest, input AddStaffInput) (*mcp.CallToolResult, StaffOutput, error) {
	staff := &models.Staff{
		Name:               input.Name,
		Role:               input.Role,
		DailyCapacityHours: input.Capacity,
		Skills:             input.Skills,
		Color:              input.Color,
	}

	if err := db.CreateStaff(h.db, staff); err != nil {
		return nil, StaffOutput{}, fmt.Errorf("failed to create staff: %w", err)
	}

	return &mcp.CallToolResult{}, staffToOutput(staff), nil
}

type UpdateStaffInput struct {
	StaffID  string   `json:"staff_id" jsonschema:"Staff ID (required)"`
	Name     string   `json:"name,omitempty" jsonschema:"New name"`
	Role     string   `json:"role,omitempty" jsonschema:"New role: sales, production, or install"`
	Capacity *float64 `json:"capacity,omitempty" jsonschema:"New daily capacity in hours"`
	Skills   []string `json:"skills,omitempty" jsonschema:"Replacement skills list"`
	Color    string   `json:"color,omitempty" jsonschema:"New display color"`
	Active   *bool    `json:"active,omitempty" jsonschema:"Set active or inactive"`
}

func (h *StaffHandlers) UpdateStaff(_ context.Context, request *mcp.CallToolRequest, input UpdateStaffInput) (*mcp.CallToolResult, StaffOutput, error) {
	staff, err := db.GetStaff(h.db, input.StaffID)
	if err != nil {
		return nil, StaffOutput{}, fmt.Errorf("failed to look up staff: %w", err)
	}
	if staff == nil {
		return nil, StaffOutput{}, fmt.Errorf("staff not found: %s", input.StaffID)
	}

	if input.Name != "" {
		staff.Name = input.Name
	}
	if input.Role != "" {
		if !models.ValidRole(input.Role) {
			return nil, StaffOutput{}, fmt.Errorf("invalid role: %s (valid: sales, production, install)", input.Role)
		}
		staff.Role = input.Role
	}
	if input.Capacity != nil {
		staff.DailyCapacityHours = *input.Capacity
	}
	if input.Skills != nil {
		staff.Skills = input.Skills
	}
	if input.Color != "" {
		staff.Color = input.Color
	}
	if input.Active != nil {
		staff.Active = *input.Active
	}

	if err := db.UpdateStaff(h.db, staff); err != nil {
		return nil, StaffOutput{}, fmt.Errorf("failed to update staff: %w", err)
	}

	return &mcp.CallToolResult{}, staffToOutput(staff), nil
}

type RemoveStaffInput struct {
	StaffID string `json:"staff_id" jsonschema:"Staff ID (required)"`
}

type RemoveStaffOutput struct {
	Removed bool   `json:"removed"`
	StaffID string `json:"staff_id"`
}

func (h *StaffHandlers) RemoveStaff(_ context.Context, request *mcp.CallToolRequest, input RemoveStaffInput) (*mcp.CallToolResult, RemoveStaffOutput, error) {
	staff, err := db.GetStaff(h.db, input.StaffID)
	if err != nil {
		return nil, RemoveStaffOutput{}, fmt.Errorf("failed to look up staff: %w", err)
	}
	if staff == nil {
		return nil, RemoveStaffOutput{}, fmt.Errorf("staff not found: %s", input.StaffID)
	}

	if err := db.DeleteStaff(h.db, input.StaffID); err != nil {
		return nil, RemoveStaffOutput{}, fmt.Errorf("failed to remove staff: %w", err)
	}

	return &mcp.CallToolResult{}, RemoveStaffOutput{Removed: true, StaffID: input.StaffID}, nil
}

type ListStaffInput struct {
	IncludeInactive bool `json:"include_inactive,omitempty" jsonschema:"Include deactivated staff members"`
}

type ListStaffOutput struct {
	Staff []StaffOutput `json:"staff"`
	Count int           `json:"count"`
}

func (h *StaffHandlers) ListStaff(_ context.Context, request *mcp.CallToolRequest, input ListStaffInput) (*mcp.CallToolResult, ListStaffOutput, error) {
	staff, err := db.ListStaff(h.db, input.IncludeInactive)
	if err != nil {
		return nil, ListStaffOutput{}, fmt.Errorf("failed to list staff: %w", err)
	}

	out := ListStaffOutput{}
	for i := range staff {
		out.Staff = append(out.Staff, staffToOutput(&staff[i]))
	}
	out.Count = len(out.Staff)

	return &mcp.CallToolResult{}, out, nil
}

func staffToOutput(staff *models.Staff) StaffOutput {
	return StaffOutput{
		ID:       staff.ID,
		Name:     staff.Name,
		Role:     staff.Role,
		Capacity: staff.DailyCapacityHours,
		Skills:   staff.Skills,
		Color:    staff.Color,
		Active:   staff.Active,
	}
}
