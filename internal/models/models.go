package models

import (
	"github.com/campuskit/campusctl/internal/envelope"
)

// Administrative roles permitted to use this client.
const (
	RoleAdmin       = 1
	RoleBranchAdmin = 2
)

// UserProfile is the authenticated identity cached between app restarts.
// The role drives role-specific UI and the login allowlist.
type UserProfile struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  int    `json:"role"`
}

// Allowed reports whether the profile's role is in the administrative set.
func (u *UserProfile) Allowed() bool {
	return u.Role == RoleAdmin || u.Role == RoleBranchAdmin
}

// Session pairs the bearer token with the user it authenticates.
type Session struct {
	Token string       `json:"token"`
	User  *UserProfile `json:"user"`
}

// Branch is a school branch (campus).
type Branch struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Status  any    `json:"status"`
}

func (b Branch) Active() bool { return envelope.Truthy(b.Status) }

// Grade is a grade/class level within a branch.
type Grade struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	BranchID int    `json:"branch_id"`
	Status   any    `json:"status"`
}

func (g Grade) Active() bool { return envelope.Truthy(g.Status) }

// Section is a division of a grade.
type Section struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	GradeID int    `json:"grade_id"`
	Status  any    `json:"status"`
}

func (s Section) Active() bool { return envelope.Truthy(s.Status) }

// AcademicYear spans a school year. Dates are 8-digit DDMMYYYY strings.
type AcademicYear struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Status    any    `json:"status"`
}

func (y AcademicYear) Active() bool { return envelope.Truthy(y.Status) }

// ClassSchedule is a recurring period assigned to a section.
type ClassSchedule struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	SectionID int    `json:"section_id"`
	Day       string `json:"day"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Status    any    `json:"status"`
}

func (c ClassSchedule) Active() bool { return envelope.Truthy(c.Status) }

// Staff is a staff member attached to a branch.
type Staff struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Designation string `json:"designation"`
	BranchID    int    `json:"branch_id"`
	Status      any    `json:"status"`
}

func (s Staff) Active() bool { return envelope.Truthy(s.Status) }

// ExamSetup configures an exam within an academic year.
type ExamSetup struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	AcademicYearID int    `json:"academic_year_id"`
	StartDate      string `json:"start_date"`
	Status         any    `json:"status"`
}

func (e ExamSetup) Active() bool { return envelope.Truthy(e.Status) }
