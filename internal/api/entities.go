package api

import (
	"time"

	"github.com/campuskit/campusctl/internal/envelope"
)

// Descriptor declares how one entity's endpoints behave: where its collection
// lives, which envelope paths may hold the list (in precedence order), and
// how long to wait before refetching after a delete. The candidate order is
// fixed per entity so normalization stays deterministic.
type Descriptor struct {
	Name         string   // plural identifier, e.g. "branches"
	Title        string   // display name
	Path         string   // collection endpoint path
	Candidates   []string // envelope paths tried in order
	RefetchDelay time.Duration
}

// deleteLag is how long delete refetches wait out backend cache staleness.
const deleteLag = 500 * time.Millisecond

// Entities returns the descriptors of every entity this client manages.
//
// Candidate orders mirror what each endpoint has been observed to return;
// most wrap the list in "data", a few double-wrap or key it by entity name.
func Entities() []Descriptor {
	return []Descriptor{
		{
			Name:         "branches",
			Title:        "Branches",
			Path:         "/branches",
			Candidates:   []string{envelope.Data, envelope.DataData, envelope.DataKey("branches"), envelope.Root},
			RefetchDelay: deleteLag,
		},
		{
			Name:         "grades",
			Title:        "Grades",
			Path:         "/grades",
			Candidates:   []string{envelope.Data, envelope.DataData, envelope.DataKey("grades"), envelope.Root},
			RefetchDelay: deleteLag,
		},
		{
			Name:         "sections",
			Title:        "Sections",
			Path:         "/sections",
			Candidates:   []string{envelope.DataData, envelope.Data, envelope.DataKey("sections"), envelope.Root},
			RefetchDelay: deleteLag,
		},
		{
			Name:         "academic-years",
			Title:        "Academic Years",
			Path:         "/academic-years",
			Candidates:   []string{envelope.Data, envelope.DataKey("academicYears"), envelope.DataData, envelope.Root},
			RefetchDelay: deleteLag,
		},
		{
			Name:         "schedules",
			Title:        "Class Schedules",
			Path:         "/class-schedules",
			Candidates:   []string{envelope.DataKey("schedules"), envelope.Data, envelope.DataData, envelope.Root},
			RefetchDelay: deleteLag,
		},
		{
			Name:         "staff",
			Title:        "Staff",
			Path:         "/staff",
			Candidates:   []string{envelope.Data, envelope.DataData, envelope.DataKey("staff"), envelope.Root},
			RefetchDelay: deleteLag,
		},
		{
			Name:         "exam-setups",
			Title:        "Exam Setups",
			Path:         "/exam-setups",
			Candidates:   []string{envelope.Data, envelope.DataData, envelope.DataKey("examSetups"), envelope.Root},
			RefetchDelay: deleteLag,
		},
	}
}

// Lookup finds a descriptor by its plural name.
func Lookup(name string) (Descriptor, bool) {
	for _, d := range Entities() {
		if d.Name == name {
			return d, true
		}
	}
	return Descriptor{}, false
}
