package screens

import "github.com/campuskit/campusctl/internal/api"

// FieldKind selects how a form field is validated and encoded.
type FieldKind int

const (
	FieldText FieldKind = iota
	FieldDate           // 8-digit DDMMYYYY string
	FieldRef            // numeric foreign key
	FieldFlag           // status-like flag, sent as 0/1
)

// Field describes one form field of an entity screen.
type Field struct {
	Name     string
	Label    string
	Required bool
	Kind     FieldKind
}

// Spec binds an entity descriptor to its screen layout: form fields and the
// record field used as the display title.
type Spec struct {
	Entity     api.Descriptor
	TitleField string
	Fields     []Field
}

// Registry returns the screen specs for every managed entity.
func Registry() []Spec {
	specs := make([]Spec, 0, 7)

	for _, d := range api.Entities() {
		spec := Spec{Entity: d, TitleField: "name"}

		switch d.Name {
		case "branches":
			spec.Fields = []Field{
				{Name: "name", Label: "Name", Required: true},
				{Name: "address", Label: "Address"},
				{Name: "phone", Label: "Phone"},
				{Name: "status", Label: "Active", Kind: FieldFlag},
			}
		case "grades":
			spec.Fields = []Field{
				{Name: "name", Label: "Name", Required: true},
				{Name: "branch_id", Label: "Branch", Required: true, Kind: FieldRef},
				{Name: "status", Label: "Active", Kind: FieldFlag},
			}
		case "sections":
			spec.Fields = []Field{
				{Name: "name", Label: "Name", Required: true},
				{Name: "grade_id", Label: "Grade", Required: true, Kind: FieldRef},
				{Name: "status", Label: "Active", Kind: FieldFlag},
			}
		case "academic-years":
			spec.Fields = []Field{
				{Name: "name", Label: "Name", Required: true},
				{Name: "start_date", Label: "Start date", Required: true, Kind: FieldDate},
				{Name: "end_date", Label: "End date", Required: true, Kind: FieldDate},
				{Name: "status", Label: "Active", Kind: FieldFlag},
			}
		case "schedules":
			spec.Fields = []Field{
				{Name: "name", Label: "Name", Required: true},
				{Name: "section_id", Label: "Section", Required: true, Kind: FieldRef},
				{Name: "day", Label: "Day", Required: true},
				{Name: "start_time", Label: "Starts"},
				{Name: "end_time", Label: "Ends"},
				{Name: "status", Label: "Active", Kind: FieldFlag},
			}
		case "staff":
			spec.Fields = []Field{
				{Name: "name", Label: "Name", Required: true},
				{Name: "email", Label: "Email", Required: true},
				{Name: "phone", Label: "Phone"},
				{Name: "designation", Label: "Designation"},
				{Name: "branch_id", Label: "Branch", Kind: FieldRef},
				{Name: "status", Label: "Active", Kind: FieldFlag},
			}
		case "exam-setups":
			spec.Fields = []Field{
				{Name: "name", Label: "Name", Required: true},
				{Name: "academic_year_id", Label: "Academic year", Required: true, Kind: FieldRef},
				{Name: "start_date", Label: "Start date", Kind: FieldDate},
				{Name: "status", Label: "Active", Kind: FieldFlag},
			}
		}

		specs = append(specs, spec)
	}

	return specs
}

// Lookup finds a spec by entity name.
func Lookup(name string) (Spec, bool) {
	for _, spec := range Registry() {
		if spec.Entity.Name == name {
			return spec, true
		}
	}
	return Spec{}, false
}
