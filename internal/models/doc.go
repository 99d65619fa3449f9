// Package models defines the domain types the client exchanges with the
// school-management backend: the authenticated user and session, and the
// entity records behind each screen (branches, grades, sections, academic
// years, class schedules, staff, exam setups).
//
// Records are decoded straight from normalized envelopes; their Status fields
// keep the raw backend representation (0/1, "0"/"1" or booleans) and expose a
// canonical boolean through Active().
package models
