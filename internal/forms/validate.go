package forms

import (
	"fmt"
	"html"
	"strings"

	"ictportal/pkg/types"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidationError is user-correctable; the handler maps it to a 400 with
// the message as-is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func missingField(name string) *ValidationError {
	return &ValidationError{Field: name, Message: fmt.Sprintf("missing required field: %s", name)}
}

// requiredFields fixes the field-check order so the first reported
// failure is deterministic.
var requiredFields = []struct {
	name string
	get  func(*types.SubmissionInput) string
}{
	{"school_name", func(in *types.SubmissionInput) string { return in.SchoolName }},
	{"contact_person", func(in *types.SubmissionInput) string { return in.ContactPerson }},
	{"contact_phone", func(in *types.SubmissionInput) string { return in.ContactPhone }},
	{"contact_email", func(in *types.SubmissionInput) string { return in.ContactEmail }},
	{"dedicated_building", func(in *types.SubmissionInput) string { return in.DedicatedBuilding }},
	{"facility_type", func(in *types.SubmissionInput) string { return in.FacilityType }},
	{"status", func(in *types.SubmissionInput) string { return in.Status }},
	{"health_state", func(in *types.SubmissionInput) string { return in.HealthState }},
	{"floor_area", func(in *types.SubmissionInput) string { return in.FloorArea }},
	{"meets_min_area", func(in *types.SubmissionInput) string { return in.MeetsMinArea }},
	{"num_floors", func(in *types.SubmissionInput) string { return in.NumFloors }},
	{"location", func(in *types.SubmissionInput) string { return in.Location }},
	{"computer_system", func(in *types.SubmissionInput) string { return in.ComputerSystem }},
	{"num_computers", func(in *types.SubmissionInput) string { return in.NumComputers }},
	{"spec_meet", func(in *types.SubmissionInput) string { return in.SpecMeet }},
	{"has_networking", func(in *types.SubmissionInput) string { return in.HasNetworking }},
	{"internet_speed", func(in *types.SubmissionInput) string { return in.InternetSpeed }},
	{"num_exits", func(in *types.SubmissionInput) string { return in.NumExits }},
	{"is_furnished", func(in *types.SubmissionInput) string { return in.IsFurnished }},
}

// Validate checks the required field set in order and returns a fully
// sanitized submission, or the first failure. The returned submission
// has no id, timestamp or source address yet; the store assigns those.
func Validate(in *types.SubmissionInput) (*types.Submission, error) {
	for _, f := range requiredFields {
		if strings.TrimSpace(f.get(in)) == "" {
			return nil, missingField(f.name)
		}
	}

	if err := validate.Var(strings.TrimSpace(in.ContactEmail), "email"); err != nil {
		return nil, &ValidationError{Field: "contact_email", Message: "invalid email address"}
	}

	sub := &types.Submission{
		SchoolName:          Sanitize(in.SchoolName),
		ContactPerson:       Sanitize(in.ContactPerson),
		ContactPhone:        Sanitize(in.ContactPhone),
		ContactEmail:        Sanitize(in.ContactEmail),
		DedicatedBuilding:   Sanitize(in.DedicatedBuilding),
		FacilityType:        Sanitize(in.FacilityType),
		Status:              Sanitize(in.Status),
		HealthState:         Sanitize(in.HealthState),
		FloorArea:           Sanitize(in.FloorArea),
		MeetsMinArea:        Sanitize(in.MeetsMinArea),
		TotalSize:           Sanitize(in.TotalSize),
		NumFloors:           Sanitize(in.NumFloors),
		Location:            Sanitize(in.Location),
		ComputerSystem:      Sanitize(in.ComputerSystem),
		NumComputers:        Sanitize(in.NumComputers),
		SpecMeet:            Sanitize(in.SpecMeet),
		HasNetworking:       Sanitize(in.HasNetworking),
		InternetSpeed:       Sanitize(in.InternetSpeed),
		NumExits:            Sanitize(in.NumExits),
		Conveniences:        JoinChoices(in.Conveniences),
		ConvenienceAttached: Sanitize(in.ConvenienceAttached),
		IsFurnished:         Sanitize(in.IsFurnished),
		FurnitureList:       Sanitize(in.FurnitureList),
	}

	return sub, nil
}

// Sanitize trims, drops control characters and escapes HTML metacharacters.
// Escaping rather than stripping keeps the submitted text recoverable.
func Sanitize(v string) string {
	v = strings.TrimSpace(v)
	v = strings.Map(func(r rune) rune {
		if r < 0x20 && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, v)
	return html.EscapeString(v)
}

// JoinChoices collapses checkbox values into one ", "-joined cell,
// preserving input order.
func JoinChoices(values []string) string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s := Sanitize(v); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, ", ")
}
