package forms

import (
	"testing"

	"ictportal/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() *types.SubmissionInput {
	return &types.SubmissionInput{
		SchoolName:        "Unity High",
		ContactPerson:     "J. Doe",
		ContactPhone:      "0800-000-0000",
		ContactEmail:      "j@example.com",
		DedicatedBuilding: "Yes",
		FacilityType:      "Laboratory",
		Status:            "Completed",
		HealthState:       "Good",
		FloorArea:         "120",
		MeetsMinArea:      "yes",
		NumFloors:         "1",
		Location:          "Lagos",
		ComputerSystem:    "Desktop",
		NumComputers:      "25",
		SpecMeet:          "yes",
		HasNetworking:     "yes",
		InternetSpeed:     "10mbps",
		NumExits:          "2",
		IsFurnished:       "yes",
	}
}

func TestValidateAccepts(t *testing.T) {
	sub, err := Validate(validInput())
	require.NoError(t, err)
	assert.Equal(t, "Unity High", sub.SchoolName)
	assert.Equal(t, "j@example.com", sub.ContactEmail)
	assert.Zero(t, sub.ID)
	assert.Empty(t, sub.IPAddress)
}

func TestValidateReportsFirstMissingField(t *testing.T) {
	in := validInput()
	// Blank several; the first in check order must win.
	in.ContactPhone = ""
	in.Location = ""
	in.IsFurnished = "   "

	_, err := Validate(in)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "contact_phone", verr.Field)
	assert.Equal(t, "missing required field: contact_phone", verr.Message)
}

func TestValidateEveryRequiredField(t *testing.T) {
	for _, f := range requiredFields {
		t.Run(f.name, func(t *testing.T) {
			in := validInput()
			blank(in, f.name)

			_, err := Validate(in)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, f.name, verr.Field)
		})
	}
}

func blank(in *types.SubmissionInput, name string) {
	switch name {
	case "school_name":
		in.SchoolName = ""
	case "contact_person":
		in.ContactPerson = ""
	case "contact_phone":
		in.ContactPhone = ""
	case "contact_email":
		in.ContactEmail = ""
	case "dedicated_building":
		in.DedicatedBuilding = ""
	case "facility_type":
		in.FacilityType = ""
	case "status":
		in.Status = ""
	case "health_state":
		in.HealthState = ""
	case "floor_area":
		in.FloorArea = ""
	case "meets_min_area":
		in.MeetsMinArea = ""
	case "num_floors":
		in.NumFloors = ""
	case "location":
		in.Location = ""
	case "computer_system":
		in.ComputerSystem = ""
	case "num_computers":
		in.NumComputers = ""
	case "spec_meet":
		in.SpecMeet = ""
	case "has_networking":
		in.HasNetworking = ""
	case "internet_speed":
		in.InternetSpeed = ""
	case "num_exits":
		in.NumExits = ""
	case "is_furnished":
		in.IsFurnished = ""
	}
}

func TestValidateEmail(t *testing.T) {
	valid := []string{"j@example.com", "j.doe+ict@sub.example.ng", "a@b.co"}
	invalid := []string{"jexample.com", "j@", "@example.com", "j doe@example.com", "j@example"}

	for _, email := range valid {
		in := validInput()
		in.ContactEmail = email
		_, err := Validate(in)
		assert.NoError(t, err, "expected %q to be accepted", email)
	}

	for _, email := range invalid {
		in := validInput()
		in.ContactEmail = email
		_, err := Validate(in)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr, "expected %q to be rejected", email)
		assert.Equal(t, "invalid email address", verr.Message)
	}
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "Unity High", Sanitize("  Unity High  "))
	assert.Equal(t, "&lt;script&gt;alert(1)&lt;/script&gt;", Sanitize("<script>alert(1)</script>"))
	assert.Equal(t, "a&#34;b&#39;c", Sanitize(`a"b'c`))
	// Control characters are dropped, not escaped.
	assert.Equal(t, "ab", Sanitize("a\x00\x07b"))
}

func TestJoinChoices(t *testing.T) {
	assert.Equal(t, "Toilets, Water, Electricity", JoinChoices([]string{"Toilets", "Water", "Electricity"}))
	assert.Equal(t, "", JoinChoices(nil))
	// Order is preserved, empties dropped.
	assert.Equal(t, "B, A", JoinChoices([]string{"B", "  ", "A"}))
}

func TestValidateJoinsConveniences(t *testing.T) {
	in := validInput()
	in.Conveniences = []string{"Toilets", "Water"}

	sub, err := Validate(in)
	require.NoError(t, err)
	assert.Equal(t, "Toilets, Water", sub.Conveniences)
}
