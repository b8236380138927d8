package types

// SubmissionInput carries the raw assessment form fields as posted.
// Field names match the form part names; everything arrives as text and
// is sanitized by the forms package before it ever reaches the store.
type SubmissionInput struct {
	SchoolName          string   `form:"school_name"`
	ContactPerson       string   `form:"contact_person"`
	ContactPhone        string   `form:"contact_phone"`
	ContactEmail        string   `form:"contact_email"`
	DedicatedBuilding   string   `form:"dedicated_building"`
	FacilityType        string   `form:"facility_type"`
	Status              string   `form:"status"`
	HealthState         string   `form:"health_state"`
	FloorArea           string   `form:"floor_area"`
	MeetsMinArea        string   `form:"meets_min_area"`
	TotalSize           string   `form:"total_size"`
	NumFloors           string   `form:"num_floors"`
	Location            string   `form:"location"`
	ComputerSystem      string   `form:"computer_system"`
	NumComputers        string   `form:"num_computers"`
	SpecMeet            string   `form:"spec_meet"`
	HasNetworking       string   `form:"has_networking"`
	InternetSpeed       string   `form:"internet_speed"`
	NumExits            string   `form:"num_exits"`
	Conveniences        []string `form:"conveniences"`
	ConvenienceAttached string   `form:"convenience_attached"`
	IsFurnished         string   `form:"is_furnished"`
	FurnitureList       string   `form:"furniture_list"`
}

// Role is the authenticated dashboard role carried in the session cookie.
type Role string

const (
	RoleAnonymous Role = ""
	RoleAdmin     Role = "admin"
	RoleReview    Role = "review"
)
