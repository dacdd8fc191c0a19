package risk

// Role is the kind of user a report is produced for. The set is open:
// any string is a valid role, unknown ones take the neutral path.
type Role string

const (
	RoleUrban    Role = "urban"
	RoleFarmer   Role = "farmer"
	RoleStudent  Role = "student"
	RoleHospital Role = "hospital"
)

var vulnerability = map[Role]float64{
	RoleUrban:    1.0,
	RoleFarmer:   1.2,
	RoleStudent:  1.1,
	RoleHospital: 1.3,
}

// Known reports whether r has role-specific weights, explanations and queries.
func (r Role) Known() bool {
	_, ok := vulnerability[r]
	return ok
}

// Vulnerability returns the multiplier applied to the combined hazard score.
// Unknown roles map to 1.0.
func Vulnerability(r Role) float64 {
	if w, ok := vulnerability[r]; ok {
		return w
	}
	return 1.0
}
