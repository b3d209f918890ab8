package auth

// Actor roles. A user's role is derived from profile rows at login time,
// never stored on the user record: admin from the is_admin flag, doctor and
// patient from the existence of the matching profile.
const (
	RoleAdmin   = "admin"
	RoleDoctor  = "doctor"
	RolePatient = "patient"
	RoleUser    = "user"
)
