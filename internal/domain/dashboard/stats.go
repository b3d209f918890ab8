// Package dashboard serves role-scoped summary statistics for the landing
// page: per-status appointment counts, plus directory totals for admins and
// a distinct-patient count for doctors.
package dashboard

// StatusCounts holds appointment counts keyed by status.
type StatusCounts struct {
	Pending   int `json:"pending"`
	Confirmed int `json:"confirmed"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
}

// AdminStats is the clinic-wide view.
type AdminStats struct {
	Appointments      StatusCounts `json:"appointments"`
	TotalAppointments int          `json:"total_appointments"`
	TotalDoctors      int          `json:"total_doctors"`
	TotalPatients     int          `json:"total_patients"`
}

// DoctorStats is scoped to one doctor's schedule.
type DoctorStats struct {
	Appointments      StatusCounts `json:"appointments"`
	TotalAppointments int          `json:"total_appointments"`
	DistinctPatients  int          `json:"distinct_patients"`
}

func (c StatusCounts) total() int {
	return c.Pending + c.Confirmed + c.Completed + c.Cancelled
}
