package models

// Technician is a staff member who can be assigned to receptions.
type Technician struct {
	ID         int64  `json:"id"`
	FullName   string `json:"fullName"`
	Phone      string `json:"phone,omitempty"`
	Specialty  string `json:"specialty,omitempty"`
	ActiveJobs int    `json:"activeJobs"`
	Available  bool   `json:"available"`
}

// AssignRequest is the payload for assigning a technician to a reception.
type AssignRequest struct {
	TechnicianID int64 `json:"technicianId"`
}
