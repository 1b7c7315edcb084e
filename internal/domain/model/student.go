// Package model contains the entity shapes exchanged with the platform
// backend. Fields mirror the backend's JSON wire format; the backend owns
// all derived/computed fields, which is why mutations always refetch
// instead of patching locally.
package model

import "time"

// Student is an enrolled learner record.
type Student struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Institution string    `json:"institution"`
	ClassID     string    `json:"classId"`
	CourseIDs   []string  `json:"courseIds"`
	Status      string    `json:"status"`
	Banned      bool      `json:"isBanned"`
	CreatedAt   time.Time `json:"createdAt"`
}

// StudentStatus values used by the backend.
const (
	StudentStatusActive   = "ACTIVE"
	StudentStatusInactive = "INACTIVE"
)
