package model

import "time"

// Catalog entities change rarely within a staff session, so their
// controllers never auto-refetch (see resource.Config.RefetchOnFocus).

// Course is a sellable course offering.
type Course struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Type        string    `json:"type"`
	Price       float64   `json:"price"`
	Discount    float64   `json:"discount"`
	SubjectIDs  []string  `json:"subjectIds"`
	Tags        []string  `json:"tags"`
	Published   bool      `json:"isPublished"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Subject groups chapters under a course.
type Subject struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	CourseID string `json:"courseId"`
	Serial   int    `json:"serial"`
}

// Chapter is a unit of course content.
type Chapter struct {
	ID        string `json:"_id"`
	Name      string `json:"name"`
	SubjectID string `json:"subjectId"`
	Serial    int    `json:"serial"`
	Free      bool   `json:"isFree"`
}

// Class is an academic class/grade level (e.g., "Class 9", "HSC").
type Class struct {
	ID     string `json:"_id"`
	Name   string `json:"name"`
	Serial int    `json:"serial"`
}

// Book is a physical book sold through the shop.
type Book struct {
	ID       string   `json:"_id"`
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Category string   `json:"category"`
	Price    float64  `json:"price"`
	Stock    int      `json:"stock"`
	Tags     []string `json:"tags"`
}

// AdmissionCalendar is a published admission-season timeline entry.
type AdmissionCalendar struct {
	ID          string    `json:"_id"`
	Institution string    `json:"institution"`
	Category    string    `json:"category"`
	StartsAt    time.Time `json:"startsAt"`
	EndsAt      time.Time `json:"endsAt"`
	Note        string    `json:"note"`
}
