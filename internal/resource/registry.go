package resource

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aimspurefied/healer-ui-api/internal/domain/model"
	"github.com/aimspurefied/healer-ui-api/internal/export"
)

// Handle is the untyped face of a Controller, used by the HTTP layer to
// serve every entity through one set of generic handlers.
type Handle interface {
	Name() string
	RefetchOnFocus() bool
	Fetch(ctx context.Context) error
	EnsureFetched(ctx context.Context) error
	OnFocus(ctx context.Context) error
	SetFilter(dimension, value string)
	SetTags(tags []string)
	SetQuery(query string)
	ResetFilters()
	Derived() any
	DerivedWith(filters FilterState) any
	Fetched() bool
	Loading() bool
	LastError() error
	Export() (*export.File, error)
	ExportWith(filters FilterState) (*export.File, error)
	Create(ctx context.Context, body json.RawMessage) error
	Update(ctx context.Context, id string, body json.RawMessage) error
	Delete(ctx context.Context, id string) error
}

// Registry holds one controller per backend collection. It is the single
// owner of each collection's snapshot: no other component caches the
// same remote data.
type Registry struct {
	Students  *Controller[model.Student]
	Courses   *Controller[model.Course]
	Subjects  *Controller[model.Subject]
	Chapters  *Controller[model.Chapter]
	Classes   *Controller[model.Class]
	Books     *Controller[model.Book]
	Coupons   *Controller[model.Coupon]
	Orders    *Controller[model.Order]
	Payments  *Controller[model.Payment]
	Shipments *Controller[model.Shipment]
	Calendars *Controller[model.AdmissionCalendar]

	byName map[string]Handle
}

// NewRegistry wires a controller for every entity with its per-entity
// policy: order/payment/shipment-like lists refetch eagerly on refocus,
// catalog lists fetch once per session.
func NewRegistry(client Client, logger *slog.Logger) (*Registry, error) {
	r := &Registry{byName: map[string]Handle{}}

	var err error
	if r.Students, err = register(r, Config[model.Student]{
		Name: "students", Path: "/students", Client: client, Logger: logger,
		RefetchOnFocus: true,
		DimensionOrder: []string{"class", "status"},
		Dimension: func(s model.Student, dim string) string {
			switch dim {
			case "class":
				return s.ClassID
			case "status":
				return s.Status
			}
			return ""
		},
		SearchText: func(s model.Student) []string {
			return []string{s.Name, s.Email, s.Phone, s.Institution}
		},
		Columns: []export.Column{
			{Header: "Name", Expr: "name"},
			{Header: "Email", Expr: "email"},
			{Header: "Phone", Expr: "phone"},
			{Header: "Institution", Expr: "institution"},
			{Header: "Status", Expr: "status"},
		},
	}); err != nil {
		return nil, err
	}

	if r.Courses, err = register(r, Config[model.Course]{
		Name: "courses", Path: "/courses", Client: client, Logger: logger,
		DimensionOrder: []string{"type", "category"},
		Dimension: func(c model.Course, dim string) string {
			switch dim {
			case "type":
				return c.Type
			case "category":
				return c.Category
			}
			return ""
		},
		Tags:       func(c model.Course) []string { return c.Tags },
		SearchText: func(c model.Course) []string { return []string{c.Title, c.Category, c.Description} },
		Columns: []export.Column{
			{Header: "Title", Expr: "title"},
			{Header: "Category", Expr: "category"},
			{Header: "Type", Expr: "type"},
			{Header: "Price", Expr: "price"},
		},
	}); err != nil {
		return nil, err
	}

	if r.Subjects, err = register(r, Config[model.Subject]{
		Name: "subjects", Path: "/subjects", Client: client, Logger: logger,
		SearchText: func(s model.Subject) []string { return []string{s.Name} },
		Columns: []export.Column{
			{Header: "Name", Expr: "name"},
			{Header: "Course", Expr: "courseId"},
			{Header: "Serial", Expr: "serial"},
		},
	}); err != nil {
		return nil, err
	}

	if r.Chapters, err = register(r, Config[model.Chapter]{
		Name: "chapters", Path: "/chapters", Client: client, Logger: logger,
		SearchText: func(ch model.Chapter) []string { return []string{ch.Name} },
		Columns: []export.Column{
			{Header: "Name", Expr: "name"},
			{Header: "Subject", Expr: "subjectId"},
			{Header: "Free", Expr: "isFree"},
		},
	}); err != nil {
		return nil, err
	}

	if r.Classes, err = register(r, Config[model.Class]{
		Name: "classes", Path: "/classes", Client: client, Logger: logger,
		SearchText: func(cl model.Class) []string { return []string{cl.Name} },
		Columns: []export.Column{
			{Header: "Name", Expr: "name"},
			{Header: "Serial", Expr: "serial"},
		},
	}); err != nil {
		return nil, err
	}

	if r.Books, err = register(r, Config[model.Book]{
		Name: "books", Path: "/books", Client: client, Logger: logger,
		DimensionOrder: []string{"category"},
		Dimension: func(b model.Book, dim string) string {
			if dim == "category" {
				return b.Category
			}
			return ""
		},
		Tags:       func(b model.Book) []string { return b.Tags },
		SearchText: func(b model.Book) []string { return []string{b.Title, b.Author, b.Category} },
		Columns: []export.Column{
			{Header: "Title", Expr: "title"},
			{Header: "Author", Expr: "author"},
			{Header: "Category", Expr: "category"},
			{Header: "Price", Expr: "price"},
			{Header: "Stock", Expr: "stock"},
		},
	}); err != nil {
		return nil, err
	}

	if r.Coupons, err = register(r, Config[model.Coupon]{
		Name: "coupons", Path: "/coupons", Client: client, Logger: logger,
		RefetchOnFocus: true,
		DimensionOrder: []string{"type"},
		Dimension: func(cp model.Coupon, dim string) string {
			if dim == "type" {
				return cp.Type
			}
			return ""
		},
		SearchText: func(cp model.Coupon) []string { return []string{cp.Code} },
		Columns: []export.Column{
			{Header: "Code", Expr: "code"},
			{Header: "Type", Expr: "type"},
			{Header: "Amount", Expr: "amount"},
			{Header: "Used", Expr: "usedCount"},
			{Header: "Active", Expr: "isActive"},
		},
	}); err != nil {
		return nil, err
	}

	if r.Orders, err = register(r, Config[model.Order]{
		Name: "orders", Path: "/orders", Client: client, Logger: logger,
		RefetchOnFocus: true,
		DimensionOrder: []string{"type", "status"},
		Dimension: func(o model.Order, dim string) string {
			switch dim {
			case "type":
				return o.Type
			case "status":
				return o.Status
			}
			return ""
		},
		SearchText: func(o model.Order) []string { return []string{o.ID, o.StudentID} },
		Columns: []export.Column{
			{Header: "Order", Expr: "_id"},
			{Header: "Student", Expr: "studentId"},
			{Header: "Type", Expr: "type"},
			{Header: "Status", Expr: "status"},
			{Header: "Total", Expr: "total"},
		},
	}); err != nil {
		return nil, err
	}

	if r.Payments, err = register(r, Config[model.Payment]{
		Name: "payments", Path: "/payments", Client: client, Logger: logger,
		RefetchOnFocus: true,
		DimensionOrder: []string{"method", "status"},
		Dimension: func(p model.Payment, dim string) string {
			switch dim {
			case "method":
				return p.Method
			case "status":
				return p.Status
			}
			return ""
		},
		SearchText: func(p model.Payment) []string { return []string{p.TrxID, p.StudentID, p.OrderID} },
		Columns: []export.Column{
			{Header: "Payment", Expr: "_id"},
			{Header: "Order", Expr: "orderId"},
			{Header: "Method", Expr: "method"},
			{Header: "Status", Expr: "status"},
			{Header: "Amount", Expr: "amount"},
			{Header: "TrxID", Expr: "trxId"},
		},
	}); err != nil {
		return nil, err
	}

	if r.Shipments, err = register(r, Config[model.Shipment]{
		Name: "shipments", Path: "/shipments", Client: client, Logger: logger,
		RefetchOnFocus: true,
		DimensionOrder: []string{"type", "status"},
		Dimension: func(sh model.Shipment, dim string) string {
			switch dim {
			case "type":
				return sh.Type
			case "status":
				return sh.Status
			}
			return ""
		},
		Tags:       func(sh model.Shipment) []string { return sh.Tags },
		SearchText: func(sh model.Shipment) []string { return []string{sh.ID, sh.StudentID, sh.Address} },
		Columns: []export.Column{
			{Header: "Shipment", Expr: "_id"},
			{Header: "Order", Expr: "orderId"},
			{Header: "Student", Expr: "studentId"},
			{Header: "Type", Expr: "type"},
			{Header: "Status", Expr: "status"},
			{Header: "Address", Expr: "address"},
		},
	}); err != nil {
		return nil, err
	}

	if r.Calendars, err = register(r, Config[model.AdmissionCalendar]{
		Name: "admission-calendars", Path: "/admission-calendars", Client: client, Logger: logger,
		DimensionOrder: []string{"category"},
		Dimension: func(ac model.AdmissionCalendar, dim string) string {
			if dim == "category" {
				return ac.Category
			}
			return ""
		},
		SearchText: func(ac model.AdmissionCalendar) []string { return []string{ac.Institution, ac.Note} },
		Columns: []export.Column{
			{Header: "Institution", Expr: "institution"},
			{Header: "Category", Expr: "category"},
			{Header: "Starts", Expr: "startsAt"},
			{Header: "Ends", Expr: "endsAt"},
		},
	}); err != nil {
		return nil, err
	}

	return r, nil
}

func register[T any](r *Registry, cfg Config[T]) (*Controller[T], error) {
	ctl, err := New(cfg)
	if err != nil {
		return nil, fmt.Errorf("register %s: %w", cfg.Name, err)
	}
	r.byName[cfg.Name] = ctl
	return ctl, nil
}

// Lookup returns the controller registered under name.
func (r *Registry) Lookup(name string) (Handle, bool) {
	h, ok := r.byName[strings.ToLower(name)]
	return h, ok
}

// Names lists the registered entity names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	return names
}

// ShipmentRow is a shipment enriched with lookups against the student,
// course, and book snapshots. Missing references resolve to empty
// placeholders, never nil, so rendering code can chain field access.
type ShipmentRow struct {
	Shipment model.Shipment `json:"shipment"`
	Student  model.Student  `json:"student"`
	Course   model.Course   `json:"course"`
	Books    []model.Book   `json:"books"`
}

// ShipmentRows joins the shipments' view selected by the caller's filter
// state against the other collections' snapshots by linear id scan.
func (r *Registry) ShipmentRows(filters FilterState) []ShipmentRow {
	shipments := r.Shipments.DerivedListWith(filters)
	rows := make([]ShipmentRow, 0, len(shipments))
	for _, sh := range shipments {
		row := ShipmentRow{
			Shipment: sh,
			Student:  LookupByID(r.Students, sh.StudentID, func(s model.Student) string { return s.ID }),
			Course:   LookupByID(r.Courses, sh.CourseID, func(c model.Course) string { return c.ID }),
			Books:    make([]model.Book, 0, len(sh.BookIDs)),
		}
		for _, bookID := range sh.BookIDs {
			row.Books = append(row.Books, LookupByID(r.Books, bookID, func(b model.Book) string { return b.ID }))
		}
		rows = append(rows, row)
	}
	return rows
}
