package directory

import (
	"errors"
	"time"

	"github.com/antonio-alexander/go-employee-directory/internal/data"
)

const (
	Title              string = "Employee Directory"
	EmptyMessage       string = "No Employees Found"
	DeleteTitle        string = "Confirm Deletion"
	DeletePrompt       string = "Are you sure you want to delete this employee?"
	LabelAddEmployee   string = "Add Employee"
	LabelEditEmployee  string = "Edit Employee"
	LabelAdd           string = "Add"
	LabelUpdate        string = "Update"
	LabelCancel        string = "Cancel"
	LabelDelete        string = "Delete"
	LabelEdit          string = "Edit"
	LabelName          string = "Name"
	LabelDob           string = "Date of Birth"
	LabelAge           string = "Age"
	LabelGender        string = "Gender"
	LabelDepartment    string = "Department"
	LabelActions       string = "Actions"
	ColumnCount        int    = 6
)

// Columns are the headers of the table, in display order.
var Columns = []string{LabelName, LabelDob, LabelAge, LabelGender,
	LabelDepartment, LabelActions}

// FieldLabels maps an editable field to its label.
var FieldLabels = map[string]string{
	data.FieldName:       LabelName,
	data.FieldDob:        LabelDob,
	data.FieldGender:     LabelGender,
	data.FieldDepartment: LabelDepartment,
}

var (
	ErrEditorClosed     = errors.New("editor is not open")
	ErrSubmitInProgress = errors.New("submit already in progress")
	ErrNotConfirming    = errors.New("no deletion to confirm")
	ErrDeleteInProgress = errors.New("delete already in progress")
	ErrUnknownField     = errors.New("unknown field")
)

type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

// Editor is the state of the record editor; Employee is a copy of the
// record being edited, never the record held by the list.
type Editor struct {
	Open       bool
	Mode       Mode
	Employee   data.Employee
	Errors     data.ValidationErrors
	Submitting bool
}

func (e *Editor) Title() string {
	if e.Mode == ModeEdit {
		return LabelEditEmployee
	}
	return LabelAddEmployee
}

func (e *Editor) SubmitLabel() string {
	if e.Mode == ModeEdit {
		return LabelUpdate
	}
	return LabelAdd
}

// Field returns the current value of one of the editable fields.
func (e *Editor) Field(field string) string {
	switch field {
	default:
		return ""
	case data.FieldName:
		return e.Employee.Name
	case data.FieldDob:
		return e.Employee.Dob
	case data.FieldGender:
		return string(e.Employee.Gender)
	case data.FieldDepartment:
		return e.Employee.Department
	}
}

// Confirmation is the state of the delete prompt.
type Confirmation struct {
	Open     bool
	Employee *data.Employee
	Deleting bool
}

// Row is one rendered line of the table; when the list is empty a single
// row with Empty set is rendered instead.
type Row struct {
	Id         *int64
	Name       string
	Dob        string
	Age        string
	Gender     string
	Department string
	Empty      bool
}

// View holds the list of employees and the transient ui state. It has no
// locking; it's owned by a single event loop or request.
type View struct {
	employees    []*data.Employee
	Editor       Editor
	Confirmation Confirmation
}

func NewView() *View {
	return &View{employees: []*data.Employee{}}
}

// Employees returns a copy of the list being rendered.
func (v *View) Employees() []*data.Employee {
	return data.Employees(v.employees).Copy()
}

// Employee returns the employee at index i of the list, nil if out of
// range.
func (v *View) Employee(i int) *data.Employee {
	if i < 0 || i >= len(v.employees) {
		return nil
	}
	return v.employees[i].Copy()
}

func (v *View) Len() int {
	return len(v.employees)
}

// Replace swaps the list for employees as a whole.
func (v *View) Replace(employees []*data.Employee) {
	v.employees = data.Employees(employees).Copy()
}

// OpenEditor opens the editor in create mode with a blank record when
// employee is nil, otherwise in edit mode with a copy of employee.
func (v *View) OpenEditor(employee *data.Employee) {
	v.Editor = Editor{
		Open:   true,
		Mode:   ModeCreate,
		Errors: data.ValidationErrors{},
	}
	if employee != nil {
		v.Editor.Mode = ModeEdit
		v.Editor.Employee = *employee.Copy()
	}
}

// CloseEditor closes the editor and drops its errors; a submit that's in
// flight is forgotten.
func (v *View) CloseEditor() {
	v.Editor = Editor{}
}

func (v *View) SetField(field, value string) error {
	if !v.Editor.Open {
		return ErrEditorClosed
	}
	switch field {
	default:
		return ErrUnknownField
	case data.FieldName:
		v.Editor.Employee.Name = value
	case data.FieldDob:
		v.Editor.Employee.Dob = value
	case data.FieldGender:
		v.Editor.Employee.Gender = data.Gender(value)
	case data.FieldDepartment:
		v.Editor.Employee.Department = value
	}
	return nil
}

// BeginSubmit validates the record held by the editor. When it's invalid
// the field errors are set and returned; otherwise the editor enters the
// submitting state and a copy of the record is returned.
func (v *View) BeginSubmit() (data.Employee, error) {
	if !v.Editor.Open {
		return data.Employee{}, ErrEditorClosed
	}
	if v.Editor.Submitting {
		return data.Employee{}, ErrSubmitInProgress
	}
	validationErrors := data.Validate(v.Editor.Employee)
	v.Editor.Errors = validationErrors
	if len(validationErrors) > 0 {
		return data.Employee{}, validationErrors
	}
	v.Editor.Submitting = true
	return *v.Editor.Employee.Copy(), nil
}

// FinishSubmit applies the outcome of a submit: on success the editor is
// closed, on failure it stays open with the record untouched. It returns
// false if no submit was in flight (e.g. the editor was closed meanwhile).
func (v *View) FinishSubmit(err error) bool {
	if !v.Editor.Submitting {
		return false
	}
	v.Editor.Submitting = false
	if err == nil {
		v.CloseEditor()
	}
	return true
}

// ConfirmDelete opens the delete prompt for employee.
func (v *View) ConfirmDelete(employee *data.Employee) {
	if employee == nil {
		return
	}
	v.Confirmation = Confirmation{
		Open:     true,
		Employee: employee.Copy(),
	}
}

func (v *View) CancelDelete() {
	v.Confirmation = Confirmation{}
}

// BeginDelete returns the id of the employee to delete and enters the
// deleting state.
func (v *View) BeginDelete() (int64, error) {
	if !v.Confirmation.Open || !v.Confirmation.Employee.HasId() {
		return 0, ErrNotConfirming
	}
	if v.Confirmation.Deleting {
		return 0, ErrDeleteInProgress
	}
	v.Confirmation.Deleting = true
	return *v.Confirmation.Employee.Id, nil
}

// FinishDelete closes the prompt on success and leaves it open on failure.
func (v *View) FinishDelete(err error) bool {
	if !v.Confirmation.Deleting {
		return false
	}
	v.Confirmation.Deleting = false
	if err == nil {
		v.CancelDelete()
	}
	return true
}

// Rows renders the list as of now.
func (v *View) Rows(now time.Time) []Row {
	if len(v.employees) == 0 {
		return []Row{{Empty: true, Name: EmptyMessage}}
	}
	rows := make([]Row, 0, len(v.employees))
	for _, employee := range v.employees {
		row := Row{
			Name:       employee.Name,
			Dob:        employee.Dob,
			Age:        employee.AgeString(now),
			Gender:     string(employee.Gender),
			Department: employee.Department,
		}
		if employee.HasId() {
			id := *employee.Id
			row.Id = &id
		}
		rows = append(rows, row)
	}
	return rows
}
