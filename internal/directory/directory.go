package directory

import (
	"context"
	"errors"

	"github.com/antonio-alexander/go-employee-directory/internal/data"
	"github.com/antonio-alexander/go-employee-directory/internal/utilities"
)

// Backend is the http contract the directory is driven against; the
// client package implements it.
type Backend interface {
	EmployeesRead(ctx context.Context) ([]*data.Employee, error)
	EmployeeCreate(ctx context.Context, employee data.Employee) (*data.Employee, error)
	EmployeeUpdate(ctx context.Context, id int64, employee data.Employee) (*data.Employee, error)
	EmployeeDelete(ctx context.Context, id int64) error
}

// Directory drives a View synchronously: every backend failure is logged
// and returned, the view is left as it was.
type Directory struct {
	*View
	backend Backend
	utilities.Logger
}

func New(parameters ...any) *Directory {
	d := &Directory{View: NewView()}
	for _, parameter := range parameters {
		switch p := parameter.(type) {
		case Backend:
			d.backend = p
		case *View:
			d.View = p
		case utilities.Logger:
			d.Logger = p
		}
	}
	if d.Logger == nil {
		d.Logger = utilities.NewLogger()
	}
	return d
}

// Load fetches the list and replaces the one held by the view.
func (d *Directory) Load(ctx context.Context) error {
	employees, err := d.backend.EmployeesRead(ctx)
	if err != nil {
		d.Error(ctx, "failed to fetch employees: %s", err)
		return err
	}
	d.Replace(employees)
	d.Debug(ctx, "loaded %d employees", len(employees))
	return nil
}

// Send issues the create or update for a record returned by BeginSubmit.
func Send(ctx context.Context, backend Backend, mode Mode, employee data.Employee) error {
	switch mode {
	default:
		_, err := backend.EmployeeCreate(ctx, employee)
		return err
	case ModeEdit:
		if !employee.HasId() {
			return errors.New("employee being edited has no id")
		}
		_, err := backend.EmployeeUpdate(ctx, *employee.Id, employee)
		return err
	}
}

// Save validates the editor's record and sends it without reloading the
// list; on success the editor is closed. Validation errors are returned
// without contacting the backend.
func (d *Directory) Save(ctx context.Context) error {
	mode := d.Editor.Mode
	employee, err := d.BeginSubmit()
	if err != nil {
		return err
	}
	err = Send(ctx, d.backend, mode, employee)
	d.FinishSubmit(err)
	if err != nil {
		d.Error(ctx, "submission failed: %s", err)
		return err
	}
	return nil
}

// Submit saves the editor's record and on success reloads the list.
func (d *Directory) Submit(ctx context.Context) error {
	if err := d.Save(ctx); err != nil {
		return err
	}
	_ = d.Load(ctx)
	return nil
}

// Remove deletes the employee being confirmed without reloading the list;
// on success the prompt is closed.
func (d *Directory) Remove(ctx context.Context) error {
	id, err := d.BeginDelete()
	if err != nil {
		return err
	}
	err = d.backend.EmployeeDelete(ctx, id)
	d.FinishDelete(err)
	if err != nil {
		d.Error(ctx, "failed to delete employee (%d): %s", id, err)
		return err
	}
	return nil
}

// Delete removes the employee being confirmed and on success reloads the
// list.
func (d *Directory) Delete(ctx context.Context) error {
	if err := d.Remove(ctx); err != nil {
		return err
	}
	_ = d.Load(ctx)
	return nil
}
