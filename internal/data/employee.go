package data

import "encoding/json"

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// Genders lists the accepted genders in display order.
var Genders = []Gender{GenderMale, GenderFemale, GenderOther}

func (g Gender) Valid() bool {
	for _, gender := range Genders {
		if g == gender {
			return true
		}
	}
	return false
}

// Employee is the single resource served under RouteEmployees; Id is nil
// until the backend has stored the record.
type Employee struct {
	Id         *int64 `json:"id,omitempty"`
	Name       string `json:"name" validate:"required"`
	Dob        string `json:"dob" validate:"required"` //ISO 8601 date (YYYY-MM-DD)
	Gender     Gender `json:"gender" validate:"required"`
	Department string `json:"department" validate:"required"`
}

func (e *Employee) HasId() bool {
	return e != nil && e.Id != nil
}

// Copy returns a copy of the employee that shares no memory with e.
func (e *Employee) Copy() *Employee {
	employee := &Employee{}
	*employee = *e
	if e.Id != nil {
		id := *e.Id
		employee.Id = &id
	}
	return employee
}

func (e *Employee) MarshalBinary() ([]byte, error) {
	return json.Marshal(e)
}

func (e *Employee) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, e)
}

// Employees is the full listing as returned by the list endpoint.
type Employees []*Employee

func (e Employees) MarshalBinary() ([]byte, error) {
	if e == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]*Employee(e))
}

func (e *Employees) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, (*[]*Employee)(e))
}

func (e Employees) Copy() Employees {
	employees := make(Employees, 0, len(e))
	for _, employee := range e {
		employees = append(employees, employee.Copy())
	}
	return employees
}
