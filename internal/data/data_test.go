package data_test

import (
	"strings"
	"testing"
	"time"

	"github.com/antonio-alexander/go-employee-directory/internal/data"

	"github.com/stretchr/testify/assert"
)

func TestAge(t *testing.T) {
	now := time.Date(2026, time.October, 18, 12, 0, 0, 0, time.UTC)

	cases := map[string]struct {
		dob string
		age int
		ok  bool
	}{
		"birthday_passed":       {dob: "1990-01-15", age: 36, ok: true},
		"birthday_today":        {dob: "2000-10-18", age: 26, ok: true},
		"birthday_tomorrow":     {dob: "2000-10-19", age: 25, ok: true},
		"birthday_next_month":   {dob: "2000-11-01", age: 25, ok: true},
		"born_today":            {dob: "2026-10-18", age: 0, ok: true},
		"timestamp":             {dob: "1990-01-15T00:00:00Z", age: 36, ok: true},
		"empty":                 {dob: ""},
		"unparseable":           {dob: "15/01/1990"},
		"not_a_date":            {dob: "yesterday"},
		"leap_day_before_march": {dob: "2004-02-29", age: 22, ok: true},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			age, ok := data.Age(c.dob, now)
			assert.Equal(t, c.ok, ok)
			assert.Equal(t, c.age, age)
		})
	}

	employee := &data.Employee{Dob: "1990-01-15"}
	assert.Equal(t, "36", employee.AgeString(now))
	employee.Dob = ""
	assert.Equal(t, "", employee.AgeString(now))
}

func TestValidate(t *testing.T) {
	validationErrors := data.Validate(data.Employee{})
	assert.Equal(t, data.ValidationErrors{
		data.FieldName:       "Name is required",
		data.FieldDob:        "Date of birth is required",
		data.FieldGender:     "Gender is required",
		data.FieldDepartment: "Department is required",
	}, validationErrors)
	assert.EqualError(t, validationErrors, "validation failed: department: Department is required; dob: Date of birth is required; gender: Gender is required; name: Name is required")

	validationErrors = data.Validate(data.Employee{
		Name:       "Alice",
		Dob:        "1990-01-15",
		Gender:     data.GenderFemale,
		Department: "Eng",
	})
	assert.Empty(t, validationErrors)

	//whitespace counts as present
	validationErrors = data.Validate(data.Employee{
		Name:       " ",
		Dob:        "1990-01-15",
		Gender:     data.GenderOther,
		Department: "Eng",
	})
	assert.Empty(t, validationErrors)

	validationErrors = data.Validate(data.Employee{Name: "Bob", Dob: "1985-06-30", Gender: data.GenderMale})
	assert.Equal(t, data.ValidationErrors{data.FieldDepartment: "Department is required"}, validationErrors)
}

func TestValidateFormat(t *testing.T) {
	assert.Empty(t, data.ValidateFormat(data.Employee{}))
	assert.Empty(t, data.ValidateFormat(data.Employee{Dob: "1990-01-15", Gender: data.GenderMale}))
	validationErrors := data.ValidateFormat(data.Employee{Dob: "15/01/1990", Gender: "Unknown"})
	assert.Contains(t, validationErrors, data.FieldDob)
	assert.Contains(t, validationErrors, data.FieldGender)

	// lengths are bounded by the stored columns
	validationErrors = data.ValidateFormat(data.Employee{
		Name:       strings.Repeat("a", data.NameMaxLength),
		Department: strings.Repeat("b", data.DepartmentMaxLength),
	})
	assert.Empty(t, validationErrors)
	validationErrors = data.ValidateFormat(data.Employee{
		Name:       strings.Repeat("a", data.NameMaxLength+1),
		Department: strings.Repeat("b", data.DepartmentMaxLength+1),
	})
	assert.Equal(t, "Name must be at most 255 characters", validationErrors[data.FieldName])
	assert.Equal(t, "Department must be at most 100 characters", validationErrors[data.FieldDepartment])
}

func TestEmployeeBinary(t *testing.T) {
	id := int64(7)
	employee := &data.Employee{
		Id:         &id,
		Name:       "Alice",
		Dob:        "1990-01-15",
		Gender:     data.GenderFemale,
		Department: "Eng",
	}
	bytes, err := employee.MarshalBinary()
	assert.Nil(t, err)
	assert.JSONEq(t, `{"id":7,"name":"Alice","dob":"1990-01-15","gender":"Female","department":"Eng"}`, string(bytes))

	//a record that was never stored carries no id
	bytes, err = (&data.Employee{Name: "Bob"}).MarshalBinary()
	assert.Nil(t, err)
	assert.NotContains(t, string(bytes), `"id"`)

	copied := employee.Copy()
	*copied.Id = 8
	assert.Equal(t, int64(7), *employee.Id)

	employees := data.Employees{employee}
	bytes, err = employees.MarshalBinary()
	assert.Nil(t, err)
	read := data.Employees{}
	err = read.UnmarshalBinary(bytes)
	assert.Nil(t, err)
	assert.Equal(t, employees, read)

	bytes, err = data.Employees(nil).MarshalBinary()
	assert.Nil(t, err)
	assert.Equal(t, "[]", string(bytes))
}

func TestGender(t *testing.T) {
	for _, gender := range data.Genders {
		assert.True(t, gender.Valid())
	}
	assert.False(t, data.Gender("male").Valid())
	assert.False(t, data.Gender("").Valid())
}
