package data

import (
	"errors"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	FieldName       string = "name"
	FieldDob        string = "dob"
	FieldGender     string = "gender"
	FieldDepartment string = "department"
)

const (
	NameMaxLength       int = 255
	DepartmentMaxLength int = 100
)

// Fields lists the editable fields in form order.
var Fields = []string{FieldName, FieldDob, FieldGender, FieldDepartment}

var requiredMessages = map[string]string{
	FieldName:       "Name is required",
	FieldDob:        "Date of birth is required",
	FieldGender:     "Gender is required",
	FieldDepartment: "Department is required",
}

var formatMessages = map[string]string{
	FieldName:       "Name must be at most 255 characters",
	FieldDob:        "Date of birth must be formatted as YYYY-MM-DD",
	FieldGender:     "Gender must be one of Male, Female or Other",
	FieldDepartment: "Department must be at most 100 characters",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidationErrors maps a field name to the message shown next to it.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for field := range v {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	messages := make([]string, 0, len(fields))
	for _, field := range fields {
		messages = append(messages, field+": "+v[field])
	}
	return "validation failed: " + strings.Join(messages, "; ")
}

// Validate reports every required field of the employee that is empty; the
// result is empty when the employee may be submitted. It performs no
// format checks.
func Validate(employee Employee) ValidationErrors {
	validationErrors := make(ValidationErrors)
	err := validate.Struct(employee)
	if err == nil {
		return validationErrors
	}
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return validationErrors
	}
	for _, fieldError := range fieldErrors {
		if message, ok := requiredMessages[fieldError.Field()]; ok {
			validationErrors[fieldError.Field()] = message
		}
	}
	return validationErrors
}

// ValidateFormat checks the content of the non-empty fields against what
// the backend can store: column lengths, dob as a date and gender one of
// Genders.
func ValidateFormat(employee Employee) ValidationErrors {
	validationErrors := make(ValidationErrors)
	if err := validate.Var(employee.Name, "max="+strconv.Itoa(NameMaxLength)); err != nil {
		validationErrors[FieldName] = formatMessages[FieldName]
	}
	if err := validate.Var(employee.Department, "max="+strconv.Itoa(DepartmentMaxLength)); err != nil {
		validationErrors[FieldDepartment] = formatMessages[FieldDepartment]
	}
	if employee.Dob != "" {
		if err := validate.Var(employee.Dob, "datetime="+DateLayout); err != nil {
			validationErrors[FieldDob] = formatMessages[FieldDob]
		}
	}
	if employee.Gender != "" && !employee.Gender.Valid() {
		validationErrors[FieldGender] = formatMessages[FieldGender]
	}
	return validationErrors
}
