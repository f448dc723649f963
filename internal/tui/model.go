package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/antonio-alexander/go-employee-directory/internal/data"
	"github.com/antonio-alexander/go-employee-directory/internal/directory"
	"github.com/antonio-alexander/go-employee-directory/internal/utilities"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	dobCharLimit = 10
	columnGap           = 2
	actionsCell         = "e edit  d delete"
)

type employeesLoadedMsg struct {
	employees []*data.Employee
	err       error
}

type employeeSubmittedMsg struct {
	err error
}

type employeeDeletedMsg struct {
	id  int64
	err error
}

// Model is the bubbletea model of the directory. Backend calls run as
// commands; their results are applied to the view on the event loop.
type Model struct {
	ctx     context.Context
	view    *directory.View
	backend directory.Backend
	logger  utilities.Logger
	keys    KeyMap
	styles  styles
	now     func() time.Time
	inputs  map[string]*textinput.Model
	cursor  int
	focus   int
	width   int
	height  int
}

func New(ctx context.Context, parameters ...any) *Model {
	m := &Model{
		ctx:    ctx,
		view:   directory.NewView(),
		keys:   DefaultKeyMap,
		styles: newStyles(DefaultTheme),
		now:    time.Now,
		inputs: newInputs(),
	}
	for _, parameter := range parameters {
		switch p := parameter.(type) {
		case directory.Backend:
			m.backend = p
		case *directory.View:
			m.view = p
		case KeyMap:
			m.keys = p
		case Theme:
			m.styles = newStyles(p)
		case func() time.Time:
			m.now = p
		case utilities.Logger:
			m.logger = p
		}
	}
	if m.logger == nil {
		m.logger = utilities.NewLogger()
	}
	return m
}

func newInputs() map[string]*textinput.Model {
	inputs := make(map[string]*textinput.Model)
	for field, charLimit := range map[string]int{
		data.FieldName:       data.NameMaxLength,
		data.FieldDob:        dobCharLimit,
		data.FieldDepartment: data.DepartmentMaxLength,
	} {
		input := textinput.New()
		input.Prompt = ""
		input.CharLimit = charLimit
		if field == data.FieldDob {
			input.Placeholder = "YYYY-MM-DD"
		}
		inputs[field] = &input
	}
	return inputs
}

// Directory returns the view the model renders; it is shared, not copied.
func (m *Model) Directory() *directory.View {
	return m.view
}

func (m *Model) Cursor() int {
	return m.cursor
}

func (m *Model) Init() tea.Cmd {
	return m.load()
}

func (m *Model) load() tea.Cmd {
	ctx, backend := m.ctx, m.backend
	return func() tea.Msg {
		employees, err := backend.EmployeesRead(ctx)
		return employeesLoadedMsg{employees: employees, err: err}
	}
}

func (m *Model) submit(mode directory.Mode, employee data.Employee) tea.Cmd {
	ctx, backend := m.ctx, m.backend
	return func() tea.Msg {
		return employeeSubmittedMsg{err: directory.Send(ctx, backend, mode, employee)}
	}
}

func (m *Model) delete(id int64) tea.Cmd {
	ctx, backend := m.ctx, m.backend
	return func() tea.Msg {
		return employeeDeletedMsg{id: id, err: backend.EmployeeDelete(ctx, id)}
	}
}

func (m *Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := message.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case employeesLoadedMsg:
		if msg.err != nil {
			m.logger.Error(m.ctx, "failed to fetch employees: %s", msg.err)
			return m, nil
		}
		m.view.Replace(msg.employees)
		m.clampCursor()
		return m, nil

	case employeeSubmittedMsg:
		m.view.FinishSubmit(msg.err)
		if msg.err != nil {
			m.logger.Error(m.ctx, "submission failed: %s", msg.err)
			return m, nil
		}
		return m, m.load()

	case employeeDeletedMsg:
		m.view.FinishDelete(msg.err)
		if msg.err != nil {
			m.logger.Error(m.ctx, "failed to delete employee (%d): %s", msg.id, msg.err)
			return m, nil
		}
		return m, m.load()

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, tea.Quit
		}
		switch {
		case m.view.Confirmation.Open:
			return m, m.handleConfirmKeys(msg)
		case m.view.Editor.Open:
			return m, m.handleEditorKeys(msg)
		default:
			return m, m.handleListKeys(msg)
		}
	}
	if input := m.focusedInput(); input != nil {
		updated, cmd := input.Update(message)
		*input = updated
		return m, cmd
	}
	return m, nil
}

func (m *Model) clampCursor() {
	if m.cursor >= m.view.Len() {
		m.cursor = m.view.Len() - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) handleListKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < m.view.Len()-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Add):
		m.openEditor(nil)
	case key.Matches(msg, m.keys.Edit):
		if employee := m.view.Employee(m.cursor); employee != nil {
			m.openEditor(employee)
		}
	case key.Matches(msg, m.keys.Delete):
		m.view.ConfirmDelete(m.view.Employee(m.cursor))
	case key.Matches(msg, m.keys.Reload):
		return m.load()
	}
	return nil
}

func (m *Model) openEditor(employee *data.Employee) {
	m.view.OpenEditor(employee)
	for field, input := range m.inputs {
		input.SetValue(m.view.Editor.Field(field))
		input.CursorEnd()
		input.Blur()
	}
	m.focus = 0
	m.focusInput()
}

func (m *Model) focusedInput() *textinput.Model {
	if !m.view.Editor.Open {
		return nil
	}
	return m.inputs[data.Fields[m.focus]]
}

func (m *Model) focusInput() {
	for _, input := range m.inputs {
		input.Blur()
	}
	if input := m.focusedInput(); input != nil {
		_ = input.Focus()
	}
}

func (m *Model) handleEditorKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.view.CloseEditor()
		return nil
	case key.Matches(msg, m.keys.Submit):
		return m.submitEditor()
	case key.Matches(msg, m.keys.NextField):
		m.focus = (m.focus + 1) % len(data.Fields)
		m.focusInput()
		return nil
	case key.Matches(msg, m.keys.PreviousField):
		m.focus = (m.focus + len(data.Fields) - 1) % len(data.Fields)
		m.focusInput()
		return nil
	}
	field := data.Fields[m.focus]
	if field == data.FieldGender {
		switch {
		case key.Matches(msg, m.keys.CycleBack):
			m.cycleGender(-1)
		case key.Matches(msg, m.keys.CycleForward):
			m.cycleGender(1)
		}
		return nil
	}
	input := m.inputs[field]
	updated, cmd := input.Update(msg)
	*input = updated
	_ = m.view.SetField(field, updated.Value())
	return cmd
}

func (m *Model) cycleGender(step int) {
	index := -1
	for i, gender := range data.Genders {
		if gender == m.view.Editor.Employee.Gender {
			index = i
		}
	}
	switch {
	case index < 0 && step > 0:
		index = 0
	case index < 0:
		index = len(data.Genders) - 1
	default:
		index = (index + step + len(data.Genders)) % len(data.Genders)
	}
	_ = m.view.SetField(data.FieldGender, string(data.Genders[index]))
}

func (m *Model) submitEditor() tea.Cmd {
	mode := m.view.Editor.Mode
	employee, err := m.view.BeginSubmit()
	if err != nil {
		var validationErrors data.ValidationErrors
		if !errors.As(err, &validationErrors) {
			m.logger.Debug(m.ctx, "submit ignored: %s", err)
		}
		return nil
	}
	return m.submit(mode, employee)
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		id, err := m.view.BeginDelete()
		if err != nil {
			m.logger.Debug(m.ctx, "delete ignored: %s", err)
			return nil
		}
		return m.delete(id)
	case key.Matches(msg, m.keys.Deny):
		m.view.CancelDelete()
	}
	return nil
}

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.title.Render(directory.Title))
	b.WriteString("\n")
	b.WriteString(m.renderTable())
	switch {
	case m.view.Confirmation.Open:
		b.WriteString("\n")
		b.WriteString(m.renderConfirmation())
	case m.view.Editor.Open:
		b.WriteString("\n")
		b.WriteString(m.renderEditor())
	default:
		b.WriteString("\n")
		b.WriteString(m.styles.help.Render("a add  e edit  d delete  r reload  q quit"))
	}
	b.WriteString("\n")
	return b.String()
}

func (m *Model) renderTable() string {
	rows := m.view.Rows(m.now())
	widths := make([]int, len(directory.Columns))
	for i, column := range directory.Columns {
		widths[i] = lipgloss.Width(column)
	}
	cells := make([][]string, 0, len(rows))
	for _, row := range rows {
		if row.Empty {
			continue
		}
		line := []string{row.Name, row.Dob, row.Age, row.Gender, row.Department, actionsCell}
		for i, cell := range line {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
		cells = append(cells, line)
	}

	lines := []string{m.renderRow(m.styles.header, directory.Columns, widths)}
	if len(cells) == 0 {
		lines = append(lines, m.styles.empty.Render(directory.EmptyMessage))
	}
	for i, line := range cells {
		style := m.styles.cell
		if i == m.cursor && !m.view.Editor.Open && !m.view.Confirmation.Open {
			style = m.styles.selected
		}
		lines = append(lines, m.renderRow(style, line, widths))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderRow(style lipgloss.Style, cells []string, widths []int) string {
	rendered := make([]string, 0, len(cells))
	for i, cell := range cells {
		width := widths[i]
		if i < len(cells)-1 {
			width += columnGap
		}
		rendered = append(rendered, style.Width(width).Render(cell))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m *Model) renderEditor() string {
	editor := m.view.Editor
	lines := []string{m.styles.header.Render(editor.Title()), ""}
	for i, field := range data.Fields {
		labelStyle := m.styles.label
		if i == m.focus {
			labelStyle = m.styles.focused
		}
		var value string
		switch field {
		case data.FieldGender:
			value = "< " + editor.Field(field) + " >"
		default:
			value = m.inputs[field].View()
		}
		lines = append(lines, labelStyle.Render(directory.FieldLabels[field]), value)
		if message, ok := editor.Errors[field]; ok {
			lines = append(lines, m.styles.error.Render(message))
		}
	}
	footer := "enter " + editor.SubmitLabel() + "  esc " + directory.LabelCancel
	if editor.Submitting {
		footer = "saving..."
	}
	lines = append(lines, "", m.styles.help.UnsetMarginTop().Render(footer))
	return m.styles.modal.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderConfirmation() string {
	lines := []string{
		m.styles.header.Render(directory.DeleteTitle),
		"",
		directory.DeletePrompt,
	}
	if employee := m.view.Confirmation.Employee; employee != nil {
		lines = append(lines, m.styles.label.Render(employee.Name))
	}
	footer := "y " + directory.LabelDelete + "  n " + directory.LabelCancel
	if m.view.Confirmation.Deleting {
		footer = "deleting..."
	}
	lines = append(lines, "", m.styles.help.UnsetMarginTop().Render(footer))
	return m.styles.modal.Render(strings.Join(lines, "\n"))
}
