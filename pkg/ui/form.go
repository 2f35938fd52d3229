package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/jaredevans/task-manager-curses/pkg/util"
)

const (
	fieldTitle = iota
	fieldDate
	fieldNotes
	fieldCount
)

// formModel is the add/edit overlay: three text inputs and a focus
// cursor. editID is 0 for a new task.
type formModel struct {
	inputs [fieldCount]textinput.Model
	focus  int
	editID int64
	errStr string
}

func newForm(title, date, notes string, editID int64) *formModel {
	f := &formModel{editID: editID}

	ti := textinput.New()
	ti.Placeholder = "Title"
	ti.SetValue(title)
	ti.Focus()
	ti.CharLimit = 120
	f.inputs[fieldTitle] = ti

	di := textinput.New()
	di.Placeholder = "Date (M/D, \"tomorrow\", ...)"
	di.SetValue(date)
	di.CharLimit = 40
	f.inputs[fieldDate] = di

	ni := textinput.New()
	ni.Placeholder = "Notes"
	ni.SetValue(notes)
	ni.CharLimit = 200
	f.inputs[fieldNotes] = ni

	return f
}

func (f *formModel) setFocus(i int) {
	f.focus = i
	for j := range f.inputs {
		if j == i {
			f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
}

// update handles one key event. It returns done=true when the form is
// submitted with valid values.
func (f *formModel) update(msg tea.KeyMsg, now time.Time) (done bool, cmd tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		f.setFocus((f.focus + 1) % fieldCount)
		return false, nil
	case "shift+tab", "up":
		f.setFocus((f.focus + fieldCount - 1) % fieldCount)
		return false, nil
	case "enter":
		if f.inputs[fieldTitle].Value() == "" {
			f.errStr = "title is required"
			return false, nil
		}
		if _, ok := util.ParseDueInput(f.inputs[fieldDate].Value(), now); !ok {
			f.errStr = "unrecognized date"
			return false, nil
		}
		return true, nil
	}
	f.errStr = ""
	var c tea.Cmd
	f.inputs[f.focus], c = f.inputs[f.focus].Update(msg)
	return false, c
}

// values returns the submitted fields with the date normalized to M/D.
func (f *formModel) values(now time.Time) (title, date, notes string) {
	date, _ = util.ParseDueInput(f.inputs[fieldDate].Value(), now)
	return f.inputs[fieldTitle].Value(), date, f.inputs[fieldNotes].Value()
}

func (f *formModel) view() string {
	header := "Add task"
	if f.editID != 0 {
		header = "Edit task"
	}
	s := titleStyle.Render(header) + "\n\n"
	labels := [fieldCount]string{"Title", "Date ", "Notes"}
	for i := range f.inputs {
		s += labels[i] + " " + f.inputs[i].View() + "\n"
	}
	if f.errStr != "" {
		s += "\n" + overdueStyle.Render(f.errStr)
	}
	s += "\n" + statusStyle.Render("enter save · esc cancel · tab next field")
	return s
}
