package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/carevo/internal/catalog"
	"github.com/csheth/carevo/internal/dashboard"
)

const (
	fieldTitle = iota
	fieldLink
	fieldSubtitle
	fieldAuthor
	fieldTag
	fieldCategory
)

type uploadField struct {
	label       string
	placeholder string
	limit       int
}

var uploadFields = []uploadField{
	fieldTitle:    {label: "Title", placeholder: "Operating Systems", limit: 120},
	fieldLink:     {label: "Drive link", placeholder: "https://drive.google.com/…", limit: 300},
	fieldSubtitle: {label: "Subject", placeholder: "Process scheduling and memory", limit: 120},
	fieldAuthor:   {label: "Author", placeholder: "Your name", limit: 80},
	fieldTag:      {label: "Tag", placeholder: "Semester 4", limit: 40},
	fieldCategory: {label: "Category", placeholder: "recent, trending or recommended", limit: 20},
}

// uploadForm collects a note draft one field at a time.
type uploadForm struct {
	inputs []textinput.Model
	focus  int
}

func newUploadForm() uploadForm {
	inputs := make([]textinput.Model, len(uploadFields))
	for i, field := range uploadFields {
		input := textinput.New()
		input.Placeholder = field.placeholder
		input.CharLimit = field.limit
		input.Width = 60
		inputs[i] = input
	}
	form := uploadForm{inputs: inputs}
	form.inputs[fieldCategory].SetValue(string(catalog.Recent))
	return form
}

func (f *uploadForm) Focus() tea.Cmd {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
	return f.inputs[f.focus].Focus()
}

func (f *uploadForm) Move(delta int) tea.Cmd {
	n := len(f.inputs)
	f.focus = ((f.focus+delta)%n + n) % n
	return f.Focus()
}

func (f *uploadForm) Reset() {
	for i := range f.inputs {
		f.inputs[i].SetValue("")
		f.inputs[i].Blur()
	}
	f.inputs[fieldCategory].SetValue(string(catalog.Recent))
	f.focus = fieldTitle
}

func (f *uploadForm) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f uploadForm) OnLastField() bool {
	return f.focus == len(f.inputs)-1
}

func (f uploadForm) Draft() dashboard.Draft {
	value := func(field int) string {
		return strings.TrimSpace(f.inputs[field].Value())
	}
	return dashboard.Draft{
		Title:    value(fieldTitle),
		Subtitle: value(fieldSubtitle),
		Author:   value(fieldAuthor),
		Tag:      value(fieldTag),
		Link:     value(fieldLink),
		Category: catalog.Category(value(fieldCategory)),
	}
}

func (f uploadForm) View() string {
	rows := []string{sectionHeaderStyle.Render("Upload Note")}
	for i, field := range uploadFields {
		label := keyDescStyle.Render(padRight(field.label, 12))
		if i == f.focus {
			label = currentLineStyle.Render(padRight(field.label, 12))
		}
		rows = append(rows, label+" "+f.inputs[i].View())
	}
	rows = append(rows, helperStyle.Render("tab moves between fields, enter on the last field (or ctrl+s) uploads, esc cancels."))
	return helpBoxStyle.Render(strings.Join(rows, "\n"))
}

func padRight(s string, width int) string {
	if n := len([]rune(s)); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
