package tui

import "github.com/charmbracelet/lipgloss"

// Theme is the color palette of the directory, as ANSI 256-color codes.
type Theme struct {
	NormalText         lipgloss.Color
	FaintText          lipgloss.Color
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color
	HeaderForeground   lipgloss.Color
	BorderColor        lipgloss.Color
	ErrorText          lipgloss.Color
	HelpText           lipgloss.Color
}

var DefaultTheme = Theme{
	NormalText:         lipgloss.Color("252"),
	FaintText:          lipgloss.Color("245"),
	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),
	HeaderForeground:   lipgloss.Color("255"),
	BorderColor:        lipgloss.Color("240"),
	ErrorText:          lipgloss.Color("196"),
	HelpText:           lipgloss.Color("241"),
}

type styles struct {
	title    lipgloss.Style
	header   lipgloss.Style
	cell     lipgloss.Style
	selected lipgloss.Style
	empty    lipgloss.Style
	modal    lipgloss.Style
	label    lipgloss.Style
	focused  lipgloss.Style
	error    lipgloss.Style
	help     lipgloss.Style
}

func newStyles(theme Theme) styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(theme.HeaderForeground).MarginBottom(1),
		header:   lipgloss.NewStyle().Bold(true).Foreground(theme.HeaderForeground),
		cell:     lipgloss.NewStyle().Foreground(theme.NormalText),
		selected: lipgloss.NewStyle().Foreground(theme.SelectedForeground).Background(theme.SelectedBackground),
		empty:    lipgloss.NewStyle().Foreground(theme.FaintText).Italic(true),
		modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.BorderColor).
			Padding(0, 1).
			MarginTop(1),
		label:   lipgloss.NewStyle().Foreground(theme.FaintText),
		focused: lipgloss.NewStyle().Foreground(theme.HeaderForeground).Bold(true),
		error:   lipgloss.NewStyle().Foreground(theme.ErrorText),
		help:    lipgloss.NewStyle().Foreground(theme.HelpText).MarginTop(1),
	}
}
