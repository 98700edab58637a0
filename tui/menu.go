package tui

import (
	"fmt"
	"strings"
)

// action is what a menu item does to the circuit.
type action int

const (
	actH action = iota
	actX
	actZ
	actS
	actT
	actMeasure
	actBarrier
	actQFT
	actIQFT
	actQPE
	actMeasureAll
)

// menuItem represents a single choice in the menu.
type menuItem struct {
	name        string
	act         action
	symbol      string
	needsParams bool
	paramHint   string
}

// menuCategory groups related menu items under a tab.
type menuCategory struct {
	name  string
	items []menuItem
}

// blockMenu defines the picker categories and items.
var blockMenu = []menuCategory{
	{
		name: "Gates",
		items: []menuItem{
			{name: "Hadamard", act: actH, symbol: "H"},
			{name: "Pauli-X (NOT)", act: actX, symbol: "X"},
			{name: "Pauli-Z", act: actZ, symbol: "Z"},
			{name: "Phase (S)", act: actS, symbol: "S"},
			{name: "T Gate", act: actT, symbol: "T"},
			{name: "Measure", act: actMeasure, symbol: "M"},
			{name: "Barrier", act: actBarrier, symbol: "┃"},
		},
	},
	{
		name: "Blocks",
		items: []menuItem{
			{name: "QFT", act: actQFT, symbol: "cursor..end"},
			{name: "Inverse QFT", act: actIQFT, symbol: "cursor..end"},
			{name: "QPE demo", act: actQPE, symbol: "all qubits", needsParams: true, paramHint: "0.25"},
			{name: "Measure all", act: actMeasureAll, symbol: "M…M"},
		},
	},
}

// renderMenu renders the floating picker popup.
func (m Model) renderMenu() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Add"))
	sb.WriteString("\n")

	for i, cat := range blockMenu {
		name := " " + cat.name + " "
		if i == m.menuCat {
			sb.WriteString(activeGateStyle.Render(name))
		} else {
			sb.WriteString(dimStyle.Render(name))
		}
		if i < len(blockMenu)-1 {
			sb.WriteString(dimStyle.Render("│"))
		}
	}
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(strings.Repeat("─", 36)))
	sb.WriteString("\n")

	cat := blockMenu[m.menuCat]
	for i, item := range cat.items {
		if i == m.menuItem {
			sb.WriteString(menuSelectedStyle.Render(" ▸ "))
			sb.WriteString(menuSelectedStyle.Render(fmt.Sprintf("%-16s", item.name)))
			sb.WriteString(gateStyle.Render(item.symbol))
		} else {
			sb.WriteString("   ")
			sb.WriteString(menuNormalStyle.Render(fmt.Sprintf("%-16s", item.name)))
			sb.WriteString(dimStyle.Render(item.symbol))
		}
		if item.needsParams {
			sb.WriteString(dimStyle.Render(fmt.Sprintf(" (θ=%s)", item.paramHint)))
		}
		sb.WriteString("\n")
	}
	sb.WriteString(dimStyle.Render(" ↑↓ Select  ←→ Tab  ⏎ Ok  Esc ✕"))

	return menuBorderStyle.Render(sb.String())
}

// renderParamInput renders the phase input overlay.
func (m Model) renderParamInput() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Eigenphase θ"))
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "θ = %s_", m.paramInput)
	sb.WriteString("\n\n")
	sb.WriteString(dimStyle.Render("Fraction of a turn, e.g. 0.25, 1/8 as 0.125"))
	return menuBorderStyle.Render(sb.String())
}
