package console

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	defaultMenuRowLength = 80
	defaultMenuRowCount  = 5
)

type Selectable interface {
	Selector() string
}

// Menu lays options out in numbered columns, filling each column top to
// bottom before moving right.
type Menu[T Selectable] struct {
	ids     []string
	options []T
	output  []string
}

// NewMenu builds a menu. ids and options are parallel and keep their order.
func NewMenu[T Selectable](ids []string, options []T) *Menu[T] {
	m := &Menu[T]{
		ids:     ids,
		options: options,
	}
	m.build()
	return m
}

// Select resolves a menu number or an id to an id.
func (m *Menu[T]) Select(input string) (string, bool) {
	input = strings.TrimSpace(input)
	if i, err := strconv.Atoi(input); err == nil {
		if i < 1 || i > len(m.ids) {
			return "", false
		}
		return m.ids[i-1], true
	}

	for _, id := range m.ids {
		if strings.EqualFold(id, input) {
			return id, true
		}
	}
	return "", false
}

func (m *Menu[T]) IDs() []string {
	return m.ids
}

func (m *Menu[T]) String() string {
	var sb strings.Builder
	for _, row := range m.output {
		row = strings.TrimRight(row, " ")
		if row == "" {
			continue
		}
		sb.WriteString(row)
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (m *Menu[T]) build() {
	// Calculate column width
	colWidth := 1
	for _, v := range m.options {
		l := len(v.Selector()) + 7 // Plus 7 for number and spacing (nn. <val>  )
		if l > colWidth {
			colWidth = l
		}
	}

	// Fill columns first, left to right, adding rows when the options do
	// not fit in the default row count.
	numVals := len(m.options)
	numCols := max(defaultMenuRowLength/colWidth, 1)
	numRows := (numVals + numCols - 1) / numCols
	if numRows < defaultMenuRowCount {
		numRows = defaultMenuRowCount
	}

	rows := make([]string, numRows)
	for i, v := range m.options {
		rows[i%numRows] += fmt.Sprintf("%2d. %-*s  ", i+1, colWidth-5, v.Selector())
	}

	m.output = rows
}
