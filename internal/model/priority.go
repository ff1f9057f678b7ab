package model

import "strings"

// Priority is a free-form label. Stores do not restrict it to the known set.
type Priority string

const (
	PriorityLow    Priority = "Baixa"
	PriorityMedium Priority = "Média"
	PriorityHigh   Priority = "Alta"
)

// Priorities lists the known labels from lowest to highest.
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

// Known reports whether p is one of the built-in labels.
func (p Priority) Known() bool {
	for _, k := range Priorities() {
		if p == k {
			return true
		}
	}
	return false
}

func (p Priority) String() string { return string(p) }

// ParsePriority maps menu shortcuts (1/2/3) and common spellings onto the
// known labels. Anything else is returned trimmed but otherwise untouched.
func ParsePriority(s string) Priority {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "1", "low", "baixa":
		return PriorityLow
	case "2", "medium", "média", "media":
		return PriorityMedium
	case "3", "high", "alta":
		return PriorityHigh
	}
	return Priority(s)
}
