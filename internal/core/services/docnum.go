package services

import (
	"fmt"
	"time"
)

// monthScope builds the counter scope for month-bucketed document numbers.
// Counters reset per calendar month because the scope itself changes.
func monthScope(prefix string, t time.Time) string {
	return prefix + ":" + t.UTC().Format("0601")
}

// docNumber formats a human-readable document number like REQ-2608-0042.
func docNumber(prefix string, t time.Time, seq int64, width int) string {
	return fmt.Sprintf("%s-%s-%0*d", prefix, t.UTC().Format("0601"), width, seq)
}
