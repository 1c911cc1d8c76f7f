package cmd

import (
	"strconv"
	"time"

	"github.com/alt-project/adminctl/internal/domain"
)

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func toIDs(args []string) []domain.ID {
	ids := make([]domain.ID, len(args))
	for i, a := range args {
		ids[i] = domain.ID(a)
	}
	return ids
}
