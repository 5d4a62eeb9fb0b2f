package sqlite

import "strings"

type scannable interface {
	Scan(...any) error
}

// generateParameters returns "(?,?,...)" with n placeholders.
func generateParameters(n int) string {
	if n == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("(?")
	for range n - 1 {
		sb.WriteString(",?")
	}

	sb.WriteString(")")
	return sb.String()
}

func toArgs(keys []string) []any {
	args := make([]any, 0, len(keys))
	for _, k := range keys {
		args = append(args, k)
	}
	return args
}
