package infrastructure

import "strings"

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "23505") ||
		strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint")
}

func isUniqueConstraintOn(err error, indexName string) bool {
	return isUniqueConstraintError(err) && strings.Contains(err.Error(), indexName)
}
