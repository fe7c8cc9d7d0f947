package utils

import (
	"fmt"
	"time"
)

const orderCodePrefix = "BD"

// GenerateOrderCode returns a short human-presentable order code: the
// "BD" prefix followed by the last 8 digits of the current millisecond
// epoch. Codes are unique with very high probability within the window
// a shop realistically operates in; collisions are an accepted risk.
func GenerateOrderCode() string {
	return OrderCodeAt(time.Now())
}

// OrderCodeAt derives the order code from an explicit timestamp.
func OrderCodeAt(t time.Time) string {
	ms := t.UnixMilli()
	return fmt.Sprintf("%s%08d", orderCodePrefix, ms%100000000)
}
