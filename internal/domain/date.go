package domain

import (
	"fmt"
	"strings"
	"time"
)

// DisplayDateLayout - человекочитаемый формат даты в ответах API ("Sun Jan 01 2023").
const DisplayDateLayout = "Mon Jan 02 2006"

// inputDateLayouts перечисляет принимаемые форматы дат, от самого частого.
var inputDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	DisplayDateLayout,
	"2006-01",
	"2006",
}

// ParseDate разбирает дату из запроса. Значения без смещения считаются UTC.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	for _, layout := range inputDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", value)
}

// FormatDate возвращает дату в формате DisplayDateLayout (UTC).
func FormatDate(t time.Time) string {
	return t.UTC().Format(DisplayDateLayout)
}
