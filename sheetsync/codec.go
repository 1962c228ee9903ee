package sheetsync

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/akshayWork-19/RightTutor-Backend/models"
)

// NormalizeModule collapses module name variations onto the three known
// sheet layouts. Unknown names pass through lowercased; empty means generic.
func NormalizeModule(moduleName string) string {
	if moduleName == "" {
		return "generic"
	}
	m := strings.ToLower(strings.TrimSpace(moduleName))
	switch {
	case strings.Contains(m, "match"):
		return "manual matches"
	case strings.Contains(m, "inquiry"), strings.Contains(m, "inquires"), strings.Contains(m, "contact"):
		return "inquiries"
	case strings.Contains(m, "booking"), strings.Contains(m, "consultation"):
		return "bookings"
	}
	return m
}

// CollectionForRepository decides which store collection a mirror target
// binds to. Category keywords win over name keywords; anything unrecognized
// mirrors a collection named after the category or name itself.
func CollectionForRepository(repo models.Repository) string {
	category := strings.ToLower(strings.TrimSpace(repo.Category))
	name := strings.ToLower(strings.TrimSpace(repo.Name))

	switch {
	case strings.Contains(category, "inquiry"), strings.Contains(category, "contact"):
		return models.CollectionContacts
	case strings.Contains(category, "booking"), strings.Contains(category, "consultation"):
		return models.CollectionBookings
	case strings.Contains(category, "match"):
		return models.CollectionManualMatches
	}

	switch {
	case strings.Contains(name, "inquiry"), strings.Contains(name, "contact"):
		return models.CollectionContacts
	case strings.Contains(name, "booking"), strings.Contains(name, "consultation"):
		return models.CollectionBookings
	case strings.Contains(name, "match"):
		return models.CollectionManualMatches
	}

	if category != "" {
		return category
	}
	return name
}

// Headers returns the column layout for a module. Known modules use fixed
// layouts; otherwise columns are derived from a sample document, and a bare
// [ID, Created At, Data] layout is the last resort.
func Headers(moduleName string, sample map[string]any) []string {
	switch NormalizeModule(moduleName) {
	case "manual matches":
		return []string{"ID", "Parent Name", "Phone Number", "Subject", "Grade Level", "Status", "Date Added"}
	case "inquiries":
		return []string{"ID", "Name", "Email", "Phone", "Subject", "Message", "Date", "Status"}
	case "bookings":
		return []string{"ID", "Parent Name", "Child Name", "Email", "Phone", "Date", "Time", "Topic", "Status"}
	}

	if len(sample) > 0 {
		keys := make([]string, 0, len(sample))
		for k := range sample {
			if k == "id" {
				continue
			}
			keys = append(keys, k)
		}
		sort.Strings(keys)
		headers := make([]string, 0, len(keys)+1)
		headers = append(headers, "ID")
		for _, k := range keys {
			headers = append(headers, titleize(k))
		}
		return headers
	}

	return []string{"ID", "Created At", "Data"}
}

// MapToRow flattens a document into sheet cells. Known modules use their
// fixed layout with field aliases; otherwise cells follow the header row,
// and without headers the row degrades to [id, JSON].
func MapToRow(moduleName string, data map[string]any, headers []string) []string {
	id := cellString(data["id"])

	switch NormalizeModule(moduleName) {
	case "manual matches":
		return []string{
			id,
			firstField(data, "parentName", "name"),
			firstField(data, "phoneNumber", "phone"),
			firstField(data, "subject"),
			firstField(data, "gradeLevel"),
			fieldOrDefault(data, "Pending", "status"),
			fieldOrDefault(data, nowStamp(), "dateAdded", "createdAt"),
		}
	case "inquiries":
		return []string{
			id,
			firstField(data, "name", "parentName"),
			firstField(data, "email"),
			firstField(data, "phone", "phoneNumber"),
			firstField(data, "subject"),
			firstField(data, "message"),
			fieldOrDefault(data, nowStamp(), "date", "createdAt"),
			fieldOrDefault(data, "Pending", "status"),
		}
	case "bookings":
		return []string{
			id,
			firstField(data, "parentName", "name"),
			firstField(data, "childName"),
			firstField(data, "email"),
			firstField(data, "phone", "phoneNumber"),
			firstField(data, "date"),
			firstField(data, "time"),
			firstField(data, "topic"),
			fieldOrDefault(data, "Pending", "status"),
		}
	}

	if len(headers) > 0 {
		row := make([]string, len(headers))
		for i, header := range headers {
			lower := strings.ToLower(header)
			if lower == "id" {
				row[i] = id
				continue
			}
			if key, ok := matchFieldKey(data, header); ok {
				row[i] = cellString(data[key])
				continue
			}
			switch {
			case strings.Contains(lower, "name"):
				row[i] = firstField(data, "name", "parentName")
			case strings.Contains(lower, "phone"):
				row[i] = firstField(data, "phone", "phoneNumber")
			case strings.Contains(lower, "date"):
				row[i] = firstField(data, "date", "createdAt")
			}
		}
		return row
	}

	payload, err := json.Marshal(data)
	if err != nil {
		payload = []byte("{}")
	}
	return []string{id, string(payload)}
}

// MapFromRow rebuilds a field map from sheet cells, id included. Known
// modules use their fixed layout; otherwise headers name the keys, and
// without headers the remaining cells land under rawData.
func MapFromRow(moduleName string, row []string, headers []string) map[string]any {
	if len(row) == 0 {
		return nil
	}
	id := row[0]

	switch NormalizeModule(moduleName) {
	case "manual matches":
		return map[string]any{
			"id":          id,
			"parentName":  cellAt(row, 1),
			"phoneNumber": cellAt(row, 2),
			"subject":     cellAt(row, 3),
			"gradeLevel":  cellAt(row, 4),
			"status":      cellOrDefault(row, 5, "Pending"),
			"dateAdded":   cellOrDefault(row, 6, nowStamp()),
		}
	case "inquiries":
		return map[string]any{
			"id":      id,
			"name":    cellAt(row, 1),
			"email":   cellAt(row, 2),
			"phone":   cellAt(row, 3),
			"subject": cellAt(row, 4),
			"message": cellAt(row, 5),
			"date":    cellOrDefault(row, 6, nowStamp()),
			"status":  cellOrDefault(row, 7, "Pending"),
		}
	case "bookings":
		return map[string]any{
			"id":         id,
			"parentName": cellAt(row, 1),
			"childName":  cellAt(row, 2),
			"email":      cellAt(row, 3),
			"phone":      cellAt(row, 4),
			"date":       cellAt(row, 5),
			"time":       cellAt(row, 6),
			"topic":      cellAt(row, 7),
			"status":     cellOrDefault(row, 8, "Pending"),
		}
	}

	if len(headers) > 0 {
		obj := map[string]any{"id": id}
		for i, header := range headers {
			key := strings.ReplaceAll(strings.ToLower(header), " ", "")
			if key == "id" || key == "" {
				continue
			}
			obj[key] = cellAt(row, i)
		}
		return obj
	}

	raw := make([]any, 0, len(row)-1)
	for _, cell := range row[1:] {
		raw = append(raw, cell)
	}
	return map[string]any{"id": id, "rawData": raw}
}

// matchFieldKey finds the data key whose lowercase form equals the header
// with spaces stripped, so "Parent Name" matches parentName.
func matchFieldKey(data map[string]any, header string) (string, bool) {
	want := strings.ReplaceAll(strings.ToLower(header), " ", "")
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if strings.ToLower(k) == want {
			return k, true
		}
	}
	return "", false
}

// titleize turns a camelCase field key into a spaced header, so parentName
// becomes Parent Name.
func titleize(key string) string {
	if key == "" {
		return ""
	}
	var b strings.Builder
	for i, r := range key {
		if i == 0 {
			b.WriteRune(unicode.ToUpper(r))
			continue
		}
		if unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

func firstField(data map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := cellString(data[k]); s != "" {
			return s
		}
	}
	return ""
}

func fieldOrDefault(data map[string]any, def string, keys ...string) string {
	if s := firstField(data, keys...); s != "" {
		return s
	}
	return def
}

func cellAt(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func cellOrDefault(row []string, i int, def string) string {
	if s := cellAt(row, i); s != "" {
		return s
	}
	return def
}

func cellString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", val)
	}
}

func nowStamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
