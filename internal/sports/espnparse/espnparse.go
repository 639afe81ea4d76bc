// Package espnparse holds the JSON plumbing shared by sport adapters.
// ESPN payloads are weakly typed maps; every accessor here tolerates
// missing or oddly typed fields and returns zero values instead of failing.
package espnparse

import (
	"strconv"
	"strings"
	"time"

	"github.com/Higherpines/SkoreBot/pkg/models"
)

// ExtractString safely extracts a string from a map
func ExtractString(m map[string]interface{}, key string) string {
	if v, ok := m[key]; ok {
		if str, ok := v.(string); ok {
			return str
		}
	}
	return ""
}

// ExtractInt safely extracts an int from a map
func ExtractInt(m map[string]interface{}, key string) int {
	if v, ok := m[key]; ok {
		return ParseInt(v)
	}
	return 0
}

// ExtractMap safely extracts a map from a map
func ExtractMap(m map[string]interface{}, key string) map[string]interface{} {
	if v, ok := m[key]; ok {
		if mapVal, ok := v.(map[string]interface{}); ok {
			return mapVal
		}
	}
	return map[string]interface{}{}
}

// ExtractArray safely extracts an array from a map
func ExtractArray(m map[string]interface{}, key string) []interface{} {
	if v, ok := m[key]; ok {
		if arrVal, ok := v.([]interface{}); ok {
			return arrVal
		}
	}
	return []interface{}{}
}

// ParseInt parses an int from interface{}
func ParseInt(v interface{}) int {
	switch val := v.(type) {
	case float64:
		return int(val)
	case string:
		i, _ := strconv.Atoi(val)
		return i
	case int:
		return val
	default:
		return 0
	}
}

// ParseStatus converts an ESPN status.type object to a GameStatus
func ParseStatus(statusType map[string]interface{}) models.GameStatus {
	if completed, ok := statusType["completed"].(bool); ok && completed {
		return models.StatusFinal
	}

	if state, ok := statusType["state"].(string); ok {
		switch state {
		case "in":
			return models.StatusLive
		case "post":
			return models.StatusFinal
		case "pre":
			return models.StatusScheduled
		}
	}

	return models.StatusScheduled
}

// ParseStartTime parses ESPN's event date format to time.Time
func ParseStartTime(dateStr string) time.Time {
	if dateStr == "" {
		return time.Time{}
	}

	// ESPN format: "2025-11-11T23:30Z"
	t, err := time.Parse(time.RFC3339, dateStr)
	if err != nil {
		t, err = time.Parse("2006-01-02T15:04Z", dateStr)
		if err != nil {
			return time.Time{}
		}
	}

	return t
}

// MatchesTeam reports whether a competitor display name matches the
// configured team, case-insensitive substring per the original bot behavior
func MatchesTeam(displayName, team string) bool {
	if team == "" {
		return true
	}
	return strings.Contains(strings.ToLower(displayName), strings.ToLower(team))
}
