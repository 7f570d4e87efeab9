package logging

import "strings"

// Sensitive field names whose values are never logged.
var sensitiveFields = []string{
	"password",
	"passwd",
	"secret",
	"token",
	"authorization",
	"credential",
	"private_key",
	"privatekey",
}

// RedactedValue is the replacement for sensitive values.
const RedactedValue = "[REDACTED]"

// IsSensitiveField reports whether a key name looks like it holds a secret.
func IsSensitiveField(name string) bool {
	lower := strings.ToLower(name)
	for _, field := range sensitiveFields {
		if strings.Contains(lower, field) {
			return true
		}
	}
	return false
}

// RedactMap returns a copy of a payload with sensitive values replaced,
// descending into nested objects and lists.
func RedactMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for key, value := range m {
		if IsSensitiveField(key) && value != nil {
			out[key] = RedactedValue
			continue
		}
		out[key] = redactValue(value)
	}
	return out
}

func redactValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return RedactMap(typed)
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = redactValue(item)
		}
		return out
	default:
		return value
	}
}
