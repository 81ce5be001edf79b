package config

import (
	"reflect"
	"strings"
)

// GetBoolValue retrieves a boolean value from a nested struct based on a dot-separated path.
// It returns the provided defaultValue if the specified field is not explicitly set or is nil.
func GetBoolValue(config interface{}, fieldPath string, defaultValue bool) bool {
	val := reflect.ValueOf(config)
	if !val.IsValid() || (val.Kind() == reflect.Ptr && val.IsNil()) {
		return defaultValue
	}

	for _, field := range strings.Split(fieldPath, ".") {
		if val.Kind() == reflect.Ptr {
			if val.IsNil() {
				return defaultValue
			}
			val = val.Elem()
		}
		if val.Kind() != reflect.Struct {
			return defaultValue
		}
		val = val.FieldByName(field)
		if !val.IsValid() {
			return defaultValue
		}
	}

	if val.Kind() == reflect.Ptr && !val.IsNil() {
		return val.Elem().Bool()
	} else if val.Kind() == reflect.Bool {
		return val.Bool()
	}
	return defaultValue
}

// SetThen returns value unless it is the zero value, in which case it returns defaultValue.
func SetThen[T any](value T, defaultValue T) T {
	if reflect.ValueOf(value).IsZero() {
		return defaultValue
	}
	return value
}
