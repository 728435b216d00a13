// Package response provides API response helpers.
package response

import (
	"reflect"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// =============================================================================
// Standard API Response
// =============================================================================

// Response is the enveloped response shape. Failures are rendered by the
// error middleware, so only the success side lives here.
type Response struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

// OK wraps data in the success envelope.
func OK(c *fiber.Ctx, data any) error {
	return c.JSON(Response{Success: true, Data: data})
}

// Fields writes a flat success object: {"success": true, <fields>...}.
// Most dashboard endpoints answer in this shape.
func Fields(c *fiber.Ctx, fields fiber.Map) error {
	body := make(fiber.Map, len(fields)+1)
	for k, v := range fields {
		body[k] = v
	}
	body["success"] = true
	return c.JSON(body)
}

// =============================================================================
// Field Selection (Sparse Fieldsets)
// =============================================================================

// SelectFields filters struct fields by the "fields" query parameter.
// Usage: GET /tasks?fields=id,task,priority
func SelectFields(c *fiber.Ctx, data any) any {
	param := c.Query("fields")
	if param == "" {
		return data
	}

	fieldSet := make(map[string]bool)
	for _, f := range strings.Split(param, ",") {
		if f = strings.TrimSpace(strings.ToLower(f)); f != "" {
			fieldSet[f] = true
		}
	}
	if len(fieldSet) == 0 {
		return data
	}
	return filterFields(reflect.ValueOf(data), fieldSet)
}

func filterFields(v reflect.Value, fields map[string]bool) any {
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Slice:
		result := make([]map[string]any, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			if m, ok := filterFields(v.Index(i), fields).(map[string]any); ok {
				result = append(result, m)
			}
		}
		return result
	case reflect.Struct:
		return filterStructFields(v, fields)
	default:
		return v.Interface()
	}
}

func filterStructFields(v reflect.Value, fields map[string]bool) map[string]any {
	t := v.Type()
	result := make(map[string]any)

	for i := 0; i < v.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		if tag == "" || tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		if fields[strings.ToLower(name)] {
			result[name] = v.Field(i).Interface()
		}
	}
	return result
}
