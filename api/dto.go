package api

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// tokenResponse is the token endpoint's answer. The canonical contract is
// SimpleJWT's `access` field; the legacy `token` and `access_token`
// spellings from older deployments are tolerated when `access` is absent.
type tokenResponse struct {
	Access      string `json:"access"`
	Token       string `json:"token"`
	AccessToken string `json:"access_token"`
}

func (r tokenResponse) bearer() string {
	switch {
	case r.Access != "":
		return r.Access
	case r.Token != "":
		return r.Token
	default:
		return r.AccessToken
	}
}

// decodeErrorBody parses the backend's error answers, which come in two
// shapes: `{"detail": "..."}` or a per-field map whose values are strings or
// string arrays. Undecodable bodies yield an empty detail and no fields.
func decodeErrorBody(r io.Reader) (detail string, fields map[string]string) {
	var raw map[string]any
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return "", nil
	}

	fields = map[string]string{}
	for key, val := range raw {
		reason := flattenReason(val)
		if reason == "" {
			continue
		}
		if key == "detail" || key == "non_field_errors" {
			detail = reason
			continue
		}
		fields[key] = reason
	}
	if len(fields) == 0 {
		fields = nil
	}
	return detail, fields
}

func flattenReason(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if s := flattenReason(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}
