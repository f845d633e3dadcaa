package models

import "encoding/json"

// User is an identifier plus an open set of profile fields.
type User struct {
	ID     string
	Fields map[string]interface{}
}

func (u User) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(u.Fields)+1)
	for k, v := range u.Fields {
		out[k] = v
	}
	out["id"] = u.ID
	return json.Marshal(out)
}

func (u *User) UnmarshalJSON(data []byte) error {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if id, ok := raw["id"].(string); ok {
		u.ID = id
	}
	delete(raw, "id")
	u.Fields = raw
	return nil
}

// ReservedUserFields can never be written through a profile update. email is
// the login identity and the timestamps are maintained by the store.
var ReservedUserFields = []string{"id", "_id", "userId", "email", "createdAt", "updatedAt", "lastLoginAt"}

// SanitizeUserUpdate drops reserved keys from an update body.
func SanitizeUserUpdate(updates map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(updates))
	for k, v := range updates {
		out[k] = v
	}
	for _, k := range ReservedUserFields {
		delete(out, k)
	}
	return out
}
