package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/ghuser/itemtracker/services/item/domain/models"
)

var jsonNull = []byte("null")

// NullableString remembers whether its key was present in the request body,
// so {"description": null} clears a value while an absent key keeps it.
type NullableString struct {
	Set   bool
	Value *string
}

// UnmarshalJSON is only called for keys that are present, null included.
func (s *NullableString) UnmarshalJSON(data []byte) error {
	s.Set = true
	if bytes.Equal(data, jsonNull) {
		s.Value = nil
		return nil
	}
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	s.Value = &v
	return nil
}

// change converts the field into the domain's partial-update form.
func (s NullableString) change() models.DescriptionChange {
	if !s.Set {
		return models.KeepDescription()
	}
	return models.ReplaceDescription(s.Value)
}

// OwnerID accepts a user id as a JSON number or a numeric string. Null, 0 and
// "" all mean no owner was given.
type OwnerID int64

// UnmarshalJSON decodes 7, "7", null or "".
func (o *OwnerID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, jsonNull) {
		*o = 0
		return nil
	}

	raw := string(data)
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*o = 0
			return nil
		}
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("user_id %s is not an integer", data)
	}
	*o = OwnerID(id)
	return nil
}
