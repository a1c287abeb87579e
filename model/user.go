package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ID is a Telegram identifier kept in canonical string form. The Bot API sends
// numbers, hand-written configs and some proxies send strings; both decode to
// the same ID.
type ID string

// CanonicalID trims s and, when it is a base-10 integer, re-formats it so that
// "007", " 7" and 7 all become "7". Other strings are kept as they are.
func CanonicalID(s string) ID {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ID(strconv.FormatInt(n, 10))
	}
	return ID(s)
}

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = CanonicalID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	if _, err := n.Int64(); err != nil {
		return fmt.Errorf("id: %s is not an integer", n)
	}
	*id = CanonicalID(n.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}

type User struct {
	ID        ID     `json:"id"`
	IsBot     bool   `json:"is_bot"`
	FirstName string `json:"first_name"`
	Username  string `json:"username,omitempty"`
}
