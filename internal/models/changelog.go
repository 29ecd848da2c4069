// internal/models/changelog.go
// Append-only changelog entries attached to StartEntry and TimeEvent.

package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ChangelogEntry records one mutation or note against a StartEntry or
// TimeEvent. Entries are never edited or removed once appended.
type ChangelogEntry struct {
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
	UserID    string    `json:"user_id" bson:"user_id"`
	Comment   string    `json:"comment" bson:"comment"`
}

// SystemUser is used for changelog entries with no bearer-token subject.
const SystemUser = "system"

// Changelog is a JSON-column-backed slice of ChangelogEntry, following the
// same sql.Scanner/driver.Valuer pattern as the teacher's FormatConfig.
type Changelog []ChangelogEntry

func (c *Changelog) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into Changelog", value)
	}
	if len(bytes) == 0 {
		return nil
	}
	return json.Unmarshal(bytes, c)
}

func (c Changelog) Value() (driver.Value, error) {
	return json.Marshal(c)
}

// Append returns a new Changelog with entry appended, keeping the original
// slice untouched (changelogs are conceptually immutable history).
func (c Changelog) Append(userID, comment string) Changelog {
	entry := ChangelogEntry{Timestamp: time.Now().UTC(), UserID: userID, Comment: comment}
	out := make(Changelog, len(c), len(c)+1)
	copy(out, c)
	return append(out, entry)
}
