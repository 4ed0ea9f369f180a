package profile

import (
	"strings"

	"hoaportal/internal/audit"
	"hoaportal/internal/models"
)

// change is one field of a section update.
type change struct {
	name string
	get  func(u *models.User) string
	set  func(u *models.User)
}

// changeSet collects the fields present in a request. Absent (nil) inputs
// are skipped so only submitted fields are snapshotted and logged.
type changeSet []change

func field[T any](cs *changeSet, name string, in *T, ref func(u *models.User) *T) {
	if in == nil {
		return
	}
	value := *in
	*cs = append(*cs, change{
		name: name,
		get:  func(u *models.User) string { return audit.Stringify(*ref(u)) },
		set:  func(u *models.User) { *ref(u) = value },
	})
}

// trimmed returns a copy of s without surrounding whitespace, keeping nil.
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
