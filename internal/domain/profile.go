package domain

import (
	"fmt"
	"sort"
	"strings"
)

// AvatarIDs lists the avatars a profile may reference.
var AvatarIDs = []string{
	"avatar-1", "avatar-2", "avatar-3", "avatar-4", "avatar-5",
	"avatar-6", "avatar-7", "avatar-8", "avatar-9", "avatar-10",
}

const maxUsernameLength = 32

// FieldErrors maps a request field to its validation messages.
type FieldErrors map[string][]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fmt.Sprintf("validation failed: %s", strings.Join(fields, ", "))
}

func (e FieldErrors) add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Validate trims the username and checks both fields. It returns nil when the profile is valid.
func (p *Profile) Validate() FieldErrors {
	errs := FieldErrors{}
	p.Username = strings.TrimSpace(p.Username)
	switch {
	case p.Username == "":
		errs.add("username", "The username field is required.")
	case len([]rune(p.Username)) > maxUsernameLength:
		errs.add("username", fmt.Sprintf("The username must be at most %d characters.", maxUsernameLength))
	}
	if p.AvatarID == "" {
		errs.add("avatarId", "The avatarId field is required.")
	} else if !knownAvatar(p.AvatarID) {
		errs.add("avatarId", "The avatarId is not a known avatar.")
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func knownAvatar(id string) bool {
	for _, known := range AvatarIDs {
		if known == id {
			return true
		}
	}
	return false
}
