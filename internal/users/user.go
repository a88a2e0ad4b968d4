package users

import "time"

const createdAtLayout = "2006-01-02 15:04:05"

// FormatCreatedAt formats t as a date and time without a timezone.
// The fraction of a second is written as 3, 6 or 9 digits, whichever is
// the shortest exact form, and is left out when it is zero.
func FormatCreatedAt(t time.Time) string {
	ns := t.Nanosecond()
	switch {
	case ns == 0:
		return t.Format(createdAtLayout)
	case ns%int(time.Millisecond) == 0:
		return t.Format(createdAtLayout + ".000")
	case ns%int(time.Microsecond) == 0:
		return t.Format(createdAtLayout + ".000000")
	default:
		return t.Format(createdAtLayout + ".000000000")
	}
}

// User is a signed up user as stored.
type User struct {
	ID    int64
	Email string
	// Password is the stored credential, an argon2id hash in PHC format.
	Password string
	// CreatedAt is set once by the store when the user is inserted.
	CreatedAt string
}

// Credentials are submitted through the signup form. Both keys must be
// present in the form, their values may be any string.
type Credentials struct {
	Email    string   `schema:"email" validate:"required"`
	Password Password `schema:"password" validate:"required"`
}
