package validation

import (
	"regexp"

	"github.com/Rajangupta9/taskmanager/models"
)

// startsWithLetter is the password shape every user rule set shares.
var startsWithLetter = regexp.MustCompile(`^[A-Za-z].*$`)

func statusValues() []string {
	out := make([]string, len(models.Statuses))
	for i, s := range models.Statuses {
		out[i] = string(s)
	}
	return out
}

func usernameField(optional bool) Field {
	return Field{Name: "username", Kind: KindString, Optional: optional, Rules: []Rule{MinLen(5), MaxLen(255)}}
}

func emailField(optional bool) Field {
	return Field{Name: "email", Kind: KindString, Optional: optional, Rules: []Rule{Email(), EndsWith(".com")}}
}

func passwordField(name string) Field {
	return Field{Name: name, Kind: KindString, Rules: []Rule{MinLen(5), MaxLen(255), MaxBytes(72), Matches(startsWithLetter)}}
}

var (
	Register = Schema{
		Name: "register",
		Fields: []Field{
			usernameField(false),
			emailField(false),
			passwordField("password"),
		},
	}

	Login = Schema{
		Name: "login",
		Fields: []Field{
			emailField(false),
			passwordField("password"),
		},
	}

	UpdateProfile = Schema{
		Name: "update profile",
		Fields: []Field{
			usernameField(true),
			emailField(true),
		},
	}

	ChangePassword = Schema{
		Name: "change password",
		Fields: []Field{
			passwordField("currentPassword"),
			passwordField("newPassword"),
		},
	}

	CreateTask = Schema{
		Name: "create task",
		Fields: []Field{
			{Name: "title", Kind: KindString, Rules: []Rule{MinLen(1), MaxLen(255)}},
			{Name: "description", Kind: KindString, Optional: true, Rules: []Rule{MaxLen(1000)}},
			{Name: "dueDate", Kind: KindString, Rules: []Rule{Digits()}},
			{Name: "status", Kind: KindString, Rules: []Rule{OneOf(statusValues()...)}},
		},
	}

	// UpdateTask requires dueDate on every update; the other task fields
	// are merged only when present.
	UpdateTask = Schema{
		Name: "update task",
		Fields: []Field{
			{Name: "id", Kind: KindInteger, Rules: []Rule{Positive()}},
			{Name: "title", Kind: KindString, Optional: true, Rules: []Rule{MinLen(1), MaxLen(255)}},
			{Name: "description", Kind: KindString, Optional: true, Rules: []Rule{MaxLen(1000)}},
			{Name: "dueDate", Kind: KindString, Rules: []Rule{Digits()}},
			{Name: "status", Kind: KindString, Optional: true, Rules: []Rule{OneOf(statusValues()...)}},
		},
	}
)
