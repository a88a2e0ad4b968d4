package web

import (
	"fmt"

	"github.com/willemschots/signups/internal"
	"github.com/willemschots/signups/internal/users"
)

// page is the data passed to every view.
type page struct {
	Version string
	Title   string
	Content string
	// Message is optional, views only show it when it's set.
	Message string
	// Users is only set for the table view.
	Users []users.User
}

func homePage() page {
	return page{
		Version: internal.CurrentBuild.Revision,
		Title:   "Some title",
		Content: "Lorum Ipsum",
	}
}

func nextPage() page {
	return page{
		Version: internal.CurrentBuild.Revision,
		Title:   "Subscribe page",
		Content: "Subscribe to our great website",
	}
}

func subscribedPage(u users.User) page {
	p := homePage()
	p.Message = fmt.Sprintf("User with email %s and id %d inserted", u.Email, u.ID)
	return p
}

func usersPage(list []users.User) page {
	return page{
		Version: internal.CurrentBuild.Revision,
		Title:   "List of users",
		Content: "a place to see all users",
		Users:   list,
	}
}
