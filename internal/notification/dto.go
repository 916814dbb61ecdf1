package notification

import "net/url"

// ListQuery filters the current user's notifications. Status is "read",
// "unread" or empty/"all".
type ListQuery struct {
	Search string
	Status string
	Expr   string
}

func ListQueryFromURL(v url.Values) ListQuery {
	return ListQuery{
		Search: v.Get("search"),
		Status: v.Get("status"),
		Expr:   v.Get("expr"),
	}
}
