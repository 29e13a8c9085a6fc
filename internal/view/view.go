// Package view holds the state behind each server-rendered page. A
// state struct owns exactly the data its page renders plus the
// transitions the page's forms can trigger. States never patch fetched
// data in place: after every mutation they refetch, so what the page
// shows is always what the backend holds.
package view

import "tracker/internal/services"

// Status is the outcome a state carries after a load or transition. The
// web layer renders Flash and Error and, on Unauthorized, tears down the
// local session and redirects to the login page.
type Status struct {
	Flash        string
	Error        string
	Unauthorized bool
}

func (st *Status) clear() {
	st.Flash = ""
	st.Error = ""
}

func (st *Status) note(r services.Result) bool {
	if r.Unauthorized {
		st.Unauthorized = true
	}
	if !r.Status {
		if st.Error == "" {
			st.Error = r.Message
		}
		return false
	}
	return true
}

func (st *Status) flash(r services.Result) bool {
	if !st.note(r) {
		return false
	}
	st.Flash = r.Message
	return true
}
