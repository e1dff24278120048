package testbed

// Login makes email the caller of the following requests. It replaces any
// earlier login.
func (tb *TestBed) Login(email string, isSuperAdmin bool) Session {
	return tb.env.Login(email, isSuperAdmin)
}

// Logout makes the following requests anonymous.
func (tb *TestBed) Logout() {
	tb.env.Logout()
}

// Stash saves the current session. Restore it with the returned guard or
// with TestBed.Restore.
func (tb *TestBed) Stash() (*StashGuard, error) {
	return tb.env.Stash()
}

func (tb *TestBed) Restore() error {
	return tb.env.Restore()
}

func (tb *TestBed) CurrentSession() Session {
	return tb.env.Current()
}

// CurrentUserID is empty when nobody is logged in.
func (tb *TestBed) CurrentUserID() string {
	return tb.env.Current().UserID
}

// DeriveID returns the user id a login as email gets.
func (tb *TestBed) DeriveID(email string) string {
	return tb.ids.DeriveID(email)
}

// ExpectedLoginURL is the login URL the application renders for dest.
func (tb *TestBed) ExpectedLoginURL(dest string) (string, error) {
	return tb.ids.LoginURL(tb.Context(), dest)
}

// ExpectedLogoutURL is the logout URL the application renders for dest.
func (tb *TestBed) ExpectedLogoutURL(dest string) (string, error) {
	return tb.ids.LogoutURL(tb.Context(), dest)
}
