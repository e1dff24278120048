package testbed

import (
	"regexp"
)

var csrfPattern = regexp.MustCompile(`csrf_token: JSON\.parse\('\\"([A-Za-z0-9/=_-]+)\\"'\)`)

// ExtractCSRFToken returns the token a page embeds as
// csrf_token: JSON.parse('\"<token>\"').
func ExtractCSRFToken(body []byte) (string, error) {
	m := csrfPattern.FindSubmatch(body)
	if m == nil {
		return "", ErrTokenNotFound
	}
	return string(m[1]), nil
}

// GetCSRFToken loads the page at url and extracts its token.
func (tb *TestBed) GetCSRFToken(url string) (string, error) {
	resp, err := tb.Get(url)
	if err != nil {
		return "", err
	}
	return ExtractCSRFToken(resp.Body)
}
