package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"regexp"
)

// VRT NU fronts its accounts with Gigya. The API key and context id are
// fixed values the site's own player uses.
const (
	gigyaAPIKey  = "3_0Z2HujMtiWq_pkAjgnS2Md2E11a1AwZjYiBETtwNE-EoEHDINgtnvcAOpNgmrVGy"
	gigyaContext = "R1070628488"

	defaultGigyaBase = "https://accounts.eu1.gigya.com"
	defaultTokenURL  = "https://token.vrt.be"
)

// gigyaAuth is the saved login response. signatureTimestamp passes
// through untouched; Gigya has served it both as a string and a number.
type gigyaAuth struct {
	UID                string          `json:"UID"`
	UIDSignature       string          `json:"UIDSignature"`
	SignatureTimestamp json.RawMessage `json:"signatureTimestamp"`
	Profile            struct {
		Email string `json:"email"`
	} `json:"profile"`
}

type tokenRequest struct {
	UID    string          `json:"uid"`
	UIDSig string          `json:"uidsig"`
	TS     json.RawMessage `json:"ts"`
	Email  string          `json:"email"`
}

// login runs the three-step handshake: cookie login at Gigya, pick up
// the saved response, then trade it for vrt.be cookies at the token
// endpoint. No step returns a token in its body.
func (s *Session) login() error {
	loginURL := fmt.Sprintf("%s/accounts.login?%s", s.gigyaBase, url.Values{
		"context":        {gigyaContext},
		"saveResponseID": {gigyaContext},
	}.Encode())
	if _, err := s.client.PostForm(loginURL, url.Values{
		"APIKey":    {gigyaAPIKey},
		"targetEnv": {"jssdk"},
		"loginID":   {s.creds.Username},
		"password":  {s.creds.Password},
		"authMode":  {"cookie"},
		"context":   {gigyaContext},
	}); err != nil {
		return fmt.Errorf("%w: %v", ErrLoginFailed, err)
	}

	if !s.hasGigyaCookies() {
		return fmt.Errorf("%w: missing session cookies", ErrLoginFailed)
	}

	savedURL := fmt.Sprintf("%s/socialize.getSavedResponse?%s", s.gigyaBase, url.Values{
		"APIKey":         {gigyaAPIKey},
		"saveResponseID": {gigyaContext},
		"context":        {gigyaContext},
		"format":         {"jsonp"},
		"callback":       {"DUMMY"},
	}.Encode())
	saved, err := s.client.GetString(savedURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLoginFailed, err)
	}
	payload, err := unwrapJSONP(saved, "DUMMY")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLoginFailed, err)
	}
	var info gigyaAuth
	if err := json.Unmarshal([]byte(payload), &info); err != nil {
		return fmt.Errorf("%w: decoding saved response: %v", ErrLoginFailed, err)
	}

	// The token endpoint answers with an empty body; success means the
	// vrt.be cookies that unlock player pages are now in the jar.
	err = s.client.PostJSON(s.tokenURL, map[string]string{
		"Origin":  "https://www.vrt.be",
		"Referer": "https://www.vrt.be/vrtnu/a-z/",
	}, tokenRequest{
		UID:    info.UID,
		UIDSig: info.UIDSignature,
		TS:     info.SignatureTimestamp,
		Email:  info.Profile.Email,
	})
	if err != nil {
		return fmt.Errorf("%w: requesting token: %v", ErrLoginFailed, err)
	}
	return nil
}

// hasGigyaCookies checks the jar for the two cookies a successful
// accounts.login sets. Their absence means the credentials were bad.
func (s *Session) hasGigyaCookies() bool {
	var ucid, gmid bool
	for _, c := range s.client.Cookies(s.gigyaBase) {
		switch c.Name {
		case "ucid":
			ucid = true
		case "gmid":
			gmid = true
		}
	}
	return ucid && gmid
}

// unwrapJSONP strips the padding callback from a JSONP response and
// returns the inner JSON object.
func unwrapJSONP(body, callback string) (string, error) {
	re := regexp.MustCompile(`(?s)` + regexp.QuoteMeta(callback) + `\(({.+})\);`)
	m := re.FindStringSubmatch(body)
	if m == nil {
		return "", errors.New("no JSONP payload found")
	}
	return m[1], nil
}
