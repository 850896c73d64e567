// internal/akinator/protocol.go
//
// Wire-level helpers shared by every Session call:
//   - scraping the home page for the game-server list,
//   - scraping the game page for uid_ext_session and frontaddr,
//   - issuing GETs with browser-like headers,
//   - stripping the JSONP envelope and checking the completion code.

package akinator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"

	"github.com/tidwall/gjson"
)

// callbackPrefix is the jQuery callback name the website uses; the service
// echoes it back as the JSONP wrapper.
const callbackPrefix = "jQuery331023608747682107778_"

// maxBody bounds how much of a response is read.
const maxBody = 4 << 20

var defaultHeaders = map[string]string{
	"Accept":           "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,image/apng,*/*;q=0.8",
	"Accept-Language":  "en-US,en;q=0.9",
	"User-Agent":       "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) snap Chromium/81.0.4044.92 Chrome/81.0.4044.92 Safari/537.36",
	"X-Requested-With": "XMLHttpRequest",
}

var (
	serverListRe  = regexp.MustCompile(`(?is)\[\{"translated_theme_name":.*?\}\]`)
	sessionVarsRe = regexp.MustCompile(`(?i)var uid_ext_session = '([^']*)';[\s\S]*?var frontaddr = '([^']*)';`)
)

// findServer extracts the websocket API URL for theme from the home page.
func findServer(html []byte, theme Theme) (string, error) {
	list := serverListRe.Find(html)
	if list == nil || !gjson.ValidBytes(list) {
		return "", fmt.Errorf("%w: server list", ErrNoDataFound)
	}
	path := `#(subject_id=="` + strconv.Itoa(int(theme)) + `").urlWs`
	ws := gjson.GetBytes(list, path).String()
	if ws == "" {
		return "", fmt.Errorf("%w: no server for theme %s", ErrNoDataFound, theme)
	}
	return ws, nil
}

// findSessionVars extracts uid_ext_session and frontaddr from the game page.
func findSessionVars(html []byte) (uid, frontaddr string, err error) {
	m := sessionVarsRe.FindSubmatch(html)
	if m == nil {
		return "", "", fmt.Errorf("%w: session variables", ErrNoDataFound)
	}
	return string(m[1]), string(m[2]), nil
}

// stripJSONP returns the payload of `callback({...})`. A body without an
// envelope is returned trimmed.
func stripJSONP(body []byte) []byte {
	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '{' {
		return body
	}
	_, rest, ok := bytes.Cut(body, []byte("("))
	if !ok {
		return body
	}
	return bytes.TrimRight(bytes.TrimSpace(rest), "); \r\n\t")
}

// decodeJSONP unwraps body, checks the completion code and decodes into v.
func decodeJSONP(op string, body []byte, v any) error {
	payload := stripJSONP(body)
	if !gjson.ValidBytes(payload) {
		return fmt.Errorf("%s: %w: not JSON", op, ErrParseResponse)
	}
	completion := gjson.GetBytes(payload, "completion")
	if !completion.Exists() {
		return fmt.Errorf("%s: %w: missing completion", op, ErrParseResponse)
	}
	if err := completionErr(completion.String()); err != nil {
		return &CompletionError{Op: op, Completion: completion.String(), Err: err}
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrParseResponse, err)
	}
	return nil
}

// get issues a GET with the browser headers and returns the body.
func (s *Session) get(ctx context.Context, op, endpoint string, params url.Values) ([]byte, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: bad url %q", op, ErrConnection, endpoint)
	}
	if len(params) > 0 {
		u.RawQuery = params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for k, v := range defaultHeaders {
		req.Header.Set(k, v)
	}

	s.log.Debug().Str("op", op).Str("url", u.Redacted()).Msg("akinator request")
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrConnection, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))
		return nil, &HTTPError{Op: op, StatusCode: resp.StatusCode}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrConnection, err)
	}
	return body, nil
}
