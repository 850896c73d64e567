package akinator

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeUpstream mimics the website endpoints a Session talks to.
type fakeUpstream struct {
	*httptest.Server

	mu          sync.Mutex
	step        int
	completions map[string]string     // path -> completion override
	statuses    map[string]int        // path -> status override
	bodies      map[string]string     // path -> raw body override
	last        map[string]url.Values // path -> last query
	headers     map[string]http.Header
	hits        map[string]int
	guesses     []Guess
}

func newFakeUpstream(t *testing.T) *fakeUpstream {
	t.Helper()
	f := &fakeUpstream{
		completions: map[string]string{},
		statuses:    map[string]int{},
		bodies:      map[string]string{},
		last:        map[string]url.Values{},
		headers:     map[string]http.Header{},
		hits:        map[string]int{},
		guesses: []Guess{
			{ID: "101", Name: "Mario", Description: "Video game character", Ranking: "12", AbsolutePicturePath: "https://photos.example/mario.jpg", Proba: "0.93"},
			{ID: "102", Name: "Luigi", Description: "Mario's brother", Ranking: "80", Proba: "0.04"},
		},
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeUpstream) session(opts ...Option) *Session {
	base := []Option{
		WithBaseURL(f.URL),
		WithHTTPClient(f.Client()),
		WithClock(func() time.Time { return time.Unix(1700000000, 0) }),
	}
	return NewSession(append(base, opts...)...)
}

func (f *fakeUpstream) set(fn func(f *fakeUpstream)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func (f *fakeUpstream) query(path string) url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last[path]
}

func (f *fakeUpstream) header(path string) http.Header {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.headers[path]
}

func (f *fakeUpstream) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[path]
}

func (f *fakeUpstream) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := r.URL.Path
	f.last[path] = r.URL.Query()
	f.headers[path] = r.Header.Clone()
	f.hits[path]++

	if code, ok := f.statuses[path]; ok {
		w.WriteHeader(code)
		return
	}
	if body, ok := f.bodies[path]; ok {
		_, _ = w.Write([]byte(body))
		return
	}
	completion := "OK"
	if c, ok := f.completions[path]; ok {
		completion = c
	}
	cb := r.URL.Query().Get("callback")
	ws := strings.ReplaceAll(f.URL+"/ws", "/", `\/`)

	switch path {
	case "/":
		fmt.Fprintf(w, `<html><script>var themes = [{"translated_theme_name":"Characters","urlWs":"%s","subject_id":"1"},{"translated_theme_name":"Objects","urlWs":"%s","subject_id":"2"},{"translated_theme_name":"Animals","urlWs":"%s","subject_id":"14"}];</script></html>`, ws, ws, ws)
	case "/game":
		fmt.Fprint(w, "<script>\n  var uid_ext_session = 'uid-123';\n  var frontaddr = 'NDYuMTA1LjExMC40NQ==';\n</script>")
	case "/new_session":
		f.step = 0
		fmt.Fprintf(w, `%s({"completion":"%s","parameters":{"identification":{"channel":0,"session":"42","signature":"987654"},"step_information":{"question":"Is your character real?","progression":"0.00000","step":"0"}}})`, cb, completion)
	case "/answer_api":
		if completion == "OK" {
			f.step++
		}
		fmt.Fprintf(w, `%s({"completion":"%s","parameters":{"question":"Question %d?","progression":"%d.50000","step":"%d"}})`, cb, completion, f.step, min(f.step*20, 100), f.step)
	case "/ws/cancel_answer":
		if completion == "OK" && f.step > 0 {
			f.step--
		}
		fmt.Fprintf(w, `%s({"completion":"%s","parameters":{"question":"Question %d?","progression":"%d.00000","step":"%d"}})`, cb, completion, f.step, f.step*20, f.step)
	case "/ws/list":
		var els []string
		for _, g := range f.guesses {
			els = append(els, fmt.Sprintf(`{"element":{"id":"%s","name":"%s","award_id":"-1","flag_photo":0,"description":"%s","ranking":"%s","picture_path":"partenaire/x.jpg","absolute_picture_path":"%s","proba":"%s"}}`,
				g.ID, g.Name, g.Description, g.Ranking, g.AbsolutePicturePath, g.Proba))
		}
		fmt.Fprintf(w, `%s({"completion":"%s","parameters":{"elements":[%s],"NbObjetsPertinents":"%d"}})`, cb, completion, strings.Join(els, ","), len(els))
	default:
		http.NotFound(w, r)
	}
}
