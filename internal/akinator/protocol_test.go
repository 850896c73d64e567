package akinator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripJSONP(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"wrapped", `jQuery1_2({"completion":"OK"})`, `{"completion":"OK"}`},
		{"trailing semicolon", "cb({\"a\":\"(x)\"});\n", `{"a":"(x)"}`},
		{"bare json", ` {"completion":"OK"} `, `{"completion":"OK"}`},
		{"no envelope", `oops`, `oops`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(stripJSONP([]byte(tt.in))))
		})
	}
}

func TestFindServer(t *testing.T) {
	html := []byte(`<script>x = [{"translated_theme_name":"Characters","urlWs":"https:\/\/srv11.akinator.com:9338\/ws","subject_id":"1"},` +
		`{"translated_theme_name":"Animals","urlWs":"https:\/\/srv14.akinator.com:9283\/ws","subject_id":"14"}];</script>`)

	ws, err := findServer(html, ThemeAnimals)
	require.NoError(t, err)
	assert.Equal(t, "https://srv14.akinator.com:9283/ws", ws)

	ws, err = findServer(html, ThemeCharacters)
	require.NoError(t, err)
	assert.Equal(t, "https://srv11.akinator.com:9338/ws", ws)

	_, err = findServer(html, ThemeObjects)
	assert.ErrorIs(t, err, ErrNoDataFound)

	_, err = findServer([]byte("<html></html>"), ThemeCharacters)
	assert.ErrorIs(t, err, ErrNoDataFound)
}

func TestFindSessionVars(t *testing.T) {
	uid, front, err := findSessionVars([]byte("var uid_ext_session = 'abc-1';\n\t\tvar frontaddr = 'MTIzLjQ1';"))
	require.NoError(t, err)
	assert.Equal(t, "abc-1", uid)
	assert.Equal(t, "MTIzLjQ1", front)

	_, _, err = findSessionVars([]byte("var uid_ext_session = 'abc-1';"))
	assert.ErrorIs(t, err, ErrNoDataFound)
}

func TestDecodeJSONP(t *testing.T) {
	var resp moveResponse
	err := decodeJSONP("op", []byte(`cb({"completion":"OK","parameters":{"question":"q?","progression":"12.5","step":"3"}})`), &resp)
	require.NoError(t, err)
	require.NotNil(t, resp.Parameters)
	step, prog, err := resp.Parameters.parse()
	require.NoError(t, err)
	assert.Equal(t, 3, step)
	assert.Equal(t, 12.5, prog)

	err = decodeJSONP("op", []byte(`cb({"parameters":{}})`), &resp)
	assert.ErrorIs(t, err, ErrParseResponse)

	err = decodeJSONP("op", []byte(`cb({"completion":"KO - TIMEOUT"})`), &resp)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestStepInfoParse(t *testing.T) {
	_, p, err := stepInfo{Step: "1", Progression: "140.0"}.parse()
	require.NoError(t, err)
	assert.Equal(t, 100.0, p, "progression is clamped")

	_, _, err = stepInfo{Step: "-2", Progression: "1"}.parse()
	assert.ErrorIs(t, err, ErrParseResponse)

	_, _, err = stepInfo{Step: "x", Progression: "1"}.parse()
	assert.ErrorIs(t, err, ErrParseResponse)
}
