package interpret

import (
	"strings"

	"github.com/tidwall/gjson"
)

// Result — исход одного обращения к API: Success, Malformed, HTTPError или TransportError.
type Result interface {
	outcome() string
}

// Success — сгенерированный текст без исходного промпта.
type Success struct {
	Text string
}

// Malformed — 2xx, но тело не похоже на [{"generated_text": "..."}].
type Malformed struct {
	Reason string
}

// HTTPError — ответ с кодом вне 2xx.
type HTTPError struct {
	Status int
}

// TransportError — запрос не дошёл или ответ не прочитан (таймаут, обрыв соединения).
type TransportError struct {
	Err error
}

func (Success) outcome() string { return "success" }
func (Malformed) outcome() string { return "malformed" }
func (HTTPError) outcome() string { return "http_error" }
func (TransportError) outcome() string { return "transport_error" }

// Parse разбирает ответ API. prompt вырезается из generated_text (первое вхождение).
func Parse(status int, body []byte, prompt string) Result {
	if status < 200 || status > 299 {
		return HTTPError{Status: status}
	}
	if !gjson.ValidBytes(body) {
		return Malformed{Reason: "invalid json"}
	}
	root := gjson.ParseBytes(body)
	if !root.IsArray() {
		return Malformed{Reason: "not an array"}
	}
	items := root.Array()
	if len(items) == 0 {
		return Malformed{Reason: "empty array"}
	}
	generated := items[0].Get("generated_text")
	if generated.Type != gjson.String {
		return Malformed{Reason: "missing generated_text"}
	}

	text := generated.String()
	if prompt != "" {
		text = strings.Replace(text, prompt, "", 1)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Malformed{Reason: "empty generated_text"}
	}
	return Success{Text: text}
}
