package testutil

import "net/http"

// Reference payloads shaped like the consent backend's replies.
const (
	GreetingBody       = `{"message":"Hello from Flask!"}`
	InitiateBody       = `{"id":"abc123","url":"https://approve.example/abc123"}`
	InitiateNoURLBody  = `{"id":"abc123"}`
	InitiateEmptyBody  = `{}`
	StatusApprovedBody = `{"consent_id":"abc123","status":"approved"}`
	StatusNotFoundBody = `{"error":"Consent not found"}`
	UpstreamErrorBody  = `{"error":"Invalid JSON from Setu","raw":"<html>bad gateway</html>"}`
	MalformedJSONBody  = `invalid json{`
	NonObjectJSONBody  = `["not","an","object"]`
	NullJSONBody       = `null`
	TestConsentID      = "abc123"
	TestApprovalURL    = "https://approve.example/abc123"
)

// Greeting returns a 200 greeting reply with msg
func Greeting(msg string) Response {
	return JSONResponse(http.StatusOK, map[string]string{"message": msg})
}

// Initiated returns a 200 initiation reply; empty fields are omitted
func Initiated(id, url string) Response {
	body := map[string]string{}
	if id != "" {
		body["id"] = id
	}
	if url != "" {
		body["url"] = url
	}
	return JSONResponse(http.StatusOK, body)
}

// Status returns a 200 status reply for id
func Status(id, status string) Response {
	return JSONResponse(http.StatusOK, map[string]string{"consent_id": id, "status": status})
}

// Raw returns a reply with a literal body
func Raw(status int, body string) Response {
	return Response{Status: status, Body: body}
}
