package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"
)

func doJSON(t *testing.T, client *http.Client, method, url, token string, body any) (*http.Response, []byte) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	var out bytes.Buffer
	if _, err := out.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, out.Bytes()
}

func TestHealthEndpoint(t *testing.T) {
	ts, _ := startTestServer(t)

	resp, err := ts.Client().Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}

func TestSessionLifecycleOverREST(t *testing.T) {
	ts, _ := startTestServer(t)
	client := ts.Client()

	resp, body := doJSON(t, client, http.MethodPost, ts.URL+"/api/session", "", SignInRequest{Name: "alice"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("sign in status: %d (%s)", resp.StatusCode, body)
	}
	var session SessionResponse
	if err := json.Unmarshal(body, &session); err != nil {
		t.Fatalf("unmarshal session: %v", err)
	}
	if session.Token == "" {
		t.Fatalf("empty token")
	}

	resp, body = doJSON(t, client, http.MethodGet, ts.URL+"/api/session", session.Token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("whoami status: %d", resp.StatusCode)
	}
	var who WhoAmIResponse
	if err := json.Unmarshal(body, &who); err != nil {
		t.Fatalf("unmarshal whoami: %v", err)
	}
	if who.Name != "alice" {
		t.Fatalf("unexpected name: %q", who.Name)
	}

	resp, _ = doJSON(t, client, http.MethodDelete, ts.URL+"/api/session", session.Token, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("sign out status: %d", resp.StatusCode)
	}

	// The token is revoked from here on.
	resp, _ = doJSON(t, client, http.MethodGet, ts.URL+"/api/session", session.Token, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("whoami after sign out: %d", resp.StatusCode)
	}
}

func TestSignInRejectsEmptyName(t *testing.T) {
	ts, _ := startTestServer(t)

	resp, _ := doJSON(t, ts.Client(), http.MethodPost, ts.URL+"/api/session", "", map[string]string{"name": ""})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestGenerateRoomID(t *testing.T) {
	ts, _ := startTestServer(t)

	resp, body := doJSON(t, ts.Client(), http.MethodPost, ts.URL+"/api/rooms/id", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
	var room RoomIDResponse
	if err := json.Unmarshal(body, &room); err != nil {
		t.Fatalf("unmarshal room id: %v", err)
	}
	if len(room.RoomID) != 8 {
		t.Fatalf("unexpected room id: %q", room.RoomID)
	}
}

func TestSubmitMessageOverREST(t *testing.T) {
	ts, _ := startTestServer(t)
	client := ts.Client()

	_, body := doJSON(t, client, http.MethodPost, ts.URL+"/api/session", "", SignInRequest{Name: "alice"})
	var session SessionResponse
	if err := json.Unmarshal(body, &session); err != nil {
		t.Fatalf("unmarshal session: %v", err)
	}

	// Submitting to a room with no subscribers succeeds and returns the
	// stamped message.
	resp, body := doJSON(t, client, http.MethodPost, ts.URL+"/api/rooms/abc12345/messages", session.Token, SubmitRequest{Text: "hi"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("submit status: %d (%s)", resp.StatusCode, body)
	}
	var msg MessageResponse
	if err := json.Unmarshal(body, &msg); err != nil {
		t.Fatalf("unmarshal message: %v", err)
	}
	if msg.ID == "" || msg.Room != "abc12345" || msg.Sender != "alice" || msg.Text != "hi" || msg.SentAt == 0 {
		t.Fatalf("unexpected message: %+v", msg)
	}

	// Empty text is rejected before stamping.
	resp, _ = doJSON(t, client, http.MethodPost, ts.URL+"/api/rooms/abc12345/messages", session.Token, SubmitRequest{Text: ""})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("empty text status: %d", resp.StatusCode)
	}

	// No token, no submit.
	resp, _ = doJSON(t, client, http.MethodPost, ts.URL+"/api/rooms/abc12345/messages", "", SubmitRequest{Text: "hi"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unauthenticated submit status: %d", resp.StatusCode)
	}
}
