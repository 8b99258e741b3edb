//go:build integration

package integration_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"
)

func baseURL() string {
	if v := os.Getenv("PERSONA_TEST_BASE_URL"); strings.TrimSpace(v) != "" {
		return strings.TrimRight(v, "/")
	}
	return "http://127.0.0.1:18080"
}

func TestQuizJourneyIntegration(t *testing.T) {
	client := &http.Client{Timeout: 5 * time.Second}
	base := baseURL()

	var questions struct {
		Count int `json:"count"`
	}
	doGet(t, client, base+"/api/questions", "", &questions)
	if questions.Count == 0 {
		t.Fatalf("question bank is empty")
	}

	answers := make([]string, questions.Count)
	for i := range answers {
		if i%3 == 0 {
			answers[i] = "B"
		} else {
			answers[i] = "A"
		}
	}
	var submitted struct {
		Timestamp int64  `json:"timestamp"`
		Type      string `json:"type"`
	}
	doPost(t, client, base+"/api/results", "", map[string]any{"answers": answers}, &submitted)
	if submitted.Timestamp <= 0 || len(submitted.Type) != 4 {
		t.Fatalf("unexpected submit response: %+v", submitted)
	}

	var report struct {
		Type     string `json:"type"`
		Overview struct {
			Name string `json:"name"`
		} `json:"overview"`
	}
	doGet(t, client, fmt.Sprintf("%s/api/results/%d/report", base, submitted.Timestamp), "", &report)
	if report.Type != submitted.Type || report.Overview.Name == "" {
		t.Fatalf("report does not match submission: %+v", report)
	}

	var share struct {
		Token string `json:"token"`
		URL   string `json:"url"`
	}
	doPost(t, client, fmt.Sprintf("%s/api/results/%d/share", base, submitted.Timestamp), "", nil, &share)
	if share.Token == "" {
		t.Fatalf("share link has no token")
	}

	var shared struct {
		Timestamp int64  `json:"timestamp"`
		Type      string `json:"type"`
	}
	doGet(t, client, base+"/api/shared/"+share.Token, "", &shared)
	if shared.Timestamp != submitted.Timestamp || shared.Type != submitted.Type {
		t.Fatalf("shared view mismatch: %+v", shared)
	}

	password := os.Getenv("PERSONA_TEST_ADMIN_PASSWORD")
	if password == "" {
		t.Log("PERSONA_TEST_ADMIN_PASSWORD not set; skipping admin export")
		return
	}
	var login struct {
		Token string `json:"token"`
	}
	doPost(t, client, base+"/api/admin/login", "", map[string]string{"password": password}, &login)
	if login.Token == "" {
		t.Fatalf("login did not return token")
	}

	req, err := http.NewRequest(http.MethodGet, base+"/api/admin/export?format=summary", nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+login.Token)
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("export request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("export status %d body %s", resp.StatusCode, string(body))
	}
	csvData, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read export data: %v", err)
	}
	if !strings.Contains(string(csvData), fmt.Sprint(submitted.Timestamp)) {
		t.Fatalf("export csv did not contain timestamp %d; csv=%s", submitted.Timestamp, csvData)
	}
}

func doGet(t *testing.T, client *http.Client, url, token string, out any) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	do(t, client, req, token, out)
}

func doPost(t *testing.T, client *http.Client, url, token string, body any, out any) {
	t.Helper()
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			t.Fatalf("marshal body: %v", err)
		}
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	do(t, client, req, token, out)
}

func do(t *testing.T, client *http.Client, req *http.Request, token string, out any) {
	t.Helper()
	if strings.TrimSpace(token) != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("http %s %s failed: %v", req.Method, req.URL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		t.Fatalf("unexpected status %d for %s: %s", resp.StatusCode, req.URL, string(bodyBytes))
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
			t.Fatalf("decode response from %s: %v", req.URL, err)
		}
	}
}
