package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"
)

// Exercises a running API end to end: seed, login, create a disposition,
// assign a PIC, journal progress, complete with proof, then verify the
// detail view reflects every step.
func main() {
	base := os.Getenv("DISPOSISI_API_ADDR")
	if base == "" {
		base = "http://localhost:8080"
	}
	client := &http.Client{Timeout: 10 * time.Second}

	var seed struct {
		TotalAccounts int `json:"totalAccounts"`
	}
	mustCall(client, http.MethodPost, base+"/v1/seed", nil, &seed)

	nip := envOr("DISPOSISI_BOOTSTRAP_NIP", "000000000000000000")
	password := envOr("DISPOSISI_BOOTSTRAP_PASSWORD", "admin")

	var login struct {
		Account struct {
			UserID   string `json:"userId"`
			Name     string `json:"name"`
			RoleName string `json:"roleName"`
		} `json:"account"`
	}
	mustCall(client, http.MethodPost, base+"/v1/auth/login", map[string]any{
		"nip":      nip,
		"password": password,
	}, &login)
	admin := login.Account
	if admin.UserID == "" {
		log.Fatal("login returned no account")
	}

	actor := map[string]any{
		"actor_user_id": admin.UserID,
		"actor_name":    admin.Name,
		"actor_role":    admin.RoleName,
	}

	var created struct {
		ID string `json:"id"`
	}
	mustCall(client, http.MethodPost, base+"/v1/dispositions", merge(actor, map[string]any{
		"letter_number": fmt.Sprintf("SMOKE/%d", time.Now().Unix()),
		"letter_date":   time.Now().Format("2006-01-02"),
		"origin":        "Smoke Test",
		"subject":       "End to end check",
		"deadline":      time.Now().AddDate(0, 0, 7).Format("2006-01-02"),
		"priority":      "High",
	}), &created)
	if created.ID == "" {
		log.Fatal("create returned no id")
	}

	mustCall(client, http.MethodPost, base+"/v1/dispositions/"+created.ID+"/pics", merge(actor, map[string]any{
		"user_id":    admin.UserID,
		"role_label": "PersonInCharge",
	}), nil)

	mustCall(client, http.MethodPost, base+"/v1/dispositions/"+created.ID+"/progress", merge(actor, map[string]any{
		"description": "initial review done",
	}), nil)

	mustCall(client, http.MethodPost, base+"/v1/dispositions/"+created.ID+"/status", merge(actor, map[string]any{
		"status": "COMPLETED",
		"proof":  "https://example.invalid/report.pdf",
	}), nil)

	var detail struct {
		Disposition struct {
			Status string `json:"status"`
		} `json:"disposisi"`
		PICs     []json.RawMessage `json:"pics"`
		Progress []json.RawMessage `json:"progres"`
		Logs     []json.RawMessage `json:"logs"`
	}
	mustCall(client, http.MethodGet, base+"/v1/dispositions/"+created.ID, nil, &detail)

	if detail.Disposition.Status != "COMPLETED" {
		log.Fatalf("expected COMPLETED, got %s", detail.Disposition.Status)
	}
	if len(detail.PICs) != 1 || len(detail.Progress) != 1 || len(detail.Logs) != 3 {
		log.Fatalf("unexpected detail counts: pics=%d progress=%d logs=%d",
			len(detail.PICs), len(detail.Progress), len(detail.Logs))
	}

	fmt.Printf("✅ disposisi smoke test passed: disposition=%s\n", created.ID)
}

func mustCall(client *http.Client, method, url string, body map[string]any, out any) {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			log.Fatalf("marshal %s: %v", url, err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		log.Fatalf("request %s: %v", url, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	if err != nil {
		log.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		var payload map[string]any
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		log.Fatalf("%s %s: status %d: %v", method, url, resp.StatusCode, payload)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			log.Fatalf("decode %s: %v", url, err)
		}
	}
}

func merge(a, b map[string]any) map[string]any {
	out := make(map[string]any, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
