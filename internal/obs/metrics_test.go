package obs

import "testing"

func TestCanonicalPath(t *testing.T) {
	cases := map[string]string{
		"":                                   "/",
		"/metrics":                           "/metrics",
		"/v1/dispositions":                   "/v1/dispositions",
		"/v1/dispositions?status=RECEIVED":   "/v1/dispositions",
		"/v1/dispositions/DISP-abc":          "/v1/dispositions/:id",
		"/v1/dispositions/DISP-abc/status":   "/v1/dispositions/:id/status",
		"/v1/dispositions/DISP-abc/pics":     "/v1/dispositions/:id/pics",
		"/v1/dispositions/DISP-abc/progress": "/v1/dispositions/:id/progress",
		"/v1/dispositions/DISP-abc/extra":    "/v1/dispositions/:id/unknown",
		"/v1/accounts/USER-abc":              "/v1/accounts/:id",
		"/v1/accounts/USER-abc/extra":        "/v1/accounts/:id/unknown",
		"/v1/roles":                          "/v1/roles",
	}
	for input, expected := range cases {
		if got := CanonicalPath(input); got != expected {
			t.Fatalf("CanonicalPath(%q)=%q, want %q", input, got, expected)
		}
	}
}
