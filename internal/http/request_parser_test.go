package http

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestParseFilterParams(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		wantDepartment string
		wantMonth      string
	}{
		{
			name:           "defaults to All",
			query:          "",
			wantDepartment: "All",
			wantMonth:      "All",
		},
		{
			name:           "explicit department and month",
			query:          "department=Finance&month=2026-04",
			wantDepartment: "Finance",
			wantMonth:      "2026-04",
		},
		{
			name:           "explicit All passes through",
			query:          "department=All&month=All",
			wantDepartment: "All",
			wantMonth:      "All",
		},
		{
			name:           "whitespace trimmed",
			query:          "department=%20Warehouse%20&month=%202026-05%20",
			wantDepartment: "Warehouse",
			wantMonth:      "2026-05",
		},
		{
			name:           "blank values fall back to All",
			query:          "department=&month=%20",
			wantDepartment: "All",
			wantMonth:      "All",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("parse query: %v", err)
			}
			got := ParseFilterParams(values)
			if got.Department != tt.wantDepartment {
				t.Errorf("Department = %q, want %q", got.Department, tt.wantDepartment)
			}
			if got.Month != tt.wantMonth {
				t.Errorf("Month = %q, want %q", got.Month, tt.wantMonth)
			}
		})
	}
}

func TestFilterParams_CacheKey(t *testing.T) {
	p := FilterParams{Department: "Finance", Month: "2026-04"}
	if got := p.CacheKey(); got != "Finance|2026-04" {
		t.Errorf("CacheKey() = %q", got)
	}
}

func TestRequireMethod(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	if resp := RequireMethod(req, http.MethodGet); resp != nil {
		t.Error("RequireMethod rejected matching method")
	}

	resp := RequireMethod(req, http.MethodPost)
	if resp == nil {
		t.Fatal("RequireMethod accepted wrong method")
	}
	rr := httptest.NewRecorder()
	resp.Write(rr)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rr.Code)
	}
	if allow := rr.Header().Get("Allow"); allow != http.MethodPost {
		t.Errorf("Allow = %q, want POST", allow)
	}
}

func TestRequirePOSTAndGET(t *testing.T) {
	post := httptest.NewRequest(http.MethodPost, "/", nil)
	if resp := RequirePOST(post); resp != nil {
		t.Error("RequirePOST rejected POST")
	}
	if resp := RequireGET(post); resp == nil {
		t.Error("RequireGET accepted POST")
	}
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  plain  ", "plain"},
		{"with\x00control\x07chars", "withcontrolchars"},
		{"tabs\tand\nnewlines kept", "tabs\tand\nnewlines kept"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := sanitizeInput(tt.in); got != tt.want {
			t.Errorf("sanitizeInput(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	got := parseDate("2026-04-10")
	if got.Year() != 2026 || int(got.Month()) != 4 || got.Day() != 10 {
		t.Errorf("parseDate = %v", got)
	}

	// Empty and malformed fall back to today.
	for _, in := range []string{"", "not-a-date"} {
		if parseDate(in).IsZero() {
			t.Errorf("parseDate(%q) returned zero time", in)
		}
	}
}
