package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCompleteSuccess(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		var req completionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if req.Prompt != "hej" {
			t.Errorf("prompt = %q", req.Prompt)
		}
		json.NewEncoder(w).Encode(completionResponse{Completion: "svar"})
	}))
	defer srv.Close()

	client := NewClient(Config{URL: srv.URL, APIKey: "key123"})
	got, err := client.Complete(context.Background(), "hej")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if got != "svar" {
		t.Errorf("completion = %q", got)
	}
	if gotAuth != "Bearer key123" {
		t.Errorf("authorization header = %q", gotAuth)
	}
}

func TestCompleteGatewayStatuses(t *testing.T) {
	status := http.StatusOK
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))
	defer srv.Close()

	client := NewClient(Config{URL: srv.URL})

	status = http.StatusTooManyRequests
	if _, err := client.Complete(context.Background(), "x"); !errors.Is(err, ErrRateLimited) {
		t.Errorf("429 should map to ErrRateLimited, got %v", err)
	}

	status = http.StatusPaymentRequired
	if _, err := client.Complete(context.Background(), "x"); !errors.Is(err, ErrPaymentRequired) {
		t.Errorf("402 should map to ErrPaymentRequired, got %v", err)
	}

	status = http.StatusInternalServerError
	_, err := client.Complete(context.Background(), "x")
	if err == nil || errors.Is(err, ErrRateLimited) || errors.Is(err, ErrPaymentRequired) {
		t.Errorf("500 should be a generic error, got %v", err)
	}
}

func TestCompleteGatewayErrorField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(completionResponse{Error: "model overloaded"})
	}))
	defer srv.Close()

	client := NewClient(Config{URL: srv.URL})
	if _, err := client.Complete(context.Background(), "x"); err == nil {
		t.Fatal("error field in response body should fail the call")
	}
}

func TestCompleteUnconfigured(t *testing.T) {
	client := NewClient(Config{})
	if client.Configured() {
		t.Error("empty config reported as configured")
	}
	if _, err := client.Complete(context.Background(), "x"); err == nil {
		t.Fatal("unconfigured client should refuse to call out")
	}
}

func TestExtractJSON(t *testing.T) {
	type payload struct {
		Items []string `json:"items"`
	}

	var p payload
	completion := `Här är listan du bad om:` + "\n" + `{"items": ["mjölk", "bröd"]}` + "\n" + `Säg till om du vill ha fler förslag!`
	if !ExtractJSON(completion, &p) {
		t.Fatal("valid embedded object not extracted")
	}
	if len(p.Items) != 2 || p.Items[0] != "mjölk" {
		t.Errorf("parsed payload = %+v", p)
	}

	if ExtractJSON("inget strukturerat svar här", &p) {
		t.Error("prose without JSON should not extract")
	}
	if ExtractJSON(`{"items": [unterminated`, &p) {
		t.Error("invalid JSON should not extract")
	}
}

func TestCategorizeLocal(t *testing.T) {
	for _, tc := range []struct {
		item string
		want string
	}{
		{"Mjölk", CategoryDairy},
		{"  bananer ", CategoryProduce},
		{"julskinka", CategoryMeatFish},
		{"havremjölk", CategoryDairy},    // substring match
		{"fryst pizza", CategoryFrozen},  // frozen wins over other keywords
		{"diskmedel", CategoryHousehold},
		{"glögg", CategoryBeverages},
		{"zanzibarkrydda", CategoryPantry},
		{"mystisk pryl", CategoryOther},
		{"", CategoryOther},
	} {
		if got := CategorizeLocal(tc.item); got != tc.want {
			t.Errorf("CategorizeLocal(%q) = %q, want %q", tc.item, got, tc.want)
		}
	}
}
