package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"
)

func baseURL() string {
	if v := os.Getenv("BASE_URL"); v != "" {
		return v
	}
	return "http://localhost:8080"
}

func waitReady(t *testing.T) {
	t.Helper()
	url := fmt.Sprintf("%s/healthz", baseURL())
	deadline := time.Now().Add(20 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			return
		}
		time.Sleep(250 * time.Millisecond)
	}
	t.Fatalf("service not ready")
}

func TestIntegration_OpenAPIServed(t *testing.T) {
	waitReady(t)
	u := baseURL()
	resp, err := http.Get(u + "/openapi.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestIntegration_DocsServed(t *testing.T) {
	waitReady(t)
	u := baseURL()
	resp, err := http.Get(u + "/docs")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	buf := make([]byte, 1024)
	n, _ := resp.Body.Read(buf)
	if !strings.Contains(string(buf[:n]), "swagger-ui") {
		t.Fatalf("expected swagger-ui in docs page")
	}
}

type designAck struct {
	Status   string `json:"status"`
	Sequence uint64 `json:"sequence"`
	DesignID string `json:"design_id"`
}

type design struct {
	DesignID   string `json:"design_id"`
	TemplateID string `json:"template_id"`
	Status     string `json:"status"`
}

func TestIntegration_DesignEventsPostThenGet(t *testing.T) {
	waitReady(t)
	u := baseURL()
	for _, body := range []string{
		`{"design_id":"it-d1","template_id":"tpl-1"}`,
		`{"design_id":"it-d1","status":"submitted"}`,
	} {
		r, err := http.NewRequest(http.MethodPost, u+"/design-events", bytes.NewBufferString(body))
		if err != nil {
			t.Fatal(err)
		}
		r.Header.Set("Content-Type", "application/json")
		resp, err := http.DefaultClient.Do(r)
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != http.StatusAccepted {
			t.Fatalf("expected 202, got %d", resp.StatusCode)
		}
		var ac designAck
		if err := json.NewDecoder(resp.Body).Decode(&ac); err != nil {
			t.Fatal(err)
		}
		_ = resp.Body.Close()
		if ac.Status != "accepted" || ac.DesignID != "it-d1" {
			t.Fatalf("unexpected ack: %+v", ac)
		}
	}
	time.Sleep(2 * time.Second)
	respg, err := http.Get(u + "/designs/it-d1")
	if err != nil {
		t.Fatal(err)
	}
	defer respg.Body.Close()
	if respg.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", respg.StatusCode)
	}
	var d design
	if err := json.NewDecoder(respg.Body).Decode(&d); err != nil {
		t.Fatal(err)
	}
	if d.TemplateID != "tpl-1" || d.Status != "submitted" {
		t.Fatalf("unexpected design: %+v", d)
	}
}

// Validation failures are decided locally, so these run without a reachable
// provider and must never consume provider quota.
func TestIntegration_NonceValidationRejections(t *testing.T) {
	waitReady(t)
	u := baseURL()
	cases := []struct {
		name, body string
	}{
		{"missing_identity", `{"productId":"233"}`},
		{"unknown_product", `{"userId":"u1","userAgent":"it-agent","productId":"999"}`},
		{"missing_product", `{"userId":"u1","userAgent":"it-agent"}`},
		{"wrong_variant", `{"userId":"u1","userAgent":"it-agent","productId":"233","variantId":"4012"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, _ := http.NewRequest(http.MethodPost, u+"/generate-nonce", bytes.NewBufferString(tc.body))
			r.Header.Set("Content-Type", "application/json")
			resp, err := http.DefaultClient.Do(r)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("%s: expected 400, got %d", tc.name, resp.StatusCode)
			}
		})
	}
}

func TestIntegration_StrictDecoding_UnknownField(t *testing.T) {
	waitReady(t)
	u := baseURL()
	body := []byte(`{"userId":"u1","userAgent":"it-agent","productId":"233","unknown":"x"}`)
	r, err := http.NewRequest(http.MethodPost, u+"/generate-nonce", bytes.NewBuffer(body))
	if err != nil {
		t.Fatal(err)
	}
	r.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(r)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestIntegration_UnsupportedMediaType(t *testing.T) {
	waitReady(t)
	u := baseURL()
	r, _ := http.NewRequest(http.MethodPost, u+"/generate-nonce", bytes.NewBufferString("{}"))
	r.Header.Set("Content-Type", "text/plain")
	resp, err := http.DefaultClient.Do(r)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415, got %d", resp.StatusCode)
	}
}
