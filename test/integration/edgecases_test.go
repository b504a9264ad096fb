//go:build integration

package integration

import (
	"bytes"
	"net/http"
	"testing"
)

func TestIntegration_ValidationErrors(t *testing.T) {
	waitReady(t)
	u := baseURL()

	cases := []struct {
		name, body, ctype string
		want              int
	}{
		{"missing_product_id", `{}`, "application/json", http.StatusBadRequest},
		{"unknown_field", `{"product_id":"widget","qty":1}`, "application/json", http.StatusBadRequest},
		{"malformed_json", `{"product_id":"e3",`, "application/json", http.StatusBadRequest},
		{"no_price", `{"product_id":"never-seeded"}`, "application/json", http.StatusUnprocessableEntity},
		{"wrong_media_type", `{"product_id":"widget"}`, "text/plain", http.StatusUnsupportedMediaType},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, _ := http.NewRequest(http.MethodPost, u+"/pipeline/runs", bytes.NewBufferString(tc.body))
			r.Header.Set("Content-Type", tc.ctype)
			resp, err := http.DefaultClient.Do(r)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tc.want {
				t.Fatalf("%s: expected %d, got %d", tc.name, tc.want, resp.StatusCode)
			}
		})
	}
}
