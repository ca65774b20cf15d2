package recommend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientComplete(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		responseBody string
		wantErr      bool
		want         string
	}{
		{
			name:         "success",
			status:       http.StatusOK,
			responseBody: `{"choices":[{"message":{"role":"assistant","content":"Adele\nDrake"}}]}`,
			want:         "Adele\nDrake",
		},
		{
			name:         "api error payload",
			status:       http.StatusUnauthorized,
			responseBody: `{"error":{"message":"invalid api key","type":"invalid_request_error"}}`,
			wantErr:      true,
		},
		{
			name:         "empty choices",
			status:       http.StatusOK,
			responseBody: `{"choices":[]}`,
			want:         "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotReq chatRequest
			var gotAuth string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/chat/completions" || r.Method != http.MethodPost {
					w.WriteHeader(http.StatusNotFound)
					return
				}
				gotAuth = r.Header.Get("Authorization")
				if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
					w.WriteHeader(http.StatusBadRequest)
					return
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.responseBody))
			}))
			defer srv.Close()

			client := NewClient(testConfig()).WithBaseURL(srv.URL)
			got, err := client.Complete(context.Background(), "system prompt", "Mood: happy")

			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr = %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got != tt.want {
				t.Errorf("Complete = %q, want %q", got, tt.want)
			}
			if gotAuth != "Bearer test-key" {
				t.Errorf("Authorization = %q", gotAuth)
			}
			if gotReq.Model != DefaultModel {
				t.Errorf("model = %q", gotReq.Model)
			}
			if len(gotReq.Messages) != 2 ||
				gotReq.Messages[0].Role != "system" ||
				gotReq.Messages[1].Content != "Mood: happy" {
				t.Errorf("unexpected messages: %+v", gotReq.Messages)
			}
		})
	}
}
