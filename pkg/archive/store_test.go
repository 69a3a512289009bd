package archive

import "testing"

func TestNewStoreRequiresSettings(t *testing.T) {
	cases := []struct {
		name                                  string
		endpoint, accessKey, secretKey, bucket string
	}{
		{"missing endpoint", "", "ak", "sk", "b"},
		{"missing credentials", "localhost:9000", "", "", "b"},
		{"missing bucket", "localhost:9000", "ak", "sk", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewStore(tc.endpoint, tc.accessKey, tc.secretKey, tc.bucket, false); err == nil {
				t.Fatal("expected configuration error")
			}
		})
	}
}

func TestContentType(t *testing.T) {
	cases := map[string]string{
		"report.pdf":  "application/pdf",
		"report.json": "application/json",
		"chart.PNG":   "image/png",
		"history.csv": "text/csv",
		"unknown.bin": "application/octet-stream",
	}

	for path, want := range cases {
		if got := contentType(path); got != want {
			t.Fatalf("contentType(%s) = %s, want %s", path, got, want)
		}
	}
}
